package models

// ErrorKind classifies why a fetch did not produce weather data.
type ErrorKind string

const (
	KindTransport    ErrorKind = "transport"
	KindProvider     ErrorKind = "provider"
	KindUnexpected   ErrorKind = "unexpected"
	KindInvalidQuery ErrorKind = "invalid_query"
)

// WeatherResult is the outcome of a single fetch. It is either a Success or
// a Failure; no other type implements it.
type WeatherResult interface {
	isWeatherResult()
}

// Success carries the fields consumed from the provider. A nil pointer means
// the provider omitted the field.
type Success struct {
	CityName           string
	TemperatureCelsius *float64
	Description        *string
}

type Failure struct {
	Kind    ErrorKind
	Message string
}

func (Success) isWeatherResult() {}
func (Failure) isWeatherResult() {}

func NewSuccess(city string, temperature *float64, description *string) Success {
	return Success{
		CityName:           city,
		TemperatureCelsius: temperature,
		Description:        description,
	}
}

func NewFailure(kind ErrorKind, message string) Failure {
	return Failure{Kind: kind, Message: message}
}

// IsSuccess reports whether result holds weather data.
func IsSuccess(result WeatherResult) bool {
	_, ok := result.(Success)
	return ok
}

// Float and String return pointers to copies of v.
func Float(v float64) *float64 { return &v }
func String(v string) *string { return &v }

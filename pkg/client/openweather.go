package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bobby-s-dev/weather-report/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/bobby-s-dev/weather-report/pkg/client"

type OpenWeatherConfig struct {
	APIKey   string
	BaseURL  string
	Language string
	Client   ClientConfig

	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

type OpenWeatherClient struct {
	*BaseClient
	apiKey   string
	baseURL  string
	language string
	tracer   trace.Tracer
}

// OpenWeatherCurrentResponse holds the fields of /weather that the report
// uses. Pointers distinguish omitted values from zero values.
type OpenWeatherCurrentResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description *string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
}

type openWeatherErrorResponse struct {
	Message string `json:"message"`
}

func NewOpenWeatherClient(config OpenWeatherConfig, logger *zap.Logger) *OpenWeatherClient {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/data/2.5"
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &OpenWeatherClient{
		BaseClient: NewBaseClient("openweather", config.Client, logger),
		apiKey:     config.APIKey,
		baseURL:    baseURL,
		language:   config.Language,
		tracer:     tp.Tracer(tracerName),
	}
}

// Fetch returns the current weather for city. It never panics and always
// returns a result; failures are reported as models.Failure.
func (c *OpenWeatherClient) Fetch(ctx context.Context, city string) (result models.WeatherResult) {
	ctx, span := c.tracer.Start(ctx, "openweather.current",
		trace.WithAttributes(attribute.String("weather.city", city)))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = models.NewFailure(models.KindUnexpected, fmt.Sprintf("unexpected error: %v", r))
		}
		if f, ok := result.(models.Failure); ok {
			span.RecordError(errors.New(f.Message))
			span.SetStatus(codes.Error, string(f.Kind))
			c.logger.Warn("Weather fetch failed",
				zap.String("city", city),
				zap.String("kind", string(f.Kind)),
				zap.String("message", f.Message),
				zap.Duration("duration", time.Since(start)))
		} else {
			c.logger.Debug("Weather fetch succeeded",
				zap.String("city", city),
				zap.Duration("duration", time.Since(start)))
		}
		span.End()
	}()

	if city == "" {
		return models.NewFailure(models.KindInvalidQuery, "city name must not be empty")
	}

	resp, err := c.Get(ctx, c.currentURL(city))
	if err != nil {
		return models.NewFailure(models.KindTransport, fmt.Sprintf("transport error: %v", err))
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.NewFailure(models.KindProvider,
			fmt.Sprintf("provider rejected request (HTTP %d): %s", resp.StatusCode, providerMessage(resp)))
	}

	var response *OpenWeatherCurrentResponse
	if err := json.Unmarshal(resp.Body, &response); err != nil {
		return models.NewFailure(models.KindUnexpected, fmt.Sprintf("unexpected error: failed to parse response: %v", err))
	}
	if response == nil {
		return models.NewFailure(models.KindUnexpected, "unexpected error: response body is not a JSON object")
	}

	name := response.Name
	if name == "" {
		name = city
	}

	var temperature *float64
	if response.Main != nil {
		temperature = response.Main.Temp
	}

	var description *string
	if len(response.Weather) > 0 {
		description = response.Weather[0].Description
	}

	return models.NewSuccess(name, temperature, description)
}

func (c *OpenWeatherClient) currentURL(city string) string {
	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")
	if c.language != "" {
		query.Set("lang", c.language)
	}
	return c.baseURL + "/weather?" + query.Encode()
}

func providerMessage(resp Response) string {
	var body openWeatherErrorResponse
	if err := json.Unmarshal(resp.Body, &body); err == nil && body.Message != "" {
		return body.Message
	}
	if raw := strings.TrimSpace(string(resp.Body)); raw != "" {
		return raw
	}
	return http.StatusText(resp.StatusCode)
}

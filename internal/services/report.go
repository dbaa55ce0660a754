package services

import (
	"fmt"
	"strconv"

	"github.com/bobby-s-dev/weather-report/internal/models"
)

// Placeholder replaces a field the provider did not return.
const Placeholder = "N/A"

type reportTemplate struct {
	success string // city, description, temperature
	failure string // message
}

var reportTemplates = map[string]reportTemplate{
	"es": {
		success: "🌤️ El clima en %s es actualmente %s con una temperatura de %s°C.",
		failure: "Error: %s",
	},
	"en": {
		success: "🌤️ The weather in %s is currently %s with a temperature of %s°C.",
		failure: "Error: %s",
	},
}

// ReportFormatter turns a WeatherResult into the text shown to the user.
// Format has no side effects.
type ReportFormatter struct {
	tmpl reportTemplate
}

// NewReportFormatter picks the template for lang, falling back to Spanish.
func NewReportFormatter(lang string) *ReportFormatter {
	tmpl, ok := reportTemplates[lang]
	if !ok {
		tmpl = reportTemplates["es"]
	}
	return &ReportFormatter{tmpl: tmpl}
}

func (f *ReportFormatter) Format(result models.WeatherResult) string {
	switch r := result.(type) {
	case models.Success:
		return fmt.Sprintf(f.tmpl.success, r.CityName, descriptionText(r.Description), temperatureText(r.TemperatureCelsius))
	case models.Failure:
		return fmt.Sprintf(f.tmpl.failure, r.Message)
	default:
		return fmt.Sprintf(f.tmpl.failure, "no weather data")
	}
}

func temperatureText(t *float64) string {
	if t == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*t, 'f', -1, 64)
}

func descriptionText(d *string) string {
	if d == nil || *d == "" {
		return Placeholder
	}
	return *d
}

package services

import (
	"strings"
	"testing"

	"github.com/bobby-s-dev/weather-report/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFormat_Success(t *testing.T) {
	f := NewReportFormatter("es")

	report := f.Format(models.NewSuccess("Madrid", models.Float(21.5), models.String("cielo despejado")))

	assert.Equal(t, "🌤️ El clima en Madrid es actualmente cielo despejado con una temperatura de 21.5°C.", report)
}

func TestFormat_English(t *testing.T) {
	f := NewReportFormatter("en")

	report := f.Format(models.NewSuccess("London", models.Float(-3), models.String("light rain")))

	assert.Equal(t, "🌤️ The weather in London is currently light rain with a temperature of -3°C.", report)
}

func TestFormat_UnknownLanguageFallsBackToSpanish(t *testing.T) {
	assert.Equal(t, NewReportFormatter("es"), NewReportFormatter("xx"))
}

func TestFormat_MissingFields(t *testing.T) {
	testCases := []struct {
		name        string
		result      models.Success
		contains    []string
		notContains []string
	}{
		{
			name:     "no temperature",
			result:   models.NewSuccess("Madrid", nil, models.String("nubes")),
			contains: []string{"Madrid", "nubes", Placeholder + "°C"},
		},
		{
			name:     "no description",
			result:   models.NewSuccess("Madrid", models.Float(12), nil),
			contains: []string{"Madrid", "actualmente " + Placeholder, "12°C"},
		},
		{
			name:     "empty description",
			result:   models.NewSuccess("Madrid", models.Float(12), models.String("")),
			contains: []string{"actualmente " + Placeholder},
		},
		{
			name:     "nothing but a city",
			result:   models.NewSuccess("Oslo", nil, nil),
			contains: []string{"Oslo", Placeholder},
		},
		{
			name:        "zero degrees is a value",
			result:      models.NewSuccess("Oslo", models.Float(0), models.String("nieve")),
			contains:    []string{"0°C"},
			notContains: []string{Placeholder},
		},
	}

	f := NewReportFormatter("es")
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var report string
			assert.NotPanics(t, func() { report = f.Format(tc.result) })
			for _, s := range tc.contains {
				assert.Contains(t, report, s)
			}
			for _, s := range tc.notContains {
				assert.NotContains(t, report, s)
			}
		})
	}
}

func TestFormat_Failure(t *testing.T) {
	messages := []string{
		"provider rejected request (HTTP 404): city not found",
		"transport error: GET api.openweathermap.org: context deadline exceeded",
		"",
		"<b>markup</b> 100%",
	}

	for _, lang := range []string{"es", "en"} {
		f := NewReportFormatter(lang)
		for _, msg := range messages {
			report := f.Format(models.NewFailure(models.KindProvider, msg))
			assert.True(t, strings.HasPrefix(report, "Error: "), report)
			assert.Contains(t, report, msg)
		}
	}
}

func TestFormat_NilResult(t *testing.T) {
	assert.Equal(t, "Error: no weather data", NewReportFormatter("es").Format(nil))
}

func TestFormat_SuccessNeverMentionsError(t *testing.T) {
	results := []models.Success{
		models.NewSuccess("Madrid", models.Float(21.5), models.String("cielo despejado")),
		models.NewSuccess("Madrid", nil, nil),
		models.NewSuccess("Reykjavik", models.Float(-10.25), models.String("snow")),
	}

	for _, lang := range []string{"es", "en"} {
		f := NewReportFormatter(lang)
		for _, r := range results {
			report := f.Format(r)
			assert.Contains(t, report, r.CityName)
			assert.NotContains(t, strings.ToLower(report), "error")
		}
	}
}

func TestFormat_Deterministic(t *testing.T) {
	f := NewReportFormatter("es")
	results := []models.WeatherResult{
		models.NewSuccess("Madrid", models.Float(21.5), models.String("cielo despejado")),
		models.NewSuccess("Madrid", nil, nil),
		models.NewFailure(models.KindTransport, "transport error: timeout"),
	}

	for _, r := range results {
		assert.Equal(t, f.Format(r), f.Format(r))
	}
}

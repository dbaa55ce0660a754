package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bobby-s-dev/weather-report/internal/models"
	"github.com/bobby-s-dev/weather-report/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubFetcher struct {
	result models.WeatherResult
	cities []string
}

func (s *stubFetcher) Fetch(_ context.Context, city string) models.WeatherResult {
	s.cities = append(s.cities, city)
	return s.result
}

func TestPipeline_ComposesFetchAndFormat(t *testing.T) {
	fetcher := &stubFetcher{result: models.NewSuccess("Madrid", models.Float(21.5), models.String("cielo despejado"))}
	p := NewPipeline(fetcher, NewReportFormatter("es"), zap.NewNop())

	result, report := p.Result(context.Background(), "Madrid")

	assert.Equal(t, fetcher.result, result)
	assert.Equal(t, NewReportFormatter("es").Format(fetcher.result), report)
	assert.Equal(t, []string{"Madrid"}, fetcher.cities)
}

func newPipelineAgainst(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Pipeline {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	fetcher := client.NewOpenWeatherClient(client.OpenWeatherConfig{
		APIKey:   "test-api-key",
		BaseURL:  srv.URL,
		Language: "es",
		Client:   client.ClientConfig{Timeout: timeout},
	}, zap.NewNop())
	return NewPipeline(fetcher, NewReportFormatter("es"), zap.NewNop())
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	testCases := []struct {
		name        string
		city        string
		handler     http.HandlerFunc
		timeout     time.Duration
		contains    []string
		notContains []string
	}{
		{
			name:     "known city",
			city:     "Madrid",
			handler:  respond(200, `{"name":"Madrid","main":{"temp":21.5},"weather":[{"description":"cielo despejado"}]}`),
			contains: []string{"Madrid", "21.5", "cielo despejado"},
		},
		{
			name:        "unknown city",
			city:        "Zzzznotacity",
			handler:     respond(404, `{"cod":"404","message":"city not found"}`),
			contains:    []string{"Error: ", "city not found", "404"},
			notContains: []string{"°C"},
		},
		{
			name: "provider times out",
			city: "Madrid",
			handler: func(w http.ResponseWriter, r *http.Request) {
				<-r.Context().Done()
			},
			timeout:     50 * time.Millisecond,
			contains:    []string{"Error: ", "transport error"},
			notContains: []string{"°C", "Madrid"},
		},
		{
			name:        "temperature missing",
			city:        "Madrid",
			handler:     respond(200, `{"name":"Madrid","main":{},"weather":[{"description":"nubes dispersas"}]}`),
			contains:    []string{"Madrid", "nubes dispersas", Placeholder + "°C"},
			notContains: []string{"Error"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			timeout := tc.timeout
			if timeout == 0 {
				timeout = 2 * time.Second
			}
			p := newPipelineAgainst(t, tc.handler, timeout)

			var report string
			require.NotPanics(t, func() { report = p.Run(context.Background(), tc.city) })

			for _, s := range tc.contains {
				assert.Contains(t, report, s)
			}
			for _, s := range tc.notContains {
				assert.NotContains(t, report, s)
			}
		})
	}
}

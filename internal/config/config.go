package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	DefaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	DefaultWeatherTimeout = 10 * time.Second
)

var ErrMissingWeatherKey = errors.New("WEATHER_API_KEY is required")

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		LogLevel     string
	}

	WeatherAPI struct {
		APIKey   string
		BaseURL  string
		Language string
		Timeout  time.Duration
	}

	LLM struct {
		OpenAIAPIKey string
		Model        string
		BaseURL      string
	}

	CircuitBreaker struct {
		Threshold int
		Timeout   time.Duration
	}

	Probe struct {
		Schedule string
		City     string
	}

	Telemetry struct {
		ServiceName  string
		OTLPEndpoint string
	}
}

// LoadConfig reads a .env file when present and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	cfg.Server.Port = getEnv("PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("WRITE_TIMEOUT", "30s"))
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	cfg.WeatherAPI.APIKey = getEnv("WEATHER_API_KEY", getEnv("OPENWEATHER_API_KEY", ""))
	cfg.WeatherAPI.BaseURL = getEnv("WEATHER_BASE_URL", DefaultWeatherBaseURL)
	cfg.WeatherAPI.Language = getEnv("WEATHER_LANG", "es")
	cfg.WeatherAPI.Timeout = positiveDuration(getEnv("WEATHER_TIMEOUT", "10s"), DefaultWeatherTimeout)

	cfg.LLM.OpenAIAPIKey = getEnv("OPENAI_API_KEY", "")
	cfg.LLM.Model = getEnv("OPENAI_MODEL", "gpt-4o")
	cfg.LLM.BaseURL = getEnv("OPENAI_BASE_URL", "")

	cfg.CircuitBreaker.Threshold = parseInt(getEnv("CIRCUIT_BREAKER_THRESHOLD", "0"))
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	cfg.Probe.Schedule = getEnv("PROBE_SCHEDULE", "")
	cfg.Probe.City = getEnv("PROBE_CITY", "Madrid")

	cfg.Telemetry.ServiceName = getEnv("OTEL_SERVICE_NAME", "weather-report")
	cfg.Telemetry.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	if cfg.WeatherAPI.APIKey == "" {
		return nil, ErrMissingWeatherKey
	}
	if cfg.LLM.OpenAIAPIKey == "" {
		zap.L().Warn("OPENAI_API_KEY not set, report narration disabled")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

// positiveDuration is parseDuration for settings where zero would mean
// "wait forever".
func positiveDuration(value string, fallback time.Duration) time.Duration {
	duration := parseDuration(value)
	if duration <= 0 {
		zap.L().Warn("Duration must be positive, using default",
			zap.String("value", value),
			zap.Duration("default", fallback))
		return fallback
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobby-s-dev/weather-report/internal/api"
	"github.com/bobby-s-dev/weather-report/internal/config"
	"github.com/bobby-s-dev/weather-report/internal/scheduler"
	"github.com/bobby-s-dev/weather-report/internal/services"
	"github.com/bobby-s-dev/weather-report/internal/telemetry"
	"github.com/bobby-s-dev/weather-report/pkg/client"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Initialize logger
	zapConfig := zap.NewProductionConfig()
	logger, _ := zapConfig.Build()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting Weather Report Service")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	if level, err := zapcore.ParseLevel(cfg.Server.LogLevel); err == nil {
		zapConfig.Level.SetLevel(level)
	} else {
		logger.Warn("Unknown log level, keeping info", zap.String("level", cfg.Server.LogLevel))
	}

	shutdownTracing, err := telemetry.InitProvider(context.Background(), cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	fetcher := client.NewOpenWeatherClient(client.OpenWeatherConfig{
		APIKey:   cfg.WeatherAPI.APIKey,
		BaseURL:  cfg.WeatherAPI.BaseURL,
		Language: cfg.WeatherAPI.Language,
		Client: client.ClientConfig{
			Timeout:        cfg.WeatherAPI.Timeout,
			Threshold:      cfg.CircuitBreaker.Threshold,
			BreakerTimeout: cfg.CircuitBreaker.Timeout,
		},
	}, logger)

	pipeline := services.NewPipeline(fetcher, services.NewReportFormatter(cfg.WeatherAPI.Language), logger)

	var narrator services.Narrator
	if n := services.NewOpenAINarrator(cfg.LLM.OpenAIAPIKey, cfg.LLM.Model, cfg.LLM.BaseURL, logger); n != nil {
		narrator = n
		logger.Info("Report narration enabled", zap.String("model", cfg.LLM.Model))
	}

	var prober *scheduler.Scheduler
	var status api.StatusReporter
	if cfg.Probe.Schedule != "" {
		prober = scheduler.NewScheduler(fetcher, cfg.Probe.Schedule, cfg.Probe.City, logger)
		if err := prober.Start(); err != nil {
			logger.Fatal("Failed to start provider probe", zap.Error(err))
		}
		status = prober
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: api.ErrorHandler,
	})

	handler := api.NewHandler(pipeline, narrator, status, logger)
	api.SetupRoutes(app, handler, logger)

	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if prober != nil {
		prober.Stop()
	}

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	if err := shutdownTracing(ctx); err != nil {
		logger.Error("Tracing shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

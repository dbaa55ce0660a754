package services

import (
	"context"
	"time"

	"github.com/bobby-s-dev/weather-report/internal/models"
	"go.uber.org/zap"
)

type WeatherFetcher interface {
	Fetch(ctx context.Context, city string) models.WeatherResult
}

// Pipeline runs fetch then format for one city.
type Pipeline struct {
	fetcher   WeatherFetcher
	formatter *ReportFormatter
	logger    *zap.Logger
}

func NewPipeline(fetcher WeatherFetcher, formatter *ReportFormatter, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		formatter: formatter,
		logger:    logger,
	}
}

// Run returns the report for city.
func (p *Pipeline) Run(ctx context.Context, city string) string {
	_, report := p.Result(ctx, city)
	return report
}

// Result is Run for callers that also need the structured result.
func (p *Pipeline) Result(ctx context.Context, city string) (models.WeatherResult, string) {
	start := time.Now()
	result := p.fetcher.Fetch(ctx, city)
	report := p.formatter.Format(result)

	outcome := "success"
	if f, ok := result.(models.Failure); ok {
		outcome = string(f.Kind)
	}
	p.logger.Info("Weather report generated",
		zap.String("city", city),
		zap.String("outcome", outcome),
		zap.Duration("duration", time.Since(start)))

	return result, report
}

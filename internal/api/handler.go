package api

import (
	"context"
	"time"

	"github.com/bobby-s-dev/weather-report/internal/models"
	"github.com/bobby-s-dev/weather-report/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

type ReportPipeline interface {
	Result(ctx context.Context, city string) (models.WeatherResult, string)
}

type StatusReporter interface {
	GetStatus() map[string]interface{}
}

type Handler struct {
	pipeline ReportPipeline
	narrator services.Narrator
	prober   StatusReporter
	logger   *zap.Logger
}

// NewHandler wires the HTTP handlers. narrator and prober may be nil.
func NewHandler(pipeline ReportPipeline, narrator services.Narrator, prober StatusReporter, logger *zap.Logger) *Handler {
	return &Handler{
		pipeline: pipeline,
		narrator: narrator,
		prober:   prober,
		logger:   logger,
	}
}

// GetReport handles GET /api/v1/weather/report
func (h *Handler) GetReport(c *fiber.Ctx) error {
	city := cityParam(c)
	if city == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "City parameter is required",
		})
	}

	result, report := h.pipeline.Result(c.UserContext(), city)
	report = h.maybeNarrate(c, result, report)

	body := fiber.Map{
		"city":    city,
		"report":  report,
		"success": models.IsSuccess(result),
	}
	if f, ok := result.(models.Failure); ok {
		body["kind"] = f.Kind
	}
	return c.JSON(body)
}

// GetCurrentWeather handles GET /api/v1/weather/current
func (h *Handler) GetCurrentWeather(c *fiber.Ctx) error {
	city := cityParam(c)
	if city == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "City parameter is required",
		})
	}

	result, _ := h.pipeline.Result(c.UserContext(), city)
	return c.JSON(resultView(result))
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	body := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
		"narration": h.narrator != nil,
	}
	if h.prober != nil {
		body["probe"] = h.prober.GetStatus()
	}
	return c.JSON(body)
}

// maybeNarrate rephrases successful reports when the caller asks for it.
// Failure messages are always shown verbatim.
func (h *Handler) maybeNarrate(c *fiber.Ctx, result models.WeatherResult, report string) string {
	if !c.QueryBool("narrate") || !models.IsSuccess(result) {
		return report
	}
	return services.NarrateOrPlain(c.UserContext(), h.narrator, report, h.logger)
}

// cityParam copies the city out of the request buffer, which fasthttp reuses
// once the handler returns. The value outlives the request in spans and logs.
func cityParam(c *fiber.Ctx) string {
	return utils.CopyString(c.Query("city"))
}

func resultView(result models.WeatherResult) fiber.Map {
	switch r := result.(type) {
	case models.Success:
		return fiber.Map{
			"status":              "success",
			"city":                r.CityName,
			"temperature_celsius": r.TemperatureCelsius,
			"description":         r.Description,
		}
	case models.Failure:
		return fiber.Map{
			"status":  "failure",
			"kind":    r.Kind,
			"message": r.Message,
		}
	default:
		return fiber.Map{
			"status":  "failure",
			"kind":    models.KindUnexpected,
			"message": "no weather data",
		}
	}
}

var startTime = time.Now()

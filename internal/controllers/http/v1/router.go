package http

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "seasonal-anomaly/docs"
	"seasonal-anomaly/internal/metrics"
	"seasonal-anomaly/internal/services/analysis"
	"seasonal-anomaly/pkg/logger"
)

type routes struct {
	service  *analysis.Service
	validate *validator.Validate
	l        *logger.Logger
}

func NewRouter(
	app *fiber.App,
	analysisService *analysis.Service,
	l *logger.Logger,
) {
	r := &routes{
		service:  analysisService,
		validate: validator.New(),
		l:        l,
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes
	v1 := app.Group("/api/v1", observeRequests)
	v1.Post("/datasets/cities", r.handleListCities)
	v1.Post("/analysis", r.handleAnalyze)
	v1.Post("/classify", r.handleClassify)
}

func observeRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	route := c.Route().Path
	metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
	metrics.RequestDurationSeconds.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())

	return err
}

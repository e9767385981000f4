package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gradeflow/gradeflow-api/internal/config"
	"github.com/gradeflow/gradeflow-api/internal/handler"
	"github.com/gradeflow/gradeflow-api/internal/middleware"
	"github.com/gradeflow/gradeflow-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EvaluationHandler *handler.EvaluationHandler
	StatisticsHandler *handler.StatisticsHandler
	EventFeedHandler  *handler.EventFeedHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.EvaluationHandler != nil {
		evaluations := api.Group("/evaluations",
			jwtMiddleware,
			middleware.RateLimit("evaluations", 120, time.Minute),
		)
		deps.EvaluationHandler.Register(evaluations, middleware.RequireRole("teacher", "admin"))
	}

	if deps.StatisticsHandler != nil {
		statistics := api.Group("/statistics", jwtMiddleware)
		deps.StatisticsHandler.Register(statistics)
	}

	app.Get("/metrics", observability.MetricsHandler())

	// Websocket clients cannot set custom headers, so the feed skips JWT.
	if deps.EventFeedHandler != nil {
		feed := app.Group("/ws")
		deps.EventFeedHandler.Register(feed)
	}
}

package routes

import (
	"skill-swap/internal/delivery/http/handler"
	v1 "skill-swap/internal/delivery/http/routes/v1"
	"skill-swap/internal/infrastructure/metrics"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

type Registry struct {
	health  *handler.HealthHandler
	metrics *metrics.Metrics
	v1      v1.Handlers
}

func NewRegistry(health *handler.HealthHandler, m *metrics.Metrics, api v1.Handlers) *Registry {
	return &Registry{health: health, metrics: m, v1: api}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerMetrics(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health == nil {
		return
	}
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerMetrics(app *fiber.App) {
	if r.metrics == nil {
		return
	}
	app.Get("/metrics", adaptor.HTTPHandler(r.metrics.Handler()))
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.v1)
}

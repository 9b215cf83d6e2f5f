package v1

import (
	"skill-swap/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// Handlers is everything mounted under /api/v1. Auth guards every group
// except /auth.
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Matches   *handler.MatchHandler
	Skills    *handler.SkillHandler
	Exchanges *handler.ExchangeHandler

	AuthMiddleware fiber.Handler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	protected := r
	if h.AuthMiddleware != nil {
		protected = r.Group("", h.AuthMiddleware)
	}

	if h.Users != nil {
		h.Users.RegisterRoutes(protected.Group("/users"))
	}
	if h.Matches != nil {
		h.Matches.RegisterRoutes(protected)
	}
	if h.Skills != nil {
		h.Skills.RegisterRoutes(protected)
	}
	if h.Exchanges != nil {
		h.Exchanges.RegisterRoutes(protected)
	}
}

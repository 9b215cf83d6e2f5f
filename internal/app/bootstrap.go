package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"skill-swap/internal/config"
	"skill-swap/internal/delivery/http/handler"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/delivery/http/routes"
	v1 "skill-swap/internal/delivery/http/routes/v1"
	"skill-swap/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	WS        *http.Server
	Container *Container
}

// New builds the HTTP application around an existing container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	a := &App{Fiber: f, Container: c}
	if c.Config.App.WSPort != "" {
		addr, err := ListenAddr(c.Config.App.WSPort)
		if err == nil {
			a.WS = &http.Server{
				Addr:              addr,
				Handler:           ws.NewServeMux(ws.NewHandler(c.Hub, c.JWT, c.Logger)),
				ReadHeaderTimeout: 5 * time.Second,
			}
		}
	}
	return a
}

// Bootstrap wires the container and the app. The returned cleanup releases
// the container once the servers have stopped.
func Bootstrap(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(c.Logger, c.Metrics)
	errMw := middleware.NewErrorMiddleware(c.Logger)
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	var db, cacheStatus handler.Pinger
	if c.DB != nil {
		db = c.DB
	}
	if c.Cache.Available() {
		cacheStatus = c.Cache
	}

	authMw := middleware.NewAuthMiddleware(c.JWT)
	routes.NewRegistry(
		handler.NewHealthHandler(db, cacheStatus),
		c.Metrics,
		v1.Handlers{
			Auth:           handler.NewAuthHandler(c.Auth),
			Users:          handler.NewUserHandler(c.Profiles),
			Matches:        handler.NewMatchHandler(c.Matching),
			Skills:         handler.NewSkillHandler(c.Skills),
			Exchanges:      handler.NewExchangeHandler(c.Exchanges),
			AuthMiddleware: authMw.Middleware(),
		},
	).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}

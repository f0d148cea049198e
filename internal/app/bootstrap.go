package app

import (
	"fmt"
	"strings"

	"volunteer-hub/internal/delivery/http/handler"
	"volunteer-hub/internal/delivery/http/middleware"
	"volunteer-hub/internal/delivery/http/routes"
	v1 "volunteer-hub/internal/delivery/http/routes/v1"
	"volunteer-hub/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName: c.Config.App.AppName,
	})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger.Named("http")).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	health := handler.NewHealthHandler(map[string]handler.Pinger{
		"database": c.DB,
		"redis":    c.Redis,
	})

	routes.NewRegistry(health, ws.NewHandler(c.Hub, c.Logger.Named("ws")), v1.Handlers{
		Auth:           handler.NewAuthHandler(c.Auth),
		User:           handler.NewUserHandler(c.Users),
		Opportunity:    handler.NewOpportunityHandler(c.Opportunities),
		Admin:          handler.NewAdminHandler(c.Admin),
		Contact:        handler.NewContactHandler(c.Contact),
		AuthMiddleware: middleware.NewAuthMiddleware(c.JWT, c.Sessions, c.Logger),
	}).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}

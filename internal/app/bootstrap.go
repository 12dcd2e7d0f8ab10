package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"

	"ats-gateway/internal/config"
	"ats-gateway/internal/database/migration"
	"ats-gateway/internal/database/seeder"
	"ats-gateway/internal/delivery/http/handler"
	"ats-gateway/internal/delivery/http/middleware"
	"ats-gateway/internal/delivery/http/routes"
	"ats-gateway/internal/pkg/jsonx"
	"ats-gateway/internal/pkg/logger"
	"ats-gateway/internal/ws"
	"ats-gateway/migrations"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP app over an already wired container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:     c.Config.App.AppName,
		JSONEncoder: json.Marshal,
		JSONDecoder: jsonx.Unmarshal,
	})

	registerGlobalMiddleware(f, c.Config, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires dependencies, migrates and seeds the database, and starts
// the websocket hub. The returned cleanup stops the hub and closes
// connections.
func Bootstrap(ctx context.Context, cfg config.Config, lggr logger.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, lggr)
	if err != nil {
		return nil, nil, err
	}

	if err := Prepare(ctx, c); err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return New(c), cleanup, nil
}

// Prepare applies pending migrations and runs the seeders.
func Prepare(ctx context.Context, c *Container) error {
	n, err := migration.Runner{Source: migrations.FS, Logger: c.Logger}.Run(ctx, c.DB.SQLDB())
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	c.Logger.Infow("database migrated", "applied", n)

	seeds := seeder.Runner{Seeders: seeder.Defaults(c.Config.Bootstrap), Logger: c.Logger}
	if err := seeds.Run(ctx, c.DB); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, lggr logger.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(lggr).Middleware())
	app.Use(middleware.NewErrorMiddleware(lggr).Middleware())
	if len(cfg.App.CORSAllowOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.App.CORSAllowOrigins,
			AllowHeaders:  []string{fiber.HeaderAuthorization, fiber.HeaderContentType, middleware.HeaderRequestID},
			ExposeHeaders: []string{middleware.HeaderRequestID, handler.HeaderUpstreamStatus},
		}))
	}
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	health := map[string]handler.Pinger{"database": c.DB, "redis": c.Redis}

	routes.NewRegistry(routes.Handlers{
		Health:         handler.NewHealthHandler(health),
		Auth:           handler.NewAuthHandler(c.Auth),
		Account:        handler.NewAccountHandler(c.Account),
		Resources:      handler.NewResourceHandler(c.Gateway, c.Audits),
		Invoices:       handler.NewInvoiceTemplateHandler(),
		Events:         ws.NewHandler(c.Hub, c.Config.App.CORSAllowOrigins),
		AuthMiddleware: middleware.NewAuthMiddleware(c.Auth),
	}).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", errors.New("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}

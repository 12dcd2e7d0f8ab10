package routes

import (
	"github.com/gofiber/fiber/v3"

	"ats-gateway/internal/delivery/http/handler"
	"ats-gateway/internal/delivery/http/middleware"
	"ats-gateway/internal/ws"
)

// Handlers is everything the router mounts. Nil handlers are skipped.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Account   *handler.AccountHandler
	Resources *handler.ResourceHandler
	Invoices  *handler.InvoiceTemplateHandler
	Events    *ws.Handler

	AuthMiddleware *middleware.AuthMiddleware
}

type Registry struct {
	h Handlers
}

func NewRegistry(h Handlers) *Registry {
	return &Registry{h: h}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerEvents(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.h.Health != nil {
		r.h.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.h)
}

func (r *Registry) registerEvents(app *fiber.App) {
	if r.h.Events == nil || r.h.AuthMiddleware == nil {
		return
	}
	app.Get("/ws/events", r.h.AuthMiddleware.WithQueryToken().Middleware(), r.h.Events.HandleEvents)
}

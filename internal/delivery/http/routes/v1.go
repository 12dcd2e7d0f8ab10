package routes

import (
	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}
	if h.Account != nil {
		h.Account.RegisterRoutes(r.Group("/account"))
	}

	if h.AuthMiddleware == nil {
		return
	}
	protected := r.Group("", h.AuthMiddleware.Middleware())

	if h.Auth != nil {
		h.Auth.RegisterProtectedRoutes(protected)
	}
	if h.Resources != nil {
		h.Resources.RegisterRoutes(protected)
	}
	if h.Invoices != nil {
		h.Invoices.RegisterRoutes(protected.Group("/invoice-templates"))
	}
}

package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"ats-gateway/internal/delivery/http/middleware"
	"ats-gateway/internal/invoice"
	"ats-gateway/internal/pkg/response"
)

type InvoiceTemplateHandler struct{}

func NewInvoiceTemplateHandler() *InvoiceTemplateHandler {
	return &InvoiceTemplateHandler{}
}

func (h *InvoiceTemplateHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/default", h.Default)
	r.Post("/validate", h.Validate)
}

func (h *InvoiceTemplateHandler) Default(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, invoice.Default())
}

func (h *InvoiceTemplateHandler) Validate(c fiber.Ctx) error {
	var tpl invoice.Template
	if err := c.Bind().Body(&tpl); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := tpl.Validate(); err != nil {
		var verr *invoice.ValidationError
		if errors.As(err, &verr) {
			return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Invalid invoice template", verr.Problems, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, tpl)
}

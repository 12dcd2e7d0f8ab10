package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"ats-gateway/internal/ats"
	"ats-gateway/internal/delivery/http/middleware"
	"ats-gateway/internal/domain/audit"
	"ats-gateway/internal/pkg/response"
	"ats-gateway/internal/session"
	"ats-gateway/internal/usecase/gateway"
)

type GatewayUsecase interface {
	Resources() []gateway.ResourceInfo
	FetchOne(ctx context.Context, name, id string) (ats.Result, error)
	FetchAll(ctx context.Context, name string) (ats.ListResult, error)
	FetchByParent(ctx context.Context, name, parent, parentID string) (ats.ListResult, error)
	Lookup(ctx context.Context, name, key, value string) (ats.Result, error)
	Create(ctx context.Context, name string, payload ats.Record) (ats.Result, error)
	Update(ctx context.Context, name, id string, payload ats.Record) (ats.Result, error)
	Delete(ctx context.Context, name, id string) (ats.Result, error)
}

type AuditLister interface {
	ListByResource(ctx context.Context, resource string, limit int) ([]audit.Entry, error)
}

type ResourceHandler struct {
	uc     GatewayUsecase
	audits AuditLister
}

// NewResourceHandler accepts a nil audits; the audit route then answers 503.
func NewResourceHandler(uc GatewayUsecase, audits AuditLister) *ResourceHandler {
	return &ResourceHandler{uc: uc, audits: audits}
}

func (h *ResourceHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/audit/:resource", h.ListAudit)

	g := r.Group("/resources")
	g.Get("/", h.List)
	g.Get("/:resource", h.FetchAll)
	g.Post("/:resource", h.Create)
	g.Get("/:resource/by/:parent/:parentId", h.FetchByParent)
	g.Get("/:resource/lookup/:key/:value", h.Lookup)
	g.Get("/:resource/:id", h.FetchOne)
	g.Put("/:resource/:id", h.Update)
	g.Delete("/:resource/:id", h.Delete)
}

func (h *ResourceHandler) List(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.uc.Resources())
}

func (h *ResourceHandler) FetchAll(c fiber.Ctx) error {
	res, err := h.uc.FetchAll(c.Context(), c.Params("resource"))
	if err != nil {
		return mapGatewayError(err)
	}
	return writeResult(c, res)
}

func (h *ResourceHandler) FetchOne(c fiber.Ctx) error {
	res, err := h.uc.FetchOne(c.Context(), c.Params("resource"), c.Params("id"))
	if err != nil {
		return mapGatewayError(err)
	}
	return writeResult(c, res)
}

func (h *ResourceHandler) FetchByParent(c fiber.Ctx) error {
	res, err := h.uc.FetchByParent(c.Context(), c.Params("resource"), c.Params("parent"), c.Params("parentId"))
	if err != nil {
		return mapGatewayError(err)
	}
	return writeResult(c, res)
}

func (h *ResourceHandler) Lookup(c fiber.Ctx) error {
	res, err := h.uc.Lookup(c.Context(), c.Params("resource"), c.Params("key"), c.Params("value"))
	if err != nil {
		return mapGatewayError(err)
	}
	return writeResult(c, res)
}

func (h *ResourceHandler) Create(c fiber.Ctx) error {
	payload, err := recordBody(c)
	if err != nil {
		return err
	}
	res, err := h.uc.Create(c.Context(), c.Params("resource"), payload)
	if err != nil {
		return mapGatewayError(err)
	}
	return writeResult(c, res)
}

func (h *ResourceHandler) Update(c fiber.Ctx) error {
	payload, err := recordBody(c)
	if err != nil {
		return err
	}
	res, err := h.uc.Update(c.Context(), c.Params("resource"), c.Params("id"), payload)
	if err != nil {
		return mapGatewayError(err)
	}
	return writeResult(c, res)
}

func (h *ResourceHandler) Delete(c fiber.Ctx) error {
	res, err := h.uc.Delete(c.Context(), c.Params("resource"), c.Params("id"))
	if err != nil {
		return mapGatewayError(err)
	}
	return writeResult(c, res)
}

func (h *ResourceHandler) ListAudit(c fiber.Ctx) error {
	if h.audits == nil {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Audit trail unavailable", nil, nil)
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			return middleware.NewAppError(fiber.StatusBadRequest, "limit must be between 1 and 500", nil, err)
		}
		limit = n
	}
	entries, err := h.audits.ListByResource(c.Context(), c.Params("resource"), limit)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, entries)
}

func recordBody(c fiber.Ctx) (ats.Record, error) {
	var payload ats.Record
	if err := c.Bind().Body(&payload); err != nil {
		return nil, middleware.NewAppError(fiber.StatusBadRequest, "Body must be a JSON object", nil, err)
	}
	if payload == nil {
		return nil, middleware.NewAppError(fiber.StatusBadRequest, "Body must be a JSON object", nil, nil)
	}
	return payload, nil
}

func mapGatewayError(err error) error {
	switch {
	case errors.Is(err, ats.ErrUnknownResource):
		return middleware.NewAppError(fiber.StatusNotFound, "Unknown resource", nil, err)
	case errors.Is(err, session.ErrNoSession):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
}

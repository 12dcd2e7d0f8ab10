package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"

	"ats-gateway/internal/ats"
	"ats-gateway/internal/delivery/http/middleware"
	"ats-gateway/internal/usecase/account"
)

type AccountUsecase interface {
	ForgotPassword(ctx context.Context, emailOrUserName string) (ats.Result, error)
	ResetPassword(ctx context.Context, payload ats.Record) ats.Result
}

type AccountHandler struct {
	uc AccountUsecase
}

type forgotPasswordRequest struct {
	EmailOrUserName string `json:"emailOrUserName" validate:"required"`
}

func NewAccountHandler(uc AccountUsecase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

func (h *AccountHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/forgot-password", h.ForgotPassword)
	r.Post("/reset-password", h.ResetPassword)
}

func (h *AccountHandler) ForgotPassword(c fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	res, err := h.uc.ForgotPassword(c.Context(), req.EmailOrUserName)
	if err != nil {
		if errors.Is(err, account.ErrThrottled) {
			return middleware.NewAppError(fiber.StatusTooManyRequests, "Password reset already requested, try again later", nil, err)
		}
		return err
	}
	return writeResult(c, res)
}

// ResetPassword forwards the body untouched; the upstream owns its shape.
func (h *AccountHandler) ResetPassword(c fiber.Ctx) error {
	var payload ats.Record
	if err := c.Bind().Body(&payload); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	return writeResult(c, h.uc.ResetPassword(c.Context(), payload))
}

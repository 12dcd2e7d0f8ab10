package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"ats-gateway/internal/delivery/http/middleware"
	"ats-gateway/internal/domain/operator"
	"ats-gateway/internal/pkg/response"
	"ats-gateway/internal/session"
	ucauth "ats-gateway/internal/usecase/auth"
)

type AuthUsecase interface {
	Login(ctx context.Context, in ucauth.LoginInput) (operator.Operator, ucauth.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (ucauth.Tokens, error)
	Logout(ctx context.Context, sess session.Session, refreshToken string) error
	Me(ctx context.Context, id uuid.UUID) (operator.Operator, error)
}

type AuthHandler struct {
	uc AuthUsecase
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type operatorResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
}

func toOperatorResponse(op operator.Operator) operatorResponse {
	return operatorResponse{ID: op.ID, Email: op.Email, FullName: op.FullName, Role: op.Role}
}

func NewAuthHandler(uc AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// RegisterRoutes mounts the public endpoints; Logout and Me go on a group
// behind the auth middleware.
func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
}

func (h *AuthHandler) RegisterProtectedRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/auth/logout", h.Logout)
	r.Get("/me", h.Me)
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	op, tokens, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	data := map[string]any{
		"operator":      toOperatorResponse(op),
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"token_type":    tokens.TokenType,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, ok := middleware.BearerToken(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	tokens, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, tokens)
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	sess, err := session.MustFrom(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	}
	var req logoutRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if err := h.uc.Logout(c.Context(), sess, req.RefreshToken); err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	sess, err := session.MustFrom(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	}
	op, err := h.uc.Me(c.Context(), sess.OperatorID)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toOperatorResponse(op))
}

func mapAuthUsecaseError(err error) error {
	switch {
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid credentials", nil, err)
	case errors.Is(err, ucauth.ErrRefreshTokenExpired):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
	case errors.Is(err, ucauth.ErrInvalidRefreshToken):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
	case errors.Is(err, ucauth.ErrTokenRevoked):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Token revoked", nil, err)
	case errors.Is(err, ucauth.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"ats-gateway/internal/session"
	ucauth "ats-gateway/internal/usecase/auth"
)

// Authenticator resolves an access token to a session.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (session.Session, error)
}

const queryAccessToken = "access_token"

type AuthMiddleware struct {
	auth       Authenticator
	allowQuery bool
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// WithQueryToken also accepts the token from the access_token query parameter.
// Browsers cannot set headers on websocket upgrades.
func (m *AuthMiddleware) WithQueryToken() *AuthMiddleware {
	return &AuthMiddleware{auth: m.auth, allowQuery: true}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if !ok && m.allowQuery {
			token = strings.TrimSpace(c.Query(queryAccessToken))
			ok = token != ""
		}
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		sess, err := m.auth.Authenticate(c.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, ucauth.ErrTokenExpired):
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			case errors.Is(err, ucauth.ErrTokenRevoked):
				return NewAppError(fiber.StatusUnauthorized, "Token revoked", nil, err)
			case errors.Is(err, ucauth.ErrInternal):
				return NewAppError(fiber.StatusInternalServerError, "", nil, err)
			default:
				return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
			}
		}

		c.SetContext(session.With(c.Context(), sess))
		return c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(c fiber.Ctx) (string, bool) {
	return bearerTokenFromHeader(c.Get(fiber.HeaderAuthorization))
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

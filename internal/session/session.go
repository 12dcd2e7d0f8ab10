package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNoSession = errors.New("no session in context")

// Session is the signed-in operator for one request. It is passed explicitly
// through context; nothing reads identity from ambient state.
type Session struct {
	OperatorID uuid.UUID `json:"operator_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	TokenID    string    `json:"-"`
	ExpiresAt  time.Time `json:"-"`
}

func (s Session) IsZero() bool {
	return s.OperatorID == uuid.Nil
}

type ctxKey struct{}

func With(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func From(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	s, ok := ctx.Value(ctxKey{}).(Session)
	if !ok || s.IsZero() {
		return Session{}, false
	}
	return s, true
}

func MustFrom(ctx context.Context) (Session, error) {
	s, ok := From(ctx)
	if !ok {
		return Session{}, ErrNoSession
	}
	return s, nil
}

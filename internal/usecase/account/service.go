package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"ats-gateway/internal/ats"
	"ats-gateway/internal/pkg/logger"
)

const throttlePrefix = "account:forgot:"

var ErrThrottled = errors.New("forgot-password already requested recently")

// Throttle grants at most one key per TTL window.
type Throttle interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

// Service proxies password recovery to the upstream auth actions.
type Service struct {
	auth     *ats.AuthActions
	throttle Throttle
	cooldown time.Duration
	lggr     logger.Logger
}

func NewService(auth *ats.AuthActions, throttle Throttle, cooldown time.Duration, lggr logger.Logger) *Service {
	if lggr == nil {
		lggr = logger.Nop()
	}
	return &Service{auth: auth, throttle: throttle, cooldown: cooldown, lggr: lggr.Named("account")}
}

// ForgotPassword returns ErrThrottled when the same identifier was used within
// the cooldown. Otherwise the upstream outcome is returned as-is.
func (s *Service) ForgotPassword(ctx context.Context, emailOrUserName string) (ats.Result, error) {
	id := strings.TrimSpace(emailOrUserName)
	if id != "" && s.throttle != nil && s.cooldown > 0 {
		acquired, err := s.throttle.SetIfNotExists(ctx, throttlePrefix+strings.ToLower(id), "1", s.cooldown)
		switch {
		case err != nil:
			s.lggr.Warnw("forgot-password throttle unavailable", "err", err)
		case !acquired:
			return ats.Result{}, ErrThrottled
		}
	}
	return s.auth.ForgotPassword(ctx, id), nil
}

func (s *Service) ResetPassword(ctx context.Context, payload ats.Record) ats.Result {
	return s.auth.ResetPassword(ctx, payload)
}

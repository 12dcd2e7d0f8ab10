package cache

import (
	"context"
	"time"
)

const revokedPrefix = "auth:revoked:"

// TokenRevocations remembers revoked JWT ids until the token would have
// expired anyway.
type TokenRevocations struct {
	redis *Redis
	now   func() time.Time
}

func NewTokenRevocations(r *Redis) *TokenRevocations {
	return &TokenRevocations{redis: r, now: time.Now}
}

type revokedToken struct {
	RevokedAt time.Time `json:"revoked_at"`
}

// Revoke claims tokenID atomically. It reports false when the id was already
// revoked, so a caller rotating a token can tell it lost the race. Expired
// tokens and empty ids are reported as claimed without touching redis.
func (t *TokenRevocations) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) (bool, error) {
	if tokenID == "" {
		return true, nil
	}
	now := t.now()
	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		return true, nil
	}
	return t.redis.SetJSONIfNotExists(ctx, revokedPrefix+tokenID, revokedToken{RevokedAt: now.UTC()}, ttl)
}

func (t *TokenRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return t.redis.Exists(ctx, revokedPrefix+tokenID)
}

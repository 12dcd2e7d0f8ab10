package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"ats-gateway/internal/config"
	"ats-gateway/internal/pkg/logger"
)

const (
	pingTimeout = 2 * time.Second
	defaultTTL  = 30 * time.Second
)

var ErrUnavailable = errors.New("redis unavailable")

// Redis wraps a go-redis client. When the server cannot be reached at
// construction time every operation degrades to a no-op so callers keep
// serving without the features redis backs.
type Redis struct {
	client *redis.Client
	lggr   logger.Logger

	warnedUnavailable atomic.Bool
}

func NewRedis(ctx context.Context, cfg config.RedisConfig, lggr logger.Logger) *Redis {
	if lggr == nil {
		lggr = logger.Nop()
	}
	lggr = lggr.Named("cache")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		lggr.Warnw("redis unavailable, degrading", "addr", cfg.Addr(), "err", err)
		_ = client.Close()
		return &Redis{lggr: lggr}
	}

	return &Redis{client: client, lggr: lggr}
}

func (r *Redis) Available() bool {
	return r != nil && r.client != nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.lggr == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.lggr.Warnw("redis command failed", "err", err)
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if !r.Available() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if !r.Available() {
		return nil
	}
	return r.client.Close()
}

// SetJSONIfNotExists stores value as JSON only when key is absent and reports
// whether this call stored it. Degrades like SetIfNotExists.
func (r *Redis) SetJSONIfNotExists(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	return r.SetIfNotExists(ctx, key, string(b), ttl)
}

// Exists reports false, without error, when redis is unavailable.
func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	if !r.Available() {
		return false, nil
	}
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return false, err
	}
	return n > 0, nil
}

// SetIfNotExists is SETNX with a TTL. It reports true when redis is
// unavailable: without a store there is nothing to contend with.
func (r *Redis) SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if !r.Available() {
		return true, nil
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	ok, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return false, err
	}
	return ok, nil
}

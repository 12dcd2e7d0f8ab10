package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"ats-gateway/internal/pkg/response"
)

const pingTimeout = 2 * time.Second

// Pinger is anything health can probe: the database pool or the redis cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	deps map[string]Pinger
}

// NewHealthHandler probes deps by name; nil entries report "disabled".
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health always answers 200 while the process serves; dependency state is
// reported in data so a degraded redis does not take the gateway out.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), pingTimeout)
	defer cancel()

	status := "ok"
	checks := make(map[string]string, len(h.deps))
	for name, p := range h.deps {
		if p == nil {
			checks[name] = "disabled"
			continue
		}
		if err := p.Ping(ctx); err != nil {
			checks[name] = "down"
			status = "degraded"
			continue
		}
		checks[name] = "up"
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"status": status,
		"checks": checks,
	})
}

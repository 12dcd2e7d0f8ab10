package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"ats-gateway/internal/pkg/logger"
)

const (
	HeaderRequestID = "X-Request-ID"

	localsRequestID = "request_id"
)

type AccessLogMiddleware struct {
	lggr logger.Logger
}

func NewAccessLogMiddleware(lggr logger.Logger) *AccessLogMiddleware {
	if lggr == nil {
		lggr = logger.Nop()
	}
	return &AccessLogMiddleware{lggr: lggr.Named("access")}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals(localsRequestID, rid)

		err := c.Next()

		m.lggr.Infow("http request",
			"request_id", rid,
			"ip", c.IP(),
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start),
			"req_bytes", len(c.Body()),
			"resp_bytes", len(c.Response().Body()),
			"ua", c.Get(fiber.HeaderUserAgent),
		)

		return err
	}
}

// RequestID returns the id assigned by the access log middleware, if any.
func RequestID(c fiber.Ctx) string {
	rid, _ := c.Locals(localsRequestID).(string)
	return rid
}

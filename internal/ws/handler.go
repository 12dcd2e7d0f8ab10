package ws

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"

	"ats-gateway/internal/session"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from any origin when allowedOrigins is empty
// or contains "*".
func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	allowed := map[string]bool{}
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 || allowed["*"] {
					return true
				}
				return allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// HandleEvents upgrades the request and streams record_changed events.
// The route must sit behind the session middleware.
func (h *Handler) HandleEvents(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}
	sess, ok := session.From(c.Context())
	if !ok {
		return fiber.ErrUnauthorized
	}

	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.hub.lggr.Warnw("ws upgrade failed", "err", err)
			return
		}

		client := NewClient(h.hub, conn, sess.OperatorID.String())
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})(c)
}

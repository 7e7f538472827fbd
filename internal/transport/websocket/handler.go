package websocket

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gorilla/websocket"

	"netspeed-monitor/internal/logger"
	"netspeed-monitor/internal/pkg"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      logger.Logger

	secret string
}

// NewHandler accepts same-origin requests and those from allowedOrigins.
// When secret is empty no token is required.
func NewHandler(hub *Hub, log logger.Logger, secret string, allowedOrigins []string) *Handler {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			allowed := slices.Contains(allowedOrigins, origin)
			if !allowed {
				log.Warn("ws: origin rejected", "origin", origin)
			}
			return allowed
		},
	}

	return &Handler{
		hub:      hub,
		upgrader: upgrader,
		log:      log,
		secret:   secret,
	}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" {
		if _, err := pkg.ValidateToken(bearerToken(r), h.secret); err != nil {
			h.log.Warn("ws: invalid credentials", "error", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws: upgrade failed", "error", err)
		return
	}

	c := NewClient(h.hub, conn, h.log)
	select {
	case h.hub.register <- c:
	case <-h.hub.ctx.Done():
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// bearerToken reads the Authorization header, falling back to the token
// query parameter since browsers cannot set headers on a WebSocket upgrade.
func bearerToken(r *http.Request) string {
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return token
	}
	return r.URL.Query().Get("token")
}

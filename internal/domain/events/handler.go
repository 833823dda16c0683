package events

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler upgrades session-authenticated requests to websockets.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHandler accepts upgrades from allowedOrigins; an empty list allows any
// origin, which is only meant for development.
func NewHandler(hub *Hub, allowedOrigins []string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// HandleWebSocket streams the events of the caller's session.
//
// Endpoint: GET /ws/registration?token=SESSION_TOKEN
func (h *Handler) HandleWebSocket(c *gin.Context) {
	sessionID := c.GetString("session_id")
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	h.hub.ServeWS(conn, sessionID)
}

func (h *Handler) RegisterRoutes(r gin.IRouter, auth gin.HandlerFunc) {
	r.GET("/ws/registration", auth, h.HandleWebSocket)
}

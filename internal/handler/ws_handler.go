package handler

import (
	"net/http"

	"github.com/damoang/eventhub-backend/internal/middleware"
	"github.com/damoang/eventhub-backend/internal/ws"
	pkglogger "github.com/damoang/eventhub-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandler upgrades admin dashboards to the invalidation push channel
type WSHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewWSHandler shares the CORS allow list; an empty list accepts any origin
func NewWSHandler(hub *ws.Hub, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  512,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(allowedOrigins, r.Header.Get("Origin"))
			},
		},
	}
}

// originAllowed: requests without Origin are same-origin
func originAllowed(allowed []string, origin string) bool {
	if origin == "" || len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// Connect godoc
// @Summary      Admin invalidation push channel
// @Description  Pass the access token as ?token= since browsers cannot set headers on upgrade.
// @Description  Frames are {"type":"invalidate","kind":...,"scopes":[...]}; a close with code 1013 means refetch everything.
// @Tags         realtime
// @Router       /admin/ws [get]
func (h *WSHandler) Connect(c *gin.Context) {
	adminID := middleware.GetUserID(c)
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the 4xx
		pkglogger.GetLogger().Debug().Err(err).Uint64("admin_id", adminID).
			Str("origin", c.GetHeader("Origin")).Msg("push upgrade refused")
		return
	}

	client := ws.NewClient(h.hub, conn, adminID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// dashboards only answer pings and send close frames
	maxInboundSize = 512

	// frames queued per dashboard before it counts as a slow consumer
	sendBuffer = 64
)

// Client is one admin dashboard attached to the push channel
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	adminID     uint64
	connectedAt time.Time
	logger      zerolog.Logger
}

// NewClient binds a dashboard connection to the hub
func NewClient(hub *Hub, conn *websocket.Conn, adminID uint64) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		adminID:     adminID,
		connectedAt: time.Now(),
		logger:      hub.logger.With().Uint64("admin_id", adminID).Logger(),
	}
}

// ReadPump keeps the read deadline alive and detaches the client on close.
// Inbound payloads are discarded.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		}
		c.conn.Close()
		c.logger.Debug().Dur("session", time.Since(c.connectedAt)).Msg("push channel closed")
	}()

	c.conn.SetReadLimit(maxInboundSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn().Err(err).Msg("push channel dropped")
			}
			return
		}
	}
}

// WritePump delivers invalidation frames. Frames that queued up while a
// write was in flight go out under the same deadline, one message each.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if !ok {
				// hub dropped us (slow consumer or shutdown)
				c.conn.WriteMessage(websocket.CloseMessage, //nolint:errcheck
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "resync"))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
			for n := len(c.send); n > 0; n-- {
				frame, ok := <-c.send
				if !ok {
					return
				}
				if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

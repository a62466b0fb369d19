// Package ws pushes invalidation frames to connected admin dashboards.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/damoang/eventhub-backend/internal/metrics"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisPubSubChannel = "eventhub:admin-push"

// Hub manages WebSocket clients and broadcasts messages
type Hub struct {
	// Registered clients grouped by admin ID
	clients map[uint64]map[*Client]bool

	// Register/unregister channels
	register   chan *Client
	unregister chan *Client

	broadcast chan []byte

	mu          sync.RWMutex
	redisClient *redis.Client
	instanceID  string
	logger      zerolog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

type redisMessage struct {
	Origin  string          `json:"origin"`
	Payload json.RawMessage `json:"payload"`
}

// NewHub creates a new Hub. redisClient may be nil on a single instance.
func NewHub(redisClient *redis.Client, logger zerolog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[uint64]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan []byte, 256),
		redisClient: redisClient,
		instanceID:  uuid.NewString(),
		logger:      logger.With().Str("component", "ws").Logger(),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.adminID] == nil {
				h.clients[client.adminID] = make(map[*Client]bool)
			}
			h.clients[client.adminID][client] = true
			h.mu.Unlock()
			metrics.PushClients.Inc()
			client.logger.Debug().Msg("push channel attached")

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for _, clients := range h.clients {
				for client := range clients {
					select {
					case client.send <- data:
					default:
						// slow consumer: closing send makes the dashboard resync
						client.logger.Warn().Msg("push buffer full, detaching dashboard")
						h.remove(client)
					}
				}
			}
			h.mu.Unlock()

		case <-h.ctx.Done():
			return
		}
	}
}

// remove must be called with mu held
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.adminID]
	if !ok {
		return
	}
	if _, ok := clients[client]; ok {
		delete(clients, client)
		close(client.send)
		metrics.PushClients.Dec()
		if len(clients) == 0 {
			delete(h.clients, client.adminID)
		}
	}
}

// BroadcastToAdmins sends payload to every dashboard (local + Redis publish)
func (h *Hub) BroadcastToAdmins(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error().Err(err).Msg("marshal push payload")
		return
	}
	h.local(data)

	// Publish to Redis for multi-instance support
	if h.redisClient != nil {
		msg, err := json.Marshal(redisMessage{Origin: h.instanceID, Payload: data})
		if err == nil {
			if err := h.redisClient.Publish(h.ctx, redisPubSubChannel, msg).Err(); err != nil {
				h.logger.Warn().Err(err).Msg("redis publish failed")
			}
		}
	}
}

func (h *Hub) local(data []byte) {
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn().Msg("push buffer full, frame dropped")
	}
}

// ClientCount returns the number of connected dashboards
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

// subscribeRedis listens for frames from other instances
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var rm redisMessage
			if err := json.Unmarshal([]byte(msg.Payload), &rm); err != nil {
				continue
			}
			if rm.Origin == h.instanceID {
				continue
			}
			// Only local broadcast (don't re-publish to Redis)
			h.local(rm.Payload)
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}

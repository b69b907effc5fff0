package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
)

const redisPubSubChannel = "report-comment-events"

// Comment event types
const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
)

// Event is a realtime change notification for a report's comment set.
// Clients treat any event as an invalidation and refetch both the live
// and pending sets; the payload is never applied incrementally.
type Event struct {
	Type      string `json:"type"` // insert | update | delete
	ReportID  string `json:"reportId"`
	CommentID string `json:"commentId"`
}

// Hub manages WebSocket clients grouped per report and fans comment
// events out to every open report view
type Hub struct {
	// Registered clients grouped by report ID
	clients map[string]map[*Client]bool

	// Register/unregister channels
	register   chan *Client
	unregister chan *Client

	// Broadcast to every viewer of one report
	broadcast chan *Event

	mu          sync.RWMutex
	redisClient *redis.Client
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewHub creates a new Hub
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *Event, 256),
		redisClient: redisClient,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
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
			if h.clients[client.reportID] == nil {
				h.clients[client.reportID] = make(map[*Client]bool)
			}
			h.clients[client.reportID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.reportID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.reportID)
					}
				}
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.RLock()
			if clients, ok := h.clients[ev.ReportID]; ok {
				data, err := json.Marshal(ev)
				if err == nil {
					for client := range clients {
						select {
						case client.send <- data:
						default:
							close(client.send)
							delete(clients, client)
						}
					}
				}
			}
			h.mu.RUnlock()

		case <-h.ctx.Done():
			return
		}
	}
}

// Publish sends a comment event to every viewer of the report
// (local + Redis publish for multi-instance fan-out)
func (h *Hub) Publish(ev *Event) {
	h.broadcast <- ev

	if h.redisClient != nil {
		data, err := json.Marshal(ev)
		if err == nil {
			h.redisClient.Publish(h.ctx, redisPubSubChannel, data) //nolint:errcheck
		}
	}
}

// subscribeRedis listens for events published by other instances
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
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err == nil {
				// Only local broadcast (don't re-publish to Redis)
				h.broadcast <- &ev
			}
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}

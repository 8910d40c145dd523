package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"finverse-be/internal/entity"
	"finverse-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const clusterChannel = "finverse_events"

// Hub fans notifications out to connected chat surfaces. A surface may hold
// several connections (multiple tabs); all of them receive every push. With
// Redis configured, pushes also reach surfaces connected to other instances.
type Hub struct {
	// Registered clients map: surface id -> connections
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out, nil when not configured
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SurfaceID] = append(h.clients[client.SurfaceID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"surface_id": client.SurfaceID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SurfaceID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SurfaceID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SurfaceID]) == 0 {
					delete(h.clients, client.SurfaceID)
					h.logger.Info("Hub", "Surface disconnected", map[string]interface{}{"surface_id": client.SurfaceID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast pushes a notification to every connected surface. Comparison set
// changes go this way: the set is shared, so every surface needs the update.
func (h *Hub) Broadcast(notification entity.Notification) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	h.mu.RLock()
	var stale []*Client
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				stale = append(stale, client)
			}
		}
	}
	h.mu.RUnlock()

	h.evict(stale)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterEnvelope{TargetSurfaceID: "*", Message: data})
		h.rdb.Publish(context.Background(), clusterChannel, payload)
	}
}

// evict hands stalled clients to Run, which owns the single close of their
// Send channel. Must be called without holding mu; Run needs the write lock.
func (h *Hub) evict(stale []*Client) {
	for _, client := range stale {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"surface_id": client.SurfaceID})
		h.unregister <- client
	}
}

// Send pushes a notification to one surface's connections.
func (h *Hub) Send(surfaceID string, notification entity.Notification) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	// Pushes happen under the read lock: Run closes a Send channel only
	// while holding the write lock, so no push can hit a closed channel.
	h.mu.RLock()
	var stale []*Client
	for _, client := range h.clients[surfaceID] {
		select {
		case client.Send <- data:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	h.evict(stale)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterEnvelope{TargetSurfaceID: surfaceID, Message: data})
		h.rdb.Publish(context.Background(), clusterChannel, payload)
	}
}

type clusterEnvelope struct {
	TargetSurfaceID string          `json:"target_surface_id"`
	Message         json.RawMessage `json:"message"`
}

// subscribeToRedis relays cluster pushes to locally connected surfaces.
// Every instance subscribes to the same channel; a "*" target means
// broadcast, anything else is delivered only if the surface is local.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var envelope clusterEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			h.logger.Warn("Hub", "Cluster message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}

		h.mu.RLock()
		var targets []*Client
		if envelope.TargetSurfaceID == "*" {
			for _, clients := range h.clients {
				targets = append(targets, clients...)
			}
		} else {
			targets = append(targets, h.clients[envelope.TargetSurfaceID]...)
		}

		var stale []*Client
		for _, client := range targets {
			select {
			case client.Send <- envelope.Message:
			default:
				stale = append(stale, client)
			}
		}
		h.mu.RUnlock()

		h.evict(stale)
	}
}

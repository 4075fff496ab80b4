package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"user-directory-be/internal/entity"
	"user-directory-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	clusterChannel  = "cluster_events"
	broadcastTarget = "*"
)

type Hub struct {
	// Form session id -> connections. A session may be open in several tabs.
	// Listeners without a session are kept under "".
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	// Redis relays notifications between instances. nil runs standalone.
	rdb *redis.Client

	// instanceID tags relayed messages so an instance skips its own echo.
	instanceID string

	logger logger.ILogger
}

type clusterMessage struct {
	Origin  string          `json:"origin"`
	Target  string          `json:"target"`
	Message json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run owns the client map writes. It returns once ctx is cancelled, after
// closing every client's send channel.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.remove(client)

		case <-ctx.Done():
			h.mu.Lock()
			for sessionID, clients := range h.clients {
				for _, c := range clients {
					close(c.Send)
				}
				delete(h.clients, sessionID)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info("Hub", "Session has no more listeners", map[string]interface{}{"session_id": client.SessionID})
	}
}

// Register hands a client to the run loop. It reports false if the hub has
// stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

// Broadcast sends a notification to every connected client.
func (h *Hub) Broadcast(notification entity.Notification) {
	data := encodeNotification(notification)
	h.deliverLocal(broadcastTarget, data)
	h.relay(broadcastTarget, data)
}

// Send delivers a notification to the clients of one form session.
func (h *Hub) Send(sessionID string, notification entity.Notification) {
	data := encodeNotification(notification)
	h.deliverLocal(sessionID, data)
	h.relay(sessionID, data)
}

func encodeNotification(notification entity.Notification) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})
	return data
}

// deliverLocal never blocks. Clients whose buffer is full are dropped after
// the read lock is released.
func (h *Hub) deliverLocal(target string, data []byte) {
	var slow []*Client

	h.mu.RLock()
	if target == broadcastTarget {
		for _, clients := range h.clients {
			slow = appendSlow(slow, clients, data)
		}
	} else {
		slow = appendSlow(slow, h.clients[target], data)
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"session_id": c.SessionID})
		go h.Unregister(c)
	}
}

func appendSlow(slow []*Client, clients []*Client, data []byte) []*Client {
	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	return slow
}

func (h *Hub) relay(target string, data []byte) {
	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(clusterMessage{Origin: h.instanceID, Target: target, Message: data})
	if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Failed to relay notification", map[string]interface{}{"error": err.Error()})
	}
}

// subscribeToRedis delivers notifications raised on other instances to the
// clients connected here.
func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleClusterMessage([]byte(msg.Payload))
		}
	}
}

func (h *Hub) handleClusterMessage(raw []byte) {
	var payload clusterMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.logger.Warn("Hub", "Unreadable cluster message", map[string]interface{}{"error": err.Error()})
		return
	}
	if payload.Origin == h.instanceID {
		return
	}
	h.deliverLocal(payload.Target, payload.Message)
}

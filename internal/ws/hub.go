package ws

import (
	"context"
	"log"
	"sync"

	"skill-swap/internal/infrastructure/metrics"

	"github.com/google/uuid"
)

type delivery struct {
	recipients []uuid.UUID
	payload    []byte
}

// Hub routes event payloads to the open connections of their recipients. A
// user may hold several connections; each receives a copy.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]struct{}
	broadcast  chan delivery
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
	logger     *log.Logger
	metrics    *metrics.Metrics
}

func NewHub(logger *log.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		broadcast:  make(chan delivery, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger,
		metrics:    m,
	}
}

// Run serves the hub until ctx is done, then closes every connection.
// Register and Unregister never block once Run has returned.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.stop()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			total := h.countLocked()
			h.mutex.Unlock()
			h.metrics.WSConnected()
			h.logf("WS connected | user_id=%s total_clients=%d", client.userID, total)

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			if h.remove(client) {
				h.logf("WS disconnected | user_id=%s total_clients=%d", client.userID, h.ClientCount())
			}

		case d := <-h.broadcast:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(d.recipients))
			seen := make(map[uuid.UUID]struct{}, len(d.recipients))
			for _, id := range d.recipients {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				for c := range h.clients[id] {
					targets = append(targets, c)
				}
			}
			h.mutex.RUnlock()

			for _, client := range targets {
				select {
				case client.send <- d.payload:
				default:
					h.remove(client)
					h.logf("WS client dropped | user_id=%s reason=slow_consumer", client.userID)
				}
			}
		}
	}
}

// remove detaches client and closes its send queue. It reports whether the
// client was still registered.
func (h *Hub) remove(client *Client) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	set, ok := h.clients[client.userID]
	if !ok {
		return false
	}
	if _, ok := set[client]; !ok {
		return false
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
	close(client.send)
	h.metrics.WSDisconnected()
	return true
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() {
		h.closeAll()
		close(h.done)
	})
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for id, set := range h.clients {
		for c := range set {
			close(c.send)
			h.metrics.WSDisconnected()
		}
		delete(h.clients, id)
	}
}

// Register adds client to the hub. After shutdown the client's send queue is
// closed at once so its write pump ends.
func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister detaches client. After shutdown closeAll already did that.
func (h *Hub) Unregister(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SendTo queues payload for every connection of the given users. When the
// queue is full the message is dropped and logged.
func (h *Hub) SendTo(recipients []uuid.UUID, payload []byte) {
	if h == nil || len(recipients) == 0 {
		return
	}
	select {
	case h.broadcast <- delivery{recipients: recipients, payload: payload}:
	default:
		h.logf("WS broadcast dropped | reason=buffer_full")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.countLocked()
}

func (h *Hub) countLocked() int {
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}

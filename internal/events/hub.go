// Package events pushes state changes and storage warnings to connected
// websocket clients.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"storyhub/pkg/models"
)

const (
	KindWarning = "warning"
	sendBuffer  = 256
)

// Hub fans events out to every connected client.
type Hub struct {
	mu         sync.Mutex
	clients    map[string]*client
	broadcast  chan models.Event
	register   chan *client
	unregister chan *client
	done       chan struct{}
	log        *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]*client),
		broadcast:  make(chan models.Event, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		log:        logger,
	}
}

// Run handles registration and broadcasting until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return nil
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			h.mu.Unlock()
			h.log.Info("client connected", zap.String("client", c.id), zap.String("username", c.username))
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.send)
				h.log.Info("client disconnected", zap.String("client", c.id))
			}
			h.mu.Unlock()
		case ev := <-h.broadcast:
			data, err := json.Marshal(ev)
			if err != nil {
				h.log.Error("marshal event", zap.Error(err))
				continue
			}
			h.mu.Lock()
			for id, c := range h.clients {
				select {
				case c.send <- data:
				default:
					h.log.Warn("client send buffer full, dropping", zap.String("client", id))
					delete(h.clients, id)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues ev for broadcast. It never blocks; events are dropped
// when the queue is full.
func (h *Hub) Publish(ev models.Event) {
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().Unix()
	}
	select {
	case h.broadcast <- ev:
	default:
		h.log.Warn("event queue full, dropping", zap.String("kind", ev.Kind))
	}
}

// Notify lets the hub act as the storage warning sink.
func (h *Hub) Notify(level, message string) {
	h.Publish(models.Event{Kind: KindWarning, Level: level, Message: message})
}

// Clients reports how many connections are registered.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}

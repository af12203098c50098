// Package websocket fans user change events out to connected live feed
// clients.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"user-api/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Hub struct {
	clients    map[*Client]bool
	mu         sync.RWMutex
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Attach hands client to the running hub. It reports false once the hub
// has stopped, in which case the caller owns the connection.
func (h *Hub) Attach(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
	log.Debug().Str("identity", client.Identity).Int("clients", len(h.clients)).Msg("live feed client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		log.Debug().Str("identity", client.Identity).Int("clients", len(h.clients)).Msg("live feed client unregistered")
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish sends event to every connected client. A client whose buffer is
// full misses the event instead of stalling the writer.
func (h *Hub) Publish(event models.UserEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode user event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			log.Warn().Str("identity", client.Identity).Str("event", string(event.Type)).Msg("live feed client buffer full, dropping event")
		}
	}
}

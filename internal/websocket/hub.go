package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const EventListingChanged = "listing_changed"

// Event tells subscribers to refresh their listing. It never carries user
// data; clients fetch the list again with their own credentials.
type Event struct {
	EventType string    `json:"event_type"`
	EventTime time.Time `json:"event_time"`
}

// Hub fans listing events out to every connected browser.
type Hub struct {
	clients    map[*Client]bool
	mu         sync.RWMutex
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With("component", "websocket"),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Stop ends Run and disconnects every client.
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
	h.logger.Debug("client registered", "clients", len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.logger.Debug("client unregistered", "clients", len(h.clients))
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

// PublishListingChanged notifies all subscribers. Slow clients lose the event
// rather than blocking the caller.
func (h *Hub) PublishListingChanged() {
	eventBytes, err := json.Marshal(Event{EventType: EventListingChanged, EventTime: time.Now().UTC()})
	if err != nil {
		h.logger.Error("failed to marshal event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- eventBytes:
		default:
			h.logger.Warn("client send buffer is full, dropping event")
		}
	}
}

// ServeWs upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(h, conn)
	select {
	case h.Register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.ReadPump()
	go client.WritePump()
}

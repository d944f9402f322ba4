package sse

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Event is one server-sent event.
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client is one connected stream.
type Client struct {
	ID     string
	UserID string
	Events chan Event
}

// Hub fans events out to connected clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

// GlobalHub is the process-wide hub instance.
var GlobalHub = NewHub()

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  zap.NewNop(),
	}
}

// SetLogger installs the hub logger. Call once during startup.
func (h *Hub) SetLogger(logger *zap.Logger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logger = logger
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.logger.Debug("sse client registered",
		zap.String("client_id", client.ID),
		zap.String("user_id", client.UserID),
		zap.Int("total", len(h.clients)))
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		h.logger.Debug("sse client unregistered",
			zap.String("client_id", clientID),
			zap.Int("total", len(h.clients)))
	}
}

// Broadcast sends an event to every connected client. Slow clients are
// skipped rather than blocked on.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Events <- event:
		default:
			h.logger.Warn("sse client buffer full, dropping event",
				zap.String("client_id", client.ID),
				zap.String("event", event.EventType))
		}
	}
}

// SendToUser sends an event to every stream owned by one user.
func (h *Hub) SendToUser(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.UserID == userID {
			select {
			case client.Events <- event:
			default:
				h.logger.Warn("sse client buffer full, dropping user event",
					zap.String("client_id", client.ID),
					zap.String("event", event.EventType))
			}
		}
	}
}

// PublishQuoteUpdate announces a quote status change.
func PublishQuoteUpdate(quoteID, status string) {
	data := fmt.Sprintf(`{"quote_id":%q,"status":%q}`, quoteID, status)
	GlobalHub.Broadcast(Event{EventType: "quote_update", Data: data})
}

// PublishJobUpdate announces a project status change.
func PublishJobUpdate(projectID, status string) {
	data := fmt.Sprintf(`{"project_id":%q,"status":%q}`, projectID, status)
	GlobalHub.Broadcast(Event{EventType: "job_update", Data: data})
}

// PublishStoreUpdate announces a storefront publish or unpublish.
func PublishStoreUpdate(storefrontID, action string) {
	data := fmt.Sprintf(`{"storefront_id":%q,"action":%q}`, storefrontID, action)
	GlobalHub.Broadcast(Event{EventType: "store_update", Data: data})
}

// PublishAppointmentReminder sends a reminder to the assigned user.
func PublishAppointmentReminder(userID, appointmentID, title string) {
	data := fmt.Sprintf(`{"appointment_id":%q,"title":%q}`, appointmentID, title)
	GlobalHub.SendToUser(userID, Event{EventType: "appointment_reminder", Data: data})
}

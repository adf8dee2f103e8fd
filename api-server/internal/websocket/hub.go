package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeSnapshot     MessageType = "snapshot"
	MessageTypeConfirmed    MessageType = "booking_confirmed"
	MessageTypeSessionReset MessageType = "session_reset"
)

// Message represents a WebSocket message
type Message struct {
	Type         MessageType          `json:"type"`
	SessionID    string               `json:"sessionId"`
	Snapshot     *models.Snapshot     `json:"snapshot,omitempty"`
	Confirmation *models.Confirmation `json:"confirmation,omitempty"`
	Timestamp    int64                `json:"timestamp"`
}

// Client represents a WebSocket client connection
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub fans session updates out to the connections watching each session
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	mu         sync.RWMutex
	logger     *slog.Logger
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub's main loop and returns when ctx is done. Client
// channels are only closed from this loop.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.sessionID] == nil {
				h.clients[client.sessionID] = make(map[*Client]bool)
			}
			h.clients[client.sessionID][client] = true
			count := len(h.clients[client.sessionID])
			h.mu.Unlock()
			h.logger.Debug("WebSocket client registered", "sessionId", client.sessionID, "clients", count)

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				h.logger.Error("Failed to marshal WebSocket message", "error", err)
				continue
			}

			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients[message.SessionID]))
			for client := range h.clients[message.SessionID] {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				select {
				case client.send <- data:
				default:
					h.logger.Warn("Dropping slow WebSocket client", "sessionId", client.sessionID)
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[client.sessionID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.sessionID)
	}
	h.logger.Debug("WebSocket client unregistered", "sessionId", client.sessionID, "clients", len(clients))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sessionID, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
		delete(h.clients, sessionID)
	}
}

func (h *Hub) publish(msg *Message) {
	msg.Timestamp = time.Now().UnixMilli()
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("WebSocket broadcast queue full", "sessionId", msg.SessionID, "type", msg.Type)
	}
}

// BroadcastSnapshot sends the latest session snapshot to its watchers
func (h *Hub) BroadcastSnapshot(snapshot models.Snapshot) {
	h.publish(&Message{
		Type:      MessageTypeSnapshot,
		SessionID: snapshot.SessionID,
		Snapshot:  &snapshot,
	})
}

// BroadcastConfirmed notifies watchers that the session's booking was confirmed
func (h *Hub) BroadcastConfirmed(confirmation models.Confirmation) {
	h.publish(&Message{
		Type:         MessageTypeConfirmed,
		SessionID:    confirmation.SessionID,
		Confirmation: &confirmation,
	})
}

// BroadcastSessionReset notifies watchers that a session was discarded
func (h *Hub) BroadcastSessionReset(sessionID string) {
	h.publish(&Message{
		Type:      MessageTypeSessionReset,
		SessionID: sessionID,
	})
}

// GetClientCount returns the number of clients watching a session
func (h *Hub) GetClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/gorilla/websocket"
)

var errHubStopped = errors.New("websocket hub stopped")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Serve upgrades the request and streams the session's updates to it,
// starting with the given snapshot.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, initial models.Snapshot) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		sessionID: initial.SessionID,
	}

	data, err := json.Marshal(&Message{
		Type:      MessageTypeSnapshot,
		SessionID: initial.SessionID,
		Snapshot:  &initial,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		conn.Close()
		return err
	}
	client.send <- data

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return errHubStopped
	}

	go client.writePump()
	go client.readPump()
	return nil
}

// readPump only handles control frames; the wizard is driven over HTTP
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("WebSocket read failed", "sessionId", c.sessionID, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// internal/api/websocket_handlers.go
package api

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// incomingMessage is what clients may send over the notification socket
type incomingMessage struct {
	Type string `json:"type"`
	ID   uint64 `json:"id,omitempty"`
}

// NotificationsWebSocket streams notifications and state summaries.
func (h *Handler) NotificationsWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", map[string]interface{}{"error": err})
		return
	}

	client := newWebSocketClient(conn)

	// the welcome is queued before registration so it is always the first frame
	state := h.Wizard.State()
	client.SendMessage(map[string]interface{}{
		"type":          "welcome",
		"client_id":     client.id,
		"state":         newSessionView(state),
		"notifications": state.Notifications,
		"timestamp":     time.Now().Format(time.RFC3339),
	})

	h.WS.Register(client)
	defer h.WS.Unregister(client)

	go h.handleWebSocketWrites(client)
	h.handleWebSocketReads(client)
}

func (h *Handler) handleWebSocketReads(client *WebSocketClient) {
	client.conn.SetReadDeadline(time.Now().Add(wsPingTimeout))
	client.conn.SetPongHandler(func(string) error {
		client.UpdatePing()
		return client.conn.SetReadDeadline(time.Now().Add(wsPingTimeout))
	})

	for !client.IsClosed() {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read failed", map[string]interface{}{
					"client_id": client.id,
					"error":     err,
				})
			}
			return
		}
		client.UpdatePing()
		client.conn.SetReadDeadline(time.Now().Add(wsPingTimeout))

		var message incomingMessage
		if err := json.Unmarshal(data, &message); err != nil {
			client.SendError("invalid message")
			continue
		}
		h.handleMessage(client, message)
	}
}

func (h *Handler) handleWebSocketWrites(client *WebSocketClient) {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		client.Close()
	}()

	for {
		select {
		case <-client.done:
			return

		case message := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Debug("WebSocket write failed", map[string]interface{}{
					"client_id": client.id,
					"error":     err,
				})
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) handleMessage(client *WebSocketClient, message incomingMessage) {
	switch message.Type {
	case "ping":
		client.SendMessage(map[string]interface{}{
			"type":      "pong",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	case "dismiss":
		if message.ID == 0 {
			client.SendError("dismiss requires a notification id")
			return
		}
		h.Wizard.DismissNotification(message.ID)
	default:
		client.SendError("unknown message type: " + message.Type)
	}
}

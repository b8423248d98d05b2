// internal/api/websocket.go
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Corphon/HookForge/internal/models"
	"github.com/Corphon/HookForge/internal/utils"
	"github.com/Corphon/HookForge/internal/wizard"
)

const (
	wsPingTimeout     = 60 * time.Second
	wsPingInterval    = 54 * time.Second
	wsWriteTimeout    = 10 * time.Second
	wsSendBuffer      = 64
	wsBroadcastBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketConnection is the subset of *websocket.Conn the hub uses
type WebSocketConnection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
}

// WebSocketClient is one connected notification listener
type WebSocketClient struct {
	id        string
	conn      WebSocketConnection
	send      chan []byte
	done      chan struct{}
	closed    int32
	lastPing  int64 // unix nanos
	createdAt time.Time
}

func newWebSocketClient(conn WebSocketConnection) *WebSocketClient {
	now := time.Now()
	return &WebSocketClient{
		id:        uuid.NewString(),
		conn:      conn,
		send:      make(chan []byte, wsSendBuffer),
		done:      make(chan struct{}),
		lastPing:  now.UnixNano(),
		createdAt: now,
	}
}

// Close closes the connection once. The send channel is never closed.
func (client *WebSocketClient) Close() {
	if atomic.CompareAndSwapInt32(&client.closed, 0, 1) {
		close(client.done)
		if client.conn != nil {
			client.conn.Close()
		}
	}
}

// IsClosed reports whether Close was called.
func (client *WebSocketClient) IsClosed() bool {
	return atomic.LoadInt32(&client.closed) == 1
}

// UpdatePing marks the client as alive.
func (client *WebSocketClient) UpdatePing() {
	atomic.StoreInt64(&client.lastPing, time.Now().UnixNano())
}

// IsExpired reports whether the client missed its pings for longer than timeout.
func (client *WebSocketClient) IsExpired(timeout time.Duration) bool {
	if timeout <= 0 {
		return true
	}
	last := time.Unix(0, atomic.LoadInt64(&client.lastPing))
	return time.Since(last) > timeout
}

// SendMessage queues message without blocking; it is dropped when the queue is full.
func (client *WebSocketClient) SendMessage(message interface{}) error {
	if client.IsClosed() {
		return nil
	}

	msgBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	select {
	case client.send <- msgBytes:
	default:
		utils.GetLogger().Warn("WebSocket client queue full, message dropped", map[string]interface{}{
			"client_id": client.id,
		})
	}
	return nil
}

// SendError queues an error message.
func (client *WebSocketClient) SendError(errorMsg string) {
	client.SendMessage(map[string]interface{}{
		"type":      "error",
		"error":     errorMsg,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// WebSocketManager fans session changes out to every connected client
type WebSocketManager struct {
	clients   map[*WebSocketClient]struct{}
	broadcast chan []byte
	stop      chan struct{}
	stopOnce  sync.Once
	mutex     sync.RWMutex

	pingTimeout        time.Duration
	lastNotificationID uint64
	logger             *utils.Logger
}

// NewWebSocketManager creates a manager and starts its loop.
func NewWebSocketManager(logger *utils.Logger) *WebSocketManager {
	if logger == nil {
		logger = utils.GetLogger()
	}
	manager := &WebSocketManager{
		clients:     make(map[*WebSocketClient]struct{}),
		broadcast:   make(chan []byte, wsBroadcastBuffer),
		stop:        make(chan struct{}),
		pingTimeout: wsPingTimeout,
		logger:      logger,
	}
	go manager.run()
	return manager
}

// Close disconnects every client and stops the loop.
func (manager *WebSocketManager) Close() {
	manager.stopOnce.Do(func() { close(manager.stop) })
}

func (manager *WebSocketManager) run() {
	cleanupTicker := time.NewTicker(30 * time.Second)
	defer cleanupTicker.Stop()

	for {
		select {
		case message := <-manager.broadcast:
			manager.broadcastMessage(message)

		case <-cleanupTicker.C:
			manager.cleanupExpiredConnections()

		case <-manager.stop:
			manager.shutdown()
			return
		}
	}
}

// Register adds client to the broadcast set.
func (manager *WebSocketManager) Register(client *WebSocketClient) {
	if client == nil {
		return
	}
	manager.mutex.Lock()
	manager.clients[client] = struct{}{}
	manager.mutex.Unlock()

	client.UpdatePing()
	manager.logger.Info("WebSocket client connected", map[string]interface{}{"client_id": client.id})
}

// Unregister removes client and closes it.
func (manager *WebSocketManager) Unregister(client *WebSocketClient) {
	if client == nil {
		return
	}
	manager.mutex.Lock()
	_, known := manager.clients[client]
	delete(manager.clients, client)
	manager.mutex.Unlock()

	client.Close()
	if known {
		manager.logger.Info("WebSocket client disconnected", map[string]interface{}{"client_id": client.id})
	}
}

func (manager *WebSocketManager) cleanupExpiredConnections() {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	for client := range manager.clients {
		if client.IsClosed() || client.IsExpired(manager.pingTimeout) {
			delete(manager.clients, client)
			client.Close()
		}
	}
}

func (manager *WebSocketManager) broadcastMessage(message []byte) {
	manager.mutex.RLock()
	clients := make([]*WebSocketClient, 0, len(manager.clients))
	for client := range manager.clients {
		if !client.IsClosed() {
			clients = append(clients, client)
		}
	}
	manager.mutex.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			// a client that cannot keep up is dropped
			manager.Unregister(client)
		}
	}
}

func (manager *WebSocketManager) shutdown() {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	for client := range manager.clients {
		client.Close()
	}
	manager.clients = make(map[*WebSocketClient]struct{})
	manager.logger.Info("WebSocket manager stopped", nil)
}

// Broadcast queues message for every client without blocking.
func (manager *WebSocketManager) Broadcast(message interface{}) {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		manager.logger.Error("Failed to encode broadcast message", map[string]interface{}{"error": err})
		return
	}

	select {
	case manager.broadcast <- msgBytes:
	case <-manager.stop:
	default:
		manager.logger.Warn("Broadcast queue full, message dropped", nil)
	}
}

// OnStateChange is a wizard.Store subscriber. It pushes each new notification
// and then the state summary. It must not call back into the Store.
func (manager *WebSocketManager) OnStateChange(state wizard.State) {
	last := atomic.LoadUint64(&manager.lastNotificationID)
	for _, n := range state.Notifications {
		if n.ID <= last {
			continue
		}
		manager.Broadcast(notificationMessage(n))
		last = n.ID
	}
	atomic.StoreUint64(&manager.lastNotificationID, last)

	manager.Broadcast(map[string]interface{}{
		"type":  "state",
		"state": newSessionView(state),
	})
}

func notificationMessage(n models.Notification) map[string]interface{} {
	return map[string]interface{}{
		"type":         "notification",
		"notification": n,
	}
}

// GetStatus reports connected clients.
func (manager *WebSocketManager) GetStatus() map[string]interface{} {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()

	clients := make([]map[string]interface{}, 0, len(manager.clients))
	for client := range manager.clients {
		if client.IsClosed() {
			continue
		}
		clients = append(clients, map[string]interface{}{
			"client_id":    client.id,
			"connected_at": client.createdAt.Format(time.RFC3339),
			"last_ping":    time.Unix(0, atomic.LoadInt64(&client.lastPing)).Format(time.RFC3339),
		})
	}

	return map[string]interface{}{
		"total_connections": len(clients),
		"clients":           clients,
	}
}

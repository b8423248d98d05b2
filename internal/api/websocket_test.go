package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Corphon/HookForge/internal/models"
	"github.com/Corphon/HookForge/internal/utils"
	"github.com/Corphon/HookForge/internal/wizard"
)

type wsMessage struct {
	Type         string               `json:"type"`
	ClientID     string               `json:"client_id"`
	Notification *models.Notification `json:"notification"`
	State        *SessionView         `json:"state"`
	Error        string               `json:"error"`
}

func dialNotifications(t *testing.T, s *testServer) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(s.router)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/notifications"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg wsMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

// readUntil skips messages until one of type msgType arrives.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) wsMessage {
	t.Helper()
	for i := 0; i < 20; i++ {
		msg := readMessage(t, conn)
		if msg.Type == msgType {
			return msg
		}
	}
	t.Fatalf("no %q message received", msgType)
	return wsMessage{}
}

func TestWebSocketWelcomeAndNotifications(t *testing.T) {
	s := newTestServer(t, nil, 0)
	conn := dialNotifications(t, s)

	welcome := readMessage(t, conn)
	assert.Equal(t, "welcome", welcome.Type)
	assert.NotEmpty(t, welcome.ClientID)
	require.NotNil(t, welcome.State)
	assert.Equal(t, []models.Stage{models.StageAngles}, welcome.State.ReachableStages)

	id := s.wizard.Store().Notify("Book angles saved!", models.SeveritySuccess)

	msg := readUntil(t, conn, "notification")
	require.NotNil(t, msg.Notification)
	assert.Equal(t, id, msg.Notification.ID)
	assert.Equal(t, "Book angles saved!", msg.Notification.Message)

	state := readUntil(t, conn, "state")
	require.NotNil(t, state.State)
	require.Len(t, state.State.Notifications, 1)
}

func TestWebSocketDismissAndPing(t *testing.T) {
	s := newTestServer(t, nil, 0)
	conn := dialNotifications(t, s)
	readMessage(t, conn)

	id := s.wizard.Store().Notify("hello", models.SeverityWarning)
	readUntil(t, conn, "notification")

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "dismiss", "id": id}))
	require.Eventually(t, func() bool {
		return len(s.wizard.State().Notifications) == 0
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "ping"}))
	assert.Equal(t, "pong", readUntil(t, conn, "pong").Type)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "shout"}))
	assert.Contains(t, readUntil(t, conn, "error").Error, "unknown message type")
}

func TestOnStateChangeSendsEachNotificationOnce(t *testing.T) {
	manager := NewWebSocketManager(utils.NewNopLogger())
	t.Cleanup(manager.Close)

	client := newWebSocketClient(nil)
	manager.Register(client)
	require.Equal(t, 1, manager.GetStatus()["total_connections"])

	state := wizard.NewState()
	state.Notifications = []models.Notification{{ID: 1, Message: "a", Severity: models.SeveritySuccess}}
	manager.OnStateChange(state)

	state.Notifications = append(state.Notifications, models.Notification{ID: 2, Message: "b", Severity: models.SeverityError})
	manager.OnStateChange(state)

	var notifications []uint64
	deadline := time.After(2 * time.Second)
	for len(notifications) < 2 {
		select {
		case data := <-client.send:
			var msg wsMessage
			require.NoError(t, json.Unmarshal(data, &msg))
			if msg.Type == "notification" {
				notifications = append(notifications, msg.Notification.ID)
			}
		case <-deadline:
			t.Fatalf("got notifications %v", notifications)
		}
	}
	assert.Equal(t, []uint64{1, 2}, notifications)

	manager.Unregister(client)
	assert.True(t, client.IsClosed())
	assert.Equal(t, 0, manager.GetStatus()["total_connections"])
}

package ws

import (
	"context"
	"testing"
	"time"

	"freelance_backend/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startManager(t *testing.T) *WebSocketManager {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	m := NewWebSocketManager()
	go m.Run(ctx)
	t.Cleanup(cancel)
	return m
}

func connect(t *testing.T, m *WebSocketManager, userID string, buffer int) *Client {
	t.Helper()
	c := &Client{UserID: userID, Send: make(chan any, buffer), Manager: m}
	m.register <- c
	require.Eventually(t, func() bool { return m.IsClientConnected(userID) }, time.Second, 5*time.Millisecond)
	return c
}

func TestManager_NotifyDeliversToEveryConnection(t *testing.T) {
	m := startManager(t)
	first := connect(t, m, "alice", 4)
	second := connect(t, m, "alice", 4)
	other := connect(t, m, "bob", 4)
	assert.Equal(t, 3, m.GetClientCount())

	err := m.Notify(context.Background(), notify.NewEvent(notify.EventBidAccepted, map[string]string{"bidId": "b1"}, "alice", "carol"))
	require.NoError(t, err)

	for _, c := range []*Client{first, second} {
		select {
		case msg := <-c.Send:
			out, ok := msg.(OutgoingWSMessage)
			require.True(t, ok)
			assert.Equal(t, "bid.accepted", out.Type)
		default:
			t.Fatal("сообщение не доставлено")
		}
	}
	assert.Empty(t, other.Send)
}

func TestManager_SlowClientIsDropped(t *testing.T) {
	m := startManager(t)
	c := connect(t, m, "alice", 1)

	assert.Equal(t, 1, m.SendToUser("alice", "one"))
	assert.Equal(t, 0, m.SendToUser("alice", "two"))

	require.Eventually(t, func() bool { return !m.IsClientConnected("alice") }, time.Second, 5*time.Millisecond)

	// канал закрыт после отключения
	<-c.Send
	_, open := <-c.Send
	assert.False(t, open)
}

func TestManager_SendToClientAfterRemoval(t *testing.T) {
	m := startManager(t)
	c := connect(t, m, "alice", 1)

	m.drop(c)
	require.Eventually(t, func() bool { return m.GetClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.False(t, m.sendToClient(c, "late"))
}

package integration_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"freelance_backend/internal/models"
	"freelance_backend/test/helpers"
	"freelance_backend/ws"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, ts *helpers.TestServer, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/ws?access_token=" + token
	conn, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, res.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil читает сообщения, пока не встретится нужный тип
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) ws.OutgoingWSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg ws.OutgoingWSMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == msgType {
			return msg
		}
	}
}

func TestWebSocket_RequiresToken(t *testing.T) {
	ts := helpers.NewTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/ws"
	_, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestWebSocket_ChatEventsAndActions(t *testing.T) {
	ts := helpers.NewTestServer(t)
	client := helpers.NewActor(models.UserRoleClient)
	freelancer := helpers.NewActor(models.UserRoleFreelancer)

	p := createProject(t, ts, client)
	bid := submitBid(t, ts, freelancer, p.ID, 45000)

	conn := dialWS(t, ts, ts.Token(t, freelancer))
	require.Eventually(t, func() bool {
		return ts.App.WSManager.IsClientConnected(freelancer.ID)
	}, 2*time.Second, 10*time.Millisecond)

	// сообщение по HTTP доходит до получателя через хаб
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/chat/messages", ts.Token(t, client),
		map[string]string{"bidId": bid.ID, "content": "Hi, are you available next week?"})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	event := readUntil(t, conn, "chat.message")
	assert.NotNil(t, event.Payload)

	// неизвестная команда - ошибка только этому соединению
	require.NoError(t, conn.WriteJSON(map[string]any{"action": "shout", "data": map[string]string{}}))
	errMsg := readUntil(t, conn, "error")
	assert.Equal(t, "shout", errMsg.Action)
	assert.Equal(t, "VALIDATION_FAILED", errMsg.Error)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"action": "send_message",
		"data":   map[string]string{"bidId": bid.ID, "content": "Yes, I can start on Monday."},
	}))
	ack := readUntil(t, conn, "ack")
	assert.Equal(t, "send_message", ack.Action)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"action": "mark_room_read",
		"data":   map[string]string{"roomId": "bid:" + bid.ID},
	}))
	ack = readUntil(t, conn, "ack")
	assert.Equal(t, "mark_room_read", ack.Action)
}

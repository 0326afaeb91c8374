package events

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/gazectl/internal/gaze"
	"github.com/ayusman/gazectl/internal/tracking"
)

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var m Message
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	conn := dial(t, hub)

	hub.ObserveState(true)
	m := read(t, conn)
	assert.Equal(t, TypeState, m.Type)
	require.NotNil(t, m.Enabled)
	assert.True(t, *m.Enabled)

	hub.ObserveFrame(tracking.Snapshot{At: time.Unix(0, 0), Evaluation: gaze.Evaluation{IrisPosition: 0.5}})
	m = read(t, conn)
	assert.Equal(t, TypeFrame, m.Type)
	require.NotNil(t, m.Snapshot)
	assert.Equal(t, 0.5, m.Snapshot.IrisPosition)
}

func TestHub_ActionEvents(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	conn := dial(t, hub)

	hub.ObserveAction(gaze.Click(gaze.ReasonEyeClosure), assert.AnError)
	hub.ObserveAction(gaze.Scroll(25, gaze.ReasonGazeLeft), nil)

	// The failed action is not broadcast.
	m := read(t, conn)
	assert.Equal(t, TypeAction, m.Type)
	require.NotNil(t, m.Action)
	assert.Equal(t, 25, m.Action.Amount)
}

func TestHub_NoClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	assert.NotPanics(t, func() { hub.ObserveState(false) })
	assert.Equal(t, 0, hub.Clients())
}

func TestHub_Disconnect(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	conn := dial(t, hub)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 5*time.Millisecond)
}

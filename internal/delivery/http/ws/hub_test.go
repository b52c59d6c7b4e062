package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fleet-campus-admin/internal/domain/event"
	"fleet-campus-admin/internal/domain/user"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, h *Hub, role user.Role) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h.Serve(w, r, uuid.New(), role)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_DeliversTripEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub()
	go h.Run(ctx)

	conn := dialHub(t, h, user.RoleDispatcher)
	require.Eventually(t, func() bool { return h.ConnectedClients() == 1 }, time.Second, 5*time.Millisecond)

	tripID := uuid.New()
	require.NoError(t, h.Publish(ctx, event.New(event.TripStatusChanged, tripID, map[string]interface{}{"to": "dispatched"})))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string      `json:"type"`
		Data event.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, string(event.TripStatusChanged), msg.Type)
	assert.Equal(t, tripID, msg.Data.AggregateID)
}

func TestHub_StoppedHubNeverBlocks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		assert.False(t, h.attach(&Client{send: make(chan []byte, 1), hub: h}))
		h.detach(&Client{hub: h})
		for i := 0; i < sendBuffer+1; i++ {
			if err := h.Publish(context.Background(), event.New(event.StudentRestored, uuid.New(), nil)); err != nil {
				assert.ErrorIs(t, err, ErrHubStopped)
				return
			}
		}
		t.Error("publish kept succeeding after the hub stopped")
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("hub operations blocked after Run returned")
	}
}

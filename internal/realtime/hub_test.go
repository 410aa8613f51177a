package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func (h *Hub) connectionCount(userID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func dialHub(t *testing.T, hub *Hub, userID uint64) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, userID)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return hub.connectionCount(userID) == 1
	}, time.Second, 10*time.Millisecond)

	return conn
}

func TestHub_ConcurrentEmitsToOneConnection(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub, 7)

	const emits = 50
	var wg sync.WaitGroup
	for i := 0; i < emits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.EmitToUser(7, "notification", map[string]int{"unread": 1})
		}()
	}
	wg.Wait()

	for i := 0; i < emits; i++ {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		require.Equal(t, "notification", msg.Event)
	}
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub, 9)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return hub.connectionCount(9) == 0
	}, time.Second, 10*time.Millisecond)

	// emitting to a user with no connections is a no-op
	hub.EmitToUser(9, "notification", nil)
}

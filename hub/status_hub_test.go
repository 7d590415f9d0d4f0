package hub

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wasabi52ngg/restaurant-chain/utils"
)

func newTestServer(t *testing.T, h *Hub) *httptest.Server {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Register(conn, 7)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBroadcastReachesClients(t *testing.T) {
	utils.InitLogger()
	h := NewHub()
	srv := newTestServer(t, h)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	h.Broadcast("table_status", map[string]interface{}{"id": 3, "status": "OCCUPIED"})

	var msg Message
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, client.ReadJSON(&msg))
	assert.Equal(t, "table_status", msg.Event)
	data := msg.Data.(map[string]interface{})
	assert.Equal(t, "OCCUPIED", data["status"])
}

func TestUnregisterIsIdempotent(t *testing.T) {
	utils.InitLogger()
	h := NewHub()
	srv := newTestServer(t, h)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	h.mutex.Lock()
	var conn *websocket.Conn
	for c := range h.clients {
		conn = c
	}
	h.mutex.Unlock()

	h.Unregister(conn)
	h.Unregister(conn)
	assert.Equal(t, 0, h.ClientCount())
}

func TestBroadcastDropsSlowClient(t *testing.T) {
	utils.InitLogger()
	h := NewHub()

	conns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	remote, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer remote.Close()
	conn := <-conns

	// a client with no writer running and a full buffer
	stalled := &client{conn: conn, userID: 9, send: make(chan []byte, 1)}
	stalled.send <- []byte("pending")
	h.mutex.Lock()
	h.clients[conn] = stalled
	h.mutex.Unlock()

	done := make(chan struct{})
	go func() {
		h.Broadcast("table_status", map[string]interface{}{"id": 1})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a stalled client")
	}
	assert.Equal(t, 0, h.ClientCount())
}

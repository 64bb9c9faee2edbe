package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
)

func newTestWSServer(t *testing.T, m *WSManager) *httptest.Server {
	t.Helper()
	user := &domain.User{ID: "u-1", Username: "viewer", Role: domain.RoleViewer}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.HandleWebSocket(w, r.WithContext(domain.WithUser(r.Context(), user)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialTestWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWSManager_DeliversEvents(t *testing.T) {
	m := NewWSManager()
	srv := newTestWSServer(t, m)

	conn := dialTestWS(t, srv)

	// 1. Wait for the subscription to register
	require.Eventually(t, func() bool {
		return m.clientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// 2. Publish and read the event back
	m.Publish(domain.NewEvent(domain.EventLinkCreated, map[string]string{"link_id": "l-1"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got domain.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, domain.EventLinkCreated, got.Type)
}

func TestWSManager_PublishDoesNotBlockOnStalledClient(t *testing.T) {
	m := NewWSManager()
	srv := newTestWSServer(t, m)

	// 1. Connect a client that never reads its socket
	dialTestWS(t, srv)
	require.Eventually(t, func() bool {
		return m.clientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// 2. Broadcast a burst of large events; a blocking write would wedge
	// this loop once the kernel buffers fill
	payload := strings.Repeat("x", 1<<20)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 64; i++ {
			m.Publish(domain.NewEvent(domain.EventScanCompleted, payload))
		}
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Publish blocked on a stalled client")
	}

	// 3. The stalled client must have been dropped
	assert.Eventually(t, func() bool {
		return m.clientCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWSManager_StalledClientDoesNotStarveOthers(t *testing.T) {
	m := NewWSManager()
	srv := newTestWSServer(t, m)

	dialTestWS(t, srv) // never reads
	reader := dialTestWS(t, srv)

	require.Eventually(t, func() bool {
		return m.clientCount() == 2
	}, 2*time.Second, 10*time.Millisecond)

	received := make(chan domain.EventType, 256)
	go func() {
		defer close(received)
		for {
			var got domain.Event
			if err := reader.ReadJSON(&got); err != nil {
				return
			}
			received <- got.Type
		}
	}()

	// Paced so the draining client keeps up while the silent one falls behind
	payload := strings.Repeat("x", 1<<20)
	for i := 0; i < 64; i++ {
		m.Publish(domain.NewEvent(domain.EventScanCompleted, payload))
		time.Sleep(5 * time.Millisecond)
	}

	// Only the stalled client is shed
	require.Eventually(t, func() bool {
		return m.clientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// The healthy client still gets events
	m.Publish(domain.NewEvent(domain.EventLinkDeleted, nil))
	deadline := time.After(3 * time.Second)
	for {
		select {
		case typ, ok := <-received:
			require.True(t, ok, "reading client was dropped")
			if typ == domain.EventLinkDeleted {
				return
			}
		case <-deadline:
			t.Fatal("reading client never received the event")
		}
	}
}

func TestWSManager_RejectsAnonymous(t *testing.T) {
	m := NewWSManager()
	srv := httptest.NewServer(http.HandlerFunc(m.HandleWebSocket))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

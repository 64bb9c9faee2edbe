package events

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
)

const (
	// sendBufferSize bounds how far a client may lag before it is dropped.
	sendBufferSize = 16
	writeTimeout   = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Same-origin requests carry no Origin header
		return r.Header.Get("Origin") == "" || r.Host == stripScheme(r.Header.Get("Origin"))
	},
}

func stripScheme(origin string) string {
	for _, prefix := range []string{"http://", "https://"} {
		if len(origin) > len(prefix) && origin[:len(prefix)] == prefix {
			return origin[len(prefix):]
		}
	}
	return origin
}

// wsClient is one connected subscriber. All socket writes happen on its
// writer goroutine, fed from the buffered send channel.
type wsClient struct {
	conn *websocket.Conn
	user *domain.User
	send chan domain.Event
}

// WSManager pushes inventory events (scan completions, link changes) to
// connected dashboard clients. Delivery is best-effort: each client has a
// bounded send buffer drained by its own writer goroutine, and a client
// whose buffer fills is disconnected. Publish never performs socket I/O
// and never blocks the mutation that produced the event.
type WSManager struct {
	clients map[*wsClient]struct{}
	mu      sync.Mutex
}

// NewWSManager creates a new websocket manager.
func NewWSManager() *WSManager {
	return &WSManager{
		clients: make(map[*wsClient]struct{}),
	}
}

var _ ports.EventSink = (*WSManager)(nil)

// HandleWebSocket upgrades an authenticated request to a websocket
// subscription.
func (m *WSManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{
		conn: conn,
		user: user,
		send: make(chan domain.Event, sendBufferSize),
	}

	m.mu.Lock()
	m.clients[client] = struct{}{}
	m.mu.Unlock()

	slog.Info("websocket connected", "user", user.Username, "role", user.Role)

	go m.writePump(client)
	go m.readPump(client)
}

// writePump drains the send channel onto the socket. Each write carries a
// deadline so a dead peer cannot hold the goroutine forever.
func (m *WSManager) writePump(c *wsClient) {
	defer c.conn.Close()
	for event := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(event); err != nil {
			m.drop(c)
			return
		}
	}
}

// readPump discards inbound frames until the client goes away, then cleans
// up the registration.
func (m *WSManager) readPump(c *wsClient) {
	defer c.conn.Close()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	m.drop(c)
	slog.Info("websocket disconnected", "user", c.user.Username)
}

// drop unregisters the client and closes its send channel exactly once,
// which terminates the writer goroutine.
func (m *WSManager) drop(c *wsClient) {
	m.mu.Lock()
	_, registered := m.clients[c]
	delete(m.clients, c)
	m.mu.Unlock()

	if registered {
		close(c.send)
	}
}

// clientCount reports the number of registered subscribers.
func (m *WSManager) clientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// Publish hands the event to every subscriber's buffer. A client whose
// buffer is already full is stalled and gets disconnected rather than
// stalling the caller.
func (m *WSManager) Publish(event domain.Event) {
	m.mu.Lock()
	var stalled []*wsClient
	for c := range m.clients {
		select {
		case c.send <- event:
		default:
			stalled = append(stalled, c)
		}
	}
	m.mu.Unlock()

	for _, c := range stalled {
		slog.Warn("websocket client too slow, dropping", "user", c.user.Username)
		m.drop(c)
		c.conn.Close()
	}
}

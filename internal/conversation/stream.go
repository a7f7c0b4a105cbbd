package conversation

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/voxcare-ai/voxcare-server/pkg/logging"
)

// StreamHub fans transcript entries out to connected websocket clients so
// the UI scrollback can follow the conversation live. It is a read-only
// projection: clients receive entries but send nothing back.
type StreamHub struct {
	logger   *logging.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewStreamHub creates an empty hub.
func NewStreamHub(logger *logging.Logger) *StreamHub {
	if logger == nil {
		logger = logging.Default()
	}
	return &StreamHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			// The widget may be served from any origin; transcript data is
			// already exposed read-only over GET.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the client goes away.
func (h *StreamHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("transcript stream client connected", "remote", conn.RemoteAddr().String())

	// Drain inbound frames until the peer closes; clients are not expected
	// to send anything.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends entries, in order, to every connected client. Clients that
// fail to accept a write are dropped.
func (h *StreamHub) Broadcast(entries ...TranscriptEntry) {
	if h == nil || len(entries) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		for _, entry := range entries {
			if err := conn.WriteJSON(entry); err != nil {
				h.logger.Debug("dropping transcript stream client", "error", err)
				conn.Close()
				delete(h.conns, conn)
				break
			}
		}
	}
}

// Close disconnects all clients.
func (h *StreamHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}

func (h *StreamHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn.Close()
	delete(h.conns, conn)
}

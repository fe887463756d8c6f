package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/gesture"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// snapshotInterval is the WebSocket broadcast cadence (~30 FPS).
const snapshotInterval = 33 * time.Millisecond

// SnapshotHandler broadcasts the live gesture snapshot via WebSocket.
type SnapshotHandler struct {
	engine  *gesture.Engine
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

// NewSnapshotHandler creates a handler broadcasting the engine's snapshots.
func NewSnapshotHandler(engine *gesture.Engine) *SnapshotHandler {
	h := &SnapshotHandler{
		engine:  engine,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast pushes the current snapshot to all connected clients.
func (h *SnapshotHandler) broadcast() {
	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}

		snap := h.engine.Read()
		for conn := range h.clients {
			conn.WriteJSON(snap)
		}
		h.mu.RUnlock()
	}
}

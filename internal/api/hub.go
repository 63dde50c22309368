package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Platopotato/TRIBES-sub000/internal/engine"
)

const (
	writeWait   = 10 * time.Second
	maxWatchers = 32
)

// TurnEvent is pushed to watchers after every processed turn.
type TurnEvent struct {
	Type  string       `json:"type"`
	Turn  int          `json:"turn"`
	Stats engine.Stats `json:"stats"`
}

// Hub fans turn events out to websocket watchers.
type Hub struct {
	mu       sync.Mutex
	watchers map[*watcher]struct{}
	upgrader websocket.Upgrader
}

type watcher struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *watcher) send(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		watchers: make(map[*watcher]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Watchers returns the number of connected clients.
func (h *Hub) Watchers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers)
}

// Broadcast sends ev to every watcher, dropping any that fail.
func (h *Hub) Broadcast(ev TurnEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("encode turn event", "error", err)
		return
	}

	h.mu.Lock()
	targets := make([]*watcher, 0, len(h.watchers))
	for w := range h.watchers {
		targets = append(targets, w)
	}
	h.mu.Unlock()

	for _, w := range targets {
		if err := w.send(data); err != nil {
			slog.Debug("watcher dropped", "error", err)
			h.remove(w)
		}
	}
}

func (h *Hub) remove(w *watcher) {
	h.mu.Lock()
	_, ok := h.watchers[w]
	delete(h.watchers, w)
	h.mu.Unlock()
	if ok {
		w.conn.Close()
	}
}

// ServeHTTP upgrades the request and keeps the watcher until it hangs up.
// The stream is one-way; inbound frames are discarded.
func (h *Hub) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if h.Watchers() >= maxWatchers {
		http.Error(rw, "too many watchers", http.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	w := &watcher{conn: conn}
	h.mu.Lock()
	h.watchers[w] = struct{}{}
	h.mu.Unlock()
	slog.Info("watcher connected", "remote", r.RemoteAddr)

	conn.SetReadLimit(512)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(w)
	slog.Info("watcher disconnected", "remote", r.RemoteAddr)
}

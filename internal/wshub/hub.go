// Package wshub implements a small broadcast hub for WebSocket clients with
// a bounded replay history. The live log stream and the job progress stream
// are both built on it.
package wshub

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// ErrMaxConnectionsReached is returned by AddClient when the hub is full.
var ErrMaxConnectionsReached = errors.New("maximum WebSocket connections reached")

// Message is a broadcast unit. ID is a monotonically increasing sequence
// number used as a replay cursor.
type Message struct {
	ID        uint64 `json:"id"`
	Timestamp string `json:"timestamp"`
	Payload   any    `json:"payload"`
}

type clientInfo struct {
	conn         *websocket.Conn
	lastActivity time.Time
}

// Hub fans messages out to connected clients and keeps a capped history so
// late joiners can catch up.
type Hub struct {
	name      string
	clients   map[*websocket.Conn]*clientInfo
	broadcast chan Message
	mu        sync.RWMutex

	history    []Message
	historyMu  sync.RWMutex
	historyCap int
	seq        uint64

	maxConnections int
	idleTimeout    time.Duration
	stopCh         chan struct{}
	stopOnce       sync.Once
}

// New creates and starts a hub. name is used only for logging.
func New(name string) *Hub {
	h := &Hub{
		name:           name,
		clients:        make(map[*websocket.Conn]*clientInfo),
		broadcast:      make(chan Message, 100),
		history:        make([]Message, 0, 500),
		historyCap:     500,
		maxConnections: 100,
		idleTimeout:    30 * time.Minute,
		stopCh:         make(chan struct{}),
	}
	h.start()
	return h
}

func (h *Hub) start() {
	go func() {
		for {
			select {
			case msg := <-h.broadcast:
				h.mu.RLock()
				for conn, info := range h.clients {
					info.lastActivity = time.Now()
					go func(c *websocket.Conn, m Message) {
						if err := c.WriteJSON(m); err != nil {
							log.WithField("hub", h.name).Debugf("write to client failed: %v", err)
							h.RemoveClient(c)
						}
					}(conn, msg)
				}
				h.mu.RUnlock()
			case <-h.stopCh:
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(2 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.dropIdleClients()
			case <-h.stopCh:
				return
			}
		}
	}()
}

// Stop disconnects all clients and halts the hub.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stopCh) })
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]*clientInfo)
}

// AddClient registers a connection for broadcasts.
func (h *Hub) AddClient(conn *websocket.Conn) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) >= h.maxConnections {
		log.WithField("hub", h.name).Warnf("connection limit reached (%d), rejecting client", h.maxConnections)
		return ErrMaxConnectionsReached
	}
	h.clients[conn] = &clientInfo{conn: conn, lastActivity: time.Now()}
	log.WithField("hub", h.name).Infof("client connected (total: %d)", len(h.clients))
	return nil
}

// RemoveClient drops and closes a connection.
func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
		log.WithField("hub", h.name).Infof("client disconnected (remaining: %d)", len(h.clients))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish broadcasts payload to all clients; when the channel is full the
// message is still recorded in history but the live send is dropped.
func (h *Hub) Publish(payload any) {
	msg := Message{
		ID:        atomic.AddUint64(&h.seq, 1),
		Timestamp: time.Now().Format(time.RFC3339),
		Payload:   payload,
	}
	h.appendHistory(msg)
	select {
	case h.broadcast <- msg:
	default:
	}
}

func (h *Hub) appendHistory(msg Message) {
	if h.historyCap <= 0 {
		return
	}
	h.historyMu.Lock()
	defer h.historyMu.Unlock()
	h.history = append(h.history, msg)
	if len(h.history) > h.historyCap {
		excess := len(h.history) - h.historyCap
		h.history = append([]Message(nil), h.history[excess:]...)
	}
}

// FetchSince returns up to limit messages with ID greater than cursor,
// the next cursor value, and whether more remain.
func (h *Hub) FetchSince(cursor uint64, limit int) ([]Message, uint64, bool) {
	h.historyMu.RLock()
	defer h.historyMu.RUnlock()

	if limit <= 0 || limit > h.historyCap {
		limit = h.historyCap
	}
	total := len(h.history)
	if total == 0 {
		return []Message{}, cursor, false
	}

	start := 0
	if cursor == 0 {
		if total > limit {
			start = total - limit
		}
	} else {
		start = total
		for i, msg := range h.history {
			if msg.ID > cursor {
				start = i
				break
			}
		}
		if start >= total {
			return []Message{}, cursor, false
		}
	}

	end := start + limit
	if end > total {
		end = total
	}
	out := make([]Message, end-start)
	copy(out, h.history[start:end])

	next := cursor
	if len(out) > 0 {
		next = out[len(out)-1].ID
	}
	return out, next, end < total
}

func (h *Hub) dropIdleClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := time.Now()
	for conn, info := range h.clients {
		if now.Sub(info.lastActivity) > h.idleTimeout {
			delete(h.clients, conn)
			conn.Close()
			log.WithField("hub", h.name).Info("removed idle client")
		}
	}
}

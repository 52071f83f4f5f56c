package server

import (
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"transmate/internal/logging"
	"transmate/internal/wshub"
	"github.com/gin-gonic/gin"
	ws "github.com/gorilla/websocket"
)

const (
	wsReadDeadline  = 90 * time.Second
	wsPingInterval  = 30 * time.Second
	wsReplayBacklog = 100
)

// registerStreams mounts the live log and job progress WebSocket endpoints.
func registerStreams(engine *gin.Engine, deps Dependencies) {
	upgrader := newUpgrader(deps.Config.Get().CORSOrigins)

	engine.GET("/ws/logs", func(c *gin.Context) {
		serveHub(c, upgrader, logging.Hub())
	})
	engine.GET("/ws/progress", func(c *gin.Context) {
		serveHub(c, upgrader, deps.Progress.Hub)
	})
}

// newUpgrader allows same-host connections plus the configured CORS origins.
func newUpgrader(allowed []string) ws.Upgrader {
	return ws.Upgrader{CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := neturl.Parse(origin)
		if err != nil {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
			if au, err2 := neturl.Parse(a); err2 == nil && au.Host != "" && strings.EqualFold(au.Host, u.Host) {
				return true
			}
		}
		return false
	}}
}

func serveHub(c *gin.Context, upgrader ws.Upgrader, hub *wshub.Hub) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := hub.AddClient(conn); err != nil {
		_ = conn.WriteJSON(map[string]string{"error": "maximum connections reached"})
		conn.Close()
		return
	}

	// Replay the recent backlog so a late joiner sees context immediately.
	if backlog, _, _ := hub.FetchSince(0, wsReplayBacklog); len(backlog) > 0 {
		for _, msg := range backlog {
			if err := conn.WriteJSON(msg); err != nil {
				hub.RemoveClient(conn)
				return
			}
		}
	}

	_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
		return nil
	})

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(ws.PingMessage, []byte("ping"), time.Now().Add(10*time.Second)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Read loop keeps the connection alive and detects disconnects.
	for {
		if _, _, err := conn.NextReader(); err != nil {
			close(done)
			hub.RemoveClient(conn)
			break
		}
	}
}

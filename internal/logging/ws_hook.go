package logging

import (
	"sync"

	"transmate/internal/wshub"
	log "github.com/sirupsen/logrus"
)

// LogEvent is the payload broadcast for each log entry.
type LogEvent struct {
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

var (
	logHub     *wshub.Hub
	logHubOnce sync.Once
)

// Hub returns the hub carrying the live log stream.
func Hub() *wshub.Hub {
	logHubOnce.Do(func() { logHub = wshub.New("logs") })
	return logHub
}

type wsHook struct {
	hub *wshub.Hub
}

func (h *wsHook) Levels() []log.Level { return log.AllLevels }

func (h *wsHook) Fire(entry *log.Entry) error {
	fields := make(map[string]any, len(entry.Data))
	for k, v := range entry.Data {
		fields[k] = v
	}
	h.hub.Publish(LogEvent{
		Level:   entry.Level.String(),
		Message: entry.Message,
		Fields:  fields,
	})
	return nil
}

var installOnce sync.Once

// InstallWebSocketLogging mirrors logrus output to the log hub. Safe to call
// more than once.
func InstallWebSocketLogging() {
	installOnce.Do(func() {
		log.AddHook(&wsHook{hub: Hub()})
		log.Info("WebSocket logging installed")
	})
}

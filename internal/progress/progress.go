// Package progress streams per-chunk translation job state to the browser.
package progress

import (
	"transmate/internal/wshub"
)

// Chunk processing states.
const (
	StateQueued      = "queued"
	StateTranslating = "translating"
	StateDone        = "done"
	StateFailed      = "failed"
)

// Event describes the state of one chunk within a job. Chunk is 1-based;
// Total is the chunk count of the job.
type Event struct {
	JobID string `json:"job_id"`
	Chunk int    `json:"chunk"`
	Total int    `json:"total"`
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

// Hub broadcasts job progress events.
type Hub struct {
	*wshub.Hub
}

// NewHub creates a started progress hub.
func NewHub() *Hub {
	return &Hub{Hub: wshub.New("progress")}
}

// Publish broadcasts a progress event.
func (h *Hub) Publish(ev Event) {
	if h == nil || h.Hub == nil {
		return
	}
	h.Hub.Publish(ev)
}

package metrics

import (
	"time"

	"github.com/google/uuid"
)

// TokenUsage records token consumption for one call attempt.
type TokenUsage struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Total      int `json:"total"`
}

// Event is one provider call attempt. Immutable once recorded.
type Event struct {
	ID         string        `json:"id"`
	Provider   string        `json:"provider"`
	Model      string        `json:"model,omitempty"`
	Operation  string        `json:"operation"`
	Latency    time.Duration `json:"latency_ns"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
	Usage      *TokenUsage   `json:"usage,omitempty"`
	Confidence float64       `json:"confidence,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// normalize fills the ID and timestamp if the caller left them zero.
func (e *Event) normalize(now time.Time) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
}

// Package contact handles the portfolio's contact form. Submissions are
// validated and acknowledged locally; nothing is delivered anywhere.
package contact

import (
	"sync"
	"time"
)

// AckWindow is how long the "message sent" state stays up.
const AckWindow = 5 * time.Second

// Submission is the bound contact form.
type Submission struct {
	Name    string `form:"name" json:"name" binding:"required,max=100"`
	Email   string `form:"email" json:"email" binding:"required,email,max=254"`
	Message string `form:"message" json:"message" binding:"required,max=5000"`
}

// Acknowledger tracks, per visitor, when the last submission was accepted.
type Acknowledger struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
}

func NewAcknowledger(window time.Duration) *Acknowledger {
	if window <= 0 {
		window = AckWindow
	}
	return &Acknowledger{window: window, last: make(map[string]time.Time)}
}

// Submit records an accepted submission and returns when its
// acknowledgment expires.
func (a *Acknowledger) Submit(visitorID string, now time.Time) time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last[visitorID] = now
	a.prune(now)
	return now.Add(a.window)
}

// Active reports whether visitorID is still inside its acknowledgment window.
func (a *Acknowledger) Active(visitorID string, now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	at, ok := a.last[visitorID]
	return ok && now.Sub(at) < a.window
}

func (a *Acknowledger) prune(now time.Time) {
	for id, at := range a.last {
		if now.Sub(at) >= a.window {
			delete(a.last, id)
		}
	}
}

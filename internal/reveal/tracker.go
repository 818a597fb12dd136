// Package reveal decides when a section's entrance animation is active
// from the intersection ratios the page reports for it.
package reveal

import (
	"errors"
	"sync"
)

var ErrTargetMissing = errors.New("observation target missing")

// DefaultThreshold is the fraction of a section that must be visible.
const DefaultThreshold = 0.1

type Latch int

const (
	// Once fires false to true a single time and never reconsiders.
	Once Latch = iota
	// Continuous follows the section in and out of view.
	Continuous
)

func (l Latch) String() string {
	if l == Continuous {
		return "continuous"
	}
	return "once"
}

type Config struct {
	Threshold float64
	Latch     Latch
}

func (c Config) withDefaults() Config {
	if c.Threshold <= 0 || c.Threshold > 1 {
		c.Threshold = DefaultThreshold
	}
	return c
}

// Tracker holds the visibility flag for one section.
type Tracker struct {
	mu       sync.Mutex
	id       string
	cfg      Config
	visible  bool
	stopped  bool
	onChange func(id string, visible bool)
}

func New(sectionID string, cfg Config) *Tracker {
	return &Tracker{id: sectionID, cfg: cfg.withDefaults()}
}

func (t *Tracker) ID() string     { return t.id }
func (t *Tracker) Config() Config { return t.cfg }

// OnChange registers fn to run after every transition.
func (t *Tracker) OnChange(fn func(id string, visible bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// Observe feeds one intersection report and reports whether the flag
// changed.
func (t *Tracker) Observe(ratio float64) bool {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return false
	}

	intersecting := ratio >= t.cfg.Threshold
	next := t.visible
	switch t.cfg.Latch {
	case Once:
		if intersecting {
			next = true
		}
	case Continuous:
		next = intersecting
	}

	changed := next != t.visible
	t.visible = next
	fn := t.onChange
	t.mu.Unlock()

	if changed && fn != nil {
		fn(t.id, next)
	}
	return changed
}

func (t *Tracker) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// Stop ends observation and drops the callback. Later reports are ignored.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.onChange = nil
}

func (t *Tracker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

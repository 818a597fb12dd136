package reveal

import (
	"fmt"
	"sort"
	"sync"
)

// Section pairs a section ID with how its tracker latches.
type Section struct {
	ID     string
	Config Config
}

// DefaultSections lists the page's sections in render order. Hero and about
// follow the viewport so their animations replay; everything below them
// reveals once.
func DefaultSections() []Section {
	return []Section{
		{ID: "hero", Config: Config{Threshold: DefaultThreshold, Latch: Continuous}},
		{ID: "about", Config: Config{Threshold: DefaultThreshold, Latch: Continuous}},
		{ID: "skills", Config: Config{Threshold: DefaultThreshold, Latch: Once}},
		{ID: "projects", Config: Config{Threshold: DefaultThreshold, Latch: Once}},
		{ID: "experience", Config: Config{Threshold: DefaultThreshold, Latch: Once}},
		{ID: "contact", Config: Config{Threshold: DefaultThreshold, Latch: Once}},
		{ID: "footer", Config: Config{Threshold: DefaultThreshold, Latch: Once}},
	}
}

// Registry holds the trackers for one page session.
type Registry struct {
	mu       sync.Mutex
	trackers map[string]*Tracker
	onChange func(id string, visible bool)
}

func NewRegistry(onChange func(id string, visible bool)) *Registry {
	return &Registry{
		trackers: make(map[string]*Tracker),
		onChange: onChange,
	}
}

// NewPageRegistry tracks every section in sections.
func NewPageRegistry(sections []Section, onChange func(id string, visible bool)) *Registry {
	r := NewRegistry(onChange)
	for _, s := range sections {
		r.Track(s.ID, s.Config)
	}
	return r
}

// Track starts a tracker for id, replacing and stopping any previous one.
func (r *Registry) Track(id string, cfg Config) *Tracker {
	t := New(id, cfg)
	if r.onChange != nil {
		t.OnChange(r.onChange)
	}

	r.mu.Lock()
	old := r.trackers[id]
	r.trackers[id] = t
	r.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	return t
}

// Observe routes a report to the section's tracker.
func (r *Registry) Observe(id string, ratio float64) (bool, error) {
	r.mu.Lock()
	t, ok := r.trackers[id]
	r.mu.Unlock()
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrTargetMissing, id)
	}
	return t.Observe(ratio), nil
}

func (r *Registry) Visible(id string) bool {
	r.mu.Lock()
	t, ok := r.trackers[id]
	r.mu.Unlock()
	return ok && t.Visible()
}

// Snapshot returns every tracked section's current flag.
func (r *Registry) Snapshot() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool, len(r.trackers))
	for id, t := range r.trackers {
		out[id] = t.Visible()
	}
	return out
}

// IDs returns the tracked section IDs, sorted.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.trackers))
	for id := range r.trackers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Untrack stops and forgets a section's tracker.
func (r *Registry) Untrack(id string) {
	r.mu.Lock()
	t, ok := r.trackers[id]
	delete(r.trackers, id)
	r.mu.Unlock()
	if ok {
		t.Stop()
	}
}

// Close stops every tracker.
func (r *Registry) Close() {
	r.mu.Lock()
	trackers := r.trackers
	r.trackers = make(map[string]*Tracker)
	r.mu.Unlock()
	for _, t := range trackers {
		t.Stop()
	}
}

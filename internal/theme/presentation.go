package theme

import (
	"sort"
	"strings"
	"sync"
)

// Presentation is the page-wide marker set a controller applies to.
// Each page render or live session owns its own instance.
type Presentation struct {
	mu      sync.RWMutex
	markers map[string]struct{}
}

func NewPresentation() *Presentation {
	return &Presentation{markers: make(map[string]struct{})}
}

func (p *Presentation) Add(markers ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range markers {
		p.markers[m] = struct{}{}
	}
}

func (p *Presentation) Remove(markers ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range markers {
		delete(p.markers, m)
	}
}

func (p *Presentation) Has(marker string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.markers[marker]
	return ok
}

// Markers returns a sorted snapshot.
func (p *Presentation) Markers() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.markers))
	for m := range p.markers {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// ClassAttr renders the markers as a class attribute value.
func (p *Presentation) ClassAttr() string {
	return strings.Join(p.Markers(), " ")
}

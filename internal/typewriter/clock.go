package typewriter

import (
	"sync"
	"time"
)

// ManualClock hands out tickers that only fire when Tick is called.
type ManualClock struct {
	mu      sync.Mutex
	tickers []*manualTicker
	ready   chan struct{}
}

func NewManualClock() *ManualClock {
	return &ManualClock{ready: make(chan struct{})}
}

func (m *ManualClock) NewTicker(time.Duration) Ticker {
	t := &manualTicker{c: make(chan time.Time), stopped: make(chan struct{})}
	m.mu.Lock()
	m.tickers = append(m.tickers, t)
	first := len(m.tickers) == 1
	m.mu.Unlock()
	if first {
		close(m.ready)
	}
	return t
}

// WaitForTicker blocks until the first ticker has been created.
func (m *ManualClock) WaitForTicker() {
	<-m.ready
}

// Tick fires every live ticker once, blocking until each has been received
// or stopped.
func (m *ManualClock) Tick() {
	m.mu.Lock()
	tickers := append([]*manualTicker(nil), m.tickers...)
	m.mu.Unlock()
	for _, t := range tickers {
		select {
		case t.c <- time.Time{}:
		case <-t.stopped:
		}
	}
}

type manualTicker struct {
	c        chan time.Time
	stopped  chan struct{}
	stopOnce sync.Once
}

func (t *manualTicker) C() <-chan time.Time { return t.c }

func (t *manualTicker) Stop() {
	t.stopOnce.Do(func() { close(t.stopped) })
}

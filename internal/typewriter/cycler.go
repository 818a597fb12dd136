package typewriter

import (
	"context"
	"sync"
	"time"
)

// Ticker is the part of *time.Ticker a Cycler needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// RealClock ticks on wall time.
type RealClock struct{}

func (RealClock) NewTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// Cycler drives a Script on a clock and emits every display change.
// Each Cycler owns its state; instances share nothing.
type Cycler struct {
	script *Script
	clock  Clock

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

func New(script *Script, clock Clock) *Cycler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Cycler{script: script, clock: clock}
}

// State returns the current machine state.
func (c *Cycler) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Run emits the initial (empty) frame, then one frame per change, until
// ctx is cancelled or Stop is called. Run always starts from the first
// line.
func (c *Cycler) Run(ctx context.Context, emit func(frame string)) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	c.mu.Lock()
	c.state = State{}
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	defer close(done)
	defer cancel()

	ticker := c.clock.NewTicker(c.script.Interval())
	defer ticker.Stop()

	last := c.script.Display(State{})
	emit(last)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
		}

		c.mu.Lock()
		c.state = c.script.Step(c.state, c.script.Interval())
		frame := c.script.Display(c.state)
		c.mu.Unlock()

		if frame != last {
			last = frame
			emit(frame)
		}
	}
}

// Stop cancels a running Run and waits for it to return. Safe to call more
// than once or before Run.
func (c *Cycler) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

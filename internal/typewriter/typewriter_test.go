package typewriter

import (
	"context"
	"errors"
	"testing"
	"time"
)

func mustCompile(t *testing.T, cfg Config) *Script {
	t.Helper()
	s, err := Compile(cfg)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return s
}

func TestStepTickByTick(t *testing.T) {
	s := mustCompile(t, Config{Script: []string{"ab", "c"}, Interval: 1, Pause: 2})

	// Two full cycles plus the start of a third.
	want := []string{"a", "ab", "ab", "", "c", "c", "", "a", "ab", "ab", "", "c", "c", "", "a"}

	var st State
	for i, w := range want {
		st = s.Step(st, 1)
		if got := s.Display(st); got != w {
			t.Fatalf("tick %d: display %q, want %q (state %+v)", i+1, got, w, st)
		}
	}
}

func TestStepPhases(t *testing.T) {
	s := mustCompile(t, Config{Script: []string{"ab", "c"}, Interval: 1, Pause: 2})

	st := s.Step(State{}, 2)
	if st.Phase != Pausing || s.Display(st) != "ab" {
		t.Fatalf("expected pausing on full line, got %+v", st)
	}
	st = s.Step(st, 2)
	if st.Phase != Revealing || st.Index != 1 || st.Revealed != 0 {
		t.Fatalf("expected reset onto second line, got %+v", st)
	}
	st = s.Step(st, 1)
	st = s.Step(st, 2)
	if st.Index != 0 {
		t.Errorf("expected wrap to first line, got index %d", st.Index)
	}
}

func TestStepCatchesUp(t *testing.T) {
	s := mustCompile(t, Config{Script: []string{"ab", "c"}, Interval: 1, Pause: 2})

	var stepped State
	for i := 0; i < 5; i++ {
		stepped = s.Step(stepped, 1)
	}
	jumped := s.Step(State{}, 5)
	if stepped != jumped {
		t.Errorf("single 5-tick step %+v differs from five 1-tick steps %+v", jumped, stepped)
	}
}

func TestStepRevealsRunes(t *testing.T) {
	s := mustCompile(t, Config{Script: []string{"hé👋"}, Interval: 1, Pause: 1})
	st := s.Step(State{}, 3)
	if got := s.Display(st); got != "hé👋" {
		t.Errorf("expected full line after 3 runes, got %q", got)
	}
	st = s.Step(State{}, 2)
	if got := s.Display(st); got != "hé" {
		t.Errorf("expected two runes, got %q", got)
	}
}

func TestStepSkipsEmptyLines(t *testing.T) {
	s := mustCompile(t, Config{Script: []string{"x", "", "y"}, Interval: 1, Pause: 1})
	var st State
	st = s.Step(st, 1) // "x"
	st = s.Step(st, 1) // pause over, onto ""
	st = s.Step(st, 1) // "" is complete, its pause ends, onto "y"
	if st.Index != 2 {
		t.Fatalf("expected to reach third line, got %+v", st)
	}
}

func TestCompile(t *testing.T) {
	if _, err := Compile(Config{}); !errors.Is(err, ErrEmptyScript) {
		t.Errorf("nil script: %v", err)
	}
	if _, err := Compile(Config{Script: []string{"", ""}}); !errors.Is(err, ErrEmptyScript) {
		t.Errorf("blank script: %v", err)
	}

	s := mustCompile(t, Config{Script: []string{"a"}, Pause: -time.Second})
	if s.Interval() != DefaultInterval {
		t.Errorf("interval default: %v", s.Interval())
	}
	if s.Pause() != 0 {
		t.Errorf("negative pause not clamped: %v", s.Pause())
	}
}

func TestCyclerEmitsChanges(t *testing.T) {
	s := mustCompile(t, Config{Script: []string{"ab", "c"}, Interval: 1, Pause: 2})
	clock := NewManualClock()
	c := New(s, clock)

	frames := make(chan string, 32)
	go c.Run(context.Background(), func(f string) { frames <- f })
	clock.WaitForTicker()

	for i := 0; i < 9; i++ {
		clock.Tick()
	}
	c.Stop()
	close(frames)

	var got []string
	for f := range frames {
		got = append(got, f)
	}
	want := []string{"", "a", "ab", "", "c", "", "a", "ab"}
	if len(got) != len(want) {
		t.Fatalf("frames %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame %d: %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCyclersAreIndependent(t *testing.T) {
	s := mustCompile(t, Config{Script: []string{"abc"}, Interval: 1, Pause: 1})
	clockA, clockB := NewManualClock(), NewManualClock()
	a, b := New(s, clockA), New(s, clockB)

	go a.Run(context.Background(), func(string) {})
	go b.Run(context.Background(), func(string) {})
	clockA.WaitForTicker()
	clockB.WaitForTicker()

	clockA.Tick()
	clockA.Tick()
	clockB.Tick()
	a.Stop()
	b.Stop()

	if got := s.Display(a.State()); got != "ab" {
		t.Errorf("cycler a: %q", got)
	}
	if got := s.Display(b.State()); got != "a" {
		t.Errorf("cycler b: %q", got)
	}
}

func TestCyclerStopsOnContextCancel(t *testing.T) {
	s := mustCompile(t, Config{Script: []string{"abc"}, Interval: time.Millisecond})
	c := New(s, NewManualClock())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, func(string) {})
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	c.Stop()
}

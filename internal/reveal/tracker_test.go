package reveal

import (
	"errors"
	"testing"
)

type transition struct {
	id      string
	visible bool
}

func TestOnceLatch(t *testing.T) {
	tr := New("skills", Config{Latch: Once})
	var seen []transition
	tr.OnChange(func(id string, v bool) { seen = append(seen, transition{id, v}) })

	steps := []struct {
		ratio float64
		want  bool
	}{
		{0.0, false},
		{0.5, true},  // enter
		{0.0, true},  // leave
		{0.8, true},  // re-enter
		{0.05, true}, // below threshold
	}
	for i, s := range steps {
		tr.Observe(s.ratio)
		if tr.Visible() != s.want {
			t.Fatalf("step %d (ratio %.2f): visible=%v, want %v", i, s.ratio, tr.Visible(), s.want)
		}
	}
	if len(seen) != 1 || seen[0] != (transition{"skills", true}) {
		t.Errorf("expected a single false->true transition, got %v", seen)
	}
}

func TestContinuousLatch(t *testing.T) {
	tr := New("about", Config{Latch: Continuous})
	var seen []bool
	tr.OnChange(func(_ string, v bool) { seen = append(seen, v) })

	steps := []struct {
		ratio float64
		want  bool
	}{
		{0.2, true},  // enter
		{0.3, true},  // still in view, no transition
		{0.0, false}, // leave
		{0.0, false},
		{0.1, true}, // exactly at threshold counts as intersecting
	}
	for i, s := range steps {
		tr.Observe(s.ratio)
		if tr.Visible() != s.want {
			t.Fatalf("step %d (ratio %.2f): visible=%v, want %v", i, s.ratio, tr.Visible(), s.want)
		}
	}
	want := []bool{true, false, true}
	if len(seen) != len(want) {
		t.Fatalf("expected %d transitions, got %v", len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("transition %d: got %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestDefaultThreshold(t *testing.T) {
	for _, th := range []float64{0, -1, 2} {
		if got := New("x", Config{Threshold: th}).Config().Threshold; got != DefaultThreshold {
			t.Errorf("threshold %v: got %v, want %v", th, got, DefaultThreshold)
		}
	}
	if got := New("x", Config{Threshold: 0.5}).Config().Threshold; got != 0.5 {
		t.Errorf("explicit threshold not kept: %v", got)
	}
}

func TestStopReleasesCallback(t *testing.T) {
	tr := New("hero", Config{Latch: Continuous})
	calls := 0
	tr.OnChange(func(string, bool) { calls++ })

	tr.Stop()
	if tr.Observe(1) {
		t.Error("stopped tracker reported a change")
	}
	if calls != 0 || tr.Visible() {
		t.Errorf("stopped tracker still observing: calls=%d visible=%v", calls, tr.Visible())
	}
}

func TestRegistry(t *testing.T) {
	var seen []transition
	r := NewPageRegistry(DefaultSections(), func(id string, v bool) {
		seen = append(seen, transition{id, v})
	})

	if _, err := r.Observe("projects", 0.4); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Observe("hero", 0.9); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Observe("hero", 0); err != nil {
		t.Fatal(err)
	}

	if !r.Visible("projects") || r.Visible("hero") {
		t.Errorf("unexpected snapshot %v", r.Snapshot())
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 transitions, got %v", seen)
	}

	_, err := r.Observe("blog", 1)
	if !errors.Is(err, ErrTargetMissing) {
		t.Errorf("expected ErrTargetMissing, got %v", err)
	}

	r.Untrack("projects")
	if r.Visible("projects") {
		t.Error("untracked section still visible")
	}
	if _, err := r.Observe("projects", 1); !errors.Is(err, ErrTargetMissing) {
		t.Errorf("observe after untrack: %v", err)
	}

	r.Close()
	if len(r.IDs()) != 0 {
		t.Errorf("registry not empty after Close: %v", r.IDs())
	}
}

func TestRegistryTrackReplacesTracker(t *testing.T) {
	r := NewRegistry(nil)
	first := r.Track("contact", Config{Latch: Once})
	r.Track("contact", Config{Latch: Continuous})

	if !first.Stopped() {
		t.Error("replaced tracker was not stopped")
	}
	r.Observe("contact", 1)
	r.Observe("contact", 0)
	if r.Visible("contact") {
		t.Error("replacement should follow continuous semantics")
	}
}

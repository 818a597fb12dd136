// Package typewriter reveals a fixed script one character at a time,
// pausing on each finished line and looping forever.
//
// The transition logic is the pure Step function; Cycler only feeds it
// ticks from a Clock.
package typewriter

import (
	"errors"
	"time"
)

var ErrEmptyScript = errors.New("typewriter script has no text")

const (
	DefaultInterval = 50 * time.Millisecond
	DefaultPause    = 1500 * time.Millisecond
)

type Phase int

const (
	Revealing Phase = iota
	Pausing
)

func (p Phase) String() string {
	if p == Pausing {
		return "pausing"
	}
	return "revealing"
}

type Config struct {
	Script   []string
	Interval time.Duration
	Pause    time.Duration
}

// Script is a validated Config with each line split into runes.
type Script struct {
	lines    [][]rune
	interval time.Duration
	pause    time.Duration
}

// Compile validates cfg. At least one line must be non-empty so the
// machine always has something to wait on.
func Compile(cfg Config) (*Script, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Pause < 0 {
		cfg.Pause = 0
	}

	s := &Script{interval: cfg.Interval, pause: cfg.Pause}
	hasText := false
	for _, line := range cfg.Script {
		r := []rune(line)
		if len(r) > 0 {
			hasText = true
		}
		s.lines = append(s.lines, r)
	}
	if !hasText {
		return nil, ErrEmptyScript
	}
	return s, nil
}

func (s *Script) Interval() time.Duration { return s.interval }
func (s *Script) Pause() time.Duration    { return s.pause }
func (s *Script) Len() int                { return len(s.lines) }

// State is one point in the cycle. Elapsed is time banked toward the next
// character (Revealing) or the end of the pause (Pausing).
type State struct {
	Phase    Phase
	Index    int
	Revealed int
	Elapsed  time.Duration
}

// Display is the revealed prefix of the current line.
func (s *Script) Display(st State) string {
	return string(s.lines[st.Index][:st.Revealed])
}

// Source is the full current line.
func (s *Script) Source(st State) string {
	return string(s.lines[st.Index])
}

// Step advances st by elapsed. Large steps catch up through as many
// characters and lines as the elapsed time covers.
func (s *Script) Step(st State, elapsed time.Duration) State {
	st.Elapsed += elapsed
	for {
		line := s.lines[st.Index]
		switch st.Phase {
		case Revealing:
			if st.Revealed >= len(line) {
				st.Phase = Pausing
				continue
			}
			if st.Elapsed < s.interval {
				return st
			}
			st.Elapsed -= s.interval
			st.Revealed++
			if st.Revealed == len(line) {
				st.Phase = Pausing
			}
		case Pausing:
			if st.Elapsed < s.pause {
				return st
			}
			st.Elapsed -= s.pause
			st.Index = (st.Index + 1) % len(s.lines)
			st.Revealed = 0
			st.Phase = Revealing
		}
	}
}

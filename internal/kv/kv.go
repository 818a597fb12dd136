// Package kv provides visitor-scoped preference stores.
package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Zachkp/portfolio/internal/theme"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Backend hands out a theme.Store per visitor.
type Backend interface {
	Scope(visitorID string) theme.Store
	Cleanup(ctx context.Context, maxAge time.Duration) (int64, error)
	Close() error
}

// Open builds a backend for driver: "memory", "sqlite" or "redis".
func Open(ctx context.Context, driver, dsn string) (Backend, error) {
	switch driver {
	case "memory", "":
		return NewMemory(), nil
	case "sqlite":
		return OpenSQLite(ctx, dsn)
	case "redis":
		return OpenRedis(ctx, dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

type memoryEntry struct {
	value   string
	updated time.Time
}

// Memory is a map-backed backend. Preferences live as long as the process.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Scope(visitorID string) theme.Store {
	return memoryScope{m: m, visitor: visitorID}
}

func (m *Memory) Cleanup(_ context.Context, maxAge time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	var removed int64
	for visitor, keys := range m.entries {
		for k, e := range keys {
			if e.updated.Before(cutoff) {
				delete(keys, k)
				removed++
			}
		}
		if len(keys) == 0 {
			delete(m.entries, visitor)
		}
	}
	return removed, nil
}

func (m *Memory) Close() error { return nil }

type memoryScope struct {
	m       *Memory
	visitor string
}

func (s memoryScope) Get(_ context.Context, key string) (string, bool, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	e, ok := s.m.entries[s.visitor][key]
	return e.value, ok, nil
}

func (s memoryScope) Set(_ context.Context, key, value string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	keys, ok := s.m.entries[s.visitor]
	if !ok {
		keys = make(map[string]memoryEntry)
		s.m.entries[s.visitor] = keys
	}
	keys[key] = memoryEntry{value: value, updated: s.m.now()}
	return nil
}

// Unavailable fails every call. Controllers built on it degrade to
// memory-only preferences after the first attempt.
type Unavailable struct{}

func (Unavailable) Get(context.Context, string) (string, bool, error) {
	return "", false, theme.ErrStorageUnavailable
}

func (Unavailable) Set(context.Context, string, string) error {
	return theme.ErrStorageUnavailable
}

// UnavailableBackend stands in when the configured store cannot be opened,
// so the site still serves with per-request preferences.
type UnavailableBackend struct{}

func (UnavailableBackend) Scope(string) theme.Store { return Unavailable{} }

func (UnavailableBackend) Cleanup(context.Context, time.Duration) (int64, error) { return 0, nil }

func (UnavailableBackend) Close() error { return nil }

package kv

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Zachkp/portfolio/internal/theme"
)

func openBackends(t *testing.T) map[string]Backend {
	t.Helper()
	db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return map[string]Backend{
		"memory": NewMemory(),
		"sqlite": db,
	}
}

func TestScopedGetSet(t *testing.T) {
	ctx := context.Background()
	for name, backend := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			alice := backend.Scope("alice")
			bob := backend.Scope("bob")

			if _, ok, err := alice.Get(ctx, theme.KeyColorTheme); err != nil || ok {
				t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
			}
			if err := alice.Set(ctx, theme.KeyColorTheme, "rose"); err != nil {
				t.Fatal(err)
			}
			if err := alice.Set(ctx, theme.KeyColorTheme, "green"); err != nil {
				t.Fatal(err)
			}

			v, ok, err := alice.Get(ctx, theme.KeyColorTheme)
			if err != nil || !ok || v != "green" {
				t.Errorf("alice: got %q ok=%v err=%v", v, ok, err)
			}
			if _, ok, _ := bob.Get(ctx, theme.KeyColorTheme); ok {
				t.Error("bob should not see alice's preference")
			}
		})
	}
}

func TestCleanupRemovesStalePreferences(t *testing.T) {
	ctx := context.Background()
	for name, backend := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			setNow(backend, func() time.Time { return start })
			if err := backend.Scope("old").Set(ctx, theme.KeyDarkMode, "true"); err != nil {
				t.Fatal(err)
			}

			later := start.Add(400 * 24 * time.Hour)
			setNow(backend, func() time.Time { return later })
			if err := backend.Scope("new").Set(ctx, theme.KeyDarkMode, "false"); err != nil {
				t.Fatal(err)
			}

			removed, err := backend.Cleanup(ctx, 365*24*time.Hour)
			if err != nil {
				t.Fatal(err)
			}
			if removed != 1 {
				t.Errorf("expected 1 removed, got %d", removed)
			}
			if _, ok, _ := backend.Scope("old").Get(ctx, theme.KeyDarkMode); ok {
				t.Error("stale preference survived cleanup")
			}
			if _, ok, _ := backend.Scope("new").Get(ctx, theme.KeyDarkMode); !ok {
				t.Error("fresh preference was removed")
			}
		})
	}
}

func setNow(b Backend, now func() time.Time) {
	switch b := b.(type) {
	case *Memory:
		b.now = now
	case *SQLite:
		b.now = now
	}
}

func TestControllerRoundTripThroughSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")

	db, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	c := theme.NewController(db.Scope("visitor-1"), nil, nil)
	c.Initialize(ctx)
	if _, err := c.SetAccent(ctx, "violet"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	reopened, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	pref := theme.NewController(reopened.Scope("visitor-1"), nil, nil).Initialize(ctx)
	if pref.Accent != theme.AccentViolet || pref.Mode != theme.ModeLight {
		t.Errorf("expected {light violet}, got %+v", pref)
	}
}

func TestUnavailable(t *testing.T) {
	var s Unavailable
	if _, _, err := s.Get(context.Background(), "k"); !errors.Is(err, theme.ErrStorageUnavailable) {
		t.Errorf("Get: %v", err)
	}
	if err := s.Set(context.Background(), "k", "v"); !errors.Is(err, theme.ErrStorageUnavailable) {
		t.Errorf("Set: %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "etcd", "")
	if !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("expected ErrUnknownDriver, got %v", err)
	}
}

func TestUnavailableBackendDegrades(t *testing.T) {
	ctx := context.Background()
	var b Backend = UnavailableBackend{}
	ctrl := theme.NewController(b.Scope("visitor-1"), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctrl.Initialize(ctx)
	pref := ctrl.ToggleMode(ctx)
	if pref.Mode != theme.ModeDark {
		t.Errorf("toggle should still apply in memory, got %+v", pref)
	}
	if ctrl.Persistent() {
		t.Error("controller should report memory-only after storage failure")
	}
	if n, err := b.Cleanup(ctx, time.Hour); n != 0 || err != nil {
		t.Errorf("Cleanup = %d, %v", n, err)
	}
}

func TestOpenRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := Open(ctx, "redis", "redis://127.0.0.1:1/0"); err == nil {
		t.Fatal("expected an error for an unreachable redis")
	}
}

// Set REDIS_TEST_ADDR to run against a live server.
func TestRedisScope(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	r, err := OpenRedis(ctx, addr)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	visitor := "test-" + t.Name()
	s := r.Scope(visitor)
	t.Cleanup(func() {
		r.client.Del(context.Background(), redisKeyPrefix+visitor+":"+theme.KeyColorTheme)
	})

	if err := s.Set(ctx, theme.KeyColorTheme, "orange"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get(ctx, theme.KeyColorTheme)
	if err != nil || !ok || v != "orange" {
		t.Errorf("got %q ok=%v err=%v", v, ok, err)
	}
	ttl := r.client.TTL(ctx, redisKeyPrefix+visitor+":"+theme.KeyColorTheme).Val()
	if ttl <= 0 || ttl > defaultRedisTTL {
		t.Errorf("unexpected ttl %v", ttl)
	}
}

package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Zachkp/portfolio/internal/kv"
)

func TestRunCleanupStopsWithContext(t *testing.T) {
	store := kv.NewMemory()
	scope := store.Scope("visitor-1")
	if err := scope.Set(context.Background(), "dark-mode", "true"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		runCleanup(ctx, store, -time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runCleanup did not return after cancel")
	}

	if _, ok, _ := scope.Get(context.Background(), "dark-mode"); ok {
		t.Error("startup pass should remove entries older than retention")
	}
}

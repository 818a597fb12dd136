package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/Zachkp/portfolio/internal/kv"
)

const cleanupInterval = 24 * time.Hour

// runCleanup drops preferences nobody has touched within retention, once at
// startup and then daily.
func runCleanup(ctx context.Context, store kv.Backend, retention time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		n, err := store.Cleanup(ctx, retention)
		switch {
		case err != nil:
			logger.Error("error cleaning up old preferences", "error", err)
		case n > 0:
			logger.Info("privacy cleanup removed stale preferences", "rows", n, "retention", retention)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

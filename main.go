package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/kv"
	"github.com/Zachkp/portfolio/internal/server"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore(ctx, cfg, logger)
	defer store.Close()
	go runCleanup(ctx, store, cfg.PreferenceRetention, logger)

	portfolio, err := content.Load()
	if err != nil {
		logger.Error("failed to load portfolio content", "error", err)
		os.Exit(1)
	}

	srv, err := server.New(server.Options{
		Config:    cfg,
		Store:     store,
		Portfolio: portfolio,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}
	r, err := srv.Engine()
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}()

	logger.Info("portfolio listening", "port", cfg.Port, "store", cfg.StoreDriver)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// openStore falls back to a backend that always fails, so preferences stay
// in memory for each request rather than taking the site down.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) kv.Backend {
	store, err := kv.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		logger.Warn("preference store unavailable, serving without persistence",
			"driver", cfg.StoreDriver, "error", err)
		return kv.UnavailableBackend{}
	}
	return store
}

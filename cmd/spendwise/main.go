package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"spendwise/internal/cache"
	"spendwise/internal/cli"
	apphttp "spendwise/internal/http"
	applog "spendwise/internal/log"
	"spendwise/internal/middleware/ratelimit"
	"spendwise/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp, slog.LevelInfo)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(applog.ComponentApp, cfg.SlogLevel())
	loc := cli.Location(logger, cfg)

	res := cli.InitBackend(context.Background(), logger, cfg)

	caches := cache.NewManager()
	caches.StartCleanup(5 * time.Minute)
	svc := cli.InitServices(cfg, res, loc, caches)

	if err := svc.QuickAdd.EnsureDefaults(context.Background()); err != nil {
		logger.Warn("Failed to seed quick-add defaults", "error", err)
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:     ":" + cfg.Port,
		Services: svc,
		Clock:    services.SystemClock(loc),
		Ready: func(ctx context.Context) error {
			_, err := res.Store.Revision(ctx)
			return err
		},
		RateLimit: ratelimit.DefaultConfig(),
		Logger:    logger.WithComponent(applog.ComponentHTTP),
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		caches.Stop()
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	logger.Info("Starting spendwise server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"timezone", loc.String(),
		"events", res.Events != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}

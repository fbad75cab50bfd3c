package main

import (
	"context"
	"log/slog"
	"time"

	"spendwise/internal/cli"
	applog "spendwise/internal/log"
	"spendwise/internal/services"
	"spendwise/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentRecurring, slog.LevelInfo)
	logger.Info("Starting recurring-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(applog.ComponentRecurring, cfg.SlogLevel())
	loc := cli.Location(logger, cfg)

	res := cli.InitBackend(context.Background(), logger, cfg)
	if res.Events == nil {
		logger.Info("AMQP disabled - executed expenses will not publish change events")
	}
	svc := cli.InitServices(cfg, res, loc, nil)

	w := worker.NewRecurringWorker(svc.Processor, services.SystemClock(loc), cfg.RecurringProcessorInterval)
	logger.Info("Recurring expense processor configured",
		"interval", cfg.RecurringProcessorInterval,
		"backend", cfg.DataBackend,
		"timezone", loc.String())

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	if err := w.Run(ctx); err != nil {
		logger.Error("Recurring worker stopped with error", "error", err)
	}
	cli.WaitForShutdown(ctx, done)
}

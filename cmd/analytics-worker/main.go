package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"spendwise/internal/cli"
	"spendwise/internal/config"
	applog "spendwise/internal/log"
	"spendwise/internal/services"
	gsheet "spendwise/internal/sheets/google"
	"spendwise/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentAnalytics, slog.LevelInfo)
	logger.Info("Starting analytics-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(applog.ComponentAnalytics, cfg.SlogLevel())
	loc := cli.Location(logger, cfg)

	res := cli.InitBackend(context.Background(), logger, cfg)
	svc := cli.InitServices(cfg, res, loc, nil)

	exporter := newExporter(logger, cfg)
	processorCfg := services.DefaultSnapshotProcessorConfig()
	processorCfg.PollInterval = cfg.SnapshotPollInterval
	processor := services.NewSnapshotProcessor(svc.Analytics, exporter, processorCfg)

	var source worker.EventSource
	if res.Events != nil {
		source = res.Events
	} else {
		logger.Info("AMQP disabled - refreshing on the resync interval only",
			"resync_interval", cfg.SnapshotResyncInterval)
	}
	w := worker.NewAnalyticsWorker(source, processor, cfg.SnapshotResyncInterval)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	if err := w.Run(ctx); err != nil {
		logger.Error("Analytics worker stopped with error", "error", err)
		_ = res.Cleanup()
		os.Exit(1)
	}
	cli.WaitForShutdown(ctx, done)
}

// newExporter returns the Sheets exporter when configured, or nil to only
// log insights and budget alerts.
func newExporter(logger *applog.Logger, cfg *config.Config) services.OverviewExporter {
	if !cfg.SheetsEnabled() {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
		return nil
	}
	client, err := gsheet.New(context.Background(), gsheet.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client
}

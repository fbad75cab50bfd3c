// Command report prints the spending overview as text tables and renders
// the trend charts as PNG files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"spendwise/internal/budget"
	"spendwise/internal/cli"
	applog "spendwise/internal/log"
	"spendwise/internal/report"
	"spendwise/internal/services"
)

// Exit codes. exitAlert is only used with -alerts.
const (
	exitOK    = 0
	exitError = 1
	exitAlert = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes the report and returns the process exit code. Everything it
// opens is released before it returns.
func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	var (
		outputDir = fs.String("o", "reports", "Directory for chart images; empty disables charts")
		alertOnly = fs.Bool("alerts", false, "Exit with status 2 when any budget is exceeded")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentReport, slog.LevelWarn)
	cfg := cli.LoadAndValidateConfig(logger)
	loc := cli.Location(logger, cfg)

	ctx := context.Background()
	res := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	}()
	svc := cli.InitServices(cfg, res, loc, nil)

	ov, err := svc.Analytics.Overview(ctx)
	if err != nil {
		logger.Error("Failed to compute overview", "error", err)
		return exitError
	}

	fmt.Fprintf(stdout, "Spending report generated %s\n\n", ov.GeneratedAt.Format("2006-01-02 15:04 MST"))
	if err := report.Write(stdout, ov.Analytics, ov.Insights, ov.Budgets); err != nil {
		logger.Error("Failed to write report", "error", err)
		return exitError
	}

	if *outputDir != "" {
		if err := writeCharts(stdout, *outputDir, ov); err != nil {
			logger.Error("Failed to write charts", "error", err, "dir", *outputDir)
			return exitError
		}
	}

	if *alertOnly && len(ov.Alerts(budget.Exceeded)) > 0 {
		return exitAlert
	}
	return exitOK
}

// writeCharts renders every chart kind into dir. Charts with nothing to
// plot are skipped.
func writeCharts(stdout io.Writer, dir string, ov services.Overview) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, kind := range report.ChartKinds() {
		path := filepath.Join(dir, kind.Filename())
		if err := writeChart(path, kind, ov); err != nil {
			if errors.Is(err, report.ErrNoData) {
				fmt.Fprintf(stdout, "Skipped %s: no data\n", kind)
				continue
			}
			return err
		}
		fmt.Fprintf(stdout, "Wrote %s\n", path)
	}
	return nil
}

func writeChart(path string, kind report.ChartKind, ov services.Overview) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := report.RenderChart(f, kind, ov.Analytics); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("render %s chart: %w", kind, err)
	}
	return f.Close()
}

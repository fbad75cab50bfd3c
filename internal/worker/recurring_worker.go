package worker

import (
	"context"
	"log/slog"
	"time"

	"spendwise/internal/services"
)

// RecurringWorker executes due recurring expenses on a fixed interval.
type RecurringWorker struct {
	processor *services.RecurringProcessor
	clock     services.Clock
	interval  time.Duration
}

func NewRecurringWorker(processor *services.RecurringProcessor, clock services.Clock, interval time.Duration) *RecurringWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &RecurringWorker{processor: processor, clock: clock, interval: interval}
}

// RunOnce processes every template due now.
func (w *RecurringWorker) RunOnce(ctx context.Context) (int, error) {
	return w.processor.ProcessDue(ctx, w.clock())
}

// Run processes once at startup and then every interval until ctx is
// cancelled. Failed passes are logged and retried on the next tick.
func (w *RecurringWorker) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Running initial recurring expense processing")
	w.pass(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.pass(ctx)
		}
	}
}

func (w *RecurringWorker) pass(ctx context.Context) {
	count, err := w.RunOnce(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Recurring expense processing failed", "error", err)
		return
	}
	slog.InfoContext(ctx, "Recurring expense processing complete",
		"expenses_created", count,
		"next_check", w.clock().Add(w.interval).Format("15:04:05"))
}

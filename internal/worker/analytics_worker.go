// Package worker runs the background loops: refreshing analytics from
// change events and executing due recurring expenses.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"spendwise/internal/amqp"
	"spendwise/internal/services"
)

// EventSource delivers change events to a handler until ctx ends.
// *amqp.Client implements it.
type EventSource interface {
	Consume(ctx context.Context, handler func(context.Context, *amqp.ChangeEvent) error) error
}

// AnalyticsWorker feeds change events into a snapshot processor.
type AnalyticsWorker struct {
	source    EventSource
	processor *services.SnapshotProcessor
	resync    time.Duration
}

// NewAnalyticsWorker creates the worker. source may be nil, in which case
// only the periodic resync drives refreshes. A resync of zero disables it.
func NewAnalyticsWorker(source EventSource, processor *services.SnapshotProcessor, resync time.Duration) *AnalyticsWorker {
	return &AnalyticsWorker{
		source:    source,
		processor: processor,
		resync:    resync,
	}
}

// Run starts the processor and blocks until ctx is cancelled or the event
// source fails. The processor is stopped before Run returns.
func (w *AnalyticsWorker) Run(ctx context.Context) error {
	if err := w.processor.Start(ctx); err != nil {
		return fmt.Errorf("start snapshot processor: %w", err)
	}
	defer w.stopProcessor(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})
	if w.source != nil {
		g.Go(func() error {
			err := w.source.Consume(gctx, w.processor.HandleEvent)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("consume change events: %w", err)
			}
			return nil
		})
	}
	if w.resync > 0 {
		g.Go(func() error {
			w.resyncLoop(gctx)
			return nil
		})
	}
	return g.Wait()
}

// resyncLoop schedules a full refresh every interval. This picks up
// events lost while the worker was down and moves the current week and
// month forward when the day changes without any writes.
func (w *AnalyticsWorker) resyncLoop(ctx context.Context) {
	ticker := time.NewTicker(w.resync)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ev := amqp.NewChangeEvent(amqp.EntityAll, amqp.ActionUpdated, "")
			if err := w.processor.HandleEvent(ctx, ev); err != nil {
				slog.ErrorContext(ctx, "Periodic resync failed", "error", err)
			}
		}
	}
}

func (w *AnalyticsWorker) stopProcessor(ctx context.Context) {
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := w.processor.Stop(stopCtx); err != nil {
		slog.ErrorContext(stopCtx, "Failed to stop snapshot processor", "error", err)
	}
}

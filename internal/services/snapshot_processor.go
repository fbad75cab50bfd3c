package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"spendwise/internal/amqp"
	"spendwise/internal/budget"
)

// OverviewExporter publishes a computed overview somewhere outside the
// process, such as a spreadsheet.
type OverviewExporter interface {
	ExportOverview(ctx context.Context, ov Overview) error
}

// SnapshotProcessorConfig holds configuration for the snapshot processor
type SnapshotProcessorConfig struct {
	// PollInterval is how often pending changes are folded into a new
	// overview (default: 10s)
	PollInterval time.Duration

	// MaxRetries is how many consecutive failed refreshes are tolerated
	// before the pending change is dropped (default: 3)
	MaxRetries int

	// AlertStatus is the lowest budget status that gets logged as an alert
	// (default: warning)
	AlertStatus budget.Status
}

// DefaultSnapshotProcessorConfig returns sensible defaults
func DefaultSnapshotProcessorConfig() SnapshotProcessorConfig {
	return SnapshotProcessorConfig{
		PollInterval: 10 * time.Second,
		MaxRetries:   3,
		AlertStatus:  budget.Warning,
	}
}

// SnapshotProcessor recomputes the analytics overview after change events
// and hands it to an optional exporter. Bursts of events between two polls
// produce a single refresh.
type SnapshotProcessor struct {
	analytics *AnalyticsService
	exporter  OverviewExporter
	config    SnapshotProcessorConfig

	mu       sync.Mutex
	running  bool
	dirty    bool
	attempts int
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSnapshotProcessor creates a processor. exporter may be nil.
func NewSnapshotProcessor(analytics *AnalyticsService, exporter OverviewExporter, config SnapshotProcessorConfig) *SnapshotProcessor {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultSnapshotProcessorConfig().PollInterval
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultSnapshotProcessorConfig().MaxRetries
	}
	if config.AlertStatus == "" {
		config.AlertStatus = budget.Warning
	}
	return &SnapshotProcessor{
		analytics: analytics,
		exporter:  exporter,
		config:    config,
	}
}

// HandleEvent is an amqp consumer handler. Events that can change the
// analytics invalidate the cache and schedule a refresh.
func (p *SnapshotProcessor) HandleEvent(ctx context.Context, ev *amqp.ChangeEvent) error {
	if !ev.AffectsAnalytics() {
		slog.DebugContext(ctx, "Ignoring change event", "event", ev.String())
		return nil
	}
	p.analytics.Invalidate()

	p.mu.Lock()
	p.dirty = true
	p.mu.Unlock()

	slog.DebugContext(ctx, "Change event queued for refresh", "event", ev.String())
	return nil
}

// Pending reports whether a refresh is scheduled.
func (p *SnapshotProcessor) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}

// Start begins the processing loop. Returns an error if already running.
func (p *SnapshotProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("snapshot processor is already running")
	}
	p.running = true
	p.dirty = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Snapshot processor started",
		"poll_interval", p.config.PollInterval,
		"exporter", p.exporter != nil)
	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *SnapshotProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	close(p.stopCh)

	select {
	case <-p.doneCh:
		slog.InfoContext(ctx, "Snapshot processor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Snapshot processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	return nil
}

// IsRunning returns whether the processor is currently running
func (p *SnapshotProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *SnapshotProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.processPending(ctx)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.processPending(ctx)
		}
	}
}

// processPending refreshes once if changes arrived since the last refresh.
func (p *SnapshotProcessor) processPending(ctx context.Context) {
	p.mu.Lock()
	if !p.dirty {
		p.mu.Unlock()
		return
	}
	p.dirty = false
	p.mu.Unlock()

	if err := p.Refresh(ctx); err != nil {
		p.handleFailure(ctx, err)
		return
	}

	p.mu.Lock()
	p.attempts = 0
	p.mu.Unlock()
}

// Refresh computes the current overview, logs insights and budget alerts,
// and exports it when an exporter is configured.
func (p *SnapshotProcessor) Refresh(ctx context.Context) error {
	ov, err := p.analytics.Overview(ctx)
	if err != nil {
		return fmt.Errorf("compute overview: %w", err)
	}

	for _, insight := range ov.Insights {
		slog.InfoContext(ctx, "Spending insight", "insight", insight)
	}
	for _, alert := range ov.Alerts(p.config.AlertStatus) {
		slog.WarnContext(ctx, "Budget alert",
			"budget_id", alert.Budget.ID,
			"category", alert.Budget.Category,
			"period", alert.Budget.Period,
			"status", alert.Status,
			"percentage", alert.Percentage,
			"overage", alert.Overage)
	}

	if p.exporter == nil {
		return nil
	}
	if err := p.exporter.ExportOverview(ctx, ov); err != nil {
		return fmt.Errorf("export overview: %w", err)
	}
	slog.InfoContext(ctx, "Overview exported",
		"revision", ov.Revision,
		"total_spent", ov.Analytics.TotalSpent)
	return nil
}

// handleFailure schedules another attempt until MaxRetries is reached.
func (p *SnapshotProcessor) handleFailure(ctx context.Context, refreshErr error) {
	p.mu.Lock()
	p.attempts++
	attempts := p.attempts
	if attempts < p.config.MaxRetries {
		p.dirty = true
	} else {
		p.attempts = 0
	}
	p.mu.Unlock()

	if attempts < p.config.MaxRetries {
		slog.WarnContext(ctx, "Overview refresh failed, will retry",
			"attempt", attempts,
			"error", refreshErr)
		return
	}
	slog.ErrorContext(ctx, "Overview refresh failed permanently after max retries",
		"attempts", attempts,
		"error", refreshErr)
}

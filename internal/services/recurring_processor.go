package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RecurringProcessor handles the automatic creation of transactions from
// recurring expense templates.
type RecurringProcessor struct {
	recurring *RecurringService
}

func NewRecurringProcessor(recurring *RecurringService) *RecurringProcessor {
	return &RecurringProcessor{recurring: recurring}
}

// ProcessDue executes every active template that is due or overdue at now
// and returns how many were executed. A failing template is logged and
// skipped so the rest still run.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.recurring == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	templates, err := p.recurring.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get recurring expenses: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring expenses",
		"total", len(templates),
		"processing_date", now.Format("2006-01-02"))

	processed := 0
	for _, r := range templates {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		if !IsDue(r, now) {
			continue
		}

		tx, _, err := p.recurring.Execute(ctx, r.ID, now)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to execute recurring template",
				"recurring_id", r.ID,
				"description", r.Description,
				"error", err)
			continue
		}

		processed++
		slog.InfoContext(ctx, "Created transaction from recurring template",
			"recurring_id", r.ID,
			"transaction_id", tx.ID,
			"amount", r.Amount.String(),
			"frequency", r.Frequency)
	}

	slog.InfoContext(ctx, "Recurring expense processing complete",
		"processed", processed,
		"total_checked", len(templates))

	return processed, nil
}

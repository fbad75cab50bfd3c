package services

import (
	"context"
	"fmt"
	"log/slog"

	"spendwise/internal/amqp"
	"spendwise/internal/store"
)

// DataService moves the whole dataset in and out of the store.
type DataService struct {
	notifier
	store store.Store
}

func NewDataService(s store.Store, events EventPublisher) *DataService {
	return &DataService{
		notifier: notifier{events: events},
		store:    s,
	}
}

// Export reads every collection into a backup snapshot.
func (s *DataService) Export(ctx context.Context) (store.Snapshot, error) {
	snap, err := store.Load(ctx, s.store)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("export data: %w", err)
	}
	return snap, nil
}

// Import replaces the stored data with snap. Nothing is written unless
// every record is valid.
func (s *DataService) Import(ctx context.Context, snap store.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return invalid(err)
	}
	if err := s.store.Replace(ctx, snap); err != nil {
		return fmt.Errorf("import data: %w", err)
	}

	slog.InfoContext(ctx, "Data imported",
		"transactions", len(snap.Transactions),
		"budgets", len(snap.Budgets),
		"recurring", len(snap.Recurring),
		"quick_add", len(snap.QuickAdd))
	s.notify(ctx, amqp.EntityAll, amqp.ActionImported, "")
	return nil
}

// ClearAll removes every record. Settings are kept.
func (s *DataService) ClearAll(ctx context.Context) error {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if err := s.store.Replace(ctx, store.Snapshot{Settings: settings}); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	slog.InfoContext(ctx, "All data cleared")
	s.notify(ctx, amqp.EntityAll, amqp.ActionCleared, "")
	return nil
}

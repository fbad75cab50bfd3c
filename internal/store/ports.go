// Package store declares the persistence ports the services depend on.
// Implementations live in store/memory (in-process) and storage (SQLite).
package store

import (
	"context"
	"errors"
	"fmt"

	"spendwise/internal/core"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Ports for the record collections.
type (
	TransactionStore interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		CreateTransaction(ctx context.Context, t core.Transaction) error
		UpdateTransaction(ctx context.Context, t core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
		ClearTransactions(ctx context.Context) error
	}

	BudgetStore interface {
		ListBudgets(ctx context.Context) ([]core.Budget, error)
		GetBudget(ctx context.Context, id string) (core.Budget, error)
		CreateBudget(ctx context.Context, b core.Budget) error
		UpdateBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, id string) error
		ClearBudgets(ctx context.Context) error
	}

	RecurringStore interface {
		ListRecurring(ctx context.Context) ([]core.RecurringExpense, error)
		GetRecurring(ctx context.Context, id string) (core.RecurringExpense, error)
		CreateRecurring(ctx context.Context, r core.RecurringExpense) error
		UpdateRecurring(ctx context.Context, r core.RecurringExpense) error
		DeleteRecurring(ctx context.Context, id string) error
		ClearRecurring(ctx context.Context) error
	}

	// QuickAddStore lists options ordered by their Order field.
	QuickAddStore interface {
		ListQuickAdd(ctx context.Context) ([]core.QuickAddOption, error)
		GetQuickAdd(ctx context.Context, id string) (core.QuickAddOption, error)
		CreateQuickAdd(ctx context.Context, q core.QuickAddOption) error
		UpdateQuickAdd(ctx context.Context, q core.QuickAddOption) error
		DeleteQuickAdd(ctx context.Context, id string) error
		ClearQuickAdd(ctx context.Context) error
	}

	SettingsStore interface {
		GetSettings(ctx context.Context) (core.Settings, error)
		SaveSettings(ctx context.Context, s core.Settings) error
	}

	// Store is the full persistence surface of the application.
	Store interface {
		TransactionStore
		BudgetStore
		RecurringStore
		QuickAddStore
		SettingsStore

		// Revision increases after every successful mutation. Readers use
		// it to tell whether a cached derivation is stale.
		Revision(ctx context.Context) (int64, error)
		// Replace atomically swaps every collection for the snapshot contents.
		Replace(ctx context.Context, s Snapshot) error
		Close() error
	}
)

// Snapshot is the full content of a store. Its JSON form is the backup
// document exchanged by export and import.
type Snapshot struct {
	Transactions []core.Transaction      `json:"expenses"`
	Budgets      []core.Budget           `json:"budgets"`
	Recurring    []core.RecurringExpense `json:"recurring"`
	QuickAdd     []core.QuickAddOption   `json:"quickAdd"`
	Settings     core.Settings           `json:"settings"`
}

// Load reads every collection of s into a Snapshot.
func Load(ctx context.Context, s Store) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Transactions, err = s.ListTransactions(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Budgets, err = s.ListBudgets(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Recurring, err = s.ListRecurring(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.QuickAdd, err = s.ListQuickAdd(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Settings, err = s.GetSettings(ctx); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Validate checks every record of the snapshot and rejects duplicate IDs
// within a collection.
func (s Snapshot) Validate() error {
	seen := map[string]struct{}{}
	check := func(kind, id string, err error) error {
		if err != nil {
			return fmt.Errorf("%s %q: %w", kind, id, err)
		}
		key := kind + "/" + id
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%s %q: %w", kind, id, ErrDuplicate)
		}
		seen[key] = struct{}{}
		return nil
	}
	for _, t := range s.Transactions {
		if err := check("expense", t.ID, t.Validate()); err != nil {
			return err
		}
	}
	for _, b := range s.Budgets {
		if err := check("budget", b.ID, b.Validate()); err != nil {
			return err
		}
	}
	for _, r := range s.Recurring {
		if err := check("recurring", r.ID, r.Validate()); err != nil {
			return err
		}
	}
	for _, q := range s.QuickAdd {
		if err := check("quick-add", q.ID, q.Validate()); err != nil {
			return err
		}
	}
	return nil
}

// Package memory is an in-process store.Store used for development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"spendwise/internal/core"
	"spendwise/internal/store"
)

type Store struct {
	mu        sync.Mutex
	revision  int64
	txns      collection[core.Transaction]
	budgets   collection[core.Budget]
	recurring collection[core.RecurringExpense]
	quickAdd  collection[core.QuickAddOption]
	settings  core.Settings
}

func New() *Store {
	return &Store{
		txns:      newCollection(transactionID),
		budgets:   newCollection(budgetID),
		recurring: newCollection(recurringID),
		quickAdd:  newCollection(quickAddID),
	}
}

func transactionID(t core.Transaction) string    { return t.ID }
func budgetID(b core.Budget) string              { return b.ID }
func recurringID(r core.RecurringExpense) string { return r.ID }
func quickAddID(q core.QuickAddOption) string    { return q.ID }

// NewFromSnapshot returns a store preloaded with snap.
func NewFromSnapshot(snap store.Snapshot) (*Store, error) {
	s := New()
	if err := s.Replace(context.Background(), snap); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Revision(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision, nil
}

func (s *Store) Close() error { return nil }

// mutate runs fn under the lock and bumps the revision when it succeeds.
func (s *Store) mutate(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	s.revision++
	return nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txns.list(), nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txns.get(id)
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) error {
	return s.mutate(func() error { return s.txns.insert(t) })
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) error {
	return s.mutate(func() error { return s.txns.update(t) })
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	return s.mutate(func() error { return s.txns.remove(id) })
}

func (s *Store) ClearTransactions(_ context.Context) error {
	return s.mutate(func() error { s.txns.clear(); return nil })
}

func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budgets.list(), nil
}

func (s *Store) GetBudget(_ context.Context, id string) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budgets.get(id)
}

func (s *Store) CreateBudget(_ context.Context, b core.Budget) error {
	return s.mutate(func() error { return s.budgets.insert(b) })
}

func (s *Store) UpdateBudget(_ context.Context, b core.Budget) error {
	return s.mutate(func() error { return s.budgets.update(b) })
}

func (s *Store) DeleteBudget(_ context.Context, id string) error {
	return s.mutate(func() error { return s.budgets.remove(id) })
}

func (s *Store) ClearBudgets(_ context.Context) error {
	return s.mutate(func() error { s.budgets.clear(); return nil })
}

func (s *Store) ListRecurring(_ context.Context) ([]core.RecurringExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recurring.list(), nil
}

func (s *Store) GetRecurring(_ context.Context, id string) (core.RecurringExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recurring.get(id)
}

func (s *Store) CreateRecurring(_ context.Context, r core.RecurringExpense) error {
	return s.mutate(func() error { return s.recurring.insert(r) })
}

func (s *Store) UpdateRecurring(_ context.Context, r core.RecurringExpense) error {
	return s.mutate(func() error { return s.recurring.update(r) })
}

func (s *Store) DeleteRecurring(_ context.Context, id string) error {
	return s.mutate(func() error { return s.recurring.remove(id) })
}

func (s *Store) ClearRecurring(_ context.Context) error {
	return s.mutate(func() error { s.recurring.clear(); return nil })
}

func (s *Store) ListQuickAdd(_ context.Context) ([]core.QuickAddOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.quickAdd.list()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *Store) GetQuickAdd(_ context.Context, id string) (core.QuickAddOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quickAdd.get(id)
}

func (s *Store) CreateQuickAdd(_ context.Context, q core.QuickAddOption) error {
	return s.mutate(func() error { return s.quickAdd.insert(q) })
}

func (s *Store) UpdateQuickAdd(_ context.Context, q core.QuickAddOption) error {
	return s.mutate(func() error { return s.quickAdd.update(q) })
}

func (s *Store) DeleteQuickAdd(_ context.Context, id string) error {
	return s.mutate(func() error { return s.quickAdd.remove(id) })
}

func (s *Store) ClearQuickAdd(_ context.Context) error {
	return s.mutate(func() error { s.quickAdd.clear(); return nil })
}

func (s *Store) GetSettings(_ context.Context) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, nil
}

func (s *Store) SaveSettings(_ context.Context, settings core.Settings) error {
	return s.mutate(func() error { s.settings = settings; return nil })
}

// Replace swaps all collections at once. On error nothing changes.
func (s *Store) Replace(_ context.Context, snap store.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	txns := newCollection(transactionID)
	budgets := newCollection(budgetID)
	recurring := newCollection(recurringID)
	quickAdd := newCollection(quickAddID)
	for _, t := range snap.Transactions {
		_ = txns.insert(t)
	}
	for _, b := range snap.Budgets {
		_ = budgets.insert(b)
	}
	for _, r := range snap.Recurring {
		_ = recurring.insert(r)
	}
	for _, q := range snap.QuickAdd {
		_ = quickAdd.insert(q)
	}
	return s.mutate(func() error {
		s.txns, s.budgets, s.recurring, s.quickAdd = txns, budgets, recurring, quickAdd
		s.settings = snap.Settings
		return nil
	})
}

// collection keeps records by ID and remembers insertion order.
type collection[T any] struct {
	idOf  func(T) string
	order []string
	items map[string]T
}

func newCollection[T any](idOf func(T) string) collection[T] {
	return collection[T]{idOf: idOf, items: map[string]T{}}
}

func (c *collection[T]) list() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

func (c *collection[T]) get(id string) (T, error) {
	v, ok := c.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%q: %w", id, store.ErrNotFound)
	}
	return v, nil
}

func (c *collection[T]) insert(v T) error {
	id := c.idOf(v)
	if _, ok := c.items[id]; ok {
		return fmt.Errorf("%q: %w", id, store.ErrDuplicate)
	}
	c.items[id] = v
	c.order = append(c.order, id)
	return nil
}

func (c *collection[T]) update(v T) error {
	id := c.idOf(v)
	if _, ok := c.items[id]; !ok {
		return fmt.Errorf("%q: %w", id, store.ErrNotFound)
	}
	c.items[id] = v
	return nil
}

func (c *collection[T]) remove(id string) error {
	if _, ok := c.items[id]; !ok {
		return fmt.Errorf("%q: %w", id, store.ErrNotFound)
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *collection[T]) clear() {
	c.order = nil
	c.items = map[string]T{}
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/store"
)

// TransactionService validates and persists transactions and announces
// every change.
type TransactionService struct {
	notifier
	store store.TransactionStore
}

func NewTransactionService(s store.TransactionStore, events EventPublisher) *TransactionService {
	return &TransactionService{
		notifier: notifier{events: events},
		store:    s,
	}
}

// List returns the transactions matching f, sorted by the given field.
func (s *TransactionService) List(ctx context.Context, f core.Filter, by core.SortField, descending bool) ([]core.Transaction, error) {
	all, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.SortTransactions(f.Apply(all), by, descending), nil
}

// All returns every stored transaction in store order.
func (s *TransactionService) All(ctx context.Context) ([]core.Transaction, error) {
	all, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return all, nil
}

func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// Create assigns an ID when missing, validates and saves t.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = core.NewID()
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, invalid(err)
	}
	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", t.ID,
		"category", t.Category,
		"amount", t.Amount.String(),
		"date", t.Date.String())
	s.notify(ctx, amqp.EntityTransaction, amqp.ActionCreated, t.ID)
	return t, nil
}

func (s *TransactionService) Update(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, invalid(err)
	}
	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	s.notify(ctx, amqp.EntityTransaction, amqp.ActionUpdated, t.ID)
	return t, nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.notify(ctx, amqp.EntityTransaction, amqp.ActionDeleted, id)
	return nil
}

// Clear removes every transaction.
func (s *TransactionService) Clear(ctx context.Context) error {
	if err := s.store.ClearTransactions(ctx); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	slog.InfoContext(ctx, "All transactions cleared")
	s.notify(ctx, amqp.EntityTransaction, amqp.ActionCleared, "")
	return nil
}

package services

import (
	"context"
	"fmt"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/store"
)

type BudgetService struct {
	notifier
	store store.BudgetStore
	clock Clock
}

func NewBudgetService(s store.BudgetStore, events EventPublisher, clock Clock) *BudgetService {
	return &BudgetService{
		notifier: notifier{events: events},
		store:    s,
		clock:    clock,
	}
}

func (s *BudgetService) List(ctx context.Context) ([]core.Budget, error) {
	budgets, err := s.store.ListBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

func (s *BudgetService) Get(ctx context.Context, id string) (core.Budget, error) {
	return s.store.GetBudget(ctx, id)
}

// Create saves b. Several budgets may share a category; each is tracked
// on its own.
func (s *BudgetService) Create(ctx context.Context, b core.Budget) (core.Budget, error) {
	if b.ID == "" {
		b.ID = core.NewID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.clock()
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, invalid(err)
	}
	if err := s.store.CreateBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	s.notify(ctx, amqp.EntityBudget, amqp.ActionCreated, b.ID)
	return b, nil
}

// Update replaces the limit, category and period of an existing budget.
// CreatedAt is kept from the stored record.
func (s *BudgetService) Update(ctx context.Context, b core.Budget) (core.Budget, error) {
	current, err := s.store.GetBudget(ctx, b.ID)
	if err != nil {
		return core.Budget{}, err
	}
	b.CreatedAt = current.CreatedAt
	if err := b.Validate(); err != nil {
		return core.Budget{}, invalid(err)
	}
	if err := s.store.UpdateBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	s.notify(ctx, amqp.EntityBudget, amqp.ActionUpdated, b.ID)
	return b, nil
}

func (s *BudgetService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	s.notify(ctx, amqp.EntityBudget, amqp.ActionDeleted, id)
	return nil
}

func (s *BudgetService) Clear(ctx context.Context) error {
	if err := s.store.ClearBudgets(ctx); err != nil {
		return fmt.Errorf("clear budgets: %w", err)
	}
	s.notify(ctx, amqp.EntityBudget, amqp.ActionCleared, "")
	return nil
}

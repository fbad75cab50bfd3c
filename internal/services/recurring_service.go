package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/store"
)

// RecurringService manages recurring expense templates and turns them into
// transactions when executed.
type RecurringService struct {
	notifier
	store        store.RecurringStore
	transactions *TransactionService
	clock        Clock
}

func NewRecurringService(s store.RecurringStore, transactions *TransactionService, events EventPublisher, clock Clock) *RecurringService {
	return &RecurringService{
		notifier:     notifier{events: events},
		store:        s,
		transactions: transactions,
		clock:        clock,
	}
}

// RecurringView pairs a template with its due status at a reference time.
type RecurringView struct {
	core.RecurringExpense
	Status    DueStatus `json:"status"`
	DaysUntil int       `json:"daysUntil"`
}

func (s *RecurringService) List(ctx context.Context) ([]core.RecurringExpense, error) {
	list, err := s.store.ListRecurring(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recurring expenses: %w", err)
	}
	return list, nil
}

// ListWithStatus annotates every template with its due status at now.
func (s *RecurringService) ListWithStatus(ctx context.Context, now time.Time) ([]RecurringView, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RecurringView, 0, len(list))
	for _, r := range list {
		out = append(out, RecurringView{
			RecurringExpense: r,
			Status:           StatusOf(r.NextDue, now),
			DaysUntil:        DaysUntil(r.NextDue, now),
		})
	}
	return out, nil
}

func (s *RecurringService) Get(ctx context.Context, id string) (core.RecurringExpense, error) {
	return s.store.GetRecurring(ctx, id)
}

func (s *RecurringService) Create(ctx context.Context, r core.RecurringExpense) (core.RecurringExpense, error) {
	if r.ID == "" {
		r.ID = core.NewID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.clock()
	}
	if err := r.Validate(); err != nil {
		return core.RecurringExpense{}, invalid(err)
	}
	if err := s.store.CreateRecurring(ctx, r); err != nil {
		return core.RecurringExpense{}, fmt.Errorf("save recurring expense: %w", err)
	}
	s.notify(ctx, amqp.EntityRecurring, amqp.ActionCreated, r.ID)
	return r, nil
}

func (s *RecurringService) Update(ctx context.Context, r core.RecurringExpense) (core.RecurringExpense, error) {
	current, err := s.store.GetRecurring(ctx, r.ID)
	if err != nil {
		return core.RecurringExpense{}, err
	}
	r.CreatedAt = current.CreatedAt
	if err := r.Validate(); err != nil {
		return core.RecurringExpense{}, invalid(err)
	}
	if err := s.store.UpdateRecurring(ctx, r); err != nil {
		return core.RecurringExpense{}, fmt.Errorf("update recurring expense: %w", err)
	}
	s.notify(ctx, amqp.EntityRecurring, amqp.ActionUpdated, r.ID)
	return r, nil
}

func (s *RecurringService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteRecurring(ctx, id); err != nil {
		return fmt.Errorf("delete recurring expense: %w", err)
	}
	s.notify(ctx, amqp.EntityRecurring, amqp.ActionDeleted, id)
	return nil
}

func (s *RecurringService) Clear(ctx context.Context) error {
	if err := s.store.ClearRecurring(ctx); err != nil {
		return fmt.Errorf("clear recurring expenses: %w", err)
	}
	s.notify(ctx, amqp.EntityRecurring, amqp.ActionCleared, "")
	return nil
}

// Execute records a transaction dated today from the template and moves
// the template's next due date one period past today.
func (s *RecurringService) Execute(ctx context.Context, id string, now time.Time) (core.Transaction, core.RecurringExpense, error) {
	r, err := s.store.GetRecurring(ctx, id)
	if err != nil {
		return core.Transaction{}, core.RecurringExpense{}, err
	}

	today := core.DateOf(now)
	next, err := NextDue(r.Frequency, today)
	if err != nil {
		return core.Transaction{}, core.RecurringExpense{}, invalid(err)
	}

	tx, err := s.transactions.Create(ctx, core.Transaction{
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Date:        today,
	})
	if err != nil {
		return core.Transaction{}, core.RecurringExpense{}, fmt.Errorf("create transaction from template %s: %w", id, err)
	}

	r.NextDue = next
	if err := s.store.UpdateRecurring(ctx, r); err != nil {
		return tx, core.RecurringExpense{}, fmt.Errorf("advance next due of %s: %w", id, err)
	}

	slog.InfoContext(ctx, "Recurring expense executed",
		"recurring_id", r.ID,
		"transaction_id", tx.ID,
		"frequency", r.Frequency,
		"next_due", r.NextDue.String())
	s.notify(ctx, amqp.EntityRecurring, amqp.ActionExecuted, r.ID)
	return tx, r, nil
}

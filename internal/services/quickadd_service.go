package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/store"
)

// QuickAddStore is what QuickAddService needs from persistence.
type QuickAddStore interface {
	store.QuickAddStore
	store.SettingsStore
}

// DefaultQuickAddOptions are seeded the first time options are listed,
// unless the user has cleared them.
var DefaultQuickAddOptions = []core.QuickAddOption{
	{Icon: "Coffee", Label: "Coffee", Amount: decimal.NewFromInt(5), Category: core.FoodAndDining, Description: "Coffee", Order: 0},
	{Icon: "Utensils", Label: "Lunch", Amount: decimal.NewFromInt(15), Category: core.FoodAndDining, Description: "Lunch", Order: 1},
	{Icon: "Car", Label: "Gas", Amount: decimal.NewFromInt(50), Category: core.Transportation, Description: "Gas", Order: 2},
	{Icon: "ShoppingBag", Label: "Groceries", Amount: decimal.NewFromInt(80), Category: core.Shopping, Description: "Groceries", Order: 3},
	{Icon: "Zap", Label: "Utilities", Amount: decimal.NewFromInt(120), Category: core.BillsAndUtils, Description: "Utilities", Order: 4},
}

// QuickAddService manages one-tap transaction templates.
type QuickAddService struct {
	notifier
	store        QuickAddStore
	transactions *TransactionService
	clock        Clock
}

func NewQuickAddService(s QuickAddStore, transactions *TransactionService, events EventPublisher, clock Clock) *QuickAddService {
	return &QuickAddService{
		notifier:     notifier{events: events},
		store:        s,
		transactions: transactions,
		clock:        clock,
	}
}

// List returns the options ordered for display, seeding the defaults when
// there are none and the user never cleared them.
func (s *QuickAddService) List(ctx context.Context) ([]core.QuickAddOption, error) {
	if err := s.EnsureDefaults(ctx); err != nil {
		return nil, err
	}
	return s.store.ListQuickAdd(ctx)
}

func (s *QuickAddService) EnsureDefaults(ctx context.Context) error {
	existing, err := s.store.ListQuickAdd(ctx)
	if err != nil {
		return fmt.Errorf("list quick-add options: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if settings.QuickAddCleared {
		return nil
	}

	now := s.clock()
	for _, opt := range DefaultQuickAddOptions {
		opt.ID = core.NewID()
		opt.CreatedAt = now
		if err := s.store.CreateQuickAdd(ctx, opt); err != nil {
			return fmt.Errorf("seed quick-add option %q: %w", opt.Label, err)
		}
	}
	return nil
}

// Add saves a new option at the end of the list and re-enables default
// seeding for a later clear.
func (s *QuickAddService) Add(ctx context.Context, q core.QuickAddOption) (core.QuickAddOption, error) {
	existing, err := s.store.ListQuickAdd(ctx)
	if err != nil {
		return core.QuickAddOption{}, fmt.Errorf("list quick-add options: %w", err)
	}
	if q.ID == "" {
		q.ID = core.NewID()
	}
	q.Order = len(existing)
	q.CreatedAt = s.clock()
	if err := q.Validate(); err != nil {
		return core.QuickAddOption{}, invalid(err)
	}
	if err := s.store.CreateQuickAdd(ctx, q); err != nil {
		return core.QuickAddOption{}, fmt.Errorf("save quick-add option: %w", err)
	}
	if err := s.setCleared(ctx, false); err != nil {
		return core.QuickAddOption{}, err
	}
	s.notify(ctx, amqp.EntityQuickAdd, amqp.ActionCreated, q.ID)
	return q, nil
}

// Update replaces the fields of an existing option. Position and
// CreatedAt are kept; use Reorder to move an option.
func (s *QuickAddService) Update(ctx context.Context, q core.QuickAddOption) (core.QuickAddOption, error) {
	current, err := s.store.GetQuickAdd(ctx, q.ID)
	if err != nil {
		return core.QuickAddOption{}, err
	}
	q.Order = current.Order
	q.CreatedAt = current.CreatedAt
	if err := q.Validate(); err != nil {
		return core.QuickAddOption{}, invalid(err)
	}
	if err := s.store.UpdateQuickAdd(ctx, q); err != nil {
		return core.QuickAddOption{}, fmt.Errorf("update quick-add option: %w", err)
	}
	s.notify(ctx, amqp.EntityQuickAdd, amqp.ActionUpdated, q.ID)
	return q, nil
}

func (s *QuickAddService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteQuickAdd(ctx, id); err != nil {
		return fmt.Errorf("delete quick-add option: %w", err)
	}
	s.notify(ctx, amqp.EntityQuickAdd, amqp.ActionDeleted, id)
	return nil
}

// ClearAll removes every option and remembers that the user did so.
func (s *QuickAddService) ClearAll(ctx context.Context) error {
	if err := s.store.ClearQuickAdd(ctx); err != nil {
		return fmt.Errorf("clear quick-add options: %w", err)
	}
	if err := s.setCleared(ctx, true); err != nil {
		return err
	}
	s.notify(ctx, amqp.EntityQuickAdd, amqp.ActionCleared, "")
	return nil
}

// Reorder assigns Order by position in ids. IDs not listed keep their
// relative order after the listed ones.
func (s *QuickAddService) Reorder(ctx context.Context, ids []string) ([]core.QuickAddOption, error) {
	existing, err := s.store.ListQuickAdd(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quick-add options: %w", err)
	}
	byID := make(map[string]core.QuickAddOption, len(existing))
	for _, q := range existing {
		byID[q.ID] = q
	}

	ordered := make([]core.QuickAddOption, 0, len(existing))
	placed := map[string]bool{}
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, invalid(fmt.Errorf("unknown quick-add option %q", id))
		}
		if placed[id] {
			return nil, invalid(fmt.Errorf("duplicate quick-add option %q", id))
		}
		placed[id] = true
		ordered = append(ordered, q)
	}
	for _, q := range existing {
		if !placed[q.ID] {
			ordered = append(ordered, q)
		}
	}

	for i := range ordered {
		if ordered[i].Order == i {
			continue
		}
		ordered[i].Order = i
		if err := s.store.UpdateQuickAdd(ctx, ordered[i]); err != nil {
			return nil, fmt.Errorf("reorder quick-add option %s: %w", ordered[i].ID, err)
		}
	}
	s.notify(ctx, amqp.EntityQuickAdd, amqp.ActionUpdated, "")
	return ordered, nil
}

// Apply records a transaction dated today from the option.
func (s *QuickAddService) Apply(ctx context.Context, id string) (core.Transaction, error) {
	q, err := s.store.GetQuickAdd(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	return s.transactions.Create(ctx, core.Transaction{
		Amount:      q.Amount,
		Category:    q.Category,
		Description: q.Description,
		Date:        core.DateOf(s.clock()),
	})
}

func (s *QuickAddService) setCleared(ctx context.Context, cleared bool) error {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if settings.QuickAddCleared == cleared {
		return nil
	}
	settings.QuickAddCleared = cleared
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

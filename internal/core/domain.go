package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Weekly  BudgetPeriod = "weekly"
	Monthly BudgetPeriod = "monthly"
	Yearly  BudgetPeriod = "yearly"
)

const (
	EveryDay   Frequency = "daily"
	EveryWeek  Frequency = "weekly"
	EveryMonth Frequency = "monthly"
	EveryYear  Frequency = "yearly"
)

const maxDescriptionLen = 200

type (
	// BudgetPeriod is the recurrence window a budget limit applies to.
	BudgetPeriod string

	// Frequency is how often a recurring expense template fires.
	Frequency string

	Transaction struct {
		ID          string          `json:"id"`
		Amount      decimal.Decimal `json:"amount"`
		Category    Category        `json:"category"`
		Description string          `json:"description"`
		Date        Date            `json:"date"`
	}

	Budget struct {
		ID        string          `json:"id"`
		Category  Category        `json:"category"`
		Limit     decimal.Decimal `json:"limit"`
		Period    BudgetPeriod    `json:"period"`
		CreatedAt time.Time       `json:"createdAt"`
	}

	RecurringExpense struct {
		ID          string          `json:"id"`
		Amount      decimal.Decimal `json:"amount"`
		Category    Category        `json:"category"`
		Description string          `json:"description"`
		Frequency   Frequency       `json:"frequency"`
		NextDue     Date            `json:"nextDue"`
		IsActive    bool            `json:"isActive"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	// QuickAddOption is a one-tap transaction template.
	QuickAddOption struct {
		ID          string          `json:"id"`
		Icon        string          `json:"icon"`
		Label       string          `json:"label"`
		Amount      decimal.Decimal `json:"amount"`
		Category    Category        `json:"category"`
		Description string          `json:"description"`
		Order       int             `json:"order"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	// Settings holds user preferences persisted next to the records.
	Settings struct {
		// QuickAddCleared is set once the user removes every quick-add option,
		// so the defaults are not seeded again.
		QuickAddCleared bool `json:"quickAddCleared"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrDescriptionLong  = fmt.Errorf("description too long (max %d characters)", maxDescriptionLen)
	ErrEmptyID          = errors.New("empty id")
	ErrInvalidPeriod    = errors.New("invalid budget period")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrEmptyLabel       = errors.New("empty label")
)

// NewID returns a fresh random record identifier.
func NewID() string {
	return uuid.NewString()
}

func (p BudgetPeriod) Validate() error {
	switch p {
	case Weekly, Monthly, Yearly:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPeriod, string(p))
	}
}

// Label is the display name of the period a budget currently covers.
func (p BudgetPeriod) Label() string {
	switch p {
	case Weekly:
		return "This Week"
	case Monthly:
		return "This Month"
	case Yearly:
		return "This Year"
	default:
		return string(p)
	}
}

func (f Frequency) Validate() error {
	switch f {
	case EveryDay, EveryWeek, EveryMonth, EveryYear:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, string(f))
	}
}

func validateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func validateDescription(s string) error {
	if len(strings.TrimSpace(s)) == 0 {
		return ErrEmptyDescription
	}
	if len(s) > maxDescriptionLen {
		return ErrDescriptionLong
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if err := validateAmount(t.Amount); err != nil {
		return err
	}
	if err := t.Category.Validate(); err != nil {
		return err
	}
	if err := validateDescription(t.Description); err != nil {
		return err
	}
	return t.Date.Validate()
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrEmptyID
	}
	if err := b.Category.Validate(); err != nil {
		return err
	}
	if err := validateAmount(b.Limit); err != nil {
		return fmt.Errorf("invalid limit: %w", err)
	}
	return b.Period.Validate()
}

func (r RecurringExpense) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrEmptyID
	}
	if err := validateAmount(r.Amount); err != nil {
		return err
	}
	if err := r.Category.Validate(); err != nil {
		return err
	}
	if err := validateDescription(r.Description); err != nil {
		return err
	}
	if err := r.Frequency.Validate(); err != nil {
		return err
	}
	if err := r.NextDue.Validate(); err != nil {
		return errors.New("invalid next due date: " + err.Error())
	}
	return nil
}

func (q QuickAddOption) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(q.Label) == "" {
		return ErrEmptyLabel
	}
	if err := validateAmount(q.Amount); err != nil {
		return err
	}
	if err := q.Category.Validate(); err != nil {
		return err
	}
	return validateDescription(q.Description)
}

// Package budget computes how much of a budget limit has been consumed in
// the budget's current period.
package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

// Status classifies consumption of a budget limit.
type Status string

const (
	Safe     Status = "safe"
	Warning  Status = "warning"
	Danger   Status = "danger"
	Exceeded Status = "exceeded"
)

var (
	hundred          = decimal.NewFromInt(100)
	exceededAt       = decimal.NewFromInt(100)
	dangerAt         = decimal.NewFromInt(90)
	warningAt        = decimal.NewFromInt(75)
	statusColors     = map[Status]string{Safe: "#10b981", Warning: "#f59e0b", Danger: "#ef4444", Exceeded: "#dc2626"}
	defaultStatusHex = statusColors[Safe]
)

// Color returns the display color of s.
func (s Status) Color() string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return defaultStatusHex
}

// Progress is the consumption of one budget in its current period.
type Progress struct {
	Budget     core.Budget `json:"budget"`
	Spent      float64     `json:"spent"`
	Remaining  float64     `json:"remaining"`
	Percentage float64     `json:"percentage"`
	Status     Status      `json:"status"`
	// Overage is spent minus limit, floored at zero. Percentage is capped
	// at 100, so this is the only field that shows how far over a budget is.
	Overage float64 `json:"overage"`
}

// PeriodStart returns the first instant of the period containing now.
// Weekly periods start on the most recent Sunday at midnight.
func PeriodStart(p core.BudgetPeriod, now time.Time) time.Time {
	y, m, d := now.Date()
	loc := now.Location()
	switch p {
	case core.Weekly:
		return time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, loc)
	case core.Yearly:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	}
}

// TransactionsForPeriod returns the transactions of b's category dated
// within [PeriodStart, now].
func TransactionsForPeriod(b core.Budget, txns []core.Transaction, now time.Time) []core.Transaction {
	start := PeriodStart(b.Period, now)
	out := []core.Transaction{}
	for _, t := range txns {
		if t.Category != b.Category {
			continue
		}
		at := t.Date.At(now.Location())
		if at.Before(start) || at.After(now) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Calculate reports how much of b has been spent by now.
func Calculate(b core.Budget, txns []core.Transaction, now time.Time) Progress {
	spent := core.Sum(TransactionsForPeriod(b, txns, now))

	pct := decimal.Zero
	switch {
	case b.Limit.IsPositive():
		pct = decimal.Min(hundred, spent.Div(b.Limit).Mul(hundred))
	case spent.IsPositive():
		pct = hundred
	}

	return Progress{
		Budget:     b,
		Spent:      core.Float(spent),
		Remaining:  core.Float(decimal.Max(decimal.Zero, b.Limit.Sub(spent))),
		Percentage: core.Float(pct),
		Status:     statusFor(pct),
		Overage:    core.Float(decimal.Max(decimal.Zero, spent.Sub(b.Limit))),
	}
}

// CalculateAll evaluates every budget on its own. Budgets sharing a
// category each see the full transaction pool.
func CalculateAll(budgets []core.Budget, txns []core.Transaction, now time.Time) []Progress {
	out := make([]Progress, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, Calculate(b, txns, now))
	}
	return out
}

func statusFor(pct decimal.Decimal) Status {
	switch {
	case pct.GreaterThanOrEqual(exceededAt):
		return Exceeded
	case pct.GreaterThanOrEqual(dangerAt):
		return Danger
	case pct.GreaterThanOrEqual(warningAt):
		return Warning
	default:
		return Safe
	}
}

// AtLeast reports whether s is as severe as min or worse.
func (s Status) AtLeast(min Status) bool {
	return severity[s] >= severity[min]
}

var severity = map[Status]int{Safe: 0, Warning: 1, Danger: 2, Exceeded: 3}

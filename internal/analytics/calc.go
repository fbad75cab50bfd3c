package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

var hundred = decimal.NewFromInt(100)

// percentChange returns the change from previous to current in percent.
// A zero previous value yields 100 when current is positive and 0 otherwise.
func percentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsPositive() {
		return current.Sub(previous).Div(previous).Mul(hundred)
	}
	if current.IsPositive() {
		return hundred
	}
	return decimal.Zero
}

// share returns part as a percentage of total, or 0 for a zero total.
func share(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred)
}

// ratio divides a by n, or returns 0 when n is zero.
func ratio(a decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return a.Div(decimal.NewFromInt(int64(n)))
}

// window is a closed interval [start, end] of instants.
type window struct {
	start, end time.Time
}

func (w window) contains(t time.Time) bool {
	return !t.Before(w.start) && !t.After(w.end)
}

// sumIn totals the transactions whose date, placed at midnight in loc,
// satisfies in.
func sumIn(txns []core.Transaction, loc *time.Location, in func(time.Time) bool) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, t := range txns {
		if in(t.Date.At(loc)) {
			total = total.Add(t.Amount)
			count++
		}
	}
	return total, count
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

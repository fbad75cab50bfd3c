package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Filter narrows a transaction list. Zero-valued fields are ignored.
type Filter struct {
	Search   string
	Category Category
	From     Date
	To       Date
	Min      decimal.NullDecimal
	Max      decimal.NullDecimal
}

// IsActive reports whether any criterion is set.
func (f Filter) IsActive() bool {
	return f.Search != "" || f.Category != "" || !f.From.IsZero() || !f.To.IsZero() || f.Min.Valid || f.Max.Valid
}

// Match reports whether t satisfies every set criterion. Bounds are inclusive.
func (f Filter) Match(t Transaction) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Search)) {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From.Time) {
		return false
	}
	if !f.To.IsZero() && t.Date.After(f.To.Time) {
		return false
	}
	if f.Min.Valid && t.Amount.LessThan(f.Min.Decimal) {
		return false
	}
	if f.Max.Valid && t.Amount.GreaterThan(f.Max.Decimal) {
		return false
	}
	return true
}

// Apply returns the transactions matching f, preserving input order.
func (f Filter) Apply(txns []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

type SortField string

const (
	SortByDate     SortField = "date"
	SortByAmount   SortField = "amount"
	SortByCategory SortField = "category"
)

// SortTransactions returns a sorted copy of txns. Unknown fields sort by date.
func SortTransactions(txns []Transaction, by SortField, descending bool) []Transaction {
	out := make([]Transaction, len(txns))
	copy(out, txns)
	less := func(a, b Transaction) int {
		switch by {
		case SortByAmount:
			return a.Amount.Cmp(b.Amount)
		case SortByCategory:
			return strings.Compare(string(a.Category), string(b.Category))
		default:
			return a.Date.Compare(b.Date.Time)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := less(out[i], out[j])
		if descending {
			return c > 0
		}
		return c < 0
	})
	return out
}

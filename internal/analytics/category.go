package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

const (
	// TrendMinTransactions is the smallest category size that gets a trend.
	TrendMinTransactions = 4
	// TrendWindow is the length of the recent and previous comparison windows.
	TrendWindow = 30 * 24 * time.Hour
	// TrendThreshold is the percent change beyond which a trend is up or down.
	TrendThreshold = 15
)

var trendThreshold = decimal.NewFromInt(TrendThreshold)

// CategoryInsights groups txns by category and returns one insight per
// category, highest amount first. Ties are ordered by category name.
func CategoryInsights(txns []core.Transaction, now time.Time) []CategoryInsight {
	insights := []CategoryInsight{}
	if len(txns) == 0 {
		return insights
	}

	groups := map[core.Category][]core.Transaction{}
	for _, t := range txns {
		groups[t.Category] = append(groups[t.Category], t)
	}
	total := core.Sum(txns)

	amounts := make(map[core.Category]decimal.Decimal, len(groups))
	for cat, group := range groups {
		amount := core.Sum(group)
		amounts[cat] = amount
		insights = append(insights, CategoryInsight{
			Category:              cat,
			Amount:                core.Float(amount),
			Percentage:            core.Float(share(amount, total)),
			AveragePerTransaction: core.Float(ratio(amount, len(group))),
			TransactionCount:      len(group),
			Trend:                 categoryTrend(group, now),
		})
	}

	sort.Slice(insights, func(i, j int) bool {
		ai, aj := amounts[insights[i].Category], amounts[insights[j].Category]
		if !ai.Equal(aj) {
			return ai.GreaterThan(aj)
		}
		return insights[i].Category < insights[j].Category
	})
	return insights
}

// categoryTrend compares the last TrendWindow before now with the window
// immediately preceding it. Categories with too few transactions, or with
// an empty window on either side, are stable.
func categoryTrend(group []core.Transaction, now time.Time) Trend {
	if len(group) < TrendMinTransactions {
		return TrendStable
	}

	recentStart := now.Add(-TrendWindow)
	previousStart := now.Add(-2 * TrendWindow)
	loc := now.Location()

	recent, recentCount := sumIn(group, loc, func(d time.Time) bool {
		return !d.Before(recentStart)
	})
	previous, previousCount := sumIn(group, loc, func(d time.Time) bool {
		return !d.Before(previousStart) && d.Before(recentStart)
	})
	if recentCount == 0 || previousCount == 0 || previous.IsZero() {
		return TrendStable
	}

	change := recent.Sub(previous).Div(previous).Mul(hundred)
	switch {
	case change.GreaterThan(trendThreshold):
		return TrendUp
	case change.LessThan(trendThreshold.Neg()):
		return TrendDown
	default:
		return TrendStable
	}
}

package analytics

import (
	"time"

	"spendwise/internal/core"
)

// Empty is the result for an empty transaction log: zero numbers, empty
// lists and a comparison with blank month labels.
func Empty() Data {
	return Data{
		CategoryInsights: []CategoryInsight{},
		WeeklyTrends:     []SpendingTrend{},
		MonthlyTrends:    []SpendingTrend{},
	}
}

// Calculate consolidates every derived view of txns relative to now.
// The caller captures now once; all sub-computations share it.
func Calculate(txns []core.Transaction, now time.Time) Data {
	if len(txns) == 0 {
		return Empty()
	}

	total := core.Sum(txns)
	days := map[string]struct{}{}
	for _, t := range txns {
		days[t.Date.String()] = struct{}{}
	}

	insights := CategoryInsights(txns, now)
	var top core.Category
	if len(insights) > 0 {
		top = insights[0].Category
	}

	return Data{
		TotalSpent:         core.Float(total),
		AverageDaily:       core.Float(ratio(total, len(days))),
		AverageTransaction: core.Float(ratio(total, len(txns))),
		TopCategory:        top,
		MonthlyComparison:  CompareMonths(txns, now),
		CategoryInsights:   insights,
		WeeklyTrends:       WeeklyTrends(txns, now),
		MonthlyTrends:      MonthlyTrends(txns, now),
	}
}

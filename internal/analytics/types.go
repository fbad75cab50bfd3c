// Package analytics derives spending insights from a transaction log.
//
// Every function here is pure: it reads the transactions it is given and a
// reference instant supplied by the caller, and never consults the clock.
// Arithmetic runs on decimals; results are exposed as plain numbers with
// percentages on a 0-100 scale.
package analytics

import "spendwise/internal/core"

// Trend classifies a category's recent spending against the window before it.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

type (
	CategoryInsight struct {
		Category              core.Category `json:"category"`
		Amount                float64       `json:"amount"`
		Percentage            float64       `json:"percentage"`
		AveragePerTransaction float64       `json:"averagePerTransaction"`
		TransactionCount      int           `json:"transactionCount"`
		Trend                 Trend         `json:"trend"`
	}

	SpendingTrend struct {
		Period           string  `json:"period"`
		Amount           float64 `json:"amount"`
		Change           float64 `json:"change"`
		ChangePercentage float64 `json:"changePercentage"`
	}

	MonthSummary struct {
		Month            string  `json:"month"`
		Amount           float64 `json:"amount"`
		TransactionCount int     `json:"transactionCount"`
	}

	MonthlyComparison struct {
		CurrentMonth     MonthSummary `json:"currentMonth"`
		PreviousMonth    MonthSummary `json:"previousMonth"`
		Change           float64      `json:"change"`
		ChangePercentage float64      `json:"changePercentage"`
	}

	// Data is the consolidated analytics result. Field names are consumed
	// by reporting templates and must stay stable.
	Data struct {
		TotalSpent         float64           `json:"totalSpent"`
		AverageDaily       float64           `json:"averageDaily"`
		AverageTransaction float64           `json:"averageTransaction"`
		TopCategory        core.Category     `json:"topCategory"`
		MonthlyComparison  MonthlyComparison `json:"monthlyComparison"`
		CategoryInsights   []CategoryInsight `json:"categoryInsights"`
		WeeklyTrends       []SpendingTrend   `json:"weeklyTrends"`
		MonthlyTrends      []SpendingTrend   `json:"monthlyTrends"`
	}
)

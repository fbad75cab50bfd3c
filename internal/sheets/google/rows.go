package google

import (
	"time"

	"spendwise/internal/services"
)

// OverviewRows lays ov out as sheet rows: a title line followed by blocks
// for the summary, categories, weekly and monthly trends, budgets and
// insights, each separated by an empty row.
func OverviewRows(ov services.Overview) [][]any {
	data := ov.Analytics
	cmp := data.MonthlyComparison

	rows := [][]any{
		{"Spendwise analytics", ov.GeneratedAt.Format(time.RFC3339)},
		{},
		{"Metric", "Value"},
		{"Total spent", data.TotalSpent},
		{"Average per day", data.AverageDaily},
		{"Average per transaction", data.AverageTransaction},
		{"Top category", string(data.TopCategory)},
		{cmp.CurrentMonth.Month, cmp.CurrentMonth.Amount},
		{cmp.PreviousMonth.Month, cmp.PreviousMonth.Amount},
		{"Month over month %", cmp.ChangePercentage},
		{},
		{"Category", "Amount", "Share %", "Average", "Transactions", "Trend"},
	}
	for _, c := range data.CategoryInsights {
		rows = append(rows, []any{string(c.Category), c.Amount, c.Percentage, c.AveragePerTransaction, c.TransactionCount, string(c.Trend)})
	}

	rows = append(rows, []any{}, []any{"Week", "Amount", "Change", "Change %"})
	for _, t := range data.WeeklyTrends {
		rows = append(rows, []any{t.Period, t.Amount, t.Change, t.ChangePercentage})
	}

	rows = append(rows, []any{}, []any{"Month", "Amount", "Change", "Change %"})
	for _, t := range data.MonthlyTrends {
		rows = append(rows, []any{t.Period, t.Amount, t.Change, t.ChangePercentage})
	}

	rows = append(rows, []any{}, []any{"Budget", "Period", "Limit", "Spent", "Remaining", "Used %", "Status", "Over by"})
	for _, p := range ov.Budgets {
		limit, _ := p.Budget.Limit.Float64()
		rows = append(rows, []any{
			string(p.Budget.Category),
			p.Budget.Period.Label(),
			limit,
			p.Spent,
			p.Remaining,
			p.Percentage,
			string(p.Status),
			p.Overage,
		})
	}

	if len(ov.Insights) > 0 {
		rows = append(rows, []any{}, []any{"Insights"})
		for _, s := range ov.Insights {
			rows = append(rows, []any{s})
		}
	}
	return rows
}

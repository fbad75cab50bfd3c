// Package report renders analytics for people: text tables for the
// terminal and PNG bar charts for the API and the report command.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"spendwise/internal/analytics"
	"spendwise/internal/budget"
)

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}

// Summary writes the headline figures of data.
func Summary(w io.Writer, data analytics.Data) {
	table := newTable(w, "Metric", "Value")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	top := string(data.TopCategory)
	if top == "" {
		top = "-"
	}
	cmp := data.MonthlyComparison
	table.AppendBulk([][]string{
		{"Total spent", money(data.TotalSpent)},
		{"Average per day", money(data.AverageDaily)},
		{"Average per transaction", money(data.AverageTransaction)},
		{"Top category", top},
		{"This month", money(cmp.CurrentMonth.Amount)},
		{"Last month", money(cmp.PreviousMonth.Amount)},
		{"Month over month", percent(cmp.ChangePercentage)},
	})
	table.Render()
}

// Categories writes one row per category insight, largest first.
func Categories(w io.Writer, insights []analytics.CategoryInsight) {
	table := newTable(w, "Category", "Amount", "Share", "Avg", "Count", "Trend")
	for _, c := range insights {
		table.Append([]string{
			string(c.Category),
			money(c.Amount),
			percent(c.Percentage),
			money(c.AveragePerTransaction),
			strconv.Itoa(c.TransactionCount),
			string(c.Trend),
		})
	}
	table.Render()
}

// Trends writes one row per period bucket, oldest first.
func Trends(w io.Writer, trends []analytics.SpendingTrend) {
	table := newTable(w, "Period", "Amount", "Change", "Change %")
	for _, t := range trends {
		table.Append([]string{t.Period, money(t.Amount), money(t.Change), percent(t.ChangePercentage)})
	}
	table.Render()
}

// Budgets writes the progress of each budget in its current period.
func Budgets(w io.Writer, progress []budget.Progress) {
	table := newTable(w, "Category", "Period", "Limit", "Spent", "Remaining", "Used", "Status")
	for _, p := range progress {
		table.Append([]string{
			string(p.Budget.Category),
			p.Budget.Period.Label(),
			p.Budget.Limit.StringFixed(2),
			money(p.Spent),
			money(p.Remaining),
			percent(p.Percentage),
			string(p.Status),
		})
	}
	table.Render()
}

// Write prints the full text report: summary, insights, categories,
// trends and budgets.
func Write(w io.Writer, data analytics.Data, insights []string, progress []budget.Progress) error {
	section := func(title string) {
		fmt.Fprintf(w, "\n%s\n", title)
	}

	section("Summary")
	Summary(w, data)

	if len(insights) > 0 {
		section("Insights")
		for _, s := range insights {
			fmt.Fprintf(w, "  * %s\n", s)
		}
	}

	section("Categories")
	Categories(w, data.CategoryInsights)

	section("Weekly trends")
	Trends(w, data.WeeklyTrends)

	section("Monthly trends")
	Trends(w, data.MonthlyTrends)

	section("Budgets")
	Budgets(w, progress)

	_, err := fmt.Fprintln(w)
	return err
}

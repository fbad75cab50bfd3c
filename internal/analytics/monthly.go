package analytics

import (
	"time"

	"spendwise/internal/core"
)

const monthLabelLayout = "January 2006"

// CompareMonths compares the calendar month containing now with the one
// before it. Membership is half-open, [monthStart, nextMonthStart), so a
// transaction dated on the 1st belongs to the month it opens.
func CompareMonths(txns []core.Transaction, now time.Time) MonthlyComparison {
	loc := now.Location()
	y, m, _ := now.Date()
	current := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	previous := time.Date(y, m-1, 1, 0, 0, 0, 0, loc)
	next := time.Date(y, m+1, 1, 0, 0, 0, 0, loc)

	curAmount, curCount := sumIn(txns, loc, func(d time.Time) bool {
		return !d.Before(current) && d.Before(next)
	})
	prevAmount, prevCount := sumIn(txns, loc, func(d time.Time) bool {
		return !d.Before(previous) && d.Before(current)
	})

	return MonthlyComparison{
		CurrentMonth: MonthSummary{
			Month:            current.Format(monthLabelLayout),
			Amount:           core.Float(curAmount),
			TransactionCount: curCount,
		},
		PreviousMonth: MonthSummary{
			Month:            previous.Format(monthLabelLayout),
			Amount:           core.Float(prevAmount),
			TransactionCount: prevCount,
		},
		Change:           core.Float(curAmount.Sub(prevAmount)),
		ChangePercentage: core.Float(percentChange(curAmount, prevAmount)),
	}
}

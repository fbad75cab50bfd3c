package analytics

import (
	"fmt"
	"time"

	"spendwise/internal/core"
)

// BucketKind selects the width of a period bucket.
type BucketKind string

const (
	Week  BucketKind = "week"
	Month BucketKind = "month"
)

const (
	WeeklyBuckets  = 8
	MonthlyBuckets = 6
)

// WeeklyTrends returns the last WeeklyBuckets trailing 7-day spans ending today.
func WeeklyTrends(txns []core.Transaction, now time.Time) []SpendingTrend {
	return Buckets(txns, now, Week, WeeklyBuckets)
}

// MonthlyTrends returns the current calendar month and the MonthlyBuckets-1 before it.
func MonthlyTrends(txns []core.Transaction, now time.Time) []SpendingTrend {
	return Buckets(txns, now, Month, MonthlyBuckets)
}

// Buckets splits the count most recent periods of the given kind into
// spending trends, oldest first. Each bucket is compared with the equally
// sized, contiguous period immediately before it.
//
// Weekly buckets are calendar-day aligned: bucket i ends at the last instant
// of the day 7*i days before now and starts six days earlier at midnight.
// They are not Monday-to-Sunday weeks.
func Buckets(txns []core.Transaction, now time.Time, kind BucketKind, count int) []SpendingTrend {
	if count <= 0 {
		return []SpendingTrend{}
	}
	loc := now.Location()
	trends := make([]SpendingTrend, 0, count)
	for i := count - 1; i >= 0; i-- {
		current, label := bucketWindow(kind, now, i)
		previous, _ := bucketWindow(kind, now, i+1)

		amount, _ := sumIn(txns, loc, current.contains)
		prevAmount, _ := sumIn(txns, loc, previous.contains)

		trends = append(trends, SpendingTrend{
			Period:           label,
			Amount:           core.Float(amount),
			Change:           core.Float(amount.Sub(prevAmount)),
			ChangePercentage: core.Float(percentChange(amount, prevAmount)),
		})
	}
	return trends
}

// bucketWindow returns the i-th period back from now and its display label.
func bucketWindow(kind BucketKind, now time.Time, i int) (window, string) {
	switch kind {
	case Month:
		y, m, _ := now.Date()
		start := time.Date(y, m-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		end := endOfDay(time.Date(y, m-time.Month(i)+1, 0, 0, 0, 0, 0, now.Location()))
		return window{start: start, end: end}, start.Format("Jan 06")
	default:
		end := endOfDay(now.AddDate(0, 0, -7*i))
		start := startOfDay(end.AddDate(0, 0, -6))
		return window{start: start, end: end}, fmt.Sprintf("%d/%d", int(start.Month()), start.Day())
	}
}

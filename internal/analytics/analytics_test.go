package analytics

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

// refNow is a Wednesday afternoon.
var refNow = time.Date(2025, 6, 18, 14, 30, 0, 0, time.UTC)

func tx(id, amount string, cat core.Category, d core.Date) core.Transaction {
	return core.Transaction{
		ID:          id,
		Amount:      decimal.RequireFromString(amount),
		Category:    cat,
		Description: id,
		Date:        d,
	}
}

func daysAgo(n int) core.Date {
	return core.DateOf(refNow.AddDate(0, 0, -n))
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateEmpty(t *testing.T) {
	for _, in := range [][]core.Transaction{nil, {}} {
		got := Calculate(in, refNow)
		if got.TotalSpent != 0 || got.AverageDaily != 0 || got.AverageTransaction != 0 || got.TopCategory != "" {
			t.Fatalf("expected zero numbers, got %+v", got)
		}
		if got.MonthlyComparison != (MonthlyComparison{}) {
			t.Fatalf("expected zero comparison, got %+v", got.MonthlyComparison)
		}
		if got.CategoryInsights == nil || got.WeeklyTrends == nil || got.MonthlyTrends == nil {
			t.Fatalf("expected non-nil empty lists")
		}
		if len(got.CategoryInsights)+len(got.WeeklyTrends)+len(got.MonthlyTrends) != 0 {
			t.Fatalf("expected empty lists, got %+v", got)
		}

		b, err := json.Marshal(got)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		s := string(b)
		for _, want := range []string{`"categoryInsights":[]`, `"weeklyTrends":[]`, `"monthlyTrends":[]`, `"topCategory":""`, `"month":""`} {
			if !strings.Contains(s, want) {
				t.Fatalf("json %s missing %s", s, want)
			}
		}
		if strings.Contains(s, "null") {
			t.Fatalf("json must not contain null: %s", s)
		}
	}
}

func TestCalculateAverages(t *testing.T) {
	// Five transactions on three distinct dates spread over 100 days.
	txns := []core.Transaction{
		tx("a", "40", core.FoodAndDining, daysAgo(0)),
		tx("b", "20", core.FoodAndDining, daysAgo(0)),
		tx("c", "30", core.Travel, daysAgo(50)),
		tx("d", "10", core.Travel, daysAgo(100)),
		tx("e", "50", core.Shopping, daysAgo(100)),
	}
	got := Calculate(txns, refNow)

	if !approx(got.TotalSpent, 150) {
		t.Fatalf("totalSpent = %v, want 150", got.TotalSpent)
	}
	if !approx(got.AverageDaily, 50) {
		t.Fatalf("averageDaily = %v, want 50 (three distinct dates)", got.AverageDaily)
	}
	if !approx(got.AverageTransaction, 30) {
		t.Fatalf("averageTransaction = %v, want 30", got.AverageTransaction)
	}
	if got.TopCategory != core.FoodAndDining {
		t.Fatalf("topCategory = %q", got.TopCategory)
	}
	if len(got.WeeklyTrends) != WeeklyBuckets || len(got.MonthlyTrends) != MonthlyBuckets {
		t.Fatalf("unexpected trend lengths %d/%d", len(got.WeeklyTrends), len(got.MonthlyTrends))
	}
}

func TestCalculateIsDeterministicAndReadOnly(t *testing.T) {
	txns := []core.Transaction{
		tx("a", "12.5", core.Shopping, daysAgo(3)),
		tx("b", "12.5", core.Travel, daysAgo(3)),
		tx("c", "7", core.Other, daysAgo(40)),
		tx("d", "99.99", core.Healthcare, daysAgo(70)),
	}
	before := append([]core.Transaction(nil), txns...)

	first := Calculate(txns, refNow)
	second := Calculate(txns, refNow)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\n%+v\n%+v", first, second)
	}
	if !reflect.DeepEqual(before, txns) {
		t.Fatalf("input was mutated")
	}
	// Equal amounts are ordered by category name.
	if first.CategoryInsights[1].Category != core.Shopping || first.CategoryInsights[2].Category != core.Travel {
		t.Fatalf("unexpected tie order: %+v", first.CategoryInsights)
	}
}

func TestCategoryTiesIgnoreInputOrder(t *testing.T) {
	forward := []core.Transaction{
		tx("a", "40", core.Travel, daysAgo(2)),
		tx("b", "40", core.Entertainment, daysAgo(5)),
		tx("c", "10", core.Other, daysAgo(1)),
	}
	reversed := []core.Transaction{forward[2], forward[1], forward[0]}

	for name, txns := range map[string][]core.Transaction{"forward": forward, "reversed": reversed} {
		data := Calculate(txns, refNow)
		if data.TopCategory != core.Entertainment {
			t.Errorf("%s: TopCategory = %q, want %q", name, data.TopCategory, core.Entertainment)
		}
		var got []core.Category
		for _, c := range data.CategoryInsights {
			got = append(got, c.Category)
		}
		want := []core.Category{core.Entertainment, core.Travel, core.Other}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: order = %v, want %v", name, got, want)
		}
	}
}

func TestCategoryInsightsTotals(t *testing.T) {
	txns := []core.Transaction{
		tx("1", "0.1", core.FoodAndDining, daysAgo(1)),
		tx("2", "0.2", core.FoodAndDining, daysAgo(2)),
		tx("3", "33.33", core.Transportation, daysAgo(3)),
		tx("4", "10", core.Entertainment, daysAgo(4)),
		tx("5", "5", core.Entertainment, daysAgo(5)),
	}
	insights := CategoryInsights(txns, refNow)
	if len(insights) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(insights))
	}

	var amount, pct float64
	for i, c := range insights {
		amount += c.Amount
		pct += c.Percentage
		if i > 0 && insights[i-1].Amount < c.Amount {
			t.Fatalf("not sorted by amount desc: %+v", insights)
		}
	}
	if math.Abs(amount-48.63) > 1e-9 {
		t.Fatalf("category amounts sum to %v, want 48.63", amount)
	}
	if math.Abs(pct-100) > 1e-6 {
		t.Fatalf("percentages sum to %v, want 100", pct)
	}

	ent := insights[1]
	if ent.Category != core.Entertainment || ent.TransactionCount != 2 || !approx(ent.AveragePerTransaction, 7.5) {
		t.Fatalf("unexpected entertainment insight: %+v", ent)
	}
	food := insights[2]
	if !approx(food.Amount, 0.3) {
		t.Fatalf("food amount = %v, want 0.3", food.Amount)
	}
}

func TestCategoryTrend(t *testing.T) {
	tests := []struct {
		name string
		txns []core.Transaction
		want Trend
	}{
		{
			name: "50% increase is up",
			txns: []core.Transaction{
				tx("p1", "50", core.Shopping, daysAgo(45)),
				tx("p2", "50", core.Shopping, daysAgo(45)),
				tx("r1", "75", core.Shopping, daysAgo(10)),
				tx("r2", "75", core.Shopping, daysAgo(10)),
			},
			want: TrendUp,
		},
		{
			name: "decrease beyond 15% is down",
			txns: []core.Transaction{
				tx("p1", "100", core.Shopping, daysAgo(40)),
				tx("p2", "100", core.Shopping, daysAgo(50)),
				tx("r1", "80", core.Shopping, daysAgo(5)),
				tx("r2", "89", core.Shopping, daysAgo(6)),
			},
			want: TrendDown,
		},
		{
			name: "exactly 15% is stable",
			txns: []core.Transaction{
				tx("p1", "50", core.Shopping, daysAgo(40)),
				tx("p2", "50", core.Shopping, daysAgo(50)),
				tx("r1", "57.5", core.Shopping, daysAgo(5)),
				tx("r2", "57.5", core.Shopping, daysAgo(6)),
			},
			want: TrendStable,
		},
		{
			name: "just over 15% is up",
			txns: []core.Transaction{
				tx("p1", "50", core.Shopping, daysAgo(40)),
				tx("p2", "50", core.Shopping, daysAgo(50)),
				tx("r1", "57.5", core.Shopping, daysAgo(5)),
				tx("r2", "57.51", core.Shopping, daysAgo(6)),
			},
			want: TrendUp,
		},
		{
			name: "exactly -15% is stable",
			txns: []core.Transaction{
				tx("p1", "50", core.Shopping, daysAgo(40)),
				tx("p2", "50", core.Shopping, daysAgo(50)),
				tx("r1", "42.5", core.Shopping, daysAgo(5)),
				tx("r2", "42.5", core.Shopping, daysAgo(6)),
			},
			want: TrendStable,
		},
		{
			name: "three transactions never trend",
			txns: []core.Transaction{
				tx("p1", "10", core.Shopping, daysAgo(45)),
				tx("r1", "500", core.Shopping, daysAgo(10)),
				tx("r2", "500", core.Shopping, daysAgo(10)),
			},
			want: TrendStable,
		},
		{
			name: "empty previous window is stable",
			txns: []core.Transaction{
				tx("r1", "10", core.Shopping, daysAgo(1)),
				tx("r2", "10", core.Shopping, daysAgo(2)),
				tx("r3", "10", core.Shopping, daysAgo(3)),
				tx("o1", "10", core.Shopping, daysAgo(90)),
			},
			want: TrendStable,
		},
		{
			name: "a date 30 days back falls in the previous window",
			txns: []core.Transaction{
				tx("r1", "60", core.Shopping, daysAgo(29)),
				tx("r2", "60", core.Shopping, daysAgo(29)),
				tx("p1", "50", core.Shopping, daysAgo(30)),
				tx("p2", "50", core.Shopping, daysAgo(30)),
			},
			want: TrendUp,
		},
		{
			name: "59 days back is still in the previous window",
			txns: []core.Transaction{
				tx("r1", "100", core.Shopping, daysAgo(5)),
				tx("r2", "100", core.Shopping, daysAgo(5)),
				tx("p1", "50", core.Shopping, daysAgo(59)),
				tx("p2", "50", core.Shopping, daysAgo(59)),
			},
			want: TrendUp,
		},
		{
			name: "60 days back is outside both windows",
			txns: []core.Transaction{
				tx("r1", "100", core.Shopping, daysAgo(5)),
				tx("r2", "100", core.Shopping, daysAgo(5)),
				tx("p1", "50", core.Shopping, daysAgo(60)),
				tx("p2", "50", core.Shopping, daysAgo(60)),
			},
			want: TrendStable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights := CategoryInsights(tt.txns, refNow)
			if len(insights) != 1 {
				t.Fatalf("expected one category, got %d", len(insights))
			}
			if insights[0].Trend != tt.want {
				t.Fatalf("trend = %s, want %s", insights[0].Trend, tt.want)
			}
		})
	}
}

func TestWeeklyTrends(t *testing.T) {
	// The newest bucket spans 6/12..6/18 and the oldest 4/24..4/30.
	txns := []core.Transaction{
		tx("start", "30", core.Other, core.NewDate(2025, 6, 12)),
		tx("today", "0.5", core.Other, core.NewDate(2025, 6, 18)),
		tx("prev", "20", core.Other, core.NewDate(2025, 6, 11)),
		tx("future", "999", core.Other, core.NewDate(2025, 6, 19)),
		tx("oldest", "4", core.Other, core.NewDate(2025, 4, 24)),
		tx("beyond", "8", core.Other, core.NewDate(2025, 4, 23)),
	}
	got := WeeklyTrends(txns, refNow)
	if len(got) != 8 {
		t.Fatalf("expected 8 buckets, got %d", len(got))
	}

	oldest, newest := got[0], got[7]
	if oldest.Period != "4/24" || newest.Period != "6/12" {
		t.Fatalf("unexpected labels %q .. %q", oldest.Period, newest.Period)
	}
	if !approx(newest.Amount, 30.5) || !approx(newest.Change, 10.5) || !approx(newest.ChangePercentage, 52.5) {
		t.Fatalf("unexpected newest bucket: %+v", newest)
	}
	if prev := got[6]; prev.Period != "6/5" || !approx(prev.Amount, 20) || !approx(prev.ChangePercentage, 100) {
		t.Fatalf("previous zero, current positive must give 100%%: %+v", prev)
	}
	if !approx(oldest.Amount, 4) || !approx(oldest.Change, -4) || !approx(oldest.ChangePercentage, -50) {
		t.Fatalf("oldest bucket must compare with the span before it: %+v", oldest)
	}
	if quiet := got[3]; quiet.Amount != 0 || quiet.Change != 0 || quiet.ChangePercentage != 0 {
		t.Fatalf("empty bucket after empty bucket must be all zero: %+v", quiet)
	}
}

func TestMonthlyTrends(t *testing.T) {
	txns := []core.Transaction{
		tx("jun1", "100", core.Other, core.NewDate(2025, 6, 1)),
		tx("may31", "50", core.Other, core.NewDate(2025, 5, 31)),
		tx("dec", "10", core.Other, core.NewDate(2024, 12, 31)),
	}
	got := MonthlyTrends(txns, refNow)
	labels := make([]string, len(got))
	for i, tr := range got {
		labels[i] = tr.Period
	}
	want := []string{"Jan 25", "Feb 25", "Mar 25", "Apr 25", "May 25", "Jun 25"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("labels = %v, want %v", labels, want)
	}

	jan, may, jun := got[0], got[4], got[5]
	if jan.Amount != 0 || !approx(jan.Change, -10) || !approx(jan.ChangePercentage, -100) {
		t.Fatalf("unexpected january: %+v", jan)
	}
	if !approx(may.Amount, 50) || !approx(may.ChangePercentage, 100) {
		t.Fatalf("unexpected may: %+v", may)
	}
	if !approx(jun.Amount, 100) || !approx(jun.Change, 50) || !approx(jun.ChangePercentage, 100) {
		t.Fatalf("unexpected june: %+v", jun)
	}
}

func TestBucketsZeroCount(t *testing.T) {
	if got := Buckets(nil, refNow, Week, 0); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestCompareMonths(t *testing.T) {
	txns := []core.Transaction{
		tx("cur-first", "40", core.Other, core.NewDate(2025, 6, 1)),
		tx("cur", "40", core.Other, core.NewDate(2025, 6, 18)),
		tx("prev-first", "25", core.Other, core.NewDate(2025, 5, 1)),
		tx("prev-last", "25", core.Other, core.NewDate(2025, 5, 31)),
		tx("too-old", "1000", core.Other, core.NewDate(2025, 4, 30)),
		tx("next", "1000", core.Other, core.NewDate(2025, 7, 1)),
	}
	got := CompareMonths(txns, refNow)
	if got.CurrentMonth.Month != "June 2025" || got.PreviousMonth.Month != "May 2025" {
		t.Fatalf("unexpected labels: %+v", got)
	}
	if !approx(got.CurrentMonth.Amount, 80) || got.CurrentMonth.TransactionCount != 2 {
		t.Fatalf("unexpected current month: %+v", got.CurrentMonth)
	}
	if !approx(got.PreviousMonth.Amount, 50) || got.PreviousMonth.TransactionCount != 2 {
		t.Fatalf("unexpected previous month: %+v", got.PreviousMonth)
	}
	if !approx(got.Change, 30) || !approx(got.ChangePercentage, 60) {
		t.Fatalf("unexpected change: %+v", got)
	}
}

func TestCompareMonthsZeroPrevious(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	got := CompareMonths([]core.Transaction{tx("a", "50", core.Other, core.NewDate(2025, 1, 2))}, now)
	if got.PreviousMonth.Month != "December 2024" {
		t.Fatalf("previous month label = %q", got.PreviousMonth.Month)
	}
	if got.ChangePercentage != 100 || math.IsInf(got.ChangePercentage, 0) {
		t.Fatalf("expected exactly 100, got %v", got.ChangePercentage)
	}

	none := CompareMonths([]core.Transaction{tx("old", "50", core.Other, core.NewDate(2020, 1, 2))}, now)
	if none.ChangePercentage != 0 || none.Change != 0 {
		t.Fatalf("expected zero change, got %+v", none)
	}
}

func TestCalculateUsesReferenceLocation(t *testing.T) {
	// 23:30 on June 30 in UTC-5 is already July 1 in UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 6, 30, 23, 30, 0, 0, loc)
	txns := []core.Transaction{tx("a", "10", core.Other, core.NewDate(2025, 6, 30))}

	got := Calculate(txns, now)
	if got.MonthlyComparison.CurrentMonth.Month != "June 2025" || got.MonthlyComparison.CurrentMonth.TransactionCount != 1 {
		t.Fatalf("expected the June 30 transaction in the current month: %+v", got.MonthlyComparison)
	}
}

package analytics

import (
	"fmt"
	"math"
	"strings"
)

const (
	monthlySwingThreshold   = 20
	heavyCategoryThreshold  = 30
	largeTransactionAverage = 100
)

// Insights turns an analytics result into plain-text observations. Each
// rule is evaluated independently, in a fixed order, and contributes at
// most one message.
func Insights(data Data) []string {
	out := []string{}

	change := data.MonthlyComparison.ChangePercentage
	if change > monthlySwingThreshold {
		out = append(out, fmt.Sprintf("Your spending increased by %s%% this month", whole(change)))
	} else if change < -monthlySwingThreshold {
		out = append(out, fmt.Sprintf("Great job! You reduced spending by %s%% this month", whole(math.Abs(change))))
	}

	if data.TopCategory != "" {
		if top, ok := findInsight(data); ok {
			out = append(out, fmt.Sprintf("%s is your biggest expense category at %s%% of total spending",
				data.TopCategory, whole(top.Percentage)))
		}
	}

	for _, c := range data.CategoryInsights {
		if c.Percentage > heavyCategoryThreshold {
			out = append(out, fmt.Sprintf("Consider reviewing your %s expenses - they make up over %d%% of your spending",
				strings.ToLower(string(c.Category)), heavyCategoryThreshold))
			break
		}
	}

	if data.AverageTransaction > largeTransactionAverage {
		out = append(out, fmt.Sprintf("Your average transaction is $%s - consider tracking smaller purchases too",
			whole(data.AverageTransaction)))
	}

	return out
}

func findInsight(data Data) (CategoryInsight, bool) {
	for _, c := range data.CategoryInsights {
		if c.Category == data.TopCategory {
			return c, true
		}
	}
	return CategoryInsight{}, false
}

// whole rounds half away from zero and drops the fraction.
func whole(v float64) string {
	return fmt.Sprintf("%.0f", math.Round(v))
}

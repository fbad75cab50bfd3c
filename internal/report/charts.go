package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"spendwise/internal/analytics"
)

// ChartKind selects which series of analytics data a chart plots.
type ChartKind string

const (
	ChartWeekly     ChartKind = "weekly"
	ChartMonthly    ChartKind = "monthly"
	ChartCategories ChartKind = "categories"
)

var (
	ErrUnknownChart = errors.New("unknown chart kind")
	// ErrNoData is returned when there is nothing to plot.
	ErrNoData = errors.New("no data to chart")
)

// ChartKinds lists every chart in the order the report writes them.
func ChartKinds() []ChartKind {
	return []ChartKind{ChartWeekly, ChartMonthly, ChartCategories}
}

// ParseChartKind validates a chart name.
func ParseChartKind(s string) (ChartKind, error) {
	switch k := ChartKind(s); k {
	case ChartWeekly, ChartMonthly, ChartCategories:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownChart, s)
	}
}

// Filename is the file name the report command writes kind to.
func (k ChartKind) Filename() string {
	return fmt.Sprintf("spending_%s.png", k)
}

func (k ChartKind) title() string {
	switch k {
	case ChartWeekly:
		return "Weekly spending"
	case ChartMonthly:
		return "Monthly spending"
	default:
		return "Spending by category"
	}
}

// Bars extracts the labelled values kind plots from data.
func Bars(kind ChartKind, data analytics.Data) ([]chart.Value, error) {
	var bars []chart.Value
	switch kind {
	case ChartWeekly:
		bars = trendBars(data.WeeklyTrends)
	case ChartMonthly:
		bars = trendBars(data.MonthlyTrends)
	case ChartCategories:
		for _, c := range data.CategoryInsights {
			bars = append(bars, chart.Value{Label: string(c.Category), Value: c.Amount})
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, string(kind))
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	return bars, nil
}

func trendBars(trends []analytics.SpendingTrend) []chart.Value {
	bars := make([]chart.Value, 0, len(trends))
	for _, t := range trends {
		bars = append(bars, chart.Value{Label: t.Period, Value: t.Amount})
	}
	return bars
}

// RenderChart draws kind as a PNG bar chart onto w.
func RenderChart(w io.Writer, kind ChartKind, data analytics.Data) error {
	bars, err := Bars(kind, data)
	if err != nil {
		return err
	}

	width := 800
	if len(bars) > 8 {
		width = 100 * len(bars)
	}

	barChart := chart.BarChart{
		Title: kind.title(),
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:    width,
		Height:   400,
		BarWidth: 50,
		Bars:     bars,
	}
	barChart.YAxis.ValueFormatter = func(v interface{}) string {
		if vf, ok := v.(float64); ok {
			return fmt.Sprintf("%.0f", vf)
		}
		return ""
	}

	// Bars grow from zero. Left to itself go-chart scales from the smallest
	// bar and rejects a flat series as a zero-height range.
	barChart.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: yMax(bars)}

	if err := barChart.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s chart: %w", kind, err)
	}
	return nil
}

// yMax is the top of the value axis: the tallest bar plus 10% headroom,
// never below 1.
func yMax(bars []chart.Value) float64 {
	var peak float64
	for _, b := range bars {
		if b.Value > peak {
			peak = b.Value
		}
	}
	return max(1, peak*1.1)
}

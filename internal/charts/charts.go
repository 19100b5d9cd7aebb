// Package charts renders the monthly summary as a PNG for the dashboard.
package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"fintrack/internal/core"
)

// RenderSummary draws income, expenses, planned and actual budget as a bar
// chart. Balance is omitted: go-chart bar values must be non-negative, and
// balance is derivable from the first two bars.
func RenderSummary(s core.MonthlySummary) ([]byte, error) {
	graph := chart.BarChart{
		Title:    fmt.Sprintf("%s %d", s.Window.Month.String(), s.Window.Year),
		Width:    800,
		Height:   400,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				f, ok := v.(float64)
				if !ok {
					return ""
				}
				return fmt.Sprintf("$%.0f", f)
			},
		},
		Bars: []chart.Value{
			{Label: "Income", Value: s.IncomeTotal.Dollars(), Style: chart.Style{FillColor: chart.ColorGreen, StrokeColor: chart.ColorGreen}},
			{Label: "Expenses", Value: s.ExpenseTotal.Dollars(), Style: chart.Style{FillColor: chart.ColorRed, StrokeColor: chart.ColorRed}},
			{Label: "Planned", Value: s.PlannedBudget.Dollars(), Style: chart.Style{FillColor: chart.ColorBlue, StrokeColor: chart.ColorBlue}},
			{Label: "Actual", Value: s.ActualBudget.Dollars(), Style: chart.Style{FillColor: chart.ColorOrange, StrokeColor: chart.ColorOrange}},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render summary chart: %w", err)
	}
	return buf.Bytes(), nil
}

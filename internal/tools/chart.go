package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

var chartColors = []string{
	"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0",
	"#9966FF", "#FF9F40", "#FF6384", "#C9CBCF",
}

// Chart generates chart-ready data sets from portfolio and expense figures.
// It produces data only; rendering is a front-end concern.
type Chart struct{}

// NewChart creates the chart data tool.
func NewChart() *Chart {
	return &Chart{}
}

// Name implements tools.Tool.
func (c *Chart) Name() string {
	return "ChartTools"
}

// Description implements tools.Tool.
func (c *Chart) Description() string {
	return `Chart data generator. Input is a JSON object with a "chart" field:
"portfolio_allocation" (percentage_allocation: {category: percent}) produces pie chart data,
"expense_trend" (expenses: [{date, amount}]) produces monthly line chart data.
Returns a JSON chart description with labels and data series.`
}

type chartRequest struct {
	Chart                string             `json:"chart"`
	PercentageAllocation map[string]float64 `json:"percentage_allocation"`
	Expenses             []expenseEntry     `json:"expenses"`
}

type expenseEntry struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// Call implements tools.Tool.
func (c *Chart) Call(_ context.Context, input string) (string, error) {
	var req chartRequest
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		return "", fmt.Errorf("invalid chart input: %w", err)
	}

	var result map[string]interface{}
	switch req.Chart {
	case "portfolio_allocation":
		result = c.portfolioAllocation(req.PercentageAllocation)
	case "expense_trend":
		result = c.expenseTrend(req.Expenses)
	default:
		return "", fmt.Errorf("unknown chart type %q", req.Chart)
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encoding chart data: %w", err)
	}
	return string(out), nil
}

func (c *Chart) portfolioAllocation(allocation map[string]float64) map[string]interface{} {
	labels := make([]string, 0, len(allocation))
	for category := range allocation {
		labels = append(labels, category)
	}
	sort.Strings(labels)

	data := make([]float64, 0, len(labels))
	for _, label := range labels {
		data = append(data, allocation[label])
	}

	return map[string]interface{}{
		"type":   "pie",
		"labels": labels,
		"data":   data,
		"colors": chartColors[:min(len(labels), len(chartColors))],
	}
}

func (c *Chart) expenseTrend(expenses []expenseEntry) map[string]interface{} {
	monthly := make(map[string]float64)
	for _, expense := range expenses {
		if len(expense.Date) < 7 {
			continue
		}
		monthly[expense.Date[:7]] += expense.Amount // YYYY-MM
	}

	months := make([]string, 0, len(monthly))
	for month := range monthly {
		months = append(months, month)
	}
	sort.Strings(months)

	data := make([]float64, 0, len(months))
	for _, month := range months {
		data = append(data, monthly[month])
	}

	return map[string]interface{}{
		"type":   "line",
		"labels": months,
		"data":   data,
		"title":  "Monthly Expenses",
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Package tools provides the concrete capability implementations behind the
// tool catalog. Every tool satisfies the langchaingo tools.Tool interface:
// it takes a JSON request string and returns a JSON response string.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
)

// Calculator performs financial calculations: compound interest, portfolio
// analysis and retirement planning.
type Calculator struct{}

// NewCalculator creates the financial calculator tool.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Name implements tools.Tool.
func (c *Calculator) Name() string {
	return "CalculatorTools"
}

// Description implements tools.Tool.
func (c *Calculator) Description() string {
	return `Financial calculator. Input is a JSON object with an "operation" field:
"compound_interest" (principal, rate, time, frequency),
"portfolio_analysis" (investments: [{value, invested, category}]),
"retirement_planning" (current_age, retirement_age, current_savings, monthly_contribution, expected_return).
Returns a JSON object with the calculation results.`
}

type calculatorRequest struct {
	Operation string `json:"operation"`

	// compound_interest
	Principal float64 `json:"principal"`
	Rate      float64 `json:"rate"`
	Time      float64 `json:"time"`
	Frequency int     `json:"frequency"`

	// portfolio_analysis
	Investments []investment `json:"investments"`

	// retirement_planning
	CurrentAge          int     `json:"current_age"`
	RetirementAge       int     `json:"retirement_age"`
	CurrentSavings      float64 `json:"current_savings"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	ExpectedReturn      float64 `json:"expected_return"`
}

type investment struct {
	Value    float64 `json:"value"`
	Invested float64 `json:"invested"`
	Category string  `json:"category"`
}

// Call implements tools.Tool.
func (c *Calculator) Call(_ context.Context, input string) (string, error) {
	var req calculatorRequest
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		return "", fmt.Errorf("invalid calculator input: %w", err)
	}

	var result interface{}
	switch req.Operation {
	case "compound_interest":
		result = c.compoundInterest(req)
	case "portfolio_analysis":
		var err error
		result, err = c.portfolioAnalysis(req.Investments)
		if err != nil {
			return "", err
		}
	case "retirement_planning":
		result = c.retirementPlanning(req)
	default:
		return "", fmt.Errorf("unknown calculator operation %q", req.Operation)
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encoding calculator result: %w", err)
	}
	return string(out), nil
}

func (c *Calculator) compoundInterest(req calculatorRequest) map[string]float64 {
	frequency := req.Frequency
	if frequency <= 0 {
		frequency = 12
	}
	rate := req.Rate / 100
	amount := req.Principal * math.Pow(1+rate/float64(frequency), float64(frequency)*req.Time)
	earned := amount - req.Principal

	totalReturn := 0.0
	if req.Principal != 0 {
		totalReturn = earned / req.Principal * 100
	}
	return map[string]float64{
		"principal":       req.Principal,
		"final_amount":    amount,
		"interest_earned": earned,
		"total_return":    totalReturn,
	}
}

func (c *Calculator) portfolioAnalysis(investments []investment) (map[string]interface{}, error) {
	var totalValue, totalInvested float64
	for _, inv := range investments {
		totalValue += inv.Value
		totalInvested += inv.Invested
	}
	if totalInvested == 0 {
		return nil, fmt.Errorf("portfolio analysis requires at least one investment with a non-zero invested amount")
	}

	totalReturn := totalValue - totalInvested
	allocation := make(map[string]float64)
	for _, inv := range investments {
		category := inv.Category
		if category == "" {
			category = "other"
		}
		allocation[category] += inv.Value
	}
	percentageAllocation := make(map[string]float64, len(allocation))
	if totalValue != 0 {
		for category, value := range allocation {
			percentageAllocation[category] = value / totalValue * 100
		}
	}

	return map[string]interface{}{
		"total_value":             totalValue,
		"total_invested":          totalInvested,
		"total_return":            totalReturn,
		"total_return_percentage": totalReturn / totalInvested * 100,
		"allocation":              allocation,
		"percentage_allocation":   percentageAllocation,
	}, nil
}

func (c *Calculator) retirementPlanning(req calculatorRequest) map[string]float64 {
	years := req.RetirementAge - req.CurrentAge
	months := years * 12
	monthlyRate := req.ExpectedReturn / 100 / 12

	futureValue := req.CurrentSavings * math.Pow(1+req.ExpectedReturn/100, float64(years))
	if monthlyRate > 0 {
		futureValue += req.MonthlyContribution *
			(math.Pow(1+monthlyRate, float64(months)) - 1) / monthlyRate
	}

	contributions := req.MonthlyContribution * float64(months)
	return map[string]float64{
		"years_to_retirement": float64(years),
		"future_value":        futureValue,
		"total_contributions": contributions,
		"interest_earned":     futureValue - req.CurrentSavings - contributions,
	}
}

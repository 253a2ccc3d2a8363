package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatorCompoundInterest(t *testing.T) {
	calc := NewCalculator()

	out, err := calc.Call(context.Background(),
		`{"operation":"compound_interest","principal":1000,"rate":12,"time":1}`)
	require.NoError(t, err)

	var result map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1000.0, result["principal"])
	// 12% yearly, monthly compounding: ~12.68% effective.
	assert.InDelta(t, 1126.83, result["final_amount"], 0.01)
	assert.InDelta(t, 12.68, result["total_return"], 0.01)
}

func TestCalculatorPortfolioAnalysis(t *testing.T) {
	calc := NewCalculator()

	out, err := calc.Call(context.Background(), `{
		"operation": "portfolio_analysis",
		"investments": [
			{"value": 6000, "invested": 5000, "category": "stocks"},
			{"value": 4000, "invested": 4000, "category": "bonds"}
		]
	}`)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 10000.0, result["total_value"])
	assert.Equal(t, 9000.0, result["total_invested"])
	assert.InDelta(t, 11.11, result["total_return_percentage"].(float64), 0.01)

	allocation := result["percentage_allocation"].(map[string]interface{})
	assert.InDelta(t, 60.0, allocation["stocks"].(float64), 0.001)
}

func TestCalculatorRejectsEmptyPortfolio(t *testing.T) {
	calc := NewCalculator()

	_, err := calc.Call(context.Background(), `{"operation":"portfolio_analysis","investments":[]}`)
	assert.Error(t, err)
}

func TestCalculatorUnknownOperation(t *testing.T) {
	calc := NewCalculator()

	_, err := calc.Call(context.Background(), `{"operation":"divide_by_zero"}`)
	assert.Error(t, err)
}

func TestChartPortfolioAllocation(t *testing.T) {
	chart := NewChart()

	out, err := chart.Call(context.Background(),
		`{"chart":"portfolio_allocation","percentage_allocation":{"stocks":60,"bonds":40}}`)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "pie", result["type"])
	assert.Equal(t, []interface{}{"bonds", "stocks"}, result["labels"])
	assert.Equal(t, []interface{}{40.0, 60.0}, result["data"])
}

func TestChartExpenseTrendGroupsByMonth(t *testing.T) {
	chart := NewChart()

	out, err := chart.Call(context.Background(), `{
		"chart": "expense_trend",
		"expenses": [
			{"date": "2026-01-03", "amount": 100},
			{"date": "2026-01-21", "amount": 50},
			{"date": "2026-02-10", "amount": 70}
		]
	}`)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []interface{}{"2026-01", "2026-02"}, result["labels"])
	assert.Equal(t, []interface{}{150.0, 70.0}, result["data"])
}

func TestYFinanceQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/PETR4.SA", r.URL.Path)
		w.Write([]byte(`{"chart":{"result":[{"meta":{
			"symbol":"PETR4.SA","currency":"BRL","exchangeName":"SAO",
			"regularMarketPrice":38.5,"previousClose":38.1}}]}}`))
	}))
	defer server.Close()

	yf := NewYFinanceWithBase(server.URL+"/", server.Client())
	out, err := yf.Call(context.Background(), "PETR4.SA")
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "PETR4.SA", result["symbol"])
	assert.Equal(t, 38.5, result["price"])
	assert.Equal(t, "BRL", result["currency"])
}

func TestYFinanceRequiresSymbol(t *testing.T) {
	yf := NewYFinance()
	_, err := yf.Call(context.Background(), "  ")
	assert.Error(t, err)
}

func TestReasoningRecordAndReview(t *testing.T) {
	r := NewReasoning()

	_, err := r.Call(context.Background(), `{"action":"think","content":"assess risk profile"}`)
	require.NoError(t, err)
	_, err = r.Call(context.Background(), `{"action":"analyze","content":"compare FII yields"}`)
	require.NoError(t, err)

	out, err := r.Call(context.Background(), `{"action":"review"}`)
	require.NoError(t, err)

	var steps []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &steps))
	require.Len(t, steps, 2)
	assert.Equal(t, "think", steps[0]["kind"])
	assert.Equal(t, "analyze", steps[1]["kind"])
}

type staticSearcher struct{ results []string }

func (s staticSearcher) Search(context.Context, string, int) ([]string, error) {
	return s.results, nil
}

func TestKnowledgeSearch(t *testing.T) {
	k := NewKnowledge()

	_, err := k.Call(context.Background(), "fii yields")
	assert.Error(t, err, "unbound tool must refuse queries")

	k.Bind(staticSearcher{results: []string{"FIIs pay monthly dividends"}})
	out, err := k.Call(context.Background(), "fii yields")
	require.NoError(t, err)

	var results []string
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Equal(t, []string{"FIIs pay monthly dividends"}, results)
}

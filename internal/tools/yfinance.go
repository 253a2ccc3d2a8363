package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// YFinance looks up market data for a ticker symbol through the Yahoo
// Finance chart endpoint.
type YFinance struct {
	client *http.Client
	base   string
}

// NewYFinance creates the market data tool.
func NewYFinance() *YFinance {
	return &YFinance{
		client: &http.Client{Timeout: 15 * time.Second},
		base:   yahooChartURL,
	}
}

// NewYFinanceWithBase creates the tool against an alternate endpoint.
// Used by tests to point at a local server.
func NewYFinanceWithBase(base string, client *http.Client) *YFinance {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &YFinance{client: client, base: base}
}

// Name implements tools.Tool.
func (y *YFinance) Name() string {
	return "YFinanceTools"
}

// Description implements tools.Tool.
func (y *YFinance) Description() string {
	return "Stock market data lookup. Input is a ticker symbol (for example PETR4.SA or AAPL). " +
		"Returns a JSON object with the current price, currency and exchange."
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				ExchangeName       string  `json:"exchangeName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// Call implements tools.Tool.
func (y *YFinance) Call(ctx context.Context, input string) (string, error) {
	symbol := strings.TrimSpace(input)
	if symbol == "" {
		return "", fmt.Errorf("ticker symbol is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.base+symbol, nil)
	if err != nil {
		return "", fmt.Errorf("building market data request: %w", err)
	}
	req.Header.Set("User-Agent", "agentforge/1.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching market data for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("market data request for %s returned status %d", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading market data response: %w", err)
	}

	var parsed yahooChartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding market data response: %w", err)
	}
	if len(parsed.Chart.Result) == 0 {
		return "", fmt.Errorf("no market data found for %s", symbol)
	}

	meta := parsed.Chart.Result[0].Meta
	out, err := json.Marshal(map[string]interface{}{
		"symbol":         meta.Symbol,
		"price":          meta.RegularMarketPrice,
		"previous_close": meta.PreviousClose,
		"currency":       meta.Currency,
		"exchange":       meta.ExchangeName,
	})
	if err != nil {
		return "", fmt.Errorf("encoding market data: %w", err)
	}
	return string(out), nil
}

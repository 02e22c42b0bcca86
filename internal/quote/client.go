// internal/quote/client.go
package quote

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"papertrade/internal/config"
	"papertrade/internal/domain"
	"papertrade/internal/util"
)

// Provider supplies the current market quote for a symbol.
// An unknown symbol is util.ErrInvalidSymbol, never a zero price.
type Provider interface {
	Lookup(ctx context.Context, symbol string) (*domain.Quote, error)
}

// Client fetches quotes from the market-data HTTP API.
type Client struct {
	client *resty.Client
	token  string
}

var _ Provider = (*Client)(nil)

// quoteResponse mirrors the provider's quote payload.
type quoteResponse struct {
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"companyName"`
	LatestPrice decimal.Decimal `json:"latestPrice"`
}

// NewClient creates a market-data API client.
func NewClient(cfg config.Quote) *Client {
	client := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(cfg.Timeout)
	return &Client{client: client, token: cfg.Token}
}

// Lookup fetches the current quote for symbol. Symbols are case-insensitive;
// the provider's canonical upper-case form is returned.
func (c *Client) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, util.ErrInvalidSymbol
	}

	result := &quoteResponse{}
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("token", c.token).
		SetResult(result).
		Get(fmt.Sprintf("/stock/%s/quote", symbol))
	if err != nil {
		slog.Error("quote lookup request failed", "symbol", symbol, "error", err)
		return nil, fmt.Errorf("quote lookup for %s failed: %w", symbol, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, util.ErrInvalidSymbol
	}
	if resp.IsError() {
		slog.Error("quote lookup returned error status", "symbol", symbol, "status", resp.StatusCode())
		return nil, fmt.Errorf("quote lookup for %s returned status %d", symbol, resp.StatusCode())
	}
	if result.Symbol == "" {
		return nil, util.ErrInvalidSymbol
	}

	return &domain.Quote{
		Symbol: result.Symbol,
		Name:   result.CompanyName,
		Price:  result.LatestPrice,
	}, nil
}

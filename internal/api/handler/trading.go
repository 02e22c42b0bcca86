// internal/api/handler/trading.go
package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"papertrade/internal/service"
	"papertrade/internal/util"
)

// TradingHandler handles HTTP requests for quotes, trades, portfolio, and history.
type TradingHandler struct {
	service service.TradingService
	logger  *slog.Logger
}

// NewTradingHandler creates a new TradingHandler.
func NewTradingHandler(svc service.TradingService, logger *slog.Logger) *TradingHandler {
	return &TradingHandler{
		service: svc,
		logger:  logger,
	}
}

// parseShares validates the form's share count as a positive whole number.
func parseShares(raw string) (int64, error) {
	shares, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || shares <= 0 {
		return 0, fmt.Errorf("%w: shares must be a positive whole number", util.ErrInvalidInput)
	}
	return shares, nil
}

// Quote returns the current market quote for a symbol.
// POST /quote with form field symbol.
func (h *TradingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	quote, err := h.service.Quote(r.Context(), r.PostFormValue("symbol"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"symbol":        quote.Symbol,
		"name":          quote.Name,
		"price":         quote.Price,
		"price_display": util.USD(quote.Price),
	})
}

// Buy purchases shares at the current market price.
// POST /buy with form fields symbol, shares.
func (h *TradingHandler) Buy(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	shares, err := parseShares(r.PostFormValue("shares"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	transaction, user, err := h.service.Buy(r.Context(), userID, r.PostFormValue("symbol"), shares)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":        "Bought!",
		"transaction_id": transaction.ID,
		"symbol":         transaction.Symbol,
		"shares":         transaction.Quantity,
		"price":          transaction.Price,
		"price_display":  util.USD(transaction.Price),
		"total":          transaction.Total,
		"total_display":  util.USD(transaction.Total),
		"cash":           user.Cash,
		"cash_display":   util.USD(user.Cash),
	})
}

// Sell disposes of shares at the current market price.
// POST /sell with form fields symbol, shares.
func (h *TradingHandler) Sell(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	shares, err := parseShares(r.PostFormValue("shares"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	transaction, user, err := h.service.Sell(r.Context(), userID, r.PostFormValue("symbol"), shares)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":        "Sold!",
		"transaction_id": transaction.ID,
		"symbol":         transaction.Symbol,
		"shares":         transaction.Quantity,
		"price":          transaction.Price,
		"price_display":  util.USD(transaction.Price),
		"total":          transaction.Total,
		"total_display":  util.USD(transaction.Total),
		"cash":           user.Cash,
		"cash_display":   util.USD(user.Cash),
	})
}

// positionView is one portfolio row with display formatting applied.
type positionView struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Shares       int64           `json:"shares"`
	Price        decimal.Decimal `json:"price"`
	PriceDisplay string          `json:"price_display"`
	Value        decimal.Decimal `json:"value"`
	ValueDisplay string          `json:"value_display"`
}

// Portfolio returns current holdings valued at market prices plus cash.
// GET /portfolio
func (h *TradingHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	portfolio, err := h.service.Portfolio(r.Context(), userID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	positions := make([]positionView, 0, len(portfolio.Positions))
	for _, p := range portfolio.Positions {
		positions = append(positions, positionView{
			Symbol:       p.Symbol,
			Name:         p.Name,
			Shares:       p.Shares,
			Price:        p.Price,
			PriceDisplay: util.USD(p.Price),
			Value:        p.Value,
			ValueDisplay: util.USD(p.Value),
		})
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"positions":           positions,
		"cash":                portfolio.Cash,
		"cash_display":        util.USD(portfolio.Cash),
		"holdings_value":      portfolio.HoldingsValue,
		"grand_total":         portfolio.GrandTotal,
		"grand_total_display": util.USD(portfolio.GrandTotal),
	})
}

// historyEntry is one ledger row with display formatting applied.
type historyEntry struct {
	Symbol       string          `json:"symbol"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	PriceDisplay string          `json:"price_display"`
	ExecutedAt   time.Time       `json:"executed_at"`
}

// History returns the user's full transaction log.
// GET /history
func (h *TradingHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	transactions, err := h.service.History(r.Context(), userID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	entries := make([]historyEntry, 0, len(transactions))
	for _, t := range transactions {
		entries = append(entries, historyEntry{
			Symbol:       t.Symbol,
			Quantity:     t.Quantity,
			Price:        t.Price,
			PriceDisplay: util.USD(t.Price),
			ExecutedAt:   t.ExecutedAt,
		})
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{"data": entries})
}

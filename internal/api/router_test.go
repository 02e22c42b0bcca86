// internal/api/router_test.go
package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"papertrade/internal/api"
	"papertrade/internal/api/handler"
	"papertrade/internal/domain"
	"papertrade/internal/util"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password, confirmation string) (*domain.User, string, error) {
	args := m.Called(ctx, username, password, confirmation)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

// MockTradingService is a mock implementation of service.TradingService.
type MockTradingService struct {
	mock.Mock
}

func (m *MockTradingService) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *MockTradingService) Buy(ctx context.Context, userID int64, symbol string, shares int64) (*domain.Transaction, *domain.User, error) {
	args := m.Called(ctx, userID, symbol, shares)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Transaction), args.Get(1).(*domain.User), args.Error(2)
}

func (m *MockTradingService) Sell(ctx context.Context, userID int64, symbol string, shares int64) (*domain.Transaction, *domain.User, error) {
	args := m.Called(ctx, userID, symbol, shares)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Transaction), args.Get(1).(*domain.User), args.Error(2)
}

func (m *MockTradingService) Portfolio(ctx context.Context, userID int64) (*domain.Portfolio, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Portfolio), args.Error(1)
}

func (m *MockTradingService) History(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// apiFixture wires a router over mocked services behind a test server.
type apiFixture struct {
	auth    *MockAuthService
	trading *MockTradingService
	server  *httptest.Server
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	auth := new(MockAuthService)
	trading := new(MockTradingService)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := api.NewRouter(
		handler.NewAuthHandler(auth, logger),
		handler.NewTradingHandler(trading, logger),
		auth,
		logger,
	)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &apiFixture{auth: auth, trading: trading, server: server}
}

func (f *apiFixture) postForm(t *testing.T, path string, form url.Values, sessionToken string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, f.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: handler.SessionCookie, Value: sessionToken})
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (f *apiFixture) get(t *testing.T, path, sessionToken string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, f.server.URL+path, nil)
	require.NoError(t, err)
	if sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: handler.SessionCookie, Value: sessionToken})
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	body := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("SuccessfulRegistration", func(t *testing.T) {
		f := newAPIFixture(t)

		user := &domain.User{ID: 1, Username: "trader", Cash: decimal.NewFromInt(10000)}
		f.auth.On("Register", mock.Anything, "trader", "secret", "secret").
			Return(user, "token-abc", nil).Once()

		resp := f.postForm(t, "/register", url.Values{
			"username":     {"trader"},
			"password":     {"secret"},
			"confirmation": {"secret"},
		}, "")

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var sessionCookie *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == handler.SessionCookie {
				sessionCookie = c
			}
		}
		require.NotNil(t, sessionCookie, "registration opens a session")
		assert.Equal(t, "token-abc", sessionCookie.Value)

		body := decodeBody(t, resp)
		assert.Equal(t, "Successfully registered!", body["message"])
		assert.Equal(t, "$10,000.00", body["cash_display"])
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		f := newAPIFixture(t)

		f.auth.On("Register", mock.Anything, "trader", "secret", "secret").
			Return(nil, "", util.ErrUsernameTaken).Once()

		resp := f.postForm(t, "/register", url.Values{
			"username":     {"trader"},
			"password":     {"secret"},
			"confirmation": {"secret"},
		}, "")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Contains(t, body["error"], "username")
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("SuccessfulLogin", func(t *testing.T) {
		f := newAPIFixture(t)

		user := &domain.User{ID: 7, Username: "trader"}
		f.auth.On("Login", mock.Anything, "trader", "secret").Return(user, "token-xyz", nil).Once()

		resp := f.postForm(t, "/login", url.Values{
			"username": {"trader"},
			"password": {"secret"},
		}, "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Logged in!", body["message"])
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		f := newAPIFixture(t)

		f.auth.On("Login", mock.Anything, "trader", "wrong").
			Return(nil, "", util.ErrInvalidCredentials).Once()

		resp := f.postForm(t, "/login", url.Values{
			"username": {"trader"},
			"password": {"wrong"},
		}, "")

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestLogoutEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	f.auth.On("Logout", mock.Anything, "token-abc").Return(nil).Once()

	resp := f.postForm(t, "/logout", url.Values{}, "token-abc")

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == handler.SessionCookie {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.Empty(t, sessionCookie.Value, "logout clears the session cookie")
	f.auth.AssertExpectations(t)
}

func TestSessionGate(t *testing.T) {
	t.Run("MissingCookie", func(t *testing.T) {
		f := newAPIFixture(t)

		for _, path := range []string{"/portfolio", "/history"} {
			resp := f.get(t, path, "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
			resp.Body.Close()
		}
		for _, path := range []string{"/quote", "/buy", "/sell"} {
			resp := f.postForm(t, path, url.Values{}, "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
			resp.Body.Close()
		}
		f.trading.AssertNotCalled(t, "Portfolio", mock.Anything, mock.Anything)
	})

	t.Run("ExpiredSession", func(t *testing.T) {
		f := newAPIFixture(t)

		f.auth.On("Authenticate", mock.Anything, "stale-token").
			Return(int64(0), util.ErrUnauthorized).Once()

		resp := f.get(t, "/portfolio", "stale-token")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestBuyEndpoint(t *testing.T) {
	t.Run("SuccessfulBuy", func(t *testing.T) {
		f := newAPIFixture(t)

		f.auth.On("Authenticate", mock.Anything, "token-abc").Return(int64(1), nil).Once()

		transaction := &domain.Transaction{
			ID:       42,
			UserID:   1,
			Symbol:   "AAPL",
			Company:  "Apple Inc",
			Quantity: 10,
			Price:    decimal.NewFromFloat(100.00),
			Total:    decimal.NewFromFloat(1000.00),
		}
		user := &domain.User{ID: 1, Username: "trader", Cash: decimal.NewFromInt(9000)}
		f.trading.On("Buy", mock.Anything, int64(1), "AAPL", int64(10)).
			Return(transaction, user, nil).Once()

		resp := f.postForm(t, "/buy", url.Values{
			"symbol": {"AAPL"},
			"shares": {"10"},
		}, "token-abc")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Bought!", body["message"])
		assert.Equal(t, "$1,000.00", body["total_display"])
		assert.Equal(t, "$9,000.00", body["cash_display"])
	})

	t.Run("FractionalShares", func(t *testing.T) {
		f := newAPIFixture(t)

		f.auth.On("Authenticate", mock.Anything, "token-abc").Return(int64(1), nil)

		for _, shares := range []string{"1.5", "abc", "-2", "0", ""} {
			resp := f.postForm(t, "/buy", url.Values{
				"symbol": {"AAPL"},
				"shares": {shares},
			}, "token-abc")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "shares=%q", shares)
			resp.Body.Close()
		}
		f.trading.AssertNotCalled(t, "Buy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		f := newAPIFixture(t)

		f.auth.On("Authenticate", mock.Anything, "token-abc").Return(int64(1), nil).Once()
		f.trading.On("Buy", mock.Anything, int64(1), "AAPL", int64(100)).
			Return(nil, nil, util.ErrInsufficientFunds).Once()

		resp := f.postForm(t, "/buy", url.Values{
			"symbol": {"AAPL"},
			"shares": {"100"},
		}, "token-abc")

		assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("InvalidSymbol", func(t *testing.T) {
		f := newAPIFixture(t)

		f.auth.On("Authenticate", mock.Anything, "token-abc").Return(int64(1), nil).Once()
		f.trading.On("Buy", mock.Anything, int64(1), "NOSUCH", int64(1)).
			Return(nil, nil, util.ErrInvalidSymbol).Once()

		resp := f.postForm(t, "/buy", url.Values{
			"symbol": {"NOSUCH"},
			"shares": {"1"},
		}, "token-abc")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestSellEndpoint(t *testing.T) {
	t.Run("SuccessfulSell", func(t *testing.T) {
		f := newAPIFixture(t)

		f.auth.On("Authenticate", mock.Anything, "token-abc").Return(int64(1), nil).Once()

		transaction := &domain.Transaction{
			ID:       43,
			UserID:   1,
			Symbol:   "AAPL",
			Company:  "Apple Inc",
			Quantity: -4,
			Price:    decimal.NewFromFloat(120.00),
			Total:    decimal.NewFromFloat(480.00),
		}
		user := &domain.User{ID: 1, Username: "trader", Cash: decimal.NewFromFloat(9480.00)}
		f.trading.On("Sell", mock.Anything, int64(1), "AAPL", int64(4)).
			Return(transaction, user, nil).Once()

		resp := f.postForm(t, "/sell", url.Values{
			"symbol": {"AAPL"},
			"shares": {"4"},
		}, "token-abc")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Sold!", body["message"])
		assert.Equal(t, "$9,480.00", body["cash_display"])
	})

	t.Run("InsufficientShares", func(t *testing.T) {
		f := newAPIFixture(t)

		f.auth.On("Authenticate", mock.Anything, "token-abc").Return(int64(1), nil).Once()
		f.trading.On("Sell", mock.Anything, int64(1), "AAPL", int64(50)).
			Return(nil, nil, util.ErrInsufficientShares).Once()

		resp := f.postForm(t, "/sell", url.Values{
			"symbol": {"AAPL"},
			"shares": {"50"},
		}, "token-abc")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestQuoteEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	f.auth.On("Authenticate", mock.Anything, "token-abc").Return(int64(1), nil).Once()
	f.trading.On("Quote", mock.Anything, "AAPL").
		Return(&domain.Quote{Symbol: "AAPL", Name: "Apple Inc", Price: decimal.NewFromFloat(189.84)}, nil).Once()

	resp := f.postForm(t, "/quote", url.Values{"symbol": {"AAPL"}}, "token-abc")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "AAPL", body["symbol"])
	assert.Equal(t, "$189.84", body["price_display"])
}

func TestPortfolioEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	f.auth.On("Authenticate", mock.Anything, "token-abc").Return(int64(1), nil).Once()

	portfolio := &domain.Portfolio{
		Cash: decimal.NewFromFloat(9480.00),
		Positions: []domain.Position{
			{Symbol: "AAPL", Name: "Apple Inc", Shares: 6, Price: decimal.NewFromFloat(120.00), Value: decimal.NewFromFloat(720.00)},
		},
		HoldingsValue: decimal.NewFromFloat(720.00),
		GrandTotal:    decimal.NewFromFloat(10200.00),
	}
	f.trading.On("Portfolio", mock.Anything, int64(1)).Return(portfolio, nil).Once()

	resp := f.get(t, "/portfolio", "token-abc")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "$10,200.00", body["grand_total_display"])
	positions, ok := body["positions"].([]interface{})
	require.True(t, ok)
	require.Len(t, positions, 1)
}

func TestHistoryEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	f.auth.On("Authenticate", mock.Anything, "token-abc").Return(int64(1), nil).Once()

	ledger := []domain.Transaction{
		{ID: 1, UserID: 1, Symbol: "AAPL", Quantity: 10, Price: decimal.NewFromFloat(100.00)},
		{ID: 2, UserID: 1, Symbol: "AAPL", Quantity: -4, Price: decimal.NewFromFloat(120.00)},
	}
	f.trading.On("History", mock.Anything, int64(1)).Return(ledger, nil).Once()

	resp := f.get(t, "/history", "token-abc")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	entries, ok := body["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, entries, 2)
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.get(t, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtual-trader/internal/analysis"
	"virtual-trader/internal/ledger"
	"virtual-trader/internal/models"
	"virtual-trader/internal/pricing"
	"virtual-trader/internal/trading"
)

type testEnv struct {
	server *Server
	stocks *pricing.StaticSource
	crypto *pricing.StaticSource
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stocks := pricing.NewStaticSource(models.AssetStock)
	crypto := pricing.NewStaticSource(models.AssetCrypto)
	router := &pricing.Router{Stock: stocks, Crypto: crypto}

	manager := ledger.NewManager(router.Price, decimal.NewFromInt(100000), decimal.Zero)
	service := trading.NewService(trading.Config{
		Manager:  manager,
		Prices:   router,
		Analyzer: analysis.NewBasicAnalyzer(router),
		Logger:   zerolog.Nop(),
	})

	srv := NewServer(service, zerolog.Nop(), Config{
		Addr:        ":0",
		CORSOrigin:  "*",
		DefaultUser: "default",
	})
	return &testEnv{server: srv, stocks: stocks, crypto: crypto}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.server.R.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["ok"])
}

func TestTradeAndPortfolio(t *testing.T) {
	env := newTestEnv(t)
	env.stocks.SetPrice("AAPL", decimal.NewFromInt(100))

	w := env.do(t, http.MethodPost, "/api/investment/trade", map[string]any{
		"symbol":   "AAPL",
		"name":     "Apple Inc.",
		"type":     "stock",
		"action":   "buy",
		"quantity": 10,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	trade := body["trade"].(map[string]any)
	assert.Equal(t, "AAPL", trade["symbol"])
	assert.Equal(t, "buy", trade["action"])

	w = env.do(t, http.MethodGet, "/api/investment/portfolio", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	portfolio := decodeBody(t, w)["portfolio"].(map[string]any)
	account := portfolio["account"].(map[string]any)
	assert.InDelta(t, 99000, account["currentBalance"], 0.01)
	holdings := portfolio["holdings"].([]any)
	require.Len(t, holdings, 1)
	assert.InDelta(t, 10, holdings[0].(map[string]any)["quantity"], 0.0001)
}

func TestTradeValidation(t *testing.T) {
	env := newTestEnv(t)
	env.stocks.SetPrice("AAPL", decimal.NewFromInt(100))

	cases := []struct {
		name string
		body map[string]any
	}{
		{"bad symbol", map[string]any{"symbol": "bad symbol!", "type": "stock", "action": "buy", "quantity": 1}},
		{"bad type", map[string]any{"symbol": "AAPL", "type": "bond", "action": "buy", "quantity": 1}},
		{"bad action", map[string]any{"symbol": "AAPL", "type": "stock", "action": "short", "quantity": 1}},
		{"zero quantity", map[string]any{"symbol": "AAPL", "type": "stock", "action": "buy", "quantity": 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/investment/trade", tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			body := decodeBody(t, w)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestTradeRejections(t *testing.T) {
	env := newTestEnv(t)
	env.stocks.SetPrice("AAPL", decimal.NewFromInt(100))

	// Insufficient funds.
	w := env.do(t, http.MethodPost, "/api/investment/trade", map[string]any{
		"symbol": "AAPL", "type": "stock", "action": "buy", "quantity": 100000,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Selling something never bought.
	w = env.do(t, http.MethodPost, "/api/investment/trade", map[string]any{
		"symbol": "AAPL", "type": "stock", "action": "sell", "quantity": 1,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown symbol maps to 404.
	w = env.do(t, http.MethodPost, "/api/investment/trade", map[string]any{
		"symbol": "NOPE", "type": "stock", "action": "buy", "quantity": 1,
	}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReset(t *testing.T) {
	env := newTestEnv(t)
	env.stocks.SetPrice("AAPL", decimal.NewFromInt(100))

	env.do(t, http.MethodPost, "/api/investment/trade", map[string]any{
		"symbol": "AAPL", "type": "stock", "action": "buy", "quantity": 10,
	}, nil)

	w := env.do(t, http.MethodPost, "/api/investment/reset", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	account := body["account"].(map[string]any)
	assert.InDelta(t, 100000, account["currentBalance"], 0.01)
}

func TestAccountsAreIsolatedByUserHeader(t *testing.T) {
	env := newTestEnv(t)
	env.stocks.SetPrice("AAPL", decimal.NewFromInt(100))

	env.do(t, http.MethodPost, "/api/investment/trade", map[string]any{
		"symbol": "AAPL", "type": "stock", "action": "buy", "quantity": 10,
	}, map[string]string{"X-User-ID": "alice"})

	w := env.do(t, http.MethodGet, "/api/investment/portfolio", nil,
		map[string]string{"X-User-ID": "bob"})
	require.Equal(t, http.StatusOK, w.Code)
	portfolio := decodeBody(t, w)["portfolio"].(map[string]any)
	assert.Empty(t, portfolio["holdings"])

	w = env.do(t, http.MethodGet, "/api/investment/portfolio", nil,
		map[string]string{"X-User-ID": "alice"})
	portfolio = decodeBody(t, w)["portfolio"].(map[string]any)
	assert.Len(t, portfolio["holdings"].([]any), 1)
}

func TestHotStocks(t *testing.T) {
	env := newTestEnv(t)
	for _, sym := range pricing.PopularStocks {
		env.stocks.SetQuote(models.Quote{
			Symbol: sym, Name: sym, Type: models.AssetStock,
			Price: decimal.NewFromInt(100), ChangePercent: decimal.NewFromFloat(1.5), Volume: 1000,
		})
	}

	w := env.do(t, http.MethodGet, "/api/investment/hot-stocks?limit=5", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stocks := decodeBody(t, w)["stocks"].([]any)
	assert.Len(t, stocks, 5)
	assert.Contains(t, stocks[0].(map[string]any), "hotScore")
}

func TestHotStocksUpstreamDown(t *testing.T) {
	env := newTestEnv(t)
	// Nothing priced: every lookup fails with symbol-not-found.
	w := env.do(t, http.MethodGet, "/api/investment/hot-stocks", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyze(t *testing.T) {
	env := newTestEnv(t)
	env.crypto.SetQuote(models.Quote{
		Symbol: "BITCOIN", Name: "Bitcoin", Type: models.AssetCrypto,
		Price: decimal.NewFromInt(60000), ChangePercent: decimal.NewFromFloat(5), Volume: 1000,
	})

	w := env.do(t, http.MethodPost, "/api/investment/analyze", map[string]any{
		"symbol": "bitcoin", "type": "crypto",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decodeBody(t, w)["analysis"].(map[string]any)
	assert.Equal(t, "up", result["trend"])
	assert.Equal(t, "buy", result["recommendation"])
	assert.NotNil(t, result["buyTiming"])
}

func TestTradesEndpointWithoutJournal(t *testing.T) {
	env := newTestEnv(t)
	env.stocks.SetPrice("AAPL", decimal.NewFromInt(100))

	env.do(t, http.MethodPost, "/api/investment/trade", map[string]any{
		"symbol": "AAPL", "type": "stock", "action": "buy", "quantity": 1,
	}, nil)

	w := env.do(t, http.MethodGet, "/api/investment/trades", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	trades := decodeBody(t, w)["trades"].([]any)
	assert.Len(t, trades, 1)
}

func TestTradesRejectsBadDates(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/investment/trades?from=yesterday", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodOptions, "/api/investment/portfolio", nil,
		map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-User-ID")
}

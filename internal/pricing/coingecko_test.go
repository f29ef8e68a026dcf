package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"virtual-trader/internal/errors"
	"virtual-trader/internal/models"
)

func coinGeckoTestSource(handler http.HandlerFunc) (*CoinGeckoSource, *httptest.Server) {
	ts := httptest.NewServer(handler)
	src := NewCoinGeckoSource(5 * time.Second)
	src.baseURL = ts.URL + "/simple/price?ids=%s"
	return src, ts
}

func TestCoinGeckoQuote(t *testing.T) {
	body := `{"bitcoin": {"usd": 64250.5, "usd_market_cap": 1260000000000, "usd_24h_vol": 31000000000, "usd_24h_change": 2.4}}`
	src, ts := coinGeckoTestSource(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "ids=bitcoin") {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(body))
	})
	defer ts.Close()

	q, err := src.Quote(context.Background(), "Bitcoin")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Symbol != "BITCOIN" {
		t.Errorf("symbol = %s, want BITCOIN", q.Symbol)
	}
	if q.Type != models.AssetCrypto {
		t.Errorf("type = %s, want crypto", q.Type)
	}
	if !q.Price.Equal(decimal.NewFromFloat(64250.5)) {
		t.Errorf("price = %s, want 64250.5", q.Price)
	}
	if !q.ChangePercent.Equal(decimal.NewFromFloat(2.4)) {
		t.Errorf("change percent = %s, want 2.4", q.ChangePercent)
	}
}

func TestCoinGeckoQuoteUnknownCoin(t *testing.T) {
	src, ts := coinGeckoTestSource(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	})
	defer ts.Close()

	_, err := src.Quote(context.Background(), "not-a-coin")
	if !errors.Is(err, errors.ErrSymbolNotFound) {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestCoinGeckoQuoteRateLimited(t *testing.T) {
	src, ts := coinGeckoTestSource(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer ts.Close()

	_, err := src.Quote(context.Background(), "bitcoin")
	if !errors.Is(err, errors.ErrPriceUnavailable) {
		t.Fatalf("expected ErrPriceUnavailable, got %v", err)
	}
}

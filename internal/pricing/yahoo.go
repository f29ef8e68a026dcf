package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"virtual-trader/internal/errors"
	"virtual-trader/internal/models"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=1d"

// YahooSource fetches stock quotes from the Yahoo Finance v8 chart API.
type YahooSource struct {
	cli     *http.Client
	baseURL string
}

// NewYahooSource creates a Yahoo Finance stock quote source.
func NewYahooSource(timeout time.Duration) *YahooSource {
	return &YahooSource{
		cli:     &http.Client{Timeout: timeout},
		baseURL: yahooChartURL,
	}
}

// Name implements Source.
func (y *YahooSource) Name() string { return "yahoo" }

type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string  `json:"symbol"`
				LongName             string  `json:"longName"`
				ShortName            string  `json:"shortName"`
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				RegularMarketVolume  int64   `json:"regularMarketVolume"`
				RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
				RegularMarketOpen    float64 `json:"regularMarketOpen"`
				PreviousClose        float64 `json:"previousClose"`
				RegularMarketTime    int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// Quote implements Source.
func (y *YahooSource) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return models.Quote{}, errors.NewPriceError(symbol, y.Name(), errors.ErrSymbolNotFound)
	}

	url := fmt.Sprintf(y.baseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Quote{}, errors.NewPriceError(symbol, y.Name(), errors.Wrap(err, "building request"))
	}
	req.Header.Set("User-Agent", "virtual-trader/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := y.cli.Do(req)
	if err != nil {
		return models.Quote{}, errors.NewPriceError(symbol, y.Name(), errors.Wrap(errors.ErrPriceUnavailable, err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.Quote{}, errors.NewPriceError(symbol, y.Name(), errors.ErrSymbolNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return models.Quote{}, errors.NewPriceError(symbol, y.Name(),
			errors.Wrapf(errors.ErrPriceUnavailable, "http %d", resp.StatusCode))
	}

	var raw yahooChart
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return models.Quote{}, errors.NewPriceError(symbol, y.Name(), errors.Wrap(errors.ErrPriceUnavailable, err.Error()))
	}
	if len(raw.Chart.Result) == 0 {
		return models.Quote{}, errors.NewPriceError(symbol, y.Name(), errors.ErrSymbolNotFound)
	}

	r := raw.Chart.Result[0]
	meta := r.Meta

	price := meta.RegularMarketPrice
	// Fallback: last non-zero close when meta carries no live price.
	if price <= 0 && len(r.Timestamp) > 0 && len(r.Indicators.Quote) > 0 &&
		len(r.Indicators.Quote[0].Close) == len(r.Timestamp) {
		for i := len(r.Timestamp) - 1; i >= 0; i-- {
			if c := r.Indicators.Quote[0].Close[i]; c > 0 {
				price = c
				break
			}
		}
	}
	if price <= 0 {
		return models.Quote{}, errors.NewPriceError(symbol, y.Name(), errors.ErrSymbolNotFound)
	}

	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}
	if name == "" {
		name = symbol
	}

	previousClose := meta.PreviousClose
	if previousClose <= 0 {
		previousClose = price
	}
	dPrice := decimal.NewFromFloat(price)
	dPrev := decimal.NewFromFloat(previousClose)
	change := dPrice.Sub(dPrev)
	changePercent := decimal.Zero
	if !dPrev.IsZero() {
		changePercent = change.Div(dPrev).Mul(decimal.NewFromInt(100))
	}

	asOf := time.Now()
	if meta.RegularMarketTime > 0 {
		asOf = time.Unix(meta.RegularMarketTime, 0)
	}

	return models.Quote{
		Symbol:        symbol,
		Name:          name,
		Type:          models.AssetStock,
		Price:         dPrice,
		Change:        change,
		ChangePercent: changePercent,
		Volume:        meta.RegularMarketVolume,
		High:          orPrice(meta.RegularMarketDayHigh, dPrice),
		Low:           orPrice(meta.RegularMarketDayLow, dPrice),
		Open:          orPrice(meta.RegularMarketOpen, dPrice),
		PreviousClose: dPrev,
		Timestamp:     asOf,
	}, nil
}

func orPrice(v float64, fallback decimal.Decimal) decimal.Decimal {
	if v <= 0 {
		return fallback
	}
	return decimal.NewFromFloat(v)
}

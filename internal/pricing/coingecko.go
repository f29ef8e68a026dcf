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

const coinGeckoPriceURL = "https://api.coingecko.com/api/v3/simple/price" +
	"?ids=%s&vs_currencies=usd&include_24hr_change=true&include_24hr_vol=true&include_market_cap=true"

// CoinGeckoSource fetches crypto quotes from the CoinGecko simple-price API.
// Symbols are CoinGecko coin ids ("bitcoin", "ethereum", ...).
type CoinGeckoSource struct {
	cli     *http.Client
	baseURL string
}

// NewCoinGeckoSource creates a CoinGecko crypto quote source.
func NewCoinGeckoSource(timeout time.Duration) *CoinGeckoSource {
	return &CoinGeckoSource{
		cli:     &http.Client{Timeout: timeout},
		baseURL: coinGeckoPriceURL,
	}
}

// Name implements Source.
func (c *CoinGeckoSource) Name() string { return "coingecko" }

type coinGeckoEntry struct {
	USD          float64 `json:"usd"`
	USDMarketCap float64 `json:"usd_market_cap"`
	USD24hVol    float64 `json:"usd_24h_vol"`
	USD24hChange float64 `json:"usd_24h_change"`
}

// Quote implements Source.
func (c *CoinGeckoSource) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	id := strings.ToLower(strings.TrimSpace(symbol))
	if id == "" {
		return models.Quote{}, errors.NewPriceError(symbol, c.Name(), errors.ErrSymbolNotFound)
	}

	url := fmt.Sprintf(c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Quote{}, errors.NewPriceError(id, c.Name(), errors.Wrap(err, "building request"))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.cli.Do(req)
	if err != nil {
		return models.Quote{}, errors.NewPriceError(id, c.Name(), errors.Wrap(errors.ErrPriceUnavailable, err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Quote{}, errors.NewPriceError(id, c.Name(),
			errors.Wrapf(errors.ErrPriceUnavailable, "http %d", resp.StatusCode))
	}

	var raw map[string]coinGeckoEntry
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return models.Quote{}, errors.NewPriceError(id, c.Name(), errors.Wrap(errors.ErrPriceUnavailable, err.Error()))
	}

	// An unknown coin id comes back as an empty object, not an HTTP error.
	entry, ok := raw[id]
	if !ok || entry.USD <= 0 {
		return models.Quote{}, errors.NewPriceError(id, c.Name(), errors.ErrSymbolNotFound)
	}

	price := decimal.NewFromFloat(entry.USD)
	changePercent := decimal.NewFromFloat(entry.USD24hChange)
	change := price.Mul(changePercent).Div(decimal.NewFromInt(100))

	return models.Quote{
		Symbol:        strings.ToUpper(id),
		Name:          id,
		Type:          models.AssetCrypto,
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		Volume:        int64(entry.USD24hVol),
		High:          price,
		Low:           price,
		Open:          price,
		PreviousClose: price.Sub(change),
		Timestamp:     time.Now(),
	}, nil
}

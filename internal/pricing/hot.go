package pricing

import (
	"context"
	"math"
	"sort"
	"sync"

	"virtual-trader/internal/models"
)

// Default symbol universes for the hot rankings.
var (
	PopularStocks = []string{
		"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "NFLX",
		"AMD", "INTC", "BABA", "TSM", "V", "JPM", "WMT", "MA", "PG", "DIS",
	}
	PopularCryptos = []string{
		"bitcoin", "ethereum", "binancecoin", "solana", "cardano",
		"ripple", "polkadot", "dogecoin", "avalanche-2", "chainlink",
	}
)

// HotQuote is a quote ranked by market activity.
type HotQuote struct {
	models.Quote
	HotScore float64 `json:"hotScore"`
}

// HotScore ranks a quote by absolute price movement and traded volume.
func HotScore(q models.Quote) float64 {
	changePercent, _ := q.ChangePercent.Abs().Float64()
	volume := float64(q.Volume)
	if volume < 1 {
		volume = 1
	}
	return changePercent*0.7 + math.Log10(volume)*0.3
}

// HotList fetches quotes for every symbol concurrently and returns the top
// limit entries ranked by HotScore, highest first. Symbols whose lookup
// fails are skipped; only a fully empty result reports the first error.
func HotList(ctx context.Context, src Source, symbols []string, limit int) ([]HotQuote, error) {
	type result struct {
		quote models.Quote
		err   error
	}

	results := make([]result, len(symbols))
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			q, err := src.Quote(ctx, symbol)
			results[i] = result{quote: q, err: err}
		}(i, symbol)
	}
	wg.Wait()

	var firstErr error
	hot := make([]HotQuote, 0, len(symbols))
	for _, r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		hot = append(hot, HotQuote{Quote: r.quote, HotScore: HotScore(r.quote)})
	}
	if len(hot) == 0 && firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(hot, func(i, j int) bool { return hot[i].HotScore > hot[j].HotScore })

	if limit > 0 && len(hot) > limit {
		hot = hot[:limit]
	}
	return hot, nil
}

package pricing

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"virtual-trader/internal/errors"
	"virtual-trader/internal/models"
)

// StaticSource serves quotes from a fixed in-memory table. It backs the
// "static" provider setting for offline use and tests.
type StaticSource struct {
	assetType models.AssetType

	mu     sync.RWMutex
	quotes map[string]models.Quote
}

// NewStaticSource creates an empty static source for the given asset type.
func NewStaticSource(assetType models.AssetType) *StaticSource {
	return &StaticSource{
		assetType: assetType,
		quotes:    make(map[string]models.Quote),
	}
}

// Name implements Source.
func (s *StaticSource) Name() string { return "static" }

// SetPrice sets the price for a symbol, creating a minimal quote.
func (s *StaticSource) SetPrice(symbol string, price decimal.Decimal) {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotes[key]
	if !ok {
		q = models.Quote{
			Symbol: key,
			Name:   key,
			Type:   s.assetType,
		}
	}
	q.Price = price
	q.PreviousClose = price
	q.High = price
	q.Low = price
	q.Open = price
	q.Timestamp = time.Now()
	s.quotes[key] = q
}

// SetQuote sets the full quote for a symbol.
func (s *StaticSource) SetQuote(q models.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[strings.ToUpper(strings.TrimSpace(q.Symbol))] = q
}

// Remove deletes a symbol from the table.
func (s *StaticSource) Remove(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quotes, strings.ToUpper(strings.TrimSpace(symbol)))
}

// Quote implements Source.
func (s *StaticSource) Quote(_ context.Context, symbol string) (models.Quote, error) {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[key]
	if !ok {
		return models.Quote{}, errors.NewPriceError(key, s.Name(), errors.ErrSymbolNotFound)
	}
	return q, nil
}

// Package pricing provides market price sources for stocks and crypto.
package pricing

import (
	"context"

	"github.com/shopspring/decimal"

	"virtual-trader/internal/errors"
	"virtual-trader/internal/models"
)

// Source supplies current market data for a symbol.
//
// A failed lookup distinguishes an unknown symbol (errors.ErrSymbolNotFound)
// from a transient provider failure (errors.ErrPriceUnavailable); both are
// wrapped in an *errors.PriceError naming the provider.
type Source interface {
	// Quote returns the latest quote for symbol.
	Quote(ctx context.Context, symbol string) (models.Quote, error)
	// Name identifies the provider in logs and errors.
	Name() string
}

// Router dispatches quote lookups to the per-asset-type source.
type Router struct {
	Stock  Source
	Crypto Source
}

// Quote resolves a quote via the source for the given asset type.
func (r *Router) Quote(ctx context.Context, assetType models.AssetType, symbol string) (models.Quote, error) {
	switch assetType {
	case models.AssetStock:
		return r.Stock.Quote(ctx, symbol)
	case models.AssetCrypto:
		return r.Crypto.Quote(ctx, symbol)
	default:
		return models.Quote{}, errors.NewValidationError("type", string(assetType), "unknown asset type")
	}
}

// Price resolves just the execution price for the given asset type.
func (r *Router) Price(ctx context.Context, assetType models.AssetType, symbol string) (decimal.Decimal, error) {
	q, err := r.Quote(ctx, assetType, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Price, nil
}

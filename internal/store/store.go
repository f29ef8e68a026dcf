// Package store provides trade journal persistence.
package store

import (
	"context"
	"time"

	"virtual-trader/internal/models"
)

// TradeStore defines the interface for the trade journal.
//
// The journal is append-only per account: trades are logged as they
// execute and deleted only by a full account reset. ListTrades returns
// execution order (oldest first) so a journal can be replayed directly.
type TradeStore interface {
	LogTrade(ctx context.Context, trade *models.Trade) error
	ListTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error)
	DeleteTrades(ctx context.Context, accountID string) error
	AccountIDs(ctx context.Context) ([]string, error)
	Close() error
}

// TradeFilter represents filters for querying journaled trades.
type TradeFilter struct {
	AccountID string
	Symbol    string
	Action    models.TradeAction
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}

// Package trading orchestrates the ledger, trade journal, price feeds,
// and event stream behind a single service facade.
package trading

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"virtual-trader/internal/analysis"
	"virtual-trader/internal/ledger"
	"virtual-trader/internal/logging"
	"virtual-trader/internal/models"
	"virtual-trader/internal/pricing"
	"virtual-trader/internal/store"
	"virtual-trader/internal/stream"
	vterrors "virtual-trader/internal/errors"
)

// DefaultTradeLimit caps the trade history returned in snapshots.
const DefaultTradeLimit = 50

// TradeRequest describes a buy or sell order.
type TradeRequest struct {
	Symbol   string             `json:"symbol"`
	Name     string             `json:"name"`
	Type     models.AssetType   `json:"type"`
	Action   models.TradeAction `json:"action"`
	Quantity decimal.Decimal    `json:"quantity"`
}

// Service ties the account manager, journal, price router, event hub,
// and analyzer together. The in-memory ledger is the source of truth;
// the journal exists for restarts and export.
type Service struct {
	manager  *ledger.Manager
	journal  store.TradeStore
	prices   *pricing.Router
	hub      *stream.Hub
	analyzer analysis.Analyzer
	logger   zerolog.Logger
}

// Config holds the service dependencies.
type Config struct {
	Manager  *ledger.Manager
	Journal  store.TradeStore
	Prices   *pricing.Router
	Hub      *stream.Hub
	Analyzer analysis.Analyzer
	Logger   zerolog.Logger
}

// NewService creates the trading service.
func NewService(cfg Config) *Service {
	return &Service{
		manager:  cfg.Manager,
		journal:  cfg.Journal,
		prices:   cfg.Prices,
		hub:      cfg.Hub,
		analyzer: cfg.Analyzer,
		logger:   cfg.Logger,
	}
}

// Portfolio returns the user's portfolio with fresh prices.
func (s *Service) Portfolio(ctx context.Context, userID string) (models.Portfolio, error) {
	led := s.manager.GetOrCreate(userID)
	return led.Snapshot(ctx, DefaultTradeLimit), nil
}

// ExecuteTrade runs a buy or sell for the user, journals it, and
// publishes a trade event.
func (s *Service) ExecuteTrade(ctx context.Context, userID string, req TradeRequest) (models.Trade, error) {
	led := s.manager.GetOrCreate(userID)

	var trade models.Trade
	var err error
	switch req.Action {
	case models.ActionBuy:
		trade, err = led.Buy(ctx, req.Symbol, req.Name, req.Type, req.Quantity)
	case models.ActionSell:
		trade, err = led.Sell(ctx, req.Symbol, req.Type, req.Quantity)
	default:
		return models.Trade{}, vterrors.NewValidationError("action", string(req.Action), "must be 'buy' or 'sell'")
	}
	if err != nil {
		if vterrors.IsRejection(err) {
			logging.LogRejection(s.logger, led.AccountID(), req.Symbol, string(req.Action), err)
		}
		return models.Trade{}, err
	}
	logging.LogTrade(s.logger, trade.AccountID, trade.Symbol, string(trade.Action),
		trade.Quantity.String(), trade.Price.String())

	if s.journal != nil {
		if jerr := s.journal.LogTrade(ctx, &trade); jerr != nil {
			// The executed trade stands; a journal gap only affects replay.
			s.logger.Error().Err(jerr).
				Str("trade_id", trade.ID).
				Str("symbol", trade.Symbol).
				Msg("Failed to journal trade")
		}
	}

	if s.hub != nil {
		s.hub.Publish(stream.NewTradeEvent(trade.AccountID, trade))
	}
	return trade, nil
}

// Reset restores the user's account to its initial balance and clears
// holdings, trade history, and the journal.
func (s *Service) Reset(ctx context.Context, userID string) (models.Account, error) {
	led := s.manager.GetOrCreate(userID)
	account := led.Reset()

	if s.journal != nil {
		if err := s.journal.DeleteTrades(ctx, account.ID); err != nil {
			return models.Account{}, err
		}
	}

	if s.hub != nil {
		s.hub.Publish(stream.NewResetEvent(account.ID, account))
	}
	logging.LogReset(s.logger, account.ID, account.InitialBalance.StringFixed(2))
	return account, nil
}

// HotStocks returns popular stocks ranked by hot score.
func (s *Service) HotStocks(ctx context.Context, limit int) ([]pricing.HotQuote, error) {
	return pricing.HotList(ctx, s.prices.Stock, pricing.PopularStocks, limit)
}

// HotCryptos returns popular cryptocurrencies ranked by hot score.
func (s *Service) HotCryptos(ctx context.Context, limit int) ([]pricing.HotQuote, error) {
	return pricing.HotList(ctx, s.prices.Crypto, pricing.PopularCryptos, limit)
}

// Analyze produces an investment analysis for a symbol.
func (s *Service) Analyze(ctx context.Context, assetType models.AssetType, symbol string) (*analysis.Analysis, error) {
	return s.analyzer.Analyze(ctx, assetType, symbol)
}

// TradeHistory returns journaled trades for the user, newest first.
// A limit keeps the newest trades; the journal stores execution order,
// so the limit is applied after reversing.
func (s *Service) TradeHistory(ctx context.Context, userID string, filter store.TradeFilter) ([]models.Trade, error) {
	if s.journal == nil {
		led := s.manager.GetOrCreate(userID)
		return led.Trades(filter.Limit), nil
	}
	filter.AccountID = ledger.AccountIDFor(userID)
	limit := filter.Limit
	filter.Limit = 0
	trades, err := s.journal.ListTrades(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(trades)-1; i < j; i, j = i+1, j-1 {
		trades[i], trades[j] = trades[j], trades[i]
	}
	if limit > 0 && len(trades) > limit {
		trades = trades[:limit]
	}
	return trades, nil
}

// Subscribe registers a stream subscriber for the user's account. With
// no hub configured the returned channel is already closed.
func (s *Service) Subscribe(userID string) (string, <-chan stream.Event) {
	accountID := ledger.AccountIDFor(userID)
	if s.hub == nil {
		ch := make(chan stream.Event)
		close(ch)
		return accountID, ch
	}
	return accountID, s.hub.Subscribe(accountID)
}

// Unsubscribe removes a stream subscriber.
func (s *Service) Unsubscribe(accountID string, ch <-chan stream.Event) {
	if s.hub != nil {
		s.hub.Unsubscribe(accountID, ch)
	}
}

// Restore rebuilds ledgers from the journal, account by account.
// Accounts whose journal cannot be replayed are skipped with a log
// entry rather than failing startup.
func (s *Service) Restore(ctx context.Context) error {
	if s.journal == nil {
		return nil
	}

	accountIDs, err := s.journal.AccountIDs(ctx)
	if err != nil {
		return err
	}

	for _, accountID := range accountIDs {
		userID := strings.TrimPrefix(accountID, "account-")
		trades, err := s.journal.ListTrades(ctx, store.TradeFilter{AccountID: accountID})
		if err != nil {
			return err
		}

		alog := logging.WithAccount(s.logger, accountID)
		led := s.manager.GetOrCreate(userID)
		if err := led.Replay(trades); err != nil {
			alog.Error().Err(err).
				Int("trades", len(trades)).
				Msg("Failed to replay journal, starting account fresh")
			led.Reset()
			continue
		}
		alog.Info().
			Int("trades", len(trades)).
			Msg("Restored account from journal")
	}
	return nil
}

// Package ledger implements the virtual portfolio ledger: one cash account,
// its holdings, and an append-only trade history.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"virtual-trader/internal/errors"
	"virtual-trader/internal/models"
)

var hundred = decimal.NewFromInt(100)

// PriceFunc resolves the current market price for a symbol.
// *pricing.Router.Price satisfies it.
type PriceFunc func(ctx context.Context, assetType models.AssetType, symbol string) (decimal.Decimal, error)

// Ledger owns one account's state. All operations serialize on an internal
// mutex, so a rejected operation never leaves partial state behind and
// concurrent callers cannot interleave a buy and a sell.
type Ledger struct {
	mu       sync.Mutex
	account  models.Account
	holdings map[string]*models.Holding
	trades   []models.Trade

	feeRate decimal.Decimal
	prices  PriceFunc
	now     func() time.Time
}

// Config holds the parameters for a new ledger.
type Config struct {
	AccountID      string
	UserID         string
	InitialBalance decimal.Decimal
	FeeRate        decimal.Decimal
	Prices         PriceFunc
}

// New creates a ledger with the given starting balance.
func New(cfg Config) *Ledger {
	now := time.Now()
	return &Ledger{
		account: models.Account{
			ID:             cfg.AccountID,
			UserID:         cfg.UserID,
			InitialBalance: cfg.InitialBalance,
			CurrentBalance: cfg.InitialBalance,
			CreatedAt:      now,
			LastUpdated:    now,
		},
		holdings: make(map[string]*models.Holding),
		feeRate:  cfg.FeeRate,
		prices:   cfg.Prices,
		now:      time.Now,
	}
}

// AccountID returns the ledger's account id.
func (l *Ledger) AccountID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.account.ID
}

func holdingKey(symbol string, assetType models.AssetType) string {
	return symbol + ":" + string(assetType)
}

// Buy purchases quantity of symbol at the current market price.
//
// The price is resolved after local validation; any failure leaves the
// ledger untouched. On success the cash balance drops by amount plus fee,
// the holding's cost basis is re-weighted, and a buy trade is appended.
func (l *Ledger) Buy(ctx context.Context, symbol, name string, assetType models.AssetType, quantity decimal.Decimal) (models.Trade, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return models.Trade{}, errors.NewTradeError(symbol, "buy", errors.ErrInvalidQuantity,
			fmt.Sprintf("got %s", quantity))
	}
	if symbol == "" {
		return models.Trade{}, errors.NewTradeError(symbol, "buy", errors.ErrSymbolNotFound, "empty symbol")
	}
	if !assetType.Valid() {
		return models.Trade{}, errors.NewValidationError("type", string(assetType), "unknown asset type")
	}

	price, err := l.prices(ctx, assetType, symbol)
	if err != nil {
		return models.Trade{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	amount := quantity.Mul(price)
	fee := amount.Mul(l.feeRate)
	cost := amount.Add(fee)

	if cost.GreaterThan(l.account.CurrentBalance) {
		return models.Trade{}, errors.NewTradeError(symbol, "buy", errors.ErrInsufficientFunds,
			fmt.Sprintf("need $%s, have $%s", cost.StringFixed(2), l.account.CurrentBalance.StringFixed(2)))
	}

	now := l.now()
	key := holdingKey(symbol, assetType)
	if h, ok := l.holdings[key]; ok {
		// Re-weight the cost basis across the combined position.
		newTotalCost := h.TotalCost.Add(amount)
		newQuantity := h.Quantity.Add(quantity)
		h.AveragePrice = newTotalCost.Div(newQuantity)
		h.Quantity = newQuantity
		h.TotalCost = newTotalCost
		h.CurrentPrice = price
		h.LastUpdated = now
	} else {
		l.holdings[key] = &models.Holding{
			ID:           fmt.Sprintf("%s-%s-%s", l.account.ID, symbol, assetType),
			AccountID:    l.account.ID,
			Symbol:       symbol,
			Name:         name,
			Type:         assetType,
			Quantity:     quantity,
			AveragePrice: price,
			CurrentPrice: price,
			TotalCost:    amount,
			PurchasedAt:  now,
			LastUpdated:  now,
		}
	}

	l.account.CurrentBalance = l.account.CurrentBalance.Sub(cost)
	l.account.LastUpdated = now

	trade := models.NewBuyTrade(uuid.NewString(), l.account.ID, symbol, name, assetType, quantity, price, fee, now)
	l.trades = append(l.trades, trade)
	return trade, nil
}

// Sell sells quantity of an existing holding at the current market price.
//
// Realized profit is computed against the holding's average price at the
// moment of sale; the average price itself never changes on a sell. The
// holding is removed entirely when its quantity reaches zero.
func (l *Ledger) Sell(ctx context.Context, symbol string, assetType models.AssetType, quantity decimal.Decimal) (models.Trade, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return models.Trade{}, errors.NewTradeError(symbol, "sell", errors.ErrInvalidQuantity,
			fmt.Sprintf("got %s", quantity))
	}

	l.mu.Lock()
	key := holdingKey(symbol, assetType)
	h, ok := l.holdings[key]
	if !ok {
		l.mu.Unlock()
		return models.Trade{}, errors.NewTradeError(symbol, "sell", errors.ErrHoldingNotFound,
			fmt.Sprintf("no position in %s", symbol))
	}
	if quantity.GreaterThan(h.Quantity) {
		held := h.Quantity
		l.mu.Unlock()
		return models.Trade{}, errors.NewTradeError(symbol, "sell", errors.ErrInsufficientQuantity,
			fmt.Sprintf("have %s, requested %s", held, quantity))
	}
	name := h.Name
	l.mu.Unlock()

	// Price resolution happens outside the lock; state is re-checked after.
	price, err := l.prices(ctx, assetType, symbol)
	if err != nil {
		return models.Trade{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	h, ok = l.holdings[key]
	if !ok {
		return models.Trade{}, errors.NewTradeError(symbol, "sell", errors.ErrHoldingNotFound,
			fmt.Sprintf("no position in %s", symbol))
	}
	if quantity.GreaterThan(h.Quantity) {
		return models.Trade{}, errors.NewTradeError(symbol, "sell", errors.ErrInsufficientQuantity,
			fmt.Sprintf("have %s, requested %s", h.Quantity, quantity))
	}

	amount := quantity.Mul(price)
	fee := amount.Mul(l.feeRate)
	net := amount.Sub(fee)

	costBasis := h.AveragePrice.Mul(quantity)
	profit := amount.Sub(costBasis).Sub(fee)
	profitPercent := decimal.Zero
	if costBasis.IsPositive() {
		profitPercent = profit.Div(costBasis).Mul(hundred)
	}

	now := l.now()
	h.Quantity = h.Quantity.Sub(quantity)
	if h.Quantity.IsZero() {
		delete(l.holdings, key)
	} else {
		h.TotalCost = h.AveragePrice.Mul(h.Quantity)
		h.CurrentPrice = price
		h.LastUpdated = now
	}

	l.account.CurrentBalance = l.account.CurrentBalance.Add(net)
	l.account.LastUpdated = now

	trade := models.NewSellTrade(uuid.NewString(), l.account.ID, symbol, name, assetType,
		quantity, price, fee, profit, profitPercent, now)
	l.trades = append(l.trades, trade)
	return trade, nil
}

// Reset clears all holdings and trade history and restores the cash
// balance to the initial balance. It always succeeds.
func (l *Ledger) Reset() models.Account {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.holdings = make(map[string]*models.Holding)
	l.trades = nil
	l.account.CurrentBalance = l.account.InitialBalance
	l.account.LastUpdated = l.now()
	return l.account
}

// Snapshot returns the account with derived totals, holdings with live
// valuations, the trade history (newest first, capped at limit when
// limit > 0), and realized-performance statistics.
//
// Snapshot refreshes holding prices from the price source but mutates no
// bookkeeping state; a holding whose price lookup fails keeps its last
// known price. Calling it twice with no intervening trade yields the same
// account, holdings, and trades, price movements aside.
func (l *Ledger) Snapshot(ctx context.Context, limit int) models.Portfolio {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	holdings := make([]models.Holding, 0, len(l.holdings))
	totalInvested := decimal.Zero
	totalValue := l.account.CurrentBalance

	for _, h := range l.holdings {
		if price, err := l.prices(ctx, h.Type, h.Symbol); err == nil {
			h.CurrentPrice = price
			h.LastUpdated = now
		}
		view := *h
		view.CurrentValue = view.Quantity.Mul(view.CurrentPrice)
		view.Profit = view.CurrentValue.Sub(view.TotalCost)
		if view.TotalCost.IsPositive() {
			view.ProfitPercent = view.Profit.Div(view.TotalCost).Mul(hundred)
		} else {
			view.ProfitPercent = decimal.Zero
		}
		totalInvested = totalInvested.Add(view.TotalCost)
		totalValue = totalValue.Add(view.CurrentValue)
		holdings = append(holdings, view)
	}
	sort.Slice(holdings, func(i, j int) bool {
		return holdings[i].CurrentValue.GreaterThan(holdings[j].CurrentValue)
	})

	account := l.account
	account.TotalInvested = totalInvested
	account.TotalValue = totalValue
	account.TotalProfit = totalValue.Sub(account.InitialBalance)
	if account.InitialBalance.IsPositive() {
		account.TotalProfitPercent = account.TotalProfit.Div(account.InitialBalance).Mul(hundred)
	} else {
		account.TotalProfitPercent = decimal.Zero
	}

	trades := make([]models.Trade, len(l.trades))
	copy(trades, l.trades)
	// Newest first; the history itself is stored in execution order.
	for i, j := 0, len(trades)-1; i < j; i, j = i+1, j-1 {
		trades[i], trades[j] = trades[j], trades[i]
	}
	stats := computeStatistics(trades)
	if limit > 0 && len(trades) > limit {
		trades = trades[:limit]
	}

	return models.Portfolio{
		Account:    account,
		Holdings:   holdings,
		Trades:     trades,
		Statistics: stats,
	}
}

// Trades returns the trade history newest-first, capped at limit when
// limit > 0.
func (l *Ledger) Trades(limit int) []models.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()

	trades := make([]models.Trade, len(l.trades))
	copy(trades, l.trades)
	for i, j := 0, len(trades)-1; i < j; i, j = i+1, j-1 {
		trades[i], trades[j] = trades[j], trades[i]
	}
	if limit > 0 && len(trades) > limit {
		trades = trades[:limit]
	}
	return trades
}

// Replay rebuilds ledger state from a journaled trade history, applying
// each trade at its recorded price and fee without consulting the price
// source. Trades must be in execution order. A journal that oversells or
// overspends is rejected, leaving the ledger reset to its initial state.
func (l *Ledger) Replay(trades []models.Trade) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.holdings = make(map[string]*models.Holding)
	l.trades = nil
	l.account.CurrentBalance = l.account.InitialBalance

	for _, t := range trades {
		key := holdingKey(t.Symbol, t.Type)
		amount := t.Quantity.Mul(t.Price)

		switch t.Action {
		case models.ActionBuy:
			cost := amount.Add(t.Fee)
			if cost.GreaterThan(l.account.CurrentBalance) {
				l.rollbackLocked()
				return errors.Wrapf(errors.ErrDatabaseError, "journal overspends on trade %s", t.ID)
			}
			if h, ok := l.holdings[key]; ok {
				newTotalCost := h.TotalCost.Add(amount)
				newQuantity := h.Quantity.Add(t.Quantity)
				h.AveragePrice = newTotalCost.Div(newQuantity)
				h.Quantity = newQuantity
				h.TotalCost = newTotalCost
				h.CurrentPrice = t.Price
				h.LastUpdated = t.Timestamp
			} else {
				l.holdings[key] = &models.Holding{
					ID:           fmt.Sprintf("%s-%s-%s", l.account.ID, t.Symbol, t.Type),
					AccountID:    l.account.ID,
					Symbol:       t.Symbol,
					Name:         t.Name,
					Type:         t.Type,
					Quantity:     t.Quantity,
					AveragePrice: t.Price,
					CurrentPrice: t.Price,
					TotalCost:    amount,
					PurchasedAt:  t.Timestamp,
					LastUpdated:  t.Timestamp,
				}
			}
			l.account.CurrentBalance = l.account.CurrentBalance.Sub(cost)

		case models.ActionSell:
			h, ok := l.holdings[key]
			if !ok || t.Quantity.GreaterThan(h.Quantity) {
				l.rollbackLocked()
				return errors.Wrapf(errors.ErrDatabaseError, "journal oversells on trade %s", t.ID)
			}
			h.Quantity = h.Quantity.Sub(t.Quantity)
			if h.Quantity.IsZero() {
				delete(l.holdings, key)
			} else {
				h.TotalCost = h.AveragePrice.Mul(h.Quantity)
				h.CurrentPrice = t.Price
				h.LastUpdated = t.Timestamp
			}
			l.account.CurrentBalance = l.account.CurrentBalance.Add(amount.Sub(t.Fee))

		default:
			l.rollbackLocked()
			return errors.Wrapf(errors.ErrDatabaseError, "journal has unknown action %q on trade %s", t.Action, t.ID)
		}

		l.trades = append(l.trades, t)
	}
	return nil
}

func (l *Ledger) rollbackLocked() {
	l.holdings = make(map[string]*models.Holding)
	l.trades = nil
	l.account.CurrentBalance = l.account.InitialBalance
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade represents an immutable, append-only record of an executed trade.
//
// Trades are tagged by Action. Only sell trades carry realized profit:
// Profit and ProfitPercent are nil on buys, set on sells. Use the
// NewBuyTrade/NewSellTrade constructors so the invariant holds.
type Trade struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	Symbol      string          `json:"symbol"`
	Name        string          `json:"name"`
	Type        AssetType       `json:"type"`
	Action      TradeAction     `json:"action"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Fee         decimal.Decimal `json:"fee"`
	Timestamp   time.Time       `json:"timestamp"`

	// Realized profit against cost basis at time of sale. Sell trades only.
	Profit        *decimal.Decimal `json:"profit,omitempty"`
	ProfitPercent *decimal.Decimal `json:"profitPercent,omitempty"`
}

// NewBuyTrade creates a buy trade record.
func NewBuyTrade(id, accountID, symbol, name string, assetType AssetType, quantity, price, fee decimal.Decimal, at time.Time) Trade {
	return Trade{
		ID:          id,
		AccountID:   accountID,
		Symbol:      symbol,
		Name:        name,
		Type:        assetType,
		Action:      ActionBuy,
		Quantity:    quantity,
		Price:       price,
		TotalAmount: quantity.Mul(price),
		Fee:         fee,
		Timestamp:   at,
	}
}

// NewSellTrade creates a sell trade record carrying realized profit.
func NewSellTrade(id, accountID, symbol, name string, assetType AssetType, quantity, price, fee, profit, profitPercent decimal.Decimal, at time.Time) Trade {
	return Trade{
		ID:            id,
		AccountID:     accountID,
		Symbol:        symbol,
		Name:          name,
		Type:          assetType,
		Action:        ActionSell,
		Quantity:      quantity,
		Price:         price,
		TotalAmount:   quantity.Mul(price),
		Fee:           fee,
		Timestamp:     at,
		Profit:        &profit,
		ProfitPercent: &profitPercent,
	}
}

// IsSell reports whether the trade is a sell.
func (t Trade) IsSell() bool {
	return t.Action == ActionSell
}

// RealizedProfit returns the trade's realized profit. The second return
// is false for buy trades, which carry none.
func (t Trade) RealizedProfit() (decimal.Decimal, bool) {
	if t.Profit == nil {
		return decimal.Zero, false
	}
	return *t.Profit, true
}

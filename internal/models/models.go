// Package models provides domain models for the virtual trading service.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The HTTP API serves amounts as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// AssetType represents the kind of tradeable asset.
type AssetType string

const (
	AssetStock  AssetType = "stock"
	AssetCrypto AssetType = "crypto"
)

// Valid reports whether t is a known asset type.
func (t AssetType) Valid() bool {
	return t == AssetStock || t == AssetCrypto
}

// TradeAction represents the side of a trade.
type TradeAction string

const (
	ActionBuy  TradeAction = "buy"
	ActionSell TradeAction = "sell"
)

// Valid reports whether a is a known trade action.
func (a TradeAction) Valid() bool {
	return a == ActionBuy || a == ActionSell
}

// Account represents a virtual cash account.
//
// InitialBalance is set once at creation or reset and never changes
// afterward. CurrentBalance is the live cash balance. The Total* fields
// are derived and recomputed on every snapshot, never stored.
type Account struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"userId"`
	InitialBalance     decimal.Decimal `json:"initialBalance"`
	CurrentBalance     decimal.Decimal `json:"currentBalance"`
	TotalInvested      decimal.Decimal `json:"totalInvested"`
	TotalValue         decimal.Decimal `json:"totalValue"`
	TotalProfit        decimal.Decimal `json:"totalProfit"`
	TotalProfitPercent decimal.Decimal `json:"totalProfitPercent"` // 0 when InitialBalance is 0
	CreatedAt          time.Time       `json:"createdAt"`
	LastUpdated        time.Time       `json:"lastUpdated"`
}

// Holding represents a position of non-zero quantity in one symbol.
//
// Quantity is strictly positive while the holding exists; a holding
// whose quantity reaches zero is removed from the account. AveragePrice
// is the volume-weighted cost basis and only changes on buys.
type Holding struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"accountId"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Type          AssetType       `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	AveragePrice  decimal.Decimal `json:"averagePrice"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	CurrentValue  decimal.Decimal `json:"currentValue"`
	Profit        decimal.Decimal `json:"profit"`
	ProfitPercent decimal.Decimal `json:"profitPercent"` // 0 when TotalCost is 0
	PurchasedAt   time.Time       `json:"purchasedAt"`
	LastUpdated   time.Time       `json:"lastUpdated"`
}

// Statistics summarizes realized performance over the trade history.
// All fields are derived from sell trades and recomputed on read.
type Statistics struct {
	TotalTrades   int             `json:"totalTrades"`
	WinningTrades int             `json:"winningTrades"`
	LosingTrades  int             `json:"losingTrades"`
	WinRate       decimal.Decimal `json:"winRate"` // 0 when there are no sell trades
	AverageProfit decimal.Decimal `json:"averageProfit"`
	BestTrade     *Trade          `json:"bestTrade"`
	WorstTrade    *Trade          `json:"worstTrade"`
}

// Portfolio is the full snapshot envelope returned to callers.
type Portfolio struct {
	Account    Account    `json:"account"`
	Holdings   []Holding  `json:"holdings"`
	Trades     []Trade    `json:"trades"`
	Statistics Statistics `json:"statistics"`
}

// Quote represents a market quote for one symbol.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Type          AssetType       `json:"type"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	Volume        int64           `json:"volume"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Open          decimal.Decimal `json:"open"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	Timestamp     time.Time       `json:"timestamp"`
}

package stream

import (
	"time"

	"virtual-trader/internal/models"
)

// EventKind identifies the type of a portfolio event.
type EventKind string

const (
	// EventTrade is emitted after a trade executes.
	EventTrade EventKind = "trade"
	// EventPortfolio is emitted when derived portfolio state changes.
	EventPortfolio EventKind = "portfolio"
	// EventReset is emitted when an account is reset.
	EventReset EventKind = "reset"
)

// Event is a single portfolio update delivered to stream subscribers.
type Event struct {
	Kind      EventKind         `json:"kind"`
	AccountID string            `json:"accountId"`
	Trade     *models.Trade     `json:"trade,omitempty"`
	Account   *models.Account   `json:"account,omitempty"`
	Portfolio *models.Portfolio `json:"portfolio,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewTradeEvent builds an event for an executed trade.
func NewTradeEvent(accountID string, trade models.Trade) Event {
	return Event{
		Kind:      EventTrade,
		AccountID: accountID,
		Trade:     &trade,
		Timestamp: time.Now(),
	}
}

// NewPortfolioEvent builds an event carrying a fresh portfolio snapshot.
func NewPortfolioEvent(accountID string, portfolio models.Portfolio) Event {
	return Event{
		Kind:      EventPortfolio,
		AccountID: accountID,
		Portfolio: &portfolio,
		Timestamp: time.Now(),
	}
}

// NewResetEvent builds an event for an account reset.
func NewResetEvent(accountID string, account models.Account) Event {
	return Event{
		Kind:      EventReset,
		AccountID: accountID,
		Account:   &account,
		Timestamp: time.Now(),
	}
}

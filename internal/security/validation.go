// Package security provides input validation for externally supplied
// identifiers before they reach the ledger or upstream price APIs.
package security

import (
	"regexp"
	"strings"

	"virtual-trader/internal/errors"
)

const (
	maxSymbolLength = 30
	maxUserIDLength = 64
	maxNameLength   = 80
)

// symbolPattern covers Yahoo tickers (AAPL, BRK-B, ^GSPC) and
// CoinGecko ids (bitcoin, matic-network).
var symbolPattern = regexp.MustCompile(`^[\^]?[A-Za-z0-9][A-Za-z0-9.\-]*$`)

// userIDPattern keeps user ids safe to embed in account ids and paths.
var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._\-]*$`)

// ValidateSymbol checks a trading symbol for length and charset.
func ValidateSymbol(symbol string) error {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return errors.NewValidationError("symbol", symbol, "symbol cannot be empty")
	}
	if len(symbol) > maxSymbolLength {
		return errors.NewValidationError("symbol", symbol, "symbol too long")
	}
	if !symbolPattern.MatchString(symbol) {
		return errors.NewValidationError("symbol", symbol, "invalid symbol format")
	}
	return nil
}

// ValidateUserID checks a user identifier.
func ValidateUserID(userID string) error {
	if userID == "" {
		return errors.NewValidationError("user", userID, "user id cannot be empty")
	}
	if len(userID) > maxUserIDLength {
		return errors.NewValidationError("user", userID, "user id too long")
	}
	if !userIDPattern.MatchString(userID) {
		return errors.NewValidationError("user", userID, "invalid user id format")
	}
	return nil
}

// SanitizeName trims and bounds a display name. Returns the empty
// string for names that are nothing but whitespace.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}
	return name
}

// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidQuantity      = errors.New("quantity must be a positive number")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrHoldingNotFound      = errors.New("holding not found")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrPriceUnavailable     = errors.New("price temporarily unavailable")
	ErrSymbolNotFound       = errors.New("symbol not found")
	ErrAccountNotFound      = errors.New("account not found")
	ErrConfigInvalid        = errors.New("invalid configuration")
	ErrDatabaseError        = errors.New("database error")
)

// TradeError represents a rejected trade operation. It wraps one of the
// sentinel errors above and keeps enough context for a user-facing message.
type TradeError struct {
	Symbol string
	Action string
	Reason string
	Err    error
}

func (e *TradeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("trade rejected [%s %s]: %v: %s", e.Action, e.Symbol, e.Err, e.Reason)
	}
	return fmt.Sprintf("trade rejected [%s %s]: %v", e.Action, e.Symbol, e.Err)
}

func (e *TradeError) Unwrap() error {
	return e.Err
}

// NewTradeError creates a new TradeError.
func NewTradeError(symbol, action string, err error, reason string) *TradeError {
	return &TradeError{
		Symbol: symbol,
		Action: action,
		Reason: reason,
		Err:    err,
	}
}

// Message returns the user-facing message for an error: the reason-enriched
// text for trade rejections, the plain error text otherwise.
func Message(err error) string {
	var te *TradeError
	if errors.As(err, &te) {
		if te.Reason != "" {
			return fmt.Sprintf("%v: %s", te.Err, te.Reason)
		}
		return te.Err.Error()
	}
	return err.Error()
}

// PriceError represents a price lookup failure for a symbol.
type PriceError struct {
	Symbol string
	Source string
	Err    error
}

func (e *PriceError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("price error [%s] %s: %v", e.Source, e.Symbol, e.Err)
	}
	return fmt.Sprintf("price error %s: %v", e.Symbol, e.Err)
}

func (e *PriceError) Unwrap() error {
	return e.Err
}

// NewPriceError creates a new PriceError.
func NewPriceError(symbol, source string, err error) *PriceError {
	return &PriceError{
		Symbol: symbol,
		Source: source,
		Err:    err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsRejection reports whether err is a local validation failure: the ledger
// stays usable and no state was changed.
func IsRejection(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrHoldingNotFound) ||
		errors.Is(err, ErrInsufficientQuantity)
}

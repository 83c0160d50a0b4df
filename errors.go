package tradebook

import "errors"

// Validation outcomes for account operations. All of them are
// recoverable: the operation leaves balance, holdings and the deposit
// total untouched, and the appended transaction record explains the
// failure. None of them is ever wrapped in a panic or escalated.
var (
	// ErrInvalidAmount reports a non-positive amount for deposit or withdraw.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInvalidQuantity reports a non-positive share quantity for buy or sell.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInsufficientFunds reports a withdraw or buy that would drive the cash balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientHoldings reports a sell of more shares than currently held.
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	// ErrUnknownSymbol reports a price lookup that yielded a non-positive price.
	ErrUnknownSymbol = errors.New("unknown symbol")
)

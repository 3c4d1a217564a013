package sim

import "errors"

var (
	// ErrInvalidOrderRequest covers non-positive size, unknown symbols and
	// missing required prices. The order is rejected synchronously.
	ErrInvalidOrderRequest = errors.New("invalid order request")

	// ErrAlreadyTerminal is returned by cancel on a finished order. No state
	// changes.
	ErrAlreadyTerminal = errors.New("order already in terminal state")

	// ErrAccountHalted rejects submissions after a risk rule halted the
	// account. The halt lasts for the remainder of the run.
	ErrAccountHalted = errors.New("account halted")

	// ErrMaxContracts rejects an order whose fill could push a symbol's net
	// position past the configured contract limit.
	ErrMaxContracts = errors.New("max contracts exceeded")

	// ErrUnknownOrder is returned for operations on an id the book never
	// issued.
	ErrUnknownOrder = errors.New("unknown order id")
)

package sim

import (
	"github.com/rustyeddy/propsim/market"
)

// Broker is the order-submission surface a strategy sees. Implemented by the
// Engine; strategies never hold order records, only ids.
type Broker interface {
	Submit(req OrderRequest) (int64, error)
	SubmitBracket(entry OrderRequest, tpTicks, slTicks int) (BracketIDs, error)
	Cancel(id int64) error
	CancelAll(symbol string)

	Order(id int64) (Order, bool)
	PositionSize(symbol string) int
	Account() Account
	LastBar(symbol string) (market.Bar, bool)
	Contract(symbol string) (market.Contract, error)
}

// Strategy is the fixed capability interface for user trading logic. The
// engine holds this interface, never a concrete type.
//
// Orders submitted during OnBar are queued and start evaluation on the next
// bar-group, never retroactively against the bar just processed.
type Strategy interface {
	// Initialize runs once before the first bar-group.
	Initialize(b Broker) error

	// OnBar runs once per bar-group, after fills, ledger and risk updates.
	OnBar(b Broker, g market.Group) error

	// OnOrderUpdate is invoked after each order state transition.
	OnOrderUpdate(o Order)

	// OnTradeClosed is invoked after a fill closes (part of) a position.
	OnTradeClosed(t Trade)
}

package sim

import "time"

// Trade is a completed round trip, emitted when a fill reduces a position.
// Trades are outputs; the core does not keep them beyond the run result.
type Trade struct {
	ID         int64
	Symbol     string
	Side       Side // direction of the position that was closed
	Size       int
	EntryPrice float64
	ExitPrice  float64
	EntryTime  time.Time
	ExitTime   time.Time

	GrossPL    float64
	Commission float64 // both sides, for the closed quantity
	NetPL      float64

	Reason string
}

// EquityPoint is one sample of the per-bar-group equity curve.
type EquityPoint struct {
	Time    time.Time
	Balance float64
	Equity  float64
}

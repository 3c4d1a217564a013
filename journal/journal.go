package journal

import "time"

// TradeRecord is one completed round trip as persisted by a journal.
type TradeRecord struct {
	TradeID    string
	RunID      string
	Symbol     string
	Side       string // LONG or SHORT
	Size       int
	EntryPrice float64
	ExitPrice  float64
	EntryTime  time.Time
	ExitTime   time.Time
	GrossPL    float64
	Commission float64
	NetPL      float64
	Reason     string
}

// EquitySnapshot is one point of the per-bar-group equity curve.
type EquitySnapshot struct {
	RunID   string
	Time    time.Time
	Balance float64
	Equity  float64
}

// Run summarizes one simulation for the runs table.
type Run struct {
	RunID   string
	Created time.Time

	Firm     string
	Strategy string
	Symbols  string

	Start time.Time
	End   time.Time

	StartBalance float64
	EndBalance   float64
	EndEquity    float64

	Trades int
	Wins   int
	Losses int

	Status     string // Completed or HaltedByRiskRule
	HaltReason string
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	RecordRun(Run) error
	Close() error
}

// Nop discards everything. Handy for runs that only need the in-memory
// result.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error    { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) RecordRun(Run) error               { return nil }
func (Nop) Close() error                      { return nil }

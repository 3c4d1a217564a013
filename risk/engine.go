package risk

import (
	"time"
)

// Snapshot is the account state the evaluator reads each bar-group, after the
// ledger's equity update.
type Snapshot struct {
	Time    time.Time
	Balance float64
	Equity  float64
}

// Decision is what the evaluator asks the engine to do this step. The
// evaluator itself never touches orders or positions; the engine acts through
// the order book.
type Decision struct {
	NewDay bool

	// Halt ends the evaluation: flatten everything, cancel all working
	// orders, reject every later submission.
	Halt   bool
	Reason HaltReason

	// Flatten force-closes every open position without halting the account
	// (position-close-time rule).
	Flatten       bool
	FlattenReason string

	// HighWater is the trailing drawdown reference after this step.
	HighWater float64
}

// Engine evaluates the prop-firm rule set once per bar-group. It keeps the
// day and high-water state between steps; one Engine per run.
type Engine struct {
	firm Firm

	day          time.Time // midnight of current trading day
	dayStart     float64   // balance at rollover
	lastEquity   float64
	highWater    float64
	closedToday  bool // position-close-time already enforced today
	halted       bool
	haltReason   HaltReason
	closeHour    int
	closeMinute  int
	hasCloseTime bool
}

func NewEngine(firm Firm) (*Engine, error) {
	if err := firm.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		firm:       firm,
		dayStart:   firm.InitialBalance,
		lastEquity: firm.InitialBalance,
		highWater:  firm.InitialBalance,
	}
	if firm.PositionCloseTime != "" {
		h, m, err := parseClock(firm.PositionCloseTime)
		if err != nil {
			return nil, err
		}
		e.closeHour, e.closeMinute, e.hasCloseTime = h, m, true
	}
	return e, nil
}

func (e *Engine) Firm() Firm            { return e.firm }
func (e *Engine) Halted() bool          { return e.halted }
func (e *Engine) HaltReason() HaltReason { return e.haltReason }
func (e *Engine) HighWater() float64    { return e.highWater }

// Evaluate runs the rule checks for one bar-group. Once halted it keeps
// returning a halted decision; prop-firm evaluations do not recover.
func (e *Engine) Evaluate(s Snapshot) Decision {
	d := Decision{HighWater: e.highWater}

	if e.halted {
		d.Halt = true
		d.Reason = e.haltReason
		return d
	}

	// 1. Day rollover. EOD-trailing configs raise the high-water-mark to the
	// prior day's closing equity at the boundary, never intraday. The first
	// group of the run starts the clock without touching the daily-start
	// balance, which is still the initial balance.
	day := midnight(s.Time)
	switch {
	case e.day.IsZero():
		e.day = day
	case !day.Equal(e.day):
		if e.firm.Drawdown == DrawdownEOD && e.lastEquity > e.highWater {
			e.highWater = e.lastEquity
		}
		e.day = day
		e.dayStart = s.Balance
		e.closedToday = false
		d.NewDay = true
	}

	if e.firm.Drawdown == DrawdownIntraday && s.Equity > e.highWater {
		e.highWater = s.Equity
	}
	e.lastEquity = s.Equity
	d.HighWater = e.highWater

	// 2. Daily loss, on realized balance.
	if e.firm.MaxDailyLoss > 0 && s.Balance-e.dayStart <= -e.firm.MaxDailyLoss {
		return e.halt(d, DailyLossBreach)
	}

	// 3. Trailing / static drawdown, on equity.
	if breached, reason := e.drawdownBreached(s.Equity); breached {
		return e.halt(d, reason)
	}

	// 4. Position close time. Forced flatten, not a halt.
	if e.hasCloseTime && !e.closedToday && e.pastCloseTime(s.Time) {
		e.closedToday = true
		d.Flatten = true
		d.FlattenReason = "CloseTime"
	}

	return d
}

func (e *Engine) halt(d Decision, reason HaltReason) Decision {
	e.halted = true
	e.haltReason = reason
	d.Halt = true
	d.Reason = reason
	return d
}

func (e *Engine) drawdownBreached(equity float64) (bool, HaltReason) {
	if e.firm.MaxLoss <= 0 {
		return false, HaltNone
	}
	var ref float64
	switch e.firm.Drawdown {
	case DrawdownNone:
		return false, HaltNone
	case DrawdownStatic:
		ref = e.firm.InitialBalance
	default:
		ref = e.highWater
	}
	if equity <= ref-e.firm.MaxLoss {
		return true, MaxLossBreach
	}
	return false, HaltNone
}

func (e *Engine) pastCloseTime(t time.Time) bool {
	h, m, _ := t.Clock()
	if h != e.closeHour {
		return h > e.closeHour
	}
	return m >= e.closeMinute
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

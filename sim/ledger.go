package sim

import (
	"sort"
	"time"

	"github.com/rustyeddy/propsim/market"
	"github.com/rustyeddy/propsim/risk"
)

// Account is the single trading account of a run. It is mutated only by the
// Ledger and the risk evaluation step, never concurrently.
type Account struct {
	Balance float64
	Equity  float64

	Day        time.Time // midnight of the current trading day
	DailyStart float64   // balance at the last day rollover
	HighWater  float64   // trailing drawdown reference

	Halted     bool
	HaltReason risk.HaltReason

	Firm risk.Firm
}

// Ledger owns the Account and every Position. It applies fills, realizes
// P&L, and recomputes equity from the latest known closes.
type Ledger struct {
	acct      Account
	positions map[string]*Position
	contracts map[string]market.Contract
	lastClose map[string]float64

	commission float64 // per contract, per side
	nextTrade  int64
}

func NewLedger(firm risk.Firm, contracts map[string]market.Contract, commission float64) *Ledger {
	return &Ledger{
		acct: Account{
			Balance:    firm.InitialBalance,
			Equity:     firm.InitialBalance,
			DailyStart: firm.InitialBalance,
			HighWater:  firm.InitialBalance,
			Firm:       firm,
		},
		positions:  make(map[string]*Position),
		contracts:  contracts,
		lastClose:  make(map[string]float64),
		commission: commission,
	}
}

func (l *Ledger) Account() Account { return l.acct }

// Position returns the position for a symbol, creating a flat one on first
// use.
func (l *Ledger) Position(symbol string) *Position {
	p, ok := l.positions[symbol]
	if !ok {
		p = &Position{Symbol: symbol}
		l.positions[symbol] = p
	}
	return p
}

// PositionSize returns the signed net size without creating a record.
func (l *Ledger) PositionSize(symbol string) int {
	if p, ok := l.positions[symbol]; ok {
		return p.Size
	}
	return 0
}

// OpenSymbols returns symbols with a non-flat position, sorted for
// deterministic iteration.
func (l *Ledger) OpenSymbols() []string {
	var out []string
	for s, p := range l.positions {
		if !p.Flat() {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// ApplyFill merges a filled order into its position, charges commission, and
// returns a completed Trade if the fill closed (part of) a position.
func (l *Ledger) ApplyFill(o *Order, reason string) (Trade, bool) {
	c := l.contracts[o.Symbol]
	pos := l.Position(o.Symbol)

	l.acct.Balance -= float64(o.Size) * l.commission

	cl, ok := pos.apply(o.Size*o.Side.Sign(), o.FillPrice, o.FillTime, c)
	if !ok {
		return Trade{}, false
	}

	l.acct.Balance += cl.grossPL
	commission := 2 * float64(cl.qty) * l.commission

	l.nextTrade++
	return Trade{
		ID:         l.nextTrade,
		Symbol:     o.Symbol,
		Side:       cl.side,
		Size:       cl.qty,
		EntryPrice: cl.entry,
		ExitPrice:  o.FillPrice,
		EntryTime:  cl.entryAt,
		ExitTime:   o.FillTime,
		GrossPL:    cl.grossPL,
		Commission: commission,
		NetPL:      cl.grossPL - commission,
		Reason:     reason,
	}, true
}

// MarkToMarket records the group's closes and recomputes equity as
// balance + unrealized P&L across all open positions. Symbols without a bar
// in this group are marked at their last known close.
func (l *Ledger) MarkToMarket(g market.Group) {
	for _, sym := range g.Symbols() {
		if b, ok := g.Bar(sym); ok {
			l.lastClose[sym] = b.Close
		}
	}

	unrealized := 0.0
	for sym, pos := range l.positions {
		if pos.Flat() {
			continue
		}
		mark, ok := l.lastClose[sym]
		if !ok {
			continue
		}
		unrealized += pos.UnrealizedPL(mark, l.contracts[sym])
	}
	l.acct.Equity = l.acct.Balance + unrealized
}

// LastClose returns the most recent close seen for a symbol.
func (l *Ledger) LastClose(symbol string) (float64, bool) {
	px, ok := l.lastClose[symbol]
	return px, ok
}

// Rollover starts a new trading day.
func (l *Ledger) Rollover(day time.Time) {
	l.acct.Day = day
	l.acct.DailyStart = l.acct.Balance
}

// Halt marks the account halted for the remainder of the run.
func (l *Ledger) Halt(reason risk.HaltReason) {
	l.acct.Halted = true
	l.acct.HaltReason = reason
}

// SetHighWater updates the trailing drawdown reference.
func (l *Ledger) SetHighWater(hwm float64) {
	l.acct.HighWater = hwm
}

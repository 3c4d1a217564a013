package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/propsim/journal"
	"github.com/rustyeddy/propsim/market"
	"github.com/rustyeddy/propsim/risk"
)

// Status is the terminal state of a run.
type Status int8

const (
	Completed Status = iota
	HaltedByRiskRule
)

func (s Status) String() string {
	if s == HaltedByRiskRule {
		return "HaltedByRiskRule"
	}
	return "Completed"
}

// Result collects the run outputs: the ordered trade sequence, the per-group
// equity curve, and the terminal status.
type Result struct {
	Status     Status
	HaltReason risk.HaltReason

	Trades []Trade
	Equity []EquityPoint

	Start time.Time
	End   time.Time
}

// Config is the full engine configuration for one run. Immutable once the
// engine is built.
type Config struct {
	Firm       risk.Firm
	Commission float64 // per contract, per side

	Policy          FillPolicy
	SameBarBrackets bool

	// CloseEnd closes open positions at the last known close when the data
	// ends.
	CloseEnd bool

	// RunID tags journal records; empty is fine for in-memory runs.
	RunID string
}

// Engine drives one simulation run: bar clock, order book, ledger, risk and
// the strategy, in that order, once per bar-group. Single-threaded and fully
// deterministic; parallelism belongs across runs, each with its own Engine.
type Engine struct {
	cfg    Config
	clock  *market.Clock
	book   *Book
	ledger *Ledger
	risk   *risk.Engine
	strat  Strategy
	jrnl   journal.Journal

	contracts map[string]market.Contract
	lastBar   map[string]market.Bar

	result Result
}

func NewEngine(cfg Config, strat Strategy, j journal.Journal, series ...*market.Series) (*Engine, error) {
	if j == nil {
		j = journal.Nop{}
	}
	contracts := make(map[string]market.Contract)
	for _, s := range series {
		if _, ok := contracts[s.Symbol]; ok {
			continue
		}
		c, err := market.GetContract(s.Symbol)
		if err != nil {
			return nil, err
		}
		contracts[s.Symbol] = c
	}

	clock, err := market.NewClock(series...)
	if err != nil {
		return nil, err
	}
	re, err := risk.NewEngine(cfg.Firm)
	if err != nil {
		return nil, err
	}

	ledger := NewLedger(cfg.Firm, contracts, cfg.Commission)
	book := NewBook(BookConfig{
		Policy:          cfg.Policy,
		SameBarBrackets: cfg.SameBarBrackets,
		MaxContracts:    cfg.Firm.MaxContracts,
	}, contracts, ledger.PositionSize)

	return &Engine{
		cfg:       cfg,
		clock:     clock,
		book:      book,
		ledger:    ledger,
		risk:      re,
		strat:     strat,
		jrnl:      j,
		contracts: contracts,
		lastBar:   make(map[string]market.Bar),
	}, nil
}

// Run replays the full timeline. The context covers caller aborts of the
// whole run between bar-groups; there is no mid-step cancellation.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	if e.strat != nil {
		if err := e.strat.Initialize(e); err != nil {
			return e.result, fmt.Errorf("strategy initialize: %w", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return e.result, ctx.Err()
		default:
		}

		g, ok, err := e.clock.Next()
		if err != nil {
			return e.result, err
		}
		if !ok {
			break
		}
		if e.result.Start.IsZero() {
			e.result.Start = g.Time
		}
		e.result.End = g.Time

		if err := e.step(g); err != nil {
			return e.result, err
		}
	}

	if e.cfg.CloseEnd {
		e.closeAtEnd()
	}
	e.book.ExpireAll()
	e.notify()

	if e.risk.Halted() {
		e.result.Status = HaltedByRiskRule
		e.result.HaltReason = e.risk.HaltReason()
	}
	return e.result, nil
}

// step processes one bar-group: fills, ledger, risk, then the strategy.
func (e *Engine) step(g market.Group) error {
	e.book.SetClock(g.Time)
	for _, sym := range g.Symbols() {
		if b, ok := g.Bar(sym); ok {
			e.lastBar[sym] = b
		}
	}

	// 1. Resolve pending fills and triggers against this group's bars.
	fills := e.book.Evaluate(g)

	// 2. Apply fills to positions and balance.
	var trades []Trade
	for _, o := range fills {
		if t, ok := e.ledger.ApplyFill(o, e.book.closeReason(o)); ok {
			trades = append(trades, t)
		}
	}

	// 3. Mark to market: equity = balance + unrealized, on latest closes.
	e.ledger.MarkToMarket(g)

	e.notify()
	for _, t := range trades {
		e.result.Trades = append(e.result.Trades, t)
		if err := e.jrnl.RecordTrade(e.tradeRecord(t)); err != nil {
			return fmt.Errorf("journal trade: %w", err)
		}
		if e.strat != nil {
			e.strat.OnTradeClosed(t)
		}
	}

	// 4. Risk evaluation, after the equity update and before the strategy.
	acct := e.ledger.Account()
	d := e.risk.Evaluate(risk.Snapshot{Time: g.Time, Balance: acct.Balance, Equity: acct.Equity})
	e.ledger.SetHighWater(d.HighWater)
	if d.NewDay {
		e.ledger.Rollover(midnight(g.Time))
	}
	switch {
	case d.Halt && !acct.Halted:
		// Terminal: prop-firm evaluations end on breach.
		e.ledger.Halt(d.Reason)
		e.book.SetHalted()
		e.book.CancelAll("")
		e.flattenAll("Liquidation")
	case d.Flatten:
		e.book.CancelAll("")
		e.flattenAll(d.FlattenReason)
	}

	acct = e.ledger.Account()
	pt := EquityPoint{Time: g.Time, Balance: acct.Balance, Equity: acct.Equity}
	e.result.Equity = append(e.result.Equity, pt)
	if err := e.jrnl.RecordEquity(journal.EquitySnapshot{
		RunID:   e.cfg.RunID,
		Time:    pt.Time,
		Balance: pt.Balance,
		Equity:  pt.Equity,
	}); err != nil {
		return fmt.Errorf("journal equity: %w", err)
	}
	e.notify()

	// 5. Strategy callback. Submissions land in the queue and activate below,
	// so they are first evaluated on the next bar-group.
	if e.strat != nil {
		if err := e.strat.OnBar(e, g); err != nil {
			return fmt.Errorf("strategy on bar: %w", err)
		}
	}
	e.book.Activate()
	e.notify()
	return nil
}

// flattenAll queues market orders closing every open position. They fill at
// the next bar-group's open.
func (e *Engine) flattenAll(reason string) {
	for _, sym := range e.ledger.OpenSymbols() {
		size := e.ledger.PositionSize(sym)
		side := Sell
		if size < 0 {
			side = Buy
		}
		e.book.Liquidate(sym, side, abs(size), reason)
	}
}

// closeAtEnd flattens remaining positions at their last known close so the
// run result reflects no dangling exposure.
func (e *Engine) closeAtEnd() {
	for _, sym := range e.ledger.OpenSymbols() {
		px, ok := e.ledger.LastClose(sym)
		if !ok {
			continue
		}
		size := e.ledger.PositionSize(sym)
		side := Sell
		if size < 0 {
			side = Buy
		}
		id := e.book.Liquidate(sym, side, abs(size), "EndOfData")
		o := e.book.orders[id]
		e.book.fill(o, px, e.result.End)
		if t, ok := e.ledger.ApplyFill(o, "EndOfData"); ok {
			e.result.Trades = append(e.result.Trades, t)
			if err := e.jrnl.RecordTrade(e.tradeRecord(t)); err == nil && e.strat != nil {
				e.strat.OnTradeClosed(t)
			}
		}
	}
	e.ledger.MarkToMarket(market.Group{})
}

func (e *Engine) notify() {
	for _, o := range e.book.DrainEvents() {
		if e.strat != nil {
			e.strat.OnOrderUpdate(o)
		}
	}
}

func (e *Engine) tradeRecord(t Trade) journal.TradeRecord {
	side := "LONG"
	if t.Side == Sell {
		side = "SHORT"
	}
	id := fmt.Sprintf("%d", t.ID)
	if e.cfg.RunID != "" {
		id = fmt.Sprintf("%s-%d", e.cfg.RunID, t.ID)
	}
	return journal.TradeRecord{
		TradeID:    id,
		RunID:      e.cfg.RunID,
		Symbol:     t.Symbol,
		Side:       side,
		Size:       t.Size,
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		EntryTime:  t.EntryTime,
		ExitTime:   t.ExitTime,
		GrossPL:    t.GrossPL,
		Commission: t.Commission,
		NetPL:      t.NetPL,
		Reason:     t.Reason,
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Broker implementation. The engine is the only path between a strategy and
// the book.

func (e *Engine) Submit(req OrderRequest) (int64, error) {
	return e.book.Submit(req)
}

func (e *Engine) SubmitBracket(entry OrderRequest, tpTicks, slTicks int) (BracketIDs, error) {
	return e.book.SubmitBracket(entry, tpTicks, slTicks)
}

func (e *Engine) Cancel(id int64) error { return e.book.Cancel(id) }

func (e *Engine) CancelAll(symbol string) { e.book.CancelAll(symbol) }

func (e *Engine) Order(id int64) (Order, bool) { return e.book.Order(id) }

func (e *Engine) PositionSize(symbol string) int { return e.ledger.PositionSize(symbol) }

func (e *Engine) Account() Account { return e.ledger.Account() }

func (e *Engine) LastBar(symbol string) (market.Bar, bool) {
	b, ok := e.lastBar[symbol]
	return b, ok
}

func (e *Engine) Contract(symbol string) (market.Contract, error) {
	if c, ok := e.contracts[symbol]; ok {
		return c, nil
	}
	return market.GetContract(symbol)
}

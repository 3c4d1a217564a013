package backtest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/propsim/journal"
	"github.com/rustyeddy/propsim/market"
	"github.com/rustyeddy/propsim/pkg/id"
	"github.com/rustyeddy/propsim/risk"
	"github.com/rustyeddy/propsim/sim"
)

// Runner builds an engine for one run, drives it, computes metrics over the
// outputs, and records a run summary in the journal.
type Runner struct {
	Firm     risk.Firm
	Strategy sim.Strategy
	Series   []*market.Series
	Journal  journal.Journal

	Commission      float64
	Policy          sim.FillPolicy
	SameBarBrackets bool
	CloseEnd        bool

	// StrategyName labels the run record only.
	StrategyName string
}

// Result bundles the engine outputs with the derived metrics and run id.
type Result struct {
	RunID string

	sim.Result
	Metrics Metrics

	Balance float64
	Equity  float64
}

// Run executes the backtest. The journal is optional.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Strategy == nil {
		return Result{}, fmt.Errorf("backtest: Strategy is required")
	}
	if len(r.Series) == 0 {
		return Result{}, fmt.Errorf("backtest: at least one bar series is required")
	}
	j := r.Journal
	if j == nil {
		j = journal.Nop{}
	}

	runID := id.New()
	eng, err := sim.NewEngine(sim.Config{
		Firm:            r.Firm,
		Commission:      r.Commission,
		Policy:          r.Policy,
		SameBarBrackets: r.SameBarBrackets,
		CloseEnd:        r.CloseEnd,
		RunID:           runID,
	}, r.Strategy, j, r.Series...)
	if err != nil {
		return Result{}, err
	}

	res, err := eng.Run(ctx)
	if err != nil {
		return Result{RunID: runID, Result: res}, err
	}

	out := Result{
		RunID:   runID,
		Result:  res,
		Metrics: ComputeMetrics(res, r.Firm.InitialBalance),
	}
	acct := eng.Account()
	out.Balance = acct.Balance
	out.Equity = acct.Equity

	var symbols []string
	seen := map[string]bool{}
	for _, s := range r.Series {
		if !seen[s.Symbol] {
			seen[s.Symbol] = true
			symbols = append(symbols, s.Symbol)
		}
	}

	rec := journal.Run{
		RunID:        runID,
		Created:      time.Now().UTC(),
		Firm:         r.Firm.Name,
		Strategy:     r.StrategyName,
		Symbols:      strings.Join(symbols, ","),
		Start:        res.Start,
		End:          res.End,
		StartBalance: r.Firm.InitialBalance,
		EndBalance:   out.Balance,
		EndEquity:    out.Equity,
		Trades:       out.Metrics.Trades,
		Wins:         out.Metrics.Wins,
		Losses:       out.Metrics.Losses,
		Status:       res.Status.String(),
		HaltReason:   string(res.HaltReason),
	}
	if err := j.RecordRun(rec); err != nil {
		return out, fmt.Errorf("journal run: %w", err)
	}

	return out, nil
}

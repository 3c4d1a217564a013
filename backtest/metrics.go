package backtest

import (
	"math"
	"time"

	"github.com/rustyeddy/propsim/sim"
)

// Metrics is a pure reduction over the run outputs. Nothing here feeds back
// into the engine, so parameter sweeps may compute these in parallel.
type Metrics struct {
	Trades int
	Wins   int
	Losses int

	GrossPL    float64
	Commission float64
	NetProfit  float64
	AvgTrade   float64

	WinRate      float64
	ProfitFactor float64

	TotalReturn float64
	Sharpe      float64

	MaxDrawdown    float64
	MaxDrawdownPct float64
}

// ComputeMetrics derives performance statistics from a finished run.
func ComputeMetrics(res sim.Result, initialBalance float64) Metrics {
	m := Metrics{Trades: len(res.Trades)}

	grossWin, grossLoss := 0.0, 0.0
	for _, t := range res.Trades {
		m.GrossPL += t.GrossPL
		m.Commission += t.Commission
		switch {
		case t.NetPL > 0:
			m.Wins++
			grossWin += t.NetPL
		case t.NetPL < 0:
			m.Losses++
			grossLoss += -t.NetPL
		}
	}
	m.NetProfit = m.GrossPL - m.Commission
	if m.Trades > 0 {
		m.AvgTrade = m.NetProfit / float64(m.Trades)
		m.WinRate = float64(m.Wins) / float64(m.Trades)
	}
	if grossLoss > 0 {
		m.ProfitFactor = grossWin / grossLoss
	} else if grossWin > 0 {
		m.ProfitFactor = math.Inf(1)
	}

	if len(res.Equity) > 0 && initialBalance > 0 {
		final := res.Equity[len(res.Equity)-1].Equity
		m.TotalReturn = (final - initialBalance) / initialBalance
	}

	m.MaxDrawdown, m.MaxDrawdownPct = maxDrawdown(res.Equity)
	m.Sharpe = sharpe(dailyReturns(res.Equity))
	return m
}

func maxDrawdown(curve []sim.EquityPoint) (dd, ddPct float64) {
	if len(curve) == 0 {
		return 0, 0
	}
	peak := curve[0].Equity
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		d := peak - p.Equity
		if d > dd {
			dd = d
		}
		if peak > 0 && d/peak > ddPct {
			ddPct = d / peak
		}
	}
	return dd, ddPct
}

// dailyReturns samples the equity curve at day boundaries and returns the
// day-over-day percentage changes.
func dailyReturns(curve []sim.EquityPoint) []float64 {
	if len(curve) < 2 {
		return nil
	}
	var closes []float64
	var day time.Time
	for _, p := range curve {
		y, mo, d := p.Time.Date()
		pd := time.Date(y, mo, d, 0, 0, 0, 0, p.Time.Location())
		if !pd.Equal(day) {
			closes = append(closes, p.Equity)
			day = pd
		} else {
			closes[len(closes)-1] = p.Equity
		}
	}
	var rets []float64
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			rets = append(rets, closes[i]/closes[i-1]-1)
		}
	}
	return rets
}

// sharpe annualizes daily-return Sharpe with the usual sqrt(252).
func sharpe(rets []float64) float64 {
	if len(rets) < 2 {
		return 0
	}
	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))

	variance := 0.0
	for _, r := range rets {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(rets) - 1)
	sd := math.Sqrt(variance)
	if sd == 0 {
		return 0
	}
	return mean / sd * math.Sqrt(252)
}

package strategies

import (
	"github.com/rustyeddy/propsim/indicators"
	"github.com/rustyeddy/propsim/market"
	"github.com/rustyeddy/propsim/sim"
)

// SMACross goes long on a fast/slow moving-average golden cross and flattens
// on the death cross. One symbol, long-only.
//
// Submission errors are ignored: a rejection from a halted account or the
// contract cap is the risk engine doing its job, not a strategy failure.
type SMACross struct {
	Base

	Symbol string
	Size   int
	Fast   int
	Slow   int

	cross crossover
}

func (s *SMACross) Initialize(sim.Broker) error {
	s.cross.init(s.Fast, s.Slow)
	return nil
}

func (s *SMACross) OnBar(b sim.Broker, g market.Group) error {
	bar, ok := g.Bar(s.Symbol)
	if !ok {
		return nil
	}

	pos := b.PositionSize(s.Symbol)
	switch s.cross.update(bar) {
	case crossUp:
		if pos == 0 {
			_, _ = b.Submit(sim.OrderRequest{
				Symbol: s.Symbol,
				Side:   sim.Buy,
				Size:   s.Size,
				Type:   sim.Market,
			})
		}
	case crossDown:
		if pos > 0 {
			_, _ = b.Submit(sim.OrderRequest{
				Symbol: s.Symbol,
				Side:   sim.Sell,
				Size:   pos,
				Type:   sim.Market,
			})
		}
	}
	return nil
}

type crossSignal int8

const (
	crossNone crossSignal = iota
	crossUp
	crossDown
)

// crossover tracks a fast and a slow SMA and reports the bar on which the
// fast average crosses the slow one. The first bar after warmup only records
// the baseline; signals start one bar later.
type crossover struct {
	fast, slow *indicators.SMA

	prevFast, prevSlow float64
	havePrev           bool
}

func (c *crossover) init(fast, slow int) {
	c.fast = indicators.NewSMA(fast)
	c.slow = indicators.NewSMA(slow)
	c.havePrev = false
}

func (c *crossover) update(bar market.Bar) crossSignal {
	c.fast.Update(bar)
	c.slow.Update(bar)

	fastNow, okF := c.fast.Value()
	slowNow, okS := c.slow.Value()
	if !okF || !okS {
		return crossNone
	}
	if !c.havePrev {
		c.prevFast, c.prevSlow = fastNow, slowNow
		c.havePrev = true
		return crossNone
	}

	sig := crossNone
	switch {
	case c.prevFast <= c.prevSlow && fastNow > slowNow:
		sig = crossUp
	case c.prevFast >= c.prevSlow && fastNow < slowNow:
		sig = crossDown
	}
	c.prevFast, c.prevSlow = fastNow, slowNow
	return sig
}

package sim

import (
	"time"

	"github.com/rustyeddy/propsim/market"
)

// Evaluate resolves fills for one bar-group. Orders are visited in id order,
// except that both legs of an OCO pair are reordered per the fill policy so
// the tie-break is deterministic when one bar satisfies both. Returns the
// filled orders in fill sequence.
//
// A symbol absent from the group is stale: its orders are skipped until the
// next bar arrives.
func (b *Book) Evaluate(g market.Group) []*Order {
	var work []int64
	for _, id := range b.seq {
		if b.orders[id].Status == Active {
			work = append(work, id)
		}
	}
	b.orderPairs(work)

	var fills []*Order
	for i := 0; i < len(work); i++ {
		o := b.orders[work[i]]
		if o.Status != Active {
			continue // cancelled by a sibling fill earlier in this group
		}
		bar, ok := g.Bar(o.Symbol)
		if !ok {
			continue
		}
		px, ok := b.tryFill(o, bar)
		if !ok {
			continue
		}
		b.fill(o, px, g.Time)
		fills = append(fills, o)

		grp, ok := b.groups[o.OCOGroup]
		if !ok {
			continue
		}
		switch o.ID {
		case grp.EntryID:
			legs := b.armLegs(grp, o)
			if b.cfg.SameBarBrackets {
				// Legs see the bar that filled their entry.
				work = append(work[:i+1], append(legs, work[i+1:]...)...)
			}
		case grp.TakeProfit, grp.StopLoss:
			// One leg filled: the sibling is cancelled before any other
			// order in the simulation is processed.
			b.resolveGroup(grp, o.ID)
		}
	}
	return fills
}

func (b *Book) fill(o *Order, px float64, at time.Time) {
	o.Status = Filled
	o.FillPrice = px
	o.FillTime = at
	b.emit(o)
}

// armLegs prices a bracket's legs off the entry fill and activates them.
// Returns the leg ids in policy evaluation order.
func (b *Book) armLegs(g *OCOGroup, entry *Order) []int64 {
	c := b.contracts[entry.Symbol]
	tp := b.orders[g.TakeProfit]
	sl := b.orders[g.StopLoss]

	if entry.Side == Buy {
		tp.Limit = entry.FillPrice + c.Ticks(g.TakeProfitTicks)
		sl.Stop = entry.FillPrice - c.Ticks(g.StopLossTicks)
	} else {
		tp.Limit = entry.FillPrice - c.Ticks(g.TakeProfitTicks)
		sl.Stop = entry.FillPrice + c.Ticks(g.StopLossTicks)
	}

	for _, leg := range []*Order{tp, sl} {
		if leg.Status == Pending {
			leg.Status = Active
			b.emit(leg)
		}
	}
	g.State = OCOActive

	if b.cfg.Policy == TakeProfitFirst {
		return []int64{tp.ID, sl.ID}
	}
	return []int64{sl.ID, tp.ID}
}

func (b *Book) resolveGroup(g *OCOGroup, filledLeg int64) {
	sibling := g.TakeProfit
	if filledLeg == g.TakeProfit {
		sibling = g.StopLoss
	}
	if s := b.orders[sibling]; s.Working() {
		b.cancel(s)
	}
	g.State = OCOResolved
}

// orderPairs reorders OCO legs in the worklist so the policy-preferred leg of
// each pair is evaluated first. All other orders keep id order.
func (b *Book) orderPairs(work []int64) {
	pos := make(map[int64]int, len(work))
	for i, id := range work {
		pos[id] = i
	}
	for _, g := range b.groups {
		first, second := g.StopLoss, g.TakeProfit
		if b.cfg.Policy == TakeProfitFirst {
			first, second = g.TakeProfit, g.StopLoss
		}
		i, ok1 := pos[first]
		j, ok2 := pos[second]
		if ok1 && ok2 && j < i {
			work[i], work[j] = work[j], work[i]
			pos[first], pos[second] = j, i
		}
	}
}

// tryFill evaluates one order against one bar using first-touch heuristics
// over the bar's OHLC. No intrabar path is known; stops approximate slippage
// by filling at the worse of stop price and bar open.
func (b *Book) tryFill(o *Order, bar market.Bar) (float64, bool) {
	switch o.Type {
	case Market:
		// First price known after submission.
		return bar.Open, true

	case Limit:
		return limitFill(o.Side, o.Limit, bar)

	case Stop:
		return stopFill(o.Side, o.Stop, bar)

	case StopLimit:
		if !o.triggered {
			if !stopTriggered(o.Side, o.Stop, bar) {
				return 0, false
			}
			o.triggered = true
			// Evaluate the limit against the remainder of the trigger bar,
			// entering at the stop trigger price.
			if o.Side == Buy {
				ref := maxf(o.Stop, bar.Open)
				if bar.Low <= o.Limit {
					return minf(ref, o.Limit), true
				}
			} else {
				ref := minf(o.Stop, bar.Open)
				if bar.High >= o.Limit {
					return maxf(ref, o.Limit), true
				}
			}
			return 0, false
		}
		return limitFill(o.Side, o.Limit, bar)
	}
	return 0, false
}

// limitFill: a buy fills when the bar trades at or below the limit, at the
// better of the limit and the bar open. Mirrored for sells.
func limitFill(side Side, limit float64, bar market.Bar) (float64, bool) {
	if side == Buy {
		if bar.Low > limit {
			return 0, false
		}
		return minf(limit, bar.Open), true
	}
	if bar.High < limit {
		return 0, false
	}
	return maxf(limit, bar.Open), true
}

// stopFill: a buy stop triggers when the bar trades at or above the stop and
// fills as a market order at the worse of stop and open. Mirrored for sells.
func stopFill(side Side, stop float64, bar market.Bar) (float64, bool) {
	if !stopTriggered(side, stop, bar) {
		return 0, false
	}
	if side == Buy {
		return maxf(stop, bar.Open), true
	}
	return minf(stop, bar.Open), true
}

func stopTriggered(side Side, stop float64, bar market.Bar) bool {
	if side == Buy {
		return bar.High >= stop
	}
	return bar.Low <= stop
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

package sim

import (
	"time"

	"github.com/rustyeddy/propsim/market"
)

// Position is the net position in one symbol: signed contract count and
// volume-weighted average entry price.
type Position struct {
	Symbol   string
	Size     int // positive long, negative short
	AvgEntry float64

	RealizedPL float64 // cumulative, gross of commission
	EntryTime  time.Time
	Updated    time.Time
}

func (p *Position) Long() bool  { return p.Size > 0 }
func (p *Position) Short() bool { return p.Size < 0 }
func (p *Position) Flat() bool  { return p.Size == 0 }

// UnrealizedPL marks the open quantity to a price.
func (p *Position) UnrealizedPL(mark float64, c market.Contract) float64 {
	if p.Size == 0 {
		return 0
	}
	return c.PL(p.AvgEntry, mark, p.Size)
}

// closed describes the portion of a position a fill closed out.
type closed struct {
	qty     int // always positive
	side    Side
	entry   float64
	entryAt time.Time
	grossPL float64
}

// apply merges a signed fill into the position. If the fill reduces or
// reverses the position it returns the closed portion with its gross P&L
// realized against the averaged entry price.
func (p *Position) apply(fillQty int, price float64, at time.Time, c market.Contract) (closed, bool) {
	defer func() { p.Updated = at }()

	switch {
	case p.Size == 0:
		p.Size = fillQty
		p.AvgEntry = price
		p.EntryTime = at
		return closed{}, false

	case sameSign(p.Size, fillQty):
		total := float64(p.Size)*p.AvgEntry + float64(fillQty)*price
		p.Size += fillQty
		p.AvgEntry = total / float64(p.Size)
		return closed{}, false
	}

	// Reducing, flattening, or reversing.
	closedQty := min(abs(fillQty), abs(p.Size))
	side := Buy
	if p.Size < 0 {
		side = Sell
	}
	// Closed quantity carries the sign of the position being closed.
	signed := closedQty * side.Sign()
	out := closed{
		qty:     closedQty,
		side:    side,
		entry:   p.AvgEntry,
		entryAt: p.EntryTime,
		grossPL: c.PL(p.AvgEntry, price, signed),
	}
	p.RealizedPL += out.grossPL

	remainder := p.Size + fillQty
	switch {
	case remainder == 0:
		p.Size = 0
		p.AvgEntry = 0
		p.EntryTime = time.Time{}
	case sameSign(remainder, p.Size):
		// Partial close, entry price unchanged.
		p.Size = remainder
	default:
		// Reversal: the crossing fill opens a fresh position at the fill price.
		p.Size = remainder
		p.AvgEntry = price
		p.EntryTime = at
	}
	return out, true
}

func sameSign(a, b int) bool { return (a > 0) == (b > 0) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

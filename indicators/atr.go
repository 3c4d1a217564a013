package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/propsim/market"
)

// ATR is a streaming Wilder average true range. Useful for sizing bracket
// offsets in ticks relative to current volatility.
type ATR struct {
	period int

	prevClose float64
	hasPrev   bool

	seed  []float64
	atr   float64
	ready bool
}

func NewATR(period int) *ATR {
	return &ATR{period: period, seed: make([]float64, 0, period)}
}

func (a *ATR) Name() string { return fmt.Sprintf("ATR(%d)", a.period) }

// Warmup needs one extra bar for the first true range.
func (a *ATR) Warmup() int { return a.period + 1 }

func (a *ATR) Reset() {
	a.prevClose = 0
	a.hasPrev = false
	a.seed = a.seed[:0]
	a.atr = 0
	a.ready = false
}

func (a *ATR) Update(b market.Bar) {
	if !a.hasPrev {
		a.prevClose = b.Close
		a.hasPrev = true
		return
	}

	tr := math.Max(b.High-b.Low,
		math.Max(math.Abs(b.High-a.prevClose), math.Abs(b.Low-a.prevClose)))
	a.prevClose = b.Close

	if !a.ready {
		a.seed = append(a.seed, tr)
		if len(a.seed) < a.period {
			return
		}
		sum := 0.0
		for _, v := range a.seed {
			sum += v
		}
		a.atr = sum / float64(a.period)
		a.ready = true
		return
	}

	// Wilder smoothing.
	a.atr = (a.atr*float64(a.period-1) + tr) / float64(a.period)
}

func (a *ATR) Value() (float64, bool) { return a.atr, a.ready }

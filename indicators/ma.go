package indicators

import (
	"fmt"

	"github.com/rustyeddy/propsim/market"
)

// SMA is a streaming simple moving average over closes.
type SMA struct {
	period int
	closes []float64
}

func NewSMA(period int) *SMA {
	return &SMA{period: period, closes: make([]float64, 0, period)}
}

func (s *SMA) Name() string { return fmt.Sprintf("SMA(%d)", s.period) }
func (s *SMA) Warmup() int  { return s.period }
func (s *SMA) Reset()       { s.closes = s.closes[:0] }

func (s *SMA) Update(b market.Bar) {
	s.closes = append(s.closes, b.Close)
	if len(s.closes) > s.period {
		s.closes = s.closes[1:]
	}
}

func (s *SMA) Value() (float64, bool) {
	if len(s.closes) < s.period {
		return 0, false
	}
	sum := 0.0
	for _, c := range s.closes {
		sum += c
	}
	return sum / float64(s.period), true
}

// EMA is a streaming exponential moving average over closes. Seeded with the
// SMA of the first period closes, then smoothed with 2/(period+1).
type EMA struct {
	period int
	seed   []float64
	ema    float64
	ready  bool
}

func NewEMA(period int) *EMA {
	return &EMA{period: period, seed: make([]float64, 0, period)}
}

func (e *EMA) Name() string { return fmt.Sprintf("EMA(%d)", e.period) }
func (e *EMA) Warmup() int  { return e.period }

func (e *EMA) Reset() {
	e.seed = e.seed[:0]
	e.ema = 0
	e.ready = false
}

func (e *EMA) Update(b market.Bar) {
	if !e.ready {
		e.seed = append(e.seed, b.Close)
		if len(e.seed) < e.period {
			return
		}
		sum := 0.0
		for _, c := range e.seed {
			sum += c
		}
		e.ema = sum / float64(e.period)
		e.ready = true
		return
	}
	k := 2.0 / float64(e.period+1)
	e.ema += (b.Close - e.ema) * k
}

func (e *EMA) Value() (float64, bool) { return e.ema, e.ready }

package market

import (
	"fmt"
	"time"
)

// Bar is a single OHLCV bar for one symbol and timeframe.
// Bars are immutable once produced by a feed.
type Bar struct {
	Symbol    string
	Timeframe time.Duration
	Time      time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Validate rejects bars a loader should never have let through.
func (b Bar) Validate() error {
	if b.Symbol == "" {
		return fmt.Errorf("bar: empty symbol")
	}
	if b.Time.IsZero() {
		return fmt.Errorf("bar %s: zero timestamp", b.Symbol)
	}
	if b.Low > b.High {
		return fmt.Errorf("bar %s @ %s: low %.4f > high %.4f",
			b.Symbol, b.Time.Format(time.RFC3339), b.Low, b.High)
	}
	if b.Open > b.High || b.Open < b.Low {
		return fmt.Errorf("bar %s @ %s: open %.4f outside range",
			b.Symbol, b.Time.Format(time.RFC3339), b.Open)
	}
	if b.Close > b.High || b.Close < b.Low {
		return fmt.Errorf("bar %s @ %s: close %.4f outside range",
			b.Symbol, b.Time.Format(time.RFC3339), b.Close)
	}
	if b.Volume < 0 {
		return fmt.Errorf("bar %s @ %s: negative volume", b.Symbol, b.Time.Format(time.RFC3339))
	}
	return nil
}

// Series is the full bar history for one symbol x timeframe, sorted by time.
type Series struct {
	Symbol    string
	Timeframe time.Duration
	Bars      []Bar
}

func NewSeries(symbol string, timeframe time.Duration, bars []Bar) (*Series, error) {
	if symbol == "" {
		return nil, fmt.Errorf("series: empty symbol")
	}
	if timeframe <= 0 {
		return nil, fmt.Errorf("series %s: non-positive timeframe", symbol)
	}
	for i := range bars {
		bars[i].Symbol = symbol
		bars[i].Timeframe = timeframe
		if err := bars[i].Validate(); err != nil {
			return nil, err
		}
	}
	return &Series{Symbol: symbol, Timeframe: timeframe, Bars: bars}, nil
}

func (s *Series) Len() int { return len(s.Bars) }

package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/propsim/market"
)

func closeBars(closes ...float64) []market.Bar {
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{Open: c, High: c + 1, Low: c - 1, Close: c}
	}
	return bars
}

func TestSMAStreaming(t *testing.T) {
	sma := NewSMA(3)
	assert.Equal(t, "SMA(3)", sma.Name())
	assert.Equal(t, 3, sma.Warmup())

	bars := closeBars(102, 105, 106, 108)

	sma.Update(bars[0])
	sma.Update(bars[1])
	_, ok := sma.Value()
	assert.False(t, ok, "not warm before period closes")

	sma.Update(bars[2])
	v, ok := sma.Value()
	assert.True(t, ok)
	assert.InDelta(t, (102.0+105+106)/3, v, 1e-9)

	// Rolls the window.
	sma.Update(bars[3])
	v, _ = sma.Value()
	assert.InDelta(t, (105.0+106+108)/3, v, 1e-9)

	sma.Reset()
	_, ok = sma.Value()
	assert.False(t, ok)
}

func TestEMAStreaming(t *testing.T) {
	ema := NewEMA(3)
	assert.Equal(t, "EMA(3)", ema.Name())

	for _, b := range closeBars(102, 105, 106) {
		ema.Update(b)
	}
	v, ok := ema.Value()
	assert.True(t, ok)
	// Seeded with the SMA of the first 3 closes.
	assert.InDelta(t, (102.0+105+106)/3, v, 1e-9)

	// k = 2/(3+1) = 0.5
	ema.Update(closeBars(110)[0])
	v, _ = ema.Value()
	prev := (102.0 + 105 + 106) / 3
	assert.InDelta(t, prev+(110-prev)*0.5, v, 1e-9)
}

func TestATRStreaming(t *testing.T) {
	atr := NewATR(3)
	assert.Equal(t, 4, atr.Warmup())

	bars := []market.Bar{
		{High: 10, Low: 8, Close: 9},
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
	}

	atr.Update(bars[0]) // baseline close only
	atr.Update(bars[1])
	atr.Update(bars[2])
	_, ok := atr.Value()
	assert.False(t, ok)

	// True ranges are all 2 here; first ATR is their mean.
	atr.Update(bars[3])
	v, ok := atr.Value()
	assert.True(t, ok)
	assert.InDelta(t, 2, v, 1e-9)

	// Wilder smoothing of another TR of 2 stays at 2.
	atr.Update(bars[4])
	v, _ = atr.Value()
	assert.InDelta(t, 2, v, 1e-9)
}

func TestATRGapTrueRange(t *testing.T) {
	atr := NewATR(1)
	atr.Update(market.Bar{High: 100, Low: 98, Close: 99})
	// Gap up: TR = high - prevClose = 6, larger than the 2-point range.
	atr.Update(market.Bar{High: 105, Low: 103, Close: 104})
	v, ok := atr.Value()
	assert.True(t, ok)
	assert.InDelta(t, 6, v, 1e-9)
}

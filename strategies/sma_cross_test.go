package strategies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/propsim/market"
	"github.com/rustyeddy/propsim/sim"
)

// fakeBroker records submissions so strategy logic can be tested without an
// engine.
type fakeBroker struct {
	position int

	submits  []sim.OrderRequest
	brackets []sim.OrderRequest
	nextID   int64
}

func (f *fakeBroker) Submit(req sim.OrderRequest) (int64, error) {
	f.submits = append(f.submits, req)
	f.nextID++
	return f.nextID, nil
}

func (f *fakeBroker) SubmitBracket(entry sim.OrderRequest, tpTicks, slTicks int) (sim.BracketIDs, error) {
	f.brackets = append(f.brackets, entry)
	f.nextID += 3
	return sim.BracketIDs{Entry: f.nextID - 2, TakeProfit: f.nextID - 1, StopLoss: f.nextID}, nil
}

func (f *fakeBroker) Cancel(int64) error                 { return nil }
func (f *fakeBroker) CancelAll(string)                   {}
func (f *fakeBroker) Order(int64) (sim.Order, bool)      { return sim.Order{}, false }
func (f *fakeBroker) PositionSize(string) int            { return f.position }
func (f *fakeBroker) Account() sim.Account               { return sim.Account{} }
func (f *fakeBroker) LastBar(string) (market.Bar, bool)  { return market.Bar{}, false }
func (f *fakeBroker) Contract(symbol string) (market.Contract, error) {
	return market.GetContract(symbol)
}

func startStrategy(t *testing.T, s sim.Strategy, b *fakeBroker) {
	t.Helper()
	require.NoError(t, s.Initialize(b))
}

func feedCloses(t *testing.T, s sim.Strategy, b *fakeBroker, closes []float64) {
	t.Helper()
	t0 := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	for i, c := range closes {
		g := market.Group{
			Time: t0.Add(time.Duration(i) * time.Minute),
			Bars: []market.Bar{{
				Symbol: "MES", Timeframe: time.Minute,
				Time: t0.Add(time.Duration(i) * time.Minute),
				Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 100,
			}},
		}
		require.NoError(t, s.OnBar(b, g))
	}
}

func TestSMACrossGoldenCrossBuys(t *testing.T) {
	b := &fakeBroker{}
	s := &SMACross{Symbol: "MES", Size: 2, Fast: 2, Slow: 3}
	startStrategy(t, s, b)

	// Downtrend establishes fast below slow, then a sharp rally crosses up.
	feedCloses(t, s, b, []float64{5010, 5005, 5000, 4995, 5020})

	require.Len(t, b.submits, 1)
	req := b.submits[0]
	assert.Equal(t, sim.Buy, req.Side)
	assert.Equal(t, 2, req.Size)
	assert.Equal(t, sim.Market, req.Type)
}

func TestSMACrossDeathCrossFlattens(t *testing.T) {
	b := &fakeBroker{position: 2}
	s := &SMACross{Symbol: "MES", Size: 2, Fast: 2, Slow: 3}
	startStrategy(t, s, b)

	// Uptrend, then a sharp drop crosses down while long.
	feedCloses(t, s, b, []float64{4990, 4995, 5000, 5005, 4980})

	require.Len(t, b.submits, 1)
	req := b.submits[0]
	assert.Equal(t, sim.Sell, req.Side)
	assert.Equal(t, 2, req.Size) // exits the whole position
}

func TestSMACrossNeedsWarmup(t *testing.T) {
	b := &fakeBroker{}
	s := &SMACross{Symbol: "MES", Size: 1, Fast: 2, Slow: 3}
	startStrategy(t, s, b)

	feedCloses(t, s, b, []float64{4995, 5020, 5030})
	assert.Empty(t, b.submits, "no signals before slow+1 closes")
}

func TestSMACrossIgnoresOtherSymbols(t *testing.T) {
	b := &fakeBroker{}
	s := &SMACross{Symbol: "MNQ", Size: 1, Fast: 2, Slow: 3}
	startStrategy(t, s, b)

	feedCloses(t, s, b, []float64{5010, 5005, 5000, 4995, 5020})
	assert.Empty(t, b.submits)
}

func TestBracketEntersWithLegs(t *testing.T) {
	b := &fakeBroker{}
	s := &Bracket{Symbol: "MES", Size: 1, Fast: 2, Slow: 3, TakeProfitTicks: 20, StopLossTicks: 10}
	startStrategy(t, s, b)

	feedCloses(t, s, b, []float64{5010, 5005, 5000, 4995, 5020})

	require.Len(t, b.brackets, 1)
	assert.Equal(t, sim.Buy, b.brackets[0].Side)
	assert.Empty(t, b.submits, "bracket strategies never place naked orders")
}

func TestBracketWaitsForResolution(t *testing.T) {
	b := &fakeBroker{}
	s := &Bracket{Symbol: "MES", Size: 1, Fast: 2, Slow: 3, TakeProfitTicks: 20, StopLossTicks: 10}
	startStrategy(t, s, b)

	// Two golden crosses. The second must be ignored while the first bracket
	// is still working.
	feedCloses(t, s, b, []float64{5010, 5005, 5000, 4995, 5020, 5000, 4980, 4975, 5020})
	require.Len(t, b.brackets, 1)

	// Once the trade closes, the next cross may enter again.
	s.OnTradeClosed(sim.Trade{})
	feedCloses(t, s, b, []float64{5000, 4980, 4975, 5020})
	assert.Len(t, b.brackets, 2)
}

func TestByName(t *testing.T) {
	s, err := ByName("sma-cross", "MES", 1, 10, 30, 0, 0)
	require.NoError(t, err)
	assert.IsType(t, &SMACross{}, s)

	s, err = ByName("Bracket", "MES", 1, 10, 30, 20, 10)
	require.NoError(t, err)
	assert.IsType(t, &Bracket{}, s)

	s, err = ByName("noop", "", 0, 0, 0, 0, 0)
	require.NoError(t, err)
	assert.IsType(t, Noop{}, s)

	_, err = ByName("martingale", "MES", 1, 0, 0, 0, 0)
	assert.Error(t, err)
}

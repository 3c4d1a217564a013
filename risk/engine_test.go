package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(t time.Time, balance, equity float64) Snapshot {
	return Snapshot{Time: t, Balance: balance, Equity: equity}
}

func TestNewEngineValidatesFirm(t *testing.T) {
	_, err := NewEngine(Firm{Name: "bad", InitialBalance: 0, Drawdown: DrawdownNone})
	require.Error(t, err)

	_, err = NewEngine(Firm{Name: "bad", InitialBalance: 50000, Drawdown: "weekly"})
	require.Error(t, err)

	_, err = NewEngine(Firm{Name: "bad", InitialBalance: 50000, Drawdown: DrawdownNone, PositionCloseTime: "25:00"})
	require.Error(t, err)
}

func TestDailyLossOnBalance(t *testing.T) {
	e, err := NewEngine(Firm{
		Name: "t", InitialBalance: 50000, MaxDailyLoss: 1000, Drawdown: DrawdownNone,
	})
	require.NoError(t, err)

	t0 := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

	d := e.Evaluate(snap(t0, 50000, 50000))
	assert.False(t, d.Halt)

	// Unrealized losses don't count: the rule reads the balance.
	d = e.Evaluate(snap(t0.Add(time.Minute), 50000, 48000))
	assert.False(t, d.Halt)

	d = e.Evaluate(snap(t0.Add(2*time.Minute), 49000.5, 49000.5))
	assert.False(t, d.Halt)

	d = e.Evaluate(snap(t0.Add(3*time.Minute), 49000, 49000))
	assert.True(t, d.Halt)
	assert.Equal(t, DailyLossBreach, d.Reason)
	assert.True(t, e.Halted())
}

func TestDailyLossResetsAtRollover(t *testing.T) {
	e, err := NewEngine(Firm{
		Name: "t", InitialBalance: 50000, MaxDailyLoss: 1000, Drawdown: DrawdownNone,
	})
	require.NoError(t, err)

	day1 := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)

	// Down 900 on day 1: within the limit.
	d := e.Evaluate(snap(day1, 49100, 49100))
	assert.False(t, d.Halt)
	assert.False(t, d.NewDay)

	// Day 2 re-anchors on the rolled-over balance; another 900 is fine.
	d = e.Evaluate(snap(day2, 49100, 49100))
	assert.True(t, d.NewDay)
	assert.False(t, d.Halt)

	d = e.Evaluate(snap(day2.Add(time.Minute), 48200, 48200))
	assert.False(t, d.Halt)

	d = e.Evaluate(snap(day2.Add(2*time.Minute), 48100, 48100))
	assert.True(t, d.Halt)
	assert.Equal(t, DailyLossBreach, d.Reason)
}

func TestFirstGroupCanBreachDailyLoss(t *testing.T) {
	e, err := NewEngine(Firm{
		Name: "t", InitialBalance: 50000, MaxDailyLoss: 1000, Drawdown: DrawdownNone,
	})
	require.NoError(t, err)

	// The very first evaluation compares against the initial balance; it must
	// not re-anchor on an already-damaged balance.
	d := e.Evaluate(snap(time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC), 48900, 48900))
	assert.True(t, d.Halt)
	assert.Equal(t, DailyLossBreach, d.Reason)
}

func TestEODTrailingRaisesHighWaterAtRolloverOnly(t *testing.T) {
	e, err := NewEngine(Firm{
		Name: "t", InitialBalance: 50000, MaxLoss: 2000, Drawdown: DrawdownEOD,
	})
	require.NoError(t, err)

	day1 := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)

	// Intraday equity spike does not move the reference.
	d := e.Evaluate(snap(day1, 50000, 53000))
	assert.InDelta(t, 50000, d.HighWater, 1e-9)

	// Same day: a fall back to 48500 is measured from 50000, not 53000.
	d = e.Evaluate(snap(day1.Add(time.Minute), 50000, 48500))
	assert.False(t, d.Halt)

	// Day 1 closed at 48500, below the mark: the high-water stays put.
	d = e.Evaluate(snap(day2, 50000, 51000))
	assert.True(t, d.NewDay)
	assert.InDelta(t, 50000, d.HighWater, 1e-9)

	// Day 2 closes at 51000; day 3 trails from there.
	day3 := day2.AddDate(0, 0, 1)
	d = e.Evaluate(snap(day3, 50000, 49001))
	assert.InDelta(t, 51000, d.HighWater, 1e-9)
	assert.False(t, d.Halt)

	d = e.Evaluate(snap(day3.Add(time.Minute), 50000, 49000))
	assert.True(t, d.Halt)
	assert.Equal(t, MaxLossBreach, d.Reason)
}

func TestIntradayTrailingMovesContinuously(t *testing.T) {
	e, err := NewEngine(Firm{
		Name: "t", InitialBalance: 50000, MaxLoss: 2000, Drawdown: DrawdownIntraday,
	})
	require.NoError(t, err)

	t0 := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

	d := e.Evaluate(snap(t0, 50000, 53000))
	assert.InDelta(t, 53000, d.HighWater, 1e-9)
	assert.False(t, d.Halt)

	// The mark never retreats.
	d = e.Evaluate(snap(t0.Add(time.Minute), 50000, 51500))
	assert.InDelta(t, 53000, d.HighWater, 1e-9)
	assert.False(t, d.Halt)

	d = e.Evaluate(snap(t0.Add(2*time.Minute), 50000, 51000))
	assert.True(t, d.Halt)
	assert.Equal(t, MaxLossBreach, d.Reason)
}

func TestStaticDrawdownAnchorsOnInitialBalance(t *testing.T) {
	e, err := NewEngine(Firm{
		Name: "t", InitialBalance: 50000, MaxLoss: 2000, Drawdown: DrawdownStatic,
	})
	require.NoError(t, err)

	t0 := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

	// Profits never raise the floor.
	d := e.Evaluate(snap(t0, 55000, 55000))
	assert.False(t, d.Halt)

	d = e.Evaluate(snap(t0.Add(time.Minute), 48001, 48001))
	assert.False(t, d.Halt)

	d = e.Evaluate(snap(t0.Add(2*time.Minute), 48000, 48000))
	assert.True(t, d.Halt)
	assert.Equal(t, MaxLossBreach, d.Reason)
}

func TestCloseTimeFlattensOncePerDay(t *testing.T) {
	e, err := NewEngine(Firm{
		Name: "t", InitialBalance: 50000, Drawdown: DrawdownNone, PositionCloseTime: "16:00",
	})
	require.NoError(t, err)

	day1 := time.Date(2024, 3, 4, 15, 59, 0, 0, time.UTC)

	d := e.Evaluate(snap(day1, 50000, 50000))
	assert.False(t, d.Flatten)

	d = e.Evaluate(snap(day1.Add(time.Minute), 50000, 50000)) // 16:00
	assert.True(t, d.Flatten)
	assert.Equal(t, "CloseTime", d.FlattenReason)

	// Not re-issued for later bars the same day.
	d = e.Evaluate(snap(day1.Add(2*time.Minute), 50000, 50000))
	assert.False(t, d.Flatten)

	// Re-armed after the rollover.
	day2 := day1.AddDate(0, 0, 1).Add(time.Minute)
	d = e.Evaluate(snap(day2, 50000, 50000))
	assert.True(t, d.NewDay)
	assert.True(t, d.Flatten)
}

func TestHaltIsTerminal(t *testing.T) {
	e, err := NewEngine(Firm{
		Name: "t", InitialBalance: 50000, MaxDailyLoss: 1000, Drawdown: DrawdownNone,
	})
	require.NoError(t, err)

	t0 := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

	d := e.Evaluate(snap(t0, 48000, 48000))
	require.True(t, d.Halt)

	// Recovery does not clear the halt; evaluations end on breach.
	d = e.Evaluate(snap(t0.Add(time.Minute), 52000, 52000))
	assert.True(t, d.Halt)
	assert.Equal(t, DailyLossBreach, d.Reason)
	assert.True(t, e.Halted())
	assert.Equal(t, DailyLossBreach, e.HaltReason())
}

package market

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrClockDesync means a series delivered a bar at or before a timestamp the
// clock already emitted. The total order over bar-groups is what every
// account-wide risk rule depends on, so this aborts the run.
var ErrClockDesync = errors.New("bar clock desync")

// Group holds every bar sharing one timestamp, across all symbols and
// timeframes. A symbol missing from the group simply had no bar at this
// timestamp; its last known bar is stale until the next one arrives.
type Group struct {
	Time time.Time
	Bars []Bar
}

// Bar returns the execution bar for a symbol: the bar with the smallest
// timeframe present in this group. ok is false if the symbol has no bar here.
func (g Group) Bar(symbol string) (Bar, bool) {
	var best Bar
	found := false
	for _, b := range g.Bars {
		if b.Symbol != symbol {
			continue
		}
		if !found || b.Timeframe < best.Timeframe {
			best = b
			found = true
		}
	}
	return best, found
}

// Symbols returns the distinct symbols present in the group, sorted.
func (g Group) Symbols() []string {
	seen := map[string]bool{}
	var out []string
	for _, b := range g.Bars {
		if !seen[b.Symbol] {
			seen[b.Symbol] = true
			out = append(out, b.Symbol)
		}
	}
	sort.Strings(out)
	return out
}

// Clock merges N independently-timestamped bar series into one globally
// ordered stream of bar-groups. It is a forward-only iterator; restarting
// means building a new Clock.
type Clock struct {
	series []*Series
	cursor []int
	last   time.Time
	// started guards the first-group case where last is still zero.
	started bool
}

func NewClock(series ...*Series) (*Clock, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("clock: no series")
	}
	for _, s := range series {
		if s == nil || s.Len() == 0 {
			return nil, fmt.Errorf("clock: empty series")
		}
	}
	return &Clock{
		series: series,
		cursor: make([]int, len(series)),
	}, nil
}

// Next returns the next bar-group in ascending timestamp order.
// ok is false when every input series is exhausted.
func (c *Clock) Next() (Group, bool, error) {
	var next time.Time
	have := false

	for i, s := range c.series {
		if c.cursor[i] >= s.Len() {
			continue
		}
		ts := s.Bars[c.cursor[i]].Time
		if !have || ts.Before(next) {
			next = ts
			have = true
		}
	}
	if !have {
		return Group{}, false, nil
	}

	if c.started && !next.After(c.last) {
		return Group{}, false, fmt.Errorf("%w: bar at %s after group %s already emitted",
			ErrClockDesync, next.Format(time.RFC3339), c.last.Format(time.RFC3339))
	}

	g := Group{Time: next}
	for i, s := range c.series {
		for c.cursor[i] < s.Len() && s.Bars[c.cursor[i]].Time.Equal(next) {
			g.Bars = append(g.Bars, s.Bars[c.cursor[i]])
			c.cursor[i]++
		}
		// A bar behind the merge point means the series was not sorted.
		if c.cursor[i] < s.Len() && s.Bars[c.cursor[i]].Time.Before(next) {
			return Group{}, false, fmt.Errorf("%w: %s bar at %s out of order",
				ErrClockDesync, s.Symbol, s.Bars[c.cursor[i]].Time.Format(time.RFC3339))
		}
	}

	c.last = next
	c.started = true
	return g, true, nil
}

package strategies

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/propsim/sim"
)

// Base provides no-op notification handlers so strategies only implement
// what they care about.
type Base struct{}

func (Base) Initialize(sim.Broker) error { return nil }
func (Base) OnOrderUpdate(sim.Order)     {}
func (Base) OnTradeClosed(sim.Trade)     {}

// ByName builds a strategy from its CLI name and parameters.
func ByName(name, symbol string, size, fast, slow, tpTicks, slTicks int) (sim.Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil

	case "sma-cross", "smacross":
		return &SMACross{
			Symbol: symbol,
			Size:   size,
			Fast:   fast,
			Slow:   slow,
		}, nil

	case "bracket":
		return &Bracket{
			Symbol:          symbol,
			Size:            size,
			Fast:            fast,
			Slow:            slow,
			TakeProfitTicks: tpTicks,
			StopLossTicks:   slTicks,
		}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q (known: noop, sma-cross, bracket)", name)
}

package strategies

import (
	"github.com/rustyeddy/propsim/market"
	"github.com/rustyeddy/propsim/sim"
)

// Noop does nothing. Baseline for engine and risk-rule tests: any trade or
// violation observed under Noop comes from the engine itself.
type Noop struct {
	Base
}

func (Noop) OnBar(sim.Broker, market.Group) error { return nil }

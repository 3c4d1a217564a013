package strategies

import (
	"github.com/rustyeddy/propsim/market"
	"github.com/rustyeddy/propsim/sim"
)

// Bracket enters on the golden cross but always with a bracket: a market
// entry plus linked take-profit and stop-loss legs, so every position carries
// a protective stop. Exits are left entirely to the legs.
type Bracket struct {
	Base

	Symbol string
	Size   int
	Fast   int
	Slow   int

	TakeProfitTicks int
	StopLossTicks   int

	cross   crossover
	working bool
}

func (s *Bracket) Initialize(sim.Broker) error {
	s.cross.init(s.Fast, s.Slow)
	s.working = false
	return nil
}

func (s *Bracket) OnBar(b sim.Broker, g market.Group) error {
	bar, ok := g.Bar(s.Symbol)
	if !ok {
		return nil
	}

	sig := s.cross.update(bar)
	if s.working || b.PositionSize(s.Symbol) != 0 {
		return nil
	}

	if sig == crossUp {
		_, err := b.SubmitBracket(sim.OrderRequest{
			Symbol: s.Symbol,
			Side:   sim.Buy,
			Size:   s.Size,
			Type:   sim.Market,
		}, s.TakeProfitTicks, s.StopLossTicks)
		s.working = err == nil
	}
	return nil
}

// OnTradeClosed re-arms the strategy once the bracket resolves.
func (s *Bracket) OnTradeClosed(sim.Trade) { s.working = false }

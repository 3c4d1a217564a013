// Package indicators provides streaming technical indicators over bars.
// Indicators keep only the state they need, so a strategy can feed them bar
// by bar without holding the full history itself.
package indicators

import "github.com/rustyeddy/propsim/market"

// Indicator consumes bars and exposes a current value once warmed up.
type Indicator interface {
	Name() string

	// Warmup is the number of bars needed before Value is meaningful.
	Warmup() int

	Update(market.Bar)

	// Value returns the current reading; ok is false during warmup.
	Value() (v float64, ok bool)

	Reset()
}

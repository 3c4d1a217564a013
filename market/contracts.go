package market

import (
	"fmt"
	"sort"
	"strings"
)

// Contract describes a futures contract: tick geometry, dollar values and
// margin estimates. The table below covers the CME micro contracts.
type Contract struct {
	Symbol          string
	Name            string
	TickSize        float64
	TickValue       float64 // $ per tick
	PointValue      float64 // $ per full point
	MarginDay       float64
	MarginOvernight float64
	SessionClose    string // ET, end of the daily session
}

var contracts = map[string]Contract{
	"MES": {
		Symbol:          "MES",
		Name:            "Micro E-mini S&P 500",
		TickSize:        0.25,
		TickValue:       1.25,
		PointValue:      5.0,
		MarginDay:       200.0,
		MarginOvernight: 1100.0,
		SessionClose:    "17:00",
	},
	"MNQ": {
		Symbol:          "MNQ",
		Name:            "Micro E-mini Nasdaq-100",
		TickSize:        0.25,
		TickValue:       0.50,
		PointValue:      2.0,
		MarginDay:       100.0,
		MarginOvernight: 660.0,
		SessionClose:    "17:00",
	},
	"MGC": {
		Symbol:          "MGC",
		Name:            "Micro Gold",
		TickSize:        0.10,
		TickValue:       1.00,
		PointValue:      10.0,
		MarginDay:       250.0,
		MarginOvernight: 1100.0,
		SessionClose:    "17:00",
	},
	"MYM": {
		Symbol:          "MYM",
		Name:            "Micro E-mini Dow",
		TickSize:        1.00,
		TickValue:       0.50,
		PointValue:      0.50,
		MarginDay:       100.0,
		MarginOvernight: 880.0,
		SessionClose:    "17:00",
	},
}

// GetContract looks up a contract spec by symbol.
func GetContract(symbol string) (Contract, error) {
	c, ok := contracts[strings.ToUpper(symbol)]
	if !ok {
		return Contract{}, fmt.Errorf("unknown contract symbol %q (known: %s)",
			symbol, strings.Join(ContractSymbols(), ", "))
	}
	return c, nil
}

// ContractSymbols returns the known contract symbols, sorted.
func ContractSymbols() []string {
	out := make([]string, 0, len(contracts))
	for s := range contracts {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// PL converts a price move into dollars for a signed contract count
// (positive long, negative short).
func (c Contract) PL(entry, exit float64, contracts int) float64 {
	ticks := (exit - entry) / c.TickSize
	return ticks * c.TickValue * float64(contracts)
}

// Ticks converts a tick count into a price offset.
func (c Contract) Ticks(n int) float64 {
	return float64(n) * c.TickSize
}

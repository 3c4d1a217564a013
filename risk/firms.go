package risk

import (
	"fmt"
	"sort"
	"strings"
)

// Preset rule sets for the evaluation accounts we test against. Values match
// the published rules as of the time of writing; treat them as defaults, not
// gospel.
var firms = map[string]Firm{
	"topstep_50k": {
		Name:              "Topstep 50K",
		InitialBalance:    50_000,
		MaxDailyLoss:      1_000,
		MaxLoss:           2_000,
		Drawdown:          DrawdownEOD,
		PositionCloseTime: "16:00",
		MaxContracts:      5,
		ProfitTarget:      3_000,
		MinTradingDays:    4,
	},
	"topstep_100k": {
		Name:              "Topstep 100K",
		InitialBalance:    100_000,
		MaxDailyLoss:      2_000,
		MaxLoss:           3_000,
		Drawdown:          DrawdownEOD,
		PositionCloseTime: "16:00",
		MaxContracts:      10,
		ProfitTarget:      6_000,
		MinTradingDays:    4,
	},
	"topstep_150k": {
		Name:              "Topstep 150K",
		InitialBalance:    150_000,
		MaxDailyLoss:      3_000,
		MaxLoss:           4_500,
		Drawdown:          DrawdownEOD,
		PositionCloseTime: "16:00",
		MaxContracts:      15,
		ProfitTarget:      9_000,
		MinTradingDays:    4,
	},
	"lucid_50k": {
		Name:              "Lucid 50K",
		InitialBalance:    50_000,
		MaxDailyLoss:      1_000,
		MaxLoss:           2_500,
		Drawdown:          DrawdownIntraday,
		PositionCloseTime: "17:00",
		MaxContracts:      5,
		ProfitTarget:      2_500,
		MinTradingDays:    3,
	},
	"lucid_100k": {
		Name:              "Lucid 100K",
		InitialBalance:    100_000,
		MaxDailyLoss:      2_000,
		MaxLoss:           3_500,
		Drawdown:          DrawdownIntraday,
		PositionCloseTime: "17:00",
		MaxContracts:      10,
		ProfitTarget:      5_000,
		MinTradingDays:    3,
	},
	"take_profit_50k": {
		Name:              "Take Profit Trader 50K",
		InitialBalance:    50_000,
		MaxDailyLoss:      1_250,
		MaxLoss:           2_500,
		Drawdown:          DrawdownIntraday,
		PositionCloseTime: "17:00",
		MaxContracts:      5,
		ProfitTarget:      3_000,
		MinTradingDays:    3,
	},
	"take_profit_100k": {
		Name:              "Take Profit Trader 100K",
		InitialBalance:    100_000,
		MaxDailyLoss:      2_500,
		MaxLoss:           3_500,
		Drawdown:          DrawdownIntraday,
		PositionCloseTime: "17:00",
		MaxContracts:      10,
		ProfitTarget:      6_000,
		MinTradingDays:    3,
	},
}

// FirmByName looks up a preset by key ("topstep_50k") or display name
// ("Topstep 50K").
func FirmByName(name string) (Firm, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
	if f, ok := firms[key]; ok {
		return f, nil
	}
	return Firm{}, fmt.Errorf("unknown prop firm %q (known: %s)",
		name, strings.Join(FirmNames(), ", "))
}

// FirmNames returns the preset keys, sorted.
func FirmNames() []string {
	out := make([]string, 0, len(firms))
	for k := range firms {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

package risk

import (
	"fmt"
	"strconv"
	"strings"
)

// DrawdownType selects how the max-loss limit trails equity.
type DrawdownType string

const (
	// DrawdownEOD trails from the high-water-mark fixed at day boundaries.
	DrawdownEOD DrawdownType = "eod_trailing"
	// DrawdownIntraday trails from the running high-water-mark, updated
	// continuously.
	DrawdownIntraday DrawdownType = "intraday_trailing"
	// DrawdownStatic measures the max loss from the initial balance.
	DrawdownStatic DrawdownType = "static"
	// DrawdownNone disables the max-loss check.
	DrawdownNone DrawdownType = "none"
)

// HaltReason names the rule that ended an evaluation.
type HaltReason string

const (
	HaltNone       HaltReason = ""
	DailyLossBreach HaltReason = "DailyLossBreach"
	MaxLossBreach   HaltReason = "MaxLossBreach"
)

// Firm is one prop-firm rule set. Immutable; passed into the account at
// construction.
type Firm struct {
	Name string `yaml:"name" json:"name"`

	InitialBalance float64 `yaml:"initial_balance" json:"initial_balance"`
	MaxDailyLoss   float64 `yaml:"max_daily_loss" json:"max_daily_loss"`
	MaxLoss        float64 `yaml:"max_loss" json:"max_loss"`

	Drawdown DrawdownType `yaml:"drawdown" json:"drawdown"`

	// PositionCloseTime is the time of day ("16:00") past which all open
	// positions are force-closed. Empty disables the check.
	PositionCloseTime string `yaml:"position_close_time" json:"position_close_time"`

	MaxContracts int `yaml:"max_contracts" json:"max_contracts"`

	// Informational evaluation terms; not enforced by the engine.
	ProfitTarget   float64 `yaml:"profit_target" json:"profit_target"`
	MinTradingDays int     `yaml:"min_trading_days" json:"min_trading_days"`
}

func (f Firm) Validate() error {
	if f.InitialBalance <= 0 {
		return fmt.Errorf("firm %q: initial balance must be positive", f.Name)
	}
	if f.MaxDailyLoss < 0 || f.MaxLoss < 0 {
		return fmt.Errorf("firm %q: loss limits must be non-negative", f.Name)
	}
	switch f.Drawdown {
	case DrawdownEOD, DrawdownIntraday, DrawdownStatic, DrawdownNone:
	default:
		return fmt.Errorf("firm %q: unknown drawdown type %q", f.Name, f.Drawdown)
	}
	if f.PositionCloseTime != "" {
		if _, _, err := parseClock(f.PositionCloseTime); err != nil {
			return fmt.Errorf("firm %q: %w", f.Name, err)
		}
	}
	if f.MaxContracts < 0 {
		return fmt.Errorf("firm %q: max contracts must be non-negative", f.Name)
	}
	return nil
}

// parseClock parses "HH:MM" (or bare "HH") into hour and minute.
func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("bad time of day %q", s)
	}
	if len(parts) == 2 {
		minute, err = strconv.Atoi(parts[1])
		if err != nil || minute < 0 || minute > 59 {
			return 0, 0, fmt.Errorf("bad time of day %q", s)
		}
	}
	return hour, minute, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rustyeddy/propsim/risk"
	"gopkg.in/yaml.v3"
)

// Config is the complete simulation configuration.
type Config struct {
	Firm       FirmConfig       `json:"firm" yaml:"firm"`
	Strategy   StrategyConfig   `json:"strategy" yaml:"strategy"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
}

// FirmConfig selects a prop-firm rule set: either a preset by name or a full
// inline rule set. Preset wins when both are given.
type FirmConfig struct {
	Preset string     `json:"preset,omitempty" yaml:"preset,omitempty"`
	Rules  *risk.Firm `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Resolve returns the effective firm rule set.
func (f FirmConfig) Resolve() (risk.Firm, error) {
	if f.Preset != "" {
		return risk.FirmByName(f.Preset)
	}
	if f.Rules == nil {
		return risk.Firm{}, fmt.Errorf("firm: preset or rules required")
	}
	if err := f.Rules.Validate(); err != nil {
		return risk.Firm{}, err
	}
	return *f.Rules, nil
}

// StrategyConfig contains strategy selection and parameters.
type StrategyConfig struct {
	Name   string `json:"name" yaml:"name"`
	Symbol string `json:"symbol" yaml:"symbol"`
	Size   int    `json:"size" yaml:"size"`
	Fast   int    `json:"fast,omitempty" yaml:"fast,omitempty"`
	Slow   int    `json:"slow,omitempty" yaml:"slow,omitempty"`

	TakeProfitTicks int `json:"take_profit_ticks,omitempty" yaml:"take_profit_ticks,omitempty"`
	StopLossTicks   int `json:"stop_loss_ticks,omitempty" yaml:"stop_loss_ticks,omitempty"`
}

// DataFile names one bar CSV and its symbol/timeframe.
type DataFile struct {
	Path      string `json:"path" yaml:"path"`
	Symbol    string `json:"symbol" yaml:"symbol"`
	Timeframe string `json:"timeframe" yaml:"timeframe"` // e.g. "1m", "5m"
}

// ParseTimeframe converts the timeframe string to a duration.
func (d DataFile) ParseTimeframe() (time.Duration, error) {
	if d.Timeframe == "" {
		return time.Minute, nil
	}
	return time.ParseDuration(d.Timeframe)
}

// SimulationConfig contains execution parameters.
type SimulationConfig struct {
	Data []DataFile `json:"data" yaml:"data"`

	CommissionPerContract float64 `json:"commission_per_contract" yaml:"commission_per_contract"`

	// TieBreak is "stop-first" (default) or "take-profit-first".
	TieBreak string `json:"tie_break,omitempty" yaml:"tie_break,omitempty"`

	// SameBarBrackets evaluates bracket legs on the entry's own bar.
	SameBarBrackets bool `json:"same_bar_brackets,omitempty" yaml:"same_bar_brackets,omitempty"`

	CloseEnd bool `json:"close_end" yaml:"close_end"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML by extension).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	switch ext := filepath.Ext(path); ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse json config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config extension %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the parts the loader can check without touching disk.
func (c *Config) Validate() error {
	if _, err := c.Firm.Resolve(); err != nil {
		return err
	}
	if len(c.Simulation.Data) == 0 {
		return fmt.Errorf("simulation: at least one data file required")
	}
	for _, d := range c.Simulation.Data {
		if d.Path == "" || d.Symbol == "" {
			return fmt.Errorf("simulation: data entries need path and symbol")
		}
		if _, err := d.ParseTimeframe(); err != nil {
			return fmt.Errorf("simulation: bad timeframe %q: %w", d.Timeframe, err)
		}
	}
	if c.Simulation.CommissionPerContract < 0 {
		return fmt.Errorf("simulation: negative commission")
	}
	switch c.Simulation.TieBreak {
	case "", "stop-first", "take-profit-first":
	default:
		return fmt.Errorf("simulation: unknown tie_break %q", c.Simulation.TieBreak)
	}
	switch c.Journal.Type {
	case "", "none", "csv", "sqlite":
	default:
		return fmt.Errorf("journal: unknown type %q", c.Journal.Type)
	}
	return nil
}

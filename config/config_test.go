package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/propsim/risk"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadYAMLConfig(t *testing.T) {
	path := writeConfig(t, "sim.yaml", `
firm:
  preset: topstep_50k
strategy:
  name: sma-cross
  symbol: MES
  size: 1
  fast: 10
  slow: 30
simulation:
  data:
    - path: bars/mes.csv
      symbol: MES
      timeframe: 1m
  commission_per_contract: 1.25
  tie_break: stop-first
  close_end: true
journal:
  type: sqlite
  db_path: runs.db
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	firm, err := cfg.Firm.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "Topstep 50K", firm.Name)

	assert.Equal(t, "sma-cross", cfg.Strategy.Name)
	assert.Equal(t, 10, cfg.Strategy.Fast)

	require.Len(t, cfg.Simulation.Data, 1)
	tf, err := cfg.Simulation.Data[0].ParseTimeframe()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, tf)
	assert.InDelta(t, 1.25, cfg.Simulation.CommissionPerContract, 1e-9)
	assert.True(t, cfg.Simulation.CloseEnd)

	assert.Equal(t, "sqlite", cfg.Journal.Type)
}

func TestLoadJSONConfigWithInlineRules(t *testing.T) {
	path := writeConfig(t, "sim.json", `{
  "firm": {
    "rules": {
      "name": "Custom",
      "initial_balance": 25000,
      "max_daily_loss": 500,
      "max_loss": 1500,
      "drawdown": "static",
      "max_contracts": 2
    }
  },
  "strategy": {"name": "noop", "symbol": "MES", "size": 1},
  "simulation": {
    "data": [{"path": "bars/mes.csv", "symbol": "MES", "timeframe": "5m"}]
  }
}`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	firm, err := cfg.Firm.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "Custom", firm.Name)
	assert.Equal(t, risk.DrawdownStatic, firm.Drawdown)
	assert.Equal(t, 2, firm.MaxContracts)

	tf, err := cfg.Simulation.Data[0].ParseTimeframe()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, tf)
}

func TestPresetWinsOverInlineRules(t *testing.T) {
	fc := FirmConfig{
		Preset: "lucid_50k",
		Rules:  &risk.Firm{Name: "Ignored", InitialBalance: 1, Drawdown: risk.DrawdownNone},
	}
	firm, err := fc.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "Lucid 50K", firm.Name)
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	cases := []struct {
		name, file, body string
	}{
		{"no firm", "c.yaml", `
simulation:
  data:
    - {path: x.csv, symbol: MES}
`},
		{"no data", "c.yaml", `
firm: {preset: topstep_50k}
simulation: {data: []}
`},
		{"data missing symbol", "c.yaml", `
firm: {preset: topstep_50k}
simulation:
  data:
    - {path: x.csv}
`},
		{"bad timeframe", "c.yaml", `
firm: {preset: topstep_50k}
simulation:
  data:
    - {path: x.csv, symbol: MES, timeframe: fortnight}
`},
		{"bad tie break", "c.yaml", `
firm: {preset: topstep_50k}
simulation:
  data:
    - {path: x.csv, symbol: MES}
  tie_break: coin-flip
`},
		{"bad journal type", "c.yaml", `
firm: {preset: topstep_50k}
simulation:
  data:
    - {path: x.csv, symbol: MES}
journal: {type: carrier-pigeon}
`},
		{"unknown extension", "c.toml", `firm`},
		{"broken yaml", "c.yaml", `firm: [`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tc.file, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestDefaultTimeframeIsOneMinute(t *testing.T) {
	tf, err := DataFile{Path: "x.csv", Symbol: "MES"}.ParseTimeframe()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, tf)
}

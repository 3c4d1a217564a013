package cmd

import (
	"fmt"
	"os"

	"github.com/rustyeddy/propsim/backtest"
	"github.com/rustyeddy/propsim/config"
	"github.com/rustyeddy/propsim/journal"
	"github.com/rustyeddy/propsim/market"
	"github.com/rustyeddy/propsim/sim"
	"github.com/rustyeddy/propsim/strategies"
	"github.com/spf13/cobra"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a backtest from a config file",
	Long: `Backtest replays bar data through a strategy while enforcing the configured
prop-firm rules.

Example:
  propsim backtest -c examples/topstep_mes.yaml`,
	RunE: runBacktest,
}

var btConfigPath string

func init() {
	rootCmd.AddCommand(backtestCmd)
	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "path to YAML/JSON config (required)")
	backtestCmd.MarkFlagRequired("config")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(btConfigPath)
	if err != nil {
		return err
	}

	firm, err := cfg.Firm.Resolve()
	if err != nil {
		return err
	}

	var series []*market.Series
	for _, d := range cfg.Simulation.Data {
		tf, err := d.ParseTimeframe()
		if err != nil {
			return err
		}
		s, err := backtest.LoadBarsCSV(d.Path, d.Symbol, tf)
		if err != nil {
			return fmt.Errorf("load %s: %w", d.Path, err)
		}
		series = append(series, s)
	}

	strat, err := strategies.ByName(
		cfg.Strategy.Name,
		cfg.Strategy.Symbol,
		cfg.Strategy.Size,
		cfg.Strategy.Fast,
		cfg.Strategy.Slow,
		cfg.Strategy.TakeProfitTicks,
		cfg.Strategy.StopLossTicks,
	)
	if err != nil {
		return err
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	policy := sim.StopFirst
	if cfg.Simulation.TieBreak == "take-profit-first" {
		policy = sim.TakeProfitFirst
	}

	runner := &backtest.Runner{
		Firm:            firm,
		Strategy:        strat,
		StrategyName:    cfg.Strategy.Name,
		Series:          series,
		Journal:         j,
		Commission:      cfg.Simulation.CommissionPerContract,
		Policy:          policy,
		SameBarBrackets: cfg.Simulation.SameBarBrackets,
		CloseEnd:        cfg.Simulation.CloseEnd,
	}

	res, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	backtest.Print(os.Stdout, firm, res)
	return nil
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "", "none":
		return journal.Nop{}, nil
	case "sqlite":
		path := jc.DBPath
		if path == "" {
			path = "./propsim.sqlite"
		}
		return journal.NewSQLite(path)
	case "csv":
		trades := jc.TradesFile
		if trades == "" {
			trades = "./trades.csv"
		}
		equity := jc.EquityFile
		if equity == "" {
			equity = "./equity.csv"
		}
		return journal.NewCSV(trades, equity)
	}
	return nil, fmt.Errorf("unknown journal type %q", jc.Type)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "propsim",
	Short: "Futures backtesting against prop-firm account rules",
	Long: `Propsim simulates trading strategies against historical futures bars while
enforcing prop-firm evaluation rules.

It provides tools for:
  - Backtesting strategies over multi-symbol, multi-timeframe bar data
  - Enforcing daily loss limits, trailing drawdown and contract caps
  - Bracket (OCO) order simulation with configurable tie-breaks
  - Trade journals and equity curves in SQLite or CSV`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

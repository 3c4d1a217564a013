package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/propsim/risk"
	"github.com/rustyeddy/propsim/sim"
)

// Print writes a human-readable run summary.
func Print(w io.Writer, firm risk.Firm, r Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " Backtest Result: %s\n", firm.Name)
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.RFC3339))
	fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.RFC3339))
	fmt.Fprintf(w, "Status:        %s\n", r.Status)
	if r.Status == sim.HaltedByRiskRule {
		fmt.Fprintf(w, "Halt Reason:   %s\n", r.HaltReason)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", r.Metrics.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", r.Metrics.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", r.Metrics.Losses)
	fmt.Fprintf(w, "Win Rate:      %.1f%%\n", r.Metrics.WinRate*100)
	fmt.Fprintf(w, "Profit Factor: %.2f\n", r.Metrics.ProfitFactor)
	fmt.Fprintf(w, "Sharpe:        %.2f\n", r.Metrics.Sharpe)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "P&L")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Gross P&L:     $%.2f\n", r.Metrics.GrossPL)
	fmt.Fprintf(w, "Commissions:   $%.2f\n", r.Metrics.Commission)
	fmt.Fprintf(w, "Net Profit:    $%.2f\n", r.Metrics.NetProfit)
	fmt.Fprintf(w, "Avg Trade:     $%.2f\n", r.Metrics.AvgTrade)
	fmt.Fprintf(w, "Total Return:  %.2f%%\n", r.Metrics.TotalReturn*100)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Risk")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Max Drawdown:  $%.2f (%.2f%%)\n", r.Metrics.MaxDrawdown, r.Metrics.MaxDrawdownPct*100)
	fmt.Fprintf(w, "End Balance:   $%.2f\n", r.Balance)
	fmt.Fprintf(w, "End Equity:    $%.2f\n", r.Equity)
}

package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rustyeddy/propsim/market"
	"github.com/spf13/cobra"
)

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "List the known futures contract specifications",
	RunE:  runContracts,
}

func init() {
	rootCmd.AddCommand(contractsCmd)
}

func runContracts(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tNAME\tTICK\tTICK $\tPOINT $\tDAY MARGIN")
	for _, sym := range market.ContractSymbols() {
		c, err := market.GetContract(sym)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t$%.2f\t$%.2f\t$%.0f\n",
			c.Symbol, c.Name, c.TickSize, c.TickValue, c.PointValue, c.MarginDay)
	}
	return w.Flush()
}

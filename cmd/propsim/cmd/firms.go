package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rustyeddy/propsim/risk"
	"github.com/spf13/cobra"
)

var firmsCmd = &cobra.Command{
	Use:   "firms",
	Short: "List the built-in prop-firm rule presets",
	RunE:  runFirms,
}

func init() {
	rootCmd.AddCommand(firmsCmd)
}

func runFirms(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tBALANCE\tDAILY LOSS\tMAX LOSS\tDRAWDOWN\tCONTRACTS\tCLOSE")
	for _, key := range risk.FirmNames() {
		f, err := risk.FirmByName(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t$%.0f\t$%.0f\t$%.0f\t%s\t%d\t%s\n",
			key, f.Name, f.InitialBalance, f.MaxDailyLoss, f.MaxLoss,
			f.Drawdown, f.MaxContracts, f.PositionCloseTime)
	}
	return w.Flush()
}

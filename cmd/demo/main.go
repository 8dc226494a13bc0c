package main

import (
	"fmt"
	"os"

	"capture-econ/internal/config"
	"capture-econ/internal/cost"
	"capture-econ/internal/deploy"
	"capture-econ/internal/model"
	"capture-econ/internal/revenue"
	"capture-econ/internal/simulation"

	"github.com/spf13/cobra"
)

// Demo:
// - Start from the default inputs (or a YAML config)
// - Build the deployment schedule
// - Price the first few years stream by stream to show how the pieces fit together
func main() {
	var (
		cfgPath string
		years   int
		outCSV  string
	)
	cmd := &cobra.Command{
		Use:          "demo",
		Short:        "Walk the first years of a fleet through deployment, revenue and cost",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.DefaultInputs()
			if cfgPath != "" {
				cfg, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				in = cfg.Model
			}
			if err := in.Validate(); err != nil {
				return err
			}
			if years > in.HorizonYears {
				years = in.HorizonYears
			}

			sched, err := deploy.New(in)
			if err != nil {
				return err
			}
			rev := revenue.New(in)
			opex := cost.New(in)
			perUnit := in.AnnualOutputPerUnit()

			fmt.Printf("Fleet of %d units, %.0f t/yr each, unit 1 installed at $%.0f\n",
				in.FleetSize, perUnit, sched.UnitCapex[0])
			fmt.Printf("Incentive %s at $%.0f/t on %.0f%% of output for %d years\n\n",
				in.EligibilityMode, in.IncentiveRate, in.IncentiveFraction*100, in.IncentiveWindowYears)

			for y := 0; y <= years; y++ {
				units := sched.Units(y)
				output := float64(units) * perUnit
				r := rev.Year(y, output)
				o := opex.Year(y, units, sched.CumulativeCapital(y))
				capex := sched.CapitalSpent(y)
				fmt.Printf(
					"%d units=%3d  out=%9.0f t  incentive=%11.0f  market=%10.0f  offtake=%10.0f  opex=%11.0f  capex=%11.0f  cf=%12.0f\n",
					in.CalendarYear(y), units, output,
					r.Incentive, r.Market, r.Offtake, o.Total, capex,
					r.Total-o.Total-capex,
				)
			}

			if outCSV != "" {
				ledger, err := simulation.New().Run(in, sched)
				if err != nil {
					return err
				}
				if err := simulation.WriteLedgerCSVFile(outCSV, ledger.Records); err != nil {
					return err
				}
				fmt.Printf("\nWrote CSV: %s\n", outCSV)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "Path to YAML config (optional)")
	cmd.Flags().IntVarP(&years, "years", "n", 5, "Number of years after year 0 to print")
	cmd.Flags().StringVar(&outCSV, "out", "", "Optional path to write the full ledger CSV (e.g. results/ledger.csv)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

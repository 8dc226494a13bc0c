package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"capture-econ/internal/analysis"
	"capture-econ/internal/config"
	"capture-econ/internal/data"
	"capture-econ/internal/engine"
	"capture-econ/internal/model"
	"capture-econ/internal/report"
	"capture-econ/internal/simulation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// inputFlags selects where a run's parameters come from. Precedence:
// defaults, then --config or --scenario, then --json.
type inputFlags struct {
	configPath  string
	scenarioDir string
	scenario    string
	jsonPath    string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML run config (scenario_file, inputs, output)")
	cmd.Flags().StringVar(&f.scenarioDir, "scenario-dir", config.DefaultScenarioDir(), "Directory of scenario presets")
	cmd.Flags().StringVarP(&f.scenario, "scenario", "s", "", "Scenario preset id (ignored with --config)")
	cmd.Flags().StringVar(&f.jsonPath, "json", "", "JSON file of inputs applied last")
}

func (f *inputFlags) resolve() (model.Inputs, *config.Config, error) {
	in := model.DefaultInputs()
	var cfg *config.Config

	switch {
	case f.configPath != "":
		c, err := config.Load(f.configPath)
		if err != nil {
			return model.Inputs{}, nil, err
		}
		cfg, in = c, c.Model
	case f.scenario != "":
		p, preset, err := data.LoadPreset(f.scenarioDir, f.scenario)
		if err != nil {
			return model.Inputs{}, nil, err
		}
		logger.Debug("loaded scenario", zap.String("id", p.ID), zap.String("file", p.File))
		in = preset
	}

	if f.jsonPath != "" {
		overlaid, err := data.LoadInputsJSON(f.jsonPath, in)
		if err != nil {
			return model.Inputs{}, nil, err
		}
		in = overlaid
	}
	return in, cfg, nil
}

func newSimulateCmd() *cobra.Command {
	var (
		inputs      inputFlags
		outPath     string
		reportPath  string
		sensitivity bool
		markdown    bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the fleet simulation and print the headline metrics",
		Example: "  capture simulate --config examples/config.yaml\n" +
			"  capture simulate --scenario threshold_gated --out results/ledger.csv --sensitivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, cfg, err := inputs.resolve()
			if err != nil {
				return err
			}
			if cfg != nil {
				if outPath == "" {
					outPath = cfg.Output.LedgerCSV
				}
				if reportPath == "" {
					reportPath = cfg.Output.ReportFile
					markdown = !cfg.Output.HTML
				}
			}

			res, err := engine.New(logger).Simulate(in)
			if err != nil {
				return err
			}

			var entries []analysis.SensitivityEntry
			if sensitivity {
				entries = analysis.NewAnalyzer(logger).Analyze(in, res.NPV)
			}

			out := cmd.OutOrStdout()
			printSummary(out, in, res)
			if len(entries) > 0 {
				fmt.Fprintln(out)
				printSensitivity(out, entries)
			}

			if outPath != "" {
				if err := ensureDir(outPath); err != nil {
					return err
				}
				if err := simulation.WriteLedgerCSVFile(outPath, res.Years); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nWrote %d rows to %s\n", len(res.Years), outPath)
			}
			if reportPath != "" {
				r := report.Report{Inputs: in, Result: res, Sensitivity: entries}
				if err := writeReport(reportPath, r, markdown); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote report to %s\n", reportPath)
			}
			return nil
		},
	}
	inputs.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the annual ledger as CSV")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write a report (.md for markdown, anything else for HTML)")
	cmd.Flags().BoolVar(&sensitivity, "sensitivity", false, "Include the ±20% NPV sensitivity sweep")
	return cmd
}

func newSensitivityCmd() *cobra.Command {
	var (
		inputs inputFlags
		top    int
	)
	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Rank parameters by NPV swing under a ±20% perturbation",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _, err := inputs.resolve()
			if err != nil {
				return err
			}
			res, err := engine.New(logger).Simulate(in)
			if err != nil {
				return err
			}
			entries := analysis.Top(analysis.NewAnalyzer(logger).Analyze(in, res.NPV), top)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Base NPV %s\n\n", report.Money(res.NPV))
			printSensitivity(out, entries)
			return nil
		},
	}
	inputs.register(cmd)
	cmd.Flags().IntVarP(&top, "top", "n", 0, "Show only the N most influential parameters (0=all)")
	return cmd
}

func newScenariosCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, skipped, err := data.ListPresets(dir)
			if err != nil {
				return err
			}
			for id, err := range skipped {
				logger.Warn("skipping unreadable scenario", zap.String("id", id), zap.Error(err))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-20s %-32s %s\n", "id", "name", "description")
			for _, p := range presets {
				fmt.Fprintf(out, "%-20s %-32s %s\n", p.ID, p.Name, p.Description)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "scenario-dir", config.DefaultScenarioDir(), "Directory of scenario presets")
	return cmd
}

func printSummary(out io.Writer, in model.Inputs, res *engine.Result) {
	fmt.Fprintf(out, "%d units, %d-year horizon from %d, discount rate %s\n\n",
		in.FleetSize, in.HorizonYears, in.StartYear, report.Percent(in.DiscountRate))

	irr := "n/a"
	if res.IRR != nil {
		irr = report.Percent(*res.IRR)
	}
	fmt.Fprintf(out, "%-28s %s\n", "NPV", report.Money(res.NPV))
	fmt.Fprintf(out, "%-28s %s\n", "IRR", irr)
	fmt.Fprintf(out, "%-28s %s\n", "Payback year", yearOrNever(res.PaybackYear))
	fmt.Fprintf(out, "%-28s %s\n", "Discounted payback year", yearOrNever(res.DiscountedPaybackYear))
	fmt.Fprintf(out, "%-28s %s/t\n", "LCCC", report.PerTonne(res.LCCC))
	fmt.Fprintf(out, "%-28s %s/t\n", "Breakeven incentive", report.PerTonne(res.BreakevenIncentive))
	fmt.Fprintf(out, "%-28s %s\n", "Unit 1 capex", report.Money(res.UnitCapex1))
	fmt.Fprintf(out, "%-28s %s\n", "Total fleet capex", report.Money(res.TotalCapex))
	fmt.Fprintf(out, "%-28s %s t/yr\n", "Output per unit", report.Tonnes(res.AnnualOutputPerUnit))
	fmt.Fprintf(out, "%-28s %s t\n", "Year 1 fleet output", report.Tonnes(res.Year1FleetOutput))

	pt := res.Year1PerTonne
	fmt.Fprintf(out, "%-28s incentive %s, market %s, offtake %s, compliance %s (total %s)\n",
		"Year 1 revenue $/t",
		report.PerTonne(pt.Incentive), report.PerTonne(pt.Market), report.PerTonne(pt.Offtake),
		report.PerTonne(pt.Compliance), report.PerTonne(pt.Total))

	for _, w := range res.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
}

func printSensitivity(out io.Writer, entries []analysis.SensitivityEntry) {
	fmt.Fprintf(out, "%-4s %-20s %-16s %-16s %-16s\n", "rank", "parameter", "npv@-20%", "npv@+20%", "swing")
	for i, e := range entries {
		mark := ""
		if e.Fallbacks > 0 {
			mark = " (fallback)"
		}
		fmt.Fprintf(out, "%-4d %-20s %-16s %-16s %-16s%s\n",
			i+1, e.Key, report.Money(e.LowNPV), report.Money(e.HighNPV), report.Money(e.Delta), mark)
	}
}

func yearOrNever(y *int) string {
	if y == nil {
		return "never"
	}
	return fmt.Sprintf("%d", *y)
}

func writeReport(path string, r report.Report, markdown bool) error {
	var buf bytes.Buffer
	render := report.HTML
	if markdown || strings.EqualFold(filepath.Ext(path), ".md") {
		render = report.Markdown
	}
	if err := render(&buf, r); err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

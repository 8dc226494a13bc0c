package engine

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"capture-econ/internal/deploy"
	"capture-econ/internal/model"
	"capture-econ/internal/revenue"
	"capture-econ/internal/simulation"
	"capture-econ/internal/solver"
)

// PerTonne is a revenue breakdown normalized by fleet output, in $/t.
type PerTonne struct {
	Incentive  float64
	Market     float64
	Offtake    float64
	Compliance float64
	Total      float64
}

// Result is everything one simulation produces. The caller owns it.
type Result struct {
	AnnualOutputPerUnit float64 // tonnes/yr
	Year1FleetOutput    float64 // tonnes, first simulated year
	UnitCapex1          float64
	TotalCapex          float64
	UnitCapex           []float64

	NPV                   float64
	IRR                   *float64
	PaybackYear           *int
	DiscountedPaybackYear *int
	LCCC                  float64 // $/t
	BreakevenIncentive    float64 // $/t base rate

	Year1PerTonne PerTonne

	Years    []simulation.YearRecord
	Warnings []string
}

// Engine wires the scheduler, simulator and solver together.
type Engine struct {
	log *zap.Logger
	sim *simulation.Engine
}

func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{log: logger, sim: simulation.New()}
}

// Simulate runs one scenario with a silent logger.
func Simulate(in model.Inputs) (*Result, error) {
	return New(nil).Simulate(in)
}

// Simulate validates in, runs the year-by-year simulation and derives the
// financial metrics. Warnings are collected on the result and never abort.
func (e *Engine) Simulate(in model.Inputs) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("validate inputs: %w", err)
	}

	sched, err := deploy.New(in)
	if err != nil {
		return nil, fmt.Errorf("deployment schedule: %w", err)
	}

	ledger, err := e.sim.Run(in, sched)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}

	recs := ledger.Records
	first := recs[0]
	perUnit := in.AnnualOutputPerUnit()

	res := &Result{
		AnnualOutputPerUnit: perUnit,
		Year1FleetOutput:    first.FleetOutput,
		UnitCapex1:          sched.UnitCapex[0],
		TotalCapex:          sched.TotalCapex(),
		UnitCapex:           append([]float64(nil), sched.UnitCapex...),

		NPV:                   solver.NPV(recs),
		IRR:                   solver.IRR(recs),
		PaybackYear:           ledger.PaybackYear,
		DiscountedPaybackYear: ledger.DiscountedPaybackYear,
		LCCC:                  solver.LCCC(sched.TotalCapex(), recs, in.FleetSize, perUnit, in.DiscountRate, in.HorizonYears),
		BreakevenIncentive:    solver.BreakevenIncentive(recs, revenue.New(in), in.DiscountRate),

		Year1PerTonne: perTonne(first),
		Years:         recs,
	}
	if math.IsNaN(res.LCCC) || math.IsInf(res.LCCC, 0) {
		return nil, fmt.Errorf("levelized cost: %w", model.Degenerate("discount_rate", "capital recovery factor is not finite"))
	}
	res.Warnings = warnings(in, res)

	e.log.Debug("simulation complete",
		zap.Int("years", len(recs)),
		zap.Float64("npv", res.NPV),
		zap.Float64("lccc", res.LCCC),
		zap.Int("warnings", len(res.Warnings)),
	)
	return res, nil
}

func perTonne(r simulation.YearRecord) PerTonne {
	out := r.FleetOutput
	return PerTonne{
		Incentive:  r.IncentiveRevenue / out,
		Market:     r.MarketRevenue / out,
		Offtake:    r.OfftakeRevenue / out,
		Compliance: r.ComplianceRevenue / out,
		Total:      r.TotalRevenue / out,
	}
}

func warnings(in model.Inputs, res *Result) []string {
	out := in.Advisories()

	if res.NPV < 0 {
		out = append(out, fmt.Sprintf("NPV is negative (%.0f) at a %.1f%% discount rate", res.NPV, in.DiscountRate*100))
	}

	if in.EligibilityMode.Gated() && in.IncentiveFraction > 0 {
		reached := false
		for _, r := range res.Years {
			if r.FleetOutput >= in.EligibilityThreshold {
				reached = true
				break
			}
		}
		if !reached {
			out = append(out, fmt.Sprintf("fleet output never reaches the eligibility threshold of %.0f t/yr; no incentive revenue is earned", in.EligibilityThreshold))
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

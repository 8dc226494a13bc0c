package simulation

import (
	"fmt"
	"math"

	"capture-econ/internal/cost"
	"capture-econ/internal/deploy"
	"capture-econ/internal/model"
	"capture-econ/internal/revenue"
)

type Engine struct{}

func New() *Engine { return &Engine{} }

// Run simulates year offsets 0..HorizonYears inclusive.
func (e *Engine) Run(in model.Inputs, sched *deploy.Schedule) (*Ledger, error) {
	if sched == nil {
		return nil, fmt.Errorf("schedule is nil")
	}
	if in.HorizonYears < 0 {
		return nil, fmt.Errorf("%w: horizon_years must be >= 0", model.ErrInvalidInput)
	}

	rev := revenue.New(in)
	opex := cost.New(in)
	perUnit := in.AnnualOutputPerUnit()

	ledger := &Ledger{Records: make([]YearRecord, 0, in.HorizonYears+1)}
	cumDCF := 0.0
	cumCF := 0.0

	for y := 0; y <= in.HorizonYears; y++ {
		units := sched.Units(y)
		output := float64(units) * perUnit
		if output == 0 {
			return nil, model.Degenerate("capture_rate", fmt.Sprintf("fleet output is zero in year %d; per-tonne ratios are undefined", y))
		}

		r := rev.Year(y, output)
		o := opex.Year(y, units, sched.CumulativeCapital(y))
		capex := sched.CapitalSpent(y)

		cf := r.Total - o.Total - capex
		df := math.Pow(1+in.DiscountRate, float64(y))
		dcf := cf / df
		cumDCF += dcf
		cumCF += cf

		row := YearRecord{
			Year:         y,
			CalendarYear: in.CalendarYear(y),

			Units:       units,
			FleetOutput: output,

			IncentiveRevenue:  r.Incentive,
			MarketRevenue:     r.Market,
			OfftakeRevenue:    r.Offtake,
			ComplianceRevenue: r.Compliance,
			TotalRevenue:      r.Total,

			OPEX:  o.Total,
			Capex: capex,

			CashFlow:           cf,
			DiscountFactor:     df,
			DiscountedCashFlow: dcf,
			CumulativeDCF:      cumDCF,
			CumulativeCF:       cumCF,

			IncentiveEligible: r.IncentiveEligible,

			RevenuePerTonne: r.Total / output,
			OPEXPerTonne:    o.Total / output,
		}
		if err := row.checkFinite(); err != nil {
			return nil, fmt.Errorf("year %d: %w", y, err)
		}
		ledger.Records = append(ledger.Records, row)

		// Year 0 is never reported as a payback year.
		if y > 0 {
			if ledger.PaybackYear == nil && cumCF >= 0 {
				ledger.PaybackYear = intPtr(y)
			}
			if ledger.DiscountedPaybackYear == nil && cumDCF >= 0 {
				ledger.DiscountedPaybackYear = intPtr(y)
			}
		}
	}

	return ledger, nil
}

func (r YearRecord) checkFinite() error {
	fields := []struct {
		name  string
		param string
		v     float64
	}{
		{"revenue", "revenue_escalation", r.TotalRevenue},
		{"opex", "opex_escalation", r.OPEX},
		{"capex", "learning_rate", r.Capex},
		{"discount factor", "discount_rate", r.DiscountFactor},
		{"discounted cash flow", "discount_rate", r.DiscountedCashFlow},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return model.Degenerate(f.param, f.name+" is not finite")
		}
	}
	return nil
}

func intPtr(v int) *int { return &v }

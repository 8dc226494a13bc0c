package solver

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"capture-econ/internal/revenue"
	"capture-econ/internal/simulation"
)

const (
	irrLo      = -0.50
	irrHi      = 2.00
	irrIter    = 100
	irrTol     = 1e-4
	irrBoundEp = 0.01

	breakevenLo   = 0
	breakevenHi   = 300
	breakevenIter = 80
	breakevenTol  = 0.5
)

// NPV is the final cumulative discounted cash flow, 0 for an empty ledger.
func NPV(records []simulation.YearRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	return records[len(records)-1].CumulativeDCF
}

// PresentValue discounts cashFlows[y] by (1+rate)^y and sums them.
func PresentValue(cashFlows []float64, rate float64) float64 {
	terms := make([]float64, len(cashFlows))
	for y, cf := range cashFlows {
		terms[y] = cf / math.Pow(1+rate, float64(y))
	}
	return floats.Sum(terms)
}

// IRR finds the rate that zeroes the present value of the ledger's cash flows.
// It returns nil when the search ends pinned against either end of the
// [-50%, 200%] bracket, which means no root was found inside it.
func IRR(records []simulation.YearRecord) *float64 {
	if len(records) == 0 {
		return nil
	}
	cfs := make([]float64, len(records))
	for i, r := range records {
		cfs[i] = r.CashFlow
	}

	b := Bisect(Bracket{Lo: irrLo, Hi: irrHi}, irrIter, irrTol, func(rate float64) float64 {
		return PresentValue(cfs, rate)
	})
	rate := b.Mid()
	if math.Abs(rate-irrLo) < irrBoundEp || math.Abs(rate-irrHi) < irrBoundEp {
		return nil
	}
	return &rate
}

// CapitalRecoveryFactor annualizes a present amount over n years at rate r.
// A zero rate degenerates to straight-line 1/n.
func CapitalRecoveryFactor(r float64, n int) float64 {
	if n <= 0 {
		n = 1
	}
	if r == 0 {
		return 1 / float64(n)
	}
	g := math.Pow(1+r, float64(n))
	return r * g / (g - 1)
}

// LCCC is the levelized cost of capture in $/t: annualized capital plus mean
// annual OPEX over full-fleet annual output. A zero-output fleet yields 0.
func LCCC(totalCapex float64, records []simulation.YearRecord, fleetSize int, perUnitOutput, r float64, horizon int) float64 {
	denom := float64(fleetSize) * perUnitOutput
	if denom == 0 {
		return 0
	}
	meanOPEX := 0.0
	if len(records) > 0 {
		opex := make([]float64, len(records))
		for i, rec := range records {
			opex[i] = rec.OPEX
		}
		meanOPEX = stat.Mean(opex, nil)
	}
	return (totalCapex*CapitalRecoveryFactor(r, horizon) + meanOPEX) / denom
}

// BreakevenIncentive is the base incentive rate ($/t) at which NPV crosses
// zero. Only the incentive stream is re-priced; every other record value is
// held at its simulated level. The window, eligibility and inflation rules
// apply to every candidate rate. The result is the midpoint of the final
// bracket, so a project that never breaks even inside [0, 300] reports a
// value near the nearest bound.
func BreakevenIncentive(records []simulation.YearRecord, calc *revenue.Calculator, r float64) float64 {
	npvAt := func(rate float64) float64 {
		terms := make([]float64, len(records))
		for i, rec := range records {
			cf := rec.CashFlow - rec.IncentiveRevenue + calc.IncentiveAt(rate, rec.Year, rec.FleetOutput)
			terms[i] = cf / math.Pow(1+r, float64(rec.Year))
		}
		return floats.Sum(terms)
	}

	b := Bisect(Bracket{Lo: breakevenLo, Hi: breakevenHi}, breakevenIter, breakevenTol, func(rate float64) float64 {
		return -npvAt(rate)
	})
	return b.Mid()
}

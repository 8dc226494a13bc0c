package engine

import (
	"errors"
	"math"
	"strings"
	"testing"

	"capture-econ/internal/model"
)

func TestReferenceScenario(t *testing.T) {
	in := model.DefaultInputs()
	res, err := Simulate(in)
	if err != nil {
		t.Fatal(err)
	}

	if diff(res.AnnualOutputPerUnit, 1149.75) > 1e-9 {
		t.Fatalf("annual output per unit: got=%f want=1149.75", res.AnnualOutputPerUnit)
	}
	if diff(res.UnitCapex1, 319950) > 1e-6 || res.UnitCapex1 != in.UnitCapex() {
		t.Fatalf("unit 1 capex: got=%f want=319950", res.UnitCapex1)
	}
	if len(res.UnitCapex) != in.FleetSize || res.UnitCapex[0] != res.UnitCapex1 {
		t.Fatalf("unit capex schedule: %v", res.UnitCapex)
	}
	if diff(res.Year1FleetOutput, 1149.75) > 1e-9 {
		t.Fatalf("year 1 fleet output: got=%f", res.Year1FleetOutput)
	}
	if len(res.Years) != in.HorizonYears+1 {
		t.Fatalf("got %d years", len(res.Years))
	}
	if res.NPV != res.Years[len(res.Years)-1].CumulativeDCF {
		t.Fatalf("NPV %f != final cumulative DCF %f", res.NPV, res.Years[len(res.Years)-1].CumulativeDCF)
	}
	if res.LCCC <= 0 {
		t.Fatalf("expected positive LCCC, got %f", res.LCCC)
	}

	// Inflation indexing starts the year after the start year.
	pt := res.Year1PerTonne
	if diff(pt.Incentive, 108) > 1e-9 || diff(pt.Market, 60) > 1e-9 || diff(pt.Offtake, 30) > 1e-9 || pt.Compliance != 0 {
		t.Fatalf("year 1 per tonne: %+v", pt)
	}
	if diff(pt.Total, 198) > 1e-9 {
		t.Fatalf("year 1 per tonne total: got=%f want=198", pt.Total)
	}
}

func TestEngineDoesNotMutateInputs(t *testing.T) {
	in := model.DefaultInputs()
	before := in
	if _, err := New(nil).Simulate(in); err != nil {
		t.Fatal(err)
	}
	if in != before {
		t.Fatal("inputs changed during simulation")
	}
}

func TestZeroHorizon(t *testing.T) {
	in := model.DefaultInputs()
	in.HorizonYears = 0
	res, err := Simulate(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Years) != 1 {
		t.Fatalf("got %d years", len(res.Years))
	}
	if res.NPV != res.Years[0].CashFlow {
		t.Fatalf("NPV %f != year 0 cash flow %f", res.NPV, res.Years[0].CashFlow)
	}
	if res.PaybackYear != nil || res.DiscountedPaybackYear != nil {
		t.Fatal("paybacks must be nil with a zero horizon")
	}
}

func TestSingleUnitWithoutIncentiveFraction(t *testing.T) {
	in := model.DefaultInputs()
	in.FleetSize = 1
	in.IncentiveFraction = 0
	in.IncentiveRate = 1e6
	in.IncentiveWindowYears = 100
	res, err := Simulate(in)
	if err != nil {
		t.Fatal(err)
	}
	for _, y := range res.Years {
		if y.IncentiveRevenue != 0 || y.IncentiveEligible {
			t.Fatalf("year %d earned incentive %f", y.Year, y.IncentiveRevenue)
		}
	}
	if res.TotalCapex != res.UnitCapex1 {
		t.Fatalf("single-unit fleet capex: got=%f want=%f", res.TotalCapex, res.UnitCapex1)
	}
}

func TestAllFractionsZeroGivesNoRevenue(t *testing.T) {
	in := model.DefaultInputs()
	in.IncentiveFraction = 0
	in.MarketFraction = 0
	in.OfftakeFraction = 0
	in.ComplianceFraction = 0
	res, err := Simulate(in)
	if err != nil {
		t.Fatal(err)
	}
	for _, y := range res.Years {
		if y.TotalRevenue != 0 {
			t.Fatalf("year %d revenue %f", y.Year, y.TotalRevenue)
		}
	}
	if res.IRR != nil {
		t.Fatalf("costs only: IRR should be nil, got %f", *res.IRR)
	}
	if !hasWarning(res.Warnings, "NPV is negative") {
		t.Fatalf("expected negative NPV warning, got %v", res.Warnings)
	}
}

func TestIRRZeroesNPV(t *testing.T) {
	in := model.DefaultInputs()
	in.IncentiveFraction = 1
	in.IncentiveWindowYears = in.HorizonYears
	res, err := Simulate(in)
	if err != nil {
		t.Fatal(err)
	}
	if res.IRR == nil {
		t.Fatal("expected IRR")
	}
	at := func(rate float64) float64 {
		x := in
		x.DiscountRate = rate
		r, err := Simulate(x)
		if err != nil {
			t.Fatal(err)
		}
		return r.NPV
	}
	if at(*res.IRR-0.001) < 0 || at(*res.IRR+0.001) > 0 {
		t.Fatalf("IRR %f does not zero NPV", *res.IRR)
	}
}

func TestWarnings(t *testing.T) {
	in := model.DefaultInputs()
	in.IncentiveFraction = 0.9
	res, err := Simulate(in)
	if err != nil {
		t.Fatal(err)
	}
	if !hasWarning(res.Warnings, "over 100%") {
		t.Fatalf("expected over-allocation warning, got %v", res.Warnings)
	}

	in = model.DefaultInputs()
	in.EligibilityMode = model.EligibilityThreshold
	in.EligibilityThreshold = 1e9
	res, err = Simulate(in)
	if err != nil {
		t.Fatal(err)
	}
	if !hasWarning(res.Warnings, "never reaches the eligibility threshold") {
		t.Fatalf("expected threshold warning, got %v", res.Warnings)
	}
	for _, y := range res.Years {
		if y.IncentiveRevenue != 0 {
			t.Fatalf("year %d earned incentive below threshold", y.Year)
		}
	}
}

func TestWarningsNeverNil(t *testing.T) {
	in := model.DefaultInputs()
	in.IncentiveFraction = 1
	in.MarketFraction = 0
	in.OfftakeFraction = 0
	in.IncentiveWindowYears = in.HorizonYears
	res, err := Simulate(in)
	if err != nil {
		t.Fatal(err)
	}
	if res.Warnings == nil {
		t.Fatal("warnings should be an empty slice, not nil")
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.Inputs)
		want   error
	}{
		{"negative horizon", func(in *model.Inputs) { in.HorizonYears = -1 }, model.ErrInvalidInput},
		{"empty fleet", func(in *model.Inputs) { in.FleetSize = 0 }, model.ErrInvalidInput},
		{"infinite deploy rate", func(in *model.Inputs) { in.DeployRate = math.Inf(1) }, model.ErrInvalidInput},
		{"zero consumable life", func(in *model.Inputs) { in.ConsumableLifeYears = 0 }, model.ErrDegenerateParameter},
		{"zero capture", func(in *model.Inputs) { in.CaptureRate = 0 }, model.ErrDegenerateParameter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := model.DefaultInputs()
			tc.mutate(&in)
			_, err := Simulate(in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v want %v", err, tc.want)
			}
		})
	}
}

func hasWarning(ws []string, sub string) bool {
	for _, w := range ws {
		if strings.Contains(w, sub) {
			return true
		}
	}
	return false
}

func diff(a, b float64) float64 {
	return math.Abs(a - b)
}

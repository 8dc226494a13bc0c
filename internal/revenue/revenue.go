package revenue

import (
	"math"

	"capture-econ/internal/model"
)

// Breakdown is one year's revenue by stream, in $.
type Breakdown struct {
	Incentive  float64
	Market     float64
	Offtake    float64
	Compliance float64
	Total      float64

	// IncentiveEligible reports whether the incentive stream paid out this year.
	IncentiveEligible bool
}

// Calculator prices a year of fleet output into the four revenue streams.
type Calculator struct {
	in model.Inputs
}

func New(in model.Inputs) *Calculator {
	return &Calculator{in: in}
}

// Year computes every stream for year offset y given that year's fleet output (tonnes).
func (c *Calculator) Year(y int, fleetOutput float64) Breakdown {
	b := Breakdown{
		IncentiveEligible: c.Eligible(y, fleetOutput),
		Market:            c.Market(y, fleetOutput),
		Offtake:           c.Offtake(y, fleetOutput),
		Compliance:        c.Compliance(y, fleetOutput),
	}
	if b.IncentiveEligible {
		b.Incentive = c.incentive(c.in.IncentiveRate, y, fleetOutput)
	}
	b.Total = b.Incentive + b.Market + b.Offtake + b.Compliance
	return b
}

// Eligible applies the incentive window, the configured fraction and the
// eligibility gate for year y.
func (c *Calculator) Eligible(y int, fleetOutput float64) bool {
	if y > c.in.IncentiveWindowYears || c.in.IncentiveFraction <= 0 {
		return false
	}
	if c.in.EligibilityMode.Gated() {
		return fleetOutput >= c.in.EligibilityThreshold
	}
	return true
}

// EffectiveRate indexes a base incentive rate to inflation from InflationStartYear on.
// Years before the start keep the base rate.
func (c *Calculator) EffectiveRate(base float64, calendarYear int) float64 {
	if calendarYear < c.in.InflationStartYear {
		return base
	}
	return base * math.Pow(1+c.in.InflationRate, float64(calendarYear-c.in.InflationStartYear))
}

// IncentiveAt prices the incentive stream for year y at an arbitrary base rate,
// honoring the window and eligibility rules. The breakeven solver uses this
// to re-price the stream without re-running the simulation.
func (c *Calculator) IncentiveAt(rate float64, y int, fleetOutput float64) float64 {
	if !c.Eligible(y, fleetOutput) {
		return 0
	}
	return c.incentive(rate, y, fleetOutput)
}

func (c *Calculator) incentive(rate float64, y int, fleetOutput float64) float64 {
	eff := c.EffectiveRate(rate, c.in.CalendarYear(y))
	return fleetOutput * c.in.IncentiveAllocation().Share() * eff
}

// Market is the spot/voluntary market stream.
func (c *Calculator) Market(y int, fleetOutput float64) float64 {
	return fleetOutput * c.in.MarketFraction * c.in.MarketPrice * escalate(c.in.MarketEscalation, y)
}

// Offtake is the contracted stream. A split allocation prices the
// alternate-pathway share at AlternatePrice.
func (c *Calculator) Offtake(y int, fleetOutput float64) float64 {
	a := c.in.OfftakeAllocation()
	perTonne := a.Primary * c.in.OfftakePrice
	if a.Kind == model.AllocationSplit {
		perTonne += a.Alternate * c.in.AlternatePrice
	}
	return fleetOutput * perTonne * escalate(c.in.OfftakeEscalation, y)
}

// Compliance is the compliance-market stream; it escalates with the generic revenue rate.
func (c *Calculator) Compliance(y int, fleetOutput float64) float64 {
	return fleetOutput * c.in.ComplianceFraction * c.in.CompliancePrice * escalate(c.in.RevenueEscalation, y)
}

func escalate(rate float64, y int) float64 {
	return math.Pow(1+rate, float64(y))
}

package cost

import (
	"math"

	"capture-econ/internal/model"
)

// HoursPerYear is the full-year operating basis before availability.
const HoursPerYear = 8760

// Breakdown is one year's operating expense by line, in $, already escalated.
type Breakdown struct {
	Electricity  float64
	Consumables  float64
	FixedPerUnit float64
	Insurance    float64
	Maintenance  float64
	Total        float64
}

// Calculator prices the fleet's operating expense for a year.
type Calculator struct {
	in model.Inputs
}

func New(in model.Inputs) *Calculator {
	return &Calculator{in: in}
}

// Year computes OPEX for year offset y with `units` deployed and
// cumulativeCapital $ of deployed equipment (the basis for the percentage items).
//
// ConsumableLifeYears must be non-zero; model.Inputs.Validate rejects zero.
func (c *Calculator) Year(y int, units int, cumulativeCapital float64) Breakdown {
	n := float64(units)
	esc := math.Pow(1+c.in.OpexEscalation, float64(y))

	b := Breakdown{
		Electricity:  n * c.in.RatedPowerKW * HoursPerYear * c.in.Availability * c.in.ElectricityPrice * esc,
		Consumables:  n * c.in.ConsumableCost / c.in.ConsumableLifeYears * esc,
		FixedPerUnit: n * (c.in.LaborPerUnit + c.in.MonitoringPerUnit + c.in.SiteLeasePerUnit) * esc,
		Insurance:    cumulativeCapital * c.in.InsurancePercent / 100 * esc,
		Maintenance:  cumulativeCapital * c.in.MaintenancePercent / 100 * esc,
	}
	b.Total = b.Electricity + b.Consumables + b.FixedPerUnit + b.Insurance + b.Maintenance
	return b
}

package deploy

import (
	"math"

	"capture-econ/internal/model"
)

// Schedule is the fleet rollout plan:
// - Units brought online per year: floor(y*DeployRate)+1, capped at FleetSize
// - Per-unit installed cost under a learning curve: unit1 * n^log2(LR)
//
// UnitCapex is computed once and is read-only afterwards.
type Schedule struct {
	FleetSize  int
	DeployRate float64

	// UnitCapex[i] is the installed cost of unit i+1, in deployment order.
	UnitCapex []float64

	// cumCapex[n] is the summed cost of units 1..n (cumCapex[0] = 0).
	cumCapex []float64
}

// New builds the schedule. The learning curve is applied verbatim for any
// learning rate; a rate that makes a unit cost non-finite is reported as a
// degenerate parameter.
func New(in model.Inputs) (*Schedule, error) {
	if in.FleetSize < 1 {
		return nil, model.Degenerate("fleet_size", "fleet must contain at least one unit")
	}
	unit1 := in.UnitCapex()
	exp := math.Log2(in.LearningRate)

	s := &Schedule{
		FleetSize:  in.FleetSize,
		DeployRate: in.DeployRate,
		UnitCapex:  make([]float64, in.FleetSize),
		cumCapex:   make([]float64, in.FleetSize+1),
	}
	for n := 1; n <= in.FleetSize; n++ {
		c := unit1
		if n > 1 {
			c = unit1 * math.Pow(float64(n), exp)
		}
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, model.Degenerate("learning_rate", "learning curve produced a non-finite unit cost")
		}
		s.UnitCapex[n-1] = c
		s.cumCapex[n] = s.cumCapex[n-1] + c
	}
	return s, nil
}

// Units is the number of units deployed by year offset y. Units(-1) is 0.
func (s *Schedule) Units(y int) int {
	if y < 0 {
		return 0
	}
	n := math.Floor(float64(y)*s.DeployRate) + 1
	if n >= float64(s.FleetSize) {
		return s.FleetSize
	}
	return int(n)
}

// CapitalSpent is the cost of the units newly deployed in year y.
func (s *Schedule) CapitalSpent(y int) float64 {
	return s.cumCapex[s.Units(y)] - s.cumCapex[s.Units(y-1)]
}

// CumulativeCapital is the cost of every unit deployed by year y.
func (s *Schedule) CumulativeCapital(y int) float64 {
	return s.cumCapex[s.Units(y)]
}

// TotalCapex is the cost of the full fleet.
func (s *Schedule) TotalCapex() float64 {
	return s.cumCapex[s.FleetSize]
}

package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput marks a parameter set the engine cannot run at all.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDegenerateParameter marks a parameter that would drive a formula to NaN/Inf.
	ErrDegenerateParameter = errors.New("degenerate parameter")
)

// DegenerateError names the parameter that made a computed quantity non-finite.
type DegenerateError struct {
	Param  string
	Reason string
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("degenerate parameter %s: %s", e.Param, e.Reason)
}

func (e *DegenerateError) Unwrap() error { return ErrDegenerateParameter }

// Degenerate is shorthand for constructing a *DegenerateError.
func Degenerate(param, reason string) error {
	return &DegenerateError{Param: param, Reason: reason}
}

// Validate rejects parameter sets the engine cannot evaluate.
// Fractions and rates are deliberately not range-checked; see Advisories.
func (in Inputs) Validate() error {
	if in.HorizonYears < 0 {
		return fmt.Errorf("%w: horizon_years must be >= 0", ErrInvalidInput)
	}
	if in.FleetSize < 1 {
		return fmt.Errorf("%w: fleet_size must be >= 1", ErrInvalidInput)
	}
	if in.DeployRate < 0 || math.IsNaN(in.DeployRate) || math.IsInf(in.DeployRate, 0) {
		return fmt.Errorf("%w: deploy_rate must be finite and >= 0", ErrInvalidInput)
	}
	if _, err := ParseEligibilityMode(string(in.EligibilityMode)); err != nil {
		return err
	}
	if in.ConsumableLifeYears == 0 {
		return Degenerate("consumable_life_years", "service life of zero divides replacement cost by zero")
	}
	return nil
}

// Advisories returns human-readable warnings about parameters that are legal
// but probably not what the analyst meant. They never stop a run.
func (in Inputs) Advisories() []string {
	var out []string

	fractions := []struct {
		name string
		v    float64
	}{
		{"availability", in.Availability},
		{"incentive_fraction", in.IncentiveFraction},
		{"alternate_fraction", in.AlternateFraction},
		{"market_fraction", in.MarketFraction},
		{"offtake_fraction", in.OfftakeFraction},
		{"compliance_fraction", in.ComplianceFraction},
	}
	for _, f := range fractions {
		if f.v < 0 || f.v > 1 {
			out = append(out, fmt.Sprintf("%s=%.3f is outside [0, 1]", f.name, f.v))
		}
	}

	if sum := in.AllocationSum(); sum > 1.01 {
		out = append(out, fmt.Sprintf("revenue allocations sum to %.0f%% of captured output (over 100%%)", sum*100))
	}

	if in.LearningRate <= 0 || in.LearningRate >= 1 {
		out = append(out, fmt.Sprintf("learning_rate=%.3f is outside (0, 1); unit cost will not decline with volume", in.LearningRate))
	}
	return out
}

// AllocationSum is the total share of output claimed by the four revenue streams.
// The alternate pathway is carved out of the offtake share, so it is not added again.
func (in Inputs) AllocationSum() float64 {
	return in.IncentiveFraction + in.MarketFraction + in.OfftakeFraction + in.ComplianceFraction
}

package model

import (
	"fmt"
	"strings"
)

// EligibilityMode selects how the incentive stream decides whether a year qualifies.
// Keep these values stable; they appear in scenario files and API payloads.
type EligibilityMode string

const (
	// EligibilityUnconditional pays the incentive in every year inside the window.
	EligibilityUnconditional EligibilityMode = "unconditional"
	// EligibilityThreshold pays only in years where fleet output reaches EligibilityThreshold.
	EligibilityThreshold EligibilityMode = "threshold"
)

// ParseEligibilityMode accepts the stable names (case-insensitive); empty means unconditional.
func ParseEligibilityMode(s string) (EligibilityMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(EligibilityUnconditional):
		return EligibilityUnconditional, nil
	case string(EligibilityThreshold):
		return EligibilityThreshold, nil
	default:
		return "", fmt.Errorf("%w: unknown eligibility_mode %q", ErrInvalidInput, s)
	}
}

// UnmarshalText normalizes scenario files and API payloads to the stable names.
func (m *EligibilityMode) UnmarshalText(b []byte) error {
	v, err := ParseEligibilityMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Gated reports whether eligibility depends on fleet output.
func (m EligibilityMode) Gated() bool {
	return m == EligibilityThreshold
}

// AllocationKind tags how a stream's share of output is priced.
type AllocationKind int

const (
	// AllocationFlat prices the whole share at the stream's own price.
	AllocationFlat AllocationKind = iota
	// AllocationSplit carves an alternate-pathway share out of the stream.
	AllocationSplit
)

func (k AllocationKind) String() string {
	switch k {
	case AllocationSplit:
		return "split"
	default:
		return "flat"
	}
}

// Allocation is the share of fleet output a revenue stream is paid on.
// Primary is paid at the stream's own price; Alternate is the
// alternate-pathway share and is always zero for a flat allocation.
type Allocation struct {
	Kind      AllocationKind
	Primary   float64
	Alternate float64
}

// Share is the total fraction of output the stream is paid on.
func (a Allocation) Share() float64 {
	return a.Primary + a.Alternate
}

// IncentiveAllocation splits incentive-eligible output by pathway.
// The alternate share only earns the incentive when AlternateEnabled is set.
func (in Inputs) IncentiveAllocation() Allocation {
	if in.AlternateFraction <= 0 {
		return Allocation{Kind: AllocationFlat, Primary: in.IncentiveFraction}
	}
	a := Allocation{Kind: AllocationSplit, Primary: in.IncentiveFraction}
	if in.AlternateEnabled {
		a.Alternate = in.AlternateFraction
	}
	return a
}

// OfftakeAllocation splits the contracted share between the standard offtake
// price and the alternate-pathway price.
func (in Inputs) OfftakeAllocation() Allocation {
	if in.AlternateFraction <= 0 {
		return Allocation{Kind: AllocationFlat, Primary: in.OfftakeFraction}
	}
	standard := in.OfftakeFraction - in.AlternateFraction
	if standard < 0 {
		standard = 0
	}
	return Allocation{Kind: AllocationSplit, Primary: standard, Alternate: in.AlternateFraction}
}

// SimplePolicy returns a copy with the extended policy toggles fixed off:
// unconditional eligibility and no alternate pathway.
func (in Inputs) SimplePolicy() Inputs {
	out := in
	out.EligibilityMode = EligibilityUnconditional
	out.AlternateEnabled = false
	out.AlternateFraction = 0
	return out
}

package models

import "encoding/json"

// SimulateRequest represents the request body for running a simulation.
// Inputs are applied on top of the scenario preset (or the defaults when
// Scenario is empty); keys left out keep the preset's values.
type SimulateRequest struct {
	Scenario string          `json:"scenario,omitempty"` // preset id, e.g. "baseline"
	Inputs   json.RawMessage `json:"inputs,omitempty"`
	Options  SimulateOptions `json:"options,omitempty"`
}

// SimulateOptions contains optional response shaping
type SimulateOptions struct {
	IncludeLedger      bool `json:"include_ledger,omitempty"`      // default: false
	IncludeSensitivity bool `json:"include_sensitivity,omitempty"` // default: false
}

// CompareRequest represents a request to compare several parameter variations
type CompareRequest struct {
	Scenario   string          `json:"scenario,omitempty"`
	BaseInputs json.RawMessage `json:"base_inputs,omitempty"`
	Variations []Variation     `json:"variations" binding:"required,min=1,dive"`
}

// Variation overlays Inputs on the comparison's base
type Variation struct {
	Name   string          `json:"name" binding:"required"`
	Inputs json.RawMessage `json:"inputs,omitempty"`
}

// SensitivityRequest represents a request for a standalone sensitivity sweep
type SensitivityRequest struct {
	Scenario string          `json:"scenario,omitempty"`
	Inputs   json.RawMessage `json:"inputs,omitempty"`
	Top      int             `json:"top,omitempty"` // 0 = all
}

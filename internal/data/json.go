package data

import (
	"encoding/json"
	"fmt"
	"os"

	"capture-econ/internal/model"
)

// LoadInputsJSON reads a JSON parameter set and applies it on top of base.
// Keys absent from the file keep their base values.
func LoadInputsJSON(path string, base model.Inputs) (model.Inputs, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	in, err := DecodeInputsJSON(raw, base)
	if err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// DecodeInputsJSON overlays a JSON object onto base.
func DecodeInputsJSON(raw []byte, base model.Inputs) (model.Inputs, error) {
	out := base
	if err := json.Unmarshal(raw, &out); err != nil {
		return base, err
	}
	return out, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"capture-econ/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk run configuration shape (YAML).
type Config struct {
	// Optional: start from a scenario file (e.g. examples/scenarios/*.yaml).
	// Keys under Inputs are applied on top of it.
	ScenarioFile string       `yaml:"scenario_file"`
	Inputs       yaml.Node    `yaml:"inputs"`
	Output       OutputConfig `yaml:"output"`

	// Model is the resolved parameter set: defaults, then the scenario file,
	// then Inputs.
	Model model.Inputs `yaml:"-"`
}

type OutputConfig struct {
	LedgerCSV  string `yaml:"ledger_csv"`
	ReportFile string `yaml:"report_file"`
	HTML       bool   `yaml:"html"`
}

// Scenario is the on-disk shape of a scenario file.
type Scenario struct {
	Meta   ScenarioMeta `yaml:"scenario"`
	Inputs yaml.Node    `yaml:"inputs"`
}

type ScenarioMeta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	c.Model = model.DefaultInputs()
	if c.ScenarioFile != "" {
		scenarioPath := c.ScenarioFile
		if !filepath.IsAbs(scenarioPath) {
			// Prefer paths relative to the config file, falling back to cwd.
			cand := filepath.Join(filepath.Dir(path), scenarioPath)
			if _, err := os.Stat(cand); err == nil {
				scenarioPath = cand
			}
		}
		_, c.Model, err = LoadScenarioFile(scenarioPath, c.Model)
		if err != nil {
			return nil, err
		}
	}
	if c.Model, err = Overlay(c.Model, &c.Inputs); err != nil {
		return nil, fmt.Errorf("inputs: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Model.Validate(); err != nil {
		return fmt.Errorf("inputs invalid: %w", err)
	}
	return nil
}

// LoadScenarioFile decodes a scenario file's inputs on top of base.
func LoadScenarioFile(path string, base model.Inputs) (ScenarioMeta, model.Inputs, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ScenarioMeta{}, base, err
	}
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return ScenarioMeta{}, base, fmt.Errorf("parse %s: %w", path, err)
	}
	in, err := Overlay(base, &s.Inputs)
	if err != nil {
		return ScenarioMeta{}, base, fmt.Errorf("%s: %w", path, err)
	}
	return s.Meta, in, nil
}

// Overlay decodes the mapping in node onto a copy of base. Only keys present
// in the mapping change, so an explicit zero overrides a non-zero base value.
// An empty node returns base unchanged.
func Overlay(base model.Inputs, node *yaml.Node) (model.Inputs, error) {
	if node == nil || node.Kind == 0 || node.Tag == "!!null" {
		return base, nil
	}
	out := base
	if err := node.Decode(&out); err != nil {
		return base, err
	}
	return out, nil
}

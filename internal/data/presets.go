package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"capture-econ/internal/config"
	"capture-econ/internal/model"
)

var ErrPresetNotFound = errors.New("preset not found")

// Preset describes one scenario file in the presets directory.
type Preset struct {
	ID          string // file name without extension
	Name        string
	Description string
	File        string
}

// ListPresets returns every readable *.yaml scenario in dir, sorted by ID.
// A missing directory yields an empty list. Files that fail to parse are
// returned in skipped rather than failing the listing.
func ListPresets(dir string) (presets []Preset, skipped map[string]error, err error) {
	presets = []Preset{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return presets, nil, nil
		}
		return nil, nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".yaml")
		p, _, err := LoadPreset(dir, id)
		if err != nil {
			if skipped == nil {
				skipped = map[string]error{}
			}
			skipped[id] = err
			continue
		}
		presets = append(presets, p)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })
	return presets, skipped, nil
}

// LoadPreset resolves id to dir/<id>.yaml and decodes it over DefaultInputs.
func LoadPreset(dir, id string) (Preset, model.Inputs, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return Preset{}, model.Inputs{}, fmt.Errorf("%w: %q", ErrPresetNotFound, id)
	}
	path := filepath.Join(dir, id+".yaml")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Preset{}, model.Inputs{}, fmt.Errorf("%w: %q", ErrPresetNotFound, id)
		}
		return Preset{}, model.Inputs{}, err
	}

	meta, in, err := config.LoadScenarioFile(path, model.DefaultInputs())
	if err != nil {
		return Preset{}, model.Inputs{}, err
	}
	name := meta.Name
	if name == "" {
		name = id
	}
	return Preset{ID: id, Name: name, Description: meta.Description, File: path}, in, nil
}

package handlers

import (
	"errors"
	"net/http"

	"capture-econ/internal/api/models"
	"capture-econ/internal/data"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScenarioHandler serves the scenario presets directory
type ScenarioHandler struct {
	log *zap.Logger
	dir string
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(logger *zap.Logger, dir string) *ScenarioHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("scenario directory", zap.String("dir", dir))
	return &ScenarioHandler{log: logger, dir: dir}
}

// Dir returns the presets directory
func (h *ScenarioHandler) Dir() string { return h.dir }

// ListScenarios handles GET /api/v1/scenarios
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	presets, skipped, err := data.ListPresets(h.dir)
	if err != nil {
		h.log.Error("list scenarios", zap.String("dir", h.dir), zap.Error(err))
		respondError(c, err)
		return
	}
	for id, err := range skipped {
		h.log.Warn("skipping unreadable scenario", zap.String("id", id), zap.Error(err))
	}

	scenarios := make([]models.ScenarioInfo, 0, len(presets))
	for _, p := range presets {
		scenarios = append(scenarios, models.ScenarioInfo{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			File:        p.File,
		})
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": scenarios})
}

// GetScenario handles GET /api/v1/scenarios/:id and returns the resolved inputs
func (h *ScenarioHandler) GetScenario(c *gin.Context) {
	p, in, err := data.LoadPreset(h.dir, c.Param("id"))
	if err != nil {
		if !errors.Is(err, data.ErrPresetNotFound) {
			h.log.Warn("load scenario", zap.String("id", c.Param("id")), zap.Error(err))
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scenario": models.ScenarioInfo{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			File:        p.File,
		},
		"inputs": in,
	})
}

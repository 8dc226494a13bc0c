package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"capture-econ/internal/analysis"
	"capture-econ/internal/api/metrics"
	"capture-econ/internal/api/models"
	"capture-econ/internal/data"
	"capture-econ/internal/engine"
	"capture-econ/internal/model"
	"capture-econ/internal/report"
	"capture-econ/internal/simulation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SimulationHandler handles simulation, comparison, sensitivity and result retrieval
type SimulationHandler struct {
	log         *zap.Logger
	engine      *engine.Engine
	analyzer    *analysis.Analyzer
	cache       *data.ResultCache
	metrics     *metrics.Metrics
	scenarioDir string
}

// NewSimulationHandler creates a new simulation handler. A nil metrics disables instrumentation.
func NewSimulationHandler(logger *zap.Logger, cache *data.ResultCache, m *metrics.Metrics, scenarioDir string) *SimulationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulationHandler{
		log:         logger,
		engine:      engine.New(logger),
		analyzer:    analysis.NewAnalyzer(logger),
		cache:       cache,
		metrics:     m,
		scenarioDir: scenarioDir,
	}
}

// Simulate handles POST /api/v1/simulate
func (h *SimulationHandler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("%v", err))
		return
	}

	in, err := resolveInputs(h.scenarioDir, req.Scenario, req.Inputs)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.run(in)
	if err != nil {
		respondError(c, err)
		return
	}

	response := models.SimulateResponse{
		ID:        h.cache.Put(in, res),
		Status:    "completed",
		Summary:   buildSummary(res),
		UnitCapex: res.UnitCapex,
		Warnings:  res.Warnings,
	}
	if req.Options.IncludeLedger {
		response.Ledger = convertLedger(res.Years)
	}
	if req.Options.IncludeSensitivity {
		response.Sensitivity = convertSensitivity(h.sensitivity(in, res.NPV))
	}
	c.JSON(http.StatusOK, response)
}

// Compare handles POST /api/v1/simulate/compare
func (h *SimulationHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("%v", err))
		return
	}

	base, err := resolveInputs(h.scenarioDir, req.Scenario, req.BaseInputs)
	if err != nil {
		respondError(c, err)
		return
	}

	response := models.CompareResponse{
		Comparison: make([]models.ComparisonResult, 0, len(req.Variations)),
	}
	for _, variation := range req.Variations {
		in, err := resolveVariation(base, variation)
		if err == nil {
			var res *engine.Result
			if res, err = h.run(in); err == nil {
				response.Comparison = append(response.Comparison, models.ComparisonResult{
					Name:     variation.Name,
					ID:       h.cache.Put(in, res),
					Summary:  buildSummary(res),
					Warnings: res.Warnings,
				})
				continue
			}
		}
		_, detail := errorDetail(err)
		response.Skipped = append(response.Skipped, models.SkippedVariation{Name: variation.Name, Error: detail})
	}

	c.JSON(http.StatusOK, response)
}

// Sensitivity handles POST /api/v1/sensitivity
func (h *SimulationHandler) Sensitivity(c *gin.Context) {
	var req models.SensitivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("%v", err))
		return
	}

	in, err := resolveInputs(h.scenarioDir, req.Scenario, req.Inputs)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.run(in)
	if err != nil {
		respondError(c, err)
		return
	}

	entries := analysis.Top(h.sensitivity(in, res.NPV), req.Top)
	c.JSON(http.StatusOK, models.SensitivityResponse{
		BaseNPV: res.NPV,
		Entries: convertSensitivity(entries),
	})
}

// GetLedger handles GET /api/v1/simulations/:id/ledger
// ?format=csv returns the ledger as a CSV attachment.
func (h *SimulationHandler) GetLedger(c *gin.Context) {
	id := c.Param("id")
	entry, ok := h.cache.Get(id)
	if !ok {
		respondNotFound(c, fmt.Sprintf("simulation %q not found or expired", id))
		return
	}

	if c.Query("format") == "csv" {
		var buf bytes.Buffer
		if err := simulation.WriteLedgerCSV(&buf, entry.Result.Years); err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ledger-%s.csv"`, id))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, models.LedgerResponse{
		ID:     id,
		Ledger: convertLedger(entry.Result.Years),
	})
}

// GetReport handles GET /api/v1/simulations/:id/report
// ?format=markdown returns the markdown source; ?sensitivity=true adds the sweep.
func (h *SimulationHandler) GetReport(c *gin.Context) {
	id := c.Param("id")
	entry, ok := h.cache.Get(id)
	if !ok {
		respondNotFound(c, fmt.Sprintf("simulation %q not found or expired", id))
		return
	}

	r := report.Report{
		Title:  "Simulation " + id,
		Inputs: entry.Inputs,
		Result: entry.Result,
	}
	if c.Query("sensitivity") == "true" {
		r.Sensitivity = h.sensitivity(entry.Inputs, entry.Result.NPV)
	}

	var buf bytes.Buffer
	if c.Query("format") == "markdown" {
		if err := report.Markdown(&buf, r); err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", buf.Bytes())
		return
	}
	if err := report.HTML(&buf, r); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Helper methods

func (h *SimulationHandler) run(in model.Inputs) (*engine.Result, error) {
	res, err := h.engine.Simulate(in)
	switch {
	case err == nil:
		h.metrics.ObserveRun("ok")
	case errors.Is(err, model.ErrDegenerateParameter):
		h.metrics.ObserveRun("degenerate")
	case errors.Is(err, model.ErrInvalidInput):
		h.metrics.ObserveRun("invalid")
	default:
		h.metrics.ObserveRun("error")
	}
	return res, err
}

func (h *SimulationHandler) sensitivity(in model.Inputs, baseNPV float64) []analysis.SensitivityEntry {
	entries := h.analyzer.Analyze(in, baseNPV)
	for _, e := range entries {
		h.metrics.ObserveFallbacks(e.Key, e.Fallbacks)
	}
	return entries
}

func resolveVariation(base model.Inputs, v models.Variation) (model.Inputs, error) {
	if len(v.Inputs) == 0 || string(v.Inputs) == "null" {
		return base, nil
	}
	in, err := data.DecodeInputsJSON(v.Inputs, base)
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			return model.Inputs{}, err
		}
		return model.Inputs{}, badRequest("variation %q inputs: %v", v.Name, err)
	}
	return in, nil
}

package handlers

import (
	"net/http"

	"capture-econ/internal/analysis"
	"capture-econ/internal/api/models"
	"capture-econ/internal/model"

	"github.com/gin-gonic/gin"
)

// ListParameters handles GET /api/v1/parameters.
// It returns the sensitivity catalog and the full default parameter set.
func ListParameters(c *gin.Context) {
	defaults := model.DefaultInputs()
	params := make([]models.ParameterInfo, 0, len(analysis.Parameters()))
	for _, p := range analysis.Parameters() {
		params = append(params, models.ParameterInfo{
			Key:     p.Key,
			Label:   p.Label,
			Unit:    p.Unit,
			Default: p.Value(defaults),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"parameters": params,
		"defaults":   defaults,
	})
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"capture-econ/internal/api/models"
	"capture-econ/internal/data"
	"capture-econ/internal/model"

	"github.com/gin-gonic/gin"
)

// requestError marks a malformed request payload (400).
type requestError struct{ err error }

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return &requestError{err: fmt.Errorf(format, args...)}
}

// errorDetail maps an error to its HTTP status and response body.
func errorDetail(err error) (int, models.ErrorDetail) {
	var reqErr *requestError
	var degErr *model.DegenerateError

	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()}
	case errors.Is(err, data.ErrPresetNotFound):
		return http.StatusNotFound, models.ErrorDetail{Code: "NOT_FOUND", Message: err.Error()}
	case errors.As(err, &degErr):
		return http.StatusUnprocessableEntity, models.ErrorDetail{
			Code:    "DEGENERATE_PARAMETER",
			Message: err.Error(),
			Details: map[string]interface{}{"param": degErr.Param},
		}
	case errors.Is(err, model.ErrDegenerateParameter):
		return http.StatusUnprocessableEntity, models.ErrorDetail{Code: "DEGENERATE_PARAMETER", Message: err.Error()}
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusUnprocessableEntity, models.ErrorDetail{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return http.StatusInternalServerError, models.ErrorDetail{Code: "INTERNAL_ERROR", Message: err.Error()}
	}
}

func respondError(c *gin.Context, err error) {
	status, detail := errorDetail(err)
	c.JSON(status, models.ErrorResponse{Error: detail})
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "NOT_FOUND",
			Message: message,
		},
	})
}

// resolveInputs starts from the named preset (or the defaults) and applies
// each non-empty JSON layer in order.
func resolveInputs(scenarioDir, scenario string, layers ...json.RawMessage) (model.Inputs, error) {
	in := model.DefaultInputs()
	if scenario != "" {
		var err error
		if _, in, err = data.LoadPreset(scenarioDir, scenario); err != nil {
			return model.Inputs{}, err
		}
	}
	for _, layer := range layers {
		if len(layer) == 0 || string(layer) == "null" {
			continue
		}
		next, err := data.DecodeInputsJSON(layer, in)
		if err != nil {
			// An unknown eligibility mode is a value problem, not a syntax one.
			if errors.Is(err, model.ErrInvalidInput) {
				return model.Inputs{}, err
			}
			return model.Inputs{}, badRequest("inputs: %v", err)
		}
		in = next
	}
	return in, nil
}

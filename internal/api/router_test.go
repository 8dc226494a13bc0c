package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"capture-econ/internal/api/models"
	"capture-econ/internal/config"
	"capture-econ/internal/data"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cache := data.NewResultCache(time.Hour)
	t.Cleanup(cache.Close)
	r, err := NewRouter(Deps{
		Config: config.Server{
			ScenarioDir:    filepath.Join("..", "..", "examples", "scenarios"),
			AllowedOrigins: []string{"https://app.example"},
		},
		Cache: cache,
	})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestNewRouterRequiresCache(t *testing.T) {
	if _, err := NewRouter(Deps{}); err == nil {
		t.Fatal("a router without a result cache must be rejected")
	}
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func simulate(t *testing.T, r http.Handler, body string) models.SimulateResponse {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/simulate", body)
	if w.Code != http.StatusOK {
		t.Fatalf("simulate: status %d body %s", w.Code, w.Body.String())
	}
	return decode[models.SimulateResponse](t, w)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	if w := do(t, r, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
}

func TestSimulateDefaults(t *testing.T) {
	r := newTestRouter(t)
	resp := simulate(t, r, `{}`)
	if resp.ID == "" || resp.Status != "completed" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if math.Abs(resp.Summary.UnitCapex1-319950) > 1e-6 {
		t.Fatalf("unit capex 1: %f", resp.Summary.UnitCapex1)
	}
	if resp.Summary.Years != 21 || len(resp.UnitCapex) != 10 {
		t.Fatalf("summary: %+v", resp.Summary)
	}
	if resp.Warnings == nil {
		t.Fatal("warnings must be present")
	}
	if len(resp.Ledger) != 0 || len(resp.Sensitivity) != 0 {
		t.Fatal("ledger and sensitivity are opt-in")
	}
}

func TestSimulateWithScenarioAndOptions(t *testing.T) {
	r := newTestRouter(t)
	resp := simulate(t, r, `{
		"scenario": "threshold_gated",
		"inputs": {"horizon_years": 5},
		"options": {"include_ledger": true, "include_sensitivity": true}
	}`)
	if len(resp.Ledger) != 6 {
		t.Fatalf("ledger rows: %d", len(resp.Ledger))
	}
	if len(resp.Sensitivity) != 8 {
		t.Fatalf("sensitivity entries: %d", len(resp.Sensitivity))
	}
	if resp.Ledger[0].Units != 1 {
		t.Fatalf("first year units: %d", resp.Ledger[0].Units)
	}
}

func TestSimulateErrors(t *testing.T) {
	r := newTestRouter(t)
	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"inputs":`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"wrong type", `{"inputs": {"fleet_size": "ten"}}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown scenario", `{"scenario": "nope"}`, http.StatusNotFound, "NOT_FOUND"},
		{"empty fleet", `{"inputs": {"fleet_size": 0}}`, http.StatusUnprocessableEntity, "INVALID_INPUT"},
		{"negative horizon", `{"inputs": {"horizon_years": -1}}`, http.StatusUnprocessableEntity, "INVALID_INPUT"},
		{"unknown mode", `{"inputs": {"eligibility_mode": "sometimes"}}`, http.StatusUnprocessableEntity, "INVALID_INPUT"},
		{"zero consumable life", `{"inputs": {"consumable_life_years": 0}}`, http.StatusUnprocessableEntity, "DEGENERATE_PARAMETER"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/v1/simulate", tc.body)
			if w.Code != tc.status {
				t.Fatalf("status %d want %d: %s", w.Code, tc.status, w.Body.String())
			}
			resp := decode[models.ErrorResponse](t, w)
			if resp.Error.Code != tc.code {
				t.Fatalf("code %s want %s", resp.Error.Code, tc.code)
			}
		})
	}

	w := do(t, r, http.MethodPost, "/api/v1/simulate", `{"inputs": {"consumable_life_years": 0}}`)
	resp := decode[models.ErrorResponse](t, w)
	if resp.Error.Details["param"] != "consumable_life_years" {
		t.Fatalf("details: %v", resp.Error.Details)
	}
}

func TestLedgerRetrieval(t *testing.T) {
	r := newTestRouter(t)
	resp := simulate(t, r, `{"inputs": {"horizon_years": 4}}`)

	w := do(t, r, http.MethodGet, "/api/v1/simulations/"+resp.ID+"/ledger", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	ledger := decode[models.LedgerResponse](t, w)
	if ledger.ID != resp.ID || len(ledger.Ledger) != 5 {
		t.Fatalf("ledger: id=%s rows=%d", ledger.ID, len(ledger.Ledger))
	}
	if ledger.Ledger[4].CumulativeDCF != resp.Summary.NPV {
		t.Fatal("final cumulative DCF must equal NPV")
	}

	w = do(t, r, http.MethodGet, "/api/v1/simulations/"+resp.ID+"/ledger?format=csv", "")
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("csv: status %d type %s", w.Code, w.Header().Get("Content-Type"))
	}
	rows, err := csv.NewReader(bytes.NewReader(w.Body.Bytes())).ReadAll()
	if err != nil || len(rows) != 6 {
		t.Fatalf("csv rows: %d %v", len(rows), err)
	}

	w = do(t, r, http.MethodGet, "/api/v1/simulations/missing/ledger", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing id: status %d", w.Code)
	}
}

func TestReport(t *testing.T) {
	r := newTestRouter(t)
	resp := simulate(t, r, `{"inputs": {"horizon_years": 2}}`)

	w := do(t, r, http.MethodGet, "/api/v1/simulations/"+resp.ID+"/report", "")
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("html: status %d type %s", w.Code, w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "<table>") {
		t.Fatal("report should contain tables")
	}

	w = do(t, r, http.MethodGet, "/api/v1/simulations/"+resp.ID+"/report?format=markdown&sensitivity=true", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "## Sensitivity") {
		t.Fatalf("markdown: status %d", w.Code)
	}

	if w := do(t, r, http.MethodGet, "/api/v1/simulations/missing/report", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing id: status %d", w.Code)
	}
}

func TestCompare(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/v1/simulate/compare", `{
		"base_inputs": {"horizon_years": 10},
		"variations": [
			{"name": "base"},
			{"name": "cheap power", "inputs": {"electricity_price": 0.02}},
			{"name": "broken", "inputs": {"fleet_size": 0}}
		]
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	resp := decode[models.CompareResponse](t, w)
	if len(resp.Comparison) != 2 || len(resp.Skipped) != 1 {
		t.Fatalf("comparison=%d skipped=%d", len(resp.Comparison), len(resp.Skipped))
	}
	if resp.Skipped[0].Name != "broken" || resp.Skipped[0].Error.Code != "INVALID_INPUT" {
		t.Fatalf("skipped: %+v", resp.Skipped[0])
	}
	if resp.Comparison[1].Summary.NPV <= resp.Comparison[0].Summary.NPV {
		t.Fatal("cheaper electricity should raise NPV")
	}

	if w := do(t, r, http.MethodPost, "/api/v1/simulate/compare", `{"variations": []}`); w.Code != http.StatusBadRequest {
		t.Fatalf("empty variations: status %d", w.Code)
	}
}

func TestSensitivity(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/v1/sensitivity", `{"top": 3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	resp := decode[models.SensitivityResponse](t, w)
	if len(resp.Entries) != 3 {
		t.Fatalf("entries: %d", len(resp.Entries))
	}
	for i := 1; i < len(resp.Entries); i++ {
		if resp.Entries[i].Delta > resp.Entries[i-1].Delta {
			t.Fatal("entries must be sorted by delta")
		}
	}
}

func TestCatalogEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/parameters", "")
	params := decode[struct {
		Parameters []models.ParameterInfo `json:"parameters"`
	}](t, w)
	if len(params.Parameters) != 8 || params.Parameters[0].Key != "incentive_rate" || params.Parameters[0].Default != 180 {
		t.Fatalf("parameters: %+v", params.Parameters)
	}

	w = do(t, r, http.MethodGet, "/api/v1/scenarios", "")
	list := decode[struct {
		Scenarios []models.ScenarioInfo `json:"scenarios"`
	}](t, w)
	found := false
	for _, s := range list.Scenarios {
		if s.ID == "baseline" {
			found = true
		}
	}
	if !found {
		t.Fatalf("baseline missing: %+v", list.Scenarios)
	}

	if w := do(t, r, http.MethodGet, "/api/v1/scenarios/baseline", ""); w.Code != http.StatusOK {
		t.Fatalf("get scenario: status %d", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/api/v1/scenarios/nope", ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown scenario: status %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/simulate", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("allow origin %q", got)
	}
}

func TestMetricsAndNotFound(t *testing.T) {
	r := newTestRouter(t)
	simulate(t, r, `{}`)

	w := do(t, r, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `capture_simulations_total{outcome="ok"} 1`) {
		t.Fatalf("metrics: status %d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/api/v1/nothing", "")
	if w.Code != http.StatusNotFound || decode[models.ErrorResponse](t, w).Error.Code != "NOT_FOUND" {
		t.Fatalf("unknown route: status %d", w.Code)
	}
}

package models

// SimulateResponse represents the response from a simulation run
type SimulateResponse struct {
	ID          string             `json:"id,omitempty"`
	Status      string             `json:"status"`
	Summary     Summary            `json:"summary"`
	UnitCapex   []float64          `json:"unit_capex"`
	Warnings    []string           `json:"warnings"`
	Ledger      []LedgerRow        `json:"ledger,omitempty"`
	Sensitivity []SensitivityEntry `json:"sensitivity,omitempty"`
}

// Summary contains the headline metrics of one run
type Summary struct {
	NPV                   float64  `json:"npv"`
	IRR                   *float64 `json:"irr"`                     // null when no root in [-50%, 200%]
	PaybackYear           *int     `json:"payback_year"`            // year offset, null if never
	DiscountedPaybackYear *int     `json:"discounted_payback_year"` // year offset, null if never
	LCCC                  float64  `json:"lccc"`                    // $/t
	BreakevenIncentive    float64  `json:"breakeven_incentive"`     // $/t
	AnnualOutputPerUnit   float64  `json:"annual_output_per_unit"`  // t/yr
	Year1FleetOutput      float64  `json:"year1_fleet_output"`      // t
	UnitCapex1            float64  `json:"unit_capex_1"`
	TotalCapex            float64  `json:"total_capex"`
	Year1PerTonne         PerTonne `json:"year1_per_tonne"`
	Years                 int      `json:"years"`
}

// PerTonne is a revenue breakdown in $/t
type PerTonne struct {
	Incentive  float64 `json:"incentive"`
	Market     float64 `json:"market"`
	Offtake    float64 `json:"offtake"`
	Compliance float64 `json:"compliance"`
	Total      float64 `json:"total"`
}

// LedgerRow represents one year in the simulation ledger
type LedgerRow struct {
	Year               int     `json:"year"`
	CalendarYear       int     `json:"calendar_year"`
	Units              int     `json:"units"`
	FleetOutput        float64 `json:"fleet_output"`
	IncentiveRevenue   float64 `json:"incentive_revenue"`
	MarketRevenue      float64 `json:"market_revenue"`
	OfftakeRevenue     float64 `json:"offtake_revenue"`
	ComplianceRevenue  float64 `json:"compliance_revenue"`
	TotalRevenue       float64 `json:"total_revenue"`
	OPEX               float64 `json:"opex"`
	Capex              float64 `json:"capex"`
	CashFlow           float64 `json:"cash_flow"`
	DiscountFactor     float64 `json:"discount_factor"`
	DiscountedCashFlow float64 `json:"discounted_cash_flow"`
	CumulativeDCF      float64 `json:"cumulative_dcf"`
	CumulativeCF       float64 `json:"cumulative_cf"`
	IncentiveEligible  bool    `json:"incentive_eligible"`
	RevenuePerTonne    float64 `json:"revenue_per_tonne"`
	OPEXPerTonne       float64 `json:"opex_per_tonne"`
}

// LedgerResponse is returned by GET /simulations/:id/ledger
type LedgerResponse struct {
	ID     string      `json:"id"`
	Ledger []LedgerRow `json:"ledger"`
}

// SensitivityEntry is the NPV swing for one parameter
type SensitivityEntry struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Unit      string  `json:"unit"`
	BaseValue float64 `json:"base_value"`
	LowNPV    float64 `json:"low_npv"`
	HighNPV   float64 `json:"high_npv"`
	Delta     float64 `json:"delta"`
	Fallbacks int     `json:"fallbacks,omitempty"`
}

// SensitivityResponse represents the response from a sensitivity sweep
type SensitivityResponse struct {
	BaseNPV float64            `json:"base_npv"`
	Entries []SensitivityEntry `json:"entries"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
	Skipped    []SkippedVariation `json:"skipped,omitempty"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Name     string   `json:"name"`
	ID       string   `json:"id"`
	Summary  Summary  `json:"summary"`
	Warnings []string `json:"warnings"`
}

// SkippedVariation names a variation that could not be simulated
type SkippedVariation struct {
	Name  string      `json:"name"`
	Error ErrorDetail `json:"error"`
}

// ScenarioInfo represents information about a scenario preset
type ScenarioInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	File        string `json:"file"`
}

// ParameterInfo describes one parameter of the sensitivity catalog
type ParameterInfo struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Unit    string  `json:"unit"`
	Default float64 `json:"default"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

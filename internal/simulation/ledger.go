package simulation

// YearRecord is one row of per-year output.
// This is the primary artifact for "what happened" in a simulation run.
// Records are created in increasing Year order and never mutated afterwards.
type YearRecord struct {
	Year         int // offset from the start year, 0-based
	CalendarYear int

	Units       int
	FleetOutput float64 // tonnes

	IncentiveRevenue  float64
	MarketRevenue     float64
	OfftakeRevenue    float64
	ComplianceRevenue float64
	TotalRevenue      float64

	OPEX  float64
	Capex float64

	CashFlow           float64
	DiscountFactor     float64
	DiscountedCashFlow float64
	CumulativeDCF      float64
	CumulativeCF       float64

	IncentiveEligible bool

	RevenuePerTonne float64
	OPEXPerTonne    float64
}

// Ledger is the full year sequence of one run plus the payback crossings.
type Ledger struct {
	Records []YearRecord

	// PaybackYear is the first y>0 with non-negative cumulative cash flow; nil if never.
	PaybackYear *int
	// DiscountedPaybackYear is the same test on cumulative discounted cash flow.
	DiscountedPaybackYear *int
}

// CashFlows returns the undiscounted cash flow series in year order.
func (l *Ledger) CashFlows() []float64 {
	out := make([]float64, len(l.Records))
	for i, r := range l.Records {
		out[i] = r.CashFlow
	}
	return out
}

// Final is the last record, or the zero record for an empty ledger.
func (l *Ledger) Final() YearRecord {
	if len(l.Records) == 0 {
		return YearRecord{}
	}
	return l.Records[len(l.Records)-1]
}

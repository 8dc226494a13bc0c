package simulation

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

var ledgerHeader = []string{
	"year",
	"calendar_year",
	"units",
	"fleet_output_t",
	"incentive_revenue",
	"market_revenue",
	"offtake_revenue",
	"compliance_revenue",
	"total_revenue",
	"opex",
	"capex",
	"cash_flow",
	"discount_factor",
	"discounted_cash_flow",
	"cum_dcf",
	"cum_cf",
	"incentive_eligible",
	"revenue_per_t",
	"opex_per_t",
}

// WriteLedgerCSVFile writes records to path, creating or truncating it.
func WriteLedgerCSVFile(path string, records []YearRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteLedgerCSV(f, records)
}

func WriteLedgerCSV(out io.Writer, records []YearRecord) error {
	w := csv.NewWriter(out)

	if err := w.Write(ledgerHeader); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.CalendarYear),
			strconv.Itoa(r.Units),
			fmtFloat(r.FleetOutput),
			fmtFloat(r.IncentiveRevenue),
			fmtFloat(r.MarketRevenue),
			fmtFloat(r.OfftakeRevenue),
			fmtFloat(r.ComplianceRevenue),
			fmtFloat(r.TotalRevenue),
			fmtFloat(r.OPEX),
			fmtFloat(r.Capex),
			fmtFloat(r.CashFlow),
			fmtFloat(r.DiscountFactor),
			fmtFloat(r.DiscountedCashFlow),
			fmtFloat(r.CumulativeDCF),
			fmtFloat(r.CumulativeCF),
			strconv.FormatBool(r.IncentiveEligible),
			fmtFloat(r.RevenuePerTonne),
			fmtFloat(r.OPEXPerTonne),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

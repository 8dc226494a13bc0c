package handlers

import (
	"capture-econ/internal/analysis"
	"capture-econ/internal/api/models"
	"capture-econ/internal/engine"
	"capture-econ/internal/simulation"
)

func buildSummary(res *engine.Result) models.Summary {
	pt := res.Year1PerTonne
	return models.Summary{
		NPV:                   res.NPV,
		IRR:                   res.IRR,
		PaybackYear:           res.PaybackYear,
		DiscountedPaybackYear: res.DiscountedPaybackYear,
		LCCC:                  res.LCCC,
		BreakevenIncentive:    res.BreakevenIncentive,
		AnnualOutputPerUnit:   res.AnnualOutputPerUnit,
		Year1FleetOutput:      res.Year1FleetOutput,
		UnitCapex1:            res.UnitCapex1,
		TotalCapex:            res.TotalCapex,
		Year1PerTonne: models.PerTonne{
			Incentive:  pt.Incentive,
			Market:     pt.Market,
			Offtake:    pt.Offtake,
			Compliance: pt.Compliance,
			Total:      pt.Total,
		},
		Years: len(res.Years),
	}
}

func convertLedger(records []simulation.YearRecord) []models.LedgerRow {
	out := make([]models.LedgerRow, len(records))
	for i, r := range records {
		out[i] = models.LedgerRow{
			Year:               r.Year,
			CalendarYear:       r.CalendarYear,
			Units:              r.Units,
			FleetOutput:        r.FleetOutput,
			IncentiveRevenue:   r.IncentiveRevenue,
			MarketRevenue:      r.MarketRevenue,
			OfftakeRevenue:     r.OfftakeRevenue,
			ComplianceRevenue:  r.ComplianceRevenue,
			TotalRevenue:       r.TotalRevenue,
			OPEX:               r.OPEX,
			Capex:              r.Capex,
			CashFlow:           r.CashFlow,
			DiscountFactor:     r.DiscountFactor,
			DiscountedCashFlow: r.DiscountedCashFlow,
			CumulativeDCF:      r.CumulativeDCF,
			CumulativeCF:       r.CumulativeCF,
			IncentiveEligible:  r.IncentiveEligible,
			RevenuePerTonne:    r.RevenuePerTonne,
			OPEXPerTonne:       r.OPEXPerTonne,
		}
	}
	return out
}

func convertSensitivity(entries []analysis.SensitivityEntry) []models.SensitivityEntry {
	out := make([]models.SensitivityEntry, len(entries))
	for i, e := range entries {
		out[i] = models.SensitivityEntry{
			Key:       e.Key,
			Label:     e.Label,
			Unit:      e.Unit,
			BaseValue: e.BaseValue,
			LowNPV:    e.LowNPV,
			HighNPV:   e.HighNPV,
			Delta:     e.Delta,
			Fallbacks: e.Fallbacks,
		}
	}
	return out
}

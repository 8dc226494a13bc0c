package model

// Inputs is the canonical "inputs to the system" object: one flat parameter set
// describing the capture unit, its revenue streams, its costs and the fleet rollout.
//
// Units:
// - CaptureRate: tonnes/day per unit
// - Availability, all *Fraction fields: 0..1 (not enforced; see Advisories)
// - RatedPowerKW: kW per unit
// - Prices: $/tonne (ElectricityPrice: $/kWh)
// - Escalation/inflation/discount rates: fraction per year
// - *Percent fields: percent of cumulative deployed capital per year
// - DeployRate: units brought online per year
//
// Inputs is passed by value and is never mutated by the engine.
type Inputs struct {
	CaptureRate  float64 `yaml:"capture_rate" json:"capture_rate"`
	Availability float64 `yaml:"availability" json:"availability"`
	RatedPowerKW float64 `yaml:"rated_power_kw" json:"rated_power_kw"`

	IncentiveRate        float64         `yaml:"incentive_rate" json:"incentive_rate"`
	IncentiveFraction    float64         `yaml:"incentive_fraction" json:"incentive_fraction"`
	IncentiveWindowYears int             `yaml:"incentive_window_years" json:"incentive_window_years"`
	InflationStartYear   int             `yaml:"inflation_start_year" json:"inflation_start_year"`
	InflationRate        float64         `yaml:"inflation_rate" json:"inflation_rate"`
	EligibilityMode      EligibilityMode `yaml:"eligibility_mode" json:"eligibility_mode"`
	EligibilityThreshold float64         `yaml:"eligibility_threshold" json:"eligibility_threshold"`
	AlternateEnabled     bool            `yaml:"alternate_enabled" json:"alternate_enabled"`
	AlternateFraction    float64         `yaml:"alternate_fraction" json:"alternate_fraction"`
	AlternatePrice       float64         `yaml:"alternate_price" json:"alternate_price"`

	MarketPrice      float64 `yaml:"market_price" json:"market_price"`
	MarketFraction   float64 `yaml:"market_fraction" json:"market_fraction"`
	MarketEscalation float64 `yaml:"market_escalation" json:"market_escalation"`

	OfftakePrice      float64 `yaml:"offtake_price" json:"offtake_price"`
	OfftakeFraction   float64 `yaml:"offtake_fraction" json:"offtake_fraction"`
	OfftakeEscalation float64 `yaml:"offtake_escalation" json:"offtake_escalation"`

	CompliancePrice    float64 `yaml:"compliance_price" json:"compliance_price"`
	ComplianceFraction float64 `yaml:"compliance_fraction" json:"compliance_fraction"`

	Capital           CapitalItems `yaml:"capital" json:"capital"`
	InstallFactor     float64      `yaml:"install_factor" json:"install_factor"`
	EngineeringFactor float64      `yaml:"engineering_factor" json:"engineering_factor"`

	ElectricityPrice    float64 `yaml:"electricity_price" json:"electricity_price"`
	ConsumableLifeYears float64 `yaml:"consumable_life_years" json:"consumable_life_years"`
	ConsumableCost      float64 `yaml:"consumable_cost" json:"consumable_cost"`
	LaborPerUnit        float64 `yaml:"labor_per_unit" json:"labor_per_unit"`
	MonitoringPerUnit   float64 `yaml:"monitoring_per_unit" json:"monitoring_per_unit"`
	SiteLeasePerUnit    float64 `yaml:"site_lease_per_unit" json:"site_lease_per_unit"`
	InsurancePercent    float64 `yaml:"insurance_percent" json:"insurance_percent"`
	MaintenancePercent  float64 `yaml:"maintenance_percent" json:"maintenance_percent"`
	OpexEscalation      float64 `yaml:"opex_escalation" json:"opex_escalation"`

	DiscountRate      float64 `yaml:"discount_rate" json:"discount_rate"`
	HorizonYears      int     `yaml:"horizon_years" json:"horizon_years"`
	StartYear         int     `yaml:"start_year" json:"start_year"`
	RevenueEscalation float64 `yaml:"revenue_escalation" json:"revenue_escalation"`

	FleetSize    int     `yaml:"fleet_size" json:"fleet_size"`
	LearningRate float64 `yaml:"learning_rate" json:"learning_rate"`
	DeployRate   float64 `yaml:"deploy_rate" json:"deploy_rate"`
}

// CapitalItems are the equipment line items for a single unit, in $.
type CapitalItems struct {
	Contactor       float64 `yaml:"contactor" json:"contactor"`
	Sorbent         float64 `yaml:"sorbent" json:"sorbent"`
	Fans            float64 `yaml:"fans" json:"fans"`
	VacuumPump      float64 `yaml:"vacuum_pump" json:"vacuum_pump"`
	Compressor      float64 `yaml:"compressor" json:"compressor"`
	HeatSystem      float64 `yaml:"heat_system" json:"heat_system"`
	Controls        float64 `yaml:"controls" json:"controls"`
	Piping          float64 `yaml:"piping" json:"piping"`
	Electrical      float64 `yaml:"electrical" json:"electrical"`
	Structure       float64 `yaml:"structure" json:"structure"`
	Instrumentation float64 `yaml:"instrumentation" json:"instrumentation"`
}

func (c CapitalItems) Sum() float64 {
	return c.Contactor + c.Sorbent + c.Fans + c.VacuumPump + c.Compressor + c.HeatSystem +
		c.Controls + c.Piping + c.Electrical + c.Structure + c.Instrumentation
}

// DefaultInputs is the reference scenario used when no preset is given.
func DefaultInputs() Inputs {
	return Inputs{
		CaptureRate:  3.5,
		Availability: 0.90,
		RatedPowerKW: 250,

		IncentiveRate:        180,
		IncentiveFraction:    0.6,
		IncentiveWindowYears: 12,
		InflationStartYear:   2027,
		InflationRate:        0.02,
		EligibilityMode:      EligibilityUnconditional,
		EligibilityThreshold: 1000,
		AlternateEnabled:     false,
		AlternateFraction:    0,
		AlternatePrice:       130,

		MarketPrice:      300,
		MarketFraction:   0.2,
		MarketEscalation: 0.01,

		OfftakePrice:      150,
		OfftakeFraction:   0.2,
		OfftakeEscalation: 0.02,

		CompliancePrice:    40,
		ComplianceFraction: 0,

		Capital: CapitalItems{
			Contactor:       60000,
			Sorbent:         25000,
			Fans:            18000,
			VacuumPump:      22000,
			Compressor:      30000,
			HeatSystem:      20000,
			Controls:        12000,
			Piping:          10000,
			Electrical:      15000,
			Structure:       17000,
			Instrumentation: 8000,
		},
		InstallFactor:     0.20,
		EngineeringFactor: 0.15,

		ElectricityPrice:    0.05,
		ConsumableLifeYears: 3,
		ConsumableCost:      25000,
		LaborPerUnit:        15000,
		MonitoringPerUnit:   5000,
		SiteLeasePerUnit:    3000,
		InsurancePercent:    1.0,
		MaintenancePercent:  2.5,
		OpexEscalation:      0.025,

		DiscountRate:      0.08,
		HorizonYears:      20,
		StartYear:         2026,
		RevenueEscalation: 0.02,

		FleetSize:    10,
		LearningRate: 0.90,
		DeployRate:   2,
	}
}

// AnnualOutputPerUnit is tonnes captured per unit per year.
func (in Inputs) AnnualOutputPerUnit() float64 {
	return in.CaptureRate * 365 * in.Availability
}

// UnitCapex is the installed cost of the first unit, before any learning.
func (in Inputs) UnitCapex() float64 {
	return in.Capital.Sum() * (1 + in.InstallFactor + in.EngineeringFactor)
}

// CalendarYear maps a year offset onto the calendar.
func (in Inputs) CalendarYear(y int) int {
	return in.StartYear + y
}

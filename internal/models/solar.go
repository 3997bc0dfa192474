package models

// LocationProfile identifies a point in Germany and its coarse region,
// derived once from coordinates and never mutated afterwards.
type LocationProfile struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RegionTag string  `json:"region_tag"` // north, south, east, west or center
}

// IrradianceSignal is the resolved output of the weather analysis: a daily
// irradiance value plus a 12-entry seasonal distribution. It is produced once
// per request and is a read-only input to the production estimator.
type IrradianceSignal struct {
	DailyIrradianceKWhM2 float64         `json:"daily_irradiance_kwh_m2"`
	SeasonalFactors      map[int]float64 `json:"seasonal_factors"` // month 1-12 -> factor
	SourceTag            string          `json:"source_tag"`
}

// SystemSpec describes the physical installation derived from the request.
// Budget scaling derives a new SystemSpec rather than mutating this one so
// the pre-scaling estimate stays auditable.
type SystemSpec struct {
	RoofAreaM2        float64 `json:"roof_area_m2"`
	Orientation       string  `json:"orientation"`
	OrientationFactor float64 `json:"orientation_factor"`
	PanelEfficiency   float64 `json:"panel_efficiency"`
	SystemLosses      float64 `json:"system_losses"`
	CapacityKW        float64 `json:"capacity_kw"`
}

// ProductionEstimate is the energy output derived from a SystemSpec and an
// IrradianceSignal. MonthlyKWh always has 12 entries (January first) and sums
// to AnnualKWh within floating rounding.
type ProductionEstimate struct {
	AnnualKWh         float64   `json:"annual_kwh"`
	DailyAverageKWh   float64   `json:"daily_average_kwh"`
	MonthlyKWh        []float64 `json:"monthly_kwh"`
	PeakMonth         int       `json:"peak_month"`
	PeakMonthKWh      float64   `json:"peak_month_kwh"`
	CapacityFactorPct float64   `json:"capacity_factor_pct"`
}

// IncentivePackage holds the German subsidy figures for a given capacity.
// It must be recomputed whenever capacity changes.
type IncentivePackage struct {
	FeedInTariffEURPerKWh float64 `json:"feed_in_tariff_eur_per_kwh"`
	KfWLoanBenefitEUR     float64 `json:"kfw_loan_benefit_eur"`
	RegionalIncentiveEUR  float64 `json:"regional_incentive_eur"`
	TotalIncentivesEUR    float64 `json:"total_incentives_eur"`
}

// SelfConsumptionBreakdown splits annual production into on-site consumption
// and grid export. SelfConsumedKWh + FedInKWh equals the annual production
// exactly.
type SelfConsumptionBreakdown struct {
	Rate                 float64 `json:"self_consumption_rate"`
	FeedInRate           float64 `json:"feed_in_rate"`
	SelfConsumedKWh      float64 `json:"self_consumed_kwh"`
	FedInKWh             float64 `json:"fed_in_kwh"`
	HouseholdCoveragePct float64 `json:"household_coverage_pct"`
	Method               string  `json:"method"`
}

// ScalingOutcome records whether and how the system was shrunk to fit the
// budget. SystemScaled is false for a passthrough.
type ScalingOutcome struct {
	SystemScaled     bool    `json:"system_scaled"`
	ScalingFactor    float64 `json:"scaling_factor,omitempty"`
	ScaledCapacityKW float64 `json:"scaled_capacity_kw,omitempty"`
	ScaledAnnualKWh  float64 `json:"scaled_annual_kwh,omitempty"`
}

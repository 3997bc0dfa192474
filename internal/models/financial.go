package models

import "time"

// FinancialResult is the terminal artifact of the modeling pipeline. Monetary
// and energy fields are rounded to 2 decimals, percentages and year figures to
// 1 decimal; rounding happens once at the engine boundary.
type FinancialResult struct {
	AnnualSavingsEUR        float64                  `json:"annual_savings"`
	ElectricitySavingsEUR   float64                  `json:"electricity_savings_eur"`
	FeedInIncomeEUR         float64                  `json:"feed_in_income_eur"`
	PaybackPeriodYears      float64                  `json:"payback_period_years"`
	ROIPercentage           float64                  `json:"roi_percentage"`
	TotalInvestmentEUR      float64                  `json:"total_investment"`
	NPVEUR                  float64                  `json:"npv_eur"`
	IRRPercentageEstimate   float64                  `json:"irr_percentage_estimate"`
	LifetimeSavingsEUR      float64                  `json:"lifetime_savings_eur"`
	CO2ReductionTonsPerYear float64                  `json:"co2_reduction_tons_per_year"`
	CO2ReductionTons25Years float64                  `json:"co2_reduction_tons_lifetime"`
	SelfConsumption         SelfConsumptionBreakdown `json:"self_consumption_breakdown"`
}

// FeasibilityResult bundles the terminal FinancialResult with the
// intermediate records for callers that need the full breakdown.
type FeasibilityResult struct {
	Location   LocationProfile    `json:"location"`
	Irradiance IrradianceSignal   `json:"irradiance"`
	System     SystemSpec         `json:"system"`
	Production ProductionEstimate `json:"production"`
	Incentives IncentivePackage   `json:"incentives"`
	Scaling    ScalingOutcome     `json:"scaling"`
	Financial  FinancialResult    `json:"financial"`

	// Pre-scaling records, kept for auditability when the budget binds.
	OriginalSystem     *SystemSpec         `json:"original_system,omitempty"`
	OriginalProduction *ProductionEstimate `json:"original_production,omitempty"`

	ElectricityRateEURPerKWh float64 `json:"electricity_rate_eur_per_kwh"`
}

// AnalysisRecord is a persisted feasibility analysis.
type AnalysisRecord struct {
	ID                 string    `json:"id" db:"id"`
	Location           string    `json:"location" db:"location"`
	Latitude           float64   `json:"latitude" db:"latitude"`
	Longitude          float64   `json:"longitude" db:"longitude"`
	RoofAreaM2         float64   `json:"roof_area_m2" db:"roof_area_m2"`
	Orientation        string    `json:"orientation" db:"orientation"`
	AnnualKWh          float64   `json:"annual_kwh" db:"annual_kwh"`
	CapacityKW         float64   `json:"capacity_kw" db:"capacity_kw"`
	AnnualSavingsEUR   float64   `json:"annual_savings_eur" db:"annual_savings_eur"`
	PaybackPeriodYears float64   `json:"payback_period_years" db:"payback_period_years"`
	TotalInvestmentEUR float64   `json:"total_investment_eur" db:"total_investment_eur"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

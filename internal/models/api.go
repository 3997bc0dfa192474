package models

import "time"

// AnalyzeRequest is the payload for the feasibility analysis endpoint.
// Either Location or an explicit coordinate pair must be supplied.
type AnalyzeRequest struct {
	Location                string   `json:"location"`
	Latitude                *float64 `json:"latitude"`
	Longitude               *float64 `json:"longitude"`
	RoofAreaM2              float64  `json:"roof_area_m2" binding:"required,gt=0"`
	Orientation             string   `json:"orientation"`
	WeatherAnalysis         string   `json:"weather_analysis"`
	BudgetEUR               *float64 `json:"budget_eur"`
	HouseholdConsumptionKWh *float64 `json:"household_consumption_kwh"`
}

// AnalyzeResponse is the response for the feasibility analysis endpoint.
type AnalyzeResponse struct {
	ID                string            `json:"id"`
	Location          string            `json:"location"`
	Result            FeasibilityResult `json:"result"`
	FeasibilityReport string            `json:"feasibility_report"`
	Recommendations   []string          `json:"recommendations"`
	Timestamp         time.Time         `json:"timestamp"`
}

// AnalysesResponse lists recently persisted analyses.
type AnalysesResponse struct {
	Analyses  []AnalysisRecord `json:"analyses"`
	Count     int              `json:"count"`
	Timestamp time.Time        `json:"timestamp"`
}

// ElectricityPriceResponse reports the current electricity price snapshot.
type ElectricityPriceResponse struct {
	PriceEURPerKWh float64   `json:"electricity_price_eur_per_kwh"`
	Source         string    `json:"source"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PriceUpdateRequest sets the electricity price manually.
type PriceUpdateRequest struct {
	PriceEURPerKWh float64 `json:"price_eur_per_kwh" binding:"required,gt=0"`
}

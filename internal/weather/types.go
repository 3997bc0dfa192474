package weather

// RecentResponse is the weather service payload for current conditions.
type RecentResponse struct {
	DailyIrradianceKWhM2 float64 `json:"daily_irradiance_kwh_m2"`
	TemperatureCelsius   float64 `json:"temperature_celsius"`
	ObservationDate      string  `json:"observation_date"`
}

// HistoryResponse is the weather service payload for multi-year averages.
type HistoryResponse struct {
	OverallAverageKWhM2 float64            `json:"overall_average_kwh_m2"`
	MonthlyAverages     map[string]float64 `json:"monthly_averages"`
	Years               int                `json:"years"`
}

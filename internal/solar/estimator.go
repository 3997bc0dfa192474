package solar

import (
	"math"
	"strings"

	"github.com/enerlytic/solarplan-go/internal/models"
)

// Modeling constants for German rooftop installations.
const (
	// PanelEfficiency is the conversion efficiency of modern panels.
	PanelEfficiency = 0.20
	// SystemLosses covers inverter, wiring and soiling losses.
	SystemLosses = 0.85
	// PanelDensityKWPerM2 is the realistic installed capacity per m² of roof.
	PanelDensityKWPerM2 = 0.20
	// PeakToAverageRatio converts a measured daily peak irradiance (taken
	// near the summer maximum) to an annual average. This is a modeling
	// assumption, not a measurement.
	PeakToAverageRatio = 1.4
	// DefaultOrientationFactor applies when the orientation tag is unknown.
	DefaultOrientationFactor = 0.85

	hoursPerYear = 8760
	daysPerYear  = 365
	monthsCount  = 12
)

// orientationFactors relate each roof orientation to an optimal south-facing
// installation.
var orientationFactors = map[string]float64{
	"south":     1.0,
	"southeast": 0.95,
	"southwest": 0.95,
	"east":      0.85,
	"west":      0.85,
	"northeast": 0.75,
	"northwest": 0.75,
	"north":     0.6,
}

// OrientationFactor returns the efficiency factor for a roof orientation.
// Unknown orientations fall back to DefaultOrientationFactor.
func OrientationFactor(orientation string) float64 {
	if f, ok := orientationFactors[strings.ToLower(orientation)]; ok {
		return f
	}
	return DefaultOrientationFactor
}

// Estimator converts roof geometry, orientation and an irradiance signal into
// annual and monthly energy output.
type Estimator struct{}

func NewEstimator() *Estimator {
	return &Estimator{}
}

// NewSystemSpec derives the physical system description for a request.
func (e *Estimator) NewSystemSpec(roofAreaM2 float64, orientation string) (models.SystemSpec, error) {
	if roofAreaM2 <= 0 {
		return models.SystemSpec{}, invalidInput("roof_area_m2", "must be greater than zero")
	}
	return models.SystemSpec{
		RoofAreaM2:        roofAreaM2,
		Orientation:       strings.ToLower(orientation),
		OrientationFactor: OrientationFactor(orientation),
		PanelEfficiency:   PanelEfficiency,
		SystemLosses:      SystemLosses,
		CapacityKW:        round1(roofAreaM2 * PanelDensityKWPerM2),
	}, nil
}

// Estimate computes the production estimate for a system under an irradiance
// signal. The signal's daily value is treated as a seasonal peak and converted
// to an annual average by PeakToAverageRatio before the output formula.
func (e *Estimator) Estimate(spec models.SystemSpec, signal models.IrradianceSignal) (*models.ProductionEstimate, error) {
	if spec.RoofAreaM2 <= 0 {
		return nil, invalidInput("roof_area_m2", "must be greater than zero")
	}
	if signal.DailyIrradianceKWhM2 <= 0 {
		return nil, invalidInput("irradiance_signal", "daily irradiance missing or non-positive")
	}
	for month, factor := range signal.SeasonalFactors {
		if month < 1 || month > monthsCount {
			return nil, invalidInput("irradiance_signal", "seasonal factor month out of range")
		}
		if factor <= 0 {
			return nil, invalidInput("irradiance_signal", "seasonal factors must be strictly positive")
		}
	}

	annualAvgIrradiance := signal.DailyIrradianceKWhM2 / PeakToAverageRatio
	annualKWh := annualAvgIrradiance *
		spec.RoofAreaM2 *
		spec.PanelEfficiency *
		spec.SystemLosses *
		spec.OrientationFactor *
		daysPerYear

	monthly := distributeMonthly(annualKWh, signal.SeasonalFactors)
	peakMonth, peakKWh := peakOf(monthly)

	return &models.ProductionEstimate{
		AnnualKWh:         round2(annualKWh),
		DailyAverageKWh:   round2(annualKWh / daysPerYear),
		MonthlyKWh:        monthly,
		PeakMonth:         peakMonth,
		PeakMonthKWh:      peakKWh,
		CapacityFactorPct: round1(annualKWh / (spec.CapacityKW * hoursPerYear) * 100),
	}, nil
}

// distributeMonthly redistributes the annual total across 12 months using the
// seasonal factors normalized against their own average, so the monthly series
// preserves the annual sum. Months without a factor take a flat share.
func distributeMonthly(annualKWh float64, factors map[int]float64) []float64 {
	resolved := make([]float64, monthsCount)
	sum := 0.0
	for i := 0; i < monthsCount; i++ {
		f, ok := factors[i+1]
		if !ok {
			f = 1.0
		}
		resolved[i] = f
		sum += f
	}
	avg := sum / monthsCount

	monthly := make([]float64, monthsCount)
	for i, f := range resolved {
		monthly[i] = round2(annualKWh * (f / avg) / monthsCount)
	}
	return monthly
}

// peakOf returns the 1-based peak month and its output; ties resolve to the
// earliest month.
func peakOf(monthly []float64) (int, float64) {
	peakMonth := 1
	peakKWh := monthly[0]
	for i := 1; i < len(monthly); i++ {
		if monthly[i] > peakKWh {
			peakMonth = i + 1
			peakKWh = monthly[i]
		}
	}
	return peakMonth, peakKWh
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

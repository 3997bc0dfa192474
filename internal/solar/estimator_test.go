package solar

import (
	"errors"
	"math"
	"testing"

	"github.com/enerlytic/solarplan-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatSeasonalFactors() map[int]float64 {
	factors := make(map[int]float64, 12)
	for m := 1; m <= 12; m++ {
		factors[m] = 1.0
	}
	return factors
}

func germanSeasonalFactors() map[int]float64 {
	return map[int]float64{
		1: 0.4, 2: 0.6, 3: 0.8, 4: 1.1, 5: 1.3, 6: 1.4,
		7: 1.4, 8: 1.2, 9: 1.0, 10: 0.7, 11: 0.5, 12: 0.3,
	}
}

func TestNewSystemSpec(t *testing.T) {
	est := NewEstimator()

	spec, err := est.NewSystemSpec(50, "south")
	require.NoError(t, err)
	assert.Equal(t, 10.0, spec.CapacityKW)
	assert.Equal(t, 1.0, spec.OrientationFactor)
	assert.Equal(t, PanelEfficiency, spec.PanelEfficiency)
	assert.Equal(t, SystemLosses, spec.SystemLosses)

	_, err = est.NewSystemSpec(0, "south")
	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "roof_area_m2", invalid.Field)

	_, err = est.NewSystemSpec(-3, "south")
	assert.Error(t, err)
}

func TestOrientationFactor(t *testing.T) {
	tests := []struct {
		orientation string
		want        float64
	}{
		{"south", 1.0},
		{"southeast", 0.95},
		{"southwest", 0.95},
		{"east", 0.85},
		{"west", 0.85},
		{"northeast", 0.75},
		{"northwest", 0.75},
		{"north", 0.6},
		{"SOUTH", 1.0},
		{"flat", DefaultOrientationFactor},
		{"", DefaultOrientationFactor},
	}

	for _, tt := range tests {
		t.Run(tt.orientation, func(t *testing.T) {
			assert.Equal(t, tt.want, OrientationFactor(tt.orientation))
		})
	}
}

func TestEstimateFlatSeasonalPattern(t *testing.T) {
	est := NewEstimator()
	spec, err := est.NewSystemSpec(50, "south")
	require.NoError(t, err)

	signal := models.IrradianceSignal{
		DailyIrradianceKWhM2: 3.5,
		SeasonalFactors:      flatSeasonalFactors(),
		SourceTag:            "test",
	}

	result, err := est.Estimate(spec, signal)
	require.NoError(t, err)

	// 3.5/1.4 = 2.5 annual average; 2.5 * 50 * 0.20 * 0.85 * 1.0 * 365.
	assert.InDelta(t, 7756.25, result.AnnualKWh, 0.01)
	assert.InDelta(t, 21.25, result.DailyAverageKWh, 0.01)
	assert.Len(t, result.MonthlyKWh, 12)
	for _, kwh := range result.MonthlyKWh {
		assert.InDelta(t, 646.35, kwh, 0.01)
	}
	assert.InDelta(t, 8.9, result.CapacityFactorPct, 0.05)
	// Flat factors tie every month; the earliest wins.
	assert.Equal(t, 1, result.PeakMonth)
}

func TestEstimateMonthlyAnnualConsistency(t *testing.T) {
	est := NewEstimator()

	tests := []struct {
		name    string
		area    float64
		factors map[int]float64
	}{
		{"flat pattern", 50, flatSeasonalFactors()},
		{"german pattern", 50, germanSeasonalFactors()},
		{"sparse pattern", 120, map[int]float64{6: 1.4, 7: 1.4, 12: 0.3}},
		{"small roof", 8, germanSeasonalFactors()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := est.NewSystemSpec(tt.area, "southwest")
			require.NoError(t, err)

			result, err := est.Estimate(spec, models.IrradianceSignal{
				DailyIrradianceKWhM2: 3.8,
				SeasonalFactors:      tt.factors,
			})
			require.NoError(t, err)

			sum := 0.0
			for _, kwh := range result.MonthlyKWh {
				sum += kwh
			}
			assert.Less(t, math.Abs(sum-result.AnnualKWh), 0.01*result.AnnualKWh)
			assert.Greater(t, result.CapacityFactorPct, 0.0)
			assert.Less(t, result.CapacityFactorPct, 100.0)
		})
	}
}

func TestEstimatePeakMonth(t *testing.T) {
	est := NewEstimator()
	spec, err := est.NewSystemSpec(40, "south")
	require.NoError(t, err)

	result, err := est.Estimate(spec, models.IrradianceSignal{
		DailyIrradianceKWhM2: 4.1,
		SeasonalFactors:      germanSeasonalFactors(),
	})
	require.NoError(t, err)

	// June and July share the 1.4 factor; the tie resolves to June.
	assert.Equal(t, 6, result.PeakMonth)
	assert.Equal(t, result.MonthlyKWh[5], result.PeakMonthKWh)
	for _, kwh := range result.MonthlyKWh {
		assert.LessOrEqual(t, kwh, result.PeakMonthKWh)
	}
}

func TestEstimateInvalidInputs(t *testing.T) {
	est := NewEstimator()
	validSpec, err := est.NewSystemSpec(50, "south")
	require.NoError(t, err)

	tests := []struct {
		name   string
		spec   models.SystemSpec
		signal models.IrradianceSignal
	}{
		{
			name:   "zero roof area",
			spec:   models.SystemSpec{},
			signal: models.IrradianceSignal{DailyIrradianceKWhM2: 3.5},
		},
		{
			name:   "missing irradiance",
			spec:   validSpec,
			signal: models.IrradianceSignal{},
		},
		{
			name:   "negative irradiance",
			spec:   validSpec,
			signal: models.IrradianceSignal{DailyIrradianceKWhM2: -1},
		},
		{
			name: "non-positive seasonal factor",
			spec: validSpec,
			signal: models.IrradianceSignal{
				DailyIrradianceKWhM2: 3.5,
				SeasonalFactors:      map[int]float64{6: 0},
			},
		},
		{
			name: "seasonal factor month out of range",
			spec: validSpec,
			signal: models.IrradianceSignal{
				DailyIrradianceKWhM2: 3.5,
				SeasonalFactors:      map[int]float64{13: 1.0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := est.Estimate(tt.spec, tt.signal)
			var invalid *InvalidInputError
			assert.True(t, errors.As(err, &invalid), "expected InvalidInputError, got %v", err)
		})
	}
}

func TestEstimateMissingMonthsTakeFlatShare(t *testing.T) {
	est := NewEstimator()
	spec, err := est.NewSystemSpec(50, "south")
	require.NoError(t, err)

	// Only June is boosted; the other eleven months default to factor 1.0.
	result, err := est.Estimate(spec, models.IrradianceSignal{
		DailyIrradianceKWhM2: 3.5,
		SeasonalFactors:      map[int]float64{6: 2.0},
	})
	require.NoError(t, err)

	assert.Equal(t, 6, result.PeakMonth)
	assert.InDelta(t, result.MonthlyKWh[0], result.MonthlyKWh[11], 0.01)
	assert.Greater(t, result.MonthlyKWh[5], result.MonthlyKWh[0])
}

package solar

import (
	"math"

	"github.com/enerlytic/solarplan-go/internal/models"
)

// EEG feed-in tariff tiers (EUR/kWh). Boundaries are inclusive: exactly
// 10.0 kW takes the small-system tariff, exactly 40.0 kW the middle one.
const (
	tariffSmall  = 0.082 // <= 10 kWp
	tariffMedium = 0.071 // <= 40 kWp
	tariffLarge  = 0.057 // > 40 kWp

	tariffSmallMaxKW  = 10.0
	tariffMediumMaxKW = 40.0

	kfwBenefitPerKW    = 200.0
	kfwBenefitCapEUR   = 10000.0
	regionalEURPerKW   = 150.0
	defaultIncentiveMx = 1.0
)

// regionIncentiveMultipliers adjust the feed-in tariff by region. The set is
// open ended: unrecognized regions use the default multiplier.
var regionIncentiveMultipliers = map[string]float64{
	"north":  1.05,
	"south":  1.15,
	"east":   0.95,
	"west":   1.05,
	"center": 1.0,
}

// IncentiveModel computes German solar incentives for a system capacity.
// It is a pure function of its inputs: no I/O, identical inputs yield
// identical output.
type IncentiveModel struct{}

func NewIncentiveModel() *IncentiveModel {
	return &IncentiveModel{}
}

// IncentiveMultiplier returns the regional tariff multiplier for a location.
func (m *IncentiveModel) IncentiveMultiplier(loc models.LocationProfile) float64 {
	if mx, ok := regionIncentiveMultipliers[loc.RegionTag]; ok {
		return mx
	}
	return defaultIncentiveMx
}

// Compute derives the incentive package for a capacity at a location. It must
// be called again whenever the capacity changes: the tariff tiers and the KfW
// cap are non-linear in capacity.
func (m *IncentiveModel) Compute(capacityKW float64, loc models.LocationProfile) models.IncentivePackage {
	var base float64
	switch {
	case capacityKW <= tariffSmallMaxKW:
		base = tariffSmall
	case capacityKW <= tariffMediumMaxKW:
		base = tariffMedium
	default:
		base = tariffLarge
	}

	kfw := math.Min(capacityKW*kfwBenefitPerKW, kfwBenefitCapEUR)
	regional := capacityKW * regionalEURPerKW

	return models.IncentivePackage{
		FeedInTariffEURPerKWh: round4(base * m.IncentiveMultiplier(loc)),
		KfWLoanBenefitEUR:     round2(kfw),
		RegionalIncentiveEUR:  round2(regional),
		TotalIncentivesEUR:    round2(kfw + regional),
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

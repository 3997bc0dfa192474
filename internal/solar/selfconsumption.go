package solar

import "github.com/enerlytic/solarplan-go/internal/models"

// Self-consumption allocation parameters.
const (
	// DefaultSelfConsumptionRate is the German household average, used when
	// no consumption figure is supplied.
	DefaultSelfConsumptionRate = 0.40
	// Rates are clamped to this band: some export always occurs in practice,
	// and self-consumption below 20% is implausible for a household system.
	minSelfConsumptionRate = 0.20
	maxSelfConsumptionRate = 0.95
)

// Allocation method tags.
const (
	MethodDefaultAverage = "default_average"
	MethodHouseholdBased = "household_based"
)

// SelfConsumptionModel splits annual production into self-consumed and
// grid-exported energy.
type SelfConsumptionModel struct{}

func NewSelfConsumptionModel() *SelfConsumptionModel {
	return &SelfConsumptionModel{}
}

// Allocate derives the self-consumption breakdown for an annual production.
// householdKWh is the optional annual household consumption; nil selects the
// default average rate. The returned breakdown partitions the production
// exactly: SelfConsumedKWh + FedInKWh == annualKWh.
func (m *SelfConsumptionModel) Allocate(annualKWh float64, householdKWh *float64) models.SelfConsumptionBreakdown {
	rate := DefaultSelfConsumptionRate
	method := MethodDefaultAverage
	coverage := 0.0

	if householdKWh != nil && *householdKWh > 0 && annualKWh > 0 {
		consumption := *householdKWh
		var raw float64
		if consumption <= annualKWh {
			raw = consumption / annualKWh
			coverage = 100.0
		} else {
			// Production is fully absorbed; coverage reflects the shortfall.
			raw = 1.0
			coverage = annualKWh / consumption * 100
		}
		rate = dampen(raw)
		method = MethodHouseholdBased
	}

	rate = clampRate(rate)
	feedInRate := 1 - rate

	selfConsumed := annualKWh * rate
	// Derived by subtraction so the partition is exact, not approximate.
	fedIn := annualKWh - selfConsumed

	return models.SelfConsumptionBreakdown{
		Rate:                 rate,
		FeedInRate:           feedInRate,
		SelfConsumedKWh:      selfConsumed,
		FedInKWh:             fedIn,
		HouseholdCoveragePct: round1(coverage),
		Method:               method,
	}
}

// dampen reduces the raw rate for time-of-use mismatch: production peaks at
// midday while household load does not.
func dampen(raw float64) float64 {
	switch {
	case raw >= 0.8:
		return raw * 0.85
	case raw >= 0.5:
		return raw * 0.80
	default:
		return raw * 0.90
	}
}

func clampRate(rate float64) float64 {
	if rate < minSelfConsumptionRate {
		return minSelfConsumptionRate
	}
	if rate > maxSelfConsumptionRate {
		return maxSelfConsumptionRate
	}
	return rate
}

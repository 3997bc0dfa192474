package solar

import (
	"math"

	"github.com/enerlytic/solarplan-go/internal/models"
)

// BudgetScaler shrinks a system proportionally when its net cost exceeds the
// budget. Incentives are recomputed from the scaled capacity rather than
// scaled linearly: the tariff tiers and the KfW cap are non-linear.
type BudgetScaler struct {
	incentives *IncentiveModel
}

func NewBudgetScaler(incentives *IncentiveModel) *BudgetScaler {
	return &BudgetScaler{incentives: incentives}
}

// Apply returns the (possibly scaled) system, production and incentives plus
// a ScalingOutcome. Passthrough cases return the inputs unchanged: no budget,
// a budget that already covers the net cost, or a net cost that is not
// positive (incentives exceed gross cost, so any budget suffices).
func (s *BudgetScaler) Apply(
	spec models.SystemSpec,
	est models.ProductionEstimate,
	inc models.IncentivePackage,
	loc models.LocationProfile,
	budgetEUR *float64,
) (models.SystemSpec, models.ProductionEstimate, models.IncentivePackage, models.ScalingOutcome) {
	outcome := models.ScalingOutcome{SystemScaled: false}

	if budgetEUR == nil || *budgetEUR <= 0 {
		return spec, est, inc, outcome
	}

	netSystemCost := spec.CapacityKW*SystemCostPerKW - inc.TotalIncentivesEUR
	if netSystemCost <= 0 || netSystemCost <= *budgetEUR {
		return spec, est, inc, outcome
	}

	// Binding constraint: factor is strictly in (0, 1).
	factor := *budgetEUR / netSystemCost

	scaledSpec := spec
	scaledSpec.RoofAreaM2 = spec.RoofAreaM2 * factor
	scaledSpec.CapacityKW = spec.CapacityKW * factor

	scaledEst := scaleProduction(est, scaledSpec.CapacityKW, factor)
	scaledInc := s.incentives.Compute(scaledSpec.CapacityKW, loc)

	outcome = models.ScalingOutcome{
		SystemScaled:     true,
		ScalingFactor:    round3(factor),
		ScaledCapacityKW: round2(scaledSpec.CapacityKW),
		ScaledAnnualKWh:  round1(scaledEst.AnnualKWh),
	}
	return scaledSpec, scaledEst, scaledInc, outcome
}

// scaleProduction scales every entry of the monthly series by the same
// factor. Linear scaling preserves the month ordering, so the peak month
// index is unchanged; its value is recomputed from the scaled series.
func scaleProduction(est models.ProductionEstimate, capacityKW, factor float64) models.ProductionEstimate {
	monthly := make([]float64, len(est.MonthlyKWh))
	for i, kwh := range est.MonthlyKWh {
		monthly[i] = round2(kwh * factor)
	}
	_, peakKWh := peakOf(monthly)

	annual := est.AnnualKWh * factor
	return models.ProductionEstimate{
		AnnualKWh:         round2(annual),
		DailyAverageKWh:   round2(annual / daysPerYear),
		MonthlyKWh:        monthly,
		PeakMonth:         est.PeakMonth,
		PeakMonthKWh:      peakKWh,
		CapacityFactorPct: round1(annual / (capacityKW * hoursPerYear) * 100),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

package solar

import (
	"math"

	"github.com/enerlytic/solarplan-go/internal/models"
)

// Financial model parameters for German residential installations.
const (
	// SystemCostPerKW is the installed cost per kW of capacity (2025 prices).
	SystemCostPerKW = 1800.0
	// MinInvestmentEUR floors the investment so tiny or heavily subsidized
	// systems do not produce zero or negative figures.
	MinInvestmentEUR = 500.0
	// SystemLifetimeYears is the modeled horizon.
	SystemLifetimeYears = 25
	// DegradationRate is the annual panel output degradation.
	DegradationRate = 0.005
	// MaintenanceCostPerYearEUR covers insurance, cleaning and monitoring.
	MaintenanceCostPerYearEUR = 200.0
	// DiscountRate is the NPV discount rate.
	DiscountRate = 0.04
	// GridCarbonFactorKgPerKWh is the German grid emission factor.
	GridCarbonFactorKgPerKWh = 0.401
	// PaybackSentinelYears signals "no payback within the modeled horizon"
	// when annual savings are not positive.
	PaybackSentinelYears = 999.0
)

// FinancialEngine combines savings, feed-in income, incentives and costs into
// the terminal financial metrics. All rounding happens here, at the boundary,
// never mid-calculation.
type FinancialEngine struct{}

func NewFinancialEngine() *FinancialEngine {
	return &FinancialEngine{}
}

// Compute derives the FinancialResult for a (possibly scaled) system.
// electricityRate is the per-request price snapshot threaded in at pipeline
// entry.
func (e *FinancialEngine) Compute(
	est models.ProductionEstimate,
	capacityKW float64,
	inc models.IncentivePackage,
	sc models.SelfConsumptionBreakdown,
	electricityRate float64,
) models.FinancialResult {
	totalInvestment := capacityKW*SystemCostPerKW - inc.TotalIncentivesEUR
	if totalInvestment < MinInvestmentEUR {
		totalInvestment = MinInvestmentEUR
	}

	electricitySavings := sc.SelfConsumedKWh * electricityRate
	feedInIncome := sc.FedInKWh * inc.FeedInTariffEURPerKWh
	annualSavings := electricitySavings + feedInIncome

	payback := PaybackSentinelYears
	if annualSavings > 0 {
		payback = totalInvestment / annualSavings
	}

	// Simple undiscounted lifetime return, distinct from the NPV below.
	roi := ((annualSavings * SystemLifetimeYears) - totalInvestment) / totalInvestment * 100

	npv, lifetimeSavings := e.npv(annualSavings, totalInvestment)

	// Deliberately an approximation, not a root-found internal rate of
	// return; the field name carries the caveat.
	irrEstimate := annualSavings / totalInvestment * 100

	co2TonsPerYear := est.AnnualKWh * GridCarbonFactorKgPerKWh / 1000
	// Lifetime CO2 ignores production degradation for simplicity.
	co2TonsLifetime := co2TonsPerYear * SystemLifetimeYears

	return models.FinancialResult{
		AnnualSavingsEUR:        round2(annualSavings),
		ElectricitySavingsEUR:   round2(electricitySavings),
		FeedInIncomeEUR:         round2(feedInIncome),
		PaybackPeriodYears:      round1(payback),
		ROIPercentage:           round1(roi),
		TotalInvestmentEUR:      round2(totalInvestment),
		NPVEUR:                  round2(npv),
		IRRPercentageEstimate:   round1(irrEstimate),
		LifetimeSavingsEUR:      round2(lifetimeSavings),
		CO2ReductionTonsPerYear: round2(co2TonsPerYear),
		CO2ReductionTons25Years: round1(co2TonsLifetime),
		SelfConsumption:         sc,
	}
}

// npv discounts each year's net cash flow (savings degraded by DegradationRate
// compounding, minus maintenance) at DiscountRate over the system lifetime,
// with year 0 being the negative investment. The second return value is the
// undiscounted sum of the year 1..n flows.
func (e *FinancialEngine) npv(annualSavings, totalInvestment float64) (npv float64, lifetimeSavings float64) {
	npv = -totalInvestment
	for year := 1; year <= SystemLifetimeYears; year++ {
		degraded := annualSavings * math.Pow(1-DegradationRate, float64(year))
		net := degraded - MaintenanceCostPerYearEUR
		lifetimeSavings += net
		npv += net / math.Pow(1+DiscountRate, float64(year))
	}
	return npv, lifetimeSavings
}

package solar

import "github.com/enerlytic/solarplan-go/internal/models"

// PipelineInput is the single-call contract of the modeling engine. All
// external data (irradiance, electricity price) must already be resolved to
// plain values: the pipeline performs no I/O.
type PipelineInput struct {
	RoofAreaM2               float64
	Orientation              string
	Irradiance               models.IrradianceSignal
	Location                 models.LocationProfile
	BudgetEUR                *float64
	HouseholdConsumptionKWh  *float64
	ElectricityRateEURPerKWh float64
}

// Pipeline wires the calculator stages in order: estimation, incentives,
// budget scaling (which recomputes incentives), self-consumption allocation
// and the financial engine. Each stage returns an immutable record; the
// pipeline threads them forward.
type Pipeline struct {
	estimator       *Estimator
	incentives      *IncentiveModel
	selfConsumption *SelfConsumptionModel
	scaler          *BudgetScaler
	financial       *FinancialEngine
}

func NewPipeline() *Pipeline {
	incentives := NewIncentiveModel()
	return &Pipeline{
		estimator:       NewEstimator(),
		incentives:      incentives,
		selfConsumption: NewSelfConsumptionModel(),
		scaler:          NewBudgetScaler(incentives),
		financial:       NewFinancialEngine(),
	}
}

// ComputeFeasibility runs the full deterministic chain and returns the
// terminal FinancialResult together with every intermediate record.
func (p *Pipeline) ComputeFeasibility(in PipelineInput) (*models.FeasibilityResult, error) {
	if in.Location.RegionTag == "" {
		return nil, invalidInput("location", "region profile is required")
	}
	if in.ElectricityRateEURPerKWh < 0 {
		return nil, invalidInput("electricity_rate_eur_per_kwh", "must not be negative")
	}
	if in.BudgetEUR != nil && *in.BudgetEUR <= 0 {
		return nil, invalidInput("budget_eur", "must be greater than zero when present")
	}

	spec, err := p.estimator.NewSystemSpec(in.RoofAreaM2, in.Orientation)
	if err != nil {
		return nil, err
	}

	production, err := p.estimator.Estimate(spec, in.Irradiance)
	if err != nil {
		return nil, err
	}

	incentives := p.incentives.Compute(spec.CapacityKW, in.Location)

	finalSpec, finalProduction, finalIncentives, scaling := p.scaler.Apply(
		spec, *production, incentives, in.Location, in.BudgetEUR,
	)

	// Allocation runs on the post-scaling production so the self-consumed
	// and exported energy partition the system that actually gets built.
	selfConsumption := p.selfConsumption.Allocate(finalProduction.AnnualKWh, in.HouseholdConsumptionKWh)

	financial := p.financial.Compute(
		finalProduction,
		finalSpec.CapacityKW,
		finalIncentives,
		selfConsumption,
		in.ElectricityRateEURPerKWh,
	)

	result := &models.FeasibilityResult{
		Location:                 in.Location,
		Irradiance:               in.Irradiance,
		System:                   finalSpec,
		Production:               finalProduction,
		Incentives:               finalIncentives,
		Scaling:                  scaling,
		Financial:                financial,
		ElectricityRateEURPerKWh: in.ElectricityRateEURPerKWh,
	}
	if scaling.SystemScaled {
		result.OriginalSystem = &spec
		result.OriginalProduction = production
	}
	return result, nil
}

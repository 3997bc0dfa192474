package report

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/enerlytic/solarplan-go/internal/models"
)

// Feasibility ratings in descending order of attractiveness.
const (
	RatingExcellent   = "EXCELLENT"
	RatingGood        = "GOOD"
	RatingModerate    = "MODERATE"
	RatingChallenging = "CHALLENGING"
)

const reportTemplate = `# Solar Panel Investment Feasibility Report
## Location: {{.Location}}

### Executive Summary
Your solar installation project shows **{{.Rating}}** feasibility. Based on the analysis of your {{printf "%.0f" .System.RoofAreaM2}} m² roof space in {{.Location}}, we {{.Verdict}}.

### Technical Analysis
- **Annual Energy Production**: {{printf "%.0f" .Production.AnnualKWh}} kWh
- **System Capacity**: {{printf "%.1f" .System.CapacityKW}} kW
- **Capacity Factor**: {{printf "%.1f" .Production.CapacityFactorPct}}%
- **Peak Production Month**: {{printf "%.0f" .Production.PeakMonthKWh}} kWh

### Financial Analysis
- **Total Investment**: EUR {{printf "%.0f" .Financial.TotalInvestmentEUR}}
- **Annual Savings**: EUR {{printf "%.0f" .Financial.AnnualSavingsEUR}}
- **Payback Period**: {{printf "%.1f" .Financial.PaybackPeriodYears}} years
- **Return on Investment**: {{printf "%.1f" .Financial.ROIPercentage}}%
- **Net Present Value**: EUR {{printf "%.0f" .Financial.NPVEUR}}

### Environmental Impact
- **Annual CO2 Reduction**: {{printf "%.1f" .Financial.CO2ReductionTonsPerYear}} tons
- **Lifetime CO2 Reduction**: {{printf "%.1f" .Financial.CO2ReductionTons25Years}} tons

### Incentives
- **Feed-in Tariff**: EUR {{printf "%.4f" .Incentives.FeedInTariffEURPerKWh}}/kWh for surplus electricity
- **Total Incentives**: EUR {{printf "%.0f" .Incentives.TotalIncentivesEUR}}
`

// reportContext is the template payload: the feasibility result plus the
// derived rating.
type reportContext struct {
	*models.FeasibilityResult
	Location string
	Rating   string
	Verdict  string
}

// Narrator renders feasibility results into a human-readable report with
// rule-based recommendations.
type Narrator struct {
	tmpl *template.Template
}

// NewNarrator creates the report narrator.
func NewNarrator() *Narrator {
	return &Narrator{
		tmpl: template.Must(template.New("report").Parse(reportTemplate)),
	}
}

// Render produces the markdown feasibility report. locationName may be empty
// for coordinate-only requests.
func (n *Narrator) Render(locationName string, result *models.FeasibilityResult) (string, error) {
	if locationName == "" {
		locationName = fmt.Sprintf("%.3f, %.3f", result.Location.Latitude, result.Location.Longitude)
	}

	rating, verdict := AssessFeasibility(
		result.Financial.PaybackPeriodYears,
		result.Financial.ROIPercentage,
	)

	var sb strings.Builder
	err := n.tmpl.Execute(&sb, reportContext{
		FeasibilityResult: result,
		Location:          locationName,
		Rating:            rating,
		Verdict:           verdict,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return sb.String(), nil
}

// AssessFeasibility maps payback and ROI to a rating and a verdict phrase.
func AssessFeasibility(paybackYears, roiPct float64) (string, string) {
	switch {
	case paybackYears <= 10 && roiPct >= 8:
		return RatingExcellent, "strongly recommend proceeding"
	case paybackYears <= 15 && roiPct >= 5:
		return RatingGood, "recommend proceeding"
	case paybackYears <= 20:
		return RatingModerate, "consider proceeding with careful evaluation"
	default:
		return RatingChallenging, "suggest waiting for better conditions"
	}
}

// Recommendations derives actionable guidance from the analysis results.
func Recommendations(result *models.FeasibilityResult) []string {
	var recommendations []string

	payback := result.Financial.PaybackPeriodYears
	switch {
	case payback < 10:
		recommendations = append(recommendations,
			"Excellent investment opportunity with payback period under 10 years")
	case payback < 15:
		recommendations = append(recommendations,
			"Good investment opportunity with reasonable payback period")
	default:
		recommendations = append(recommendations,
			"Consider waiting for better incentives or technology improvements")
	}

	if result.Production.AnnualKWh > 1000 {
		recommendations = append(recommendations,
			"High solar potential - consider maximizing roof coverage")
	} else {
		recommendations = append(recommendations,
			"Consider energy efficiency improvements before solar installation")
	}

	if result.Financial.AnnualSavingsEUR > 1000 {
		recommendations = append(recommendations,
			"Significant annual savings potential - prioritize installation")
	}

	if result.Financial.CO2ReductionTonsPerYear > 2 {
		recommendations = append(recommendations,
			"Substantial environmental impact - great for carbon footprint reduction")
	}

	if result.Scaling.SystemScaled {
		recommendations = append(recommendations,
			fmt.Sprintf("System scaled to %.2f kW to fit your budget - a larger budget would improve yield",
				result.Scaling.ScaledCapacityKW))
	}

	return recommendations
}

package recommender

import (
	"fmt"
	"strings"

	"home-energy-audit/internal/models"
)

// PermitCostThreshold is the installed cost above which a permit is assumed.
const PermitCostThreshold = 5000

var timeEstimates = map[models.MeasureCategory]string{
	models.MeasureInsulation:  "1-2 days",
	models.MeasureWindows:     "2-5 days",
	models.MeasureHeating:     "1-3 days",
	models.MeasureCooling:     "1-2 days",
	models.MeasureHVACControl: "1-2 hours",
	models.MeasureWaterHeat:   "2-6 hours",
	models.MeasureLighting:    "1 day",
	models.MeasureAppliances:  "1 day",
	models.MeasureRenewable:   "1-3 days plus 4-8 weeks for permits and interconnection",
}

var bestTiming = map[models.MeasureCategory]string{
	models.MeasureInsulation: "Fall, before the heating season",
	models.MeasureWindows:    "Spring or fall, in mild weather",
	models.MeasureHeating:    "Late summer, before the heating season",
	models.MeasureCooling:    "Early spring, before the cooling season",
	models.MeasureRenewable:  "Spring, to capture the high-production months",
}

var warranties = map[models.MeasureCategory]string{
	models.MeasureInsulation:  "Lifetime material warranty typical",
	models.MeasureWindows:     "20-year to lifetime manufacturer warranty",
	models.MeasureHeating:     "10-year parts, 1-2 year labor",
	models.MeasureCooling:     "10-year parts, 1-2 year labor",
	models.MeasureHVACControl: "1-3 year manufacturer warranty",
	models.MeasureWaterHeat:   "6-10 year tank warranty",
	models.MeasureLighting:    "3-5 year lamp warranty",
	models.MeasureAppliances:  "1-year full, 5-10 year compressor",
	models.MeasureRenewable:   "25-year panel performance, 10-year inverter",
}

// BuildGuidance derives implementation guidance from a priced recommendation.
func BuildGuidance(c *models.RecommendationCandidate) *models.Guidance {
	cost := c.Cost.Mid

	g := &models.Guidance{
		Difficulty:       Difficulty(cost),
		TimeEstimate:     valueOr(timeEstimates, c.Category, "1-2 days"),
		BestTiming:       valueOr(bestTiming, c.Category, "Any time"),
		PermitRequired:   PermitRequired(cost, c.Category),
		Warranty:         valueOr(warranties, c.Category, "Manufacturer warranty"),
		FinancingOptions: FinancingOptions(cost),
		NextSteps:        NextSteps(c),
	}

	var credits []string
	for _, r := range c.Rebates {
		if strings.HasPrefix(r.Source, "IRS") {
			credits = append(credits, fmt.Sprintf("%s (%s): $%.0f", r.Name, r.Source, r.Amount))
		}
	}
	g.TaxCredit = strings.Join(credits, "; ")

	return g
}

// Difficulty classifies the installation effort by cost.
func Difficulty(cost float64) string {
	switch {
	case cost < 500:
		return "DIY - Easy"
	case cost < 2000:
		return "DIY to Professional"
	case cost < 10000:
		return "Professional Installation Recommended"
	default:
		return "Professional Installation Required"
	}
}

// PermitRequired reports whether the work normally needs a building permit.
func PermitRequired(cost float64, category models.MeasureCategory) bool {
	if cost > PermitCostThreshold {
		return true
	}
	switch category {
	case models.MeasureHeating, models.MeasureCooling, models.MeasureRenewable:
		return true
	}
	return false
}

// FinancingOptions lists financing routes appropriate for the project size.
func FinancingOptions(cost float64) []string {
	switch {
	case cost < 1000:
		return []string{"Pay from savings"}
	case cost < 5000:
		return []string{"Utility on-bill financing", "0% promotional credit card", "Personal loan"}
	case cost < 20000:
		return []string{"Home equity line of credit", "Utility on-bill financing", "State green bank loan"}
	default:
		return []string{"Home equity loan", "PACE financing", "Solar or energy-efficiency loan", "Lease or power purchase agreement"}
	}
}

// NextSteps lists what the homeowner should do next.
func NextSteps(c *models.RecommendationCandidate) []string {
	var steps []string
	switch c.Priority {
	case models.PriorityHigh:
		steps = append(steps, "Get 2-3 quotes from certified contractors this month")
	case models.PriorityMedium:
		steps = append(steps, "Plan for this project within the next 1-2 years")
	default:
		steps = append(steps, "Consider when the existing equipment or material needs replacement")
	}
	if len(c.Rebates) > 0 {
		steps = append(steps, "Confirm rebate eligibility and pre-approval requirements before purchase")
	}
	if PermitRequired(c.Cost.Mid, c.Category) {
		steps = append(steps, "Verify the contractor will pull the required permits")
	}
	return steps
}

func valueOr(m map[models.MeasureCategory]string, key models.MeasureCategory, fallback string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}

package models

import (
	"fmt"
	"math"
	"time"
)

var inf = math.Inf(1)

// EnergyScore is the 0-100 efficiency rating of a home.
type EnergyScore struct {
	Score      float64 `json:"score"`
	Grade      string  `json:"grade"`
	Label      string  `json:"label"`
	Percentile int     `json:"percentile"`
	TargetEUI  float64 `json:"target_eui"`
}

// CurrentUsage summarizes the home's present consumption.
type CurrentUsage struct {
	TotalKBTU      float64 `json:"total_kbtu"`
	TotalKWhEquiv  float64 `json:"total_kwh_equivalent"`
	AnnualCost     float64 `json:"annual_cost"`
	MonthlyCost    float64 `json:"monthly_cost"`
	EUI            float64 `json:"eui"`
	CO2TonsPerYear float64 `json:"co2_tons_per_year"`
}

// CategoryUsage is one row of the end-use breakdown.
type CategoryUsage struct {
	Category Category `json:"category"`
	KBTU     float64  `json:"kbtu"`
	Share    float64  `json:"share"`
	Percent  float64  `json:"percent"`
	Cost     float64  `json:"cost"`
}

// FinancialSummary aggregates the economics of all recommendations.
type FinancialSummary struct {
	AnnualCost           float64  `json:"annual_cost"`
	MonthlyCost          float64  `json:"monthly_cost"`
	EUI                  float64  `json:"eui"`
	TotalInvestment      float64  `json:"total_investment"`
	TotalAnnualSavings   float64  `json:"total_annual_savings"`
	TotalLifetimeSavings float64  `json:"total_lifetime_savings"`
	PaybackYears         *float64 `json:"payback_years"`
	AveragePaybackYears  *float64 `json:"average_payback_years"`
	TotalRebates         float64  `json:"total_rebates"`
	NetInvestment        float64  `json:"net_investment"`
	SavingsPercent       float64  `json:"savings_percent"`
}

// Projection is the home's usage after a set of measures is installed.
type Projection struct {
	Label        string  `json:"label"`
	MeasureCount int     `json:"measure_count"`
	TotalKBTU    float64 `json:"total_kbtu"`
	AnnualCost   float64 `json:"annual_cost"`
	EUI          float64 `json:"eui"`
	Reduction    float64 `json:"reduction_percent"`
}

// RoadmapPhase groups recommendations by implementation horizon.
type RoadmapPhase struct {
	Phase         string   `json:"phase"`
	Timeline      string   `json:"timeline"`
	MeasureIDs    []string `json:"measure_ids"`
	Investment    float64  `json:"investment"`
	AnnualSavings float64  `json:"annual_savings"`
}

// Benchmark compares the home against regional and net-zero targets.
type Benchmark struct {
	Region          Region  `json:"region"`
	RegionalEUI     float64 `json:"regional_eui"`
	NetZeroEUI      float64 `json:"net_zero_eui"`
	Percentile      int     `json:"percentile"`
	VsRegionPercent float64 `json:"vs_region_percent"`
	Rating          string  `json:"rating"`
}

// Environmental is the aggregate emissions impact of all recommendations.
type Environmental struct {
	CO2TonsPerYear  float64 `json:"co2_tons_per_year"`
	TreesEquivalent int     `json:"trees_equivalent"`
	LifetimeCO2Tons float64 `json:"lifetime_co2_tons"`
}

// HomeSummary echoes the normalized characteristics in the report.
type HomeSummary struct {
	SquareFeet float64          `json:"square_feet"`
	YearBuilt  int              `json:"year_built"`
	HomeType   HomeType         `json:"home_type"`
	Occupants  int              `json:"occupants"`
	Insulation InsulationRating `json:"insulation"`
	ZipCode    string           `json:"zip_code"`
	Region     Region           `json:"region"`
	Division   Division         `json:"division,omitempty"`
	HDD        float64          `json:"hdd"`
	CDD        float64          `json:"cdd"`
}

// AuditReport is the complete audit response payload.
type AuditReport struct {
	AuditID         string                    `json:"audit_id"`
	GeneratedAt     time.Time                 `json:"generated_at"`
	ModelVersion    string                    `json:"model_version"`
	Home            HomeSummary               `json:"home"`
	Score           EnergyScore               `json:"energy_score"`
	Usage           CurrentUsage              `json:"current_usage"`
	Breakdown       []CategoryUsage           `json:"breakdown"`
	Calibration     *CalibrationInfo          `json:"calibration,omitempty"`
	Financial       FinancialSummary          `json:"financial_summary"`
	Recommendations []RecommendationCandidate `json:"recommendations"`
	Projections     []Projection              `json:"projections"`
	Roadmap         []RoadmapPhase            `json:"roadmap"`
	Benchmark       Benchmark                 `json:"benchmark"`
	Environmental   Environmental             `json:"environmental"`
}

// CountByPriority returns how many recommendations fall in the given tier.
func (r *AuditReport) CountByPriority(p Priority) int {
	count := 0
	for _, rec := range r.Recommendations {
		if rec.Priority == p {
			count++
		}
	}
	return count
}

func formatYears(years float64) string {
	if years < 1 {
		return fmt.Sprintf("%.0f months", math.Ceil(years*12))
	}
	return fmt.Sprintf("%.1f years", years)
}

package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-energy-audit/internal/models"
	"home-energy-audit/internal/services/climate"
	"home-energy-audit/internal/services/normalizer"
	"home-energy-audit/internal/services/report"
)

func years(v float64) *float64 {
	return &v
}

func testProfile(t *testing.T) *models.HomeProfile {
	t.Helper()
	year, occupants := 1940, 10
	clock := func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	profile, _, err := normalizer.New(climate.NewTable()).WithClock(clock).Normalize(models.HomeProfileInput{
		SquareFeet: 2000,
		ZipCode:    "02139",
		YearBuilt:  &year,
		Occupants:  &occupants,
		Insulation: "poor",
	})
	require.NoError(t, err)
	return profile
}

func testUsage() *models.UsageEstimate {
	return models.NewUsageEstimate(map[models.Category]float64{
		models.CategoryHeating:      107900,
		models.CategoryCooling:      4172,
		models.CategoryWaterHeating: 31320,
		models.CategoryLighting:     9000,
		models.CategoryAppliances:   23000,
		models.CategoryOther:        5000,
	})
}

// mockRecommendations returns three priced measures with distinct paybacks.
func mockRecommendations() []models.RecommendationCandidate {
	return []models.RecommendationCandidate{
		{
			MeasureID:       "led_lighting",
			Priority:        models.PriorityHigh,
			AnnualSavings:   models.Savings{KBTU: 6750, Dollars: 435.10},
			Cost:            models.CostRange{Mid: 240},
			PaybackYears:    years(0.55),
			LifetimeYears:   15,
			LifetimeSavings: 6526.5,
			CO2TonsPerYear:  0.84,
		},
		{
			MeasureID:       "attic_insulation",
			Priority:        models.PriorityHigh,
			AnnualSavings:   models.Savings{KBTU: 22414.4, Dollars: 442.23},
			Cost:            models.CostRange{Mid: 2200},
			PaybackYears:    years(4.97),
			LifetimeYears:   50,
			LifetimeSavings: 22111.5,
			CO2TonsPerYear:  1.36,
			RebateTotal:     2200,
		},
		{
			MeasureID:       "window_upgrade",
			Priority:        models.PriorityLow,
			AnnualSavings:   models.Savings{KBTU: 13448.6, Dollars: 265.34},
			Cost:            models.CostRange{Mid: 12000},
			PaybackYears:    years(45.22),
			LifetimeYears:   25,
			LifetimeSavings: 6633.5,
			CO2TonsPerYear:  0.8,
			RebateTotal:     600,
		},
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		eui    float64
		target float64
		score  float64
		grade  string
		label  string
	}{
		{"drafty northeast home", 90.196, 42, 17.9, "F", "Poor"},
		{"efficient northeast home", 35.601, 42, 82.7, "A", "Excellent"},
		{"half the target", 21.05, 42, 100, "A+", "Exceptional"},
		{"far above target", 400, 42, 0, "F", "Poor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := report.Score(tt.eui, tt.target)
			assert.InDelta(t, tt.score, s.Score, 0.05)
			assert.Equal(t, tt.grade, s.Grade)
			assert.Equal(t, tt.label, s.Label)
			assert.Equal(t, tt.target, s.TargetEUI)
			assert.GreaterOrEqual(t, s.Score, 0.0)
			assert.LessOrEqual(t, s.Score, 100.0)
		})
	}
}

func TestGrade_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		grade string
	}{
		{100, "A+"}, {90, "A+"}, {89.9, "A"}, {80, "A"}, {70, "B+"}, {60, "B"},
		{50, "C+"}, {40, "C"}, {30, "D"}, {29.9, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		letter, _ := report.Grade(tt.score)
		assert.Equal(t, tt.grade, letter, "score %v", tt.score)
	}
}

func TestCurrentUsage(t *testing.T) {
	profile := testProfile(t)

	usage, breakdown := report.CurrentUsage(profile, testUsage())

	assert.InDelta(t, 180392, usage.TotalKBTU, 0.01)
	assert.InDelta(t, 180392*models.KBTUToKWh, usage.TotalKWhEquiv, 0.01)
	assert.InDelta(t, 5020.53, usage.AnnualCost, 0.01)
	assert.InDelta(t, 418.38, usage.MonthlyCost, 0.01)
	assert.InDelta(t, 90.2, usage.EUI, 0.01)
	assert.InDelta(t, 13.27, usage.CO2TonsPerYear, 0.01)

	require.Len(t, breakdown, len(models.ValidCategories()))
	percent := 0.0
	for _, row := range breakdown {
		percent += row.Percent
		if row.Category == models.CategoryHeating {
			assert.InDelta(t, 1942.2, row.Cost, 0.01)
			assert.InDelta(t, 59.8, row.Percent, 0.05)
		}
		if row.Category == models.CategoryOther {
			assert.InDelta(t, 182.92, row.Cost, 0.01, "mixed loads use the blended rate")
		}
	}
	assert.InDelta(t, 100, percent, 0.5)
}

func TestFinancial(t *testing.T) {
	usage := models.CurrentUsage{AnnualCost: 5020.53, MonthlyCost: 418.38, EUI: 90.2}

	f := report.Financial(usage, mockRecommendations())

	assert.InDelta(t, 14440, f.TotalInvestment, 0.01)
	assert.InDelta(t, 1142.67, f.TotalAnnualSavings, 0.01)
	assert.InDelta(t, 35271.5, f.TotalLifetimeSavings, 0.01)
	assert.InDelta(t, 2800, f.TotalRebates, 0.01)
	assert.InDelta(t, 11640, f.NetInvestment, 0.01)
	require.NotNil(t, f.PaybackYears)
	assert.InDelta(t, 12.6, *f.PaybackYears, 0.01)
	require.NotNil(t, f.AveragePaybackYears)
	assert.InDelta(t, 16.9, *f.AveragePaybackYears, 0.01)
	assert.InDelta(t, 22.8, f.SavingsPercent, 0.01)
}

func TestFinancial_NoRecommendations(t *testing.T) {
	f := report.Financial(models.CurrentUsage{AnnualCost: 1000}, nil)

	assert.Nil(t, f.PaybackYears)
	assert.Nil(t, f.AveragePaybackYears)
	assert.Zero(t, f.TotalInvestment)
	assert.Zero(t, f.SavingsPercent)
}

func TestRoadmap(t *testing.T) {
	recs := mockRecommendations()
	recs = append(recs, models.RecommendationCandidate{MeasureID: "undefined", Cost: models.CostRange{Mid: 100}})

	phases := report.Roadmap(recs)

	require.Len(t, phases, 3)
	assert.Equal(t, "Quick Wins", phases[0].Phase)
	assert.Equal(t, []string{"led_lighting"}, phases[0].MeasureIDs)
	assert.Equal(t, "Short Term", phases[1].Phase)
	assert.Equal(t, []string{"attic_insulation"}, phases[1].MeasureIDs)
	assert.Equal(t, "Long Term", phases[2].Phase)
	assert.Equal(t, []string{"window_upgrade", "undefined"}, phases[2].MeasureIDs)
	assert.InDelta(t, 12100, phases[2].Investment, 0.01)
}

func TestRoadmap_OmitsEmptyPhases(t *testing.T) {
	phases := report.Roadmap(mockRecommendations()[2:])

	require.Len(t, phases, 1)
	assert.Equal(t, "Long Term", phases[0].Phase)
	assert.Empty(t, report.Roadmap(nil))
}

func TestBenchmarkFor(t *testing.T) {
	tests := []struct {
		eui        float64
		percentile int
		rating     string
	}{
		{20, 85, "Top performer"},
		{40, 60, "Better than average"},
		{45, 45, "Near average"},
		{90.2, 25, "Below average"},
	}

	for _, tt := range tests {
		b := report.BenchmarkFor(models.RegionNortheast, tt.eui, 42)
		assert.Equal(t, tt.percentile, b.Percentile, "eui %v", tt.eui)
		assert.Equal(t, tt.rating, b.Rating)
		assert.Equal(t, 42.0, b.RegionalEUI)
		assert.Equal(t, 15.0, b.NetZeroEUI)
	}

	b := report.BenchmarkFor(models.RegionNortheast, 90.2, 42)
	assert.InDelta(t, 114.8, b.VsRegionPercent, 0.01)
}

func TestProjections(t *testing.T) {
	profile := testProfile(t)
	usage := models.CurrentUsage{TotalKBTU: 180392, AnnualCost: 5020.53}

	projections := report.New(nil, nil).Projections(profile, usage, mockRecommendations())

	require.Len(t, projections, 3)

	current := projections[0]
	assert.Equal(t, report.ProjectionCurrent, current.Label)
	assert.Equal(t, 0, current.MeasureCount)
	assert.InDelta(t, 180392, current.TotalKBTU, 0.01)
	assert.Zero(t, current.Reduction)

	quick := projections[1]
	assert.Equal(t, report.ProjectionQuickWins, quick.Label)
	assert.Equal(t, 1, quick.MeasureCount, "only LED pays back within two years")
	assert.InDelta(t, 173642, quick.TotalKBTU, 0.01)
	assert.InDelta(t, 4585.43, quick.AnnualCost, 0.01)

	all := projections[2]
	assert.Equal(t, report.ProjectionAll, all.Label)
	assert.Equal(t, 3, all.MeasureCount)
	assert.InDelta(t, 137779, all.TotalKBTU, 0.01)
	assert.InDelta(t, 68.89, all.EUI, 0.01)
	assert.InDelta(t, 23.6, all.Reduction, 0.01)
}

func TestEnvironmentalImpact(t *testing.T) {
	env := report.EnvironmentalImpact(mockRecommendations())

	assert.InDelta(t, 3.0, env.CO2TonsPerYear, 0.001)
	assert.Equal(t, 120, env.TreesEquivalent)
	assert.InDelta(t, 0.84*15+1.36*50+0.8*25, env.LifetimeCO2Tons, 0.05)
}

func TestAssemble(t *testing.T) {
	profile := testProfile(t)
	generated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	r := report.New(nil, nil).Assemble(report.Input{
		AuditID:      "audit-1",
		GeneratedAt:  generated,
		ModelVersion: "linear-test",
		Profile:      profile,
		Usage:        testUsage(),
	})

	assert.Equal(t, "audit-1", r.AuditID)
	assert.Equal(t, generated, r.GeneratedAt)
	assert.Equal(t, "linear-test", r.ModelVersion)
	assert.Equal(t, "F", r.Score.Grade)
	assert.Equal(t, 42.0, r.Score.TargetEUI)
	assert.Equal(t, models.RegionNortheast, r.Home.Region)
	assert.Equal(t, 1940, r.Home.YearBuilt)
	assert.NotNil(t, r.Recommendations, "recommendations serialize as an empty list")
	assert.Empty(t, r.Recommendations)
	assert.Empty(t, r.Roadmap)
	assert.Len(t, r.Projections, 3)
	assert.Nil(t, r.Calibration)
}

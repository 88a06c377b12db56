// Package report assembles the final audit report from pipeline outputs.
package report

import (
	"math"
	"time"

	"home-energy-audit/internal/config"
	"home-energy-audit/internal/models"
	"home-energy-audit/internal/services/recommender"
	"home-energy-audit/internal/services/reference"
)

// TreesPerTonCO2 is the number of mature trees absorbing one ton of CO2 per year.
const TreesPerTonCO2 = 40

// Projection labels.
const (
	ProjectionCurrent   = "current"
	ProjectionQuickWins = "after_quick_wins"
	ProjectionAll       = "after_all_recommendations"
)

type grade struct {
	min   float64
	grade string
	label string
}

var grades = []grade{
	{90, "A+", "Exceptional"},
	{80, "A", "Excellent"},
	{70, "B+", "Very Good"},
	{60, "B", "Good"},
	{50, "C+", "Above Average"},
	{40, "C", "Average"},
	{30, "D", "Below Average"},
	{math.Inf(-1), "F", "Poor"},
}

// Input is everything the assembler needs from the upstream stages.
type Input struct {
	AuditID         string
	GeneratedAt     time.Time
	ModelVersion    string
	Profile         *models.HomeProfile
	Usage           *models.UsageEstimate
	Calibration     *models.CalibrationInfo
	Recommendations []models.RecommendationCandidate
}

// Assembler builds AuditReports.
type Assembler struct {
	tables *reference.Tables
	tuning *config.Tuning
}

// New creates an assembler.
func New(tables *reference.Tables, tuning *config.Tuning) *Assembler {
	if tables == nil {
		tables = reference.Builtin()
	}
	if tuning == nil {
		tuning = config.DefaultTuning()
	}
	return &Assembler{tables: tables, tuning: tuning}
}

// Assemble produces the report. It performs no I/O and cannot fail.
func (a *Assembler) Assemble(in Input) *models.AuditReport {
	p := in.Profile
	targetEUI := a.tables.TargetEUI(p.Climate.Region)

	usage, breakdown := CurrentUsage(p, in.Usage)
	recs := in.Recommendations
	if recs == nil {
		recs = []models.RecommendationCandidate{}
	}

	return &models.AuditReport{
		AuditID:         in.AuditID,
		GeneratedAt:     in.GeneratedAt,
		ModelVersion:    in.ModelVersion,
		Home:            homeSummary(p),
		Score:           Score(usage.EUI, targetEUI),
		Usage:           usage,
		Breakdown:       breakdown,
		Calibration:     in.Calibration,
		Financial:       Financial(usage, recs),
		Recommendations: recs,
		Projections:     a.Projections(p, usage, recs),
		Roadmap:         Roadmap(recs),
		Benchmark:       BenchmarkFor(p.Climate.Region, usage.EUI, targetEUI),
		Environmental:   EnvironmentalImpact(recs),
	}
}

// Score rates a home's EUI against a target on a 0-100 scale.
func Score(eui, targetEUI float64) models.EnergyScore {
	ratio := eui / (targetEUI + 0.1)
	score := clamp(100-(ratio-0.5)*50, 0, 100)

	letter, label := Grade(score)
	return models.EnergyScore{
		Score:      round1(score),
		Grade:      letter,
		Label:      label,
		Percentile: int(score),
		TargetEUI:  targetEUI,
	}
}

// Grade maps a score onto its letter grade and label.
func Grade(score float64) (letter, label string) {
	for _, g := range grades {
		if score >= g.min {
			return g.grade, g.label
		}
	}
	last := grades[len(grades)-1]
	return last.grade, last.label
}

// CurrentUsage summarizes consumption and builds the per-category breakdown.
func CurrentUsage(p *models.HomeProfile, u *models.UsageEstimate) (models.CurrentUsage, []models.CategoryUsage) {
	breakdown := make([]models.CategoryUsage, 0, len(models.ValidCategories()))
	cost := 0.0
	co2 := 0.0

	for _, cat := range models.ValidCategories() {
		kbtu := u.CategoryKBTU(cat)
		catCost := kbtu * recommender.PricePerKBTU(p, cat)
		cost += catCost
		co2 += models.KBTUToCO2Tons(kbtu, emissionFuel(p, cat))

		breakdown = append(breakdown, models.CategoryUsage{
			Category: cat,
			KBTU:     round2(kbtu),
			Share:    u.Shares[cat],
			Percent:  round1(u.Shares[cat] * 100),
			Cost:     round2(catCost),
		})
	}

	eui := 0.0
	if p.SquareFeet > 0 {
		eui = u.TotalKBTU / p.SquareFeet
	}

	return models.CurrentUsage{
		TotalKBTU:      round2(u.TotalKBTU),
		TotalKWhEquiv:  round2(u.TotalKBTU * models.KBTUToKWh),
		AnnualCost:     round2(cost),
		MonthlyCost:    round2(cost / 12),
		EUI:            round2(eui),
		CO2TonsPerYear: round2(co2),
	}, breakdown
}

// emissionFuel attributes mixed loads to electricity.
func emissionFuel(p *models.HomeProfile, cat models.Category) models.FuelType {
	if fuel := recommender.FuelFor(p, cat); fuel != "" {
		return fuel
	}
	return models.FuelElectricity
}

// Financial aggregates recommendation economics.
func Financial(usage models.CurrentUsage, recs []models.RecommendationCandidate) models.FinancialSummary {
	f := models.FinancialSummary{
		AnnualCost:  usage.AnnualCost,
		MonthlyCost: usage.MonthlyCost,
		EUI:         usage.EUI,
	}

	paybackSum := 0.0
	paybackCount := 0
	for i := range recs {
		r := &recs[i]
		f.TotalInvestment += r.Cost.Mid
		f.TotalAnnualSavings += r.AnnualSavings.Dollars
		f.TotalLifetimeSavings += r.LifetimeSavings
		f.TotalRebates += r.RebateTotal
		if r.HasPayback() {
			paybackSum += *r.PaybackYears
			paybackCount++
		}
	}

	if f.TotalAnnualSavings > 0 {
		payback := round1(f.TotalInvestment / f.TotalAnnualSavings)
		f.PaybackYears = &payback
	}
	if paybackCount > 0 {
		avg := round1(paybackSum / float64(paybackCount))
		f.AveragePaybackYears = &avg
	}
	if usage.AnnualCost > 0 {
		f.SavingsPercent = round1(math.Min(f.TotalAnnualSavings/usage.AnnualCost*100, 100))
	}

	f.TotalInvestment = round2(f.TotalInvestment)
	f.TotalAnnualSavings = round2(f.TotalAnnualSavings)
	f.TotalLifetimeSavings = round2(f.TotalLifetimeSavings)
	f.TotalRebates = round2(f.TotalRebates)
	f.NetInvestment = round2(f.TotalInvestment - f.TotalRebates)
	return f
}

// Projections returns usage now, after quick wins and after every recommendation.
func (a *Assembler) Projections(p *models.HomeProfile, usage models.CurrentUsage, recs []models.RecommendationCandidate) []models.Projection {
	quickWins := make([]models.RecommendationCandidate, 0)
	for _, r := range recs {
		if r.HasPayback() && *r.PaybackYears < a.tuning.QuickWinPaybackYears {
			quickWins = append(quickWins, r)
		}
	}

	return []models.Projection{
		project(ProjectionCurrent, p, usage, nil),
		project(ProjectionQuickWins, p, usage, quickWins),
		project(ProjectionAll, p, usage, recs),
	}
}

func project(label string, p *models.HomeProfile, usage models.CurrentUsage, recs []models.RecommendationCandidate) models.Projection {
	kbtu, dollars := 0.0, 0.0
	for _, r := range recs {
		kbtu += r.AnnualSavings.KBTU
		dollars += r.AnnualSavings.Dollars
	}

	total := math.Max(usage.TotalKBTU-kbtu, 0)
	cost := math.Max(usage.AnnualCost-dollars, 0)

	eui := 0.0
	if p.SquareFeet > 0 {
		eui = total / p.SquareFeet
	}
	reduction := 0.0
	if usage.TotalKBTU > 0 {
		reduction = (usage.TotalKBTU - total) / usage.TotalKBTU * 100
	}

	return models.Projection{
		Label:        label,
		MeasureCount: len(recs),
		TotalKBTU:    round2(total),
		AnnualCost:   round2(cost),
		EUI:          round2(eui),
		Reduction:    round1(reduction),
	}
}

// Roadmap groups recommendations into implementation phases by payback.
// Empty phases are omitted.
func Roadmap(recs []models.RecommendationCandidate) []models.RoadmapPhase {
	phases := []models.RoadmapPhase{
		{Phase: "Quick Wins", Timeline: "0-3 months", MeasureIDs: []string{}},
		{Phase: "Short Term", Timeline: "3-12 months", MeasureIDs: []string{}},
		{Phase: "Long Term", Timeline: "1-3 years", MeasureIDs: []string{}},
	}

	for _, r := range recs {
		idx := 2
		switch payback := r.PaybackOrInf(); {
		case payback < 1:
			idx = 0
		case payback < 5:
			idx = 1
		}
		phases[idx].MeasureIDs = append(phases[idx].MeasureIDs, r.MeasureID)
		phases[idx].Investment += r.Cost.Mid
		phases[idx].AnnualSavings += r.AnnualSavings.Dollars
	}

	out := make([]models.RoadmapPhase, 0, len(phases))
	for _, ph := range phases {
		if len(ph.MeasureIDs) == 0 {
			continue
		}
		ph.Investment = round2(ph.Investment)
		ph.AnnualSavings = round2(ph.AnnualSavings)
		out = append(out, ph)
	}
	return out
}

// BenchmarkFor places a home's EUI relative to its regional average.
func BenchmarkFor(region models.Region, eui, targetEUI float64) models.Benchmark {
	b := models.Benchmark{
		Region:      region,
		RegionalEUI: targetEUI,
		NetZeroEUI:  reference.NetZeroEUI,
	}

	switch {
	case eui < 0.7*targetEUI:
		b.Percentile, b.Rating = 85, "Top performer"
	case eui < targetEUI:
		b.Percentile, b.Rating = 60, "Better than average"
	case eui < 1.1*targetEUI:
		b.Percentile, b.Rating = 45, "Near average"
	default:
		b.Percentile, b.Rating = 25, "Below average"
	}

	if targetEUI > 0 {
		b.VsRegionPercent = round1((eui - targetEUI) / targetEUI * 100)
	}
	return b
}

// EnvironmentalImpact totals the emissions avoided by all recommendations.
func EnvironmentalImpact(recs []models.RecommendationCandidate) models.Environmental {
	annual, lifetime := 0.0, 0.0
	for _, r := range recs {
		annual += r.CO2TonsPerYear
		lifetime += r.CO2TonsPerYear * float64(r.LifetimeYears)
	}
	return models.Environmental{
		CO2TonsPerYear:  round2(annual),
		TreesEquivalent: int(math.Round(annual * TreesPerTonCO2)),
		LifetimeCO2Tons: round1(lifetime),
	}
}

func homeSummary(p *models.HomeProfile) models.HomeSummary {
	return models.HomeSummary{
		SquareFeet: p.SquareFeet,
		YearBuilt:  p.YearBuilt,
		HomeType:   p.HomeType,
		Occupants:  p.Occupants,
		Insulation: p.Insulation,
		ZipCode:    p.ZipCode,
		Region:     p.Climate.Region,
		Division:   p.Climate.Division,
		HDD:        p.Climate.HDD,
		CDD:        p.Climate.CDD,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

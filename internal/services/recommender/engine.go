// Package recommender evaluates the retrofit measure catalog against a home and
// its usage estimate and returns ranked, priced recommendations.
package recommender

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"home-energy-audit/internal/config"
	"home-energy-audit/internal/models"
	"home-energy-audit/internal/services/rates"
	"home-energy-audit/internal/services/reference"
	"home-energy-audit/internal/utils"
)

// Cost range multipliers around the mid estimate.
const (
	CostLowFactor  = 0.8
	CostHighFactor = 1.2
)

// Engine runs the recommendation pipeline.
type Engine struct {
	catalog []Measure
	tuning  *config.Tuning
	tables  *reference.Tables
}

// Result carries the ranked recommendations and pipeline counters.
type Result struct {
	Candidates     []models.RecommendationCandidate
	Evaluated      int
	Applicable     int
	Excluded       int
	ProcessingTime time.Duration
}

// New creates an engine over the default catalog.
func New(tuning *config.Tuning, tables *reference.Tables) *Engine {
	return NewWithCatalog(DefaultCatalog(), tuning, tables)
}

// NewWithCatalog creates an engine over a custom catalog.
func NewWithCatalog(catalog []Measure, tuning *config.Tuning, tables *reference.Tables) *Engine {
	if tuning == nil {
		tuning = config.DefaultTuning()
	}
	if tables == nil {
		tables = reference.Builtin()
	}
	return &Engine{catalog: catalog, tuning: tuning, tables: tables}
}

// Catalog returns the measures the engine evaluates.
func (e *Engine) Catalog() []Measure {
	return e.catalog
}

// Recommend evaluates every catalog measure and returns the applicable,
// economically positive ones in priority order.
func (e *Engine) Recommend(profile *models.HomeProfile, usage *models.UsageEstimate) *Result {
	startTime := time.Now()
	result := &Result{Evaluated: len(e.catalog)}

	// Stage 1: applicability
	applicable := make([]Measure, 0, len(e.catalog))
	for _, m := range e.catalog {
		if m.Applies == nil || m.Applies(profile, usage) {
			applicable = append(applicable, m)
		}
	}
	result.Applicable = len(applicable)

	utils.GetLogger().Debug("Stage 1 complete: applicability",
		zap.Int("passed", len(applicable)),
		zap.Int("filtered_out", len(e.catalog)-len(applicable)),
	)

	// Stage 2: savings and economics, dropping measures that save nothing
	candidates := make([]models.RecommendationCandidate, 0, len(applicable))
	for _, m := range applicable {
		c := e.Evaluate(m, profile, usage)
		if !c.HasPayback() {
			result.Excluded++
			continue
		}
		candidates = append(candidates, c)
	}

	utils.GetLogger().Debug("Stage 2 complete: economics",
		zap.Int("passed", len(candidates)),
		zap.Int("excluded", result.Excluded),
	)

	// Stage 3: rebates and guidance
	for i := range candidates {
		e.applyRebates(&candidates[i], profile)
		candidates[i].Guidance = BuildGuidance(&candidates[i])
	}

	// Stage 4: ranking
	Rank(candidates)

	result.Candidates = candidates
	result.ProcessingTime = time.Since(startTime)

	utils.GetLogger().Debug("Recommendation pipeline complete",
		zap.Int("recommendations", len(candidates)),
		zap.Duration("processing_time", result.ProcessingTime),
	)

	return result
}

// Evaluate prices a single measure for a home. It does not check applicability.
// PaybackYears is nil when the measure yields no positive dollar savings.
func (e *Engine) Evaluate(m Measure, profile *models.HomeProfile, usage *models.UsageEstimate) models.RecommendationCandidate {
	savings, co2 := e.savings(m, profile, usage)

	mid := e.midCost(m, profile)
	lifetime := e.lifetime(m, profile)

	c := models.RecommendationCandidate{
		MeasureID:     m.ID,
		Name:          m.Name,
		Description:   m.Description,
		Category:      m.Category,
		Applicable:    true,
		AnnualSavings: savings,
		Cost: models.CostRange{
			Low:  round2(mid * CostLowFactor),
			Mid:  round2(mid),
			High: round2(mid * CostHighFactor),
		},
		LifetimeYears:   lifetime,
		LifetimeSavings: round2(savings.Dollars * float64(lifetime)),
		CO2TonsPerYear:  round2(co2),
		Rebates:         []models.AppliedRebate{},
	}

	if savings.Dollars > 0 && !math.IsNaN(savings.Dollars) {
		payback := mid / savings.Dollars
		c.PaybackYears = &payback
	}
	if mid > 0 {
		c.ROIPercent = round2((savings.Dollars*float64(lifetime) - mid) / mid * 100)
	}
	c.NPV = round2(NPV(savings.Dollars, mid, lifetime, e.tuning.DiscountRate))
	c.Priority = e.Tier(savings.Dollars, c.PaybackYears, m.PriorityCap)

	return c
}

// savings converts the measure's energy reduction into units, dollars and CO2.
func (e *Engine) savings(m Measure, profile *models.HomeProfile, usage *models.UsageEstimate) (models.Savings, float64) {
	var s models.Savings
	co2 := 0.0

	add := func(kbtu, pricePerKBTU float64, fuel models.FuelType) {
		// Loads without a fuel ("other") are electric plug loads.
		if fuel == "" {
			fuel = models.FuelElectricity
		}
		s.KBTU += kbtu
		s.Dollars += kbtu * pricePerKBTU
		if fuel == models.FuelElectricity {
			s.KWh += kbtu * models.KBTUToKWh
		} else {
			s.Therms += kbtu * models.KBTUToTherm
		}
		co2 += models.KBTUToCO2Tons(kbtu, fuel)
	}

	if m.Produce != nil {
		for _, fs := range m.Produce(profile, usage, e.tuning) {
			add(fs.kbtu, rates.CostPerKBTU(profile.Rates, fs.fuel), fs.fuel)
		}
	} else {
		fraction := m.SavingsFraction
		if m.Fraction != nil {
			fraction = m.Fraction(profile)
		}
		fraction = e.tuning.SavingsFraction(m.ID, fraction)

		for _, cat := range m.Targets {
			kbtu := usage.CategoryKBTU(cat) * fraction
			if kbtu <= 0 {
				continue
			}
			add(kbtu, PricePerKBTU(profile, cat), FuelFor(profile, cat))
		}
	}

	s.BTU = s.KBTU * 1000
	s.KBTU = round2(s.KBTU)
	s.KWh = round2(s.KWh)
	s.Therms = round2(s.Therms)
	s.Dollars = round2(s.Dollars)
	return s, co2
}

func (e *Engine) midCost(m Measure, profile *models.HomeProfile) float64 {
	if m.Cost != nil {
		return m.Cost(profile, e.tuning)
	}
	return m.BaseCost + m.CostPerSqft*profile.SquareFeet
}

func (e *Engine) lifetime(m Measure, profile *models.HomeProfile) int {
	key := m.LifespanKey
	if m.Lifespan != nil {
		key = m.Lifespan(profile)
	}
	if years, ok := Lifespans[key]; ok {
		return years
	}
	return 15
}

// Tier assigns the economic priority of a measure, then applies its cap.
func (e *Engine) Tier(annualDollars float64, payback *float64, priorityCap models.Priority) models.Priority {
	priority := models.PriorityLow
	if payback != nil {
		switch {
		case *payback <= e.tuning.HighPaybackYears && annualDollars >= e.tuning.HighMinAnnualSavings:
			priority = models.PriorityHigh
		case *payback <= e.tuning.MediumPaybackYears:
			priority = models.PriorityMedium
		}
	}
	if priorityCap != "" && priority.Rank() < priorityCap.Rank() {
		priority = priorityCap
	}
	return priority
}

// applyRebates attaches matching incentives, capping the total at the mid cost.
func (e *Engine) applyRebates(c *models.RecommendationCandidate, profile *models.HomeProfile) {
	remaining := c.Cost.Mid
	for _, r := range e.tables.MatchRebates(c.Category, profile.Climate.Region, profile.IncomeBracket) {
		if remaining <= 0 {
			break
		}
		amount := r.Value(c.Cost.Mid)
		if amount > remaining {
			amount = remaining
		}
		if amount <= 0 {
			continue
		}
		c.Rebates = append(c.Rebates, models.AppliedRebate{
			ID:     r.ID,
			Name:   r.Name,
			Amount: round2(amount),
			Source: r.Source,
		})
		c.RebateTotal += amount
		remaining -= amount
	}
	c.RebateTotal = round2(c.RebateTotal)
}

// Rank orders candidates by priority, then shortest payback, then largest
// annual savings. Remaining ties keep catalog order.
func Rank(candidates []models.RecommendationCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := &candidates[i], &candidates[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		if pa, pb := a.PaybackOrInf(), b.PaybackOrInf(); pa != pb {
			return pa < pb
		}
		return a.AnnualSavings.Dollars > b.AnnualSavings.Dollars
	})
}

// NPV discounts a level annual saving over the lifetime and subtracts the upfront cost.
func NPV(annualSavings, cost float64, years int, rate float64) float64 {
	npv := -cost
	for t := 1; t <= years; t++ {
		npv += annualSavings / math.Pow(1+rate, float64(t))
	}
	return npv
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

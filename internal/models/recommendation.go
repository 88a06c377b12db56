package models

// Priority is the economic tier of a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Rank returns 0 for High, 1 for Medium and 2 for Low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// MeasureCategory groups measures for incentives and guidance.
type MeasureCategory string

const (
	MeasureInsulation  MeasureCategory = "Insulation"
	MeasureWindows     MeasureCategory = "Windows"
	MeasureHeating     MeasureCategory = "Heating"
	MeasureCooling     MeasureCategory = "Cooling"
	MeasureHVACControl MeasureCategory = "HVAC Controls"
	MeasureWaterHeat   MeasureCategory = "Water Heating"
	MeasureLighting    MeasureCategory = "Lighting"
	MeasureAppliances  MeasureCategory = "Appliances"
	MeasureRenewable   MeasureCategory = "Renewable"
)

// IsHVAC reports whether the measure category touches heating or cooling equipment.
func (m MeasureCategory) IsHVAC() bool {
	return m == MeasureHeating || m == MeasureCooling || m == MeasureHVACControl
}

// Savings is an annual energy and cost reduction.
type Savings struct {
	KBTU    float64 `json:"kbtu"`
	BTU     float64 `json:"btu"`
	KWh     float64 `json:"kwh"`
	Therms  float64 `json:"therms"`
	Dollars float64 `json:"dollars"`
}

// CostRange is an installed cost estimate.
type CostRange struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// RebateEntry is static incentive reference data.
type RebateEntry struct {
	ID              string          `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	MeasureCategory MeasureCategory `json:"measure_category" db:"measure_category"`
	Amount          float64         `json:"amount,omitempty" db:"amount"`
	Percent         float64         `json:"percent,omitempty" db:"percent"`
	MaxAmount       float64         `json:"max_amount,omitempty" db:"max_amount"`
	Regions         []Region        `json:"regions,omitempty" db:"regions"`
	IncomeBrackets  []IncomeBracket `json:"income_brackets,omitempty" db:"income_brackets"`
	Source          string          `json:"source,omitempty" db:"source"`
}

// Value returns the dollar value of the rebate against an installed cost.
func (r RebateEntry) Value(cost float64) float64 {
	value := r.Amount
	if r.Percent > 0 {
		value = cost * r.Percent / 100
	}
	if r.MaxAmount > 0 && value > r.MaxAmount {
		value = r.MaxAmount
	}
	if value > cost {
		value = cost
	}
	return value
}

// Matches reports whether the rebate applies to a measure category, region and income bracket.
// Empty eligibility lists are unrestricted; every other condition is an exact match.
func (r RebateEntry) Matches(category MeasureCategory, region Region, income IncomeBracket) bool {
	if r.MeasureCategory != category {
		return false
	}
	if len(r.Regions) > 0 {
		found := false
		for _, reg := range r.Regions {
			if reg == region {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(r.IncomeBrackets) > 0 {
		found := false
		for _, b := range r.IncomeBrackets {
			if b == income {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// AppliedRebate is a rebate matched to a specific recommendation.
type AppliedRebate struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Source string  `json:"source,omitempty"`
}

// Guidance is contractor-facing implementation detail for a recommendation.
type Guidance struct {
	Difficulty       string   `json:"difficulty"`
	TimeEstimate     string   `json:"time_estimate"`
	BestTiming       string   `json:"best_timing"`
	PermitRequired   bool     `json:"permit_required"`
	Warranty         string   `json:"warranty"`
	TaxCredit        string   `json:"tax_credit,omitempty"`
	FinancingOptions []string `json:"financing_options"`
	NextSteps        []string `json:"next_steps"`
}

// RecommendationCandidate is one evaluated retrofit measure.
type RecommendationCandidate struct {
	MeasureID       string          `json:"measure_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        MeasureCategory `json:"category"`
	Priority        Priority        `json:"priority"`
	Applicable      bool            `json:"applicable"`
	AnnualSavings   Savings         `json:"annual_savings"`
	Cost            CostRange       `json:"cost"`
	PaybackYears    *float64        `json:"payback_years"`
	ROIPercent      float64         `json:"roi_percent"`
	LifetimeYears   int             `json:"lifetime_years"`
	LifetimeSavings float64         `json:"lifetime_savings"`
	NPV             float64         `json:"npv"`
	CO2TonsPerYear  float64         `json:"co2_tons_per_year"`
	Rebates         []AppliedRebate `json:"rebates"`
	RebateTotal     float64         `json:"rebate_total"`
	Guidance        *Guidance       `json:"guidance,omitempty"`
}

// HasPayback reports whether the payback period is defined.
func (r *RecommendationCandidate) HasPayback() bool {
	return r.PaybackYears != nil
}

// PaybackOrInf returns the payback period, or +Inf when undefined.
func (r *RecommendationCandidate) PaybackOrInf() float64 {
	if r.PaybackYears == nil {
		return inf
	}
	return *r.PaybackYears
}

// PaybackLabel formats the payback period for display, "N/A" when undefined.
func (r *RecommendationCandidate) PaybackLabel() string {
	if r.PaybackYears == nil {
		return "N/A"
	}
	return formatYears(*r.PaybackYears)
}

// Package reference holds the read-only incentive and benchmark tables shared by all requests.
package reference

import (
	"home-energy-audit/internal/models"
)

// NetZeroEUI is the site EUI (kBTU/sqft/yr) of a typical net-zero-ready home.
const NetZeroEUI = 15.0

// DefaultTargetEUI applies when a region has no benchmark row.
const DefaultTargetEUI = 35.0

// Tables is the immutable reference data loaded once at startup.
type Tables struct {
	Rebates    []models.RebateEntry
	Benchmarks map[models.Region]float64
	Source     string
}

// TargetEUI returns the benchmark EUI for a region.
func (t *Tables) TargetEUI(region models.Region) float64 {
	if eui, ok := t.Benchmarks[region]; ok && eui > 0 {
		return eui
	}
	return DefaultTargetEUI
}

// MatchRebates returns every rebate whose category and eligibility match exactly.
func (t *Tables) MatchRebates(category models.MeasureCategory, region models.Region, income models.IncomeBracket) []models.RebateEntry {
	var matched []models.RebateEntry
	for _, r := range t.Rebates {
		if r.Matches(category, region, income) {
			matched = append(matched, r)
		}
	}
	return matched
}

// Builtin returns the tables compiled into the binary.
func Builtin() *Tables {
	return &Tables{
		Rebates:    BuiltinRebates(),
		Benchmarks: BuiltinBenchmarks(),
		Source:     "builtin",
	}
}

// BuiltinBenchmarks returns typical site EUI by census region.
func BuiltinBenchmarks() map[models.Region]float64 {
	return map[models.Region]float64{
		models.RegionNortheast: 42.0,
		models.RegionMidwest:   44.0,
		models.RegionSouth:     33.0,
		models.RegionWest:      30.0,
		models.RegionNational:  DefaultTargetEUI,
	}
}

// BuiltinRebates returns the default federal and utility incentive catalog.
func BuiltinRebates() []models.RebateEntry {
	lowIncome := []models.IncomeBracket{models.IncomeLow}
	moderateIncome := []models.IncomeBracket{models.IncomeModerate}

	return []models.RebateEntry{
		{
			ID:              "fed-25c-insulation",
			Name:            "Energy Efficient Home Improvement Credit (insulation and air sealing)",
			MeasureCategory: models.MeasureInsulation,
			Percent:         30,
			MaxAmount:       1200,
			Source:          "IRS 25C",
		},
		{
			ID:              "fed-25c-windows",
			Name:            "Energy Efficient Home Improvement Credit (windows)",
			MeasureCategory: models.MeasureWindows,
			Percent:         30,
			MaxAmount:       600,
			Source:          "IRS 25C",
		},
		{
			ID:              "fed-25c-heat-pump",
			Name:            "Energy Efficient Home Improvement Credit (heat pumps)",
			MeasureCategory: models.MeasureHeating,
			Percent:         30,
			MaxAmount:       2000,
			Source:          "IRS 25C",
		},
		{
			ID:              "fed-25c-central-ac",
			Name:            "Energy Efficient Home Improvement Credit (central air)",
			MeasureCategory: models.MeasureCooling,
			Percent:         30,
			MaxAmount:       600,
			Source:          "IRS 25C",
		},
		{
			ID:              "fed-25c-hpwh",
			Name:            "Energy Efficient Home Improvement Credit (heat pump water heater)",
			MeasureCategory: models.MeasureWaterHeat,
			Percent:         30,
			MaxAmount:       2000,
			Source:          "IRS 25C",
		},
		{
			ID:              "fed-25d-solar",
			Name:            "Residential Clean Energy Credit",
			MeasureCategory: models.MeasureRenewable,
			Percent:         30,
			Source:          "IRS 25D",
		},
		{
			ID:              "heehra-low-heat-pump",
			Name:            "Home Electrification Rebate (heat pump, low income)",
			MeasureCategory: models.MeasureHeating,
			Percent:         100,
			MaxAmount:       8000,
			IncomeBrackets:  lowIncome,
			Source:          "HEEHRA",
		},
		{
			ID:              "heehra-moderate-heat-pump",
			Name:            "Home Electrification Rebate (heat pump, moderate income)",
			MeasureCategory: models.MeasureHeating,
			Percent:         50,
			MaxAmount:       8000,
			IncomeBrackets:  moderateIncome,
			Source:          "HEEHRA",
		},
		{
			ID:              "heehra-low-insulation",
			Name:            "Home Electrification Rebate (insulation, low income)",
			MeasureCategory: models.MeasureInsulation,
			Percent:         100,
			MaxAmount:       1600,
			IncomeBrackets:  lowIncome,
			Source:          "HEEHRA",
		},
		{
			ID:              "heehra-low-hpwh",
			Name:            "Home Electrification Rebate (heat pump water heater, low income)",
			MeasureCategory: models.MeasureWaterHeat,
			Percent:         100,
			MaxAmount:       1750,
			IncomeBrackets:  lowIncome,
			Source:          "HEEHRA",
		},
		{
			ID:              "ne-utility-weatherization",
			Name:            "Utility weatherization program (75% of insulation cost)",
			MeasureCategory: models.MeasureInsulation,
			Percent:         75,
			MaxAmount:       4000,
			Regions:         []models.Region{models.RegionNortheast},
			Source:          "Utility",
		},
		{
			ID:              "utility-smart-thermostat",
			Name:            "Utility smart thermostat rebate",
			MeasureCategory: models.MeasureHVACControl,
			Amount:          75,
			Source:          "Utility",
		},
		{
			ID:              "south-utility-ac",
			Name:            "Utility high-efficiency AC rebate",
			MeasureCategory: models.MeasureCooling,
			Amount:          400,
			Regions:         []models.Region{models.RegionSouth},
			Source:          "Utility",
		},
		{
			ID:              "west-utility-appliance",
			Name:            "Utility ENERGY STAR appliance rebate",
			MeasureCategory: models.MeasureAppliances,
			Amount:          100,
			Regions:         []models.Region{models.RegionWest},
			Source:          "Utility",
		},
	}
}

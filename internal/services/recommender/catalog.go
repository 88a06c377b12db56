package recommender

import (
	"math"

	"home-energy-audit/internal/config"
	"home-energy-audit/internal/models"
	"home-energy-audit/internal/services/rates"
)

// Lifespans holds expected service life in years by equipment or material.
var Lifespans = map[string]int{
	"furnace":      20,
	"boiler":       25,
	"heat_pump":    15,
	"ac":           15,
	"water_heater": 12,
	"refrigerator": 15,
	"appliances":   12,
	"windows":      25,
	"insulation":   50,
	"air_sealing":  20,
	"thermostat":   10,
	"fixtures":     10,
	"led":          15,
	"solar_pv":     25,
}

// Solar production assumptions.
const (
	SolarSystemEfficiency = 0.85
	NewFurnaceAFUE        = 0.95
	NewAirConditionerSEER = 16.0
)

// Annual production in kWh per installed kW, by region.
var solarYield = map[models.Region]float64{
	models.RegionNortheast: 1200,
	models.RegionMidwest:   1400,
	models.RegionSouth:     1600,
	models.RegionWest:      1800,
}

const defaultSolarYield = 1500

var orientationFactor = map[models.Orientation]float64{
	models.OrientationSouth: 1.0,
	models.OrientationEast:  0.85,
	models.OrientationWest:  0.85,
	models.OrientationNorth: 0.6,
}

// Measure is one static catalog entry.
type Measure struct {
	ID          string
	Name        string
	Description string
	Category    models.MeasureCategory
	// Usage categories whose kBTU the savings fraction applies to.
	Targets         []models.Category
	SavingsFraction float64
	LifespanKey     string
	BaseCost        float64
	CostPerSqft     float64
	// PriorityCap limits the tier regardless of economics; empty means no cap.
	PriorityCap models.Priority

	Applies func(p *models.HomeProfile, u *models.UsageEstimate) bool
	// Fraction derives a profile-specific savings fraction in place of SavingsFraction.
	Fraction func(p *models.HomeProfile) float64
	// Cost replaces BaseCost + CostPerSqft*sqft.
	Cost func(p *models.HomeProfile, t *config.Tuning) float64
	// Lifespan replaces the LifespanKey lookup.
	Lifespan func(p *models.HomeProfile) string
	// Produce computes savings directly for measures that generate rather than save energy.
	Produce func(p *models.HomeProfile, u *models.UsageEstimate, t *config.Tuning) []fuelSavings
}

type fuelSavings struct {
	fuel models.FuelType
	kbtu float64
}

// DefaultCatalog returns the retrofit measures evaluated for every home.
func DefaultCatalog() []Measure {
	return []Measure{
		{
			ID:          "attic_insulation",
			Name:        "Attic Insulation Upgrade",
			Description: "Bring attic insulation to R-49 to cut conductive heat loss and gain through the ceiling.",
			Category:    models.MeasureInsulation,
			Targets:     []models.Category{models.CategoryHeating, models.CategoryCooling},
			LifespanKey: "insulation",
			CostPerSqft: 1.10,
			Applies: func(p *models.HomeProfile, _ *models.UsageEstimate) bool {
				if !p.HomeType.OwnsRoof() {
					return false
				}
				return p.Insulation.IsDeficient() || (p.YearBuilt < 1980 && p.Insulation.Score() >= 2)
			},
			Fraction: func(p *models.HomeProfile) float64 {
				switch p.Insulation {
				case models.InsulationPoor:
					return 0.20
				case models.InsulationBelowAverage:
					return 0.15
				default:
					return 0.10
				}
			},
		},
		{
			ID:              "air_sealing",
			Name:            "Air Sealing",
			Description:     "Seal attic bypasses, rim joists and penetrations to reduce infiltration.",
			Category:        models.MeasureInsulation,
			Targets:         []models.Category{models.CategoryHeating, models.CategoryCooling},
			SavingsFraction: 0.10,
			LifespanKey:     "air_sealing",
			BaseCost:        150,
			CostPerSqft:     0.20,
			Applies: func(p *models.HomeProfile, _ *models.UsageEstimate) bool {
				return p.YearBuilt < 1990 || p.Insulation.IsDeficient()
			},
		},
		{
			ID:              "smart_thermostat",
			Name:            "Smart Thermostat",
			Description:     "Install a learning thermostat with setback schedules and occupancy sensing.",
			Category:        models.MeasureHVACControl,
			Targets:         []models.Category{models.CategoryHeating, models.CategoryCooling},
			SavingsFraction: 0.08,
			LifespanKey:     "thermostat",
			BaseCost:        250,
			Applies: func(p *models.HomeProfile, _ *models.UsageEstimate) bool {
				return p.YearBuilt < 2010 && (p.HasHeating() || p.HasCooling())
			},
		},
		{
			ID:          "heating_upgrade",
			Name:        "High-Efficiency Heating System",
			Description: "Replace aging heating equipment with a condensing furnace or cold-climate heat pump.",
			Category:    models.MeasureHeating,
			Targets:     []models.Category{models.CategoryHeating},
			LifespanKey: "furnace",
			BaseCost:    3500,
			CostPerSqft: 1.50,
			Applies: func(p *models.HomeProfile, _ *models.UsageEstimate) bool {
				switch p.HeatingType {
				case models.HeatingTypeElectricBaseboard:
					return true
				case models.HeatingTypeFurnace, models.HeatingTypeBoiler, models.HeatingTypeHeatPump:
					return p.HeatingAge >= 15
				default:
					return false
				}
			},
			Fraction: heatingUpgradeFraction,
			Lifespan: func(p *models.HomeProfile) string {
				switch p.HeatingType {
				case models.HeatingTypeElectricBaseboard, models.HeatingTypeHeatPump:
					return "heat_pump"
				case models.HeatingTypeBoiler:
					return "boiler"
				default:
					return "furnace"
				}
			},
		},
		{
			ID:          "cooling_upgrade",
			Name:        "High-Efficiency Air Conditioner",
			Description: "Replace an aging air conditioner with a SEER2 16+ unit.",
			Category:    models.MeasureCooling,
			Targets:     []models.Category{models.CategoryCooling},
			LifespanKey: "ac",
			Applies: func(p *models.HomeProfile, _ *models.UsageEstimate) bool {
				return (p.CoolingType == models.CoolingTypeCentralAC || p.CoolingType == models.CoolingTypeRoomAC) && p.CoolingAge >= 12
			},
			Fraction: func(p *models.HomeProfile) float64 {
				return 1 - oldSEER(p.CoolingAge)/NewAirConditionerSEER
			},
			Cost: func(p *models.HomeProfile, _ *config.Tuning) float64 {
				if p.CoolingType == models.CoolingTypeRoomAC {
					return 450 * math.Ceil(p.SquareFeet/500)
				}
				return 3500 + 1.25*p.SquareFeet
			},
		},
		{
			ID:              "window_upgrade",
			Name:            "Window Replacement",
			Description:     "Replace single-pane windows with ENERGY STAR double-pane low-e units.",
			Category:        models.MeasureWindows,
			Targets:         []models.Category{models.CategoryHeating, models.CategoryCooling},
			SavingsFraction: 0.12,
			LifespanKey:     "windows",
			CostPerSqft:     6.0,
			Applies: func(p *models.HomeProfile, _ *models.UsageEstimate) bool {
				return p.WindowType == models.WindowSinglePane
			},
		},
		{
			ID:          "water_heater_upgrade",
			Name:        "Water Heater Upgrade",
			Description: "Replace the tank water heater with a heat pump or condensing unit.",
			Category:    models.MeasureWaterHeat,
			Targets:     []models.Category{models.CategoryWaterHeating},
			LifespanKey: "water_heater",
			BaseCost:    2500,
			Applies: func(p *models.HomeProfile, _ *models.UsageEstimate) bool {
				switch p.WaterHeaterType {
				case models.WaterHeaterElectricTank:
					return true
				case models.WaterHeaterGasTank:
					return p.WaterHeaterAge >= 12
				default:
					return false
				}
			},
			Fraction: func(p *models.HomeProfile) float64 {
				if p.WaterHeaterType == models.WaterHeaterElectricTank {
					return 0.60
				}
				return 0.25
			},
		},
		{
			ID:              "low_flow_fixtures",
			Name:            "Low-Flow Showerheads and Aerators",
			Description:     "Install WaterSense showerheads and faucet aerators to cut hot water draw.",
			Category:        models.MeasureWaterHeat,
			Targets:         []models.Category{models.CategoryWaterHeating},
			SavingsFraction: 0.12,
			LifespanKey:     "fixtures",
			Applies: func(p *models.HomeProfile, _ *models.UsageEstimate) bool {
				return p.Occupants >= 3 && p.YearBuilt < 1994
			},
			Cost: func(p *models.HomeProfile, _ *config.Tuning) float64 {
				return 100 + 15*float64(p.Occupants)
			},
		},
		{
			ID:          "led_lighting",
			Name:        "LED Lighting Retrofit",
			Description: "Replace remaining incandescent and CFL lamps with LEDs.",
			Category:    models.MeasureLighting,
			Targets:     []models.Category{models.CategoryLighting},
			LifespanKey: "led",
			CostPerSqft: 0.12,
			Applies: func(p *models.HomeProfile, _ *models.UsageEstimate) bool {
				return p.LightingType != models.LightingLED
			},
			Fraction: func(p *models.HomeProfile) float64 {
				switch p.LightingType {
				case models.LightingIncandescent:
					return 0.75
				case models.LightingMixed:
					return 0.45
				default:
					return 0.25
				}
			},
		},
		{
			ID:              "energy_star_appliances",
			Name:            "ENERGY STAR Appliances",
			Description:     "Replace the refrigerator, washer and dryer with ENERGY STAR models.",
			Category:        models.MeasureAppliances,
			Targets:         []models.Category{models.CategoryAppliances},
			SavingsFraction: 0.10,
			LifespanKey:     "appliances",
			BaseCost:        1500,
			Applies: func(p *models.HomeProfile, _ *models.UsageEstimate) bool {
				return p.Occupants >= 5
			},
		},
		{
			ID:          "solar_pv",
			Name:        "Rooftop Solar PV",
			Description: "Install a grid-tied photovoltaic system sized to offset household electricity.",
			Category:    models.MeasureRenewable,
			LifespanKey: "solar_pv",
			PriorityCap: models.PriorityMedium,
			Applies: func(p *models.HomeProfile, _ *models.UsageEstimate) bool {
				return p.HomeType.OwnsRoof() && p.HomeType != models.HomeTypeMobileHome && p.SolarOrientation != models.OrientationNorth
			},
			Cost: func(_ *models.HomeProfile, t *config.Tuning) float64 {
				return t.SolarSystemKW * 1000 * t.SolarCostPerWatt
			},
			Produce: solarProduction,
		},
	}
}

// heatingUpgradeFraction approximates savings from the efficiency gap between old and new equipment.
func heatingUpgradeFraction(p *models.HomeProfile) float64 {
	switch p.HeatingType {
	case models.HeatingTypeElectricBaseboard:
		return 0.60
	case models.HeatingTypeHeatPump:
		return 0.25
	default:
		return 1 - oldAFUE(p.HeatingAge)/NewFurnaceAFUE
	}
}

func oldAFUE(age int) float64 {
	switch {
	case age >= 25:
		return 0.65
	case age >= 15:
		return 0.78
	default:
		return 0.85
	}
}

func oldSEER(age int) float64 {
	switch {
	case age >= 20:
		return 9
	case age >= 15:
		return 10
	default:
		return 13
	}
}

// solarProduction estimates annual PV output, capped at the home's electricity use.
func solarProduction(p *models.HomeProfile, u *models.UsageEstimate, t *config.Tuning) []fuelSavings {
	yield, ok := solarYield[p.Climate.Region]
	if !ok {
		yield = defaultSolarYield
	}
	factor, ok := orientationFactor[p.SolarOrientation]
	if !ok {
		factor = 1.0
	}

	kwh := t.SolarSystemKW * yield * factor * SolarSystemEfficiency
	electricKWh := ElectricKBTU(p, u) * models.KBTUToKWh
	if kwh > electricKWh {
		kwh = electricKWh
	}
	if kwh <= 0 {
		return nil
	}
	return []fuelSavings{{fuel: models.FuelElectricity, kbtu: kwh / models.KBTUToKWh}}
}

// FuelFor returns the fuel that serves a usage category in this home.
// Miscellaneous loads have no single fuel and return an empty FuelType.
func FuelFor(p *models.HomeProfile, cat models.Category) models.FuelType {
	switch cat {
	case models.CategoryHeating:
		return p.HeatingFuel
	case models.CategoryWaterHeating:
		return p.WaterHeaterType.Fuel()
	case models.CategoryOther:
		return ""
	default:
		return models.FuelElectricity
	}
}

// PricePerKBTU prices a usage category at its fuel's rate, or the blended rate for mixed loads.
func PricePerKBTU(p *models.HomeProfile, cat models.Category) float64 {
	fuel := FuelFor(p, cat)
	if fuel == "" {
		return p.Rates.BlendedPerKBTU
	}
	return rates.CostPerKBTU(p.Rates, fuel)
}

// ElectricKBTU sums the usage served by electricity.
func ElectricKBTU(p *models.HomeProfile, u *models.UsageEstimate) float64 {
	total := 0.0
	for _, cat := range models.ValidCategories() {
		if FuelFor(p, cat) == models.FuelElectricity {
			total += u.CategoryKBTU(cat)
		}
	}
	return total
}

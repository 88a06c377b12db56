// Package normalizer turns raw audit requests into complete home profiles and model features.
package normalizer

import (
	"errors"
	"strings"
	"time"

	"home-energy-audit/internal/models"
	"home-energy-audit/internal/services/rates"
)

// Plausibility bounds for required and optional numeric fields.
const (
	MaxSquareFeet  = 50000.0
	MinYearBuilt   = 1800
	MinOccupants   = 1
	MaxOccupants   = 20
	MaxEquipAge    = 100
	DefaultYear    = 1985
	DefaultPersons = 2
)

// Typical mid-life equipment ages used when the age is not supplied.
const (
	DefaultHeatingAge     = 15
	DefaultCoolingAge     = 12
	DefaultWaterHeaterAge = 8
)

// ClimateLookup resolves a zip code to degree days and region.
type ClimateLookup interface {
	Lookup(zip string) (models.ClimateInfo, error)
}

// Normalizer validates raw input and fills documented defaults.
type Normalizer struct {
	climate ClimateLookup
	now     func() time.Time
}

// New creates a normalizer backed by the given climate lookup.
func New(climate ClimateLookup) *Normalizer {
	return &Normalizer{climate: climate, now: time.Now}
}

// WithClock overrides the clock used for age and year range checks.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	n.now = now
	return n
}

// Normalize validates the input and returns a fully populated profile and its feature vector.
func (n *Normalizer) Normalize(input models.HomeProfileInput) (*models.HomeProfile, models.FeatureVector, error) {
	currentYear := n.now().Year()

	if input.SquareFeet <= 0 || input.SquareFeet > MaxSquareFeet {
		return nil, nil, models.NewValidationError("square_feet", input.SquareFeet, models.ErrInvalidSquareFeet)
	}

	zip := strings.TrimSpace(input.ZipCode)
	if zip == "" {
		return nil, nil, models.NewValidationError("zip_code", "", models.ErrInvalidZipCode)
	}
	climate, err := n.climate.Lookup(zip)
	if err != nil {
		if errors.Is(err, models.ErrInvalidZipCode) {
			return nil, nil, models.NewValidationError("zip_code", zip, models.ErrInvalidZipCode)
		}
		return nil, nil, models.NewValidationError("zip_code", zip, err)
	}

	profile := &models.HomeProfile{
		SquareFeet: input.SquareFeet,
		ZipCode:    zip,
		Climate:    climate,
		Rates:      rates.ForLocation(climate.Region, climate.Division),
	}

	profile.YearBuilt = DefaultYear
	if input.YearBuilt != nil {
		if *input.YearBuilt < MinYearBuilt || *input.YearBuilt > currentYear+1 {
			return nil, nil, models.NewValidationError("year_built", *input.YearBuilt, models.ErrInvalidYearBuilt)
		}
		profile.YearBuilt = *input.YearBuilt
	}
	homeAge := maxInt(currentYear-profile.YearBuilt, 0)

	profile.Occupants = DefaultPersons
	if input.Occupants != nil {
		if *input.Occupants < MinOccupants || *input.Occupants > MaxOccupants {
			return nil, nil, models.NewValidationError("occupants", *input.Occupants, models.ErrInvalidOccupants)
		}
		profile.Occupants = *input.Occupants
	}

	if input.MonthlyBill != nil {
		if *input.MonthlyBill < 0 {
			return nil, nil, models.NewValidationError("monthly_bill", *input.MonthlyBill, models.ErrInvalidMonthlyBill)
		}
		profile.MonthlyBill = *input.MonthlyBill
	}

	if err := n.resolveEnums(input, profile); err != nil {
		return nil, nil, err
	}

	if profile.HeatingAge, err = ageOrDefault("heating_age", input.HeatingAge, minInt(homeAge, DefaultHeatingAge)); err != nil {
		return nil, nil, err
	}
	if profile.CoolingAge, err = ageOrDefault("cooling_age", input.CoolingAge, minInt(homeAge, DefaultCoolingAge)); err != nil {
		return nil, nil, err
	}
	if profile.WaterHeaterAge, err = ageOrDefault("water_heater_age", input.WaterHeaterAge, minInt(homeAge, DefaultWaterHeaterAge)); err != nil {
		return nil, nil, err
	}

	return profile, BuildFeatures(profile, currentYear), nil
}

func (n *Normalizer) resolveEnums(input models.HomeProfileInput, p *models.HomeProfile) error {
	p.HomeType = models.HomeTypeSingleFamilyDetached
	if input.HomeType != "" {
		p.HomeType = models.NormalizeHomeType(input.HomeType)
		if !p.HomeType.IsValid() {
			return models.NewValidationError("home_type", input.HomeType, models.ErrInvalidEnumValue)
		}
	}

	p.HeatingType = models.HeatingTypeFurnace
	if input.HeatingType != "" {
		p.HeatingType = models.NormalizeHeatingType(input.HeatingType)
		if !p.HeatingType.IsValid() {
			return models.NewValidationError("heating_type", input.HeatingType, models.ErrInvalidEnumValue)
		}
	}

	p.HeatingFuel = defaultHeatingFuel(p.HeatingType)
	if input.HeatingFuel != "" {
		p.HeatingFuel = models.NormalizeFuel(input.HeatingFuel)
		if !p.HeatingFuel.IsValid() {
			return models.NewValidationError("heating_fuel", input.HeatingFuel, models.ErrInvalidEnumValue)
		}
	}

	p.CoolingType = models.CoolingTypeCentralAC
	if p.HeatingType == models.HeatingTypeHeatPump {
		p.CoolingType = models.CoolingTypeHeatPump
	}
	if input.CoolingType != "" {
		p.CoolingType = models.NormalizeCoolingType(input.CoolingType)
		if !p.CoolingType.IsValid() {
			return models.NewValidationError("cooling_type", input.CoolingType, models.ErrInvalidEnumValue)
		}
	}

	p.WaterHeaterType = models.WaterHeaterGasTank
	if input.WaterHeaterType != "" {
		p.WaterHeaterType = models.NormalizeWaterHeaterType(input.WaterHeaterType)
		if !p.WaterHeaterType.IsValid() {
			return models.NewValidationError("water_heater_type", input.WaterHeaterType, models.ErrInvalidEnumValue)
		}
	}

	p.Insulation = models.InsulationAverage
	if input.Insulation != "" {
		p.Insulation = models.NormalizeInsulation(input.Insulation)
		if !p.Insulation.IsValid() {
			return models.NewValidationError("insulation", input.Insulation, models.ErrInvalidEnumValue)
		}
	}

	p.WindowType = defaultWindowType(p.YearBuilt)
	if input.WindowType != "" {
		p.WindowType = models.NormalizeWindowType(input.WindowType)
		if !p.WindowType.IsValid() {
			return models.NewValidationError("window_type", input.WindowType, models.ErrInvalidEnumValue)
		}
	}

	p.LightingType = defaultLightingType(p.YearBuilt)
	if input.LightingType != "" {
		p.LightingType = models.NormalizeLightingType(input.LightingType)
		if !p.LightingType.IsValid() {
			return models.NewValidationError("lighting_type", input.LightingType, models.ErrInvalidEnumValue)
		}
	}

	p.IncomeBracket = models.IncomeStandard
	if input.IncomeBracket != "" {
		p.IncomeBracket = models.NormalizeIncomeBracket(input.IncomeBracket)
		if !p.IncomeBracket.IsValid() {
			return models.NewValidationError("income_bracket", input.IncomeBracket, models.ErrInvalidEnumValue)
		}
	}

	p.SolarOrientation = models.OrientationSouth
	if input.SolarOrientation != "" {
		p.SolarOrientation = models.NormalizeOrientation(input.SolarOrientation)
		if !p.SolarOrientation.IsValid() {
			return models.NewValidationError("solar_orientation", input.SolarOrientation, models.ErrInvalidEnumValue)
		}
	}

	return nil
}

func defaultHeatingFuel(h models.HeatingType) models.FuelType {
	switch h {
	case models.HeatingTypeHeatPump, models.HeatingTypeElectricBaseboard:
		return models.FuelElectricity
	default:
		return models.FuelNaturalGas
	}
}

// defaultWindowType follows the glazing typical of each construction era.
func defaultWindowType(yearBuilt int) models.WindowType {
	switch {
	case yearBuilt < 1980:
		return models.WindowSinglePane
	case yearBuilt < 2000:
		return models.WindowDoublePane
	default:
		return models.WindowDoublePaneLowE
	}
}

func defaultLightingType(yearBuilt int) models.LightingType {
	switch {
	case yearBuilt < 2000:
		return models.LightingIncandescent
	case yearBuilt < 2015:
		return models.LightingMixed
	default:
		return models.LightingLED
	}
}

func ageOrDefault(field string, value *int, fallback int) (int, error) {
	if value == nil {
		return fallback, nil
	}
	if *value < 0 || *value > MaxEquipAge {
		return 0, models.NewValidationError(field, *value, models.ErrInvalidEquipAge)
	}
	return *value, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

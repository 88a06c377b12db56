package models

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrModelUnavailable   = errors.New("usage model unavailable")
	ErrUnknownCategory    = errors.New("unknown end-use category")
	ErrInvalidSquareFeet  = errors.New("square footage must be greater than 0 and at most 50000")
	ErrInvalidZipCode     = errors.New("zip code must be a 5-digit string")
	ErrInvalidYearBuilt   = errors.New("year built is outside the plausible range")
	ErrInvalidOccupants   = errors.New("occupants must be between 1 and 20")
	ErrInvalidMonthlyBill = errors.New("monthly bill cannot be negative")
	ErrInvalidEquipAge    = errors.New("equipment age must be between 0 and 100")
	ErrInvalidEnumValue   = errors.New("unrecognized value")
)

// ValidationError is returned when a request field is missing or out of range.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field string, value interface{}, err error) *ValidationError {
	return &ValidationError{Field: field, Value: fmt.Sprint(value), Err: err}
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ModelUnavailableError is returned when the usage model artifact could not be loaded.
// A process holding this error must not serve requests.
type ModelUnavailableError struct {
	Source string
	Err    error
}

func (e *ModelUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v (source: %s)", ErrModelUnavailable, e.Source)
	}
	return fmt.Sprintf("%v (source: %s): %v", ErrModelUnavailable, e.Source, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrModelUnavailable.
func (e *ModelUnavailableError) Is(target error) bool {
	return target == ErrModelUnavailable
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NormalizeInsulation converts free-form insulation labels to a rating.
func NormalizeInsulation(value string) InsulationRating {
	normalized := normalizeToken(value)

	ratingMap := map[string]InsulationRating{
		"poor":           InsulationPoor,
		"bad":            InsulationPoor,
		"none":           InsulationPoor,
		"uninsulated":    InsulationPoor,
		"below_average":  InsulationBelowAverage,
		"belowaverage":   InsulationBelowAverage,
		"fair":           InsulationBelowAverage,
		"average":        InsulationAverage,
		"medium":         InsulationAverage,
		"typical":        InsulationAverage,
		"good":           InsulationGood,
		"above_average":  InsulationGood,
		"well_insulated": InsulationWellInsulated,
		"wellinsulated":  InsulationWellInsulated,
		"excellent":      InsulationWellInsulated,
		"well":           InsulationWellInsulated,
	}

	if mapped, ok := ratingMap[normalized]; ok {
		return mapped
	}

	// Return as-is if no mapping found (will fail validation)
	return InsulationRating(normalized)
}

// NormalizeHeatingType converts free-form heating labels to a heating type.
func NormalizeHeatingType(value string) HeatingType {
	normalized := normalizeToken(value)

	heatingMap := map[string]HeatingType{
		"furnace":            HeatingTypeFurnace,
		"gas_furnace":        HeatingTypeFurnace,
		"forced_air":         HeatingTypeFurnace,
		"oil_furnace":        HeatingTypeFurnace,
		"boiler":             HeatingTypeBoiler,
		"radiator":           HeatingTypeBoiler,
		"hydronic":           HeatingTypeBoiler,
		"heat_pump":          HeatingTypeHeatPump,
		"heatpump":           HeatingTypeHeatPump,
		"ashp":               HeatingTypeHeatPump,
		"mini_split":         HeatingTypeHeatPump,
		"electric_baseboard": HeatingTypeElectricBaseboard,
		"baseboard":          HeatingTypeElectricBaseboard,
		"electric":           HeatingTypeElectricBaseboard,
		"none":               HeatingTypeNone,
	}

	if mapped, ok := heatingMap[normalized]; ok {
		return mapped
	}
	return HeatingType(normalized)
}

// NormalizeFuel converts free-form fuel labels to a fuel type.
func NormalizeFuel(value string) FuelType {
	normalized := normalizeToken(value)

	fuelMap := map[string]FuelType{
		"electricity": FuelElectricity,
		"electric":    FuelElectricity,
		"natural_gas": FuelNaturalGas,
		"gas":         FuelNaturalGas,
		"naturalgas":  FuelNaturalGas,
		"propane":     FuelPropane,
		"lpg":         FuelPropane,
		"fuel_oil":    FuelOil,
		"oil":         FuelOil,
		"heating_oil": FuelOil,
	}

	if mapped, ok := fuelMap[normalized]; ok {
		return mapped
	}
	return FuelType(normalized)
}

// NormalizeCoolingType converts free-form cooling labels to a cooling type.
func NormalizeCoolingType(value string) CoolingType {
	normalized := normalizeToken(value)

	coolingMap := map[string]CoolingType{
		"central_ac":  CoolingTypeCentralAC,
		"central_air": CoolingTypeCentralAC,
		"central":     CoolingTypeCentralAC,
		"ac":          CoolingTypeCentralAC,
		"room_ac":     CoolingTypeRoomAC,
		"window_ac":   CoolingTypeRoomAC,
		"window_unit": CoolingTypeRoomAC,
		"heat_pump":   CoolingTypeHeatPump,
		"heatpump":    CoolingTypeHeatPump,
		"none":        CoolingTypeNone,
		"no_ac":       CoolingTypeNone,
	}

	if mapped, ok := coolingMap[normalized]; ok {
		return mapped
	}
	return CoolingType(normalized)
}

// NormalizeWaterHeaterType converts free-form water heater labels.
func NormalizeWaterHeaterType(value string) WaterHeaterType {
	normalized := normalizeToken(value)

	heaterMap := map[string]WaterHeaterType{
		"gas_tank":      WaterHeaterGasTank,
		"gas":           WaterHeaterGasTank,
		"natural_gas":   WaterHeaterGasTank,
		"electric_tank": WaterHeaterElectricTank,
		"electric":      WaterHeaterElectricTank,
		"tankless":      WaterHeaterTankless,
		"on_demand":     WaterHeaterTankless,
		"instantaneous": WaterHeaterTankless,
		"heat_pump":     WaterHeaterHeatPump,
		"heatpump":      WaterHeaterHeatPump,
		"hybrid":        WaterHeaterHeatPump,
	}

	if mapped, ok := heaterMap[normalized]; ok {
		return mapped
	}
	return WaterHeaterType(normalized)
}

// NormalizeWindowType converts free-form window labels.
func NormalizeWindowType(value string) WindowType {
	normalized := normalizeToken(value)

	windowMap := map[string]WindowType{
		"single_pane":       WindowSinglePane,
		"single":            WindowSinglePane,
		"double_pane":       WindowDoublePane,
		"double":            WindowDoublePane,
		"double_pane_low_e": WindowDoublePaneLowE,
		"low_e":             WindowDoublePaneLowE,
		"lowe":              WindowDoublePaneLowE,
		"triple_pane":       WindowTriplePane,
		"triple":            WindowTriplePane,
	}

	if mapped, ok := windowMap[normalized]; ok {
		return mapped
	}
	return WindowType(normalized)
}

// NormalizeLightingType converts free-form lighting labels.
func NormalizeLightingType(value string) LightingType {
	normalized := normalizeToken(value)

	lightingMap := map[string]LightingType{
		"led":          LightingLED,
		"leds":         LightingLED,
		"cfl":          LightingCFL,
		"fluorescent":  LightingCFL,
		"mixed":        LightingMixed,
		"mix":          LightingMixed,
		"incandescent": LightingIncandescent,
		"halogen":      LightingIncandescent,
	}

	if mapped, ok := lightingMap[normalized]; ok {
		return mapped
	}
	return LightingType(normalized)
}

// NormalizeHomeType converts free-form home type labels.
func NormalizeHomeType(value string) HomeType {
	normalized := normalizeToken(value)

	homeMap := map[string]HomeType{
		"single_family_detached": HomeTypeSingleFamilyDetached,
		"single_family":          HomeTypeSingleFamilyDetached,
		"detached":               HomeTypeSingleFamilyDetached,
		"house":                  HomeTypeSingleFamilyDetached,
		"single_family_attached": HomeTypeSingleFamilyAttached,
		"townhouse":              HomeTypeSingleFamilyAttached,
		"townhome":               HomeTypeSingleFamilyAttached,
		"rowhouse":               HomeTypeSingleFamilyAttached,
		"apartment_small":        HomeTypeApartmentSmall,
		"apartment":              HomeTypeApartmentSmall,
		"condo":                  HomeTypeApartmentSmall,
		"apartment_large":        HomeTypeApartmentLarge,
		"mobile_home":            HomeTypeMobileHome,
		"mobile":                 HomeTypeMobileHome,
		"manufactured":           HomeTypeMobileHome,
	}

	if mapped, ok := homeMap[normalized]; ok {
		return mapped
	}
	return HomeType(normalized)
}

// NormalizeIncomeBracket converts free-form income labels.
func NormalizeIncomeBracket(value string) IncomeBracket {
	normalized := normalizeToken(value)
	switch normalized {
	case "low", "low_income":
		return IncomeLow
	case "moderate", "moderate_income", "middle":
		return IncomeModerate
	case "standard", "high", "above_moderate":
		return IncomeStandard
	}
	return IncomeBracket(normalized)
}

// NormalizeOrientation converts compass labels like "S" or "South".
func NormalizeOrientation(value string) Orientation {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "s", "south", "southeast", "southwest", "se", "sw":
		return OrientationSouth
	case "e", "east":
		return OrientationEast
	case "w", "west":
		return OrientationWest
	case "n", "north", "northeast", "northwest", "ne", "nw":
		return OrientationNorth
	}
	return Orientation(normalized)
}

// Package models defines the data structures for the home energy audit engine.
package models

import "strings"

// HomeType represents the building form of the audited home.
type HomeType string

const (
	HomeTypeSingleFamilyDetached HomeType = "single_family_detached"
	HomeTypeSingleFamilyAttached HomeType = "single_family_attached"
	HomeTypeApartmentSmall       HomeType = "apartment_small"
	HomeTypeApartmentLarge       HomeType = "apartment_large"
	HomeTypeMobileHome           HomeType = "mobile_home"
)

// ValidHomeTypes returns all valid home type values.
func ValidHomeTypes() []HomeType {
	return []HomeType{
		HomeTypeSingleFamilyDetached,
		HomeTypeSingleFamilyAttached,
		HomeTypeApartmentSmall,
		HomeTypeApartmentLarge,
		HomeTypeMobileHome,
	}
}

// IsValid checks if the home type is valid.
func (h HomeType) IsValid() bool {
	for _, valid := range ValidHomeTypes() {
		if h == valid {
			return true
		}
	}
	return false
}

// OwnsRoof reports whether the occupant typically controls the roof and attic.
func (h HomeType) OwnsRoof() bool {
	return h == HomeTypeSingleFamilyDetached || h == HomeTypeSingleFamilyAttached || h == HomeTypeMobileHome
}

// HeatingType represents the primary heating equipment.
type HeatingType string

const (
	HeatingTypeFurnace           HeatingType = "furnace"
	HeatingTypeBoiler            HeatingType = "boiler"
	HeatingTypeHeatPump          HeatingType = "heat_pump"
	HeatingTypeElectricBaseboard HeatingType = "electric_baseboard"
	HeatingTypeNone              HeatingType = "none"
)

// ValidHeatingTypes returns all valid heating type values.
func ValidHeatingTypes() []HeatingType {
	return []HeatingType{
		HeatingTypeFurnace,
		HeatingTypeBoiler,
		HeatingTypeHeatPump,
		HeatingTypeElectricBaseboard,
		HeatingTypeNone,
	}
}

// IsValid checks if the heating type is valid.
func (h HeatingType) IsValid() bool {
	for _, valid := range ValidHeatingTypes() {
		if h == valid {
			return true
		}
	}
	return false
}

// FuelType represents an energy carrier billed to the household.
type FuelType string

const (
	FuelElectricity FuelType = "electricity"
	FuelNaturalGas  FuelType = "natural_gas"
	FuelPropane     FuelType = "propane"
	FuelOil         FuelType = "fuel_oil"
)

// ValidFuelTypes returns all valid fuel values.
func ValidFuelTypes() []FuelType {
	return []FuelType{FuelElectricity, FuelNaturalGas, FuelPropane, FuelOil}
}

// IsValid checks if the fuel type is valid.
func (f FuelType) IsValid() bool {
	for _, valid := range ValidFuelTypes() {
		if f == valid {
			return true
		}
	}
	return false
}

// CoolingType represents the primary cooling equipment.
type CoolingType string

const (
	CoolingTypeCentralAC CoolingType = "central_ac"
	CoolingTypeRoomAC    CoolingType = "room_ac"
	CoolingTypeHeatPump  CoolingType = "heat_pump"
	CoolingTypeNone      CoolingType = "none"
)

// ValidCoolingTypes returns all valid cooling type values.
func ValidCoolingTypes() []CoolingType {
	return []CoolingType{CoolingTypeCentralAC, CoolingTypeRoomAC, CoolingTypeHeatPump, CoolingTypeNone}
}

// IsValid checks if the cooling type is valid.
func (c CoolingType) IsValid() bool {
	for _, valid := range ValidCoolingTypes() {
		if c == valid {
			return true
		}
	}
	return false
}

// WaterHeaterType represents the domestic hot water equipment.
type WaterHeaterType string

const (
	WaterHeaterGasTank      WaterHeaterType = "gas_tank"
	WaterHeaterElectricTank WaterHeaterType = "electric_tank"
	WaterHeaterTankless     WaterHeaterType = "tankless"
	WaterHeaterHeatPump     WaterHeaterType = "heat_pump"
)

// ValidWaterHeaterTypes returns all valid water heater values.
func ValidWaterHeaterTypes() []WaterHeaterType {
	return []WaterHeaterType{WaterHeaterGasTank, WaterHeaterElectricTank, WaterHeaterTankless, WaterHeaterHeatPump}
}

// IsValid checks if the water heater type is valid.
func (w WaterHeaterType) IsValid() bool {
	for _, valid := range ValidWaterHeaterTypes() {
		if w == valid {
			return true
		}
	}
	return false
}

// Fuel returns the fuel burned by the water heater.
func (w WaterHeaterType) Fuel() FuelType {
	if w == WaterHeaterGasTank || w == WaterHeaterTankless {
		return FuelNaturalGas
	}
	return FuelElectricity
}

// InsulationRating is the qualitative envelope insulation level.
type InsulationRating string

const (
	InsulationPoor          InsulationRating = "poor"
	InsulationBelowAverage  InsulationRating = "below_average"
	InsulationAverage       InsulationRating = "average"
	InsulationGood          InsulationRating = "good"
	InsulationWellInsulated InsulationRating = "well_insulated"
)

// ValidInsulationRatings returns ratings ordered from best to worst.
func ValidInsulationRatings() []InsulationRating {
	return []InsulationRating{
		InsulationWellInsulated,
		InsulationGood,
		InsulationAverage,
		InsulationBelowAverage,
		InsulationPoor,
	}
}

// IsValid checks if the insulation rating is valid.
func (i InsulationRating) IsValid() bool {
	return i.Score() >= 0
}

// Score maps the rating onto 0 (well insulated) through 4 (poor), or -1 if unknown.
func (i InsulationRating) Score() int {
	for idx, valid := range ValidInsulationRatings() {
		if i == valid {
			return idx
		}
	}
	return -1
}

// IsDeficient reports whether the rating is poor or below average.
func (i InsulationRating) IsDeficient() bool {
	return i == InsulationPoor || i == InsulationBelowAverage
}

// WindowType represents the predominant glazing.
type WindowType string

const (
	WindowSinglePane     WindowType = "single_pane"
	WindowDoublePane     WindowType = "double_pane"
	WindowDoublePaneLowE WindowType = "double_pane_low_e"
	WindowTriplePane     WindowType = "triple_pane"
)

// ValidWindowTypes returns window types ordered from best to worst.
func ValidWindowTypes() []WindowType {
	return []WindowType{WindowTriplePane, WindowDoublePaneLowE, WindowDoublePane, WindowSinglePane}
}

// IsValid checks if the window type is valid.
func (w WindowType) IsValid() bool {
	return w.Score() >= 0
}

// Score maps the window type onto 0 (triple pane) through 3 (single pane), or -1 if unknown.
func (w WindowType) Score() int {
	for idx, valid := range ValidWindowTypes() {
		if w == valid {
			return idx
		}
	}
	return -1
}

// LightingType represents the predominant lamp technology.
type LightingType string

const (
	LightingLED          LightingType = "led"
	LightingCFL          LightingType = "cfl"
	LightingMixed        LightingType = "mixed"
	LightingIncandescent LightingType = "incandescent"
)

// ValidLightingTypes returns lighting types ordered from most to least efficient.
func ValidLightingTypes() []LightingType {
	return []LightingType{LightingLED, LightingCFL, LightingMixed, LightingIncandescent}
}

// IsValid checks if the lighting type is valid.
func (l LightingType) IsValid() bool {
	return l.Score() >= 0
}

// Score maps the lighting type onto 0 (LED) through 3 (incandescent), or -1 if unknown.
func (l LightingType) Score() int {
	for idx, valid := range ValidLightingTypes() {
		if l == valid {
			return idx
		}
	}
	return -1
}

// IncomeBracket is used for incentive eligibility.
type IncomeBracket string

const (
	IncomeLow      IncomeBracket = "low"
	IncomeModerate IncomeBracket = "moderate"
	IncomeStandard IncomeBracket = "standard"
)

// ValidIncomeBrackets returns all valid income brackets.
func ValidIncomeBrackets() []IncomeBracket {
	return []IncomeBracket{IncomeLow, IncomeModerate, IncomeStandard}
}

// IsValid checks if the income bracket is valid.
func (i IncomeBracket) IsValid() bool {
	for _, valid := range ValidIncomeBrackets() {
		if i == valid {
			return true
		}
	}
	return false
}

// Orientation is the compass direction of the best roof plane.
type Orientation string

const (
	OrientationSouth Orientation = "south"
	OrientationEast  Orientation = "east"
	OrientationWest  Orientation = "west"
	OrientationNorth Orientation = "north"
)

// ValidOrientations returns all valid roof orientations.
func ValidOrientations() []Orientation {
	return []Orientation{OrientationSouth, OrientationEast, OrientationWest, OrientationNorth}
}

// IsValid checks if the orientation is valid.
func (o Orientation) IsValid() bool {
	for _, valid := range ValidOrientations() {
		if o == valid {
			return true
		}
	}
	return false
}

// Region is a US census region.
type Region string

const (
	RegionNortheast Region = "Northeast"
	RegionMidwest   Region = "Midwest"
	RegionSouth     Region = "South"
	RegionWest      Region = "West"
	RegionNational  Region = "National"
)

// Division is a US census division.
type Division string

const (
	DivisionNewEngland       Division = "New England"
	DivisionMiddleAtlantic   Division = "Middle Atlantic"
	DivisionEastNorthCentral Division = "East North Central"
	DivisionWestNorthCentral Division = "West North Central"
	DivisionSouthAtlantic    Division = "South Atlantic"
	DivisionEastSouthCentral Division = "East South Central"
	DivisionWestSouthCentral Division = "West South Central"
	DivisionMountain         Division = "Mountain"
	DivisionPacific          Division = "Pacific"
	DivisionUnknown          Division = ""
)

// ClimateInfo is the result of a zip code climate lookup.
type ClimateInfo struct {
	ZipCode  string   `json:"zip_code"`
	HDD      float64  `json:"hdd"`
	CDD      float64  `json:"cdd"`
	Region   Region   `json:"region"`
	Division Division `json:"division,omitempty"`
}

// UtilityRates holds regional retail energy prices.
type UtilityRates struct {
	ElectricityPerKWh float64 `json:"electricity_per_kwh"`
	GasPerTherm       float64 `json:"gas_per_therm"`
	PropanePerGallon  float64 `json:"propane_per_gallon"`
	FuelOilPerGallon  float64 `json:"fuel_oil_per_gallon"`
	BlendedPerKBTU    float64 `json:"blended_per_kbtu"`
}

// HomeProfileInput is the raw, partially populated audit request.
type HomeProfileInput struct {
	SquareFeet       float64  `json:"square_feet"`
	ZipCode          string   `json:"zip_code"`
	YearBuilt        *int     `json:"year_built,omitempty"`
	HomeType         string   `json:"home_type,omitempty"`
	Occupants        *int     `json:"occupants,omitempty"`
	HeatingType      string   `json:"heating_type,omitempty"`
	HeatingFuel      string   `json:"heating_fuel,omitempty"`
	HeatingAge       *int     `json:"heating_age,omitempty"`
	CoolingType      string   `json:"cooling_type,omitempty"`
	CoolingAge       *int     `json:"cooling_age,omitempty"`
	WaterHeaterType  string   `json:"water_heater_type,omitempty"`
	WaterHeaterAge   *int     `json:"water_heater_age,omitempty"`
	Insulation       string   `json:"insulation,omitempty"`
	WindowType       string   `json:"window_type,omitempty"`
	LightingType     string   `json:"lighting_type,omitempty"`
	MonthlyBill      *float64 `json:"monthly_bill,omitempty"`
	IncomeBracket    string   `json:"income_bracket,omitempty"`
	SolarOrientation string   `json:"solar_orientation,omitempty"`
	Email            string   `json:"email,omitempty"`
}

// HomeProfile is the fully populated, normalized snapshot of a home.
// It is created once per request and never mutated afterwards.
type HomeProfile struct {
	SquareFeet       float64          `json:"square_feet"`
	ZipCode          string           `json:"zip_code"`
	YearBuilt        int              `json:"year_built"`
	HomeType         HomeType         `json:"home_type"`
	Occupants        int              `json:"occupants"`
	HeatingType      HeatingType      `json:"heating_type"`
	HeatingFuel      FuelType         `json:"heating_fuel"`
	HeatingAge       int              `json:"heating_age"`
	CoolingType      CoolingType      `json:"cooling_type"`
	CoolingAge       int              `json:"cooling_age"`
	WaterHeaterType  WaterHeaterType  `json:"water_heater_type"`
	WaterHeaterAge   int              `json:"water_heater_age"`
	Insulation       InsulationRating `json:"insulation"`
	WindowType       WindowType       `json:"window_type"`
	LightingType     LightingType     `json:"lighting_type"`
	MonthlyBill      float64          `json:"monthly_bill,omitempty"`
	IncomeBracket    IncomeBracket    `json:"income_bracket"`
	SolarOrientation Orientation      `json:"solar_orientation"`
	Climate          ClimateInfo      `json:"climate"`
	Rates            UtilityRates     `json:"rates"`
}

// HasCooling reports whether the home has any mechanical cooling.
func (h *HomeProfile) HasCooling() bool {
	return h.CoolingType != CoolingTypeNone
}

// HasHeating reports whether the home has any heating system.
func (h *HomeProfile) HasHeating() bool {
	return h.HeatingType != HeatingTypeNone
}

// HasBill reports whether a usable monthly bill was supplied.
func (h *HomeProfile) HasBill() bool {
	return h.MonthlyBill > 0
}

// normalizeToken lowercases a raw enum value and folds separators to underscores.
func normalizeToken(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	return normalized
}

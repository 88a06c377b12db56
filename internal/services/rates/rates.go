// Package rates provides regional retail energy prices.
package rates

import (
	"home-energy-audit/internal/models"
)

// Share of gas and electricity in the blended residential rate.
const (
	BlendGasShare      = 0.6
	BlendElectricShare = 0.4
)

// Electricity prices in $/kWh by census division.
var electricityByDivision = map[models.Division]float64{
	models.DivisionNewEngland:       0.22,
	models.DivisionMiddleAtlantic:   0.16,
	models.DivisionEastNorthCentral: 0.13,
	models.DivisionWestNorthCentral: 0.12,
	models.DivisionSouthAtlantic:    0.12,
	models.DivisionEastSouthCentral: 0.11,
	models.DivisionWestSouthCentral: 0.11,
	models.DivisionMountain:         0.12,
	models.DivisionPacific:          0.18,
}

// Electricity prices in $/kWh by census region when the division is unknown.
var electricityByRegion = map[models.Region]float64{
	models.RegionNortheast: 0.19,
	models.RegionMidwest:   0.125,
	models.RegionSouth:     0.113,
	models.RegionWest:      0.15,
}

// Natural gas prices in $/therm by census division.
var gasByDivision = map[models.Division]float64{
	models.DivisionNewEngland:       1.80,
	models.DivisionMiddleAtlantic:   1.20,
	models.DivisionEastNorthCentral: 1.00,
	models.DivisionWestNorthCentral: 0.90,
	models.DivisionSouthAtlantic:    1.10,
	models.DivisionEastSouthCentral: 1.00,
	models.DivisionWestSouthCentral: 0.85,
	models.DivisionMountain:         0.95,
	models.DivisionPacific:          1.40,
}

var gasByRegion = map[models.Region]float64{
	models.RegionNortheast: 1.50,
	models.RegionMidwest:   0.95,
	models.RegionSouth:     0.98,
	models.RegionWest:      1.18,
}

// Delivered fuel prices in $/gallon by region.
var propaneByRegion = map[models.Region]float64{
	models.RegionNortheast: 2.80,
	models.RegionMidwest:   2.20,
	models.RegionSouth:     2.10,
	models.RegionWest:      2.50,
}

var fuelOilByRegion = map[models.Region]float64{
	models.RegionNortheast: 3.20,
	models.RegionMidwest:   3.00,
	models.RegionSouth:     3.10,
	models.RegionWest:      3.30,
}

// National fallbacks.
const (
	NationalElectricity = 0.14
	NationalGas         = 1.20
	NationalPropane     = 2.40
	NationalFuelOil     = 3.15
)

// ForLocation returns the utility rates for a region and division.
// The division price wins, then the region average, then the national default.
func ForLocation(region models.Region, division models.Division) models.UtilityRates {
	elec := lookup(electricityByDivision, electricityByRegion, region, division, NationalElectricity)
	gas := lookup(gasByDivision, gasByRegion, region, division, NationalGas)

	propane, ok := propaneByRegion[region]
	if !ok {
		propane = NationalPropane
	}
	oil, ok := fuelOilByRegion[region]
	if !ok {
		oil = NationalFuelOil
	}

	r := models.UtilityRates{
		ElectricityPerKWh: elec,
		GasPerTherm:       gas,
		PropanePerGallon:  propane,
		FuelOilPerGallon:  oil,
	}
	r.BlendedPerKBTU = Blended(r)
	return r
}

func lookup(byDivision map[models.Division]float64, byRegion map[models.Region]float64, region models.Region, division models.Division, fallback float64) float64 {
	if v, ok := byDivision[division]; ok {
		return v
	}
	if v, ok := byRegion[region]; ok {
		return v
	}
	return fallback
}

// Blended returns the 60/40 gas/electric weighted price of one kBTU.
func Blended(r models.UtilityRates) float64 {
	return BlendGasShare*CostPerKBTU(r, models.FuelNaturalGas) + BlendElectricShare*CostPerKBTU(r, models.FuelElectricity)
}

// CostPerKBTU returns the price of one kBTU of delivered energy for a fuel.
func CostPerKBTU(r models.UtilityRates, fuel models.FuelType) float64 {
	switch fuel {
	case models.FuelElectricity:
		return r.ElectricityPerKWh * models.KBTUToKWh
	case models.FuelNaturalGas:
		return r.GasPerTherm * models.KBTUToTherm
	case models.FuelPropane:
		return r.PropanePerGallon / models.KBTUPerGalPropane
	case models.FuelOil:
		return r.FuelOilPerGallon / models.KBTUPerGalFuelOil
	default:
		return r.BlendedPerKBTU
	}
}

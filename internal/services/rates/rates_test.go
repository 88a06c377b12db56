package rates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"home-energy-audit/internal/models"
	"home-energy-audit/internal/services/rates"
)

func TestForLocation_DivisionPrices(t *testing.T) {
	r := rates.ForLocation(models.RegionNortheast, models.DivisionNewEngland)

	assert.Equal(t, 0.22, r.ElectricityPerKWh)
	assert.Equal(t, 1.80, r.GasPerTherm)
	assert.Equal(t, 2.80, r.PropanePerGallon)
	assert.Equal(t, 3.20, r.FuelOilPerGallon)
	// 0.6 * 1.80 * 0.01 + 0.4 * 0.22 * 0.293
	assert.InDelta(t, 0.036584, r.BlendedPerKBTU, 1e-9)
}

func TestForLocation_Fallbacks(t *testing.T) {
	regional := rates.ForLocation(models.RegionMidwest, models.DivisionUnknown)
	assert.Equal(t, 0.125, regional.ElectricityPerKWh)
	assert.Equal(t, 0.95, regional.GasPerTherm)

	national := rates.ForLocation(models.RegionNational, models.DivisionUnknown)
	assert.Equal(t, rates.NationalElectricity, national.ElectricityPerKWh)
	assert.Equal(t, rates.NationalGas, national.GasPerTherm)
	assert.Equal(t, rates.NationalPropane, national.PropanePerGallon)
	assert.Equal(t, rates.NationalFuelOil, national.FuelOilPerGallon)
}

func TestCostPerKBTU(t *testing.T) {
	r := rates.ForLocation(models.RegionNortheast, models.DivisionNewEngland)

	tests := []struct {
		fuel     models.FuelType
		expected float64
	}{
		{models.FuelElectricity, 0.22 * 0.293},
		{models.FuelNaturalGas, 0.018},
		{models.FuelPropane, 2.80 / 91},
		{models.FuelOil, 3.20 / 138},
		{models.FuelType(""), r.BlendedPerKBTU},
	}

	for _, tt := range tests {
		t.Run(string(tt.fuel), func(t *testing.T) {
			assert.InDelta(t, tt.expected, rates.CostPerKBTU(r, tt.fuel), 1e-12)
		})
	}
}

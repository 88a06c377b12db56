package normalizer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-energy-audit/internal/models"
	"home-energy-audit/internal/services/climate"
	"home-energy-audit/internal/services/normalizer"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func newNormalizer() *normalizer.Normalizer {
	clock := func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	return normalizer.New(climate.NewTable()).WithClock(clock)
}

// mockInput creates a request with the required fields and applies overrides
func mockInput(overrides map[string]interface{}) models.HomeProfileInput {
	input := models.HomeProfileInput{
		SquareFeet: 2000,
		ZipCode:    "02139",
	}

	if v, ok := overrides["square_feet"]; ok {
		input.SquareFeet = v.(float64)
	}
	if v, ok := overrides["zip_code"]; ok {
		input.ZipCode = v.(string)
	}
	if v, ok := overrides["year_built"]; ok {
		input.YearBuilt = intPtr(v.(int))
	}
	if v, ok := overrides["occupants"]; ok {
		input.Occupants = intPtr(v.(int))
	}
	if v, ok := overrides["heating_type"]; ok {
		input.HeatingType = v.(string)
	}
	if v, ok := overrides["heating_age"]; ok {
		input.HeatingAge = intPtr(v.(int))
	}
	if v, ok := overrides["insulation"]; ok {
		input.Insulation = v.(string)
	}
	if v, ok := overrides["monthly_bill"]; ok {
		input.MonthlyBill = floatPtr(v.(float64))
	}
	if v, ok := overrides["home_type"]; ok {
		input.HomeType = v.(string)
	}

	return input
}

func TestNormalize_Defaults(t *testing.T) {
	profile, features, err := newNormalizer().Normalize(mockInput(nil))
	require.NoError(t, err)

	assert.Equal(t, normalizer.DefaultYear, profile.YearBuilt)
	assert.Equal(t, normalizer.DefaultPersons, profile.Occupants)
	assert.Equal(t, models.HomeTypeSingleFamilyDetached, profile.HomeType)
	assert.Equal(t, models.HeatingTypeFurnace, profile.HeatingType)
	assert.Equal(t, models.FuelNaturalGas, profile.HeatingFuel)
	assert.Equal(t, models.CoolingTypeCentralAC, profile.CoolingType)
	assert.Equal(t, models.WaterHeaterGasTank, profile.WaterHeaterType)
	assert.Equal(t, models.InsulationAverage, profile.Insulation)
	assert.Equal(t, models.WindowDoublePane, profile.WindowType)
	assert.Equal(t, models.LightingIncandescent, profile.LightingType)
	assert.Equal(t, models.IncomeStandard, profile.IncomeBracket)
	assert.Equal(t, models.OrientationSouth, profile.SolarOrientation)
	assert.Equal(t, normalizer.DefaultHeatingAge, profile.HeatingAge)
	assert.Equal(t, normalizer.DefaultCoolingAge, profile.CoolingAge)
	assert.Equal(t, normalizer.DefaultWaterHeaterAge, profile.WaterHeaterAge)
	assert.False(t, profile.HasBill())

	assert.Equal(t, models.RegionNortheast, profile.Climate.Region)
	assert.Equal(t, 0.22, profile.Rates.ElectricityPerKWh)

	for _, name := range normalizer.FeatureNames() {
		_, ok := features[name]
		assert.True(t, ok, "feature %s present", name)
	}
	assert.Equal(t, 41.0, features.Get(normalizer.FeatureHomeAge))
	assert.Equal(t, 13000.0, features.Get(normalizer.FeatureHDDKSqft))
}

func TestNormalize_EquipmentAgeCappedByHomeAge(t *testing.T) {
	profile, _, err := newNormalizer().Normalize(mockInput(map[string]interface{}{"year_built": 2022}))
	require.NoError(t, err)

	assert.Equal(t, 4, profile.HeatingAge)
	assert.Equal(t, 4, profile.CoolingAge)
	assert.Equal(t, 4, profile.WaterHeaterAge)
	assert.Equal(t, models.WindowDoublePaneLowE, profile.WindowType)
	assert.Equal(t, models.LightingLED, profile.LightingType)
}

func TestNormalize_HeatPumpDefaults(t *testing.T) {
	profile, features, err := newNormalizer().Normalize(mockInput(map[string]interface{}{"heating_type": "Heat Pump"}))
	require.NoError(t, err)

	assert.Equal(t, models.HeatingTypeHeatPump, profile.HeatingType)
	assert.Equal(t, models.FuelElectricity, profile.HeatingFuel)
	assert.Equal(t, models.CoolingTypeHeatPump, profile.CoolingType)
	assert.Equal(t, features.Get(normalizer.FeatureHDDKSqft), features.Get(normalizer.FeatureHDDKSqftHeatPump))
}

func TestNormalize_SharedWallsAndBill(t *testing.T) {
	profile, features, err := newNormalizer().Normalize(mockInput(map[string]interface{}{
		"home_type":    "townhouse",
		"monthly_bill": 180.0,
	}))
	require.NoError(t, err)

	assert.Equal(t, models.HomeTypeSingleFamilyAttached, profile.HomeType)
	assert.True(t, profile.HasBill())
	assert.Equal(t, 180.0, profile.MonthlyBill)
	assert.Equal(t, features.Get(normalizer.FeatureHDDKSqft), features.Get(normalizer.FeatureHDDKSqftSharedWalls))
}

func TestNormalize_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]interface{}
		field     string
		sentinel  error
	}{
		{"zero square feet", map[string]interface{}{"square_feet": 0.0}, "square_feet", models.ErrInvalidSquareFeet},
		{"huge square feet", map[string]interface{}{"square_feet": 60000.0}, "square_feet", models.ErrInvalidSquareFeet},
		{"missing zip", map[string]interface{}{"zip_code": ""}, "zip_code", models.ErrInvalidZipCode},
		{"short zip", map[string]interface{}{"zip_code": "0213"}, "zip_code", models.ErrInvalidZipCode},
		{"future year", map[string]interface{}{"year_built": 2030}, "year_built", models.ErrInvalidYearBuilt},
		{"ancient year", map[string]interface{}{"year_built": 1700}, "year_built", models.ErrInvalidYearBuilt},
		{"no occupants", map[string]interface{}{"occupants": 0}, "occupants", models.ErrInvalidOccupants},
		{"crowded", map[string]interface{}{"occupants": 21}, "occupants", models.ErrInvalidOccupants},
		{"negative bill", map[string]interface{}{"monthly_bill": -5.0}, "monthly_bill", models.ErrInvalidMonthlyBill},
		{"bad heating", map[string]interface{}{"heating_type": "wood stove"}, "heating_type", models.ErrInvalidEnumValue},
		{"bad insulation", map[string]interface{}{"insulation": "superb"}, "insulation", models.ErrInvalidEnumValue},
		{"old furnace", map[string]interface{}{"heating_age": 150}, "heating_age", models.ErrInvalidEquipAge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := newNormalizer().Normalize(mockInput(tt.overrides))
			require.Error(t, err)

			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestNormalize_ZeroBillIsNoBill(t *testing.T) {
	profile, _, err := newNormalizer().Normalize(mockInput(map[string]interface{}{"monthly_bill": 0.0}))
	require.NoError(t, err)
	assert.False(t, profile.HasBill())
}

func TestVintageScore(t *testing.T) {
	assert.Equal(t, 3.0, normalizer.VintageScore(1940))
	assert.Equal(t, 2.0, normalizer.VintageScore(1950))
	assert.Equal(t, 1.0, normalizer.VintageScore(1999))
	assert.Equal(t, 0.0, normalizer.VintageScore(2000))
}

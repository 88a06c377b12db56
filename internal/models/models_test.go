package models_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-energy-audit/internal/models"
)

func TestHomeType_IsValid(t *testing.T) {
	tests := []struct {
		homeType models.HomeType
		expected bool
	}{
		{models.HomeTypeSingleFamilyDetached, true},
		{models.HomeTypeSingleFamilyAttached, true},
		{models.HomeTypeApartmentSmall, true},
		{models.HomeTypeApartmentLarge, true},
		{models.HomeTypeMobileHome, true},
		{models.HomeType("castle"), false},
		{models.HomeType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.homeType), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.homeType.IsValid())
		})
	}
}

func TestNormalizeHeatingType(t *testing.T) {
	tests := []struct {
		input    string
		expected models.HeatingType
	}{
		{"furnace", models.HeatingTypeFurnace},
		{"Gas Furnace", models.HeatingTypeFurnace},
		{"heat-pump", models.HeatingTypeHeatPump},
		{"Mini Split", models.HeatingTypeHeatPump},
		{"Baseboard", models.HeatingTypeElectricBaseboard},
		{"radiator", models.HeatingTypeBoiler},
		{"NONE", models.HeatingTypeNone},
		{"wood_stove", models.HeatingType("wood_stove")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, models.NormalizeHeatingType(tt.input))
		})
	}
}

func TestNormalizeInsulation(t *testing.T) {
	assert.Equal(t, models.InsulationPoor, models.NormalizeInsulation("Poor"))
	assert.Equal(t, models.InsulationBelowAverage, models.NormalizeInsulation("below average"))
	assert.Equal(t, models.InsulationWellInsulated, models.NormalizeInsulation("Well-Insulated"))
	assert.False(t, models.NormalizeInsulation("superb").IsValid())
}

func TestInsulationRating_Score(t *testing.T) {
	assert.Equal(t, 0, models.InsulationWellInsulated.Score())
	assert.Equal(t, 2, models.InsulationAverage.Score())
	assert.Equal(t, 4, models.InsulationPoor.Score())
	assert.Equal(t, -1, models.InsulationRating("unknown").Score())

	assert.True(t, models.InsulationPoor.IsDeficient())
	assert.True(t, models.InsulationBelowAverage.IsDeficient())
	assert.False(t, models.InsulationAverage.IsDeficient())
}

func TestNormalizeOrientation(t *testing.T) {
	assert.Equal(t, models.OrientationSouth, models.NormalizeOrientation("SW"))
	assert.Equal(t, models.OrientationEast, models.NormalizeOrientation(" East "))
	assert.Equal(t, models.OrientationNorth, models.NormalizeOrientation("n"))
}

func TestWaterHeaterType_Fuel(t *testing.T) {
	assert.Equal(t, models.FuelNaturalGas, models.WaterHeaterGasTank.Fuel())
	assert.Equal(t, models.FuelNaturalGas, models.WaterHeaterTankless.Fuel())
	assert.Equal(t, models.FuelElectricity, models.WaterHeaterElectricTank.Fuel())
	assert.Equal(t, models.FuelElectricity, models.WaterHeaterHeatPump.Fuel())
}

func TestNewUsageEstimate_SharesSumToOne(t *testing.T) {
	estimate := models.NewUsageEstimate(map[models.Category]float64{
		models.CategoryHeating:      60000,
		models.CategoryCooling:      5000,
		models.CategoryWaterHeating: 15000,
		models.CategoryLighting:     4000,
		models.CategoryAppliances:   12000,
		models.CategoryOther:        4000,
	})

	assert.Equal(t, 100000.0, estimate.TotalKBTU)
	assert.Equal(t, estimate.TotalKBTU, estimate.ModelTotalKBTU)
	assert.InDelta(t, 1.0, estimate.ShareSum(), models.ShareTolerance)
	assert.True(t, estimate.SharesValid())
	assert.InDelta(t, 60000, estimate.CategoryKBTU(models.CategoryHeating), 1e-6)
}

func TestNewUsageEstimate_ClampsNegatives(t *testing.T) {
	estimate := models.NewUsageEstimate(map[models.Category]float64{
		models.CategoryHeating: -500,
		models.CategoryCooling: math.NaN(),
		models.CategoryOther:   1000,
	})

	assert.Equal(t, 1000.0, estimate.TotalKBTU)
	assert.Equal(t, 0.0, estimate.Shares[models.CategoryHeating])
	assert.Equal(t, 1.0, estimate.Shares[models.CategoryOther])
	assert.Len(t, estimate.Shares, len(models.ValidCategories()))
}

func TestNewUsageEstimate_AllZero(t *testing.T) {
	estimate := models.NewUsageEstimate(nil)

	assert.Equal(t, 0.0, estimate.TotalKBTU)
	assert.True(t, estimate.SharesValid(), "zero usage is attributed to other")
	assert.Equal(t, 1.0, estimate.Shares[models.CategoryOther])
}

func TestUsageEstimate_WithTotal(t *testing.T) {
	original := models.NewUsageEstimate(map[models.Category]float64{
		models.CategoryHeating: 75,
		models.CategoryOther:   25,
	})

	scaled := original.WithTotal(200)

	assert.Equal(t, 200.0, scaled.TotalKBTU)
	assert.Equal(t, 100.0, scaled.ModelTotalKBTU, "model total is preserved")
	assert.InDelta(t, 150, scaled.CategoryKBTU(models.CategoryHeating), 1e-9)

	scaled.Shares[models.CategoryHeating] = 0
	assert.Equal(t, 0.75, original.Shares[models.CategoryHeating], "copy does not alias shares")
}

func TestKBTUToCO2Tons(t *testing.T) {
	// 1000 kBTU electric = 293 kWh * 0.85 lb / 2000
	assert.InDelta(t, 0.124525, models.KBTUToCO2Tons(1000, models.FuelElectricity), 1e-9)
	// 1000 kBTU gas = 10 therms * 11.7 lb / 2000
	assert.InDelta(t, 0.0585, models.KBTUToCO2Tons(1000, models.FuelNaturalGas), 1e-9)
}

func TestRebateEntry_Value(t *testing.T) {
	tests := []struct {
		name     string
		rebate   models.RebateEntry
		cost     float64
		expected float64
	}{
		{"flat amount", models.RebateEntry{Amount: 300}, 1000, 300},
		{"flat amount above cost", models.RebateEntry{Amount: 300}, 200, 200},
		{"percent", models.RebateEntry{Percent: 30}, 10000, 3000},
		{"percent capped", models.RebateEntry{Percent: 30, MaxAmount: 1200}, 10000, 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.rebate.Value(tt.cost), 1e-9)
		})
	}
}

func TestRebateEntry_Matches(t *testing.T) {
	rebate := models.RebateEntry{
		MeasureCategory: models.MeasureInsulation,
		Regions:         []models.Region{models.RegionNortheast},
		IncomeBrackets:  []models.IncomeBracket{models.IncomeLow, models.IncomeModerate},
	}

	assert.True(t, rebate.Matches(models.MeasureInsulation, models.RegionNortheast, models.IncomeLow))
	assert.False(t, rebate.Matches(models.MeasureWindows, models.RegionNortheast, models.IncomeLow))
	assert.False(t, rebate.Matches(models.MeasureInsulation, models.RegionSouth, models.IncomeLow))
	assert.False(t, rebate.Matches(models.MeasureInsulation, models.RegionNortheast, models.IncomeStandard))

	open := models.RebateEntry{MeasureCategory: models.MeasureLighting}
	assert.True(t, open.Matches(models.MeasureLighting, models.RegionWest, models.IncomeStandard))
}

func TestRecommendationCandidate_PaybackLabel(t *testing.T) {
	years := func(v float64) *float64 { return &v }

	tests := []struct {
		payback  *float64
		expected string
	}{
		{nil, "N/A"},
		{years(0.55), "7 months"},
		{years(2.49), "2.5 years"},
		{years(18.7), "18.7 years"},
	}

	for _, tt := range tests {
		c := models.RecommendationCandidate{PaybackYears: tt.payback}
		assert.Equal(t, tt.expected, c.PaybackLabel())
	}

	none := models.RecommendationCandidate{}
	assert.False(t, none.HasPayback())
	assert.True(t, math.IsInf(none.PaybackOrInf(), 1))
}

func TestPriority_Rank(t *testing.T) {
	assert.Less(t, models.PriorityHigh.Rank(), models.PriorityMedium.Rank())
	assert.Less(t, models.PriorityMedium.Rank(), models.PriorityLow.Rank())
}

func TestValidationError(t *testing.T) {
	err := models.NewValidationError("zip_code", "abc", models.ErrInvalidZipCode)

	assert.Equal(t, `invalid zip_code "abc": zip code must be a 5-digit string`, err.Error())
	assert.ErrorIs(t, err, models.ErrInvalidZipCode)

	wrapped := fmt.Errorf("audit: %w", err)
	assert.True(t, models.IsValidationError(wrapped))
	assert.False(t, models.IsValidationError(errors.New("boom")))
}

func TestModelUnavailableError(t *testing.T) {
	err := &models.ModelUnavailableError{Source: "s3://bucket/model.json", Err: errors.New("access denied")}

	assert.ErrorIs(t, err, models.ErrModelUnavailable)
	assert.Contains(t, err.Error(), "s3://bucket/model.json")

	var target *models.ModelUnavailableError
	require.ErrorAs(t, fmt.Errorf("startup: %w", err), &target)
	assert.Equal(t, "s3://bucket/model.json", target.Source)
}

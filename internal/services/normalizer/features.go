package normalizer

import (
	"math"

	"home-energy-audit/internal/models"
)

// Feature names understood by the usage model artifact.
const (
	FeatureSquareFeet          = "sqft"
	FeatureKSqft               = "ksqft"
	FeatureHDD                 = "hdd"
	FeatureCDD                 = "cdd"
	FeatureHomeAge             = "home_age"
	FeatureOccupants           = "occupants"
	FeatureHDDKSqft            = "hdd_ksqft"
	FeatureHDDKSqftInsulation  = "hdd_ksqft_insulation"
	FeatureHDDKSqftWindow      = "hdd_ksqft_window"
	FeatureHDDKSqftVintage     = "hdd_ksqft_vintage"
	FeatureHDDKSqftHeatAge     = "hdd_ksqft_heat_age"
	FeatureHDDKSqftHeatPump    = "hdd_ksqft_heat_pump"
	FeatureHDDKSqftSharedWalls = "hdd_ksqft_shared_walls"
	FeatureCDDKSqftCooled      = "cdd_ksqft_cooled"
	FeatureCDDKSqftInsulation  = "cdd_ksqft_insulation"
	FeatureCDDKSqftWindow      = "cdd_ksqft_window"
	FeatureCDDKSqftCoolAge     = "cdd_ksqft_cool_age"
	FeatureWaterHeaterElectric = "wh_electric"
	FeatureWaterHeaterHeatPump = "wh_heat_pump"
	FeatureWaterHeaterAge      = "wh_age"
	FeatureKSqftLighting       = "ksqft_lighting"
	FeatureHasHeating          = "has_heating"
	FeatureHasCooling          = "has_cooling"
)

// FeatureNames lists every feature emitted for a profile.
func FeatureNames() []string {
	return []string{
		FeatureSquareFeet,
		FeatureKSqft,
		FeatureHDD,
		FeatureCDD,
		FeatureHomeAge,
		FeatureOccupants,
		FeatureHDDKSqft,
		FeatureHDDKSqftInsulation,
		FeatureHDDKSqftWindow,
		FeatureHDDKSqftVintage,
		FeatureHDDKSqftHeatAge,
		FeatureHDDKSqftHeatPump,
		FeatureHDDKSqftSharedWalls,
		FeatureCDDKSqftCooled,
		FeatureCDDKSqftInsulation,
		FeatureCDDKSqftWindow,
		FeatureCDDKSqftCoolAge,
		FeatureWaterHeaterElectric,
		FeatureWaterHeaterHeatPump,
		FeatureWaterHeaterAge,
		FeatureKSqftLighting,
		FeatureHasHeating,
		FeatureHasCooling,
	}
}

// VintageScore buckets construction year by building code era: 3 before 1950,
// 2 before 1980, 1 before 2000, otherwise 0.
func VintageScore(yearBuilt int) float64 {
	switch {
	case yearBuilt < 1950:
		return 3
	case yearBuilt < 1980:
		return 2
	case yearBuilt < 2000:
		return 1
	default:
		return 0
	}
}

// BuildFeatures derives the model feature vector from a normalized profile.
func BuildFeatures(p *models.HomeProfile, currentYear int) models.FeatureVector {
	ksqft := p.SquareFeet / 1000
	hddK := p.Climate.HDD * ksqft
	cddK := 0.0
	if p.HasCooling() {
		cddK = p.Climate.CDD * ksqft
	}
	heating := boolFloat(p.HasHeating())
	if !p.HasHeating() {
		hddK = 0
	}

	sharedWalls := 0.0
	if p.HomeType != models.HomeTypeSingleFamilyDetached && p.HomeType != models.HomeTypeMobileHome {
		sharedWalls = 1
	}

	return models.FeatureVector{
		FeatureSquareFeet:          p.SquareFeet,
		FeatureKSqft:               ksqft,
		FeatureHDD:                 p.Climate.HDD,
		FeatureCDD:                 p.Climate.CDD,
		FeatureHomeAge:             float64(maxInt(currentYear-p.YearBuilt, 0)),
		FeatureOccupants:           float64(p.Occupants),
		FeatureHDDKSqft:            hddK,
		FeatureHDDKSqftInsulation:  hddK * float64(p.Insulation.Score()),
		FeatureHDDKSqftWindow:      hddK * float64(p.WindowType.Score()),
		FeatureHDDKSqftVintage:     hddK * VintageScore(p.YearBuilt),
		FeatureHDDKSqftHeatAge:     hddK * math.Min(float64(p.HeatingAge), 30) / 10,
		FeatureHDDKSqftHeatPump:    hddK * boolFloat(p.HeatingType == models.HeatingTypeHeatPump),
		FeatureHDDKSqftSharedWalls: hddK * sharedWalls,
		FeatureCDDKSqftCooled:      cddK,
		FeatureCDDKSqftInsulation:  cddK * float64(p.Insulation.Score()),
		FeatureCDDKSqftWindow:      cddK * float64(p.WindowType.Score()),
		FeatureCDDKSqftCoolAge:     cddK * math.Min(float64(p.CoolingAge), 30) / 10,
		FeatureWaterHeaterElectric: boolFloat(p.WaterHeaterType == models.WaterHeaterElectricTank),
		FeatureWaterHeaterHeatPump: boolFloat(p.WaterHeaterType == models.WaterHeaterHeatPump),
		FeatureWaterHeaterAge:      math.Min(float64(p.WaterHeaterAge), 30) / 10,
		FeatureKSqftLighting:       ksqft * float64(p.LightingType.Score()),
		FeatureHasHeating:          heating,
		FeatureHasCooling:          boolFloat(p.HasCooling()),
	}
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

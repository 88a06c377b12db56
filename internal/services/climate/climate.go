// Package climate maps US zip codes to heating and cooling degree days.
package climate

import (
	"errors"
	"strconv"

	"home-energy-audit/internal/models"
)

// ErrUnknownZip is returned by strict lookups for prefixes outside the table.
var ErrUnknownZip = errors.New("zip code prefix not mapped to a census division")

type prefixRange struct {
	lo, hi   int
	division models.Division
}

// Three-digit zip prefix ranges. Listed in ascending order; gaps fall back to national normals.
var prefixRanges = []prefixRange{
	{10, 69, models.DivisionNewEngland},
	{70, 89, models.DivisionMiddleAtlantic},
	{100, 196, models.DivisionMiddleAtlantic},
	{197, 349, models.DivisionSouthAtlantic},
	{350, 397, models.DivisionEastSouthCentral},
	{398, 399, models.DivisionSouthAtlantic},
	{400, 427, models.DivisionEastSouthCentral},
	{430, 499, models.DivisionEastNorthCentral},
	{500, 528, models.DivisionWestNorthCentral},
	{530, 549, models.DivisionEastNorthCentral},
	{550, 588, models.DivisionWestNorthCentral},
	{590, 599, models.DivisionMountain},
	{600, 629, models.DivisionEastNorthCentral},
	{630, 693, models.DivisionWestNorthCentral},
	{700, 799, models.DivisionWestSouthCentral},
	{800, 898, models.DivisionMountain},
	{900, 999, models.DivisionPacific},
}

// Normals holds typical annual degree days (base 65F).
type Normals struct {
	HDD float64
	CDD float64
}

var divisionNormals = map[models.Division]Normals{
	models.DivisionNewEngland:       {HDD: 6500, CDD: 700},
	models.DivisionMiddleAtlantic:   {HDD: 5500, CDD: 1000},
	models.DivisionEastNorthCentral: {HDD: 6300, CDD: 900},
	models.DivisionWestNorthCentral: {HDD: 6700, CDD: 1100},
	models.DivisionSouthAtlantic:    {HDD: 2800, CDD: 2200},
	models.DivisionEastSouthCentral: {HDD: 3300, CDD: 1900},
	models.DivisionWestSouthCentral: {HDD: 2200, CDD: 2800},
	models.DivisionMountain:         {HDD: 5500, CDD: 1200},
	models.DivisionPacific:          {HDD: 2900, CDD: 900},
}

// NationalNormals is used for unmapped prefixes.
var NationalNormals = Normals{HDD: 4500, CDD: 1400}

var divisionRegion = map[models.Division]models.Region{
	models.DivisionNewEngland:       models.RegionNortheast,
	models.DivisionMiddleAtlantic:   models.RegionNortheast,
	models.DivisionEastNorthCentral: models.RegionMidwest,
	models.DivisionWestNorthCentral: models.RegionMidwest,
	models.DivisionSouthAtlantic:    models.RegionSouth,
	models.DivisionEastSouthCentral: models.RegionSouth,
	models.DivisionWestSouthCentral: models.RegionSouth,
	models.DivisionMountain:         models.RegionWest,
	models.DivisionPacific:          models.RegionWest,
}

// Table is the static zip climate lookup. The zero value is ready to use.
type Table struct {
	// Strict makes unmapped prefixes an error instead of a national fallback.
	Strict bool
}

// NewTable creates a lookup that falls back to national normals.
func NewTable() *Table {
	return &Table{}
}

// Lookup resolves a 5-digit zip code to its climate.
func (t *Table) Lookup(zip string) (models.ClimateInfo, error) {
	if !IsValidZip(zip) {
		return models.ClimateInfo{}, models.ErrInvalidZipCode
	}

	prefix, _ := strconv.Atoi(zip[:3])
	division := DivisionForPrefix(prefix)
	if division == models.DivisionUnknown {
		if t.Strict {
			return models.ClimateInfo{}, ErrUnknownZip
		}
		return models.ClimateInfo{
			ZipCode: zip,
			HDD:     NationalNormals.HDD,
			CDD:     NationalNormals.CDD,
			Region:  models.RegionNational,
		}, nil
	}

	normals := divisionNormals[division]
	return models.ClimateInfo{
		ZipCode:  zip,
		HDD:      normals.HDD,
		CDD:      normals.CDD,
		Region:   divisionRegion[division],
		Division: division,
	}, nil
}

// DivisionForPrefix returns the census division of a three-digit zip prefix.
func DivisionForPrefix(prefix int) models.Division {
	for _, r := range prefixRanges {
		if prefix >= r.lo && prefix <= r.hi {
			return r.division
		}
	}
	return models.DivisionUnknown
}

// IsValidZip reports whether zip is exactly five ASCII digits.
func IsValidZip(zip string) bool {
	if len(zip) != 5 {
		return false
	}
	for _, c := range zip {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

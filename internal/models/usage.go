package models

import (
	"math"
)

// ShareTolerance is the allowed deviation of summed category shares from 1.0.
const ShareTolerance = 1e-6

// Energy unit conversions and emission factors.
const (
	KBTUToKWh         = 0.293
	KBTUToTherm       = 0.01
	ThermToKWh        = 29.3
	LbsCO2PerKWh      = 0.85
	LbsCO2PerTherm    = 11.7
	LbsPerTon         = 2000.0
	KBTUPerGalPropane = 91.0
	KBTUPerGalFuelOil = 138.0
)

// Category is an end-use energy category.
type Category string

const (
	CategoryHeating      Category = "heating"
	CategoryCooling      Category = "cooling"
	CategoryWaterHeating Category = "water_heating"
	CategoryLighting     Category = "lighting"
	CategoryAppliances   Category = "appliances"
	CategoryOther        Category = "other"
)

// ValidCategories returns the fixed set of end-use categories in report order.
func ValidCategories() []Category {
	return []Category{
		CategoryHeating,
		CategoryCooling,
		CategoryWaterHeating,
		CategoryLighting,
		CategoryAppliances,
		CategoryOther,
	}
}

// IsValid checks if the category is one of the fixed end-use keys.
func (c Category) IsValid() bool {
	for _, valid := range ValidCategories() {
		if c == valid {
			return true
		}
	}
	return false
}

// FeatureVector is the numeric model input keyed by feature name.
type FeatureVector map[string]float64

// Get returns the named feature, or 0 when absent.
func (f FeatureVector) Get(name string) float64 {
	return f[name]
}

// UsageEstimate is a total annual energy figure with its end-use split.
type UsageEstimate struct {
	TotalKBTU      float64              `json:"total_kbtu"`
	ModelTotalKBTU float64              `json:"model_total_kbtu"`
	Shares         map[Category]float64 `json:"shares"`
	Calibrated     bool                 `json:"calibrated"`
	ModelVersion   string               `json:"model_version,omitempty"`
}

// NewUsageEstimate builds an estimate from per-category kBTU, clamping negatives to zero.
// When every category is zero the whole share is attributed to "other".
func NewUsageEstimate(byCategory map[Category]float64) *UsageEstimate {
	total := 0.0
	clamped := make(map[Category]float64, len(ValidCategories()))
	for _, cat := range ValidCategories() {
		v := byCategory[cat]
		if v < 0 || math.IsNaN(v) {
			v = 0
		}
		clamped[cat] = v
		total += v
	}

	shares := make(map[Category]float64, len(clamped))
	for cat, v := range clamped {
		if total > 0 {
			shares[cat] = v / total
		} else {
			shares[cat] = 0
		}
	}
	if total == 0 {
		shares[CategoryOther] = 1.0
	}

	return &UsageEstimate{
		TotalKBTU:      total,
		ModelTotalKBTU: total,
		Shares:         shares,
	}
}

// CategoryKBTU returns the annual kBTU attributed to a category.
func (u *UsageEstimate) CategoryKBTU(cat Category) float64 {
	return u.Shares[cat] * u.TotalKBTU
}

// ShareSum returns the sum of all category shares.
func (u *UsageEstimate) ShareSum() float64 {
	sum := 0.0
	for _, s := range u.Shares {
		sum += s
	}
	return sum
}

// SharesValid reports whether the shares sum to 1.0 within ShareTolerance.
func (u *UsageEstimate) SharesValid() bool {
	return math.Abs(u.ShareSum()-1.0) <= ShareTolerance
}

// WithTotal returns a copy of the estimate rescaled to a new total, preserving shares.
func (u *UsageEstimate) WithTotal(total float64) *UsageEstimate {
	shares := make(map[Category]float64, len(u.Shares))
	for cat, s := range u.Shares {
		shares[cat] = s
	}
	return &UsageEstimate{
		TotalKBTU:      total,
		ModelTotalKBTU: u.ModelTotalKBTU,
		Shares:         shares,
		Calibrated:     u.Calibrated,
		ModelVersion:   u.ModelVersion,
	}
}

// CalibrationInfo describes a bill calibration applied to an estimate.
type CalibrationInfo struct {
	Applied           bool    `json:"applied"`
	MonthlyBill       float64 `json:"monthly_bill"`
	AnnualBill        float64 `json:"annual_bill"`
	BlendedRate       float64 `json:"blended_rate_per_kbtu"`
	ModelTotalKBTU    float64 `json:"model_total_kbtu"`
	BillImpliedKBTU   float64 `json:"bill_implied_kbtu"`
	CalibratedKBTU    float64 `json:"calibrated_kbtu"`
	ModelWeight       float64 `json:"model_weight"`
	AdjustmentPercent float64 `json:"adjustment_percent"`
}

// KBTUToCO2Tons converts energy by fuel to tons of CO2.
func KBTUToCO2Tons(kbtu float64, fuel FuelType) float64 {
	switch fuel {
	case FuelElectricity:
		return kbtu * KBTUToKWh * LbsCO2PerKWh / LbsPerTon
	default:
		return kbtu * KBTUToTherm * LbsCO2PerTherm / LbsPerTon
	}
}

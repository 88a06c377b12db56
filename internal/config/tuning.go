package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

var (
	ErrInvalidBlendWeight     = errors.New("bill_model_weight must be between 0 and 1")
	ErrInvalidSavingsFraction = errors.New("savings fractions must be between 0 and 1")
	ErrInvalidThreshold       = errors.New("priority thresholds must be positive")
	ErrInvalidDiscountRate    = errors.New("discount_rate must be greater than -1")
	ErrInvalidSolarSizing     = errors.New("solar_system_kw and solar_cost_per_watt must be positive")
)

// Tuning holds the empirically chosen constants of the audit engine.
type Tuning struct {
	// Weight of the model total when blending with a bill-implied total.
	BillModelWeight float64 `mapstructure:"bill_model_weight"`

	HighPaybackYears     float64 `mapstructure:"high_payback_years"`
	HighMinAnnualSavings float64 `mapstructure:"high_min_annual_savings"`
	MediumPaybackYears   float64 `mapstructure:"medium_payback_years"`
	QuickWinPaybackYears float64 `mapstructure:"quick_win_payback_years"`

	DiscountRate     float64 `mapstructure:"discount_rate"`
	SolarSystemKW    float64 `mapstructure:"solar_system_kw"`
	SolarCostPerWatt float64 `mapstructure:"solar_cost_per_watt"`

	// Per-measure overrides of the catalog savings fraction, keyed by measure id.
	SavingsFractions map[string]float64 `mapstructure:"savings_fractions"`
}

// DefaultTuning returns the stock constants.
func DefaultTuning() *Tuning {
	return &Tuning{
		BillModelWeight:      0.7,
		HighPaybackYears:     10,
		HighMinAnnualSavings: 150,
		MediumPaybackYears:   20,
		QuickWinPaybackYears: 2,
		DiscountRate:         0.03,
		SolarSystemKW:        6,
		SolarCostPerWatt:     3.0,
		SavingsFractions:     map[string]float64{},
	}
}

// savingsFractionEnvPrefix selects per-measure overrides such as
// AUDIT_SAVINGS_FRACTIONS_LED_LIGHTING=0.5.
const savingsFractionEnvPrefix = "AUDIT_SAVINGS_FRACTIONS_"

// LoadTuning reads an optional YAML/JSON/TOML tuning file. Any key can also be
// overridden from the environment with the AUDIT_ prefix, e.g. AUDIT_BILL_MODEL_WEIGHT
// or AUDIT_SAVINGS_FRACTIONS_LED_LIGHTING.
func LoadTuning(path string) (*Tuning, error) {
	defaults := DefaultTuning()

	v := viper.New()
	v.SetDefault("bill_model_weight", defaults.BillModelWeight)
	v.SetDefault("high_payback_years", defaults.HighPaybackYears)
	v.SetDefault("high_min_annual_savings", defaults.HighMinAnnualSavings)
	v.SetDefault("medium_payback_years", defaults.MediumPaybackYears)
	v.SetDefault("quick_win_payback_years", defaults.QuickWinPaybackYears)
	v.SetDefault("discount_rate", defaults.DiscountRate)
	v.SetDefault("solar_system_kw", defaults.SolarSystemKW)
	v.SetDefault("solar_cost_per_watt", defaults.SolarCostPerWatt)

	v.SetEnvPrefix("AUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindSavingsFractionEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read tuning file: %w", err)
		}
	}

	var t Tuning
	if err := v.Unmarshal(&t); err != nil {
		return nil, fmt.Errorf("failed to parse tuning file: %w", err)
	}
	if t.SavingsFractions == nil {
		t.SavingsFractions = map[string]float64{}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// bindSavingsFractionEnv binds every AUDIT_SAVINGS_FRACTIONS_<ID> variable.
// Map keys are unknown to viper, so AutomaticEnv alone never sees them.
func bindSavingsFractionEnv(v *viper.Viper) error {
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(name, savingsFractionEnvPrefix) {
			continue
		}
		id := strings.ToLower(strings.TrimPrefix(name, savingsFractionEnvPrefix))
		if id == "" {
			continue
		}
		if err := v.BindEnv("savings_fractions."+id, name); err != nil {
			return fmt.Errorf("failed to bind %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks the tuning values are usable.
func (t *Tuning) Validate() error {
	if t.BillModelWeight < 0 || t.BillModelWeight > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidBlendWeight, t.BillModelWeight)
	}
	if t.HighPaybackYears <= 0 || t.MediumPaybackYears <= 0 || t.QuickWinPaybackYears <= 0 {
		return ErrInvalidThreshold
	}
	if t.DiscountRate <= -1 {
		return fmt.Errorf("%w: got %v", ErrInvalidDiscountRate, t.DiscountRate)
	}
	if t.SolarSystemKW <= 0 || t.SolarCostPerWatt <= 0 {
		return fmt.Errorf("%w: got %v kW at %v $/W", ErrInvalidSolarSizing, t.SolarSystemKW, t.SolarCostPerWatt)
	}
	for id, f := range t.SavingsFractions {
		if f < 0 || f > 1 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidSavingsFraction, id, f)
		}
	}
	return nil
}

// SavingsFraction returns the override for a measure, or fallback when unset.
func (t *Tuning) SavingsFraction(measureID string, fallback float64) float64 {
	if f, ok := t.SavingsFractions[measureID]; ok {
		return f
	}
	return fallback
}

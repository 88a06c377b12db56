// Package calibrator reconciles model usage estimates with a reported utility bill.
package calibrator

import (
	"errors"

	"go.uber.org/zap"

	"home-energy-audit/internal/models"
	"home-energy-audit/internal/utils"
)

// DefaultModelWeight favors the model over a single bill sample.
const DefaultModelWeight = 0.7

// ErrInvalidRate is returned when the blended rate cannot convert dollars to energy.
var ErrInvalidRate = errors.New("blended utility rate must be positive")

// Calibrator blends the model total with a bill-implied total.
type Calibrator struct {
	modelWeight float64
}

// New creates a calibrator with the given model weight in [0, 1].
func New(modelWeight float64) *Calibrator {
	if modelWeight < 0 || modelWeight > 1 {
		modelWeight = DefaultModelWeight
	}
	return &Calibrator{modelWeight: modelWeight}
}

// ModelWeight returns the configured weight of the model total.
func (c *Calibrator) ModelWeight() float64 {
	return c.modelWeight
}

// Blend returns w*model + (1-w)*bill.
func Blend(modelTotal, billImpliedTotal, modelWeight float64) float64 {
	return modelWeight*modelTotal + (1-modelWeight)*billImpliedTotal
}

// BillImpliedKBTU converts a monthly bill into annual kBTU at a $/kBTU rate.
func BillImpliedKBTU(monthlyBill, blendedRate float64) (float64, error) {
	if blendedRate <= 0 {
		return 0, ErrInvalidRate
	}
	return monthlyBill * 12 / blendedRate, nil
}

// Calibrate returns a rescaled copy of estimate when monthlyBill > 0, or the
// estimate unchanged otherwise. It always blends from ModelTotalKBTU, so
// calibrating an already calibrated estimate gives the same total.
func (c *Calibrator) Calibrate(estimate *models.UsageEstimate, monthlyBill, blendedRate float64) (*models.UsageEstimate, *models.CalibrationInfo, error) {
	if monthlyBill <= 0 {
		return estimate, nil, nil
	}

	billKBTU, err := BillImpliedKBTU(monthlyBill, blendedRate)
	if err != nil {
		return nil, nil, err
	}

	modelTotal := estimate.ModelTotalKBTU
	calibratedTotal := Blend(modelTotal, billKBTU, c.modelWeight)

	calibrated := estimate.WithTotal(calibratedTotal)
	calibrated.Calibrated = true

	adjustment := 0.0
	if modelTotal > 0 {
		adjustment = (calibratedTotal - modelTotal) / modelTotal * 100
	}

	info := &models.CalibrationInfo{
		Applied:           true,
		MonthlyBill:       monthlyBill,
		AnnualBill:        monthlyBill * 12,
		BlendedRate:       blendedRate,
		ModelTotalKBTU:    modelTotal,
		BillImpliedKBTU:   billKBTU,
		CalibratedKBTU:    calibratedTotal,
		ModelWeight:       c.modelWeight,
		AdjustmentPercent: adjustment,
	}

	utils.GetLogger().Debug("Calibrated usage against bill",
		zap.Float64("modelKBTU", modelTotal),
		zap.Float64("billKBTU", billKBTU),
		zap.Float64("calibratedKBTU", calibratedTotal),
	)

	return calibrated, info, nil
}

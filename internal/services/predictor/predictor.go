package predictor

import (
	"fmt"

	"home-energy-audit/internal/models"
)

// Predictor turns feature vectors into usage estimates.
type Predictor struct {
	model Model
}

// NewPredictor wraps a loaded model. A nil model means the artifact never loaded.
func NewPredictor(model Model) (*Predictor, error) {
	if model == nil {
		return nil, &models.ModelUnavailableError{Source: "predictor"}
	}
	return &Predictor{model: model}, nil
}

// Predict runs the model once. Predictions are deterministic, so failures are not retried.
func (p *Predictor) Predict(features models.FeatureVector) (*models.UsageEstimate, error) {
	raw, err := p.model.Predict(features)
	if err != nil {
		return nil, fmt.Errorf("failed to run usage model: %w", err)
	}

	for cat := range raw {
		if !cat.IsValid() {
			return nil, fmt.Errorf("%w: %q", models.ErrUnknownCategory, cat)
		}
	}

	estimate := models.NewUsageEstimate(raw)
	estimate.ModelVersion = p.model.Version()
	return estimate, nil
}

// ModelVersion returns the version of the underlying model.
func (p *Predictor) ModelVersion() string {
	return p.model.Version()
}

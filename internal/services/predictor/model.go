// Package predictor wraps the trained usage model behind a narrow interface.
package predictor

import (
	"encoding/json"
	"errors"
	"fmt"

	"home-energy-audit/internal/models"
)

var (
	ErrEmptyArtifact   = errors.New("model artifact has no categories")
	ErrMissingVersion  = errors.New("model artifact has no version")
	ErrInvalidArtifact = errors.New("model artifact is not valid JSON")
)

// Model is an opaque mapping from a feature vector to per-category annual kBTU.
type Model interface {
	Predict(features models.FeatureVector) (map[models.Category]float64, error)
	Version() string
}

// Coefficients is one category's linear term.
type Coefficients struct {
	Intercept float64            `json:"intercept"`
	Weights   map[string]float64 `json:"coefficients"`
}

// Artifact is the serialized form of a LinearModel.
type Artifact struct {
	Version     string                  `json:"version"`
	Description string                  `json:"description,omitempty"`
	Categories  map[string]Coefficients `json:"categories"`
}

// LinearModel predicts each category as intercept plus a weighted sum of features.
// It is immutable after construction and safe for concurrent use.
type LinearModel struct {
	version    string
	categories map[models.Category]Coefficients
}

// ParseArtifact decodes and validates a JSON model artifact.
func ParseArtifact(data []byte) (*LinearModel, error) {
	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	return NewLinearModel(artifact)
}

// NewLinearModel validates an artifact and builds the model.
func NewLinearModel(artifact Artifact) (*LinearModel, error) {
	if artifact.Version == "" {
		return nil, ErrMissingVersion
	}
	if len(artifact.Categories) == 0 {
		return nil, ErrEmptyArtifact
	}

	categories := make(map[models.Category]Coefficients, len(artifact.Categories))
	for name, coef := range artifact.Categories {
		cat := models.Category(name)
		if !cat.IsValid() {
			return nil, fmt.Errorf("%w: %q", models.ErrUnknownCategory, name)
		}
		weights := make(map[string]float64, len(coef.Weights))
		for feature, w := range coef.Weights {
			weights[feature] = w
		}
		categories[cat] = Coefficients{Intercept: coef.Intercept, Weights: weights}
	}

	return &LinearModel{version: artifact.Version, categories: categories}, nil
}

// Predict evaluates every category. Features absent from the vector count as zero.
func (m *LinearModel) Predict(features models.FeatureVector) (map[models.Category]float64, error) {
	out := make(map[models.Category]float64, len(m.categories))
	for cat, coef := range m.categories {
		v := coef.Intercept
		for feature, w := range coef.Weights {
			v += w * features.Get(feature)
		}
		out[cat] = v
	}
	return out, nil
}

// Version returns the artifact version string.
func (m *LinearModel) Version() string {
	return m.version
}

package predictor_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-energy-audit/internal/models"
	"home-energy-audit/internal/services/climate"
	"home-energy-audit/internal/services/normalizer"
	"home-energy-audit/internal/services/predictor"
)

const testArtifact = `{
  "version": "test-1",
  "categories": {
    "heating": {"intercept": 100, "coefficients": {"hdd": 2}},
    "other":   {"intercept": 50, "coefficients": {}}
  }
}`

type fakeFetcher struct {
	data   []byte
	err    error
	bucket string
	key    string
}

func (f *fakeFetcher) GetObject(_ context.Context, bucket, key string) ([]byte, error) {
	f.bucket, f.key = bucket, key
	return f.data, f.err
}

func TestLoadModel_Embedded(t *testing.T) {
	model, err := predictor.LoadModel(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, "linear-2024.2", model.Version())
}

func TestLoadModel_S3(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte(testArtifact)}

	model, err := predictor.LoadModel(context.Background(), "s3://models/usage/v1.json", fetcher)
	require.NoError(t, err)
	assert.Equal(t, "test-1", model.Version())
	assert.Equal(t, "models", fetcher.bucket)
	assert.Equal(t, "usage/v1.json", fetcher.key)
}

func TestLoadModel_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(testArtifact), 0o600))

	model, err := predictor.LoadModel(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, "test-1", model.Version())
}

func TestLoadModel_Failures(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		fetcher predictor.ObjectFetcher
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.json"), nil},
		{"s3 without fetcher", "s3://models/usage.json", nil},
		{"bad s3 uri", "s3://models", &fakeFetcher{}},
		{"fetch error", "s3://models/usage.json", &fakeFetcher{err: errors.New("access denied")}},
		{"not json", "s3://models/usage.json", &fakeFetcher{data: []byte("not json")}},
		{"no version", "s3://models/usage.json", &fakeFetcher{data: []byte(`{"categories":{"other":{"intercept":1}}}`)}},
		{"unknown category", "s3://models/usage.json", &fakeFetcher{data: []byte(`{"version":"x","categories":{"pool":{"intercept":1}}}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := predictor.LoadModel(context.Background(), tt.uri, tt.fetcher)
			require.Error(t, err)

			var unavailable *models.ModelUnavailableError
			assert.ErrorAs(t, err, &unavailable)
			assert.ErrorIs(t, err, models.ErrModelUnavailable)
		})
	}
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := predictor.ParseS3URI("s3://bucket/path/to/model.json")
	require.NoError(t, err)
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "path/to/model.json", key)

	_, _, err = predictor.ParseS3URI("s3:///key")
	assert.Error(t, err)
}

func TestNewPredictor_NilModel(t *testing.T) {
	_, err := predictor.NewPredictor(nil)
	assert.ErrorIs(t, err, models.ErrModelUnavailable)
}

func TestPredict_LinearModel(t *testing.T) {
	model, err := predictor.ParseArtifact([]byte(testArtifact))
	require.NoError(t, err)
	p, err := predictor.NewPredictor(model)
	require.NoError(t, err)

	estimate, err := p.Predict(models.FeatureVector{"hdd": 200})

	require.NoError(t, err)
	assert.Equal(t, 550.0, estimate.TotalKBTU)
	assert.Equal(t, "test-1", estimate.ModelVersion)
	assert.InDelta(t, 500.0/550.0, estimate.Shares[models.CategoryHeating], 1e-12)
	assert.True(t, estimate.SharesValid())
	assert.False(t, estimate.Calibrated)
}

type stubModel struct {
	out map[models.Category]float64
	err error
}

func (s stubModel) Predict(models.FeatureVector) (map[models.Category]float64, error) {
	return s.out, s.err
}

func (s stubModel) Version() string { return "stub" }

func TestPredict_Errors(t *testing.T) {
	p, _ := predictor.NewPredictor(stubModel{err: errors.New("boom")})
	_, err := p.Predict(nil)
	assert.ErrorContains(t, err, "boom")

	p, _ = predictor.NewPredictor(stubModel{out: map[models.Category]float64{"pool": 1}})
	_, err = p.Predict(nil)
	assert.ErrorIs(t, err, models.ErrUnknownCategory)
}

func TestPredict_EmbeddedModelPoorlyInsulatedHome(t *testing.T) {
	clock := func() time.Time { return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC) }
	n := normalizer.New(climate.NewTable()).WithClock(clock)
	year, occupants := 1940, 10
	_, features, err := n.Normalize(models.HomeProfileInput{
		SquareFeet: 2000,
		ZipCode:    "02139",
		YearBuilt:  &year,
		Occupants:  &occupants,
		Insulation: "poor",
	})
	require.NoError(t, err)

	model, err := predictor.LoadModel(context.Background(), "", nil)
	require.NoError(t, err)
	p, err := predictor.NewPredictor(model)
	require.NoError(t, err)

	estimate, err := p.Predict(features)
	require.NoError(t, err)

	assert.InDelta(t, 180392, estimate.TotalKBTU, 1)
	assert.InDelta(t, 107900, estimate.CategoryKBTU(models.CategoryHeating), 1)
	assert.InDelta(t, 4172, estimate.CategoryKBTU(models.CategoryCooling), 1)
	assert.InDelta(t, 31320, estimate.CategoryKBTU(models.CategoryWaterHeating), 1)
	assert.InDelta(t, 9000, estimate.CategoryKBTU(models.CategoryLighting), 1)
	assert.InDelta(t, 23000, estimate.CategoryKBTU(models.CategoryAppliances), 1)
	assert.InDelta(t, 5000, estimate.CategoryKBTU(models.CategoryOther), 1)
	assert.True(t, estimate.SharesValid())
}

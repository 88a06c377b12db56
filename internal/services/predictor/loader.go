package predictor

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"home-energy-audit/internal/models"
	"home-energy-audit/internal/utils"
)

//go:embed artifacts/usage_model.json
var defaultArtifact []byte

// EmbeddedSource names the artifact compiled into the binary.
const EmbeddedSource = "embedded"

// ObjectFetcher downloads an object from blob storage.
type ObjectFetcher interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// LoadModel loads the usage model from uri: empty for the embedded artifact,
// s3://bucket/key through fetcher, anything else as a local file path.
// Every failure is a *models.ModelUnavailableError.
func LoadModel(ctx context.Context, uri string, fetcher ObjectFetcher) (Model, error) {
	source := uri
	if source == "" {
		source = EmbeddedSource
	}

	data, err := readArtifact(ctx, uri, fetcher)
	if err != nil {
		return nil, &models.ModelUnavailableError{Source: source, Err: err}
	}

	model, err := ParseArtifact(data)
	if err != nil {
		return nil, &models.ModelUnavailableError{Source: source, Err: err}
	}

	utils.GetLogger().Info("Usage model loaded",
		zap.String("source", source),
		zap.String("version", model.Version()),
		zap.Int("categories", len(model.categories)),
	)

	return model, nil
}

func readArtifact(ctx context.Context, uri string, fetcher ObjectFetcher) ([]byte, error) {
	switch {
	case uri == "":
		return defaultArtifact, nil
	case strings.HasPrefix(uri, "s3://"):
		if fetcher == nil {
			return nil, fmt.Errorf("no object store configured for %s", uri)
		}
		bucket, key, err := ParseS3URI(uri)
		if err != nil {
			return nil, err
		}
		return fetcher.GetObject(ctx, bucket, key)
	default:
		data, err := os.ReadFile(uri)
		if err != nil {
			return nil, fmt.Errorf("failed to read model file: %w", err)
		}
		return data, nil
	}
}

// ParseS3URI splits s3://bucket/key into its parts.
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid S3 URI %q: expected s3://bucket/key", uri)
	}
	return parts[0], parts[1], nil
}

// Package cache stores assembled audit reports keyed by their normalized inputs.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"home-energy-audit/internal/config"
	"home-energy-audit/internal/models"
	"home-energy-audit/internal/utils"
)

// ErrUnknownBackend is returned for an unsupported CACHE_BACKEND value.
var ErrUnknownBackend = errors.New("unknown cache backend")

// KeyPrefix namespaces report keys in shared stores.
const KeyPrefix = "audit:report:"

// Cache is a report store. Get reports a miss with ok == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (report *models.AuditReport, ok bool, err error)
	Set(ctx context.Context, key string, report *models.AuditReport, ttl time.Duration) error
}

// Key derives a deterministic cache key from a normalized profile and the model version.
func Key(profile *models.HomeProfile, modelVersion string) (string, error) {
	payload := struct {
		Profile      *models.HomeProfile `json:"profile"`
		ModelVersion string              `json:"model_version"`
	}{profile, modelVersion}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}
	sum := sha256.Sum256(data)
	return KeyPrefix + hex.EncodeToString(sum[:]), nil
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (*models.AuditReport, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, string, *models.AuditReport, time.Duration) error {
	return nil
}

// New builds the cache selected by configuration.
func New(ctx context.Context, cfg *config.Config) (Cache, error) {
	switch cfg.CacheBackend {
	case config.CacheNone, "":
		return Noop{}, nil
	case config.CacheMemory:
		return NewMemory(), nil
	case config.CacheRedis:
		c, err := NewRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		utils.GetLogger().Info("Report cache connected to Redis", zap.String("addr", cfg.RedisAddr))
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.CacheBackend)
	}
}

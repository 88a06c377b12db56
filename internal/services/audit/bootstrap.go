package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"home-energy-audit/internal/config"
	"home-energy-audit/internal/metrics"
	"home-energy-audit/internal/services/cache"
	"home-energy-audit/internal/services/climate"
	"home-energy-audit/internal/services/database"
	"home-energy-audit/internal/services/predictor"
	"home-energy-audit/internal/services/reference"
	s3service "home-energy-audit/internal/services/s3"
	"home-energy-audit/internal/services/ses"
	"home-energy-audit/internal/utils"
)

// Runtime is a fully wired service plus the infrastructure clients built for it.
type Runtime struct {
	Config  *config.Config
	Tuning  *config.Tuning
	Service *Service
	Metrics *metrics.Metrics
	// S3 is nil unless an S3 bucket is reachable through the ambient AWS configuration.
	S3 *s3service.Service
}

// Options control which optional integrations Bootstrap builds.
type Options struct {
	// Registry receives the Prometheus collectors; nil uses the default registry.
	Registry *prometheus.Registry
	// NeedS3 forces the S3 client even when the model is not loaded from S3.
	NeedS3 bool
}

// Bootstrap loads configuration-driven dependencies once at startup: tuning,
// usage model, reference tables, cache, metrics and mailer.
func Bootstrap(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{Config: cfg, Tuning: tuning}

	var fetcher predictor.ObjectFetcher
	if opts.NeedS3 || strings.HasPrefix(cfg.ModelURI, "s3://") {
		svc, err := s3service.NewService(ctx, cfg.AWSRegion, cfg.S3Bucket)
		if err != nil {
			return nil, err
		}
		rt.S3 = svc
		fetcher = svc
	}

	model, err := predictor.LoadModel(ctx, cfg.ModelURI, fetcher)
	if err != nil {
		return nil, err
	}

	tables, err := loadTables(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reportCache, err := cache.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	rt.Metrics = metrics.New(opts.Registry)

	var mailer Mailer
	if cfg.EmailEnabled() {
		mailer, err = ses.NewService(ctx, cfg.AWSRegion, cfg.SESSenderEmail)
		if err != nil {
			return nil, err
		}
	}

	rt.Service, err = NewService(Deps{
		Climate:  climate.NewTable(),
		Model:    model,
		Tuning:   tuning,
		Tables:   tables,
		Cache:    reportCache,
		CacheTTL: cfg.CacheTTL,
		Metrics:  rt.Metrics,
		Mailer:   mailer,
	})
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Audit service ready",
		zap.String("model_version", model.Version()),
		zap.String("reference_source", tables.Source),
		zap.String("cache", cfg.CacheBackend),
		zap.Bool("email", mailer != nil),
	)

	return rt, nil
}

// loadTables reads reference data from Postgres when configured, otherwise the built-in tables.
func loadTables(ctx context.Context, cfg *config.Config) (*reference.Tables, error) {
	if !cfg.UsesDatabase() {
		return reference.Builtin(), nil
	}

	db, err := database.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to reference database: %w", err)
	}
	defer db.Close()

	sqlDB := db.SQLDB()
	defer sqlDB.Close()

	return database.NewReferenceRepository(sqlDB).LoadTables(ctx)
}

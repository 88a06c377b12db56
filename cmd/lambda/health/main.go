// Health Check Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"home-energy-audit/internal/config"
	"home-energy-audit/internal/handlers"
	"home-energy-audit/internal/services/database"
	"home-energy-audit/internal/services/predictor"
	"home-energy-audit/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	ctx := context.Background()
	info := handlers.HealthInfo{
		Version:         cfg.ServiceVersion,
		Stage:           cfg.Stage,
		ReferenceSource: cfg.ReferenceSource,
		CacheBackend:    cfg.CacheBackend,
	}

	// The embedded model is the only one checkable without S3 access
	if cfg.ModelURI == "" {
		if model, err := predictor.LoadModel(ctx, "", nil); err == nil {
			info.ModelVersion = model.Version()
		}
	}

	var pinger handlers.Pinger
	if cfg.UsesDatabase() {
		db, err := database.New(ctx, cfg)
		if err != nil {
			utils.GetLogger().Warn("Database unavailable", zap.Error(err))
		} else {
			defer db.Close()
			pinger = db
		}
	}

	handler := handlers.NewHealthHandler(info, pinger)

	// Start Lambda
	lambda.Start(handler.Handle)
}

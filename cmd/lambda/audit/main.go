// Audit Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"home-energy-audit/internal/config"
	"home-energy-audit/internal/handlers"
	"home-energy-audit/internal/services/audit"
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

	// Build the pipeline once per cold start
	rt, err := audit.Bootstrap(context.Background(), cfg, audit.Options{})
	if err != nil {
		utils.GetLogger().Fatal("Failed to start audit service", zap.Error(err))
	}

	handler := handlers.NewAuditHandler(rt.Service, cfg.RequestTimeout)

	// Start Lambda
	lambda.Start(handler.Handle)
}

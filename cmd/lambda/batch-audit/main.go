// Batch audit Lambda entry point, triggered by CSV uploads under uploads/
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

	rt, err := audit.Bootstrap(context.Background(), cfg, audit.Options{NeedS3: true})
	if err != nil {
		utils.GetLogger().Fatal("Failed to start audit service", zap.Error(err))
	}

	handler := handlers.NewCSVProcessorHandler(rt.Service, rt.S3)

	// Start Lambda
	lambda.Start(handler.Handle)
}

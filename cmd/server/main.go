// Package main runs the home energy audit HTTP API.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"home-energy-audit/internal/config"
	"home-energy-audit/internal/handlers"
	"home-energy-audit/internal/services/audit"
	"home-energy-audit/internal/services/database"
	"home-energy-audit/internal/utils"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()
	logger := utils.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The process refuses to serve without a usage model.
	rt, err := audit.Bootstrap(ctx, cfg, audit.Options{NeedS3: cfg.EnableBatchUploads})
	if err != nil {
		logger.Fatal("Failed to start audit service", zap.Error(err))
	}

	var pinger handlers.Pinger
	if cfg.UsesDatabase() {
		db, err := database.New(ctx, cfg)
		if err != nil {
			logger.Warn("Database unavailable for health checks", zap.Error(err))
		} else {
			defer db.Close()
			pinger = db
		}
	}

	deps := handlers.RouterDeps{
		Audit: handlers.NewAuditHandler(rt.Service, cfg.RequestTimeout),
		Health: handlers.NewHealthHandler(handlers.HealthInfo{
			Version:         cfg.ServiceVersion,
			Stage:           cfg.Stage,
			ModelVersion:    rt.Service.ModelVersion(),
			ReferenceSource: rt.Service.Tables().Source,
			CacheBackend:    cfg.CacheBackend,
		}, pinger),
		Metrics:        rt.Metrics,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}
	if rt.S3 != nil {
		deps.Uploads = handlers.NewUploadHandler(rt.S3)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handlers.NewRouter(deps),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("Shutdown initiated")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", zap.Error(err))
			_ = server.Close()
		}
	}
}

// Package audit runs the full home energy audit pipeline: normalize, predict,
// calibrate, recommend and assemble.
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"home-energy-audit/internal/config"
	"home-energy-audit/internal/metrics"
	"home-energy-audit/internal/models"
	"home-energy-audit/internal/services/cache"
	"home-energy-audit/internal/services/calibrator"
	"home-energy-audit/internal/services/normalizer"
	"home-energy-audit/internal/services/predictor"
	"home-energy-audit/internal/services/recommender"
	"home-energy-audit/internal/services/reference"
	"home-energy-audit/internal/services/report"
	"home-energy-audit/internal/utils"
)

// Mailer delivers a finished report to the homeowner.
type Mailer interface {
	SendAuditReport(ctx context.Context, to string, report *models.AuditReport) error
}

// Deps are the collaborators of the audit service. Model and Climate are required.
type Deps struct {
	Climate  normalizer.ClimateLookup
	Model    predictor.Model
	Tuning   *config.Tuning
	Tables   *reference.Tables
	Cache    cache.Cache
	CacheTTL time.Duration
	Metrics  *metrics.Metrics
	Mailer   Mailer
}

// Service orchestrates one audit per call. It holds no per-request state and
// is safe for concurrent use.
type Service struct {
	normalizer *normalizer.Normalizer
	predictor  *predictor.Predictor
	calibrator *calibrator.Calibrator
	engine     *recommender.Engine
	assembler  *report.Assembler
	tables     *reference.Tables
	cache      cache.Cache
	cacheTTL   time.Duration
	metrics    *metrics.Metrics
	mailer     Mailer
	now        func() time.Time
	newID      func() string
}

// NewService wires the pipeline stages.
func NewService(deps Deps) (*Service, error) {
	if deps.Climate == nil {
		return nil, errors.New("climate lookup is required")
	}
	pred, err := predictor.NewPredictor(deps.Model)
	if err != nil {
		return nil, err
	}

	tuning := deps.Tuning
	if tuning == nil {
		tuning = config.DefaultTuning()
	}
	tables := deps.Tables
	if tables == nil {
		tables = reference.Builtin()
	}
	c := deps.Cache
	if c == nil {
		c = cache.Noop{}
	}

	return &Service{
		normalizer: normalizer.New(deps.Climate),
		predictor:  pred,
		calibrator: calibrator.New(tuning.BillModelWeight),
		engine:     recommender.New(tuning, tables),
		assembler:  report.New(tables, tuning),
		tables:     tables,
		cache:      c,
		cacheTTL:   deps.CacheTTL,
		metrics:    deps.Metrics,
		mailer:     deps.Mailer,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}, nil
}

// WithClock overrides the clock for report timestamps and input validation.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.normalizer.WithClock(now)
	return s
}

// ModelVersion returns the usage model version.
func (s *Service) ModelVersion() string {
	return s.predictor.ModelVersion()
}

// Catalog returns the evaluated retrofit measures.
func (s *Service) Catalog() []recommender.Measure {
	return s.engine.Catalog()
}

// Tables returns the reference tables in use.
func (s *Service) Tables() *reference.Tables {
	return s.tables
}

// Run audits one home. Invalid input returns a *models.ValidationError.
func (s *Service) Run(ctx context.Context, input models.HomeProfileInput) (*models.AuditReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	startTime := time.Now()
	auditID := s.newID()
	logger := utils.ForAudit(auditID)

	// Stage 1: normalize
	profile, features, err := s.normalizer.Normalize(input)
	if err != nil {
		s.metrics.AuditFailed("invalid_input")
		logger.Info("Audit input rejected", zap.Error(err))
		return nil, err
	}

	key, keyErr := cache.Key(profile, s.predictor.ModelVersion())
	if keyErr == nil {
		if cached, ok, err := s.cache.Get(ctx, key); err != nil {
			logger.Warn("Report cache read failed", zap.Error(err))
		} else if ok {
			s.metrics.CacheHit()
			result := *cached
			result.AuditID = auditID
			result.GeneratedAt = s.now().UTC()
			logger.Info("Audit served from cache")
			s.deliver(ctx, logger, input.Email, &result)
			return &result, nil
		}
		s.metrics.CacheMiss()
	}

	// Stage 2: predict
	estimate, err := s.predictor.Predict(features)
	if err != nil {
		s.metrics.AuditFailed("prediction_error")
		return nil, fmt.Errorf("failed to predict usage: %w", err)
	}

	// Stage 3: calibrate
	var calibration *models.CalibrationInfo
	if profile.HasBill() {
		estimate, calibration, err = s.calibrator.Calibrate(estimate, profile.MonthlyBill, profile.Rates.BlendedPerKBTU)
		if err != nil {
			s.metrics.AuditFailed("calibration_error")
			return nil, fmt.Errorf("failed to calibrate usage: %w", err)
		}
	}

	logger.Debug("Usage estimated",
		zap.Float64("total_kbtu", estimate.TotalKBTU),
		zap.Bool("calibrated", estimate.Calibrated),
	)

	// Stage 4: recommend
	recs := s.engine.Recommend(profile, estimate)

	// Stage 5: assemble
	result := s.assembler.Assemble(report.Input{
		AuditID:         auditID,
		GeneratedAt:     s.now().UTC(),
		ModelVersion:    s.predictor.ModelVersion(),
		Profile:         profile,
		Usage:           estimate,
		Calibration:     calibration,
		Recommendations: recs.Candidates,
	})

	if keyErr == nil {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			logger.Warn("Report cache write failed", zap.Error(err))
		}
	}

	duration := time.Since(startTime)
	s.metrics.AuditCompleted(duration, len(result.Recommendations), calibration != nil)

	logger.Info("Audit complete",
		zap.Float64("score", result.Score.Score),
		zap.String("grade", result.Score.Grade),
		zap.Int("recommendations", len(result.Recommendations)),
		zap.Int("high_priority", result.CountByPriority(models.PriorityHigh)),
		zap.Duration("processing_time", duration),
	)

	s.deliver(ctx, logger, input.Email, result)
	return result, nil
}

// deliver emails the report when requested. Failures never fail the audit.
func (s *Service) deliver(ctx context.Context, logger *zap.Logger, to string, result *models.AuditReport) {
	if to == "" || s.mailer == nil {
		return
	}
	if err := s.mailer.SendAuditReport(ctx, to, result); err != nil {
		logger.Warn("Failed to email audit report", zap.String("to", to), zap.Error(err))
	}
}

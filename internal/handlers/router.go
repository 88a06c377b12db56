package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"home-energy-audit/internal/metrics"
	"home-energy-audit/internal/utils"
)

// RouterDeps are the handlers mounted by NewRouter. Uploads and Metrics are optional.
type RouterDeps struct {
	Audit          *AuditHandler
	Health         *HealthHandler
	Uploads        *UploadHandler
	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

// NewRouter builds the HTTP API.
func NewRouter(deps RouterDeps) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	m := deps.Metrics
	router.Method(http.MethodGet, "/health", m.WrapHandler("/health", deps.Health))

	router.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", m.WrapHandler("/api/health", deps.Health))
		r.Method(http.MethodPost, "/audit", m.WrapHandler("/api/audit", http.HandlerFunc(deps.Audit.RunAudit)))
		r.Method(http.MethodGet, "/measures", m.WrapHandler("/api/measures", http.HandlerFunc(deps.Audit.ListMeasures)))
		r.Method(http.MethodGet, "/rebates", m.WrapHandler("/api/rebates", http.HandlerFunc(deps.Audit.ListRebates)))
		if deps.Uploads != nil {
			r.Method(http.MethodPost, "/batch/upload-url", m.WrapHandler("/api/batch/upload-url", deps.Uploads))
		}
	})

	if m != nil {
		router.Method(http.MethodGet, "/metrics", m.Handler())
	}

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	return c.Handler(router)
}

// requestLogger logs one line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		utils.GetLogger().Debug("Request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

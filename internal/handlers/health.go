package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// Pinger checks connectivity of an optional backing store.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthInfo describes the running deployment.
type HealthInfo struct {
	Version         string
	Stage           string
	ModelVersion    string
	ReferenceSource string
	CacheBackend    string
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	info HealthInfo
	db   Pinger
	now  func() time.Time
}

// NewHealthHandler creates a health handler; db may be nil when no database is configured.
func NewHealthHandler(info HealthInfo, db Pinger) *HealthHandler {
	return &HealthHandler{info: info, db: db, now: time.Now}
}

// HealthResponse is the response structure for health checks.
type HealthResponse struct {
	Status          string `json:"status"`
	Timestamp       string `json:"timestamp"`
	Service         string `json:"service"`
	Version         string `json:"version"`
	Stage           string `json:"stage"`
	ModelVersion    string `json:"model_version"`
	ReferenceSource string `json:"reference_source"`
	Cache           string `json:"cache"`
	Database        string `json:"database,omitempty"`
}

// Check builds the health report and its status code.
func (h *HealthHandler) Check(ctx context.Context) (HealthResponse, int) {
	response := HealthResponse{
		Status:          "healthy",
		Timestamp:       h.now().UTC().Format(time.RFC3339),
		Service:         "home-energy-audit",
		Version:         h.info.Version,
		Stage:           h.info.Stage,
		ModelVersion:    h.info.ModelVersion,
		ReferenceSource: h.info.ReferenceSource,
		Cache:           h.info.CacheBackend,
	}

	// Check database connectivity
	if h.db != nil {
		if err := h.db.HealthCheck(ctx); err != nil {
			response.Database = "disconnected"
			response.Status = "degraded"
		} else {
			response.Database = "connected"
		}
	} else {
		response.Database = "not configured"
	}

	statusCode := http.StatusOK
	if response.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	return response, statusCode
}

// ServeHTTP serves GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response, status := h.Check(r.Context())
	writeJSON(w, status, Response{Success: status == http.StatusOK, Data: response})
}

// Handle processes API Gateway health check requests.
func (h *HealthHandler) Handle(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	response, status := h.Check(ctx)
	return gatewayResponse(status, Response{Success: status == http.StatusOK, Data: response}), nil
}

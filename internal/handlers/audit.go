package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"home-energy-audit/internal/models"
	"home-energy-audit/internal/services/audit"
	"home-energy-audit/internal/services/recommender"
	"home-energy-audit/internal/utils"
)

// MaxRequestBytes caps the size of an audit request body.
const MaxRequestBytes = 1 << 20

// AuditHandler serves audits and the read-only catalog endpoints.
type AuditHandler struct {
	service *audit.Service
	timeout time.Duration
}

// NewAuditHandler creates an audit handler. A zero timeout disables the per-request deadline.
func NewAuditHandler(service *audit.Service, timeout time.Duration) *AuditHandler {
	return &AuditHandler{service: service, timeout: timeout}
}

// MeasureInfo describes one catalog measure.
type MeasureInfo struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	Category      models.MeasureCategory `json:"category"`
	LifespanYears int                    `json:"lifespan_years"`
	PriorityCap   models.Priority        `json:"priority_cap,omitempty"`
}

// decodeInput parses a JSON home profile. Malformed JSON is a validation error.
func decodeInput(body []byte) (models.HomeProfileInput, error) {
	var input models.HomeProfileInput
	if err := json.Unmarshal(body, &input); err != nil {
		return input, models.NewValidationError("request body", "", err)
	}
	return input, nil
}

func (h *AuditHandler) run(ctx context.Context, input models.HomeProfileInput) (*models.AuditReport, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	return h.service.Run(ctx, input)
}

// RunAudit serves POST /api/audit.
func (h *AuditHandler) RunAudit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBytes))
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			err = fmt.Errorf("%w: limit is %d bytes", ErrRequestTooLarge, maxBytes.Limit)
		} else {
			err = models.NewValidationError("request body", "", err)
		}
		writeError(w, err)
		return
	}

	input, err := decodeInput(body)
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := h.run(r.Context(), input)
	if err != nil {
		if !models.IsValidationError(err) {
			utils.GetLogger().Error("Audit request failed", zap.Error(err))
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Audit complete", Data: report})
}

// ListMeasures serves GET /api/measures.
func (h *AuditHandler) ListMeasures(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: Measures(h.service.Catalog())})
}

// ListRebates serves GET /api/rebates, optionally filtered by category, region and income.
func (h *AuditHandler) ListRebates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rebates := h.service.Tables().Rebates

	category := q.Get("category")
	region := q.Get("region")
	income := q.Get("income")

	if category != "" || region != "" || income != "" {
		var filtered []models.RebateEntry
		for _, rebate := range rebates {
			if category != "" && string(rebate.MeasureCategory) != category {
				continue
			}
			if region != "" && len(rebate.Regions) > 0 && !containsString(rebate.Regions, region) {
				continue
			}
			if income != "" && len(rebate.IncomeBrackets) > 0 && !containsString(rebate.IncomeBrackets, income) {
				continue
			}
			filtered = append(filtered, rebate)
		}
		rebates = filtered
	}

	if rebates == nil {
		rebates = []models.RebateEntry{}
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: rebates})
}

// Handle processes API Gateway audit requests.
func (h *AuditHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	// Handle CORS preflight
	if request.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Headers: corsHeaders}, nil
	}

	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			return gatewayError(models.NewValidationError("request body", "", err)), nil
		}
		body = decoded
	}
	if len(body) > MaxRequestBytes {
		return gatewayError(fmt.Errorf("%w: limit is %d bytes", ErrRequestTooLarge, MaxRequestBytes)), nil
	}

	input, err := decodeInput(body)
	if err != nil {
		return gatewayError(err), nil
	}

	report, err := h.run(ctx, input)
	if err != nil {
		if !models.IsValidationError(err) {
			utils.GetLogger().Error("Audit request failed",
				zap.String("requestId", request.RequestContext.RequestID),
				zap.Error(err))
		}
		return gatewayError(err), nil
	}

	return gatewayResponse(http.StatusOK, Response{Success: true, Message: "Audit complete", Data: report}), nil
}

// Measures converts catalog entries into their public description, sorted by id.
func Measures(catalog []recommender.Measure) []MeasureInfo {
	out := make([]MeasureInfo, 0, len(catalog))
	for _, m := range catalog {
		out = append(out, MeasureInfo{
			ID:            m.ID,
			Name:          m.Name,
			Description:   m.Description,
			Category:      m.Category,
			LifespanYears: recommender.Lifespans[m.LifespanKey],
			PriorityCap:   m.PriorityCap,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func containsString[T ~string](values []T, want string) bool {
	for _, v := range values {
		if string(v) == want {
			return true
		}
	}
	return false
}

// Package handlers exposes the audit service over HTTP (chi) and AWS Lambda.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"home-energy-audit/internal/models"
	"home-energy-audit/internal/utils"
)

// ErrRequestTooLarge is returned when a request body exceeds MaxRequestBytes.
var ErrRequestTooLarge = errors.New("request body too large")

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// corsHeaders are attached to every API Gateway response.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,Authorization",
	"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
	"Content-Type":                 "application/json",
}

// writeJSON writes a Response envelope with the given status.
func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		utils.GetLogger().Warn("Failed to write response", zap.Error(err))
	}
}

// writeError maps err onto a status code and writes the error envelope.
func writeError(w http.ResponseWriter, err error) {
	status, message := errorStatus(err)
	writeJSON(w, status, Response{Success: false, Message: message, Error: err.Error()})
}

// errorStatus classifies pipeline errors for the HTTP edge.
func errorStatus(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, ErrRequestTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, "Request body too large"
	case models.IsValidationError(err):
		return http.StatusBadRequest, "Invalid home profile"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Audit timed out"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "Request cancelled"
	case errors.Is(err, models.ErrModelUnavailable):
		return http.StatusServiceUnavailable, "Usage model unavailable"
	default:
		return http.StatusInternalServerError, "Audit failed"
	}
}

// gatewayResponse builds an API Gateway proxy response with CORS headers.
func gatewayResponse(status int, resp Response) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(resp)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders,
		Body:       string(body),
	}
}

// gatewayError maps err like writeError does.
func gatewayError(err error) events.APIGatewayProxyResponse {
	status, message := errorStatus(err)
	return gatewayResponse(status, Response{Success: false, Message: message, Error: err.Error()})
}

package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"home-energy-audit/internal/models"
	s3service "home-energy-audit/internal/services/s3"
	"home-energy-audit/internal/utils"
)

// MaxReportedErrors limits the error list returned from a batch.
const MaxReportedErrors = 10

// Auditor runs a single audit.
type Auditor interface {
	Run(ctx context.Context, input models.HomeProfileInput) (*models.AuditReport, error)
}

// BatchStore is the object storage used by the batch workflow.
type BatchStore interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	UploadFile(ctx context.Context, key string, data []byte, contentType string) error
	MoveFile(ctx context.Context, sourceKey, destKey string) error
}

// BatchLine is one line of a batch report file.
type BatchLine struct {
	Line   int                 `json:"line"`
	HomeID string              `json:"home_id"`
	Report *models.AuditReport `json:"report,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// BatchSummary counts the outcome of a batch run.
type BatchSummary struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// CSVProcessResult is the result of processing a CSV file.
type CSVProcessResult struct {
	Message   string       `json:"message"`
	BatchID   string       `json:"batch_id"`
	ReportKey string       `json:"report_key,omitempty"`
	Summary   BatchSummary `json:"summary"`
}

// RunBatch audits every parsed row in order. Row failures are recorded on
// the line and never stop the batch; a cancelled context does.
func RunBatch(ctx context.Context, auditor Auditor, rows []utils.ProfileRow, parseErrors []error) ([]BatchLine, BatchSummary) {
	lines := make([]BatchLine, 0, len(rows))
	summary := BatchSummary{Total: len(rows) + len(parseErrors)}

	for _, e := range parseErrors {
		summary.Failed++
		summary.Errors = append(summary.Errors, e.Error())
	}

	for _, row := range rows {
		if ctx.Err() != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", row.Line, ctx.Err()))
			continue
		}

		line := BatchLine{Line: row.Line, HomeID: row.HomeID}
		report, err := auditor.Run(ctx, row.Input)
		if err != nil {
			line.Error = err.Error()
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", row.Line, err))
		} else {
			line.Report = report
			summary.Succeeded++
		}
		lines = append(lines, line)
	}

	if len(summary.Errors) > MaxReportedErrors {
		summary.Errors = summary.Errors[:MaxReportedErrors]
	}
	return lines, summary
}

// EncodeLines writes batch lines as JSON lines.
func EncodeLines(lines []BatchLine) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range lines {
		if err := enc.Encode(&lines[i]); err != nil {
			return nil, fmt.Errorf("failed to encode line %d: %w", lines[i].Line, err)
		}
	}
	return buf.Bytes(), nil
}

// CSVProcessorHandler handles S3 events for uploaded home profile CSVs.
type CSVProcessorHandler struct {
	auditor Auditor
	store   BatchStore
	now     func() time.Time
}

// NewCSVProcessorHandler creates a new CSV processor handler.
func NewCSVProcessorHandler(auditor Auditor, store BatchStore) *CSVProcessorHandler {
	return &CSVProcessorHandler{auditor: auditor, store: store, now: time.Now}
}

// Handle processes S3 events for uploaded CSV files. Each record produces a
// JSON-lines report under reports/ and the input is archived under processed/.
func (h *CSVProcessorHandler) Handle(ctx context.Context, s3Event events.S3Event) ([]CSVProcessResult, error) {
	logger := utils.GetLogger()

	if len(s3Event.Records) == 0 {
		return []CSVProcessResult{{Message: "No records to process"}}, nil
	}

	results := make([]CSVProcessResult, 0, len(s3Event.Records))
	for _, record := range s3Event.Records {
		bucket := record.S3.Bucket.Name
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return results, fmt.Errorf("failed to decode S3 key: %w", err)
		}

		if !strings.HasSuffix(strings.ToLower(key), ".csv") {
			logger.Info("Skipping non-CSV object", zap.String("key", key))
			continue
		}

		result, err := h.process(ctx, bucket, key)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (h *CSVProcessorHandler) process(ctx context.Context, bucket, key string) (CSVProcessResult, error) {
	logger := utils.GetLogger()
	logger.Info("Processing CSV file",
		zap.String("bucket", bucket),
		zap.String("key", key))

	// Download CSV from S3
	content, err := h.store.GetObject(ctx, bucket, key)
	if err != nil {
		logger.Error("Failed to download CSV", zap.Error(err))
		return CSVProcessResult{}, fmt.Errorf("failed to download CSV: %w", err)
	}

	batchID := generateBatchID(key, h.now())

	parser := utils.NewCSVParser()
	rows, parseErrors := parser.ParseProfiles(string(content))

	if len(rows) == 0 {
		_, summary := RunBatch(ctx, h.auditor, nil, parseErrors)
		return CSVProcessResult{
			Message: "No valid home profiles found in CSV",
			BatchID: batchID,
			Summary: summary,
		}, nil
	}

	logger.Info("Parsed CSV",
		zap.String("batchID", batchID),
		zap.Int("rows", len(rows)),
		zap.Int("parseErrors", len(parseErrors)))

	lines, summary := RunBatch(ctx, h.auditor, rows, parseErrors)

	data, err := EncodeLines(lines)
	if err != nil {
		return CSVProcessResult{}, err
	}

	reportKey := ReportKey(key, batchID)
	if err := h.store.UploadFile(ctx, reportKey, data, "application/x-ndjson"); err != nil {
		return CSVProcessResult{}, fmt.Errorf("failed to upload batch report: %w", err)
	}

	// Archive processed file
	if err := h.store.MoveFile(ctx, key, ArchiveKey(key)); err != nil {
		logger.Warn("Failed to archive file", zap.Error(err))
	}

	logger.Info("Batch audit complete",
		zap.String("batchID", batchID),
		zap.String("reportKey", reportKey),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed))

	return CSVProcessResult{
		Message:   "CSV processed successfully",
		BatchID:   batchID,
		ReportKey: reportKey,
		Summary:   summary,
	}, nil
}

// ReportKey is where the JSON-lines report for an uploaded CSV is written.
func ReportKey(key, batchID string) string {
	base := strings.TrimSuffix(path.Base(key), path.Ext(key))
	return s3service.ReportsPrefix + base + "_" + batchID + ".jsonl"
}

// ArchiveKey is where a processed upload is moved.
func ArchiveKey(key string) string {
	return s3service.ProcessedPrefix + strings.TrimPrefix(key, s3service.UploadsPrefix)
}

// generateBatchID generates a unique batch ID for this upload.
func generateBatchID(key string, now time.Time) string {
	hash := sha256.Sum256([]byte(key + now.UTC().Format(time.RFC3339Nano)))
	return hex.EncodeToString(hash[:])[:16]
}

package handlers_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-energy-audit/internal/handlers"
	"home-energy-audit/internal/models"
	"home-energy-audit/internal/utils"
)

// fakeAuditor rejects homes over 10,000 sq ft and scores the rest by size.
type fakeAuditor struct {
	calls int
}

func (f *fakeAuditor) Run(ctx context.Context, input models.HomeProfileInput) (*models.AuditReport, error) {
	f.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input.SquareFeet > 10000 {
		return nil, models.NewValidationError("square_feet", input.SquareFeet, models.ErrInvalidSquareFeet)
	}
	return &models.AuditReport{AuditID: fmt.Sprintf("audit-%.0f", input.SquareFeet)}, nil
}

type uploadedObject struct {
	data        []byte
	contentType string
}

type fakeBatchStore struct {
	objects  map[string][]byte
	uploaded map[string]uploadedObject
	moved    map[string]string
	getErr   error
	moveErr  error
}

func newFakeBatchStore() *fakeBatchStore {
	return &fakeBatchStore{
		objects:  map[string][]byte{},
		uploaded: map[string]uploadedObject{},
		moved:    map[string]string{},
	}
}

func (f *fakeBatchStore) GetObject(_ context.Context, bucket, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return data, nil
}

func (f *fakeBatchStore) UploadFile(_ context.Context, key string, data []byte, contentType string) error {
	f.uploaded[key] = uploadedObject{data: data, contentType: contentType}
	return nil
}

func (f *fakeBatchStore) MoveFile(_ context.Context, sourceKey, destKey string) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	f.moved[sourceKey] = destKey
	return nil
}

func s3Event(bucket string, keys ...string) events.S3Event {
	var event events.S3Event
	for _, key := range keys {
		var record events.S3EventRecord
		record.S3.Bucket.Name = bucket
		record.S3.Object.Key = key
		event.Records = append(event.Records, record)
	}
	return event
}

func readLines(t *testing.T, data []byte) []handlers.BatchLine {
	t.Helper()
	var lines []handlers.BatchLine
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		var line handlers.BatchLine
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())
	return lines
}

const batchCSV = `home_id,square_feet,zip_code
H001,2000,02139
H002,abc,02139
H003,20000,60601
H004,1500,94110
`

func TestCSVProcessor_Handle(t *testing.T) {
	store := newFakeBatchStore()
	store.objects["audits/uploads/2026/03/01/abc_homes.csv"] = []byte(batchCSV)
	auditor := &fakeAuditor{}
	h := handlers.NewCSVProcessorHandler(auditor, store)

	results, err := h.Handle(context.Background(), s3Event("audits", "uploads/2026/03/01/abc_homes.csv"))
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, "CSV processed successfully", result.Message)
	assert.Len(t, result.BatchID, 16)
	assert.Equal(t, "reports/abc_homes_"+result.BatchID+".jsonl", result.ReportKey)

	assert.Equal(t, 4, result.Summary.Total)
	assert.Equal(t, 2, result.Summary.Succeeded)
	assert.Equal(t, 2, result.Summary.Failed)
	require.Len(t, result.Summary.Errors, 2)
	assert.Contains(t, result.Summary.Errors[0], "line 3")
	assert.Contains(t, result.Summary.Errors[1], "line 4")

	uploaded, ok := store.uploaded[result.ReportKey]
	require.True(t, ok)
	assert.Equal(t, "application/x-ndjson", uploaded.contentType)

	lines := readLines(t, uploaded.data)
	require.Len(t, lines, 3, "one line per parsed row")
	assert.Equal(t, "H001", lines[0].HomeID)
	assert.Equal(t, "audit-2000", lines[0].Report.AuditID)
	assert.Equal(t, "H003", lines[1].HomeID)
	assert.Nil(t, lines[1].Report)
	assert.Contains(t, lines[1].Error, "square_feet")
	assert.Equal(t, 5, lines[2].Line)

	assert.Equal(t, "processed/2026/03/01/abc_homes.csv", store.moved["uploads/2026/03/01/abc_homes.csv"])
}

func TestCSVProcessor_DecodesKeys(t *testing.T) {
	store := newFakeBatchStore()
	store.objects["audits/uploads/march homes.csv"] = []byte("square_feet,zip_code\n1500,60601\n")
	h := handlers.NewCSVProcessorHandler(&fakeAuditor{}, store)

	results, err := h.Handle(context.Background(), s3Event("audits", "uploads/march+homes.csv"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Summary.Succeeded)
}

func TestCSVProcessor_SkipsNonCSV(t *testing.T) {
	store := newFakeBatchStore()
	auditor := &fakeAuditor{}
	h := handlers.NewCSVProcessorHandler(auditor, store)

	results, err := h.Handle(context.Background(), s3Event("audits", "uploads/readme.txt"))
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, auditor.calls)
}

func TestCSVProcessor_NoRecords(t *testing.T) {
	h := handlers.NewCSVProcessorHandler(&fakeAuditor{}, newFakeBatchStore())

	results, err := h.Handle(context.Background(), events.S3Event{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "No records to process", results[0].Message)
}

func TestCSVProcessor_NoValidRows(t *testing.T) {
	store := newFakeBatchStore()
	store.objects["audits/uploads/bad.csv"] = []byte("home_id,square_feet\nH1,2000\n")
	h := handlers.NewCSVProcessorHandler(&fakeAuditor{}, store)

	results, err := h.Handle(context.Background(), s3Event("audits", "uploads/bad.csv"))
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "No valid home profiles found in CSV", results[0].Message)
	assert.Empty(t, results[0].ReportKey)
	assert.Equal(t, 1, results[0].Summary.Failed)
	assert.Empty(t, store.uploaded)
	assert.Empty(t, store.moved, "rejected files stay in uploads/")
}

func TestCSVProcessor_DownloadFailure(t *testing.T) {
	store := newFakeBatchStore()
	store.getErr = errors.New("access denied")
	h := handlers.NewCSVProcessorHandler(&fakeAuditor{}, store)

	_, err := h.Handle(context.Background(), s3Event("audits", "uploads/homes.csv"))
	assert.ErrorContains(t, err, "failed to download CSV")
}

func TestCSVProcessor_ArchiveFailureIsNotFatal(t *testing.T) {
	store := newFakeBatchStore()
	store.objects["audits/uploads/homes.csv"] = []byte("square_feet,zip_code\n1500,60601\n")
	store.moveErr = errors.New("access denied")
	h := handlers.NewCSVProcessorHandler(&fakeAuditor{}, store)

	results, err := h.Handle(context.Background(), s3Event("audits", "uploads/homes.csv"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "CSV processed successfully", results[0].Message)
	assert.Len(t, store.uploaded, 1)
}

func TestRunBatch_TruncatesErrors(t *testing.T) {
	var b strings.Builder
	b.WriteString("square_feet,zip_code\n")
	for i := 0; i < 15; i++ {
		b.WriteString("20000,02139\n")
	}
	rows, parseErrors := utils.NewCSVParser().ParseProfiles(b.String())
	require.Empty(t, parseErrors)

	lines, summary := handlers.RunBatch(context.Background(), &fakeAuditor{}, rows, parseErrors)

	assert.Len(t, lines, 15)
	assert.Equal(t, 15, summary.Failed)
	assert.Len(t, summary.Errors, handlers.MaxReportedErrors)
}

func TestRunBatch_CancelledContextSkipsRemainingRows(t *testing.T) {
	rows, _ := utils.NewCSVParser().ParseProfiles("square_feet,zip_code\n1500,60601\n1600,60601\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	auditor := &fakeAuditor{}

	lines, summary := handlers.RunBatch(ctx, auditor, rows, nil)

	assert.Empty(t, lines)
	assert.Zero(t, auditor.calls)
	assert.Equal(t, 2, summary.Failed)
	assert.Contains(t, summary.Errors[0], "context canceled")
}

func TestReportAndArchiveKeys(t *testing.T) {
	assert.Equal(t, "reports/homes_0123456789abcdef.jsonl", handlers.ReportKey("uploads/2026/03/01/homes.csv", "0123456789abcdef"))
	assert.Equal(t, "processed/2026/03/01/homes.csv", handlers.ArchiveKey("uploads/2026/03/01/homes.csv"))
	assert.Equal(t, "processed/inbox/homes.csv", handlers.ArchiveKey("inbox/homes.csv"))
}

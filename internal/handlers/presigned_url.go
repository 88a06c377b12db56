package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	s3service "home-energy-audit/internal/services/s3"
	"home-energy-audit/internal/utils"
)

// UploadURLExpiry is how long a batch upload URL stays valid.
const UploadURLExpiry = time.Hour

// URLSigner issues presigned upload URLs.
type URLSigner interface {
	GeneratePresignedUploadURL(ctx context.Context, key, contentType string, expiry time.Duration) (*s3service.PresignedURLResult, error)
}

// UploadHandler hands out presigned URLs for batch CSV uploads.
type UploadHandler struct {
	signer URLSigner
	now    func() time.Time
}

// NewUploadHandler creates an upload URL handler.
func NewUploadHandler(signer URLSigner) *UploadHandler {
	return &UploadHandler{signer: signer, now: time.Now}
}

// PresignedURLRequest is the optional body of an upload URL request.
type PresignedURLRequest struct {
	Filename string `json:"filename"`
}

// PresignedURLResponse is the response structure for presigned URL requests.
type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	S3Key     string `json:"s3Key"`
	ExpiresIn int    `json:"expiresIn"`
}

// ServeHTTP serves POST /api/batch/upload-url. The filename may come from the
// JSON body or the filename query parameter.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" && r.Body != nil {
		var req PresignedURLRequest
		body, _ := io.ReadAll(http.MaxBytesReader(w, r.Body, 4096))
		if len(body) > 0 && json.Unmarshal(body, &req) == nil {
			filename = req.Filename
		}
	}
	if filename == "" {
		filename = "upload_" + uuid.New().String()[:8] + ".csv"
	}

	// Validate filename
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Only CSV files are allowed"})
		return
	}

	key := UploadKey(h.now(), uuid.New().String(), filename)

	result, err := h.signer.GeneratePresignedUploadURL(r.Context(), key, "text/csv", UploadURLExpiry)
	if err != nil {
		utils.GetLogger().Error("Failed to generate presigned URL", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to generate upload URL"})
		return
	}

	utils.GetLogger().Info("Generated presigned URL", zap.String("s3Key", key))

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data: PresignedURLResponse{
			UploadURL: result.URL,
			S3Key:     key,
			ExpiresIn: int(UploadURLExpiry.Seconds()),
		},
	})
}

// UploadKey builds uploads/YYYY/MM/DD/<id>_<sanitized name>.
func UploadKey(now time.Time, id, filename string) string {
	return s3service.UploadsPrefix + now.UTC().Format("2006/01/02") + "/" + id + "_" + sanitizeFilename(filename)
}

// sanitizeFilename removes unsafe characters from filename.
func sanitizeFilename(filename string) string {
	var b strings.Builder
	for _, r := range filename {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	safe := b.String()
	if len(safe) > 100 {
		safe = safe[len(safe)-100:]
	}
	return safe
}

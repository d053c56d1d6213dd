package httpadapter

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/document-pipeline/internal/config"
	"github.com/kirillkom/document-pipeline/internal/core/classify"
	"github.com/kirillkom/document-pipeline/internal/core/domain"
	"github.com/kirillkom/document-pipeline/internal/core/ports"
	"github.com/kirillkom/document-pipeline/internal/observability/metrics"
)

const serviceName = "document-pipeline"

var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
	"image/tiff":      {},
	"image/bmp":       {},
}

type Router struct {
	cfg      config.Config
	pipeline ports.DocumentPipeline
	query    ports.DocumentReader
	metrics  *metrics.Metrics
}

func NewRouter(
	cfg config.Config,
	pipeline ports.DocumentPipeline,
	query ports.DocumentReader,
	m *metrics.Metrics,
) *Router {
	return &Router{
		cfg:      cfg,
		pipeline: pipeline,
		query:    query,
		metrics:  m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", rt.health)
	mux.HandleFunc("POST /api/documents/upload", rt.uploadDocument)
	mux.HandleFunc("GET /api/documents", rt.listDocuments)
	// One subtree handler dispatches /{id}/status and /status/{status}; the
	// two patterns overlap on a path like /status/status, which ServeMux
	// refuses to register.
	mux.HandleFunc("GET /api/documents/", rt.documentSubtree)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type uploadResponse struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"documentId"`
	Message    string `json:"message"`
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'document' is required")
		return
	}
	defer file.Close()

	if header.Size > rt.cfg.MaxUploadBytes {
		writeError(w, http.StatusBadRequest, "file exceeds upload size limit")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable upload")
		return
	}

	if !contentTypeAllowed(header.Header.Get("Content-Type"), content) {
		writeError(w, http.StatusBadRequest, "Invalid file type. Only PDF and image files are allowed.")
		return
	}

	start := time.Now()
	category := classify.Detect(header.Filename)
	rt.observeStart()

	result := rt.pipeline.ProcessDocument(r.Context(), content, header.Filename, header.Size)

	rt.observeFinish(category, result.FinalStatus, time.Since(start))

	response := uploadResponse{
		Success:    result.Success,
		DocumentID: result.DocumentID,
	}
	if result.Success {
		response.Message = "Document uploaded and processed successfully"
		writeJSON(w, http.StatusOK, response)
		return
	}
	response.Message = "Processing failed: " + result.Error
	writeJSON(w, http.StatusBadRequest, response)
}

type statusResponse struct {
	DocumentID   string                   `json:"documentId"`
	Status       domain.DocumentStatus    `json:"status"`
	Metadata     *domain.DocumentMetadata `json:"metadata,omitempty"`
	ErrorMessage string                   `json:"errorMessage,omitempty"`
}

func (rt *Router) documentSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 2 && parts[0] == "status":
		rt.listByStatus(w, r, parts[1])
	case len(parts) == 2 && parts[1] == "status":
		rt.documentStatus(w, r, parts[0])
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (rt *Router) documentStatus(w http.ResponseWriter, r *http.Request, id string) {
	record, err := rt.query.GetStatus(r.Context(), id)
	if err != nil {
		if domain.IsKind(err, domain.ErrDocumentNotFound) {
			writeError(w, http.StatusNotFound, "Document not found")
			return
		}
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	metadata := record.Metadata
	writeJSON(w, http.StatusOK, statusResponse{
		DocumentID:   record.ID,
		Status:       record.Status,
		Metadata:     &metadata,
		ErrorMessage: record.ErrorMessage,
	})
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	records, err := rt.query.ListAll(r.Context())
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"documents": records,
		"count":     len(records),
	})
}

func (rt *Router) listByStatus(w http.ResponseWriter, r *http.Request, raw string) {
	status, ok := domain.ParseStatus(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	records, err := rt.query.ListByStatus(r.Context(), status)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"documents": records,
		"count":     len(records),
		"status":    status,
	})
}

func (rt *Router) observeStart() {
	if rt.metrics != nil {
		rt.metrics.StartDocument()
	}
}

func (rt *Router) observeFinish(category domain.DocumentType, status domain.DocumentStatus, duration time.Duration) {
	if rt.metrics != nil {
		rt.metrics.FinishDocument(serviceName, category, status, duration)
	}
}

func contentTypeAllowed(declared string, content []byte) bool {
	contentType := declared
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	contentType = strings.TrimSpace(strings.ToLower(contentType))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(content)
		if idx := strings.Index(contentType, ";"); idx >= 0 {
			contentType = contentType[:idx]
		}
	}
	_, ok := allowedContentTypes[contentType]
	return ok
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

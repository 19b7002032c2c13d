package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/espengetz/brandprotocol/internal/domain"
	"github.com/espengetz/brandprotocol/internal/service"
	"github.com/espengetz/brandprotocol/pkg/httputil"
	"github.com/espengetz/brandprotocol/pkg/validator"
)

// SourceHandler handles HTTP requests for source ingestion endpoints.
type SourceHandler struct {
	service *service.SourceService
	logger  *slog.Logger
}

// NewSourceHandler creates a new source HTTP handler.
func NewSourceHandler(svc *service.SourceService, logger *slog.Logger) *SourceHandler {
	return &SourceHandler{service: svc, logger: logger}
}

// IngestURLRequest is the JSON body for URL ingestion.
type IngestURLRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// IngestURL handles POST /api/v1/brands/{id}/sources/url.
func (h *SourceHandler) IngestURL(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "id")
	if _, ok := httputil.ParseUUID(w, brandID); !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req IngestURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.IngestURL(r.Context(), brandID, req.URL)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}

// IngestDocument handles POST /api/v1/brands/{id}/sources/document
// (multipart/form-data with a "file" part).
func (h *SourceHandler) IngestDocument(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "id")
	if _, ok := httputil.ParseUUID(w, brandID); !ok {
		return
	}

	maxSize := domain.MaxDocumentSize + (1 << 20) // form field overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(domain.MaxDocumentSize); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "failed to parse multipart form: " + err.Error()},
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "file is required: " + err.Error()},
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, domain.MaxDocumentSize+1))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "failed to read file: " + err.Error()},
		})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := h.service.IngestDocument(r.Context(), brandID, &service.DocumentInput{
		FileName:    header.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}

// ListSources handles GET /api/v1/brands/{id}/sources.
func (h *SourceHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "id")
	if _, ok := httputil.ParseUUID(w, brandID); !ok {
		return
	}

	sources, err := h.service.ListSources(r.Context(), brandID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sources})
}

// DeleteSource handles DELETE /api/v1/brands/{id}/sources/{sourceID}.
func (h *SourceHandler) DeleteSource(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "id")
	if _, ok := httputil.ParseUUID(w, brandID); !ok {
		return
	}
	sourceID := chi.URLParam(r, "sourceID")
	if _, ok := httputil.ParseUUID(w, sourceID); !ok {
		return
	}

	if err := h.service.DeleteSource(r.Context(), brandID, sourceID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": sourceID, "status": "deleted"}})
}

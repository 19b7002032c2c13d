package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/espengetz/brandprotocol/internal/service"
	"github.com/espengetz/brandprotocol/pkg/httputil"
)

// KnowledgeHandler serves the merged brand knowledge.
type KnowledgeHandler struct {
	service *service.KnowledgeService
	logger  *slog.Logger
}

// NewKnowledgeHandler creates a new knowledge HTTP handler.
func NewKnowledgeHandler(svc *service.KnowledgeService, logger *slog.Logger) *KnowledgeHandler {
	return &KnowledgeHandler{service: svc, logger: logger}
}

// GetKnowledge handles GET /api/v1/brands/{id}/knowledge.
func (h *KnowledgeHandler) GetKnowledge(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "id")
	if _, ok := httputil.ParseUUID(w, brandID); !ok {
		return
	}

	knowledge, err := h.service.GetKnowledge(r.Context(), brandID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: knowledge})
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/espengetz/brandprotocol/internal/service"
	"github.com/espengetz/brandprotocol/pkg/httputil"
)

// AssetHandler serves stored asset metadata.
type AssetHandler struct {
	service *service.AssetService
	logger  *slog.Logger
}

// NewAssetHandler creates a new asset HTTP handler.
func NewAssetHandler(svc *service.AssetService, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{service: svc, logger: logger}
}

// ListBrandAssets handles GET /api/v1/brands/{id}/assets.
func (h *AssetHandler) ListBrandAssets(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "id")
	if _, ok := httputil.ParseUUID(w, brandID); !ok {
		return
	}

	grouped, err := h.service.ListAssets(r.Context(), brandID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: grouped})
}

// GetAsset handles GET /api/v1/assets/{id}.
func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := httputil.ParseUUID(w, id); !ok {
		return
	}

	asset, err := h.service.GetAsset(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: asset})
}

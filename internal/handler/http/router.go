package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/espengetz/brandprotocol/internal/mcp"
	"github.com/espengetz/brandprotocol/internal/service"
	"github.com/espengetz/brandprotocol/pkg/health"
	"github.com/espengetz/brandprotocol/pkg/middleware"
)

// Services groups the service dependencies of the router.
type Services struct {
	Brands    *service.BrandService
	Sources   *service.SourceService
	Knowledge *service.KnowledgeService
	Assets    *service.AssetService
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(
	services *Services,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing("brandprotocol"))
	r.Use(middleware.PrometheusMetrics("brandprotocol"))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	brandHandler := NewBrandHandler(services.Brands, logger)
	sourceHandler := NewSourceHandler(services.Sources, logger)
	knowledgeHandler := NewKnowledgeHandler(services.Knowledge, logger)
	assetHandler := NewAssetHandler(services.Assets, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/brands", func(r chi.Router) {
			r.Post("/", brandHandler.CreateBrand)
			r.Get("/", brandHandler.ListBrands)
			r.Get("/{id}", brandHandler.GetBrand)
			r.Put("/{id}", brandHandler.UpdateBrand)
			r.Delete("/{id}", brandHandler.DeleteBrand)

			r.Post("/{id}/sources/url", sourceHandler.IngestURL)
			r.Post("/{id}/sources/document", sourceHandler.IngestDocument)
			r.Get("/{id}/sources", sourceHandler.ListSources)
			r.Delete("/{id}/sources/{sourceID}", sourceHandler.DeleteSource)

			r.Get("/{id}/knowledge", knowledgeHandler.GetKnowledge)
			r.Get("/{id}/assets", assetHandler.ListBrandAssets)
		})

		r.Get("/assets/{id}", assetHandler.GetAsset)
	})

	// MCP endpoint; the protocol uses POST for requests and GET/DELETE for
	// session management, so all methods are routed.
	mcpHandler := mcp.NewHandler(services.Knowledge, logger)
	r.Handle("/mcp/{brandId}", mcpHandler)

	return r
}

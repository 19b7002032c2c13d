package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/espengetz/brandprotocol/internal/assets"
	"github.com/espengetz/brandprotocol/internal/domain"
	"github.com/espengetz/brandprotocol/internal/event"
	"github.com/espengetz/brandprotocol/internal/repository"
	"github.com/espengetz/brandprotocol/internal/storage"
)

const (
	// MaxAssetsPerBatch caps how many candidates one ingestion downloads.
	MaxAssetsPerBatch = 20

	// assetDownloadTimeout bounds a single asset download.
	assetDownloadTimeout = 30 * time.Second

	// maxAssetSize caps a single downloaded asset (20 MB).
	maxAssetSize int64 = 20 * 1024 * 1024
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Downloader fetches asset bytes over HTTP. Satisfied by the retrying client
// and its circuit-breaker wrapper.
type Downloader interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// AssetPipeline downloads discovered asset candidates, classifies them, and
// persists both the bytes and their metadata. Individual failures are skipped
// so one broken link never sinks an ingestion.
type AssetPipeline struct {
	assets     repository.AssetRepository
	storage    storage.Storage
	downloader Downloader
	publisher  event.Publisher
	logger     *slog.Logger
}

// NewAssetPipeline creates an asset pipeline.
func NewAssetPipeline(
	assetRepo repository.AssetRepository,
	store storage.Storage,
	downloader Downloader,
	publisher event.Publisher,
	logger *slog.Logger,
) *AssetPipeline {
	return &AssetPipeline{
		assets:     assetRepo,
		storage:    store,
		downloader: downloader,
		publisher:  publisher,
		logger:     logger,
	}
}

// BatchResult reports how many candidates a batch attempted versus how many
// ended up stored.
type BatchResult struct {
	Processed int `json:"processed"`
	Stored    int `json:"stored"`
}

// Process downloads and stores up to MaxAssetsPerBatch of the given
// candidates, attributing the stored assets to sourceID.
func (p *AssetPipeline) Process(ctx context.Context, brandID, sourceID string, candidates []assets.Candidate) BatchResult {
	if len(candidates) > MaxAssetsPerBatch {
		candidates = candidates[:MaxAssetsPerBatch]
	}

	result := BatchResult{Processed: len(candidates)}
	for _, candidate := range candidates {
		if err := p.processOne(ctx, brandID, sourceID, candidate); err != nil {
			p.logger.WarnContext(ctx, "asset skipped",
				slog.String("brand_id", brandID),
				slog.String("url", candidate.URL),
				slog.String("error", err.Error()),
			)
			continue
		}
		result.Stored++
	}

	p.logger.InfoContext(ctx, "asset batch complete",
		slog.String("brand_id", brandID),
		slog.Int("processed", result.Processed),
		slog.Int("stored", result.Stored),
	)

	return result
}

func (p *AssetPipeline) processOne(ctx context.Context, brandID, sourceID string, candidate assets.Candidate) error {
	dlCtx, cancel := context.WithTimeout(ctx, assetDownloadTimeout)
	defer cancel()

	resp, err := p.downloader.Get(dlCtx, candidate.URL)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > maxAssetSize {
		return fmt.Errorf("asset exceeds %d bytes", maxAssetSize)
	}
	if len(data) == 0 {
		return fmt.Errorf("empty response body")
	}

	assetType := assets.Classify(candidate.URL, candidate.Context)
	mime := mimetype.Detect(data)
	ext := strings.TrimPrefix(mime.Extension(), ".")
	if ext == "" {
		ext = extensionFromURL(candidate.URL)
	}

	id := uuid.New().String()
	name := assetName(candidate, id)
	key := fmt.Sprintf("%s/%ss/%s.%s", brandID, assetType, name, ext)

	uploaded, err := p.storage.Upload(ctx, &storage.UploadInput{
		Key:         key,
		ContentType: mime.String(),
		Size:        int64(len(data)),
		Data:        bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("upload to storage: %w", err)
	}

	asset := &domain.BrandAsset{
		ID:            id,
		BrandID:       brandID,
		SourceID:      sourceID,
		Type:          assetType,
		Name:          name,
		OriginalURL:   candidate.URL,
		StoragePath:   uploaded.Key,
		PublicURL:     uploaded.URL,
		MimeType:      mime.String(),
		FileExtension: ext,
		SizeBytes:     int64(len(data)),
		Score:         candidate.Score,
		CreatedAt:     time.Now().UTC(),
	}

	if err := p.assets.Create(ctx, asset); err != nil {
		if delErr := p.storage.Delete(ctx, uploaded.Key); delErr != nil {
			p.logger.ErrorContext(ctx, "failed to clean up storage after db error",
				slog.String("key", uploaded.Key),
				slog.String("error", delErr.Error()),
			)
		}
		return fmt.Errorf("create asset record: %w", err)
	}

	p.publisher.AssetStored(ctx, asset)

	return nil
}

// assetName derives a storage-safe name from the candidate's URL path,
// falling back to the asset ID when the path yields nothing usable.
func assetName(candidate assets.Candidate, fallback string) string {
	u, err := url.Parse(candidate.URL)
	if err != nil {
		return fallback
	}

	base := path.Base(u.Path)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	base = strings.Trim(unsafeNameChars.ReplaceAllString(base, "-"), "-")
	if base == "" || base == "/" {
		return fallback
	}
	if len(base) > 80 {
		base = base[:80]
	}
	return base
}

func extensionFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "bin"
	}
	ext := strings.TrimPrefix(path.Ext(u.Path), ".")
	if ext == "" {
		return "bin"
	}
	return strings.ToLower(ext)
}

// AssetService serves stored asset metadata.
type AssetService struct {
	assets repository.AssetRepository
	logger *slog.Logger
}

// NewAssetService creates an asset service.
func NewAssetService(assetRepo repository.AssetRepository, logger *slog.Logger) *AssetService {
	return &AssetService{assets: assetRepo, logger: logger}
}

// GetAsset retrieves one asset by ID.
func (s *AssetService) GetAsset(ctx context.Context, id string) (*domain.BrandAsset, error) {
	asset, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get asset by id: %w", err)
	}
	return asset, nil
}

// ListAssets returns a brand's assets grouped by type. Every valid type is
// present in the result, empty types as empty slices.
func (s *AssetService) ListAssets(ctx context.Context, brandID string) (map[string][]domain.BrandAsset, error) {
	all, err := s.assets.ListByBrand(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("list assets by brand: %w", err)
	}

	grouped := make(map[string][]domain.BrandAsset, len(domain.ValidAssetTypes()))
	for _, t := range domain.ValidAssetTypes() {
		grouped[t] = []domain.BrandAsset{}
	}
	for _, asset := range all {
		grouped[asset.Type] = append(grouped[asset.Type], asset)
	}
	return grouped, nil
}

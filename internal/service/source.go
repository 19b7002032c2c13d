package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/espengetz/brandprotocol/internal/assets"
	"github.com/espengetz/brandprotocol/internal/domain"
	"github.com/espengetz/brandprotocol/internal/event"
	"github.com/espengetz/brandprotocol/internal/extract"
	"github.com/espengetz/brandprotocol/internal/knowledge"
	"github.com/espengetz/brandprotocol/internal/repository"
	"github.com/espengetz/brandprotocol/internal/storage"
	"github.com/espengetz/brandprotocol/internal/webpage"
	apperrors "github.com/espengetz/brandprotocol/pkg/errors"
)

// PageFetcher retrieves web pages. Satisfied by webpage.Fetcher.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*webpage.Page, error)
}

// SourceService orchestrates ingestion: fetching or receiving content,
// extracting a knowledge fragment, harvesting assets, and recording the
// source.
type SourceService struct {
	brands    repository.BrandRepository
	sources   repository.SourceRepository
	assets    repository.AssetRepository
	storage   storage.Storage
	fetcher   PageFetcher
	converter *webpage.Converter
	extractor *extract.Extractor
	discover  assets.Discoverer
	pipeline  *AssetPipeline
	cache     *knowledge.Cache
	publisher event.Publisher
	logger    *slog.Logger
}

// NewSourceService creates a source service.
func NewSourceService(
	brands repository.BrandRepository,
	sources repository.SourceRepository,
	assetRepo repository.AssetRepository,
	store storage.Storage,
	fetcher PageFetcher,
	converter *webpage.Converter,
	extractor *extract.Extractor,
	discoverer assets.Discoverer,
	pipeline *AssetPipeline,
	cache *knowledge.Cache,
	publisher event.Publisher,
	logger *slog.Logger,
) *SourceService {
	return &SourceService{
		brands:    brands,
		sources:   sources,
		assets:    assetRepo,
		storage:   store,
		fetcher:   fetcher,
		converter: converter,
		extractor: extractor,
		discover:  discoverer,
		pipeline:  pipeline,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// IngestResult reports a completed ingestion.
type IngestResult struct {
	Source *domain.BrandSource `json:"source"`
	Assets BatchResult         `json:"assets"`
}

// IngestURL fetches a page, extracts a knowledge fragment from it, harvests
// asset candidates, and records everything as a new source. When the direct
// fetch is blocked or fails, the page content is retrieved through the
// model's web search instead; that path yields no asset candidates.
func (s *SourceService) IngestURL(ctx context.Context, brandID, rawURL string) (*IngestResult, error) {
	if _, err := s.brands.GetByID(ctx, brandID); err != nil {
		return nil, fmt.Errorf("get brand: %w", err)
	}
	if err := webpage.ValidateURL(rawURL); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	var (
		content    string
		sourceName string
		candidates []assets.Candidate
	)

	page, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		s.logger.WarnContext(ctx, "direct fetch failed, falling back to web search",
			slog.String("url", rawURL),
			slog.String("error", err.Error()),
		)
		content, err = s.extractor.RetrieveURLContent(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("retrieve url content: %w", err)
		}
		sourceName = rawURL
	} else {
		doc, convErr := s.converter.Convert(page.Body)
		if convErr != nil {
			return nil, fmt.Errorf("convert page: %w", convErr)
		}
		content = doc.Markdown
		sourceName = doc.Title
		if sourceName == "" {
			sourceName = rawURL
		}

		candidates = s.discover.Discover(string(page.Body), rawURL)
		if len(candidates) > assets.MaxCandidates {
			candidates = candidates[:assets.MaxCandidates]
		}
	}

	fragment, err := s.extractor.ExtractFromText(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("extract from page: %w", err)
	}
	s.extractor.RecoverColors(ctx, content, fragment)

	source := &domain.BrandSource{
		ID:        uuid.New().String(),
		BrandID:   brandID,
		Type:      domain.SourceTypeURL,
		Name:      sourceName,
		Content:   fragment,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sources.Create(ctx, source); err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}

	batch := s.pipeline.Process(ctx, brandID, source.ID, candidates)

	s.afterSourceChange(ctx, brandID)
	s.publisher.SourceCreated(ctx, source)

	s.logger.InfoContext(ctx, "url source ingested",
		slog.String("brand_id", brandID),
		slog.String("source_id", source.ID),
		slog.String("url", rawURL),
		slog.Int("assets_stored", batch.Stored),
	)

	return &IngestResult{Source: source, Assets: batch}, nil
}

// DocumentInput holds an uploaded document.
type DocumentInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// IngestDocument stores an uploaded document, extracts a knowledge fragment
// from it, and records it as a new source. PDFs go to the model as inline
// document bytes; text formats go as plain text.
func (s *SourceService) IngestDocument(ctx context.Context, brandID string, input *DocumentInput) (*IngestResult, error) {
	if _, err := s.brands.GetByID(ctx, brandID); err != nil {
		return nil, fmt.Errorf("get brand: %w", err)
	}
	if input.FileName == "" {
		return nil, apperrors.InvalidInput("file name is required")
	}
	if !domain.IsAllowedDocumentType(input.ContentType) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("content type %q is not allowed", input.ContentType))
	}
	if len(input.Data) == 0 {
		return nil, apperrors.InvalidInput("document is empty")
	}
	if int64(len(input.Data)) > domain.MaxDocumentSize {
		return nil, apperrors.InvalidInput(fmt.Sprintf("document exceeds maximum size of %d bytes", domain.MaxDocumentSize))
	}

	sourceID := uuid.New().String()

	isPDF := input.ContentType == "application/pdf"
	sourceType := domain.SourceTypeDocument
	if isPDF {
		sourceType = domain.SourceTypePDF
	}

	key := fmt.Sprintf("%s/documents/%s-%s", brandID, sourceID, sanitizeFileName(input.FileName))
	uploaded, err := s.storage.Upload(ctx, &storage.UploadInput{
		Key:         key,
		ContentType: input.ContentType,
		Size:        int64(len(input.Data)),
		Data:        bytes.NewReader(input.Data),
	})
	if err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	var fragment *domain.BrandKnowledge
	if isPDF {
		fragment, err = s.extractor.ExtractFromDocument(ctx, input.Data, input.ContentType)
	} else {
		text := string(input.Data)
		fragment, err = s.extractor.ExtractFromText(ctx, text)
		if err == nil {
			s.extractor.RecoverColors(ctx, text, fragment)
		}
	}
	if err != nil {
		if delErr := s.storage.Delete(ctx, uploaded.Key); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to clean up storage after extraction error",
				slog.String("key", uploaded.Key),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("extract from document: %w", err)
	}

	source := &domain.BrandSource{
		ID:        sourceID,
		BrandID:   brandID,
		Type:      sourceType,
		Name:      input.FileName,
		Content:   fragment,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sources.Create(ctx, source); err != nil {
		if delErr := s.storage.Delete(ctx, uploaded.Key); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to clean up storage after db error",
				slog.String("key", uploaded.Key),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("create source: %w", err)
	}

	// Record the stored document itself as an asset so it shows up in the
	// brand's asset listing.
	assetType := domain.AssetTypeOther
	if isPDF {
		assetType = domain.AssetTypePDF
	}
	asset := &domain.BrandAsset{
		ID:            uuid.New().String(),
		BrandID:       brandID,
		SourceID:      sourceID,
		Type:          assetType,
		Name:          input.FileName,
		StoragePath:   uploaded.Key,
		PublicURL:     uploaded.URL,
		MimeType:      input.ContentType,
		FileExtension: extensionFromURL(input.FileName),
		SizeBytes:     int64(len(input.Data)),
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		s.logger.WarnContext(ctx, "failed to record document asset",
			slog.String("source_id", sourceID),
			slog.String("error", err.Error()),
		)
	} else {
		s.publisher.AssetStored(ctx, asset)
	}

	s.afterSourceChange(ctx, brandID)
	s.publisher.SourceCreated(ctx, source)

	s.logger.InfoContext(ctx, "document source ingested",
		slog.String("brand_id", brandID),
		slog.String("source_id", source.ID),
		slog.String("file_name", input.FileName),
		slog.String("content_type", input.ContentType),
	)

	return &IngestResult{Source: source}, nil
}

// ListSources returns a brand's sources, newest first.
func (s *SourceService) ListSources(ctx context.Context, brandID string) ([]*domain.BrandSource, error) {
	if _, err := s.brands.GetByID(ctx, brandID); err != nil {
		return nil, fmt.Errorf("get brand: %w", err)
	}
	sources, err := s.sources.ListByBrand(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("list sources by brand: %w", err)
	}
	return sources, nil
}

// DeleteSource removes a source; its asset rows cascade and their stored
// objects are deleted best-effort.
func (s *SourceService) DeleteSource(ctx context.Context, brandID, sourceID string) error {
	source, err := s.sources.GetByID(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("get source for delete: %w", err)
	}
	if source.BrandID != brandID {
		return apperrors.NotFound("source", sourceID)
	}

	brandAssets, err := s.assets.ListByBrand(ctx, brandID)
	if err != nil {
		return fmt.Errorf("list assets for delete: %w", err)
	}
	for _, asset := range brandAssets {
		if asset.SourceID != sourceID || asset.StoragePath == "" {
			continue
		}
		if err := s.storage.Delete(ctx, asset.StoragePath); err != nil {
			s.logger.WarnContext(ctx, "failed to delete stored object",
				slog.String("key", asset.StoragePath),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.sources.Delete(ctx, sourceID); err != nil {
		return fmt.Errorf("delete source: %w", err)
	}

	s.afterSourceChange(ctx, brandID)
	s.publisher.SourceDeleted(ctx, brandID, sourceID)

	s.logger.InfoContext(ctx, "source deleted",
		slog.String("brand_id", brandID),
		slog.String("source_id", sourceID),
	)

	return nil
}

// afterSourceChange drops the cached merged knowledge so the next read
// recomputes it.
func (s *SourceService) afterSourceChange(ctx context.Context, brandID string) {
	if err := s.cache.Invalidate(ctx, brandID); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate knowledge cache",
			slog.String("brand_id", brandID),
			slog.String("error", err.Error()),
		)
	}
}

var fileNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func sanitizeFileName(name string) string {
	cleaned := fileNameChars.ReplaceAllString(name, "-")
	cleaned = strings.Trim(cleaned, "-.")
	if cleaned == "" {
		return "document"
	}
	if len(cleaned) > 100 {
		cleaned = cleaned[:100]
	}
	return cleaned
}

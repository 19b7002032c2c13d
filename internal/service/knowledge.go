package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/espengetz/brandprotocol/internal/domain"
	"github.com/espengetz/brandprotocol/internal/knowledge"
	"github.com/espengetz/brandprotocol/internal/repository"
)

// KnowledgeService assembles the merged brand knowledge. The merge is always
// recomputed from the stored sources; the cache only short-circuits repeat
// reads between source changes.
type KnowledgeService struct {
	brands  repository.BrandRepository
	sources repository.SourceRepository
	cache   *knowledge.Cache
	logger  *slog.Logger
}

// NewKnowledgeService creates a knowledge service.
func NewKnowledgeService(
	brands repository.BrandRepository,
	sources repository.SourceRepository,
	cache *knowledge.Cache,
	logger *slog.Logger,
) *KnowledgeService {
	return &KnowledgeService{
		brands:  brands,
		sources: sources,
		cache:   cache,
		logger:  logger,
	}
}

// GetKnowledge returns the merged knowledge for a brand.
func (s *KnowledgeService) GetKnowledge(ctx context.Context, brandID string) (*domain.BrandKnowledge, error) {
	if cached, ok := s.cache.Get(ctx, brandID); ok {
		return cached, nil
	}

	brand, err := s.brands.GetByID(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("get brand: %w", err)
	}

	sources, err := s.sources.ListByBrand(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("list sources by brand: %w", err)
	}

	merged := knowledge.Merge(brand, sources)
	s.cache.Set(ctx, brandID, merged)

	s.logger.DebugContext(ctx, "knowledge merged",
		slog.String("brand_id", brandID),
		slog.Int("sources", len(sources)),
	)

	return merged, nil
}

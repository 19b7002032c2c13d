// Package service implements the business logic: brand CRUD, source
// ingestion, asset harvesting, and knowledge assembly.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/espengetz/brandprotocol/internal/domain"
	"github.com/espengetz/brandprotocol/internal/event"
	"github.com/espengetz/brandprotocol/internal/knowledge"
	"github.com/espengetz/brandprotocol/internal/repository"
	"github.com/espengetz/brandprotocol/internal/storage"
	apperrors "github.com/espengetz/brandprotocol/pkg/errors"
)

// BrandService implements the business logic for brand operations.
type BrandService struct {
	brands    repository.BrandRepository
	sources   repository.SourceRepository
	assets    repository.AssetRepository
	storage   storage.Storage
	cache     *knowledge.Cache
	publisher event.Publisher
	logger    *slog.Logger
}

// NewBrandService creates a new brand service.
func NewBrandService(
	brands repository.BrandRepository,
	sources repository.SourceRepository,
	assets repository.AssetRepository,
	store storage.Storage,
	cache *knowledge.Cache,
	publisher event.Publisher,
	logger *slog.Logger,
) *BrandService {
	return &BrandService{
		brands:    brands,
		sources:   sources,
		assets:    assets,
		storage:   store,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateBrandInput holds the parameters for creating a brand.
type CreateBrandInput struct {
	UserID      string
	Name        string
	Description string
}

// UpdateBrandInput holds the parameters for updating a brand. Nil fields are
// left unchanged.
type UpdateBrandInput struct {
	Name        *string
	Description *string
}

// CreateBrand validates the input and persists a new brand.
func (s *BrandService) CreateBrand(ctx context.Context, input *CreateBrandInput) (*domain.Brand, error) {
	if input.UserID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("brand name is required")
	}

	now := time.Now().UTC()
	brand := &domain.Brand{
		ID:          uuid.New().String(),
		UserID:      input.UserID,
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.brands.Create(ctx, brand); err != nil {
		return nil, fmt.Errorf("create brand: %w", err)
	}

	s.publisher.BrandCreated(ctx, brand)

	s.logger.InfoContext(ctx, "brand created",
		slog.String("brand_id", brand.ID),
		slog.String("user_id", brand.UserID),
	)

	return brand, nil
}

// GetBrand retrieves a brand by its ID.
func (s *BrandService) GetBrand(ctx context.Context, id string) (*domain.Brand, error) {
	brand, err := s.brands.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get brand by id: %w", err)
	}
	return brand, nil
}

// ListBrands returns a paginated list of a user's brands.
func (s *BrandService) ListBrands(ctx context.Context, userID string, page, perPage int) ([]domain.Brand, int, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("user id is required")
	}
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	offset := (page - 1) * perPage

	brands, total, err := s.brands.ListByUser(ctx, userID, offset, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list brands by user: %w", err)
	}
	return brands, total, nil
}

// UpdateBrand applies the given changes to an existing brand.
func (s *BrandService) UpdateBrand(ctx context.Context, id string, input *UpdateBrandInput) (*domain.Brand, error) {
	brand, err := s.brands.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get brand for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("brand name cannot be empty")
		}
		brand.Name = *input.Name
	}
	if input.Description != nil {
		brand.Description = *input.Description
	}
	brand.UpdatedAt = time.Now().UTC()

	if err := s.brands.Update(ctx, brand); err != nil {
		return nil, fmt.Errorf("update brand: %w", err)
	}

	// The merged knowledge embeds the brand name and description.
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate knowledge cache",
			slog.String("brand_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "brand updated", slog.String("brand_id", brand.ID))

	return brand, nil
}

// DeleteBrand removes a brand, its database rows (sources and assets cascade),
// and its stored objects. Object deletion is best-effort.
func (s *BrandService) DeleteBrand(ctx context.Context, id string) error {
	if _, err := s.brands.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get brand for delete: %w", err)
	}

	assets, err := s.assets.ListByBrand(ctx, id)
	if err != nil {
		return fmt.Errorf("list assets for delete: %w", err)
	}
	for _, asset := range assets {
		if asset.StoragePath == "" {
			continue
		}
		if err := s.storage.Delete(ctx, asset.StoragePath); err != nil {
			s.logger.WarnContext(ctx, "failed to delete stored object",
				slog.String("brand_id", id),
				slog.String("key", asset.StoragePath),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.brands.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate knowledge cache",
			slog.String("brand_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.publisher.BrandDeleted(ctx, id)

	s.logger.InfoContext(ctx, "brand deleted", slog.String("brand_id", id))

	return nil
}

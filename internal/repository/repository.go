package repository

import (
	"context"

	"github.com/espengetz/brandprotocol/internal/domain"
)

// BrandRepository defines persistence operations for brands.
type BrandRepository interface {
	// Create inserts a new brand record into the store.
	Create(ctx context.Context, brand *domain.Brand) error

	// GetByID retrieves a brand by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Brand, error)

	// ListByUser returns a user's brands with pagination.
	// Returns the list of brands and the total count.
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]domain.Brand, int, error)

	// Update modifies an existing brand record.
	Update(ctx context.Context, brand *domain.Brand) error

	// Delete removes a brand; its sources and assets cascade.
	Delete(ctx context.Context, id string) error
}

// SourceRepository defines persistence operations for brand sources.
type SourceRepository interface {
	// Create inserts a new source record.
	Create(ctx context.Context, source *domain.BrandSource) error

	// GetByID retrieves a source by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.BrandSource, error)

	// ListByBrand returns all sources for a brand, newest first. This is
	// the ordering the merge consumes.
	ListByBrand(ctx context.Context, brandID string) ([]*domain.BrandSource, error)

	// Delete removes a source record.
	Delete(ctx context.Context, id string) error
}

// AssetRepository defines persistence operations for brand assets.
type AssetRepository interface {
	// Create inserts a new asset record.
	Create(ctx context.Context, asset *domain.BrandAsset) error

	// GetByID retrieves an asset by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.BrandAsset, error)

	// ListByBrand returns all assets for a brand grouped-friendly: ordered
	// by type, then newest first.
	ListByBrand(ctx context.Context, brandID string) ([]domain.BrandAsset, error)

	// Delete removes an asset record.
	Delete(ctx context.Context, id string) error
}

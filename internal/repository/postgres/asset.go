package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/espengetz/brandprotocol/internal/domain"
	apperrors "github.com/espengetz/brandprotocol/pkg/errors"
)

// AssetRepository implements repository.AssetRepository using PostgreSQL.
type AssetRepository struct {
	db DB
}

// NewAssetRepository creates a new PostgreSQL-backed asset repository.
func NewAssetRepository(db DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// Create inserts a new asset record into the database.
func (r *AssetRepository) Create(ctx context.Context, a *domain.BrandAsset) error {
	query := `
		INSERT INTO brand_assets (id, brand_id, source_id, asset_type, name, original_url, storage_path, public_url, mime_type, file_extension, size_bytes, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(ctx, query,
		a.ID,
		a.BrandID,
		nullableID(a.SourceID),
		a.Type,
		a.Name,
		a.OriginalURL,
		a.StoragePath,
		a.PublicURL,
		a.MimeType,
		a.FileExtension,
		a.SizeBytes,
		a.Score,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert brand asset: %w", err)
	}

	return nil
}

// GetByID retrieves an asset by its ID.
func (r *AssetRepository) GetByID(ctx context.Context, id string) (*domain.BrandAsset, error) {
	query := `
		SELECT id, brand_id, source_id, asset_type, name, original_url, storage_path, public_url, mime_type, file_extension, size_bytes, score, created_at
		FROM brand_assets
		WHERE id = $1`

	var (
		a        domain.BrandAsset
		sourceID sql.NullString
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.BrandID,
		&sourceID,
		&a.Type,
		&a.Name,
		&a.OriginalURL,
		&a.StoragePath,
		&a.PublicURL,
		&a.MimeType,
		&a.FileExtension,
		&a.SizeBytes,
		&a.Score,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan brand asset: %w", err)
	}

	a.SourceID = sourceID.String
	return &a, nil
}

// ListByBrand returns all assets for a brand, ordered by type then newest
// first, which is the grouping order the API presents.
func (r *AssetRepository) ListByBrand(ctx context.Context, brandID string) ([]domain.BrandAsset, error) {
	query := `
		SELECT id, brand_id, source_id, asset_type, name, original_url, storage_path, public_url, mime_type, file_extension, size_bytes, score, created_at
		FROM brand_assets
		WHERE brand_id = $1
		ORDER BY asset_type ASC, created_at DESC`

	rows, err := r.db.Query(ctx, query, brandID)
	if err != nil {
		return nil, fmt.Errorf("list brand assets: %w", err)
	}
	defer rows.Close()

	var assets []domain.BrandAsset
	for rows.Next() {
		var (
			a        domain.BrandAsset
			sourceID sql.NullString
		)
		if err := rows.Scan(
			&a.ID,
			&a.BrandID,
			&sourceID,
			&a.Type,
			&a.Name,
			&a.OriginalURL,
			&a.StoragePath,
			&a.PublicURL,
			&a.MimeType,
			&a.FileExtension,
			&a.SizeBytes,
			&a.Score,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan brand asset row: %w", err)
		}
		a.SourceID = sourceID.String
		assets = append(assets, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brand asset rows: %w", err)
	}

	if assets == nil {
		assets = []domain.BrandAsset{}
	}

	return assets, nil
}

// Delete removes an asset record.
func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM brand_assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand asset: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("brand_asset", id)
	}

	return nil
}

// nullableID maps an empty string to NULL for optional UUID columns.
func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/espengetz/brandprotocol/internal/domain"
	apperrors "github.com/espengetz/brandprotocol/pkg/errors"
)

// BrandRepository implements repository.BrandRepository using PostgreSQL.
type BrandRepository struct {
	db DB
}

// NewBrandRepository creates a new PostgreSQL-backed brand repository.
func NewBrandRepository(db DB) *BrandRepository {
	return &BrandRepository{db: db}
}

// Create inserts a new brand record into the database.
func (r *BrandRepository) Create(ctx context.Context, b *domain.Brand) error {
	query := `
		INSERT INTO brands (id, user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		b.ID,
		b.UserID,
		b.Name,
		b.Description,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert brand: %w", err)
	}

	return nil
}

// GetByID retrieves a brand by its ID.
func (r *BrandRepository) GetByID(ctx context.Context, id string) (*domain.Brand, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM brands
		WHERE id = $1`

	var b domain.Brand
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.UserID,
		&b.Name,
		&b.Description,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan brand: %w", err)
	}

	return &b, nil
}

// ListByUser returns a user's brands with pagination.
func (r *BrandRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]domain.Brand, int, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at,
			   count(*) OVER() AS total_count
		FROM brands
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	var (
		brands     []domain.Brand
		totalCount int
	)

	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(
			&b.ID,
			&b.UserID,
			&b.Name,
			&b.Description,
			&b.CreatedAt,
			&b.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan brand row: %w", err)
		}
		brands = append(brands, b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate brand rows: %w", err)
	}

	if brands == nil {
		brands = []domain.Brand{}
	}

	return brands, totalCount, nil
}

// Update modifies an existing brand record.
func (r *BrandRepository) Update(ctx context.Context, b *domain.Brand) error {
	b.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE brands
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4`

	ct, err := r.db.Exec(ctx, query, b.Name, b.Description, b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("update brand: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("brand", b.ID)
	}

	return nil
}

// Delete removes a brand; sources and assets cascade at the schema level.
func (r *BrandRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("brand", id)
	}

	return nil
}

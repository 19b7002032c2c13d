package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/espengetz/brandprotocol/internal/domain"
	apperrors "github.com/espengetz/brandprotocol/pkg/errors"
)

// SourceRepository implements repository.SourceRepository using PostgreSQL.
type SourceRepository struct {
	db DB
}

// NewSourceRepository creates a new PostgreSQL-backed source repository.
func NewSourceRepository(db DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// Create inserts a new source record into the database.
func (r *SourceRepository) Create(ctx context.Context, s *domain.BrandSource) error {
	contentJSON, err := json.Marshal(s.Content)
	if err != nil {
		return fmt.Errorf("marshal source content: %w", err)
	}

	query := `
		INSERT INTO brand_sources (id, brand_id, source_type, name, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.Exec(ctx, query,
		s.ID,
		s.BrandID,
		s.Type,
		s.Name,
		contentJSON,
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert brand source: %w", err)
	}

	return nil
}

// GetByID retrieves a source by its ID.
func (r *SourceRepository) GetByID(ctx context.Context, id string) (*domain.BrandSource, error) {
	query := `
		SELECT id, brand_id, source_type, name, content, created_at
		FROM brand_sources
		WHERE id = $1`

	var (
		s           domain.BrandSource
		contentJSON []byte
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.BrandID,
		&s.Type,
		&s.Name,
		&contentJSON,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan brand source: %w", err)
	}

	if contentJSON != nil {
		if err := json.Unmarshal(contentJSON, &s.Content); err != nil {
			return nil, fmt.Errorf("unmarshal source content: %w", err)
		}
	}

	return &s, nil
}

// ListByBrand returns all sources for a brand, newest first.
func (r *SourceRepository) ListByBrand(ctx context.Context, brandID string) ([]*domain.BrandSource, error) {
	query := `
		SELECT id, brand_id, source_type, name, content, created_at
		FROM brand_sources
		WHERE brand_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, brandID)
	if err != nil {
		return nil, fmt.Errorf("list brand sources: %w", err)
	}
	defer rows.Close()

	var sources []*domain.BrandSource
	for rows.Next() {
		var (
			s           domain.BrandSource
			contentJSON []byte
		)
		if err := rows.Scan(
			&s.ID,
			&s.BrandID,
			&s.Type,
			&s.Name,
			&contentJSON,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan brand source row: %w", err)
		}

		if contentJSON != nil {
			if err := json.Unmarshal(contentJSON, &s.Content); err != nil {
				return nil, fmt.Errorf("unmarshal source content: %w", err)
			}
		}

		sources = append(sources, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brand source rows: %w", err)
	}

	if sources == nil {
		sources = []*domain.BrandSource{}
	}

	return sources, nil
}

// Delete removes a source record.
func (r *SourceRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM brand_sources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand source: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("brand_source", id)
	}

	return nil
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ImageRepository provides CRUD operations over the images collection.
// It stores and returns opaque records; validation happens at the route
// layer before anything reaches this gateway.
type ImageRepository struct {
	db *Database
}

// NewImageRepository creates a repository bound to the image database.
func NewImageRepository(database *Database) *ImageRepository {
	return &ImageRepository{db: database}
}

// Insert stores a new generated image record.
func (r *ImageRepository) Insert(ctx context.Context, rec GeneratedImage) error {
	if r.db == nil {
		return fmt.Errorf("db: database connection is nil")
	}

	query := `
		INSERT INTO images (id, prompt, style, size, image_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.Conn().ExecContext(ctx, query,
		rec.ID, rec.Prompt, rec.Style, rec.Size, rec.ImageData, formatTime(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("db: failed to insert image: %w", err)
	}
	return nil
}

// GetByID retrieves a single image record. Returns ErrNotFound when the id
// is absent.
func (r *ImageRepository) GetByID(ctx context.Context, id string) (GeneratedImage, error) {
	query := `
		SELECT id, prompt, style, size, image_data, created_at
		FROM images
		WHERE id = ?`

	var rec GeneratedImage
	var createdAt string
	err := r.db.Conn().QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.Prompt, &rec.Style, &rec.Size, &rec.ImageData, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GeneratedImage{}, ErrNotFound
	}
	if err != nil {
		return GeneratedImage{}, fmt.Errorf("db: failed to query image: %w", err)
	}

	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// List retrieves the most recent image records, strictly newest-first.
func (r *ImageRepository) List(ctx context.Context, limit int) ([]GeneratedImage, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, prompt, style, size, image_data, created_at
		FROM images
		ORDER BY created_at DESC
		LIMIT ?`

	rows, err := r.db.Conn().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db: failed to query images: %w", err)
	}
	defer rows.Close()

	records := []GeneratedImage{}
	for rows.Next() {
		var rec GeneratedImage
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Prompt, &rec.Style, &rec.Size, &rec.ImageData, &createdAt); err != nil {
			return nil, fmt.Errorf("db: failed to scan image row: %w", err)
		}
		rec.CreatedAt = parseTime(createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: error iterating image rows: %w", err)
	}
	return records, nil
}

// Count returns the total number of stored images.
func (r *ImageRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM images`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("db: failed to count images: %w", err)
	}
	return total, nil
}

// DeleteByID removes one image. The returned count distinguishes "deleted"
// (1) from "was not there" (0); the route layer maps the latter to 404.
func (r *ImageRepository) DeleteByID(ctx context.Context, id string) (int64, error) {
	result, err := r.db.Conn().ExecContext(ctx, `DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("db: failed to delete image: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db: failed to read affected rows: %w", err)
	}
	return affected, nil
}

// DeleteAll clears the whole collection and reports how many records were
// removed. Calling it on an empty collection returns 0; the operation is
// idempotent in effect.
func (r *ImageRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.Conn().ExecContext(ctx, `DELETE FROM images`)
	if err != nil {
		return 0, fmt.Errorf("db: failed to clear images: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db: failed to read affected rows: %w", err)
	}
	return affected, nil
}

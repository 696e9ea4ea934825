package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AdRepository provides CRUD operations over the ads collection.
type AdRepository struct {
	db *Database
}

// NewAdRepository creates a repository bound to the ad database.
func NewAdRepository(database *Database) *AdRepository {
	return &AdRepository{db: database}
}

// Insert stores a new generated ad.
func (r *AdRepository) Insert(ctx context.Context, rec GeneratedAd) error {
	query := `
		INSERT INTO ads (id, company_id, image_data, prompt_used, ad_type, style, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Conn().ExecContext(ctx, query,
		rec.ID, rec.CompanyID, rec.ImageData, rec.PromptUsed, rec.AdType, rec.Style,
		formatTime(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("db: failed to insert ad: %w", err)
	}
	return nil
}

// GetByID retrieves a single ad. Returns ErrNotFound when the id is absent.
func (r *AdRepository) GetByID(ctx context.Context, id string) (GeneratedAd, error) {
	query := `
		SELECT id, company_id, image_data, prompt_used, ad_type, style, created_at
		FROM ads
		WHERE id = ?`

	var rec GeneratedAd
	var createdAt string
	err := r.db.Conn().QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.CompanyID, &rec.ImageData, &rec.PromptUsed, &rec.AdType,
		&rec.Style, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GeneratedAd{}, ErrNotFound
	}
	if err != nil {
		return GeneratedAd{}, fmt.Errorf("db: failed to query ad: %w", err)
	}

	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// ListByCompany retrieves all ads generated for one company, newest-first.
// An unknown company id yields an empty list, not an error.
func (r *AdRepository) ListByCompany(ctx context.Context, companyID string) ([]GeneratedAd, error) {
	query := `
		SELECT id, company_id, image_data, prompt_used, ad_type, style, created_at
		FROM ads
		WHERE company_id = ?
		ORDER BY created_at DESC`

	rows, err := r.db.Conn().QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("db: failed to query ads: %w", err)
	}
	defer rows.Close()

	return scanAds(rows)
}

// ListAll retrieves every stored ad, newest-first.
func (r *AdRepository) ListAll(ctx context.Context) ([]GeneratedAd, error) {
	query := `
		SELECT id, company_id, image_data, prompt_used, ad_type, style, created_at
		FROM ads
		ORDER BY created_at DESC`

	rows, err := r.db.Conn().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db: failed to query ads: %w", err)
	}
	defer rows.Close()

	return scanAds(rows)
}

// DeleteByID removes one ad and reports whether it existed (1) or not (0).
func (r *AdRepository) DeleteByID(ctx context.Context, id string) (int64, error) {
	result, err := r.db.Conn().ExecContext(ctx, `DELETE FROM ads WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("db: failed to delete ad: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db: failed to read affected rows: %w", err)
	}
	return affected, nil
}

// scanAds drains an ad result set.
func scanAds(rows *sql.Rows) ([]GeneratedAd, error) {
	records := []GeneratedAd{}
	for rows.Next() {
		var rec GeneratedAd
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.CompanyID, &rec.ImageData, &rec.PromptUsed,
			&rec.AdType, &rec.Style, &createdAt); err != nil {
			return nil, fmt.Errorf("db: failed to scan ad row: %w", err)
		}
		rec.CreatedAt = parseTime(createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: error iterating ad rows: %w", err)
	}
	return records, nil
}

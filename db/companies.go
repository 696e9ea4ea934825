package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CompanyRepository provides CRUD operations over the companies collection.
type CompanyRepository struct {
	db *Database
}

// NewCompanyRepository creates a repository bound to the ad database.
func NewCompanyRepository(database *Database) *CompanyRepository {
	return &CompanyRepository{db: database}
}

// Insert stores a new company profile.
func (r *CompanyRepository) Insert(ctx context.Context, rec CompanyProfile) error {
	query := `
		INSERT INTO companies (id, name, industry, product_service, target_audience,
			brand_description, website, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Conn().ExecContext(ctx, query,
		rec.ID, rec.Name, rec.Industry, rec.ProductService, rec.TargetAudience,
		rec.BrandDescription, rec.Website, formatTime(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("db: failed to insert company: %w", err)
	}
	return nil
}

// GetByID retrieves a single company profile. Returns ErrNotFound when the
// id is absent.
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (CompanyProfile, error) {
	query := `
		SELECT id, name, industry, product_service, target_audience,
			brand_description, website, created_at
		FROM companies
		WHERE id = ?`

	var rec CompanyProfile
	var createdAt string
	err := r.db.Conn().QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.Name, &rec.Industry, &rec.ProductService, &rec.TargetAudience,
		&rec.BrandDescription, &rec.Website, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return CompanyProfile{}, ErrNotFound
	}
	if err != nil {
		return CompanyProfile{}, fmt.Errorf("db: failed to query company: %w", err)
	}

	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// List retrieves all company profiles, newest-first.
func (r *CompanyRepository) List(ctx context.Context) ([]CompanyProfile, error) {
	query := `
		SELECT id, name, industry, product_service, target_audience,
			brand_description, website, created_at
		FROM companies
		ORDER BY created_at DESC`

	rows, err := r.db.Conn().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db: failed to query companies: %w", err)
	}
	defer rows.Close()

	records := []CompanyProfile{}
	for rows.Next() {
		var rec CompanyProfile
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Industry, &rec.ProductService,
			&rec.TargetAudience, &rec.BrandDescription, &rec.Website, &createdAt); err != nil {
			return nil, fmt.Errorf("db: failed to scan company row: %w", err)
		}
		rec.CreatedAt = parseTime(createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: error iterating company rows: %w", err)
	}
	return records, nil
}

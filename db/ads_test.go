package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// newTestAdDB opens a fresh migrated ad database in a temp directory.
func newTestAdDB(t *testing.T) *Database {
	t.Helper()
	database, err := NewDatabase(filepath.Join(t.TempDir(), "ads.db"), AdMigrations)
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return database
}

func testCompany(id string, createdAt time.Time) CompanyProfile {
	return CompanyProfile{
		ID:               id,
		Name:             "Acme Corp",
		Industry:         "manufacturing",
		ProductService:   "industrial anvils",
		TargetAudience:   "coyotes",
		BrandDescription: "reliable since 1949",
		Website:          "https://acme.example",
		CreatedAt:        createdAt,
	}
}

func testAd(id, companyID string, createdAt time.Time) GeneratedAd {
	return GeneratedAd{
		ID:         id,
		CompanyID:  companyID,
		ImageData:  "aGVsbG8=",
		PromptUsed: "Create a modern advertisement image for Acme Corp",
		AdType:     "banner",
		Style:      "modern",
		CreatedAt:  createdAt,
	}
}

// TestCompanyRepository_InsertAndGet tests the company profile round trip.
func TestCompanyRepository_InsertAndGet(t *testing.T) {
	repo := NewCompanyRepository(newTestAdDB(t))
	ctx := context.Background()

	created := time.Date(2026, 5, 2, 11, 30, 0, 0, time.UTC)
	if err := repo.Insert(ctx, testCompany("co-1", created)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "co-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Acme Corp" || got.Industry != "manufacturing" {
		t.Errorf("GetByID() = %+v, fields do not match inserted record", got)
	}
	if got.BrandDescription != "reliable since 1949" || got.Website != "https://acme.example" {
		t.Errorf("GetByID() optional fields = %q / %q, want originals",
			got.BrandDescription, got.Website)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("GetByID() created_at = %v, want %v", got.CreatedAt, created)
	}
}

// TestCompanyRepository_GetMissing tests the not-found sentinel.
func TestCompanyRepository_GetMissing(t *testing.T) {
	repo := NewCompanyRepository(newTestAdDB(t))

	_, err := repo.GetByID(context.Background(), "no-such-company")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

// TestCompanyRepository_ListNewestFirst tests ordering of the company list.
func TestCompanyRepository_ListNewestFirst(t *testing.T) {
	repo := NewCompanyRepository(newTestAdDB(t))
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"co-a", "co-b", "co-c"} {
		if err := repo.Insert(ctx, testCompany(id, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Insert(%s) error = %v", id, err)
		}
	}

	companies, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(companies) != 3 {
		t.Fatalf("List() returned %d records, want 3", len(companies))
	}
	if companies[0].ID != "co-c" || companies[2].ID != "co-a" {
		t.Errorf("List() order = [%s %s %s], want newest first",
			companies[0].ID, companies[1].ID, companies[2].ID)
	}
}

// TestAdRepository_InsertAndGet tests the ad round trip including the
// persisted composed prompt.
func TestAdRepository_InsertAndGet(t *testing.T) {
	repo := NewAdRepository(newTestAdDB(t))
	ctx := context.Background()

	if err := repo.Insert(ctx, testAd("ad-1", "co-1", time.Now().UTC())); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "ad-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.CompanyID != "co-1" || got.AdType != "banner" || got.Style != "modern" {
		t.Errorf("GetByID() = %+v, fields do not match inserted record", got)
	}
	if got.PromptUsed == "" {
		t.Error("GetByID() prompt_used is empty, want persisted prompt")
	}
}

// TestAdRepository_ListByCompany tests company-scoped listing.
func TestAdRepository_ListByCompany(t *testing.T) {
	repo := NewAdRepository(newTestAdDB(t))
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inserts := []struct {
		id      string
		company string
	}{
		{"ad-1", "co-1"},
		{"ad-2", "co-2"},
		{"ad-3", "co-1"},
	}
	for i, in := range inserts {
		if err := repo.Insert(ctx, testAd(in.id, in.company, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Insert(%s) error = %v", in.id, err)
		}
	}

	ads, err := repo.ListByCompany(ctx, "co-1")
	if err != nil {
		t.Fatalf("ListByCompany() error = %v", err)
	}
	if len(ads) != 2 {
		t.Fatalf("ListByCompany() returned %d ads, want 2", len(ads))
	}
	if ads[0].ID != "ad-3" || ads[1].ID != "ad-1" {
		t.Errorf("ListByCompany() order = [%s %s], want [ad-3 ad-1]", ads[0].ID, ads[1].ID)
	}

	// Unknown company yields an empty, non-nil slice
	none, err := repo.ListByCompany(ctx, "co-unknown")
	if err != nil {
		t.Fatalf("ListByCompany(unknown) error = %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("ListByCompany(unknown) = %v, want empty slice", none)
	}
}

// TestAdRepository_ListAll tests the unscoped listing.
func TestAdRepository_ListAll(t *testing.T) {
	repo := NewAdRepository(newTestAdDB(t))
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"ad-1", "ad-2", "ad-3"} {
		if err := repo.Insert(ctx, testAd(id, "co-1", base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Insert(%s) error = %v", id, err)
		}
	}

	ads, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(ads) != 3 {
		t.Fatalf("ListAll() returned %d ads, want 3", len(ads))
	}
	if ads[0].ID != "ad-3" {
		t.Errorf("ListAll() first = %s, want ad-3", ads[0].ID)
	}
}

// TestAdRepository_DeleteByID tests deletion reporting.
func TestAdRepository_DeleteByID(t *testing.T) {
	repo := NewAdRepository(newTestAdDB(t))
	ctx := context.Background()

	if err := repo.Insert(ctx, testAd("ad-1", "co-1", time.Now().UTC())); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	deleted, err := repo.DeleteByID(ctx, "ad-1")
	if err != nil {
		t.Fatalf("DeleteByID() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("DeleteByID() = %d, want 1", deleted)
	}

	deleted, err = repo.DeleteByID(ctx, "ad-1")
	if err != nil {
		t.Fatalf("DeleteByID() second call error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("DeleteByID() second call = %d, want 0", deleted)
	}
}

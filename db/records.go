package db

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record id is absent from its
// collection. Route handlers translate it to HTTP 404.
var ErrNotFound = errors.New("db: record not found")

// timeLayout is the storage format for created_at columns: fixed-width UTC
// so lexical ordering in SQL equals chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// formatTime renders a timestamp for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime reads a stored timestamp. Stored values are always UTC in
// timeLayout; RFC3339Nano parsing also tolerates values written by hand.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// GeneratedImage is a record in the image service's images collection.
// Immutable after creation except for deletion.
type GeneratedImage struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Style     string    `json:"style"`
	Size      string    `json:"size"`
	ImageData string    `json:"image_data"` // base64-encoded PNG
	CreatedAt time.Time `json:"created_at"`
}

// CompanyProfile is a record in the ad service's companies collection.
// Immutable after creation; there is no update endpoint.
type CompanyProfile struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Industry         string    `json:"industry"`
	ProductService   string    `json:"product_service"`
	TargetAudience   string    `json:"target_audience"`
	BrandDescription string    `json:"brand_description"`
	Website          string    `json:"website"`
	CreatedAt        time.Time `json:"created_at"`
}

// GeneratedAd is a record in the ad service's ads collection.
// CompanyID is a weak reference to a CompanyProfile: it existed when the ad
// was created, but nothing enforces it afterwards.
type GeneratedAd struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"company_id"`
	ImageData  string    `json:"image_data"` // base64-encoded PNG
	PromptUsed string    `json:"prompt_used"`
	AdType     string    `json:"ad_type"`
	Style      string    `json:"style"`
	CreatedAt  time.Time `json:"created_at"`
}

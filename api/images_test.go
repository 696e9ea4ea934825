package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"adgen_backend/db"
	"adgen_backend/imagegen"
)

// newImageTestMux builds the image service route tree against a fresh temp
// database and a mock-mode generation service.
func newImageTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	database, err := db.NewDatabase(filepath.Join(t.TempDir(), "images.db"), db.ImageMigrations)
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })

	generator := imagegen.NewService(nil, "dall-e-3", nil)
	handlers := NewImageHandlers(generator, db.NewImageRepository(database), "512x512", 50, nil)

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux)
	return mux
}

// doJSON issues a request with an optional JSON body and decodes the JSON
// response into out.
func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

// TestImageAPI_Health tests mode reporting without any remote call.
func TestImageAPI_Health(t *testing.T) {
	mux := newImageTestMux(t)

	var health HealthResponse
	rec := doJSON(t, mux, http.MethodGet, "/api/health", nil, &health)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/health status = %d, want 200", rec.Code)
	}
	if health.Status != "healthy" {
		t.Errorf("health status = %q, want %q", health.Status, "healthy")
	}
	if health.AIService != imagegen.ModeMock {
		t.Errorf("health ai_service = %q, want %q", health.AIService, imagegen.ModeMock)
	}
	if health.Model != "dall-e-3" {
		t.Errorf("health model = %q, want %q", health.Model, "dall-e-3")
	}
}

// TestImageAPI_GenerateAndFetch tests the full generate, fetch, history,
// delete cycle for one image.
func TestImageAPI_GenerateAndFetch(t *testing.T) {
	mux := newImageTestMux(t)

	var created db.GeneratedImage
	rec := doJSON(t, mux, http.MethodPost, "/api/generate-image",
		ImageGenerationRequest{Prompt: "a red bicycle in a park", Style: "realistic"},
		&created)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/generate-image status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if created.ID == "" {
		t.Error("generated image has empty id")
	}
	// The stored prompt is the raw user text, not the enhanced one
	if created.Prompt != "a red bicycle in a park" {
		t.Errorf("stored prompt = %q, want raw user prompt", created.Prompt)
	}
	if created.Style != "realistic" || created.Size != "512x512" {
		t.Errorf("stored style/size = %q/%q, want realistic/512x512", created.Style, created.Size)
	}
	if created.ImageData == "" {
		t.Error("generated image has empty image_data")
	}
	if _, err := imagegen.DecodeImageBase64(created.ImageData); err != nil {
		t.Errorf("image_data is not valid base64: %v", err)
	}
	if created.CreatedAt.IsZero() {
		t.Error("generated image has zero created_at")
	}

	// Fetch it back by id
	var fetched db.GeneratedImage
	rec = doJSON(t, mux, http.MethodGet, "/api/images/"+created.ID, nil, &fetched)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/images/{id} status = %d", rec.Code)
	}
	if fetched.ID != created.ID || fetched.ImageData != created.ImageData {
		t.Error("fetched image does not match created image")
	}

	// It appears in history
	var history ImageHistoryResponse
	rec = doJSON(t, mux, http.MethodGet, "/api/images", nil, &history)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/images status = %d", rec.Code)
	}
	if history.Total != 1 || len(history.Images) != 1 {
		t.Errorf("history = %d images / total %d, want 1/1", len(history.Images), history.Total)
	}

	// Delete it
	var msg MessageResponse
	rec = doJSON(t, mux, http.MethodDelete, "/api/images/"+created.ID, nil, &msg)
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE /api/images/{id} status = %d", rec.Code)
	}
	if msg.Message != "Image deleted successfully" {
		t.Errorf("delete message = %q", msg.Message)
	}

	// A second delete is a 404
	rec = doJSON(t, mux, http.MethodDelete, "/api/images/"+created.ID, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE status = %d, want 404", rec.Code)
	}
}

// TestImageAPI_GenerateDefaults tests style and size defaulting.
func TestImageAPI_GenerateDefaults(t *testing.T) {
	mux := newImageTestMux(t)

	var created db.GeneratedImage
	rec := doJSON(t, mux, http.MethodPost, "/api/generate-image",
		ImageGenerationRequest{Prompt: "just a prompt"}, &created)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/generate-image status = %d", rec.Code)
	}
	if created.Style != "realistic" {
		t.Errorf("default style = %q, want realistic", created.Style)
	}
	if created.Size != "512x512" {
		t.Errorf("default size = %q, want 512x512", created.Size)
	}
}

// TestImageAPI_GenerateValidation tests request body rejection.
func TestImageAPI_GenerateValidation(t *testing.T) {
	mux := newImageTestMux(t)

	// Missing prompt
	rec := doJSON(t, mux, http.MethodPost, "/api/generate-image",
		ImageGenerationRequest{}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty prompt status = %d, want 400", rec.Code)
	}

	// Malformed JSON
	req := httptest.NewRequest(http.MethodPost, "/api/generate-image",
		bytes.NewBufferString("{not json"))
	raw := httptest.NewRecorder()
	mux.ServeHTTP(raw, req)
	if raw.Code != http.StatusBadRequest {
		t.Errorf("malformed JSON status = %d, want 400", raw.Code)
	}
}

// TestImageAPI_HistoryLimit tests the limit query parameter and total count.
func TestImageAPI_HistoryLimit(t *testing.T) {
	mux := newImageTestMux(t)

	for i := 0; i < 5; i++ {
		rec := doJSON(t, mux, http.MethodPost, "/api/generate-image",
			ImageGenerationRequest{Prompt: fmt.Sprintf("prompt %d", i)}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("POST %d status = %d", i, rec.Code)
		}
	}

	var history ImageHistoryResponse
	rec := doJSON(t, mux, http.MethodGet, "/api/images?limit=2", nil, &history)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/images?limit=2 status = %d", rec.Code)
	}
	if len(history.Images) != 2 {
		t.Errorf("limited history returned %d images, want 2", len(history.Images))
	}
	if history.Total != 5 {
		t.Errorf("history total = %d, want 5", history.Total)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/images?limit=bogus", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bogus limit status = %d, want 400", rec.Code)
	}
}

// TestImageAPI_GetMissing tests 404 handling for unknown ids.
func TestImageAPI_GetMissing(t *testing.T) {
	mux := newImageTestMux(t)

	var errResp ErrorResponse
	rec := doJSON(t, mux, http.MethodGet, "/api/images/no-such-id", nil, &errResp)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET missing image status = %d, want 404", rec.Code)
	}
	if errResp.Message != "Image not found" {
		t.Errorf("error message = %q, want %q", errResp.Message, "Image not found")
	}
}

// TestImageAPI_ClearHistory tests bulk deletion and its idempotent count.
func TestImageAPI_ClearHistory(t *testing.T) {
	mux := newImageTestMux(t)

	for i := 0; i < 3; i++ {
		rec := doJSON(t, mux, http.MethodPost, "/api/generate-image",
			ImageGenerationRequest{Prompt: fmt.Sprintf("prompt %d", i)}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("POST %d status = %d", i, rec.Code)
		}
	}

	var msg MessageResponse
	rec := doJSON(t, mux, http.MethodDelete, "/api/images", nil, &msg)
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE /api/images status = %d", rec.Code)
	}
	if msg.Message != "Deleted 3 images" {
		t.Errorf("clear message = %q, want %q", msg.Message, "Deleted 3 images")
	}

	// Clearing an empty collection still succeeds
	rec = doJSON(t, mux, http.MethodDelete, "/api/images", nil, &msg)
	if rec.Code != http.StatusOK {
		t.Fatalf("second DELETE /api/images status = %d", rec.Code)
	}
	if msg.Message != "Deleted 0 images" {
		t.Errorf("second clear message = %q, want %q", msg.Message, "Deleted 0 images")
	}
}

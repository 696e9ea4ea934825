package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"adgen_backend/db"
	"adgen_backend/imagegen"
	"adgen_backend/logging"

	"github.com/google/uuid"
)

// Image service request/response shapes.

// ImageGenerationRequest is the body of POST /api/generate-image.
type ImageGenerationRequest struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style,omitempty"`
	Size   string `json:"size,omitempty"`
}

// ImageHistoryResponse is the body of GET /api/images.
type ImageHistoryResponse struct {
	Images []db.GeneratedImage `json:"images"`
	Total  int64               `json:"total"`
}

// HealthResponse reports service readiness and the active generation mode.
type HealthResponse struct {
	Status    string `json:"status"`
	AIService string `json:"ai_service"`
	Model     string `json:"model,omitempty"`
}

const defaultImageStyle = "realistic"

// ImageHandlers serves the generic image generation API.
type ImageHandlers struct {
	generator    *imagegen.Service
	images       *db.ImageRepository
	defaultSize  string
	historyLimit int
	logger       *logging.Logger
}

// NewImageHandlers wires the image route handlers. defaultSize is recorded
// on records whose request omitted a size; historyLimit is the page size
// when the history request omits one.
func NewImageHandlers(generator *imagegen.Service, images *db.ImageRepository, defaultSize string, historyLimit int, logger *logging.Logger) *ImageHandlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &ImageHandlers{
		generator:    generator,
		images:       images,
		defaultSize:  defaultSize,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// RegisterRoutes installs the image service routes on the given mux.
func (h *ImageHandlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("POST /api/generate-image", h.HandleGenerateImage)
	mux.HandleFunc("GET /api/images", h.HandleImageHistory)
	mux.HandleFunc("GET /api/images/{id}", h.HandleGetImage)
	mux.HandleFunc("DELETE /api/images/{id}", h.HandleDeleteImage)
	mux.HandleFunc("DELETE /api/images", h.HandleClearHistory)
}

// HandleHealth reports service status and whether generation runs against
// the remote model or the local renderer.
func (h *ImageHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		AIService: h.generator.Mode(),
		Model:     h.generator.Model(),
	})
}

// HandleGenerateImage generates an image and stores the resulting record.
//
// The stored prompt is the raw user prompt; the style-enhanced prompt is
// only sent to the model. Generation itself cannot fail while the fallback
// renderer works, so a 500 here means persistence or rendering broke.
func (h *ImageHandlers) HandleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var req ImageGenerationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if req.Style == "" {
		req.Style = defaultImageStyle
	}
	if req.Size == "" {
		req.Size = h.defaultSize
	}

	enhanced := imagegen.EnhancePrompt(req.Prompt, req.Style)
	imageData, err := h.generator.Generate(r.Context(), enhanced, req.Prompt)
	if err != nil {
		h.logger.Errorw("Image generation failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to generate image: "+err.Error())
		return
	}

	rec := db.GeneratedImage{
		ID:        uuid.NewString(),
		Prompt:    req.Prompt,
		Style:     req.Style,
		Size:      req.Size,
		ImageData: imageData,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.images.Insert(r.Context(), rec); err != nil {
		h.logger.Errorw("Failed to persist generated image", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to generate image: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// HandleImageHistory lists stored images newest-first. The optional limit
// query parameter caps the page; total always counts the full collection.
func (h *ImageHandlers) HandleImageHistory(w http.ResponseWriter, r *http.Request) {
	limit := h.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	images, err := h.images.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	total, err := h.images.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ImageHistoryResponse{Images: images, Total: total})
}

// HandleGetImage returns one image record by id.
func (h *ImageHandlers) HandleGetImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	rec, err := h.images.GetByID(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Image not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// HandleDeleteImage removes one image record, distinguishing "deleted" from
// "was never there".
func (h *ImageHandlers) HandleDeleteImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	deleted, err := h.images.DeleteByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if deleted == 0 {
		writeError(w, http.StatusNotFound, "Image not found")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Image deleted successfully"})
}

// HandleClearHistory deletes every stored image and reports the count.
// Clearing an empty collection succeeds with a count of zero.
func (h *ImageHandlers) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.images.DeleteAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Deleted %d images", deleted),
	})
}

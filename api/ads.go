package api

import (
	"errors"
	"net/http"
	"time"

	"adgen_backend/db"
	"adgen_backend/imagegen"
	"adgen_backend/logging"

	"github.com/google/uuid"
)

// Ad service request shapes.

// CompanyCreateRequest is the body of POST /api/companies.
type CompanyCreateRequest struct {
	Name             string `json:"name"`
	Industry         string `json:"industry"`
	ProductService   string `json:"product_service"`
	TargetAudience   string `json:"target_audience"`
	BrandDescription string `json:"brand_description,omitempty"`
	Website          string `json:"website,omitempty"`
}

// AdGenerationRequest is the body of POST /api/generate-ad.
type AdGenerationRequest struct {
	CompanyID    string `json:"company_id"`
	AdType       string `json:"ad_type,omitempty"`
	Style        string `json:"style,omitempty"`
	CustomPrompt string `json:"custom_prompt,omitempty"`
}

const (
	defaultAdType  = "banner"
	defaultAdStyle = "modern"
)

// AdHandlers serves the ad generation API: company profiles and the ads
// generated for them.
type AdHandlers struct {
	generator *imagegen.Service
	companies *db.CompanyRepository
	ads       *db.AdRepository
	logger    *logging.Logger
}

// NewAdHandlers wires the ad route handlers.
func NewAdHandlers(generator *imagegen.Service, companies *db.CompanyRepository, ads *db.AdRepository, logger *logging.Logger) *AdHandlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &AdHandlers{
		generator: generator,
		companies: companies,
		ads:       ads,
		logger:    logger,
	}
}

// RegisterRoutes installs the ad service routes on the given mux.
func (h *AdHandlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("POST /api/companies", h.HandleCreateCompany)
	mux.HandleFunc("GET /api/companies", h.HandleListCompanies)
	mux.HandleFunc("GET /api/companies/{id}", h.HandleGetCompany)
	mux.HandleFunc("POST /api/generate-ad", h.HandleGenerateAd)
	mux.HandleFunc("GET /api/ads", h.HandleListAllAds)
	mux.HandleFunc("GET /api/ads/{company_id}", h.HandleListCompanyAds)
	mux.HandleFunc("DELETE /api/ads/{id}", h.HandleDeleteAd)
}

// HandleHealth reports service status and the active generation mode.
func (h *AdHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		AIService: h.generator.Mode(),
	})
}

// HandleCreateCompany stores a new company profile. Profiles are immutable
// after creation; there is no update endpoint.
func (h *AdHandlers) HandleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req CompanyCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Industry == "" || req.ProductService == "" || req.TargetAudience == "" {
		writeError(w, http.StatusBadRequest, "name, industry, product_service and target_audience are required")
		return
	}

	rec := db.CompanyProfile{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Industry:         req.Industry,
		ProductService:   req.ProductService,
		TargetAudience:   req.TargetAudience,
		BrandDescription: req.BrandDescription,
		Website:          req.Website,
		CreatedAt:        time.Now().UTC(),
	}

	if err := h.companies.Insert(r.Context(), rec); err != nil {
		h.logger.Errorw("Failed to persist company profile", "error", err.Error())
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// HandleListCompanies lists all company profiles, newest-first.
func (h *AdHandlers) HandleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companies.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

// HandleGetCompany returns one company profile by id.
func (h *AdHandlers) HandleGetCompany(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	rec, err := h.companies.GetByID(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Company not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// HandleGenerateAd composes an advertising prompt from the referenced
// company profile, generates the image, and stores the resulting ad.
//
// Company existence is checked before any generation work; a missing
// company is a 404. The fully composed prompt is persisted with the ad.
func (h *AdHandlers) HandleGenerateAd(w http.ResponseWriter, r *http.Request) {
	var req AdGenerationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CompanyID == "" {
		writeError(w, http.StatusBadRequest, "company_id is required")
		return
	}
	if req.AdType == "" {
		req.AdType = defaultAdType
	}
	if req.Style == "" {
		req.Style = defaultAdStyle
	}

	company, err := h.companies.GetByID(r.Context(), req.CompanyID)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Company not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	prompt := imagegen.BuildAdPrompt(imagegen.CompanyInfo{
		Name:             company.Name,
		Industry:         company.Industry,
		ProductService:   company.ProductService,
		TargetAudience:   company.TargetAudience,
		BrandDescription: company.BrandDescription,
		Website:          company.Website,
	}, req.AdType, req.Style, req.CustomPrompt)

	imageData, err := h.generator.Generate(r.Context(), prompt, company.Name+" advertisement")
	if err != nil {
		h.logger.Errorw("Ad generation failed", "error", err.Error(), "company_id", company.ID)
		writeError(w, http.StatusInternalServerError, "Failed to generate ad: "+err.Error())
		return
	}

	rec := db.GeneratedAd{
		ID:         uuid.NewString(),
		CompanyID:  company.ID,
		ImageData:  imageData,
		PromptUsed: prompt,
		AdType:     req.AdType,
		Style:      req.Style,
		CreatedAt:  time.Now().UTC(),
	}

	if err := h.ads.Insert(r.Context(), rec); err != nil {
		h.logger.Errorw("Failed to persist generated ad", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to generate ad: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// HandleListAllAds lists every stored ad, newest-first.
func (h *AdHandlers) HandleListAllAds(w http.ResponseWriter, r *http.Request) {
	ads, err := h.ads.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ads)
}

// HandleListCompanyAds lists the ads generated for one company. An unknown
// company id yields an empty list rather than a 404; the ads collection is
// the authority here, not the companies collection.
func (h *AdHandlers) HandleListCompanyAds(w http.ResponseWriter, r *http.Request) {
	companyID := r.PathValue("company_id")

	ads, err := h.ads.ListByCompany(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ads)
}

// HandleDeleteAd removes one ad record.
func (h *AdHandlers) HandleDeleteAd(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	deleted, err := h.ads.DeleteByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if deleted == 0 {
		writeError(w, http.StatusNotFound, "Ad not found")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Ad deleted successfully"})
}

package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/service"
)

// maxImageUpload bounds product photo uploads.
const maxImageUpload = 8 << 20 // 8MB

// CatalogHandler handles the product catalog surface.
type CatalogHandler struct {
	catalog  *service.CatalogService
	tracking *service.TrackingService
	logger   zerolog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService, tracking *service.TrackingService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		tracking: tracking,
		logger:   logger.With().Str("handler", "catalog").Logger(),
	}
}

// RegisterRoutes registers catalog routes. Reads are public; writes
// need an admin or the owner.
func (h *CatalogHandler) RegisterRoutes(r chi.Router, mw *Middleware) {
	r.Get("/api/products", h.handleList)
	r.Get("/api/products/{id}", h.handleGet)
	r.Get("/api/products/{id}/image", h.handleGetImage)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireRole(domain.RoleAdmin, domain.RoleOwner))
		r.Post("/api/products", h.handleCreate)
		r.Put("/api/products/{id}", h.handleUpdate)
		r.Delete("/api/products/{id}", h.handleDelete)
		r.Post("/api/products/{id}/image", h.handleUploadImage)
		r.Post("/api/products/{id}/image/telegram", h.handleTelegramImage)
	})
}

func (h *CatalogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	// A logged-in shopper viewing a product is a tracked interaction.
	if sess := sessionFrom(r.Context()); sess != nil {
		h.tracking.Track(r.Context(), sess.Username, domain.ActionViewProduct, product.Name)
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) handleGetImage(w http.ResponseWriter, r *http.Request) {
	body, contentType, err := h.catalog.GetImage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Error().Err(err).Msg("failed to stream product image")
	}
}

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Category    domain.Category `json:"category"`
	Image       string          `json:"image"`
	InStock     bool            `json:"inStock"`
	Stock       int             `json:"stock"`
}

func (h *CatalogHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}

	product, err := h.catalog.Create(r.Context(), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		InStock:     req.InStock,
		Stock:       req.Stock,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *CatalogHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}

	product := &domain.Product{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		InStock:     req.InStock,
		Stock:       req.Stock,
	}

	if err := h.catalog.Update(r.Context(), product); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageUpload)

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	err := h.catalog.SetImage(r.Context(), chi.URLParam(r, "id"), r.Body, r.ContentLength, contentType)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type telegramImageRequest struct {
	URL string `json:"url"`
}

func (h *CatalogHandler) handleTelegramImage(w http.ResponseWriter, r *http.Request) {
	var req telegramImageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}

	imageURL, err := h.catalog.ImportTelegramImage(r.Context(), chi.URLParam(r, "id"), req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"image": imageURL})
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/service"
)

// AIHandler exposes the AI analysis surface: owner reports and
// dossiers plus the asynchronous visual product search.
type AIHandler struct {
	ai     *service.AIService
	logger zerolog.Logger
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(ai *service.AIService, logger zerolog.Logger) *AIHandler {
	return &AIHandler{
		ai:     ai,
		logger: logger.With().Str("handler", "ai").Logger(),
	}
}

// RegisterRoutes registers AI routes.
func (h *AIHandler) RegisterRoutes(r chi.Router, mw *Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireRole(domain.RoleOwner))
		r.Post("/api/ai/report", h.handleReport)
		r.Get("/api/ai/dossier/{username}", h.handleDossier)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Post("/api/ai/visual-search", h.handleVisualSearch)
		r.Get("/api/ai/visual-search/{jobID}", h.handleVisualSearchResult)
	})
}

type reportRequest struct {
	Query string `json:"query"`
}

func (h *AIHandler) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}

	report, err := h.ai.AdminReport(r.Context(), req.Query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"report": report})
}

func (h *AIHandler) handleDossier(w http.ResponseWriter, r *http.Request) {
	dossier, err := h.ai.UserDossier(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"dossier": dossier})
}

type visualSearchRequest struct {
	Image string `json:"image"`
}

// visualSearchResponse carries the job state. Product is set only
// when the match has already resolved; Message is the waiting text
// while the job is still running.
type visualSearchResponse struct {
	JobID   string          `json:"jobId"`
	Status  string          `json:"status"`
	Product *domain.Product `json:"product,omitempty"`
	Message string          `json:"message,omitempty"`
}

func (h *AIHandler) handleVisualSearch(w http.ResponseWriter, r *http.Request) {
	var req visualSearchRequest
	if err := decodeJSON(r, &req); err != nil || req.Image == "" {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}

	job, product, err := h.ai.VisualSearch(r.Context(), req.Image)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := visualSearchResponse{
		JobID:   job.ID,
		Status:  string(job.Status),
		Product: product,
	}
	if !job.Done() {
		resp.Message = h.ai.PendingMessage()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AIHandler) handleVisualSearchResult(w http.ResponseWriter, r *http.Request) {
	job, product, err := h.ai.VisualSearchResult(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := visualSearchResponse{
		JobID:   job.ID,
		Status:  string(job.Status),
		Product: product,
	}
	if !job.Done() {
		resp.Message = h.ai.PendingMessage()
	}
	writeJSON(w, http.StatusOK, resp)
}

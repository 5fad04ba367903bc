package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/service"
)

// CommentHandler handles product reviews.
type CommentHandler struct {
	comments *service.CommentService
	logger   zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(comments *service.CommentService, logger zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		logger:   logger.With().Str("handler", "comment").Logger(),
	}
}

// RegisterRoutes registers comment routes.
func (h *CommentHandler) RegisterRoutes(r chi.Router, mw *Middleware) {
	r.Get("/api/products/{id}/comments", h.handleList)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Post("/api/products/{id}/comments", h.handleAdd)
		r.Post("/api/comments/{id}/like", h.handleToggleLike)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireRole(domain.RoleAdmin, domain.RoleOwner))
		r.Delete("/api/comments/{id}", h.handleDelete)
	})
}

func (h *CommentHandler) handleList(w http.ResponseWriter, r *http.Request) {
	comments, err := h.comments.ListByProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *CommentHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}

	sess := sessionFrom(r.Context())
	comment, err := h.comments.Add(r.Context(), chi.URLParam(r, "id"), sess.Username, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	comment, err := h.comments.ToggleLike(r.Context(), chi.URLParam(r, "id"), sess.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.comments.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

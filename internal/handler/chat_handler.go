package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/service"
)

// ChatHandler handles the per-user AI consultant chat.
type ChatHandler struct {
	chat   *service.ChatService
	logger zerolog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chat *service.ChatService, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		logger: logger.With().Str("handler", "chat").Logger(),
	}
}

// RegisterRoutes registers chat routes. All of them need a session.
func (h *ChatHandler) RegisterRoutes(r chi.Router, mw *Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Get("/api/chat", h.handleHistory)
		r.Post("/api/chat", h.handleAsk)
		r.Delete("/api/chat", h.handleClear)
	})
}

func (h *ChatHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	messages, err := h.chat.History(r.Context(), sess.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, messages)
}

type chatRequest struct {
	Text string `json:"text"`
}

func (h *ChatHandler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}

	sess := sessionFrom(r.Context())
	messages, err := h.chat.Ask(r.Context(), sess.Username, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *ChatHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := h.chat.Clear(r.Context(), sess.Username); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/geo"
	"github.com/narama3535-tech/fazancloud/internal/pkg/useragent"
	"github.com/narama3535-tech/fazancloud/internal/service"
	"github.com/narama3535-tech/fazancloud/internal/session"
)

// AuthHandler handles registration, login and the current-user surface.
type AuthHandler struct {
	auth         *service.AuthService
	sessions     *session.Store
	geo          *geo.Client
	cookieName   string
	cookieSecure bool
	logger       zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *session.Store, geoClient *geo.Client, cookieName string, cookieSecure bool, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		sessions:     sessions,
		geo:          geoClient,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		logger:       logger.With().Str("handler", "auth").Logger(),
	}
}

// RegisterRoutes registers auth routes.
func (h *AuthHandler) RegisterRoutes(r chi.Router, mw *Middleware) {
	r.Post("/api/auth/register", h.handleRegister)
	r.Post("/api/auth/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Post("/api/auth/logout", h.handleLogout)
		r.Get("/api/auth/me", h.handleMe)
		r.Post("/api/me/favorites/{productID}", h.handleToggleFavorite)
	})
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password, h.clientInfo(r))
	if err != nil {
		writeError(w, err)
		return
	}

	h.startSession(w, r, user)
	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}

	user, err := h.auth.Login(r.Context(), req.Username, req.Password, h.clientInfo(r))
	if err != nil {
		writeError(w, err)
		return
	}

	h.startSession(w, r, user)
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := h.sessions.Delete(r.Context(), sess.ID); err != nil {
		h.logger.Error().Err(err).Msg("failed to delete session")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	user, err := h.auth.GetUser(r.Context(), sess.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	productID := chi.URLParam(r, "productID")

	user, err := h.auth.ToggleFavorite(r.Context(), sess.Username, productID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// startSession issues a session and sets the cookie.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *domain.User) {
	sess, err := h.sessions.Create(r.Context(), user, remoteIP(r))
	if err != nil {
		h.logger.Error().Err(err).Str("username", user.Username).Msg("failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clientInfo resolves the caller's geo origin and parses the user agent.
func (h *AuthHandler) clientInfo(r *http.Request) domain.ClientInfo {
	info := h.geo.Lookup(r.Context(), remoteIP(r))
	ua := useragent.Parse(r.UserAgent())

	return domain.ClientInfo{
		IP:       info.IP,
		Location: info.Location,
		Device:   r.UserAgent(),
		OS:       ua.OS,
		Browser:  ua.Browser,
	}
}

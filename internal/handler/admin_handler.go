package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/service"
)

// AdminHandler handles user moderation and site controls.
type AdminHandler struct {
	admin  *service.AdminService
	audit  *service.AuditService
	logger zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *service.AdminService, audit *service.AuditService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		audit:  audit,
		logger: logger.With().Str("handler", "admin").Logger(),
	}
}

// RegisterRoutes registers moderation routes. Most need an admin;
// profile edits and site-wide switches are owner only.
func (h *AdminHandler) RegisterRoutes(r chi.Router, mw *Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireRole(domain.RoleAdmin, domain.RoleOwner))
		r.Get("/api/admin/users", h.handleListUsers)
		r.Get("/api/admin/logs", h.handleListLogs)
		r.Post("/api/admin/users/{username}/ban", h.handleSetBanned)
		r.Post("/api/admin/users/{username}/shadow-ban", h.handleSetShadowBanned)
		r.Post("/api/admin/users/{username}/vip", h.handleSetVip)
		r.Post("/api/admin/users/{username}/balance", h.handleSetBalance)
		r.Post("/api/admin/users/{username}/ban-device", h.handleBanDevice)
		r.Post("/api/admin/users/{username}/reset-password", h.handleResetPassword)
		r.Post("/api/admin/users/{username}/notify", h.handleNotify)
		r.Delete("/api/admin/users/{username}/log", h.handleClearUserLog)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireRole(domain.RoleOwner))
		r.Put("/api/admin/users/{username}/profile", h.handleUpdateProfile)
		r.Post("/api/admin/lockdown", h.handleSetLockdown)
		r.Post("/api/admin/announcement", h.handleSetAnnouncement)
	})
}

func (h *AdminHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) handleListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.audit.List(r.Context(), domain.MaxLogEntries)
	if err != nil {
		writeError(w, err)
		return
	}
	if logs == nil {
		logs = []*domain.LogEntry{}
	}
	writeJSON(w, http.StatusOK, logs)
}

type flagRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *AdminHandler) handleSetBanned(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	if err := h.admin.SetBanned(r.Context(), chi.URLParam(r, "username"), req.Enabled); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) handleSetShadowBanned(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	if err := h.admin.SetShadowBanned(r.Context(), chi.URLParam(r, "username"), req.Enabled); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) handleSetVip(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	if err := h.admin.SetVip(r.Context(), chi.URLParam(r, "username"), req.Enabled); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type balanceRequest struct {
	Balance float64 `json:"balance"`
}

func (h *AdminHandler) handleSetBalance(w http.ResponseWriter, r *http.Request) {
	var req balanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	if err := h.admin.SetBalance(r.Context(), chi.URLParam(r, "username"), req.Balance); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type banDeviceRequest struct {
	Device string `json:"device"`
}

func (h *AdminHandler) handleBanDevice(w http.ResponseWriter, r *http.Request) {
	var req banDeviceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	if err := h.admin.BanDevice(r.Context(), chi.URLParam(r, "username"), req.Device); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.ResetPassword(r.Context(), chi.URLParam(r, "username")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type notifyRequest struct {
	Text string `json:"text"`
}

func (h *AdminHandler) handleNotify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	if err := h.admin.Notify(r.Context(), chi.URLParam(r, "username"), req.Text); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) handleClearUserLog(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.ClearUserLog(r.Context(), chi.URLParam(r, "username")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type profileRequest struct {
	Role     domain.Role `json:"role,omitempty"`
	Password string      `json:"password,omitempty"`
	Username string      `json:"username,omitempty"`
}

func (h *AdminHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	err := h.admin.UpdateProfile(r.Context(), chi.URLParam(r, "username"), service.UpdateProfileInput{
		Role:     req.Role,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) handleSetLockdown(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	if err := h.admin.SetLockdown(r.Context(), req.Enabled); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type announcementRequest struct {
	Text string `json:"text"`
}

func (h *AdminHandler) handleSetAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req announcementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	if err := h.admin.SetAnnouncement(r.Context(), req.Text); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

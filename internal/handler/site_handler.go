package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/service"
)

// SiteHandler serves site-wide state and the behavior tracking endpoint.
type SiteHandler struct {
	admin    *service.AdminService
	tracking *service.TrackingService
	logger   zerolog.Logger
}

// NewSiteHandler creates a new SiteHandler.
func NewSiteHandler(admin *service.AdminService, tracking *service.TrackingService, logger zerolog.Logger) *SiteHandler {
	return &SiteHandler{
		admin:    admin,
		tracking: tracking,
		logger:   logger.With().Str("handler", "site").Logger(),
	}
}

// RegisterRoutes registers site routes. The site state endpoint is
// public so a locked-down storefront can still render the notice.
func (h *SiteHandler) RegisterRoutes(r chi.Router, mw *Middleware) {
	r.Get("/api/site", h.handleSiteState)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Post("/api/track", h.handleTrack)
	})
}

type siteStateResponse struct {
	Lockdown     bool   `json:"lockdown"`
	Announcement string `json:"announcement,omitempty"`
}

func (h *SiteHandler) handleSiteState(w http.ResponseWriter, r *http.Request) {
	lockdown, err := h.admin.IsLockdown(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	announcement, err := h.admin.Announcement(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, siteStateResponse{
		Lockdown:     lockdown,
		Announcement: announcement,
	})
}

type trackRequest struct {
	Action domain.BehaviorAction `json:"action"`
	Target string                `json:"target"`
}

func (h *SiteHandler) handleTrack(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}

	sess := sessionFrom(r.Context())
	// Search keystrokes are debounced so only the final term of a burst
	// lands in the behavior log.
	if req.Action == domain.ActionSearch {
		h.tracking.TrackSearch(sess.Username, req.Target)
	} else {
		h.tracking.Track(r.Context(), sess.Username, req.Action, req.Target)
	}
	w.WriteHeader(http.StatusAccepted)
}

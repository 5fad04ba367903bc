package handler

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/metrics"
	"github.com/narama3535-tech/fazancloud/internal/service"
	"github.com/narama3535-tech/fazancloud/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// sessionFrom returns the authenticated session, or nil on public routes.
func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}

// Middleware bundles the cross-cutting request handling: session
// resolution, role gating, lockdown and instrumentation.
type Middleware struct {
	sessions   *session.Store
	auth       *service.AuthService
	admin      *service.AdminService
	cookieName string
	logger     zerolog.Logger
}

// NewMiddleware creates the middleware bundle.
func NewMiddleware(sessions *session.Store, auth *service.AuthService, admin *service.AdminService, cookieName string, logger zerolog.Logger) *Middleware {
	return &Middleware{
		sessions:   sessions,
		auth:       auth,
		admin:      admin,
		cookieName: cookieName,
		logger:     logger.With().Str("component", "middleware").Logger(),
	}
}

// Session resolves the session cookie when present. It never rejects;
// RequireAuth does that on protected routes.
func (m *Middleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := m.sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests without a valid session.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionFrom(r.Context()) == nil {
			writeError(w, session.ErrNotFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects sessions below the given privilege. The role is
// re-checked against the stored user so a demotion takes effect on the
// next request, not the next login.
func (m *Middleware) RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := map[domain.Role]bool{}
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessionFrom(r.Context())
			if sess == nil {
				writeError(w, session.ErrNotFound)
				return
			}

			user, err := m.auth.GetUser(r.Context(), sess.Username)
			if err != nil {
				writeError(w, session.ErrNotFound)
				return
			}

			if !allowed[user.Role] {
				writeMessage(w, http.StatusForbidden, "Недостаточно прав")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Lockdown blocks non-owner traffic while lockdown mode is active.
// The health endpoint and the owner console stay reachable so the
// owner can lift it.
func (m *Middleware) Lockdown(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locked, err := m.admin.IsLockdown(r.Context())
		if err != nil {
			m.logger.Error().Err(err).Msg("failed to check lockdown state")
			next.ServeHTTP(w, r)
			return
		}
		if !locked {
			next.ServeHTTP(w, r)
			return
		}

		if sess := sessionFrom(r.Context()); sess != nil {
			user, err := m.auth.GetUser(r.Context(), sess.Username)
			if err == nil && user.Role == domain.RoleOwner {
				next.ServeHTTP(w, r)
				return
			}
		}

		// Login stays open so the owner can get in, and the site state
		// endpoint so the storefront can render the lockdown notice.
		switch r.URL.Path {
		case "/api/auth/login", "/api/site", "/health":
			next.ServeHTTP(w, r)
			return
		}

		writeError(w, service.ErrLockdownActive)
	})
}

// Instrument records request metrics and a structured access log line.
func (m *Middleware) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		elapsed := time.Since(start)

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		m.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", elapsed).
			Str("remote", remoteIP(r)).
			Msg("request")
	})
}

// remoteIP extracts the client address, honoring X-Forwarded-For from
// a fronting proxy.
func remoteIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

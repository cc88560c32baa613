package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"lms/internal/application/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// BrowserCookieName keys the persisted token of one browser.
const BrowserCookieName = "lms_browser"

// browserCookieMaxAge keeps the browser id for a year.
const browserCookieMaxAge = 365 * 24 * 60 * 60

// SecureCookies marks cookies Secure. Set by NewMux in production.
var SecureCookies bool

// Session ties a request to its browser's session manager.
type Session struct {
	BrowserID string
	Manager   *session.Manager
	Registry  *session.Registry // nil outside Auth
}

// Snapshot returns the manager's current state, or an anonymous snapshot when none is attached.
// INVARIANT: Session fields are not mutated
func (s Session) Snapshot() session.Snapshot {
	if s.Manager == nil {
		return session.Snapshot{State: session.StateAnonymous}
	}
	return s.Manager.Snapshot()
}

// Auth returns middleware that attaches the browser's session manager to the request.
// A browser without an id cookie is given one. It does NOT block anonymous requests;
// each view decides what an anonymous visitor sees.
func Auth(registry *session.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			sess := Session{Registry: registry}
			if cookie, err := r.Cookie(BrowserCookieName); err == nil && session.ValidBrowserID(cookie.Value) {
				sess.BrowserID = cookie.Value
				sess.Manager = registry.Get(r.Context(), sess.BrowserID)
			} else {
				id, err := session.NewBrowserID()
				if err != nil {
					slog.Error("internal_error", "error", err.Error())
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
				SetBrowserCookie(w, id)
				sess.BrowserID = id
				sess.Manager = registry.NewAnonymous(id)
			}

			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sess)))
		})
	}
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(Session)
	return sess, ok && sess.Manager != nil
}

// SetBrowserCookie sets the browser id cookie on the response.
func SetBrowserCookie(w http.ResponseWriter, browserID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     BrowserCookieName,
		Value:    browserID,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   browserCookieMaxAge,
	})
}

// ContextWithSession returns a context with the given session set.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

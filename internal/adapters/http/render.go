package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"lms/internal/adapters/http/middleware"
	"lms/internal/adapters/lmsapi"
	"lms/internal/application/session"
	"lms/internal/domain/course"
	"lms/internal/domain/user"
)

//go:embed templates/*.html
var templateFS embed.FS

var errNoSession = errors.New("no session attached to request")

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// viewer returns the browser's session state, anonymous when no session is attached.
func viewer(r *http.Request) session.Snapshot {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		return session.Snapshot{State: session.StateAnonymous}
	}
	return sess.Snapshot()
}

// viewerUser returns the signed-in profile, or the zero user.
func viewerUser(snap session.Snapshot) user.User {
	if snap.Profile == nil {
		return user.User{}
	}
	return *snap.Profile
}

// noteAPIError demotes the browser to anonymous when the API rejected its token.
func noteAPIError(r *http.Request, token string, err error) {
	if !lmsapi.IsUnauthorized(err) {
		return
	}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		sess.Manager.Invalidate(r.Context(), token)
	}
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

// renderTemplateStatus renders templateName inside the layout with the given status.
// The page is rendered to a buffer first so a template failure never sends a partial page.
func renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	// read after the handler ran so a demotion during the view is reflected in the nav
	snap := viewer(r)

	funcMap := template.FuncMap{
		"csrfField":      func() template.HTML { return csrf.TemplateField(r) },
		"isLoggedIn":     snap.IsAuthenticated,
		"isInstructor":   snap.IsInstructor,
		"currentUser":    func() user.User { return viewerUser(snap) },
		"navLinks":       func() []NavLink { return NavLinks(snap.Profile) },
		"renderMarkdown": renderMarkdown,
		"embedURL":       course.EmbedURL,
		"isVideo":        func(kind string) bool { return kind == course.KindVideo },
		"add":            func(a, b int) int { return a + b },
		"ms":             func(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) },
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// accessDenied renders the shared access-denied page.
func accessDenied(w http.ResponseWriter, r *http.Request, message string) {
	renderTemplateStatus(w, r, http.StatusForbidden, "denied.html", map[string]any{
		"Message": message,
	})
}

package web

import (
	"net/http"

	"lms/internal/adapters/http/middleware"
)

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if viewer(r).IsAuthenticated() {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok || sess.Registry == nil {
		internalError(w, errNoSession)
		return
	}

	// The browser is signed in under a fresh id; the one it presented is discarded
	email := r.FormValue("email")
	browserID, result := sess.Registry.Login(r.Context(), sess.BrowserID, email, r.FormValue("password"))
	if !result.Success {
		renderTemplateStatus(w, r, http.StatusUnauthorized, "login.html", map[string]any{
			"Email": email,
			"Error": result.Message,
		})
		return
	}
	middleware.SetBrowserCookie(w, browserID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		sess.Manager.Logout(r.Context())
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

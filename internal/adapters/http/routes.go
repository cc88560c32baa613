package web

import "net/http"

// registerRoutes adds every page route to mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handleHome)
	mux.HandleFunc("GET /login", handleLogin)
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("POST /logout", handleLogout)

	mux.HandleFunc("GET /courses", handleCourses)
	mux.HandleFunc("GET /courses/create", handleCreateCourse)
	mux.HandleFunc("POST /courses/create", handleCreateCourse)
	mux.HandleFunc("GET /courses/{id}", handleCourseDetail)
	mux.HandleFunc("POST /courses/{id}/enroll", handleEnroll)
	mux.HandleFunc("GET /courses/{id}/edit", handleEditCourse)
	mux.HandleFunc("POST /courses/{id}/edit", handleEditCourse)
	mux.HandleFunc("GET /courses/{id}/delete", handleDeleteCourse)
	mux.HandleFunc("POST /courses/{id}/delete", handleDeleteCourse)

	mux.HandleFunc("GET /dashboard", handleDashboard)
	mux.HandleFunc("GET /admin/users", handleAdminUsers)
	mux.HandleFunc("GET /admin/perf", handleAdminPerf)
	mux.HandleFunc("GET /upload", handleUpload)
	mux.HandleFunc("POST /upload", handleUpload)
}

package web

import (
	"net/http"

	"lms/internal/application/projections"
)

const msgDashboardLogin = "Please log in to view your dashboard."

// handleDashboard handles GET /dashboard
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap := viewer(r)
	if !snap.IsAuthenticated() {
		renderTemplate(w, r, "dashboard.html", map[string]any{"LoginRequired": msgDashboardLogin})
		return
	}

	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{
		Token:  snap.Token,
		Viewer: viewerUser(snap),
	}, projections.GetDashboardDeps{
		Courses:     api,
		Enrollments: api,
	})
	data := map[string]any{
		"Profile":   result.Profile,
		"IsStudent": result.Profile.IsStudent(),
		"Courses":   result.EnrolledCourses,
	}
	if err != nil {
		noteAPIError(r, snap.Token, err)
		data["Error"] = projections.MsgDashboardFailed
	}
	renderTemplate(w, r, "dashboard.html", data)
}

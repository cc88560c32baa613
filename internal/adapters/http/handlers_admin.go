package web

import (
	"errors"
	"net/http"
	"time"

	"lms/internal/adapters/http/perf"
	"lms/internal/application/listutil"
	"lms/internal/application/projections"
	"lms/internal/domain/course"
)

const msgAdminDenied = "Access Denied. You do not have permission to view this page."

// perfWindow is how far back the perf page aggregates.
const perfWindow = time.Hour

// perfTopN is the length of each slowest-N list.
const perfTopN = 15

// timeNow is a variable for testability.
var timeNow = time.Now

// handleAdminUsers handles GET /admin/users
func handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	snap := viewer(r)
	result, err := projections.QueryGetUserList(r.Context(), projections.GetUserListQuery{
		Token:  snap.Token,
		Viewer: viewerUser(snap),
		List:   listutil.ParseListParams(r.URL.Query(), projections.UserSortColumns),
	}, projections.GetUserListDeps{Users: api})
	if errors.Is(err, course.ErrNotInstructor) {
		accessDenied(w, r, msgAdminDenied)
		return
	}
	data := map[string]any{
		"Users":    result.Users,
		"Page":     result.Page,
		"List":     result.List,
		"PerPages": listutil.PerPageOptions,
	}
	if err != nil {
		noteAPIError(r, snap.Token, err)
		data["Error"] = projections.MsgUsersFailed
	}
	renderTemplate(w, r, "admin_users.html", data)
}

// handleAdminPerf handles GET /admin/perf: latency of pages, token queries and API calls.
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if !viewer(r).IsInstructor() {
		accessDenied(w, r, msgAdminDenied)
		return
	}
	var snap perf.Snapshot
	if perfCollector != nil {
		snap = perfCollector.Snapshot(timeNow().Add(-perfWindow), perfTopN)
	}
	renderTemplate(w, r, "admin_perf.html", map[string]any{
		"Perf":   snap,
		"Window": perfWindow.String(),
	})
}

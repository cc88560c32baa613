package web

import (
	"net/http"

	"lms/internal/adapters/lmsapi"
	"lms/internal/application/orchestrators"
	"lms/internal/application/projections"
	"lms/internal/domain/course"
)

// catalogPage loads the course list for the layout's catalog block.
func catalogPage(r *http.Request) map[string]any {
	snap := viewer(r)
	data := map[string]any{"Courses": []course.Course{}}
	if !snap.IsAuthenticated() {
		data["LoginRequired"] = projections.MsgCatalogLogin
		return data
	}
	result, err := projections.QueryGetCatalog(r.Context(), projections.GetCatalogQuery{Token: snap.Token}, projections.GetCatalogDeps{
		Courses: api,
	})
	if err != nil {
		noteAPIError(r, snap.Token, err)
		if lmsapi.IsTransport(err) {
			data["Error"] = projections.MsgCatalogTrouble
		} else {
			data["Error"] = projections.MsgCatalogFailed
		}
		return data
	}
	data["Courses"] = result.Courses
	return data
}

// handleHome handles GET /: hero plus the catalog.
func handleHome(w http.ResponseWriter, r *http.Request) {
	data := catalogPage(r)
	data["Hero"] = true
	renderTemplate(w, r, "courses.html", data)
}

// handleCourses handles GET /courses
func handleCourses(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "courses.html", catalogPage(r))
}

// handleCourseDetail handles GET /courses/{id}
func handleCourseDetail(w http.ResponseWriter, r *http.Request) {
	renderCourseDetail(w, r, "")
}

// handleEnroll handles POST /courses/{id}/enroll and re-renders the detail page with the outcome.
func handleEnroll(w http.ResponseWriter, r *http.Request) {
	snap := viewer(r)
	err := orchestrators.ExecuteEnroll(r.Context(), orchestrators.EnrollInput{
		Token:    snap.Token,
		CourseID: r.PathValue("id"),
	}, orchestrators.EnrollDeps{Enrollments: api})
	if err != nil {
		noteAPIError(r, snap.Token, err)
	}
	renderCourseDetail(w, r, orchestrators.EnrollMessage(err))
}

func renderCourseDetail(w http.ResponseWriter, r *http.Request, message string) {
	snap := viewer(r)
	data := map[string]any{"Message": message}

	result, err := projections.QueryGetCourseDetail(r.Context(), projections.GetCourseDetailQuery{
		Token:    snap.Token,
		CourseID: r.PathValue("id"),
		Viewer:   viewerUser(snap),
	}, projections.GetCourseDetailDeps{Courses: api})
	if err != nil {
		noteAPIError(r, snap.Token, err)
		status := http.StatusBadGateway
		if lmsapi.StatusCode(err) == http.StatusNotFound {
			status = http.StatusNotFound
		}
		if lmsapi.IsTransport(err) {
			data["Error"] = projections.MsgCourseTrouble
		} else {
			data["Error"] = projections.MsgCourseFailed
		}
		renderTemplateStatus(w, r, status, "course_detail.html", data)
		return
	}
	data["Course"] = result.Course
	data["CanEnroll"] = result.CanEnroll
	data["CanEdit"] = result.CanEdit
	renderTemplate(w, r, "course_detail.html", data)
}

package web

import (
	"errors"
	"net/http"

	"lms/internal/adapters/lmsapi"
	"lms/internal/application/orchestrators"
	"lms/internal/application/projections"
	"lms/internal/application/session"
	"lms/internal/domain/course"
	"lms/internal/domain/user"
)

// Access-denied texts of the authoring views.
const (
	msgCreateDenied = "Access Denied. Only instructors can create courses."
	msgEditDenied   = "Access Denied. You are not the instructor of this course."
)

// editorPage is the data of editor.html.
type editorPage struct {
	Heading      string
	FormAction   string
	SaveLabel    string
	CourseID     string
	Draft        course.Draft
	Lessons      []editorLesson
	Errors       []string
	Students     []user.User
	RosterError  string
	ShowRoster   bool
	ContentKinds []string
}

func newEditorPage(d course.Draft) editorPage {
	p := editorPage{
		Heading:      "Create a New Course",
		FormAction:   "/courses/create",
		SaveLabel:    "Create Course",
		CourseID:     d.CourseID,
		Draft:        d,
		Lessons:      editorLessons(d),
		ContentKinds: []string{course.KindText, course.KindVideo},
	}
	if d.CourseID != "" {
		p.Heading = "Edit Course"
		p.FormAction = "/courses/" + d.CourseID + "/edit"
		p.SaveLabel = "Save Changes"
		p.ShowRoster = true
	}
	return p
}

// handleCreateCourse handles GET (empty editor) and POST (editor actions) for /courses/create
func handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	snap := viewer(r)
	if !snap.IsInstructor() {
		accessDenied(w, r, msgCreateDenied)
		return
	}
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "editor.html", newEditorPage(course.NewDraft()))
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	draft := decodeDraft(r.PostForm, "")
	submitEditor(w, r, snap, draft, nil)
}

// handleEditCourse handles GET (load course) and POST (editor actions) for /courses/{id}/edit
func handleEditCourse(w http.ResponseWriter, r *http.Request) {
	snap := viewer(r)
	id := r.PathValue("id")

	loaded, err := projections.QueryGetCourseForEdit(r.Context(), projections.GetCourseForEditQuery{
		Token:    snap.Token,
		CourseID: id,
		Viewer:   viewerUser(snap),
	}, projections.GetCourseForEditDeps{
		Courses:     api,
		Enrollments: api,
		Users:       api,
	})
	if errors.Is(err, course.ErrNotOwner) {
		accessDenied(w, r, msgEditDenied)
		return
	}
	if err != nil {
		noteAPIError(r, snap.Token, err)
		msg := projections.MsgCourseFailed
		if lmsapi.IsTransport(err) {
			msg = projections.MsgCourseTrouble
		}
		renderTemplateStatus(w, r, http.StatusBadGateway, "course_detail.html", map[string]any{"Error": msg})
		return
	}

	if r.Method == http.MethodGet {
		renderTemplate(w, r, "editor.html", withRoster(newEditorPage(loaded.Draft), loaded))
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	draft := decodeDraft(r.PostForm, id)
	submitEditor(w, r, snap, draft, &loaded)
}

func withRoster(p editorPage, loaded projections.GetCourseForEditResult) editorPage {
	p.Students = loaded.Students
	if loaded.RosterFailed {
		p.RosterError = projections.MsgRosterFailed
	}
	return p
}

// submitEditor applies the pressed button to the submitted draft.
// Structural actions re-render the form; save submits the whole tree.
func submitEditor(w http.ResponseWriter, r *http.Request, snap session.Snapshot, draft course.Draft, loaded *projections.GetCourseForEditResult) {
	render := func(status int, errs []string) {
		page := newEditorPage(draft)
		if loaded != nil {
			page = withRoster(page, *loaded)
		}
		page.Errors = errs
		renderTemplateStatus(w, r, status, "editor.html", page)
	}

	act, err := parseAction(r.PostFormValue("action"))
	if err != nil {
		http.Error(w, "Invalid editor action", http.StatusBadRequest)
		return
	}
	if act.Kind != actionSave {
		if err := applyAction(&draft, act); err != nil {
			http.Error(w, "Invalid editor action", http.StatusBadRequest)
			return
		}
		render(http.StatusOK, nil)
		return
	}

	err = orchestrators.ExecuteSaveCourse(r.Context(), orchestrators.SaveCourseInput{
		Token: snap.Token,
		Actor: viewerUser(snap),
		Draft: draft,
	}, orchestrators.SaveCourseDeps{Courses: api})
	if err != nil {
		noteAPIError(r, snap.Token, err)
		fallback := orchestrators.MsgUpdateFailed
		if draft.CourseID == "" {
			fallback = orchestrators.MsgCreateFailed
		}
		render(http.StatusUnprocessableEntity, orchestrators.SaveFailureMessages(err, fallback))
		return
	}

	if draft.CourseID == "" {
		http.Redirect(w, r, "/courses", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/courses/"+draft.CourseID, http.StatusSeeOther)
}

// handleDeleteCourse handles GET (confirmation page) and POST (delete) for /courses/{id}/delete
func handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	snap := viewer(r)
	id := r.PathValue("id")

	detail, err := projections.QueryGetCourseDetail(r.Context(), projections.GetCourseDetailQuery{
		Token:    snap.Token,
		CourseID: id,
		Viewer:   viewerUser(snap),
	}, projections.GetCourseDetailDeps{Courses: api})
	if err != nil {
		noteAPIError(r, snap.Token, err)
		renderTemplateStatus(w, r, http.StatusBadGateway, "course_detail.html", map[string]any{"Error": projections.MsgCourseFailed})
		return
	}
	if !detail.CanEdit {
		accessDenied(w, r, msgEditDenied)
		return
	}

	data := map[string]any{"Course": detail.Course}
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "delete_confirm.html", data)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	err = orchestrators.ExecuteDeleteCourse(r.Context(), orchestrators.DeleteCourseInput{
		Token:     snap.Token,
		CourseID:  id,
		Confirmed: r.PostFormValue("confirm") == "yes",
	}, orchestrators.DeleteCourseDeps{Courses: api})
	if errors.Is(err, orchestrators.ErrNotConfirmed) {
		http.Redirect(w, r, "/courses/"+id+"/edit", http.StatusSeeOther)
		return
	}
	if err != nil {
		noteAPIError(r, snap.Token, err)
		data["Error"] = lmsapi.MessageOr(err, orchestrators.MsgDeleteFailed)
		renderTemplateStatus(w, r, http.StatusBadGateway, "delete_confirm.html", data)
		return
	}
	http.Redirect(w, r, "/courses", http.StatusSeeOther)
}

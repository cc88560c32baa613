package projections

import (
	"context"
	"fmt"

	"lms/internal/domain/course"
	"lms/internal/domain/user"
)

// GetCourseForEditQuery carries query parameters.
type GetCourseForEditQuery struct {
	Token    string
	CourseID string
	Viewer   user.User
}

// GetCourseForEditResult carries the query result.
type GetCourseForEditResult struct {
	Draft        course.Draft
	Students     []user.User
	RosterFailed bool
}

// GetCourseForEditDeps holds dependencies for GetCourseForEdit.
type GetCourseForEditDeps struct {
	Courses     CourseReader
	Enrollments EnrollmentReader
	Users       UserReader
}

// QueryGetCourseForEdit loads an editable draft of a course plus its roster.
// PRE: CourseID is non-empty
// POST: Returns course.ErrNotOwner when the viewer is not the course's instructor
// INVARIANT: A roster failure never hides the draft
func QueryGetCourseForEdit(ctx context.Context, query GetCourseForEditQuery, deps GetCourseForEditDeps) (GetCourseForEditResult, error) {
	c, err := deps.Courses.GetCourse(ctx, query.Token, query.CourseID)
	if err != nil {
		return GetCourseForEditResult{}, fmt.Errorf("get course %s: %w", query.CourseID, err)
	}
	if !c.IsOwnedBy(query.Viewer.ID) {
		return GetCourseForEditResult{}, course.ErrNotOwner
	}

	res := GetCourseForEditResult{Draft: course.DraftFromCourse(c)}
	roster, err := QueryGetCourseRoster(ctx, GetCourseRosterQuery{Token: query.Token, CourseID: c.ID}, GetCourseRosterDeps{
		Enrollments: deps.Enrollments,
		Users:       deps.Users,
	})
	if err != nil {
		res.RosterFailed = true
		return res, nil
	}
	res.Students = roster.Students
	return res, nil
}

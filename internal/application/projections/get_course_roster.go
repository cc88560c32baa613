package projections

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"lms/internal/domain/user"
)

// MsgRosterFailed is shown when a course's enrollments cannot be listed.
const MsgRosterFailed = "Failed to load enrolled students."

// GetCourseRosterQuery carries query parameters.
type GetCourseRosterQuery struct {
	Token    string
	CourseID string
}

// GetCourseRosterResult carries the query result.
type GetCourseRosterResult struct {
	Students []user.User
}

// GetCourseRosterDeps holds dependencies for GetCourseRoster.
type GetCourseRosterDeps struct {
	Enrollments EnrollmentReader
	Users       UserReader
}

// QueryGetCourseRoster resolves the students enrolled in a course.
// PRE: CourseID is non-empty
// POST: Students keep enrollment order; users that fail to load are dropped
// INVARIANT: Only a failed enrollment listing is reported as an error
func QueryGetCourseRoster(ctx context.Context, query GetCourseRosterQuery, deps GetCourseRosterDeps) (GetCourseRosterResult, error) {
	list, err := deps.Enrollments.ListCourseEnrollments(ctx, query.Token, query.CourseID)
	if err != nil {
		return GetCourseRosterResult{}, fmt.Errorf("list enrollments of %s: %w", query.CourseID, err)
	}

	found := make([]*user.User, len(list))
	var g errgroup.Group
	g.SetLimit(fanOutLimit)
	for i, e := range list {
		g.Go(func() error {
			u, err := deps.Users.GetUser(ctx, query.Token, e.UserID)
			if err != nil || u.ID == "" {
				return nil
			}
			found[i] = &u
			return nil
		})
	}
	_ = g.Wait()

	students := make([]user.User, 0, len(list))
	for _, u := range found {
		if u != nil {
			students = append(students, *u)
		}
	}
	return GetCourseRosterResult{Students: students}, nil
}

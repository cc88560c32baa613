package projections

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"lms/internal/domain/course"
	"lms/internal/domain/enrollment"
	"lms/internal/domain/user"
)

// MsgDashboardFailed is shown when any enrolled course fails to load.
const MsgDashboardFailed = "Failed to load enrolled courses."

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Token  string
	Viewer user.User
}

// GetDashboardResult carries the output of the dashboard projection.
type GetDashboardResult struct {
	Profile         user.User
	EnrolledCourses []course.Course // students only
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	Courses     CourseReader
	Enrollments EnrollmentReader
}

// QueryGetDashboard builds the viewer's dashboard.
// PRE: Viewer is the signed-in user
// POST: Students get the courses they are enrolled in, in enrollment order
// INVARIANT: A failed course lookup is reported as the error while every course that
// did load is still returned
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (GetDashboardResult, error) {
	res := GetDashboardResult{Profile: query.Viewer, EnrolledCourses: []course.Course{}}
	if !query.Viewer.IsStudent() {
		return res, nil
	}

	list, err := deps.Enrollments.ListUserEnrollments(ctx, query.Token, query.Viewer.ID)
	if err != nil {
		return res, fmt.Errorf("list enrollments of %s: %w", query.Viewer.ID, err)
	}

	ids := enrollment.CourseIDs(list)
	loaded := make([]*course.Course, len(ids))
	var g errgroup.Group
	g.SetLimit(fanOutLimit)
	for i, id := range ids {
		g.Go(func() error {
			c, err := deps.Courses.GetCourse(ctx, query.Token, id)
			if err != nil {
				return fmt.Errorf("get course %s: %w", id, err)
			}
			loaded[i] = &c
			return nil
		})
	}
	err = g.Wait()

	for _, c := range loaded {
		if c != nil {
			res.EnrolledCourses = append(res.EnrolledCourses, *c)
		}
	}
	return res, err
}

package projections

import (
	"context"
	"fmt"

	"lms/internal/domain/course"
	"lms/internal/domain/user"
)

// Course detail messages
const (
	MsgCourseFailed  = "Failed to fetch course details"
	MsgCourseTrouble = "An error occurred"
)

// GetCourseDetailQuery carries query parameters.
type GetCourseDetailQuery struct {
	Token    string
	CourseID string
	Viewer   user.User
}

// GetCourseDetailResult carries the query result.
type GetCourseDetailResult struct {
	Course    course.Course
	CanEnroll bool // viewer is a student
	CanEdit   bool // viewer is the owning instructor
}

// GetCourseDetailDeps holds dependencies for GetCourseDetail.
type GetCourseDetailDeps struct {
	Courses CourseReader
}

// QueryGetCourseDetail fetches a course for display.
// PRE: CourseID is non-empty
// POST: Every lesson's content is sorted by order
func QueryGetCourseDetail(ctx context.Context, query GetCourseDetailQuery, deps GetCourseDetailDeps) (GetCourseDetailResult, error) {
	c, err := deps.Courses.GetCourse(ctx, query.Token, query.CourseID)
	if err != nil {
		return GetCourseDetailResult{}, fmt.Errorf("get course %s: %w", query.CourseID, err)
	}
	c.SortContent()
	return GetCourseDetailResult{
		Course:    c,
		CanEnroll: query.Viewer.IsStudent(),
		CanEdit:   query.Viewer.IsInstructor() && c.IsOwnedBy(query.Viewer.ID),
	}, nil
}

package projections

import (
	"context"

	"lms/internal/domain/course"
	"lms/internal/domain/enrollment"
	"lms/internal/domain/user"
)

// fanOutLimit caps concurrent API lookups per page.
const fanOutLimit = 8

// CourseReader interface for course queries.
type CourseReader interface {
	ListCourses(ctx context.Context, token string) ([]course.Course, error)
	GetCourse(ctx context.Context, token, id string) (course.Course, error)
}

// UserReader interface for user queries.
type UserReader interface {
	GetUser(ctx context.Context, token, id string) (user.User, error)
	ListUsers(ctx context.Context, token string) ([]user.User, error)
}

// EnrollmentReader interface for enrollment queries.
type EnrollmentReader interface {
	ListCourseEnrollments(ctx context.Context, token, courseID string) ([]enrollment.Enrollment, error)
	ListUserEnrollments(ctx context.Context, token, userID string) ([]enrollment.Enrollment, error)
}

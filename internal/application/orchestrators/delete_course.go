package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// MsgDeleteFailed is shown when the API refuses a delete without a reason.
const MsgDeleteFailed = "Failed to delete course"

// ErrNotConfirmed is returned when a delete was not explicitly confirmed.
var ErrNotConfirmed = errors.New("course deletion was not confirmed")

// CourseDeleter defines the API call needed by DeleteCourse.
type CourseDeleter interface {
	DeleteCourse(ctx context.Context, token, id string) error
}

// DeleteCourseInput carries input for the delete course orchestrator.
type DeleteCourseInput struct {
	Token     string
	CourseID  string
	Confirmed bool
}

// DeleteCourseDeps holds dependencies for DeleteCourse.
type DeleteCourseDeps struct {
	Courses CourseDeleter
}

// ExecuteDeleteCourse deletes a course after explicit confirmation.
// PRE: CourseID is non-empty
// POST: No API call is made unless Confirmed is true
func ExecuteDeleteCourse(ctx context.Context, input DeleteCourseInput, deps DeleteCourseDeps) error {
	if !input.Confirmed {
		return ErrNotConfirmed
	}
	if err := deps.Courses.DeleteCourse(ctx, input.Token, input.CourseID); err != nil {
		return fmt.Errorf("delete course %s: %w", input.CourseID, err)
	}
	slog.Info("course_event", "event", "deleted", "course", input.CourseID)
	return nil
}

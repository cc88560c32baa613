package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"lms/internal/adapters/lmsapi"
)

// Enrollment messages
const (
	MsgEnrolled      = "Successfully enrolled!"
	MsgEnrollFailed  = "Enrollment failed"
	MsgEnrollTrouble = "An error occurred during enrollment"
)

// Enroller defines the API call needed by Enroll.
type Enroller interface {
	Enroll(ctx context.Context, token, courseID string) error
}

// EnrollInput carries input for the enroll orchestrator.
type EnrollInput struct {
	Token    string
	CourseID string
}

// EnrollDeps holds dependencies for Enroll.
type EnrollDeps struct {
	Enrollments Enroller
}

// ExecuteEnroll enrolls the token's user in a course.
// PRE: CourseID is non-empty
// POST: Returns nil once the API has recorded the enrollment
func ExecuteEnroll(ctx context.Context, input EnrollInput, deps EnrollDeps) error {
	if err := deps.Enrollments.Enroll(ctx, input.Token, input.CourseID); err != nil {
		slog.Info("enroll_event", "event", "failed", "course", input.CourseID, "status", lmsapi.StatusCode(err))
		return fmt.Errorf("enroll in %s: %w", input.CourseID, err)
	}
	slog.Info("enroll_event", "event", "enrolled", "course", input.CourseID)
	return nil
}

// EnrollMessage maps the outcome of ExecuteEnroll to the text shown under the button.
func EnrollMessage(err error) string {
	switch {
	case err == nil:
		return MsgEnrolled
	case lmsapi.IsTransport(err):
		return MsgEnrollTrouble
	default:
		return lmsapi.MessageOr(err, MsgEnrollFailed)
	}
}

package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lms/internal/adapters/lmsapi"
	"lms/internal/application/validation"
	"lms/internal/domain/course"
	"lms/internal/domain/user"
)

// Save fallbacks used when the API gives no reason.
const (
	MsgCreateFailed = "Failed to create course"
	MsgUpdateFailed = "Failed to update course"
)

// CourseWriter defines the API calls needed by SaveCourse.
type CourseWriter interface {
	CreateCourse(ctx context.Context, token string, p course.Payload) error
	UpdateCourse(ctx context.Context, token, id string, p course.Payload) error
}

// SaveCourseInput carries input for the save course orchestrator.
type SaveCourseInput struct {
	Token string
	Actor user.User
	Draft course.Draft // Draft.CourseID empty means create
}

// SaveCourseDeps holds dependencies for SaveCourse.
type SaveCourseDeps struct {
	Courses CourseWriter
}

// ExecuteSaveCourse validates a draft and submits it as one replace-style payload.
// PRE: Actor is the signed-in user
// POST: On success the API holds the draft's title, description and lesson tree
// INVARIANT: The draft itself is never mutated, so a failed save keeps every edit
func ExecuteSaveCourse(ctx context.Context, input SaveCourseInput, deps SaveCourseDeps) error {
	if !input.Actor.IsInstructor() {
		return course.ErrNotInstructor
	}

	payload := input.Draft.Payload()
	if err := validation.Struct(payload); err != nil {
		return err
	}

	if input.Draft.CourseID == "" {
		if err := deps.Courses.CreateCourse(ctx, input.Token, payload); err != nil {
			slog.Info("course_event", "event", "create_failed", "actor", input.Actor.ID, "status", lmsapi.StatusCode(err))
			return fmt.Errorf("create course: %w", err)
		}
		slog.Info("course_event", "event", "created", "actor", input.Actor.ID, "title", payload.Title, "lessons", len(payload.Lessons))
		return nil
	}

	if err := deps.Courses.UpdateCourse(ctx, input.Token, input.Draft.CourseID, payload); err != nil {
		slog.Info("course_event", "event", "update_failed", "actor", input.Actor.ID, "course", input.Draft.CourseID, "status", lmsapi.StatusCode(err))
		return fmt.Errorf("update course %s: %w", input.Draft.CourseID, err)
	}
	slog.Info("course_event", "event", "updated", "actor", input.Actor.ID, "course", input.Draft.CourseID, "lessons", len(payload.Lessons))
	return nil
}

// SaveFailureMessages turns a failed save into the lines shown above the form.
func SaveFailureMessages(err error, fallback string) []string {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return verrs.Messages()
	}
	return []string{lmsapi.MessageOr(err, fallback)}
}

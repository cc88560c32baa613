package course

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Content kinds
const (
	KindText  = "text"
	KindVideo = "video"
)

// Temporary id prefixes for lessons and content created in the editor.
const (
	TempLessonPrefix  = "new-lesson-"
	TempContentPrefix = "new-content-"
)

// Access errors
var (
	ErrNotInstructor = errors.New("only instructors can author courses")
	ErrNotOwner      = errors.New("not the instructor of this course")
)

// Course is an authored course with its lesson tree.
type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	InstructorID string    `json:"instructor_id"`
	Lessons      []Lesson  `json:"lessons"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Lesson groups ordered content items.
type Lesson struct {
	ID       string    `json:"id,omitempty"`
	Title    string    `json:"title" validate:"max=200"`
	CourseID string    `json:"course_id,omitempty"`
	Content  []Content `json:"content" validate:"dive"`
}

// Content is a single text or video item of a lesson.
// INVARIANT: Order values within a lesson are 0..n-1 once normalized.
type Content struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title" validate:"max=200"`
	Kind        string `json:"type" validate:"oneof=text video"`
	TextContent string `json:"text_content,omitempty"`
	VideoURL    string `json:"video_url,omitempty" validate:"omitempty,url"`
	Order       int    `json:"order"`
	LessonID    string `json:"lesson_id,omitempty"`
}

// Payload is the replace-style body of POST /courses/ and PUT /courses/:id/.
type Payload struct {
	Title       string   `json:"title" validate:"notblank,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Lessons     []Lesson `json:"lessons" validate:"dive"`
}

// IsOwnedBy reports whether userID is the course's instructor.
// INVARIANT: Course fields are not mutated
func (c Course) IsOwnedBy(userID string) bool {
	return userID != "" && c.InstructorID == userID
}

// SortContent orders every lesson's content by its Order field.
// POST: each lesson's content is sorted ascending by Order (stable)
func (c *Course) SortContent() {
	sortLessons(c.Lessons)
}

func sortLessons(lessons []Lesson) {
	for i := range lessons {
		content := lessons[i].Content
		sort.SliceStable(content, func(a, b int) bool {
			return content[a].Order < content[b].Order
		})
	}
}

// IsTemporaryID reports whether id was assigned by the editor and never persisted.
func IsTemporaryID(id string) bool {
	return strings.HasPrefix(id, TempLessonPrefix) || strings.HasPrefix(id, TempContentPrefix)
}

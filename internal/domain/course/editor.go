package course

import (
	"errors"

	"github.com/google/uuid"
)

// Field names accepted by SetContentField.
const (
	FieldTitle       = "title"
	FieldKind        = "type"
	FieldTextContent = "text_content"
	FieldVideoURL    = "video_url"
)

// Direction is a reorder direction.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Editor errors
var (
	ErrLessonIndex  = errors.New("lesson index out of range")
	ErrContentIndex = errors.New("content index out of range")
	ErrUnknownField = errors.New("unknown content field")
	ErrDirection    = errors.New("direction must be up or down")
)

// newID is a variable for testability.
var newID = func() string { return uuid.New().String() }

// Draft is the in-memory copy of a course being authored.
// It is mutated locally and submitted as a whole on save.
type Draft struct {
	CourseID    string
	Title       string
	Description string
	Lessons     []Lesson
}

// NewDraft returns the starting draft of the create view: one empty lesson.
func NewDraft() Draft {
	d := Draft{}
	d.AddLesson()
	return d
}

// DraftFromCourse copies a fetched course into an editable draft.
// POST: content of every lesson is sorted by Order; the course is not aliased
func DraftFromCourse(c Course) Draft {
	d := Draft{
		CourseID:    c.ID,
		Title:       c.Title,
		Description: c.Description,
		Lessons:     cloneLessons(c.Lessons),
	}
	sortLessons(d.Lessons)
	return d
}

// AddLesson appends an empty lesson with a temporary id.
// POST: len(Lessons) grows by one; the new lesson has no content
func (d *Draft) AddLesson() {
	d.Lessons = append(d.Lessons, Lesson{
		ID:       TempLessonPrefix + newID(),
		CourseID: d.CourseID,
		Content:  []Content{},
	})
}

// RemoveLesson deletes the lesson at index li.
// PRE: 0 <= li < len(Lessons)
// POST: remaining lessons keep their ids and relative order
func (d *Draft) RemoveLesson(li int) error {
	if li < 0 || li >= len(d.Lessons) {
		return ErrLessonIndex
	}
	d.Lessons = append(d.Lessons[:li], d.Lessons[li+1:]...)
	return nil
}

// SetLessonTitle sets the title of the lesson at index li.
func (d *Draft) SetLessonTitle(li int, title string) error {
	if li < 0 || li >= len(d.Lessons) {
		return ErrLessonIndex
	}
	d.Lessons[li].Title = title
	return nil
}

// AddContent appends a text item to the lesson at index li.
// PRE: 0 <= li < len(Lessons)
// POST: new item is last, Kind is text, Order equals the previous content count
func (d *Draft) AddContent(li int) error {
	if li < 0 || li >= len(d.Lessons) {
		return ErrLessonIndex
	}
	lesson := &d.Lessons[li]
	lesson.Content = append(lesson.Content, Content{
		ID:       TempContentPrefix + newID(),
		Kind:     KindText,
		Order:    len(lesson.Content),
		LessonID: lesson.ID,
	})
	return nil
}

// RemoveContent deletes the item at index ci of lesson li.
// POST: remaining Order values are left as they were
func (d *Draft) RemoveContent(li, ci int) error {
	content, err := d.content(li)
	if err != nil {
		return err
	}
	if ci < 0 || ci >= len(content) {
		return ErrContentIndex
	}
	d.Lessons[li].Content = append(content[:ci], content[ci+1:]...)
	return nil
}

// SetContentField sets one field of an item.
// Setting the kind to text clears the video URL; setting it to video clears the text body.
// PRE: field is one of the Field* constants
func (d *Draft) SetContentField(li, ci int, field, value string) error {
	content, err := d.content(li)
	if err != nil {
		return err
	}
	if ci < 0 || ci >= len(content) {
		return ErrContentIndex
	}
	item := &content[ci]
	switch field {
	case FieldTitle:
		item.Title = value
	case FieldTextContent:
		item.TextContent = value
	case FieldVideoURL:
		item.VideoURL = value
	case FieldKind:
		item.Kind = value
		switch value {
		case KindText:
			item.VideoURL = ""
		case KindVideo:
			item.TextContent = ""
		}
	default:
		return ErrUnknownField
	}
	return nil
}

// MoveContent swaps item ci of lesson li with its neighbour in direction dir
// and renumbers the lesson.
// POST: no swap at the boundary; Order == index for every item of the lesson
func (d *Draft) MoveContent(li, ci int, dir Direction) error {
	content, err := d.content(li)
	if err != nil {
		return err
	}
	if ci < 0 || ci >= len(content) {
		return ErrContentIndex
	}
	switch dir {
	case Up:
		if ci > 0 {
			content[ci-1], content[ci] = content[ci], content[ci-1]
		}
	case Down:
		if ci < len(content)-1 {
			content[ci+1], content[ci] = content[ci], content[ci+1]
		}
	default:
		return ErrDirection
	}
	renumber(content)
	return nil
}

// Payload builds the save body.
// POST: orders are normalized to indices, temporary ids are dropped, the draft is not mutated
func (d Draft) Payload() Payload {
	lessons := cloneLessons(d.Lessons)
	for i := range lessons {
		l := &lessons[i]
		if IsTemporaryID(l.ID) {
			l.ID = ""
		}
		for j := range l.Content {
			c := &l.Content[j]
			if IsTemporaryID(c.ID) {
				c.ID = ""
			}
			if IsTemporaryID(c.LessonID) {
				c.LessonID = ""
			}
		}
		renumber(l.Content)
	}
	return Payload{
		Title:       d.Title,
		Description: d.Description,
		Lessons:     lessons,
	}
}

func (d *Draft) content(li int) ([]Content, error) {
	if li < 0 || li >= len(d.Lessons) {
		return nil, ErrLessonIndex
	}
	return d.Lessons[li].Content, nil
}

func renumber(content []Content) {
	for i := range content {
		content[i].Order = i
	}
}

func cloneLessons(in []Lesson) []Lesson {
	out := make([]Lesson, len(in))
	for i, l := range in {
		out[i] = l
		out[i].Content = append([]Content{}, l.Content...)
	}
	return out
}

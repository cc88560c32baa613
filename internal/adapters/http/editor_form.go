package web

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"lms/internal/domain/course"
)

// Form limits keep a crafted submission from allocating unbounded drafts.
const (
	maxFormLessons = 200
	maxFormItems   = 500
)

// Editor button actions. Indexed actions carry ":lesson" or ":lesson:item".
const (
	actionSave          = "save"
	actionRefresh       = "refresh"
	actionAddLesson     = "add_lesson"
	actionRemoveLesson  = "remove_lesson"
	actionAddContent    = "add_content"
	actionRemoveContent = "remove_content"
	actionMoveUp        = "move_up"
	actionMoveDown      = "move_down"
)

var errBadAction = errors.New("invalid editor action")

// editorAction is a parsed editor button press.
type editorAction struct {
	Kind    string
	Lesson  int
	Content int
}

// parseAction reads the value of the pressed button.
// An empty value (form submitted with Enter) counts as refresh.
func parseAction(raw string) (editorAction, error) {
	parts := strings.Split(raw, ":")
	a := editorAction{Kind: parts[0]}
	want := 0
	switch a.Kind {
	case "":
		return editorAction{Kind: actionRefresh}, nil
	case actionSave, actionRefresh, actionAddLesson:
	case actionRemoveLesson, actionAddContent:
		want = 1
	case actionRemoveContent, actionMoveUp, actionMoveDown:
		want = 2
	default:
		return editorAction{}, fmt.Errorf("%w: %q", errBadAction, raw)
	}
	if len(parts)-1 != want {
		return editorAction{}, fmt.Errorf("%w: %q", errBadAction, raw)
	}
	idx := make([]int, want)
	for i := range idx {
		n, err := strconv.Atoi(parts[i+1])
		if err != nil || n < 0 {
			return editorAction{}, fmt.Errorf("%w: %q", errBadAction, raw)
		}
		idx[i] = n
	}
	if want > 0 {
		a.Lesson = idx[0]
	}
	if want > 1 {
		a.Content = idx[1]
	}
	return a, nil
}

// applyAction performs a structural edit on the draft. Save and refresh are no-ops here.
func applyAction(d *course.Draft, a editorAction) error {
	switch a.Kind {
	case actionAddLesson:
		d.AddLesson()
		return nil
	case actionRemoveLesson:
		return d.RemoveLesson(a.Lesson)
	case actionAddContent:
		return d.AddContent(a.Lesson)
	case actionRemoveContent:
		return d.RemoveContent(a.Lesson, a.Content)
	case actionMoveUp:
		return d.MoveContent(a.Lesson, a.Content, course.Up)
	case actionMoveDown:
		return d.MoveContent(a.Lesson, a.Content, course.Down)
	}
	return nil
}

func lessonPrefix(li int) string {
	return "lessons." + strconv.Itoa(li) + "."
}

func contentPrefix(li, ci int) string {
	return lessonPrefix(li) + "content." + strconv.Itoa(ci) + "."
}

// formCount reads a non-negative count, clamped to max.
func formCount(form url.Values, key string, max int) int {
	n, err := strconv.Atoi(form.Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return min(n, max)
}

// decodeDraft rebuilds the draft carried by the editor form.
// Each item's kind is applied last so a kind change clears the field of the other kind.
// POST: ids and stored orders round-trip unchanged
func decodeDraft(form url.Values, courseID string) course.Draft {
	d := course.Draft{
		CourseID:    courseID,
		Title:       form.Get("title"),
		Description: form.Get("description"),
	}
	lessons := formCount(form, "lesson_count", maxFormLessons)
	items := 0
	for li := 0; li < lessons; li++ {
		lp := lessonPrefix(li)
		l := course.Lesson{
			ID:       form.Get(lp + "id"),
			Title:    form.Get(lp + "title"),
			CourseID: courseID,
			Content:  []course.Content{},
		}
		n := formCount(form, lp+"content_count", maxFormItems-items)
		items += n
		for ci := 0; ci < n; ci++ {
			cp := contentPrefix(li, ci)
			order, err := strconv.Atoi(form.Get(cp + "order"))
			if err != nil {
				order = ci
			}
			l.Content = append(l.Content, course.Content{
				ID:       form.Get(cp + "id"),
				Kind:     course.KindText,
				Order:    order,
				LessonID: l.ID,
			})
		}
		d.Lessons = append(d.Lessons, l)

		for ci := 0; ci < n; ci++ {
			cp := contentPrefix(li, ci)
			d.SetContentField(li, ci, course.FieldTitle, form.Get(cp+"title"))
			d.SetContentField(li, ci, course.FieldTextContent, form.Get(cp+"text_content"))
			d.SetContentField(li, ci, course.FieldVideoURL, form.Get(cp+"video_url"))
			if kind := form.Get(cp + "type"); kind != "" {
				d.SetContentField(li, ci, course.FieldKind, kind)
			}
		}
	}
	return d
}

// editorItem is one content item as the editor template renders it.
type editorItem struct {
	Index   int
	Prefix  string
	Content course.Content
	First   bool
	Last    bool
}

// editorLesson is one lesson as the editor template renders it.
type editorLesson struct {
	Index  int
	Prefix string
	Lesson course.Lesson
	Items  []editorItem
}

// editorLessons lays out the draft for the editor template.
func editorLessons(d course.Draft) []editorLesson {
	out := make([]editorLesson, 0, len(d.Lessons))
	for li, l := range d.Lessons {
		el := editorLesson{Index: li, Prefix: lessonPrefix(li), Lesson: l}
		for ci, c := range l.Content {
			el.Items = append(el.Items, editorItem{
				Index:   ci,
				Prefix:  contentPrefix(li, ci),
				Content: c,
				First:   ci == 0,
				Last:    ci == len(l.Content)-1,
			})
		}
		out = append(out, el)
	}
	return out
}

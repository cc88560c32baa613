package enrollment

import "time"

// Enrollment links a student to a course they have joined.
type Enrollment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CourseID   string    `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// Request is the body of POST /enrollments/.
type Request struct {
	CourseID string `json:"course_id"`
}

// CourseIDs returns the course ids referenced by the enrollments, in order.
func CourseIDs(list []Enrollment) []string {
	ids := make([]string, 0, len(list))
	for _, e := range list {
		ids = append(ids, e.CourseID)
	}
	return ids
}

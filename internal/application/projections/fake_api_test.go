package projections

import (
	"context"
	"sync"

	"lms/internal/adapters/lmsapi"
	"lms/internal/domain/course"
	"lms/internal/domain/enrollment"
	"lms/internal/domain/user"
)

// fakeAPI serves seeded data; ids listed in fail answer with a 500.
type fakeAPI struct {
	mu    sync.Mutex
	calls int

	courses           map[string]course.Course
	users             map[string]user.User
	courseEnrollments map[string][]enrollment.Enrollment
	userEnrollments   map[string][]enrollment.Enrollment
	fail              map[string]bool
	listErr           error
}

func (f *fakeAPI) hit(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail[id] {
		return &lmsapi.Error{StatusCode: 500}
	}
	return nil
}

func (f *fakeAPI) ListCourses(_ context.Context, _ string) ([]course.Course, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []course.Course
	for _, c := range f.courses {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeAPI) GetCourse(_ context.Context, _ string, id string) (course.Course, error) {
	if err := f.hit(id); err != nil {
		return course.Course{}, err
	}
	c, ok := f.courses[id]
	if !ok {
		return course.Course{}, &lmsapi.Error{StatusCode: 404, Message: "Course not found"}
	}
	return c, nil
}

func (f *fakeAPI) GetUser(_ context.Context, _ string, id string) (user.User, error) {
	if err := f.hit(id); err != nil {
		return user.User{}, err
	}
	u, ok := f.users[id]
	if !ok {
		return user.User{}, &lmsapi.Error{StatusCode: 404}
	}
	return u, nil
}

func (f *fakeAPI) ListUsers(_ context.Context, _ string) ([]user.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []user.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeAPI) ListCourseEnrollments(_ context.Context, _ string, courseID string) ([]enrollment.Enrollment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.courseEnrollments[courseID], nil
}

func (f *fakeAPI) ListUserEnrollments(_ context.Context, _ string, userID string) ([]enrollment.Enrollment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.userEnrollments[userID], nil
}

var (
	owner   = user.User{ID: "i1", Username: "grace", Role: user.RoleInstructor}
	other   = user.User{ID: "i2", Username: "barbara", Role: user.RoleInstructor}
	student = user.User{ID: "s1", Username: "alan", Role: user.RoleStudent}
	second  = user.User{ID: "s2", Username: "edsger", Role: user.RoleStudent}
)

func seededAPI() *fakeAPI {
	return &fakeAPI{
		courses: map[string]course.Course{
			"c1": {ID: "c1", Title: "Go", InstructorID: "i1", Lessons: []course.Lesson{{
				ID: "l1", Content: []course.Content{{ID: "b", Order: 1}, {ID: "a", Order: 0}},
			}}},
			"c2": {ID: "c2", Title: "SQL", InstructorID: "i1"},
			"c3": {ID: "c3", Title: "Rust", InstructorID: "i2"},
		},
		users: map[string]user.User{"i1": owner, "i2": other, "s1": student, "s2": second},
		courseEnrollments: map[string][]enrollment.Enrollment{
			"c1": {{ID: "e1", UserID: "s1", CourseID: "c1"}, {ID: "e2", UserID: "s2", CourseID: "c1"}, {ID: "e3", UserID: "gone", CourseID: "c1"}},
		},
		userEnrollments: map[string][]enrollment.Enrollment{
			"s1": {{ID: "e1", UserID: "s1", CourseID: "c1"}, {ID: "e4", UserID: "s1", CourseID: "c2"}, {ID: "e5", UserID: "s1", CourseID: "c3"}},
		},
		fail: map[string]bool{},
	}
}

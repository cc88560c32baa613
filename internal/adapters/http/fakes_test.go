package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lms/internal/adapters/http/middleware"
	"lms/internal/adapters/http/perf"
	"lms/internal/adapters/lmsapi"
	"lms/internal/application/session"
	"lms/internal/domain/course"
	"lms/internal/domain/enrollment"
	"lms/internal/domain/user"
)

var (
	instructor = user.User{ID: "u-ins", Username: "ada", Email: "ada@example.com", Role: user.RoleInstructor}
	otherTeach = user.User{ID: "u-oth", Username: "grace", Email: "grace@example.com", Role: user.RoleInstructor}
	student    = user.User{ID: "u-stu", Username: "linus", Email: "linus@example.com", Role: user.RoleStudent}
)

var errRefused = errors.New("dial tcp 127.0.0.1:9: connect: connection refused")

// fakeGateway is an in-memory LMS API.
type fakeGateway struct {
	mu sync.Mutex

	users   map[string]user.User
	courses []course.Course
	byUser  map[string][]enrollment.Enrollment
	byCrs   map[string][]enrollment.Enrollment

	loginToken string
	loginErr   error
	errs       map[string]error // method name -> error
	courseErrs map[string]error // course id -> GetCourse error
	uploadURL  string

	created  []course.Payload
	updated  map[string]course.Payload
	deleted  []string
	enrolled []string
	uploaded []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		users: map[string]user.User{
			instructor.ID: instructor,
			otherTeach.ID: otherTeach,
			student.ID:    student,
		},
		courses: []course.Course{
			{
				ID: "c1", Title: "Go Basics", Description: "Start here", InstructorID: instructor.ID,
				Lessons: []course.Lesson{{
					ID: "l1", Title: "Setup", CourseID: "c1",
					Content: []course.Content{
						{ID: "k2", Title: "Watch", Kind: course.KindVideo, VideoURL: "https://youtu.be/abc123", Order: 1, LessonID: "l1"},
						{ID: "k1", Title: "Read", Kind: course.KindText, TextContent: "**install** go", Order: 0, LessonID: "l1"},
					},
				}},
			},
			{ID: "c2", Title: "Concurrency", Description: "Goroutines", InstructorID: otherTeach.ID},
		},
		byUser:     map[string][]enrollment.Enrollment{},
		byCrs:      map[string][]enrollment.Enrollment{},
		errs:       map[string]error{},
		courseErrs: map[string]error{},
		updated:    map[string]course.Payload{},
		uploadURL:  "https://media.example.com/v/1.mp4",
	}
}

func (f *fakeGateway) err(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[method]
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (string, error) {
	return f.loginToken, f.loginErr
}

func (f *fakeGateway) GetUser(ctx context.Context, token, id string) (user.User, error) {
	if err := f.err("GetUser"); err != nil {
		return user.User{}, err
	}
	u, ok := f.users[id]
	if !ok {
		return user.User{}, &lmsapi.Error{StatusCode: http.StatusNotFound}
	}
	return u, nil
}

func (f *fakeGateway) ListUsers(ctx context.Context, token string) ([]user.User, error) {
	if err := f.err("ListUsers"); err != nil {
		return nil, err
	}
	return []user.User{instructor, otherTeach, student}, nil
}

func (f *fakeGateway) ListCourses(ctx context.Context, token string) ([]course.Course, error) {
	if err := f.err("ListCourses"); err != nil {
		return nil, err
	}
	return f.courses, nil
}

func (f *fakeGateway) GetCourse(ctx context.Context, token, id string) (course.Course, error) {
	f.mu.Lock()
	err := f.courseErrs[id]
	f.mu.Unlock()
	if err != nil {
		return course.Course{}, err
	}
	for _, c := range f.courses {
		if c.ID == id {
			// hand out a copy so sorting by the caller never leaks back
			out := c
			out.Lessons = make([]course.Lesson, len(c.Lessons))
			for i, l := range c.Lessons {
				out.Lessons[i] = l
				out.Lessons[i].Content = append([]course.Content{}, l.Content...)
			}
			return out, nil
		}
	}
	return course.Course{}, &lmsapi.Error{StatusCode: http.StatusNotFound, Message: "Course not found"}
}

func (f *fakeGateway) CreateCourse(ctx context.Context, token string, p course.Payload) error {
	if err := f.err("CreateCourse"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	return nil
}

func (f *fakeGateway) UpdateCourse(ctx context.Context, token, id string, p course.Payload) error {
	if err := f.err("UpdateCourse"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated[id] = p
	return nil
}

func (f *fakeGateway) DeleteCourse(ctx context.Context, token, id string) error {
	if err := f.err("DeleteCourse"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeGateway) ListCourseEnrollments(ctx context.Context, token, courseID string) ([]enrollment.Enrollment, error) {
	if err := f.err("ListCourseEnrollments"); err != nil {
		return nil, err
	}
	return f.byCrs[courseID], nil
}

func (f *fakeGateway) ListUserEnrollments(ctx context.Context, token, userID string) ([]enrollment.Enrollment, error) {
	if err := f.err("ListUserEnrollments"); err != nil {
		return nil, err
	}
	return f.byUser[userID], nil
}

func (f *fakeGateway) Enroll(ctx context.Context, token, courseID string) error {
	if err := f.err("Enroll"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrolled = append(f.enrolled, courseID)
	return nil
}

func (f *fakeGateway) Upload(ctx context.Context, token, filename string, r io.Reader) (string, error) {
	if err := f.err("Upload"); err != nil {
		return "", err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, filename)
	return f.uploadURL, nil
}

// memTokens is an in-memory session.TokenStore.
type memTokens struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (m *memTokens) Get(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[id], nil
}

func (m *memTokens) Save(ctx context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[id] = token
	return nil
}

func (m *memTokens) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, id)
	return nil
}

// tokenFor signs a bearer token for userID the way the API would.
func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	claims := session.Claims{UserID: userID}
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("api-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func perfEntry(path string, ms float64) perf.Entry {
	return perf.Entry{Kind: perf.KindAPICall, Path: path, StatusCode: http.StatusOK, DurationMs: ms, Timestamp: time.Now()}
}

// testEnv holds the globals a handler test installs.
type testEnv struct {
	gw     *fakeGateway
	tokens *memTokens
	reg    *session.Registry
	mux    *http.ServeMux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gw := newFakeGateway()
	prevAPI, prevPerf := api, perfCollector
	api = gw
	perfCollector = perf.NewCollector(100)
	t.Cleanup(func() { api, perfCollector = prevAPI, prevPerf })

	mux := http.NewServeMux()
	registerRoutes(mux)
	tokens := &memTokens{tokens: map[string]string{}}
	return &testEnv{gw: gw, tokens: tokens, reg: session.NewRegistry(gw, tokens), mux: mux}
}

// sessionFor returns an initialized session for a new browser, signed in as u when u is non-nil.
func (e *testEnv) sessionFor(t *testing.T, u *user.User) middleware.Session {
	t.Helper()
	browserID, err := session.NewBrowserID()
	if err != nil {
		t.Fatalf("NewBrowserID: %v", err)
	}
	if u != nil {
		e.tokens.Save(context.Background(), browserID, tokenFor(t, u.ID))
	}
	m := e.reg.Get(context.Background(), browserID)
	if u != nil && !m.IsAuthenticated() {
		t.Fatalf("session for %s did not authenticate", u.ID)
	}
	return middleware.Session{BrowserID: browserID, Manager: m, Registry: e.reg}
}

// serve routes req through the page mux with sess attached.
func (e *testEnv) serve(req *http.Request, sess middleware.Session) *httptest.ResponseRecorder {
	req = req.WithContext(middleware.ContextWithSession(req.Context(), sess))
	rr := httptest.NewRecorder()
	e.mux.ServeHTTP(rr, req)
	return rr
}

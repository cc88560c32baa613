package browser_test

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	web "lms/internal/adapters/http"
	"lms/internal/adapters/http/perf"
	"lms/internal/adapters/lmsapi"
	"lms/internal/adapters/storage"
	"lms/internal/adapters/storage/browsertoken"
	"lms/internal/application/session"
	"lms/internal/domain/course"
	"lms/internal/domain/user"
)

const (
	instructorEmail = "ada@example.com"
	studentEmail    = "linus@example.com"
	testPassword    = "TestPass123!"
)

// skipUnlessBrowser skips unless browser tests were asked for.
func skipUnlessBrowser(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if os.Getenv("LMS_BROWSER_TESTS") == "" {
		t.Skip("set LMS_BROWSER_TESTS=1 to run browser tests")
	}
}

// fakeAPI is a minimal in-memory LMS REST API.
type fakeAPI struct {
	mu      sync.Mutex
	users   map[string]user.User // by id
	courses []course.Course
	nextID  int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		users: map[string]user.User{
			"u-ins": {ID: "u-ins", Username: "ada", Email: instructorEmail, Role: user.RoleInstructor},
			"u-stu": {ID: "u-stu", Username: "linus", Email: studentEmail, Role: user.RoleStudent},
		},
		courses: []course.Course{{
			ID: "c1", Title: "Go Basics", Description: "Start here", InstructorID: "u-ins",
			Lessons: []course.Lesson{{ID: "l1", Title: "Setup", CourseID: "c1", Content: []course.Content{
				{ID: "k1", Title: "Read", Kind: course.KindText, TextContent: "Install **Go**", Order: 0, LessonID: "l1"},
			}}},
		}},
		nextID: 2,
	}
}

func (f *fakeAPI) tokenFor(t *testing.T, userID string) string {
	claims := session.Claims{UserID: userID}
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("fake-api"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var creds lmsapi.Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, u := range f.users {
			if u.Email == creds.Email && creds.Password == testPassword {
				writeJSON(w, http.StatusOK, map[string]string{"token": f.tokenFor(t, u.ID)})
				return
			}
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		u, ok := f.users[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
			return
		}
		writeJSON(w, http.StatusOK, u)
	})
	mux.HandleFunc("GET /users/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := make([]user.User, 0, len(f.users))
		for _, u := range f.users {
			out = append(out, u)
		}
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("GET /users/{id}/enrollments/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	mux.HandleFunc("GET /courses/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.courses)
	})
	mux.HandleFunc("GET /courses/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, c := range f.courses {
			if c.ID == r.PathValue("id") {
				writeJSON(w, http.StatusOK, c)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Course not found"})
	})
	mux.HandleFunc("GET /courses/{id}/enrollments/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	mux.HandleFunc("POST /courses/", func(w http.ResponseWriter, r *http.Request) {
		var p course.Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		c := course.Course{
			ID:           fmt.Sprintf("c%d", f.nextID),
			Title:        p.Title,
			Description:  p.Description,
			InstructorID: "u-ins",
			Lessons:      p.Lessons,
		}
		f.nextID++
		f.courses = append(f.courses, c)
		writeJSON(w, http.StatusCreated, c)
	})
	mux.HandleFunc("POST /enrollments/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{"id": "e1"})
	})
	return mux
}

// testApp holds the running front end, its fake API and Playwright handles.
type testApp struct {
	BaseURL string
	API     *fakeAPI
	Browser playwright.Browser
}

// newTestApp wires the front end against a fake API with a temp SQLite token store.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	fake := newFakeAPI()
	apiSrv := httptest.NewServer(fake.handler(t))
	t.Cleanup(apiSrv.Close)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to init test DB: %v", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	client, err := lmsapi.New(apiSrv.URL, lmsapi.WithCollector(collector))
	if err != nil {
		t.Fatalf("lmsapi.New: %v", err)
	}
	registry := session.NewRegistry(client, browsertoken.NewSQLiteStore(storage.NewTimedDB(db, collector)))

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	web.TrustedOrigins = []string{fmt.Sprintf("127.0.0.1:%d", port), fmt.Sprintf("localhost:%d", port)}
	web.RateLimitPerSecond = 1000
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: web.NewMux(client, registry, collector),
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for range 50 {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return &testApp{BaseURL: baseURL, API: fake, Browser: browser}
}

// newPage opens a tab in its own browser context, so each page has its own browser id.
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	ctx, err := a.Browser.NewContext()
	if err != nil {
		t.Fatalf("failed to create browser context: %v", err)
	}
	t.Cleanup(func() { ctx.Close() })
	page, err := ctx.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	return page
}

// login signs in through the login form and waits for the dashboard.
func (a *testApp) login(t *testing.T, page playwright.Page, email string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=email]").Fill(email); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill(testPassword); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to dashboard: %v", err)
	}
}

// bodyText returns the visible text of the page body.
func bodyText(t *testing.T, page playwright.Page) string {
	t.Helper()
	text, err := page.Locator("body").InnerText()
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return text
}

func assertText(t *testing.T, page playwright.Page, want string) {
	t.Helper()
	if text := bodyText(t, page); !strings.Contains(text, want) {
		t.Errorf("page %s missing %q", page.URL(), want)
	}
}

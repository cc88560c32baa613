package web

import (
	"context"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"lms/internal/adapters/http/middleware"
	"lms/internal/adapters/http/perf"
	"lms/internal/application/session"
	"lms/internal/domain/course"
	"lms/internal/domain/enrollment"
	"lms/internal/domain/user"
)

//go:embed static
var staticFS embed.FS

// Gateway is every LMS API call the web views make.
// *lmsapi.Client satisfies it.
type Gateway interface {
	GetUser(ctx context.Context, token, id string) (user.User, error)
	ListUsers(ctx context.Context, token string) ([]user.User, error)
	ListCourses(ctx context.Context, token string) ([]course.Course, error)
	GetCourse(ctx context.Context, token, id string) (course.Course, error)
	CreateCourse(ctx context.Context, token string, p course.Payload) error
	UpdateCourse(ctx context.Context, token, id string, p course.Payload) error
	DeleteCourse(ctx context.Context, token, id string) error
	ListCourseEnrollments(ctx context.Context, token, courseID string) ([]enrollment.Enrollment, error)
	ListUserEnrollments(ctx context.Context, token, userID string) ([]enrollment.Enrollment, error)
	Enroll(ctx context.Context, token, courseID string) error
	Upload(ctx context.Context, token, filename string, r io.Reader) (string, error)
}

// loadCSRFKey reads the CSRF secret from LMS_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("LMS_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("LMS_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if isProduction() {
		log.Fatal("LMS_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (forms won't survive restart). Set LMS_CSRF_KEY for production.")
	return key
}

func isProduction() bool {
	return os.Getenv("LMS_ENV") == "production"
}

// Global API gateway (set by NewMux)
var api Gateway

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// TrustedOrigins are extra host:port origins accepted on form posts.
var TrustedOrigins []string

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// NewMux wires HTTP handlers for the app.
func NewMux(gw Gateway, registry *session.Registry, collector *perf.Collector) http.Handler {
	api = gw
	perfCollector = collector
	middleware.SecureCookies = isProduction()

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatalf("static assets: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	registerRoutes(mux)

	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Request order: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, TrustedOrigins...),
		middleware.Auth(registry),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}

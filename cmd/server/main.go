package main

import (
	"database/sql"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	web "lms/internal/adapters/http"
	"lms/internal/adapters/http/perf"
	"lms/internal/adapters/lmsapi"
	"lms/internal/adapters/storage"
	"lms/internal/adapters/storage/browsertoken"
	"lms/internal/application/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// A missing .env is normal outside development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(os.Getenv("LMS_LOG_LEVEL")),
	})))

	dbPath := envOrDefault("LMS_DB_PATH", "lms.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(8)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Page, query and API-call timings all land in one collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	client, err := lmsapi.New(os.Getenv("LMS_API_BASE_URL"), lmsapi.WithCollector(collector))
	if err != nil {
		log.Fatalf("LMS API client: %v", err)
	}

	registry := session.NewRegistry(client, browsertoken.NewSQLiteStore(timedDB))
	mux := web.NewMux(client, registry, collector)

	addr := envOrDefault("LMS_ADDR", ":8080")
	slog.Info("server_start", "version", version, "addr", addr,
		"env", envOrDefault("LMS_ENV", "development"), "api", client.URL(""), "db", dbPath)

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseLogLevel maps LMS_LOG_LEVEL onto a slog level; unknown values mean info.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

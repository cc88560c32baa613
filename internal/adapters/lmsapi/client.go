// Package lmsapi is the HTTP client for the external LMS REST API.
package lmsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"lms/internal/adapters/http/perf"
)

// ErrMissingBaseURL is returned by New when no API base URL is configured.
var ErrMissingBaseURL = errors.New("missing API base URL: set LMS_API_BASE_URL")

// Error is a non-2xx answer from the API.
// Message is the server-supplied "error" field and may be empty.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("lms api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("lms api: status %d: %s", e.StatusCode, e.Message)
}

// Client issues bearer-authenticated calls against one API base URL.
// It never retries and sets no timeout of its own; the caller's context bounds each call.
type Client struct {
	base      string
	http      *resty.Client
	collector *perf.Collector
	slowMs    float64
}

// Option configures a Client.
type Option func(*Client)

// WithCollector records every call into the perf collector.
func WithCollector(c *perf.Collector) Option {
	return func(cl *Client) { cl.collector = c }
}

// WithHTTPClient swaps the underlying transport (tests use httptest clients).
func WithHTTPClient(hc *http.Client) Option {
	return func(cl *Client) { cl.http = resty.NewWithClient(hc).SetLogger(slogLogger{}) }
}

// New creates a client for baseURL.
// PRE: baseURL is an absolute URL; a trailing slash is tolerated
// POST: Returns ErrMissingBaseURL when baseURL is blank
func New(baseURL string, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, ErrMissingBaseURL
	}
	c := &Client{
		base:   base,
		http:   resty.New().SetLogger(slogLogger{}),
		slowMs: perf.Threshold(perf.EnvSlowAPIMs, perf.DefaultSlowAPIMs),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL joins the base and path with exactly one separating slash.
// INVARIANT: URL("x") == URL("/x")
func (c *Client) URL(path string) string {
	return c.base + "/" + strings.TrimLeft(path, "/")
}

// call describes one API request.
type call struct {
	method string
	route  string // label with ids elided, e.g. "courses/:id"
	path   string
	token  string
	body   any
	file   *upload
	out    any
}

type upload struct {
	field    string
	filename string
	r        io.Reader
}

type errorBody struct {
	Error string `json:"error"`
}

// do executes a call, decoding a 2xx JSON body into c.out.
// POST: non-2xx answers return *Error; transport and decode failures return wrapped errors
func (c *Client) do(ctx context.Context, req call) error {
	r := c.http.R().SetContext(ctx)
	if req.token != "" {
		r.SetAuthToken(req.token)
	}
	if req.body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.body)
	}
	if req.file != nil {
		r.SetFileReader(req.file.field, req.file.filename, req.file.r)
	}

	start := time.Now()
	resp, err := r.Execute(req.method, c.URL(req.path))
	status := 0
	if err == nil {
		status = resp.StatusCode()
	}
	c.observe(req, status, start)

	if err != nil {
		slog.Warn("api_call_failed", "method", req.method, "route", req.route, "error", err)
		return fmt.Errorf("%s %s: %w", req.method, req.route, err)
	}
	if !resp.IsSuccess() {
		var eb errorBody
		_ = json.Unmarshal(resp.Body(), &eb)
		return &Error{StatusCode: status, Message: eb.Error}
	}
	if req.out != nil {
		if err := json.Unmarshal(resp.Body(), req.out); err != nil {
			return fmt.Errorf("decode %s %s: %w", req.method, req.route, err)
		}
	}
	return nil
}

func (c *Client) observe(req call, status int, start time.Time) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0
	label := req.method + " " + req.route

	if durationMs >= c.slowMs {
		slog.Warn("slow_api_call", "call", label, "status", status, "duration_ms", durationMs)
	} else {
		slog.Debug("api_call", "call", label, "status", status, "duration_ms", durationMs)
	}

	if c.collector != nil {
		c.collector.Record(perf.Entry{
			Kind:       perf.KindAPICall,
			Path:       label,
			StatusCode: status,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
}

// slogLogger routes resty's internal messages to slog.
type slogLogger struct{}

func (slogLogger) Errorf(format string, v ...any) { slog.Error("resty", "msg", fmt.Sprintf(format, v...)) }
func (slogLogger) Warnf(format string, v ...any)  { slog.Warn("resty", "msg", fmt.Sprintf(format, v...)) }
func (slogLogger) Debugf(format string, v ...any) { slog.Debug("resty", "msg", fmt.Sprintf(format, v...)) }

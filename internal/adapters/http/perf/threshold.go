package perf

import (
	"os"
	"strconv"
	"sync"
)

// Environment variables holding the slow-operation thresholds.
const (
	EnvSlowRequestMs = "LMS_SLOW_REQUEST_MS"
	EnvSlowQueryMs   = "LMS_SLOW_QUERY_MS"
	EnvSlowAPIMs     = "LMS_SLOW_API_MS"
)

// Default thresholds in milliseconds.
const (
	DefaultSlowRequestMs = 200
	DefaultSlowQueryMs   = 50
	DefaultSlowAPIMs     = 500
)

var (
	thresholdMu    sync.Mutex
	thresholdCache = map[string]float64{}
)

// Threshold returns the slow threshold configured in env, or def when unset or invalid.
// The first read of each variable is cached for the life of the process.
// PRE: def > 0
// POST: Returns a positive threshold in milliseconds
func Threshold(env string, def int) float64 {
	thresholdMu.Lock()
	defer thresholdMu.Unlock()
	if v, ok := thresholdCache[env]; ok {
		return v
	}
	ms := def
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ms = n
		}
	}
	thresholdCache[env] = float64(ms)
	return float64(ms)
}

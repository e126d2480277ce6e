package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// StrictRecordValidation rejects platform records that fail schema validation
// instead of logging and passing them through with zero-value fallbacks.
//
// Set via env:
// - STRICT_RECORD_VALIDATION=true
func StrictRecordValidation() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("STRICT_RECORD_VALIDATION")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// OfflineQueueMaxAttempts is the flush attempt budget per pending write.
// After the budget is spent the row is marked failed and needs manual
// resolution (requeue via ops tooling).
//
// Set via env:
// - OFFLINE_QUEUE_MAX_ATTEMPTS (default 8)
func OfflineQueueMaxAttempts() int {
	v := strings.TrimSpace(os.Getenv("OFFLINE_QUEUE_MAX_ATTEMPTS"))
	if v == "" {
		return 8
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 8
	}
	return n
}

// OfflineQueueBackoffBase is the base delay for exponential backoff between
// flush attempts of the same pending write.
//
// Set via env:
// - OFFLINE_QUEUE_BACKOFF_BASE_SECONDS (default 30)
func OfflineQueueBackoffBase() time.Duration {
	v := strings.TrimSpace(os.Getenv("OFFLINE_QUEUE_BACKOFF_BASE_SECONDS"))
	if v == "" {
		return 30 * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 30 * time.Second
	}
	return time.Duration(n) * time.Second
}

// ConnectivityPollInterval is how often the observer probes the platform
// health endpoint.
//
// Set via env:
// - CONNECTIVITY_POLL_SECONDS (default 15)
func ConnectivityPollInterval() time.Duration {
	v := strings.TrimSpace(os.Getenv("CONNECTIVITY_POLL_SECONDS"))
	if v == "" {
		return 15 * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 15 * time.Second
	}
	return time.Duration(n) * time.Second
}

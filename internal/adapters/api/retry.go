package api

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"
)

// retryableError represents a failure that should trigger a retry
type retryableError struct {
	message string
}

func (e *retryableError) Error() string {
	return e.message
}

// statusError is a non-2xx response from the directory
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("directory error (status %d): %s", e.code, e.body)
}

// retryable reports whether another attempt may succeed
func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// addJitter spreads retries between 0.5x and 1.5x of the nominal delay
func addJitter(d time.Duration) time.Duration {
	jitter := 0.5 + rand.Float64()
	return time.Duration(float64(d) * jitter)
}

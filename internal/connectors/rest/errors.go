package rest

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

// ErrRepeatedCursor indicates an API returned the same cursor twice.
var ErrRepeatedCursor = errors.New("pagination: cursor repeated")

// APIError represents a non-2xx vendor response.
type APIError struct {
	Vendor     string
	StatusCode int
	Message    string
	Method     string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: API error %d: %s (%s %s)", e.Vendor, e.StatusCode, e.Message, e.Method, e.URL)
}

// Unwrap maps 404 onto domain.ErrNotFound.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return nil
}

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	Vendor  string
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	if e.ResetAt.IsZero() {
		return fmt.Sprintf("%s: rate limit exceeded", e.Vendor)
	}
	return fmt.Sprintf("%s: rate limit exceeded, resets at %s", e.Vendor, e.ResetAt.Format(time.RFC3339))
}

// Unwrap returns domain.ErrRateLimited.
func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks if the error indicates a forbidden resource.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr) || errors.Is(err, domain.ErrRateLimited)
}

// StatusCode returns the HTTP status carried by err, or 0 when none is known.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return http.StatusTooManyRequests
	}
	return 0
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

package rest

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRate is the proactive throttle rate in requests per second.
	DefaultRate = 5.0

	// DefaultBurst is the token bucket size.
	DefaultBurst = 5

	// MaxResetWait caps how long Wait sleeps for an exhausted quota to reset.
	// Longer waits fail fast with a RateLimitError instead.
	MaxResetWait = time.Minute

	// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
	HeaderRetryAfter = "Retry-After"
)

// Remaining and reset headers vary by vendor; the first one present wins.
var (
	remainingHeaders = []string{"X-RateLimit-Remaining", "X-Rate-Limit-Remaining"}
	resetHeaders     = []string{"X-RateLimit-Reset", "X-Rate-Limit-Reset"}
)

// RateLimiter combines a proactive token bucket with the quota the vendor
// reports in response headers.
type RateLimiter struct {
	vendor    string
	mu        sync.Mutex
	remaining int           // From API header, -1 until seen
	resetTime time.Time     // From API header
	bucket    *rate.Limiter // Proactive throttling
	now       func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second.
func NewRateLimiter(vendor string, rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		rps = DefaultRate
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &RateLimiter{
		vendor:    vendor,
		remaining: -1,
		bucket:    rate.NewLimiter(rate.Limit(rps), burst),
		now:       time.Now,
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	remaining := r.remaining
	resetTime := r.resetTime
	now := r.now()
	r.mu.Unlock()

	if remaining != 0 || !now.Before(resetTime) {
		return nil
	}

	wait := resetTime.Sub(now)
	if wait > MaxResetWait {
		return &RateLimitError{Vendor: r.vendor, ResetAt: resetTime}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// UpdateFromResponse updates rate limit state from response headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v := firstHeader(resp.Header, remainingHeaders); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.remaining = n
		}
	}
	if v := firstHeader(resp.Header, resetHeaders); v != "" {
		if t, ok := parseReset(v, r.now()); ok {
			r.resetTime = t
		}
	}
}

// CheckRateLimit returns a RateLimitError for 429 responses, nil otherwise.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil {
		return nil
	}

	r.UpdateFromResponse(resp)

	if resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	r.mu.Lock()
	resetAt := r.resetTime
	now := r.now()
	r.mu.Unlock()

	if v := resp.Header.Get(HeaderRetryAfter); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			resetAt = now.Add(time.Duration(seconds) * time.Second)
		} else if t, err := http.ParseTime(v); err == nil {
			resetAt = t
		}
	}

	return &RateLimitError{Vendor: r.vendor, ResetAt: resetAt}
}

// Remaining returns the last reported remaining quota, or -1 when unknown.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// ResetTime returns the rate limit reset time.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}

func firstHeader(h http.Header, names []string) string {
	for _, name := range names {
		if v := h.Get(name); v != "" {
			return v
		}
	}
	return ""
}

// parseReset accepts Unix seconds or, for small values, seconds from now.
func parseReset(v string, now time.Time) (time.Time, bool) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return time.Time{}, false
	}
	if n < 1_000_000_000 {
		return now.Add(time.Duration(n) * time.Second), true
	}
	return time.Unix(n, 0), true
}

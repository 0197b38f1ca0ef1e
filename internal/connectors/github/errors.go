package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"
)

// GitHub-specific errors.
var (
	// ErrFileTooLarge indicates a file exceeded the content size ceiling.
	// Oversized files are treated as absent, not fetched.
	ErrFileTooLarge = errors.New("github: file exceeds size ceiling")

	// ErrBinaryContent indicates a file's payload could not be decoded as
	// text. Binary files are treated as absent.
	ErrBinaryContent = errors.New("github: binary or undecodable content")

	// ErrNotAFile indicates a contents path resolved to a directory.
	ErrNotAFile = errors.New("github: path is a directory, not a file")
)

// RateLimitError represents an exhausted primary rate limit with reset time.
// It is fatal for the current ingestion; remaining retry attempts are
// abandoned immediately.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// APIError represents a GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsRateLimited checks if the error indicates an exhausted rate limit.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}

// IsForbidden checks if the error indicates a forbidden resource.
func IsForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 403
}

// IsAbsent checks if the error means an optional resource simply does not
// exist for this credential: missing, forbidden, oversized, or binary.
func IsAbsent(err error) bool {
	if IsNotFound(err) || IsForbidden(err) {
		return true
	}
	return errors.Is(err, ErrFileTooLarge) || errors.Is(err, ErrBinaryContent) || errors.Is(err, ErrNotAFile)
}

// IsTransient classifies an error as retryable: connection failures,
// timeouts, server errors, and secondary rate-limit signals. An exhausted
// primary rate limit is NOT transient; retrying it burns the budget for
// nothing.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if IsRateLimited(err) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

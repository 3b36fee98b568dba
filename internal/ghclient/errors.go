package ghclient

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v57/github"
)

// ErrRateLimited is returned when the GitHub API rate limit has been
// exceeded.
var ErrRateLimited = errors.New("rate limited")

// ErrAlreadyExists is returned when the platform reports a
// pre-existing resource (ref, project, comment). Callers treat this as
// success-with-flag, never as a workflow failure.
var ErrAlreadyExists = errors.New("resource already exists")

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("resource not found")

// ErrNotInitialized is returned when a component method is invoked
// before its startup sequence completed.
var ErrNotInitialized = errors.New("component not initialized")

// ValidationError reports malformed input rejected before any
// external call was made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// classifyError maps a go-github error into the core's taxonomy so
// rate-limit and already-exists conditions surface distinctly.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: resets at %s", ErrRateLimited, rateErr.Rate.Reset.Time)
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: secondary limit", ErrRateLimited)
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, ghErr.Message)
		case http.StatusUnprocessableEntity:
			if isExistsMessage(ghErr) {
				return fmt.Errorf("%w: %s", ErrAlreadyExists, ghErr.Message)
			}
		}
	}

	return err
}

// isExistsMessage detects GitHub's "already exists" 422 variants.
func isExistsMessage(ghErr *gh.ErrorResponse) bool {
	if strings.Contains(strings.ToLower(ghErr.Message), "already exists") {
		return true
	}
	for _, e := range ghErr.Errors {
		if e.Code == "already_exists" || strings.Contains(strings.ToLower(e.Message), "already exists") {
			return true
		}
	}
	return false
}

// IsTransient reports whether an error is worth retrying with backoff:
// rate limiting, server errors, or network failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return true
	}
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode >= 500 {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrCommitNotFound indicates the commit does not exist upstream.
	// It is terminal for that commit and must never be retried.
	ErrCommitNotFound = errors.New("commit not found")

	// ErrNoHistory indicates no commit history source is available for a repository
	ErrNoHistory = errors.New("no commit history available")

	// ErrGitUnavailable indicates the git binary could not be found
	ErrGitUnavailable = errors.New("git binary not available")

	// ErrTimeout indicates a bounded external call timed out
	ErrTimeout = errors.New("timeout")
)

// FetchError represents an error during commit retrieval
type FetchError struct {
	Repo       string
	SHA        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s@%s: status %d: %v", e.Repo, e.SHA, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s@%s: %v", e.Repo, e.SHA, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(repo, sha string, statusCode int, err error) *FetchError {
	return &FetchError{
		Repo:       repo,
		SHA:        sha,
		StatusCode: statusCode,
		Err:        err,
	}
}

// RetryableError indicates an error that can be retried
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// ShouldRetryStatus returns true if the HTTP status code should be
// retried: rate limiting and any server-side failure. Not-found is
// handled separately and is always terminal.
func ShouldRetryStatus(statusCode int) bool {
	return statusCode == 429 || statusCode >= 500
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	if errors.Is(err, ErrCommitNotFound) {
		return false
	}

	var retryable *RetryableError
	if errors.As(err, &retryable) {
		return true
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return ShouldRetryStatus(fetchErr.StatusCode)
	}

	return errors.Is(err, ErrTimeout)
}

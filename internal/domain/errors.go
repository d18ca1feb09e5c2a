package domain

import (
	"errors"
	"fmt"

	"github.com/quantmind-br/listaudit/internal/utils"
)

// Sentinel errors
var (
	// ErrEmptyList indicates a source resolved to zero usable domain entries
	ErrEmptyList = errors.New("list is empty")

	// ErrReadme indicates the manifest has no usable blocklists section
	ErrReadme = errors.New("couldn't read blocklists from manifest")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited indicates rate limiting was encountered
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates a timeout occurred
	ErrTimeout = errors.New("timeout")

	// ErrInvalidURL indicates an invalid URL was provided
	ErrInvalidURL = errors.New("invalid URL")

	// ErrUnsupportedFormat indicates an unknown report format
	ErrUnsupportedFormat = errors.New("unsupported report format")
)

// FetchError represents an error during fetching
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error omits credentials and query from the URL
func (e *FetchError) Error() string {
	u := utils.RedactURL(e.URL)
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s: status %d: %v", u, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", u, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// RetryableError indicates an error that can be retried
type RetryableError struct {
	Err        error
	RetryAfter int // Seconds to wait before retry, 0 if unknown
}

func (e *RetryableError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("retryable error (retry after %ds): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		return true
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.StatusCode {
		case 429, 503, 502, 504:
			return true
		}
		// Cloudflare origin errors
		if fetchErr.StatusCode >= 520 && fetchErr.StatusCode <= 530 {
			return true
		}
	}

	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout)
}

// SourceError ties a load failure to the list source that produced it
type SourceError struct {
	Source string
	Stage  string // "read" or "parse"
	Err    error
}

// Error omits credentials and query from the source
func (e *SourceError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Stage, utils.RedactURL(e.Source), e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError
func NewSourceError(source, stage string, err error) *SourceError {
	return &SourceError{
		Source: source,
		Stage:  stage,
		Err:    err,
	}
}

package fetcher

import (
	"errors"
	"fmt"
)

// Sentinel errors for feed fetching. They never escape FetchAll; they are
// classified into warnings there.
var (
	// ErrInvalidURL indicates the feed URL could not be parsed into a request.
	ErrInvalidURL = errors.New("invalid feed URL")

	// ErrTooManyRedirects indicates the redirect chain exceeded MaxRedirects.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the feed body exceeded MaxBodySize.
	ErrBodyTooLarge = errors.New("feed body too large")

	// ErrTimeout indicates the per-feed deadline expired.
	ErrTimeout = errors.New("feed fetch timed out")
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
}

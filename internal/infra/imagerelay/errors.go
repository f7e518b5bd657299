package imagerelay

import (
	"errors"
	"net/http"
)

// Relay failures. Each maps to one HTTP status through StatusCode.
var (
	ErrInvalidURL  = errors.New("invalid image url")
	ErrBlocked     = errors.New("image url is not allowed")
	ErrTooLarge    = errors.New("image exceeds size limit")
	ErrNotImage    = errors.New("upstream content is not an image")
	ErrUpstream    = errors.New("upstream request failed")
	ErrTimeout     = errors.New("upstream request timed out")
	errNoLocation  = errors.New("redirect without location")
	errRedirectCap = errors.New("too many redirects")
)

// StatusCode maps a relay error to the HTTP status reported to the caller.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidURL), errors.Is(err, ErrBlocked):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrNotImage):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

package entity

import (
	"net/url"
)

// maxURLLength bounds catalog URLs.
const maxURLLength = 2048

// ValidateURL checks that a catalog URL is an absolute http(s) URL with a
// host and no embedded credentials. Whether the host is safe to contact is
// decided at fetch time by the SSRF guard.
func ValidateURL(rawURL string) error {
	invalid := func(msg string) error {
		return &ValidationError{Field: "url", Message: msg}
	}

	switch {
	case rawURL == "":
		return invalid("is required")
	case len(rawURL) > maxURLLength:
		return invalid("is longer than 2048 characters")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return invalid("cannot be parsed")
	}
	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return invalid("scheme must be http or https")
	case u.Hostname() == "":
		return invalid("host is missing")
	case u.User != nil:
		return invalid("must not contain credentials")
	}
	return nil
}

package entity

// WarningCode classifies a non-fatal, per-source diagnostic.
type WarningCode string

const (
	WarningSourceFetchFailed  WarningCode = "source_fetch_failed"
	WarningSourceTimeout      WarningCode = "source_timeout"
	WarningSourceParseFailed  WarningCode = "source_parse_failed"
	WarningInvalidItemSkipped WarningCode = "invalid_item_skipped"
)

// Warning is a user-visible diagnostic returned next to otherwise successful results.
// Warnings are accumulated, never returned as errors.
type Warning struct {
	Code     WarningCode `json:"code"`
	Message  string      `json:"message"`
	SourceID *string     `json:"sourceId"`
	FeedURL  *string     `json:"feedUrl"`
}

// NewWarning creates a Warning. Empty sourceID or feedURL are stored as nil.
func NewWarning(code WarningCode, message, sourceID, feedURL string) Warning {
	return Warning{
		Code:     code,
		Message:  message,
		SourceID: optional(sourceID),
		FeedURL:  optional(feedURL),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

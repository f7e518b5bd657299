package entity

// FeedBody is a successfully fetched feed document.
// Targets lists every (source, section) pairing that shares FeedURL, so a
// feed fetched once can still be attributed to each of its sections.
type FeedBody struct {
	FeedURL     string
	Targets     []SourceFeedTarget
	Body        []byte
	ContentType string
}

// FetchResult partitions a fetch batch into successes and warnings.
type FetchResult struct {
	Successes []FeedBody
	Warnings  []Warning
}

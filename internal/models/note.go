package models

import "time"

// TimestampLayout is the ISO-8601 layout used for Note.Timestamp.
// It matches JavaScript's Date.toISOString, which older documents were written with.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Note is a titled, timestamped unit of content.
type Note struct {
	// ID is the unique identifier for the note ("n-" prefix).
	ID string `json:"id"`

	// Title is free text and may be empty.
	Title string `json:"title"`

	// Content is the rich-text/math payload. Opaque to the store.
	Content string `json:"content"`

	// Timestamp is the creation or last-edit time as an ISO-8601 string.
	Timestamp string `json:"timestamp"`
}

// FormatTimestamp renders t in the layout used for Note.Timestamp (always UTC).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a Note.Timestamp. Any RFC 3339 value is accepted.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

package streams

import (
	"encoding/json"
	"strings"
	"time"
)

// timestampLayouts are tried in order when decoding added_at. The naive
// layouts (no zone) are what Python's datetime.isoformat() writes and are
// read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp is an ISO-8601 instant with lenient decoding. A missing or
// unparsable value decodes to the zero time instead of failing the document.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s with the accepted layouts.
func ParseTimestamp(s string) (Timestamp, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{Time: t.UTC()}, true
		}
	}
	return Timestamp{}, false
}

// MarshalJSON writes RFC 3339 in UTC, or an empty string for the zero time.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts any string; unknown formats become the zero time.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Non-string values (null, numbers) are treated as missing.
		*t = Timestamp{}
		return nil
	}
	parsed, _ := ParseTimestamp(s)
	*t = parsed
	return nil
}

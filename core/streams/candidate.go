package streams

import (
	"strings"
	"time"
)

// DefaultCategory is used when a candidate carries no category.
const DefaultCategory = "Other"

// Candidate is one concrete stream source for a channel.
type Candidate struct {
	URL      string    `json:"url"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	AddedAt  Timestamp `json:"added_at"`
}

// Valid reports whether the candidate has the required url and name.
func (c Candidate) Valid() bool {
	return strings.TrimSpace(c.URL) != "" && strings.TrimSpace(c.Name) != ""
}

// normalized returns c with the url trimmed, so the probed and the emitted
// url are the same string.
func (c Candidate) normalized() Candidate {
	c.URL = strings.TrimSpace(c.URL)
	return c
}

// CategoryOrDefault returns the category, or DefaultCategory when blank.
func (c Candidate) CategoryOrDefault() string {
	if s := strings.TrimSpace(c.Category); s != "" {
		return s
	}
	return DefaultCategory
}

// NewCandidate builds a candidate stamped with addedAt in UTC.
func NewCandidate(url, name, category string, addedAt time.Time) Candidate {
	c := Candidate{
		URL:      strings.TrimSpace(url),
		Name:     strings.TrimSpace(name),
		Category: strings.TrimSpace(category),
		AddedAt:  Timestamp{Time: addedAt.UTC()},
	}
	if c.Category == "" {
		c.Category = DefaultCategory
	}
	return c
}

package playlist

import (
	"fmt"
	"strings"
)

const (
	// Header is the first line of every document.
	Header = "#EXTM3U"
	// DeadMarker is appended to the display name of an unreachable channel.
	DeadMarker = " ❌"
	// PlaceholderComment is the second line of the document rendered when
	// there is nothing to list.
	PlaceholderComment = "# No streams available."
)

// DeadPolicy controls how channels with no live candidate are rendered.
type DeadPolicy string

const (
	// DeadMark keeps the entry and marks its name with DeadMarker.
	DeadMark DeadPolicy = "mark"
	// DeadOmit drops the entry from the document.
	DeadOmit DeadPolicy = "omit"
)

// Valid reports whether p is a known policy.
func (p DeadPolicy) Valid() bool {
	return p == DeadMark || p == DeadOmit
}

// Entry is one rendered channel.
type Entry struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Alive    bool   `json:"alive"`
}

// Document is a rendered playlist, one element per line.
type Document struct {
	Lines []string
}

// Placeholder returns the two-line document used when no channel is known.
func Placeholder() Document {
	return Document{Lines: []string{Header, PlaceholderComment}}
}

// Bytes joins the lines with '\n' and terminates the last one.
func (d Document) Bytes() []byte {
	if len(d.Lines) == 0 {
		return nil
	}
	return []byte(strings.Join(d.Lines, "\n") + "\n")
}

// Equal reports whether both documents have identical lines in the same order.
func (d Document) Equal(other Document) bool {
	if len(d.Lines) != len(other.Lines) {
		return false
	}
	for i := range d.Lines {
		if d.Lines[i] != other.Lines[i] {
			return false
		}
	}
	return true
}

// IsPlaceholder reports whether d is the empty-database document.
func (d Document) IsPlaceholder() bool {
	return d.Equal(Placeholder())
}

// Options tunes rendering.
type Options struct {
	DeadPolicy DeadPolicy
}

// Synthesize renders entries in order. It returns the placeholder document
// when nothing remains to be listed, together with the number of channels
// actually written.
func Synthesize(entries []Entry, opts Options) (Document, int) {
	lines := make([]string, 0, 1+2*len(entries))
	lines = append(lines, Header)

	count := 0
	for _, e := range entries {
		if !e.Alive && opts.DeadPolicy == DeadOmit {
			continue
		}
		name := cleanText(e.Name)
		if !e.Alive {
			name += DeadMarker
		}
		lines = append(lines, InfoLine(e.Category, name), e.URL)
		count++
	}

	if count == 0 {
		return Placeholder(), 0
	}
	return Document{Lines: lines}, count
}

// InfoLine formats the #EXTINF line for a channel.
func InfoLine(category, name string) string {
	category = strings.ReplaceAll(cleanText(category), `"`, "'")
	return fmt.Sprintf(`#EXTINF:-1 group-title="%s",%s`, category, name)
}

// cleanText keeps a value on one line and trims it.
func cleanText(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
	return strings.TrimSpace(s)
}

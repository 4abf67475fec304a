package playlist

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

var (
	reGroup     = regexp.MustCompile(`group-title="([^"]*)"`)
	reCommaName = regexp.MustCompile(`,([^\n\r\t]*)$`)
)

// ReadLines splits r into lines, dropping a trailing '\r' from each.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	// Long EXTINF lines exist in the wild.
	const maxSize = 1024 * 1024
	scanner.Buffer(make([]byte, 0, 64*1024), maxSize)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Parse reads a document and returns its channel entries. An #EXTINF line
// not followed by a URL line is skipped.
func Parse(r io.Reader) ([]Entry, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return Document{Lines: lines}.Entries(), nil
}

// Entries extracts the channel entries of d.
func (d Document) Entries() []Entry {
	var entries []Entry
	var extinf string
	for _, line := range d.Lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(strings.ToUpper(trimmed), "#EXTINF"):
			extinf = trimmed
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
			continue
		default:
			if extinf == "" {
				continue
			}
			entries = append(entries, entryFromInfo(extinf, trimmed))
			extinf = ""
		}
	}
	return entries
}

func entryFromInfo(extinf, url string) Entry {
	e := Entry{URL: url, Alive: true}
	if m := reGroup.FindStringSubmatch(extinf); len(m) == 2 {
		e.Category = m[1]
	}
	// The name follows the last comma outside the attribute list.
	attrsEnd := strings.LastIndex(extinf, `"`)
	rest := extinf
	if attrsEnd >= 0 {
		rest = extinf[attrsEnd:]
	}
	if m := reCommaName.FindStringSubmatch(rest); len(m) == 2 {
		e.Name = strings.TrimSpace(m[1])
	}
	if strings.HasSuffix(e.Name, strings.TrimSpace(DeadMarker)) {
		e.Name = strings.TrimSpace(strings.TrimSuffix(e.Name, strings.TrimSpace(DeadMarker)))
		e.Alive = false
	}
	return e
}

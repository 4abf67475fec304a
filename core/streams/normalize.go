package streams

import (
	"strings"
	"unicode"
)

// NormalizeKey derives the channel group key from a display name: trimmed,
// case-folded, with every run of whitespace, '-', '_' or '.' collapsed into a
// single '_'.
func NormalizeKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(name))
	inSep := false
	for _, r := range name {
		if unicode.IsSpace(r) || r == '-' || r == '_' || r == '.' {
			if !inSep {
				b.WriteByte('_')
				inSep = true
			}
			continue
		}
		inSep = false
		b.WriteRune(r)
	}
	return b.String()
}

package streams

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrNotObject is returned when the database document is not a JSON object.
var ErrNotObject = errors.New("stream database is not a JSON object")

// Group is the set of candidates believed to carry the same channel.
type Group struct {
	Key        string
	Candidates []Candidate
}

// Has reports whether the group already holds url.
func (g *Group) Has(url string) bool {
	for _, c := range g.Candidates {
		if c.URL == url {
			return true
		}
	}
	return false
}

// ByRecency returns a copy of the candidates ordered by AddedAt, most recent
// first. Ties keep insertion order.
func (g *Group) ByRecency() []Candidate {
	out := make([]Candidate, len(g.Candidates))
	copy(out, g.Candidates)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AddedAt.After(out[j].AddedAt.Time)
	})
	return out
}

// Database maps channel keys to groups and remembers key order.
type Database struct {
	keys   []string
	groups map[string]*Group
}

// New returns an empty database.
func New() *Database {
	return &Database{groups: make(map[string]*Group)}
}

// Len returns the number of groups.
func (d *Database) Len() int { return len(d.keys) }

// Keys returns the group keys in database order.
func (d *Database) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Group returns the group stored under key.
func (d *Database) Group(key string) (*Group, bool) {
	g, ok := d.groups[key]
	return g, ok
}

// Groups returns every group in database order.
func (d *Database) Groups() []*Group {
	out := make([]*Group, 0, len(d.keys))
	for _, k := range d.keys {
		out = append(out, d.groups[k])
	}
	return out
}

// CandidateCount returns the total number of candidates across groups.
func (d *Database) CandidateCount() int {
	n := 0
	for _, g := range d.groups {
		n += len(g.Candidates)
	}
	return n
}

// ensure returns the group for key, creating it at the end of the order.
func (d *Database) ensure(key string) *Group {
	if g, ok := d.groups[key]; ok {
		return g
	}
	g := &Group{Key: key}
	d.groups[key] = g
	d.keys = append(d.keys, key)
	return g
}

// Add merges c, with its url trimmed, into the group stored under key. It
// returns false, leaving the group unchanged, when the group already holds
// c.URL or c is invalid.
func (d *Database) Add(key string, c Candidate) bool {
	c = c.normalized()
	if !c.Valid() {
		return false
	}
	g := d.ensure(key)
	if g.Has(c.URL) {
		return false
	}
	g.Candidates = append(g.Candidates, c)
	return true
}

// AddByName merges c into the group derived from its display name.
func (d *Database) AddByName(c Candidate) bool {
	return d.Add(NormalizeKey(c.Name), c)
}

// MarshalJSON writes the database as an object with keys in database order.
func (d *Database) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalRaw(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')

		cands := d.groups[k].Candidates
		if cands == nil {
			cands = []Candidate{}
		}
		vb, err := marshalRaw(cands)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of candidate arrays, keeping key order.
// URLs are trimmed. Invalid candidates are dropped, as are repeated URLs
// inside a group.
func (d *Database) UnmarshalJSON(data []byte) error {
	fresh := New()
	if _, err := fresh.decode(data); err != nil {
		return err
	}
	*d = *fresh
	return nil
}

// decode fills d from data and returns how many candidates were skipped.
func (d *Database) decode(data []byte) (int, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return 0, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return 0, ErrNotObject
	}

	skipped := 0
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return skipped, err
		}
		key, ok := tok.(string)
		if !ok {
			return skipped, fmt.Errorf("unexpected token %v", tok)
		}

		var cands []Candidate
		if err := dec.Decode(&cands); err != nil {
			return skipped, fmt.Errorf("group %q: %w", key, err)
		}

		g := d.ensure(key)
		for _, c := range cands {
			c = c.normalized()
			if !c.Valid() || g.Has(c.URL) {
				skipped++
				continue
			}
			g.Candidates = append(g.Candidates, c)
		}
	}

	if _, err := dec.Token(); err != nil {
		return skipped, err
	}
	return skipped, nil
}

// marshalRaw encodes v without HTML escaping so names keep their characters.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

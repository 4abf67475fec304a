package playlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []Entry {
	return []Entry{
		{Category: "News", Name: "CNN", URL: "http://a/cnn.ts", Alive: true},
		{Category: "Sports", Name: "ESPN", URL: "http://b/espn.ts", Alive: false},
	}
}

func TestSynthesize(t *testing.T) {
	doc, n := Synthesize(sampleEntries(), Options{DeadPolicy: DeadMark})

	assert.Equal(t, 2, n)
	assert.Equal(t, []string{
		"#EXTM3U",
		`#EXTINF:-1 group-title="News",CNN`,
		"http://a/cnn.ts",
		`#EXTINF:-1 group-title="Sports",ESPN ❌`,
		"http://b/espn.ts",
	}, doc.Lines)
}

func TestSynthesize_Deterministic(t *testing.T) {
	a, _ := Synthesize(sampleEntries(), Options{DeadPolicy: DeadMark})
	b, _ := Synthesize(sampleEntries(), Options{DeadPolicy: DeadMark})
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestSynthesize_OmitDead(t *testing.T) {
	doc, n := Synthesize(sampleEntries(), Options{DeadPolicy: DeadOmit})
	assert.Equal(t, 1, n)
	assert.Len(t, doc.Lines, 3)
	assert.NotContains(t, string(doc.Bytes()), "espn")
}

func TestSynthesize_Placeholder(t *testing.T) {
	t.Run("NoEntries", func(t *testing.T) {
		doc, n := Synthesize(nil, Options{})
		assert.Equal(t, 0, n)
		assert.Equal(t, []string{Header, PlaceholderComment}, doc.Lines)
		assert.True(t, doc.IsPlaceholder())
	})

	t.Run("AllDeadOmitted", func(t *testing.T) {
		doc, n := Synthesize([]Entry{{Name: "x", URL: "u"}}, Options{DeadPolicy: DeadOmit})
		assert.Equal(t, 0, n)
		assert.True(t, doc.IsPlaceholder())
	})
}

func TestSynthesize_SanitizesText(t *testing.T) {
	doc, _ := Synthesize([]Entry{{
		Category: "Kids \"TV\"",
		Name:     " Line\nBreak ",
		URL:      "http://x",
		Alive:    true,
	}}, Options{})

	assert.Equal(t, `#EXTINF:-1 group-title="Kids 'TV'",Line Break`, doc.Lines[1])
	assert.Equal(t, "http://x", doc.Lines[2])
}

func TestSynthesize_WritesURLVerbatim(t *testing.T) {
	doc, _ := Synthesize([]Entry{{Name: "A", URL: "http://x/a b.ts?q=1", Alive: true}}, Options{})
	assert.Equal(t, "http://x/a b.ts?q=1", doc.Lines[2])
}

func TestDocument_BytesAndEqual(t *testing.T) {
	doc := Document{Lines: []string{"#EXTM3U", "a"}}
	assert.Equal(t, "#EXTM3U\na\n", string(doc.Bytes()))
	assert.Nil(t, Document{}.Bytes())

	assert.True(t, doc.Equal(Document{Lines: []string{"#EXTM3U", "a"}}))
	assert.False(t, doc.Equal(Document{Lines: []string{"a", "#EXTM3U"}}), "order matters")
	assert.False(t, doc.Equal(Document{}))
}

func TestParse(t *testing.T) {
	doc, _ := Synthesize(append(sampleEntries(), Entry{Category: "Misc", Name: "A, B", URL: "http://c", Alive: true}), Options{})
	input := strings.ReplaceAll(string(doc.Bytes()), "\n", "\r\n")

	entries, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{Category: "News", Name: "CNN", URL: "http://a/cnn.ts", Alive: true}, entries[0])
	assert.Equal(t, Entry{Category: "Sports", Name: "ESPN", URL: "http://b/espn.ts", Alive: false}, entries[1])
	assert.Equal(t, "A, B", entries[2].Name)
}

func TestParse_SkipsDanglingInfo(t *testing.T) {
	input := "#EXTM3U\n#EXTINF:-1,Orphan\n#EXTINF:-1,Kept\nhttp://k\nhttp://stray\n"
	entries, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Kept", entries[0].Name)
	assert.Equal(t, "", entries[0].Category)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.m3u")
	store := NewFileStore(path)

	_, found, err := store.Read()
	require.NoError(t, err)
	assert.False(t, found)

	doc, _ := Synthesize(sampleEntries(), Options{})
	require.NoError(t, store.Write(doc))

	got, found, err := store.Read()
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, doc.Equal(got))

	// CRLF line endings written by another tool still compare equal.
	require.NoError(t, os.WriteFile(path, []byte(strings.ReplaceAll(string(doc.Bytes()), "\n", "\r\n")), 0o644))
	got, _, err = store.Read()
	require.NoError(t, err)
	assert.True(t, doc.Equal(got))
}

func TestDeadPolicy_Valid(t *testing.T) {
	assert.True(t, DeadMark.Valid())
	assert.True(t, DeadOmit.Valid())
	assert.False(t, DeadPolicy("drop").Valid())
}

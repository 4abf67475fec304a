package playlist

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"m3u-guardian/core/fsutil"
)

// FileStore persists the published document on the local filesystem.
type FileStore struct {
	path string
}

// NewFileStore creates a store for the document at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the document path.
func (s *FileStore) Path() string { return s.path }

// Read returns the persisted document. found is false when the file does not
// exist, which is a valid initial state and not an error.
func (s *FileStore) Read() (doc Document, found bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, false, nil
		}
		return Document{}, false, fmt.Errorf("read playlist %s: %w", s.path, err)
	}
	lines, err := ReadLines(bytes.NewReader(data))
	if err != nil {
		return Document{}, false, fmt.Errorf("scan playlist %s: %w", s.path, err)
	}
	return Document{Lines: lines}, true, nil
}

// Write atomically replaces the persisted document.
func (s *FileStore) Write(doc Document) error {
	if err := fsutil.WriteFileAtomic(s.path, doc.Bytes()); err != nil {
		return fmt.Errorf("write playlist %s: %w", s.path, err)
	}
	return nil
}

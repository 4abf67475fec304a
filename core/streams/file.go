package streams

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"m3u-guardian/core/fsutil"
)

// LoadStatus classifies the outcome of reading the database file.
type LoadStatus string

const (
	// LoadOK means the file was read and decoded.
	LoadOK LoadStatus = "ok"
	// LoadMissing means the file does not exist yet.
	LoadMissing LoadStatus = "missing"
	// LoadCorrupt means the file could not be read or decoded.
	LoadCorrupt LoadStatus = "corrupt"
)

// LoadResult is the outcome of Load. DB is never nil.
type LoadResult struct {
	DB      *Database
	Status  LoadStatus
	Skipped int
	Err     error
}

// Load reads the database at path. It never fails: any problem yields an
// empty database with Status and Err describing what happened.
func Load(path string) LoadResult {
	data, err := os.ReadFile(path)
	if err != nil {
		status := LoadCorrupt
		if errors.Is(err, fs.ErrNotExist) {
			status = LoadMissing
		}
		return LoadResult{DB: New(), Status: status, Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return LoadResult{DB: New(), Status: LoadCorrupt, Err: fmt.Errorf("decode %s: empty file", path)}
	}

	db := New()
	skipped, err := db.decode(data)
	if err != nil {
		return LoadResult{DB: New(), Status: LoadCorrupt, Err: fmt.Errorf("decode %s: %w", path, err)}
	}
	return LoadResult{DB: db, Status: LoadOK, Skipped: skipped}
}

// Save writes the database to path atomically, two-space indented.
func (d *Database) Save(path string) error {
	raw, err := d.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode stream database: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return fmt.Errorf("indent stream database: %w", err)
	}
	out.WriteByte('\n')
	if err := fsutil.WriteFileAtomic(path, out.Bytes()); err != nil {
		return fmt.Errorf("write stream database: %w", err)
	}
	return nil
}

// FileSource loads the database from a fixed path on every call.
type FileSource struct {
	Path string
}

// Load reads the database file.
func (s FileSource) Load() LoadResult {
	return Load(s.Path)
}

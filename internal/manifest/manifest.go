// Package manifest records the creation date of every post so that dates
// survive checkouts and copies that reset file times.
//
// The manifest is a JSON array of {"file", "created"} objects stored next to
// the posts it describes.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/starford/garden/internal/storage"
)

// DefaultFile is the manifest name used when none is configured.
const DefaultFile = "manifest.json"

const dateLayout = "2006-01-02"

// Entry is one manifest record. Created is a date-only string.
type Entry struct {
	File    string `json:"file"`
	Created string `json:"created"`
}

// Dates maps a post path to its recorded creation date.
type Dates map[string]string

// Created returns the recorded date for path.
func (d Dates) Created(path string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d[path]
	return v, ok && v != ""
}

// Build lists the markdown files under dir and returns one entry per file,
// sorted by file name.
func Build(store storage.Provider, dir string) ([]Entry, error) {
	metas, err := store.List(dir)
	if err != nil {
		return nil, fmt.Errorf("manifest: list: %w", err)
	}
	entries := make([]Entry, 0, len(metas))
	for _, m := range metas {
		entries = append(entries, Entry{
			File:    m.Path,
			Created: m.Created.Format(dateLayout),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].File < entries[j].File })
	return entries, nil
}

// Merge keeps the dates already recorded in prev and takes everything else
// from next. Files missing from next are dropped.
func Merge(prev Dates, next []Entry) []Entry {
	out := make([]Entry, len(next))
	for i, e := range next {
		if created, ok := prev.Created(e.File); ok {
			e.Created = created
		}
		out[i] = e
	}
	return out
}

// Write stores entries at path as indented JSON.
func Write(store storage.Provider, path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}
	data = append(data, '\n')
	if err := store.Write(path, data); err != nil {
		return fmt.Errorf("manifest: write: %w", err)
	}
	return nil
}

// Load reads the manifest at path. A missing manifest yields empty Dates and
// no error.
func Load(store storage.Provider, path string) (Dates, error) {
	data, err := store.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Dates{}, nil
		}
		return nil, fmt.Errorf("manifest: read: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	dates := make(Dates, len(entries))
	for _, e := range entries {
		if e.File != "" {
			dates[e.File] = e.Created
		}
	}
	return dates, nil
}

package garden

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/starford/garden/internal/apperr"
	"github.com/starford/garden/internal/models"
	"github.com/starford/garden/internal/storage"
)

const dateLayout = "2006-01-02"

// collection reads one directory of documents and parses each file on
// demand. A collection without a store is empty.
type collection[T any] struct {
	name  string
	store storage.Provider
	parse func(models.Document) T
	date  func(T) string
}

// list parses every document, newest first. Files that cannot be read are
// skipped.
func (c *collection[T]) list() ([]T, error) {
	if c.store == nil {
		return []T{}, nil
	}
	metas, err := c.store.List("")
	if err != nil {
		return nil, fmt.Errorf("garden: list %s: %w", c.name, err)
	}
	out := make([]T, 0, len(metas))
	for _, m := range metas {
		data, err := c.store.Read(m.Path)
		if err != nil {
			continue
		}
		out = append(out, c.parse(document(m, data)))
	}
	sort.SliceStable(out, func(i, j int) bool { return c.date(out[i]) > c.date(out[j]) })
	return out, nil
}

// get parses the document at path.
func (c *collection[T]) get(path string) (T, error) {
	var zero T
	if c.store == nil || !storage.IsMarkdown(path) {
		return zero, fmt.Errorf("garden: %s %s: %w", c.name, path, apperr.ErrNotFound)
	}
	meta, err := c.store.Stat(path)
	if err != nil {
		return zero, notFound(c.name, path, err)
	}
	data, err := c.store.Read(path)
	if err != nil {
		return zero, notFound(c.name, path, err)
	}
	return c.parse(document(meta, data)), nil
}

func document(m models.DocumentMeta, data []byte) models.Document {
	doc := models.Document{Content: string(data), Filename: m.Path}
	if !m.Created.IsZero() {
		doc.Created = m.Created.Format(dateLayout)
	}
	return doc
}

// notFound maps a missing file to apperr.ErrNotFound and keeps other errors.
func notFound(name, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("garden: %s %s: %w", name, path, apperr.ErrNotFound)
	}
	return fmt.Errorf("garden: %s %s: %w", name, path, err)
}

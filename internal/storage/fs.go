package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/garden/internal/apperr"
	"github.com/starford/garden/internal/checksum"
	"github.com/starford/garden/internal/models"
)

const tmpPattern = ".garden-tmp-*"

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the collection directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute collection directory.
func (f *FS) Root() string {
	return f.root
}

// Abs resolves a relative path to an absolute file name, rejecting paths
// that escape the root with apperr.ErrInvalidPath.
func (f *FS) Abs(path string) (string, error) {
	return f.safePath(path)
}

// safePath resolves a relative path against the root and rejects any result
// that escapes it.
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute path %q: %w", rel, apperr.ErrInvalidPath)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path %q escapes root: %w", rel, apperr.ErrInvalidPath)
	}
	return abs, nil
}

// List walks dir and returns metadata for every .md file, skipping dot
// directories.
func (f *FS) List(dir string) ([]models.DocumentMeta, error) {
	base, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	var out []models.DocumentMeta
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != base && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdown(d.Name()) {
			return nil
		}
		meta, err := f.meta(p)
		if err != nil {
			return err
		}
		out = append(out, meta)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return out, nil
}

// Stat returns metadata for a single file.
func (f *FS) Stat(path string) (models.DocumentMeta, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return models.DocumentMeta{}, err
	}
	meta, err := f.meta(abs)
	if err != nil {
		return models.DocumentMeta{}, fmt.Errorf("storage: stat %s: %w", path, err)
	}
	return meta, nil
}

// meta builds metadata for an absolute path. The modification time stands in
// for the creation date, which the standard library cannot read portably.
func (f *FS) meta(abs string) (models.DocumentMeta, error) {
	info, err := os.Stat(abs)
	if err != nil {
		return models.DocumentMeta{}, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return models.DocumentMeta{}, err
	}
	rel, err := filepath.Rel(f.root, abs)
	if err != nil {
		return models.DocumentMeta{}, err
	}
	return models.DocumentMeta{
		Path:      filepath.ToSlash(rel),
		Checksum:  checksum.Sum(data),
		Created:   info.ModTime(),
		UpdatedAt: info.ModTime(),
	}, nil
}

// Read returns the raw bytes of a file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Write atomically writes content: tmp file → fsync → rename.
func (f *FS) Write(path string, content []byte) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// isMarkdown reports whether name has a .md extension in any case.
func isMarkdown(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md")
}

// IsMarkdown reports whether a path names a markdown document.
func IsMarkdown(path string) bool {
	return isMarkdown(filepath.Base(path))
}

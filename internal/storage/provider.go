// Package storage reads garden collections from the local file system.
package storage

import "github.com/starford/garden/internal/models"

// Provider is the interface for collection file operations. Paths are
// slash-separated and relative to the collection root.
type Provider interface {
	// List returns metadata for every .md file under dir.
	List(dir string) ([]models.DocumentMeta, error)
	// Stat returns metadata for the file at path.
	Stat(path string) (models.DocumentMeta, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Abs resolves path to an absolute file name inside the root.
	Abs(path string) (string, error)
	// Root returns the absolute collection directory.
	Root() string
}

package index

import "github.com/starford/garden/internal/models"

// PostIndex defines the interface for post indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type PostIndex interface {
	UpsertPost(p PostRow) error
	DeletePost(path string) error
	GetChecksum(path string) (string, error)
	GetPost(path string) (*PostRow, error)
	ListPosts(tag string, limit, offset int) ([]PostRow, int, error)
	AllPosts() ([]models.Post, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllChecksums() (map[string]string, error)
	AllCreated() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies PostIndex at compile time.
var _ PostIndex = (*DB)(nil)

// CreatedDates supplies externally recorded creation dates, keyed by post path.
type CreatedDates interface {
	Created(path string) (string, bool)
}

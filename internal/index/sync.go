package index

import (
	"log/slog"
	"time"

	"github.com/starford/garden/internal/checksum"
	"github.com/starford/garden/internal/models"
	"github.com/starford/garden/internal/parser"
	"github.com/starford/garden/internal/storage"
)

const dateLayout = "2006-01-02"

// Sync walks the posts collection and brings the index up to date:
//   - new/changed files, and files whose creation date changed, are parsed
//     and upserted
//   - files removed from disk are deleted from the index
//
// Creation dates come from dates when recorded there and from the file's
// modification time otherwise.
func Sync(db *DB, store storage.Provider, dates CreatedDates, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}
	indexedDates, err := db.AllCreated()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		created := createdDate(dates, m)
		if checksums[m.Path] == m.Checksum && indexedDates[m.Path] == created {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, data, created); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeletePost(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	logger.Info("sync: done", slog.Int("files", len(metas)))
	return nil
}

// createdDate picks the recorded creation date for m, falling back to the
// file time.
func createdDate(dates CreatedDates, m models.DocumentMeta) string {
	if dates != nil {
		if d, ok := dates.Created(m.Path); ok {
			return d
		}
	}
	if m.Created.IsZero() {
		return ""
	}
	return m.Created.Format(dateLayout)
}

// indexFile parses data as a post and upserts it into the DB.
func indexFile(db *DB, path string, data []byte, created string) error {
	post := parser.ParsePost(models.Document{
		Content:  string(data),
		Filename: path,
		Created:  created,
	})
	return db.UpsertPost(PostRow{
		Path:      path,
		Title:     post.Title,
		Date:      post.Date,
		Tags:      post.Tags,
		Excerpt:   post.Excerpt,
		Body:      post.Body,
		Checksum:  checksum.Sum(data),
		Created:   created,
		UpdatedAt: time.Now().UTC(),
	})
}

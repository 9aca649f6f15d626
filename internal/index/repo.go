package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/garden/internal/apperr"
	"github.com/starford/garden/internal/models"
)

// PostRow represents a row in the posts table. Created is the creation date
// the post was parsed with, before any front-matter override.
type PostRow struct {
	Path      string
	Title     string
	Date      string
	Tags      []string
	Excerpt   string
	Body      string
	Checksum  string
	Created   string
	UpdatedAt time.Time
}

// Post converts the row back into the parsed post it was built from.
func (r PostRow) Post() models.Post {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.Post{
		Title:    r.Title,
		Date:     r.Date,
		Tags:     tags,
		Body:     r.Body,
		Excerpt:  r.Excerpt,
		Filename: r.Path,
	}
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

func scanResults(rows *sql.Rows) ([]SearchResult, error) {
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Path, &r.Title, &r.Snippet); err != nil {
			return nil, fmt.Errorf("index: scan result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const postColumns = `path, title, date, tags, excerpt, body, checksum, created, updated_at`

// UpsertPost inserts or replaces a post and its FTS entry within a transaction.
func (db *DB) UpsertPost(p PostRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if p.Tags == nil {
		p.Tags = []string{}
	}
	tagsJSON, _ := json.Marshal(p.Tags)

	_, err = tx.Exec(`
		INSERT INTO posts (`+postColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title      = excluded.title,
			date       = excluded.date,
			tags       = excluded.tags,
			excerpt    = excluded.excerpt,
			body       = excluded.body,
			checksum   = excluded.checksum,
			created    = excluded.created,
			updated_at = excluded.updated_at
	`, p.Path, p.Title, p.Date, string(tagsJSON), p.Excerpt, p.Body, p.Checksum, p.Created, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert post: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, p.Path, p.Title, p.Body, p.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// DeletePost removes a post and its FTS entry.
func (db *DB) DeletePost(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	if _, err := tx.Exec(`DELETE FROM posts WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete post: %w", err)
	}
	return tx.Commit()
}

// GetChecksum returns the stored checksum for a post, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM posts WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// GetPost returns the post at path or apperr.ErrNotFound.
func (db *DB) GetPost(path string) (*PostRow, error) {
	row := db.conn.QueryRow(`SELECT `+postColumns+` FROM posts WHERE path = ?`, path)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: post %s: %w", path, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("index: get post: %w", err)
	}
	return &p, nil
}

// ListPosts returns a page of posts, newest first, and the total number of
// matches. A non-empty tag keeps posts carrying that tag or one nested below
// it. A limit of zero or less returns every match.
func (db *DB) ListPosts(tag string, limit, offset int) ([]PostRow, int, error) {
	const filter = `
		WHERE ? = '' OR EXISTS (
			SELECT 1 FROM json_each(posts.tags) AS t
			WHERE t.value = ? OR substr(t.value, 1, length(?) + 1) = ? || '/'
		)`
	args := []any{tag, tag, tag, tag}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM posts`+filter, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count posts: %w", err)
	}

	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := db.conn.Query(`SELECT `+postColumns+` FROM posts`+filter+`
		ORDER BY date DESC, path ASC
		LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list posts: %w", err)
	}
	defer rows.Close()

	var out []PostRow
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("index: scan post: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// AllPosts returns every indexed post, newest first.
func (db *DB) AllPosts() ([]models.Post, error) {
	rows, _, err := db.ListPosts("", 0, 0)
	if err != nil {
		return nil, err
	}
	out := make([]models.Post, len(rows))
	for i, r := range rows {
		out[i] = r.Post()
	}
	return out, nil
}

// AllChecksums returns path → checksum for every indexed post.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM posts`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// AllCreated returns path → creation date each post was indexed with.
func (db *DB) AllCreated() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, created FROM posts`)
	if err != nil {
		return nil, fmt.Errorf("index: all created: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, created string
		if err := rows.Scan(&p, &created); err != nil {
			return nil, err
		}
		out[p] = created
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (PostRow, error) {
	var (
		p        PostRow
		tagsJSON string
	)
	if err := s.Scan(&p.Path, &p.Title, &p.Date, &tagsJSON, &p.Excerpt, &p.Body, &p.Checksum, &p.Created, &p.UpdatedAt); err != nil {
		return PostRow{}, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &p.Tags); err != nil {
		return PostRow{}, fmt.Errorf("decode tags: %w", err)
	}
	return p, nil
}

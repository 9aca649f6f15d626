// Package garden composes the posts index, the thought-train and lab
// collections, the tag tree and the markdown renderer into the operations
// served over HTTP and MCP.
package garden

import (
	"context"
	"log/slog"
	"sync"

	"github.com/starford/garden/internal/index"
	"github.com/starford/garden/internal/markdown"
	"github.com/starford/garden/internal/models"
	"github.com/starford/garden/internal/parser"
	"github.com/starford/garden/internal/storage"
	"github.com/starford/garden/internal/tagtree"
)

// PostSummary is a post without its body, as shown in lists.
type PostSummary struct {
	Path    string   `json:"path"`
	Title   string   `json:"title"`
	Date    string   `json:"date"`
	Tags    []string `json:"tags"`
	Excerpt string   `json:"excerpt"`
}

// PostDetail is a full post with its rendered body.
type PostDetail struct {
	Path string `json:"path"`
	models.Post
	HTML string `json:"html"`
}

// TrainDetail is a thought train with its rendered body.
type TrainDetail struct {
	models.ThoughtTrain
	HTML string `json:"html"`
}

// LabDetail is a lab with its rendered body.
type LabDetail struct {
	models.Lab
	HTML string `json:"html"`
}

// Option configures a Service.
type Option func(*Service)

// WithTrains sets the thought-train collection.
func WithTrains(store storage.Provider) Option {
	return func(s *Service) { s.trains.store = store }
}

// WithLabs sets the lab collection.
func WithLabs(store storage.Provider) Option {
	return func(s *Service) { s.labs.store = store }
}

// WithRenderer sets the markdown renderer.
func WithRenderer(r *markdown.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithHiddenTags hides root tags (and everything below them) from the tag tree.
func WithHiddenTags(tags ...string) Option {
	return func(s *Service) { s.hidden = append([]string(nil), tags...) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service serves posts, thought trains, labs and the tag tree.
// Each feature keeps its own state; the tag tree is cached until the posts
// change.
type Service struct {
	posts    index.PostIndex
	trains   collection[models.ThoughtTrain]
	labs     collection[models.Lab]
	renderer *markdown.Renderer
	hidden   []string
	logger   *slog.Logger

	mu   sync.Mutex
	tree *tagtree.Node
}

// NewService creates a garden service over the given post index.
func NewService(posts index.PostIndex, opts ...Option) *Service {
	s := &Service{
		posts: posts,
		trains: collection[models.ThoughtTrain]{
			name:  "train",
			parse: func(d models.Document) models.ThoughtTrain { return parser.ParseThoughtTrain(d) },
			date:  func(t models.ThoughtTrain) string { return t.Date },
		},
		labs: collection[models.Lab]{
			name:  "lab",
			parse: func(d models.Document) models.Lab { return parser.ParseLab(d) },
			date:  func(l models.Lab) string { return l.Date },
		},
		renderer: markdown.New(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Posts returns a page of posts filtered by tag (exact or nested) and the
// total number of matches.
func (s *Service) Posts(_ context.Context, tag string, limit, offset int) ([]PostSummary, int, error) {
	rows, total, err := s.posts.ListPosts(tag, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items := make([]PostSummary, len(rows))
	for i, r := range rows {
		p := r.Post()
		items[i] = PostSummary{
			Path:    r.Path,
			Title:   p.Title,
			Date:    p.Date,
			Tags:    p.Tags,
			Excerpt: p.Excerpt,
		}
	}
	return items, total, nil
}

// Post returns the post at path with its body rendered to HTML.
func (s *Service) Post(_ context.Context, path string) (*PostDetail, error) {
	row, err := s.posts.GetPost(path)
	if err != nil {
		return nil, err
	}
	p := row.Post()
	return &PostDetail{Path: row.Path, Post: p, HTML: s.renderer.Render(p.Body)}, nil
}

// TagTree returns the visible tag tree for the given expand state.
func (s *Service) TagTree(_ context.Context, state *tagtree.ExpandState) (*TagTree, error) {
	root, err := s.tagRoot()
	if err != nil {
		return nil, err
	}
	return newTagTree(root, state), nil
}

// Invalidate drops the cached tag tree. It is called whenever a post changes
// and has the shape of index.EventCallback.
func (s *Service) Invalidate(kind, path string) {
	s.mu.Lock()
	s.tree = nil
	s.mu.Unlock()
	s.logger.Debug("garden: tag tree invalidated", slog.String("kind", kind), slog.String("path", path))
}

func (s *Service) tagRoot() (*tagtree.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tree != nil {
		return s.tree, nil
	}
	posts, err := s.posts.AllPosts()
	if err != nil {
		return nil, err
	}
	s.tree = tagtree.Build(posts, s.hidden)
	return s.tree, nil
}

// Trains lists every thought train, newest first.
func (s *Service) Trains(_ context.Context) ([]models.ThoughtTrain, error) {
	return s.trains.list()
}

// Train returns one thought train with its body rendered.
func (s *Service) Train(_ context.Context, path string) (*TrainDetail, error) {
	t, err := s.trains.get(path)
	if err != nil {
		return nil, err
	}
	return &TrainDetail{ThoughtTrain: t, HTML: s.renderer.Render(t.Body)}, nil
}

// Labs lists every lab, newest first.
func (s *Service) Labs(_ context.Context) ([]models.Lab, error) {
	return s.labs.list()
}

// Lab returns one lab with its body rendered.
func (s *Service) Lab(_ context.Context, path string) (*LabDetail, error) {
	l, err := s.labs.get(path)
	if err != nil {
		return nil, err
	}
	return &LabDetail{Lab: l, HTML: s.renderer.Render(l.Body)}, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.posts.Search(query, limit)
}

// Render converts markdown to HTML with the configured asset root.
func (s *Service) Render(md string) string {
	return s.renderer.Render(md)
}

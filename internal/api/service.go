package api

import (
	"context"

	"github.com/starford/garden/internal/garden"
	"github.com/starford/garden/internal/index"
	"github.com/starford/garden/internal/models"
	"github.com/starford/garden/internal/tagtree"
)

// Service is the garden behaviour the handlers depend on. *garden.Service
// implements it.
type Service interface {
	Posts(ctx context.Context, tag string, limit, offset int) ([]garden.PostSummary, int, error)
	Post(ctx context.Context, path string) (*garden.PostDetail, error)
	TagTree(ctx context.Context, state *tagtree.ExpandState) (*garden.TagTree, error)
	Trains(ctx context.Context) ([]models.ThoughtTrain, error)
	Train(ctx context.Context, path string) (*garden.TrainDetail, error)
	Labs(ctx context.Context) ([]models.Lab, error)
	Lab(ctx context.Context, path string) (*garden.LabDetail, error)
	Search(ctx context.Context, query string, limit int) ([]index.SearchResult, error)
	Render(md string) string
}

var _ Service = (*garden.Service)(nil)

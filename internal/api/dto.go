package api

import (
	"github.com/starford/garden/internal/garden"
	"github.com/starford/garden/internal/models"
)

// PostSummary is a post in a list response (aliased from the domain layer).
type PostSummary = garden.PostSummary

// PostDetail is the full post response type (aliased from the domain layer).
type PostDetail = garden.PostDetail

// TagTree is the tag tree response type (aliased from the domain layer).
type TagTree = garden.TagTree

// PostListResponse wraps paginated post listings.
type PostListResponse struct {
	Posts []PostSummary `json:"posts" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}

// TrainListResponse wraps the thought-train listing.
type TrainListResponse struct {
	Trains []models.ThoughtTrain `json:"trains" validate:"required"`
}

// LabListResponse wraps the lab listing.
type LabListResponse struct {
	Labs []models.Lab `json:"labs" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path" example:"Garden Notes.md" validate:"required"`
	Title   string `json:"title" example:"Garden Notes" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// RenderRequest is the request body for rendering markdown.
type RenderRequest struct {
	Markdown string `json:"markdown" example:"# Hello\n**World**" validate:"required"`
}

// RenderResponse carries rendered HTML.
type RenderResponse struct {
	HTML string `json:"html" example:"<h1>Hello</h1>" validate:"required"`
}

// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the garden to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/garden/internal/apperr"
	"github.com/starford/garden/internal/garden"
	"github.com/starford/garden/internal/index"
	"github.com/starford/garden/internal/models"
	"github.com/starford/garden/internal/tagtree"
)

const (
	formatURI     = "garden://post-format"
	searchLimit   = 20
	defaultListed = 50
)

// Garden is the behaviour the MCP tools depend on. *garden.Service
// implements it.
type Garden interface {
	Posts(ctx context.Context, tag string, limit, offset int) ([]garden.PostSummary, int, error)
	Post(ctx context.Context, path string) (*garden.PostDetail, error)
	TagTree(ctx context.Context, state *tagtree.ExpandState) (*garden.TagTree, error)
	Trains(ctx context.Context) ([]models.ThoughtTrain, error)
	Labs(ctx context.Context) ([]models.Lab, error)
	Search(ctx context.Context, query string, limit int) ([]index.SearchResult, error)
	Render(md string) string
}

// Server wraps the MCP server with garden tools.
type Server struct {
	mcp *server.MCPServer
	svc Garden
}

// New creates a new MCP server with all garden tools registered.
func New(svc Garden, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Garden",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_posts",
		mcp.WithDescription("Full-text search through post titles, bodies and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchPosts)

	s.mcp.AddTool(mcp.NewTool("read_post",
		mcp.WithDescription("Read a post: title, date, tags, Markdown body and rendered HTML."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the post inside the posts directory (e.g. folder/post.md)")),
	), s.readPost)

	s.mcp.AddTool(mcp.NewTool("list_posts",
		mcp.WithDescription("List posts newest first, optionally filtered by tag (nested tags included)."),
		mcp.WithString("tag", mcp.Description("Optional tag such as area or area/sub")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of posts (default 50)")),
	), s.listPosts)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("Show the tag tree as an indented outline with per-tag post counts."),
		mcp.WithString("collapsed", mcp.Description("Optional comma-separated tag paths to collapse")),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("list_collections",
		mcp.WithDescription("List thought trains and labs with their titles and dates."),
	), s.listCollections)

	s.mcp.AddTool(mcp.NewTool("render_markdown",
		mcp.WithDescription("Render Markdown to HTML exactly as the garden renders post bodies."),
		mcp.WithString("markdown", mcp.Required(), mcp.Description("Markdown source")),
	), s.renderMarkdown)

	s.mcp.AddTool(mcp.NewTool("get_post_format",
		mcp.WithDescription("Returns the garden post format: front matter, hashtags, nesting and rendering rules."),
	), s.getPostFormat)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Post Format",
			mcp.WithResourceDescription("How garden posts are written and rendered."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPostFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func (s *Server) searchPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, searchLimit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no posts found"), nil
	}
	return jsonResult(results), nil
}

func (s *Server) readPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	post, err := s.svc.Post(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(post), nil
}

func (s *Server) listPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag := req.GetString("tag", "")
	limit := req.GetInt("limit", defaultListed)

	posts, total, err := s.svc.Posts(ctx, tag, limit, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d posts\n", len(posts), total)
	for _, p := range posts {
		fmt.Fprintf(&b, "%s  %s  (%s)  [%s]\n", p.Date, p.Title, p.Path, strings.Join(p.Tags, ", "))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var collapsed []string
	if raw := req.GetString("collapsed", ""); raw != "" {
		collapsed = strings.Split(raw, ",")
	}
	tree, err := s.svc.TagTree(ctx, tagtree.CollapsedState(collapsed...))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if tree.Outline == "" {
		return mcp.NewToolResultText("no tags"), nil
	}
	return mcp.NewToolResultText(tree.Outline), nil
}

func (s *Server) listCollections(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	trains, err := s.svc.Trains(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	labs, err := s.svc.Labs(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var b strings.Builder
	b.WriteString("Thought trains:\n")
	for _, t := range trains {
		fmt.Fprintf(&b, "- %s  %s (%s)\n", t.Date, t.Title, t.Filename)
	}
	b.WriteString("Labs:\n")
	for _, l := range labs {
		fmt.Fprintf(&b, "- %s  %s (%s)\n", l.Date, l.Title, l.Filename)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) renderMarkdown(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	md, err := req.RequireString("markdown")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.svc.Render(md)), nil
}

func (s *Server) getPostFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PostFormatContract), nil
}

func (s *Server) readPostFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     PostFormatContract,
		},
	}, nil
}

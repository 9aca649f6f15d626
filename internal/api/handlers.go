package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/garden/internal/tagtree"
)

const maxRenderBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc Service
}

// NewHandler creates a new Handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// wildcardPath extracts the document path from the URL (everything after the
// collection prefix). Supports encoded slashes (e.g. area%2Fpost.md).
//
// chi routes on r.URL.RawPath when it is set and on the decoded r.URL.Path
// otherwise, so the parameter is unescaped only in the first case.
func wildcardPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" || r.URL.RawPath == "" {
		return raw
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListPosts handles GET /api/posts.
//
//	@Summary		List posts, newest first
//	@Tags			posts
//	@Produce		json
//	@Param			tag		query		string	false	"Filter by tag, including nested tags"
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Success		200		{object}	PostListResponse
//	@Security		BearerAuth
//	@Router			/posts [get]
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.Posts(r.Context(), q.Get("tag"), limit, offset)
	if err != nil {
		writeError(w, "list posts", err)
		return
	}
	if items == nil {
		items = []PostSummary{}
	}
	writeJSON(w, http.StatusOK, PostListResponse{Posts: items, Total: total})
}

// GetPost handles GET /api/posts/*.
//
//	@Summary		Get a single post with rendered HTML
//	@Tags			posts
//	@Produce		json
//	@Param			path	path		string	true	"Post path"
//	@Success		200		{object}	PostDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/posts/{path} [get]
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	path := wildcardPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	post, err := h.svc.Post(r.Context(), path)
	if err != nil {
		writeError(w, "get post", err, slog.String("path", path))
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Tags handles GET /api/tags.
//
//	@Summary		Get the tag tree
//	@Tags			tags
//	@Produce		json
//	@Param			collapsed	query		string	false	"Comma-separated tag paths to collapse"
//	@Success		200			{object}	TagTree
//	@Security		BearerAuth
//	@Router			/tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	var collapsed []string
	if raw := r.URL.Query().Get("collapsed"); raw != "" {
		collapsed = strings.Split(raw, ",")
	}
	tree, err := h.svc.TagTree(r.Context(), tagtree.CollapsedState(collapsed...))
	if err != nil {
		writeError(w, "tag tree", err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// ListTrains handles GET /api/trains.
//
//	@Summary		List thought trains, newest first
//	@Tags			trains
//	@Produce		json
//	@Success		200	{object}	TrainListResponse
//	@Security		BearerAuth
//	@Router			/trains [get]
func (h *Handler) ListTrains(w http.ResponseWriter, r *http.Request) {
	trains, err := h.svc.Trains(r.Context())
	if err != nil {
		writeError(w, "list trains", err)
		return
	}
	writeJSON(w, http.StatusOK, TrainListResponse{Trains: trains})
}

// GetTrain handles GET /api/trains/*.
//
//	@Summary		Get a single thought train with rendered HTML
//	@Tags			trains
//	@Produce		json
//	@Param			path	path		string	true	"Train path"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/trains/{path} [get]
func (h *Handler) GetTrain(w http.ResponseWriter, r *http.Request) {
	path := wildcardPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	train, err := h.svc.Train(r.Context(), path)
	if err != nil {
		writeError(w, "get train", err, slog.String("path", path))
		return
	}
	writeJSON(w, http.StatusOK, train)
}

// ListLabs handles GET /api/labs.
//
//	@Summary		List labs, newest first
//	@Tags			labs
//	@Produce		json
//	@Success		200	{object}	LabListResponse
//	@Security		BearerAuth
//	@Router			/labs [get]
func (h *Handler) ListLabs(w http.ResponseWriter, r *http.Request) {
	labs, err := h.svc.Labs(r.Context())
	if err != nil {
		writeError(w, "list labs", err)
		return
	}
	writeJSON(w, http.StatusOK, LabListResponse{Labs: labs})
}

// GetLab handles GET /api/labs/*.
//
//	@Summary		Get a single lab with rendered HTML
//	@Tags			labs
//	@Produce		json
//	@Param			path	path		string	true	"Lab path"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/labs/{path} [get]
func (h *Handler) GetLab(w http.ResponseWriter, r *http.Request) {
	path := wildcardPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	lab, err := h.svc.Lab(r.Context(), path)
	if err != nil {
		writeError(w, "get lab", err, slog.String("path", path))
		return
	}
	writeJSON(w, http.StatusOK, lab)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across posts
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	hits, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err, slog.String("query", q))
		return
	}
	results := make([]SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = SearchResult{Path: hit.Path, Title: hit.Title, Snippet: hit.Snippet}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Render handles POST /api/render.
//
//	@Summary		Render markdown to HTML
//	@Tags			render
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RenderRequest	true	"Markdown to render"
//	@Success		200		{object}	RenderResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/render [post]
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRenderBytes)
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	writeJSON(w, http.StatusOK, RenderResponse{HTML: h.svc.Render(req.Markdown)})
}

package api

import (
	"errors"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/starford/garden/internal/apperr"
	"github.com/starford/garden/internal/storage"
)

// AssetHandler serves images and other files stored next to the posts.
// Markdown sources and dot files are not served.
type AssetHandler struct {
	store storage.Provider
}

// NewAssetHandler creates a handler over the posts collection.
func NewAssetHandler(store storage.Provider) *AssetHandler {
	return &AssetHandler{store: store}
}

// ServeFile handles GET /posts/*. Image paths are percent-encoded per
// segment by the renderer; chi hands over the decoded path.
func (h *AssetHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := wildcardPath(r)
	if name == "" || storage.IsMarkdown(name) || hiddenSegment(name) {
		http.NotFound(w, r)
		return
	}
	abs, err := h.store.Abs(name)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidPath) {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, r, abs)
}

func hiddenSegment(name string) bool {
	for _, seg := range strings.Split(path.Clean("/"+name), "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JobThompson/Navidrome-OBS-Plugin/config"
	"github.com/JobThompson/Navidrome-OBS-Plugin/logger"
)

// StaticHandler serves files under the configured assets directory, such as
// the bundled "nothing playing" placeholder images.
type StaticHandler struct {
	cfg *config.Config
}

// NewStaticHandler creates a StaticHandler instance.
func NewStaticHandler(cfg *config.Config) *StaticHandler {
	return &StaticHandler{cfg: cfg}
}

// ServeHTTP resolves the requested path strictly inside the assets root.
// Anything that escapes the root after cleaning is rejected.
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requested := strings.TrimPrefix(r.URL.Path, "/assets/")
	requested = strings.TrimLeft(requested, "/\\")

	root, err := filepath.Abs(h.cfg.AssetsDir)
	if err != nil {
		http.Error(w, "Assets unavailable", http.StatusInternalServerError)
		return
	}

	candidate := filepath.Join(root, filepath.FromSlash(requested))
	candidate = filepath.Clean(candidate)
	if candidate != root && !strings.HasPrefix(candidate, root+string(filepath.Separator)) {
		http.Error(w, "Invalid asset path", http.StatusBadRequest)
		return
	}

	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	data, err := os.ReadFile(candidate)
	if err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", assetContentType(candidate))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	if _, err := w.Write(data); err != nil {
		logger.Debug("failed to write asset response", logger.ErrorField(err))
	}
}

// assetContentType guesses a content type from the file extension.
func assetContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JobThompson/Navidrome-OBS-Plugin/config"
	"github.com/JobThompson/Navidrome-OBS-Plugin/core/overlay"
	"github.com/JobThompson/Navidrome-OBS-Plugin/core/subsonic"
	"github.com/JobThompson/Navidrome-OBS-Plugin/logger"
	"github.com/JobThompson/Navidrome-OBS-Plugin/model"
)

// Backend is everything the handlers need from the Subsonic client.
type Backend interface {
	overlay.Backend
	FetchCoverArt(coverID string) ([]byte, error)
}

// APIHandler serves the overlay endpoints. Each request is independent and
// stateless; the handler only carries the immutable configuration and the
// shared backend client.
type APIHandler struct {
	cfg     *config.Config
	backend Backend
}

// NewAPIHandler creates the handler set.
func NewAPIHandler(cfg *config.Config, backend Backend) *APIHandler {
	return &APIHandler{cfg: cfg, backend: backend}
}

// NowPlayingHandler returns the normalized now-playing payload. It always
// answers 200: backend failures degrade to an {isPlaying:false, error:...}
// payload so the embedded browser client never needs to special-case HTTP
// errors. Caching is disabled because the client depends on fresh data every
// poll.
func (h *APIHandler) NowPlayingHandler(w http.ResponseWriter, r *http.Request) {
	var payload model.NowPlayingPayload

	resolution, err := overlay.Resolve(h.backend)
	if err != nil {
		logger.Warn("failed to fetch now playing", logger.ErrorField(err))
		payload = overlay.ErrorPayload(
			fmt.Sprintf("Unable to reach Navidrome (%s)", errorKind(err)), time.Now())
	} else {
		payload = overlay.BuildNowPlayingPayload(resolution.Entry, resolution.Paused, resolution.Elapsed, time.Now())
	}

	writeJSON(w, payload)
}

// errorKind names a backend failure for the client-visible error note.
func errorKind(err error) string {
	var (
		authErr    *subsonic.AuthError
		protoErr   *subsonic.ProtocolError
		networkErr *subsonic.NetworkError
		decodeErr  *subsonic.DecodeError
	)
	switch {
	case errors.As(err, &authErr):
		return "authentication failed"
	case errors.As(err, &protoErr):
		return "backend error"
	case errors.As(err, &networkErr):
		return "network error"
	case errors.As(err, &decodeErr):
		return "invalid response"
	default:
		return "error"
	}
}

// CoverArtHandler proxies cover art bytes from the backend. Cover art for a
// stable id never changes, so responses carry a deterministic ETag and a
// year-long cache lifetime; a matching If-None-Match short-circuits to 304
// without touching the backend at all.
func (h *APIHandler) CoverArtHandler(w http.ResponseWriter, r *http.Request) {
	coverID := strings.TrimPrefix(r.URL.Path, overlay.CoverPathPrefix)
	if coverID == "" {
		http.Error(w, "Cover art ID missing", http.StatusBadRequest)
		return
	}

	// The id arrives percent-decoded; re-escape it so the entity-tag stays
	// within the characters RFC 7232 allows.
	etag := fmt.Sprintf("%q", "cover-"+url.PathEscape(coverID))

	if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, etag) {
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "public, max-age=31536000")
		w.WriteHeader(http.StatusNotModified)
		return
	}

	coverBytes, err := h.backend.FetchCoverArt(coverID)
	if err != nil {
		logger.Warn("failed to fetch cover art",
			logger.String("coverId", coverID), logger.ErrorField(err))
		http.Error(w, "Unable to fetch cover art", http.StatusBadGateway)
		return
	}
	if len(coverBytes) == 0 {
		http.Error(w, "Cover art unavailable", http.StatusNotFound)
		return
	}

	// Only successful responses are cacheable; a cached failure would pin a
	// transient outage for the cache lifetime.
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(coverBytes)))
	if _, err := w.Write(coverBytes); err != nil {
		logger.Debug("failed to write cover art response", logger.ErrorField(err))
	}
}

// etagMatches reports whether an If-None-Match header value matches the
// given ETag, honoring lists and the wildcard form.
func etagMatches(headerValue, etag string) bool {
	if strings.TrimSpace(headerValue) == "*" {
		return true
	}
	for _, candidate := range strings.Split(headerValue, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == etag {
			return true
		}
	}
	return false
}

// ThemeHandler exposes the resolved theme as its CSS variable map. The
// variable names are shared with the overlay page and must stay stable.
func (h *APIHandler) ThemeHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.cfg.Theme.ToCSSVars())
}

// HealthHandler is a plain liveness probe.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// writeJSON sends a JSON response with cache-busting headers.
func writeJSON(w http.ResponseWriter, payload any) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(encoded)))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(encoded); err != nil {
		logger.Debug("failed to write json response", logger.ErrorField(err))
	}
}

package server

import (
	"bytes"
	"html/template"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/JobThompson/Navidrome-OBS-Plugin/logger"
)

// indexData feeds the overlay page template.
type indexData struct {
	RefreshMs      int
	ShowProgress   bool
	ThemeVars      template.CSS
	PlaceholderURL string
}

// IndexHandler renders the overlay page. The page is generated per request
// so refresh interval and theme changes only need a process restart, never a
// template edit.
func (h *APIHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	placeholderURL := ""
	switch h.cfg.NothingPlayingPlaceholder {
	case "dark":
		placeholderURL = "/assets/Nothing%20Playing%20Dark.png"
	case "light":
		placeholderURL = "/assets/Nothing%20Playing%20Light.png"
	}

	refresh := h.cfg.RefreshSeconds
	if refresh < 1 {
		refresh = 1
	}

	data := indexData{
		RefreshMs:      refresh * 1000,
		ShowProgress:   h.cfg.ShowProgress,
		ThemeVars:      themeCSSBlock(h.cfg.Theme.ToCSSVars()),
		PlaceholderURL: placeholderURL,
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		logger.Error("failed to render overlay page", logger.ErrorField(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Debug("failed to write overlay page", logger.ErrorField(err))
	}
}

// themeCSSBlock renders the theme variables as declarations for the page's
// :root rule, sorted so output is deterministic.
func themeCSSBlock(vars map[string]string) template.CSS {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString("      ")
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(vars[name])
		b.WriteString(";\n")
	}
	return template.CSS(b.String())
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Navidrome Now Playing</title>
  <style>
    :root {
      color-scheme: dark;
{{.ThemeVars}}    }
    body {
      margin: 0;
      font-family: var(--overlay-font-family);
      background: transparent;
      color: var(--overlay-text-color);
    }
    .card {
      display: flex;
      align-items: center;
      gap: var(--overlay-card-gap);
      padding: var(--overlay-card-padding-y) var(--overlay-card-padding-x);
      background: var(--overlay-card-bg);
      border-radius: var(--overlay-card-radius);
      width: fit-content;
      min-width: var(--overlay-card-min-width);
      box-shadow: var(--overlay-card-shadow);
    }
    .cover {
      width: var(--overlay-cover-size);
      height: var(--overlay-cover-size);
      border-radius: var(--overlay-cover-radius);
      object-fit: cover;
      background: rgba(255, 255, 255, 0.08);
      position: relative;
    }
    .cover.default::before {
      content: "\1F3B5";
      position: absolute;
      top: 50%;
      left: 50%;
      transform: translate(-50%, -50%);
      font-size: 32px;
      opacity: 0.6;
    }
    .info {
      display: flex;
      flex-direction: column;
      min-width: 180px;
    }
    .title {
      font-size: var(--overlay-title-size);
      font-weight: 600;
    }
    .artist {
      font-size: var(--overlay-artist-size);
      opacity: var(--overlay-muted-opacity);
      margin-top: 4px;
    }
    .progress-track {
      position: relative;
      height: var(--overlay-progress-height);
      border-radius: 999px;
      background: var(--overlay-progress-track-bg);
      margin-top: 12px;
      overflow: hidden;
    }
    .progress-fill {
      position: absolute;
      height: 100%;
      left: 0;
      top: 0;
      background: linear-gradient(90deg, var(--overlay-accent-start), var(--overlay-accent-end));
      width: 0%;
      transition: width 0.4s ease;
    }
    .time {
      font-size: var(--overlay-time-size);
      margin-top: 8px;
      opacity: 0.75;
    }
    .card.paused .cover,
    .card.paused .progress-fill {
      filter: grayscale(0.6);
    }
  </style>
</head>
<body>
  <div class="card" id="card">
    <img class="cover" id="cover" alt="Cover art" />
    <div class="info">
      <div class="title" id="title">Loading…</div>
      <div class="artist" id="artist"></div>
{{- if .ShowProgress}}
      <div class="progress-track" id="progress-track">
        <div class="progress-fill" id="progress"></div>
      </div>
      <div class="time" id="time"></div>
{{- end}}
    </div>
  </div>

  <script>
    const refreshMs = {{.RefreshMs}};
    const showProgress = {{.ShowProgress}};
    const placeholderCoverUrl = {{.PlaceholderURL}};
    const cardEl = document.getElementById("card");
    const titleEl = document.getElementById("title");
    const artistEl = document.getElementById("artist");
    const coverEl = document.getElementById("cover");
    const progressEl = document.getElementById("progress");
    const timeEl = document.getElementById("time");
    let currentPayload = null;

    function formatTime(totalSeconds) {
      const minutes = Math.floor(totalSeconds / 60);
      const seconds = Math.floor(totalSeconds % 60).toString().padStart(2, "0");
      return minutes + ":" + seconds;
    }

    function updateProgress() {
      if (!showProgress || !currentPayload || !currentPayload.isPlaying) {
        return;
      }
      const duration = currentPayload.durationSeconds || 0;
      let elapsed = currentPayload.elapsedSeconds || 0;
      if (!currentPayload.isPaused) {
        const now = Date.now() / 1000;
        elapsed = Math.min(duration || Infinity, elapsed + (now - currentPayload.serverTime));
      }
      const percent = duration > 0 ? (elapsed / duration) * 100 : 0;
      progressEl.style.width = percent + "%";
      timeEl.textContent = duration ? formatTime(elapsed) + " / " + formatTime(duration) : "";
    }

    function showDefaultCover() {
      if (placeholderCoverUrl) {
        coverEl.src = placeholderCoverUrl;
        coverEl.classList.remove("default");
      } else {
        coverEl.removeAttribute("src");
        coverEl.classList.add("default");
      }
    }

    function resetProgress() {
      if (!showProgress) {
        return;
      }
      progressEl.style.width = "0%";
      timeEl.textContent = "";
    }

    function applyPayload(payload) {
      currentPayload = payload;
      if (!payload.isPlaying) {
        titleEl.textContent = "Nothing playing";
        artistEl.textContent = "";
        cardEl.classList.remove("paused");
        showDefaultCover();
        resetProgress();
        return;
      }

      titleEl.textContent = payload.title;
      artistEl.textContent = payload.artist || "";
      cardEl.classList.toggle("paused", !!payload.isPaused);
      if (payload.coverUrl) {
        coverEl.src = payload.coverUrl;
        coverEl.classList.remove("default");
      } else {
        showDefaultCover();
      }
      updateProgress();
    }

    async function refreshNowPlaying() {
      try {
        const response = await fetch("/api/now-playing", { cache: "no-store" });
        const payload = await response.json();
        applyPayload(payload);
      } catch (error) {
        titleEl.textContent = "Unable to reach Navidrome";
        artistEl.textContent = "";
        cardEl.classList.remove("paused");
        showDefaultCover();
        resetProgress();
      }
    }

    refreshNowPlaying();
    setInterval(refreshNowPlaying, refreshMs);
    if (showProgress) {
      setInterval(updateProgress, 500);
    }
  </script>
</body>
</html>
`))

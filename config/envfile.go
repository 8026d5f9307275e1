package config

import (
	"os"
	"sort"
	"strings"
)

// envKeyOrder fixes the layout of wizard-written env files so diffs stay
// readable across re-runs.
var envKeyOrder = []string{
	"NAVIDROME_URL",
	"NAVIDROME_USER",
	"NAVIDROME_PASSWORD",
	"NAVIDROME_CLIENT_NAME",
	"NAVIDROME_API_VERSION",
	"NAVIDROME_TIMEOUT",
	"OVERLAY_HOST",
	"OVERLAY_PORT",
	"OVERLAY_REFRESH_SECONDS",
	"OVERLAY_SHOW_PROGRESS",
	"OVERLAY_NOTHING_PLAYING_PLACEHOLDER",

	// Theme (optional)
	"OVERLAY_THEME_FONT_FAMILY",
	"OVERLAY_THEME_TEXT_COLOR",
	"OVERLAY_THEME_MUTED_OPACITY",
	"OVERLAY_THEME_CARD_BG",
	"OVERLAY_THEME_CARD_RADIUS_PX",
	"OVERLAY_THEME_CARD_SHADOW",
	"OVERLAY_THEME_CARD_MIN_WIDTH_PX",
	"OVERLAY_THEME_CARD_GAP_PX",
	"OVERLAY_THEME_CARD_PADDING_Y_PX",
	"OVERLAY_THEME_CARD_PADDING_X_PX",
	"OVERLAY_THEME_COVER_SIZE_PX",
	"OVERLAY_THEME_COVER_RADIUS_PX",
	"OVERLAY_THEME_TITLE_SIZE_PX",
	"OVERLAY_THEME_ARTIST_SIZE_PX",
	"OVERLAY_THEME_TIME_SIZE_PX",
	"OVERLAY_THEME_PROGRESS_TRACK_BG",
	"OVERLAY_THEME_PROGRESS_HEIGHT_PX",
	"OVERLAY_THEME_ACCENT_START",
	"OVERLAY_THEME_ACCENT_END",
}

// WriteEnvFile persists the given values in the fixed key order, with any
// unknown keys appended alphabetically. godotenv's own writer sorts keys and
// drops comments, so this writer keeps the header and layout the wizard
// promises.
func WriteEnvFile(path string, values map[string]string) error {
	lines := []string{
		"# Navidrome OBS Overlay configuration",
		"# Read automatically on startup; pass a different path with --env-file.",
		"#",
		"# Tip: keep this file out of source control (it holds credentials).",
		"",
	}

	written := make(map[string]bool, len(values))
	for _, key := range envKeyOrder {
		if v, ok := values[key]; ok {
			lines = append(lines, key+"="+v)
			written[key] = true
		}
	}

	var extras []string
	for key := range values {
		if !written[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	for _, key := range extras {
		lines = append(lines, key+"="+values[key])
	}

	content := strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
	return os.WriteFile(path, []byte(content), 0o600)
}

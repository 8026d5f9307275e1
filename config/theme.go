package config

import (
	"strconv"
	"strings"
)

// Theme holds the overlay's visual knobs. Every field has a default, so a
// bare configuration renders the stock dark card.
type Theme struct {
	FontFamily   string
	TextColor    string
	MutedOpacity float64

	CardBG         string
	CardRadiusPx   int
	CardShadow     string
	CardMinWidthPx int
	CardGapPx      int
	CardPaddingYPx int
	CardPaddingXPx int

	CoverSizePx   int
	CoverRadiusPx int

	TitleSizePx  int
	ArtistSizePx int
	TimeSizePx   int

	ProgressTrackBG  string
	ProgressHeightPx int
	AccentStart      string
	AccentEnd        string
}

// DefaultTheme returns the stock dark card styling.
func DefaultTheme() Theme {
	return Theme{
		FontFamily:       `"Segoe UI", sans-serif`,
		TextColor:        "#f4f4f5",
		MutedOpacity:     0.8,
		CardBG:           "rgba(10, 10, 10, 0.75)",
		CardRadiusPx:     14,
		CardShadow:       "0 8px 24px rgba(0, 0, 0, 0.45)",
		CardMinWidthPx:   320,
		CardGapPx:        16,
		CardPaddingYPx:   16,
		CardPaddingXPx:   20,
		CoverSizePx:      96,
		CoverRadiusPx:    12,
		TitleSizePx:      18,
		ArtistSizePx:     14,
		TimeSizePx:       12,
		ProgressTrackBG:  "rgba(255, 255, 255, 0.2)",
		ProgressHeightPx: 6,
		AccentStart:      "#60a5fa",
		AccentEnd:        "#34d399",
	}
}

// loadTheme fills a Theme from OVERLAY_THEME_* settings via the provided
// picker, keeping the defaults for anything unset or unparseable.
func loadTheme(pick func(name, fallback string) string) Theme {
	d := DefaultTheme()
	return Theme{
		FontFamily:       cleanCSSValue(pick("OVERLAY_THEME_FONT_FAMILY", ""), d.FontFamily),
		TextColor:        cleanCSSValue(pick("OVERLAY_THEME_TEXT_COLOR", ""), d.TextColor),
		MutedOpacity:     asFloat(pick("OVERLAY_THEME_MUTED_OPACITY", ""), d.MutedOpacity),
		CardBG:           cleanCSSValue(pick("OVERLAY_THEME_CARD_BG", ""), d.CardBG),
		CardRadiusPx:     asInt(pick("OVERLAY_THEME_CARD_RADIUS_PX", ""), d.CardRadiusPx),
		CardShadow:       cleanCSSValue(pick("OVERLAY_THEME_CARD_SHADOW", ""), d.CardShadow),
		CardMinWidthPx:   asInt(pick("OVERLAY_THEME_CARD_MIN_WIDTH_PX", ""), d.CardMinWidthPx),
		CardGapPx:        asInt(pick("OVERLAY_THEME_CARD_GAP_PX", ""), d.CardGapPx),
		CardPaddingYPx:   asInt(pick("OVERLAY_THEME_CARD_PADDING_Y_PX", ""), d.CardPaddingYPx),
		CardPaddingXPx:   asInt(pick("OVERLAY_THEME_CARD_PADDING_X_PX", ""), d.CardPaddingXPx),
		CoverSizePx:      asInt(pick("OVERLAY_THEME_COVER_SIZE_PX", ""), d.CoverSizePx),
		CoverRadiusPx:    asInt(pick("OVERLAY_THEME_COVER_RADIUS_PX", ""), d.CoverRadiusPx),
		TitleSizePx:      asInt(pick("OVERLAY_THEME_TITLE_SIZE_PX", ""), d.TitleSizePx),
		ArtistSizePx:     asInt(pick("OVERLAY_THEME_ARTIST_SIZE_PX", ""), d.ArtistSizePx),
		TimeSizePx:       asInt(pick("OVERLAY_THEME_TIME_SIZE_PX", ""), d.TimeSizePx),
		ProgressTrackBG:  cleanCSSValue(pick("OVERLAY_THEME_PROGRESS_TRACK_BG", ""), d.ProgressTrackBG),
		ProgressHeightPx: asInt(pick("OVERLAY_THEME_PROGRESS_HEIGHT_PX", ""), d.ProgressHeightPx),
		AccentStart:      cleanCSSValue(pick("OVERLAY_THEME_ACCENT_START", ""), d.AccentStart),
		AccentEnd:        cleanCSSValue(pick("OVERLAY_THEME_ACCENT_END", ""), d.AccentEnd),
	}
}

// ToCSSVars renders the theme as CSS custom properties. The variable names
// are load-bearing: both the overlay page and /api/theme expose them.
func (t Theme) ToCSSVars() map[string]string {
	px := func(n int) string { return strconv.Itoa(n) + "px" }
	return map[string]string{
		"--overlay-font-family":       t.FontFamily,
		"--overlay-text-color":        t.TextColor,
		"--overlay-muted-opacity":     strconv.FormatFloat(t.MutedOpacity, 'g', -1, 64),
		"--overlay-card-bg":           t.CardBG,
		"--overlay-card-radius":       px(t.CardRadiusPx),
		"--overlay-card-shadow":       t.CardShadow,
		"--overlay-card-min-width":    px(t.CardMinWidthPx),
		"--overlay-card-gap":          px(t.CardGapPx),
		"--overlay-card-padding-y":    px(t.CardPaddingYPx),
		"--overlay-card-padding-x":    px(t.CardPaddingXPx),
		"--overlay-cover-size":        px(t.CoverSizePx),
		"--overlay-cover-radius":      px(t.CoverRadiusPx),
		"--overlay-title-size":        px(t.TitleSizePx),
		"--overlay-artist-size":       px(t.ArtistSizePx),
		"--overlay-time-size":         px(t.TimeSizePx),
		"--overlay-progress-track-bg": t.ProgressTrackBG,
		"--overlay-progress-height":   px(t.ProgressHeightPx),
		"--overlay-accent-start":      t.AccentStart,
		"--overlay-accent-end":        t.AccentEnd,
	}
}

// cleanCSSValue strips control characters from values embedded into a
// <style> tag. Normal CSS tokens like rgba(...), #hex, and font lists pass
// through unchanged.
func cleanCSSValue(value, fallback string) string {
	cleaned := strings.ReplaceAll(value, "\r", " ")
	cleaned = strings.ReplaceAll(cleaned, "\n", " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return fallback
	}
	return cleaned
}

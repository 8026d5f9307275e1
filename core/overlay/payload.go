package overlay

import (
	"math"
	"net/url"
	"time"

	"github.com/JobThompson/Navidrome-OBS-Plugin/model"
)

// CoverPathPrefix is where the overlay's own cover proxy is mounted. Cover
// URLs in payloads point here so backend credentials never reach the
// browser.
const CoverPathPrefix = "/api/cover/"

// Defaults for absent metadata.
const (
	unknownTitle  = "Unknown Title"
	unknownArtist = "Unknown Artist"
)

// BuildNowPlayingPayload converts a resolved entry into the wire payload.
//
// Elapsed seconds prefer the authoritative queue position when supplied and
// otherwise derive from the entry's minutesAgo field; either way the value
// is floored at zero and, when the duration is known and positive, capped at
// the duration. The caller passes the wall clock so identical inputs yield
// identical payloads apart from serverTime.
func BuildNowPlayingPayload(entry *model.Entry, paused bool, elapsedOverride model.OptionalSeconds, now time.Time) model.NowPlayingPayload {
	serverTime := float64(now.UnixNano()) / float64(time.Second)

	if entry == nil {
		return model.NowPlayingPayload{
			IsPlaying:  false,
			ServerTime: serverTime,
		}
	}

	duration := entry.Duration
	var elapsed int
	if elapsedOverride.Valid {
		elapsed = elapsedOverride.Seconds
	} else {
		elapsed = int(math.Round(entry.MinutesAgo * 60))
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if duration > 0 && elapsed > duration {
		elapsed = duration
	}

	coverID := entry.CoverArt.String()
	if coverID == "" {
		coverID = entry.ID.String()
	}
	coverURL := ""
	if coverID != "" {
		coverURL = CoverPathPrefix + url.PathEscape(coverID)
	}

	title := entry.Title
	if title == "" {
		title = unknownTitle
	}
	artist := entry.Artist
	if artist == "" {
		artist = unknownArtist
	}

	return model.NowPlayingPayload{
		IsPlaying: true,
		TrackDetails: &model.TrackDetails{
			IsPaused:        paused,
			Title:           title,
			Artist:          artist,
			Album:           entry.Album,
			CoverURL:        coverURL,
			DurationSeconds: duration,
			ElapsedSeconds:  elapsed,
		},
		ServerTime: serverTime,
	}
}

// ErrorPayload is the degraded now-playing payload handed to the client when
// the backend cannot be reached. The overlay shows its idle state and
// recovers on a later poll with no intervention.
func ErrorPayload(message string, now time.Time) model.NowPlayingPayload {
	return model.NowPlayingPayload{
		IsPlaying:  false,
		ServerTime: float64(now.UnixNano()) / float64(time.Second),
		Error:      message,
	}
}

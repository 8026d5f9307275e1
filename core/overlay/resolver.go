// Package overlay turns raw backend playback state into the payload the
// browser overlay consumes.
package overlay

import (
	"github.com/JobThompson/Navidrome-OBS-Plugin/model"
)

// Backend is the slice of the Subsonic client the resolver depends on.
type Backend interface {
	FetchNowPlayingEntries() ([]model.Entry, error)
	FetchPlayQueueCurrent() (*model.Entry, model.OptionalSeconds, error)
}

// Resolution is the reconciled "what is currently playing" view.
type Resolution struct {
	// Entry is the track to display, or nil when nothing is playing.
	Entry *model.Entry
	// Paused reports the pause heuristic's verdict (see Resolve).
	Paused bool
	// Elapsed is the play queue's authoritative position within the track,
	// when the backend supplied one.
	Elapsed model.OptionalSeconds
}

// Resolve merges the backend's two playback views, which can disagree.
//
// getNowPlaying only reports actively streaming tracks, so reading it alone
// would show "nothing playing" during a pause and the overlay would blank
// out mid-stream. The play queue still points at the current track while
// paused, so the two are reconciled:
//
//   - The displayed entry is the first now-playing entry if any exist,
//     otherwise the queue's current entry, otherwise none.
//   - Elapsed time comes from the queue's saved position when available;
//     the payload builder falls back to the entry's minutesAgo field.
//   - Paused is inferred, not reported: with both sources present, the track
//     counts as paused only when the queue's current id is missing from the
//     now-playing ids (an actively playing track shows up in both). An empty
//     now-playing list with a queue entry present also counts as paused.
//
// The pause inference is a heuristic. There is no backend-confirmed pause
// flag in the protocol, and server implementations differ in whether paused
// tracks linger in getNowPlaying.
func Resolve(backend Backend) (Resolution, error) {
	queueEntry, position, err := backend.FetchPlayQueueCurrent()
	if err != nil {
		return Resolution{}, err
	}

	nowPlaying, err := backend.FetchNowPlayingEntries()
	if err != nil {
		return Resolution{}, err
	}

	var entry *model.Entry
	if len(nowPlaying) > 0 {
		entry = &nowPlaying[0]
	} else if queueEntry != nil {
		entry = queueEntry
	}
	if entry == nil {
		return Resolution{}, nil
	}

	paused := false
	if queueEntry != nil {
		if len(nowPlaying) == 0 {
			paused = true
		} else {
			paused = true
			for i := range nowPlaying {
				if nowPlaying[i].ID == queueEntry.ID {
					paused = false
					break
				}
			}
		}
	}

	return Resolution{Entry: entry, Paused: paused, Elapsed: position}, nil
}

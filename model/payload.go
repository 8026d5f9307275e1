package model

// TrackDetails are the payload fields that exist only while something is
// playing. Embedded as a nil pointer when nothing plays, so encoding/json
// leaves the keys out entirely.
type TrackDetails struct {
	IsPaused        bool   `json:"isPaused"`
	Title           string `json:"title"`
	Artist          string `json:"artist"`
	Album           string `json:"album"`
	CoverURL        string `json:"coverUrl"`
	DurationSeconds int    `json:"durationSeconds"`
	ElapsedSeconds  int    `json:"elapsedSeconds"`
}

// NowPlayingPayload is the wire format the overlay page polls. ServerTime is
// the wall clock at construction, used client-side to extrapolate playback
// position between polls. ElapsedSeconds never exceeds DurationSeconds when
// the duration is known and positive.
type NowPlayingPayload struct {
	IsPlaying bool `json:"isPlaying"`
	*TrackDetails
	ServerTime float64 `json:"serverTime"`
	Error      string  `json:"error,omitempty"`
}

package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Entry is one track record as returned by a Subsonic-compatible backend.
// Every field may be absent; zero values stand in for missing data and the
// payload builder applies the documented defaults.
type Entry struct {
	ID         FlexID  `json:"id"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Album      string  `json:"album"`
	CoverArt   FlexID  `json:"coverArt"`
	Duration   int     `json:"duration"`   // seconds
	MinutesAgo float64 `json:"minutesAgo"` // minutes elapsed since the track started
}

// FlexID tolerates backends that emit numeric ids instead of strings.
type FlexID string

// UnmarshalJSON accepts a JSON string, number, or null.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

// EntryList normalizes the backend's "entry" field, which is a list when
// multiple tracks are reported and a bare object when there is exactly one.
// Anything that is not a well-formed record is discarded.
type EntryList []Entry

// UnmarshalJSON accepts a JSON array, a single object, or null.
func (l *EntryList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '{' {
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			// Not a well-formed record; treat as empty rather than failing.
			*l = nil
			return nil
		}
		*l = EntryList{e}
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*l = nil
		return nil
	}
	entries := make(EntryList, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal(item, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	*l = entries
	return nil
}

// OptionalSeconds carries a position-in-track value that the backend may omit
// or garble. A missing or non-numeric value decodes to Valid == false instead
// of an error.
type OptionalSeconds struct {
	Seconds int
	Valid   bool
}

// UnmarshalJSON accepts a JSON number, a numeric string, or anything else
// (which leaves the value unknown).
func (o *OptionalSeconds) UnmarshalJSON(data []byte) error {
	o.Seconds, o.Valid = 0, false
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return nil
		}
		s = unquoted
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	o.Seconds = int(parsed)
	o.Valid = true
	return nil
}

// PlayQueue is the backend's persisted queue state: which track is current
// and, optionally, how far into it playback sits.
type PlayQueue struct {
	Current  FlexID          `json:"current"`
	Position OptionalSeconds `json:"position"`
	Entry    EntryList       `json:"entry"`
}

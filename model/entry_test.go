package model

import (
	"encoding/json"
	"testing"
)

func TestEntryListNormalization(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLen   int
		wantFirst string // id of the first entry, when wantLen > 0
	}{
		{
			name:      "list of entries",
			input:     `[{"id":"1","title":"a"},{"id":"2","title":"b"}]`,
			wantLen:   2,
			wantFirst: "1",
		},
		{
			name:      "single object becomes one-element list",
			input:     `{"id":"42","title":"solo"}`,
			wantLen:   1,
			wantFirst: "42",
		},
		{
			name:    "null becomes empty list",
			input:   `null`,
			wantLen: 0,
		},
		{
			name:    "empty list",
			input:   `[]`,
			wantLen: 0,
		},
		{
			name:      "malformed members are discarded",
			input:     `[{"id":"1"},"not a record",3,{"id":"2"}]`,
			wantLen:   2,
			wantFirst: "1",
		},
		{
			name:    "scalar becomes empty list",
			input:   `"oops"`,
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list EntryList
			if err := json.Unmarshal([]byte(tt.input), &list); err != nil {
				t.Fatalf("Unmarshal(%q) returned error: %v", tt.input, err)
			}
			if len(list) != tt.wantLen {
				t.Fatalf("got %d entries, want %d", len(list), tt.wantLen)
			}
			if tt.wantLen > 0 && list[0].ID.String() != tt.wantFirst {
				t.Errorf("first entry id = %q, want %q", list[0].ID, tt.wantFirst)
			}
		})
	}
}

func TestEntryListAbsentField(t *testing.T) {
	var wrapper struct {
		Entry EntryList `json:"entry"`
	}
	if err := json.Unmarshal([]byte(`{}`), &wrapper); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if len(wrapper.Entry) != 0 {
		t.Errorf("absent entry field should normalize to empty list, got %d entries", len(wrapper.Entry))
	}
}

func TestFlexID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"abc"`, "abc"},
		{`123`, "123"},
		{`12.5`, "12.5"},
		{`null`, ""},
		{`""`, ""},
	}
	for _, tt := range tests {
		var id FlexID
		if err := json.Unmarshal([]byte(tt.input), &id); err != nil {
			t.Errorf("Unmarshal(%s) returned error: %v", tt.input, err)
			continue
		}
		if id.String() != tt.want {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, id, tt.want)
		}
	}
}

func TestOptionalSeconds(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantSeconds int
		wantValid   bool
	}{
		{"number", `{"position":93}`, 93, true},
		{"float truncates", `{"position":93.7}`, 93, true},
		{"numeric string", `{"position":"120"}`, 120, true},
		{"garbage string", `{"position":"soon"}`, 0, false},
		{"null", `{"position":null}`, 0, false},
		{"absent", `{}`, 0, false},
		{"object", `{"position":{"s":1}}`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var wrapper struct {
				Position OptionalSeconds `json:"position"`
			}
			if err := json.Unmarshal([]byte(tt.input), &wrapper); err != nil {
				t.Fatalf("Unmarshal(%q) returned error: %v", tt.input, err)
			}
			if wrapper.Position.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v", wrapper.Position.Valid, tt.wantValid)
			}
			if wrapper.Position.Seconds != tt.wantSeconds {
				t.Errorf("Seconds = %d, want %d", wrapper.Position.Seconds, tt.wantSeconds)
			}
		})
	}
}

func TestNowPlayingPayloadMarshalShape(t *testing.T) {
	t.Run("not playing has exactly two keys", func(t *testing.T) {
		payload := NowPlayingPayload{IsPlaying: false, ServerTime: 1700000000.25}
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Marshal returned error: %v", err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("Unmarshal returned error: %v", err)
		}
		if len(decoded) != 2 {
			t.Fatalf("got keys %v, want exactly isPlaying and serverTime", decoded)
		}
		if decoded["isPlaying"] != false {
			t.Errorf("isPlaying = %v, want false", decoded["isPlaying"])
		}
		if decoded["serverTime"] != 1700000000.25 {
			t.Errorf("serverTime = %v, want 1700000000.25", decoded["serverTime"])
		}
	})

	t.Run("playing includes track details and paused flag", func(t *testing.T) {
		payload := NowPlayingPayload{
			IsPlaying: true,
			TrackDetails: &TrackDetails{
				IsPaused:        false,
				Title:           "Song",
				Artist:          "Band",
				Album:           "",
				CoverURL:        "/api/cover/1",
				DurationSeconds: 200,
				ElapsedSeconds:  30,
			},
			ServerTime: 1,
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Marshal returned error: %v", err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("Unmarshal returned error: %v", err)
		}
		for _, key := range []string{"isPaused", "title", "artist", "album", "coverUrl", "durationSeconds", "elapsedSeconds"} {
			if _, ok := decoded[key]; !ok {
				t.Errorf("missing key %q in playing payload", key)
			}
		}
		if decoded["isPaused"] != false {
			t.Errorf("isPaused = %v, want false (present, not omitted)", decoded["isPaused"])
		}
		if _, ok := decoded["error"]; ok {
			t.Error("error key should be omitted when empty")
		}
	})
}

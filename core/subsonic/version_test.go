package subsonic

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// pingBackend scripts /rest/ping.view responses keyed by the requested
// protocol version and counts what was attempted.
type pingBackend struct {
	responses map[string]string
	attempts  []string
}

func (b *pingBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := r.URL.Query().Get("v")
		b.attempts = append(b.attempts, version)
		body, ok := b.responses[version]
		if !ok {
			body = `{"subsonic-response":{"status":"failed","error":{"code":20,"message":"Incompatible Subsonic REST protocol version."}}}`
		}
		fmt.Fprint(w, body)
	}
}

func TestDetectAPIVersion(t *testing.T) {
	const (
		okBody   = `{"subsonic-response":{"status":"ok","version":"1.16.1"}}`
		mismatch = `{"subsonic-response":{"status":"failed","error":{"code":20,"message":"Incompatible version"}}}`
		badAuth  = `{"subsonic-response":{"status":"failed","error":{"code":30,"message":"Wrong username or password"}}}`
		trial    = `{"subsonic-response":{"status":"failed","error":{"code":60,"message":"Trial period is over"}}}`
	)

	t.Run("falls through mismatches to the accepted candidate", func(t *testing.T) {
		backend := &pingBackend{responses: map[string]string{
			"2.0": mismatch,
			"1.0": `{"subsonic-response":{"status":"ok","version":"1.0"}}`,
		}}
		srv := httptest.NewServer(backend.handler())
		defer srv.Close()

		got, err := DetectAPIVersion(srv.URL, "alice", "secret", "obs-overlay", time.Second, []string{"2.0", "1.0"})
		if err != nil {
			t.Fatalf("DetectAPIVersion returned error: %v", err)
		}
		if got != "1.0" {
			t.Errorf("version = %q, want 1.0", got)
		}
		if len(backend.attempts) != 2 {
			t.Errorf("attempts = %v, want exactly the two candidates", backend.attempts)
		}
	})

	t.Run("prefers the server-reported version", func(t *testing.T) {
		backend := &pingBackend{responses: map[string]string{"1.15.0": okBody}}
		srv := httptest.NewServer(backend.handler())
		defer srv.Close()

		got, err := DetectAPIVersion(srv.URL, "alice", "secret", "obs-overlay", time.Second, []string{"1.15.0"})
		if err != nil {
			t.Fatalf("DetectAPIVersion returned error: %v", err)
		}
		if got != "1.16.1" {
			t.Errorf("version = %q, want the server-reported 1.16.1", got)
		}
	})

	t.Run("auth failure aborts without trying more candidates", func(t *testing.T) {
		backend := &pingBackend{responses: map[string]string{"2.0": badAuth}}
		srv := httptest.NewServer(backend.handler())
		defer srv.Close()

		_, err := DetectAPIVersion(srv.URL, "alice", "wrong", "obs-overlay", time.Second, []string{"2.0", "1.0"})
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("got %v (%T), want AuthError", err, err)
		}
		if len(backend.attempts) != 1 {
			t.Errorf("attempts = %v, want only the first candidate", backend.attempts)
		}
	})

	t.Run("other error codes abort with a ProtocolError", func(t *testing.T) {
		backend := &pingBackend{responses: map[string]string{"2.0": trial}}
		srv := httptest.NewServer(backend.handler())
		defer srv.Close()

		_, err := DetectAPIVersion(srv.URL, "alice", "secret", "obs-overlay", time.Second, []string{"2.0", "1.0"})
		var protoErr *ProtocolError
		if !errors.As(err, &protoErr) {
			t.Fatalf("got %v (%T), want ProtocolError", err, err)
		}
		if protoErr.Code != 60 || protoErr.Message != "Trial period is over" {
			t.Errorf("ProtocolError = %+v, want code 60 with backend message", protoErr)
		}
		if len(backend.attempts) != 1 {
			t.Errorf("attempts = %v, want only the first candidate", backend.attempts)
		}
	})

	t.Run("exhausting all candidates fails with VersionDetectionError", func(t *testing.T) {
		backend := &pingBackend{responses: map[string]string{}}
		srv := httptest.NewServer(backend.handler())
		defer srv.Close()

		_, err := DetectAPIVersion(srv.URL, "alice", "secret", "obs-overlay", time.Second, []string{"2.0", "1.0"})
		var versionErr *VersionDetectionError
		if !errors.As(err, &versionErr) {
			t.Fatalf("got %v (%T), want VersionDetectionError", err, err)
		}
		if len(backend.attempts) != 2 {
			t.Errorf("attempts = %v, want both candidates tried", backend.attempts)
		}
	})

	t.Run("unreachable server is a NetworkError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := DetectAPIVersion(srv.URL, "alice", "secret", "obs-overlay", time.Second, nil)
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("got %v (%T), want NetworkError", err, err)
		}
	})
}

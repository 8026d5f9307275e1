package subsonic

import (
	"fmt"
	"strings"
)

// The client reports failures as distinct kinds so the HTTP layer can decide
// what each one means for the overlay: transport problems degrade to a
// "nothing playing" payload, credential problems are surfaced to the
// operator, and protocol errors carry the backend's own message.

// NetworkError is a connection or timeout failure reaching the backend, or a
// non-success HTTP status from it.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("subsonic: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError means the backend answered but the body was not valid JSON.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("subsonic: %s: decoding response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// AuthError means the backend rejected the credentials. Retrying or probing
// other protocol versions is pointless once this is seen.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return "subsonic: authentication failed: " + e.Message
	}
	return "subsonic: authentication failed: wrong username or password"
}

// ProtocolError is a named backend error that is neither a version mismatch
// nor an authentication failure.
type ProtocolError struct {
	Code    int
	Message string
}

func (e *ProtocolError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unknown error"
	}
	return fmt.Sprintf("subsonic: ping failed (code %d): %s", e.Code, msg)
}

// VersionDetectionError means no candidate protocol version was accepted.
type VersionDetectionError struct {
	Candidates []string
}

func (e *VersionDetectionError) Error() string {
	return fmt.Sprintf(
		"subsonic: could not auto-detect a compatible API version (tried %s); try setting the version manually (Navidrome usually supports 1.16.1)",
		strings.Join(e.Candidates, ", "),
	)
}

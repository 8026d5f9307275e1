package subsonic

import (
	"net/http"
	"strings"
	"time"
)

// DefaultVersionCandidates are the protocol versions tried during
// auto-detection, newest first. Navidrome and most live Subsonic forks speak
// 1.16.x; the tail covers older servers.
var DefaultVersionCandidates = []string{
	"1.16.1",
	"1.16.0",
	"1.15.0",
	"1.14.0",
	"1.13.0",
	"1.12.0",
}

// DetectAPIVersion probes /rest/ping.view with each candidate protocol
// version until the backend accepts one, and returns the version the server
// reports (falling back to the accepted candidate).
//
// The REST API demands a 'v' parameter up front, but the supported version
// is unknown until a server replies, so trial and error over a short ordered
// list is the negotiation: an incompatible version reliably comes back as
// error code 20 rather than failing silently. Code 30 (bad credentials)
// aborts immediately with an AuthError, since no version will fix that; any
// other error code aborts with a ProtocolError carrying the backend's
// message. If every candidate is rejected, a VersionDetectionError is
// returned.
func DetectAPIVersion(baseURL, user, password, clientName string, timeout time.Duration, candidates []string) (string, error) {
	if len(candidates) == 0 {
		candidates = DefaultVersionCandidates
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := &http.Client{Timeout: timeout}

	for _, candidate := range candidates {
		u := buildURL(baseURL, user, password, candidate, clientName, "ping", nil, true)
		resp, err := fetchJSON(httpClient, "ping", u)
		if err != nil {
			return "", err
		}

		if resp.Status == "ok" {
			if resp.Version != "" {
				return resp.Version, nil
			}
			return candidate, nil
		}

		code, message := 0, ""
		if resp.Error != nil {
			code = resp.Error.Code
			message = strings.TrimSpace(resp.Error.Message)
		}
		switch code {
		case codeIncompatibleVersion:
			continue
		case codeWrongCredentials:
			return "", &AuthError{Message: message}
		default:
			return "", &ProtocolError{Code: code, Message: message}
		}
	}

	return "", &VersionDetectionError{Candidates: candidates}
}

// Package subsonic talks to a Subsonic-compatible REST API (Navidrome in
// practice) and normalizes its quirky response shapes into the model types.
package subsonic

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/JobThompson/Navidrome-OBS-Plugin/config"
	"github.com/JobThompson/Navidrome-OBS-Plugin/model"
)

// userAgent identifies the overlay on every backend request.
const userAgent = "Navidrome-OBS-Overlay"

// Client issues authenticated requests against one backend. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

// NewClient creates a client bound to the given connection profile.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// response is the "subsonic-response" object every JSON endpoint wraps its
// payload in.
type response struct {
	Status     string    `json:"status"`
	Version    string    `json:"version"`
	Error      *apiError `json:"error"`
	NowPlaying struct {
		Entry model.EntryList `json:"entry"`
	} `json:"nowPlaying"`
	PlayQueue *model.PlayQueue `json:"playQueue"`
}

type envelope struct {
	SubsonicResponse response `json:"subsonic-response"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Well-known Subsonic error codes. Servers vary, but these are the ones the
// version negotiation depends on.
const (
	codeIncompatibleVersion = 20
	codeWrongCredentials    = 30
)

// buildURL assembles a REST endpoint URL with the standard auth parameters
// merged in. Cover art requests must pass includeFormat=false: that endpoint
// returns raw bytes, and asking for f=json would change the response.
func (c *Client) buildURL(endpoint string, params url.Values, includeFormat bool) string {
	return buildURL(c.cfg.NavidromeURL, c.cfg.NavidromeUser, c.cfg.NavidromePassword,
		c.cfg.NavidromeVersion, c.cfg.NavidromeClient, endpoint, params, includeFormat)
}

func buildURL(baseURL, user, password, version, clientName, endpoint string, params url.Values, includeFormat bool) string {
	query := url.Values{}
	query.Set("u", user)
	query.Set("p", password)
	query.Set("v", version)
	query.Set("c", clientName)
	if includeFormat {
		query.Set("f", "json")
	}
	for key, values := range params {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	return fmt.Sprintf("%s/rest/%s.view?%s", baseURL, endpoint, query.Encode())
}

// fetchJSON issues a GET and decodes the subsonic-response envelope.
func (c *Client) fetchJSON(op, rawURL string) (*response, error) {
	return fetchJSON(c.httpClient, op, rawURL)
}

func fetchJSON(httpClient *http.Client, op, rawURL string) (*response, error) {
	body, err := fetchBytes(httpClient, op, rawURL)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}
	return &env.SubsonicResponse, nil
}

func fetchBytes(httpClient *http.Client, op, rawURL string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("unexpected HTTP status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	return body, nil
}

// FetchNowPlayingEntries returns the backend's live now-playing report.
// getNowPlaying can list several entries (across devices and users); the
// whole normalized list is returned in order. "Nothing playing" and
// API-level failure statuses both yield an empty list rather than an error,
// since an idle backend is a normal condition.
func (c *Client) FetchNowPlayingEntries() ([]model.Entry, error) {
	u := c.buildURL("getNowPlaying", nil, true)
	resp, err := c.fetchJSON("getNowPlaying", u)
	if err != nil {
		return nil, err
	}
	if resp.Status != "ok" {
		return nil, nil
	}
	return resp.NowPlaying.Entry, nil
}

// FetchPlayQueueCurrent returns the play queue's current entry and its saved
// position within the track. The queue is the only source that still knows
// the current track while playback is paused. The returned position is
// unknown (Valid == false) when the backend omits or garbles it.
//
// Entry selection: the entry whose id matches the queue's declared current
// id; otherwise the first entry; otherwise nil.
func (c *Client) FetchPlayQueueCurrent() (*model.Entry, model.OptionalSeconds, error) {
	u := c.buildURL("getPlayQueue", nil, true)
	resp, err := c.fetchJSON("getPlayQueue", u)
	if err != nil {
		return nil, model.OptionalSeconds{}, err
	}
	if resp.Status != "ok" || resp.PlayQueue == nil {
		return nil, model.OptionalSeconds{}, nil
	}

	queue := resp.PlayQueue
	if len(queue.Entry) == 0 {
		return nil, queue.Position, nil
	}

	if currentID := queue.Current.String(); currentID != "" {
		for i := range queue.Entry {
			if queue.Entry[i].ID.String() == currentID {
				return &queue.Entry[i], queue.Position, nil
			}
		}
	}
	return &queue.Entry[0], queue.Position, nil
}

// FetchCoverArt downloads raw image bytes for the given cover id. The
// request deliberately omits f=json; getCoverArt is the one binary endpoint.
func (c *Client) FetchCoverArt(coverID string) ([]byte, error) {
	params := url.Values{}
	params.Set("id", coverID)
	u := c.buildURL("getCoverArt", params, false)
	return fetchBytes(c.httpClient, "getCoverArt", u)
}

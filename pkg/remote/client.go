// Package remote is the HTTP client for the streaming service's web API.
// Every call takes a context, carries the bearer token, and maps non-2xx
// responses to *APIError so callers can classify expected failures.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"
	defaultAuthURL = "https://accounts.spotify.com/api/token"

	// requestTimeout bounds every call so a stalled request cannot wedge
	// the worker behind it.
	requestTimeout = 10 * time.Second
)

// Client talks to the service. Safe for concurrent use; the token is the
// only mutable field and sits behind its own lock.
type Client struct {
	httpc   *http.Client
	baseURL string
	authURL string

	clientID     string
	clientSecret string

	mu    sync.RWMutex
	token Token
}

// Option adjusts a Client at construction time.
type Option func(*Client)

// WithBaseURL points the client at a different API root. Tests use this.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithAuthURL points token refresh at a different endpoint. Tests use this.
func WithAuthURL(u string) Option {
	return func(c *Client) { c.authURL = u }
}

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// New returns a client authenticating with the given application
// credentials. Set the session token with SetToken before making calls.
func New(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		httpc:        &http.Client{Timeout: requestTimeout},
		baseURL:      defaultBaseURL,
		authURL:      defaultAuthURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken installs the session token.
func (c *Client) SetToken(t Token) {
	c.mu.Lock()
	c.token = t
	c.mu.Unlock()
}

// Token returns the current session token.
func (c *Client) Token() Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body io.Reader, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	c.mu.RLock()
	access := c.token.AccessToken
	c.mu.RUnlock()
	req.Header.Set("Authorization", "Bearer "+access)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: decode %s: %w", path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error.Message != "" {
		msg = body.Error.Message
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

func pageQuery(limit, offset int) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return q
}

// CurrentUser fetches the authenticated account.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, "/me", nil, nil, &u)
	return u, err
}

// PlaybackState fetches the current player snapshot. A 204 means nothing is
// playing anywhere; that returns (nil, nil).
func (c *Client) PlaybackState(ctx context.Context) (*PlaybackState, error) {
	var ps PlaybackState
	err := c.do(ctx, http.MethodGet, "/me/player", nil, nil, &ps)
	if err != nil {
		return nil, err
	}
	if ps.Item == nil && ps.Device.ID == "" {
		return nil, nil
	}
	return &ps, nil
}

// Devices lists the endpoints playback can be transferred to.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	var out struct {
		Devices []Device `json:"devices"`
	}
	err := c.do(ctx, http.MethodGet, "/me/player/devices", nil, nil, &out)
	return out.Devices, err
}

// Playlists fetches one page of the user's playlists.
func (c *Client) Playlists(ctx context.Context, limit, offset int) (Page[Playlist], error) {
	var p Page[Playlist]
	err := c.do(ctx, http.MethodGet, "/me/playlists", pageQuery(limit, offset), nil, &p)
	return p, err
}

// PlaylistTracks fetches one page of a playlist's tracks.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (Page[Track], error) {
	var raw Page[struct {
		Track Track `json:"track"`
	}]
	err := c.do(ctx, http.MethodGet, "/playlists/"+playlistID+"/tracks", pageQuery(limit, offset), nil, &raw)
	if err != nil {
		return Page[Track]{}, err
	}
	p := Page[Track]{Limit: raw.Limit, Offset: raw.Offset, Total: raw.Total}
	for _, it := range raw.Items {
		p.Items = append(p.Items, it.Track)
	}
	return p, nil
}

// SavedTracks fetches one page of liked songs.
func (c *Client) SavedTracks(ctx context.Context, limit, offset int) (Page[SavedTrack], error) {
	var p Page[SavedTrack]
	err := c.do(ctx, http.MethodGet, "/me/tracks", pageQuery(limit, offset), nil, &p)
	return p, err
}

// SavedAlbums fetches one page of the album library.
func (c *Client) SavedAlbums(ctx context.Context, limit, offset int) (Page[SavedAlbum], error) {
	var p Page[SavedAlbum]
	err := c.do(ctx, http.MethodGet, "/me/albums", pageQuery(limit, offset), nil, &p)
	return p, err
}

// SavedShows fetches one page of followed podcasts.
func (c *Client) SavedShows(ctx context.Context, limit, offset int) (Page[SavedShow], error) {
	var p Page[SavedShow]
	err := c.do(ctx, http.MethodGet, "/me/shows", pageQuery(limit, offset), nil, &p)
	return p, err
}

// ShowEpisodes fetches one page of a podcast's episodes.
func (c *Client) ShowEpisodes(ctx context.Context, showID string, limit, offset int) (Page[Episode], error) {
	var p Page[Episode]
	err := c.do(ctx, http.MethodGet, "/shows/"+showID+"/episodes", pageQuery(limit, offset), nil, &p)
	return p, err
}

// FollowedArtists fetches the artists the user follows.
func (c *Client) FollowedArtists(ctx context.Context, limit int) ([]Artist, error) {
	q := url.Values{}
	q.Set("type", "artist")
	q.Set("limit", strconv.Itoa(limit))
	var out struct {
		Artists struct {
			Items []Artist `json:"items"`
		} `json:"artists"`
	}
	err := c.do(ctx, http.MethodGet, "/me/following", q, nil, &out)
	return out.Artists.Items, err
}

// RecentlyPlayed fetches the listening history.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]PlayHistoryItem, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	var out struct {
		Items []PlayHistoryItem `json:"items"`
	}
	err := c.do(ctx, http.MethodGet, "/me/player/recently-played", q, nil, &out)
	return out.Items, err
}

// TopTracks fetches the user's most played tracks.
func (c *Client) TopTracks(ctx context.Context, limit int) ([]Track, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	var out Page[Track]
	err := c.do(ctx, http.MethodGet, "/me/top/tracks", q, nil, &out)
	return out.Items, err
}

// TopArtists fetches the user's most played artists.
func (c *Client) TopArtists(ctx context.Context, limit int) ([]Artist, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	var out Page[Artist]
	err := c.do(ctx, http.MethodGet, "/me/top/artists", q, nil, &out)
	return out.Items, err
}

// AlbumTracks fetches one page of an album's track list.
func (c *Client) AlbumTracks(ctx context.Context, albumID string, limit, offset int) (Page[Track], error) {
	var p Page[Track]
	err := c.do(ctx, http.MethodGet, "/albums/"+albumID+"/tracks", pageQuery(limit, offset), nil, &p)
	return p, err
}

// ArtistDetail fetches the artist plus the three blocks of the artist
// screen in sequence.
func (c *Client) ArtistDetail(ctx context.Context, artistID string) (ArtistDetail, error) {
	var d ArtistDetail
	if err := c.do(ctx, http.MethodGet, "/artists/"+artistID, nil, nil, &d.Artist); err != nil {
		return d, err
	}
	var top struct {
		Tracks []Track `json:"tracks"`
	}
	if err := c.do(ctx, http.MethodGet, "/artists/"+artistID+"/top-tracks", nil, nil, &top); err != nil {
		return d, err
	}
	d.TopTracks = top.Tracks
	if err := c.do(ctx, http.MethodGet, "/artists/"+artistID+"/albums", pageQuery(50, 0), nil, &d.Albums); err != nil {
		return d, err
	}
	var rel struct {
		Artists []Artist `json:"artists"`
	}
	if err := c.do(ctx, http.MethodGet, "/artists/"+artistID+"/related-artists", nil, nil, &rel); err != nil {
		return d, err
	}
	d.Related = rel.Artists
	return d, nil
}

// Analysis fetches the audio-feature summary for one track.
func (c *Client) Analysis(ctx context.Context, trackID string) (AudioAnalysis, error) {
	var a AudioAnalysis
	err := c.do(ctx, http.MethodGet, "/audio-features/"+trackID, nil, nil, &a)
	return a, err
}

// Search runs one query across tracks, albums, artists, playlists and shows.
func (c *Client) Search(ctx context.Context, query string, limit int) (SearchResults, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("type", "track,album,artist,playlist,show")
	q.Set("limit", strconv.Itoa(limit))
	var r SearchResults
	err := c.do(ctx, http.MethodGet, "/search", q, nil, &r)
	return r, err
}

// PlaySpec tells StartPlayback what to play. Either ContextURI (album,
// playlist, artist) with an optional offset, or an explicit URI list.
type PlaySpec struct {
	DeviceID   string
	ContextURI string
	URIs       []string
	OffsetURI  string
}

// StartPlayback starts or resumes playback. An empty PlaySpec resumes
// whatever is paused.
func (c *Client) StartPlayback(ctx context.Context, spec PlaySpec) error {
	q := url.Values{}
	if spec.DeviceID != "" {
		q.Set("device_id", spec.DeviceID)
	}
	body := map[string]any{}
	if spec.ContextURI != "" {
		body["context_uri"] = spec.ContextURI
		if spec.OffsetURI != "" {
			body["offset"] = map[string]string{"uri": spec.OffsetURI}
		}
	}
	if len(spec.URIs) > 0 {
		body["uris"] = spec.URIs
	}
	var rdr io.Reader
	if len(body) > 0 {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode play spec: %w", err)
		}
		rdr = strings.NewReader(string(b))
	}
	return c.do(ctx, http.MethodPut, "/me/player/play", q, rdr, nil)
}

// PausePlayback pauses the active device.
func (c *Client) PausePlayback(ctx context.Context) error {
	return c.do(ctx, http.MethodPut, "/me/player/pause", nil, nil, nil)
}

// NextTrack skips forward.
func (c *Client) NextTrack(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/me/player/next", nil, nil, nil)
}

// PreviousTrack skips backward.
func (c *Client) PreviousTrack(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/me/player/previous", nil, nil, nil)
}

// Seek moves the play head to positionMS.
func (c *Client) Seek(ctx context.Context, positionMS int) error {
	q := url.Values{}
	q.Set("position_ms", strconv.Itoa(positionMS))
	return c.do(ctx, http.MethodPut, "/me/player/seek", q, nil, nil)
}

// SetShuffle toggles shuffle on the active device.
func (c *Client) SetShuffle(ctx context.Context, on bool) error {
	q := url.Values{}
	q.Set("state", strconv.FormatBool(on))
	return c.do(ctx, http.MethodPut, "/me/player/shuffle", q, nil, nil)
}

// SetRepeat cycles repeat mode: "off", "context" or "track".
func (c *Client) SetRepeat(ctx context.Context, state string) error {
	q := url.Values{}
	q.Set("state", state)
	return c.do(ctx, http.MethodPut, "/me/player/repeat", q, nil, nil)
}

// SetVolume sets the active device volume, clamped to [0,100] server side.
func (c *Client) SetVolume(ctx context.Context, percent int) error {
	q := url.Values{}
	q.Set("volume_percent", strconv.Itoa(percent))
	return c.do(ctx, http.MethodPut, "/me/player/volume", q, nil, nil)
}

// UnfollowPlaylist removes the playlist from the user's library.
func (c *Client) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	return c.do(ctx, http.MethodDelete, "/playlists/"+playlistID+"/followers", nil, nil, nil)
}

// TransferPlayback moves the session to another device and resumes there.
func (c *Client) TransferPlayback(ctx context.Context, deviceID string) error {
	body, err := json.Marshal(map[string]any{
		"device_ids": []string{deviceID},
		"play":       true,
	})
	if err != nil {
		return fmt.Errorf("remote: encode transfer: %w", err)
	}
	return c.do(ctx, http.MethodPut, "/me/player", nil, strings.NewReader(string(body)), nil)
}

// Refresh exchanges the refresh token for a new access token and installs
// it on the client. The service may or may not rotate the refresh token.
func (c *Client) Refresh(ctx context.Context) (Token, error) {
	c.mu.RLock()
	refresh := c.token.RefreshToken
	c.mu.RUnlock()
	if refresh == "" {
		return Token{}, fmt.Errorf("remote: no refresh token held")
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refresh)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("remote: build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("remote: refresh token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Token{}, decodeAPIError(resp)
	}

	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Token{}, fmt.Errorf("remote: decode refresh response: %w", err)
	}

	t := Token{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(body.ExpiresIn) * time.Second),
	}
	if t.RefreshToken == "" {
		t.RefreshToken = refresh
	}
	c.SetToken(t)
	return t, nil
}

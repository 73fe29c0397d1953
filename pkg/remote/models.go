package remote

import "time"

// Page is one window of a paginated collection as the service returns it.
type Page[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// Image is one rendition of a cover asset.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Artist is the short artist object embedded in tracks and albums.
type Artist struct {
	ID     string  `json:"id"`
	URI    string  `json:"uri"`
	Name   string  `json:"name"`
	Genres []string `json:"genres,omitempty"`
	Images []Image  `json:"images,omitempty"`
}

// Album carries the fields the album list and album-tracks screens need.
type Album struct {
	ID          string   `json:"id"`
	URI         string   `json:"uri"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	Images      []Image  `json:"images"`
	ReleaseDate string   `json:"release_date"`
	TotalTracks int      `json:"total_tracks"`
}

// SavedAlbum wraps an album with the saved-at timestamp the library returns.
type SavedAlbum struct {
	AddedAt time.Time `json:"added_at"`
	Album   Album     `json:"album"`
}

// Track is a playable song.
type Track struct {
	ID         string   `json:"id"`
	URI        string   `json:"uri"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	DurationMS int      `json:"duration_ms"`
	Explicit   bool     `json:"explicit"`
	Popularity int      `json:"popularity"`
}

// SavedTrack wraps a track with its saved-at timestamp.
type SavedTrack struct {
	AddedAt time.Time `json:"added_at"`
	Track   Track     `json:"track"`
}

// PlayHistoryItem is one recently-played entry.
type PlayHistoryItem struct {
	Track    Track     `json:"track"`
	PlayedAt time.Time `json:"played_at"`
}

// Playlist is the short playlist object.
type Playlist struct {
	ID     string  `json:"id"`
	URI    string  `json:"uri"`
	Name   string  `json:"name"`
	Owner  User    `json:"owner"`
	Images []Image `json:"images"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

// Show is a podcast show.
type Show struct {
	ID            string  `json:"id"`
	URI           string  `json:"uri"`
	Name          string  `json:"name"`
	Publisher     string  `json:"publisher"`
	Images        []Image `json:"images"`
	TotalEpisodes int     `json:"total_episodes"`
}

// SavedShow wraps a show with its saved-at timestamp.
type SavedShow struct {
	AddedAt time.Time `json:"added_at"`
	Show    Show      `json:"show"`
}

// Episode is one podcast episode.
type Episode struct {
	ID          string `json:"id"`
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DurationMS  int    `json:"duration_ms"`
	ReleaseDate string `json:"release_date"`
}

// User is the account the session is authenticated as.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Product     string `json:"product"`
}

// Device is an endpoint playback can run on.
type Device struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	VolumePercent int    `json:"volume_percent"`
}

// PlaybackState is the server-confirmed player snapshot.
type PlaybackState struct {
	Device       Device `json:"device"`
	IsPlaying    bool   `json:"is_playing"`
	ShuffleState bool   `json:"shuffle_state"`
	RepeatState  string `json:"repeat_state"`
	ProgressMS   int    `json:"progress_ms"`
	Timestamp    int64  `json:"timestamp"`
	Context      *struct {
		URI  string `json:"uri"`
		Type string `json:"type"`
	} `json:"context"`
	Item *Track `json:"item"`
}

// SearchResults groups the five result pages a single search returns.
type SearchResults struct {
	Tracks    *Page[Track]    `json:"tracks"`
	Albums    *Page[Album]    `json:"albums"`
	Artists   *Page[Artist]   `json:"artists"`
	Playlists *Page[Playlist] `json:"playlists"`
	Shows     *Page[Show]     `json:"shows"`
}

// ArtistDetail aggregates the three blocks of the artist screen.
type ArtistDetail struct {
	Artist    Artist
	TopTracks []Track
	Albums    Page[Album]
	Related   []Artist
}

// AudioAnalysis is the per-track analysis summary the analysis screen shows.
type AudioAnalysis struct {
	Tempo         float64 `json:"tempo"`
	Key           int     `json:"key"`
	Mode          int     `json:"mode"`
	TimeSignature int     `json:"time_signature"`
	Loudness      float64 `json:"loudness"`
	Energy        float64 `json:"energy"`
	Danceability  float64 `json:"danceability"`
	Valence       float64 `json:"valence"`
	Acousticness  float64 `json:"acousticness"`
}

// Token is the bearer credential pair with its expiry.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token needs refreshing, with a small
// safety margin so a request never races the expiry.
func (t Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt.Add(-10 * time.Second))
}

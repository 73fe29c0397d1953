package state

import "gitlab.com/tinyland/lab/strum/pkg/remote"

// Command is a request the render loop hands to the network worker. The
// variant set is closed: isCommand is unexported so no other package can add
// one. Commands are fire-and-forget; results come back as writes to the App
// under its lock.
type Command interface{ isCommand() }

// Screen names a logical result surface for sequence tagging. Each fetch
// command carries the screen's current sequence number; the worker discards
// any result that is older than the newest already applied for that screen.
type Screen int

const (
	ScreenPlaylists Screen = iota
	ScreenPlaylistTracks
	ScreenSavedTracks
	ScreenSavedAlbums
	ScreenSavedShows
	ScreenEpisodes
	ScreenFollowedArtists
	ScreenRecentlyPlayed
	ScreenTopTracks
	ScreenTopArtists
	ScreenAlbumTracks
	ScreenArtistDetail
	ScreenSearch
	ScreenAnalysis
	screenCount
)

type FetchPlaylists struct {
	Seq           uint64
	Limit, Offset int
}

type FetchPlaylistTracks struct {
	Seq           uint64
	PlaylistID    string
	PlaylistName  string
	Limit, Offset int
}

type FetchSavedTracks struct {
	Seq           uint64
	Limit, Offset int
}

type FetchSavedAlbums struct {
	Seq           uint64
	Limit, Offset int
}

type FetchSavedShows struct {
	Seq           uint64
	Limit, Offset int
}

type FetchShowEpisodes struct {
	Seq           uint64
	ShowID        string
	ShowName      string
	Limit, Offset int
}

type FetchFollowedArtists struct {
	Seq   uint64
	Limit int
}

type FetchRecentlyPlayed struct {
	Seq   uint64
	Limit int
}

type FetchTopTracks struct {
	Seq   uint64
	Limit int
}

type FetchTopArtists struct {
	Seq   uint64
	Limit int
}

type FetchAlbumTracks struct {
	Seq           uint64
	AlbumID       string
	AlbumName     string
	Limit, Offset int
}

type FetchArtistDetail struct {
	Seq      uint64
	ArtistID string
}

type FetchSearchResults struct {
	Seq   uint64
	Query string
	Limit int
}

type FetchAnalysis struct {
	Seq     uint64
	TrackID string
}

type FetchPlaybackState struct{}

type FetchDevices struct{}

type FetchCurrentUser struct{}

// FetchCoverArt downloads and prepares the cover asset at URL. HighRes marks
// the idle-view variant.
type FetchCoverArt struct {
	URL     string
	HighRes bool
}

type StartPlayback struct {
	Spec remote.PlaySpec
}

type PausePlayback struct{}

type NextTrack struct{}

type PreviousTrack struct{}

type SeekTo struct {
	PositionMS int
}

type SetShuffle struct {
	On bool
}

type SetRepeat struct {
	State string
}

type SetVolume struct {
	Percent int
}

type TransferPlayback struct {
	DeviceID string
}

// UnfollowPlaylist removes a playlist from the library after the dialog
// confirms it.
type UnfollowPlaylist struct {
	PlaylistID string
}

type RefreshAuth struct{}

// UpdatePageLimits tells the worker the page sizes the current terminal
// height can show, so fetches request exactly one screenful.
type UpdatePageLimits struct {
	TrackLimit int
	ListLimit  int
}

func (FetchPlaylists) isCommand()       {}
func (FetchPlaylistTracks) isCommand()  {}
func (FetchSavedTracks) isCommand()     {}
func (FetchSavedAlbums) isCommand()     {}
func (FetchSavedShows) isCommand()      {}
func (FetchShowEpisodes) isCommand()    {}
func (FetchFollowedArtists) isCommand() {}
func (FetchRecentlyPlayed) isCommand()  {}
func (FetchTopTracks) isCommand()       {}
func (FetchTopArtists) isCommand()      {}
func (FetchAlbumTracks) isCommand()     {}
func (FetchArtistDetail) isCommand()    {}
func (FetchSearchResults) isCommand()   {}
func (FetchAnalysis) isCommand()        {}
func (FetchPlaybackState) isCommand()   {}
func (FetchDevices) isCommand()         {}
func (FetchCurrentUser) isCommand()     {}
func (FetchCoverArt) isCommand()        {}
func (StartPlayback) isCommand()        {}
func (PausePlayback) isCommand()        {}
func (NextTrack) isCommand()            {}
func (PreviousTrack) isCommand()        {}
func (SeekTo) isCommand()               {}
func (SetShuffle) isCommand()           {}
func (SetRepeat) isCommand()            {}
func (SetVolume) isCommand()            {}
func (TransferPlayback) isCommand()     {}
func (UnfollowPlaylist) isCommand()     {}
func (RefreshAuth) isCommand()          {}
func (UpdatePageLimits) isCommand()     {}

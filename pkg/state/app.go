// Package state holds the application state aggregate shared between the
// render loop and the network worker. One mutex guards the whole aggregate;
// the lock is never held across a network call. The worker copies request
// parameters out under the lock, does its I/O unlocked, then reacquires the
// lock to write results back.
package state

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/strum/pkg/focus"
	"gitlab.com/tinyland/lab/strum/pkg/logring"
	"gitlab.com/tinyland/lab/strum/pkg/nav"
	"gitlab.com/tinyland/lab/strum/pkg/remote"
)

// Playback is the player snapshot plus the bookkeeping the tick loop needs
// to interpolate between server polls.
type Playback struct {
	State     *remote.PlaybackState
	FetchedAt time.Time
	// IsFetching suppresses overlapping polls while one is in flight.
	IsFetching bool
	// PendingSeekMS is an optimistic seek target not yet confirmed by a poll.
	PendingSeekMS *int
	LastToggleAt  time.Time
}

// PageLimits are the per-fetch item counts sized to the terminal height.
type PageLimits struct {
	Track int
	List  int
}

// Dialog is a pending confirmation. Accept carries the command to dispatch
// when the user confirms.
type Dialog struct {
	Prompt string
	Accept Command
}

// CoverArt holds the rendered cover strings for the two resolutions the UI
// shows, keyed by the source URL they were rendered from.
type CoverArt struct {
	URL      string
	Normal   string
	HighRes  string
	Fetching bool
}

// App is the application state aggregate.
type App struct {
	mu   sync.Mutex
	cmds chan Command
	logd *slog.Logger

	Nav   *nav.Stack
	Focus *focus.Manager
	Ring  *logring.Ring

	// Sub-identity of the parameterized focus components, kept next to the
	// focus manager because every mutation updates both.
	SearchQuadrant focus.SearchBlock
	ArtistSection  focus.ArtistSection

	User    *remote.User
	Devices []remote.Device

	Playlists       Pages[remote.Playlist]
	PlaylistTracks  Pages[remote.Track]
	SavedTracks     Pages[remote.SavedTrack]
	SavedAlbums     Pages[remote.SavedAlbum]
	SavedShows      Pages[remote.SavedShow]
	Episodes        Pages[remote.Episode]
	FollowedArtists []remote.Artist
	RecentlyPlayed  []remote.PlayHistoryItem
	TopTracks       []remote.Track
	TopArtists      []remote.Artist
	Search          remote.SearchResults
	SearchQuery     string
	Artist          *remote.ArtistDetail
	Analysis        *remote.AudioAnalysis

	// TableTitle and TableContext describe what the track table currently
	// shows (playlist, album, liked songs) and the URI playback starts in.
	TableTitle   string
	TableContext string

	// Cursor holds the selected row per screen.
	Cursor map[nav.RouteID]int

	Playback Playback
	Limits   PageLimits
	Cover    CoverArt
	Dialog   *Dialog

	lastPlaybackPoll time.Time
	lastDevicePoll   time.Time
	lastInteraction  time.Time
	isIdle           bool

	tokenExpiresAt  time.Time
	tokenRefreshing bool

	seqIssued  [screenCount]uint64
	seqApplied [screenCount]uint64
}

// New returns an aggregate wired to a command channel of the given size and
// an event ring holding ringSize entries (<= 0 uses the default).
func New(logd *slog.Logger, cmdBuffer, ringSize int) *App {
	if cmdBuffer <= 0 {
		cmdBuffer = 64
	}
	if logd == nil {
		logd = slog.Default()
	}
	return &App{
		cmds:            make(chan Command, cmdBuffer),
		logd:            logd,
		Nav:             nav.NewStack(),
		Focus:           focus.NewManager(),
		Ring:            logring.New(ringSize),
		Cursor:          make(map[nav.RouteID]int),
		Limits:          PageLimits{Track: 20, List: 20},
		lastInteraction: time.Now(),
	}
}

// Commands exposes the receive side of the command channel to the worker.
func (a *App) Commands() <-chan Command { return a.cmds }

// CloseCommands shuts the channel down; the worker drains and exits.
// Dispatch after this degrades to a logged no-op.
func (a *App) CloseCommands() { close(a.cmds) }

// Dispatch queues a command for the worker without blocking the render
// loop. A full buffer drops the command with a log line; a closed channel
// (shutdown race) is likewise a logged no-op, never a crash.
func (a *App) Dispatch(c Command) {
	defer func() {
		if r := recover(); r != nil {
			a.logd.Warn("command dropped, channel closed", "command", commandName(c))
		}
	}()
	select {
	case a.cmds <- c:
	default:
		a.logd.Warn("command dropped, buffer full", "command", commandName(c))
	}
}

func commandName(c Command) string {
	switch c.(type) {
	case FetchPlaybackState:
		return "FetchPlaybackState"
	case FetchDevices:
		return "FetchDevices"
	case FetchSearchResults:
		return "FetchSearchResults"
	default:
		return fmt.Sprintf("%T", c)
	}
}

// Lock and Unlock expose the aggregate lock for multi-field reads in the
// render path and write-backs in the worker.
func (a *App) Lock()   { a.mu.Lock() }
func (a *App) Unlock() { a.mu.Unlock() }

// SetTable labels what the shared track table shows before its fetch lands,
// so the screen can title itself and pick the right row source immediately.
func (a *App) SetTable(title, contextURI string) {
	a.mu.Lock()
	if title != a.TableTitle {
		a.PlaylistTracks.Reset()
	}
	a.TableTitle = title
	a.TableContext = contextURI
	a.mu.Unlock()
}

// NextSeq issues the next sequence number for a screen. The number goes
// onto the fetch command so the write-back can detect staleness.
func (a *App) NextSeq(s Screen) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seqIssued[s]++
	return a.seqIssued[s]
}

// commitSeq records seq as applied for s and reports whether the result is
// current. Callers hold the lock.
func (a *App) commitSeq(s Screen, seq uint64) bool {
	if seq < a.seqApplied[s] {
		return false
	}
	a.seqApplied[s] = seq
	return true
}

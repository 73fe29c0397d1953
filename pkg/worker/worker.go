// Package worker runs the network side of the app: a single goroutine
// draining the command channel in FIFO order. Every handler copies what it
// needs out of the aggregate, performs its I/O with no lock held, then
// writes the result back through the aggregate's Apply methods.
package worker

import (
	"context"
	"log/slog"
	"time"

	"gitlab.com/tinyland/lab/strum/pkg/remote"
	"gitlab.com/tinyland/lab/strum/pkg/state"
)

// Service is the slice of the API client the worker calls. Tests substitute
// a fake.
type Service interface {
	CurrentUser(ctx context.Context) (remote.User, error)
	PlaybackState(ctx context.Context) (*remote.PlaybackState, error)
	Devices(ctx context.Context) ([]remote.Device, error)
	Playlists(ctx context.Context, limit, offset int) (remote.Page[remote.Playlist], error)
	PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (remote.Page[remote.Track], error)
	SavedTracks(ctx context.Context, limit, offset int) (remote.Page[remote.SavedTrack], error)
	SavedAlbums(ctx context.Context, limit, offset int) (remote.Page[remote.SavedAlbum], error)
	SavedShows(ctx context.Context, limit, offset int) (remote.Page[remote.SavedShow], error)
	ShowEpisodes(ctx context.Context, showID string, limit, offset int) (remote.Page[remote.Episode], error)
	FollowedArtists(ctx context.Context, limit int) ([]remote.Artist, error)
	RecentlyPlayed(ctx context.Context, limit int) ([]remote.PlayHistoryItem, error)
	TopTracks(ctx context.Context, limit int) ([]remote.Track, error)
	TopArtists(ctx context.Context, limit int) ([]remote.Artist, error)
	AlbumTracks(ctx context.Context, albumID string, limit, offset int) (remote.Page[remote.Track], error)
	ArtistDetail(ctx context.Context, artistID string) (remote.ArtistDetail, error)
	Analysis(ctx context.Context, trackID string) (remote.AudioAnalysis, error)
	Search(ctx context.Context, query string, limit int) (remote.SearchResults, error)
	StartPlayback(ctx context.Context, spec remote.PlaySpec) error
	PausePlayback(ctx context.Context) error
	NextTrack(ctx context.Context) error
	PreviousTrack(ctx context.Context) error
	Seek(ctx context.Context, positionMS int) error
	SetShuffle(ctx context.Context, on bool) error
	SetRepeat(ctx context.Context, st string) error
	SetVolume(ctx context.Context, percent int) error
	TransferPlayback(ctx context.Context, deviceID string) error
	UnfollowPlaylist(ctx context.Context, playlistID string) error
	Refresh(ctx context.Context) (remote.Token, error)
}

// ArtRenderer prepares a cover asset for the terminal. Implemented by
// pkg/art; nil disables cover fetching.
type ArtRenderer interface {
	Render(ctx context.Context, url string, highRes bool) (string, error)
}

// Worker drains the aggregate's command channel until it closes.
type Worker struct {
	app *state.App
	svc Service
	art ArtRenderer
	log *slog.Logger

	// SaveToken persists refreshed credentials. Optional.
	SaveToken func(remote.Token) error
	// Notify wakes the render loop after a write-back. Optional.
	Notify func()
}

// New returns a worker bound to the aggregate and service.
func New(app *state.App, svc Service, art ArtRenderer, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{app: app, svc: svc, art: art, log: log}
}

// Run consumes commands until the channel closes or ctx is done. Handler
// errors go to the in-app log; they never stop the loop.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-w.app.Commands():
			if !ok {
				return
			}
			w.handle(ctx, cmd)
			w.notify()
		}
	}
}

func (w *Worker) notify() {
	if w.Notify != nil {
		w.Notify()
	}
}

func (w *Worker) fail(err error) {
	if err == nil {
		return
	}
	w.app.HandleError(err)
}

func (w *Worker) handle(ctx context.Context, cmd state.Command) {
	switch c := cmd.(type) {
	case state.FetchCurrentUser:
		u, err := w.svc.CurrentUser(ctx)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplyUser(u)

	case state.FetchPlaybackState:
		w.pollPlayback(ctx)

	case state.FetchDevices:
		ds, err := w.svc.Devices(ctx)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplyDevices(ds)

	case state.FetchPlaylists:
		p, err := w.svc.Playlists(ctx, c.Limit, c.Offset)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplyPlaylists(c.Seq, p)

	case state.FetchPlaylistTracks:
		p, err := w.svc.PlaylistTracks(ctx, c.PlaylistID, c.Limit, c.Offset)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplyPlaylistTracks(c.Seq, c.PlaylistName, playlistURI(c.PlaylistID), p)

	case state.FetchSavedTracks:
		p, err := w.svc.SavedTracks(ctx, c.Limit, c.Offset)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplySavedTracks(c.Seq, p)

	case state.FetchSavedAlbums:
		p, err := w.svc.SavedAlbums(ctx, c.Limit, c.Offset)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplySavedAlbums(c.Seq, p)

	case state.FetchSavedShows:
		p, err := w.svc.SavedShows(ctx, c.Limit, c.Offset)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplySavedShows(c.Seq, p)

	case state.FetchShowEpisodes:
		p, err := w.svc.ShowEpisodes(ctx, c.ShowID, c.Limit, c.Offset)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplyEpisodes(c.Seq, p)

	case state.FetchFollowedArtists:
		as, err := w.svc.FollowedArtists(ctx, c.Limit)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplyFollowedArtists(c.Seq, as)

	case state.FetchRecentlyPlayed:
		items, err := w.svc.RecentlyPlayed(ctx, c.Limit)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplyRecentlyPlayed(c.Seq, items)

	case state.FetchTopTracks:
		ts, err := w.svc.TopTracks(ctx, c.Limit)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplyTopTracks(c.Seq, ts)

	case state.FetchTopArtists:
		as, err := w.svc.TopArtists(ctx, c.Limit)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplyTopArtists(c.Seq, as)

	case state.FetchAlbumTracks:
		p, err := w.svc.AlbumTracks(ctx, c.AlbumID, c.Limit, c.Offset)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplyAlbumTracks(c.Seq, c.AlbumName, albumURI(c.AlbumID), p)

	case state.FetchArtistDetail:
		d, err := w.svc.ArtistDetail(ctx, c.ArtistID)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplyArtistDetail(c.Seq, d)

	case state.FetchAnalysis:
		an, err := w.svc.Analysis(ctx, c.TrackID)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplyAnalysis(c.Seq, an)

	case state.FetchSearchResults:
		r, err := w.svc.Search(ctx, c.Query, c.Limit)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplySearchResults(c.Seq, c.Query, r)

	case state.FetchCoverArt:
		if w.art == nil || c.URL == "" {
			return
		}
		rendered, err := w.art.Render(ctx, c.URL, c.HighRes)
		if err != nil {
			// Cover art is decoration; a failed render is a log line,
			// never a visible error.
			w.log.Warn("cover render failed", "url", c.URL, "err", err)
			return
		}
		w.app.ApplyCover(c.URL, rendered, c.HighRes)

	case state.StartPlayback:
		w.playerCommand(ctx, w.svc.StartPlayback(ctx, c.Spec))

	case state.PausePlayback:
		w.playerCommand(ctx, w.svc.PausePlayback(ctx))

	case state.NextTrack:
		w.playerCommand(ctx, w.svc.NextTrack(ctx))

	case state.PreviousTrack:
		w.playerCommand(ctx, w.svc.PreviousTrack(ctx))

	case state.SeekTo:
		w.playerCommand(ctx, w.svc.Seek(ctx, c.PositionMS))

	case state.SetShuffle:
		w.playerCommand(ctx, w.svc.SetShuffle(ctx, c.On))

	case state.SetRepeat:
		w.playerCommand(ctx, w.svc.SetRepeat(ctx, c.State))

	case state.SetVolume:
		w.playerCommand(ctx, w.svc.SetVolume(ctx, c.Percent))

	case state.TransferPlayback:
		w.playerCommand(ctx, w.svc.TransferPlayback(ctx, c.DeviceID))

	case state.UnfollowPlaylist:
		if err := w.svc.UnfollowPlaylist(ctx, c.PlaylistID); err != nil {
			w.fail(err)
			return
		}
		// The sidebar refetches so the removed playlist disappears.
		w.app.Lock()
		w.app.Playlists.Reset()
		limit := w.app.Limits.List
		w.app.Unlock()
		p, err := w.svc.Playlists(ctx, limit, 0)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.ApplyPlaylists(w.app.NextSeq(state.ScreenPlaylists), p)

	case state.RefreshAuth:
		tok, err := w.svc.Refresh(ctx)
		if err != nil {
			w.fail(err)
			return
		}
		w.app.SetTokenExpiry(tok.ExpiresAt)
		if w.SaveToken != nil {
			if err := w.SaveToken(tok); err != nil {
				w.log.Warn("token persist failed", "err", err)
			}
		}

	case state.UpdatePageLimits:
		w.app.Lock()
		w.app.Limits = state.PageLimits{Track: c.TrackLimit, List: c.ListLimit}
		w.app.Unlock()

	default:
		w.log.Warn("unhandled command", "command", cmd)
	}
}

// playerCommand finishes a transport-control call: errors go through the
// downgrade table, success triggers an immediate snapshot poll so the play
// bar confirms the change.
func (w *Worker) playerCommand(ctx context.Context, err error) {
	if err != nil {
		w.fail(err)
		return
	}
	w.pollPlayback(ctx)
}

func (w *Worker) pollPlayback(ctx context.Context) {
	if !w.app.BeginPlaybackPoll() {
		return
	}
	ps, err := w.svc.PlaybackState(ctx)
	if err != nil {
		w.app.FailPlaybackPoll()
		w.fail(err)
		return
	}
	w.app.ApplyPlaybackState(ps, time.Now())
	w.maybeFetchCover(ctx, ps)
}

// maybeFetchCover renders the album cover when the playing track changed.
func (w *Worker) maybeFetchCover(ctx context.Context, ps *remote.PlaybackState) {
	if w.art == nil || ps == nil || ps.Item == nil || len(ps.Item.Album.Images) == 0 {
		return
	}
	url := ps.Item.Album.Images[0].URL
	w.app.Lock()
	current := w.app.Cover.URL
	w.app.Unlock()
	if url == current {
		return
	}
	// An idle screen wants the full-size render straight away.
	idle := w.app.IsIdle()
	rendered, err := w.art.Render(ctx, url, idle)
	if err != nil {
		w.log.Warn("cover render failed", "url", url, "err", err)
		return
	}
	w.app.ApplyCover(url, rendered, idle)
}

func playlistURI(id string) string { return "spotify:playlist:" + id }
func albumURI(id string) string    { return "spotify:album:" + id }

package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/strum/pkg/focus"
	"gitlab.com/tinyland/lab/strum/pkg/nav"
	"gitlab.com/tinyland/lab/strum/pkg/state"
)

// Update multiplexes the three event sources: keys, the heartbeat tick, and
// resizes. Worker refreshes arrive as RefreshMsg and only trigger a redraw.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case TickMsg:
		return m.handleTick(time.Time(msg)), m.tickCmd()

	case RefreshMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleResize recomputes how many rows fit and tells the worker so fetches
// request exactly one screenful.
func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	if m.art != nil {
		m.art.SetViewport(msg.Width, msg.Height)
	}
	m.app.Dispatch(state.UpdatePageLimits{
		TrackLimit: m.trackLimit(),
		ListLimit:  m.listLimit(),
	})
	return m
}

// handleTick advances the coarse timers and queues whatever polls came due.
func (m Model) handleTick(now time.Time) Model {
	plan := m.app.Tick(now,
		m.cfg.Behavior.PlaybackPollInterval.Duration,
		m.cfg.Behavior.DevicePollInterval.Duration,
		m.cfg.Behavior.IdleTimeout.Duration,
	)
	if plan.PollPlayback {
		m.app.Dispatch(state.FetchPlaybackState{})
	}
	if plan.PollDevices {
		m.app.Dispatch(state.FetchDevices{})
	}
	if plan.EnteredIdle {
		m.fetchCover(true)
	}

	// Token expiry rides the heartbeat too, so a long-lived session
	// refreshes before a request fails.
	if m.app.NeedTokenRefresh(now) {
		m.app.Dispatch(state.RefreshAuth{})
	}
	return m
}

// fetchCover queues a cover render for the playing track.
func (m Model) fetchCover(highRes bool) {
	t := m.app.NowPlaying()
	if t == nil || len(t.Album.Images) == 0 {
		return
	}
	m.app.Dispatch(state.FetchCoverArt{URL: t.Album.Images[0].URL, HighRes: highRes})
}

// handleKey routes one keypress. Order matters: idle exit swallows the key,
// the text input bypasses the shortcut table, quit always works, then the
// global table, then the active block's handler.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	keys := m.cfg.Keys

	// Any key ends idle mode and is consumed by doing so.
	if m.app.RecordActivity(time.Now()) {
		m.fetchCover(false)
		return m, nil
	}

	active := m.app.ActiveBlock()

	// The search input owns every key except escape and enter.
	if active == nav.BlockSearchInput {
		return m.handleSearchInputKey(msg)
	}

	// The device overlay filters by typed text, so it also runs before the
	// global table.
	if active == nav.BlockSelectDevice {
		return m.handleDeviceKey(msg)
	}

	// The dialog wants a plain yes/no.
	if active == nav.BlockDialog {
		return m.handleDialogKey(key)
	}

	switch key {
	case keys.Quit, "ctrl+c":
		m.app.CloseCommands()
		return m, tea.Quit

	case "esc":
		m.app.HandleEscape()
		return m, nil

	case keys.Back:
		m.app.HandleBack()
		return m, nil

	case keys.Search:
		m.input.Reset()
		m.input.Focus()
		m.app.PushRoute(nav.Route{
			ID:      nav.RouteSearch,
			Active:  nav.BlockSearchInput,
			Hovered: nav.BlockSearchInput,
		})
		return m, nil

	case keys.Help:
		m.showHelp = !m.showHelp
		return m, nil

	case keys.ToggleTrack:
		if cmd, ok := m.app.TryToggle(time.Now(), m.cfg.Behavior.ToggleCooldown.Duration); ok {
			m.app.Dispatch(cmd)
		}
		return m, nil

	case keys.NextTrack:
		m.app.Dispatch(state.NextTrack{})
		return m, nil

	case keys.PreviousTrack:
		m.app.Dispatch(m.app.PreviousOrRestart(time.Now()))
		return m, nil

	case keys.Shuffle:
		m.app.Dispatch(m.app.ToggleShuffle())
		return m, nil

	case keys.Repeat:
		m.app.Dispatch(m.app.CycleRepeat())
		return m, nil

	case keys.VolumeUp:
		if cmd, ok := m.app.VolumeStep(m.cfg.Behavior.VolumeIncrement); ok {
			m.app.Dispatch(cmd)
		}
		return m, nil

	case keys.VolumeDown:
		if cmd, ok := m.app.VolumeStep(-m.cfg.Behavior.VolumeIncrement); ok {
			m.app.Dispatch(cmd)
		}
		return m, nil

	case keys.SeekForward:
		if cmd, ok := m.app.SeekBy(time.Now(), m.cfg.Behavior.SeekMilliseconds); ok {
			m.app.Dispatch(cmd)
		}
		return m, nil

	case keys.SeekBackward:
		if cmd, ok := m.app.SeekBy(time.Now(), -m.cfg.Behavior.SeekMilliseconds); ok {
			m.app.Dispatch(cmd)
		}
		return m, nil

	case keys.JumpToAlbum:
		m.jumpToAlbum()
		return m, nil

	case keys.JumpToArtist:
		m.jumpToArtist()
		return m, nil

	case keys.Devices:
		m.deviceFilter = ""
		m.app.Dispatch(state.FetchDevices{})
		m.app.PushRoute(nav.Route{
			ID:      nav.RouteSelectedDevice,
			Active:  nav.BlockSelectDevice,
			Hovered: nav.BlockSelectDevice,
		})
		return m, nil

	case keys.BasicView:
		m.app.PushRoute(nav.Route{
			ID:      nav.RouteBasicView,
			Active:  nav.BlockBasicView,
			Hovered: nav.BlockBasicView,
		})
		return m, nil

	case keys.LogView:
		m.app.PushRoute(nav.Route{
			ID:      nav.RouteLogStream,
			Active:  nav.BlockLogStream,
			Hovered: nav.BlockLogStream,
		})
		return m, nil

	case keys.Analysis:
		if t := m.app.NowPlaying(); t != nil {
			m.app.Dispatch(state.FetchAnalysis{
				Seq:     m.app.NextSeq(state.ScreenAnalysis),
				TrackID: t.ID,
			})
			m.app.PushRoute(nav.Route{
				ID:      nav.RouteAnalysis,
				Active:  nav.BlockAnalysis,
				Hovered: nav.BlockAnalysis,
			})
		}
		return m, nil
	}

	return m.handleBlockKey(key)
}

// jumpToAlbum opens the album of the playing track.
func (m Model) jumpToAlbum() {
	t := m.app.NowPlaying()
	if t == nil || t.Album.ID == "" {
		return
	}
	m.app.SetTable(t.Album.Name, t.Album.URI)
	m.app.Dispatch(state.FetchAlbumTracks{
		Seq:       m.app.NextSeq(state.ScreenAlbumTracks),
		AlbumID:   t.Album.ID,
		AlbumName: t.Album.Name,
		Limit:     m.trackLimit(),
	})
	m.app.ResetCursor(nav.RouteAlbumTracks)
	m.app.PushRoute(nav.Route{
		ID:      nav.RouteAlbumTracks,
		Active:  nav.BlockAlbumTracks,
		Hovered: nav.BlockAlbumTracks,
		Label:   t.Album.Name,
	})
}

// jumpToArtist opens the first artist of the playing track.
func (m Model) jumpToArtist() {
	t := m.app.NowPlaying()
	if t == nil || len(t.Artists) == 0 || t.Artists[0].ID == "" {
		return
	}
	m.openArtist(t.Artists[0].ID)
}

func (m Model) openArtist(artistID string) {
	m.app.Dispatch(state.FetchArtistDetail{
		Seq:      m.app.NextSeq(state.ScreenArtistDetail),
		ArtistID: artistID,
	})
	m.app.PushRoute(nav.Route{
		ID:      nav.RouteArtist,
		Active:  nav.BlockEmpty,
		Hovered: nav.BlockArtist,
	})
}

// handleSearchInputKey feeds keys to the text input. Enter submits the
// query; escape steps out of the input without leaving the screen.
func (m Model) handleSearchInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.app.HandleEscape()
		return m, nil
	case "enter":
		query := m.input.Value()
		if query == "" {
			return m, nil
		}
		m.input.Blur()
		m.app.Dispatch(state.FetchSearchResults{
			Seq:   m.app.NextSeq(state.ScreenSearch),
			Query: query,
			Limit: m.cfg.Behavior.SearchLimit,
		})
		m.setSearchQuadrant(focus.SearchSongs)
		return m, nil
	case "ctrl+c":
		m.app.CloseCommands()
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// setSearchQuadrant commits focus to one quadrant of the result grid.
func (m Model) setSearchQuadrant(q focus.SearchBlock) {
	m.app.Lock()
	m.app.SearchQuadrant = q
	m.app.Unlock()
	m.app.SetBlocks(nav.BlockPtr(nav.BlockSearchResults), nav.BlockPtr(nav.BlockSearchResults))
}

// handleDialogKey resolves a confirmation overlay.
func (m Model) handleDialogKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "enter":
		m.app.Lock()
		d := m.app.Dialog
		m.app.Dialog = nil
		m.app.Unlock()
		if d != nil && d.Accept != nil {
			m.app.Dispatch(d.Accept)
		}
		m.app.HandleBack()
	case "n", "esc", "q":
		m.app.HandleEscape()
	}
	return m, nil
}

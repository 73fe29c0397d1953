package state

import (
	"gitlab.com/tinyland/lab/strum/pkg/focus"
	"gitlab.com/tinyland/lab/strum/pkg/nav"
)

// The route's block pair and the focus manager describe the same thing from
// two angles: the renderer reads blocks off the current route, the
// components ask the focus manager how to draw their border. Every mutation
// goes through the helpers below so the two never drift apart.

// componentLocked maps a block id to its focus component, resolving the
// parameterized families through the aggregate's sub-identity fields.
func (a *App) componentLocked(b nav.BlockID) focus.ComponentID {
	switch b {
	case nav.BlockLibrary:
		return focus.Library
	case nav.BlockPlaylists:
		return focus.Playlists
	case nav.BlockSearchInput:
		return focus.SearchInput
	case nav.BlockSearchResults:
		return focus.SearchResults(a.SearchQuadrant)
	case nav.BlockArtist:
		return focus.Artist(a.ArtistSection)
	case nav.BlockTrackTable:
		return focus.TrackTable
	case nav.BlockEpisodeTable:
		return focus.EpisodeTable
	case nav.BlockAlbumList:
		return focus.AlbumList
	case nav.BlockAlbumTracks:
		return focus.AlbumTracks
	case nav.BlockRecentlyPlayed:
		return focus.RecentlyPlayed
	case nav.BlockArtists:
		return focus.Artists
	case nav.BlockPodcasts:
		return focus.Podcasts
	case nav.BlockHome:
		return focus.Home
	case nav.BlockSelectDevice:
		return focus.SelectDevice
	case nav.BlockPlayBar:
		return focus.PlayBar
	case nav.BlockBasicView:
		return focus.BasicView
	case nav.BlockLogStream:
		return focus.LogView
	case nav.BlockAnalysis:
		return focus.Analysis
	case nav.BlockDialog:
		return focus.Dialog
	default:
		return focus.Empty
	}
}

// syncFocusLocked rebuilds the focus manager from the current route.
func (a *App) syncFocusLocked() {
	cur := a.Nav.Current()
	if cur.Active == nav.BlockEmpty {
		a.Focus.ClearFocus()
	} else {
		a.Focus.SetFocus(a.componentLocked(cur.Active))
	}
	if cur.Hovered == nav.BlockEmpty {
		a.Focus.ClearHover()
	} else {
		a.Focus.SetHover(a.componentLocked(cur.Hovered))
	}
}

// PushRoute pushes a new frame and aligns focus with it.
func (a *App) PushRoute(r nav.Route) {
	a.mu.Lock()
	a.Nav.Push(r)
	a.syncFocusLocked()
	a.mu.Unlock()
}

// SetBlocks rewrites the current frame's active/hovered blocks in place.
// Nil leaves a field untouched.
func (a *App) SetBlocks(active, hovered *nav.BlockID) {
	a.mu.Lock()
	a.Nav.SetCurrentState(active, hovered)
	a.syncFocusLocked()
	a.mu.Unlock()
}

// ActiveBlock returns the committed block of the current frame.
func (a *App) ActiveBlock() nav.BlockID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Nav.Current().Active
}

// HoveredBlock returns the highlighted block of the current frame.
func (a *App) HoveredBlock() nav.BlockID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Nav.Current().Hovered
}

// CurrentRoute returns a copy of the top frame.
func (a *App) CurrentRoute() nav.Route {
	a.mu.Lock()
	defer a.mu.Unlock()
	return *a.Nav.Current()
}

// HandleEscape implements the escape key. What escape means depends on the
// committed block: overlays pop their frame, everything else steps out of
// the committed block in place. Escape never navigates between screens.
func (a *App) HandleEscape() {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.Nav.Current().Active {
	case nav.BlockDialog, nav.BlockSelectDevice, nav.BlockLogStream:
		a.Dialog = nil
		a.Nav.Pop()
	case nav.BlockSearchResults:
		a.SearchQuadrant = focus.SearchNone
		a.Nav.SetCurrentState(nav.BlockPtr(nav.BlockEmpty), nil)
	case nav.BlockArtist:
		a.ArtistSection = focus.ArtistNone
		a.Nav.SetCurrentState(nav.BlockPtr(nav.BlockEmpty), nil)
	default:
		a.Nav.SetCurrentState(nav.BlockPtr(nav.BlockEmpty), nil)
	}
	a.syncFocusLocked()
}

// HandleBack implements the back key: pop one frame, and when the popped
// frame was the transient search screen pop a second time so back never
// lands on a half-typed query.
func (a *App) HandleBack() {
	a.mu.Lock()
	defer a.mu.Unlock()

	popped, ok := a.Nav.Pop()
	if ok && popped.ID == nav.RouteSearch {
		a.Nav.Pop()
	}
	a.syncFocusLocked()
}

// Breadcrumb renders the navigation trail for the header line.
func (a *App) Breadcrumb() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Nav.Breadcrumb()
}

// CursorFor returns the saved row selection for a screen.
func (a *App) CursorFor(r nav.RouteID) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Cursor[r]
}

// MoveCursor shifts a screen's row selection by delta, clamped to [0, max].
func (a *App) MoveCursor(r nav.RouteID, delta, max int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	c := a.Cursor[r] + delta
	if c < 0 {
		c = 0
	}
	if max >= 0 && c > max {
		c = max
	}
	a.Cursor[r] = c
	return c
}

// ResetCursor zeroes a screen's row selection.
func (a *App) ResetCursor(r nav.RouteID) {
	a.mu.Lock()
	a.Cursor[r] = 0
	a.mu.Unlock()
}

package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"gitlab.com/tinyland/lab/strum/pkg/focus"
	"gitlab.com/tinyland/lab/strum/pkg/nav"
	"gitlab.com/tinyland/lab/strum/pkg/remote"
	"gitlab.com/tinyland/lab/strum/pkg/state"
)

// librarySections are the fixed entries of the library block.
var librarySections = []string{
	"Recently Played",
	"Liked Songs",
	"Albums",
	"Artists",
	"Podcasts",
	"Top Tracks",
	"Top Artists",
}

// handleBlockKey delegates a key to whatever block is committed, or to the
// hovered block on the home screen.
func (m Model) handleBlockKey(key string) (tea.Model, tea.Cmd) {
	route := m.app.CurrentRoute()

	switch route.ID {
	case nav.RouteHome:
		return m.handleHomeKey(key, route)
	case nav.RouteSearch:
		return m.handleSearchResultsKey(key)
	case nav.RouteArtist:
		return m.handleArtistKey(key)
	case nav.RouteTrackTable, nav.RouteAlbumTracks:
		return m.handleTrackTableKey(key, route.ID)
	case nav.RouteAlbumList:
		return m.handleAlbumListKey(key)
	case nav.RouteArtists:
		return m.handleArtistsKey(key)
	case nav.RoutePodcasts:
		return m.handlePodcastsKey(key)
	case nav.RoutePodcastEpisodes:
		return m.handleEpisodesKey(key)
	case nav.RouteRecentlyPlayed:
		return m.handleRecentlyPlayedKey(key)
	case nav.RouteLogStream:
		return m.handleLogKey(key)
	}
	return m, nil
}

// handleHomeKey drives the sidebar: up/down move inside the hovered list,
// left/right switch between the library and playlist blocks, enter commits.
func (m Model) handleHomeKey(key string, route nav.Route) (tea.Model, tea.Cmd) {
	hovered := route.Hovered
	if route.Active != nav.BlockEmpty {
		hovered = route.Active
	}

	switch key {
	case "up", "k":
		if hovered == nav.BlockLibrary && m.libCursor > 0 {
			m.libCursor--
		}
		if hovered == nav.BlockPlaylists && m.plCursor > 0 {
			m.plCursor--
		}
	case "down", "j":
		if hovered == nav.BlockLibrary && m.libCursor < len(librarySections)-1 {
			m.libCursor++
		}
		if hovered == nav.BlockPlaylists {
			m.app.Lock()
			n := len(m.app.Playlists.Current())
			m.app.Unlock()
			if m.plCursor < n-1 {
				m.plCursor++
			}
		}
	case "left", "h":
		m.app.SetBlocks(nav.BlockPtr(nav.BlockEmpty), nav.BlockPtr(nav.BlockLibrary))
	case "right", "l":
		m.app.SetBlocks(nav.BlockPtr(nav.BlockEmpty), nav.BlockPtr(nav.BlockPlaylists))
	case "enter":
		if hovered == nav.BlockLibrary {
			m.app.SetBlocks(nav.BlockPtr(nav.BlockLibrary), nil)
			m.enterLibrarySection(librarySections[m.libCursor])
		}
		if hovered == nav.BlockPlaylists {
			m.app.SetBlocks(nav.BlockPtr(nav.BlockPlaylists), nil)
			m.enterPlaylist()
		}
	case "D":
		if hovered == nav.BlockPlaylists {
			m.confirmUnfollowPlaylist()
		}
	}
	return m, nil
}

// enterLibrarySection dispatches the section's fetch and pushes its screen.
func (m Model) enterLibrarySection(section string) {
	switch section {
	case "Recently Played":
		m.app.Dispatch(state.FetchRecentlyPlayed{
			Seq:   m.app.NextSeq(state.ScreenRecentlyPlayed),
			Limit: m.trackLimit(),
		})
		m.app.ResetCursor(nav.RouteRecentlyPlayed)
		m.app.PushRoute(nav.Route{ID: nav.RouteRecentlyPlayed, Active: nav.BlockRecentlyPlayed, Hovered: nav.BlockRecentlyPlayed})

	case "Liked Songs":
		m.app.SetTable("Liked Songs", "")
		m.app.Dispatch(state.FetchSavedTracks{
			Seq:   m.app.NextSeq(state.ScreenSavedTracks),
			Limit: m.trackLimit(),
		})
		m.app.ResetCursor(nav.RouteTrackTable)
		m.app.PushRoute(nav.Route{ID: nav.RouteTrackTable, Active: nav.BlockTrackTable, Hovered: nav.BlockTrackTable, Label: "Liked Songs"})

	case "Albums":
		m.app.Dispatch(state.FetchSavedAlbums{
			Seq:   m.app.NextSeq(state.ScreenSavedAlbums),
			Limit: m.listLimit(),
		})
		m.app.ResetCursor(nav.RouteAlbumList)
		m.app.PushRoute(nav.Route{ID: nav.RouteAlbumList, Active: nav.BlockAlbumList, Hovered: nav.BlockAlbumList})

	case "Artists":
		m.app.Dispatch(state.FetchFollowedArtists{
			Seq:   m.app.NextSeq(state.ScreenFollowedArtists),
			Limit: m.listLimit(),
		})
		m.app.ResetCursor(nav.RouteArtists)
		m.app.PushRoute(nav.Route{ID: nav.RouteArtists, Active: nav.BlockArtists, Hovered: nav.BlockArtists})

	case "Podcasts":
		m.app.Dispatch(state.FetchSavedShows{
			Seq:   m.app.NextSeq(state.ScreenSavedShows),
			Limit: m.listLimit(),
		})
		m.app.ResetCursor(nav.RoutePodcasts)
		m.app.PushRoute(nav.Route{ID: nav.RoutePodcasts, Active: nav.BlockPodcasts, Hovered: nav.BlockPodcasts})

	case "Top Tracks":
		m.app.SetTable("Top Tracks", "")
		m.app.Dispatch(state.FetchTopTracks{
			Seq:   m.app.NextSeq(state.ScreenTopTracks),
			Limit: m.trackLimit(),
		})
		m.app.ResetCursor(nav.RouteTrackTable)
		m.app.PushRoute(nav.Route{ID: nav.RouteTrackTable, Active: nav.BlockTrackTable, Hovered: nav.BlockTrackTable, Label: "Top Tracks"})

	case "Top Artists":
		m.app.Dispatch(state.FetchTopArtists{
			Seq:   m.app.NextSeq(state.ScreenTopArtists),
			Limit: m.listLimit(),
		})
		m.app.ResetCursor(nav.RouteArtists)
		m.app.PushRoute(nav.Route{ID: nav.RouteArtists, Active: nav.BlockArtists, Hovered: nav.BlockArtists})
	}
}

// enterPlaylist opens the playlist under the cursor.
func (m Model) enterPlaylist() {
	m.app.Lock()
	pls := m.app.Playlists.Current()
	m.app.Unlock()
	if m.plCursor >= len(pls) {
		return
	}
	pl := pls[m.plCursor]

	m.app.SetTable(pl.Name, pl.URI)
	m.app.Dispatch(state.FetchPlaylistTracks{
		Seq:          m.app.NextSeq(state.ScreenPlaylistTracks),
		PlaylistID:   pl.ID,
		PlaylistName: pl.Name,
		Limit:        m.trackLimit(),
	})
	m.app.ResetCursor(nav.RouteTrackTable)
	m.app.PushRoute(nav.Route{ID: nav.RouteTrackTable, Active: nav.BlockTrackTable, Hovered: nav.BlockTrackTable, Label: pl.Name})
}

// confirmUnfollowPlaylist opens the confirmation dialog.
func (m Model) confirmUnfollowPlaylist() {
	m.app.Lock()
	pls := m.app.Playlists.Current()
	m.app.Unlock()
	if m.plCursor >= len(pls) {
		return
	}
	pl := pls[m.plCursor]

	m.app.Lock()
	m.app.Dialog = &state.Dialog{
		Prompt: "Unfollow playlist \"" + pl.Name + "\"?",
		Accept: state.UnfollowPlaylist{PlaylistID: pl.ID},
	}
	m.app.Unlock()
	m.app.PushRoute(nav.Route{ID: nav.RouteDialog, Active: nav.BlockDialog, Hovered: nav.BlockDialog})
}

// searchQuadrantOrder is the left/right cycle through the result grid.
var searchQuadrantOrder = []focus.SearchBlock{
	focus.SearchSongs,
	focus.SearchAlbums,
	focus.SearchArtists,
	focus.SearchPlaylists,
	focus.SearchShows,
}

func (m Model) handleSearchResultsKey(key string) (tea.Model, tea.Cmd) {
	m.app.Lock()
	q := m.app.SearchQuadrant
	results := m.app.Search
	m.app.Unlock()
	if q == focus.SearchNone {
		// Nothing committed: enter re-focuses the input, arrows pick the
		// first quadrant.
		switch key {
		case "enter", "i":
			m.input.Focus()
			m.app.SetBlocks(nav.BlockPtr(nav.BlockSearchInput), nav.BlockPtr(nav.BlockSearchInput))
		case "down", "j", "left", "h", "right", "l":
			m.setSearchQuadrant(focus.SearchSongs)
		}
		return m, nil
	}

	switch key {
	case "right", "l":
		m.setSearchQuadrant(nextQuadrant(q, 1))
	case "left", "h":
		m.setSearchQuadrant(nextQuadrant(q, -1))
	case "up", "k":
		if m.searchCursor[q] > 0 {
			m.searchCursor[q]--
		}
	case "down", "j":
		if m.searchCursor[q] < quadrantLen(results, q)-1 {
			m.searchCursor[q]++
		}
	case "enter":
		m.enterSearchResult(results, q)
	}
	return m, nil
}

func nextQuadrant(q focus.SearchBlock, step int) focus.SearchBlock {
	for i, cand := range searchQuadrantOrder {
		if cand == q {
			n := (i + step + len(searchQuadrantOrder)) % len(searchQuadrantOrder)
			return searchQuadrantOrder[n]
		}
	}
	return focus.SearchSongs
}

func quadrantLen(r remote.SearchResults, q focus.SearchBlock) int {
	switch q {
	case focus.SearchSongs:
		if r.Tracks != nil {
			return len(r.Tracks.Items)
		}
	case focus.SearchAlbums:
		if r.Albums != nil {
			return len(r.Albums.Items)
		}
	case focus.SearchArtists:
		if r.Artists != nil {
			return len(r.Artists.Items)
		}
	case focus.SearchPlaylists:
		if r.Playlists != nil {
			return len(r.Playlists.Items)
		}
	case focus.SearchShows:
		if r.Shows != nil {
			return len(r.Shows.Items)
		}
	}
	return 0
}

// enterSearchResult acts on the selected item: songs play, everything else
// opens its screen.
func (m Model) enterSearchResult(r remote.SearchResults, q focus.SearchBlock) {
	i := m.searchCursor[q]
	switch q {
	case focus.SearchSongs:
		if r.Tracks != nil && i < len(r.Tracks.Items) {
			m.app.Dispatch(state.StartPlayback{Spec: remote.PlaySpec{URIs: []string{r.Tracks.Items[i].URI}}})
		}
	case focus.SearchAlbums:
		if r.Albums != nil && i < len(r.Albums.Items) {
			m.openAlbum(r.Albums.Items[i])
		}
	case focus.SearchArtists:
		if r.Artists != nil && i < len(r.Artists.Items) {
			m.openArtist(r.Artists.Items[i].ID)
		}
	case focus.SearchPlaylists:
		if r.Playlists != nil && i < len(r.Playlists.Items) {
			pl := r.Playlists.Items[i]
			m.app.SetTable(pl.Name, pl.URI)
			m.app.Dispatch(state.FetchPlaylistTracks{
				Seq:          m.app.NextSeq(state.ScreenPlaylistTracks),
				PlaylistID:   pl.ID,
				PlaylistName: pl.Name,
				Limit:        m.trackLimit(),
			})
			m.app.ResetCursor(nav.RouteTrackTable)
			m.app.PushRoute(nav.Route{ID: nav.RouteTrackTable, Active: nav.BlockTrackTable, Hovered: nav.BlockTrackTable, Label: pl.Name})
		}
	case focus.SearchShows:
		if r.Shows != nil && i < len(r.Shows.Items) {
			m.openShow(r.Shows.Items[i])
		}
	}
}

func (m Model) openAlbum(al remote.Album) {
	m.app.SetTable(al.Name, al.URI)
	m.app.Dispatch(state.FetchAlbumTracks{
		Seq:       m.app.NextSeq(state.ScreenAlbumTracks),
		AlbumID:   al.ID,
		AlbumName: al.Name,
		Limit:     m.trackLimit(),
	})
	m.app.ResetCursor(nav.RouteAlbumTracks)
	m.app.PushRoute(nav.Route{ID: nav.RouteAlbumTracks, Active: nav.BlockAlbumTracks, Hovered: nav.BlockAlbumTracks, Label: al.Name})
}

func (m Model) openShow(sh remote.Show) {
	m.app.Dispatch(state.FetchShowEpisodes{
		Seq:    m.app.NextSeq(state.ScreenEpisodes),
		ShowID: sh.ID,
		ShowName: sh.Name,
		Limit:  m.trackLimit(),
	})
	m.app.ResetCursor(nav.RoutePodcastEpisodes)
	m.app.PushRoute(nav.Route{ID: nav.RoutePodcastEpisodes, Active: nav.BlockEpisodeTable, Hovered: nav.BlockEpisodeTable, Label: sh.Name})
}

// artistSectionOrder is the left/right cycle through the artist screen.
var artistSectionOrder = []focus.ArtistSection{
	focus.ArtistTopTracks,
	focus.ArtistAlbums,
	focus.ArtistRelated,
}

func (m Model) handleArtistKey(key string) (tea.Model, tea.Cmd) {
	m.app.Lock()
	sec := m.app.ArtistSection
	detail := m.app.Artist
	m.app.Unlock()

	setSection := func(s focus.ArtistSection) {
		m.app.Lock()
		m.app.ArtistSection = s
		m.app.Unlock()
		m.app.SetBlocks(nav.BlockPtr(nav.BlockArtist), nav.BlockPtr(nav.BlockArtist))
	}

	if sec == focus.ArtistNone {
		switch key {
		case "enter", "down", "j", "left", "h", "right", "l":
			setSection(focus.ArtistTopTracks)
		}
		return m, nil
	}

	switch key {
	case "right", "l":
		setSection(nextSection(sec, 1))
	case "left", "h":
		setSection(nextSection(sec, -1))
	case "up", "k":
		if m.artistCursor[sec] > 0 {
			m.artistCursor[sec]--
		}
	case "down", "j":
		if m.artistCursor[sec] < sectionLen(detail, sec)-1 {
			m.artistCursor[sec]++
		}
	case "enter":
		m.enterArtistSection(detail, sec)
	}
	return m, nil
}

func nextSection(s focus.ArtistSection, step int) focus.ArtistSection {
	for i, cand := range artistSectionOrder {
		if cand == s {
			n := (i + step + len(artistSectionOrder)) % len(artistSectionOrder)
			return artistSectionOrder[n]
		}
	}
	return focus.ArtistTopTracks
}

func sectionLen(d *remote.ArtistDetail, s focus.ArtistSection) int {
	if d == nil {
		return 0
	}
	switch s {
	case focus.ArtistTopTracks:
		return len(d.TopTracks)
	case focus.ArtistAlbums:
		return len(d.Albums.Items)
	case focus.ArtistRelated:
		return len(d.Related)
	}
	return 0
}

func (m Model) enterArtistSection(d *remote.ArtistDetail, s focus.ArtistSection) {
	if d == nil {
		return
	}
	i := m.artistCursor[s]
	switch s {
	case focus.ArtistTopTracks:
		if i < len(d.TopTracks) {
			m.app.Dispatch(state.StartPlayback{Spec: remote.PlaySpec{URIs: []string{d.TopTracks[i].URI}}})
		}
	case focus.ArtistAlbums:
		if i < len(d.Albums.Items) {
			m.openAlbum(d.Albums.Items[i])
		}
	case focus.ArtistRelated:
		if i < len(d.Related) {
			m.openArtist(d.Related[i].ID)
		}
	}
}

// handleTrackTableKey drives the shared track table. The rows come from
// whatever the table is labelled with; enter starts playback in that
// context.
func (m Model) handleTrackTableKey(key string, routeID nav.RouteID) (tea.Model, tea.Cmd) {
	rows := m.trackRows()

	switch key {
	case "up", "k":
		m.app.MoveCursor(routeID, -1, len(rows)-1)
	case "down", "j":
		m.app.MoveCursor(routeID, 1, len(rows)-1)
	case "ctrl+d":
		m.nextTrackPage()
	case "ctrl+u":
		m.app.Lock()
		m.app.PlaylistTracks.Prev()
		m.app.SavedTracks.Prev()
		m.app.Unlock()
	case "enter":
		i := m.app.CursorFor(routeID)
		if i >= len(rows) {
			return m, nil
		}
		m.app.Lock()
		contextURI := m.app.TableContext
		m.app.Unlock()
		spec := remote.PlaySpec{URIs: []string{rows[i].URI}}
		if contextURI != "" {
			spec = remote.PlaySpec{ContextURI: contextURI, OffsetURI: rows[i].URI}
		}
		m.app.Dispatch(state.StartPlayback{Spec: spec})
	}
	return m, nil
}

// nextTrackPage pages the table forward, fetching when the page is not
// stored yet.
func (m Model) nextTrackPage() {
	m.app.Lock()
	title := m.app.TableTitle
	limit := m.app.Limits.Track
	m.app.Unlock()

	switch title {
	case "Liked Songs":
		m.app.Lock()
		need := m.app.SavedTracks.Next()
		exhausted := m.app.SavedTracks.Exhausted(limit)
		offset := m.app.SavedTracks.NextOffset(limit)
		m.app.Unlock()
		if need && !exhausted {
			m.app.Dispatch(state.FetchSavedTracks{
				Seq:    m.app.NextSeq(state.ScreenSavedTracks),
				Limit:  limit,
				Offset: offset,
			})
		}
	case "Top Tracks":
		// Top tracks are a single unpaged list.
	default:
		m.app.Lock()
		need := m.app.PlaylistTracks.Next()
		exhausted := m.app.PlaylistTracks.Exhausted(limit)
		offset := m.app.PlaylistTracks.NextOffset(limit)
		contextURI := m.app.TableContext
		m.app.Unlock()
		if !need || exhausted {
			return
		}
		kind, id, err := remote.ParseID(contextURI)
		if err != nil {
			return
		}
		switch kind {
		case "playlist":
			m.app.Dispatch(state.FetchPlaylistTracks{
				Seq:          m.app.NextSeq(state.ScreenPlaylistTracks),
				PlaylistID:   id,
				PlaylistName: title,
				Limit:        limit,
				Offset:       offset,
			})
		case "album":
			m.app.Dispatch(state.FetchAlbumTracks{
				Seq:       m.app.NextSeq(state.ScreenAlbumTracks),
				AlbumID:   id,
				AlbumName: title,
				Limit:     limit,
				Offset:    offset,
			})
		}
	}
}

// trackRows resolves the rows the shared track table shows.
func (m Model) trackRows() []remote.Track {
	m.app.Lock()
	defer m.app.Unlock()
	switch m.app.TableTitle {
	case "Liked Songs":
		saved := m.app.SavedTracks.Current()
		rows := make([]remote.Track, len(saved))
		for i, s := range saved {
			rows[i] = s.Track
		}
		return rows
	case "Top Tracks":
		return m.app.TopTracks
	default:
		return m.app.PlaylistTracks.Current()
	}
}

func (m Model) handleAlbumListKey(key string) (tea.Model, tea.Cmd) {
	m.app.Lock()
	albums := m.app.SavedAlbums.Current()
	m.app.Unlock()

	switch key {
	case "up", "k":
		m.app.MoveCursor(nav.RouteAlbumList, -1, len(albums)-1)
	case "down", "j":
		m.app.MoveCursor(nav.RouteAlbumList, 1, len(albums)-1)
	case "ctrl+d":
		m.app.Lock()
		limit := m.app.Limits.List
		need := m.app.SavedAlbums.Next()
		exhausted := m.app.SavedAlbums.Exhausted(limit)
		offset := m.app.SavedAlbums.NextOffset(limit)
		m.app.Unlock()
		if need && !exhausted {
			m.app.Dispatch(state.FetchSavedAlbums{
				Seq:    m.app.NextSeq(state.ScreenSavedAlbums),
				Limit:  limit,
				Offset: offset,
			})
		}
	case "ctrl+u":
		m.app.Lock()
		m.app.SavedAlbums.Prev()
		m.app.Unlock()
	case "enter":
		i := m.app.CursorFor(nav.RouteAlbumList)
		if i < len(albums) {
			m.openAlbum(albums[i].Album)
		}
	}
	return m, nil
}

func (m Model) handleArtistsKey(key string) (tea.Model, tea.Cmd) {
	m.app.Lock()
	artists := m.artistsListLocked()
	m.app.Unlock()

	switch key {
	case "up", "k":
		m.app.MoveCursor(nav.RouteArtists, -1, len(artists)-1)
	case "down", "j":
		m.app.MoveCursor(nav.RouteArtists, 1, len(artists)-1)
	case "enter":
		i := m.app.CursorFor(nav.RouteArtists)
		if i < len(artists) {
			m.openArtist(artists[i].ID)
		}
	}
	return m, nil
}

// artistsListLocked merges the two sources the artists screen can show.
// The most recent fetch wins: top artists when that list was loaded last.
func (m Model) artistsListLocked() []remote.Artist {
	if len(m.app.TopArtists) > 0 && len(m.app.FollowedArtists) == 0 {
		return m.app.TopArtists
	}
	if len(m.app.FollowedArtists) > 0 {
		return m.app.FollowedArtists
	}
	return m.app.TopArtists
}

func (m Model) handlePodcastsKey(key string) (tea.Model, tea.Cmd) {
	m.app.Lock()
	shows := m.app.SavedShows.Current()
	m.app.Unlock()

	switch key {
	case "up", "k":
		m.app.MoveCursor(nav.RoutePodcasts, -1, len(shows)-1)
	case "down", "j":
		m.app.MoveCursor(nav.RoutePodcasts, 1, len(shows)-1)
	case "enter":
		i := m.app.CursorFor(nav.RoutePodcasts)
		if i < len(shows) {
			m.openShow(shows[i].Show)
		}
	}
	return m, nil
}

func (m Model) handleEpisodesKey(key string) (tea.Model, tea.Cmd) {
	m.app.Lock()
	eps := m.app.Episodes.Current()
	m.app.Unlock()

	switch key {
	case "up", "k":
		m.app.MoveCursor(nav.RoutePodcastEpisodes, -1, len(eps)-1)
	case "down", "j":
		m.app.MoveCursor(nav.RoutePodcastEpisodes, 1, len(eps)-1)
	case "enter":
		i := m.app.CursorFor(nav.RoutePodcastEpisodes)
		if i < len(eps) {
			m.app.Dispatch(state.StartPlayback{Spec: remote.PlaySpec{URIs: []string{eps[i].URI}}})
		}
	}
	return m, nil
}

func (m Model) handleRecentlyPlayedKey(key string) (tea.Model, tea.Cmd) {
	m.app.Lock()
	items := m.app.RecentlyPlayed
	m.app.Unlock()

	switch key {
	case "up", "k":
		m.app.MoveCursor(nav.RouteRecentlyPlayed, -1, len(items)-1)
	case "down", "j":
		m.app.MoveCursor(nav.RouteRecentlyPlayed, 1, len(items)-1)
	case "enter":
		i := m.app.CursorFor(nav.RouteRecentlyPlayed)
		if i < len(items) {
			m.app.Dispatch(state.StartPlayback{Spec: remote.PlaySpec{URIs: []string{items[i].Track.URI}}})
		}
	}
	return m, nil
}

func (m Model) handleLogKey(key string) (tea.Model, tea.Cmd) {
	m.app.Lock()
	defer m.app.Unlock()
	switch key {
	case "up", "k":
		m.app.Ring.Select(m.app.Ring.Selected - 1)
	case "down", "j":
		m.app.Ring.Select(m.app.Ring.Selected + 1)
	case "g":
		m.app.Ring.Select(0)
	case "G":
		m.app.Ring.Select(m.app.Ring.Len() - 1)
	}
	return m, nil
}

// handleDeviceKey drives the device overlay. Printable keys narrow the list
// by fuzzy match, so it runs before the global shortcut table.
func (m Model) handleDeviceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	devices := m.filteredDevices()

	switch msg.String() {
	case "ctrl+c", "q":
		m.app.CloseCommands()
		return m, tea.Quit
	case "esc":
		m.app.HandleEscape()
		return m, nil
	case "up", "ctrl+k":
		m.app.MoveCursor(nav.RouteSelectedDevice, -1, len(devices)-1)
		return m, nil
	case "down", "ctrl+j":
		m.app.MoveCursor(nav.RouteSelectedDevice, 1, len(devices)-1)
		return m, nil
	case "backspace":
		if len(m.deviceFilter) > 0 {
			m.deviceFilter = m.deviceFilter[:len(m.deviceFilter)-1]
			m.app.ResetCursor(nav.RouteSelectedDevice)
		}
		return m, nil
	case "enter":
		i := m.app.CursorFor(nav.RouteSelectedDevice)
		if i < len(devices) && devices[i].ID != "" {
			m.app.Dispatch(state.TransferPlayback{DeviceID: devices[i].ID})
			m.app.HandleBack()
		}
		return m, nil
	}

	if msg.Type == tea.KeyRunes {
		m.deviceFilter += string(msg.Runes)
		m.app.ResetCursor(nav.RouteSelectedDevice)
	}
	return m, nil
}

// filteredDevices applies the typed fuzzy filter to the device list.
func (m Model) filteredDevices() []remote.Device {
	m.app.Lock()
	devices := m.app.Devices
	m.app.Unlock()
	if m.deviceFilter == "" {
		return devices
	}
	var out []remote.Device
	for _, d := range devices {
		if fuzzy.MatchFold(m.deviceFilter, d.Name) {
			out = append(out, d)
		}
	}
	return out
}

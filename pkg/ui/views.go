package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/strum/pkg/focus"
	"gitlab.com/tinyland/lab/strum/pkg/logring"
	"gitlab.com/tinyland/lab/strum/pkg/nav"
	"gitlab.com/tinyland/lab/strum/pkg/remote"
)

// View renders the whole frame: header, the current route's screen, and the
// play bar. Idle mode replaces everything with the full-screen cover.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if m.app.IsIdle() {
		return m.viewIdle()
	}

	header := m.viewHeader()
	var body string
	switch m.app.CurrentRoute().ID {
	case nav.RouteHome:
		body = m.viewHome()
	case nav.RouteSearch:
		body = m.viewSearch()
	case nav.RouteTrackTable, nav.RouteAlbumTracks:
		body = m.viewTrackTable()
	case nav.RouteAlbumList:
		body = m.viewAlbumList()
	case nav.RouteArtist:
		body = m.viewArtist()
	case nav.RouteArtists:
		body = m.viewArtists()
	case nav.RoutePodcasts:
		body = m.viewPodcasts()
	case nav.RoutePodcastEpisodes:
		body = m.viewEpisodes()
	case nav.RouteRecentlyPlayed:
		body = m.viewRecentlyPlayed()
	case nav.RouteSelectedDevice:
		body = m.viewDevices()
	case nav.RouteLogStream:
		body = m.viewLog()
	case nav.RouteBasicView:
		body = m.viewBasic()
	case nav.RouteAnalysis:
		body = m.viewAnalysis()
	case nav.RouteDialog:
		body = m.viewDialog()
	default:
		body = m.styles.Dim.Render("nothing here")
	}

	if m.showHelp {
		body = m.viewHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.viewPlaybar())
}

func (m Model) viewHeader() string {
	crumb := m.styles.Breadcrumb.Render(m.app.Breadcrumb())
	hint := m.styles.HelpHint.Render("? help  / search  q quit")
	gap := m.width - lipgloss.Width(crumb) - lipgloss.Width(hint)
	if gap < 1 {
		gap = 1
	}
	return crumb + strings.Repeat(" ", gap) + hint
}

// viewList renders rows with the cursor line highlighted, in a bordered box
// whose frame color follows the component's focus state.
func (m Model) viewList(title string, rows []string, cursor int, comp focus.ComponentID, width, height int) string {
	m.app.Lock()
	focused := m.app.Focus.IsFocused(comp)
	hovered := m.app.Focus.IsHovered(comp)
	m.app.Unlock()
	st := m.styles.borderFor(focused, hovered)

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(m.styles.Dim.Render("  (empty)"))
	}
	start := 0
	if height > 0 && cursor >= height {
		start = cursor - height + 1
	}
	for i := start; i < len(rows); i++ {
		if height > 0 && i-start >= height {
			break
		}
		line := ansi.Truncate(rows[i], width-4, "…")
		if i == cursor {
			b.WriteString(m.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(m.styles.Text.Render("  " + line))
		}
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return st.Width(width).Render(b.String())
}

func (m Model) viewHome() string {
	m.app.Lock()
	playlists := m.app.Playlists.Current()
	user := m.app.User
	cover := m.app.Cover.Normal
	m.app.Unlock()

	sideW := m.width / 3
	if sideW < 24 {
		sideW = 24
	}

	lib := m.viewList("Library", librarySections, m.libCursor, focus.Library, sideW, len(librarySections))

	plRows := make([]string, len(playlists))
	for i, p := range playlists {
		plRows[i] = p.Name
	}
	pl := m.viewList("Playlists", plRows, m.plCursor, focus.Playlists, sideW, m.listLimit())

	sidebar := lipgloss.JoinVertical(lipgloss.Left, lib, pl)

	var right strings.Builder
	if user != nil {
		right.WriteString(m.styles.Title.Render("Hello, " + user.DisplayName))
		right.WriteString("\n\n")
	}
	if cover != "" {
		right.WriteString(cover)
		right.WriteString("\n")
	}
	if t := m.app.NowPlaying(); t != nil {
		right.WriteString(m.styles.Text.Render(t.Name + " - " + artistNames(t.Artists)))
	} else {
		right.WriteString(m.styles.Dim.Render("nothing playing"))
	}

	pane := m.styles.IdleBorder.Width(m.width - sideW - 4).Render(right.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, pane)
}

func (m Model) viewTrackTable() string {
	rows := m.trackRows()
	m.app.Lock()
	title := m.app.TableTitle
	m.app.Unlock()

	routeID := m.app.CurrentRoute().ID
	comp := focus.TrackTable
	if routeID == nav.RouteAlbumTracks {
		comp = focus.AlbumTracks
	}

	lines := make([]string, len(rows))
	for i, t := range rows {
		lines[i] = fmt.Sprintf("%-3d %-40s %-28s %s",
			i+1,
			ansi.Truncate(t.Name, 40, "…"),
			ansi.Truncate(artistNames(t.Artists), 28, "…"),
			fmtDuration(t.DurationMS))
	}
	return m.viewList(title, lines, m.app.CursorFor(routeID), comp, m.width-2, m.trackLimit())
}

func (m Model) viewAlbumList() string {
	m.app.Lock()
	albums := m.app.SavedAlbums.Current()
	m.app.Unlock()

	rows := make([]string, len(albums))
	for i, a := range albums {
		rows[i] = fmt.Sprintf("%-40s %-24s %s",
			ansi.Truncate(a.Album.Name, 40, "…"),
			ansi.Truncate(artistNames(a.Album.Artists), 24, "…"),
			a.Album.ReleaseDate)
	}
	return m.viewList("Albums", rows, m.app.CursorFor(nav.RouteAlbumList), focus.AlbumList, m.width-2, m.listLimit())
}

func (m Model) viewSearch() string {
	m.app.Lock()
	results := m.app.Search
	quadrant := m.app.SearchQuadrant
	inputFocused := m.app.Focus.IsFocused(focus.SearchInput)
	inputHovered := m.app.Focus.IsHovered(focus.SearchInput)
	m.app.Unlock()

	inputBox := m.styles.borderFor(inputFocused, inputHovered).
		Width(m.width - 2).
		Render(m.input.View())

	halfW := (m.width - 6) / 2
	qh := (m.height - 14) / 2
	if qh < 4 {
		qh = 4
	}

	renderQuadrant := func(title string, q focus.SearchBlock, rows []string) string {
		cursor := -1
		if q == quadrant {
			cursor = m.searchCursor[q]
		}
		return m.viewList(title, rows, cursor, focus.SearchResults(q), halfW, qh)
	}

	songs := renderQuadrant("Songs", focus.SearchSongs, trackNames(results.Tracks))
	albums := renderQuadrant("Albums", focus.SearchAlbums, albumNames(results.Albums))
	artists := renderQuadrant("Artists", focus.SearchArtists, artistPageNames(results.Artists))
	playlists := renderQuadrant("Playlists", focus.SearchPlaylists, playlistNames(results.Playlists))
	shows := renderQuadrant("Podcasts", focus.SearchShows, showNames(results.Shows))

	top := lipgloss.JoinHorizontal(lipgloss.Top, songs, albums)
	mid := lipgloss.JoinHorizontal(lipgloss.Top, artists, playlists)
	return lipgloss.JoinVertical(lipgloss.Left, inputBox, top, mid, shows)
}

func (m Model) viewArtist() string {
	m.app.Lock()
	d := m.app.Artist
	m.app.Unlock()
	if d == nil {
		return m.styles.Dim.Render("loading artist...")
	}

	thirdW := (m.width - 9) / 3
	h := m.height - 10

	cursorFor := func(s focus.ArtistSection) int {
		m.app.Lock()
		cur := m.app.ArtistSection
		m.app.Unlock()
		if cur == s {
			return m.artistCursor[s]
		}
		return -1
	}

	var top []string
	for _, t := range d.TopTracks {
		top = append(top, t.Name)
	}
	var albums []string
	for _, a := range d.Albums.Items {
		albums = append(albums, a.Name)
	}
	var related []string
	for _, r := range d.Related {
		related = append(related, r.Name)
	}

	header := m.styles.Title.Render(d.Artist.Name)
	cols := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewList("Top Tracks", top, cursorFor(focus.ArtistTopTracks), focus.Artist(focus.ArtistTopTracks), thirdW, h),
		m.viewList("Albums", albums, cursorFor(focus.ArtistAlbums), focus.Artist(focus.ArtistAlbums), thirdW, h),
		m.viewList("Related", related, cursorFor(focus.ArtistRelated), focus.Artist(focus.ArtistRelated), thirdW, h),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, cols)
}

func (m Model) viewArtists() string {
	m.app.Lock()
	artists := m.artistsListLocked()
	m.app.Unlock()

	rows := make([]string, len(artists))
	for i, a := range artists {
		rows[i] = a.Name
	}
	return m.viewList("Artists", rows, m.app.CursorFor(nav.RouteArtists), focus.Artists, m.width-2, m.listLimit())
}

func (m Model) viewPodcasts() string {
	m.app.Lock()
	shows := m.app.SavedShows.Current()
	m.app.Unlock()

	rows := make([]string, len(shows))
	for i, s := range shows {
		rows[i] = fmt.Sprintf("%-40s %s",
			ansi.Truncate(s.Show.Name, 40, "…"),
			s.Show.Publisher)
	}
	return m.viewList("Podcasts", rows, m.app.CursorFor(nav.RoutePodcasts), focus.Podcasts, m.width-2, m.listLimit())
}

func (m Model) viewEpisodes() string {
	m.app.Lock()
	eps := m.app.Episodes.Current()
	m.app.Unlock()

	rows := make([]string, len(eps))
	for i, e := range eps {
		rows[i] = fmt.Sprintf("%-10s %-50s %s",
			e.ReleaseDate,
			ansi.Truncate(e.Name, 50, "…"),
			fmtDuration(e.DurationMS))
	}
	return m.viewList("Episodes", rows, m.app.CursorFor(nav.RoutePodcastEpisodes), focus.EpisodeTable, m.width-2, m.trackLimit())
}

func (m Model) viewRecentlyPlayed() string {
	m.app.Lock()
	items := m.app.RecentlyPlayed
	m.app.Unlock()

	rows := make([]string, len(items))
	for i, it := range items {
		rows[i] = fmt.Sprintf("%-40s %-28s %s",
			ansi.Truncate(it.Track.Name, 40, "…"),
			ansi.Truncate(artistNames(it.Track.Artists), 28, "…"),
			it.PlayedAt.Format("Jan 02 15:04"))
	}
	return m.viewList("Recently Played", rows, m.app.CursorFor(nav.RouteRecentlyPlayed), focus.RecentlyPlayed, m.width-2, m.trackLimit())
}

func (m Model) viewDevices() string {
	devices := m.filteredDevices()

	rows := make([]string, len(devices))
	for i, d := range devices {
		marker := " "
		if d.IsActive {
			marker = "*"
		}
		rows[i] = fmt.Sprintf("%s %-30s %-12s %3d%%", marker, d.Name, d.Type, d.VolumePercent)
	}
	title := "Devices"
	if m.deviceFilter != "" {
		title = "Devices / " + m.deviceFilter
	}
	return m.viewList(title, rows, m.app.CursorFor(nav.RouteSelectedDevice), focus.SelectDevice, m.width-2, m.listLimit())
}

func (m Model) viewLog() string {
	m.app.Lock()
	entries := append([]logring.Entry(nil), m.app.Ring.Entries()...)
	selected := m.app.Ring.Selected
	m.app.Unlock()

	rows := make([]string, len(entries))
	for i, e := range entries {
		line := e.At.Format("15:04:05") + "  " + e.Message
		if e.Level == logring.LevelError {
			line = m.styles.ErrorText.Render(line)
		}
		rows[i] = line
	}
	return m.viewList("Log", rows, selected, focus.LogView, m.width-2, m.trackLimit())
}

func (m Model) viewBasic() string {
	m.app.Lock()
	cover := m.app.Cover.Normal
	m.app.Unlock()

	var b strings.Builder
	if cover != "" {
		b.WriteString(cover)
		b.WriteString("\n\n")
	}
	if t := m.app.NowPlaying(); t != nil {
		b.WriteString(m.styles.Title.Render(t.Name))
		b.WriteString("\n")
		b.WriteString(m.styles.Text.Render(artistNames(t.Artists)))
		b.WriteString("\n")
		b.WriteString(m.styles.Dim.Render(t.Album.Name))
	} else {
		b.WriteString(m.styles.Dim.Render("nothing playing"))
	}
	return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, b.String())
}

func (m Model) viewIdle() string {
	m.app.Lock()
	cover := m.app.Cover.HighRes
	if cover == "" {
		cover = m.app.Cover.Normal
	}
	m.app.Unlock()

	var b strings.Builder
	if cover != "" {
		b.WriteString(cover)
		b.WriteString("\n")
	}
	if t := m.app.NowPlaying(); t != nil {
		b.WriteString(m.styles.Title.Render(t.Name + " - " + artistNames(t.Artists)))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

func (m Model) viewAnalysis() string {
	m.app.Lock()
	an := m.app.Analysis
	m.app.Unlock()
	if an == nil {
		return m.styles.Dim.Render("loading analysis...")
	}

	bar := func(label string, v float64) string {
		filled := int(v * 30)
		if filled < 0 {
			filled = 0
		}
		if filled > 30 {
			filled = 30
		}
		return fmt.Sprintf("%-14s %s%s %.2f", label,
			m.styles.Playbar.Render(strings.Repeat("█", filled)),
			m.styles.Dim.Render(strings.Repeat("░", 30-filled)), v)
	}

	keys := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	keyName := "?"
	if an.Key >= 0 && an.Key < len(keys) {
		keyName = keys[an.Key]
	}
	mode := "minor"
	if an.Mode == 1 {
		mode = "major"
	}

	lines := []string{
		m.styles.Title.Render("Audio Analysis"),
		"",
		fmt.Sprintf("tempo  %.0f bpm    key  %s %s    time  %d/4", an.Tempo, keyName, mode, an.TimeSignature),
		"",
		bar("energy", an.Energy),
		bar("danceability", an.Danceability),
		bar("valence", an.Valence),
		bar("acousticness", an.Acousticness),
	}
	return m.styles.IdleBorder.Width(m.width - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) viewDialog() string {
	m.app.Lock()
	d := m.app.Dialog
	m.app.Unlock()
	prompt := "confirm?"
	if d != nil {
		prompt = d.Prompt
	}
	box := m.styles.ActiveBorder.Padding(1, 2).Render(
		prompt + "\n\n" + m.styles.Dim.Render("[y] yes   [n] no"))
	return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) viewHelp() string {
	k := m.cfg.Keys
	rows := [][2]string{
		{k.Search, "search"},
		{k.ToggleTrack, "play / pause"},
		{k.NextTrack, "next track"},
		{k.PreviousTrack, "previous track"},
		{k.Shuffle, "toggle shuffle"},
		{k.Repeat, "cycle repeat"},
		{k.VolumeUp + " / " + k.VolumeDown, "volume"},
		{k.SeekForward + " / " + k.SeekBackward, "seek"},
		{k.JumpToAlbum, "jump to album"},
		{k.JumpToArtist, "jump to artist"},
		{k.Devices, "device list"},
		{k.BasicView, "now playing view"},
		{k.LogView, "event log"},
		{k.Analysis, "audio analysis"},
		{k.Back, "back"},
		{"esc", "step out"},
		{k.Quit, "quit"},
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Keys"))
	b.WriteString("\n")
	for _, r := range rows {
		key := r[0]
		if key == " " {
			key = "space"
		}
		fmt.Fprintf(&b, "%-14s %s\n", key, r[1])
	}
	return m.styles.IdleBorder.Width(m.width - 2).Render(b.String())
}

func (m Model) viewPlaybar() string {
	m.app.Lock()
	ps := m.app.Playback.State
	m.app.Unlock()

	if ps == nil || ps.Item == nil {
		return m.styles.Dim.Render(strings.Repeat("─", max(m.width, 1)))
	}

	status := "⏸"
	if ps.IsPlaying {
		status = "▶"
	}
	flags := ""
	if ps.ShuffleState {
		flags += " ⤮"
	}
	if ps.RepeatState != "" && ps.RepeatState != "off" {
		flags += " ↻" + ps.RepeatState
	}

	progress := m.app.Progress(time.Now())
	total := ps.Item.DurationMS
	label := fmt.Sprintf("%s %s - %s%s  %s/%s  %s %d%%",
		status,
		ansi.Truncate(ps.Item.Name, 32, "…"),
		ansi.Truncate(artistNames(ps.Item.Artists), 24, "…"),
		flags,
		fmtDuration(progress),
		fmtDuration(total),
		ps.Device.Name,
		ps.Device.VolumePercent)

	barW := m.width - lipgloss.Width(label) - 3
	if barW < 10 {
		return m.styles.Playbar.Render(label)
	}
	filled := 0
	if total > 0 {
		filled = progress * barW / total
	}
	if filled > barW {
		filled = barW
	}
	bar := m.styles.Playbar.Render(strings.Repeat("═", filled)) +
		m.styles.Dim.Render(strings.Repeat("─", barW-filled))
	return m.styles.Playbar.Render(label) + " " + bar
}

func artistNames(as []remote.Artist) string {
	names := make([]string, len(as))
	for i, a := range as {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

func trackNames(p *remote.Page[remote.Track]) []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.Items))
	for i, t := range p.Items {
		out[i] = t.Name + " - " + artistNames(t.Artists)
	}
	return out
}

func albumNames(p *remote.Page[remote.Album]) []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.Items))
	for i, a := range p.Items {
		out[i] = a.Name
	}
	return out
}

func artistPageNames(p *remote.Page[remote.Artist]) []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.Items))
	for i, a := range p.Items {
		out[i] = a.Name
	}
	return out
}

func playlistNames(p *remote.Page[remote.Playlist]) []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.Items))
	for i, pl := range p.Items {
		out[i] = pl.Name
	}
	return out
}

func showNames(p *remote.Page[remote.Show]) []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.Items))
	for i, s := range p.Items {
		out[i] = s.Name
	}
	return out
}

// fmtDuration renders milliseconds as m:ss.
func fmtDuration(ms int) string {
	s := ms / 1000
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

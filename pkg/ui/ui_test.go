package ui

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/strum/pkg/config"
	"gitlab.com/tinyland/lab/strum/pkg/focus"
	"gitlab.com/tinyland/lab/strum/pkg/nav"
	"gitlab.com/tinyland/lab/strum/pkg/remote"
	"gitlab.com/tinyland/lab/strum/pkg/state"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	logd := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := state.New(logd, 64, 0)
	m := New(app, config.DefaultConfig(), nil)
	m.width = 120
	m.height = 40
	return m
}

// drain empties the command channel without blocking.
func drain(app *state.App) []state.Command {
	var out []state.Command
	for {
		select {
		case c := <-app.Commands():
			out = append(out, c)
		default:
			return out
		}
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	next, _ := m.Update(keyMsg(key))
	return next.(Model)
}

func TestResizeDispatchesPageLimits(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)

	if m.width != 100 || m.height != 40 {
		t.Fatalf("size = %dx%d, want 100x40", m.width, m.height)
	}
	cmds := drain(m.app)
	if len(cmds) != 1 {
		t.Fatalf("dispatched %d commands, want 1", len(cmds))
	}
	lim, ok := cmds[0].(state.UpdatePageLimits)
	if !ok {
		t.Fatalf("dispatched %T, want UpdatePageLimits", cmds[0])
	}
	if lim.TrackLimit != 30 || lim.ListLimit != 28 {
		t.Errorf("limits = %d/%d, want 30/28", lim.TrackLimit, lim.ListLimit)
	}
}

func TestTickQueuesDuePolls(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(Model)

	var sawPlayback, sawDevices bool
	for _, c := range drain(m.app) {
		switch c.(type) {
		case state.FetchPlaybackState:
			sawPlayback = true
		case state.FetchDevices:
			sawDevices = true
		}
	}
	if !sawPlayback || !sawDevices {
		t.Errorf("playback=%v devices=%v, want both polls on the first tick", sawPlayback, sawDevices)
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(keyMsg("q"))
	m = next.(Model)

	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("quit returned %T, want tea.QuitMsg", cmd())
	}
	// The channel is closed; a late dispatch must not panic.
	m.app.Dispatch(state.FetchDevices{})
}

func TestSearchKeyOpensInput(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "/")

	if got := m.app.CurrentRoute().ID; got != nav.RouteSearch {
		t.Fatalf("route = %v, want RouteSearch", got)
	}
	if got := m.app.ActiveBlock(); got != nav.BlockSearchInput {
		t.Fatalf("active block = %v, want BlockSearchInput", got)
	}
	if !m.input.Focused() {
		t.Error("text input not focused")
	}
}

func TestSearchSubmitDispatchesQuery(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "/")
	drain(m.app)

	for _, r := range "abba" {
		m = press(t, m, string(r))
	}
	m = press(t, m, "enter")

	var got *state.FetchSearchResults
	for _, c := range drain(m.app) {
		if s, ok := c.(state.FetchSearchResults); ok {
			got = &s
		}
	}
	if got == nil {
		t.Fatal("no FetchSearchResults dispatched")
	}
	if got.Query != "abba" {
		t.Errorf("query = %q, want %q", got.Query, "abba")
	}

	m.app.Lock()
	q := m.app.SearchQuadrant
	m.app.Unlock()
	if q != focus.SearchSongs {
		t.Errorf("quadrant = %v, want SearchSongs", q)
	}
	if got := m.app.ActiveBlock(); got != nav.BlockSearchResults {
		t.Errorf("active block = %v, want BlockSearchResults", got)
	}
}

func TestToggleDispatchesPlay(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, " ")

	cmds := drain(m.app)
	if len(cmds) != 1 {
		t.Fatalf("dispatched %d commands, want 1", len(cmds))
	}
	if _, ok := cmds[0].(state.StartPlayback); !ok {
		t.Fatalf("dispatched %T, want StartPlayback", cmds[0])
	}

	// Inside the cooldown the second press is swallowed.
	m = press(t, m, " ")
	if extra := drain(m.app); len(extra) != 0 {
		t.Errorf("cooldown leaked %d commands", len(extra))
	}
}

func TestIdleExitSwallowsKey(t *testing.T) {
	m := newTestModel(t)
	cfg := m.cfg.Behavior
	m.app.Tick(time.Now().Add(2*cfg.IdleTimeout.Duration),
		cfg.PlaybackPollInterval.Duration,
		cfg.DevicePollInterval.Duration,
		cfg.IdleTimeout.Duration)
	if !m.app.IsIdle() {
		t.Fatal("app did not enter idle")
	}
	drain(m.app)

	m = press(t, m, "n")
	if m.app.IsIdle() {
		t.Error("key did not end idle mode")
	}
	for _, c := range drain(m.app) {
		if _, ok := c.(state.NextTrack); ok {
			t.Error("idle-ending key leaked through to the shortcut table")
		}
	}
}

func TestEscapeOnAnalysisKeepsScreen(t *testing.T) {
	m := newTestModel(t)
	m.app.ApplyPlaybackState(&remote.PlaybackState{
		IsPlaying: true,
		Item:      &remote.Track{ID: "t1", Name: "song", DurationMS: 200000},
	}, time.Now())

	m = press(t, m, "v")
	if got := m.app.CurrentRoute().ID; got != nav.RouteAnalysis {
		t.Fatalf("route = %v, want RouteAnalysis", got)
	}

	m = press(t, m, "esc")
	if got := m.app.CurrentRoute().ID; got != nav.RouteAnalysis {
		t.Errorf("escape left the analysis screen, route = %v", got)
	}
	if got := m.app.ActiveBlock(); got != nav.BlockEmpty {
		t.Errorf("active block = %v, want BlockEmpty", got)
	}
}

func TestDeviceOverlayFilterAndTransfer(t *testing.T) {
	m := newTestModel(t)
	m.app.ApplyDevices([]remote.Device{
		{ID: "d1", Name: "Kitchen"},
		{ID: "d2", Name: "Office"},
	})

	m = press(t, m, "d")
	if got := m.app.CurrentRoute().ID; got != nav.RouteSelectedDevice {
		t.Fatalf("route = %v, want RouteSelectedDevice", got)
	}
	drain(m.app)

	for _, r := range "kit" {
		m = press(t, m, string(r))
	}
	devices := m.filteredDevices()
	if len(devices) != 1 || devices[0].ID != "d1" {
		t.Fatalf("filter %q matched %v, want just Kitchen", m.deviceFilter, devices)
	}

	m = press(t, m, "enter")
	var transferred string
	for _, c := range drain(m.app) {
		if tp, ok := c.(state.TransferPlayback); ok {
			transferred = tp.DeviceID
		}
	}
	if transferred != "d1" {
		t.Errorf("transferred to %q, want d1", transferred)
	}
	if got := m.app.CurrentRoute().ID; got != nav.RouteHome {
		t.Errorf("route after transfer = %v, want RouteHome", got)
	}
}

func TestViewRendersBreadcrumbAndLibrary(t *testing.T) {
	m := newTestModel(t)
	out := m.View()
	if !strings.Contains(out, "Home") {
		t.Error("view missing breadcrumb")
	}
	if !strings.Contains(out, "Liked Songs") {
		t.Error("view missing library section")
	}
}

func TestViewIdleShowsCover(t *testing.T) {
	m := newTestModel(t)
	cfg := m.cfg.Behavior
	m.app.Tick(time.Now().Add(2*cfg.IdleTimeout.Duration),
		cfg.PlaybackPollInterval.Duration,
		cfg.DevicePollInterval.Duration,
		cfg.IdleTimeout.Duration)
	m.app.ApplyCover("http://img/big", "BIGCOVER", true)

	if out := m.View(); !strings.Contains(out, "BIGCOVER") {
		t.Error("idle view missing the high resolution cover")
	}
}

func TestHomeEnterLibrarySection(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "down") // Recently Played -> Liked Songs
	m = press(t, m, "enter")

	if got := m.app.CurrentRoute().ID; got != nav.RouteTrackTable {
		t.Fatalf("route = %v, want RouteTrackTable", got)
	}
	m.app.Lock()
	title := m.app.TableTitle
	m.app.Unlock()
	if title != "Liked Songs" {
		t.Errorf("table title = %q, want Liked Songs", title)
	}
	var saw bool
	for _, c := range drain(m.app) {
		if _, ok := c.(state.FetchSavedTracks); ok {
			saw = true
		}
	}
	if !saw {
		t.Error("no FetchSavedTracks dispatched")
	}
}

func TestUnfollowPlaylistDialog(t *testing.T) {
	m := newTestModel(t)
	m.app.ApplyPlaylists(m.app.NextSeq(state.ScreenPlaylists), remote.Page[remote.Playlist]{
		Items: []remote.Playlist{{ID: "p1", Name: "mix", URI: "spotify:playlist:p1"}},
		Total: 1,
	})

	// Hover the playlist block, then ask for the unfollow confirmation.
	next, _ := m.Update(keyMsg("l"))
	m = next.(Model)
	m = press(t, m, "D")

	if got := m.app.CurrentRoute().ID; got != nav.RouteDialog {
		t.Fatalf("route = %v, want RouteDialog", got)
	}
	drain(m.app)

	m = press(t, m, "y")
	var saw bool
	for _, c := range drain(m.app) {
		if u, ok := c.(state.UnfollowPlaylist); ok && u.PlaylistID == "p1" {
			saw = true
		}
	}
	if !saw {
		t.Error("accepting the dialog did not dispatch UnfollowPlaylist")
	}
	if got := m.app.CurrentRoute().ID; got != nav.RouteHome {
		t.Errorf("route after accept = %v, want RouteHome", got)
	}
}

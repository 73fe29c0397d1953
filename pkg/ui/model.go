// Package ui is the render loop: a bubbletea model multiplexing key, tick
// and resize events over the shared state aggregate, and one view function
// per screen.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/strum/pkg/art"
	"gitlab.com/tinyland/lab/strum/pkg/config"
	"gitlab.com/tinyland/lab/strum/pkg/focus"
	"gitlab.com/tinyland/lab/strum/pkg/state"
)

// TickMsg is the render-loop heartbeat.
type TickMsg time.Time

// RefreshMsg is sent by the worker after a write-back so the screen redraws
// without waiting for the next tick.
type RefreshMsg struct{}

// Model is the bubbletea model. Everything the worker also touches lives in
// the aggregate; the model itself only owns render-thread state such as the
// text input buffer and per-quadrant cursors.
type Model struct {
	app    *state.App
	cfg    *config.Config
	art    *art.Manager
	styles Styles

	input        textinput.Model
	deviceFilter string

	libCursor    int
	plCursor     int
	searchCursor map[focus.SearchBlock]int
	artistCursor map[focus.ArtistSection]int

	width  int
	height int

	showHelp bool
}

// New builds the model. artm may be nil when cover art is disabled.
func New(app *state.App, cfg *config.Config, artm *art.Manager) Model {
	ti := textinput.New()
	ti.Placeholder = "search"
	ti.CharLimit = 128
	ti.Width = 40

	return Model{
		app:          app,
		cfg:          cfg,
		art:          artm,
		styles:       newStyles(cfg.Theme),
		input:        ti,
		searchCursor: make(map[focus.SearchBlock]int),
		artistCursor: make(map[focus.ArtistSection]int),
	}
}

// Init fires the first heartbeat and the startup fetches.
func (m Model) Init() tea.Cmd {
	m.dispatchStartup()
	return tea.Batch(m.tickCmd(), textinput.Blink)
}

func (m Model) tickCmd() tea.Cmd {
	rate := m.cfg.Behavior.TickRate.Duration
	if rate <= 0 {
		rate = 250 * time.Millisecond
	}
	return tea.Tick(rate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// dispatchStartup queues the fetches every session begins with.
func (m Model) dispatchStartup() {
	m.app.Dispatch(state.FetchCurrentUser{})
	m.app.Dispatch(state.FetchPlaylists{
		Seq:   m.app.NextSeq(state.ScreenPlaylists),
		Limit: m.listLimit(),
	})
	m.app.Dispatch(state.FetchPlaybackState{})
	m.app.Dispatch(state.FetchDevices{})
}

// trackLimit is how many track rows fit the current terminal height.
func (m Model) trackLimit() int {
	n := m.height - 10
	if n < 5 {
		n = 20
	}
	return n
}

// listLimit is how many list rows fit the sidebar.
func (m Model) listLimit() int {
	n := m.height - 12
	if n < 5 {
		n = 20
	}
	return n
}

// Package focus tracks which UI component receives input and which one is
// highlighted for navigation. At most one component is focused and at most
// one is hovered at any time; focusing a component also hovers it.
package focus

// SearchBlock names one quadrant of the search-result grid.
type SearchBlock int

const (
	SearchNone SearchBlock = iota
	SearchSongs
	SearchAlbums
	SearchArtists
	SearchPlaylists
	SearchShows
)

// ArtistSection names one sub-block of the artist detail screen.
type ArtistSection int

const (
	ArtistNone ArtistSection = iota
	ArtistTopTracks
	ArtistAlbums
	ArtistRelated
)

// Kind is the top-level component discriminator.
type Kind int

const (
	KindEmpty Kind = iota
	KindLibrary
	KindPlaylists
	KindSearchInput
	KindSearchResults
	KindArtist
	KindTrackTable
	KindEpisodeTable
	KindAlbumList
	KindAlbumTracks
	KindRecentlyPlayed
	KindArtists
	KindPodcasts
	KindHome
	KindSelectDevice
	KindPlayBar
	KindBasicView
	KindLogView
	KindAnalysis
	KindDialog
)

// ComponentID identifies a focusable UI region. Parameterized regions
// (search-result quadrants, artist sub-blocks) carry their sub-identity in
// the corresponding field so one focus slot covers the whole family. The
// struct is comparable, which is what the Manager relies on.
type ComponentID struct {
	Kind    Kind
	Search  SearchBlock
	Section ArtistSection
}

// Convenience constructors for the common components.
var (
	Empty          = ComponentID{Kind: KindEmpty}
	Library        = ComponentID{Kind: KindLibrary}
	Playlists      = ComponentID{Kind: KindPlaylists}
	SearchInput    = ComponentID{Kind: KindSearchInput}
	TrackTable     = ComponentID{Kind: KindTrackTable}
	EpisodeTable   = ComponentID{Kind: KindEpisodeTable}
	AlbumList      = ComponentID{Kind: KindAlbumList}
	AlbumTracks    = ComponentID{Kind: KindAlbumTracks}
	RecentlyPlayed = ComponentID{Kind: KindRecentlyPlayed}
	Artists        = ComponentID{Kind: KindArtists}
	Podcasts       = ComponentID{Kind: KindPodcasts}
	Home           = ComponentID{Kind: KindHome}
	SelectDevice   = ComponentID{Kind: KindSelectDevice}
	PlayBar        = ComponentID{Kind: KindPlayBar}
	BasicView      = ComponentID{Kind: KindBasicView}
	LogView        = ComponentID{Kind: KindLogView}
	Analysis       = ComponentID{Kind: KindAnalysis}
	Dialog         = ComponentID{Kind: KindDialog}
)

// SearchResults returns the ComponentID for one search-result quadrant.
func SearchResults(b SearchBlock) ComponentID {
	return ComponentID{Kind: KindSearchResults, Search: b}
}

// Artist returns the ComponentID for one artist-screen sub-block.
func Artist(s ArtistSection) ComponentID {
	return ComponentID{Kind: KindArtist, Section: s}
}

// State reports how a component relates to the current focus/hover pair.
type State int

const (
	Unfocused State = iota
	Hovered
	Focused
)

func (s State) String() string {
	switch s {
	case Focused:
		return "focused"
	case Hovered:
		return "hovered"
	default:
		return "unfocused"
	}
}

// Manager holds the focused/hovered pair. It is pure state: no I/O, no
// failure modes. Callers serialize access (the state aggregate's lock).
type Manager struct {
	focused *ComponentID
	hovered *ComponentID
}

// NewManager returns a Manager with nothing focused or hovered.
func NewManager() *Manager {
	return &Manager{}
}

// SetFocus focuses c. Focusing always hovers the same component.
func (m *Manager) SetFocus(c ComponentID) {
	cc := c
	m.focused = &cc
	hc := c
	m.hovered = &hc
}

// SetHover hovers c without touching focus.
func (m *Manager) SetHover(c ComponentID) {
	cc := c
	m.hovered = &cc
}

// ClearFocus drops focus but keeps hover.
func (m *Manager) ClearFocus() {
	m.focused = nil
}

// ClearHover drops hover.
func (m *Manager) ClearHover() {
	m.hovered = nil
}

// ClearAll drops both focus and hover.
func (m *Manager) ClearAll() {
	m.focused = nil
	m.hovered = nil
}

// StateOf reports the state of c. Focused takes strict precedence over
// Hovered, so a component is never reported as both.
func (m *Manager) StateOf(c ComponentID) State {
	if m.focused != nil && *m.focused == c {
		return Focused
	}
	if m.hovered != nil && *m.hovered == c {
		return Hovered
	}
	return Unfocused
}

// IsFocused reports whether c is the focused component.
func (m *Manager) IsFocused(c ComponentID) bool {
	return m.focused != nil && *m.focused == c
}

// IsHovered reports whether c is the hovered component.
func (m *Manager) IsHovered(c ComponentID) bool {
	return m.hovered != nil && *m.hovered == c
}

// Focused returns the focused component, if any.
func (m *Manager) Focused() (ComponentID, bool) {
	if m.focused == nil {
		return ComponentID{}, false
	}
	return *m.focused, true
}

// Hovered returns the hovered component, if any.
func (m *Manager) Hovered() (ComponentID, bool) {
	if m.hovered == nil {
		return ComponentID{}, false
	}
	return *m.hovered, true
}

// NavigateTo is arrow-key movement: it changes where attention could land,
// not where it commits. Alias for SetHover.
func (m *Manager) NavigateTo(c ComponentID) {
	m.SetHover(c)
}

// EnterComponent is a direct shortcut: it commits focus immediately.
// Alias for SetFocus.
func (m *Manager) EnterComponent(c ComponentID) {
	m.SetFocus(c)
}

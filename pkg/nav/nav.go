// Package nav holds the screen routing model: which screen is shown, which
// block on it is active or hovered, and the history stack behind the back key.
package nav

// RouteID names a screen.
type RouteID int

const (
	RouteHome RouteID = iota
	RouteSearch
	RouteTrackTable
	RouteAlbumTracks
	RouteAlbumList
	RouteArtist
	RouteArtists
	RoutePodcasts
	RoutePodcastEpisodes
	RouteRecentlyPlayed
	RouteSelectedDevice
	RouteAnalysis
	RouteBasicView
	RouteLogStream
	RouteDialog
	RouteError
)

func (r RouteID) String() string {
	switch r {
	case RouteHome:
		return "Home"
	case RouteSearch:
		return "Search"
	case RouteTrackTable:
		return "Tracks"
	case RouteAlbumTracks:
		return "Album"
	case RouteAlbumList:
		return "Albums"
	case RouteArtist:
		return "Artist"
	case RouteArtists:
		return "Artists"
	case RoutePodcasts:
		return "Podcasts"
	case RoutePodcastEpisodes:
		return "Episodes"
	case RouteRecentlyPlayed:
		return "Recently Played"
	case RouteSelectedDevice:
		return "Devices"
	case RouteAnalysis:
		return "Analysis"
	case RouteBasicView:
		return "Now Playing"
	case RouteLogStream:
		return "Log"
	case RouteDialog:
		return "Confirm"
	case RouteError:
		return "Error"
	default:
		return "Unknown"
	}
}

// BlockID names an interactive region on a screen. It mirrors the focusable
// components the render layer draws borders around.
type BlockID int

const (
	BlockEmpty BlockID = iota
	BlockLibrary
	BlockPlaylists
	BlockSearchInput
	BlockSearchResults
	BlockArtist
	BlockTrackTable
	BlockEpisodeTable
	BlockAlbumList
	BlockAlbumTracks
	BlockRecentlyPlayed
	BlockArtists
	BlockPodcasts
	BlockHome
	BlockSelectDevice
	BlockPlayBar
	BlockBasicView
	BlockLogStream
	BlockAnalysis
	BlockDialog
)

// Route is one history frame: a screen plus which block on it is committed
// (active) and which is merely highlighted (hovered). Label, when set, names
// the screen's subject (a playlist or album title) in the breadcrumb instead
// of the generic route name.
type Route struct {
	ID      RouteID
	Active  BlockID
	Hovered BlockID
	Label   string
}

// rootRoute is the sentinel bottom frame. The stack never shrinks past it.
var rootRoute = Route{ID: RouteHome, Active: BlockEmpty, Hovered: BlockLibrary}

// Root returns a copy of the sentinel root frame.
func Root() Route { return rootRoute }

// Stack is the navigation history. It always contains at least the root
// frame, so Current never fails. Not safe for concurrent use on its own;
// the state aggregate's lock covers it.
type Stack struct {
	frames []Route
}

// NewStack returns a stack holding only the root frame.
func NewStack() *Stack {
	return &Stack{frames: []Route{rootRoute}}
}

// Current returns a pointer to the top frame. The pointer stays valid until
// the next push, pop, or clear.
func (s *Stack) Current() *Route {
	return &s.frames[len(s.frames)-1]
}

// Len reports the number of frames including the root.
func (s *Stack) Len() int { return len(s.frames) }

// Push appends r unless the top frame already has the same route id.
// Pushing the current screen again is a no-op so key repeat cannot grow
// the stack.
func (s *Stack) Push(r Route) {
	if s.Current().ID == r.ID {
		return
	}
	s.frames = append(s.frames, r)
}

// Pop removes the top frame and returns it. At the root it is a no-op and
// returns the root with ok=false.
func (s *Stack) Pop() (Route, bool) {
	if len(s.frames) <= 1 {
		return s.frames[0], false
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top, true
}

// Clear truncates the history back to the root frame.
func (s *Stack) Clear() {
	s.frames = s.frames[:1]
	s.frames[0] = rootRoute
}

// SetCurrentState rewrites the active and/or hovered block of the top frame
// in place. Each argument is applied independently; nil leaves the field
// untouched. No frame is pushed.
func (s *Stack) SetCurrentState(active, hovered *BlockID) {
	cur := s.Current()
	if active != nil {
		cur.Active = *active
	}
	if hovered != nil {
		cur.Hovered = *hovered
	}
}

// Frames returns a copy of the history, bottom first.
func (s *Stack) Frames() []Route {
	out := make([]Route, len(s.frames))
	copy(out, s.frames)
	return out
}

// Breadcrumb renders the history as "Home > Albums > Album" style trail.
// Frames with a Label show it in place of the route name.
func (s *Stack) Breadcrumb() string {
	var b []byte
	for i, f := range s.frames {
		if i > 0 {
			b = append(b, " > "...)
		}
		if f.Label != "" {
			b = append(b, f.Label...)
		} else {
			b = append(b, f.ID.String()...)
		}
	}
	return string(b)
}

// BlockPtr is a small helper for SetCurrentState call sites.
func BlockPtr(b BlockID) *BlockID { return &b }

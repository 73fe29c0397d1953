package state

import (
	"errors"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/strum/pkg/focus"
	"gitlab.com/tinyland/lab/strum/pkg/logring"
	"gitlab.com/tinyland/lab/strum/pkg/nav"
	"gitlab.com/tinyland/lab/strum/pkg/remote"
)

func newApp() *App { return New(nil, 8, 0) }

func TestNewSizesEventRing(t *testing.T) {
	a := New(nil, 8, 2)
	a.Ring.Info("one")
	a.Ring.Info("two")
	a.Ring.Info("three")
	if got := a.Ring.Len(); got != 2 {
		t.Fatalf("ring holds %d entries, want 2", got)
	}

	// Zero falls back to the package default.
	b := New(nil, 8, 0)
	for i := 0; i < logring.DefaultCapacity+5; i++ {
		b.Ring.Info("entry")
	}
	if got := b.Ring.Len(); got != logring.DefaultCapacity {
		t.Fatalf("default ring holds %d entries, want %d", got, logring.DefaultCapacity)
	}
}

func TestDispatchAfterCloseIsNoOp(t *testing.T) {
	a := newApp()
	a.CloseCommands()
	// Must not panic.
	a.Dispatch(FetchDevices{})
}

func TestDispatchFullBufferDropsCommand(t *testing.T) {
	a := New(nil, 1, 0)
	a.Dispatch(FetchDevices{})
	a.Dispatch(FetchPlaybackState{}) // buffer full, dropped

	select {
	case c := <-a.Commands():
		if _, ok := c.(FetchDevices); !ok {
			t.Fatalf("got %T, want FetchDevices", c)
		}
	default:
		t.Fatal("buffered command missing")
	}
	select {
	case c := <-a.Commands():
		t.Fatalf("unexpected second command %T", c)
	default:
	}
}

func TestStaleResultDiscarded(t *testing.T) {
	a := newApp()
	seq1 := a.NextSeq(ScreenSearch)
	seq2 := a.NextSeq(ScreenSearch)

	// The newer query's response lands first.
	if !a.ApplySearchResults(seq2, "new", remote.SearchResults{}) {
		t.Fatal("current result rejected")
	}
	if a.ApplySearchResults(seq1, "old", remote.SearchResults{}) {
		t.Fatal("stale result applied")
	}
	if a.SearchQuery != "new" {
		t.Fatalf("SearchQuery = %q", a.SearchQuery)
	}
}

func TestSequenceIsPerScreen(t *testing.T) {
	a := newApp()
	s1 := a.NextSeq(ScreenSearch)
	p1 := a.NextSeq(ScreenPlaylists)
	if s1 != 1 || p1 != 1 {
		t.Fatalf("seqs = %d, %d; counters must be independent", s1, p1)
	}
}

func TestProgressInterpolation(t *testing.T) {
	a := newApp()
	now := time.Now()
	a.ApplyPlaybackState(&remote.PlaybackState{
		IsPlaying:  true,
		ProgressMS: 10000,
		Item:       &remote.Track{DurationMS: 200000},
	}, now)

	if got := a.Progress(now.Add(2 * time.Second)); got != 12000 {
		t.Fatalf("Progress = %d, want 12000", got)
	}
}

func TestProgressClampsAtDuration(t *testing.T) {
	a := newApp()
	now := time.Now()
	a.ApplyPlaybackState(&remote.PlaybackState{
		IsPlaying:  true,
		ProgressMS: 199000,
		Item:       &remote.Track{DurationMS: 200000},
	}, now)

	if got := a.Progress(now.Add(10 * time.Second)); got != 200000 {
		t.Fatalf("Progress = %d, want clamp at 200000", got)
	}
}

func TestProgressFrozenWhilePaused(t *testing.T) {
	a := newApp()
	now := time.Now()
	a.ApplyPlaybackState(&remote.PlaybackState{
		IsPlaying:  false,
		ProgressMS: 5000,
		Item:       &remote.Track{DurationMS: 100000},
	}, now)

	if got := a.Progress(now.Add(time.Minute)); got != 5000 {
		t.Fatalf("Progress = %d, want 5000", got)
	}
}

func TestToggleCooldown(t *testing.T) {
	a := newApp()
	now := time.Now()
	a.ApplyPlaybackState(&remote.PlaybackState{
		IsPlaying: true,
		Item:      &remote.Track{DurationMS: 100000},
	}, now)

	cmd, ok := a.TryToggle(now, 500*time.Millisecond)
	if !ok {
		t.Fatal("first toggle blocked")
	}
	if _, isPause := cmd.(PausePlayback); !isPause {
		t.Fatalf("cmd = %T, want PausePlayback", cmd)
	}
	if _, ok := a.TryToggle(now.Add(200*time.Millisecond), 500*time.Millisecond); ok {
		t.Fatal("toggle inside cooldown accepted")
	}
	if _, ok := a.TryToggle(now.Add(600*time.Millisecond), 500*time.Millisecond); !ok {
		t.Fatal("toggle after cooldown blocked")
	}
}

func TestSeekPastEndBecomesSkip(t *testing.T) {
	a := newApp()
	now := time.Now()
	a.ApplyPlaybackState(&remote.PlaybackState{
		IsPlaying:  true,
		ProgressMS: 98000,
		Item:       &remote.Track{DurationMS: 100000},
	}, now)

	cmd, ok := a.SeekBy(now, 5000)
	if !ok {
		t.Fatal("seek rejected")
	}
	if _, isNext := cmd.(NextTrack); !isNext {
		t.Fatalf("cmd = %T, want NextTrack", cmd)
	}
}

func TestSeekIsOptimistic(t *testing.T) {
	a := newApp()
	now := time.Now()
	a.ApplyPlaybackState(&remote.PlaybackState{
		IsPlaying:  true,
		ProgressMS: 10000,
		Item:       &remote.Track{DurationMS: 100000},
	}, now)

	cmd, ok := a.SeekBy(now, 5000)
	if !ok {
		t.Fatal("seek rejected")
	}
	st, isSeek := cmd.(SeekTo)
	if !isSeek || st.PositionMS != 15000 {
		t.Fatalf("cmd = %#v, want SeekTo{15000}", cmd)
	}
	// Progress bar moves before the server confirms.
	if got := a.Progress(now); got != 15000 {
		t.Fatalf("Progress = %d, want 15000", got)
	}
}

func TestPreviousRestartsAfterThreeSeconds(t *testing.T) {
	a := newApp()
	now := time.Now()
	a.ApplyPlaybackState(&remote.PlaybackState{
		IsPlaying:  true,
		ProgressMS: 4000,
		Item:       &remote.Track{DurationMS: 100000},
	}, now)

	if cmd := a.PreviousOrRestart(now); cmd != (SeekTo{PositionMS: 0}) {
		t.Fatalf("cmd = %#v, want SeekTo{0}", cmd)
	}

	a.ApplyPlaybackState(&remote.PlaybackState{
		IsPlaying:  true,
		ProgressMS: 1000,
		Item:       &remote.Track{DurationMS: 100000},
	}, now)
	if cmd := a.PreviousOrRestart(now); cmd != (PreviousTrack{}) {
		t.Fatalf("cmd = %#v, want PreviousTrack", cmd)
	}
}

func TestTickIntervals(t *testing.T) {
	a := newApp()
	now := time.Now()

	plan := a.Tick(now, 5*time.Second, 30*time.Second, 0)
	if !plan.PollPlayback || !plan.PollDevices {
		t.Fatalf("first tick plan = %+v", plan)
	}
	plan = a.Tick(now.Add(time.Second), 5*time.Second, 30*time.Second, 0)
	if plan.PollPlayback || plan.PollDevices {
		t.Fatalf("early tick plan = %+v", plan)
	}
	plan = a.Tick(now.Add(6*time.Second), 5*time.Second, 30*time.Second, 0)
	if !plan.PollPlayback || plan.PollDevices {
		t.Fatalf("5s tick plan = %+v", plan)
	}
	plan = a.Tick(now.Add(31*time.Second), 5*time.Second, 30*time.Second, 0)
	if !plan.PollDevices {
		t.Fatalf("30s tick plan = %+v", plan)
	}
}

func TestTickSkipsPlaybackPollWhileFetching(t *testing.T) {
	a := newApp()
	now := time.Now()
	if !a.BeginPlaybackPoll() {
		t.Fatal("BeginPlaybackPoll refused")
	}
	plan := a.Tick(now.Add(time.Minute), 5*time.Second, 0, 0)
	if plan.PollPlayback {
		t.Fatal("poll planned while one is in flight")
	}
}

func TestIdleEnterAndExit(t *testing.T) {
	a := newApp()
	now := time.Now()
	a.RecordActivity(now)

	plan := a.Tick(now.Add(30*time.Second), 0, 0, time.Minute)
	if plan.EnteredIdle || a.IsIdle() {
		t.Fatal("went idle early")
	}
	plan = a.Tick(now.Add(2*time.Minute), 0, 0, time.Minute)
	if !plan.EnteredIdle || !a.IsIdle() {
		t.Fatal("did not go idle")
	}
	// Idle toggling never touches the nav stack.
	if a.Nav.Len() != 1 {
		t.Fatalf("nav stack len = %d", a.Nav.Len())
	}

	if exited := a.RecordActivity(now.Add(3 * time.Minute)); !exited {
		t.Fatal("activity did not end idle")
	}
	if a.IsIdle() {
		t.Fatal("still idle after activity")
	}
}

func TestHandleErrorDowngradesExpectedFailures(t *testing.T) {
	a := newApp()
	a.HandleError(&remote.APIError{Status: 403, Message: "Premium required"})
	a.HandleError(&remote.APIError{Status: 404, Message: "No active device"})

	for _, e := range a.Ring.Entries() {
		if e.Level != logring.LevelInfo {
			t.Fatalf("expected info entries only, got %+v", e)
		}
	}
	if a.Nav.Current().ID == nav.RouteLogStream {
		t.Fatal("expected failure pulled the log screen up")
	}
}

func TestHandleErrorNavigatesToLogOnce(t *testing.T) {
	a := newApp()
	a.HandleError(errors.New("connection reset"))

	if a.Nav.Current().ID != nav.RouteLogStream {
		t.Fatalf("current route = %v, want log stream", a.Nav.Current().ID)
	}
	depth := a.Nav.Len()

	a.HandleError(errors.New("second failure"))
	if a.Nav.Len() != depth {
		t.Fatal("second error pushed the log route again")
	}
	if a.Ring.Len() != 2 {
		t.Fatalf("ring len = %d", a.Ring.Len())
	}
	if got := a.Ring.Entries()[0].Message; got != "ERROR: connection reset" {
		t.Fatalf("entry = %q", got)
	}
}

func TestEscapeDispatchTable(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(a *App)
		wantRoute nav.RouteID
		wantBlock nav.BlockID
		wantLen   int
	}{
		{
			name: "overlay pops",
			setup: func(a *App) {
				a.PushRoute(nav.Route{ID: nav.RouteSelectedDevice, Active: nav.BlockSelectDevice, Hovered: nav.BlockSelectDevice})
			},
			wantRoute: nav.RouteHome,
			wantLen:   1,
		},
		{
			name: "search grid steps out in place",
			setup: func(a *App) {
				a.PushRoute(nav.Route{ID: nav.RouteSearch, Active: nav.BlockSearchResults, Hovered: nav.BlockSearchResults})
			},
			wantRoute: nav.RouteSearch,
			wantBlock: nav.BlockEmpty,
			wantLen:   2,
		},
		{
			name: "artist blocks step out in place",
			setup: func(a *App) {
				a.PushRoute(nav.Route{ID: nav.RouteArtist, Active: nav.BlockArtist, Hovered: nav.BlockArtist})
			},
			wantRoute: nav.RouteArtist,
			wantBlock: nav.BlockEmpty,
			wantLen:   2,
		},
		{
			name: "track table steps out in place",
			setup: func(a *App) {
				a.PushRoute(nav.Route{ID: nav.RouteTrackTable, Active: nav.BlockTrackTable, Hovered: nav.BlockTrackTable})
			},
			wantRoute: nav.RouteTrackTable,
			wantBlock: nav.BlockEmpty,
			wantLen:   2,
		},
		{
			name: "default steps out in place without navigating",
			setup: func(a *App) {
				a.PushRoute(nav.Route{ID: nav.RouteAlbumList, Active: nav.BlockAlbumList, Hovered: nav.BlockAlbumList})
				a.PushRoute(nav.Route{ID: nav.RouteAlbumTracks, Active: nav.BlockAlbumTracks, Hovered: nav.BlockAlbumTracks})
			},
			wantRoute: nav.RouteAlbumTracks,
			wantBlock: nav.BlockEmpty,
			wantLen:   3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newApp()
			tt.setup(a)
			a.HandleEscape()

			cur := a.CurrentRoute()
			if cur.ID != tt.wantRoute {
				t.Fatalf("route = %v, want %v", cur.ID, tt.wantRoute)
			}
			if cur.Active != tt.wantBlock {
				t.Fatalf("active = %v, want %v", cur.Active, tt.wantBlock)
			}
			if a.Nav.Len() != tt.wantLen {
				t.Fatalf("len = %d, want %d", a.Nav.Len(), tt.wantLen)
			}
		})
	}
}

func TestBackDoublePopsThroughSearch(t *testing.T) {
	a := newApp()
	a.PushRoute(nav.Route{ID: nav.RouteAlbumList, Active: nav.BlockAlbumList, Hovered: nav.BlockAlbumList})
	a.PushRoute(nav.Route{ID: nav.RouteSearch, Active: nav.BlockSearchInput, Hovered: nav.BlockSearchInput})

	a.HandleBack()
	// Popping the search frame also pops the frame beneath it.
	if got := a.CurrentRoute().ID; got != nav.RouteHome {
		t.Fatalf("route = %v, want Home", got)
	}
}

func TestBackSinglePopOtherwise(t *testing.T) {
	a := newApp()
	a.PushRoute(nav.Route{ID: nav.RouteAlbumList, Active: nav.BlockAlbumList, Hovered: nav.BlockAlbumList})
	a.PushRoute(nav.Route{ID: nav.RouteAlbumTracks, Active: nav.BlockAlbumTracks, Hovered: nav.BlockAlbumTracks})

	a.HandleBack()
	if got := a.CurrentRoute().ID; got != nav.RouteAlbumList {
		t.Fatalf("route = %v, want AlbumList", got)
	}
}

func TestFocusTracksBlocks(t *testing.T) {
	a := newApp()
	a.PushRoute(nav.Route{ID: nav.RouteTrackTable, Active: nav.BlockTrackTable, Hovered: nav.BlockTrackTable})

	if got := a.Focus.StateOf(focus.TrackTable); got != focus.Focused {
		t.Fatalf("focus state = %v, want Focused", got)
	}

	a.SetBlocks(nav.BlockPtr(nav.BlockEmpty), nil)
	if got := a.Focus.StateOf(focus.TrackTable); got != focus.Hovered {
		t.Fatalf("focus state = %v, want Hovered", got)
	}
}

func TestPagesReuseAndFetch(t *testing.T) {
	var p Pages[int]
	p.Add([]int{1, 2}, 6)
	p.Add([]int{3, 4}, 6)

	p.Prev()
	if got := p.Current(); len(got) != 2 || got[0] != 1 {
		t.Fatalf("Current after Prev = %v", got)
	}
	// Stored page forward: no fetch.
	if p.Next() {
		t.Fatal("Next wanted a fetch for a stored page")
	}
	// Past the end: fetch needed, index unchanged.
	if !p.Next() {
		t.Fatal("Next past stored pages must request a fetch")
	}
	if got := p.Current(); got[0] != 3 {
		t.Fatalf("index moved on fetch request: %v", got)
	}
	if off := p.NextOffset(2); off != 4 {
		t.Fatalf("NextOffset = %d, want 4", off)
	}
	if p.Exhausted(2) {
		t.Fatal("Exhausted with 4 of 6 items stored")
	}
}

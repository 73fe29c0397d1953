package state

import (
	"time"

	"gitlab.com/tinyland/lab/strum/pkg/remote"
)

// BeginPlaybackPoll marks a poll in flight so overlapping ticks do not pile
// requests up. Returns false when one is already running.
func (a *App) BeginPlaybackPoll() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Playback.IsFetching {
		return false
	}
	a.Playback.IsFetching = true
	return true
}

// ApplyPlaybackState stores a confirmed player snapshot. A pending seek the
// server has not caught up with yet is kept applied on top of the snapshot;
// once the confirmed progress passes the pending target, the pending seek
// is cleared.
func (a *App) ApplyPlaybackState(ps *remote.PlaybackState, now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Playback.IsFetching = false
	a.Playback.State = ps
	a.Playback.FetchedAt = now
	if ps == nil {
		a.Playback.PendingSeekMS = nil
		return
	}
	if p := a.Playback.PendingSeekMS; p != nil {
		if ps.ProgressMS >= *p {
			a.Playback.PendingSeekMS = nil
		} else {
			ps.ProgressMS = *p
		}
	}
}

// FailPlaybackPoll clears the in-flight flag after a failed poll.
func (a *App) FailPlaybackPoll() {
	a.mu.Lock()
	a.Playback.IsFetching = false
	a.mu.Unlock()
}

// Progress returns the interpolated play position at now: the last
// confirmed position plus wall-clock elapsed while playing, clamped to the
// track duration.
func (a *App) Progress(now time.Time) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.progressLocked(now)
}

func (a *App) progressLocked(now time.Time) int {
	ps := a.Playback.State
	if ps == nil || ps.Item == nil {
		return 0
	}
	p := ps.ProgressMS
	if ps.IsPlaying {
		p += int(now.Sub(a.Playback.FetchedAt) / time.Millisecond)
	}
	if p > ps.Item.DurationMS {
		p = ps.Item.DurationMS
	}
	return p
}

// TryToggle checks the play/pause cooldown. Inside the window it returns
// false and the caller drops the keypress; outside it stamps the toggle and
// returns the command to dispatch.
func (a *App) TryToggle(now time.Time, cooldown time.Duration) (Command, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if now.Sub(a.Playback.LastToggleAt) < cooldown {
		return nil, false
	}
	a.Playback.LastToggleAt = now
	if ps := a.Playback.State; ps != nil && ps.IsPlaying {
		return PausePlayback{}, true
	}
	return StartPlayback{}, true
}

// SeekBy computes an optimistic relative seek. The target is recorded as
// pending so the progress bar moves immediately; a target past the end of
// the track becomes a skip instead.
func (a *App) SeekBy(now time.Time, deltaMS int) (Command, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ps := a.Playback.State
	if ps == nil || ps.Item == nil {
		return nil, false
	}
	target := a.progressLocked(now) + deltaMS
	if target < 0 {
		target = 0
	}
	if target >= ps.Item.DurationMS {
		a.Playback.PendingSeekMS = nil
		return NextTrack{}, true
	}
	t := target
	a.Playback.PendingSeekMS = &t
	ps.ProgressMS = target
	a.Playback.FetchedAt = now
	return SeekTo{PositionMS: target}, true
}

// PreviousOrRestart implements the previous-track key: more than three
// seconds into a track it restarts the track, otherwise it skips back.
func (a *App) PreviousOrRestart(now time.Time) Command {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.progressLocked(now) >= 3000 {
		zero := 0
		a.Playback.PendingSeekMS = &zero
		if ps := a.Playback.State; ps != nil {
			ps.ProgressMS = 0
			a.Playback.FetchedAt = now
		}
		return SeekTo{PositionMS: 0}
	}
	return PreviousTrack{}
}

// VolumeStep returns the SetVolume command for one increment up or down,
// clamped to [0,100]. False when no device is known.
func (a *App) VolumeStep(increment int) (Command, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ps := a.Playback.State
	if ps == nil {
		return nil, false
	}
	v := ps.Device.VolumePercent + increment
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	ps.Device.VolumePercent = v
	return SetVolume{Percent: v}, true
}

// CycleRepeat returns the SetRepeat command for the next mode in
// off -> context -> track -> off.
func (a *App) CycleRepeat() Command {
	a.mu.Lock()
	defer a.mu.Unlock()
	cur := "off"
	if ps := a.Playback.State; ps != nil {
		cur = ps.RepeatState
	}
	next := "off"
	switch cur {
	case "off":
		next = "context"
	case "context":
		next = "track"
	}
	return SetRepeat{State: next}
}

// ToggleShuffle returns the SetShuffle command for the opposite of the
// current state.
func (a *App) ToggleShuffle() Command {
	a.mu.Lock()
	defer a.mu.Unlock()
	on := true
	if ps := a.Playback.State; ps != nil {
		on = !ps.ShuffleState
	}
	return SetShuffle{On: on}
}

// NowPlaying returns the current track, nil when nothing plays.
func (a *App) NowPlaying() *remote.Track {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Playback.State == nil {
		return nil
	}
	return a.Playback.State.Item
}

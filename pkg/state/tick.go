package state

import "time"

// TickPlan is what one heartbeat decided, computed under a single lock
// acquisition so the timers cannot race each other.
type TickPlan struct {
	PollPlayback bool
	PollDevices  bool
	EnteredIdle  bool
}

// Tick advances the coarse timers. The playback and device polls run on
// independent intervals; the idle check compares the last interaction
// against the threshold. Zero intervals disable the matching poll.
func (a *App) Tick(now time.Time, playbackEvery, devicesEvery, idleAfter time.Duration) TickPlan {
	a.mu.Lock()
	defer a.mu.Unlock()

	var plan TickPlan
	if playbackEvery > 0 && now.Sub(a.lastPlaybackPoll) >= playbackEvery && !a.Playback.IsFetching {
		a.lastPlaybackPoll = now
		plan.PollPlayback = true
	}
	if devicesEvery > 0 && now.Sub(a.lastDevicePoll) >= devicesEvery {
		a.lastDevicePoll = now
		plan.PollDevices = true
	}
	if idleAfter > 0 && !a.isIdle && now.Sub(a.lastInteraction) >= idleAfter {
		a.isIdle = true
		plan.EnteredIdle = true
	}
	return plan
}

// RecordActivity resets the idle clock on user input. Returns true when the
// input ended an idle period, so the caller can restore the normal view and
// refetch the standard-resolution cover.
func (a *App) RecordActivity(now time.Time) (exitedIdle bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastInteraction = now
	if a.isIdle {
		a.isIdle = false
		return true
	}
	return false
}

// IsIdle reports whether the full-screen cover view is active.
func (a *App) IsIdle() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.isIdle
}

// SetTokenExpiry records when the session token lapses and clears the
// refresh-in-flight flag. The worker calls it after a successful refresh.
func (a *App) SetTokenExpiry(at time.Time) {
	a.mu.Lock()
	a.tokenExpiresAt = at
	a.tokenRefreshing = false
	a.mu.Unlock()
}

// NeedTokenRefresh reports, at most once per expiry, that the token is
// about to lapse. The margin keeps a request from racing the deadline.
func (a *App) NeedTokenRefresh(now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tokenRefreshing || a.tokenExpiresAt.IsZero() {
		return false
	}
	if now.Before(a.tokenExpiresAt.Add(-time.Minute)) {
		return false
	}
	a.tokenRefreshing = true
	return true
}

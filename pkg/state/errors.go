package state

import (
	"gitlab.com/tinyland/lab/strum/pkg/logring"
	"gitlab.com/tinyland/lab/strum/pkg/nav"
	"gitlab.com/tinyland/lab/strum/pkg/remote"
)

// HandleError routes a worker error into the in-app log. Failures the
// service produces in normal use (missing subscription tier, no active
// device) become informational lines. Anything else is an ERROR entry and
// pulls the log screen up so the user sees it, unless they are already
// looking at it.
func (a *App) HandleError(err error) {
	if err == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.logd.Error("worker error", "err", err)

	switch {
	case remote.IsPremiumRequired(err):
		a.Ring.Info("playback control requires a premium subscription")
		return
	case remote.IsNoActiveDevice(err):
		a.Ring.Info("no active device: open the device list and pick one")
		return
	}

	a.Ring.Push(logring.LevelError, "ERROR: "+err.Error())
	if a.Nav.Current().ID != nav.RouteLogStream {
		a.Nav.Push(nav.Route{
			ID:      nav.RouteLogStream,
			Active:  nav.BlockLogStream,
			Hovered: nav.BlockLogStream,
		})
		a.syncFocusLocked()
	}
}

// Info drops an informational line into the in-app log.
func (a *App) Info(msg string) {
	a.mu.Lock()
	a.Ring.Info(msg)
	a.mu.Unlock()
}

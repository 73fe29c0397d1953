// Package logring keeps the bounded in-app event log shown on the log
// screen. It is distinct from the on-disk diagnostic log: entries here are
// user-facing one-liners.
package logring

import "time"

// Level tags an entry for rendering.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Entry is one line in the ring.
type Entry struct {
	At      time.Time
	Level   Level
	Message string
}

// DefaultCapacity bounds the ring when the caller passes zero.
const DefaultCapacity = 100

// Ring is a bounded FIFO of log entries with a selection cursor. When an
// entry is evicted the cursor indices shift down with the entries they point
// at, so a selection keeps tracking the same line. All clamping happens
// inside Push; callers only move the cursor through Select/Scroll.
type Ring struct {
	capacity int
	entries  []Entry

	// Selected is the index of the highlighted entry, Scroll the index of
	// the first visible entry. Both index into entries.
	Selected int
	Scroll   int
}

// New returns a ring bounded at capacity entries (DefaultCapacity if <= 0).
func New(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{capacity: capacity}
}

// Push appends an entry, evicting the oldest when full. Eviction shifts the
// cursor down one so it stays on the same entry, clamped at zero.
func (r *Ring) Push(level Level, msg string) {
	if len(r.entries) >= r.capacity {
		r.entries = r.entries[1:]
		if r.Selected > 0 {
			r.Selected--
		}
		if r.Scroll > 0 {
			r.Scroll--
		}
	}
	r.entries = append(r.entries, Entry{At: time.Now(), Level: level, Message: msg})
	r.clamp()
}

// Info pushes an informational entry.
func (r *Ring) Info(msg string) { r.Push(LevelInfo, msg) }

// Error pushes an error entry.
func (r *Ring) Error(msg string) { r.Push(LevelError, msg) }

// Entries returns the live slice, oldest first. Callers must not mutate it.
func (r *Ring) Entries() []Entry { return r.entries }

// Len reports the number of stored entries.
func (r *Ring) Len() int { return len(r.entries) }

// Select moves the selection cursor to i, clamped to the valid range.
func (r *Ring) Select(i int) {
	r.Selected = i
	r.clamp()
}

// ScrollTo moves the scroll anchor to i, clamped to the valid range.
func (r *Ring) ScrollTo(i int) {
	r.Scroll = i
	r.clamp()
}

func (r *Ring) clamp() {
	max := len(r.entries) - 1
	if max < 0 {
		max = 0
	}
	if r.Selected > max {
		r.Selected = max
	}
	if r.Selected < 0 {
		r.Selected = 0
	}
	if r.Scroll > max {
		r.Scroll = max
	}
	if r.Scroll < 0 {
		r.Scroll = 0
	}
}

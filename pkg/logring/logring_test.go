package logring

import (
	"fmt"
	"testing"
)

func TestPushBoundsCapacity(t *testing.T) {
	r := New(3)
	for i := 0; i < 5; i++ {
		r.Info(fmt.Sprintf("entry %d", i))
	}
	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
	if got := r.Entries()[0].Message; got != "entry 2" {
		t.Fatalf("oldest = %q, want %q", got, "entry 2")
	}
}

func TestEvictionShiftsCursorWithEntries(t *testing.T) {
	// Fill a full-size ring, select the last entry, then push one more.
	// The selection must follow the entry it pointed at: index 100 -> 99.
	r := New(DefaultCapacity)
	for i := 0; i < DefaultCapacity; i++ {
		r.Info(fmt.Sprintf("entry %d", i))
	}
	r.Select(DefaultCapacity - 1)
	r.ScrollTo(DefaultCapacity - 1)

	r.Info("entry 100")

	if r.Selected != DefaultCapacity-2 {
		t.Fatalf("Selected = %d, want %d", r.Selected, DefaultCapacity-2)
	}
	if r.Scroll != DefaultCapacity-2 {
		t.Fatalf("Scroll = %d, want %d", r.Scroll, DefaultCapacity-2)
	}
	if got := r.Entries()[r.Selected].Message; got != "entry 99" {
		t.Fatalf("selected entry = %q, want %q", got, "entry 99")
	}
}

func TestCursorClampsAtZero(t *testing.T) {
	r := New(2)
	r.Info("a")
	r.Select(0)
	r.Info("b")
	r.Info("c") // evicts "a"; selected stays 0

	if r.Selected != 0 {
		t.Fatalf("Selected = %d, want 0", r.Selected)
	}
}

func TestSelectClampsToRange(t *testing.T) {
	r := New(10)
	r.Info("only")
	r.Select(42)
	if r.Selected != 0 {
		t.Fatalf("Selected = %d, want 0", r.Selected)
	}
	r.Select(-3)
	if r.Selected != 0 {
		t.Fatalf("Selected = %d, want 0", r.Selected)
	}
}

func TestLevels(t *testing.T) {
	r := New(10)
	r.Info("ok")
	r.Error("boom")

	es := r.Entries()
	if es[0].Level != LevelInfo || es[1].Level != LevelError {
		t.Fatalf("levels = %v, %v", es[0].Level, es[1].Level)
	}
}

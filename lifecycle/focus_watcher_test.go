package lifecycle

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func expectEvent(t *testing.T, ch <-chan Event, want Event) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("expected %v, got %v", want, got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %v", want)
	}
}

func expectQuiet(t *testing.T, ch <-chan Event) {
	t.Helper()
	select {
	case got := <-ch:
		t.Fatalf("unexpected event %v", got)
	case <-time.After(60 * time.Millisecond):
	}
}

// Test that the watcher only fires on transitions and starts from an active baseline.
func TestFocusWatcher_EmitsOnChange(t *testing.T) {
	var active atomic.Bool
	active.Store(true)
	w := NewFocusWatcher(func() (bool, error) { return active.Load(), nil }, 5*time.Millisecond, nil)
	w.Start()
	w.Start()
	defer w.Stop()

	expectQuiet(t, w.Events())
	active.Store(false)
	expectEvent(t, w.Events(), Suspended)
	expectQuiet(t, w.Events())
	active.Store(true)
	expectEvent(t, w.Events(), Active)
}

// Test that a host already inactive when polling starts reports Suspended.
func TestFocusWatcher_InitiallyInactive(t *testing.T) {
	w := NewFocusWatcher(func() (bool, error) { return false, nil }, 5*time.Millisecond, nil)
	w.Start()
	defer w.Stop()
	expectEvent(t, w.Events(), Suspended)
}

func TestFocusWatcher_ProbeErrorsIgnored(t *testing.T) {
	w := NewFocusWatcher(func() (bool, error) { return false, errors.New("no display") }, 5*time.Millisecond, nil)
	w.Start()
	expectQuiet(t, w.Events())
	w.Stop()
	w.Stop()
}

func TestEventString(t *testing.T) {
	if Active.String() != "active" || Suspended.String() != "suspended" || Event(0).String() != "unknown" {
		t.Fatal("unexpected event names")
	}
}

package lifecycle

import (
	"log/slog"
	"sync"
	"time"
)

// FocusWatcher polls a probe reporting whether the host is active (focused,
// visible, foreground) and emits an Event whenever the answer changes.
type FocusWatcher struct {
	Probe    func() (bool, error)
	Logger   *slog.Logger
	interval time.Duration
	events   chan Event

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// focusState is owned by one polling goroutine.
type focusState struct {
	known  bool // a previous probe result exists
	active bool
}

// NewFocusWatcher constructs a watcher polling probe every interval
// (250ms when interval <= 0).
func NewFocusWatcher(probe func() (bool, error), interval time.Duration, logger *slog.Logger) *FocusWatcher {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FocusWatcher{Probe: probe, Logger: logger, interval: interval, events: make(chan Event, 8)}
}

// Events returns the channel transitions are delivered on.
func (w *FocusWatcher) Events() <-chan Event { return w.events }

// Start begins polling. Idempotent.
func (w *FocusWatcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.done = make(chan struct{})
	go w.loop(w.done)
}

// Stop ends polling. Idempotent.
func (w *FocusWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	close(w.done)
	w.running = false
}

func (w *FocusWatcher) loop(done chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	var st focusState
	for {
		select {
		case <-ticker.C:
			w.poll(&st)
		case <-done:
			return
		}
	}
}

func (w *FocusWatcher) poll(st *focusState) {
	if w.Probe == nil {
		return
	}
	active, err := w.Probe()
	if err != nil {
		w.Logger.Error("focus probe", "error", err)
		return
	}
	// the first result only establishes the baseline; the host starts active
	if !st.known {
		st.known = true
		st.active = active
		if active {
			return
		}
	} else if active == st.active {
		return
	}
	st.active = active
	ev := Suspended
	if active {
		ev = Active
	}
	select {
	case w.events <- ev:
		w.Logger.Debug("focus changed", "event", ev.String())
	default:
		w.Logger.Warn("focus event dropped", "event", ev.String())
	}
}

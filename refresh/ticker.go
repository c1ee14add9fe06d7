// Package refresh provides refresh-signal sources for the cadence sampler.
package refresh

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultHz is used when a non-positive rate is configured.
const DefaultHz = 60

// Ticker emits wall-clock timestamps at a fixed rate on its own goroutine,
// standing in for a display vsync callback.
type Ticker struct {
	interval time.Duration
	logger   *slog.Logger
	paused   atomic.Bool

	mu   sync.Mutex
	done chan struct{}
	wg   sync.WaitGroup
}

// NewTicker builds a detached ticker firing hz times per second.
func NewTicker(hz int, logger *slog.Logger) *Ticker {
	if hz <= 0 {
		hz = DefaultHz
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Ticker{interval: time.Second / time.Duration(hz), logger: logger}
}

// Interval returns the tick period.
func (t *Ticker) Interval() time.Duration { return t.interval }

// Attach starts delivering ticks to fn. Attaching again replaces the
// previous callback.
func (t *Ticker) Attach(fn func(now time.Time)) {
	t.Detach()
	t.mu.Lock()
	defer t.mu.Unlock()
	done := make(chan struct{})
	t.done = done
	t.wg.Add(1)
	go t.loop(fn, done)
	t.logger.Debug("refresh attached", slog.Duration("interval", t.interval))
}

// Detach stops delivery and waits for the loop to exit, so fn is never
// called after Detach returns. Must not be called from inside fn.
func (t *Ticker) Detach() {
	t.mu.Lock()
	done := t.done
	t.done = nil
	t.mu.Unlock()
	if done == nil {
		return
	}
	close(done)
	t.wg.Wait()
}

// SetPaused suppresses delivery without stopping the loop.
func (t *Ticker) SetPaused(paused bool) { t.paused.Store(paused) }

// Paused reports the pause flag.
func (t *Ticker) Paused() bool { return t.paused.Load() }

func (t *Ticker) loop(fn func(time.Time), done chan struct{}) {
	defer t.wg.Done()
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			if t.paused.Load() || fn == nil {
				continue
			}
			fn(now)
		case <-done:
			return
		}
	}
}

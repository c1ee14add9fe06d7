package presenter

import "time"

// Loop drives periodic UI work from the Tk event loop: it runs work queued
// for the UI goroutine, flushes the presenters and reschedules itself.
// The zero value is usable (methods are nil-safe).
type Loop struct {
	Overlay  *OverlayPresenter
	Stats    *StatsPresenter
	Drain    func(budget time.Duration) int
	Budget   time.Duration
	Schedule func()
}

func NewLoop(overlay *OverlayPresenter, stats *StatsPresenter, drain func(time.Duration) int, schedule func()) *Loop {
	return &Loop{Overlay: overlay, Stats: stats, Drain: drain, Budget: 8 * time.Millisecond, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	// Snapshot requests wait on the drain; run them before repainting.
	if l.Drain != nil {
		l.Drain(l.Budget)
	}
	l.Overlay.Tick()
	l.Stats.Tick()
	if l.Schedule != nil {
		l.Schedule()
	}
}

package presenter

import (
	"image"

	"github.com/soocke/framewatch/domain/capture"
	"github.com/soocke/framewatch/domain/diagnostics"
)

// StatsSource reports pipeline counters.
type StatsSource interface{ Stats() capture.Stats }

// EventSource exposes the recorded drop events.
type EventSource interface {
	Events() []diagnostics.DropEvent
}

// ThumbnailLoader loads a persisted snapshot bounded to maxPx.
type ThumbnailLoader interface {
	Thumbnail(name string, maxPx int) (image.Image, error)
}

// StatsView displays drop counters and the latest snapshot.
type StatsView interface {
	SetDrops(events int, captured uint64, pending int)
	SetPaused(paused bool)
	ShowSnapshot(img image.Image, ev diagnostics.DropEvent)
}

// PauseState reports whether monitoring is paused.
type PauseState interface{ Paused() bool }

// ThumbnailSize bounds the snapshot preview.
const ThumbnailSize = 320

// StatsPresenter pushes pipeline counters and the newest snapshot to the view.
// Views are only touched when a value changed.
type StatsPresenter struct {
	stats  StatsSource
	events EventSource
	thumbs ThumbnailLoader
	pause  PauseState
	view   StatsView

	lastRecorded uint64
	lastCaptured uint64
	lastPending  int
	lastPaused   bool
	shownSeq     uint64
	primed       bool
}

func NewStatsPresenter(stats StatsSource, events EventSource, thumbs ThumbnailLoader, pause PauseState, view StatsView) *StatsPresenter {
	return &StatsPresenter{stats: stats, events: events, thumbs: thumbs, pause: pause, view: view}
}

// Tick refreshes the view.
func (p *StatsPresenter) Tick() {
	if p == nil || p.stats == nil || p.view == nil {
		return
	}
	st := p.stats.Stats()
	if !p.primed || st.Recorded != p.lastRecorded || st.Captured != p.lastCaptured || st.Pending != p.lastPending {
		p.view.SetDrops(int(st.Recorded), st.Captured, st.Pending)
	}
	if p.pause != nil {
		if paused := p.pause.Paused(); !p.primed || paused != p.lastPaused {
			p.view.SetPaused(paused)
			p.lastPaused = paused
		}
	}
	if st.Captured != p.lastCaptured {
		p.showLatest()
	}
	p.lastRecorded, p.lastCaptured, p.lastPending = st.Recorded, st.Captured, st.Pending
	p.primed = true
}

func (p *StatsPresenter) showLatest() {
	if p.events == nil || p.thumbs == nil {
		return
	}
	evs := p.events.Events()
	for i := len(evs) - 1; i >= 0; i-- {
		ev := evs[i]
		if !ev.HasSnapshot() {
			continue
		}
		if ev.Seq == p.shownSeq {
			return
		}
		img, err := p.thumbs.Thumbnail(ev.ScreenshotFileName, ThumbnailSize)
		if err != nil {
			return
		}
		p.shownSeq = ev.Seq
		p.view.ShowSnapshot(img, ev)
		return
	}
}

package cadence

import "time"

// WindowLength is the fixed measurement window.
const WindowLength = time.Second

// RefreshSource delivers one timestamp per display refresh on a single
// goroutine between Attach and Detach.
type RefreshSource interface {
	Attach(fn func(now time.Time))
	Detach()
	SetPaused(paused bool)
}

// OverlaySink displays the measured frame rate. Update is called from the
// refresh goroutine and must not block.
type OverlaySink interface {
	Show()
	Update(fps float64)
	Remove()
}

// DropRecorder receives windows that missed the target.
type DropRecorder interface {
	CaptureIfNeeded(duration, frameRate float64, droppedFrames int)
}

// NopOverlay discards overlay notifications.
type NopOverlay struct{}

func (NopOverlay) Show()          {}
func (NopOverlay) Update(float64) {}
func (NopOverlay) Remove()        {}

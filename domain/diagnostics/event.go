package diagnostics

import "time"

// DropEvent is one window in which the measured frame count fell short of the
// target-derived expectation.
type DropEvent struct {
	// Seq is the session-scoped primary key. Assigned by Log.Append, starting at 1.
	Seq uint64 `json:"seq"`
	// Timestamp is the instant the window closed. Display only; Seq is the lookup key.
	Timestamp     time.Time `json:"timestamp"`
	Duration      float64   `json:"duration"`  // window length in seconds
	FrameRate     float64   `json:"frameRate"` // frames per second over the window
	DroppedFrames int       `json:"droppedFrames"`
	// ScreenshotFileName is empty until a snapshot has been persisted.
	ScreenshotFileName string `json:"screenshotFileName,omitempty"`
}

// HasSnapshot reports whether a snapshot reference was attached.
func (e DropEvent) HasSnapshot() bool { return e.ScreenshotFileName != "" }

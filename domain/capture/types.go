package capture

import (
	"context"
	"errors"
	"image"
	"time"
)

// ErrNoSurface reports that no visual surface was available to snapshot.
var ErrNoSurface = errors.New("capture: no surface available")

// SnapshotSource returns the current pixels of the visual surface. It is only
// invoked on the goroutine that owns the surface (see Surface).
type SnapshotSource interface {
	Snapshot() (*image.RGBA, error)
}

// Surface runs fn on the goroutine that owns the visual surface and waits for
// it to finish or for ctx to end.
type Surface interface {
	Call(ctx context.Context, fn func()) error
}

// SnapshotFunc adapts a function to SnapshotSource.
type SnapshotFunc func() (*image.RGBA, error)

func (f SnapshotFunc) Snapshot() (*image.RGBA, error) { return f() }

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(ctx context.Context, fn func()) error

func (f SurfaceFunc) Call(ctx context.Context, fn func()) error { return f(ctx, fn) }

// Stats summarises pipeline behaviour for instrumentation.
type Stats struct {
	Recorded    uint64 // drop events appended to the log
	Captured    uint64 // snapshot pairs persisted
	Throttled   uint64
	Disabled    uint64
	Failed      uint64 // snapshot, encode or write failures
	Pending     int    // background captures still running
	LastCapture time.Time
}

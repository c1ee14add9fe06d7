// Package capture grabs screen pixels for drop snapshots.
package capture

import (
	"fmt"
	"image"
	"sync"

	"github.com/vova616/screenshot"

	domcapture "github.com/soocke/framewatch/domain/capture"
)

// Grab returns a screen capture of the current active monitor.
func Grab() (*image.RGBA, error) {
	rect, err := screenshot.ScreenRect()
	if err != nil || rect.Empty() {
		return nil, noSurface(err)
	}
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, fmt.Errorf("capture screen: %w", err)
	}
	return img, nil
}

// GrabSelection captures area, clipped to the screen.
func GrabSelection(area image.Rectangle) (*image.RGBA, error) {
	rect, err := screenshot.ScreenRect()
	if err != nil {
		return nil, noSurface(err)
	}
	area = area.Intersect(rect)
	if area.Empty() {
		return nil, domcapture.ErrNoSurface
	}
	img, err := screenshot.CaptureRect(area)
	if err != nil {
		return nil, fmt.Errorf("capture rect %v: %w", area, err)
	}
	return img, nil
}

func noSurface(err error) error {
	if err == nil {
		return domcapture.ErrNoSurface
	}
	return fmt.Errorf("%w: %v", domcapture.ErrNoSurface, err)
}

// ScreenSource snapshots the screen, or a region of it when one is set.
// It satisfies the pipeline's SnapshotSource.
type ScreenSource struct {
	mu     sync.Mutex
	region image.Rectangle
}

// NewScreenSource returns a source capturing the whole active monitor.
func NewScreenSource() *ScreenSource { return &ScreenSource{} }

// SetRegion limits captures to r. An empty rectangle restores full screen.
func (s *ScreenSource) SetRegion(r image.Rectangle) {
	s.mu.Lock()
	s.region = r.Canon()
	s.mu.Unlock()
}

// Region returns the configured region, empty for full screen.
func (s *ScreenSource) Region() image.Rectangle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.region
}

func (s *ScreenSource) Snapshot() (*image.RGBA, error) {
	if r := s.Region(); !r.Empty() {
		return GrabSelection(r)
	}
	return Grab()
}

var _ domcapture.SnapshotSource = (*ScreenSource)(nil)

package model

import (
	"math"
	"sync/atomic"
)

// FPSModel holds the most recent frame rate and whether the overlay should be
// visible. Writers run on the refresh goroutine, readers on the UI tick, so all
// state is atomic. The zero value is hidden with no reading and usable.
type FPSModel struct {
	bits    atomic.Uint64 // math.Float64bits of the last reading
	has     atomic.Bool
	visible atomic.Bool
	dirty   atomic.Bool
}

// Set stores a new reading and marks the model dirty.
func (m *FPSModel) Set(fps float64) {
	if m == nil {
		return
	}
	m.bits.Store(math.Float64bits(fps))
	m.has.Store(true)
	m.dirty.Store(true)
}

// Value returns the last reading and whether one exists.
func (m *FPSModel) Value() (float64, bool) {
	if m == nil || !m.has.Load() {
		return 0, false
	}
	return math.Float64frombits(m.bits.Load()), true
}

// SetVisible stores the visibility flag. Hiding also forgets the reading so a
// reshown overlay starts blank.
func (m *FPSModel) SetVisible(v bool) {
	if m == nil {
		return
	}
	if m.visible.Swap(v) == v {
		return
	}
	if !v {
		m.has.Store(false)
	}
	m.dirty.Store(true)
}

// Visible reports the visibility flag.
func (m *FPSModel) Visible() bool {
	if m == nil {
		return false
	}
	return m.visible.Load()
}

// TakeDirty reports whether anything changed since the last call and clears
// the flag.
func (m *FPSModel) TakeDirty() bool {
	if m == nil {
		return false
	}
	return m.dirty.Swap(false)
}

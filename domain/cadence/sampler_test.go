package cadence

import (
	"math"
	"sync"
	"testing"
	"time"
)

type fakeSource struct {
	mu       sync.Mutex
	fn       func(time.Time)
	attached int
	detached int
	muted    bool
	paused   []bool
}

// Attach and Detach leave the pause flag alone, like refresh.Ticker.
func (f *fakeSource) Attach(fn func(time.Time)) { f.mu.Lock(); f.fn = fn; f.attached++; f.mu.Unlock() }
func (f *fakeSource) Detach()                   { f.mu.Lock(); f.fn = nil; f.detached++; f.mu.Unlock() }
func (f *fakeSource) SetPaused(p bool) {
	f.mu.Lock()
	f.muted = p
	f.paused = append(f.paused, p)
	f.mu.Unlock()
}

// emit delivers a signal the way a real source would: only while attached
// and not paused.
func (f *fakeSource) emit(now time.Time) {
	f.mu.Lock()
	fn := f.fn
	if f.muted {
		fn = nil
	}
	f.mu.Unlock()
	if fn != nil {
		fn(now)
	}
}

func (f *fakeSource) lastPaused() (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.paused) == 0 {
		return false, false
	}
	return f.paused[len(f.paused)-1], true
}

type fakeOverlay struct {
	shown, removed int
	updates        []float64
}

func (o *fakeOverlay) Show()              { o.shown++ }
func (o *fakeOverlay) Update(fps float64) { o.updates = append(o.updates, fps) }
func (o *fakeOverlay) Remove()            { o.removed++ }

type dropCall struct {
	duration, fps float64
	dropped       int
}

type fakeRecorder struct{ calls []dropCall }

func (r *fakeRecorder) CaptureIfNeeded(d, fps float64, dropped int) {
	r.calls = append(r.calls, dropCall{d, fps, dropped})
}

var (
	_ RefreshSource = (*fakeSource)(nil)
	_ OverlaySink   = (*fakeOverlay)(nil)
	_ DropRecorder  = (*fakeRecorder)(nil)
)

var t0 = time.Unix(0, 0)

func newTestSampler(target int) (*Sampler, *fakeSource, *fakeOverlay, *fakeRecorder) {
	src, ov, rec := &fakeSource{}, &fakeOverlay{}, &fakeRecorder{}
	s := NewSampler(src, ov, rec, Options{FPSTarget: target, ShowOverlay: true}, nil, nil)
	return s, src, ov, rec
}

// feed arms the window at start and then delivers n signals spaced by step.
// It returns the time of the last signal.
func feed(src *fakeSource, start time.Time, n int, step time.Duration) time.Time {
	src.emit(start)
	now := start
	for i := 0; i < n; i++ {
		now = now.Add(step)
		src.emit(now)
	}
	return now
}

func TestSampler_HealthyWindowNoCapture(t *testing.T) {
	s, src, ov, rec := newTestSampler(50)
	s.Start()
	feed(src, t0, 60, 16700*time.Microsecond)

	if len(ov.updates) != 1 {
		t.Fatalf("expected one window, got %d updates", len(ov.updates))
	}
	if fps := ov.updates[0]; math.Abs(fps-60/1.002) > 1e-9 {
		t.Fatalf("expected fps ~59.88, got %v", fps)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("expected no capture, got %+v", rec.calls)
	}
}

func TestSampler_SlowWindowRecordsDrop(t *testing.T) {
	s, src, ov, rec := newTestSampler(50)
	var dropStart time.Time
	s.opts.OnDrop = func(start time.Time, dropped int) { dropStart = start }
	s.Start()
	feed(src, t0, 20, 50*time.Millisecond)

	if len(rec.calls) != 1 {
		t.Fatalf("expected one drop, got %+v", rec.calls)
	}
	c := rec.calls[0]
	if c.dropped != 30 || math.Abs(c.fps-20) > 1e-9 || math.Abs(c.duration-1.0) > 1e-9 {
		t.Fatalf("unexpected drop %+v", c)
	}
	if len(ov.updates) != 1 || !dropStart.Equal(t0) {
		t.Fatalf("overlay/hook not notified: updates=%v start=%v", ov.updates, dropStart)
	}
}

func TestSampler_FPSMatchesCountOverElapsed(t *testing.T) {
	steps := []time.Duration{8 * time.Millisecond, 13 * time.Millisecond, 33 * time.Millisecond, 110 * time.Millisecond}
	for _, step := range steps {
		s, src, ov, _ := newTestSampler(50)
		s.Start()
		n := int((time.Second + step - 1) / step) // first signal at or past one second
		last := feed(src, t0, n, step)
		if len(ov.updates) != 1 {
			t.Fatalf("step %v: expected one window, got %d", step, len(ov.updates))
		}
		elapsed := last.Sub(t0).Seconds()
		if want := float64(n) / elapsed; math.Abs(ov.updates[0]-want) > 1e-9 {
			t.Fatalf("step %v: fps %v, want %v", step, ov.updates[0], want)
		}
	}
}

func TestSampler_DropsNeverNegative(t *testing.T) {
	s, src, _, rec := newTestSampler(30)
	s.Start()
	feed(src, t0, 240, 5*time.Millisecond) // 200 signals/s against a 30 target
	if len(rec.calls) != 0 {
		t.Fatalf("fast source must not report drops: %+v", rec.calls)
	}
	for frames := 0; frames <= 120; frames++ {
		if _, dropped := measure(frames, 1.0, 60); dropped < 0 {
			t.Fatalf("negative drop for %d frames", frames)
		}
	}
}

func TestMeasure_RoundsExpectedFrames(t *testing.T) {
	if _, dropped := measure(49, 1.0, 50); dropped != 1 {
		t.Fatalf("expected 1 drop, got %d", dropped)
	}
	// 1.009s * 50 = 50.45 rounds down to 50: a visibly slow window reports nothing.
	if fps, dropped := measure(50, 1.009, 50); dropped != 0 || fps >= 50 {
		t.Fatalf("expected rounding tolerance, got fps=%v dropped=%d", fps, dropped)
	}
}

func TestSampler_PauseDiscardsPartialWindow(t *testing.T) {
	s, src, ov, rec := newTestSampler(50)
	var dropStart time.Time
	s.opts.OnDrop = func(start time.Time, _ int) { dropStart = start }
	s.Start()

	now := feed(src, t0, 10, 50*time.Millisecond) // half a window
	s.SetPaused(true)
	src.emit(now.Add(2 * time.Second)) // ignored while paused
	s.SetPaused(false)

	resume := now.Add(10 * time.Second)
	feed(src, resume, 20, 50*time.Millisecond)

	if len(ov.updates) != 1 || len(rec.calls) != 1 {
		t.Fatalf("expected exactly one fresh window, got updates=%v calls=%+v", ov.updates, rec.calls)
	}
	if !dropStart.Equal(resume) {
		t.Fatalf("window should start at resume %v, got %v", resume, dropStart)
	}
	if rec.calls[0].dropped != 30 {
		t.Fatalf("stale frames leaked into fresh window: %+v", rec.calls[0])
	}
	// Start clears the source flag first, then pause and resume are forwarded.
	if len(src.paused) != 3 || src.paused[0] || !src.paused[1] || src.paused[2] {
		t.Fatalf("source pause flag not forwarded: %v", src.paused)
	}
}

func TestSampler_NonMonotonicSignalsIgnored(t *testing.T) {
	s, src, ov, _ := newTestSampler(50)
	s.Start()
	src.emit(t0)
	for i := 1; i <= 30; i++ {
		src.emit(t0.Add(-time.Duration(i) * 100 * time.Millisecond))
	}
	if len(ov.updates) != 0 {
		t.Fatalf("backwards clock closed a window: %v", ov.updates)
	}
}

func TestSampler_StartStopIdempotent(t *testing.T) {
	s, src, ov, _ := newTestSampler(50)
	s.Start()
	s.Start()
	if !s.Running() || src.attached != 1 || ov.shown != 1 {
		t.Fatalf("start not idempotent: running=%v attached=%d shown=%d", s.Running(), src.attached, ov.shown)
	}
	s.Stop()
	s.Stop()
	if s.Running() || src.detached != 1 || ov.removed != 1 {
		t.Fatalf("stop not idempotent: running=%v detached=%d removed=%d", s.Running(), src.detached, ov.removed)
	}
	s.OnSignal(t0)
	s.OnSignal(t0.Add(2 * time.Second))
	if len(ov.updates) != 0 {
		t.Fatal("stopped sampler measured a window")
	}
}

func TestSampler_RestartStartsFreshWindow(t *testing.T) {
	s, src, ov, _ := newTestSampler(50)
	s.Start()
	feed(src, t0, 10, 50*time.Millisecond)
	s.Stop()
	s.Start()
	later := t0.Add(time.Minute)
	src.emit(later)
	src.emit(later.Add(500 * time.Millisecond))
	if len(ov.updates) != 0 {
		t.Fatalf("restart reused the old window: %v", ov.updates)
	}
}

func TestSampler_RestartAfterPauseResumesSignals(t *testing.T) {
	s, src, ov, rec := newTestSampler(50)
	s.Start()
	s.SetPaused(true)
	s.Stop()
	s.Start()

	if last, ok := src.lastPaused(); !ok || last {
		t.Fatalf("source left paused after restart: %v", src.paused)
	}
	if !s.Running() || s.Paused() {
		t.Fatalf("unexpected state running=%v paused=%v", s.Running(), s.Paused())
	}
	feed(src, t0, 20, 50*time.Millisecond)
	if len(ov.updates) != 1 || len(rec.calls) != 1 {
		t.Fatalf("restarted sampler measured nothing: updates=%v calls=%+v", ov.updates, rec.calls)
	}
}

package cadence

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/framewatch/metrics"
)

// Options configures a Sampler.
type Options struct {
	FPSTarget   int
	ShowOverlay bool
	PrintFPS    bool
	// OnDrop, when set, is called on the refresh goroutine with the start of
	// every window that dropped frames. It must not stop the sampler (or the
	// session owning it): Stop detaches the source, which waits for the
	// refresh goroutine to return.
	OnDrop func(windowStart time.Time, dropped int)
}

// Sampler turns refresh timestamps into one-second throughput windows and
// reports windows that fall short of the target.
//
// OnSignal runs on the refresh source's goroutine and is the only code that
// touches the window accumulator. Start, Stop and SetPaused may be called from
// any goroutine; they request a window reset through resetGen, which OnSignal
// applies before using the accumulator.
type Sampler struct {
	source   RefreshSource
	overlay  OverlaySink
	recorder DropRecorder
	opts     Options
	logger   *slog.Logger
	metrics  *metrics.Recorder

	lifeMu   sync.Mutex // serializes Start, Stop and SetPaused
	running  atomic.Bool
	paused   atomic.Bool
	resetGen atomic.Uint64

	// refresh goroutine only
	seenGen     uint64
	armed       bool
	windowStart time.Time
	frameCount  int
}

// NewSampler builds a stopped sampler. overlay and recorder may be nil.
func NewSampler(source RefreshSource, overlay OverlaySink, recorder DropRecorder, opts Options, logger *slog.Logger, rec *metrics.Recorder) *Sampler {
	if overlay == nil {
		overlay = NopOverlay{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.FPSTarget <= 0 {
		opts.FPSTarget = 50
	}
	return &Sampler{source: source, overlay: overlay, recorder: recorder, opts: opts, logger: logger, metrics: rec}
}

// Start attaches to the refresh source. Idempotent.
func (s *Sampler) Start() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if s.running.Load() {
		return
	}
	s.paused.Store(false)
	s.resetGen.Add(1)
	s.running.Store(true)
	if s.opts.ShowOverlay {
		s.overlay.Show()
	}
	if s.source != nil {
		// a source stopped while paused would otherwise stay muted
		s.source.SetPaused(false)
		s.source.Attach(s.OnSignal)
	}
	s.logger.Debug("sampler started", slog.Int("fps_target", s.opts.FPSTarget))
}

// Stop detaches from the refresh source, clears the window and removes the
// overlay. Idempotent. Captures already scheduled keep running.
func (s *Sampler) Stop() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if !s.running.Load() {
		return
	}
	s.running.Store(false)
	if s.source != nil {
		s.source.Detach()
	}
	s.resetGen.Add(1)
	s.overlay.Remove()
	s.logger.Debug("sampler stopped")
}

// SetPaused pauses or resumes sampling. Either way the in-flight window is
// discarded: a window spanning a suspension is never measured.
func (s *Sampler) SetPaused(paused bool) {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	s.paused.Store(paused)
	s.resetGen.Add(1)
	if s.source != nil && s.running.Load() {
		s.source.SetPaused(paused)
	}
}

// Running reports whether Start has been called without a matching Stop.
func (s *Sampler) Running() bool { return s.running.Load() }

// Paused reports the pause flag.
func (s *Sampler) Paused() bool { return s.paused.Load() }

// OnSignal accounts one refresh at now. The first signal after start, resume
// or a reset only arms the window.
func (s *Sampler) OnSignal(now time.Time) {
	if !s.running.Load() || s.paused.Load() {
		return
	}
	if gen := s.resetGen.Load(); gen != s.seenGen {
		s.seenGen = gen
		s.armed = false
		s.frameCount = 0
	}
	if !s.armed {
		s.windowStart = now
		s.armed = true
		return
	}

	s.frameCount++
	elapsed := now.Sub(s.windowStart).Seconds()
	if elapsed <= 0 || elapsed < WindowLength.Seconds() {
		return
	}

	fps, dropped := measure(s.frameCount, elapsed, s.opts.FPSTarget)
	if s.opts.PrintFPS {
		s.logger.Info("fps", slog.Int("fps", int(math.Round(fps))), slog.Int("dropped", dropped))
	}
	s.overlay.Update(fps)
	s.metrics.ObserveWindow(fps, dropped)

	if dropped > 0 {
		if s.opts.OnDrop != nil {
			s.opts.OnDrop(s.windowStart, dropped)
		}
		if s.recorder != nil {
			s.recorder.CaptureIfNeeded(elapsed, fps, dropped)
		}
	}

	s.windowStart = now
	s.frameCount = 0
}

// measure computes throughput and missing frames for a closed window.
// Expected frames are rounded to the nearest integer before subtracting, so a
// window slightly under target can still report zero drops.
func measure(frames int, elapsed float64, target int) (fps float64, dropped int) {
	fps = float64(frames) / elapsed
	expected := int(math.Round(elapsed * float64(target)))
	return fps, max(expected-frames, 0)
}

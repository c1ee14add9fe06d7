package capture

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/soocke/framewatch/domain/diagnostics"
	"github.com/soocke/framewatch/metrics"
)

// Defaults applied by NewPipeline when the corresponding Options field is zero.
const (
	DefaultMinInterval     = 2 * time.Second
	DefaultSnapshotTimeout = 500 * time.Millisecond
	DefaultJPEGQuality     = 70
)

// Options configures a Pipeline.
type Options struct {
	Enabled         bool          // capture snapshots at all
	Dir             string        // resolved storage directory
	JPEGQuality     int           // 1..100
	MaxDimension    int           // longest side after downscale, 0 keeps native size
	MinInterval     time.Duration // minimum spacing between captures
	SnapshotTimeout time.Duration // bound on waiting for the surface goroutine
	Now             func() time.Time
}

// Pipeline records drop events and, rate limited, captures and persists a
// snapshot for them. The snapshot step runs on the Surface; encoding and disk
// I/O run on detached goroutines tracked by Pending/Wait.
//
// CaptureIfNeeded may be called from several goroutines: the throttle check and
// update happen in one mutex-guarded section.
type Pipeline struct {
	log     *diagnostics.Log
	source  SnapshotSource
	surface Surface
	opts    Options
	logger  *slog.Logger
	metrics *metrics.Recorder

	mu          sync.Mutex
	lastCapture time.Time
	limiter     *rate.Limiter

	wg        sync.WaitGroup
	pending   atomic.Int64
	recorded  atomic.Uint64
	captured  atomic.Uint64
	throttled atomic.Uint64
	disabled  atomic.Uint64
	failed    atomic.Uint64
}

// NewPipeline wires a pipeline. surface may be nil, in which case the snapshot
// is taken on the background goroutine itself. source may be nil, in which case
// every capture ends with ErrNoSurface.
func NewPipeline(log *diagnostics.Log, source SnapshotSource, surface Surface, opts Options, logger *slog.Logger, rec *metrics.Recorder) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = DefaultMinInterval
	}
	if opts.SnapshotTimeout <= 0 {
		opts.SnapshotTimeout = DefaultSnapshotTimeout
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = DefaultJPEGQuality
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{
		log:     log,
		source:  source,
		surface: surface,
		opts:    opts,
		logger:  logger,
		metrics: rec,
		limiter: rate.NewLimiter(rate.Every(opts.MinInterval), 1),
	}
}

// Log returns the diagnostics log events are recorded into.
func (p *Pipeline) Log() *diagnostics.Log { return p.log }

// CaptureIfNeeded records a drop event and schedules a snapshot when capture is
// enabled and the previous capture is at least MinInterval old. It never waits
// for the snapshot, encoding or disk writes.
func (p *Pipeline) CaptureIfNeeded(duration, frameRate float64, droppedFrames int) {
	now := p.opts.Now()
	ev := p.log.Record(now, duration, frameRate, droppedFrames)
	p.recorded.Add(1)

	if !p.opts.Enabled {
		p.observe(metrics.CaptureDisabled)
		return
	}
	if !p.reserve(now) {
		p.observe(metrics.CaptureThrottled)
		p.logger.Debug("capture.throttled", slog.Uint64("seq", ev.Seq))
		return
	}

	p.wg.Add(1)
	p.metrics.SetPending(int(p.pending.Add(1)))
	go p.run(ev)
}

// reserve claims the capture slot for now.
func (p *Pipeline) reserve(now time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.lastCapture.IsZero() && now.Sub(p.lastCapture) < p.opts.MinInterval {
		return false
	}
	if !p.limiter.AllowN(now, 1) {
		return false
	}
	p.lastCapture = now
	return true
}

func (p *Pipeline) run(ev diagnostics.DropEvent) {
	defer func() {
		p.metrics.SetPending(int(p.pending.Add(-1)))
		p.wg.Done()
		p.logStats()
	}()

	frame, err := p.snapshot()
	if err != nil {
		if errors.Is(err, ErrNoSurface) {
			p.observe(metrics.CaptureNoSurface)
			p.logger.Debug("capture.skipped", slog.Uint64("seq", ev.Seq), slog.String("reason", err.Error()))
			return
		}
		p.observe(metrics.CaptureFailed)
		p.logger.Warn("capture.snapshot", slog.Uint64("seq", ev.Seq), slog.Any("error", err))
		return
	}
	defer RecycleFrame(frame)

	if err := p.persist(ev, frame); err != nil {
		p.observe(metrics.CaptureFailed)
		p.logger.Error("capture.persist", slog.Uint64("seq", ev.Seq), slog.Any("error", err))
		return
	}
	p.observe(metrics.CaptureSaved)
}

// snapshot grabs the surface on its owning goroutine and copies the pixels
// into a pooled frame so the owner can reuse its buffer immediately.
func (p *Pipeline) snapshot() (*image.RGBA, error) {
	if p.source == nil {
		return nil, ErrNoSurface
	}
	var (
		frame   *image.RGBA
		snapErr error
	)
	grab := func() {
		img, err := p.source.Snapshot()
		if err != nil {
			snapErr = err
			return
		}
		if img == nil || img.Rect.Empty() {
			snapErr = ErrNoSurface
			return
		}
		frame = copyFrame(img)
	}

	if p.surface == nil {
		grab()
		return frame, snapErr
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.opts.SnapshotTimeout)
	defer cancel()
	if err := p.surface.Call(ctx, grab); err != nil {
		return nil, err
	}
	return frame, snapErr
}

// Pending returns the number of captures scheduled but not yet finished.
func (p *Pipeline) Pending() int { return int(p.pending.Load()) }

// Wait blocks until every scheduled capture has finished or ctx ends.
func (p *Pipeline) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

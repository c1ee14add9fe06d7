package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	screen "github.com/soocke/framewatch/capture"
	"github.com/soocke/framewatch/config"
	"github.com/soocke/framewatch/debug"
	"github.com/soocke/framewatch/domain/cadence"
	"github.com/soocke/framewatch/domain/capture"
	"github.com/soocke/framewatch/domain/diagnostics"
	"github.com/soocke/framewatch/lifecycle"
	"github.com/soocke/framewatch/metrics"
	"github.com/soocke/framewatch/refresh"
	"github.com/soocke/framewatch/snapshots"
	"github.com/soocke/framewatch/ui/mainthread"
)

// ExportFileName is the diagnostics export written by Session.Export.
const ExportFileName = "diagnostics.json"

// Deps overrides the collaborators a Session builds by default. The zero value
// selects a software refresh ticker, the screen as snapshot source and the
// session's own main-thread queue as surface.
type Deps struct {
	Refresh    cadence.RefreshSource
	Source     capture.SnapshotSource
	Surface    capture.Surface
	Overlay    cadence.OverlaySink
	Registerer prometheus.Registerer // nil uses a private registry
	FocusProbe func() (bool, error)  // nil disables focus polling
	Now        func() time.Time
}

// Session assembles one monitoring session: the diagnostics log, the capture
// pipeline, the sampler and the suspension controller.
type Session struct {
	ID     string
	Config *config.Config
	Logger *slog.Logger
	Dir    string

	Log        *diagnostics.Log
	Pipeline   *capture.Pipeline
	Sampler    *cadence.Sampler
	Suspension *cadence.Suspension
	Queue      *mainthread.Queue
	Snapshots  *snapshots.Store
	Metrics    *metrics.Recorder

	focus *lifecycle.FocusWatcher

	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
}

// NewSession resolves the storage directory and wires every component. It does
// not start sampling.
func NewSession(cfg *config.Config, logger *slog.Logger, deps Deps) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := uuid.NewString()
	logger = logger.With(slog.String("session", id))

	dir, err := config.ResolveDirectory(cfg)
	if err != nil {
		return nil, err
	}
	store, err := snapshots.Open(dir, 0, logger)
	if err != nil {
		return nil, err
	}

	reg := deps.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	rec := metrics.NewRecorder(reg)

	s := &Session{
		ID:        id,
		Config:    cfg,
		Logger:    logger,
		Dir:       dir,
		Queue:     mainthread.NewQueue(16),
		Snapshots: store,
		Metrics:   rec,
	}

	if deps.Refresh == nil {
		deps.Refresh = refresh.NewTicker(cfg.RefreshRate, logger)
	}
	if deps.Source == nil {
		deps.Source = screen.NewScreenSource()
	}
	if deps.Surface == nil {
		deps.Surface = s.Queue
	}

	s.Log = diagnostics.NewLog(logger)
	s.Pipeline = capture.NewPipeline(s.Log, deps.Source, deps.Surface, capture.Options{
		Enabled:      cfg.CaptureScreenshots,
		Dir:          dir,
		JPEGQuality:  cfg.JPEGQuality,
		MaxDimension: cfg.MaxSnapshotDimension,
		Now:          deps.Now,
	}, logger, rec)
	s.Sampler = cadence.NewSampler(deps.Refresh, deps.Overlay, s.Pipeline, cadence.Options{
		FPSTarget:   cfg.FPSTarget,
		ShowOverlay: cfg.ShowOverlay,
		PrintFPS:    cfg.PrintFPS,
	}, logger, rec)
	s.Suspension = cadence.NewSuspension(s.Sampler, logger)
	if deps.FocusProbe != nil {
		s.focus = lifecycle.NewFocusWatcher(deps.FocusProbe, 0, logger)
	}

	logger.Info("session ready",
		slog.String("dir", dir),
		slog.Int("fps_target", cfg.FPSTarget),
		slog.Bool("capture", cfg.CaptureScreenshots),
	)
	return s, nil
}

// Start begins sampling and subscribes to host lifecycle events. Idempotent.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil || s.closed {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	s.Sampler.Start()
	go s.Suspension.Watch(ctx, lifecycle.NotifySignals(ctx))
	if s.focus != nil {
		s.focus.Start()
		go s.Suspension.Watch(ctx, s.focus.Events())
	}
	if s.Config.Debug {
		debug.StartRuntimeLogger(ctx, 5*time.Second, s.Logger,
			debug.Probe{Name: "captures_pending", Value: func() int64 { return int64(s.Pipeline.Pending()) }},
			debug.Probe{Name: "drop_events", Value: func() int64 { return int64(s.Log.Len()) }},
		)
	}
}

// Stop detaches the sampler and lifecycle listeners. Captures already
// scheduled keep running. Idempotent.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Session) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	if s.focus != nil {
		s.focus.Stop()
	}
	s.Sampler.Stop()
}

// TogglePause flips the sampler's pause flag and returns the new value.
func (s *Session) TogglePause() bool {
	paused := !s.Sampler.Paused()
	if paused {
		s.Suspension.OnSuspend()
	} else {
		s.Suspension.OnActive()
	}
	return s.Sampler.Paused()
}

// Export writes the serialized log to path, or to <dir>/diagnostics.json when
// path is empty, and returns the path written.
func (s *Session) Export(path string) (string, error) {
	if path == "" {
		path = filepath.Join(s.Dir, ExportFileName)
	}
	data, ok := s.Log.ExportSerialized()
	if !ok {
		return "", errors.New("export: serialization failed")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	s.Logger.Info("diagnostics exported", slog.String("file", path), slog.Int("events", s.Log.Len()))
	return path, nil
}

// Close stops the session, waits for pending captures until ctx ends and
// closes the main-thread queue. It must be called from the goroutine that
// drains the queue: Close keeps draining while it waits so captures blocked on
// the surface can finish.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.stopLocked()
	s.mu.Unlock()

	waited := make(chan error, 1)
	go func() { waited <- s.Pipeline.Wait(ctx) }()
	tick := time.NewTicker(5 * time.Millisecond)
	defer tick.Stop()
	var err error
wait:
	for {
		select {
		case err = <-waited:
			break wait
		case <-tick.C:
			s.Queue.Drain()
		}
	}
	s.Queue.Close()
	st := s.Pipeline.Stats()
	s.Logger.Info("session closed",
		slog.Uint64("drop_events", st.Recorded),
		slog.Uint64("snapshots", st.Captured),
		slog.Uint64("failed", st.Failed),
	)
	s.Snapshots.LogUsage()
	if err != nil {
		return fmt.Errorf("waiting for captures: %w", err)
	}
	return nil
}

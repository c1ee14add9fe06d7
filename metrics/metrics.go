package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Capture outcomes reported through ObserveCapture.
const (
	CaptureSaved     = "saved"
	CaptureThrottled = "throttled"
	CaptureDisabled  = "disabled"
	CaptureNoSurface = "no_surface"
	CaptureFailed    = "failed"
)

// Recorder groups the frame monitoring collectors. A nil *Recorder is valid and
// records nothing, so components can be built without metrics.
type Recorder struct {
	fps           prometheus.Gauge
	windows       prometheus.Counter
	droppedFrames prometheus.Counter
	drops         prometheus.Counter
	captures      *prometheus.CounterVec
	pending       prometheus.Gauge
}

// NewRecorder registers the collectors on reg. Passing prometheus.DefaultRegisterer
// exposes them process-wide; tests use a fresh prometheus.NewRegistry().
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fps: f.NewGauge(prometheus.GaugeOpts{
			Name: "framewatch_fps",
			Help: "Frame rate measured over the most recently closed window",
		}),
		windows: f.NewCounter(prometheus.CounterOpts{
			Name: "framewatch_windows_total",
			Help: "Total number of closed measurement windows",
		}),
		droppedFrames: f.NewCounter(prometheus.CounterOpts{
			Name: "framewatch_dropped_frames_total",
			Help: "Total frames missing against the target across all windows",
		}),
		drops: f.NewCounter(prometheus.CounterOpts{
			Name: "framewatch_drop_events_total",
			Help: "Total number of windows that recorded a drop event",
		}),
		captures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "framewatch_captures_total",
			Help: "Snapshot capture decisions by outcome",
		}, []string{"result"}),
		pending: f.NewGauge(prometheus.GaugeOpts{
			Name: "framewatch_captures_pending",
			Help: "Snapshot captures scheduled but not yet persisted",
		}),
	}
}

// ObserveWindow records one closed window.
func (r *Recorder) ObserveWindow(fps float64, dropped int) {
	if r == nil {
		return
	}
	r.fps.Set(fps)
	r.windows.Inc()
	if dropped > 0 {
		r.drops.Inc()
		r.droppedFrames.Add(float64(dropped))
	}
}

// ObserveCapture counts one capture outcome.
func (r *Recorder) ObserveCapture(result string) {
	if r == nil {
		return
	}
	r.captures.WithLabelValues(result).Inc()
}

// SetPending publishes the number of outstanding background captures.
func (r *Recorder) SetPending(n int) {
	if r == nil {
		return
	}
	r.pending.Set(float64(n))
}

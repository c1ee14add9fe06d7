package capture

import (
	"log/slog"

	"github.com/soocke/framewatch/metrics"
)

// observe counts an outcome both locally and in the metrics recorder.
func (p *Pipeline) observe(result string) {
	switch result {
	case metrics.CaptureSaved:
		p.captured.Add(1)
	case metrics.CaptureThrottled:
		p.throttled.Add(1)
	case metrics.CaptureDisabled:
		p.disabled.Add(1)
	case metrics.CaptureFailed, metrics.CaptureNoSurface:
		p.failed.Add(1)
	}
	p.metrics.ObserveCapture(result)
}

// Stats returns a snapshot of the pipeline counters.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	last := p.lastCapture
	p.mu.Unlock()
	return Stats{
		Recorded:    p.recorded.Load(),
		Captured:    p.captured.Load(),
		Throttled:   p.throttled.Load(),
		Disabled:    p.disabled.Load(),
		Failed:      p.failed.Load(),
		Pending:     p.Pending(),
		LastCapture: last,
	}
}

func (p *Pipeline) logStats() {
	stats := p.Stats()
	p.logger.Debug("capture.stats",
		slog.Uint64("recorded", stats.Recorded),
		slog.Uint64("captured", stats.Captured),
		slog.Uint64("throttled", stats.Throttled),
		slog.Uint64("failed", stats.Failed),
		slog.Int("pending", stats.Pending),
	)
}

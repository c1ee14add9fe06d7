package debug

// Periodic runtime logger, started only when config.Debug is true. Logs
// goroutine count, heap and stack usage and process RSS so growth from
// background captures can be told apart from native allocations.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"

	"github.com/dustin/go-humanize"
)

// Probe contributes one extra integer attribute to every runtime log line,
// e.g. pending captures.
type Probe struct {
	Name  string
	Value func() int64
}

// StartRuntimeLogger logs runtime stats every interval until ctx ends.
func StartRuntimeLogger(ctx context.Context, interval time.Duration, logger *slog.Logger, probes ...Probe) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if logger == nil {
		return
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		var rssErrLogged bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			attrs := sample()
			rss, err := residentBytes()
			if err == nil {
				attrs = append(attrs, slog.String("rss", humanize.Bytes(rss)))
			} else if !rssErrLogged {
				logger.Warn("runtime: rss query failed", slog.String("err", err.Error()))
				rssErrLogged = true
			}
			for _, p := range probes {
				if p.Value != nil {
					attrs = append(attrs, slog.Int64(p.Name, p.Value()))
				}
			}
			logger.LogAttrs(ctx, slog.LevelInfo, "runtime", attrs...)
		}
	}()
}

func sample() []slog.Attr {
	samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
	metrics.Read(samples)
	var goroutines uint64
	if samples[0].Value.Kind() == metrics.KindUint64 {
		goroutines = samples[0].Value.Uint64()
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return []slog.Attr{
		slog.Uint64("goroutines", goroutines),
		slog.String("heap_alloc", humanize.Bytes(ms.HeapAlloc)),
		slog.String("heap_sys", humanize.Bytes(ms.HeapSys)),
		slog.String("stack_inuse", humanize.Bytes(ms.StackInuse)),
		slog.Uint64("num_gc", uint64(ms.NumGC)),
	}
}

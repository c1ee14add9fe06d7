package diagnostics

import (
	"log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Log is the session store of drop events. Insertion order is preserved and all
// methods are safe for concurrent use: the sampling goroutine appends, capture
// workers amend, and any reader may query or export at the same time.
//
// Sequence numbers keep increasing across Clear so a late amendment for an event
// recorded before the clear can never attach to a newer one.
type Log struct {
	mu      sync.RWMutex
	events  []DropEvent
	index   map[uint64]int // seq -> position in events
	nextSeq uint64
	logger  *slog.Logger
}

// NewLog returns an empty log. A nil logger discards output.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Log{index: make(map[uint64]int), logger: logger}
}

// Append stores ev at the end of the log, assigning its Seq. Any Seq set by the
// caller is ignored. The stored copy is returned.
func (l *Log) Append(ev DropEvent) DropEvent {
	if ev.DroppedFrames < 0 {
		ev.DroppedFrames = 0
	}
	l.mu.Lock()
	l.nextSeq++
	ev.Seq = l.nextSeq
	l.index[ev.Seq] = len(l.events)
	l.events = append(l.events, ev)
	l.mu.Unlock()

	l.logger.Warn("frame dropped",
		slog.Uint64("seq", ev.Seq),
		slog.Float64("duration", ev.Duration),
		slog.Float64("fps", ev.FrameRate),
		slog.Int("dropped", ev.DroppedFrames),
	)
	return ev
}

// Record builds a DropEvent without a snapshot reference and appends it.
func (l *Log) Record(ts time.Time, duration, frameRate float64, dropped int) DropEvent {
	return l.Append(DropEvent{
		Timestamp:     ts,
		Duration:      duration,
		FrameRate:     frameRate,
		DroppedFrames: dropped,
	})
}

// Amend attaches fileName to the event with the given seq. Unknown seqs, empty
// names and events that already carry a reference are ignored.
func (l *Log) Amend(seq uint64, fileName string) {
	if fileName == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.index[seq]
	if !ok || l.events[i].ScreenshotFileName != "" {
		return
	}
	l.events[i].ScreenshotFileName = fileName
}

// Find returns the event with the given seq.
func (l *Log) Find(seq uint64) (DropEvent, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i, ok := l.index[seq]
	if !ok {
		return DropEvent{}, false
	}
	return l.events[i], true
}

// FindByTime returns the first event whose timestamp equals ts.
func (l *Log) FindByTime(ts time.Time) (DropEvent, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, ev := range l.events {
		if ev.Timestamp.Equal(ts) {
			return ev, true
		}
	}
	return DropEvent{}, false
}

// Events returns a copy of all events in insertion order.
func (l *Log) Events() []DropEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]DropEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of stored events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// ExportSerialized encodes the whole log as a JSON array. It reports false when
// encoding fails; the caller decides whether that matters.
func (l *Log) ExportSerialized() ([]byte, bool) {
	events := l.Events()
	data, err := json.Marshal(events)
	if err != nil {
		l.logger.Error("diagnostics export", "error", err)
		return nil, false
	}
	return data, true
}

// Clear removes all events.
func (l *Log) Clear() {
	l.mu.Lock()
	l.events = nil
	l.index = make(map[uint64]int)
	l.mu.Unlock()
}

// Decode parses data produced by ExportSerialized.
func Decode(data []byte) ([]DropEvent, error) {
	var events []DropEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

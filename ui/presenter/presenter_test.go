package presenter

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/soocke/framewatch/config"
	"github.com/soocke/framewatch/domain/capture"
	"github.com/soocke/framewatch/domain/diagnostics"
	"github.com/soocke/framewatch/ui/model"
)

type mockOverlayView struct {
	visible []bool
	fps     []float64
	health  []config.Health
	cleared int
}

func (v *mockOverlayView) SetVisible(b bool) { v.visible = append(v.visible, b) }
func (v *mockOverlayView) SetFPS(fps float64, h config.Health) {
	v.fps = append(v.fps, fps)
	v.health = append(v.health, h)
}
func (v *mockOverlayView) Clear() { v.cleared++ }

var _ OverlayView = (*mockOverlayView)(nil)

func TestOverlayPresenter_FlushesOnTick(t *testing.T) {
	view := &mockOverlayView{}
	cfg := config.DefaultConfig()
	p := NewOverlayPresenter(&model.FPSModel{}, view, cfg)

	p.Tick()
	if len(view.visible) != 0 {
		t.Fatal("clean model should not touch the view")
	}
	p.Show()
	p.Tick()
	if len(view.visible) != 1 || !view.visible[0] || view.cleared != 1 {
		t.Fatalf("show not flushed: %+v", view)
	}

	p.Update(48)
	p.Update(20) // only the latest reading is shown
	p.Tick()
	if len(view.fps) != 1 || view.fps[0] != 20 || view.health[0] != config.HealthCritical {
		t.Fatalf("unexpected readings %+v", view)
	}
	p.Update(46)
	p.Tick()
	if view.health[1] != config.HealthGood {
		t.Fatalf("46/50 should be good, got %v", view.health[1])
	}

	p.Remove()
	p.Tick()
	if last := view.visible[len(view.visible)-1]; last {
		t.Fatal("remove did not hide the overlay")
	}
}

type mockStats struct{ st capture.Stats }

func (m *mockStats) Stats() capture.Stats { return m.st }

type mockEvents struct{ evs []diagnostics.DropEvent }

func (m *mockEvents) Events() []diagnostics.DropEvent { return m.evs }

type mockThumbs struct {
	loads []string
	err   error
}

func (m *mockThumbs) Thumbnail(name string, maxPx int) (image.Image, error) {
	m.loads = append(m.loads, name)
	if m.err != nil {
		return nil, m.err
	}
	return image.NewRGBA(image.Rect(0, 0, maxPx, maxPx/2)), nil
}

type mockPause struct{ paused bool }

func (m *mockPause) Paused() bool { return m.paused }

type mockStatsView struct {
	drops    int
	lastDrop [3]int
	paused   []bool
	shown    []uint64
}

func (v *mockStatsView) SetDrops(events int, captured uint64, pending int) {
	v.drops++
	v.lastDrop = [3]int{events, int(captured), pending}
}
func (v *mockStatsView) SetPaused(p bool) { v.paused = append(v.paused, p) }
func (v *mockStatsView) ShowSnapshot(_ image.Image, ev diagnostics.DropEvent) {
	v.shown = append(v.shown, ev.Seq)
}

var (
	_ StatsSource     = (*mockStats)(nil)
	_ EventSource     = (*mockEvents)(nil)
	_ ThumbnailLoader = (*mockThumbs)(nil)
	_ StatsView       = (*mockStatsView)(nil)
)

func TestStatsPresenter_UpdatesOnChange(t *testing.T) {
	stats := &mockStats{}
	events := &mockEvents{}
	thumbs := &mockThumbs{}
	pause := &mockPause{}
	view := &mockStatsView{}
	p := NewStatsPresenter(stats, events, thumbs, pause, view)

	p.Tick()
	p.Tick()
	if view.drops != 1 || len(view.paused) != 1 {
		t.Fatalf("expected one initial push, got drops=%d paused=%v", view.drops, view.paused)
	}

	events.evs = []diagnostics.DropEvent{
		{Seq: 1, ScreenshotFileName: "framewatch_1_1.jpg"},
		{Seq: 2},
	}
	stats.st = capture.Stats{Recorded: 2, Captured: 1}
	p.Tick()
	if view.lastDrop != [3]int{2, 1, 0} {
		t.Fatalf("unexpected counters %v", view.lastDrop)
	}
	if len(view.shown) != 1 || view.shown[0] != 1 {
		t.Fatalf("latest snapshot not shown: %v", view.shown)
	}

	pause.paused = true
	p.Tick()
	if len(view.paused) != 2 || !view.paused[1] {
		t.Fatalf("pause change not pushed: %v", view.paused)
	}
	if len(thumbs.loads) != 1 {
		t.Fatalf("thumbnail reloaded without a new capture: %v", thumbs.loads)
	}
}

func TestStatsPresenter_ThumbnailErrorRetries(t *testing.T) {
	stats := &mockStats{st: capture.Stats{Recorded: 1, Captured: 1}}
	events := &mockEvents{evs: []diagnostics.DropEvent{{Seq: 1, ScreenshotFileName: "a.jpg"}}}
	thumbs := &mockThumbs{err: errors.New("gone")}
	view := &mockStatsView{}
	p := NewStatsPresenter(stats, events, thumbs, nil, view)
	p.Tick()
	if len(view.shown) != 0 {
		t.Fatal("failed thumbnail should not be shown")
	}
	thumbs.err = nil
	events.evs = append(events.evs, diagnostics.DropEvent{Seq: 2, ScreenshotFileName: "b.jpg"})
	stats.st.Captured = 2
	p.Tick()
	if len(view.shown) != 1 || view.shown[0] != 2 {
		t.Fatalf("expected seq 2 shown, got %v", view.shown)
	}
}

func TestLoop_DrainsBeforeFlushing(t *testing.T) {
	var order []string
	view := &mockOverlayView{}
	overlay := NewOverlayPresenter(nil, view, nil)
	overlay.Show()
	var budget time.Duration
	l := NewLoop(overlay, nil, func(b time.Duration) int {
		budget = b
		order = append(order, "drain")
		overlay.Update(50)
		return 1
	}, func() { order = append(order, "schedule") })
	l.Tick()
	if len(order) != 2 || order[0] != "drain" || order[1] != "schedule" {
		t.Fatalf("unexpected order %v", order)
	}
	if budget <= 0 {
		t.Fatal("drain budget not set")
	}
	if len(view.fps) != 1 || view.fps[0] != 50 {
		t.Fatalf("reading queued during drain not flushed: %v", view.fps)
	}

	var nilLoop *Loop
	nilLoop.Tick()
}

package view

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/soocke/framewatch/domain/diagnostics"
	"github.com/soocke/framewatch/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the control window: drop counters, pause and export
// buttons and a preview of the newest snapshot. It satisfies the stats
// presenter's view contract.
type RootView struct {
	logger *slog.Logger

	StateLabel   *LabelWidget
	dropsLabel   *LabelWidget
	capturedLbl  *LabelWidget
	pendingLabel *LabelWidget
	pauseBtn     *ButtonWidget
	preview      *snapshotPreview
}

func NewRootView(logger *slog.Logger) *RootView {
	return &RootView{logger: logger}
}

// Build constructs the layout. Handlers are invoked on the Tk goroutine.
func (rv *RootView) Build(title string, onTogglePause, onExport, onExit func()) {
	if rv == nil {
		return
	}
	theme.InitStyles()
	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", onExit)

	rv.StateLabel = Label(Txt("Monitoring"), Borderwidth(1), Relief("ridge"))
	Grid(rv.StateLabel, Row(0), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.dropsLabel = Label(Txt("Drops: 0"), Width(12))
	Grid(rv.dropsLabel, Row(0), Column(1), Sticky("w"), Padx("0.2m"))
	rv.capturedLbl = Label(Txt("Snapshots: 0"), Width(14))
	Grid(rv.capturedLbl, Row(0), Column(2), Sticky("w"), Padx("0.2m"))
	rv.pendingLabel = Label(Txt("Pending: 0"), Width(12))
	Grid(rv.pendingLabel, Row(0), Column(3), Sticky("w"), Padx("0.2m"))

	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(4), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	rv.pauseBtn = Button(Txt("Pause"), Command(onTogglePause))
	Grid(rv.pauseBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exportBtn := Button(Txt("Export"), Command(onExport))
	Grid(exportBtn, In(btnFrame), Row(1), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exitBtn := Button(Txt("Exit"), Command(onExit), Background(theme.CurrentPalette().Danger), Foreground("white"))
	Grid(exitBtn, In(btnFrame), Row(2), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	rv.preview = newSnapshotPreview(1)
}

// SetDrops updates the counters.
func (rv *RootView) SetDrops(events int, captured uint64, pending int) {
	if rv == nil || rv.dropsLabel == nil {
		return
	}
	rv.dropsLabel.Configure(Txt(fmt.Sprintf("Drops: %s", humanize.Comma(int64(events)))))
	rv.capturedLbl.Configure(Txt(fmt.Sprintf("Snapshots: %s", humanize.Comma(int64(captured)))))
	rv.pendingLabel.Configure(Txt(fmt.Sprintf("Pending: %d", pending)))
}

// SetPaused reflects the pause flag in the state label and button.
func (rv *RootView) SetPaused(paused bool) {
	if rv == nil || rv.StateLabel == nil {
		return
	}
	if paused {
		rv.StateLabel.Configure(Txt("Paused"))
		rv.pauseBtn.Configure(Txt("Resume"))
		return
	}
	rv.StateLabel.Configure(Txt("Monitoring"))
	rv.pauseBtn.Configure(Txt("Pause"))
}

// ShowSnapshot displays the newest snapshot with a caption describing its window.
func (rv *RootView) ShowSnapshot(img image.Image, ev diagnostics.DropEvent) {
	if rv == nil {
		return
	}
	caption := fmt.Sprintf("#%d  %s  %.1f FPS, %d dropped", ev.Seq, humanize.Time(ev.Timestamp), ev.FrameRate, ev.DroppedFrames)
	rv.preview.update(img, caption)
}

// SetStatus shows a transient message, e.g. an export result.
func (rv *RootView) SetStatus(text string) {
	if rv == nil || rv.StateLabel == nil {
		return
	}
	rv.StateLabel.Configure(Txt(text))
}

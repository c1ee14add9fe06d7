package view

import (
	"fmt"
	"math"

	"github.com/soocke/framewatch/config"
	"github.com/soocke/framewatch/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Overlay is the floating FPS HUD. It is created on the first SetVisible(true)
// and destroyed on SetVisible(false). Must be used from the Tk goroutine.
type Overlay struct {
	x, y  int
	win   *ToplevelWidget
	label *LabelWidget
}

// NewOverlay returns a hidden HUD placed at screen position (x, y).
func NewOverlay(x, y int) *Overlay { return &Overlay{x: x, y: y} }

// SetVisible shows or removes the HUD window.
func (o *Overlay) SetVisible(visible bool) {
	if o == nil {
		return
	}
	if !visible {
		o.destroy()
		return
	}
	if o.win != nil {
		return
	}
	win := App.Toplevel(Borderwidth(0), Background(theme.ColorHUDBg))
	win.WmTitle("FPS")
	WmGeometry(win.Window, fmt.Sprintf("+%d+%d", o.x, o.y))
	WmAttributes(win.Window, "-topmost", 1)
	WmAttributes(win.Window, "-alpha", 0.8)
	o.label = win.Label(Txt("-- FPS"), Width(8), Anchor("center"),
		Font("helvetica", 18, "bold"),
		Background(theme.ColorHUDBg), Foreground(theme.ColorTextMuted))
	Pack(o.label, Padx("2m"), Pady("1m"))
	o.win = win
}

// SetFPS shows a reading coloured by its grade.
func (o *Overlay) SetFPS(fps float64, health config.Health) {
	if o == nil || o.label == nil {
		return
	}
	o.label.Configure(Txt(fmt.Sprintf("%d FPS", int(math.Round(fps)))), Foreground(theme.HealthColor(health)))
}

// Clear resets the label to its placeholder.
func (o *Overlay) Clear() {
	if o == nil || o.label == nil {
		return
	}
	o.label.Configure(Txt("-- FPS"), Foreground(theme.ColorTextMuted))
}

func (o *Overlay) destroy() {
	if o.win != nil {
		Destroy(o.win)
	}
	o.win, o.label = nil, nil
}

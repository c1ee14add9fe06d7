package presenter

import (
	"github.com/soocke/framewatch/config"
	"github.com/soocke/framewatch/domain/cadence"
	"github.com/soocke/framewatch/ui/model"
)

// OverlayView renders the FPS HUD. Methods are called on the UI goroutine.
type OverlayView interface {
	SetVisible(visible bool)
	SetFPS(fps float64, health config.Health)
	Clear()
}

// OverlayPresenter receives readings from the sampler on the refresh goroutine
// and flushes them to the view on the UI tick.
type OverlayPresenter struct {
	model *model.FPSModel
	view  OverlayView
	cfg   *config.Config
}

// NewOverlayPresenter returns a presenter grading readings against cfg's
// target. A nil cfg grades against the default target.
func NewOverlayPresenter(m *model.FPSModel, view OverlayView, cfg *config.Config) *OverlayPresenter {
	if m == nil {
		m = &model.FPSModel{}
	}
	return &OverlayPresenter{model: m, view: view, cfg: cfg}
}

// SetView attaches the view once the UI has been built.
func (p *OverlayPresenter) SetView(v OverlayView) { p.view = v }

var _ cadence.OverlaySink = (*OverlayPresenter)(nil)

func (p *OverlayPresenter) Show()              { p.model.SetVisible(true) }
func (p *OverlayPresenter) Update(fps float64) { p.model.Set(fps) }
func (p *OverlayPresenter) Remove()            { p.model.SetVisible(false) }

// Tick pushes pending changes to the view.
func (p *OverlayPresenter) Tick() {
	if p == nil || p.view == nil || !p.model.TakeDirty() {
		return
	}
	if !p.model.Visible() {
		p.view.SetVisible(false)
		return
	}
	p.view.SetVisible(true)
	fps, ok := p.model.Value()
	if !ok {
		p.view.Clear()
		return
	}
	p.view.SetFPS(fps, p.cfg.HealthFor(fps))
}

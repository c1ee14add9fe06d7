package cadence

import (
	"context"
	"log/slog"

	"github.com/soocke/framewatch/lifecycle"
)

// PauseTarget is the part of the sampler the suspension controller drives.
type PauseTarget interface {
	Running() bool
	Paused() bool
	SetPaused(bool)
}

// Suspension maps host lifecycle signals onto the sampler's pause flag. Both
// handlers do nothing while the sampler is stopped and ignore repeats.
type Suspension struct {
	target PauseTarget
	logger *slog.Logger
}

func NewSuspension(target PauseTarget, logger *slog.Logger) *Suspension {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Suspension{target: target, logger: logger}
}

// OnActive resumes sampling.
func (c *Suspension) OnActive() {
	if c == nil || c.target == nil || !c.target.Running() || !c.target.Paused() {
		return
	}
	c.logger.Debug("host active, resuming monitoring")
	c.target.SetPaused(false)
}

// OnSuspend pauses sampling.
func (c *Suspension) OnSuspend() {
	if c == nil || c.target == nil || !c.target.Running() || c.target.Paused() {
		return
	}
	c.logger.Debug("host suspended, pausing monitoring")
	c.target.SetPaused(true)
}

// Watch dispatches events until ctx ends or the channel closes.
func (c *Suspension) Watch(ctx context.Context, events <-chan lifecycle.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev {
			case lifecycle.Active:
				c.OnActive()
			case lifecycle.Suspended:
				c.OnSuspend()
			}
		}
	}
}

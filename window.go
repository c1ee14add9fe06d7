package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/soocke/framewatch/app"
	"github.com/soocke/framewatch/config"
	"github.com/soocke/framewatch/ui/model"
	"github.com/soocke/framewatch/ui/presenter"
	"github.com/soocke/framewatch/ui/view"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const tick = 50 * time.Millisecond

// runWindow runs the Tk control window and FPS HUD. The Tk event loop goroutine
// owns the snapshot surface: every tick drains the session queue.
func runWindow(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	overlay := presenter.NewOverlayPresenter(&model.FPSModel{}, nil, cfg)
	s, err := newSession(cfg, logger, app.Deps{Overlay: overlay})
	if err != nil {
		return err
	}

	root := view.NewRootView(logger)
	var afterID string
	exit := func() {
		if afterID != "" {
			TclAfterCancel(afterID)
			afterID = ""
		}
		Destroy(App)
	}
	root.Build("FrameWatch", func() { s.TogglePause() }, func() {
		if path, err := s.Export(""); err != nil {
			root.SetStatus("Export failed")
		} else {
			logger.Info("export", "file", path)
			root.SetStatus("Exported")
		}
	}, exit)
	overlay.SetView(view.NewOverlay(40, 40))

	stats := presenter.NewStatsPresenter(s.Pipeline, s.Log, s.Snapshots, s.Sampler, root)
	var loop *presenter.Loop
	loop = presenter.NewLoop(overlay, stats, s.Queue.DrainFor, func() {
		if ctx.Err() != nil {
			exit()
			return
		}
		afterID = TclAfter(tick, loop.Tick)
	})

	s.Start(ctx)
	loop.Tick()
	App.Wait()

	shutdown(s, logger)
	return nil
}

package main

import (
	"context"

	"github.com/Carmen-Shannon/oiishi/engine"
	"github.com/Carmen-Shannon/oiishi/engine/exporter"
	"github.com/Carmen-Shannon/oiishi/engine/viewer"
)

// fixedContainer is a container that never resizes.
type fixedContainer struct {
	width, height int
}

func (c fixedContainer) Bounds() (int, int) {
	return c.width, c.height
}

// headless is a viewer on the software renderer driven by a manually ticked loop.
type headless struct {
	loop   engine.Loop
	viewer viewer.Viewer
}

// openHeadless opens a viewer of the given size without a window. Frames only advance
// through step.
func (a *app) openHeadless(ctx context.Context, width, height int, d exporter.Downloader) (*headless, error) {
	loop := engine.NewLoop(engine.WithManualTicks(), engine.WithLogger(a.logger))
	loop.Run()

	v, err := viewer.Open(ctx, viewer.Host{
		Container:        fixedContainer{width: width, height: height},
		Scheduler:        loop,
		Renderers:        viewer.SoftwareRenderers(a.rendererOptions()...),
		Downloader:       d,
		DevicePixelRatio: float32(max(a.cfg.Viewer.PixelRatio, 1)),
	}, a.viewerOptions()...)
	if err != nil {
		loop.Quit()
		return nil, err
	}
	return &headless{loop: loop, viewer: v}, nil
}

// step renders n frames.
func (h *headless) step(n int) {
	for range n {
		if !h.loop.Tick() {
			return
		}
	}
}

func (h *headless) close() {
	h.viewer.Close()
	h.loop.Quit()
}

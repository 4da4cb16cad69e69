package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine"
	"github.com/Carmen-Shannon/oiishi/engine/exporter"
	"github.com/Carmen-Shannon/oiishi/engine/profiler"
	"github.com/Carmen-Shannon/oiishi/engine/viewer"
	"github.com/Carmen-Shannon/oiishi/engine/window"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Open the interactive bottle viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runView(cmd)
		},
	}
}

func (a *app) runView(cmd *cobra.Command) error {
	cfg := a.cfg

	loopOptions := []engine.EngineBuilderOption{
		engine.WithTickRate(cfg.Render.TickRate),
		engine.WithLogger(a.logger),
	}
	if cfg.Render.Profile || cfg.Metrics.Enabled {
		profilerOptions := []profiler.ProfilerBuilderOption{
			profiler.WithInterval(cfg.Render.ProfileInterval),
			profiler.WithLogger(a.logger),
		}
		if cfg.Metrics.Enabled {
			reg := newMetricsRegistry()
			profilerOptions = append(profilerOptions, profiler.WithRegisterer(reg))
			metrics := startMetricsServer(cfg.Metrics.Addr, reg, a.logger)
			defer metrics.shutdown()
		}
		loopOptions = append(loopOptions, engine.WithProfiler(profiler.NewProfiler(profilerOptions...)))
	}
	loop := engine.NewLoop(loopOptions...)

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithDispatcher(loop.Post),
	)
	if err != nil {
		return fmt.Errorf("open window: %w", err)
	}
	defer func() {
		if err := win.Close(); err != nil {
			a.logger.Warn("close window", zap.Error(err))
		}
	}()

	loop.Run()
	defer loop.Quit()

	dpr := float32(cfg.Viewer.PixelRatio)
	if dpr <= 0 {
		dpr = win.PixelRatio()
	}

	renderers := viewer.WGPURenderers(win, a.rendererOptions()...)
	if cfg.Render.Backend == "software" {
		renderers = viewer.SoftwareRenderers(a.rendererOptions()...)
	}

	v, err := viewer.Open(cmd.Context(), viewer.Host{
		Container:        win,
		SizeObserver:     win,
		Scheduler:        loop,
		Pointer:          win,
		Export:           win,
		Renderers:        renderers,
		Downloader:       exporter.NewFileDownloader(cfg.Export.Dir),
		DevicePixelRatio: dpr,
	}, a.viewerOptions()...)
	if err != nil {
		return err
	}
	defer v.Close()

	win.SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeyR:
			v.ResetView()
		case common.KeySpace:
			v.SetSpinning(!v.Spinning())
		}
	})

	ctx := cmd.Context()
	win.SetUpdateCallback(func() {
		if ctx.Err() != nil {
			win.RequestClose()
		}
		select {
		case <-loop.Done():
			win.RequestClose()
		default:
		}
	})

	win.ProcessMessages()
	return nil
}

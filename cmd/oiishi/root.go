package main

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oiishi/config"
	"github.com/Carmen-Shannon/oiishi/engine/renderer"
	"github.com/Carmen-Shannon/oiishi/engine/viewer"
	"github.com/Carmen-Shannon/oiishi/storefront"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the state shared by every subcommand once the configuration is loaded.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "oiishi",
		Short: "OIISHI sauce bottle viewer",
		Long: `oiishi renders the OIISHI Limited Batch Original Sauce bottle.

Run "oiishi view" for the interactive viewer: drag to orbit, scroll to zoom,
E exports the scene as GLB, R resets the camera, Space pauses the spin and
Esc quits.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		newViewCmd(a),
		newExportCmd(a),
		newSnapshotCmd(a),
		newLabelCmd(a),
		newInspectCmd(a),
		newSpinCmd(a),
		newShopCmd(a),
		newReviewsCmd(a),
		newRecipesCmd(a),
	)
	return root
}

// setup loads the configuration and builds the logger.
func (a *app) setup() error {
	cfg, err := config.NewLoader().WithConfigPath(a.configPath).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	a.logger = config.NewLogger(cfg.Log)
	return nil
}

// fixtures loads the storefront data, honouring a configured override file.
func (a *app) fixtures() (*storefront.Fixtures, error) {
	return storefront.LoadFixturesFile(a.cfg.Storefront.FixturesPath)
}

// rendererOptions maps the render config onto renderer options.
func (a *app) rendererOptions() []renderer.RendererBuilderOption {
	r := a.cfg.Render
	opts := []renderer.RendererBuilderOption{
		renderer.WithMSAA(renderer.MSAASampleCount(r.MSAA)),
		renderer.WithForceFallbackAdapter(r.ForceFallback),
	}
	if r.Workers > 0 {
		opts = append(opts, renderer.WithWorkers(r.Workers))
	}
	if r.PresentMode == "uncapped" {
		opts = append(opts, renderer.WithPresentMode(renderer.PresentModeUncapped))
	}
	return opts
}

// viewerOptions maps the viewer and export config onto viewer options.
func (a *app) viewerOptions() []viewer.ViewerBuilderOption {
	return []viewer.ViewerBuilderOption{
		viewer.WithLogger(a.logger),
		viewer.WithSpinSpeed(float32(a.cfg.Viewer.SpinSpeed)),
		viewer.WithSpinning(a.cfg.Viewer.Spinning),
		viewer.WithDampingFactor(float32(a.cfg.Viewer.DampingFactor)),
		viewer.WithExportOptions(a.exportOptions()...),
	}
}

func writeLine(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}

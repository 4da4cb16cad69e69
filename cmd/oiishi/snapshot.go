package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var (
		out    string
		width  int
		height int
		frames int
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the bottle headlessly and save a PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("snapshot size must be positive, got %dx%d", width, height)
			}
			h, err := a.openHeadless(cmd.Context(), width, height, nil)
			if err != nil {
				return err
			}
			defer h.close()

			h.step(max(frames, 1))
			img, err := h.viewer.Renderer().Snapshot()
			if err != nil {
				return fmt.Errorf("snapshot: %w", err)
			}
			if err := writePNG(out, img); err != nil {
				return err
			}
			stats := h.viewer.Renderer().Stats()
			a.logger.Debug("snapshot rendered",
				zap.Int("drawn", stats.Drawn),
				zap.Int("culled", stats.Culled),
				zap.Int("triangles", stats.Triangles),
			)
			writeLine(cmd.OutOrStdout(), "wrote %s (%dx%d)", out, img.Bounds().Dx(), img.Bounds().Dy())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "oishii_bottle.png", "output PNG path")
	cmd.Flags().IntVar(&width, "width", 800, "image width in logical pixels")
	cmd.Flags().IntVar(&height, "height", 800, "image height in logical pixels")
	cmd.Flags().IntVar(&frames, "frames", 1, "frames to render first; each spins the bottle")
	return cmd
}

// writePNG encodes img to path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

package main

import (
	"github.com/Carmen-Shannon/oiishi/engine/label"
	"github.com/spf13/cobra"
)

func newLabelCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Draw the bottle label texture to a PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			tex := label.Build(label.WithLogger(a.logger))
			defer tex.Dispose()
			if tex.Blank() {
				a.logger.Warn("label drawn blank")
			}
			if err := writePNG(out, tex.Image()); err != nil {
				return err
			}
			writeLine(cmd.OutOrStdout(), "wrote %s (%dx%d)", out, tex.Width(), tex.Height())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "oishii_label.png", "output PNG path")
	return cmd
}

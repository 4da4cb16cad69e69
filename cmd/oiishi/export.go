package main

import (
	"github.com/Carmen-Shannon/oiishi/engine/exporter"
	"github.com/spf13/cobra"
)

func (a *app) exportOptions() []exporter.ExporterBuilderOption {
	e := a.cfg.Export
	name := e.FileName
	if !e.Binary && name == exporter.FileName {
		name = ""
	}
	return []exporter.ExporterBuilderOption{
		exporter.WithBinary(e.Binary),
		exporter.WithOnlyVisible(e.OnlyVisible),
		exporter.WithFileName(name),
		exporter.WithLogger(a.logger),
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		dir  string
		name string
		json bool
		all  bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the bottle scene as glTF without opening a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("dir") {
				a.cfg.Export.Dir = dir
			}
			if flags.Changed("name") {
				a.cfg.Export.FileName = name
			}
			if flags.Changed("json") {
				a.cfg.Export.Binary = !json
			}
			if flags.Changed("all") {
				a.cfg.Export.OnlyVisible = !all
			}

			d := &recordingDownloader{FileDownloader: exporter.NewFileDownloader(a.cfg.Export.Dir)}
			h, err := a.openHeadless(cmd.Context(), 1, 1, d)
			if err != nil {
				return err
			}
			defer h.close()

			if err := h.viewer.Export(cmd.Context()); err != nil {
				return err
			}
			writeLine(cmd.OutOrStdout(), "wrote %s (%d bytes)", d.path, d.size)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "o", ".", "output directory")
	cmd.Flags().StringVar(&name, "name", exporter.FileName, "output file name")
	cmd.Flags().BoolVar(&json, "json", false, "write glTF JSON instead of GLB")
	cmd.Flags().BoolVar(&all, "all", false, "include hidden nodes")
	return cmd
}

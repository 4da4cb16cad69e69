package main

import (
	"bytes"
	"fmt"

	"github.com/Carmen-Shannon/oiishi/engine/bottle"
	"github.com/Carmen-Shannon/oiishi/engine/exporter"
	"github.com/Carmen-Shannon/oiishi/engine/loader"
	"github.com/spf13/cobra"
)

// maxAnisotropy reports a fixed anisotropy level to the assembler when no renderer exists.
type maxAnisotropy uint16

func (m maxAnisotropy) MaxAnisotropy() uint16 {
	return uint16(m)
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file.glb]",
		Short: "Summarize a glTF file, or the built-in bottle scene when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := loader.NewLoader(loader.BackendTypeGLTF, loader.WithLogger(a.logger))

			var s *loader.Summary
			var err error
			if len(args) == 1 {
				s, err = l.Load(args[0])
			} else {
				s, err = inspectBuiltin(a, l)
			}
			if err != nil {
				return err
			}
			return s.WriteText(cmd.OutOrStdout())
		},
	}
}

// inspectBuiltin assembles the bottle, encodes it and reads the result back.
func inspectBuiltin(a *app, l loader.Loader) (*loader.Summary, error) {
	assembly := bottle.Assemble(maxAnisotropy(16), bottle.WithLogger(a.logger))
	defer func() {
		for _, g := range assembly.Geometries() {
			g.Dispose()
		}
		for _, m := range assembly.Materials() {
			m.Dispose()
		}
		for _, t := range assembly.Textures() {
			t.Dispose()
		}
	}()

	data, err := exporter.Encode(assembly.Scene.Root())
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return l.LoadReader(exporter.FileName, bytes.NewReader(data))
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/pipeline"
)

func newProjectCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "project [model.glb|points.json]",
		Short: "Print the NDC and pixel position of every vertex and their bounding box",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.project(cmd, args)
			if err != nil {
				return err
			}
			if asJSON {
				return rep.WriteJSON(cmd.OutOrStdout())
			}
			return rep.WriteText(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the report as JSON")
	return cmd
}

// project runs the pipeline on a scene or, for a .json argument, on raw
// matrices and points.
func (a *app) project(cmd *cobra.Command, args []string) (*pipeline.Report, error) {
	ctx := cmd.Context()
	if isPointsFile(args) {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		pf, err := pipeline.DecodePoints(f)
		if err != nil {
			return nil, err
		}
		return pipeline.RunPoints(ctx, pf, a.cfg.Render.Projection(), a.cfg.Workers)
	}

	scn, err := a.loadScene(args)
	if err != nil {
		return nil, err
	}
	return pipeline.Run(ctx, scn, a.options())
}

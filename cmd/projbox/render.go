package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		out   string
		scale float64
	)

	cmd := &cobra.Command{
		Use:   "render [model.glb|points.json]",
		Short: "Write a PNG overlay of the projected vertices and their bounding box",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.project(cmd, args)
			if err != nil {
				return err
			}

			w := max(int(float64(rep.ResolutionX)*scale), 1)
			h := max(int(float64(rep.ResolutionY)*scale), 1)
			fb := render.NewFramebuffer(w, h)
			render.DrawOverlay(fb, rep.Overlay(), render.DefaultPalette)
			if err := fb.SavePNG(out); err != nil {
				return err
			}

			log.Info().Str("file", out).Int("width", w).Int("height", h).Stringer("box", rep.Box).Msg("overlay written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "overlay.png", "PNG file to write")
	cmd.Flags().Float64Var(&scale, "scale", 1, "output size relative to the render resolution")
	return cmd
}

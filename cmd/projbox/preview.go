package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/bounds"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/math3d"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/projection"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/render"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/scene"
)

// orbitStep is how far one key press turns the camera around the scene.
const orbitStep = math.Pi / 12

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview [model.glb]",
		Short: "Show the projection in the terminal; left/right orbit the camera, q quits",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scn, err := a.loadScene(args)
			if err != nil {
				return err
			}
			cam, err := scn.Camera(a.cfg.Camera)
			if err != nil {
				return err
			}
			if !cam.IsCamera() {
				return fmt.Errorf("%q: %w", cam.Name, projection.ErrNotACamera)
			}
			geo, err := collectGeometry(scn, a.cfg.Object, a.cfg.SelectedOnly)
			if err != nil {
				return err
			}
			return runPreview(cmd.Context(), cam, geo, a.cfg.FPS)
		},
	}
}

// geometry is every world-space point drawn by the preview plus the mesh
// edges between them.
type geometry struct {
	points []math3d.Vec3
	edges  [][2]int
	center math3d.Vec3
}

func collectGeometry(scn *scene.Scene, name string, selectedOnly bool) (geometry, error) {
	var objs []*scene.Object
	if name != "" {
		o, err := scn.Object(name)
		if err != nil {
			return geometry{}, err
		}
		objs = append(objs, o)
	} else {
		objs = scn.Meshes()
	}

	var g geometry
	for _, o := range objs {
		world, indices, err := o.WorldVertices(selectedOnly)
		if err != nil {
			return geometry{}, err
		}
		slot := make(map[int]int, len(indices))
		for i, idx := range indices {
			slot[idx] = len(g.points) + i
		}
		g.points = append(g.points, world...)
		for _, e := range o.Mesh.Edges() {
			a, okA := slot[e[0]]
			b, okB := slot[e[1]]
			if okA && okB {
				g.edges = append(g.edges, [2]int{a, b})
			}
		}
	}
	if len(g.points) == 0 {
		return geometry{}, errors.New("nothing to preview: no vertices")
	}
	box := render.AABBOf(g.points)
	g.center = box.Min.Add(box.Max).Scale(0.5)
	return g, nil
}

// orbit turns the camera about the vertical axis through the scene center.
// The angle follows its target on a critically damped spring.
type orbit struct {
	angle, velocity, target float64
	spring                  harmonica.Spring
}

func newOrbit(fps int) *orbit {
	return &orbit{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

func (o *orbit) update() {
	o.angle, o.velocity = o.spring.Update(o.angle, o.velocity, o.target)
}

// transform rotates a world matrix about the Z axis through center.
func (o *orbit) transform(world math3d.Mat4, center math3d.Vec3) math3d.Mat4 {
	return math3d.Translate(center).
		Mul(math3d.RotateZ(o.angle)).
		Mul(math3d.Translate(center.Negate())).
		Mul(world)
}

// frame projects the geometry into a w x h framebuffer. The region
// transform puts y up; framebuffer rows grow downward.
func frame(cam *scene.Object, g geometry, o *orbit, w, h int) (render.Overlay, error) {
	r := projection.NewRender(w, h)
	ct, err := cam.Camera.Transform(o.transform(cam.WorldMatrix(), g.center), r)
	if err != nil {
		return render.Overlay{}, err
	}
	vp := projection.Viewport{Width: float64(w - 1), Height: float64(h - 1)}
	frustum := render.FrustumOf(ct)
	agg := bounds.NewAggregator(w, h)

	ov := render.Overlay{ResolutionX: w, ResolutionY: h, Edges: g.edges}
	ov.Marks = make([]render.Mark, len(g.points))
	for i, p := range g.points {
		region := projection.ViewportTransform(vp, projection.Clip(ct, p))
		px := projection.Pixel{X: region.X, Y: float64(h-1) - region.Y}
		visible := frustum.ContainsPoint(p)
		ov.Marks[i] = render.Mark{Pixel: px, Visible: visible}
		if visible {
			agg.Add(px)
		}
	}
	ov.Box, ov.HasBox = agg.Box()
	return ov, nil
}

func runPreview(ctx context.Context, cam *scene.Object, g geometry, fps int) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	orb := newOrbit(fps)
	resized := make(chan uv.Rectangle, 1)
	// Key handling runs on the event goroutine; orbit targets are applied
	// on the render loop.
	targets := make(chan func(float64) float64, 8)
	steer := func(f func(float64) float64) {
		select {
		case targets <- f:
		default:
		}
	}

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				select {
				case resized <- uv.Rect(0, 0, ev.Width, ev.Height):
				default:
				}
			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("q", "escape", "ctrl+c"):
					cancel()
					return
				case ev.MatchString("left", "a"):
					steer(func(t float64) float64 { return t - orbitStep })
				case ev.MatchString("right", "d"):
					steer(func(t float64) float64 { return t + orbitStep })
				case ev.MatchString("r"):
					steer(func(float64) float64 { return 0 })
				}
			}
		}
	}()

	area := uv.Rect(0, 0, width, height)
	fbW, fbH := render.TerminalSize(area)
	fb := render.NewFramebuffer(fbW, fbH)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		case area = <-resized:
			term.Erase()
			term.Resize(area.Dx(), area.Dy())
			fbW, fbH = render.TerminalSize(area)
			fb = render.NewFramebuffer(fbW, fbH)
			continue
		case f := <-targets:
			orb.target = f(orb.target)
			continue
		case <-ticker.C:
		}

		orb.update()
		ov, err := frame(cam, g, orb, fbW, fbH)
		if err != nil {
			cleanup()
			return err
		}
		render.DrawOverlay(fb, ov, render.DefaultPalette)
		fb.Draw(term, area)
		if err := term.Display(); err != nil {
			cleanup()
			return fmt.Errorf("display: %w", err)
		}
		log.Trace().Float64("yaw", orb.angle).Stringer("box", ov.Box).Msg("frame")
	}
}

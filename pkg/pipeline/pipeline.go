// Package pipeline runs the full projection: resolve a camera in a scene,
// lift mesh vertices to world space, project them to pixels, and fold the
// results into a bounding box.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/bounds"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/math3d"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/projection"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/render"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/scene"
)

// ErrNoMeshes is returned when there is nothing to project.
var ErrNoMeshes = errors.New("no mesh objects to project")

// Options selects what Run projects.
type Options struct {
	Camera       string // Empty uses the scene's active camera
	Object       string // Empty projects every mesh object
	SelectedOnly bool
	Workers      int
}

// Vertex is the projection of a single mesh vertex.
type Vertex struct {
	Object  string           `json:"object"`
	Index   int              `json:"index"`
	World   math3d.Vec3      `json:"world"`
	NDC     projection.NDC   `json:"ndc"`
	Pixel   projection.Pixel `json:"pixel"`
	Visible bool             `json:"visible"`
	Err     error            `json:"-"`
}

// OK reports whether the vertex projected.
func (v Vertex) OK() bool { return v.Err == nil }

// Report is the result of a Run.
type Report struct {
	Camera      string `json:"camera"`
	ResolutionX int    `json:"resolution_x"`
	ResolutionY int    `json:"resolution_y"`

	Vertices []Vertex   `json:"vertices"`
	Edges    [][2]int   `json:"edges,omitempty"` // Index pairs into Vertices
	Box      bounds.Box `json:"box"`

	// Empty is true when no vertex projected, in which case Box is the
	// inverted initial box.
	Empty   bool `json:"empty"`
	Skipped int  `json:"skipped"`
}

// Run projects the mesh vertices selected by opts through the scene camera.
func Run(ctx context.Context, scn *scene.Scene, opts Options) (*Report, error) {
	r := scn.Render
	if err := r.Validate(); err != nil {
		return nil, err
	}

	cam, err := scn.Camera(opts.Camera)
	if err != nil {
		return nil, fmt.Errorf("resolve camera: %w", err)
	}
	ct, err := projection.FromSource(cam, r)
	if err != nil {
		return nil, fmt.Errorf("camera transform: %w", err)
	}

	objects, err := targets(scn, opts.Object)
	if err != nil {
		return nil, err
	}

	logger := log.With().Str("camera", cam.Name).Logger()
	logger.Debug().
		Int("res_x", r.ResolutionX).
		Int("res_y", r.ResolutionY).
		Int("objects", len(objects)).
		Msg("projecting scene")

	frustum := render.FrustumOf(ct)
	agg := bounds.NewAggregator(r.ResolutionX, r.ResolutionY)
	rep := &Report{Camera: cam.Name, ResolutionX: r.ResolutionX, ResolutionY: r.ResolutionY}

	for _, obj := range objects {
		world, indices, err := obj.WorldVertices(opts.SelectedOnly)
		if err != nil {
			return nil, err
		}
		if len(world) == 0 {
			logger.Debug().Str("object", obj.Name).Msg("no vertices to project")
			continue
		}
		if !frustum.Intersects(render.AABBOf(world)) {
			logger.Info().Str("object", obj.Name).Msg("object is outside the camera frustum")
		}

		results, err := projection.ProjectAll(ctx, ct, r, world, projection.WithWorkers(opts.Workers))
		if err != nil {
			return nil, fmt.Errorf("project %q: %w", obj.Name, err)
		}

		base := len(rep.Vertices)
		slot := make(map[int]int, len(indices))
		for i, res := range results {
			v := Vertex{
				Object:  obj.Name,
				Index:   indices[i],
				World:   res.World,
				NDC:     res.NDC,
				Pixel:   res.Pixel,
				Visible: res.OK() && frustum.ContainsPoint(res.World),
				Err:     res.Err,
			}
			if !res.OK() {
				logger.Warn().Err(res.Err).Str("object", obj.Name).Int("vertex", v.Index).Msg("vertex not projected")
			}
			slot[v.Index] = base + i
			rep.Vertices = append(rep.Vertices, v)
		}
		rep.Skipped += agg.AddResults(results)

		for _, e := range obj.Mesh.Edges() {
			a, okA := slot[e[0]]
			b, okB := slot[e[1]]
			if okA && okB && rep.Vertices[a].OK() && rep.Vertices[b].OK() {
				rep.Edges = append(rep.Edges, [2]int{a, b})
			}
		}
	}

	box, ok := agg.Box()
	rep.Box, rep.Empty = box, !ok

	logger.Info().
		Int("projected", agg.Count()).
		Int("skipped", rep.Skipped).
		Stringer("box", rep.Box).
		Bool("empty", rep.Empty).
		Msg("projection finished")
	return rep, nil
}

func targets(scn *scene.Scene, name string) ([]*scene.Object, error) {
	if name != "" {
		obj, err := scn.Object(name)
		if err != nil {
			return nil, err
		}
		return []*scene.Object{obj}, nil
	}
	meshes := scn.Meshes()
	if len(meshes) == 0 {
		return nil, ErrNoMeshes
	}
	return meshes, nil
}

// Overlay converts the report into something render.DrawOverlay can paint.
func (rep *Report) Overlay() render.Overlay {
	o := render.Overlay{
		ResolutionX: rep.ResolutionX,
		ResolutionY: rep.ResolutionY,
		Edges:       rep.Edges,
		Box:         rep.Box,
		HasBox:      !rep.Empty,
	}
	o.Marks = make([]render.Mark, len(rep.Vertices))
	for i, v := range rep.Vertices {
		if !v.OK() {
			// Edges never reference failed vertices; park the mark off-frame.
			o.Marks[i] = render.Mark{Pixel: projection.Pixel{X: -1e6, Y: -1e6}}
			continue
		}
		o.Marks[i] = render.Mark{Pixel: v.Pixel, Visible: v.Visible}
	}
	return o
}

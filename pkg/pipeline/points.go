package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/bounds"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/projection"
)

// PointsFile is raw projector input: camera matrices as row lists, points
// as coordinate lists, and the render resolution.
type PointsFile struct {
	View        [][]float64 `json:"view"`
	Projection  [][]float64 `json:"projection"`
	Points      [][]float64 `json:"points"`
	ResolutionX int         `json:"resolution_x"`
	ResolutionY int         `json:"resolution_y"`
}

// DecodePoints reads a PointsFile from JSON.
func DecodePoints(r io.Reader) (*PointsFile, error) {
	var pf PointsFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&pf); err != nil {
		return nil, fmt.Errorf("decode points: %w", err)
	}
	return &pf, nil
}

// RunPoints projects raw points with explicit matrices. Points of the
// wrong length or that hit w' = 0 are reported per vertex and skipped by
// the bounding box. A resolution missing from the file is taken from def.
// Pixel aspect is already part of the given projection matrix, so def's
// aspect is not applied again.
func RunPoints(ctx context.Context, pf *PointsFile, def projection.Render, workers int) (*Report, error) {
	r := def
	if pf.ResolutionX != 0 {
		r.ResolutionX = pf.ResolutionX
	}
	if pf.ResolutionY != 0 {
		r.ResolutionY = pf.ResolutionY
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	ct, err := projection.NewCameraTransform(pf.View, pf.Projection)
	if err != nil {
		return nil, fmt.Errorf("camera matrices: %w", err)
	}

	results, err := projection.ProjectSlices(ctx, ct, r, pf.Points, projection.WithWorkers(workers))
	if err != nil {
		return nil, err
	}

	agg := bounds.NewAggregator(r.ResolutionX, r.ResolutionY)
	rep := &Report{Camera: "matrices", ResolutionX: r.ResolutionX, ResolutionY: r.ResolutionY}
	rep.Skipped = agg.AddResults(results)
	rep.Vertices = make([]Vertex, len(results))
	for i, res := range results {
		rep.Vertices[i] = Vertex{
			Index:   res.Index,
			World:   res.World,
			NDC:     res.NDC,
			Pixel:   res.Pixel,
			Visible: res.OK() && inFrame(res.NDC),
			Err:     res.Err,
		}
	}

	box, ok := agg.Box()
	rep.Box, rep.Empty = box, !ok

	log.Info().
		Int("points", len(pf.Points)).
		Int("skipped", rep.Skipped).
		Bool("empty", rep.Empty).
		Msg("projected raw points")
	return rep, nil
}

// inFrame reports whether an NDC point falls within the render frame.
// Without a z component this is the frame test only, not a full frustum
// test.
func inFrame(n projection.NDC) bool {
	return n.X >= -1 && n.X <= 1 && n.Y >= -1 && n.Y <= 1
}

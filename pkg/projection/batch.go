package projection

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/math3d"
)

// PointResult is the outcome of projecting one point of a batch.
// Err is set, and NDC/Pixel are zero, when the point could not be projected.
type PointResult struct {
	Index int
	World math3d.Vec3
	Clip  math3d.Vec4
	NDC   NDC
	Pixel Pixel
	Err   error
}

// OK reports whether the point projected successfully.
func (pr PointResult) OK() bool {
	return pr.Err == nil
}

// BatchOption configures ProjectAll.
type BatchOption func(*batchConfig)

type batchConfig struct {
	workers   int
	chunkSize int
}

// WithWorkers projects the batch on n goroutines. Values below 2 project
// sequentially.
func WithWorkers(n int) BatchOption {
	return func(c *batchConfig) {
		c.workers = n
	}
}

// WithChunkSize sets how many points each worker claims at a time.
func WithChunkSize(n int) BatchOption {
	return func(c *batchConfig) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// ProjectAll projects every point to NDC and pixel space. Failures are
// recorded per point and never abort the batch; the returned error is
// non-nil only for an invalid camera transform, invalid render settings or
// a cancelled context. Results are in input order regardless of the number
// of workers.
func ProjectAll(ctx context.Context, ct CameraTransform, r Render, points []math3d.Vec3, opts ...BatchOption) ([]PointResult, error) {
	cfg := batchConfig{workers: 1, chunkSize: 256}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := ct.Validate(); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	results := make([]PointResult, len(points))
	project := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			results[i] = projectOne(ct, r, i, points[i])
		}
	}

	if cfg.workers < 2 || len(points) <= cfg.chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		project(0, len(points))
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for lo := 0; lo < len(points); lo += cfg.chunkSize {
		hi := min(lo+cfg.chunkSize, len(points))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			project(lo, hi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("project batch: %w", err)
	}
	return results, nil
}

func projectOne(ct CameraTransform, r Render, i int, p math3d.Vec3) PointResult {
	res := PointResult{Index: i, World: p}
	if !p.IsFinite() {
		res.Err = fmt.Errorf("point %d: %w", i, ErrNonFinite)
		return res
	}
	res.Clip = Clip(ct, p)
	n, err := ClipToNDC(res.Clip)
	if err != nil {
		res.Err = fmt.Errorf("point %d: %w", i, err)
		return res
	}
	res.NDC = n
	res.Pixel = NDCToPixels(n, r.ResolutionX, r.ResolutionY)
	return res
}

// ProjectSlices projects untyped points, flagging any that do not have
// exactly three components with ErrInvalidDimension.
func ProjectSlices(ctx context.Context, ct CameraTransform, r Render, points [][]float64, opts ...BatchOption) ([]PointResult, error) {
	vecs := make([]math3d.Vec3, len(points))
	bad := make(map[int]error)
	for i, p := range points {
		v, err := PointFromSlice(p)
		if err != nil {
			bad[i] = fmt.Errorf("point %d: %w", i, err)
			continue
		}
		vecs[i] = v
	}

	results, err := ProjectAll(ctx, ct, r, vecs, opts...)
	if err != nil {
		return nil, err
	}
	for i, e := range bad {
		results[i] = PointResult{Index: i, Err: e}
	}
	return results, nil
}

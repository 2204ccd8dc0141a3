package bounds

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/projection"
)

// Aggregator accumulates a Box for one render resolution and counts how
// many points were folded. The zero value is not usable; call NewAggregator.
type Aggregator struct {
	resX, resY int
	box        Box
	count      int
}

// NewAggregator starts an empty fold for the given resolution.
func NewAggregator(resX, resY int) *Aggregator {
	return &Aggregator{resX: resX, resY: resY, box: New(resX, resY)}
}

// Add folds p into the running box.
func (a *Aggregator) Add(p projection.Pixel) {
	a.box = Fold(a.box, p)
	a.count++
}

// AddResults folds the pixels of every successfully projected result and
// returns how many were skipped because of errors.
func (a *Aggregator) AddResults(results []projection.PointResult) (skipped int) {
	for _, r := range results {
		if !r.OK() {
			skipped++
			continue
		}
		a.Add(r.Pixel)
	}
	return skipped
}

// Count returns the number of folded points.
func (a *Aggregator) Count() int {
	return a.count
}

// Box returns the finalized, clamped box. ok is false when no points were
// folded; the returned box is then the inverted initial value.
func (a *Aggregator) Box() (b Box, ok bool) {
	if a.count == 0 {
		return a.box, false
	}
	return Finalize(a.box, a.resX, a.resY), true
}

// FoldParallel folds points on up to workers goroutines, each producing a
// partial box that is merged with Merge, then finalizes. The result is
// identical to a sequential fold.
func FoldParallel(ctx context.Context, points []projection.Pixel, resX, resY, workers int) (Box, error) {
	if workers < 2 || len(points) < 2*workers {
		return Finalize(FoldAll(New(resX, resY), points...), resX, resY), nil
	}

	chunk := (len(points) + workers - 1) / workers
	partial := make([]Box, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		lo := w * chunk
		hi := min(lo+chunk, len(points))
		partial[w] = New(resX, resY)
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			partial[w] = FoldAll(partial[w], points[lo:hi]...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Box{}, err
	}

	b := New(resX, resY)
	for _, p := range partial {
		b = Merge(b, p)
	}
	return Finalize(b, resX, resY), nil
}

// Package bounds folds projected pixel points into an axis-aligned 2D
// bounding box clamped to the render resolution.
package bounds

import (
	"fmt"
	"image"
	"math"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/projection"
)

// Box is an axis-aligned rectangle in render pixel space. After Finalize it
// satisfies 0 <= Left <= Right <= resX-1 and 0 <= Top <= Bottom <= resY-1,
// unless no points were folded (see Empty).
type Box struct {
	Left, Top, Right, Bottom float64
}

// New returns the starting value for a fold: the full-resolution extent
// inverted, so the first folded point always tightens every edge and an
// unfolded box is detectably empty.
func New(resX, resY int) Box {
	return Box{
		Left:   float64(resX - 1),
		Top:    float64(resY - 1),
		Right:  0,
		Bottom: 0,
	}
}

// Fold extends b to include p.
func Fold(b Box, p projection.Pixel) Box {
	return Box{
		Left:   math.Min(b.Left, p.X),
		Top:    math.Min(b.Top, p.Y),
		Right:  math.Max(b.Right, p.X),
		Bottom: math.Max(b.Bottom, p.Y),
	}
}

// FoldAll folds every point into b. Order does not affect the result.
func FoldAll(b Box, points ...projection.Pixel) Box {
	for _, p := range points {
		b = Fold(b, p)
	}
	return b
}

// Merge combines two partial boxes folded from disjoint point sets that
// started from the same New value. Merge is commutative and associative.
func Merge(a, b Box) Box {
	return Box{
		Left:   math.Min(a.Left, b.Left),
		Top:    math.Min(a.Top, b.Top),
		Right:  math.Max(a.Right, b.Right),
		Bottom: math.Max(a.Bottom, b.Bottom),
	}
}

// Finalize clamps the horizontal edges to [0, resX-1] and the vertical
// edges to [0, resY-1].
func Finalize(b Box, resX, resY int) Box {
	maxX, maxY := float64(resX-1), float64(resY-1)
	return Box{
		Left:   clamp(b.Left, 0, maxX),
		Top:    clamp(b.Top, 0, maxY),
		Right:  clamp(b.Right, 0, maxX),
		Bottom: clamp(b.Bottom, 0, maxY),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Empty reports whether the box is inverted, which is how a fold over zero
// points presents itself.
func (b Box) Empty() bool {
	return b.Left > b.Right || b.Top > b.Bottom
}

// Width returns Right - Left, or 0 for an empty box.
func (b Box) Width() float64 {
	if b.Empty() {
		return 0
	}
	return b.Right - b.Left
}

// Height returns Bottom - Top, or 0 for an empty box.
func (b Box) Height() float64 {
	if b.Empty() {
		return 0
	}
	return b.Bottom - b.Top
}

// Contains reports whether p lies inside or on the edge of the box.
func (b Box) Contains(p projection.Pixel) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Top && p.Y <= b.Bottom
}

// Rect returns the pixel rectangle covering the box, with edges rounded
// outward. Max is exclusive, as for image.Rectangle.
func (b Box) Rect() image.Rectangle {
	if b.Empty() {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(b.Left)),
		int(math.Floor(b.Top)),
		int(math.Ceil(b.Right))+1,
		int(math.Ceil(b.Bottom))+1,
	)
}

// String formats the box as left,top,right,bottom.
func (b Box) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f, %.3f)", b.Left, b.Top, b.Right, b.Bottom)
}

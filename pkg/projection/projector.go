// Package projection maps world-space points through a camera into clip
// space, normalized device coordinates and pixel coordinates.
//
// Every function is pure: the camera transform and render settings are
// passed in on each call and nothing is cached between calls, so the
// package is safe for concurrent use.
package projection

import (
	"fmt"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/math3d"
)

// CameraTransform pairs the view matrix (inverse of the camera's world
// transform) with the projection matrix derived from the camera intrinsics.
type CameraTransform struct {
	View       math3d.Mat4
	Projection math3d.Mat4
}

// NewCameraTransform builds a CameraTransform from row-major matrices,
// rejecting anything that is not a finite 4x4 matrix.
func NewCameraTransform(view, projection [][]float64) (CameraTransform, error) {
	v, ok := math3d.FromRows(view)
	if !ok {
		return CameraTransform{}, fmt.Errorf("view matrix: %w", ErrMalformedMatrix)
	}
	p, ok := math3d.FromRows(projection)
	if !ok {
		return CameraTransform{}, fmt.Errorf("projection matrix: %w", ErrMalformedMatrix)
	}
	ct := CameraTransform{View: v, Projection: p}
	if err := ct.Validate(); err != nil {
		return CameraTransform{}, err
	}
	return ct, nil
}

// Validate checks that both matrices contain only finite values.
func (ct CameraTransform) Validate() error {
	if !ct.View.IsFinite() {
		return fmt.Errorf("view matrix: %w", ErrMalformedMatrix)
	}
	if !ct.Projection.IsFinite() {
		return fmt.Errorf("projection matrix: %w", ErrMalformedMatrix)
	}
	return nil
}

// ViewProjection returns Projection * View.
func (ct CameraTransform) ViewProjection() math3d.Mat4 {
	return ct.Projection.Mul(ct.View)
}

// NDC is a point in normalized device coordinates: x runs -1 (left) to
// +1 (right), y runs -1 (bottom) to +1 (top).
type NDC struct {
	X, Y float64
}

// Pixel is a point in render pixel space: x in [0, resX-1] left to right,
// y in [0, resY-1] top to bottom.
type Pixel struct {
	X, Y float64
}

// Render holds the render output settings needed by pixel-space operations.
// A zero pixel aspect is treated as 1.
type Render struct {
	ResolutionX  int
	ResolutionY  int
	PixelAspectX float64
	PixelAspectY float64
}

// NewRender returns render settings with square pixels.
func NewRender(resX, resY int) Render {
	return Render{ResolutionX: resX, ResolutionY: resY, PixelAspectX: 1, PixelAspectY: 1}
}

// Validate checks that the resolution is positive.
func (r Render) Validate() error {
	if r.ResolutionX < 1 || r.ResolutionY < 1 {
		return fmt.Errorf("%dx%d: %w", r.ResolutionX, r.ResolutionY, ErrInvalidResolution)
	}
	return nil
}

// PixelAspect returns the pixel aspect ratios with zero values replaced by 1.
func (r Render) PixelAspect() (x, y float64) {
	x, y = r.PixelAspectX, r.PixelAspectY
	if x <= 0 {
		x = 1
	}
	if y <= 0 {
		y = 1
	}
	return x, y
}

// Clip transforms a world-space point into homogeneous clip space:
// Projection * View * (x, y, z, 1).
func Clip(ct CameraTransform, p math3d.Vec3) math3d.Vec4 {
	return ct.Projection.MulVec4(ct.View.MulVec4(math3d.V4FromV3(p, 1)))
}

// ClipToNDC performs the perspective divide, discarding z.
func ClipToNDC(clip math3d.Vec4) (NDC, error) {
	if clip.W == 0 {
		return NDC{}, ErrDivisionByZero
	}
	return NDC{X: clip.X / clip.W, Y: clip.Y / clip.W}, nil
}

// Project maps a world-space point to normalized device coordinates.
// A point whose clip-space w is zero yields ErrDivisionByZero.
func Project(ct CameraTransform, p math3d.Vec3) (NDC, error) {
	if err := ct.Validate(); err != nil {
		return NDC{}, err
	}
	return ClipToNDC(Clip(ct, p))
}

// ProjectSlice is Project for untyped input; p must have exactly three
// components.
func ProjectSlice(ct CameraTransform, p []float64) (NDC, error) {
	v, err := PointFromSlice(p)
	if err != nil {
		return NDC{}, err
	}
	return Project(ct, v)
}

// PointFromSlice converts a three-element slice to a point.
func PointFromSlice(p []float64) (math3d.Vec3, error) {
	if len(p) != 3 {
		return math3d.Vec3{}, fmt.Errorf("got %d components: %w", len(p), ErrInvalidDimension)
	}
	return math3d.V3(p[0], p[1], p[2]), nil
}

// NDCToPixels converts normalized device coordinates to render pixel
// coordinates, flipping the vertical axis so NDC top maps to row 0.
func NDCToPixels(n NDC, resX, resY int) Pixel {
	return Pixel{
		X: float64(resX-1) * (n.X + 1) / 2,
		Y: float64(resY-1) * (n.Y - 1) / -2,
	}
}

// ProjectToPixels maps a world-space point to render pixel coordinates.
func ProjectToPixels(ct CameraTransform, p math3d.Vec3, r Render) (Pixel, error) {
	if err := r.Validate(); err != nil {
		return Pixel{}, err
	}
	n, err := Project(ct, p)
	if err != nil {
		return Pixel{}, err
	}
	return NDCToPixels(n, r.ResolutionX, r.ResolutionY), nil
}

// Viewport is an interactive display region measured in its own pixels,
// independent of the render resolution.
type Viewport struct {
	Width, Height float64
}

// Center returns the middle of the region.
func (vp Viewport) Center() math3d.Vec2 {
	return math3d.V2(vp.Width/2, vp.Height/2)
}

// ViewportTransform maps a clip-space point to region coordinates with the
// origin at the bottom-left corner. Unlike the NDC path, a zero w is not an
// error: the point is placed at the center of the region.
func ViewportTransform(vp Viewport, clip math3d.Vec4) math3d.Vec2 {
	hw, hh := vp.Width/2, vp.Height/2
	if clip.W == 0 {
		return math3d.V2(hw, hh)
	}
	return math3d.V2(hw+hw*clip.X/clip.W, hh+hh*clip.Y/clip.W)
}

// ProjectToViewport maps a world-space point into region coordinates.
func ProjectToViewport(ct CameraTransform, vp Viewport, p math3d.Vec3) math3d.Vec2 {
	return ViewportTransform(vp, Clip(ct, p))
}

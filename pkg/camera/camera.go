// Package camera derives view and projection matrices from a camera's
// world placement and its physical intrinsics (focal length, sensor size,
// sensor fit, lens shift and clipping range).
//
// Matrices are recomputed on every call so a change to the camera or to the
// render resolution is always reflected.
package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/math3d"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/projection"
)

// Type selects the projection model.
type Type int

const (
	Perspective  Type = iota // Pinhole camera with focal length and sensor
	Orthographic             // Parallel projection sized by OrthoScale
)

func (t Type) String() string {
	switch t {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// SensorFit selects which render axis the sensor size is matched to.
type SensorFit int

const (
	SensorFitAuto       SensorFit = iota // Fit the larger render axis
	SensorFitHorizontal                  // Sensor width spans the image width
	SensorFitVertical                    // Sensor height spans the image height
)

// Defaults match a freshly created camera in common DCC applications.
const (
	DefaultLens         = 50.0 // mm
	DefaultSensorWidth  = 36.0 // mm
	DefaultSensorHeight = 24.0 // mm
	DefaultClipStart    = 0.1
	DefaultClipEnd      = 1000.0
	DefaultOrthoScale   = 6.0
)

var (
	// ErrInvalidIntrinsics is returned when lens, sensor, clip range or
	// ortho scale cannot produce a projection.
	ErrInvalidIntrinsics = errors.New("invalid camera intrinsics")

	// ErrSingularTransform is returned when the camera's world transform
	// cannot be inverted into a view matrix.
	ErrSingularTransform = errors.New("camera world transform is singular")
)

// Camera holds the intrinsic parameters of a camera.
type Camera struct {
	Type Type

	// Perspective parameters
	Lens         float64 // Focal length in mm
	SensorWidth  float64 // mm
	SensorHeight float64 // mm
	SensorFit    SensorFit

	// Orthographic parameters
	OrthoScale float64 // Width of the larger view axis in world units

	// Lens shift as a fraction of the fitted sensor axis
	ShiftX, ShiftY float64

	// Clipping range in world units
	ClipStart float64
	ClipEnd   float64
}

// New returns a perspective camera with default intrinsics.
func New() *Camera {
	return &Camera{
		Type:         Perspective,
		Lens:         DefaultLens,
		SensorWidth:  DefaultSensorWidth,
		SensorHeight: DefaultSensorHeight,
		SensorFit:    SensorFitAuto,
		OrthoScale:   DefaultOrthoScale,
		ClipStart:    DefaultClipStart,
		ClipEnd:      DefaultClipEnd,
	}
}

// NewFromVerticalFOV returns a perspective camera whose vertical field of
// view is yfov radians, fitted vertically.
func NewFromVerticalFOV(yfov, clipStart, clipEnd float64) *Camera {
	c := New()
	c.SensorFit = SensorFitVertical
	c.Lens = c.SensorHeight / (2 * math.Tan(yfov/2))
	c.ClipStart = clipStart
	c.ClipEnd = clipEnd
	return c
}

// NewOrthographic returns an orthographic camera whose larger axis spans
// scale world units.
func NewOrthographic(scale, clipStart, clipEnd float64) *Camera {
	c := New()
	c.Type = Orthographic
	c.OrthoScale = scale
	c.ClipStart = clipStart
	c.ClipEnd = clipEnd
	return c
}

// Validate checks that the intrinsics describe a usable projection.
func (c *Camera) Validate() error {
	switch {
	case c.Type == Perspective && c.Lens <= 0:
		return fmt.Errorf("lens %v: %w", c.Lens, ErrInvalidIntrinsics)
	case c.Type == Perspective && (c.SensorWidth <= 0 || c.SensorHeight <= 0):
		return fmt.Errorf("sensor %vx%v: %w", c.SensorWidth, c.SensorHeight, ErrInvalidIntrinsics)
	case c.Type == Perspective && c.ClipStart <= 0:
		return fmt.Errorf("clip start %v: %w", c.ClipStart, ErrInvalidIntrinsics)
	case c.Type == Orthographic && c.OrthoScale <= 0:
		return fmt.Errorf("ortho scale %v: %w", c.OrthoScale, ErrInvalidIntrinsics)
	case c.ClipEnd <= c.ClipStart:
		return fmt.Errorf("clip range [%v, %v]: %w", c.ClipStart, c.ClipEnd, ErrInvalidIntrinsics)
	}
	return nil
}

// ViewPlane is the rectangle of the image plane, at distance ClipStart for
// perspective cameras, that maps to the full render frame.
type ViewPlane struct {
	Left, Right, Bottom, Top float64
}

// ResolveFit returns the concrete sensor fit for the render settings.
func (c *Camera) ResolveFit(r projection.Render) SensorFit {
	if c.SensorFit != SensorFitAuto {
		return c.SensorFit
	}
	aspX, aspY := r.PixelAspect()
	if aspX*float64(r.ResolutionX) >= aspY*float64(r.ResolutionY) {
		return SensorFitHorizontal
	}
	return SensorFitVertical
}

// ViewPlane computes the view plane for the render settings.
func (c *Camera) ViewPlane(r projection.Render) ViewPlane {
	aspX, aspY := r.PixelAspect()
	winX, winY := float64(r.ResolutionX), float64(r.ResolutionY)
	yCor := aspY / aspX

	// Auto fit still measures with the sensor width.
	sensor := c.SensorWidth
	if c.SensorFit == SensorFitVertical {
		sensor = c.SensorHeight
	}

	viewFac := winX
	if c.ResolveFit(r) == SensorFitVertical {
		viewFac = yCor * winY
	}

	pixSize := c.OrthoScale
	if c.Type == Perspective {
		pixSize = sensor * c.ClipStart / c.Lens
	}
	pixSize /= viewFac

	dx, dy := c.ShiftX*viewFac, c.ShiftY*viewFac
	return ViewPlane{
		Left:   (-0.5*winX + dx) * pixSize,
		Right:  (0.5*winX + dx) * pixSize,
		Bottom: (-0.5*yCor*winY + dy) * pixSize,
		Top:    (0.5*yCor*winY + dy) * pixSize,
	}
}

// ProjectionMatrix returns the camera-to-clip matrix for the render
// settings.
func (c *Camera) ProjectionMatrix(r projection.Render) (math3d.Mat4, error) {
	if err := r.Validate(); err != nil {
		return math3d.Mat4{}, err
	}
	if err := c.Validate(); err != nil {
		return math3d.Mat4{}, err
	}

	vp := c.ViewPlane(r)
	if c.Type == Orthographic {
		return math3d.Orthographic(vp.Left, vp.Right, vp.Bottom, vp.Top, c.ClipStart, c.ClipEnd), nil
	}
	return math3d.Frustum(vp.Left, vp.Right, vp.Bottom, vp.Top, c.ClipStart, c.ClipEnd), nil
}

// FieldOfView returns the horizontal and vertical angles of view in
// radians for a perspective camera.
func (c *Camera) FieldOfView(r projection.Render) (h, v float64) {
	vp := c.ViewPlane(r)
	h = math.Atan(vp.Right/c.ClipStart) - math.Atan(vp.Left/c.ClipStart)
	v = math.Atan(vp.Top/c.ClipStart) - math.Atan(vp.Bottom/c.ClipStart)
	return h, v
}

// ViewMatrix returns the inverse of the camera's world transform.
func ViewMatrix(world math3d.Mat4) (math3d.Mat4, error) {
	view, ok := world.Inverse()
	if !ok {
		return math3d.Mat4{}, ErrSingularTransform
	}
	return view, nil
}

// Transform combines the world placement and intrinsics into a camera
// transform for the render settings.
func (c *Camera) Transform(world math3d.Mat4, r projection.Render) (projection.CameraTransform, error) {
	view, err := ViewMatrix(world)
	if err != nil {
		return projection.CameraTransform{}, err
	}
	proj, err := c.ProjectionMatrix(r)
	if err != nil {
		return projection.CameraTransform{}, err
	}
	return projection.CameraTransform{View: view, Projection: proj}, nil
}

package projection

import "errors"

// Projection failures are local to a single call; none are retryable.
var (
	// ErrNotACamera is returned when a transform is requested from an object
	// that is not a camera.
	ErrNotACamera = errors.New("object is not a camera")

	// ErrInvalidDimension is returned when an input point does not have
	// exactly three components.
	ErrInvalidDimension = errors.New("point is not three-dimensional")

	// ErrNonFinite is returned when an input point has a NaN or infinite
	// coordinate.
	ErrNonFinite = errors.New("point has non-finite coordinates")

	// ErrDivisionByZero is returned by the NDC path when the clip-space w is
	// zero, i.e. the point lies on the camera's eye plane.
	ErrDivisionByZero = errors.New("clip-space w is zero")

	// ErrMalformedMatrix is returned when a view or projection matrix is not
	// a finite 4x4 matrix.
	ErrMalformedMatrix = errors.New("matrix is not a finite 4x4 matrix")

	// ErrInvalidResolution is returned when a render resolution is not
	// positive in both axes.
	ErrInvalidResolution = errors.New("render resolution must be positive")
)

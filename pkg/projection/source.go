package projection

import "fmt"

// Source is anything that can supply a camera transform, typically a scene
// object. Only objects that report IsCamera may be projected through.
type Source interface {
	String() string
	IsCamera() bool
	CameraTransform(r Render) (CameraTransform, error)
}

// FromSource checks that src is a camera and returns its transform for the
// given render settings. The transform is computed fresh on every call.
func FromSource(src Source, r Render) (CameraTransform, error) {
	if !src.IsCamera() {
		return CameraTransform{}, fmt.Errorf("%q: %w", src.String(), ErrNotACamera)
	}
	if err := r.Validate(); err != nil {
		return CameraTransform{}, err
	}
	ct, err := src.CameraTransform(r)
	if err != nil {
		return CameraTransform{}, fmt.Errorf("camera %q: %w", src.String(), err)
	}
	if err := ct.Validate(); err != nil {
		return CameraTransform{}, fmt.Errorf("camera %q: %w", src.String(), err)
	}
	return ct, nil
}

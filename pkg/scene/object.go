// Package scene supplies the projection pipeline with its inputs: objects
// carrying a world placement and either a mesh or a camera, grouped with
// the render settings they are viewed under.
package scene

import (
	"fmt"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/camera"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/math3d"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/models"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/projection"
)

// Kind tags what an object holds.
type Kind int

const (
	KindEmpty Kind = iota
	KindMesh
	KindCamera
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "EMPTY"
	case KindMesh:
		return "MESH"
	case KindCamera:
		return "CAMERA"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Object is a named, placed item in a scene.
type Object struct {
	Name string
	Kind Kind

	// Placement: world = T(Location) * EulerXYZ(Rotation) * S(Scale),
	// unless Matrix is set, in which case it is used as-is.
	Location math3d.Vec3
	Rotation math3d.Vec3 // XYZ Euler angles in radians
	Scale    math3d.Vec3
	Matrix   *math3d.Mat4

	Mesh   *models.Mesh   // Set for KindMesh
	Camera *camera.Camera // Set for KindCamera
}

// NewMeshObject wraps a mesh at the origin.
func NewMeshObject(name string, mesh *models.Mesh) *Object {
	return &Object{Name: name, Kind: KindMesh, Scale: math3d.One3(), Mesh: mesh}
}

// NewCameraObject wraps camera intrinsics at the origin.
func NewCameraObject(name string, cam *camera.Camera) *Object {
	return &Object{Name: name, Kind: KindCamera, Scale: math3d.One3(), Camera: cam}
}

// WorldMatrix returns the object-to-world transform.
func (o *Object) WorldMatrix() math3d.Mat4 {
	if o.Matrix != nil {
		return *o.Matrix
	}
	return math3d.Compose(o.Location, math3d.EulerXYZ(o.Rotation), o.Scale)
}

// String returns the object name.
func (o *Object) String() string {
	return o.Name
}

// IsCamera reports whether the object is a camera with intrinsics.
func (o *Object) IsCamera() bool {
	return o.Kind == KindCamera && o.Camera != nil
}

// CameraTransform implements projection.Source.
func (o *Object) CameraTransform(r projection.Render) (projection.CameraTransform, error) {
	if !o.IsCamera() {
		return projection.CameraTransform{}, projection.ErrNotACamera
	}
	return o.Camera.Transform(o.WorldMatrix(), r)
}

// WorldVertices returns the mesh vertex positions in world space together
// with their vertex indices.
func (o *Object) WorldVertices(selectedOnly bool) ([]math3d.Vec3, []int, error) {
	if o.Kind != KindMesh || o.Mesh == nil {
		return nil, nil, fmt.Errorf("%q is %s: %w", o.Name, o.Kind, ErrNotAMesh)
	}
	local, indices := o.Mesh.Positions(selectedOnly)
	return models.WorldPositions(o.WorldMatrix(), local), indices, nil
}

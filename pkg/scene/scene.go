package scene

import (
	"errors"
	"fmt"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/camera"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/math3d"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/models"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/projection"
)

var (
	// ErrObjectNotFound is returned when a named object does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// ErrNotAMesh is returned when vertices are requested from an object
	// without a mesh.
	ErrNotAMesh = errors.New("object is not a mesh")
)

// Scene is a flat list of objects plus the render settings and the name of
// the camera used when none is given.
type Scene struct {
	Objects      []*Object
	ActiveCamera string
	Render       projection.Render
}

// New returns an empty scene rendering at the given resolution.
func New(resX, resY int) *Scene {
	return &Scene{Render: projection.NewRender(resX, resY)}
}

// Add appends objects to the scene.
func (s *Scene) Add(objs ...*Object) {
	s.Objects = append(s.Objects, objs...)
}

// Object looks up an object by name.
func (s *Scene) Object(name string) (*Object, error) {
	for _, o := range s.Objects {
		if o.Name == name {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrObjectNotFound)
}

// Camera returns the named object, or the active camera when name is
// empty. The object is not required to be a camera; projecting through a
// non-camera fails with projection.ErrNotACamera.
func (s *Scene) Camera(name string) (*Object, error) {
	if name == "" {
		name = s.ActiveCamera
	}
	if name == "" {
		for _, o := range s.Objects {
			if o.IsCamera() {
				return o, nil
			}
		}
		return nil, fmt.Errorf("no camera in scene: %w", ErrObjectNotFound)
	}
	return s.Object(name)
}

// Meshes returns every mesh object in order.
func (s *Scene) Meshes() []*Object {
	var out []*Object
	for _, o := range s.Objects {
		if o.Kind == KindMesh && o.Mesh != nil {
			out = append(out, o)
		}
	}
	return out
}

// Demo returns the reference scene: a 5-unit box mesh (one corner pulled
// in) at the origin with every vertex selected, and a default camera at
// (20, 0, 0) rotated to look back at it, rendering 1920x1080.
func Demo() *Scene {
	s := New(1920, 1080)

	mesh, err := models.FromPyData("Cube_Mesh", [][3]float64{
		{0, 0, 0}, {0, 5, 3}, {5, 5, 0}, {5, 0, 0},
		{0, 0, 5}, {0, 5, 5}, {5, 5, 5}, {5, 0, 5},
	}, models.CubeFaces())
	if err != nil {
		panic(err) // static data
	}
	mesh.SelectAll(true)

	cam := NewCameraObject("Camera", camera.New())
	cam.Location = math3d.V3(20, 0, 0)
	cam.Rotation = math3d.V3(-4.5, 0.26, 1.6)

	s.Add(cam, NewMeshObject("Cube", mesh))
	s.ActiveCamera = "Camera"
	return s
}

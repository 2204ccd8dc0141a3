package scene

import (
	"fmt"
	"math"

	"github.com/qmuntal/gltf"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/camera"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/math3d"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/models"
)

// ImportGLTF builds a scene from a glTF or GLB file at the given render
// resolution.
func ImportGLTF(path string, resX, resY int) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	s, err := FromDocument(doc, resX, resY)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return s, nil
}

// FromDocument flattens the node hierarchy of doc into scene objects with
// baked world matrices. Nodes carrying a mesh become mesh objects, nodes
// carrying a camera become camera objects, and the rest become empties. When a node has both, the mesh
// wins and the camera is imported as a separate "<name>.camera" object.
// The first camera found becomes the active camera.
func FromDocument(doc *gltf.Document, resX, resY int) (*Scene, error) {
	s := New(resX, resY)
	imp := importer{doc: doc, scene: s, meshes: make(map[int]*models.Mesh)}

	roots, err := imp.roots()
	if err != nil {
		return nil, err
	}
	for _, n := range roots {
		if err := imp.visit(n, math3d.Identity(), 0); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// maxDepth bounds node recursion so cyclic documents fail instead of
// overflowing the stack.
const maxDepth = 256

type importer struct {
	doc    *gltf.Document
	scene  *Scene
	meshes map[int]*models.Mesh
}

func (imp *importer) roots() ([]int, error) {
	doc := imp.doc
	if len(doc.Scenes) == 0 {
		// No scene: every node that is nobody's child is a root.
		child := make(map[int]bool)
		for _, n := range doc.Nodes {
			for _, c := range n.Children {
				child[c] = true
			}
		}
		var roots []int
		for i := range doc.Nodes {
			if !child[i] {
				roots = append(roots, i)
			}
		}
		return roots, nil
	}

	idx := 0
	if doc.Scene != nil {
		idx = *doc.Scene
	}
	if idx < 0 || idx >= len(doc.Scenes) {
		return nil, fmt.Errorf("scene index %d out of range", idx)
	}
	return doc.Scenes[idx].Nodes, nil
}

func (imp *importer) visit(idx int, parent math3d.Mat4, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("node %d: hierarchy deeper than %d", idx, maxDepth)
	}
	if idx < 0 || idx >= len(imp.doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	node := imp.doc.Nodes[idx]
	world := parent.Mul(localMatrix(node))

	name := node.Name
	if name == "" {
		name = fmt.Sprintf("node#%d", idx)
	}

	hasMesh := node.Mesh != nil
	if hasMesh {
		mesh, err := imp.mesh(*node.Mesh)
		if err != nil {
			return fmt.Errorf("node %q: %w", name, err)
		}
		obj := NewMeshObject(name, mesh)
		obj.Matrix = &world
		imp.scene.Add(obj)
	}

	if node.Camera != nil {
		cam, err := imp.camera(*node.Camera)
		if err != nil {
			return fmt.Errorf("node %q: %w", name, err)
		}
		camName := name
		if hasMesh {
			camName = name + ".camera"
		}
		obj := NewCameraObject(camName, cam)
		obj.Matrix = &world
		imp.scene.Add(obj)
		if imp.scene.ActiveCamera == "" {
			imp.scene.ActiveCamera = camName
		}
	}

	if !hasMesh && node.Camera == nil {
		obj := &Object{Name: name, Kind: KindEmpty, Scale: math3d.One3(), Matrix: &world}
		imp.scene.Add(obj)
	}

	for _, c := range node.Children {
		if err := imp.visit(c, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// mesh converts a glTF mesh once and hands out a clone per instancing node
// so selections stay per object.
func (imp *importer) mesh(idx int) (*models.Mesh, error) {
	if m, ok := imp.meshes[idx]; ok {
		return m.Clone(), nil
	}
	m, err := models.MeshFromGLTF(imp.doc, idx)
	if err != nil {
		return nil, err
	}
	m.SelectAll(true)
	imp.meshes[idx] = m
	return m.Clone(), nil
}

func (imp *importer) camera(idx int) (*camera.Camera, error) {
	if idx < 0 || idx >= len(imp.doc.Cameras) {
		return nil, fmt.Errorf("camera index %d out of range", idx)
	}
	src := imp.doc.Cameras[idx]

	switch {
	case src.Perspective != nil:
		p := src.Perspective
		far := camera.DefaultClipEnd
		if p.Zfar != nil {
			far = *p.Zfar
		}
		return camera.NewFromVerticalFOV(p.Yfov, p.Znear, far), nil
	case src.Orthographic != nil:
		o := src.Orthographic
		return camera.NewOrthographic(2*math.Max(o.Xmag, o.Ymag), o.Znear, o.Zfar), nil
	default:
		return nil, fmt.Errorf("camera %q has no projection", src.Name)
	}
}

// localMatrix returns the node's local transform. An explicit matrix wins
// over TRS; zero-valued TRS components fall back to their identities.
func localMatrix(n *gltf.Node) math3d.Mat4 {
	if m := math3d.Mat4(n.Matrix); m != (math3d.Mat4{}) && m != math3d.Identity() {
		return m
	}

	rot := math3d.Identity()
	if q := n.Rotation; q != [4]float64{} {
		rot = math3d.Quaternion(q[0], q[1], q[2], q[3])
	}
	scale := math3d.One3()
	if sc := n.Scale; sc != [3]float64{} {
		scale = math3d.V3(sc[0], sc[1], sc[2])
	}
	t := n.Translation
	return math3d.Compose(math3d.V3(t[0], t[1], t[2]), rot, scale)
}

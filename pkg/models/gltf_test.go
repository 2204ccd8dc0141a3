package models

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/math3d"
)

func TestLoadGLTFInvalidPath(t *testing.T) {
	if _, err := LoadGLTF("/nonexistent/path.glb"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

// triangleDoc builds a document with one indexed triangle mesh and one
// point-cloud mesh.
func triangleDoc() *gltf.Document {
	doc := gltf.NewDocument()

	tri := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 2, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	cloud := modeler.WritePosition(doc, [][3]float32{{-1, -1, -1}, {3, 4, 5}})

	doc.Meshes = []*gltf.Mesh{
		{
			Name: "Tri",
			Primitives: []*gltf.Primitive{{
				Indices:    gltf.Index(idx),
				Attributes: map[string]int{gltf.POSITION: tri},
			}},
		},
		{
			Primitives: []*gltf.Primitive{{
				Mode:       gltf.PrimitivePoints,
				Attributes: map[string]int{gltf.POSITION: cloud},
			}},
		},
	}
	return doc
}

func TestMeshFromGLTF(t *testing.T) {
	doc := triangleDoc()

	tri, err := MeshFromGLTF(doc, 0)
	if err != nil {
		t.Fatalf("MeshFromGLTF: %v", err)
	}
	if tri.Name != "Tri" || tri.VertexCount() != 3 || tri.FaceCount() != 1 {
		t.Errorf("tri = %q, %d verts, %d faces", tri.Name, tri.VertexCount(), tri.FaceCount())
	}
	if tri.Vertices[2].Position != math3d.V3(0, 2, 0) {
		t.Errorf("vertex 2 = %v", tri.Vertices[2].Position)
	}

	cloud, err := MeshFromGLTF(doc, 1)
	if err != nil {
		t.Fatalf("MeshFromGLTF: %v", err)
	}
	if cloud.VertexCount() != 2 || cloud.FaceCount() != 0 {
		t.Errorf("cloud = %d verts, %d faces", cloud.VertexCount(), cloud.FaceCount())
	}
	if cloud.BoundsMax != math3d.V3(3, 4, 5) {
		t.Errorf("cloud bounds max = %v", cloud.BoundsMax)
	}

	if _, err := MeshFromGLTF(doc, 2); err == nil {
		t.Error("expected error for out-of-range mesh")
	}
}

func TestLoadGLTFRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(triangleDoc(), path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	meshes, err := LoadGLTF(path)
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("got %d meshes, want 2", len(meshes))
	}
	if meshes[1].Name != "tri.glb#1" {
		t.Errorf("unnamed mesh got name %q", meshes[1].Name)
	}
}

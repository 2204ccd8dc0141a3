package models

import (
	"testing"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/math3d"
)

func TestFromPyData(t *testing.T) {
	m, err := FromPyData("Quad", [][3]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 2}}, [][]int{{0, 1, 2, 3}})
	if err != nil {
		t.Fatalf("FromPyData: %v", err)
	}
	if m.VertexCount() != 4 || m.FaceCount() != 1 {
		t.Errorf("counts = %d verts, %d faces", m.VertexCount(), m.FaceCount())
	}
	if m.BoundsMin != math3d.V3(0, 0, 0) || m.BoundsMax != math3d.V3(1, 1, 2) {
		t.Errorf("bounds = %v..%v", m.BoundsMin, m.BoundsMax)
	}
	if len(m.SelectedIndices()) != 0 {
		t.Error("vertices should start deselected")
	}
}

func TestFromPyDataRejectsBadFaces(t *testing.T) {
	verts := [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	tests := []struct {
		name  string
		faces [][]int
	}{
		{"out of range", [][]int{{0, 1, 3}}},
		{"negative", [][]int{{-1, 1, 2}}},
		{"degenerate", [][]int{{0, 1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromPyData("bad", verts, tc.faces); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCubeEdges(t *testing.T) {
	cube := NewCube("Cube", 2)
	if cube.VertexCount() != 8 || cube.FaceCount() != 6 {
		t.Fatalf("cube has %d verts, %d faces", cube.VertexCount(), cube.FaceCount())
	}
	if got := len(cube.Edges()); got != 12 {
		t.Errorf("cube has %d edges, want 12", got)
	}
	if cube.Size() != math3d.V3(2, 2, 2) || cube.Center() != math3d.V3(1, 1, 1) {
		t.Errorf("size %v center %v", cube.Size(), cube.Center())
	}
}

func TestSelection(t *testing.T) {
	cube := NewCube("Cube", 1)
	cube.Select(1, 6, 42, -3)

	if got := cube.SelectedIndices(); len(got) != 2 || got[0] != 1 || got[1] != 6 {
		t.Errorf("SelectedIndices = %v, want [1 6]", got)
	}

	pos, idx := cube.Positions(true)
	if len(pos) != 2 || idx[1] != 6 || pos[1] != math3d.V3(1, 1, 1) {
		t.Errorf("Positions(true) = %v %v", pos, idx)
	}

	all, _ := cube.Positions(false)
	if len(all) != 8 {
		t.Errorf("Positions(false) returned %d", len(all))
	}

	cube.SelectAll(true)
	if len(cube.SelectedIndices()) != 8 {
		t.Error("SelectAll(true) should select every vertex")
	}
	cube.SelectAll(false)
	if len(cube.SelectedIndices()) != 0 {
		t.Error("SelectAll(false) should clear the selection")
	}
}

func TestWorldPositions(t *testing.T) {
	world := math3d.Compose(math3d.V3(10, 0, 0), math3d.RotateZ(0), math3d.V3(2, 2, 2))
	got := WorldPositions(world, []math3d.Vec3{math3d.V3(1, 2, 3)})
	if got[0] != math3d.V3(12, 4, 6) {
		t.Errorf("world = %v, want (12, 4, 6)", got[0])
	}
}

func TestClone(t *testing.T) {
	cube := NewCube("Cube", 1)
	clone := cube.Clone()

	clone.Vertices[0].Selected = true
	clone.Faces[0][0] = 7
	if cube.Vertices[0].Selected || cube.Faces[0][0] == 7 {
		t.Error("clone shares data with the original")
	}
}

// Package models provides mesh data for projection: vertex positions with
// an edit-mode style selection flag, polygon faces, and loaders.
package models

import (
	"fmt"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/math3d"
)

// Mesh holds object-local vertex positions and polygon faces.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Faces    [][]int // Indices into Vertices, any polygon size

	// Bounding box in local space (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Vertex is a local-space position plus its selection state.
type Vertex struct {
	Position math3d.Vec3
	Selected bool
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// FromPyData builds a mesh from vertex coordinates and polygon index lists.
// Every face index must refer to an existing vertex. All vertices start
// deselected.
func FromPyData(name string, verts [][3]float64, faces [][]int) (*Mesh, error) {
	m := NewMesh(name)
	m.Vertices = make([]Vertex, len(verts))
	for i, v := range verts {
		m.Vertices[i].Position = math3d.V3(v[0], v[1], v[2])
	}

	m.Faces = make([][]int, 0, len(faces))
	for fi, f := range faces {
		if len(f) < 3 {
			return nil, fmt.Errorf("face %d: need at least 3 vertices, got %d", fi, len(f))
		}
		for _, vi := range f {
			if vi < 0 || vi >= len(verts) {
				return nil, fmt.Errorf("face %d: vertex index %d out of range", fi, vi)
			}
		}
		m.Faces = append(m.Faces, append([]int(nil), f...))
	}

	m.CalculateBounds()
	return m, nil
}

// NewCube returns an axis-aligned cube of the given edge length with one
// corner at the origin, as six quads.
func NewCube(name string, size float64) *Mesh {
	s := size
	m, _ := FromPyData(name, [][3]float64{
		{0, 0, 0}, {0, s, 0}, {s, s, 0}, {s, 0, 0},
		{0, 0, s}, {0, s, s}, {s, s, s}, {s, 0, s},
	}, CubeFaces())
	return m
}

// CubeFaces returns the quad faces of an eight-vertex cube laid out as
// bottom ring 0-3 then top ring 4-7.
func CubeFaces() [][]int {
	return [][]int{
		{0, 1, 2, 3}, {4, 5, 6, 7}, {0, 4, 5, 1},
		{1, 5, 6, 2}, {2, 6, 7, 3}, {3, 7, 4, 0},
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// Edges returns each undirected face edge once, in first-seen order.
func (m *Mesh) Edges() [][2]int {
	seen := make(map[[2]int]bool)
	var edges [][2]int
	for _, f := range m.Faces {
		for i := range f {
			a, b := f[i], f[(i+1)%len(f)]
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if a == b || seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, key)
		}
	}
	return edges
}

// Select marks the given vertices as selected. Out-of-range indices are
// ignored.
func (m *Mesh) Select(indices ...int) {
	for _, i := range indices {
		if i >= 0 && i < len(m.Vertices) {
			m.Vertices[i].Selected = true
		}
	}
}

// SelectAll sets the selection state of every vertex.
func (m *Mesh) SelectAll(selected bool) {
	for i := range m.Vertices {
		m.Vertices[i].Selected = selected
	}
}

// SelectedIndices returns the indices of selected vertices in order.
func (m *Mesh) SelectedIndices() []int {
	var out []int
	for i, v := range m.Vertices {
		if v.Selected {
			out = append(out, i)
		}
	}
	return out
}

// Positions returns local-space positions, either of every vertex or of
// the selected ones only, along with their vertex indices.
func (m *Mesh) Positions(selectedOnly bool) (positions []math3d.Vec3, indices []int) {
	for i, v := range m.Vertices {
		if selectedOnly && !v.Selected {
			continue
		}
		positions = append(positions, v.Position)
		indices = append(indices, i)
	}
	return positions, indices
}

// WorldPositions lifts positions to world space with the object's world
// matrix.
func WorldPositions(world math3d.Mat4, local []math3d.Vec3) []math3d.Vec3 {
	out := make([]math3d.Vec3, len(local))
	for i, p := range local {
		out[i] = world.MulPoint(p)
	}
	return out
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  append([]Vertex(nil), m.Vertices...),
		Faces:     make([][]int, len(m.Faces)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	for i, f := range m.Faces {
		clone.Faces[i] = append([]int(nil), f...)
	}
	return clone
}

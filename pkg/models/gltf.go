package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/math3d"
)

// LoadGLTF loads every mesh of a glTF or GLB file. Meshes stay in their
// own local space; node transforms are applied by the caller.
func LoadGLTF(path string) ([]*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	meshes := make([]*Mesh, 0, len(doc.Meshes))
	for i := range doc.Meshes {
		m, err := MeshFromGLTF(doc, i)
		if err != nil {
			return nil, err
		}
		if m.Name == "" {
			m.Name = fmt.Sprintf("%s#%d", filepath.Base(path), i)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// MeshFromGLTF converts mesh index idx of doc. Positions of every
// primitive are kept; only triangle primitives contribute faces.
func MeshFromGLTF(doc *gltf.Document, idx int) (*Mesh, error) {
	if idx < 0 || idx >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", idx)
	}
	src := doc.Meshes[idx]
	mesh := NewMesh(src.Name)

	for pi, prim := range src.Primitives {
		if err := appendPrimitive(doc, prim, mesh); err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", src.Name, pi, err)
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	if posIdx < 0 || posIdx >= len(doc.Accessors) {
		return fmt.Errorf("position accessor %d out of range", posIdx)
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	base := len(mesh.Vertices)
	for _, p := range positions {
		mesh.Vertices = append(mesh.Vertices, Vertex{
			Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])),
		})
	}

	if prim.Mode != gltf.PrimitiveTriangles {
		return nil
	}

	var indices []uint32
	if prim.Indices != nil {
		if *prim.Indices < 0 || *prim.Indices >= len(doc.Accessors) {
			return fmt.Errorf("index accessor %d out of range", *prim.Indices)
		}
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		// Non-indexed: consecutive vertex triples.
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		face := []int{base + int(indices[i]), base + int(indices[i+1]), base + int(indices[i+2])}
		for _, vi := range face {
			if vi >= len(mesh.Vertices) {
				return fmt.Errorf("index %d out of range", vi-base)
			}
		}
		mesh.Faces = append(mesh.Faces, face)
	}
	return nil
}

package scene

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ErrVertexOutOfRange is returned when a selection names a vertex index the
// mesh does not have.
var ErrVertexOutOfRange = errors.New("vertex index out of range")

// Range is an inclusive run of vertex indices.
type Range struct {
	First, Last int
}

// Selection maps mesh object names to the vertex ranges to select. The
// empty name applies to every mesh in the scene.
type Selection map[string][]Range

// ParseSelection parses a comma separated selection list. Each item is an
// index or an index range, optionally prefixed by an object name:
//
//	0,2,5          vertices 0, 2 and 5 of every mesh
//	Cube:0-3,Cube:6
//	1,Other:4-5    vertex 1 of every mesh plus 4 and 5 of Other
func ParseSelection(s string) (Selection, error) {
	sel := Selection{}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		name, idx := "", item
		if i := strings.LastIndexByte(item, ':'); i >= 0 {
			name, idx = strings.TrimSpace(item[:i]), strings.TrimSpace(item[i+1:])
			if name == "" {
				return nil, fmt.Errorf("selection %q: missing object name", item)
			}
		}

		r, err := parseRange(idx)
		if err != nil {
			return nil, fmt.Errorf("selection %q: %w", item, err)
		}
		sel[name] = append(sel[name], r)
	}
	if len(sel) == 0 {
		return nil, fmt.Errorf("selection %q is empty", s)
	}
	return sel, nil
}

func parseRange(s string) (Range, error) {
	lo, hi, isRange := strings.Cut(s, "-")
	first, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil || first < 0 {
		return Range{}, fmt.Errorf("invalid vertex index %q", lo)
	}
	if !isRange {
		return Range{First: first, Last: first}, nil
	}
	last, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil || last < first {
		return Range{}, fmt.Errorf("invalid vertex range %q", s)
	}
	return Range{First: first, Last: last}, nil
}

// ApplySelection replaces the vertex selection of every mesh the selection
// targets. Named objects must be meshes that have the named vertices;
// indices in the unnamed rule that a mesh does not have are ignored.
// Nothing is changed when an error is returned.
func (s *Scene) ApplySelection(sel Selection) error {
	for _, name := range slices.Sorted(maps.Keys(sel)) {
		if name == "" {
			continue
		}
		o, err := s.Object(name)
		if err != nil {
			return fmt.Errorf("select %q: %w", name, err)
		}
		if o.Kind != KindMesh || o.Mesh == nil {
			return fmt.Errorf("select %q: %w", name, ErrNotAMesh)
		}
		for _, r := range sel[name] {
			if r.Last >= len(o.Mesh.Vertices) {
				return fmt.Errorf("select %s:%d: %w", name, r.Last, ErrVertexOutOfRange)
			}
		}
	}

	global, hasGlobal := sel[""]
	for _, o := range s.Meshes() {
		named, ok := sel[o.Name]
		if !ok && !hasGlobal {
			continue
		}
		o.Mesh.SelectAll(false)
		for _, r := range append(slices.Clone(global), named...) {
			for i := r.First; i <= r.Last && i < len(o.Mesh.Vertices); i++ {
				o.Mesh.Select(i)
			}
		}
	}
	return nil
}

package render

import (
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/math3d"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/projection"
)

// Plane is the set of points p with Normal·p + D = 0.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize rescales the plane so its normal has unit length; distances
// are then in world units.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// Distance returns the signed distance from the plane to point. Positive
// is on the side the normal points to.
func (p Plane) Distance(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds the six clip planes of a camera with inward normals.
type Frustum struct {
	Planes [6]Plane
}

// Plane indices within Frustum.Planes.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// NewFrustum extracts the clip planes of a view-projection matrix
// (Gribb/Hartmann): each plane is row 3 plus or minus one of rows 0-2.
func NewFrustum(vp math3d.Mat4) Frustum {
	rows := vp.Rows()
	w := rows[3]

	plane := func(sign float64, r [4]float64) Plane {
		p := Plane{
			Normal: math3d.V3(w[0]+sign*r[0], w[1]+sign*r[1], w[2]+sign*r[2]),
			D:      w[3] + sign*r[3],
		}
		p.Normalize()
		return p
	}

	var f Frustum
	f.Planes[PlaneLeft] = plane(1, rows[0])
	f.Planes[PlaneRight] = plane(-1, rows[0])
	f.Planes[PlaneBottom] = plane(1, rows[1])
	f.Planes[PlaneTop] = plane(-1, rows[1])
	f.Planes[PlaneNear] = plane(1, rows[2])
	f.Planes[PlaneFar] = plane(-1, rows[2])
	return f
}

// FrustumOf returns the frustum seen through a camera transform.
func FrustumOf(ct projection.CameraTransform) Frustum {
	return NewFrustum(ct.ViewProjection())
}

// ContainsPoint reports whether a world-space point lies inside all six
// planes. Points exactly on a plane count as inside.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, pl := range f.Planes {
		if pl.Distance(p) < 0 {
			return false
		}
	}
	return true
}

// AABB is an axis-aligned box in world space.
type AABB struct {
	Min, Max math3d.Vec3
}

// AABBOf returns the smallest box holding every point. The zero AABB is
// returned for no points.
func AABBOf(points []math3d.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	b := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8]math3d.Vec3 {
	var out [8]math3d.Vec3
	for i := range out {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		out[i] = c
	}
	return out
}

// Transform returns the box bounding b after applying m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := b.Corners()
	for i := range corners {
		corners[i] = m.MulPoint(corners[i])
	}
	return AABBOf(corners[:])
}

// Intersects reports whether any part of the box may be inside the
// frustum. It tests the corner furthest along each plane normal, so it
// can return true for boxes that only straddle the frustum's corners.
func (f Frustum) Intersects(b AABB) bool {
	for _, pl := range f.Planes {
		far := b.Min
		if pl.Normal.X >= 0 {
			far.X = b.Max.X
		}
		if pl.Normal.Y >= 0 {
			far.Y = b.Max.Y
		}
		if pl.Normal.Z >= 0 {
			far.Z = b.Max.Z
		}
		if pl.Distance(far) < 0 {
			return false
		}
	}
	return true
}

// Contains reports whether the whole box is inside the frustum.
func (f Frustum) Contains(b AABB) bool {
	for _, c := range b.Corners() {
		if !f.ContainsPoint(c) {
			return false
		}
	}
	return true
}

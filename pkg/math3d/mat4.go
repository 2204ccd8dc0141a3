package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// For an affine object transform the upper 3x3 holds the rotated and scaled
// basis vectors and elements 12..14 hold the translation.
type Mat4 [16]float64

// singularEpsilon is the pivot magnitude below which a matrix is treated as
// non-invertible.
const singularEpsilon = 1e-12

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Diag returns a diagonal matrix with the given entries.
func Diag(a, b, c, d float64) Mat4 {
	return Mat4{
		a, 0, 0, 0,
		0, b, 0, 0,
		0, 0, c, 0,
		0, 0, 0, d,
	}
}

// FromRows builds a matrix from row-major nested slices, the layout used by
// JSON input and by most printed matrices. ok is false unless rows is
// exactly 4x4.
func FromRows(rows [][]float64) (m Mat4, ok bool) {
	if len(rows) != 4 {
		return Mat4{}, false
	}
	for r, row := range rows {
		if len(row) != 4 {
			return Mat4{}, false
		}
		for c, v := range row {
			m[r+c*4] = v
		}
	}
	return m, true
}

// Rows returns the matrix in row-major form.
func (m Mat4) Rows() [4][4]float64 {
	var rows [4][4]float64
	for r := range 4 {
		for c := range 4 {
			rows[r][c] = m[r+c*4]
		}
	}
	return rows
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m.SetTranslation(v)
	return m
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Diag(v.X, v.Y, v.Z, 1)
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// EulerXYZ creates the rotation for XYZ-ordered Euler angles in radians:
// X is applied first, then Y, then Z (R = Rz * Ry * Rx).
func EulerXYZ(e Vec3) Mat4 {
	return RotateZ(e.Z).Mul(RotateY(e.Y)).Mul(RotateX(e.X))
}

// Quaternion creates a rotation matrix from a unit quaternion (x, y, z, w).
func Quaternion(x, y, z, w float64) Mat4 {
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0,
		2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0,
		2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// Compose builds translate * rotate * scale, the usual object-to-world
// transform.
func Compose(translation Vec3, rotation Mat4, scale Vec3) Mat4 {
	return Translate(translation).Mul(rotation).Mul(Scale(scale))
}

// Perspective creates a symmetric perspective projection matrix.
// fovy is the vertical field of view in radians and aspect is width/height.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	top := near * math.Tan(fovy/2)
	right := top * aspect
	return Frustum(-right, right, -top, top, near, far)
}

// Frustum creates a perspective projection for the (possibly off-center)
// view plane [left,right]x[bottom,top] at distance near.
func Frustum(left, right, bottom, top, near, far float64) Mat4 {
	rl := 1.0 / (right - left)
	tb := 1.0 / (top - bottom)
	fn := 1.0 / (far - near)

	return Mat4{
		2 * near * rl, 0, 0, 0,
		0, 2 * near * tb, 0, 0,
		(right + left) * rl, (top + bottom) * tb, -(far + near) * fn, -1,
		0, 0, -2 * far * near * fn, 0,
	}
}

// Orthographic creates an orthographic projection matrix.
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	rl := 1.0 / (right - left)
	tb := 1.0 / (top - bottom)
	fn := 1.0 / (far - near)

	return Mat4{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(right + left) * rl, -(top + bottom) * tb, -(far + near) * fn, 1,
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulPoint transforms v as a position (w=1) and drops the resulting w.
// Intended for affine transforms where w stays 1.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 1)).Vec3()
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for r := range 4 {
		for c := range 4 {
			t[c+r*4] = m[r+c*4]
		}
	}
	return t
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float64 {
	a := m.Rows()
	det := 1.0
	for col := range 4 {
		p := pivotRow(&a, col)
		if math.Abs(a[p][col]) < singularEpsilon {
			return 0
		}
		if p != col {
			a[p], a[col] = a[col], a[p]
			det = -det
		}
		det *= a[col][col]
		for r := col + 1; r < 4; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < 4; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}
	return det
}

// Inverse returns the inverse of the matrix computed by Gauss-Jordan
// elimination with partial pivoting. ok is false if the matrix is singular.
func (m Mat4) Inverse() (inv Mat4, ok bool) {
	a := m.Rows()
	b := Identity().Rows()

	for col := range 4 {
		p := pivotRow(&a, col)
		if math.Abs(a[p][col]) < singularEpsilon {
			return Identity(), false
		}
		a[p], a[col] = a[col], a[p]
		b[p], b[col] = b[col], b[p]

		d := 1 / a[col][col]
		for c := range 4 {
			a[col][c] *= d
			b[col][c] *= d
		}
		for r := range 4 {
			if r == col {
				continue
			}
			f := a[r][col]
			if f == 0 {
				continue
			}
			for c := range 4 {
				a[r][c] -= f * a[col][c]
				b[r][c] -= f * b[col][c]
			}
		}
	}

	for r := range 4 {
		for c := range 4 {
			inv[r+c*4] = b[r][c]
		}
	}
	return inv, true
}

// pivotRow returns the row at or below col with the largest magnitude in
// column col.
func pivotRow(a *[4][4]float64, col int) int {
	p := col
	for r := col + 1; r < 4; r++ {
		if math.Abs(a[r][col]) > math.Abs(a[p][col]) {
			p = r
		}
	}
	return p
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row+col*4] = val
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// SetTranslation sets the translation component.
func (m *Mat4) SetTranslation(v Vec3) {
	m[12] = v.X
	m[13] = v.Y
	m[14] = v.Z
}

// IsFinite reports whether every element is a finite number.
func (m Mat4) IsFinite() bool {
	for _, v := range m {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
//
//nolint:st1016 // a,b naming convention is clearer for comparisons
func (a Mat4) ApproxEqual(b Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

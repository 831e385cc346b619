package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order.
// This matches OpenGL conventions for easier reasoning about transforms.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// For an affine transform the bottom row is (0, 0, 0, 1):
// | Xx Yx Zx Tx |   X,Y,Z = basis vectors (rotation/scale/shear)
// | Xy Yy Zy Ty |   T = translation
// | Xz Yz Zz Tz |
// | 0  0  0  1  |
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// Shear creates a shear matrix. Each factor names the output axis first:
// xy adds xy*y to x, zx adds zx*x to z, and so on.
func Shear(xy, xz, yx, yz, zx, zy float64) Mat4 {
	return Mat4{
		1, yx, zx, 0,
		xy, 1, zy, 0,
		xz, yz, 1, 0,
		0, 0, 0, 1,
	}
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

// Rotate creates a rotation matrix around an arbitrary axis.
func Rotate(axis Vec3, angle float64) Mat4 {
	axis = axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Perspective creates a perspective projection matrix.
// fovy is vertical field of view in radians.
// aspect is width/height.
// near and far are clipping planes.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovy/2)
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// Mul multiplies two matrices: a * b. Applying the result to a point applies
// b first, then a.
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

// MulPoint applies the affine part of m to a point. The bottom row is
// ignored, so no perspective divide takes place.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12],
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13],
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14],
	}
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// IsAffine reports whether the bottom row is exactly (0, 0, 0, 1).
func (m Mat4) IsAffine() bool {
	return m[3] == 0 && m[7] == 0 && m[11] == 0 && m[15] == 1
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
//
//nolint:st1016 // a,b naming convention is clearer for comparison
func (a Mat4) ApproxEqual(b Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

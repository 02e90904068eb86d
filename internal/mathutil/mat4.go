package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/mat"
)

// Mat4 is a 4×4 matrix stored row-major. Points are column vectors, so
// a × b applies b first.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// Mul returns m × b.
func (m Mat4) Mul(b Mat4) Mat4 {
	return Mat4Mul(m, b)
}

// MulPoint transforms a 3D point (w=1) by the 4×4 matrix.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}

// MulDir transforms a direction (w=0); translation is ignored.
func (m Mat4) MulDir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2],
	}
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[3], m[7], m[11]}
}

// FromMat3Translation builds a 4×4 affine matrix from a 3×3 rotation and translation.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// Translate returns a pure translation matrix.
func Translate(t Vec3) Mat4 {
	return FromMat3Translation(Mat3Identity(), t)
}

// IsIdentity checks if the matrix is approximately identity.
func (m Mat4) IsIdentity() bool {
	return m.ApproxEqual(Mat4Identity(), 1e-8)
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(o Mat4, eps float64) bool {
	for i := 0; i < 16; i++ {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}

// IsFinite reports whether no element is NaN or ±Inf.
func (m Mat4) IsFinite() bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Inverse returns m⁻¹. ok is false when m is singular or too badly
// conditioned for the result to be trusted; the returned matrix is then
// the identity.
func (m Mat4) Inverse() (Mat4, bool) {
	if !m.IsFinite() {
		return Mat4Identity(), false
	}
	a := mat.NewDense(4, 4, append([]float64(nil), m[:]...))
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return Mat4Identity(), false
	}
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = inv.At(r, c)
		}
	}
	if !out.IsFinite() {
		return Mat4Identity(), false
	}
	return out, true
}

// GL converts to a column-major float32 matrix for uniform uploads.
func (m Mat4) GL() mgl32.Mat4 {
	var g mgl32.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			g[c*4+r] = float32(m[r*4+c])
		}
	}
	return g
}

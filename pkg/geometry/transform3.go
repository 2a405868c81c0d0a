package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Transform3 is a 4x4 homogeneous transform. The zero value is the identity.
type Transform3 struct {
	m *mat.Dense
}

func newTransform3(data []float64) Transform3 {
	return Transform3{m: mat.NewDense(4, 4, data)}
}

// Identity3 returns the identity transform.
func Identity3() Transform3 {
	return newTransform3([]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

// Translate3 returns a translation by v.
func Translate3(v Vec3) Transform3 {
	return newTransform3([]float64{
		1, 0, 0, v[0],
		0, 1, 0, v[1],
		0, 0, 1, v[2],
		0, 0, 0, 1,
	})
}

// Scale3 returns an axis-aligned scale. Negative factors mirror the axis.
func Scale3(sx, sy, sz float64) Transform3 {
	return newTransform3([]float64{
		sx, 0, 0, 0,
		0, sy, 0, 0,
		0, 0, sz, 0,
		0, 0, 0, 1,
	})
}

// RotateX returns a right-handed rotation about the X axis.
func RotateX(rad float64) Transform3 {
	c, s := math.Cos(rad), math.Sin(rad)
	return newTransform3([]float64{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	})
}

// RotateY returns a right-handed rotation about the Y axis.
func RotateY(rad float64) Transform3 {
	c, s := math.Cos(rad), math.Sin(rad)
	return newTransform3([]float64{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	})
}

// RotateZ returns a right-handed rotation about the Z axis.
func RotateZ(rad float64) Transform3 {
	c, s := math.Cos(rad), math.Sin(rad)
	return newTransform3([]float64{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

// EulerXYZ returns Rx * Ry * Rz for the given angles.
func EulerXYZ(r Vec3) Transform3 {
	return RotateX(r[0]).Mul(RotateY(r[1])).Mul(RotateZ(r[2]))
}

func (t Transform3) dense() *mat.Dense {
	if t.m == nil {
		return Identity3().m
	}
	return t.m
}

// Mul returns t * o, so o is applied first.
func (t Transform3) Mul(o Transform3) Transform3 {
	var out mat.Dense
	out.Mul(t.dense(), o.dense())
	return Transform3{m: &out}
}

// Apply transforms a point.
func (t Transform3) Apply(p Vec3) Vec3 {
	in := mat.NewVecDense(4, []float64{p[0], p[1], p[2], 1})
	var out mat.VecDense
	out.MulVec(t.dense(), in)
	w := out.AtVec(3)
	if w == 0 {
		w = 1
	}
	return Vec3{out.AtVec(0) / w, out.AtVec(1) / w, out.AtVec(2) / w}
}

// Angles returns the Euler angles (x, y, z) of the rotation part of t such
// that EulerXYZ(angles) reproduces it. At gimbal lock (y = ±π/2) the z
// angle is folded into x.
func (t Transform3) Angles() Vec3 {
	m := t.dense()
	sy := math.Max(-1, math.Min(1, m.At(0, 2)))
	y := math.Asin(sy)
	if math.Abs(sy) > 1-1e-12 {
		return Vec3{math.Atan2(m.At(2, 1), m.At(1, 1)), y, 0}
	}
	return Vec3{
		math.Atan2(-m.At(1, 2), m.At(2, 2)),
		y,
		math.Atan2(-m.At(0, 1), m.At(0, 0)),
	}
}

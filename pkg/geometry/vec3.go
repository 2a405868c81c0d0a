package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a 3-tuple in logical or world space. It marshals as a JSON array.
type Vec3 [3]float64

// V3 creates a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// FromR3 converts a gonum r3 vector.
func FromR3(v r3.Vec) Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// R3 converts to a gonum r3 vector.
func (v Vec3) R3() r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return FromR3(r3.Add(v.R3(), o.R3()))
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return FromR3(r3.Sub(v.R3(), o.R3()))
}

// Scale returns v scaled by f.
func (v Vec3) Scale(f float64) Vec3 {
	return FromR3(r3.Scale(f, v.R3()))
}

// DistanceSq returns the squared distance between v and o.
func (v Vec3) DistanceSq(o Vec3) float64 {
	return r3.Norm2(r3.Sub(v.R3(), o.R3()))
}

// Rounded returns v with every axis rounded to the nearest integer.
func (v Vec3) Rounded() Vec3 {
	return Vec3{math.Round(v[0]), math.Round(v[1]), math.Round(v[2])}
}

// IsFinite reports whether every component is a finite number.
func (v Vec3) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Elem returns a vector with all elements set to v.
func Elem(v float64) r3.Vec {
	return r3.Vec{X: v, Y: v, Z: v}
}

// EqualWithin compares vectors for near equality, elementwise.
func EqualWithin(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol
}

// MinElem returns the elementwise minimum of two vectors.
func MinElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

// MaxElem returns the elementwise maximum of two vectors.
func MaxElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

// MulElem multiplies two vectors elementwise.
func MulElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

// Max returns the maximum element of a vector.
func Max(a r3.Vec) float64 {
	return math.Max(a.X, math.Max(a.Y, a.Z))
}

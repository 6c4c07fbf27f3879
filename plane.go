package hullmesh

import "gonum.org/v1/gonum/spatial/r3"

// Plane is an infinite plane given by the equation dot(Normal, p) = C.
// Normal must be of unit length. It is the reference geometry for
// mirroring, symmetrizing and boundary degeneracy checks.
type Plane struct {
	Normal r3.Vec
	C      float64
}

// PlaneXY is the z=0 coordinate plane.
func PlaneXY() Plane { return Plane{Normal: r3.Vec{Z: 1}} }

// PlaneYZ is the x=0 coordinate plane.
func PlaneYZ() Plane { return Plane{Normal: r3.Vec{X: 1}} }

// PlaneZX is the y=0 coordinate plane.
func PlaneZX() Plane { return Plane{Normal: r3.Vec{Y: 1}} }

// Project returns the orthogonal projection of p onto the plane.
func (pl Plane) Project(p r3.Vec) r3.Vec {
	return r3.Sub(p, r3.Scale(r3.Dot(p, pl.Normal)-pl.C, pl.Normal))
}

// Distance returns the signed distance from p to the plane, positive on
// the side the normal points to.
func (pl Plane) Distance(p r3.Vec) float64 {
	return r3.Dot(p, pl.Normal) - pl.C
}

// mirror reflects p across the plane.
func (pl Plane) mirror(p r3.Vec) r3.Vec {
	return r3.Sub(p, r3.Scale(2*(r3.Dot(p, pl.Normal)-pl.C), pl.Normal))
}

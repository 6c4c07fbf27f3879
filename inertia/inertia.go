// Package inertia provides the rigid-body inertia value object produced by
// mesh integral evaluation: a mass, a center of gravity and a symmetric
// inertia tensor, expressed at a reference point.
package inertia

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// RigidBodyInertia describes the inertial properties of a rigid body. Xx..Xy
// are the six independent entries of the inertia tensor expressed at Point:
// Xx = ∫(y²+z²)dm and so on for the diagonal, Yz = ∫yz dm and so on for the
// products of inertia.
type RigidBodyInertia struct {
	Mass float64
	COG  r3.Vec
	Xx   float64
	Yy   float64
	Zz   float64
	Yz   float64
	Xz   float64
	Xy   float64
	// Point is the reference point the tensor is expressed at.
	Point r3.Vec
}

// New builds a RigidBodyInertia from its mass, center of gravity, tensor
// entries and reference point.
func New(mass float64, cog r3.Vec, xx, yy, zz, yz, xz, xy float64, point r3.Vec) RigidBodyInertia {
	return RigidBodyInertia{
		Mass: mass, COG: cog,
		Xx: xx, Yy: yy, Zz: zz,
		Yz: yz, Xz: xz, Xy: xy,
		Point: point,
	}
}

// Matrix returns the inertia tensor at the reference point as a symmetric
// 3x3 matrix, with the conventional negated products of inertia off the
// diagonal.
func (rb RigidBodyInertia) Matrix() *mat.SymDense {
	return mat.NewSymDense(3, []float64{
		rb.Xx, -rb.Xy, -rb.Xz,
		-rb.Xy, rb.Yy, -rb.Yz,
		-rb.Xz, -rb.Yz, rb.Zz,
	})
}

// AtCOG returns the same inertia expressed at the body's center of gravity,
// by the parallel-axis theorem.
func (rb RigidBodyInertia) AtCOG() RigidBodyInertia {
	d := r3.Sub(rb.COG, rb.Point)
	out := rb
	out.Point = rb.COG
	out.Xx -= rb.Mass * (d.Y*d.Y + d.Z*d.Z)
	out.Yy -= rb.Mass * (d.X*d.X + d.Z*d.Z)
	out.Zz -= rb.Mass * (d.X*d.X + d.Y*d.Y)
	out.Yz -= rb.Mass * d.Y * d.Z
	out.Xz -= rb.Mass * d.X * d.Z
	out.Xy -= rb.Mass * d.X * d.Y
	return out
}

// At returns the same inertia expressed at point p, transporting the tensor
// through the center of gravity.
func (rb RigidBodyInertia) At(p r3.Vec) RigidBodyInertia {
	cg := rb.AtCOG()
	d := r3.Sub(cg.COG, p)
	out := cg
	out.Point = p
	out.Xx += cg.Mass * (d.Y*d.Y + d.Z*d.Z)
	out.Yy += cg.Mass * (d.X*d.X + d.Z*d.Z)
	out.Zz += cg.Mass * (d.X*d.X + d.Y*d.Y)
	out.Yz += cg.Mass * d.Y * d.Z
	out.Xz += cg.Mass * d.X * d.Z
	out.Xy += cg.Mass * d.X * d.Y
	return out
}

// String summarizes the inertia for reporting.
func (rb RigidBodyInertia) String() string {
	return fmt.Sprintf("mass %.6g, cog (%.6g, %.6g, %.6g), inertia at (%g, %g, %g): xx=%.6g yy=%.6g zz=%.6g yz=%.6g xz=%.6g xy=%.6g",
		rb.Mass, rb.COG.X, rb.COG.Y, rb.COG.Z,
		rb.Point.X, rb.Point.Y, rb.Point.Z,
		rb.Xx, rb.Yy, rb.Zz, rb.Yz, rb.Xz, rb.Xy)
}

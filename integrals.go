package hullmesh

import (
	"github.com/hullform/hullmesh/inertia"
	"github.com/hullform/hullmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// SurfaceMoments holds the 15 closed-form polynomial integrals of one face
// over its surface, in order:
//
//	0-2   ∫x dS, ∫y dS, ∫z dS
//	3-5   ∫yz dS, ∫xz dS, ∫xy dS
//	6-8   ∫x² dS, ∫y² dS, ∫z² dS
//	9-11  ∫x³ dS, ∫y³ dS, ∫z³ dS
//	12-14 ∫x²y dS, ∫y²z dS, ∫z²x dS
//
// Together with the face normals they yield the enclosed volume and the
// rigid-body inertia of the mesh without any volumetric discretization.
type SurfaceMoments [15]float64

func (s *SurfaceMoments) add(o SurfaceMoments) {
	for i := range s {
		s[i] += o[i]
	}
}

// triangleMoments evaluates the 15 surface integrals over one triangle with
// the usual recursive subexpression scheme over vertex coordinate powers.
// delta is twice the triangle area.
func triangleMoments(p0, p1, p2 r3.Vec) SurfaceMoments {
	t0 := r3.Add(p0, p1)
	f1 := r3.Add(t0, p2)
	t1 := d3.MulElem(p0, p0)
	t2 := r3.Add(t1, d3.MulElem(p1, t0))
	f2 := r3.Add(t2, d3.MulElem(p2, f1))
	f3 := r3.Add(r3.Add(d3.MulElem(p0, t1), d3.MulElem(p1, t2)), d3.MulElem(p2, f2))
	g0 := r3.Add(f2, d3.MulElem(p0, r3.Add(f1, p0)))
	g1 := r3.Add(f2, d3.MulElem(p1, r3.Add(f1, p1)))
	g2 := r3.Add(f2, d3.MulElem(p2, r3.Add(f1, p2)))

	delta := r3.Norm(r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0)))

	var s SurfaceMoments
	s[0] = delta * f1.X / 6
	s[1] = delta * f1.Y / 6
	s[2] = delta * f1.Z / 6

	// ∫ab dS = A/12 (Σaᵢbᵢ + Σaᵢ Σbᵢ), with delta = 2A.
	s[3] = delta * (p0.Y*p0.Z + p1.Y*p1.Z + p2.Y*p2.Z + f1.Y*f1.Z) / 24
	s[4] = delta * (p0.X*p0.Z + p1.X*p1.Z + p2.X*p2.Z + f1.X*f1.Z) / 24
	s[5] = delta * (p0.X*p0.Y + p1.X*p1.Y + p2.X*p2.Y + f1.X*f1.Y) / 24

	s[6] = delta * f2.X / 12
	s[7] = delta * f2.Y / 12
	s[8] = delta * f2.Z / 12

	s[9] = delta * f3.X / 20
	s[10] = delta * f3.Y / 20
	s[11] = delta * f3.Z / 20

	s[12] = delta * (p0.Y*g0.X + p1.Y*g1.X + p2.Y*g2.X) / 60
	s[13] = delta * (p0.Z*g0.Y + p1.Z*g1.Y + p2.Z*g2.Y) / 60
	s[14] = delta * (p0.X*g0.Z + p1.X*g1.Z + p2.X*g2.Z) / 60
	return s
}

// SurfaceIntegrals returns the per-face surface moments, computing and
// memoizing them on first use. Quadrangles are the sum of the moments of
// their two (v0,v1,v2)+(v0,v2,v3) diagonal-split triangles.
func (m *Mesh) SurfaceIntegrals() []SurfaceMoments {
	if m.d.integrals == nil {
		integrals := make([]SurfaceMoments, len(m.faces))
		for i, f := range m.faces {
			v0 := m.vertices[f[0]]
			v1 := m.vertices[f[1]]
			v2 := m.vertices[f[2]]
			integrals[i] = triangleMoments(v0, v1, v2)
			if !f.IsTriangle() {
				integrals[i].add(triangleMoments(v0, v2, m.vertices[f[3]]))
			}
		}
		m.d.integrals = integrals
	}
	return m.d.integrals
}

// Volume returns the enclosed volume of the mesh via the divergence
// theorem: (1/3)·Σ dot(n, ∫(x,y,z) dS) over faces. The result is only
// meaningful for closed meshes with consistent outward normals; a flat
// patch encloses zero volume.
func (m *Mesh) Volume() float64 {
	integrals := m.SurfaceIntegrals()
	normals := m.FaceNormals()
	var v float64
	for i := range integrals {
		s := &integrals[i]
		v += normals[i].X*s[0] + normals[i].Y*s[1] + normals[i].Z*s[2]
	}
	return v / 3
}

// EvalPlainInertia evaluates the mesh's rigid-body inertia assuming the
// enclosed volume is filled with a homogeneous medium of density rho
// (kg/m³). The inertia is expressed at the origin.
func (m *Mesh) EvalPlainInertia(rho float64) inertia.RigidBodyInertia {
	integrals := m.SurfaceIntegrals()
	normals := m.FaceNormals()
	volume := m.Volume()
	mass := rho * volume

	var cog r3.Vec
	var s9, s10, s11, s12, s13, s14 float64
	for i := range integrals {
		s := &integrals[i]
		n := normals[i]
		cog.X += n.X * s[6]
		cog.Y += n.Y * s[7]
		cog.Z += n.Z * s[8]
		s9 += n.X * s[9]
		s10 += n.Y * s[10]
		s11 += n.Z * s[11]
		s12 += n.X * s[12]
		s13 += n.Y * s[13]
		s14 += n.Z * s[14]
	}
	cog = r3.Scale(1/(2*volume), cog)

	xx := rho * (s10 + s11) / 3
	yy := rho * (s9 + s11) / 3
	zz := rho * (s9 + s10) / 3
	xy := rho * s12 / 2
	xz := rho * s14 / 2
	yz := rho * s13 / 2
	return inertia.New(mass, cog, xx, yy, zz, yz, xz, xy, r3.Vec{})
}

// EvalShellInertia evaluates the mesh's rigid-body inertia assuming a
// homogeneous shell of the given density (kg/m³) and uniform thickness (m)
// over the surface. The inertia is expressed at the origin.
func (m *Mesh) EvalShellInertia(rho, thickness float64) inertia.RigidBodyInertia {
	surfDensity := rho * thickness
	surface := m.SurfaceArea()
	mass := surfDensity * surface

	var total SurfaceMoments
	for _, s := range m.SurfaceIntegrals() {
		total.add(s)
	}
	// First moments over total area give the center of gravity of a
	// uniform shell.
	cog := r3.Scale(1/surface, r3.Vec{X: total[0], Y: total[1], Z: total[2]})

	xx := surfDensity * (total[7] + total[8])
	yy := surfDensity * (total[6] + total[8])
	zz := surfDensity * (total[6] + total[7])
	yz := surfDensity * total[3]
	xz := surfDensity * total[4]
	xy := surfDensity * total[5]
	return inertia.New(mass, cog, xx, yy, zz, yz, xz, xy, r3.Vec{})
}

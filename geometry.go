package hullmesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// faceGeometry holds per-face area, unit normal and center, computed
// together in one pass.
type faceGeometry struct {
	areas   []float64
	normals []r3.Vec
	centers []r3.Vec
}

func (m *Mesh) classes() *faceClasses {
	if m.d.classes == nil {
		c := &faceClasses{}
		for i, f := range m.faces {
			if f.IsTriangle() {
				c.triangles = append(c.triangles, i)
			} else {
				c.quadrangles = append(c.quadrangles, i)
			}
		}
		m.d.classes = c
	}
	return m.d.classes
}

// TriangleIDs returns the ids of triangle-shaped faces.
func (m *Mesh) TriangleIDs() []int { return m.classes().triangles }

// QuadrangleIDs returns the ids of quadrangle-shaped faces.
func (m *Mesh) QuadrangleIDs() []int { return m.classes().quadrangles }

// NumTriangles returns the number of triangles in the mesh.
func (m *Mesh) NumTriangles() int { return len(m.classes().triangles) }

// NumQuadrangles returns the number of quadrangles in the mesh.
func (m *Mesh) NumQuadrangles() int { return len(m.classes().quadrangles) }

// IsTriangle reports whether face i is a triangle.
func (m *Mesh) IsTriangle(i int) bool { return m.faces[i].IsTriangle() }

func (m *Mesh) faceGeometry() *faceGeometry {
	if m.d.geom == nil {
		m.d.geom = computeFaceGeometry(m.vertices, m.faces)
	}
	return m.d.geom
}

// computeFaceGeometry derives area, unit normal and center for every face.
//
// Quadrangles need not be planar: their area and center come from the two
// triangles of the (v0,v1,v2)+(v0,v2,v3) diagonal split, area-weighted,
// while the normal is the normalized cross product of the diagonals.
func computeFaceGeometry(vertices []r3.Vec, faces []Face) *faceGeometry {
	nf := len(faces)
	g := &faceGeometry{
		areas:   make([]float64, nf),
		normals: make([]r3.Vec, nf),
		centers: make([]r3.Vec, nf),
	}
	for i, f := range faces {
		v0 := vertices[f[0]]
		v1 := vertices[f[1]]
		v2 := vertices[f[2]]
		if f.IsTriangle() {
			n := r3.Cross(r3.Sub(v1, v0), r3.Sub(v2, v0))
			norm := r3.Norm(n)
			g.areas[i] = 0.5 * norm
			if norm > 0 {
				g.normals[i] = r3.Scale(1/norm, n)
			}
			g.centers[i] = r3.Scale(1.0/3.0, r3.Add(r3.Add(v0, v1), v2))
			continue
		}
		v3 := vertices[f[3]]
		n := r3.Cross(r3.Sub(v2, v0), r3.Sub(v3, v1))
		if norm := r3.Norm(n); norm > 0 {
			g.normals[i] = r3.Scale(1/norm, n)
		}
		a1 := 0.5 * r3.Norm(r3.Cross(r3.Sub(v1, v0), r3.Sub(v2, v0)))
		a2 := 0.5 * r3.Norm(r3.Cross(r3.Sub(v3, v0), r3.Sub(v2, v0)))
		c1 := r3.Scale(1.0/3.0, r3.Add(r3.Add(v0, v1), v2))
		c2 := r3.Scale(1.0/3.0, r3.Add(r3.Add(v0, v2), v3))
		g.areas[i] = a1 + a2
		if g.areas[i] > 0 {
			g.centers[i] = r3.Scale(1/(a1+a2), r3.Add(r3.Scale(a1, c1), r3.Scale(a2, c2)))
		} else {
			g.centers[i] = v0
		}
	}
	return g
}

// FaceAreas returns the per-face areas.
func (m *Mesh) FaceAreas() []float64 { return m.faceGeometry().areas }

// FaceNormals returns the per-face unit normals.
func (m *Mesh) FaceNormals() []r3.Vec { return m.faceGeometry().normals }

// FaceCenters returns the per-face centers.
func (m *Mesh) FaceCenters() []r3.Vec { return m.faceGeometry().centers }

// FaceRadii returns, per face, the maximal distance between the face
// center and one of its vertices.
func (m *Mesh) FaceRadii() []float64 {
	if m.d.radii == nil {
		centers := m.FaceCenters()
		radii := make([]float64, len(m.faces))
		for i, f := range m.faces {
			for _, iv := range f.Cycle() {
				if d := r3.Norm(r3.Sub(m.vertices[iv], centers[i])); d > radii[i] {
					radii[i] = d
				}
			}
		}
		m.d.radii = radii
	}
	return m.d.radii
}

// SurfaceArea returns the total surface area of the mesh.
func (m *Mesh) SurfaceArea() float64 {
	var s float64
	for _, a := range m.FaceAreas() {
		s += a
	}
	return s
}

// EdgeLengthStats returns the minimum, maximum and mean edge length over
// all face cycles. The repeated triangle slot is not counted as an edge.
func (m *Mesh) EdgeLengthStats() (min, max, mean float64) {
	min = math.MaxFloat64
	max = -math.MaxFloat64
	var sum float64
	var n int
	for _, f := range m.faces {
		cycle := f.Cycle()
		for i, iv := range cycle {
			next := cycle[(i+1)%len(cycle)]
			l := r3.Norm(r3.Sub(m.vertices[next], m.vertices[iv]))
			min = math.Min(min, l)
			max = math.Max(max, l)
			sum += l
			n++
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	return min, max, sum / float64(n)
}

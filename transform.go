package hullmesh

import (
	"fmt"
	"math"

	"github.com/hullform/hullmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Rotate rotates the mesh about the fixed coordinate axes. The rotation is
// given as a single 3-vector whose direction is the rotation axis and whose
// magnitude is the angle in radians (Rodrigues form). It returns the 3x3
// rotation matrix that was applied; the zero vector returns the identity
// and leaves the mesh untouched.
func (m *Mesh) Rotate(angles r3.Vec) *r3.Mat {
	theta := r3.Norm(angles)
	if theta == 0 {
		return r3.Eye()
	}
	u := r3.Scale(1/theta, angles)
	c := math.Cos(theta)
	s := math.Sin(theta)
	k := 1 - c
	rot := r3.NewMat([]float64{
		c + u.X*u.X*k, u.X*u.Y*k - u.Z*s, u.X*u.Z*k + u.Y*s,
		u.Y*u.X*k + u.Z*s, c + u.Y*u.Y*k, u.Y*u.Z*k - u.X*s,
		u.Z*u.X*k - u.Y*s, u.Z*u.Y*k + u.X*s, c + u.Z*u.Z*k,
	})
	for i := range m.vertices {
		m.vertices[i] = rot.MulVec(m.vertices[i])
	}
	// Cached face geometry transforms rigidly: rotate normals and centers
	// in place instead of recomputing. Radii are rotation invariant.
	if g := m.d.geom; g != nil {
		for i := range g.normals {
			g.normals[i] = rot.MulVec(g.normals[i])
			g.centers[i] = rot.MulVec(g.centers[i])
		}
	}
	m.d.drop(aggIntegrals)
	return rot
}

// RotateX rotates the mesh by theta radians about the Ox axis.
func (m *Mesh) RotateX(theta float64) *r3.Mat { return m.Rotate(r3.Vec{X: theta}) }

// RotateY rotates the mesh by theta radians about the Oy axis.
func (m *Mesh) RotateY(theta float64) *r3.Mat { return m.Rotate(r3.Vec{Y: theta}) }

// RotateZ rotates the mesh by theta radians about the Oz axis.
func (m *Mesh) RotateZ(theta float64) *r3.Mat { return m.Rotate(r3.Vec{Z: theta}) }

// Translate translates every vertex by t.
func (m *Mesh) Translate(t r3.Vec) {
	for i := range m.vertices {
		m.vertices[i] = r3.Add(m.vertices[i], t)
	}
	if g := m.d.geom; g != nil {
		for i := range g.centers {
			g.centers[i] = r3.Add(g.centers[i], t)
		}
	}
	m.d.drop(aggIntegrals)
}

// Scale scales the mesh uniformly by a positive factor.
func (m *Mesh) Scale(factor float64) error {
	return m.ScaleElem(d3.Elem(factor))
}

// ScaleElem scales the mesh along each coordinate axis by the corresponding
// positive factor. Face geometry is not cheaply transformable under
// non-uniform scaling and is recomputed on next access.
func (m *Mesh) ScaleElem(factors r3.Vec) error {
	if factors.X <= 0 || factors.Y <= 0 || factors.Z <= 0 {
		return fmt.Errorf("scale factors must be positive, got (%g, %g, %g)", factors.X, factors.Y, factors.Z)
	}
	for i := range m.vertices {
		m.vertices[i] = d3.MulElem(m.vertices[i], factors)
	}
	m.d.drop(aggFaceGeometry)
	return nil
}

// FlipNormals reverses the winding of every face.
func (m *Mesh) FlipNormals() {
	for i, f := range m.faces {
		m.faces[i] = f.flipped()
	}
	if g := m.d.geom; g != nil {
		for i := range g.normals {
			g.normals[i] = r3.Scale(-1, g.normals[i])
		}
	}
	m.d.drop(aggIntegrals)
}

// Mirror reflects the mesh across a plane in place, flipping every face
// winding so normals keep pointing to the same side of the surface.
func (m *Mesh) Mirror(pl Plane) {
	for i := range m.vertices {
		m.vertices[i] = pl.mirror(m.vertices[i])
	}
	for i, f := range m.faces {
		m.faces[i] = f.flipped()
	}
	m.d.dropAll()
}

// Symmetrize appends the mesh's mirror image across a plane, producing a
// doubled mesh, and merges duplicate vertices on the symmetry plane.
func (m *Mesh) Symmetrize(pl Plane) {
	nv := len(m.vertices)
	for iv := 0; iv < nv; iv++ {
		m.vertices = append(m.vertices, pl.mirror(m.vertices[iv]))
	}
	nf := len(m.faces)
	for i := 0; i < nf; i++ {
		f := m.faces[i]
		m.faces = append(m.faces, Face{f[3] + nv, f[2] + nv, f[1] + nv, f[0] + nv})
	}
	m.d.dropAll()
	m.MergeDuplicates(DefaultMergeTol)
}

// MergeDuplicates merges vertices lying within an absolute distance atol of
// each other, compacting the vertex array and renumbering face indices.
// Vertices keep their first-occurrence order. It returns the old-to-new
// vertex index mapping. Non-positive atol uses DefaultMergeTol.
//
// Duplicate detection quantizes coordinates on an atol-sized grid, the same
// scheme used for vertex identification on model import.
func (m *Mesh) MergeDuplicates(atol float64) []int {
	if atol <= 0 {
		atol = DefaultMergeTol
	}
	ri := 1 / atol
	cache := make(map[[3]int64]int, len(m.vertices))
	newID := make([]int, len(m.vertices))
	uniq := make([]r3.Vec, 0, len(m.vertices))
	for iv, v := range m.vertices {
		k := [3]int64{
			int64(math.Round(v.X * ri)),
			int64(math.Round(v.Y * ri)),
			int64(math.Round(v.Z * ri)),
		}
		id, ok := cache[k]
		if !ok {
			id = len(uniq)
			cache[k] = id
			uniq = append(uniq, v)
		}
		newID[iv] = id
	}
	merged := len(m.vertices) - len(uniq)
	if merged == 0 {
		logger.Info("no duplicate vertices", "atol", atol)
		return newID
	}
	m.vertices = uniq
	for i, f := range m.faces {
		m.faces[i] = Face{newID[f[0]], newID[f[1]], newID[f[2]], newID[f[3]]}
	}
	// Positions are unchanged, so face geometry survives; the renumbering
	// invalidates connectivity, and merging can collapse a quadrangle into
	// triangle encoding, so the classification goes too.
	m.d.drop(aggConnectivity, aggClasses)
	logger.Info("merged duplicate vertices", "count", merged, "atol", atol)
	return newID
}

// ExtractFaces builds a new mesh containing only the given faces and the
// vertices they reference, compacted and renumbered. The second return
// value maps the new mesh's vertex indices to the receiver's.
func (m *Mesh) ExtractFaces(ids []int) (*Mesh, []int, error) {
	for _, id := range ids {
		if id < 0 || id >= len(m.faces) {
			return nil, nil, fmt.Errorf("face id %d out of range, mesh has %d faces", id, len(m.faces))
		}
	}
	used := make([]bool, len(m.vertices))
	for _, id := range ids {
		for _, iv := range m.faces[id] {
			used[iv] = true
		}
	}
	newID := make([]int, len(m.vertices))
	var oldIDs []int
	var vertices []r3.Vec
	for iv, u := range used {
		if u {
			newID[iv] = len(vertices)
			vertices = append(vertices, m.vertices[iv])
			oldIDs = append(oldIDs, iv)
		}
	}
	faces := make([]Face, len(ids))
	for i, id := range ids {
		f := m.faces[id]
		faces[i] = Face{newID[f[0]], newID[f[1]], newID[f[2]], newID[f[3]]}
	}
	extracted, err := New(vertices, faces)
	if err != nil {
		return nil, nil, err
	}
	extracted.Rename("extracted_from_" + m.name)
	return extracted, oldIDs, nil
}

// TriangulateQuadrangles splits every quadrangle into two triangles along
// the (v0,v2) diagonal. The (v0,v2,v3) half replaces the quadrangle in
// place and the (v0,v1,v2) half is appended after the existing faces.
func (m *Mesh) TriangulateQuadrangles() {
	quads := m.QuadrangleIDs()
	if len(quads) == 0 {
		logger.Info("no quadrangles to triangulate")
		return
	}
	appended := make([]Face, 0, len(quads))
	for _, id := range quads {
		f := m.faces[id]
		appended = append(appended, Face{f[0], f[1], f[2], f[0]})
		m.faces[id] = Face{f[0], f[2], f[3], f[0]}
	}
	m.faces = append(m.faces, appended...)
	m.d.dropAll()
	logger.Info("split quadrangles into triangles", "count", len(quads))
}

// Package hullmesh implements a polygonal surface-mesh kernel for marine
// hydrostatic analysis. A Mesh stores an unstructured surface mesh of
// triangles and quadrangles and derives face geometry, topological
// connectivity, boundary loops and the polynomial surface integrals used
// for enclosed-volume and rigid-body inertia computation.
package hullmesh

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/hullform/hullmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Face stores the vertex indices of one mesh face in counterclockwise order
// as seen from outside the surface, so that the right-hand rule yields an
// outward normal. Quadrangles use all four slots; a triangle repeats its
// first index in the last slot.
type Face [4]int

// IsTriangle reports whether the face encodes a triangle.
func (f Face) IsTriangle() bool { return f[0] == f[3] }

// Cycle returns the face's vertex cycle: 3 indices for a triangle,
// 4 for a quadrangle.
func (f Face) Cycle() []int {
	if f.IsTriangle() {
		return f[:3]
	}
	return f[:]
}

// flipped returns the face with reversed winding. Triangle encoding is
// preserved: [a b c a] becomes [a c b a].
func (f Face) flipped() Face {
	return Face{f[3], f[2], f[1], f[0]}
}

// meshIDs feeds default mesh names. Explicitly package-owned; callers that
// need stable names should Rename their meshes.
var meshIDs atomic.Uint64

// Mesh is an unstructured surface mesh of triangles and quadrangles.
//
// A Mesh is not safe for concurrent use: reads of derived properties
// memoize results on the instance. Callers needing parallelism should
// partition work across independent meshes.
type Mesh struct {
	name     string
	vertices []r3.Vec
	faces    []Face
	d        derived
}

// New builds a mesh from explicit vertex and face arrays. The slices are
// taken over by the mesh and must not be mutated by the caller afterwards.
// It fails if any face references a vertex out of bounds.
func New(vertices []r3.Vec, faces []Face) (*Mesh, error) {
	nv := len(vertices)
	for i, f := range faces {
		for _, iv := range f {
			if iv < 0 || iv >= nv {
				return nil, fmt.Errorf("face %d references vertex %d, mesh has %d vertices", i, iv, nv)
			}
		}
	}
	return &Mesh{
		name:     "mesh_" + strconv.FormatUint(meshIDs.Add(1), 10),
		vertices: vertices,
		faces:    faces,
	}, nil
}

// Name returns the mesh's name.
func (m *Mesh) Name() string { return m.name }

// Rename sets the mesh's name.
func (m *Mesh) Rename(name string) { m.name = name }

// NumVertices returns the number of vertices in the mesh.
func (m *Mesh) NumVertices() int { return len(m.vertices) }

// NumFaces returns the number of faces in the mesh.
func (m *Mesh) NumFaces() int { return len(m.faces) }

// Vertices returns the mesh's vertex array. The returned slice is the
// mesh's own storage: treat it as read-only and use SetVertices to
// replace it.
func (m *Mesh) Vertices() []r3.Vec { return m.vertices }

// Faces returns the mesh's face array. The returned slice is the mesh's
// own storage: treat it as read-only and use SetFaces to replace it.
func (m *Mesh) Faces() []Face { return m.faces }

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i int) r3.Vec { return m.vertices[i] }

// Face returns face i.
func (m *Mesh) Face(i int) Face { return m.faces[i] }

// SetVertices replaces the vertex array wholesale and clears the whole
// derived-property cache.
func (m *Mesh) SetVertices(vertices []r3.Vec) {
	m.vertices = vertices
	m.d.dropAll()
}

// SetFaces replaces the face array wholesale and clears the whole
// derived-property cache. It fails if any face references a vertex out
// of bounds.
func (m *Mesh) SetFaces(faces []Face) error {
	nv := len(m.vertices)
	for i, f := range faces {
		for _, iv := range f {
			if iv < 0 || iv >= nv {
				return fmt.Errorf("face %d references vertex %d, mesh has %d vertices", i, iv, nv)
			}
		}
	}
	m.faces = faces
	m.d.dropAll()
	return nil
}

// Bounds returns the axis-aligned bounding box of the mesh. The zero box
// is returned for a mesh without vertices.
func (m *Mesh) Bounds() d3.Box {
	if len(m.vertices) == 0 {
		return d3.Box{}
	}
	bb := d3.EmptyBox()
	for _, v := range m.vertices {
		bb = bb.Include(v)
	}
	return bb
}

// SquareBounds returns the smallest cube-shaped box sharing the bounding
// box's center and containing the mesh.
func (m *Mesh) SquareBounds() d3.Box { return m.Bounds().Square() }

// String summarizes the mesh.
func (m *Mesh) String() string {
	bb := m.Bounds()
	return fmt.Sprintf("mesh %q: %d vertices, %d faces (%d triangles, %d quadrangles), bounds [%g %g]x[%g %g]x[%g %g]",
		m.name, m.NumVertices(), m.NumFaces(), m.NumTriangles(), m.NumQuadrangles(),
		bb.Min.X, bb.Max.X, bb.Min.Y, bb.Max.Y, bb.Min.Z, bb.Max.Z)
}

// Copy returns a deep copy of the mesh with a fresh cache.
func (m *Mesh) Copy() *Mesh {
	vertices := make([]r3.Vec, len(m.vertices))
	copy(vertices, m.vertices)
	faces := make([]Face, len(m.faces))
	copy(faces, m.faces)
	return &Mesh{name: m.name, vertices: vertices, faces: faces}
}

// Merged concatenates two meshes and merges duplicate vertices at the
// default tolerance, producing a new mesh.
func Merged(a, b *Mesh) *Mesh {
	vertices := make([]r3.Vec, 0, len(a.vertices)+len(b.vertices))
	vertices = append(vertices, a.vertices...)
	vertices = append(vertices, b.vertices...)
	faces := make([]Face, 0, len(a.faces)+len(b.faces))
	faces = append(faces, a.faces...)
	offset := len(a.vertices)
	for _, f := range b.faces {
		faces = append(faces, Face{f[0] + offset, f[1] + offset, f[2] + offset, f[3] + offset})
	}
	merged := &Mesh{name: a.name + "_" + b.name, vertices: vertices, faces: faces}
	merged.MergeDuplicates(DefaultMergeTol)
	return merged
}

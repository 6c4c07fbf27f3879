package hullmesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Default tolerances of the repair passes.
const (
	// DefaultMergeTol is the absolute distance under which two vertices
	// are considered duplicates.
	DefaultMergeTol = 1e-8
	// DefaultDegenerateRTol is the relative area threshold (fraction of the
	// mean face area) under which a face is considered degenerate.
	DefaultDegenerateRTol = 1e-5
	// watertightTol bounds the horizontal components of the global sanity
	// vector of a truly watertight mesh.
	watertightTol = 1e-9
)

// HealNormals makes face windings consistent across the mesh by flooding
// the face adjacency graph, then orients the whole mesh outward when it is
// closed. Disconnected components become internally consistent, but their
// relative orientation is not reconciled. Non-closed meshes skip the
// outward correction: there is no reliable reference for it.
func (m *Mesh) HealNormals() error {
	conn, err := m.Connectivity()
	if err != nil {
		return fmt.Errorf("heal normals: %w", err)
	}
	nf := m.NumFaces()
	if nf == 0 {
		return nil
	}

	// Flood fill over the immutable adjacency list. Faces are marked
	// visited when pushed, which is what keeps the traversal a tree.
	visited := make([]bool, nf)
	stack := make([]int, 0, nf)
	visited[0] = true
	stack = append(stack, 0)
	scan := 0 // restart cursor for disconnected components
	reversed := 0
	for {
		if len(stack) == 0 {
			for scan < nf && visited[scan] {
				scan++
			}
			if scan == nf {
				break
			}
			visited[scan] = true
			stack = append(stack, scan)
		}
		iface := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, iadj := range conn.FaceFace[iface] {
			if visited[iadj] {
				continue
			}
			visited[iadj] = true

			iv1, iv2, ok := sharedEdge(m.faces[iface], m.faces[iadj])
			if !ok {
				logger.Warn("faces share more than 2 vertices, skipping adjacency", "face", iface, "adjacent", iadj)
				continue
			}
			if sameWinding(m.faces[iface], m.faces[iadj], iv1, iv2) {
				m.faces[iadj] = m.faces[iadj].flipped()
				reversed++
			}
			stack = append(stack, iadj)
		}
	}
	if reversed > 0 {
		logger.Info("reversed faces to make windings consistent", "count", reversed)
		m.d.drop(aggFaceGeometry)
	} else {
		logger.Info("windings already consistent")
	}

	closed := len(conn.Boundaries) == 0 && len(conn.OpenChains) == 0
	if closed {
		zmax := -math.MaxFloat64
		for _, v := range m.vertices {
			zmax = math.Max(zmax, v.Z)
		}
		areas := m.FaceAreas()
		normals := m.FaceNormals()
		centers := m.FaceCenters()
		var hs r3.Vec
		for i := range m.faces {
			hs = r3.Add(hs, r3.Scale((centers[i].Z-zmax)*areas[i], normals[i]))
		}
		if math.Abs(hs.X) > watertightTol || math.Abs(hs.Y) > watertightTol {
			logger.Warn("mesh does not seem watertight although marked as closed", "hx", hs.X, "hy", hs.Y)
		}
		if hs.Z < 0 {
			m.FlipNormals()
			logger.Info("flipped every normal to point outward")
		}
	} else {
		logger.Info("mesh is not closed, cannot test whether normals are outward")
	}

	m.d.drop(aggFaceGeometry)
	return nil
}

// sharedEdge returns the two vertices common to both faces. ok is false
// when the faces share any other number of vertices.
func sharedEdge(a, b Face) (iv1, iv2 int, ok bool) {
	var shared []int
	for _, va := range a.Cycle() {
		for _, vb := range b.Cycle() {
			if va == vb {
				shared = append(shared, va)
				break
			}
		}
	}
	if len(shared) != 2 {
		return 0, 0, false
	}
	return shared[0], shared[1], true
}

// sameWinding reports whether face b traverses the shared edge (iv1, iv2) in
// the same direction as face a. Adjacent faces with consistent outward
// winding traverse a shared edge in opposite directions.
func sameWinding(a, b Face, iv1, iv2 int) bool {
	aNext := cycleNeighbor(a, iv1, 1)
	if aNext == iv2 {
		return cycleNeighbor(b, iv1, 1) == iv2
	}
	return cycleNeighbor(b, iv1, -1) == iv2
}

// cycleNeighbor returns the vertex step positions after v in f's cycle
// (step may be negative).
func cycleNeighbor(f Face, v, step int) int {
	cycle := f.Cycle()
	n := len(cycle)
	for i, iv := range cycle {
		if iv == v {
			return cycle[((i+step)%n+n)%n]
		}
	}
	return -1
}

// RemoveUnusedVertices removes vertices not referenced by any face and
// renumbers the face indices accordingly.
func (m *Mesh) RemoveUnusedVertices() {
	nv := m.NumVertices()
	used := make([]bool, nv)
	for _, f := range m.faces {
		for _, iv := range f {
			used[iv] = true
		}
	}
	newID := make([]int, nv)
	vertices := m.vertices[:0]
	next := 0
	for iv, u := range used {
		if u {
			vertices = append(vertices, m.vertices[iv])
			newID[iv] = next
			next++
		}
	}
	removed := nv - next
	if removed > 0 {
		m.vertices = vertices
		for i, f := range m.faces {
			m.faces[i] = Face{newID[f[0]], newID[f[1]], newID[f[2]], newID[f[3]]}
		}
		logger.Info("removed unused vertices", "count", removed)
	} else {
		logger.Info("no unused vertices")
	}
	m.d.drop(aggConnectivity)
}

// RemoveDegenerateFaces removes faces whose area is below the mesh's mean
// face area times rtol. rtol must be positive.
func (m *Mesh) RemoveDegenerateFaces(rtol float64) error {
	if rtol <= 0 {
		return fmt.Errorf("relative tolerance must be positive, got %g", rtol)
	}
	areas := m.FaceAreas()
	var mean float64
	for _, a := range areas {
		mean += a
	}
	if len(areas) > 0 {
		mean /= float64(len(areas))
	}
	threshold := mean * rtol

	faces := m.faces[:0]
	for i, f := range m.faces {
		if areas[i] >= threshold {
			faces = append(faces, f)
		}
	}
	removed := m.NumFaces() - len(faces)
	if removed > 0 {
		logger.Info("removed degenerate faces", "count", removed)
	} else {
		logger.Info("no degenerate faces")
	}
	// The face array is replaced wholesale.
	m.faces = faces
	m.d.dropAll()
	return nil
}

// HealTriangles corrects triangles stored the wrong way: a triangle must
// repeat its first vertex index in the last slot, and a face like
// [a a b c] is rolled until [a b c a] holds.
func (m *Mesh) HealTriangles() {
	corrected := 0
	for i, f := range m.faces {
		if f.IsTriangle() {
			continue
		}
		for roll := 0; roll < 3 && !f.IsTriangle(); roll++ {
			f = Face{f[3], f[0], f[1], f[2]}
		}
		if f.IsTriangle() {
			m.faces[i] = f
			corrected++
		}
	}
	if corrected > 0 {
		logger.Info("corrected triangles described the wrong way", "count", corrected)
		m.d.dropAll()
	} else {
		logger.Info("triangle descriptions are consistent")
	}
}

// Heal runs every repair pass: unused vertex removal, degenerate face
// removal, duplicate vertex merging, triangle healing and normal healing.
func (m *Mesh) Heal() error {
	m.RemoveUnusedVertices()
	if err := m.RemoveDegenerateFaces(DefaultDegenerateRTol); err != nil {
		return err
	}
	m.MergeDuplicates(DefaultMergeTol)
	m.HealTriangles()
	return m.HealNormals()
}

package hullmesh

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNonManifold signals an edge shared by more than two faces. The
// connectivity graph of such a mesh is not well defined and the triggering
// operation is aborted.
var ErrNonManifold = errors.New("non-manifold edge")

// Connectivity is the mesh's topological adjacency, built in one pass over
// the face array. All id slices are sorted.
type Connectivity struct {
	// VertexVertex lists, per vertex, the vertices sharing an edge with it.
	VertexVertex [][]int
	// VertexFaces lists, per vertex, the faces incident to it.
	VertexFaces [][]int
	// FaceFace lists, per face, the faces sharing exactly one edge with it.
	FaceFace [][]int
	// Boundaries holds the closed boundary loops. Each loop is a cyclic
	// vertex sequence with the start vertex repeated at the end.
	Boundaries [][]int
	// OpenChains holds boundary chains whose walk exhausted the edge set
	// before closing. They indicate a defective boundary and are reported
	// as warnings, never as fatal errors.
	OpenChains [][]int
}

// Connectivity returns the mesh's adjacency and boundary loops, computing
// and memoizing them on first use. It fails with ErrNonManifold if an edge
// is shared by more than two faces.
func (m *Mesh) Connectivity() (*Connectivity, error) {
	if m.d.conn == nil {
		conn, err := buildConnectivity(m.NumVertices(), m.faces)
		if err != nil {
			return nil, err
		}
		m.d.conn = conn
	}
	return m.d.conn, nil
}

func buildConnectivity(nv int, faces []Face) (*Connectivity, error) {
	vv := make([]map[int]struct{}, nv)
	vf := make([]map[int]struct{}, nv)
	for i := range vv {
		vv[i] = make(map[int]struct{})
		vf[i] = make(map[int]struct{})
	}
	for iface, f := range faces {
		cycle := f.Cycle()
		for i, iv := range cycle {
			prev := cycle[(i+len(cycle)-1)%len(cycle)]
			vf[iv][iface] = struct{}{}
			vv[iv][prev] = struct{}{}
			vv[prev][iv] = struct{}{}
		}
	}

	// Face adjacency and directed boundary edges. Each undirected edge is
	// visited once; the faces incident to it are the intersection of the
	// endpoint incidence sets.
	ff := make([]map[int]struct{}, len(faces))
	for i := range ff {
		ff[i] = make(map[int]struct{})
	}
	bedges := make(map[int]int)
	for iv := 0; iv < nv; iv++ {
		for adj := range vv[iv] {
			if adj < iv {
				continue
			}
			shared := intersect(vf[iv], vf[adj])
			switch len(shared) {
			case 2:
				ff[shared[0]][shared[1]] = struct{}{}
				ff[shared[1]][shared[0]] = struct{}{}
			case 1:
				// Boundary edge. Direct it against the owning face's
				// stored vertex cycle so that loop traversal runs in a
				// consistent direction.
				orig, target, ok := boundaryEdge(faces[shared[0]], iv, adj)
				if !ok {
					return nil, fmt.Errorf("edge %d-%d not traversed by its only incident face %d", iv, adj, shared[0])
				}
				bedges[orig] = target
			default:
				return nil, fmt.Errorf("%w: edge %d-%d shared by %d faces", ErrNonManifold, iv, adj, len(shared))
			}
		}
	}

	conn := &Connectivity{
		VertexVertex: setsToSorted(vv),
		VertexFaces:  setsToSorted(vf),
		FaceFace:     setsToSorted(ff),
	}

	// Walk directed boundary edges into loops. A walk that cannot find its
	// continuation before returning to its start is an open chain:
	// tolerated, surfaced, flagged.
	for len(bedges) > 0 {
		var start, next int
		for start, next = range bedges {
			break
		}
		delete(bedges, start)
		loop := []int{start, next}
		cur := next
		for {
			nxt, ok := bedges[cur]
			if !ok {
				break
			}
			delete(bedges, cur)
			loop = append(loop, nxt)
			cur = nxt
		}
		if loop[0] == loop[len(loop)-1] {
			conn.Boundaries = append(conn.Boundaries, loop)
		} else {
			logger.Warn("boundary chain is not closed", "start", loop[0], "end", loop[len(loop)-1], "len", len(loop))
			conn.OpenChains = append(conn.OpenChains, loop)
		}
	}
	return conn, nil
}

// boundaryEdge returns the boundary edge {a, b} of face f directed opposite
// to f's vertex cycle.
func boundaryEdge(f Face, a, b int) (orig, target int, ok bool) {
	cycle := f.Cycle()
	for i, iv := range cycle {
		next := cycle[(i+1)%len(cycle)]
		if (iv == a && next == b) || (iv == b && next == a) {
			return next, iv, true
		}
	}
	return 0, 0, false
}

func intersect(a, b map[int]struct{}) []int {
	if len(b) < len(a) {
		a, b = b, a
	}
	var out []int
	for k := range a {
		if _, ok := b[k]; ok {
			out = append(out, k)
		}
	}
	sort.Ints(out)
	return out
}

func setsToSorted(sets []map[int]struct{}) [][]int {
	out := make([][]int, len(sets))
	for i, s := range sets {
		ids := make([]int, 0, len(s))
		for k := range s {
			ids = append(ids, k)
		}
		sort.Ints(ids)
		out[i] = ids
	}
	return out
}

// NumBoundaries returns the number of closed boundary loops.
func (m *Mesh) NumBoundaries() (int, error) {
	conn, err := m.Connectivity()
	if err != nil {
		return 0, err
	}
	return len(conn.Boundaries), nil
}

// IsClosed reports whether the mesh has no boundary edges at all. A closed
// mesh is not necessarily conformal: a collapsed boundary can close up while
// still being degenerate.
func (m *Mesh) IsClosed() (bool, error) {
	conn, err := m.Connectivity()
	if err != nil {
		return false, err
	}
	return len(conn.Boundaries) == 0 && len(conn.OpenChains) == 0, nil
}

// conformalTol bounds the projected boundary areas below which a boundary
// curve is considered collapsed.
const conformalTol = 1e-7

// IsConformal reports whether no boundary loop is degenerate, i.e. collapsed
// to near-zero projected area on all three coordinate planes simultaneously.
//
// This check is experimental and heuristic; it may misclassify meshes.
func (m *Mesh) IsConformal() (bool, error) {
	logger.Warn("conformality check is experimental, use with caution")
	conn, err := m.Connectivity()
	if err != nil {
		return false, err
	}
	for _, loop := range conn.Boundaries {
		axy := math.Abs(m.loopProjectedArea(loop, PlaneXY()))
		ayz := math.Abs(m.loopProjectedArea(loop, PlaneYZ()))
		azx := math.Abs(m.loopProjectedArea(loop, PlaneZX()))
		if axy < conformalTol && ayz < conformalTol && azx < conformalTol {
			return false, nil
		}
	}
	return true, nil
}

// loopProjectedArea projects a boundary loop onto a coordinate plane and
// accumulates its signed enclosed area (up to a constant factor).
func (m *Mesh) loopProjectedArea(loop []int, pl Plane) float64 {
	var area float64
	for i := 0; i < len(loop)-1; i++ {
		p0 := pl.Project(m.vertices[loop[i]])
		p1 := pl.Project(m.vertices[loop[i+1]])
		switch {
		case pl.Normal.Z != 0:
			area += (p1.Y - p0.Y) * (p1.X + p0.X)
		case pl.Normal.X != 0:
			area += (p1.Z - p0.Z) * (p1.Y + p0.Y)
		default:
			area += (p1.X - p0.X) * (p1.Z + p0.Z)
		}
	}
	return area
}

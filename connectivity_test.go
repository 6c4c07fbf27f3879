package hullmesh_test

import (
	"errors"
	"testing"

	"github.com/hullform/hullmesh"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCubeConnectivity(t *testing.T) {
	m := cube(t)
	conn, err := m.Connectivity()
	if err != nil {
		t.Fatal(err)
	}
	if len(conn.Boundaries) != 0 || len(conn.OpenChains) != 0 {
		t.Errorf("cube has boundaries: %d loops, %d chains", len(conn.Boundaries), len(conn.OpenChains))
	}
	for i, adj := range conn.FaceFace {
		if len(adj) != 4 {
			t.Errorf("face %d: got %d adjacent faces, want 4", i, len(adj))
		}
	}
	for iv, ids := range conn.VertexFaces {
		if len(ids) != 3 {
			t.Errorf("vertex %d: incident to %d faces, want 3", iv, len(ids))
		}
	}
	for iv, ids := range conn.VertexVertex {
		if len(ids) != 3 {
			t.Errorf("vertex %d: got %d neighbors, want 3", iv, len(ids))
		}
	}
	closed, err := m.IsClosed()
	if err != nil {
		t.Fatal(err)
	}
	if !closed {
		t.Error("cube not reported closed")
	}
}

func TestSingleQuadBoundary(t *testing.T) {
	m := unitSquare(t)
	conn, err := m.Connectivity()
	if err != nil {
		t.Fatal(err)
	}
	if len(conn.Boundaries) != 1 {
		t.Fatalf("got %d boundary loops, want 1", len(conn.Boundaries))
	}
	loop := conn.Boundaries[0]
	if len(loop) != 5 || loop[0] != loop[len(loop)-1] {
		t.Fatalf("boundary loop %v is not a closed 4-cycle", loop)
	}
	seen := make(map[int]bool)
	for _, iv := range loop[:4] {
		seen[iv] = true
	}
	if len(seen) != 4 {
		t.Errorf("boundary loop %v repeats vertices", loop)
	}
	if n, _ := m.NumBoundaries(); n != 1 {
		t.Errorf("NumBoundaries: got %d, want 1", n)
	}
	if closed, _ := m.IsClosed(); closed {
		t.Error("open quad reported closed")
	}
}

func TestNonManifoldEdge(t *testing.T) {
	verts := []r3.Vec{
		{}, {X: 1},
		{Y: 1}, {Z: 1}, {Y: -1},
	}
	faces := []hullmesh.Face{
		{0, 1, 2, 0},
		{0, 1, 3, 0},
		{0, 1, 4, 0},
	}
	m, err := hullmesh.New(verts, faces)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Connectivity(); !errors.Is(err, hullmesh.ErrNonManifold) {
		t.Errorf("Connectivity: got %v, want ErrNonManifold", err)
	}
	if _, err := m.IsClosed(); !errors.Is(err, hullmesh.ErrNonManifold) {
		t.Errorf("IsClosed: got %v, want ErrNonManifold", err)
	}
}

func TestBowtieOpenChain(t *testing.T) {
	// Two triangles joined at a single vertex. The two boundary loops meet
	// at the pinch vertex, so at least one boundary walk cannot close.
	verts := []r3.Vec{
		{}, {X: 1}, {X: 1, Y: 1},
		{X: -1}, {X: -1, Y: -1},
	}
	faces := []hullmesh.Face{
		{0, 1, 2, 0},
		{0, 3, 4, 0},
	}
	m, err := hullmesh.New(verts, faces)
	if err != nil {
		t.Fatal(err)
	}
	conn, err := m.Connectivity()
	if err != nil {
		t.Fatal(err)
	}
	if len(conn.OpenChains) == 0 {
		t.Error("pinched boundary produced no open chains")
	}
	if closed, _ := m.IsClosed(); closed {
		t.Error("bowtie reported closed")
	}
}

func TestIsConformal(t *testing.T) {
	if ok, err := cube(t).IsConformal(); err != nil || !ok {
		t.Errorf("closed cube: got (%v, %v), want conformal", ok, err)
	}
	if ok, err := unitSquare(t).IsConformal(); err != nil || !ok {
		t.Errorf("unit square: got (%v, %v), want conformal", ok, err)
	}
	// A sliver triangle's boundary projects to near-zero area on every
	// coordinate plane.
	m, err := hullmesh.New(
		[]r3.Vec{{}, {X: 1}, {X: 2, Y: 1e-9}},
		[]hullmesh.Face{{0, 1, 2, 0}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := m.IsConformal(); err != nil || ok {
		t.Errorf("sliver triangle: got (%v, %v), want not conformal", ok, err)
	}
}

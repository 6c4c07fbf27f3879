package meshio_test

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/hullform/hullmesh"
	"github.com/hullform/hullmesh/meshio"
	"gonum.org/v1/gonum/spatial/r3"
)

func testCube(t testing.TB) *hullmesh.Mesh {
	t.Helper()
	m, err := hullmesh.New(
		[]r3.Vec{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
			{X: 1, Y: 0, Z: 1},
			{X: 1, Y: 1, Z: 1},
			{X: 0, Y: 1, Z: 1},
		},
		[]hullmesh.Face{
			{0, 3, 2, 1},
			{4, 5, 6, 7},
			{0, 1, 5, 4},
			{2, 3, 7, 6},
			{0, 4, 7, 3},
			{1, 2, 6, 5},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSTLRoundTrip(t *testing.T) {
	m := testCube(t)
	var buf bytes.Buffer
	if err := meshio.WriteSTL(&buf, m); err != nil {
		t.Fatal(err)
	}
	// 80-byte header, 4-byte count, 12 50-byte triangle records.
	if want := 84 + 12*50; buf.Len() != want {
		t.Fatalf("encoded size: got %d, want %d", buf.Len(), want)
	}
	got, err := meshio.ReadSTL(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.NumTriangles() != 12 || got.NumQuadrangles() != 0 {
		t.Errorf("got %d triangles and %d quadrangles, want 12 and 0",
			got.NumTriangles(), got.NumQuadrangles())
	}
	if got.NumVertices() != 8 {
		t.Errorf("vertices after merge: got %d, want 8", got.NumVertices())
	}
	if closed, err := got.IsClosed(); err != nil || !closed {
		t.Errorf("IsClosed: got (%v, %v), want closed", closed, err)
	}
	if v := got.Volume(); math.Abs(v-1) > 1e-12 {
		t.Errorf("volume: got %g, want 1", v)
	}
}

func TestSTLFileRoundTrip(t *testing.T) {
	m := testCube(t)
	path := filepath.Join(t.TempDir(), "cube.stl")
	if err := meshio.WriteSTLFile(path, m); err != nil {
		t.Fatal(err)
	}
	got, err := meshio.ReadSTLFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.NumFaces() != 12 {
		t.Errorf("faces: got %d, want 12", got.NumFaces())
	}
}

func TestWriteSTLEmptyMesh(t *testing.T) {
	m, err := hullmesh.New(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := meshio.WriteSTL(&bytes.Buffer{}, m); err == nil {
		t.Error("expected error for empty mesh")
	}
}

func TestReadSTLBadInput(t *testing.T) {
	if _, err := meshio.ReadSTL(bytes.NewReader(nil)); err == nil {
		t.Error("expected error for empty stream")
	}
	var zero [84]byte
	if _, err := meshio.ReadSTL(bytes.NewReader(zero[:])); err == nil {
		t.Error("expected error for zero triangle count")
	}
	// Header claims one triangle, body is missing.
	var short [84]byte
	short[80] = 1
	if _, err := meshio.ReadSTL(bytes.NewReader(short[:])); err == nil {
		t.Error("expected error for truncated body")
	}
}

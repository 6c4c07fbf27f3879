package hullmesh_test

import (
	"math"
	"testing"

	"github.com/hullform/hullmesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// cubeVertices are the corners of the unit cube [0,1]³.
func cubeVertices() []r3.Vec {
	return []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 1},
		{X: 1, Y: 1, Z: 1},
		{X: 0, Y: 1, Z: 1},
	}
}

// cubeFaces are the 6 quadrangles of the unit cube, wound counterclockwise
// seen from outside so every normal points outward.
func cubeFaces() []hullmesh.Face {
	return []hullmesh.Face{
		{0, 3, 2, 1}, // bottom, -z
		{4, 5, 6, 7}, // top, +z
		{0, 1, 5, 4}, // front, -y
		{2, 3, 7, 6}, // back, +y
		{0, 4, 7, 3}, // left, -x
		{1, 2, 6, 5}, // right, +x
	}
}

func cube(t testing.TB) *hullmesh.Mesh {
	t.Helper()
	m, err := hullmesh.New(cubeVertices(), cubeFaces())
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// rightTriangle is a single right triangle in the z=0 plane with legs of
// length 1 along x and y.
func rightTriangle(t testing.TB) *hullmesh.Mesh {
	t.Helper()
	m, err := hullmesh.New(
		[]r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		[]hullmesh.Face{{0, 1, 2, 0}},
	)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// unitSquare is a single quadrangle in the z=0 plane with +z normal.
func unitSquare(t testing.TB) *hullmesh.Mesh {
	t.Helper()
	m, err := hullmesh.New(
		[]r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}},
		[]hullmesh.Face{{0, 1, 2, 3}},
	)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func vecNear(a, b r3.Vec, tol float64) bool {
	return near(a.X, b.X, tol) && near(a.Y, b.Y, tol) && near(a.Z, b.Z, tol)
}

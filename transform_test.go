package hullmesh_test

import (
	"math"
	"testing"

	"github.com/hullform/hullmesh"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestRotateZeroIsIdentity(t *testing.T) {
	m := cube(t)
	before := append([]r3.Vec{}, m.Vertices()...)
	rot := m.Rotate(r3.Vec{})
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if got := rot.At(i, j); got != want {
				t.Fatalf("rotation matrix at (%d,%d): got %g, want %g", i, j, got, want)
			}
		}
	}
	for i, v := range m.Vertices() {
		if v != before[i] {
			t.Fatalf("vertex %d moved under zero rotation", i)
		}
	}
}

func TestRotateRoundTrip(t *testing.T) {
	m := cube(t)
	angles := r3.Vec{X: 0.3, Y: -0.7, Z: 1.1}
	m.Rotate(angles)
	m.Rotate(r3.Scale(-1, angles))
	for i, v := range m.Vertices() {
		if !vecNear(v, cubeVertices()[i], 1e-12) {
			t.Errorf("vertex %d: got %v, want %v", i, v, cubeVertices()[i])
		}
	}
}

func TestRotateTransformsCachedGeometry(t *testing.T) {
	m := cube(t)
	m.FaceNormals() // populate cache before rotating
	m.RotateZ(math.Pi / 2)
	// The right face normal +x maps to +y under a quarter turn about z.
	if got := m.FaceNormals()[5]; !vecNear(got, r3.Vec{Y: 1}, 1e-12) {
		t.Errorf("rotated right-face normal: got %v, want +y", got)
	}
	if got := m.FaceNormals()[0]; !vecNear(got, r3.Vec{Z: -1}, 1e-12) {
		t.Errorf("rotated bottom-face normal: got %v, want -z", got)
	}
	if got := m.Volume(); !near(got, 1, 1e-12) {
		t.Errorf("volume after rotation: got %g, want 1", got)
	}
}

func TestTranslatePreservesVolume(t *testing.T) {
	m := cube(t)
	m.FaceCenters()
	m.Translate(r3.Vec{X: 3, Y: -2, Z: 7})
	if got := m.Volume(); !near(got, 1, 1e-12) {
		t.Errorf("volume after translation: got %g, want 1", got)
	}
	if got := m.FaceCenters()[1]; !vecNear(got, r3.Vec{X: 3.5, Y: -1.5, Z: 8}, 1e-12) {
		t.Errorf("translated top-face center: got %v", got)
	}
}

func TestScale(t *testing.T) {
	m := cube(t)
	if err := m.Scale(2); err != nil {
		t.Fatal(err)
	}
	if got := m.Volume(); !near(got, 8, 1e-12) {
		t.Errorf("volume after Scale(2): got %g, want 8", got)
	}
	if got := m.SurfaceArea(); !near(got, 24, 1e-12) {
		t.Errorf("surface area after Scale(2): got %g, want 24", got)
	}
	if err := m.Scale(0); err == nil {
		t.Error("Scale(0): expected error")
	}
	if err := m.ScaleElem(r3.Vec{X: 1, Y: -1, Z: 1}); err == nil {
		t.Error("ScaleElem with negative factor: expected error")
	}
}

func TestScaleElem(t *testing.T) {
	m := cube(t)
	if err := m.ScaleElem(r3.Vec{X: 2, Y: 3, Z: 4}); err != nil {
		t.Fatal(err)
	}
	if got := m.Volume(); !near(got, 24, 1e-12) {
		t.Errorf("volume: got %g, want 24", got)
	}
}

func TestFlipNormals(t *testing.T) {
	m := cube(t)
	n0 := append([]r3.Vec{}, m.FaceNormals()...)
	m.FlipNormals()
	for i, n := range m.FaceNormals() {
		if !vecNear(n, r3.Scale(-1, n0[i]), 1e-15) {
			t.Errorf("normal %d not negated: %v vs %v", i, n, n0[i])
		}
	}
	if got := m.Volume(); !near(got, -1, 1e-12) {
		t.Errorf("flipped cube volume: got %g, want -1", got)
	}
}

func TestMirrorTwiceRestores(t *testing.T) {
	m := cube(t)
	pl := hullmesh.Plane{Normal: r3.Vec{Z: 1}, C: -1}
	m.Mirror(pl)
	if got := m.Volume(); !near(got, 1, 1e-12) {
		t.Errorf("mirrored cube volume: got %g, want 1", got)
	}
	m.Mirror(pl)
	for i, v := range m.Vertices() {
		if !vecNear(v, cubeVertices()[i], 1e-12) {
			t.Errorf("vertex %d: got %v, want %v", i, v, cubeVertices()[i])
		}
	}
	for i, f := range m.Faces() {
		if f != cubeFaces()[i] {
			t.Errorf("face %d winding changed: got %v, want %v", i, f, cubeFaces()[i])
		}
	}
}

func TestSymmetrize(t *testing.T) {
	// Half box open at z=0: symmetrizing across the XY plane closes it into
	// a box of height 2 with the seam vertices welded.
	verts := cubeVertices()
	faces := cubeFaces()[1:] // drop the bottom face
	m, err := hullmesh.New(verts, faces)
	if err != nil {
		t.Fatal(err)
	}
	m.Symmetrize(hullmesh.PlaneXY())
	if got := m.NumFaces(); got != 10 {
		t.Errorf("faces after Symmetrize: got %d, want 10", got)
	}
	if got := m.NumVertices(); got != 12 {
		t.Errorf("vertices after Symmetrize: got %d, want 12", got)
	}
	if closed, err := m.IsClosed(); err != nil || !closed {
		t.Errorf("IsClosed: got (%v, %v), want closed", closed, err)
	}
	if got := m.Volume(); !near(got, 2, 1e-12) {
		t.Errorf("volume: got %g, want 2", got)
	}
}

func TestMergeDuplicates(t *testing.T) {
	m := cube(t)
	mapping := m.MergeDuplicates(hullmesh.DefaultMergeTol)
	if m.NumVertices() != 8 {
		t.Errorf("merge on clean mesh changed vertex count: %d", m.NumVertices())
	}
	for iv, id := range mapping {
		if iv != id {
			t.Errorf("mapping not identity on clean mesh: %d -> %d", iv, id)
		}
	}

	verts := append(cubeVertices(), cubeVertices()...)
	faces := cubeFaces()
	for _, f := range cubeFaces() {
		faces = append(faces, hullmesh.Face{f[0] + 8, f[1] + 8, f[2] + 8, f[3] + 8})
	}
	dup, err := hullmesh.New(verts, faces)
	if err != nil {
		t.Fatal(err)
	}
	mapping = dup.MergeDuplicates(hullmesh.DefaultMergeTol)
	if got := dup.NumVertices(); got != 8 {
		t.Errorf("vertices after merge: got %d, want 8", got)
	}
	for iv := 8; iv < 16; iv++ {
		if mapping[iv] != iv-8 {
			t.Errorf("mapping[%d] = %d, want %d", iv, mapping[iv], iv-8)
		}
	}
	if got := dup.NumFaces(); got != 12 {
		t.Errorf("faces after merge: got %d, want 12", got)
	}
}

func TestExtractFaces(t *testing.T) {
	m := cube(t)
	sub, oldIDs, err := m.ExtractFaces([]int{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if got := sub.NumFaces(); got != 2 {
		t.Errorf("extracted faces: got %d, want 2", got)
	}
	if got := sub.NumVertices(); got != 8 {
		t.Errorf("extracted vertices: got %d, want 8", got)
	}
	for newIV, oldIV := range oldIDs {
		if !vecNear(sub.Vertex(newIV), m.Vertex(oldIV), 0) {
			t.Errorf("vertex map %d -> %d does not preserve position", newIV, oldIV)
		}
	}
	if _, _, err := m.ExtractFaces([]int{6}); err == nil {
		t.Error("expected error for face id out of range")
	}
}

func TestTriangulateQuadrangles(t *testing.T) {
	m := cube(t)
	m.TriangulateQuadrangles()
	if got := m.NumFaces(); got != 12 {
		t.Errorf("faces after triangulation: got %d, want 12", got)
	}
	if got := m.NumQuadrangles(); got != 0 {
		t.Errorf("quadrangles left: %d", got)
	}
	if got := m.Volume(); !near(got, 1, 1e-12) {
		t.Errorf("volume after triangulation: got %g, want 1", got)
	}
	if got := m.SurfaceArea(); !near(got, 6, 1e-12) {
		t.Errorf("surface area after triangulation: got %g, want 6", got)
	}
}

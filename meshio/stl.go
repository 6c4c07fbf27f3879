// Package meshio reads and writes hullmesh meshes in binary STL form.
// STL stores bare triangle soup: quadrangles are split on write, and
// vertices shared between triangles are re-identified on read by merging
// duplicates at the kernel's default tolerance.
package meshio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"github.com/hullform/hullmesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8
	Count uint32
}

// stlTriangle is the 50-byte STL triangle record.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // attribute byte count
}

// WriteSTL writes the mesh to w in binary STL format. Quadrangles are split
// along the (v0,v2) diagonal into two triangles.
func WriteSTL(w io.Writer, m *hullmesh.Mesh) error {
	if m.NumFaces() == 0 {
		return errors.New("empty mesh")
	}
	nt := m.NumTriangles() + 2*m.NumQuadrangles()
	header := stlHeader{Count: uint32(nt)}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	vertices := m.Vertices()
	var b [50]byte
	emit := func(v0, v1, v2 r3.Vec) error {
		d, err := newSTLTriangle(v0, v1, v2)
		if err != nil {
			return err
		}
		d.put(b[:])
		_, err = w.Write(b[:])
		return err
	}
	for _, f := range m.Faces() {
		v0, v1, v2 := vertices[f[0]], vertices[f[1]], vertices[f[2]]
		if err := emit(v0, v1, v2); err != nil {
			return err
		}
		if !f.IsTriangle() {
			if err := emit(v0, v2, vertices[f[3]]); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteSTLFile writes the mesh to a binary STL file at path.
func WriteSTLFile(path string, m *hullmesh.Mesh) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	return WriteSTL(fp, m)
}

// ReadSTL reads a binary STL stream into a mesh. Stored triangle normals
// are ignored: the kernel recomputes face geometry from vertex positions.
// Coincident vertices of adjacent triangles are merged so the result has
// shared topology, not triangle soup.
func ReadSTL(r io.Reader) (*hullmesh.Mesh, error) {
	var header stlHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.New("encountered EOF while reading STL header")
		}
		return nil, fmt.Errorf("STL header read failed: %w", err)
	}
	if header.Count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}
	vertices := make([]r3.Vec, 0, 3*header.Count)
	faces := make([]hullmesh.Face, 0, header.Count)
	var buf [50]byte
	var d stlTriangle
	for i := 0; i < int(header.Count); i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("%d/%d STL triangles read: %w", i, header.Count, err)
		}
		d.get(buf[:])
		if err := d.validate(); err != nil {
			return nil, fmt.Errorf("STL triangle %d: %w", i, err)
		}
		iv := len(vertices)
		vertices = append(vertices, r3From3F32(d.Vertex1), r3From3F32(d.Vertex2), r3From3F32(d.Vertex3))
		faces = append(faces, hullmesh.Face{iv, iv + 1, iv + 2, iv})
	}
	m, err := hullmesh.New(vertices, faces)
	if err != nil {
		return nil, err
	}
	m.MergeDuplicates(hullmesh.DefaultMergeTol)
	return m, nil
}

// ReadSTLFile reads a binary STL file at path into a mesh.
func ReadSTLFile(path string) (*hullmesh.Mesh, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	m, err := ReadSTL(fp)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func newSTLTriangle(v0, v1, v2 r3.Vec) (stlTriangle, error) {
	n := r3.Cross(r3.Sub(v1, v0), r3.Sub(v2, v0))
	if norm := r3.Norm(n); norm > 0 {
		n = r3.Scale(1/norm, n)
	}
	d := stlTriangle{
		Normal:  f32From3R3(n),
		Vertex1: f32From3R3(v0),
		Vertex2: f32From3R3(v1),
		Vertex3: f32From3R3(v2),
	}
	if bad3F32(d.Vertex1) || bad3F32(d.Vertex2) || bad3F32(d.Vertex3) {
		return d, errors.New("inf/NaN STL triangle vertex after float32 conversion")
	}
	return d, nil
}

func (t stlTriangle) put(b []byte) {
	if len(b) < 50 {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func (t *stlTriangle) get(b []byte) {
	if len(b) < 50 {
		panic("need length 50 to unmarshal stlTriangle")
	}
	get3F32(b, &t.Normal)
	get3F32(b[12:], &t.Vertex1)
	get3F32(b[24:], &t.Vertex2)
	get3F32(b[36:], &t.Vertex3)
}

func (t stlTriangle) validate() error {
	if bad3F32(t.Normal) {
		return errors.New("inf/NaN triangle normal")
	}
	if bad3F32(t.Vertex1) || bad3F32(t.Vertex2) || bad3F32(t.Vertex3) {
		return errors.New("inf/NaN triangle vertex")
	}
	return nil
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func get3F32(b []byte, f *[3]float32) {
	_ = b[11] // early bounds check
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

func r3From3F32(f [3]float32) r3.Vec {
	return r3.Vec{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}

func f32From3R3(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

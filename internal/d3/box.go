package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is a 3d axis-aligned bounding box.
type Box r3.Box

// EmptyBox returns a box that contains no points and extends
// under any Include call.
func EmptyBox() Box {
	return Box{Min: Elem(math.MaxFloat64), Max: Elem(-math.MaxFloat64)}
}

// Include enlarges a box to include a point.
func (a Box) Include(v r3.Vec) Box {
	return Box{
		Min: MinElem(a.Min, v),
		Max: MaxElem(a.Max, v),
	}
}

// Extend returns a box enclosing two boxes.
func (a Box) Extend(b Box) Box {
	return Box{
		Min: MinElem(a.Min, b.Min),
		Max: MaxElem(a.Max, b.Max),
	}
}

// Size returns the size of a box.
func (a Box) Size() r3.Vec {
	return r3.Sub(a.Max, a.Min)
}

// Center returns the center of a box.
func (a Box) Center() r3.Vec {
	return r3.Add(a.Min, r3.Scale(0.5, a.Size()))
}

// Square returns the smallest cube-shaped box that shares
// the box's center and contains it.
func (a Box) Square() Box {
	d := 0.5 * Max(a.Size())
	c := a.Center()
	return Box{Min: r3.Sub(c, Elem(d)), Max: r3.Add(c, Elem(d))}
}

// Equals tests the equality of boxes within tol.
func (a Box) Equals(b Box, tol float64) bool {
	return EqualWithin(a.Min, b.Min, tol) && EqualWithin(a.Max, b.Max, tol)
}

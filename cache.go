package hullmesh

// The derived-property cache. Every aggregate below is reconstructible from
// the vertex and face arrays and is computed lazily on first access. Mutating
// operations must drop exactly the aggregates whose preconditions they break;
// a stale aggregate is a correctness bug, not a performance one.

// aggregate names one cached derived property group.
type aggregate uint8

const (
	// aggClasses is the triangle/quadrangle partition of face ids.
	// Depends on the face array only.
	aggClasses aggregate = iota
	// aggFaceGeometry holds per-face area, unit normal and center.
	// Depends on vertex positions and the face array.
	aggFaceGeometry
	// aggRadii holds per-face max center-to-vertex distance.
	// Depends on aggFaceGeometry.
	aggRadii
	// aggConnectivity holds adjacency sets and boundary loops.
	// Depends on the face array only.
	aggConnectivity
	// aggIntegrals holds the 15 polynomial surface moments per face.
	// Depends on vertex positions and the face array.
	aggIntegrals

	numAggregates
)

// dependents maps each aggregate to the full set that must be dropped with
// it. Kept as an explicit table so invalidation stays exhaustive and
// testable instead of scattered deletes.
var dependents = [numAggregates][]aggregate{
	aggClasses:      {aggClasses},
	aggFaceGeometry: {aggFaceGeometry, aggRadii, aggIntegrals},
	aggRadii:        {aggRadii},
	aggConnectivity: {aggConnectivity},
	aggIntegrals:    {aggIntegrals},
}

// faceClasses partitions face ids by shape.
type faceClasses struct {
	triangles   []int
	quadrangles []int
}

// derived is the per-mesh cache. A nil field means "not computed".
type derived struct {
	classes   *faceClasses
	geom      *faceGeometry
	radii     []float64
	conn      *Connectivity
	integrals []SurfaceMoments
}

// drop invalidates the given aggregates and everything depending on them.
func (d *derived) drop(aggs ...aggregate) {
	for _, a := range aggs {
		for _, dep := range dependents[a] {
			switch dep {
			case aggClasses:
				d.classes = nil
			case aggFaceGeometry:
				d.geom = nil
			case aggRadii:
				d.radii = nil
			case aggConnectivity:
				d.conn = nil
			case aggIntegrals:
				d.integrals = nil
			}
		}
	}
}

// dropAll clears the whole cache. Required whenever the vertex or face
// array is replaced wholesale.
func (d *derived) dropAll() {
	*d = derived{}
}

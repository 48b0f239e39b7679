package tessellate

// edgeWinding is the contribution one edge adds to the winding count as the
// sweep crosses it left-to-right.
type edgeWinding int8

const (
	windingPositive edgeWinding = 1
	windingNegative edgeWinding = -1
)

func (w edgeWinding) inverse() edgeWinding { return -w }

func (w edgeWinding) invertIf(invert bool) edgeWinding {
	if invert {
		return w.inverse()
	}
	return w
}

type edgeRef struct {
	vertex  uint32
	winding edgeWinding
}

// vertexEdgesKind classifies a vertex's two polygon-adjacency edges by
// whether they run to vertices visited earlier in sweep order (AllAbove,
// i.e. both already behind the sweep line: an End/Merge candidate), later
// (AllBelow: a Start/Split candidate), or one of each (Regular).
type vertexEdgesKind uint8

const (
	allAbove vertexEdgesKind = iota
	regular
	allBelow
)

type vertexClass uint8

const (
	classStart vertexClass = iota
	classEnd
	classRegular
	classSplit
	classMerge
)

func (k vertexEdgesKind) classify(interiorOnTheLeft bool) vertexClass {
	switch k {
	case allBelow:
		if interiorOnTheLeft {
			return classSplit
		}
		return classStart
	case allAbove:
		if interiorOnTheLeft {
			return classMerge
		}
		return classEnd
	default:
		return classRegular
	}
}

// vertexEdges holds a vertex's (at most two, for a simple polygon) adjacent
// edges, classified against sweep order.
type vertexEdges struct {
	values [2]edgeRef
	kind   vertexEdgesKind
}

func newVertexEdges() vertexEdges {
	return vertexEdges{
		values: [2]edgeRef{{vertex: ^uint32(0), winding: windingNegative}, {vertex: ^uint32(0), winding: windingNegative}},
		kind:   allAbove,
	}
}

func (e *vertexEdges) push(value edgeRef) {
	if e.kind == allAbove {
		e.values[0] = value
		e.kind = regular
	} else {
		e.values[1] = value
		e.kind = allBelow
	}
}

func (e *vertexEdges) sort(mid int, vertices []Point2) {
	o0 := lexicographicCompare(vertices[e.values[0].vertex], vertices[mid])
	o1 := lexicographicCompare(vertices[e.values[1].vertex], vertices[mid])
	switch {
	case o0 == below && o1 == below:
		e.kind = allBelow
	case o0 == above && o1 == above:
		e.kind = allAbove
	case o0 == below && o1 == above:
		e.values[0], e.values[1] = e.values[1], e.values[0]
		e.kind = regular
	case o0 == above && o1 == below:
		e.kind = regular
	default:
		panic("tessellate: vertexEdges.sort: zero-length edge")
	}

	switch e.kind {
	case allAbove:
		switch c := cmpFloat(e.cross(vertices[mid], vertices), 0); c {
		case -1:
		case 0:
			if vertices[e.values[0].vertex].X > vertices[e.values[1].vertex].X {
				e.values[0], e.values[1] = e.values[1], e.values[0]
			}
		case 1:
			e.values[0], e.values[1] = e.values[1], e.values[0]
		}
	case allBelow:
		switch c := cmpFloat(e.cross(vertices[mid], vertices), 0); c {
		case -1:
			e.values[0], e.values[1] = e.values[1], e.values[0]
		case 0:
			if vertices[e.values[0].vertex].X > vertices[e.values[1].vertex].X {
				e.values[0], e.values[1] = e.values[1], e.values[0]
			}
		case 1:
		}
	}
}

func (e *vertexEdges) finish(mid int, vertices []Point2) {
	e.sort(mid, vertices)
}

func (e *vertexEdges) up() []edgeRef {
	switch e.kind {
	case allAbove:
		return e.values[:]
	case regular:
		return e.values[:1]
	default:
		return e.values[:0]
	}
}

func (e *vertexEdges) down() []edgeRef {
	switch e.kind {
	case allAbove:
		return e.values[2:]
	case regular:
		return e.values[1:]
	default:
		return e.values[0:]
	}
}

func (e *vertexEdges) rightmost(vertices []Point2) edgeRef {
	a, b := vertices[e.values[0].vertex], vertices[e.values[1].vertex]
	if a.X > b.X {
		return e.values[0]
	}
	return e.values[1]
}

func (e *vertexEdges) leftmost(vertices []Point2) edgeRef {
	a, b := vertices[e.values[0].vertex], vertices[e.values[1].vertex]
	if a.X < b.X {
		return e.values[0]
	}
	return e.values[1]
}

func (e *vertexEdges) cross(mid Point2, vertices []Point2) float64 {
	a, b := vertices[e.values[0].vertex], vertices[e.values[1].vertex]
	return a.Sub(mid).Cross(b.Sub(mid))
}

func (e *vertexEdges) replace(previous, new uint32) {
	for i := range e.values {
		if e.values[i].vertex == previous {
			e.values[i].vertex = new
		}
	}
}

// Package tessellate turns one or more simple (possibly self-overlapping,
// with explicit winding) polygons into a set of triangles, using the
// classic sweep-line monotone-polygon decomposition: split the input into
// y-monotone pieces by sweeping a horizontal line from top to bottom,
// classifying each vertex (start/end/split/merge/regular) against the
// interior computed from accumulated edge winding, then triangulate each
// monotone piece with a single stack pass.
//
// Ported from the subrandr Rust tessellator
// (_examples/original_source/src/math/tessellate.rs): Segment ordering,
// VertexEdges classification, the helper-edge and winding-number sweep
// status (both backed here by btreemap.Map rather than the original's
// intrusive B-tree, see that package's doc comment), and
// MonotoneTessellator's triangulation stack all follow that file's
// structure. The original interleaves a great deal of debug-visualization
// drawing (rasterizer.line/fill_triangle calls, a TESS_DBG_* debug canvas,
// conditional eprintln/dump trees) directly into the algorithm; none of
// that is part of the tessellation result, so it is not carried over here.
package tessellate

// Point2 is a polygon vertex in the tessellator's working coordinate space.
type Point2 struct {
	X, Y float64
}

func (p Point2) Sub(q Point2) Point2 { return Point2{p.X - q.X, p.Y - q.Y} }

func (p Point2) Cross(q Point2) float64 { return p.X*q.Y - p.Y*q.X }

// pointOrdering is the result of comparing two points by sweep order
// (descending y, then ascending x), matching lexicographic_compare in
// tessellate.rs: a point is "above" another if the sweep visits it first.
type pointOrdering int8

const (
	above pointOrdering = iota
	equal
	below
)

func lexicographicCompare(a, b Point2) pointOrdering {
	switch {
	case a.Y > b.Y:
		return above
	case a.Y < b.Y:
		return below
	case a.X < b.X:
		return above
	case a.X > b.X:
		return below
	default:
		return equal
	}
}

// segment is a directed-by-y edge used as a sweep-status key: upper always
// has the larger y (or, on a tie, the smaller x) than lower, matching
// Fixed2's upper/lower naming in tessellate.rs.
type segment struct {
	upper, lower Point2
}

// xAtY solves for the segment's x coordinate at height y (y must lie
// between lower.Y and upper.Y for a meaningful result); vertical/horizontal
// segments are handled by the callers via the den==0 short circuits that
// mirror cmp_at_y's structure.
func (s segment) xAtY(y float64) float64 {
	den := s.upper.Y - s.lower.Y
	if den == 0 {
		return s.lower.X
	}
	return s.lower.X + (y-s.lower.Y)*(s.upper.X-s.lower.X)/den
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (s segment) cmpAtY(y, x float64) int {
	return cmpFloat(s.xAtY(y), x)
}

// compareSegmentWithPoint orders a segment against a point for the
// exclusive/inclusive upper bound queries the sweep status answers: is the
// segment to the left of the point (negative), through it (zero), or to the
// right of it (positive) at the point's own height.
func compareSegmentWithPoint(s segment, p Point2) int {
	if s.upper.Y == s.lower.Y {
		return cmpFloat(s.lower.X, p.X)
	}
	return s.cmpAtY(p.Y, p.X)
}

// cmpUpper and cmpLower port Segment::cmp_upper/cmp_lower: compare two
// segments by where they cross the sweep line nearest self's upper/lower
// endpoint, falling back to endpoint x order for degenerate (horizontal or
// coincident-range) cases.
func cmpUpper(self, other segment) int {
	if other.upper.Y >= self.upper.Y || self.lower.Y == self.upper.Y {
		if other.lower.Y == other.upper.Y {
			return cmpFloat(self.upper.X, other.upper.X)
		}
		return -other.cmpAtY(self.upper.Y, self.upper.X)
	}
	return self.cmpAtY(other.upper.Y, other.upper.X)
}

func cmpLower(self, other segment) int {
	if other.lower.Y <= self.lower.Y || self.lower.Y == self.upper.Y {
		if other.lower.Y == other.upper.Y {
			return cmpFloat(self.lower.X, other.lower.X)
		}
		return -other.cmpAtY(self.lower.Y, self.lower.X)
	}
	return self.cmpAtY(other.lower.Y, other.lower.X)
}

// compareSegments is the sweep-status total order (Segment::cmp): compare
// near the shared upper extent, then the shared lower extent, then break
// remaining ties for touching segments by the far endpoint.
func compareSegments(self, other segment) int {
	if c := cmpUpper(self, other); c != 0 {
		return c
	}
	if c := cmpLower(self, other); c != 0 {
		return c
	}
	if self.lower == other.upper {
		return -cmpFloat(self.upper.X, other.lower.X)
	}
	if other.lower == self.upper {
		return -cmpFloat(self.lower.X, other.upper.X)
	}
	return 0
}

func segmentLess(a, b segment) bool { return compareSegments(a, b) < 0 }

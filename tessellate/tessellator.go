package tessellate

import (
	"container/heap"
	"fmt"

	"github.com/afishhh/subrandr-sub000/btreemap"
)

// OutlineMalformedError reports a polygon that the tessellator cannot
// decompose into triangles: fewer than three points, or fewer than three
// left once consecutive coincident points collapse. The strip rasterizer
// instead truncates such an outline silently rather than erroring; the
// tessellator has no lower-quality fallback to truncate to, so it reports.
type OutlineMalformedError struct {
	PointCount int
}

func (e *OutlineMalformedError) Error() string {
	return fmt.Sprintf("tessellate: malformed outline with %d usable point(s), need at least 3", e.PointCount)
}

type queued struct {
	point Point2
	id    uint32
}

// queuedHeap is a max-heap by sweep priority (descending y, ascending x on
// a tie), replicating Queued's Ord plus BinaryHeap::pop in tessellate.rs:
// the event queue always yields the topmost remaining vertex next.
type queuedHeap []queued

func (h queuedHeap) Len() int { return len(h) }
func (h queuedHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.point.Y != b.point.Y {
		return a.point.Y > b.point.Y
	}
	return a.point.X < b.point.X
}
func (h queuedHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *queuedHeap) Push(x any)        { *h = append(*h, x.(queued)) }
func (h *queuedHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

type helper struct {
	vertex        uint32
	isMergeVertex bool
}

// windingSum is the helper/winding sweep-status metadata: the sum of
// edgeWinding values of every segment below a query point, answering
// "what is the winding number immediately to the left of this point".
type windingSum int

func (s windingSum) Combine(_ segment, winding int) btreemap.Metadata[segment, int] {
	return s + windingSum(winding)
}

// Tessellator accumulates one or more polygons (via AddPolygon) and
// decomposes them into triangles (via Subdivide, then Triangles).
//
// Ported from Tessellator in tessellate.rs, with winding_tree (whose
// source file, sw/strip/winding_tree.rs outside the tessellate.rs module,
// was not present in the retrieved pack) reconstructed from its call sites
// as exactly the same kind of ordered aggregate the helper-edge tree is: a
// btreemap.Map keyed by segment whose metadata is the running sum of
// inserted windings, so WindingTree::before(point) becomes an
// ExclusiveUpperBoundBy query read for its metadata alone.
type Tessellator struct {
	vertices []Point2
	queue    queuedHeap
	edges    []vertexEdges
	real     []bool

	windingTree   *btreemap.Map[segment, int, windingSum]
	helperEdgeTree *btreemap.Map[segment, helper, btreemap.NoMetadata[segment, helper]]

	monotone monotoneTessellator
}

func NewTessellator() *Tessellator {
	return &Tessellator{
		windingTree:    btreemap.New[segment, int](segmentLess, windingSum(0)),
		helperEdgeTree: btreemap.New[segment, helper](segmentLess, btreemap.NoMetadata[segment, helper]{}),
	}
}

// AddPolygon adds a closed polygon's edges and vertices. invert flips the
// winding contribution of every edge, used to carve holes (or unions, for
// an even-odd-style combination) out of previously added polygons.
//
// Returns an *OutlineMalformedError, without modifying the tessellator's
// state, if the outline has fewer than three points to begin with or fewer
// than three survive coincident-point removal.
func (t *Tessellator) AddPolygon(points []Point2, invert bool) error {
	if len(points) < 3 {
		return &OutlineMalformedError{PointCount: len(points)}
	}

	offset := len(t.vertices)
	prev := points[len(points)-1]
	pi := offset + len(points) - 1
	i := offset

	t.edges = append(t.edges, make([]vertexEdges, len(points))...)
	for j := offset; j < len(t.edges); j++ {
		t.edges[j] = newVertexEdges()
	}

	for _, next := range points {
		switch lexicographicCompare(prev, next) {
		case above:
			w := windingNegative.invertIf(invert)
			t.edges[i].push(edgeRef{uint32(pi), w})
			t.edges[pi].push(edgeRef{uint32(i), w})
		case equal:
			prev = next
			continue
		case below:
			w := windingPositive.invertIf(invert)
			t.edges[pi].push(edgeRef{uint32(i), w})
			t.edges[i].push(edgeRef{uint32(pi), w})
		}

		heap.Push(&t.queue, queued{point: next, id: uint32(len(t.vertices))})
		t.vertices = append(t.vertices, next)
		prev = next
		pi = i
		i++
	}

	if i-offset < 3 {
		usable := i - offset
		t.vertices = t.vertices[:offset]
		t.edges = t.edges[:offset]
		heapTruncate(&t.queue, offset)
		return &OutlineMalformedError{PointCount: usable}
	}

	fullLast := offset + len(points) - 1
	if i-1 < fullLast {
		t.edges[i-1] = t.edges[fullLast]
		t.edges = t.edges[:i]
		t.edges[offset].replace(uint32(fullLast), uint32(i-1))
		t.edges[i-2].replace(uint32(fullLast), uint32(i-1))
	}

	for j := offset; j < len(t.edges); j++ {
		t.edges[j].finish(j, t.vertices)
	}

	return nil
}

// heapTruncate discards every queued vertex with id >= from, used to unwind
// a partially-added polygon rejected as malformed.
func heapTruncate(q *queuedHeap, from int) {
	kept := (*q)[:0]
	for _, item := range *q {
		if int(item.id) < from {
			kept = append(kept, item)
		}
	}
	*q = kept
	heap.Init(q)
}

func (t *Tessellator) stepUp(current uint32, right bool) (uint32, bool) {
	e := t.edges[current]
	switch e.kind {
	case allBelow:
		return 0, false
	case allAbove:
		if right {
			return e.values[0].vertex, true
		}
		return e.values[1].vertex, true
	default:
		return e.up()[0].vertex, true
	}
}

func (t *Tessellator) walkPolygonFromEnd(end, leftUp, rightUp uint32) {
	t.monotone.start(t.vertices[end], false)

	currentLeft, currentRight := leftUp, rightUp
	for currentLeft != currentRight {
		left, right := t.vertices[currentLeft], t.vertices[currentRight]
		if left.Y < right.Y || (left.Y == right.Y && left.X > right.X) {
			t.monotone.vertex(t.vertices[currentLeft], false)
			next, ok := t.stepUp(currentLeft, false)
			if !ok {
				return
			}
			currentLeft = next
		} else {
			t.monotone.vertex(t.vertices[currentRight], true)
			next, ok := t.stepUp(currentRight, true)
			if !ok {
				return
			}
			currentRight = next
		}
	}

	t.monotone.end(t.vertices[currentLeft])
}

func (t *Tessellator) insertNonSplitDiagonal(class vertexClass, lower, upper uint32, interiorOnTheLeft bool) {
	switch class {
	case classEnd:
		t.walkPolygonFromEnd(lower, t.edges[lower].values[0].vertex, upper)
		t.walkPolygonFromEnd(lower, upper, t.edges[lower].values[1].vertex)
	case classRegular:
		up := t.edges[lower].values[0].vertex
		if !interiorOnTheLeft {
			t.walkPolygonFromEnd(lower, up, upper)
			t.edges[lower].values[0] = edgeRef{upper, windingPositive}
			t.edges[upper].values = [2]edgeRef{{lower, windingPositive}, t.edges[upper].rightmost(t.vertices)}
		} else {
			t.walkPolygonFromEnd(lower, upper, up)
			t.edges[lower].values[0] = edgeRef{upper, windingPositive}
			t.edges[upper].values = [2]edgeRef{t.edges[upper].leftmost(t.vertices), {lower, windingPositive}}
		}
		t.edges[upper].sort(int(upper), t.vertices)
	case classMerge:
		lowerX := t.vertices[lower].X
		upperX := t.vertices[upper].X
		left := t.edges[lower].values[0].vertex
		right := t.edges[lower].values[1].vertex
		if upperX <= lowerX {
			t.walkPolygonFromEnd(lower, upper, left)
			t.edges[lower].values[0] = edgeRef{upper, windingPositive}
			t.edges[upper].values = [2]edgeRef{{lower, windingPositive}, t.edges[upper].leftmost(t.vertices)}
		} else {
			t.walkPolygonFromEnd(lower, right, upper)
			t.edges[lower].values[1] = edgeRef{upper, windingPositive}
			t.edges[upper].values = [2]edgeRef{{lower, windingPositive}, t.edges[upper].rightmost(t.vertices)}
		}
		t.edges[lower].sort(int(lower), t.vertices)
		t.edges[upper].sort(int(upper), t.vertices)
	}
}

// Subdivide runs the sweep, splitting the accumulated polygons into
// monotone pieces and triangulating each. Call Triangles afterward to
// retrieve the result. Subdivide drains the event queue only: the
// vertices, edges and triangles of earlier calls are kept, so triangles
// from a later Subdivide are appended to the earlier ones.
func (t *Tessellator) Subdivide() {
	t.real = make([]bool, len(t.vertices))

	for t.queue.Len() > 0 {
		next := heap.Pop(&t.queue).(queued).id

		windingCount := 0
		if _, _, meta, ok := t.windingTree.ExclusiveUpperBoundBy(func(k segment) int {
			return compareSegmentWithPoint(k, t.vertices[next])
		}); ok {
			windingCount = int(meta)
		}

		edges := t.edges[next]
		interiorOnTheLeft := windingCount != 0
		class := edges.kind.classify(interiorOnTheLeft)

		insertWindingCount := windingCount
		isMaterializedVertex := t.real[next]
		for _, downV := range t.edges[next].down() {
			materializedEdge := (insertWindingCount+int(downV.winding)) == 0 || insertWindingCount == 0
			if materializedEdge {
				t.helperEdgeTree.Insert(segment{upper: t.vertices[next], lower: t.vertices[downV.vertex]}, helper{vertex: next, isMergeVertex: false})
			}
			t.real[downV.vertex] = true
			isMaterializedVertex = true

			t.windingTree.Insert(segment{upper: t.vertices[next], lower: t.vertices[downV.vertex]}, int(downV.winding))
			insertWindingCount += int(downV.winding)
		}
		t.real[next] = t.real[next] || isMaterializedVertex

		for _, upV := range t.edges[next].up() {
			t.windingTree.Remove(segment{upper: t.vertices[upV.vertex], lower: t.vertices[next]})
		}

		if class != classRegular || interiorOnTheLeft {
			for _, up := range t.edges[next].up() {
				if _, h, found := t.helperEdgeTree.RemoveBy(func(k segment) int {
					target := segment{upper: t.vertices[up.vertex], lower: t.vertices[next]}
					return compareSegments(k, target)
				}); found {
					if h.isMergeVertex && up.vertex != h.vertex {
						switch class {
						case classRegular, classEnd, classMerge:
							t.insertNonSplitDiagonal(class, next, h.vertex, interiorOnTheLeft)
						}
					}
				}
			}
		}

		before := func() (helper, bool) {
			_, h, _, ok := t.helperEdgeTree.ExclusiveUpperBoundBy(func(k segment) int {
				return compareSegmentWithPoint(k, t.vertices[next])
			})
			return h, ok
		}

		if isMaterializedVertex {
			switch class {
			case classStart:
			case classEnd:
				up := t.edges[next].up()[0]
				_, hv, _, ok := t.helperEdgeTree.GetBy(func(k segment) int {
					target := segment{upper: t.vertices[up.vertex], lower: t.vertices[next]}
					return compareSegments(k, target)
				})
				if ok && hv.isMergeVertex {
					t.insertNonSplitDiagonal(classEnd, next, hv.vertex, interiorOnTheLeft)
				} else {
					t.walkPolygonFromEnd(next, t.edges[next].values[0].vertex, t.edges[next].values[1].vertex)
				}
			case classRegular:
				if !interiorOnTheLeft {
					up0 := t.edges[next].up()[0]
					if _, h, found := t.helperEdgeTree.RemoveBy(func(k segment) int {
						target := segment{upper: t.vertices[up0.vertex], lower: t.vertices[next]}
						return compareSegments(k, target)
					}); found && h.isMergeVertex {
						t.insertNonSplitDiagonal(classRegular, next, h.vertex, interiorOnTheLeft)
					}
				} else if h, ok := before(); ok {
					old := h
					t.setHelperBefore(next, helper{vertex: next, isMergeVertex: false})
					if old.isMergeVertex {
						t.insertNonSplitDiagonal(classRegular, next, old.vertex, interiorOnTheLeft)
					}
				}
			case classSplit:
				old, _ := before()
				t.setHelperBefore(next, helper{vertex: next, isMergeVertex: false})
				t.edges[next].values[0] = edgeRef{old.vertex, windingPositive}
				t.edges[next].kind = regular
			case classMerge:
				if old, ok := before(); ok {
					t.setHelperBefore(next, helper{vertex: next, isMergeVertex: true})
					if old.vertex != ^uint32(0) && old.isMergeVertex && t.edges[next].up()[0].vertex != old.vertex {
						t.insertNonSplitDiagonal(classMerge, next, old.vertex, interiorOnTheLeft)
					}
				}
			}
		}
	}
}

// setHelperBefore replaces the helper value found by ExclusiveUpperBoundBy
// against vertices[at] with a new one, matching the Cell::replace pattern
// in tessellate.rs (the Rust code mutates the helper in place through a
// shared Cell found by the same query; Go re-finds and re-inserts instead
// since btreemap values are not independently addressable).
func (t *Tessellator) setHelperBefore(at uint32, newHelper helper) {
	k, _, _, ok := t.helperEdgeTree.ExclusiveUpperBoundBy(func(k segment) int {
		return compareSegmentWithPoint(k, t.vertices[at])
	})
	if ok {
		t.helperEdgeTree.Insert(k, newHelper)
	}
}

// Triangles returns the accumulated result of Subdivide.
func (t *Tessellator) Triangles() [][3]Point2 { return t.monotone.outTris }

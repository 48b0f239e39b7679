package tessellate

import (
	"errors"
	"math"
	"testing"
)

func polygonArea(points []Point2) float64 {
	sum := 0.0
	n := len(points)
	for i := 0; i < n; i++ {
		a, b := points[i], points[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum) / 2
}

func triangleArea(tri [3]Point2) float64 {
	return math.Abs((tri[1].X-tri[0].X)*(tri[2].Y-tri[0].Y)-(tri[2].X-tri[0].X)*(tri[1].Y-tri[0].Y)) / 2
}

func totalArea(tris [][3]Point2) float64 {
	sum := 0.0
	for _, tri := range tris {
		sum += triangleArea(tri)
	}
	return sum
}

// A plain convex quad must decompose into exactly two triangles whose
// combined area equals the quad's own area.
func TestTessellateConvexQuad(t *testing.T) {
	tess := NewTessellator()
	square := []Point2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if err := tess.AddPolygon(square, false); err != nil {
		t.Fatalf("AddPolygon: %v", err)
	}
	tess.Subdivide()

	tris := tess.Triangles()
	if len(tris) != 2 {
		t.Fatalf("got %d triangles, want 2", len(tris))
	}
	want := polygonArea(square)
	got := totalArea(tris)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("total triangle area = %v, want %v", got, want)
	}
}

// A triangle is already a single triangle.
func TestTessellateTriangle(t *testing.T) {
	tess := NewTessellator()
	poly := []Point2{{0, 0}, {8, 0}, {4, 8}}
	if err := tess.AddPolygon(poly, false); err != nil {
		t.Fatalf("AddPolygon: %v", err)
	}
	tess.Subdivide()

	tris := tess.Triangles()
	if len(tris) != 1 {
		t.Fatalf("got %d triangles, want 1", len(tris))
	}
	want := polygonArea(poly)
	got := totalArea(tris)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("total triangle area = %v, want %v", got, want)
	}
}

// A reflex ("arrow"/chevron) polygon exercises the split-vertex case: its
// concave notch vertex has both adjacent edges below it in sweep order but
// lies inside the already-swept interior, forcing a diagonal insertion
// before the sweep can continue downward.
func TestTessellateConcaveChevron(t *testing.T) {
	tess := NewTessellator()
	poly := []Point2{
		{0, 0},
		{10, 0},
		{10, 10},
		{5, 4}, // reflex notch vertex pointing up into the interior
		{0, 10},
	}
	if err := tess.AddPolygon(poly, false); err != nil {
		t.Fatalf("AddPolygon: %v", err)
	}
	tess.Subdivide()

	tris := tess.Triangles()
	if len(tris) != len(poly)-2 {
		t.Fatalf("got %d triangles, want %d", len(tris), len(poly)-2)
	}
	want := polygonArea(poly)
	got := totalArea(tris)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("total triangle area = %v, want %v", got, want)
	}
}

// A polygon with a merge vertex (two chains converging on a single vertex
// from above, with the interior below continuing as one chain) exercises
// the merge-vertex/helper-edge-tree path symmetric to the split case.
func TestTessellateConcaveNotchFromBelow(t *testing.T) {
	tess := NewTessellator()
	poly := []Point2{
		{0, 10},
		{0, 0},
		{10, 0},
		{10, 10},
		{5, 6}, // reflex notch vertex pointing down into the interior
	}
	if err := tess.AddPolygon(poly, false); err != nil {
		t.Fatalf("AddPolygon: %v", err)
	}
	tess.Subdivide()

	tris := tess.Triangles()
	if len(tris) != len(poly)-2 {
		t.Fatalf("got %d triangles, want %d", len(tris), len(poly)-2)
	}
	want := polygonArea(poly)
	got := totalArea(tris)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("total triangle area = %v, want %v", got, want)
	}
}

// Outlines with fewer than three points are reported rather than panicking
// or silently tessellating garbage.
func TestAddPolygonRejectsTooFewPoints(t *testing.T) {
	tess := NewTessellator()
	err := tess.AddPolygon([]Point2{{0, 0}, {10, 0}}, false)
	if err == nil {
		t.Fatal("expected an error for a two-point outline")
	}
	var malformed *OutlineMalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("got %T, want *OutlineMalformedError", err)
	}
	if malformed.PointCount != 2 {
		t.Errorf("PointCount = %d, want 2", malformed.PointCount)
	}
}

// A polygon reduced to under three points by coincident-point collapsing is
// rejected the same way, and leaves the tessellator empty rather than
// half-populated with the rejected outline's partial edges.
func TestAddPolygonRejectsCollapsedPoints(t *testing.T) {
	tess := NewTessellator()
	err := tess.AddPolygon([]Point2{{0, 0}, {0, 0}, {10, 0}}, false)
	if err == nil {
		t.Fatal("expected an error for a polygon that collapses to two points")
	}

	square := []Point2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if err := tess.AddPolygon(square, false); err != nil {
		t.Fatalf("AddPolygon after rejection: %v", err)
	}
	tess.Subdivide()
	if got := len(tess.Triangles()); got != 2 {
		t.Fatalf("got %d triangles, want 2 (rejected outline must not linger)", got)
	}
}

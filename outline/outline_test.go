package outline

import "testing"

func TestFlattenTriangle(t *testing.T) {
	var o Outline
	o.MoveTo(Pt(0, 2))
	o.LineTo(Pt(4, 0))
	o.LineTo(Pt(4, 2))

	var segs [][2]Point
	Flatten(o.Events, DefaultQuadraticTolerance, DefaultCubicTolerance, func(from, to Point) {
		segs = append(segs, [2]Point{from, to})
	})

	want := []([2]Point){
		{Pt(0, 2), Pt(4, 0)},
		{Pt(4, 0), Pt(4, 2)},
		{Pt(4, 2), Pt(0, 2)},
	}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d: %v", len(segs), len(want), segs)
	}
	for i, w := range want {
		if segs[i] != w {
			t.Errorf("segment %d = %v, want %v", i, segs[i], w)
		}
	}
}

func TestFlattenQuadProducesMultipleSegments(t *testing.T) {
	var o Outline
	o.MoveTo(Pt(0, 0))
	o.QuadTo(Pt(50, 100), Pt(100, 0))

	// Flattening must produce more than one segment for a curve with this
	// much curvature at a tight tolerance.
	var n int
	Flatten(o.Events, 0.1, DefaultCubicTolerance, func(from, to Point) { n++ })
	if n < 2 {
		t.Errorf("expected multiple flattened segments, got %d", n)
	}
}

func TestControlBox(t *testing.T) {
	var o Outline
	o.MoveTo(Pt(0, 0))
	o.CubicTo(Pt(-5, 10), Pt(15, 10), Pt(10, 0))
	min, max := o.ControlBox()
	if min.X != -5 || max.X != 15 {
		t.Errorf("ControlBox X = [%v, %v], want [-5, 15]", min.X, max.X)
	}
}

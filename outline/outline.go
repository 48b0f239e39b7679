// Package outline models vector outlines as sequences of move/line/quad/cubic
// events and flattens curves into line segments via adaptive subdivision.
//
// Grounded on gio's curve model (op/clip.Path's move/line/quad/cubic ops, see
// gpu/stroke.go's strokeQuads encoding of quadratic segments) and its
// analytic flattening approach (gpu/stroke.go flattenQuadBezier, which
// subdivides by a closed-form flatness estimate rather than naive
// De Casteljau bisection); this package follows the same analytic approach,
// generalized to also flatten cubics by first reducing them to quadratics.
package outline

import "math"

// Point is a 2D point in pixel space.
type Point struct {
	X, Y float32
}

func Pt(x, y float32) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(s float32) Point { return Point{p.X * s, p.Y * s} }

// EventKind identifies the kind of an outline event.
type EventKind uint8

const (
	MoveTo EventKind = iota
	LineTo
	QuadTo
	CubicTo
)

// Event is a single contour-building instruction. A contour begins with a
// MoveTo and implicitly closes back to the last move point when a new
// contour starts (i.e. when another MoveTo is seen, or at the end of the
// outline).
type Event struct {
	Kind EventKind
	// P is the destination point for all kinds.
	P Point
	// C1 is the (only) control point for QuadTo, and the first control
	// point for CubicTo.
	C1 Point
	// C2 is the second control point for CubicTo.
	C2 Point
}

// Outline is an ordered sequence of contours, encoded as a flat event list.
type Outline struct {
	Events []Event
}

func (o *Outline) MoveTo(p Point) { o.Events = append(o.Events, Event{Kind: MoveTo, P: p}) }
func (o *Outline) LineTo(p Point) { o.Events = append(o.Events, Event{Kind: LineTo, P: p}) }
func (o *Outline) QuadTo(c, p Point) {
	o.Events = append(o.Events, Event{Kind: QuadTo, C1: c, P: p})
}
func (o *Outline) CubicTo(c1, c2, p Point) {
	o.Events = append(o.Events, Event{Kind: CubicTo, C1: c1, C2: c2, P: p})
}

// ControlBox returns the bounding box of all points including control
// points (not the tight bounds of the flattened curve).
func (o *Outline) ControlBox() (min, max Point) {
	min = Point{X: float32(math.Inf(1)), Y: float32(math.Inf(1))}
	max = Point{X: float32(math.Inf(-1)), Y: float32(math.Inf(-1))}
	grow := func(p Point) {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	for _, e := range o.Events {
		grow(e.P)
		if e.Kind == QuadTo || e.Kind == CubicTo {
			grow(e.C1)
		}
		if e.Kind == CubicTo {
			grow(e.C2)
		}
	}
	return min, max
}

// Default tolerances, matching spec §4.1's add_outline defaults.
const (
	DefaultQuadraticTolerance = 0.2
	DefaultCubicTolerance     = 1.0
)

// LineVisitor receives each flattened line segment in order.
type LineVisitor func(from, to Point)

// Flatten walks the outline, calling visit once per generated line segment
// (including the implicit closing segment of each contour). quadTolerance
// and cubicTolerance bound the maximum deviation (in pixels) of the
// flattened polyline from the true curve.
func Flatten(events []Event, quadTolerance, cubicTolerance float32, visit LineVisitor) {
	var (
		start, pen Point
		open       bool
	)
	closeContour := func() {
		if open && pen != start {
			visit(pen, start)
		}
	}
	for _, e := range events {
		switch e.Kind {
		case MoveTo:
			closeContour()
			start, pen = e.P, e.P
			open = true
		case LineTo:
			if pen != e.P {
				visit(pen, e.P)
			}
			pen = e.P
		case QuadTo:
			flattenQuad(pen, e.C1, e.P, quadTolerance, visit)
			pen = e.P
		case CubicTo:
			flattenCubic(pen, e.C1, e.C2, e.P, cubicTolerance, quadTolerance, visit)
			pen = e.P
		}
	}
	closeContour()
}

// flattenQuad emits line segments approximating the quadratic Bézier
// (p0, ctrl, p1) to within tolerance, using the analytic step-size
// estimate from gio's gpu/stroke.go flattenQuadBezier: the parametric step
// t is chosen so that the curve's deviation from its chord over [0,t] stays
// under tolerance, derived from the curve's (constant) second derivative.
func flattenQuad(p0, ctrl, p1 Point, tolerance float32, visit LineVisitor) {
	if tolerance <= 0 {
		tolerance = DefaultQuadraticTolerance
	}
	cur0, cur1, cur2 := p0, ctrl, p1
	for {
		// Signed area of the triangle (p0, ctrl, p1) divided by the length
		// of the p0→ctrl leg approximates curvature; this mirrors s2/den in
		// flattenQuadBezier.
		s2 := float64((cur2.X-cur0.X)*(cur1.Y-cur0.Y) - (cur2.Y-cur0.Y)*(cur1.X-cur0.X))
		den := math.Hypot(float64(cur1.X-cur0.X), float64(cur1.Y-cur0.Y))
		if den == 0 || s2 == 0 {
			break
		}
		s2 /= den
		t := 2.0 * math.Sqrt(math.Abs(float64(tolerance))/3.0/math.Abs(s2))
		if t >= 1.0 {
			break
		}
		tf := float32(t)
		split0, split1, mid := quadInterp(cur0, cur1, tf), quadInterp(cur1, cur2, tf), Point{}
		mid = quadInterp(split0, split1, tf)
		visit(cur0, mid)
		cur0, cur1, cur2 = mid, split1, cur2
	}
	visit(cur0, cur2)
}

func quadInterp(p, q Point, t float32) Point {
	return Point{
		X: (1-t)*p.X + t*q.X,
		Y: (1-t)*p.Y + t*q.Y,
	}
}

// flattenCubic reduces a cubic Bézier to a sequence of quadratics (by
// subdividing until each piece is within cubicTolerance of a best-fit
// quadratic, approximated here by recursive De Casteljau bisection on
// flatness) and flattens each with flattenQuad.
func flattenCubic(p0, c1, c2, p1 Point, cubicTolerance, quadTolerance float32, visit LineVisitor) {
	if cubicTolerance <= 0 {
		cubicTolerance = DefaultCubicTolerance
	}
	var recurse func(p0, c1, c2, p1 Point, depth int)
	recurse = func(p0, c1, c2, p1 Point, depth int) {
		if depth > 24 || cubicFlatEnough(p0, c1, c2, p1, cubicTolerance) {
			// Approximate the flat cubic span by its midpoint-control
			// quadratic and flatten that (handles residual curvature from
			// the tolerance test being an upper bound, not exact).
			ctrl := Point{
				X: (3*(c1.X+c2.X) - p0.X - p1.X) / 4,
				Y: (3*(c1.Y+c2.Y) - p0.Y - p1.Y) / 4,
			}
			flattenQuad(p0, ctrl, p1, quadTolerance, visit)
			return
		}
		l0, l1, l2, l3, r0, r1, r2, r3 := splitCubic(p0, c1, c2, p1)
		recurse(l0, l1, l2, l3, depth+1)
		recurse(r0, r1, r2, r3, depth+1)
	}
	recurse(p0, c1, c2, p1, 0)
}

// cubicFlatEnough tests whether the control points deviate from the chord
// by less than tolerance, a standard flatness criterion for Bézier curves.
func cubicFlatEnough(p0, c1, c2, p1 Point, tolerance float32) bool {
	ux := 3*c1.X - 2*p0.X - p1.X
	uy := 3*c1.Y - 2*p0.Y - p1.Y
	vx := 3*c2.X - 2*p1.X - p0.X
	vy := 3*c2.Y - 2*p1.Y - p0.Y
	ux *= ux
	uy *= uy
	vx *= vx
	vy *= vy
	if ux < vx {
		ux = vx
	}
	if uy < vy {
		uy = vy
	}
	return ux+uy <= 16*tolerance*tolerance
}

func splitCubic(p0, c1, c2, p1 Point) (l0, l1, l2, l3, r0, r1, r2, r3 Point) {
	mid := func(a, b Point) Point { return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2} }
	p01 := mid(p0, c1)
	p12 := mid(c1, c2)
	p23 := mid(c2, p1)
	p012 := mid(p01, p12)
	p123 := mid(p12, p23)
	p0123 := mid(p012, p123)
	return p0, p01, p012, p0123, p0123, p123, p23, p1
}

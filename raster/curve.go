package raster

// flattenQuad adaptively subdivides a quadratic Bezier into line segments
// such that the control point's deviation from the chord never exceeds
// tolerance, returning the interior+end points (not including p0).
// Grounded on the flattening strip.rs delegates to
// util::math::FloatOutlineIterExt (not present in the retrieved pack);
// this is the standard flatness-by-chord-deviation recursive algorithm.
func flattenQuad(p0, c, p1 Point, tolerance float32) []Point {
	var out []Point
	subdivideQuad(p0, c, p1, float64(tolerance), 0, &out)
	return out
}

func subdivideQuad(p0, c, p1 Point, tol float64, depth int, out *[]Point) {
	if depth >= 16 || quadIsFlat(p0, c, p1, tol) {
		*out = append(*out, p1)
		return
	}
	p01 := mid(p0, c)
	p12 := mid(c, p1)
	p012 := mid(p01, p12)
	subdivideQuad(p0, p01, p012, tol, depth+1, out)
	subdivideQuad(p012, p12, p1, tol, depth+1, out)
}

func quadIsFlat(p0, c, p1 Point, tol float64) bool {
	return pointLineDistance(c, p0, p1) <= tol
}

// flattenCubic adaptively subdivides a cubic Bezier the same way,
// checking both control points' chord deviation; cubicTolerance loosens
// the bound slightly to mirror strip.rs's two-stage cubic-to-quadratic
// reduction followed by quadratic flattening, collapsed here into one
// direct recursive cubic flatten (the reduction stage itself was not
// retrievable, only its tolerance parameter's call site).
func flattenCubic(p0, c1, c2, p1 Point, quadTolerance, cubicTolerance float32) []Point {
	var out []Point
	tol := float64(quadTolerance) + float64(cubicTolerance)*0.1
	subdivideCubic(p0, c1, c2, p1, tol, 0, &out)
	return out
}

func subdivideCubic(p0, c1, c2, p1 Point, tol float64, depth int, out *[]Point) {
	if depth >= 16 || cubicIsFlat(p0, c1, c2, p1, tol) {
		*out = append(*out, p1)
		return
	}
	p01 := mid(p0, c1)
	p12 := mid(c1, c2)
	p23 := mid(c2, p1)
	p012 := mid(p01, p12)
	p123 := mid(p12, p23)
	p0123 := mid(p012, p123)
	subdivideCubic(p0, p01, p012, p0123, tol, depth+1, out)
	subdivideCubic(p0123, p123, p23, p1, tol, depth+1, out)
}

func cubicIsFlat(p0, c1, c2, p1 Point, tol float64) bool {
	return pointLineDistance(c1, p0, p1) <= tol && pointLineDistance(c2, p0, p1) <= tol
}

func mid(a, b Point) Point { return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2} }

func pointLineDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := dx*dx + dy*dy
	if length == 0 {
		return hypot(p.X-a.X, p.Y-a.Y)
	}
	// |cross product| / |ab|
	cross := (p.X-a.X)*dy - (p.Y-a.Y)*dx
	if cross < 0 {
		cross = -cross
	}
	return cross / hypot(dx, dy)
}

func hypot(x, y float64) float64 {
	if x < 0 {
		x = -x
	}
	if y < 0 {
		y = -y
	}
	if x == 0 {
		return y
	}
	if y == 0 {
		return x
	}
	// Newton's method for sqrt(x*x+y*y), adequate precision for flatness tests.
	v := x*x + y*y
	guess := v
	if x > y {
		guess = x
	} else {
		guess = y
	}
	for i := 0; i < 8; i++ {
		guess = 0.5 * (guess + v/guess)
	}
	return guess
}

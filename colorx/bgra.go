// Package colorx implements the BGRA8 pixel format used by render targets
// and the straight/premultiplied alpha conversions the rasterizer and
// compositor need.
//
// Grounded on gio's internal/f32color package (its conversions between
// straight-alpha color.NRGBA and premultiplied color.RGBA; see
// internal/f32color/rgba_test.go, which this package's tests mirror) and
// op/paint.ColorOp's plain R/G/B/A byte layout.
package colorx

// BGRA8 is a premultiplied-alpha 8-bit-per-channel pixel in B,G,R,A byte
// order, matching the native layout most software compositors and GPU
// texture formats expect for this pipeline.
type BGRA8 struct {
	B, G, R, A uint8
}

// Straight represents a straight (non-premultiplied) alpha color, as used
// by subtitle style declarations before they're composited.
type Straight struct {
	R, G, B, A uint8
}

// Premultiply converts a straight-alpha color to premultiplied BGRA8.
func (s Straight) Premultiply() BGRA8 {
	a := uint32(s.A)
	return BGRA8{
		B: uint8(uint32(s.B) * a / 0xFF),
		G: uint8(uint32(s.G) * a / 0xFF),
		R: uint8(uint32(s.R) * a / 0xFF),
		A: s.A,
	}
}

// Unpremultiply recovers the straight-alpha representation. When A is zero
// the color channels are undefined (zeroed) since no information survives.
func (p BGRA8) Unpremultiply() Straight {
	if p.A == 0 {
		return Straight{}
	}
	a := uint32(p.A)
	return Straight{
		R: uint8(uint32(p.R) * 0xFF / a),
		G: uint8(uint32(p.G) * 0xFF / a),
		B: uint8(uint32(p.B) * 0xFF / a),
		A: p.A,
	}
}

// ScaleAlpha scales all channels (including alpha) of a premultiplied color
// by coverage/255, as used when blitting a mono coverage texture tinted by
// a fill color: color.A supplies the tint's own alpha, coverage supplies
// the rasterized per-pixel alpha.
func (p BGRA8) ScaleAlpha(coverage uint8) BGRA8 {
	c := uint32(coverage)
	return BGRA8{
		B: uint8(uint32(p.B) * c / 0xFF),
		G: uint8(uint32(p.G) * c / 0xFF),
		R: uint8(uint32(p.R) * c / 0xFF),
		A: uint8(uint32(p.A) * c / 0xFF),
	}
}

// Over composites src over dst using the Porter-Duff source-over operator
// on premultiplied channels: result = src + dst*(1-src.A).
func Over(src, dst BGRA8) BGRA8 {
	inv := uint32(0xFF - src.A)
	return BGRA8{
		B: clampAdd8(src.B, uint8(uint32(dst.B)*inv/0xFF)),
		G: clampAdd8(src.G, uint8(uint32(dst.G)*inv/0xFF)),
		R: clampAdd8(src.R, uint8(uint32(dst.R)*inv/0xFF)),
		A: clampAdd8(src.A, uint8(uint32(dst.A)*inv/0xFF)),
	}
}

func clampAdd8(a, b uint8) uint8 {
	sum := uint32(a) + uint32(b)
	if sum > 0xFF {
		return 0xFF
	}
	return uint8(sum)
}

// Mono is a single alpha-coverage byte, used for un-tinted glyph bitmaps and
// the strip rasterizer's output buffer.
type Mono = uint8

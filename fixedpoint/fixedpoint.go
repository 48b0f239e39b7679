// Package fixedpoint provides the fixed-point scalar types used throughout
// the rasterizer and layout engine: I26Dot6 for device coordinates and font
// metrics, I16Dot16 for font axis coordinates and slopes, and U2Dot14 for
// tile-local coordinates in [0, 4).
//
// I26Dot6 is a thin wrapper around golang.org/x/image/math/fixed.Int26_6,
// the same representation gio uses for glyph and metric coordinates
// throughout package text and font/opentype.
package fixedpoint

import "golang.org/x/image/math/fixed"

// I26Dot6 is a signed 26.6 fixed-point number: 6 fractional bits.
type I26Dot6 fixed.Int26_6

// I16Dot16 is a signed 16.16 fixed-point number: 16 fractional bits.
type I16Dot16 int32

// U2Dot14 is an unsigned 2.14 fixed-point number representing a tile-local
// coordinate in [0, 4). It saturates rather than wraps at its upper bound.
type U2Dot14 uint16

const (
	i26dot6Shift = 6
	i16dot16Shift = 16
	u2dot14Shift = 14
)

// MaxU2Dot14 is the largest representable U2Dot14 value, corresponding to
// the coordinate 4 - 2^-14, just short of the far edge of a tile.
const MaxU2Dot14 U2Dot14 = 0xFFFF

func I26Dot6FromInt(v int) I26Dot6 { return I26Dot6(v << i26dot6Shift) }

// I26Dot6FromFloat32 rounds v to the nearest 1/64.
func I26Dot6FromFloat32(v float32) I26Dot6 { return I26Dot6(v*64 + sign32(v)*0.5) }

func sign32(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

// ToFloat32 converts back to a float32, preserving x to 1/64 precision.
func (v I26Dot6) ToFloat32() float32 {
	return float32(v) / 64
}

func (v I26Dot6) Raw() int32 { return int32(v) }

func I26Dot6FromRaw(raw int32) I26Dot6 { return I26Dot6(raw) }

func (v I26Dot6) Floor() I26Dot6 { return v &^ 0x3F }
func (v I26Dot6) Ceil() I26Dot6 {
	return (v + 0x3F) &^ 0x3F
}
func (v I26Dot6) Round() I26Dot6 { return (v + 0x20) &^ 0x3F }
func (v I26Dot6) Frac() I26Dot6  { return v & 0x3F }

func (v I26Dot6) FloorToInt() int { return int(v.Floor()) >> i26dot6Shift }
func (v I26Dot6) CeilToInt() int  { return int(v.Ceil()) >> i26dot6Shift }

func (v I26Dot6) Mul(o I26Dot6) I26Dot6 {
	return I26Dot6((int64(v)*int64(o) + 1<<5) >> i26dot6Shift)
}

func (v I26Dot6) Div(o I26Dot6) I26Dot6 {
	return I26Dot6((int64(v) << i26dot6Shift) / int64(o))
}

// I16Dot16 helpers.

func I16Dot16FromInt(v int) I16Dot16 { return I16Dot16(v << i16dot16Shift) }

func I16Dot16FromFloat32(v float32) I16Dot16 {
	return I16Dot16(v*65536 + sign32(v)*0.5)
}

func (v I16Dot16) ToFloat32() float32 { return float32(v) / 65536 }

func (v I16Dot16) Raw() int32            { return int32(v) }
func I16Dot16FromRaw(raw int32) I16Dot16 { return I16Dot16(raw) }

const ZeroI16Dot16 I16Dot16 = 0

func (v I16Dot16) Floor() I16Dot16 { return v &^ 0xFFFF }
func (v I16Dot16) Ceil() I16Dot16  { return (v + 0xFFFF) &^ 0xFFFF }
func (v I16Dot16) Frac() I16Dot16  { return v & 0xFFFF }

func (v I16Dot16) Mul(o I16Dot16) I16Dot16 {
	return I16Dot16((int64(v) * int64(o)) >> i16dot16Shift)
}

func (v I16Dot16) Div(o I16Dot16) I16Dot16 {
	return I16Dot16((int64(v) << i16dot16Shift) / int64(o))
}

// U2Dot14 helpers. Values are clamped to [0, MaxU2Dot14] on construction
// from a wider type, matching the subrandr rasterizer's to_tile_fixed.

func U2Dot14FromI16Dot16(v I16Dot16) U2Dot14 {
	raw := v.Raw() >> 2
	if raw < 0 {
		raw = 0
	}
	if raw > int32(MaxU2Dot14) {
		raw = int32(MaxU2Dot14)
	}
	return U2Dot14(raw)
}

func (v U2Dot14) ToI16Dot16() I16Dot16 { return I16Dot16(int32(v) << 2) }

func (v U2Dot14) ToFloat32() float32 { return float32(v) / (1 << u2dot14Shift) }

// Package textfont implements font matching (family + fallback cascade
// resolution) and the shaping-engine glue consumed by package layout.
//
// Grounded on gio's text package: Font/Style/Weight/FontFace
// (_examples/gioui-gio/text/text.go, text/shaper.go) and the
// faceOrderer/shaperImpl cascade-resolution and shaping machinery
// (_examples/gioui-gio/text/gotext.go). Font file loading itself is a
// Non-goal (spec §1: "font file parsing internals (assumed available via
// a font loader capability)"), so this package never opens a font file
// directly; it only matches already-loaded font.Face values against a
// requested style and drives go-text/typesetting's shaper over them,
// mirroring shaperImpl.shapeText/toInput.
package textfont

import (
	"fmt"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	fixed "golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/afishhh/subrandr-sub000/fixedpoint"
)

// Style is the font style (spec §6 font-style).
type Style uint8

const (
	Regular Style = iota
	Italic
)

// Weight is a CSS-style font weight; the spec models it as an I16Dot16
// quantity (so OpenType variable-weight axes can interpolate it), unlike
// gio's plain int Weight.
type Weight fixedpoint.I16Dot16

const (
	WeightNormal Weight = Weight(400 << 16)
	WeightBold   Weight = Weight(700 << 16)
)

// VariationAxis is one entry of a variable font's variation coordinate
// array (spec §3's glyph cache key "variation_coords[N]").
type VariationAxis struct {
	Tag   string
	Value fixedpoint.I16Dot16
}

// Font specifies a requested typeface, style, weight, size and DPI: the
// input to family matching, mirroring gio's text.Font plus the size/dpi
// fields spec §6's match_family takes as explicit arguments.
type Font struct {
	Family     []string
	Style      Style
	Weight     Weight
	Size       fixedpoint.I26Dot6
	DPI        uint16
	Variations []VariationAxis
}

// Metrics are a font's vertical metrics in 26.6 pixels, matching spec
// §6's Font capability ("ascender, descender, height, line_gap,
// underline/strikeout offsets and thicknesses").
type Metrics struct {
	Ascender           fixedpoint.I26Dot6
	Descender          fixedpoint.I26Dot6
	Height             fixedpoint.I26Dot6
	LineGap            fixedpoint.I26Dot6
	UnderlineOffset    fixedpoint.I26Dot6
	UnderlineThickness fixedpoint.I26Dot6
	StrikeoutOffset    fixedpoint.I26Dot6
	StrikeoutThickness fixedpoint.I26Dot6
}

// FaceSource is the externally-provided font loader capability (spec §6's
// "Font database capability"): it resolves a family name plus style/weight
// to a loaded face and its metrics. Font file parsing itself lives behind
// this interface, outside this package's scope.
type FaceSource interface {
	// Match returns the best available face for family/style/weight. ok is
	// false if this source simply has no face for that family (a soft
	// miss, tried families continue in order); err is non-nil if a face
	// for that family exists but could not be loaded (I/O, parse), a hard
	// failure that aborts the match rather than falling through.
	Match(family string, style Style, weight Weight) (face font.Face, metrics Metrics, ok bool, err error)
	// Fallback returns a face cascade capable of covering codepoints not
	// present in the primary family (OS-level fallback, spec §4.6).
	Fallback(style Style, weight Weight) []font.Face
	// Tofu returns the builtin fallback face that always succeeds,
	// rendering a placeholder glyph for unmappable codepoints (spec §7's
	// "tofu font").
	Tofu() font.Face
}

// FontSelectError is returned when no family resolves and no usable
// fallback exists (spec §7's FontSelect error kind).
type FontSelectError struct {
	Families []string
}

func (e *FontSelectError) Error() string {
	return fmt.Sprintf("textfont: no usable face for families %v", e.Families)
}

// FontLoaderError is returned when a FaceSource reports that a face exists
// for a requested family but fails to load it, spec §7's FontLoader error
// kind ("underlying face could not be loaded (I/O, parse)").
type FontLoaderError struct {
	Family string
	Cause  error
}

func (e *FontLoaderError) Error() string {
	return fmt.Sprintf("textfont: failed to load face for family %q: %v", e.Family, e.Cause)
}

func (e *FontLoaderError) Unwrap() error { return e.Cause }

// Matcher is an ordered cascade of faces resolved from a Font request:
// the primary face first, then fallbacks in priority order, ported from
// gio's faceOrderer (text/gotext.go) collapsed to the read-only cascade a
// single match produces (gio's mutable multi-style reordering isn't
// needed here: a Matcher is built fresh per distinct style request and
// cached by the caller).
type Matcher struct {
	primary font.Face
	metrics Metrics
	cascade []font.Face
}

// Match resolves req against source, trying each family in req.Family in
// order before falling back to OS-level fallback and finally the tofu
// face. When no family matches, the first fallback face (or the tofu face)
// becomes the primary face, with zero Metrics.
func Match(source FaceSource, req Font) (*Matcher, error) {
	for _, family := range req.Family {
		face, metrics, ok, err := source.Match(family, req.Style, req.Weight)
		if err != nil {
			return nil, &FontLoaderError{Family: family, Cause: err}
		}
		if ok {
			cascade := append([]font.Face{face}, source.Fallback(req.Style, req.Weight)...)
			cascade = append(cascade, source.Tofu())
			return &Matcher{primary: face, metrics: metrics, cascade: cascade}, nil
		}
	}
	cascade := source.Fallback(req.Style, req.Weight)
	if tofu := source.Tofu(); tofu != nil {
		cascade = append(cascade, tofu)
	}
	if len(cascade) == 0 {
		return nil, &FontSelectError{Families: req.Family}
	}
	return &Matcher{primary: cascade[0], cascade: cascade}, nil
}

// Primary returns the matcher's primary face, which provides metrics when
// later cascade entries lack a requested glyph (spec §4.6).
func (m *Matcher) Primary() font.Face { return m.primary }

func (m *Matcher) Metrics() Metrics { return m.metrics }

// Cascade returns the ordered fallback cascade, primary face first.
func (m *Matcher) Cascade() []font.Face { return m.cascade }

// Glyph is the minimal per-glyph shaping result package layout consumes
// (spec §3's GlyphString element): positions in 26.6 pixels, the
// originating cluster, and the safe-split flags that guard line-break
// reshaping (spec §4.4).
type Glyph struct {
	GlyphID  uint32
	Cluster  int
	XAdvance fixedpoint.I26Dot6
	YAdvance fixedpoint.I26Dot6
	XOffset  fixedpoint.I26Dot6
	YOffset  fixedpoint.I26Dot6
	Face     font.Face

	// UnsafeToBreak is set for glyphs whose shaping depends on
	// neighbouring glyphs within the same cluster: splitting the glyph
	// stream here (without reshaping) would change the rendered result.
	UnsafeToBreak bool
	// UnsafeToConcat mirrors UnsafeToBreak for the purposes of
	// concatenating a previously-shaped prefix back onto a reshaped
	// suffix (spec §4.4's break_at_if_less_or_eq).
	UnsafeToConcat bool
}

// ShapingBuffer is a mutable arena around the shaping engine, matching
// spec §4.6's ShapingBuffer: reset/guess_properties/set_direction/add/shape.
// Grounded on shaperImpl in gio's text/gotext.go, which drives the same
// shaping.HarfbuzzShaper and golang.org/x/text/unicode/bidi.Paragraph this
// type wraps, minus gio's glyph-path/bitmap rendering (out of scope here;
// rasterization of a shaped glyph is package raster/rendertarget's job).
type ShapingBuffer struct {
	shaper shaping.HarfbuzzShaper
	bidi   bidi.Paragraph

	text      []rune
	direction di.Direction
	language  language.Language
	script    language.Script
}

// Reset clears the buffer for reuse.
func (s *ShapingBuffer) Reset() {
	s.text = s.text[:0]
	s.direction = di.DirectionLTR
	s.language = ""
	s.script = 0
}

// GuessProperties sets the buffer's script to that of the first rune of the
// accumulated text whose script is not Common, and its language to "und"
// (undetermined), for spec §4.6's guess_properties. It does not infer the
// language from the text, and it leaves the direction unchanged:
// SetDirection sets that.
func (s *ShapingBuffer) GuessProperties() {
	if len(s.text) == 0 {
		return
	}
	for _, r := range s.text {
		sc := language.LookupScript(r)
		if sc != language.Common {
			s.script = sc
			break
		}
	}
	s.language = language.NewLanguage("und")
}

// SetDirection overrides the buffer's shaping direction, e.g. after a bidi
// pass determined a run is right-to-left.
func (s *ShapingBuffer) SetDirection(dir di.Direction) { s.direction = dir }

// Add appends text to the buffer's pending run.
func (s *ShapingBuffer) Add(text []rune) { s.text = append(s.text, text...) }

// Shape runs the shaping engine over the buffer's accumulated text against
// the first face in faces that covers it, falling back through the
// cascade for uncovered glyphs the same way shapeText splits by font
// coverage (gio's splitByFaces/SplitByFontGlyphs), and returns the flat
// glyph stream with safe-split flags derived from cluster structure.
func (s *ShapingBuffer) Shape(faces []font.Face, size fixedpoint.I26Dot6) ([]Glyph, error) {
	if len(faces) == 0 {
		return nil, fmt.Errorf("textfont: Shape called with no faces")
	}
	ppem := fixed.I(int(size.FloorToInt()))
	input := shaping.Input{
		Text:      s.text,
		RunStart:  0,
		RunEnd:    len(s.text),
		Direction: s.direction,
		Face:      faces[0],
		Size:      ppem,
		Script:    s.script,
		Language:  s.language,
	}

	inputs := shaping.SplitByFontGlyphs(input, faces)
	var out []Glyph
	for _, in := range inputs {
		o := s.shaper.Shape(in)
		out = append(out, toGlyphs(o, in.Face)...)
	}
	return out, nil
}

// ShapeRaw runs the shaping engine the same way Shape does but returns the
// shaper's native per-run Output instead of a flattened Glyph slice, for
// callers (package layout's line wrapper) that need to feed
// shaping.LineWrapper.WrapParagraph directly, mirroring gio's shapeText.
func (s *ShapingBuffer) ShapeRaw(faces []font.Face, size fixedpoint.I26Dot6) ([]shaping.Output, error) {
	if len(faces) == 0 {
		return nil, fmt.Errorf("textfont: ShapeRaw called with no faces")
	}
	ppem := fixed.I(int(size.FloorToInt()))
	input := shaping.Input{
		Text:      s.text,
		RunStart:  0,
		RunEnd:    len(s.text),
		Direction: s.direction,
		Face:      faces[0],
		Size:      ppem,
		Script:    s.script,
		Language:  s.language,
	}
	inputs := shaping.SplitByFontGlyphs(input, faces)
	out := make([]shaping.Output, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, s.shaper.Shape(in))
	}
	return out, nil
}

// ShapeRange shapes the rune span [runStart,runEnd) of text with the
// given direction, keeping glyph cluster indices relative to the start of
// text rather than the start of the span: matching gio's splitBidi
// (which slices Input.RunStart/RunEnd over one shared backing Text array
// instead of copying each bidi run's runes into its own buffer), so a
// caller shaping several direction-runs out of one paragraph and
// concatenating the results gets globally-consistent offsets.
func ShapeRange(text []rune, runStart, runEnd int, dir di.Direction, faces []font.Face, size fixedpoint.I26Dot6) ([]shaping.Output, error) {
	if len(faces) == 0 {
		return nil, fmt.Errorf("textfont: ShapeRange called with no faces")
	}
	var shaper shaping.HarfbuzzShaper
	ppem := fixed.I(int(size.FloorToInt()))
	input := shaping.Input{
		Text:      text,
		RunStart:  runStart,
		RunEnd:    runEnd,
		Direction: dir,
		Face:      faces[0],
		Size:      ppem,
	}
	inputs := shaping.SplitByFontGlyphs(input, faces)
	out := make([]shaping.Output, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, shaper.Shape(in))
	}
	return out, nil
}

// ToGlyphs exposes toGlyphs to other packages needing to convert a shaped
// (and possibly wrapped) run's Output into our flat Glyph representation.
func ToGlyphs(o shaping.Output, face font.Face) []Glyph { return toGlyphs(o, face) }

// toGlyphs converts a shaper output into our Glyph slice, marking every
// glyph of a multi-glyph cluster, the first one included, unsafe to split: a shaper
// output exposes cluster membership via ClusterIndex/GlyphCount, and
// splitting inside a cluster without reshaping changes the result the
// same way HarfBuzz's UNSAFE_TO_BREAK/UNSAFE_TO_CONCAT cluster flags do.
func toGlyphs(o shaping.Output, face font.Face) []Glyph {
	out := make([]Glyph, 0, len(o.Glyphs))
	for i, g := range o.Glyphs {
		unsafe := g.GlyphCount > 1
		if i > 0 && o.Glyphs[i-1].ClusterIndex == g.ClusterIndex {
			unsafe = true
		}
		out = append(out, Glyph{
			GlyphID:        uint32(g.GlyphID),
			Cluster:        g.ClusterIndex,
			XAdvance:       fixedpoint.I26Dot6(g.XAdvance),
			YAdvance:       fixedpoint.I26Dot6(g.YAdvance),
			XOffset:        fixedpoint.I26Dot6(g.XOffset),
			YOffset:        fixedpoint.I26Dot6(g.YOffset),
			Face:           face,
			UnsafeToBreak:  unsafe,
			UnsafeToConcat: unsafe,
		})
	}
	return out
}

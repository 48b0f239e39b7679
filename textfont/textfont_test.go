package textfont

import (
	"errors"
	"testing"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
)

func TestWeightConstants(t *testing.T) {
	if WeightNormal >= WeightBold {
		t.Errorf("WeightNormal (%v) should be lighter than WeightBold (%v)", WeightNormal, WeightBold)
	}
}

func TestFontSelectErrorMessage(t *testing.T) {
	err := &FontSelectError{Families: []string{"Arial", "Helvetica"}}
	if err.Error() == "" {
		t.Fatal("expected a non-empty error message")
	}
}

// fakeFaceSource is a minimal FaceSource for exercising Match's control
// flow without a real font loader.
type fakeFaceSource struct {
	matches map[string]error
	tofu    font.Face
}

func (f *fakeFaceSource) Match(family string, style Style, weight Weight) (font.Face, Metrics, bool, error) {
	err, known := f.matches[family]
	if !known {
		return nil, Metrics{}, false, nil
	}
	if err != nil {
		return nil, Metrics{}, false, err
	}
	return font.Face{}, Metrics{}, true, nil
}

func (f *fakeFaceSource) Fallback(style Style, weight Weight) []font.Face { return nil }
func (f *fakeFaceSource) Tofu() font.Face                                 { return f.tofu }

func TestMatchWrapsFaceSourceLoadFailureAsFontLoaderError(t *testing.T) {
	loadErr := errors.New("corrupt sfnt table")
	source := &fakeFaceSource{matches: map[string]error{"Broken": loadErr}}
	_, err := Match(source, Font{Family: []string{"Broken"}})
	if err == nil {
		t.Fatal("expected an error when the face source fails to load a matched family")
	}
	var loaderErr *FontLoaderError
	if !errors.As(err, &loaderErr) {
		t.Fatalf("got %T, want *FontLoaderError", err)
	}
	if !errors.Is(loaderErr, loadErr) {
		t.Errorf("expected FontLoaderError to wrap the underlying cause")
	}
}

// A soft miss (family simply absent from the source) continues trying
// later families instead of aborting the whole match.
func TestMatchFallsThroughSoftMissToLaterFamily(t *testing.T) {
	source := &fakeFaceSource{matches: map[string]error{"Present": nil}}
	m, err := Match(source, Font{Family: []string{"Missing", "Present"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m == nil {
		t.Fatal("expected a matcher resolving against the later, present family")
	}
}

// toGlyphs marks every glyph of a multi-glyph cluster, the first one
// included, unsafe to split, mirroring HarfBuzz's UNSAFE_TO_BREAK/CONCAT cluster flags.
func TestToGlyphsMarksMultiGlyphClusterUnsafe(t *testing.T) {
	out := shaping.Output{
		Glyphs: []shaping.Glyph{
			{GlyphID: 1, ClusterIndex: 0, GlyphCount: 1},
			{GlyphID: 2, ClusterIndex: 1, GlyphCount: 2},
			{GlyphID: 3, ClusterIndex: 1, GlyphCount: 2},
			{GlyphID: 4, ClusterIndex: 2, GlyphCount: 1},
		},
	}
	glyphs := toGlyphs(out, nil)
	if len(glyphs) != 4 {
		t.Fatalf("got %d glyphs, want 4", len(glyphs))
	}
	want := []bool{false, true, true, false}
	for i, g := range glyphs {
		if g.UnsafeToBreak != want[i] {
			t.Errorf("glyph %d UnsafeToBreak = %v, want %v", i, g.UnsafeToBreak, want[i])
		}
		if g.UnsafeToConcat != want[i] {
			t.Errorf("glyph %d UnsafeToConcat = %v, want %v", i, g.UnsafeToConcat, want[i])
		}
	}
}

func TestGlyphAdvancesRoundTripFixedPoint(t *testing.T) {
	out := shaping.Output{
		Glyphs: []shaping.Glyph{
			{GlyphID: 1, ClusterIndex: 0, GlyphCount: 1, XAdvance: 640},
		},
	}
	glyphs := toGlyphs(out, nil)
	if got := glyphs[0].XAdvance.ToFloat32(); got != 10 {
		t.Errorf("XAdvance = %v, want 10 (640/64)", got)
	}
}

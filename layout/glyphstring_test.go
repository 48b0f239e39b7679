package layout

import (
	"testing"

	"github.com/afishhh/subrandr-sub000/textfont"
)

func glyph(cluster int, unsafe bool) textfont.Glyph {
	return textfont.Glyph{Cluster: cluster, UnsafeToBreak: unsafe, UnsafeToConcat: unsafe}
}

func TestSplitSafelyNearAtClusterBoundary(t *testing.T) {
	g := NewGlyphString([]textfont.Glyph{
		glyph(0, false),
		glyph(1, false),
		glyph(2, false),
	})
	before, after, ok := g.SplitSafelyNear(1)
	if !ok {
		t.Fatal("expected a safe split at a plain cluster boundary")
	}
	if len(before) != 1 || len(after) != 2 {
		t.Errorf("got before=%d after=%d, want 1/2", len(before), len(after))
	}
}

func TestSplitSafelyNearRejectsUnsafeToConcatBoundary(t *testing.T) {
	g := NewGlyphString([]textfont.Glyph{
		{Cluster: 5, UnsafeToConcat: true}, // last glyph of a cluster that can't be concatenated onto
		{Cluster: 6},
	})
	_, _, ok := g.SplitSafelyNear(1)
	if ok {
		t.Error("expected SplitSafelyNear to refuse splitting right after an unsafe-to-concat glyph")
	}
}

func TestSplitSafelyNearBoundaryCases(t *testing.T) {
	g := NewGlyphString([]textfont.Glyph{glyph(0, false), glyph(1, false)})

	before, after, ok := g.SplitSafelyNear(0)
	if !ok || len(before) != 0 || len(after) != 2 {
		t.Errorf("split at 0: before=%d after=%d ok=%v, want 0/2/true", len(before), len(after), ok)
	}

	before, after, ok = g.SplitSafelyNear(2)
	if !ok || len(before) != 2 || len(after) != 0 {
		t.Errorf("split at len: before=%d after=%d ok=%v, want 2/0/true", len(before), len(after), ok)
	}
}

func TestBreakAtIfLessOrEqFallsBackToReshape(t *testing.T) {
	glyphs := []textfont.Glyph{
		{Cluster: 5, UnsafeToConcat: true},
		{Cluster: 6},
	}
	g := NewGlyphString(glyphs)
	reshapeCalls := 0
	before, after, err := g.BreakAtIfLessOrEq(1, func(lo, hi int) ([]textfont.Glyph, error) {
		reshapeCalls++
		return glyphs[lo:hi], nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reshapeCalls != 2 {
		t.Errorf("reshape called %d times, want 2 (before+after)", reshapeCalls)
	}
	if len(before) != 1 || len(after) != 1 {
		t.Errorf("got before=%d after=%d, want 1/1", len(before), len(after))
	}
}

func TestWidthSumsAdvances(t *testing.T) {
	glyphs := []textfont.Glyph{
		{XAdvance: 640},
		{XAdvance: 320},
	}
	if got := Width(glyphs); got != 960 {
		t.Errorf("Width = %d, want 960", got)
	}
}

package layout

import "github.com/afishhh/subrandr-sub000/textfont"

// GlyphString is a shaped run's glyph array plus enough bookkeeping to
// split it at a line-break point without reshaping whenever it's safe to
// do so, per spec §4.4. Grounded on the original's
// GlyphString/GlyphStringSegment (glyph_string.rs), but flattened: the
// original holds a linked list of (text, Rc<[Glyph]> storage, range)
// segments so a splice can share the backing glyph array across splits.
// Go has no borrow checker forcing that indirection, and spec §9 itself
// notes the list-of-segments design is only there for cheap splice and
// that a small vector is fine since segment counts are typically ≤3; a
// single flat slice is the simpler version of that same alternative.
type GlyphString struct {
	glyphs []textfont.Glyph
}

// NewGlyphString wraps an already-shaped glyph slice.
func NewGlyphString(glyphs []textfont.Glyph) GlyphString {
	return GlyphString{glyphs: glyphs}
}

func (g GlyphString) Glyphs() []textfont.Glyph { return g.glyphs }
func (g GlyphString) IsEmpty() bool            { return len(g.glyphs) == 0 }

// firstClusterAt returns the index of the first glyph belonging to the
// same cluster as glyphs[at], scanning backward.
func firstClusterAt(glyphs []textfont.Glyph, at int) int {
	cluster := glyphs[at].Cluster
	for at > 0 && glyphs[at-1].Cluster == cluster {
		at--
	}
	return at
}

// SplitSafelyNear splits the glyph string at the start of the cluster that
// contains glyph index want (no other boundary is searched), returning the
// glyphs that belong before the break and the glyphs that belong after it,
// without reshaping, mirroring break_until/break_after's success path.
//
// If that boundary is not safe to split at (the cluster's first glyph is
// flagged unsafe-to-break, or the glyph before it unsafe-to-concat), ok is
// false: the caller (break_at_if_less_or_eq's failure path) must reshape
// the two sides itself instead.
func (g GlyphString) SplitSafelyNear(want int) (before, after []textfont.Glyph, ok bool) {
	if want <= 0 {
		return nil, g.glyphs, true
	}
	if want >= len(g.glyphs) {
		return g.glyphs, nil, true
	}

	at := firstClusterAt(g.glyphs, want)
	if at == 0 {
		// The entire prefix up to want belongs to one cluster starting
		// at the beginning: nothing safe to split off before it.
		if g.glyphs[0].UnsafeToBreak {
			return nil, nil, false
		}
		return nil, g.glyphs, true
	}
	// Splitting right before glyph `at` is safe exactly when that glyph
	// isn't flagged unsafe-to-break and the glyph preceding it isn't
	// flagged unsafe-to-concat (toGlyphs sets both flags on every glyph of
	// a multi-glyph cluster).
	if g.glyphs[at].UnsafeToBreak || g.glyphs[at-1].UnsafeToConcat {
		return nil, nil, false
	}
	return g.glyphs[:at], g.glyphs[at:], true
}

// BreakAtIfLessOrEq implements break_at_if_less_or_eq: attempt a safe
// split at glyph index at; if no safe split point exists there (at falls
// on a cluster boundary an earlier/later reshape depends on), both
// halves are reshaped from scratch instead, exactly as the original
// falls back to reshaping the whole segment rather than risk splicing a
// cluster it can't prove is safe.
func (g GlyphString) BreakAtIfLessOrEq(at int, reshape func(lo, hi int) ([]textfont.Glyph, error)) (before, after []textfont.Glyph, err error) {
	if b, a, ok := g.SplitSafelyNear(at); ok {
		return b, a, nil
	}
	before, err = reshape(0, at)
	if err != nil {
		return nil, nil, err
	}
	after, err = reshape(at, len(g.glyphs))
	if err != nil {
		return nil, nil, err
	}
	return before, after, nil
}

// Width sums the glyph stream's x-advances, the conservation-of-advance
// quantity spec §8 tests (Σ line_widths == Σ shaped_item_widths).
func Width(glyphs []textfont.Glyph) int32 {
	var total int32
	for _, gl := range glyphs {
		total += gl.XAdvance.Raw()
	}
	return total
}

package layout

import (
	"github.com/afishhh/subrandr-sub000/fixedpoint"
	"github.com/afishhh/subrandr-sub000/textfont"
)

// Point2 is a 26.6 fixed-point 2D offset, used throughout the fragment
// tree for fragment positions relative to their parent.
type Point2 struct{ X, Y fixedpoint.I26Dot6 }

// TextFragment is one shaped, positioned run of glyphs within a line,
// matching spec §3's Fragment tree "Shaped item" leaf.
type TextFragment struct {
	Offset Point2
	Glyphs []textfont.Glyph
	Width  fixedpoint.I26Dot6
	RunIdx int
}

// RubyBaseFragment and RubyAnnotationFragment are the two halves of a
// RubyFragment, each itself a small run of text fragments (a base or
// annotation may, in principle, contain more than one run).
type RubyBaseFragment struct {
	Fragments []TextFragment
	Width     fixedpoint.I26Dot6
}

type RubyAnnotationFragment struct {
	Fragments []TextFragment
	Width     fixedpoint.I26Dot6
	// MaxAscender is the annotation run's tallest ascender, used to
	// position the annotation above the base per spec §8 seed test 3
	// ("annotation offset.y = -annotation_max_ascender").
	MaxAscender fixedpoint.I26Dot6
}

// RubyFragment stacks an annotation above its base, centered on the
// wider of the two, matching spec §3's Ruby fragment and seed test 3.
type RubyFragment struct {
	Base             RubyBaseFragment
	BaseOffset       Point2
	Annotation       RubyAnnotationFragment
	AnnotationOffset Point2
	Width            fixedpoint.I26Dot6
}

// ItemFragmentKind tags which concrete fragment an InlineItemFragment
// holds.
type ItemFragmentKind uint8

const (
	FragmentText ItemFragmentKind = iota
	FragmentRuby
)

// InlineItemFragment is one positioned element of a LineBoxFragment: a
// tagged union over the concrete fragment kinds a line may contain.
type InlineItemFragment struct {
	Kind   ItemFragmentKind
	Offset Point2
	Text   *TextFragment
	Ruby   *RubyFragment
}

// LineBoxFragment is one laid-out line: its constituent fragments in
// final (post-reorder) visual left-to-right order, plus the line's
// overall metrics.
type LineBoxFragment struct {
	Fragments []InlineItemFragment
	Width     fixedpoint.I26Dot6
	Ascender  fixedpoint.I26Dot6
	Descender fixedpoint.I26Dot6
	Height    fixedpoint.I26Dot6
}

// InlineContentFragment is the root of a laid-out paragraph's fragment
// tree: its lines, stacked top to bottom.
type InlineContentFragment struct {
	Lines []LineBoxFragment
}

// TotalWidth returns the widest line's width, the paragraph's overall
// inline-axis extent.
func (c *InlineContentFragment) TotalWidth() fixedpoint.I26Dot6 {
	var w fixedpoint.I26Dot6
	for _, l := range c.Lines {
		if l.Width > w {
			w = l.Width
		}
	}
	return w
}

// TotalHeight sums every line's height, the paragraph's block-axis
// extent.
func (c *InlineContentFragment) TotalHeight() fixedpoint.I26Dot6 {
	var h fixedpoint.I26Dot6
	for _, l := range c.Lines {
		h += l.Height
	}
	return h
}

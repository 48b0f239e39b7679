// Package layout implements inline layout (spec §4.4): shaping a run of
// styled text into a flat item AST, breaking it into lines, reordering
// bidi runs within each line, and emitting a fragment tree ready for the
// rasterizer.
//
// Grounded on the subrandr inline layout source
// (_examples/original_source/src/layout/inline.rs and its
// inline/glyph_string.rs sibling) for the AST shape and the
// break/reorder/fragment pipeline, and on gio's text/gotext.go
// (shapeAndWrapText, splitBidi, toLine, computeVisualOrder) for the
// go-text/typesetting wiring: shaping.HarfbuzzShaper,
// shaping.LineWrapper and golang.org/x/text/unicode/bidi.Paragraph.
package layout

import "github.com/afishhh/subrandr-sub000/fixedpoint"

// ItemKind tags one InlineItem, matching spec §3's Inline AST ("Span" with
// kind in {Span, Ruby, RubyInternal}).
type ItemKind uint8

const (
	// KindText marks the item as a plain text run rather than a span.
	KindText ItemKind = iota
	// KindSpan is a plain styled span with no special semantics.
	KindSpan
	// KindRuby is a ruby annotation container; its direct children are
	// RubyInternal spans, and ContentIndex points at the item carrying
	// the anchoring OBJECT REPLACEMENT CHARACTER in the flattened text.
	KindRuby
	// KindRubyInternal marks one base/annotation run inside a Ruby span:
	// even RunIndex slots are bases, odd slots are annotations, pairing
	// left to right (spec §3's Ruby invariant: an even number of
	// RubyInternal children).
	KindRubyInternal
)

// TextRange is a half-open range of rune indices into a paragraph's
// flattened text buffer.
type TextRange struct{ Start, End int }

func (r TextRange) Len() int { return r.End - r.Start }

// Style is the subset of computed style this package needs to lay text
// out: font selection and size are resolved externally (spec §6's "font
// capability", a consumed interface) and passed in already matched, since
// style computation and cascade resolution are out of this package's
// scope (spec §1 Non-goals).
type Style struct {
	FontSize    fixedpoint.I26Dot6
	LetterSpace fixedpoint.I26Dot6
}

// Item is one entry of the flat inline AST (spec §3's Inline AST), a flat
// array rather than the original's tree of Rc-linked nodes: spans that
// open are pushed here with their Length counting the number of items the
// span covers (mirroring how the original's InlineSpan carries a child
// count rather than owned children), so the AST can be walked with a
// plain index instead of pointer chasing.
type Item struct {
	Kind ItemKind

	// Text fields (KindText only).
	ContentRange TextRange
	RunIndex     int

	// Span fields (KindSpan, KindRuby, KindRubyInternal).
	Style  Style
	Length int // number of items, including this one, that this span covers

	// KindRuby only: index of the Item (of KindText) anchoring this ruby
	// group's OBJECT REPLACEMENT CHARACTER in the flattened text.
	ContentIndex int

	// KindRubyInternal only: RunIndex selects base (even) vs annotation
	// (odd) within the parent Ruby's children, in left-to-right order;
	// OuterStyle is the Ruby span's own style, inherited for layout
	// purposes the original computes via parent-pointer lookup.
	OuterStyle Style
}

// ObjectReplacementCharacter anchors a Ruby span's position within the
// flattened paragraph text, per spec §3.
const ObjectReplacementCharacter = '￼'

// Content is a fully-built flat inline AST plus the paragraph text it
// indexes into, ready for Layout.
type Content struct {
	Text  []rune
	Items []Item
}

// Builder assembles a Content incrementally, mirroring the original's
// InlineContentBuilder/InlineSpanBuilder/InlineRubyBuilder: spans are
// opened and later closed, and Length is back-patched at close time once
// the number of covered items is known.
type Builder struct {
	text  []rune
	items []Item

	// openSpans holds the index into items of each currently-open span,
	// innermost last.
	openSpans []int
}

// PushText appends a text run, recording its rune range in the shared
// text buffer and the logical run it belongs to (spec §3's Text{
// content_range, run_index }).
func (b *Builder) PushText(text []rune, runIndex int) {
	start := len(b.text)
	b.text = append(b.text, text...)
	b.items = append(b.items, Item{
		Kind:         KindText,
		ContentRange: TextRange{start, len(b.text)},
		RunIndex:     runIndex,
	})
}

// OpenSpan begins a plain styled span; it must be matched by CloseSpan.
func (b *Builder) OpenSpan(style Style) {
	b.openSpans = append(b.openSpans, len(b.items))
	b.items = append(b.items, Item{Kind: KindSpan, Style: style})
}

// CloseSpan closes the innermost open span, back-patching its Length to
// cover every item pushed since it was opened (itself included).
func (b *Builder) CloseSpan() {
	n := len(b.openSpans)
	idx := b.openSpans[n-1]
	b.openSpans = b.openSpans[:n-1]
	b.items[idx].Length = len(b.items) - idx
}

// OpenRuby begins a ruby group. contentIndex must name the KindText item
// (pushed separately, typically carrying a single
// ObjectReplacementCharacter rune) this group anchors to.
func (b *Builder) OpenRuby(style Style, contentIndex int) {
	b.openSpans = append(b.openSpans, len(b.items))
	b.items = append(b.items, Item{Kind: KindRuby, Style: style, ContentIndex: contentIndex})
}

// CloseRuby closes the innermost open ruby group the same way CloseSpan
// does for plain spans.
func (b *Builder) CloseRuby() { b.CloseSpan() }

// PushRubyRun appends one base (runIndex even within the enclosing ruby,
// counting from 0) or annotation (odd) run as a KindRubyInternal span
// wrapping a single text item. style is the run's own style (annotations
// are typically set in a smaller size than outer); outer is the
// enclosing Ruby span's style, carried for vertical-metrics purposes
// (spec §9's ruby half-leading note).
func (b *Builder) PushRubyRun(style, outer Style, runIndex int, text []rune, textRunIndex int) {
	start := len(b.items)
	b.items = append(b.items, Item{Kind: KindRubyInternal, Style: style, OuterStyle: outer, RunIndex: runIndex})
	b.PushText(text, textRunIndex)
	b.items[start].Length = len(b.items) - start
}

// Build finalizes the content. It panics if any OpenSpan/OpenRuby call
// was left unmatched, the same programmer-error contract the original's
// builder enforces via its Drop impl asserting an empty stack.
func (b *Builder) Build() Content {
	if len(b.openSpans) != 0 {
		panic("layout: Builder.Build called with unclosed spans")
	}
	return Content{Text: b.text, Items: b.items}
}

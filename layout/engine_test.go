package layout

import (
	"testing"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/shaping"
)

func TestVisualOrderLTRLineKeepsLogicalOrder(t *testing.T) {
	runs := []layoutRun{
		{direction: di.DirectionLTR},
		{direction: di.DirectionLTR},
		{direction: di.DirectionLTR},
	}
	order := visualOrder(runs, di.DirectionLTR)
	want := []int{0, 1, 2}
	for i, v := range want {
		if order[i] != v {
			t.Errorf("order[%d] = %d, want %d", i, order[i], v)
		}
	}
}

// A single embedded RTL run inside an LTR line reverses just that run's
// position among its neighbours (spec §8 seed test 4's bidi reorder).
func TestVisualOrderReversesEmbeddedOppositeDirectionRun(t *testing.T) {
	runs := []layoutRun{
		{direction: di.DirectionLTR},
		{direction: di.DirectionRTL},
		{direction: di.DirectionRTL},
		{direction: di.DirectionLTR},
	}
	order := visualOrder(runs, di.DirectionLTR)
	want := []int{0, 2, 1, 3}
	for i, v := range want {
		if order[i] != v {
			t.Errorf("order[%d] = %d, want %d", i, order[i], v)
		}
	}
}

func TestBuildLineFragmentSumsWidthsInVisualOrder(t *testing.T) {
	line := shaping.Line{
		{Direction: di.DirectionLTR, Advance: 100},
		{Direction: di.DirectionLTR, Advance: 50},
	}
	lb := buildLineFragment(line, di.DirectionLTR)
	if lb.Width != 150 {
		t.Errorf("line width = %v, want 150", lb.Width.Raw())
	}
	if len(lb.Fragments) != 2 {
		t.Fatalf("got %d fragments, want 2", len(lb.Fragments))
	}
	if lb.Fragments[0].Text.Offset.X != 0 {
		t.Errorf("first fragment offset = %v, want 0", lb.Fragments[0].Text.Offset.X.Raw())
	}
	if lb.Fragments[1].Text.Offset.X != 100 {
		t.Errorf("second fragment offset = %v, want 100", lb.Fragments[1].Text.Offset.X.Raw())
	}
}

func TestInlineContentFragmentTotalsAcrossLines(t *testing.T) {
	c := InlineContentFragment{Lines: []LineBoxFragment{
		{Width: 100, Height: 20},
		{Width: 80, Height: 18},
	}}
	if c.TotalWidth() != 100 {
		t.Errorf("TotalWidth = %v, want 100", c.TotalWidth().Raw())
	}
	if c.TotalHeight() != 38 {
		t.Errorf("TotalHeight = %v, want 38", c.TotalHeight().Raw())
	}
}

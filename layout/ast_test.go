package layout

import "testing"

func TestBuilderPlainSpanLengthCoversPushedItems(t *testing.T) {
	var b Builder
	b.OpenSpan(Style{})
	b.PushText([]rune("hello"), 0)
	b.PushText([]rune(" world"), 0)
	b.CloseSpan()
	content := b.Build()

	if len(content.Items) != 3 {
		t.Fatalf("got %d items, want 3 (span + 2 text)", len(content.Items))
	}
	span := content.Items[0]
	if span.Kind != KindSpan {
		t.Fatalf("items[0].Kind = %v, want KindSpan", span.Kind)
	}
	if span.Length != 3 {
		t.Errorf("span.Length = %d, want 3 (itself + 2 text items)", span.Length)
	}
	if string(content.Text) != "hello world" {
		t.Errorf("content.Text = %q, want %q", string(content.Text), "hello world")
	}
}

func TestBuilderNestedSpansBackpatchIndependently(t *testing.T) {
	var b Builder
	b.OpenSpan(Style{})
	b.PushText([]rune("a"), 0)
	b.OpenSpan(Style{})
	b.PushText([]rune("b"), 0)
	b.CloseSpan()
	b.PushText([]rune("c"), 0)
	b.CloseSpan()
	content := b.Build()

	outer := content.Items[0]
	inner := content.Items[2]
	if outer.Length != 5 {
		t.Errorf("outer.Length = %d, want 5", outer.Length)
	}
	if inner.Length != 2 {
		t.Errorf("inner.Length = %d, want 2", inner.Length)
	}
}

func TestBuilderRubyGroupHasEvenRubyInternalChildren(t *testing.T) {
	var b Builder
	b.PushText([]rune{ObjectReplacementCharacter}, 0)
	b.OpenRuby(Style{}, 0)
	b.PushRubyRun(Style{}, Style{}, 0, []rune("base"), 1)
	b.PushRubyRun(Style{}, Style{}, 1, []rune("a"), 2)
	b.CloseRuby()
	content := b.Build()

	// items: [0]=anchor text, [1]=ruby, [2]=rubyinternal(base), [3]=text(base),
	// [4]=rubyinternal(annotation), [5]=text(annotation)
	if len(content.Items) != 6 {
		t.Fatalf("got %d items, want 6", len(content.Items))
	}
	ruby := content.Items[1]
	if ruby.Kind != KindRuby {
		t.Fatalf("items[1].Kind = %v, want KindRuby", ruby.Kind)
	}
	internalCount := 0
	for i := 2; i < 1+ruby.Length; i++ {
		if content.Items[i].Kind == KindRubyInternal {
			internalCount++
		}
	}
	if internalCount%2 != 0 {
		t.Errorf("ruby group has %d RubyInternal children, want an even number", internalCount)
	}
	if internalCount != 2 {
		t.Errorf("ruby group has %d RubyInternal children, want 2", internalCount)
	}
}

func TestBuilderBuildPanicsOnUnclosedSpan(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Build to panic on an unclosed span")
		}
	}()
	var b Builder
	b.OpenSpan(Style{})
	b.Build()
}

package btreemap

import "testing"

type intSum int

func (s intSum) Combine(key int, _ struct{}) Metadata[int, struct{}] {
	return s + intSum(key)
}

func intLess(a, b int) bool { return a < b }

func TestOrderedInsertAndKeys(t *testing.T) {
	m := New[int, struct{}](intLess, NoMetadata[int, struct{}]{})
	for _, k := range []int{128, 54, 256, 2048, -119, 44, 68} {
		m.Insert(k, struct{}{})
	}
	want := []int{-119, 44, 54, 68, 128, 256, 2048}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestExclusiveUpperBound(t *testing.T) {
	m := New[int, struct{}](intLess, NoMetadata[int, struct{}]{})
	m.Insert(128, struct{}{})
	m.Insert(54, struct{}{})
	m.Insert(256, struct{}{})

	if _, _, _, ok := m.ExclusiveUpperBound(54); ok {
		t.Errorf("expected no bound below the minimum key")
	}
	k, _, _, ok := m.ExclusiveUpperBound(128)
	if !ok || k != 54 {
		t.Errorf("ExclusiveUpperBound(128) key = %v, ok=%v, want 54", k, ok)
	}
	k, _, _, ok = m.ExclusiveUpperBound(129)
	if !ok || k != 128 {
		t.Errorf("ExclusiveUpperBound(129) key = %v, ok=%v, want 128", k, ok)
	}
}

func TestSumMetadataPrefix(t *testing.T) {
	m := New[int, struct{}](intLess, intSum(0))
	for _, k := range []int{128, 54, 256, 2048, -119, 44, 68} {
		m.Insert(k, struct{}{})
	}
	_, _, meta, ok := m.ExclusiveUpperBound(2049)
	if !ok {
		t.Fatal("expected a bound")
	}
	want := intSum(128 + 54 + 256 + 44 + 68 - 119 + 2048)
	if meta != want {
		t.Errorf("sum metadata = %v, want %v", meta, want)
	}
}

func TestInclusiveUpperBoundIncludesEqualKey(t *testing.T) {
	m := New[int, string](intLess, NoMetadata[int, string]{})
	m.Insert(128, "one hundred twenty-eight")
	m.Insert(54, "fifty-four")

	_, v, _, ok := m.InclusiveUpperBound(128)
	if !ok || v != "one hundred twenty-eight" {
		t.Errorf("InclusiveUpperBound(128) = %q, ok=%v", v, ok)
	}
	_, v, _, ok = m.ExclusiveUpperBound(128)
	if !ok || v != "fifty-four" {
		t.Errorf("ExclusiveUpperBound(128) = %q, ok=%v", v, ok)
	}
}

func TestRemove(t *testing.T) {
	m := New[int, struct{}](intLess, NoMetadata[int, struct{}]{})
	for _, k := range []int{1, 2, 3, 4, 5} {
		m.Insert(k, struct{}{})
	}
	if _, ok := m.Remove(3); !ok {
		t.Fatal("expected removal to succeed")
	}
	want := []int{1, 2, 4, 5}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

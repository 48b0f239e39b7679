package fixedpoint

import "testing"

func TestI26Dot6RoundTrip(t *testing.T) {
	for _, x := range []float32{0, 1, -1, 0.5, 3.25, -7.75, 100.015625} {
		got := I26Dot6FromFloat32(x).ToFloat32()
		if diff := got - x; diff > 1.0/64 || diff < -1.0/64 {
			t.Errorf("I26Dot6FromFloat32(%v).ToFloat32() = %v, want within 1/64", x, got)
		}
	}
}

func TestI26Dot6FloorCeilRound(t *testing.T) {
	v := I26Dot6FromFloat32(3.25)
	if got := v.Floor().ToFloat32(); got != 3 {
		t.Errorf("Floor() = %v, want 3", got)
	}
	if got := v.Ceil().ToFloat32(); got != 4 {
		t.Errorf("Ceil() = %v, want 4", got)
	}
	if got := v.Round().ToFloat32(); got != 3 {
		t.Errorf("Round() = %v, want 3", got)
	}
}

func TestU2Dot14Clamp(t *testing.T) {
	if got := U2Dot14FromI16Dot16(I16Dot16FromInt(-5)); got != 0 {
		t.Errorf("negative clamps to 0, got %v", got)
	}
	if got := U2Dot14FromI16Dot16(I16Dot16FromInt(10)); got != MaxU2Dot14 {
		t.Errorf("overflow clamps to MaxU2Dot14, got %v", got)
	}
	mid := U2Dot14FromI16Dot16(I16Dot16FromInt(2))
	if got := mid.ToFloat32(); got != 2 {
		t.Errorf("U2Dot14(2.0).ToFloat32() = %v, want 2", got)
	}
}

func TestI16Dot16MulDiv(t *testing.T) {
	a := I16Dot16FromFloat32(2.5)
	b := I16Dot16FromFloat32(4)
	if got := a.Mul(b).ToFloat32(); got != 10 {
		t.Errorf("2.5*4 = %v, want 10", got)
	}
	if got := b.Div(a).ToFloat32(); got < 1.599 || got > 1.601 {
		t.Errorf("4/2.5 = %v, want ~1.6", got)
	}
}

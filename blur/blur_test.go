package blur

import "testing"

func TestSigmaToBoxRadiusZero(t *testing.T) {
	if r := SigmaToBoxRadius(0); r != 0 {
		t.Errorf("radius for sigma=0 = %d, want 0", r)
	}
}

func TestSigmaToBoxRadiusGrowsWithSigma(t *testing.T) {
	prev := 0
	for _, sigma := range []float32{0.5, 1, 2, 4, 8} {
		r := SigmaToBoxRadius(sigma)
		if r < prev {
			t.Errorf("radius(%v) = %d < previous radius %d", sigma, r, prev)
		}
		prev = r
	}
}

// A solid block blurred with sigma=0 (radius 0) must be unchanged, matching
// the spec's "blur with sigma=0.0 equals unblurred pixels" requirement.
func TestBlurZeroSigmaIsIdentity(t *testing.T) {
	p := Prepare(4, 4, 0)
	if p.Padding() != 0 {
		t.Fatalf("padding = %d, want 0", p.Padding())
	}
	src := []byte{
		0, 255, 255, 0,
		0, 255, 255, 0,
		0, 255, 255, 0,
		0, 255, 255, 0,
	}
	p.BlitMono8(0, 0, src, 4, 4)
	p.BoxBlurHorizontal()
	p.BoxBlurHorizontal()
	p.BoxBlurHorizontal()
	p.BoxBlurVertical()
	p.BoxBlurVertical()
	p.BoxBlurVertical()

	out := p.ToMono8()
	for i, v := range out {
		if v != src[i] {
			t.Errorf("pixel %d = %d, want %d (identity blur)", i, v, src[i])
		}
	}
}

// A blurred single bright pixel must spread energy to its neighbours
// without exceeding the original maximum.
func TestBlurSpreadsAndDoesNotExceedMax(t *testing.T) {
	const n = 9
	p := Prepare(n, n, 2.0)
	src := make([]byte, n*n)
	src[(n/2)*n+n/2] = 255
	p.BlitMono8(0, 0, src, n, n)
	p.BoxBlurHorizontal()
	p.BoxBlurHorizontal()
	p.BoxBlurHorizontal()
	p.BoxBlurVertical()
	p.BoxBlurVertical()
	p.BoxBlurVertical()

	out := p.ToMono8()
	pad := p.Padding()
	if pad == 0 {
		t.Fatal("expected nonzero padding for sigma=2.0")
	}
	center := (pad+n/2)*p.Width() + pad + n/2
	if out[center] == 0 {
		t.Error("center pixel lost all coverage after blur")
	}
	if out[center] >= 255 {
		t.Error("center pixel did not lose any energy to its neighbours")
	}

	neighbour := (pad+n/2)*p.Width() + pad + n/2 + 1
	if out[neighbour] == 0 {
		t.Error("blur did not spread coverage to a neighbouring pixel")
	}
	for _, v := range out {
		if v > 255 {
			t.Fatalf("pixel value %d exceeds original maximum", v)
		}
	}
}

func TestBlitBGRA8UsesAlphaChannel(t *testing.T) {
	p := Prepare(2, 1, 0)
	src := []byte{
		10, 20, 30, 255,
		10, 20, 30, 128,
	}
	p.BlitBGRA8(0, 0, src, 2, 1)
	out := p.ToMono8()
	if out[0] != 255 {
		t.Errorf("pixel 0 alpha = %d, want 255", out[0])
	}
	if out[1] != 128 {
		t.Errorf("pixel 1 alpha = %d, want 128", out[1])
	}
}

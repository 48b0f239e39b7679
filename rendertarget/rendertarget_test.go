package rendertarget

import "testing"

func TestFillAxisAlignedRect(t *testing.T) {
	buf := make([]BGRA8, 4*4)
	target, err := NewBGRA(buf, 4, 4, 4)
	if err != nil {
		t.Fatalf("NewBGRA: %v", err)
	}
	red := BGRA8{R: 255, A: 255}
	target.FillAxisAlignedRect(Rect{Point{1, 1}, Point{3, 3}}, red)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			inside := x >= 1 && x < 3 && y >= 1 && y < 3
			got := buf[y*4+x]
			if inside && got != red {
				t.Errorf("(%d,%d) = %+v, want %+v", x, y, got, red)
			}
			if !inside && got != (BGRA8{}) {
				t.Errorf("(%d,%d) = %+v, want zero value", x, y, got)
			}
		}
	}
}

func TestFillTriangleCoversCentroid(t *testing.T) {
	buf := make([]BGRA8, 10*10)
	target, err := NewBGRA(buf, 10, 10, 10)
	if err != nil {
		t.Fatalf("NewBGRA: %v", err)
	}
	green := BGRA8{G: 255, A: 255}
	target.FillTriangle([3]Point{{0, 0}, {9, 0}, {0, 9}}, green)

	if buf[1*10+1] != green {
		t.Errorf("expected centroid-ish point inside the triangle to be filled")
	}
	if buf[9*10+9] != (BGRA8{}) {
		t.Errorf("expected far corner outside the triangle to be untouched")
	}
}

func TestBlitMonoTintsWithColor(t *testing.T) {
	buf := make([]BGRA8, 2*2)
	target, err := NewBGRA(buf, 2, 2, 2)
	if err != nil {
		t.Fatalf("NewBGRA: %v", err)
	}
	tex := CreateTextureMapped(2, 2, Mono, func(dst []byte, stride int) {
		for i := range dst {
			dst[i] = 255
		}
	})
	blue := BGRA8{B: 255, A: 128}
	target.Blit(0, 0, tex, blue)

	if buf[0].B == 0 {
		t.Errorf("expected blue channel to be tinted, got %+v", buf[0])
	}
	if buf[0].A == 0 {
		t.Errorf("expected nonzero alpha after blit, got %+v", buf[0])
	}
}

func TestBlurRoundTripPreservesApproximateEnergy(t *testing.T) {
	var b Blurer
	b.BlurPrepare(5, 5, 1.0)
	tex := CreateTextureMapped(5, 5, Mono, func(dst []byte, stride int) {
		dst[2*5+2] = 255
	})
	pad := mustPadding(t, &b)
	if err := b.BlurBufferBlit(0, 0, tex); err != nil {
		t.Fatalf("BlurBufferBlit: %v", err)
	}
	out, err := b.BlurToMonoTexture()
	if err != nil {
		t.Fatalf("BlurToMonoTexture: %v", err)
	}

	var total int
	for _, v := range out.mono {
		total += int(v)
	}
	if total == 0 {
		t.Fatal("expected nonzero total coverage after blur")
	}
	center := out.mono[(2+int(pad.X))*int(out.Width)+(2+int(pad.X))]
	if int(center) >= 255 {
		t.Errorf("expected the center pixel to have spread some energy to its neighbours, got %d", center)
	}
}

func mustPadding(t *testing.T, b *Blurer) Point {
	t.Helper()
	p, err := b.BlurPadding()
	if err != nil {
		t.Fatalf("BlurPadding: %v", err)
	}
	return p
}

func TestBlurMethodsReportInactiveBeforePrepare(t *testing.T) {
	var b Blurer
	tex := CreateTextureMapped(2, 2, Mono, func(dst []byte, stride int) {})
	if err := b.BlurBufferBlit(0, 0, tex); err == nil {
		t.Error("expected BlurBufferBlit to report inactive before BlurPrepare")
	}
	if _, err := b.BlurPadding(); err == nil {
		t.Error("expected BlurPadding to report inactive before BlurPrepare")
	}
	if _, err := b.BlurToMonoTexture(); err == nil {
		t.Error("expected BlurToMonoTexture to report inactive before BlurPrepare")
	}
}

func TestFinalizeTextureRenderRoundTrips(t *testing.T) {
	target := CreateMonoTextureRendered(3, 3)
	target.mono[4] = 200
	tex, err := FinalizeTextureRender(target)
	if err != nil {
		t.Fatalf("FinalizeTextureRender: %v", err)
	}
	if tex.Width != 3 || tex.Height != 3 {
		t.Fatalf("unexpected texture size %dx%d", tex.Width, tex.Height)
	}
	if tex.mono[4] != 200 {
		t.Errorf("expected pixel data to carry over, got %d", tex.mono[4])
	}
}

func TestNewBGRARejectsTooSmallBuffer(t *testing.T) {
	if _, err := NewBGRA(make([]BGRA8, 2), 4, 4, 4); err == nil {
		t.Error("expected NewBGRA to reject a too-small buffer")
	}
}

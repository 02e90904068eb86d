package postprocess

import (
	"image"
	"image/color"
	"testing"
)

func TestDownsampleSolid(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	dst := Downsample(src, 4, 2)
	if b := dst.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("size got=%v want=4x2", b)
	}
	got := dst.NRGBAAt(1, 1)
	if got.R < 198 || got.R > 202 || got.A != 255 {
		t.Fatalf("pixel got=%v want≈{200 100 50 255}", got)
	}
}

func TestDownsampleNoop(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	if Downsample(src, 4, 4) != src {
		t.Fatalf("same-size image should be returned unchanged")
	}
}

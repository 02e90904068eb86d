package texture

import (
	"image"
	"image/color"
	"math"
	"math/rand"
)

// Checker returns a size×size checkerboard with cells pixels per square.
func Checker(size, cells int, a, b color.NRGBA) *image.NRGBA {
	if cells < 1 {
		cells = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/cells+y/cells)%2 == 1 {
				c = b
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// Ground is the default ground plane texture.
func Ground() *image.NRGBA {
	return Checker(64, 8, color.NRGBA{R: 86, G: 110, B: 64, A: 255}, color.NRGBA{R: 74, G: 96, B: 56, A: 255})
}

// Bark draws vertical streaks of brown. Deterministic for a given seed.
func Bark(size int, seed int64) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	cols := make([]float64, size)
	for x := range cols {
		cols[x] = 0.75 + 0.25*rng.Float64()
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			ring := 0.9 + 0.1*math.Sin(float64(y)*0.35+float64(x)*0.05)
			k := cols[x] * ring
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(110 * k),
				G: uint8(78 * k),
				B: uint8(52 * k),
				A: 255,
			})
		}
	}
	return img
}

// Leaf draws an elliptical leaf on a transparent background, suitable
// for alpha cutout.
func Leaf(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float64(x) - c) / (c * 0.55)
			dy := (float64(y) - c) / c
			if dx*dx+dy*dy > 1 {
				continue
			}
			vein := 1.0
			if math.Abs(float64(x)-c) < 0.6 {
				vein = 0.8
			}
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(60 * vein),
				G: uint8((140 + 40*(1-math.Abs(dy))) * vein),
				B: uint8(50 * vein),
				A: 255,
			})
		}
	}
	return img
}

package raster

import (
	"image"
	"image/color"
	"math"
)

// ScreenVertex is a projected vertex: pixel coordinates, depth (larger
// is closer) and texture coordinates.
type ScreenVertex struct {
	X, Y, Z float64
	U, V    float64
}

// RasterizeTriangle fills one flat-shaded triangle with texture mapping,
// z-buffer, sRGB decode and ACES tone mapping. tex may be nil, in which
// case base is used for every pixel.
//
// This is the hot path; the pixel loop does not allocate.
func RasterizeTriangle(
	fb *FrameBuffer,
	v [3]ScreenVertex,
	tex *image.NRGBA,
	base color.NRGBA,
	shade float64,
	lc *LightConfig,
) {
	x0, y0, z0 := v[0].X, v[0].Y, v[0].Z
	x1, y1, z1 := v[1].X, v[1].Y, v[1].Z
	x2, y2, z2 := v[2].X, v[2].Y, v[2].Z

	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))
	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	scale := shade * lc.Exposure
	invGamma := lc.InvGamma

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			cr, cg, cb, ca := base.R, base.G, base.B, base.A
			if tex != nil {
				u := w0*v[0].U + w1*v[1].U + w2*v[2].U
				t := w0*v[0].V + w1*v[1].V + w2*v[2].V
				cr, cg, cb, ca = SampleTexture(tex, u, t)
			}
			// Cutout: leaves and other alpha-tested textures.
			if ca < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = toneMap(srgbToLinear[cr]*scale, invGamma)
			fb.Color[pxIdx+1] = toneMap(srgbToLinear[cg]*scale, invGamma)
			fb.Color[pxIdx+2] = toneMap(srgbToLinear[cb]*scale, invGamma)
			fb.Color[pxIdx+3] = 255
		}
	}
}

// RasterizeLine draws a depth-tested line of the given pixel width.
func RasterizeLine(fb *FrameBuffer, a, b ScreenVertex, c color.NRGBA, width int) {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps < 1 {
		steps = 1
	}
	// Lines sit slightly in front of coplanar triangles.
	const bias = 1e-4
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := a.X + dx*t
		y := a.Y + dy*t
		z := a.Z + (b.Z-a.Z)*t + bias
		fillSquare(fb, x, y, z, c, width)
	}
}

// RasterizePoint draws a depth-tested square point.
func RasterizePoint(fb *FrameBuffer, p ScreenVertex, c color.NRGBA, size int) {
	fillSquare(fb, p.X, p.Y, p.Z+1e-4, c, size)
}

func fillSquare(fb *FrameBuffer, x, y, z float64, c color.NRGBA, size int) {
	if size < 1 {
		size = 1
	}
	x0 := int(math.Floor(x)) - (size-1)/2
	y0 := int(math.Floor(y)) - (size-1)/2
	for py := y0; py < y0+size; py++ {
		for px := x0; px < x0+size; px++ {
			fb.plot(px, py, z, c)
		}
	}
}

func toneMap(linear, invGamma float64) uint8 {
	return clamp255(math.Pow(ACESTonemap(linear), invGamma) * 255)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

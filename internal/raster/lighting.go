package raster

import (
	"math"

	"skeleton-renderer/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters. Directions point
// from the surface towards the light, in world space with +Y up.
type LightConfig struct {
	LightDir  mathutil.Vec3
	RimDir    mathutil.Vec3
	ViewDir   mathutil.Vec3
	HalfMain  mathutil.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient   float64
	Hemi      float64
	Direct    float64
	Rim       float64
	SpecInt   float64
	SpecPow   float64
	Exposure  float64
	SRGBGamma float64
	InvGamma  float64
}

// DefaultLightConfig is a warm key light from above right with a cool
// rim from behind.
func DefaultLightConfig() LightConfig {
	lightDir := mathutil.Vec3{0.45, 0.8, 0.35}.Normalize()
	rimDir := mathutil.Vec3{-0.4, 0.3, -0.55}.Normalize()
	viewDir := mathutil.Vec3{0, 0.3, 1}.Normalize()

	return LightConfig{
		LightDir:  lightDir,
		RimDir:    rimDir,
		ViewDir:   viewDir,
		HalfMain:  lightDir.Add(viewDir).Normalize(),
		Ambient:   0.35,
		Hemi:      0.30,
		Direct:    0.90,
		Rim:       0.25,
		SpecInt:   0.15,
		SpecPow:   16.0,
		Exposure:  1.0,
		SRGBGamma: 2.2,
		InvGamma:  1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a face normal.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	// Lambertian (abs for double-sided)
	ndlMain := math.Abs(normal.Dot(lc.LightDir))
	ndlRim := math.Abs(normal.Dot(lc.RimDir))

	// Sky from above, ground bounce from below.
	hemi := normal[1]*0.5 + 0.5
	hemiLight := hemi * lc.Hemi

	ndh := math.Abs(normal.Dot(lc.HalfMain))
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemiLight + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

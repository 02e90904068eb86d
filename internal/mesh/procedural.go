package mesh

import (
	"math"
	"math/rand"
)

// Cylinder builds an open tube around +Y from y=0 to y=height. Rings
// are evenly spaced so that skinning bands cut it cleanly.
func Cylinder(radius, height float32, radial, rings int) *Mesh {
	if radial < 3 {
		radial = 3
	}
	if rings < 1 {
		rings = 1
	}
	m := &Mesh{Name: "trunk"}
	for r := 0; r <= rings; r++ {
		v := float32(r) / float32(rings)
		y := v * height
		for s := 0; s <= radial; s++ {
			u := float32(s) / float32(radial)
			a := float64(u) * 2 * math.Pi
			c, sn := float32(math.Cos(a)), float32(math.Sin(a))
			m.Positions = append(m.Positions, [3]float32{radius * c, y, radius * sn})
			m.Normals = append(m.Normals, [3]float32{c, 0, sn})
			m.UVs = append(m.UVs, [2]float32{u, 1 - v})
		}
	}
	stride := uint32(radial + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < radial; s++ {
			a := uint32(r)*stride + uint32(s)
			b := a + stride
			m.Indices = append(m.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return m
}

// Plane builds a size×size square on y=0 centred on the origin. The
// texture repeats `repeat` times along each side.
func Plane(size, repeat float32) *Mesh {
	h := size / 2
	return &Mesh{
		Name:      "ground",
		Positions: [][3]float32{{-h, 0, -h}, {h, 0, -h}, {h, 0, h}, {-h, 0, h}},
		Normals:   [][3]float32{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
		UVs:       [][2]float32{{0, 0}, {repeat, 0}, {repeat, repeat}, {0, repeat}},
		Indices:   []uint32{0, 2, 1, 0, 3, 2},
	}
}

// FoliageOptions controls Foliage.
type FoliageOptions struct {
	Count  int
	Seed   int64
	Radius float32 // horizontal spread around the Y axis
	MinY   float32
	MaxY   float32
	Size   float32 // leaf quad edge
}

// Foliage scatters randomly oriented leaf quads. The same options give
// the same mesh.
func Foliage(o FoliageOptions) *Mesh {
	rng := rand.New(rand.NewSource(o.Seed))
	m := &Mesh{Name: "foliage"}
	for i := 0; i < o.Count; i++ {
		a := rng.Float64() * 2 * math.Pi
		r := float64(o.Radius) * math.Sqrt(rng.Float64())
		cx := float32(r * math.Cos(a))
		cz := float32(r * math.Sin(a))
		cy := o.MinY + rng.Float32()*(o.MaxY-o.MinY)

		yaw := rng.Float64() * 2 * math.Pi
		tilt := (rng.Float64() - 0.5) * math.Pi / 2
		// quad spanned by right (horizontal) and up (tilted) vectors
		right := [3]float32{float32(math.Cos(yaw)), 0, float32(math.Sin(yaw))}
		up := [3]float32{
			float32(-math.Sin(tilt) * math.Sin(yaw)),
			float32(math.Cos(tilt)),
			float32(math.Sin(tilt) * math.Cos(yaw)),
		}
		n := cross(right, up)
		h := o.Size / 2

		base := uint32(len(m.Positions))
		for _, c := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			m.Positions = append(m.Positions, [3]float32{
				cx + (right[0]*c[0]+up[0]*c[1])*h,
				cy + (right[1]*c[0]+up[1]*c[1])*h,
				cz + (right[2]*c[0]+up[2]*c[1])*h,
			})
			m.Normals = append(m.Normals, n)
			m.UVs = append(m.UVs, [2]float32{(c[0] + 1) / 2, (1 - c[1]) / 2})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

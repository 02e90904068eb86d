// Package mesh holds indexed triangle meshes: procedural generators for
// the default scene, glTF import and rigged glTF export.
package mesh

import (
	"image"
	"image/color"
	"math"

	"skeleton-renderer/internal/gfx"
)

// Mesh is an indexed triangle list. Normals and UVs, when present, are
// parallel to Positions.
type Mesh struct {
	Name      string
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indices   []uint32
}

// Bounds returns the axis-aligned min and max corners.
func (m *Mesh) Bounds() (lo, hi [3]float32) {
	if len(m.Positions) == 0 {
		return
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = float32(math.Min(float64(lo[k]), float64(p[k])))
			hi[k] = float32(math.Max(float64(hi[k]), float64(p[k])))
		}
	}
	return lo, hi
}

// Append merges o into m, rebasing o's indices.
func (m *Mesh) Append(o *Mesh) {
	base := uint32(len(m.Positions))
	m.Normals = padTo(m.Normals, len(m.Positions))
	m.UVs = padTo(m.UVs, len(m.Positions))
	m.Positions = append(m.Positions, o.Positions...)
	m.Normals = append(m.Normals, padTo(o.Normals, len(o.Positions))...)
	m.UVs = append(m.UVs, padTo(o.UVs, len(o.Positions))...)
	for _, i := range o.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

// Drawable wraps the mesh for a renderer. The vertex slices are shared,
// not copied.
func (m *Mesh) Drawable(tex *image.NRGBA, c color.NRGBA) *gfx.Drawable {
	return &gfx.Drawable{
		Name:      m.Name,
		Topology:  gfx.Triangles,
		Positions: m.Positions,
		Normals:   m.Normals,
		UVs:       m.UVs,
		Indices:   m.Indices,
		Texture:   tex,
		Color:     c,
	}
}

func padTo[T any](s []T, n int) []T {
	for len(s) < n {
		var zero T
		s = append(s, zero)
	}
	return s
}

// Package raster is a software implementation of gfx.Renderer: a vertex
// stage with optional rigid skinning, and a z-buffered rasterizer for
// triangles, lines and points.
package raster

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"skeleton-renderer/internal/gfx"
	"skeleton-renderer/internal/mathutil"
)

var _ gfx.Renderer = (*Renderer)(nil)

// Renderer draws into a FrameBuffer. It is not safe for concurrent use.
type Renderer struct {
	fb       *FrameBuffer
	uniforms gfx.Uniforms
	light    LightConfig

	model, view, projection mgl32.Mat4
	bones                   []mgl32.Mat4
	skinning                bool
	bound                   *gfx.Drawable

	// LineWidth and PointSize are in pixels; scale them with the
	// supersampling factor.
	LineWidth int
	PointSize int
	// Wireframe draws triangle edges instead of filled faces.
	Wireframe bool

	// scratch, reused across draws
	clip  []mgl32.Vec4
	world []mgl32.Vec3
	norms []mgl32.Vec3
}

// New creates a w×h renderer reading model/view/projection from the
// given slots. Bones and the skinning flag always use gfx.SlotBones and
// gfx.SlotUseSkinning.
func New(w, h int, u gfx.Uniforms) *Renderer {
	return &Renderer{
		fb:         NewFrameBuffer(w, h),
		uniforms:   u,
		light:      DefaultLightConfig(),
		model:      mgl32.Ident4(),
		view:       mgl32.Ident4(),
		projection: mgl32.Ident4(),
		LineWidth:  1,
		PointSize:  3,
	}
}

// SetLight replaces the lighting parameters.
func (r *Renderer) SetLight(lc LightConfig) {
	r.light = lc
}

// FrameBuffer exposes the render target.
func (r *Renderer) FrameBuffer() *FrameBuffer {
	return r.fb
}

// Clear resets color and depth.
func (r *Renderer) Clear(bg color.NRGBA) {
	r.fb.Clear(bg)
}

// Image copies out the current frame.
func (r *Renderer) Image() *image.NRGBA {
	return r.fb.Image()
}

func (r *Renderer) UniformMatrix(slot gfx.Slot, m mgl32.Mat4) {
	switch slot {
	case r.uniforms.Model:
		r.model = m
	case r.uniforms.View:
		r.view = m
	case r.uniforms.Projection:
		r.projection = m
	}
}

func (r *Renderer) UniformMatrices(slot gfx.Slot, ms []mgl32.Mat4) {
	if slot == gfx.SlotBones {
		r.bones = append(r.bones[:0], ms...)
	}
}

func (r *Renderer) UniformInt(slot gfx.Slot, v int) {
	if slot == gfx.SlotUseSkinning {
		r.skinning = v != 0
	}
}

func (r *Renderer) Bind(d *gfx.Drawable) {
	r.bound = d
}

// Draw renders count elements of the bound drawable.
func (r *Renderer) Draw(topology gfx.Topology, count int) {
	d := r.bound
	if d == nil || len(d.Positions) == 0 {
		return
	}
	r.transform(d)

	idx := func(i int) int {
		if d.Indices != nil {
			return int(d.Indices[i])
		}
		return i
	}
	if count > d.Count() {
		count = d.Count()
	}

	switch topology {
	case gfx.Triangles:
		for i := 0; i+2 < count; i += 3 {
			if r.Wireframe {
				r.edges(d, idx(i), idx(i+1), idx(i+2))
				continue
			}
			r.triangle(d, idx(i), idx(i+1), idx(i+2))
		}
	case gfx.Lines:
		for i := 0; i+1 < count; i += 2 {
			a, b := idx(i), idx(i+1)
			if !r.visible(a) || !r.visible(b) {
				continue
			}
			RasterizeLine(r.fb, r.screen(d, a), r.screen(d, b), d.Color, r.LineWidth)
		}
	case gfx.Points:
		for i := 0; i < count; i++ {
			a := idx(i)
			if r.visible(a) {
				RasterizePoint(r.fb, r.screen(d, a), d.Color, r.PointSize)
			}
		}
	}
}

// transform runs the vertex stage: bone, then model, then view and
// projection.
func (r *Renderer) transform(d *gfx.Drawable) {
	r.clip = r.clip[:0]
	r.world = r.world[:0]
	r.norms = r.norms[:0]
	vp := r.projection.Mul4(r.view)
	for i, p := range d.Positions {
		m := r.model
		if r.skinning && i < len(d.BoneIndices) {
			if b := int(d.BoneIndices[i]); b >= 0 && b < len(r.bones) {
				m = m.Mul4(r.bones[b])
			}
		}
		w := m.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1})
		r.world = append(r.world, w.Vec3())
		r.clip = append(r.clip, vp.Mul4x1(w))
		if i < len(d.Normals) {
			nv := d.Normals[i]
			wn := m.Mul4x1(mgl32.Vec4{nv[0], nv[1], nv[2], 0}).Vec3()
			if wn.Len() > 1e-8 {
				wn = wn.Normalize()
			}
			r.norms = append(r.norms, wn)
		}
	}
}

func (r *Renderer) visible(i int) bool {
	return i >= 0 && i < len(r.clip) && r.clip[i].W() > 1e-6
}

// screen maps clip space to pixels. Depth is -ndc.z so that nearer
// fragments compare larger.
func (r *Renderer) screen(d *gfx.Drawable, i int) ScreenVertex {
	c := r.clip[i]
	inv := 1 / c.W()
	sv := ScreenVertex{
		X: (float64(c.X()*inv) + 1) * 0.5 * float64(r.fb.Width),
		Y: (1 - float64(c.Y()*inv)) * 0.5 * float64(r.fb.Height),
		Z: -float64(c.Z() * inv),
	}
	if i < len(d.UVs) {
		sv.U = float64(d.UVs[i][0])
		sv.V = float64(d.UVs[i][1])
	}
	return sv
}

func (r *Renderer) triangle(d *gfx.Drawable, a, b, c int) {
	if !r.visible(a) || !r.visible(b) || !r.visible(c) {
		return
	}
	normal := r.faceNormal(a, b, c)
	if normal == (mathutil.Vec3{}) {
		return
	}
	shade := r.light.ComputeShade(normal)

	tex := d.Texture
	base := d.Color
	if tex != nil && len(d.UVs) < len(d.Positions) {
		base.R, base.G, base.B, base.A = averageColor(tex)
		tex = nil
	}
	v := [3]ScreenVertex{r.screen(d, a), r.screen(d, b), r.screen(d, c)}
	RasterizeTriangle(r.fb, v, tex, base, shade, &r.light)
}

func (r *Renderer) edges(d *gfx.Drawable, a, b, c int) {
	if !r.visible(a) || !r.visible(b) || !r.visible(c) {
		return
	}
	col := d.Color
	if d.Texture != nil {
		col.R, col.G, col.B, col.A = averageColor(d.Texture)
	}
	v := [3]ScreenVertex{r.screen(d, a), r.screen(d, b), r.screen(d, c)}
	for i := 0; i < 3; i++ {
		RasterizeLine(r.fb, v[i], v[(i+1)%3], col, r.LineWidth)
	}
}

// faceNormal prefers the averaged vertex normals and falls back to the
// geometric normal.
func (r *Renderer) faceNormal(a, b, c int) mathutil.Vec3 {
	if a < len(r.norms) && b < len(r.norms) && c < len(r.norms) {
		s := r.norms[a].Add(r.norms[b]).Add(r.norms[c])
		if s.Len() > 1e-6 {
			s = s.Normalize()
			return mathutil.Vec3{float64(s[0]), float64(s[1]), float64(s[2])}
		}
	}
	e1 := r.world[b].Sub(r.world[a])
	e2 := r.world[c].Sub(r.world[a])
	n := e1.Cross(e2)
	if n.Len() < 1e-10 {
		return mathutil.Vec3{}
	}
	n = n.Normalize()
	return mathutil.Vec3{float64(n[0]), float64(n[1]), float64(n[2])}
}

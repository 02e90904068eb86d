package skeleton

import (
	"github.com/go-gl/mathgl/mgl32"

	"skeleton-renderer/internal/gfx"
)

// BodyID is the stable key of a body.
type BodyID int

// Body is a rigid renderable attached to one joint. It owns its
// drawables.
type Body struct {
	ID        BodyID
	Joint     JointID
	Drawables []*gfx.Drawable
}

func (b *Body) draw(r gfx.Renderer, u gfx.Uniforms, model, view, projection mgl32.Mat4) {
	r.UniformMatrix(u.Model, model)
	r.UniformMatrix(u.View, view)
	r.UniformMatrix(u.Projection, projection)
	for _, d := range b.Drawables {
		r.Bind(d)
		r.Draw(d.Topology, d.Count())
	}
}

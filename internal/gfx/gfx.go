// Package gfx is the contract between the animation core and whatever
// draws it: uniform slots, primitive topologies, drawables and the
// Renderer interface.
package gfx

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Slot identifies a uniform binding location.
type Slot int

const (
	SlotModel Slot = iota
	SlotView
	SlotProjection
	SlotBones
	SlotUseSkinning
)

func (s Slot) String() string {
	switch s {
	case SlotModel:
		return "model"
	case SlotView:
		return "view"
	case SlotProjection:
		return "projection"
	case SlotBones:
		return "bones"
	case SlotUseSkinning:
		return "useSkinning"
	}
	return "slot?"
}

// Uniforms is the model/view/projection binding configuration a
// Skeleton is created with.
type Uniforms struct {
	Model      Slot
	View       Slot
	Projection Slot
}

// DefaultUniforms binds to the standard slots.
func DefaultUniforms() Uniforms {
	return Uniforms{Model: SlotModel, View: SlotView, Projection: SlotProjection}
}

// Topology is the primitive type of a draw call.
type Topology int

const (
	Points Topology = iota
	Lines
	Triangles
)

func (t Topology) String() string {
	switch t {
	case Points:
		return "points"
	case Lines:
		return "lines"
	case Triangles:
		return "triangles"
	}
	return "topology?"
}

// Drawable is vertex data ready to be bound. When Indices is nil the
// vertices are drawn in order.
type Drawable struct {
	Name      string
	Topology  Topology
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indices   []uint32
	// BoneIndices is the per-vertex skinning joint, parallel to Positions.
	BoneIndices []float32
	Texture     *image.NRGBA
	Color       color.NRGBA
}

// Count is the element count a full draw of d needs.
func (d *Drawable) Count() int {
	if d.Indices != nil {
		return len(d.Indices)
	}
	return len(d.Positions)
}

// NewSegment returns a two-vertex line drawable.
func NewSegment(a, b [3]float32) *Drawable {
	return &Drawable{
		Name:      "segment",
		Topology:  Lines,
		Positions: [][3]float32{a, b},
		Color:     color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Renderer accepts uniform uploads and draw calls.
type Renderer interface {
	UniformMatrix(slot Slot, m mgl32.Mat4)
	UniformMatrices(slot Slot, ms []mgl32.Mat4)
	UniformInt(slot Slot, v int)
	Bind(d *Drawable)
	Draw(topology Topology, count int)
}

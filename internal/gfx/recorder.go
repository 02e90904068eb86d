package gfx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded Renderer invocation.
type Call struct {
	Op       string
	Slot     Slot
	Matrices []mgl32.Mat4
	Int      int
	Drawable *Drawable
	Topology Topology
	Count    int
}

func (c Call) String() string {
	switch c.Op {
	case "matrix":
		return fmt.Sprintf("upload %s", c.Slot)
	case "matrices":
		return fmt.Sprintf("upload %s[%d]", c.Slot, len(c.Matrices))
	case "int":
		return fmt.Sprintf("upload %s=%d", c.Slot, c.Int)
	case "bind":
		return fmt.Sprintf("bind %s", c.Drawable.Name)
	case "draw":
		return fmt.Sprintf("draw %s x%d", c.Topology, c.Count)
	}
	return c.Op
}

// Recorder is a Renderer that only remembers what it was asked to do.
type Recorder struct {
	Calls []Call
}

func (r *Recorder) UniformMatrix(slot Slot, m mgl32.Mat4) {
	r.Calls = append(r.Calls, Call{Op: "matrix", Slot: slot, Matrices: []mgl32.Mat4{m}})
}

func (r *Recorder) UniformMatrices(slot Slot, ms []mgl32.Mat4) {
	cp := append([]mgl32.Mat4(nil), ms...)
	r.Calls = append(r.Calls, Call{Op: "matrices", Slot: slot, Matrices: cp})
}

func (r *Recorder) UniformInt(slot Slot, v int) {
	r.Calls = append(r.Calls, Call{Op: "int", Slot: slot, Int: v})
}

func (r *Recorder) Bind(d *Drawable) {
	r.Calls = append(r.Calls, Call{Op: "bind", Drawable: d})
}

func (r *Recorder) Draw(topology Topology, count int) {
	r.Calls = append(r.Calls, Call{Op: "draw", Topology: topology, Count: count})
}

// Draws returns only the draw calls.
func (r *Recorder) Draws() []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == "draw" {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

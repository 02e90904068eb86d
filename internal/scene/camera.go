package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective look-at camera.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3
	FovY   float32 // degrees
	Near   float32
	Far    float32
}

// DefaultCamera frames a figure about 3.5 units tall standing at the
// origin.
func DefaultCamera() Camera {
	return Camera{
		Eye:    mgl32.Vec3{4.5, 3, 6.5},
		Target: mgl32.Vec3{0, 1.6, 0},
		Up:     mgl32.Vec3{0, 1, 0},
		FovY:   45,
		Near:   0.1,
		Far:    100,
	}
}

func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Target, c.Up)
}

func (c Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// Orbit returns the camera rotated by deg degrees about the vertical
// axis through Target.
func (c Camera) Orbit(deg float64) Camera {
	if deg == 0 {
		return c
	}
	rot := mgl32.HomogRotate3DY(float32(deg * math.Pi / 180))
	off := c.Eye.Sub(c.Target)
	c.Eye = c.Target.Add(rot.Mul4x1(off.Vec4(0)).Vec3())
	return c
}

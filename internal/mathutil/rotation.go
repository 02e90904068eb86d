package mathutil

import "math"

// Axis indexes X, Y and Z in the order joints apply their rotations.
const (
	AxisX = iota
	AxisY
	AxisZ
)

// RotX rotates about X by a radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{1, 0, 0, 0, c, -s, 0, s, c}
}

// RotY rotates about Y by a radians.
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{c, 0, s, 0, 1, 0, -s, 0, c}
}

// RotZ rotates about Z by a radians.
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{c, -s, 0, s, c, 0, 0, 0, 1}
}

func RotX4(a float64) Mat4 { return FromMat3Translation(RotX(a), Vec3{}) }
func RotY4(a float64) Mat4 { return FromMat3Translation(RotY(a), Vec3{}) }
func RotZ4(a float64) Mat4 { return FromMat3Translation(RotZ(a), Vec3{}) }

// AxisRotationDeg returns the 4×4 rotation of deg degrees about axis.
// Unknown axes give the identity.
func AxisRotationDeg(axis int, deg float64) Mat4 {
	a := Deg2Rad(deg)
	switch axis {
	case AxisX:
		return RotX4(a)
	case AxisY:
		return RotY4(a)
	case AxisZ:
		return RotZ4(a)
	}
	return Mat4Identity()
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

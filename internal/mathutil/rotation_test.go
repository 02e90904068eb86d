package mathutil

import (
	"math"
	"testing"
)

func near(a, b Vec3) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestAxisRotationDegIsRightHanded(t *testing.T) {
	cases := []struct {
		axis int
		in   Vec3
		want Vec3
	}{
		{AxisX, Vec3{0, 1, 0}, Vec3{0, 0, 1}},
		{AxisY, Vec3{0, 0, 1}, Vec3{1, 0, 0}},
		{AxisZ, Vec3{1, 0, 0}, Vec3{0, 1, 0}},
		{7, Vec3{1, 2, 3}, Vec3{1, 2, 3}},
	}
	for _, c := range cases {
		if got := AxisRotationDeg(c.axis, 90).MulDir(c.in); !near(got, c.want) {
			t.Fatalf("axis %d: got=%v want=%v", c.axis, got, c.want)
		}
	}
}

func TestAxisRotationDegMatchesRadianBuilders(t *testing.T) {
	for _, deg := range []float64{-15, 0, 3, 45, 270} {
		a := Deg2Rad(deg)
		if !AxisRotationDeg(AxisX, deg).ApproxEqual(RotX4(a), 1e-15) ||
			!AxisRotationDeg(AxisY, deg).ApproxEqual(RotY4(a), 1e-15) ||
			!AxisRotationDeg(AxisZ, deg).ApproxEqual(RotZ4(a), 1e-15) {
			t.Fatalf("deg=%v builders disagree", deg)
		}
	}
	// X then Z: +Y goes to +Z under X, Z leaves +Z alone.
	m := RotZ4(math.Pi / 2).Mul(RotX4(math.Pi / 2))
	if got := m.MulDir(Vec3{0, 1, 0}); !near(got, Vec3{0, 0, 1}) {
		t.Fatalf("composition got=%v want=%v", got, Vec3{0, 0, 1})
	}
}

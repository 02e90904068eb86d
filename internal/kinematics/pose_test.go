package kinematics

import (
	"math"
	"testing"

	"skeleton-renderer/internal/mathutil"
)

func TestComputePoseCoversEveryJoint(t *testing.T) {
	def := DefaultDefinition()
	s, err := NewSolver(def)
	if err != nil {
		t.Fatalf("solver: %v", err)
	}
	pose := s.ComputePose(nil)
	if len(pose) != len(def.Joints) {
		t.Fatalf("pose size got=%d want=%d", len(pose), len(def.Joints))
	}
	for _, j := range def.Joints {
		m, ok := pose[j.ID]
		if !ok {
			t.Fatalf("joint %d missing", j.ID)
		}
		want := mathutil.Translate(mathutil.Vec3(j.Offset))
		if m != want {
			t.Fatalf("joint %d at zero coordinates got=%v want=%v", j.ID, m, want)
		}
	}
}

func TestComputePoseIsPure(t *testing.T) {
	s, err := NewSolver(DefaultDefinition())
	if err != nil {
		t.Fatalf("solver: %v", err)
	}
	q := Coordinates{}
	for i := range s.Definition().Coordinates {
		q[Coordinate(i)] = 0.4 * float64(i+1)
	}
	a := s.ComputePose(q)
	b := s.ComputePose(q)
	for id, m := range a {
		if b[id] != m {
			t.Fatalf("joint %d differs between calls", id)
		}
	}
}

func TestComputePoseAxisOrder(t *testing.T) {
	def, err := ParseDefinition([]byte(`
coordinates: [tx, rx, ry, rz]
joints:
  - id: 0
    parent: -1
    offset: [1, 2, 3]
    translate: {x: tx}
    rotate: {x: rx, y: ry, z: rz}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s, err := NewSolver(def)
	if err != nil {
		t.Fatalf("solver: %v", err)
	}
	q := Coordinates{0: 0.5, 1: 30, 2: 45, 3: 60}
	got := s.ComputePose(q)[0]
	want := mathutil.Translate(mathutil.Vec3{1.5, 2, 3}).
		Mul(mathutil.RotX4(math.Pi / 6)).
		Mul(mathutil.RotY4(math.Pi / 4)).
		Mul(mathutil.RotZ4(math.Pi / 3))
	if !got.ApproxEqual(want, 1e-12) {
		t.Fatalf("local got=%v want=%v", got, want)
	}
}

func TestComputePoseZRotationOfKnee(t *testing.T) {
	def := DefaultDefinition()
	s, err := NewSolver(def)
	if err != nil {
		t.Fatalf("solver: %v", err)
	}
	c, _ := def.CoordinateIndex("knee_r_flex")
	m := s.ComputePose(Coordinates{c: 90})[2]
	// +90° about Z maps +X to +Y.
	p := m.MulDir(mathutil.Vec3{1, 0, 0})
	if math.Abs(p[1]-1) > 1e-12 || math.Abs(p[0]) > 1e-12 {
		t.Fatalf("rotated x axis got=%v want=(0,1,0)", p)
	}
}

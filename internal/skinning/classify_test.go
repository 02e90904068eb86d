package skinning

import (
	"math"
	"testing"

	"skeleton-renderer/internal/mathutil"
	"skeleton-renderer/internal/skeleton"
)

func trunkBands() Bands {
	return Bands{
		Axis:       1,
		Thresholds: []float64{0.25, 0.75, 1.25, 1.75, 2.25, 2.75, 3.25},
		Joints:     []skeleton.JointID{0, 1, 2, 3, 4, 5, 6, 6},
	}
}

func TestClassifyBands(t *testing.T) {
	cases := []struct {
		y    float32
		want skeleton.JointID
	}{
		{-5, 0},
		{0.1, 0},
		{0.25, 1},
		{0.6, 1},
		{1.0, 2},
		{2.74, 5},
		{3.0, 6},
		{10, 6},
	}
	b := trunkBands()
	for _, tc := range cases {
		got, err := Classify([][3]float32{{0, tc.y, 0}}, b)
		if err != nil {
			t.Fatalf("classify: %v", err)
		}
		if got[0] != tc.want {
			t.Fatalf("y=%v got=%d want=%d", tc.y, got[0], tc.want)
		}
	}
}

func TestClassifyCatchAllBandIsLast(t *testing.T) {
	b := trunkBands()
	b.Joints[len(b.Joints)-1] = 9
	got, err := Classify([][3]float32{{0, 10, 0}, {0, 3.25, 0}, {0, 3.2, 0}}, b)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	want := []skeleton.JointID{9, 9, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got=%v want=%v", got, want)
		}
	}
}

func TestClassifyKeepsOrderAndLength(t *testing.T) {
	verts := [][3]float32{{0, 3, 0}, {0, 0, 0}, {0, 1.5, 0}, {0, 0.6, 0}}
	got, err := Classify(verts, trunkBands())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	want := []skeleton.JointID{6, 0, 3, 1}
	if len(got) != len(want) {
		t.Fatalf("len got=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got=%v want=%v", got, want)
		}
	}
}

func TestBandsValidate(t *testing.T) {
	bad := []Bands{
		{Axis: 3, Thresholds: nil, Joints: []skeleton.JointID{0}},
		{Axis: 1, Thresholds: []float64{1}, Joints: []skeleton.JointID{0}},
		{Axis: 1, Thresholds: []float64{1, 1}, Joints: []skeleton.JointID{0, 1, 2}},
		{Axis: 1, Thresholds: []float64{math.NaN()}, Joints: []skeleton.JointID{0, 1}},
	}
	for i, b := range bad {
		if _, err := Classify(nil, b); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestBandsFromJoints(t *testing.T) {
	world := map[skeleton.JointID]mathutil.Mat4{
		4: mathutil.Translate(mathutil.Vec3{0, 2, 0}),
		1: mathutil.Translate(mathutil.Vec3{0, 0.5, 0}),
		0: mathutil.Translate(mathutil.Vec3{0, 0, 0}),
		7: mathutil.Translate(mathutil.Vec3{0, 2, 1}),
	}
	b, err := BandsFromJoints(world, []skeleton.JointID{4, 1, 0, 7}, 1)
	if err != nil {
		t.Fatalf("bands: %v", err)
	}
	wantT := []float64{0.25, 1.25}
	if len(b.Thresholds) != len(wantT) {
		t.Fatalf("thresholds got=%v want=%v", b.Thresholds, wantT)
	}
	for i := range wantT {
		if b.Thresholds[i] != wantT[i] {
			t.Fatalf("thresholds got=%v want=%v", b.Thresholds, wantT)
		}
	}
	if b.Joints[0] != 0 || b.Joints[1] != 1 {
		t.Fatalf("joints got=%v", b.Joints)
	}
	if b.Joints[2] != 4 && b.Joints[2] != 7 {
		t.Fatalf("top joint got=%d want 4 or 7", b.Joints[2])
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestBandsFromJointsUnknown(t *testing.T) {
	if _, err := BandsFromJoints(nil, []skeleton.JointID{1}, 1); err == nil {
		t.Fatalf("expected error")
	}
}

package skeleton

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"skeleton-renderer/internal/gfx"
	"skeleton-renderer/internal/mathutil"
)

func newChain(t *testing.T) *Skeleton {
	t.Helper()
	s := New(gfx.DefaultUniforms())
	if _, err := s.AddJoint(0, NoParent, mathutil.Mat4Identity()); err != nil {
		t.Fatalf("add root: %v", err)
	}
	if _, err := s.AddJoint(1, 0, mathutil.Translate(mathutil.Vec3{0, 1, 0})); err != nil {
		t.Fatalf("add child: %v", err)
	}
	return s
}

func TestTwoJointChainWorldTransforms(t *testing.T) {
	s := newChain(t)
	localRoot := mathutil.Translate(mathutil.Vec3{1, 0, 0})
	localChild := mathutil.Mat4Mul(mathutil.Translate(mathutil.Vec3{0, 1, 0}), mathutil.RotZ4(mathutil.Deg2Rad(90)))
	if err := s.SetPose(map[JointID]mathutil.Mat4{0: localRoot, 1: localChild}); err != nil {
		t.Fatalf("set pose: %v", err)
	}

	worlds := s.JointWorldTransforms()
	if !worlds[0].ApproxEqual(localRoot, 1e-12) {
		t.Fatalf("root world mismatch: got=%v want=%v", worlds[0], localRoot)
	}
	want := mathutil.Mat4Mul(localRoot, localChild)
	if !worlds[1].ApproxEqual(want, 1e-12) {
		t.Fatalf("child world mismatch: got=%v want=%v", worlds[1], want)
	}
	tip := worlds[1].MulPoint(mathutil.Vec3{1, 0, 0})
	if tip.Sub(mathutil.Vec3{1, 2, 0}).Len() > 1e-12 {
		t.Fatalf("child frame not rotated: tip=%v", tip)
	}
}

func TestRootWorldEqualsLocal(t *testing.T) {
	s := New(gfx.DefaultUniforms())
	locals := []mathutil.Mat4{
		mathutil.Mat4Identity(),
		mathutil.Translate(mathutil.Vec3{-3, 2, 9}),
		mathutil.Mat4Mul(mathutil.RotX4(1.2), mathutil.RotY4(-0.4)),
	}
	for i, m := range locals {
		if _, err := s.AddJoint(JointID(i), NoParent, m); err != nil {
			t.Fatalf("add joint %d: %v", i, err)
		}
	}
	worlds := s.JointWorldTransforms()
	for i, m := range locals {
		if worlds[JointID(i)] != m {
			t.Fatalf("root %d world differs from local: got=%v want=%v", i, worlds[JointID(i)], m)
		}
	}
}

func TestWorldIsParentTimesLocalAfterSetPose(t *testing.T) {
	s := New(gfx.DefaultUniforms())
	s.AddJoint(0, NoParent, mathutil.Mat4Identity())
	s.AddJoint(1, 0, mathutil.Mat4Identity())
	s.AddJoint(2, 1, mathutil.Mat4Identity())
	s.AddJoint(3, 0, mathutil.Mat4Identity())

	pose := map[JointID]mathutil.Mat4{
		0: mathutil.Translate(mathutil.Vec3{0, 0.5, 0}),
		1: mathutil.Mat4Mul(mathutil.Translate(mathutil.Vec3{0, 0.5, 0}), mathutil.RotX4(0.3)),
		2: mathutil.Mat4Mul(mathutil.Translate(mathutil.Vec3{0, 0.5, 0}), mathutil.RotZ4(-0.7)),
		3: mathutil.RotY4(1.0),
	}
	if err := s.SetPose(pose); err != nil {
		t.Fatalf("set pose: %v", err)
	}
	worlds := s.JointWorldTransforms()
	for _, id := range s.JointIDs() {
		j, _ := s.Joint(id)
		want := j.Local
		if !j.IsRoot() {
			want = mathutil.Mat4Mul(worlds[j.Parent], j.Local)
		}
		if !worlds[id].ApproxEqual(want, 1e-12) {
			t.Fatalf("joint %d: world != parent.world*local", id)
		}
	}
}

func TestSetPoseLeavesWorldStaleUntilQueried(t *testing.T) {
	s := newChain(t)
	before := s.JointWorldTransforms()
	if err := s.SetPose(map[JointID]mathutil.Mat4{0: mathutil.Translate(mathutil.Vec3{5, 0, 0})}); err != nil {
		t.Fatalf("set pose: %v", err)
	}
	j, _ := s.Joint(1)
	if j.World != before[1] {
		t.Fatalf("SetPose recomputed world transforms")
	}
	after := s.JointWorldTransforms()
	if got := after[1].Translation(); math.Abs(got[0]-5) > 1e-12 {
		t.Fatalf("fresh query did not observe new pose: %v", got)
	}
}

func TestSetPoseUnknownJointFailsWithoutMutation(t *testing.T) {
	s := newChain(t)
	moved := mathutil.Translate(mathutil.Vec3{7, 7, 7})
	err := s.SetPose(map[JointID]mathutil.Mat4{0: moved, 42: moved})
	if !errors.Is(err, ErrUnknownJoint) {
		t.Fatalf("want ErrUnknownJoint, got %v", err)
	}
	root, _ := s.Joint(0)
	if root.Local == moved {
		t.Fatalf("partial pose applied before failing")
	}
}

func TestUpdateWorldTransformAscendsToAncestors(t *testing.T) {
	s := newChain(t)
	s.SetPose(map[JointID]mathutil.Mat4{0: mathutil.Translate(mathutil.Vec3{2, 0, 0})})
	if err := s.UpdateWorldTransform(1); err != nil {
		t.Fatalf("update: %v", err)
	}
	j, _ := s.Joint(1)
	if got := j.World.Translation(); got != (mathutil.Vec3{2, 1, 0}) {
		t.Fatalf("child world ignores refreshed parent: %v", got)
	}
	if err := s.UpdateWorldTransform(9); !errors.Is(err, ErrUnknownJoint) {
		t.Fatalf("want ErrUnknownJoint, got %v", err)
	}
}

func TestAddJointRejectsBadTopology(t *testing.T) {
	s := newChain(t)
	if _, err := s.AddJoint(1, 0, mathutil.Mat4Identity()); !errors.Is(err, ErrDuplicateJoint) {
		t.Fatalf("duplicate id accepted: %v", err)
	}
	if _, err := s.AddJoint(5, 4, mathutil.Mat4Identity()); !errors.Is(err, ErrUnknownJoint) {
		t.Fatalf("unknown parent accepted: %v", err)
	}
	if _, err := s.AddJoint(-2, NoParent, mathutil.Mat4Identity()); err == nil {
		t.Fatalf("negative id accepted")
	}
	if _, err := s.AddBody(0, 8); !errors.Is(err, ErrUnknownJoint) {
		t.Fatalf("body on unknown joint accepted: %v", err)
	}
}

func TestSlotCountFollowsHighestID(t *testing.T) {
	s := New(gfx.DefaultUniforms())
	s.AddJoint(0, NoParent, mathutil.Mat4Identity())
	s.AddJoint(4, 0, mathutil.Mat4Identity())
	if got := s.SlotCount(); got != 5 {
		t.Fatalf("slot count: got=%d want=5", got)
	}
	if got := s.JointCount(); got != 2 {
		t.Fatalf("joint count: got=%d want=2", got)
	}
}

func TestDrawUploadsJointWorldPerBody(t *testing.T) {
	s := newChain(t)
	seg := gfx.NewSegment([3]float32{0, 0, 0}, [3]float32{0, 0.5, 0})
	s.AddBody(3, 1, seg)
	s.AddBody(1, 0, gfx.NewSegment([3]float32{0, 0, 0}, [3]float32{0, 1, 0}), seg)
	s.SetPose(map[JointID]mathutil.Mat4{0: mathutil.Translate(mathutil.Vec3{1, 0, 0})})

	var rec gfx.Recorder
	view := mathutil.Translate(mathutil.Vec3{0, 0, -5}).GL()
	proj := mathutil.Mat4Identity().GL()
	s.Draw(&rec, view, proj)

	draws := rec.Draws()
	if len(draws) != 3 {
		t.Fatalf("draw count: got=%d want=3", len(draws))
	}
	// body 1 (joint 0) first, then body 3 (joint 1)
	first := rec.Calls[0]
	if first.Slot != gfx.SlotModel || first.Matrices[0] != mathutil.Translate(mathutil.Vec3{1, 0, 0}).GL() {
		t.Fatalf("first model upload is not root world: %+v", first)
	}
	var models []int
	for i, c := range rec.Calls {
		if c.Op == "matrix" && c.Slot == gfx.SlotModel {
			models = append(models, i)
		}
	}
	last := rec.Calls[models[len(models)-1]].Matrices[0]
	want := mathutil.Translate(mathutil.Vec3{1, 1, 0}).GL()
	if last != want {
		t.Fatalf("child body model: got=%v want=%v", last, want)
	}
}

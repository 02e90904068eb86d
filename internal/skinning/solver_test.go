package skinning

import (
	stderrors "errors"
	"math"
	"testing"

	"skeleton-renderer/internal/gfx"
	"skeleton-renderer/internal/kinematics"
	"skeleton-renderer/internal/mathutil"
	"skeleton-renderer/internal/skeleton"
)

func defaultRig(t *testing.T) (*skeleton.Skeleton, *kinematics.Solver, *kinematics.Definition) {
	t.Helper()
	def := kinematics.DefaultDefinition()
	sk, err := def.BuildSkeleton(gfx.DefaultUniforms())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	ps, err := kinematics.NewSolver(def)
	if err != nil {
		t.Fatalf("solver: %v", err)
	}
	return sk, ps, def
}

func TestSkinningAtBindPoseIsIdentity(t *testing.T) {
	sk, ps, def := defaultRig(t)
	bind := def.BindCoordinates()
	s := NewSolver(sk, ps, bind, SingularIdentity)
	got, err := s.ComputeSkinningTransforms(bind)
	if err != nil {
		t.Fatalf("skin: %v", err)
	}
	if len(got) != sk.SlotCount() {
		t.Fatalf("len got=%d want=%d", len(got), sk.SlotCount())
	}
	for i, m := range got {
		if !m.ApproxEqual(mathutil.Mat4Identity(), 1e-9) {
			t.Fatalf("slot %d got=%v want identity", i, m)
		}
	}
}

func TestSkinningMovesBindPointToCurrentPoint(t *testing.T) {
	sk, ps, def := defaultRig(t)
	bind := def.BindCoordinates()
	s := NewSolver(sk, ps, bind, SingularIdentity)

	q := kinematics.Coordinates{}
	for i := range def.Coordinates {
		q[kinematics.Coordinate(i)] = 0.4 * float64(i)
	}
	skin, err := s.ComputeSkinningTransforms(q)
	if err != nil {
		t.Fatalf("skin: %v", err)
	}
	current := sk.JointWorldTransforms()
	for _, id := range sk.JointIDs() {
		j, _ := sk.Joint(id)
		bindPos := j.Bind.Translation()
		got := skin[id].MulPoint(bindPos)
		want := current[id].Translation()
		for k := 0; k < 3; k++ {
			if d := got[k] - want[k]; d > 1e-9 || d < -1e-9 {
				t.Fatalf("joint %d got=%v want=%v", id, got, want)
			}
		}
	}
}

type fixedPose map[skeleton.JointID]mathutil.Mat4

func (f fixedPose) ComputePose(kinematics.Coordinates) map[skeleton.JointID]mathutil.Mat4 {
	return f
}

func sparseSkeleton(t *testing.T) *skeleton.Skeleton {
	t.Helper()
	sk := skeleton.New(gfx.DefaultUniforms())
	if _, err := sk.AddJoint(0, skeleton.NoParent, mathutil.Mat4Identity()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := sk.AddJoint(3, 0, mathutil.Mat4Identity()); err != nil {
		t.Fatalf("add: %v", err)
	}
	return sk
}

func TestSkinningSparseIDsLeaveIdentitySlots(t *testing.T) {
	sk := sparseSkeleton(t)
	pose := fixedPose{
		0: mathutil.Translate(mathutil.Vec3{1, 0, 0}),
		3: mathutil.Translate(mathutil.Vec3{0, 1, 0}),
	}
	s := NewSolver(sk, pose, nil, SingularIdentity)
	got, err := s.ComputeSkinningTransforms(nil)
	if err != nil {
		t.Fatalf("skin: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len got=%d want=4", len(got))
	}
	for _, i := range []int{1, 2} {
		if got[i] != mathutil.Mat4Identity() {
			t.Fatalf("slot %d got=%v want identity", i, got[i])
		}
	}
}

func TestSingularPolicy(t *testing.T) {
	var zero mathutil.Mat4
	pose := fixedPose{0: mathutil.Mat4Identity(), 3: zero}

	s := NewSolver(sparseSkeleton(t), pose, nil, SingularIdentity)
	got, err := s.ComputeSkinningTransforms(nil)
	if err != nil {
		t.Fatalf("identity policy: %v", err)
	}
	if got[3] != mathutil.Mat4Identity() {
		t.Fatalf("singular slot got=%v want identity", got[3])
	}

	s = NewSolver(sparseSkeleton(t), pose, nil, SingularFail)
	_, err = s.ComputeSkinningTransforms(nil)
	var se *SingularTransformError
	if !stderrors.As(err, &se) {
		t.Fatalf("fail policy got=%v want *SingularTransformError", err)
	}
	if se.Joint != 3 {
		t.Fatalf("joint got=%d want=3", se.Joint)
	}
}

func TestParseSingularPolicy(t *testing.T) {
	for in, want := range map[string]SingularPolicy{"": SingularIdentity, "identity": SingularIdentity, "fail": SingularFail} {
		got, err := ParseSingularPolicy(in)
		if err != nil || got != want {
			t.Fatalf("%q got=%v,%v want=%v", in, got, err, want)
		}
	}
	if _, err := ParseSingularPolicy("panic"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSkinningRejectsNonFiniteCoordinates(t *testing.T) {
	sk, ps, def := defaultRig(t)
	s := NewSolver(sk, ps, def.BindCoordinates(), SingularIdentity)
	knee, _ := def.CoordinateIndex("knee_r_flex")
	before, _ := sk.Joint(2)
	local := before.Local

	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		_, err := s.ComputeSkinningTransforms(kinematics.Coordinates{knee: v})
		if !stderrors.Is(err, ErrNonFiniteCoordinate) {
			t.Fatalf("value %v got err=%v want ErrNonFiniteCoordinate", v, err)
		}
	}
	after, _ := sk.Joint(2)
	if after.Local != local {
		t.Fatalf("skeleton posed despite rejected coordinates")
	}
}

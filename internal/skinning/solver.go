// Package skinning computes per-joint skinning matrices and assigns mesh
// vertices to joints.
package skinning

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"skeleton-renderer/internal/kinematics"
	"skeleton-renderer/internal/mathutil"
	"skeleton-renderer/internal/skeleton"
)

// SingularPolicy selects what happens when a bind-pose world transform
// cannot be inverted.
type SingularPolicy int

const (
	// SingularIdentity writes the identity for that joint.
	SingularIdentity SingularPolicy = iota
	// SingularFail aborts with a *SingularTransformError.
	SingularFail
)

// ParseSingularPolicy accepts "identity" or "fail".
func ParseSingularPolicy(s string) (SingularPolicy, error) {
	switch s {
	case "", "identity":
		return SingularIdentity, nil
	case "fail":
		return SingularFail, nil
	}
	return 0, errors.Errorf("unknown singular policy %q", s)
}

func (p SingularPolicy) String() string {
	if p == SingularFail {
		return "fail"
	}
	return "identity"
}

// ErrNonFiniteCoordinate rejects NaN or infinite coordinate values.
var ErrNonFiniteCoordinate = errors.New("non-finite coordinate")

func checkFinite(q kinematics.Coordinates) error {
	for c, v := range q {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrNonFiniteCoordinate, "coordinate %d = %v", c, v)
		}
	}
	return nil
}

// SingularTransformError names the joint whose bind transform is not
// invertible.
type SingularTransformError struct {
	Joint skeleton.JointID
}

func (e *SingularTransformError) Error() string {
	return fmt.Sprintf("bind transform of joint %d is singular", e.Joint)
}

// PoseSolver produces local transforms from coordinates.
type PoseSolver interface {
	ComputePose(q kinematics.Coordinates) map[skeleton.JointID]mathutil.Mat4
}

// Solver computes skin[j] = currentWorld[j] × inverse(bindWorld[j]).
// It drives the skeleton through SetPose, so it must not be shared
// between goroutines together with its skeleton.
type Solver struct {
	sk     *skeleton.Skeleton
	pose   PoseSolver
	bind   kinematics.Coordinates
	policy SingularPolicy
}

func NewSolver(sk *skeleton.Skeleton, pose PoseSolver, bind kinematics.Coordinates, policy SingularPolicy) *Solver {
	return &Solver{sk: sk, pose: pose, bind: bind.Clone(), policy: policy}
}

// BindWorldTransforms poses the skeleton at the bind coordinates and
// returns the resulting world snapshot. The skeleton is left in the
// bind pose.
func (s *Solver) BindWorldTransforms() (map[skeleton.JointID]mathutil.Mat4, error) {
	if err := s.sk.SetPose(s.pose.ComputePose(s.bind)); err != nil {
		return nil, errors.Wrap(err, "bind pose")
	}
	return s.sk.JointWorldTransforms(), nil
}

// ComputeSkinningTransforms returns one matrix per JointID slot. Slots
// with no joint stay identity. On return the skeleton holds the current
// pose.
func (s *Solver) ComputeSkinningTransforms(q kinematics.Coordinates) ([]mathutil.Mat4, error) {
	if err := checkFinite(q); err != nil {
		return nil, err
	}
	bindWorld, err := s.BindWorldTransforms()
	if err != nil {
		return nil, err
	}
	s.sk.SetBindTransforms(bindWorld)

	if err := s.sk.SetPose(s.pose.ComputePose(q)); err != nil {
		return nil, errors.Wrap(err, "current pose")
	}
	current := s.sk.JointWorldTransforms()

	out := make([]mathutil.Mat4, s.sk.SlotCount())
	for i := range out {
		out[i] = mathutil.Mat4Identity()
	}
	for _, id := range s.sk.JointIDs() {
		b, ok := bindWorld[id]
		if !ok {
			continue
		}
		inv, ok := b.Inverse()
		if !ok {
			if s.policy == SingularFail {
				return nil, &SingularTransformError{Joint: id}
			}
			continue
		}
		out[id] = current[id].Mul(inv)
	}
	return out, nil
}

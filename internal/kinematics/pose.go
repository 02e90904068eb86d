package kinematics

import (
	"github.com/pkg/errors"

	"skeleton-renderer/internal/mathutil"
	"skeleton-renderer/internal/skeleton"
)

// Coordinate indexes a generalized coordinate of a Definition.
type Coordinate int

// Coordinates is a sparse assignment. Absent coordinates read as zero.
// Translations are in model units, rotations in degrees.
type Coordinates map[Coordinate]float64

// Clone returns an independent copy.
func (q Coordinates) Clone() Coordinates {
	out := make(Coordinates, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}

const noCoord Coordinate = -1

type jointAxes struct {
	id        skeleton.JointID
	offset    mathutil.Vec3
	translate [3]Coordinate
	rotate    [3]Coordinate
	rotates   bool
}

// Solver maps coordinates to local transforms for every joint of a
// definition. It holds no mutable state after construction.
type Solver struct {
	def    *Definition
	joints []jointAxes
}

// NewSolver resolves the definition's coordinate names once.
func NewSolver(def *Definition) (*Solver, error) {
	if def == nil {
		return nil, errors.New("nil definition")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{def: def, joints: make([]jointAxes, 0, len(def.Joints))}
	for _, j := range def.Joints {
		ja := jointAxes{id: j.ID, offset: mathutil.Vec3(j.Offset)}
		for i, n := range j.Translate.names() {
			ja.translate[i] = s.resolve(n)
		}
		for i, n := range j.Rotate.names() {
			ja.rotate[i] = s.resolve(n)
			if ja.rotate[i] != noCoord {
				ja.rotates = true
			}
		}
		s.joints = append(s.joints, ja)
	}
	return s, nil
}

func (s *Solver) resolve(name string) Coordinate {
	if name == "" {
		return noCoord
	}
	c, _ := s.def.CoordinateIndex(name)
	return c
}

// Definition returns the definition the solver was built from.
func (s *Solver) Definition() *Definition {
	return s.def
}

// Coordinate resolves a name through the definition.
func (s *Solver) Coordinate(name string) (Coordinate, bool) {
	return s.def.CoordinateIndex(name)
}

// ComputePose returns translate(offset+t) × Rx × Ry × Rz for every
// joint, using only the axes each joint exposes.
func (s *Solver) ComputePose(q Coordinates) map[skeleton.JointID]mathutil.Mat4 {
	out := make(map[skeleton.JointID]mathutil.Mat4, len(s.joints))
	for _, j := range s.joints {
		t := j.offset
		for i, c := range j.translate {
			if c != noCoord {
				t[i] += q[c]
			}
		}
		m := mathutil.Translate(t)
		if j.rotates {
			for axis, c := range j.rotate {
				if c != noCoord {
					m = m.Mul(mathutil.AxisRotationDeg(axis, q[c]))
				}
			}
		}
		out[j.id] = m
	}
	return out
}

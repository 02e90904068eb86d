// Package skeleton holds the joint/body hierarchy and propagates world
// transforms from roots to leaves.
//
// World transforms are pulled, not pushed: every query refreshes the
// whole tree, which costs O(joints) per call.
package skeleton

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"skeleton-renderer/internal/gfx"
	"skeleton-renderer/internal/mathutil"
)

var (
	ErrUnknownJoint   = errors.New("unknown joint")
	ErrDuplicateJoint = errors.New("duplicate joint")
	ErrDuplicateBody  = errors.New("duplicate body")
)

// Skeleton owns every joint and body.
type Skeleton struct {
	// joints is kept in insertion order; a parent is always inserted
	// before its children, so walking the slice front to back visits
	// parents first.
	joints  []*Joint
	index   map[JointID]int
	bodies  map[BodyID]*Body
	maxID   JointID
	uniform gfx.Uniforms
}

// New creates an empty skeleton bound to the given uniform slots.
func New(u gfx.Uniforms) *Skeleton {
	return &Skeleton{
		index:   make(map[JointID]int),
		bodies:  make(map[BodyID]*Body),
		maxID:   -1,
		uniform: u,
	}
}

// AddJoint inserts a joint. The parent must already exist, which keeps
// the hierarchy acyclic.
func (s *Skeleton) AddJoint(id, parent JointID, local mathutil.Mat4) (*Joint, error) {
	if id < 0 {
		return nil, errors.Errorf("joint id %d is negative", id)
	}
	if _, ok := s.index[id]; ok {
		return nil, errors.Wrapf(ErrDuplicateJoint, "joint %d", id)
	}
	if parent != NoParent {
		if _, ok := s.index[parent]; !ok {
			return nil, errors.Wrapf(ErrUnknownJoint, "parent %d of joint %d", parent, id)
		}
	}
	j := &Joint{
		ID:     id,
		Parent: parent,
		Local:  local,
		World:  local,
		Bind:   mathutil.Mat4Identity(),
	}
	s.index[id] = len(s.joints)
	s.joints = append(s.joints, j)
	if id > s.maxID {
		s.maxID = id
	}
	return j, nil
}

// AddBody attaches drawables to an existing joint.
func (s *Skeleton) AddBody(id BodyID, joint JointID, drawables ...*gfx.Drawable) (*Body, error) {
	if _, ok := s.bodies[id]; ok {
		return nil, errors.Wrapf(ErrDuplicateBody, "body %d", id)
	}
	if _, ok := s.index[joint]; !ok {
		return nil, errors.Wrapf(ErrUnknownJoint, "joint %d of body %d", joint, id)
	}
	b := &Body{ID: id, Joint: joint, Drawables: drawables}
	s.bodies[id] = b
	return b, nil
}

// Joint looks up a joint by id.
func (s *Skeleton) Joint(id JointID) (*Joint, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.joints[i], true
}

// Body looks up a body by id.
func (s *Skeleton) Body(id BodyID) (*Body, bool) {
	b, ok := s.bodies[id]
	return b, ok
}

// JointIDs returns ids in parent-before-child order.
func (s *Skeleton) JointIDs() []JointID {
	ids := make([]JointID, len(s.joints))
	for i, j := range s.joints {
		ids[i] = j.ID
	}
	return ids
}

// BodyIDs returns body ids in ascending order.
func (s *Skeleton) BodyIDs() []BodyID {
	ids := make([]BodyID, 0, len(s.bodies))
	for id := range s.bodies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}

// JointCount is the number of joints.
func (s *Skeleton) JointCount() int {
	return len(s.joints)
}

// SlotCount is the length of a per-joint matrix array indexed by
// JointID: the highest id plus one.
func (s *Skeleton) SlotCount() int {
	return int(s.maxID) + 1
}

// Uniforms returns the binding configuration.
func (s *Skeleton) Uniforms() gfx.Uniforms {
	return s.uniform
}

// SetPose overwrites local transforms. Every id is checked before any
// joint is touched, so a bad id leaves the skeleton unchanged. World
// transforms are not recomputed here.
func (s *Skeleton) SetPose(locals map[JointID]mathutil.Mat4) error {
	for id := range locals {
		if _, ok := s.index[id]; !ok {
			return errors.Wrapf(ErrUnknownJoint, "set pose: joint %d", id)
		}
	}
	for id, m := range locals {
		s.joints[s.index[id]].Local = m
	}
	return nil
}

// SetBindTransforms stores bind-pose world transforms on the joints.
// Ids that are not part of the skeleton are ignored.
func (s *Skeleton) SetBindTransforms(binds map[JointID]mathutil.Mat4) {
	for id, m := range binds {
		if i, ok := s.index[id]; ok {
			s.joints[i].Bind = m
		}
	}
}

// UpdateWorldTransform refreshes one joint, ascending to refresh its
// ancestors first.
func (s *Skeleton) UpdateWorldTransform(id JointID) error {
	j, ok := s.Joint(id)
	if !ok {
		return errors.Wrapf(ErrUnknownJoint, "update world: joint %d", id)
	}
	if j.IsRoot() {
		j.World = j.Local
		return nil
	}
	if err := s.UpdateWorldTransform(j.Parent); err != nil {
		return err
	}
	p := s.joints[s.index[j.Parent]]
	j.World = mathutil.Mat4Mul(p.World, j.Local)
	return nil
}

// UpdateWorldTransforms refreshes the whole tree, parents first.
func (s *Skeleton) UpdateWorldTransforms() {
	for _, j := range s.joints {
		if j.IsRoot() {
			j.World = j.Local
			continue
		}
		p := s.joints[s.index[j.Parent]]
		j.World = mathutil.Mat4Mul(p.World, j.Local)
	}
}

// JointWorldTransforms refreshes the tree and returns a snapshot of
// every joint's world transform. Call it again after SetPose to observe
// the new pose.
func (s *Skeleton) JointWorldTransforms() map[JointID]mathutil.Mat4 {
	s.UpdateWorldTransforms()
	out := make(map[JointID]mathutil.Mat4, len(s.joints))
	for _, j := range s.joints {
		out[j.ID] = j.World
	}
	return out
}

// Draw refreshes the tree, then uploads matrices and issues draw calls
// for every body in ascending id order, using the body's joint world
// transform as the model matrix.
func (s *Skeleton) Draw(r gfx.Renderer, view, projection mgl32.Mat4) {
	s.UpdateWorldTransforms()
	for _, id := range s.BodyIDs() {
		b := s.bodies[id]
		j := s.joints[s.index[b.Joint]]
		b.draw(r, s.uniform, j.World.GL(), view, projection)
	}
}

package skeleton

import "skeleton-renderer/internal/mathutil"

// JointID is the stable key of a joint. It doubles as the index of the
// joint's skinning matrix.
type JointID int

// NoParent marks a root joint.
const NoParent JointID = -1

// Joint is a node of the hierarchy. Parent is a lookup key into the
// owning Skeleton, not an owned reference.
type Joint struct {
	ID     JointID
	Parent JointID
	Local  mathutil.Mat4
	World  mathutil.Mat4
	// Bind holds the bind-pose world transform once a skinning pass has
	// captured it; identity until then.
	Bind mathutil.Mat4
}

// IsRoot reports whether the joint has no parent.
func (j *Joint) IsRoot() bool {
	return j.Parent == NoParent
}

package skinning

import (
	"skeleton-renderer/internal/mathutil"
	"skeleton-renderer/internal/skeleton"
)

// Deform returns rigidly skinned copies of positions and normals: one
// joint per vertex, weight 1. Vertices whose joint has no matrix are
// copied unchanged. normals may be nil.
func Deform(positions, normals [][3]float32, joints []skeleton.JointID, matrices []mathutil.Mat4) ([][3]float32, [][3]float32) {
	outP := make([][3]float32, len(positions))
	var outN [][3]float32
	if normals != nil {
		outN = make([][3]float32, len(normals))
	}
	for i, p := range positions {
		j := -1
		if i < len(joints) {
			j = int(joints[i])
		}
		if j < 0 || j >= len(matrices) {
			outP[i] = p
			if i < len(outN) {
				outN[i] = normals[i]
			}
			continue
		}
		m := matrices[j]
		outP[i] = m.MulPoint(mathutil.Vec3From32(p)).F32()
		if i < len(outN) {
			outN[i] = m.MulDir(mathutil.Vec3From32(normals[i])).Normalize().F32()
		}
	}
	return outP, outN
}

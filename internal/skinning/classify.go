package skinning

import (
	"math"

	"github.com/pkg/errors"

	"skeleton-renderer/internal/mathutil"
	"skeleton-renderer/internal/skeleton"
	"skeleton-renderer/internal/sortutil"
)

// Bands partitions one axis into len(Thresholds)+1 half-open intervals.
// Band 0 is (-inf, T0), band i is [T(i-1), Ti), the last band is
// [T(n-1), +inf). Joints[i] owns band i.
type Bands struct {
	Axis       int
	Thresholds []float64
	Joints     []skeleton.JointID
}

// Validate checks the axis, threshold order and joint count.
func (b Bands) Validate() error {
	if b.Axis < 0 || b.Axis > 2 {
		return errors.Errorf("bands: axis %d out of range", b.Axis)
	}
	if len(b.Joints) != len(b.Thresholds)+1 {
		return errors.Errorf("bands: %d thresholds need %d joints, have %d",
			len(b.Thresholds), len(b.Thresholds)+1, len(b.Joints))
	}
	for i, t := range b.Thresholds {
		if math.IsNaN(t) {
			return errors.Errorf("bands: threshold %d is NaN", i)
		}
		if i > 0 && t <= b.Thresholds[i-1] {
			return errors.Errorf("bands: thresholds not strictly increasing at %d", i)
		}
	}
	return nil
}

// Band returns the band index of v.
func (b Bands) Band(v float64) int {
	lo, hi := 0, len(b.Thresholds)
	for lo < hi {
		mid := (lo + hi) / 2
		if v < b.Thresholds[mid] {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// Classify assigns each vertex the joint owning its band. Output order
// matches input order.
func Classify(vertices [][3]float32, bands Bands) ([]skeleton.JointID, error) {
	if err := bands.Validate(); err != nil {
		return nil, err
	}
	out := make([]skeleton.JointID, len(vertices))
	for i, v := range vertices {
		out[i] = bands.Joints[bands.Band(float64(v[bands.Axis]))]
	}
	return out, nil
}

// BandsFromJoints orders the given joints by their position along axis
// in the world snapshot and puts a threshold halfway between each pair
// of consecutive heights. Joints sharing a height collapse into the
// first one seen after sorting.
func BandsFromJoints(world map[skeleton.JointID]mathutil.Mat4, ids []skeleton.JointID, axis int) (Bands, error) {
	if axis < 0 || axis > 2 {
		return Bands{}, errors.Errorf("bands: axis %d out of range", axis)
	}
	if len(ids) == 0 {
		return Bands{}, errors.New("bands: no joints")
	}
	heights := make([]float64, len(ids))
	order := make([]skeleton.JointID, len(ids))
	for i, id := range ids {
		m, ok := world[id]
		if !ok {
			return Bands{}, errors.Wrapf(skeleton.ErrUnknownJoint, "bands: joint %d", id)
		}
		heights[i] = m.Translation()[axis]
		order[i] = id
	}
	sortutil.Sort(heights, order)

	b := Bands{Axis: axis, Joints: []skeleton.JointID{order[0]}}
	for i := 1; i < len(heights); i++ {
		if heights[i] == heights[i-1] {
			continue
		}
		b.Thresholds = append(b.Thresholds, (heights[i-1]+heights[i])/2)
		b.Joints = append(b.Joints, order[i])
	}
	return b, nil
}

// BoneIndices converts a classification into the per-vertex float
// attribute the renderer consumes.
func BoneIndices(joints []skeleton.JointID) []float32 {
	out := make([]float32, len(joints))
	for i, j := range joints {
		out[i] = float32(j)
	}
	return out
}

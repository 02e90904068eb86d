// Package kinematics turns generalized coordinates into per-joint local
// transforms. The hierarchy itself is data: a Definition lists joints,
// their parents, static offsets and which coordinate drives which axis.
package kinematics

import (
	"embed"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"skeleton-renderer/internal/gfx"
	"skeleton-renderer/internal/mathutil"
	"skeleton-renderer/internal/skeleton"
)

//go:embed *_figure.yaml
var figures embed.FS

// AxisSet names the coordinate driving each axis. Empty means the axis
// is not exposed by the joint.
type AxisSet struct {
	X string `yaml:"x,omitempty"`
	Y string `yaml:"y,omitempty"`
	Z string `yaml:"z,omitempty"`
}

func (a AxisSet) names() [3]string {
	return [3]string{a.X, a.Y, a.Z}
}

// JointDef is one (id, parent, offset, axes) tuple.
type JointDef struct {
	ID        skeleton.JointID `yaml:"id"`
	Name      string           `yaml:"name"`
	Parent    skeleton.JointID `yaml:"parent"`
	Offset    [3]float64       `yaml:"offset"`
	Translate AxisSet          `yaml:"translate,omitempty"`
	Rotate    AxisSet          `yaml:"rotate,omitempty"`
}

// BodyDef attaches line segments, in joint space, to a joint.
type BodyDef struct {
	ID       skeleton.BodyID  `yaml:"id"`
	Name     string           `yaml:"name"`
	Joint    skeleton.JointID `yaml:"joint"`
	Segments [][2][3]float32  `yaml:"segments"`
}

// Definition is the declarative description of a skeleton.
type Definition struct {
	Name        string             `yaml:"name"`
	Coordinates []string           `yaml:"coordinates"`
	Joints      []JointDef         `yaml:"joints"`
	Bodies      []BodyDef          `yaml:"bodies"`
	BindPose    map[string]float64 `yaml:"bind_pose"`
}

// DefaultDefinition returns the built-in "default" figure.
func DefaultDefinition() *Definition {
	def, err := BuiltinDefinition("default")
	if err != nil {
		panic(errors.Wrap(err, "embedded figure"))
	}
	return def
}

// BuiltinDefinition returns an embedded figure by name.
//
// "default" is a single trunk chain with a separate left leg chain.
// "reference" keeps the torso on the root and a translate-only root.
func BuiltinDefinition(name string) (*Definition, error) {
	data, err := figures.ReadFile(name + "_figure.yaml")
	if err != nil {
		return nil, errors.Errorf("no built-in figure %q", name)
	}
	return ParseDefinition(data)
}

// BuiltinDefinitions lists the embedded figure names.
func BuiltinDefinitions() []string {
	entries, _ := figures.ReadDir(".")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), "_figure.yaml"))
	}
	sort.Strings(names)
	return names
}

// LoadDefinition reads and validates a YAML definition file, or returns
// a built-in figure when path names one.
func LoadDefinition(path string) (*Definition, error) {
	if def, err := BuiltinDefinition(path); err == nil {
		return def, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read skeleton definition %s", path)
	}
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, errors.Wrapf(err, "skeleton definition %s", path)
	}
	return def, nil
}

// ParseDefinition decodes and validates YAML.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// CoordinateIndex resolves a coordinate name.
func (d *Definition) CoordinateIndex(name string) (Coordinate, bool) {
	for i, n := range d.Coordinates {
		if n == name {
			return Coordinate(i), true
		}
	}
	return 0, false
}

// Validate checks ids, parent links, coordinate names and bodies.
func (d *Definition) Validate() error {
	if len(d.Joints) == 0 {
		return errors.New("no joints")
	}
	seenCoord := make(map[string]bool, len(d.Coordinates))
	for _, n := range d.Coordinates {
		if n == "" {
			return errors.New("empty coordinate name")
		}
		if seenCoord[n] {
			return errors.Errorf("duplicate coordinate %q", n)
		}
		seenCoord[n] = true
	}

	parents := make(map[skeleton.JointID]skeleton.JointID, len(d.Joints))
	for _, j := range d.Joints {
		if j.ID < 0 {
			return errors.Errorf("joint %q: negative id %d", j.Name, j.ID)
		}
		if _, dup := parents[j.ID]; dup {
			return errors.Errorf("duplicate joint id %d", j.ID)
		}
		parents[j.ID] = j.Parent
		for _, axes := range []AxisSet{j.Translate, j.Rotate} {
			for _, n := range axes.names() {
				if n != "" && !seenCoord[n] {
					return errors.Errorf("joint %d: unknown coordinate %q", j.ID, n)
				}
			}
		}
	}
	for id, p := range parents {
		if p == skeleton.NoParent {
			continue
		}
		if _, ok := parents[p]; !ok {
			return errors.Errorf("joint %d: unknown parent %d", id, p)
		}
	}
	if _, err := d.order(); err != nil {
		return err
	}

	bodies := make(map[skeleton.BodyID]bool, len(d.Bodies))
	for _, b := range d.Bodies {
		if bodies[b.ID] {
			return errors.Errorf("duplicate body id %d", b.ID)
		}
		bodies[b.ID] = true
		if _, ok := parents[b.Joint]; !ok {
			return errors.Errorf("body %d: unknown joint %d", b.ID, b.Joint)
		}
	}
	for n := range d.BindPose {
		if !seenCoord[n] {
			return errors.Errorf("bind pose: unknown coordinate %q", n)
		}
	}
	return nil
}

// order returns the joints sorted so that every parent precedes its
// children, keeping file order otherwise. A cycle is an error.
func (d *Definition) order() ([]JointDef, error) {
	placed := make(map[skeleton.JointID]bool, len(d.Joints))
	out := make([]JointDef, 0, len(d.Joints))
	for len(out) < len(d.Joints) {
		progress := false
		for _, j := range d.Joints {
			if placed[j.ID] {
				continue
			}
			if j.Parent == skeleton.NoParent || placed[j.Parent] {
				placed[j.ID] = true
				out = append(out, j)
				progress = true
			}
		}
		if !progress {
			return nil, errors.New("joint parent links form a cycle")
		}
	}
	return out, nil
}

// BindCoordinates returns the bind pose keyed by coordinate index.
func (d *Definition) BindCoordinates() Coordinates {
	q := make(Coordinates, len(d.BindPose))
	for n, v := range d.BindPose {
		if c, ok := d.CoordinateIndex(n); ok {
			q[c] = v
		}
	}
	return q
}

// BuildSkeleton creates a skeleton with every joint at its offset-only
// local transform and every body drawn as white line segments.
func (d *Definition) BuildSkeleton(u gfx.Uniforms) (*skeleton.Skeleton, error) {
	joints, err := d.order()
	if err != nil {
		return nil, err
	}
	sk := skeleton.New(u)
	for _, j := range joints {
		if _, err := sk.AddJoint(j.ID, j.Parent, mathutil.Translate(mathutil.Vec3(j.Offset))); err != nil {
			return nil, errors.Wrapf(err, "joint %q", j.Name)
		}
	}
	for _, b := range d.Bodies {
		drawables := make([]*gfx.Drawable, 0, len(b.Segments))
		for _, seg := range b.Segments {
			s := gfx.NewSegment(seg[0], seg[1])
			s.Name = b.Name
			drawables = append(drawables, s)
		}
		if _, err := sk.AddBody(b.ID, b.Joint, drawables...); err != nil {
			return nil, errors.Wrapf(err, "body %q", b.Name)
		}
	}
	return sk, nil
}

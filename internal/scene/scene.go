// Package scene is the explicit render context: one skeleton with its
// solvers, the animation driver, the skinned mesh and static props.
// A Scene is single-threaded; concurrent renders each build their own.
package scene

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"skeleton-renderer/internal/anim"
	"skeleton-renderer/internal/gfx"
	"skeleton-renderer/internal/kinematics"
	"skeleton-renderer/internal/mathutil"
	"skeleton-renderer/internal/mesh"
	"skeleton-renderer/internal/skeleton"
	"skeleton-renderer/internal/skinning"
)

// Assets are the shared, read-only inputs of a scene. The same Assets
// value may back many scenes.
type Assets struct {
	Definition *kinematics.Definition
	Script     *anim.Script
	Skin       *mesh.Mesh // nil selects the procedural trunk
	Foliage    *mesh.Mesh // nil for none
	Ground     *mesh.Mesh // nil for none

	SkinTexture    *image.NRGBA
	FoliageTexture *image.NRGBA
	GroundTexture  *image.NRGBA

	// Bands overrides the joint-derived vertex classification.
	Bands *skinning.Bands
	// BandJoints are the joints the default bands are derived from;
	// empty selects TrunkChain(Definition).
	BandJoints []skeleton.JointID

	Policy skinning.SingularPolicy
	Camera Camera
}

// DefaultTrunk is the default skin: a tube covering the trunk chain.
func DefaultTrunk() *mesh.Mesh {
	return mesh.Cylinder(0.15, 3.5, 12, 28)
}

// DefaultFoliage scatters leaves around the top of the trunk.
func DefaultFoliage() *mesh.Mesh {
	return mesh.Foliage(mesh.FoliageOptions{Count: 60, Seed: 1, Radius: 1.1, MinY: 2.7, MaxY: 3.9, Size: 0.35})
}

// DefaultGround is a 40×40 plane.
func DefaultGround() *mesh.Mesh {
	return mesh.Plane(40, 20)
}

// TrunkChain walks from the first root through each joint's first
// listed child down to a leaf.
func TrunkChain(def *kinematics.Definition) []skeleton.JointID {
	children := make(map[skeleton.JointID][]skeleton.JointID)
	var root skeleton.JointID = skeleton.NoParent
	for _, j := range def.Joints {
		if j.Parent == skeleton.NoParent {
			if root == skeleton.NoParent {
				root = j.ID
			}
			continue
		}
		children[j.Parent] = append(children[j.Parent], j.ID)
	}
	if root == skeleton.NoParent {
		return nil
	}
	chain := []skeleton.JointID{root}
	for cur := root; len(children[cur]) > 0; {
		cur = children[cur][0]
		chain = append(chain, cur)
	}
	return chain
}

// Scene owns one skeleton and everything that animates or draws with it.
type Scene struct {
	Skeleton *skeleton.Skeleton
	Pose     *kinematics.Solver
	Skinner  *skinning.Solver
	Driver   *anim.Driver
	Camera   Camera

	Bands      skinning.Bands
	SkinJoints []skeleton.JointID

	skin    *gfx.Drawable
	foliage *gfx.Drawable
	ground  *gfx.Drawable
	// foliage follows this joint's skinning matrix
	crown skeleton.JointID

	bones []mgl32.Mat4
}

// New builds a scene from assets.
func New(a Assets) (*Scene, error) {
	def := a.Definition
	if def == nil {
		def = kinematics.DefaultDefinition()
	}
	script := a.Script
	if script == nil {
		script = anim.DefaultScript()
	}

	sk, err := def.BuildSkeleton(gfx.DefaultUniforms())
	if err != nil {
		return nil, errors.Wrap(err, "build skeleton")
	}
	pose, err := kinematics.NewSolver(def)
	if err != nil {
		return nil, err
	}
	driver, err := anim.NewDriver(script, def)
	if err != nil {
		return nil, errors.Wrap(err, "animation script")
	}
	skinner := skinning.NewSolver(sk, pose, def.BindCoordinates(), a.Policy)

	s := &Scene{
		Skeleton: sk,
		Pose:     pose,
		Skinner:  skinner,
		Driver:   driver,
		Camera:   a.Camera,
	}
	if s.Camera == (Camera{}) {
		s.Camera = DefaultCamera()
	}

	skinMesh := a.Skin
	if skinMesh == nil {
		skinMesh = DefaultTrunk()
	}
	if a.Bands != nil {
		s.Bands = *a.Bands
	} else {
		ids := a.BandJoints
		if len(ids) == 0 {
			ids = TrunkChain(def)
		}
		bindWorld, err := skinner.BindWorldTransforms()
		if err != nil {
			return nil, err
		}
		if s.Bands, err = skinning.BandsFromJoints(bindWorld, ids, 1); err != nil {
			return nil, err
		}
	}
	for _, id := range s.Bands.Joints {
		if _, ok := sk.Joint(id); !ok {
			return nil, errors.Wrapf(skeleton.ErrUnknownJoint, "band joint %d", id)
		}
	}
	if s.SkinJoints, err = skinning.Classify(skinMesh.Positions, s.Bands); err != nil {
		return nil, errors.Wrap(err, "classify skin")
	}
	s.skin = skinMesh.Drawable(a.SkinTexture, color.NRGBA{R: 120, G: 90, B: 60, A: 255})
	s.skin.BoneIndices = skinning.BoneIndices(s.SkinJoints)
	s.crown = s.Bands.Joints[len(s.Bands.Joints)-1]

	if a.Ground != nil {
		s.ground = a.Ground.Drawable(a.GroundTexture, color.NRGBA{G: 200, A: 255})
	}
	if a.Foliage != nil {
		s.foliage = a.Foliage.Drawable(a.FoliageTexture, color.NRGBA{R: 60, G: 150, B: 50, A: 255})
	}
	return s, nil
}

// FrameInfo describes one rendered frame.
type FrameInfo struct {
	Time        float64
	Coordinates kinematics.Coordinates
	Draws       int
}

// countingRenderer counts draw calls on the way through.
type countingRenderer struct {
	gfx.Renderer
	draws int
}

func (c *countingRenderer) Draw(t gfx.Topology, n int) {
	c.draws++
	c.Renderer.Draw(t, n)
}

// Frame renders the scene at time t with the given aspect ratio.
func (s *Scene) Frame(r gfx.Renderer, t float64, aspect float32) (FrameInfo, error) {
	q, err := s.Driver.Coordinates(t)
	if err != nil {
		return FrameInfo{}, err
	}
	return s.FrameAt(r, t, q, aspect)
}

// FrameAt renders the scene posed at q. The skeleton is left in that
// pose.
func (s *Scene) FrameAt(r gfx.Renderer, t float64, q kinematics.Coordinates, aspect float32) (FrameInfo, error) {
	cr := &countingRenderer{Renderer: r}
	view := s.Camera.View()
	proj := s.Camera.Projection(aspect)
	u := s.Skeleton.Uniforms()

	skin, err := s.Skinner.ComputeSkinningTransforms(q)
	if err != nil {
		return FrameInfo{}, err
	}

	cr.UniformInt(gfx.SlotUseSkinning, 0)
	s.Skeleton.Draw(cr, view, proj)

	draw := func(d *gfx.Drawable, model mgl32.Mat4) {
		cr.UniformMatrix(u.Model, model)
		cr.UniformMatrix(u.View, view)
		cr.UniformMatrix(u.Projection, proj)
		cr.Bind(d)
		cr.Draw(d.Topology, d.Count())
	}

	if s.ground != nil {
		draw(s.ground, mgl32.Ident4())
	}

	s.bones = s.bones[:0]
	for _, m := range skin {
		s.bones = append(s.bones, m.GL())
	}
	cr.UniformMatrices(gfx.SlotBones, s.bones)
	cr.UniformInt(gfx.SlotUseSkinning, 1)
	draw(s.skin, mgl32.Ident4())
	cr.UniformInt(gfx.SlotUseSkinning, 0)

	if s.foliage != nil {
		model := mathutil.Mat4Identity()
		if int(s.crown) < len(skin) {
			model = skin[s.crown]
		}
		draw(s.foliage, model.GL())
	}

	return FrameInfo{Time: t, Coordinates: q, Draws: cr.draws}, nil
}

// SkinDrawable exposes the skinned mesh with its bone indices.
func (s *Scene) SkinDrawable() *gfx.Drawable {
	return s.skin
}

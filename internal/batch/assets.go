package batch

import (
	"fmt"
	"image"

	"skeleton-renderer/internal/anim"
	"skeleton-renderer/internal/config"
	"skeleton-renderer/internal/kinematics"
	"skeleton-renderer/internal/mesh"
	"skeleton-renderer/internal/scene"
	"skeleton-renderer/internal/skeleton"
	"skeleton-renderer/internal/skinning"
	"skeleton-renderer/internal/texture"
)

// LoadAssets reads everything the config points at. The result is
// read-only and may back any number of scenes.
func LoadAssets(cfg config.Config, tex *texture.Cache) (scene.Assets, error) {
	var a scene.Assets

	def := kinematics.DefaultDefinition()
	if cfg.SkeletonFile != "" {
		var err error
		if def, err = kinematics.LoadDefinition(cfg.SkeletonFile); err != nil {
			return a, fmt.Errorf("batch: %w", err)
		}
	}
	a.Definition = def

	script := anim.DefaultScript()
	if cfg.Script != "" {
		var err error
		if script, err = anim.LoadScript(cfg.Script); err != nil {
			return a, fmt.Errorf("batch: %w", err)
		}
	}
	if cfg.FPS > 0 {
		s := *script
		s.FPS = cfg.FPS
		script = &s
	}
	a.Script = script

	if cfg.SkinMesh != "" {
		m, err := mesh.LoadGLTF(cfg.SkinMesh)
		if err != nil {
			return a, fmt.Errorf("batch: skin mesh: %w", err)
		}
		a.Skin = m
	}
	if !cfg.NoGround {
		a.Ground = scene.DefaultGround()
	}
	if !cfg.NoFoliage {
		a.Foliage = scene.DefaultFoliage()
	}

	var err error
	if a.SkinTexture, err = resolve(tex, cfg.SkinTexture, "bark", func() *image.NRGBA { return texture.Bark(128, 1) }); err != nil {
		return a, err
	}
	if a.GroundTexture, err = resolve(tex, cfg.GroundTexture, "ground", texture.Ground); err != nil {
		return a, err
	}
	if a.FoliageTexture, err = resolve(tex, cfg.LeafTexture, "leaf", func() *image.NRGBA { return texture.Leaf(64) }); err != nil {
		return a, err
	}

	policy, err := skinning.ParseSingularPolicy(cfg.SingularPolicy)
	if err != nil {
		return a, fmt.Errorf("batch: %w", err)
	}
	a.Policy = policy

	if cfg.Bands != nil {
		b := skinning.Bands{Axis: cfg.Bands.Axis, Thresholds: cfg.Bands.Thresholds}
		for _, j := range cfg.Bands.Joints {
			b.Joints = append(b.Joints, skeleton.JointID(j))
		}
		if err := b.Validate(); err != nil {
			return a, fmt.Errorf("batch: %w", err)
		}
		a.Bands = &b
	}
	return a, nil
}

// resolve loads the configured name, which must exist, or else the
// stem from the asset dir, or else the procedural fallback.
func resolve(tex *texture.Cache, name, stem string, fallback func() *image.NRGBA) (*image.NRGBA, error) {
	if name != "" {
		img, err := tex.Load(name)
		if err != nil {
			return nil, fmt.Errorf("batch: texture: %w", err)
		}
		return img, nil
	}
	img, err := tex.LoadOr(stem, fallback)
	if err != nil {
		return nil, fmt.Errorf("batch: texture %s: %w", stem, err)
	}
	return img, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths, relative ones resolved against BaseDir
	BaseDir       string `json:"base_dir"`
	SkeletonFile  string `json:"skeleton"`    // YAML definition path or built-in figure name
	Script        string `json:"script"`      // YAML script path or built-in name
	SkinMesh      string `json:"skin_mesh"`   // glTF/GLB; empty for the procedural trunk
	AssetDir      string `json:"asset_dir"`   // searched by texture stem
	SkinTexture   string `json:"skin_texture"`
	GroundTexture string `json:"ground_texture"`
	LeafTexture   string `json:"leaf_texture"`
	OutputDir     string `json:"output_dir"`

	// Render settings
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Supersample  int       `json:"supersample"`
	Workers      int       `json:"workers"`
	Frames       int       `json:"frames"` // 0: the script's own frame count
	FPS          float64   `json:"fps"`    // 0: the script's own rate
	OrbitDegrees float64   `json:"orbit_degrees"`
	Wireframe    bool      `json:"wireframe"`
	NoGround     bool      `json:"no_ground"`
	NoFoliage    bool      `json:"no_foliage"`
	Background   *[4]uint8 `json:"background"`

	// Skinning
	SingularPolicy string       `json:"singular_policy"`
	Bands          *BandsConfig `json:"bands"`
}

// BandsConfig fixes the vertex classification instead of deriving it
// from joint heights.
type BandsConfig struct {
	Axis       int       `json:"axis"`
	Thresholds []float64 `json:"thresholds"`
	Joints     []int     `json:"joints"`
}

// Load reads a JSON config file and returns Config. BaseDir defaults to
// the file's directory. Fields not set in the file keep their zero
// values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(path)
	} else if !filepath.IsAbs(cfg.BaseDir) {
		cfg.BaseDir = filepath.Join(filepath.Dir(path), cfg.BaseDir)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir      string
	Script         string
	SkeletonFile   string
	Width          int
	Height         int
	Frames         int
	Workers        int
	SingularPolicy string
}

// Resolve applies CLI overrides, fills defaults and makes paths
// absolute. CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Script != "" {
		c.Script = flags.Script
	}
	if flags.SkeletonFile != "" {
		c.SkeletonFile = flags.SkeletonFile
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.SingularPolicy != "" {
		c.SingularPolicy = flags.SingularPolicy
	}

	if c.BaseDir == "" {
		c.BaseDir, _ = os.Getwd()
	}
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	for _, p := range []*string{&c.SkinMesh, &c.AssetDir, &c.OutputDir} {
		c.abs(p)
	}
	// Script and skeleton may name a built-in; only resolve them when
	// they look like files.
	for _, p := range []*string{&c.Script, &c.SkeletonFile} {
		if filepath.Ext(*p) != "" {
			c.abs(p)
		}
	}
	for _, p := range []*string{&c.SkinTexture, &c.GroundTexture, &c.LeafTexture} {
		if filepath.Ext(*p) != "" {
			c.abs(p)
		}
	}

	if c.Width <= 0 {
		c.Width = 512
	}
	if c.Height <= 0 {
		c.Height = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.SingularPolicy == "" {
		c.SingularPolicy = "identity"
	}
}

func (c *Config) abs(p *string) {
	if *p != "" && !filepath.IsAbs(*p) {
		*p = filepath.Join(c.BaseDir, *p)
	}
}

// BackgroundColor is the clear color, mid gray unless configured.
func (c *Config) BackgroundColor() color.NRGBA {
	if c.Background == nil {
		return color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	}
	b := *c.Background
	return color.NRGBA{R: b[0], G: b[1], B: b[2], A: b[3]}
}

// Package anim drives generalized coordinates over time from scripted
// expressions.
package anim

import (
	"embed"
	"math"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed scripts/*.yaml
var builtin embed.FS

// Script maps coordinate names to expressions of t (seconds), frame,
// duration and pi. All, when set, drives every coordinate not listed in
// Coordinates.
type Script struct {
	FPS         float64           `yaml:"fps"`
	Duration    float64           `yaml:"duration"`
	All         string            `yaml:"all,omitempty"`
	Coordinates map[string]string `yaml:"coordinates"`
}

// FrameCount is the number of frames covering Duration.
func (s *Script) FrameCount() int {
	return int(math.Round(s.Duration * s.FPS))
}

// FrameTime is the time of frame i in seconds.
func (s *Script) FrameTime(i int) float64 {
	return float64(i) / s.FPS
}

// Validate checks timing only; expressions are checked by NewDriver.
func (s *Script) Validate() error {
	if s.FPS <= 0 || math.IsNaN(s.FPS) {
		return errors.Errorf("fps must be positive, got %v", s.FPS)
	}
	if s.Duration < 0 || math.IsNaN(s.Duration) {
		return errors.Errorf("duration must not be negative, got %v", s.Duration)
	}
	return nil
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "parse script")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScript reads a script file, or a built-in script when path names
// one (see Builtins).
func LoadScript(p string) (*Script, error) {
	if s, err := Builtin(p); err == nil {
		return s, nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.Wrapf(err, "read script %s", p)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, errors.Wrapf(err, "script %s", p)
	}
	return s, nil
}

// Builtin returns an embedded script by name.
func Builtin(name string) (*Script, error) {
	data, err := builtin.ReadFile(path.Join("scripts", name+".yaml"))
	if err != nil {
		return nil, errors.Errorf("no built-in script %q", name)
	}
	return ParseScript(data)
}

// Builtins lists the embedded script names.
func Builtins() []string {
	entries, _ := builtin.ReadDir("scripts")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// DefaultScript is the built-in sway.
func DefaultScript() *Script {
	s, err := Builtin("sway")
	if err != nil {
		panic(err)
	}
	return s
}

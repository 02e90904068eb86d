package anim

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"skeleton-renderer/internal/kinematics"
)

func TestRampDrivesEveryCoordinate(t *testing.T) {
	def := kinematics.DefaultDefinition()
	s, err := Builtin("ramp")
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	d, err := NewDriver(s, def)
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	q, err := d.Frame(5)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	if len(q) != len(def.Coordinates) {
		t.Fatalf("coordinates got=%d want=%d", len(q), len(def.Coordinates))
	}
	for c, v := range q {
		if math.Abs(v-2.4) > 1e-12 {
			t.Fatalf("coordinate %d got=%v want=2.4", c, v)
		}
	}
}

func TestSwayAtZero(t *testing.T) {
	def := kinematics.DefaultDefinition()
	d, err := NewDriver(DefaultScript(), def)
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	if n := d.Script().FrameCount(); n != 48 {
		t.Fatalf("frame count got=%d want=48", n)
	}
	q, err := d.Coordinates(0)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	c, _ := def.CoordinateIndex("hip_r_flex")
	if math.Abs(q[c]-3) > 1e-12 {
		t.Fatalf("hip_r_flex at t=0 got=%v want=3", q[c])
	}
	c, _ = def.CoordinateIndex("pelvis_rot_x")
	if _, ok := q[c]; ok {
		t.Fatalf("undriven coordinate should be absent")
	}
}

func TestFunctions(t *testing.T) {
	def := kinematics.DefaultDefinition()
	s := &Script{FPS: 10, Duration: 1, Coordinates: map[string]string{
		"root_tx": "clamp(t * 10, 0, 3)",
		"root_ty": "max(abs(-2), min(1, 5))",
		"root_tz": "cos(pi)",
	}}
	d, err := NewDriver(s, def)
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	q, err := d.Coordinates(0.5)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	want := map[string]float64{"root_tx": 3, "root_ty": 2, "root_tz": -1}
	for n, w := range want {
		c, _ := def.CoordinateIndex(n)
		if math.Abs(q[c]-w) > 1e-12 {
			t.Fatalf("%s got=%v want=%v", n, q[c], w)
		}
	}
}

func TestDriverRejects(t *testing.T) {
	def := kinematics.DefaultDefinition()
	cases := map[string]*Script{
		"unknown coordinate": {FPS: 24, Coordinates: map[string]string{"tail": "1"}},
		"unknown variable":   {FPS: 24, Coordinates: map[string]string{"root_tx": "speed * t"}},
		"syntax":             {FPS: 24, Coordinates: map[string]string{"root_tx": "1 +"}},
		"zero fps":           {FPS: 0},
	}
	for name, s := range cases {
		if _, err := NewDriver(s, def); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadScriptFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "walk.yaml")
	if err := os.WriteFile(p, []byte("fps: 30\nduration: 1\ncoordinates:\n  knee_r_flex: \"-20\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := LoadScript(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.FrameCount() != 30 {
		t.Fatalf("frames got=%d want=30", s.FrameCount())
	}
	if got := Builtins(); len(got) != 2 || got[0] != "ramp" || got[1] != "sway" {
		t.Fatalf("builtins got=%v", got)
	}
}

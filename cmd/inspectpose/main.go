package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	"skeleton-renderer/internal/batch"
	"skeleton-renderer/internal/config"
	"skeleton-renderer/internal/gfx"
	"skeleton-renderer/internal/kinematics"
	"skeleton-renderer/internal/scene"
	"skeleton-renderer/internal/texture"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	script := flag.String("script", "", "Animation script: YAML path or built-in name")
	skeletonFile := flag.String("skeleton", "", "Skeleton definition: YAML path or built-in figure (default, reference)")
	frame := flag.Int("frame", -1, "Frame index to inspect (overrides -t)")
	at := flag.Float64("t", 0, "Time in seconds")
	calls := flag.Bool("calls", true, "Print the renderer call list")
	verbose := flag.Bool("v", false, "Dump every matrix with spew")
	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{Script: *script, SkeletonFile: *skeletonFile})

	assets, err := batch.LoadAssets(cfg, texture.NewCache(nil))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	sc, err := scene.New(assets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	def := sc.Pose.Definition()

	t := *at
	var q kinematics.Coordinates
	if *frame >= 0 {
		t = assets.Script.FrameTime(*frame)
		q, err = sc.Driver.Frame(*frame)
	} else {
		q, err = sc.Driver.Coordinates(t)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Skeleton: %s, joints=%d, slots=%d, bodies=%d\n",
		def.Name, sc.Skeleton.JointCount(), sc.Skeleton.SlotCount(), len(sc.Skeleton.BodyIDs()))
	fmt.Printf("Time: %.3fs\n", t)

	fmt.Println("\nCoordinates:")
	for i, name := range def.Coordinates {
		if v, ok := q[kinematics.Coordinate(i)]; ok {
			fmt.Printf("  %-16s %8.3f\n", name, v)
		}
	}

	rec := &gfx.Recorder{}
	info, err := sc.FrameAt(rec, t, q, 1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	skin, err := sc.Skinner.ComputeSkinningTransforms(q)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	locals := sc.Pose.ComputePose(q)
	world := sc.Skeleton.JointWorldTransforms()

	fmt.Println("\nJoints:")
	for _, jd := range def.Joints {
		w := world[jd.ID].Translation()
		state := "moved"
		if skin[jd.ID].IsIdentity() {
			state = "at bind"
		}
		fmt.Printf("  [%2d] %-14s parent=%-3d world=(%.3f, %.3f, %.3f) %s\n", jd.ID, jd.Name, jd.Parent, w[0], w[1], w[2], state)
	}

	fmt.Printf("\nBands (axis %d):\n", sc.Bands.Axis)
	for i, j := range sc.Bands.Joints {
		lo, hi := "-inf", "+inf"
		if i > 0 {
			lo = fmt.Sprintf("%.3f", sc.Bands.Thresholds[i-1])
		}
		if i < len(sc.Bands.Thresholds) {
			hi = fmt.Sprintf("%.3f", sc.Bands.Thresholds[i])
		}
		fmt.Printf("  [%s, %s) -> joint %d\n", lo, hi, j)
	}
	counts := map[int]int{}
	for _, j := range sc.SkinJoints {
		counts[int(j)]++
	}
	fmt.Printf("  vertices per joint: %v\n", counts)

	if *verbose {
		cs := spew.ConfigState{Indent: "  ", SortKeys: true, DisableMethods: true}
		fmt.Println("\nLocal transforms:")
		cs.Dump(locals)
		fmt.Println("\nWorld transforms:")
		cs.Dump(world)
		fmt.Println("\nSkinning transforms:")
		cs.Dump(skin)
	}

	if *calls {
		fmt.Printf("\nRenderer calls (%d draws):\n", info.Draws)
		for i, c := range rec.Calls {
			fmt.Printf("  %3d %s\n", i, c)
		}
	}
}

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"skeleton-renderer/internal/batch"
	"skeleton-renderer/internal/config"
	"skeleton-renderer/internal/scene"
	"skeleton-renderer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	script := flag.String("script", "", "Animation script: YAML path or built-in name (sway, ramp)")
	skeletonFile := flag.String("skeleton", "", "Skeleton definition: YAML path or built-in figure (default, reference)")
	frames := flag.Int("frames", 0, "Number of frames (default: script duration × fps)")
	width := flag.Int("width", 0, "Output width (default: 512)")
	height := flag.Int("height", 0, "Output height (default: 512)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	policy := flag.String("singular", "", "Singular bind transform policy: identity or fail")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir:      *outputDir,
		Script:         *script,
		SkeletonFile:   *skeletonFile,
		Width:          *width,
		Height:         *height,
		Frames:         *frames,
		Workers:        *workers,
		SingularPolicy: *policy,
	})

	texIndex := texture.BuildIndex(cfg.AssetDir)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	assets, err := batch.LoadAssets(cfg, texCache)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading assets: %v\n", err)
		os.Exit(1)
	}
	// Fail on a broken skeleton or script before any worker starts.
	if _, err := scene.New(assets); err != nil {
		fmt.Fprintf(os.Stderr, "Error building scene: %v\n", err)
		os.Exit(1)
	}

	n := cfg.Frames
	if n <= 0 {
		n = assets.Script.FrameCount()
	}
	if n <= 0 {
		fmt.Println("No frames to render.")
		os.Exit(0)
	}
	fps := assets.Script.FPS

	fmt.Printf("Skeleton animation → WebP (%s, %d joints)\n", assets.Definition.Name, len(assets.Definition.Joints))
	fmt.Printf("Frames: %d @ %.0f fps, %dx%d ×%d, Workers: %d\n", n, fps, cfg.Width, cfg.Height, cfg.Supersample, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	batchCfg := batch.Config{
		OutputDir:    cfg.OutputDir,
		Width:        cfg.Width,
		Height:       cfg.Height,
		Supersample:  cfg.Supersample,
		Workers:      cfg.Workers,
		Background:   cfg.BackgroundColor(),
		Wireframe:    cfg.Wireframe,
		OrbitDegrees: cfg.OrbitDegrees,
		NewScene:     func() (*scene.Scene, error) { return scene.New(assets) },
	}

	results := batch.Run(batchCfg, batch.Frames(n, fps))

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	failed := batch.Failed(results)
	fmt.Printf("Rendered: %d/%d\n", len(results)-len(failed), len(results))

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		limit := 20
		if len(failed) < limit {
			limit = len(failed)
		}
		for _, e := range failed[:limit] {
			fmt.Printf("  frame %d (t=%.3fs): %s\n", e.Index, e.Time, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	manifest := batch.NewManifest(cfg.Width, cfg.Height, fps, results)
	if err := batch.WriteManifest(manifestPath, manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing manifest: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Manifest: %s\n", manifestPath)

	if len(failed) > 0 {
		os.Exit(1)
	}
}

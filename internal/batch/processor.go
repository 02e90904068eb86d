// Package batch renders animation frames with a worker pool and writes
// them as WebP files plus a JSON manifest.
package batch

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"skeleton-renderer/internal/postprocess"
	"skeleton-renderer/internal/raster"
	"skeleton-renderer/internal/scene"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir    string
	Width        int
	Height       int
	Supersample  int
	Workers      int
	Background   color.NRGBA
	Wireframe    bool
	OrbitDegrees float64 // total camera orbit over the whole run
	Quiet        bool

	// NewScene is called once per worker. Scenes are not shared.
	NewScene func() (*scene.Scene, error)
}

// Frame is one unit of work.
type Frame struct {
	Index int
	Time  float64
}

// Frames returns n frames spaced 1/fps apart.
func Frames(n int, fps float64) []Frame {
	out := make([]Frame, n)
	for i := range out {
		out[i] = Frame{Index: i, Time: float64(i) / fps}
	}
	return out
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Index       int
	Time        float64
	File        string
	Coordinates map[string]float64
	Draws       int
	Success     bool
	Error       string
}

// Run renders all frames using a worker pool.
func Run(cfg Config, frames []Frame) []Result {
	total := len(frames)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if !cfg.Quiet {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Printf("  [%d/%d] %.1f frames/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	workers := cfg.Workers
	if workers > total {
		workers = total
	}
	if workers < 1 {
		workers = 1
	}

	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	span := 0.0
	if total > 0 {
		span = frames[total-1].Time
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wk, err := newWorker(cfg)
			for idx := range frameChan {
				if err != nil {
					results[idx] = Result{Index: frames[idx].Index, Time: frames[idx].Time, Error: err.Error()}
				} else {
					results[idx] = wk.render(frames[idx], span)
				}
				processed.Add(1)
			}
		}()
	}

	for i := range frames {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

type worker struct {
	cfg   Config
	scene *scene.Scene
	base  scene.Camera
	r     *raster.Renderer
}

func newWorker(cfg Config) (*worker, error) {
	s, err := cfg.NewScene()
	if err != nil {
		return nil, fmt.Errorf("batch: scene: %w", err)
	}
	ss := cfg.Supersample
	if ss < 1 {
		ss = 1
	}
	r := raster.New(cfg.Width*ss, cfg.Height*ss, s.Skeleton.Uniforms())
	r.LineWidth = ss
	r.PointSize = 3 * ss
	r.Wireframe = cfg.Wireframe
	return &worker{cfg: cfg, scene: s, base: s.Camera, r: r}, nil
}

func (w *worker) render(f Frame, span float64) Result {
	res := Result{Index: f.Index, Time: f.Time}

	if span > 0 {
		w.scene.Camera = w.base.Orbit(w.cfg.OrbitDegrees * f.Time / span)
	}
	w.r.Clear(w.cfg.Background)
	info, err := w.scene.Frame(w.r, f.Time, float32(w.cfg.Width)/float32(w.cfg.Height))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Draws = info.Draws
	res.Coordinates = namedCoordinates(w.scene, info)
	img := postprocess.Downsample(w.r.Image(), w.cfg.Width, w.cfg.Height)

	res.File = fmt.Sprintf("frame_%04d.webp", f.Index)
	if err := writeWebP(filepath.Join(w.cfg.OutputDir, res.File), img); err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	return res
}

func namedCoordinates(s *scene.Scene, info scene.FrameInfo) map[string]float64 {
	names := s.Pose.Definition().Coordinates
	out := make(map[string]float64, len(info.Coordinates))
	for c, v := range info.Coordinates {
		if int(c) < len(names) {
			out[names[c]] = v
		}
	}
	return out
}

func writeWebP(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("batch: mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("batch: create %s: %w", path, err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("batch: webp encode %s: %w", path, err)
	}
	return nil
}

// Failed returns the failed results ordered by frame index.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Success {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

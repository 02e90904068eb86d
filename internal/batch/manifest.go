package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Index       int                `json:"index"`
	Time        float64            `json:"time"`
	Image       string             `json:"image"`
	Draws       int                `json:"draws"`
	Coordinates map[string]float64 `json:"coordinates"`
}

// Manifest is the manifest.json document.
type Manifest struct {
	Width  int             `json:"width"`
	Height int             `json:"height"`
	FPS    float64         `json:"fps"`
	Frames []ManifestEntry `json:"frames"`
}

// NewManifest lists the successful results in frame order.
func NewManifest(width, height int, fps float64, results []Result) Manifest {
	m := Manifest{Width: width, Height: height, FPS: fps, Frames: []ManifestEntry{}}
	for _, r := range results {
		if !r.Success {
			continue
		}
		m.Frames = append(m.Frames, ManifestEntry{
			Index:       r.Index,
			Time:        r.Time,
			Image:       r.File,
			Draws:       r.Draws,
			Coordinates: r.Coordinates,
		})
	}
	return m
}

// WriteManifest writes manifest.json, creating its directory.
func WriteManifest(path string, m Manifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("batch: manifest dir: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("batch: manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("batch: manifest %s: %w", path, err)
	}
	return m, nil
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/qmuntal/gltf"

	"skeleton-renderer/internal/batch"
	"skeleton-renderer/internal/config"
	"skeleton-renderer/internal/mesh"
	"skeleton-renderer/internal/scene"
	"skeleton-renderer/internal/skeleton"
	"skeleton-renderer/internal/skinning"
	"skeleton-renderer/internal/texture"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	output := flag.String("o", "skin.glb", "Output file (.gltf or .glb)")
	skeletonFile := flag.String("skeleton", "", "Skeleton definition: YAML path or built-in figure (default, reference)")
	script := flag.String("script", "", "Animation script used with -posed")
	posed := flag.Bool("posed", false, "Export the skin deformed at -frame instead of the rig")
	frame := flag.Int("frame", 0, "Frame index for -posed")
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
	skin := assets.Skin
	if skin == nil {
		skin = scene.DefaultTrunk()
	}

	var doc *gltf.Document
	if *posed {
		doc, err = exportPosed(sc, skin, *frame)
	} else {
		doc, err = exportRig(sc, skin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := mesh.SaveGLTF(doc, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d vertices, %d triangles → %s\n", len(skin.Positions), len(skin.Indices)/3, *output)
}

// rig lists the skeleton's joints with their bind-pose transforms,
// parents first.
func rig(sc *scene.Scene) ([]mesh.RigJoint, error) {
	def := sc.Pose.Definition()
	bindWorld, err := sc.Skinner.BindWorldTransforms()
	if err != nil {
		return nil, err
	}
	locals := sc.Pose.ComputePose(def.BindCoordinates())

	names := make(map[skeleton.JointID]string, len(def.Joints))
	for _, jd := range def.Joints {
		names[jd.ID] = jd.Name
	}
	var joints []mesh.RigJoint
	for _, id := range sc.Skeleton.JointIDs() {
		j, _ := sc.Skeleton.Joint(id)
		joints = append(joints, mesh.RigJoint{
			ID:        id,
			Name:      names[id],
			Parent:    j.Parent,
			Local:     locals[id],
			BindWorld: bindWorld[id],
		})
	}
	return joints, nil
}

func exportRig(sc *scene.Scene, skin *mesh.Mesh) (*gltf.Document, error) {
	joints, err := rig(sc)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Rig: %d joints, %d bands\n", len(joints), len(sc.Bands.Joints))
	return mesh.ExportRigged(skin, joints, sc.SkinJoints)
}

func exportPosed(sc *scene.Scene, skin *mesh.Mesh, frame int) (*gltf.Document, error) {
	q, err := sc.Driver.Frame(frame)
	if err != nil {
		return nil, err
	}
	matrices, err := sc.Skinner.ComputeSkinningTransforms(q)
	if err != nil {
		return nil, err
	}
	posed := *skin
	posed.Positions, posed.Normals = skinning.Deform(skin.Positions, skin.Normals, sc.SkinJoints, matrices)
	fmt.Printf("Posed at frame %d (t=%.3fs)\n", frame, sc.Driver.Script().FrameTime(frame))
	return mesh.ExportStatic(&posed), nil
}

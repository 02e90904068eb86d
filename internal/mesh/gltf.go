package mesh

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"skeleton-renderer/internal/mathutil"
	"skeleton-renderer/internal/skeleton"
)

// LoadGLTF reads every triangle primitive of a .gltf or .glb file into
// one mesh. Node transforms are not applied; the file is expected to be
// authored in skeleton space.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	m, err := FromDocument(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// DecodeGLTF reads a document from r, glTF JSON or GLB.
func DecodeGLTF(r io.Reader) (*Mesh, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, errors.Wrap(err, "decode gltf")
	}
	return FromDocument(doc)
}

// FromDocument merges the triangle primitives of doc.
func FromDocument(doc *gltf.Document) (*Mesh, error) {
	out := &Mesh{}
	for _, gm := range doc.Meshes {
		if out.Name == "" {
			out.Name = gm.Name
		}
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			part, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, errors.Wrapf(err, "mesh %q primitive %d", gm.Name, pi)
			}
			out.Append(part)
		}
	}
	if len(out.Positions) == 0 {
		return nil, errors.New("no triangle primitives")
	}
	return out, nil
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, errors.Wrap(err, "read positions")
	}
	m := &Mesh{Positions: positions}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if m.Normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, errors.Wrap(err, "read normals")
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if m.UVs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, errors.Wrap(err, "read uvs")
		}
	}
	if prim.Indices != nil {
		if m.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, errors.Wrap(err, "read indices")
		}
	} else {
		m.Indices = make([]uint32, len(positions))
		for i := range m.Indices {
			m.Indices[i] = uint32(i)
		}
	}
	return m, nil
}

// RigJoint is one joint of an exported skin.
type RigJoint struct {
	ID        skeleton.JointID
	Name      string
	Parent    skeleton.JointID
	Local     mathutil.Mat4 // bind-pose local transform
	BindWorld mathutil.Mat4
}

// ExportRigged builds a document holding m skinned to joints. joints
// must list parents before children; vertexJoints gives the single
// joint driving each vertex.
func ExportRigged(m *Mesh, joints []RigJoint, vertexJoints []skeleton.JointID) (*gltf.Document, error) {
	if len(vertexJoints) != len(m.Positions) {
		return nil, errors.Errorf("%d vertex joints for %d vertices", len(vertexJoints), len(m.Positions))
	}
	doc := gltf.NewDocument()

	slot := make(map[skeleton.JointID]int, len(joints))
	skin := &gltf.Skin{Name: "skeleton"}
	ibm := make([][4][4]float32, len(joints))
	for i, j := range joints {
		node := &gltf.Node{Name: j.Name}
		setMatrix(&node.Matrix, j.Local.GL())
		nodeIdx := uint32(len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, node)

		if j.Parent == skeleton.NoParent {
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, nodeIdx)
		} else {
			p, ok := slot[j.Parent]
			if !ok {
				return nil, errors.Wrapf(skeleton.ErrUnknownJoint, "parent %d of joint %d not exported before it", j.Parent, j.ID)
			}
			parent := doc.Nodes[skin.Joints[p]]
			parent.Children = append(parent.Children, nodeIdx)
		}
		slot[j.ID] = i
		skin.Joints = append(skin.Joints, nodeIdx)

		inv, ok := j.BindWorld.Inverse()
		if !ok {
			return nil, errors.Errorf("joint %d: singular bind transform", j.ID)
		}
		g := inv.GL()
		for c := 0; c < 4; c++ {
			for r := 0; r < 4; r++ {
				ibm[i][c][r] = g[c*4+r]
			}
		}
	}

	weights := make([][4]float32, len(vertexJoints))
	jointAttr := make([][4]uint16, len(vertexJoints))
	for i, id := range vertexJoints {
		s, ok := slot[id]
		if !ok {
			return nil, errors.Wrapf(skeleton.ErrUnknownJoint, "vertex %d joint %d", i, id)
		}
		jointAttr[i] = [4]uint16{uint16(s), 0, 0, 0}
		weights[i] = [4]float32{1, 0, 0, 0}
	}

	skin.InverseBindMatrices = gltf.Index(modeler.WriteAccessor(doc, gltf.TargetNone, ibm))
	doc.Skins = append(doc.Skins, skin)

	attrs := meshAttributes(doc, m)
	attrs[gltf.JOINTS_0] = modeler.WriteJoints(doc, jointAttr)
	attrs[gltf.WEIGHTS_0] = modeler.WriteWeights(doc, weights)
	meshIdx := addMesh(doc, m, attrs)

	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: m.Name,
		Mesh: gltf.Index(meshIdx),
		Skin: gltf.Index(uint32(len(doc.Skins) - 1)),
	})
	return doc, nil
}

// ExportStatic builds a document holding m as an unskinned mesh.
func ExportStatic(m *Mesh) *gltf.Document {
	doc := gltf.NewDocument()
	meshIdx := addMesh(doc, m, meshAttributes(doc, m))
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: m.Name, Mesh: gltf.Index(meshIdx)})
	return doc
}

func meshAttributes(doc *gltf.Document, m *Mesh) map[string]uint32 {
	attrs := map[string]uint32{
		gltf.POSITION: modeler.WritePosition(doc, m.Positions),
	}
	if len(m.Normals) == len(m.Positions) {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, m.Normals)
	}
	if len(m.UVs) == len(m.Positions) {
		attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, m.UVs)
	}
	return attrs
}

func addMesh(doc *gltf.Document, m *Mesh, attrs map[string]uint32) uint32 {
	if len(doc.Materials) == 0 {
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name:        "default",
			DoubleSided: true,
		})
	}
	indices := modeler.WriteIndices(doc, m.Indices)
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: m.Name,
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indices),
			Attributes: attrs,
			Material:   gltf.Index(0),
		}},
	})
	return uint32(len(doc.Meshes) - 1)
}

func setMatrix[T float32 | float64](dst *[16]T, m mgl32.Mat4) {
	for i, v := range m {
		dst[i] = T(v)
	}
}

// SaveGLTF writes doc as GLB when path ends in .glb and as glTF JSON
// otherwise.
func SaveGLTF(doc *gltf.Document, path string) error {
	var err error
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		err = gltf.SaveBinary(doc, path)
	} else {
		err = gltf.Save(doc, path)
	}
	return errors.Wrapf(err, "save %s", path)
}

// EncodeGLB writes doc as a single binary glTF stream.
func EncodeGLB(w io.Writer, doc *gltf.Document) error {
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	return errors.Wrap(enc.Encode(doc), "encode glb")
}

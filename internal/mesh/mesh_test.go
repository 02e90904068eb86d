package mesh

import (
	"bytes"
	"path/filepath"
	"testing"

	"skeleton-renderer/internal/mathutil"
	"skeleton-renderer/internal/skeleton"
)

func TestCylinder(t *testing.T) {
	m := Cylinder(0.15, 3.5, 8, 14)
	if got, want := len(m.Positions), 9*15; got != want {
		t.Fatalf("vertices got=%d want=%d", got, want)
	}
	if got, want := len(m.Indices), 8*14*6; got != want {
		t.Fatalf("indices got=%d want=%d", got, want)
	}
	lo, hi := m.Bounds()
	if lo[1] != 0 || hi[1] < 3.4999 || hi[1] > 3.5001 {
		t.Fatalf("height range got=[%v,%v] want=[0,3.5]", lo[1], hi[1])
	}
	for _, i := range m.Indices {
		if int(i) >= len(m.Positions) {
			t.Fatalf("index %d out of range", i)
		}
	}
}

func TestPlaneAndFoliage(t *testing.T) {
	p := Plane(20, 10)
	lo, hi := p.Bounds()
	if lo[0] != -10 || hi[2] != 10 {
		t.Fatalf("plane bounds got=%v %v", lo, hi)
	}

	opts := FoliageOptions{Count: 5, Seed: 7, Radius: 1.2, MinY: 2.5, MaxY: 3.5, Size: 0.3}
	a, b := Foliage(opts), Foliage(opts)
	if len(a.Positions) != 20 || len(a.Indices) != 30 {
		t.Fatalf("foliage sizes got=%d/%d", len(a.Positions), len(a.Indices))
	}
	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] {
			t.Fatalf("foliage not deterministic at %d", i)
		}
	}
}

func TestAppendRebasesIndices(t *testing.T) {
	m := Plane(1, 1)
	m.Append(Plane(1, 1))
	if len(m.Positions) != 8 || len(m.Normals) != 8 {
		t.Fatalf("append sizes got=%d/%d", len(m.Positions), len(m.Normals))
	}
	if m.Indices[6] != 4 {
		t.Fatalf("rebased index got=%d want=4", m.Indices[6])
	}
}

func rig() []RigJoint {
	root := mathutil.Mat4Identity()
	child := mathutil.Translate(mathutil.Vec3{0, 1, 0})
	return []RigJoint{
		{ID: 0, Name: "root", Parent: skeleton.NoParent, Local: root, BindWorld: root},
		{ID: 4, Name: "tip", Parent: 0, Local: child, BindWorld: child},
	}
}

func TestExportRiggedRoundTrip(t *testing.T) {
	m := Cylinder(0.1, 2, 4, 2)
	vj := make([]skeleton.JointID, len(m.Positions))
	for i, p := range m.Positions {
		if p[1] > 0.5 {
			vj[i] = 4
		}
	}
	doc, err := ExportRigged(m, rig(), vj)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(doc.Skins) != 1 || len(doc.Skins[0].Joints) != 2 {
		t.Fatalf("skin joints wrong")
	}
	if len(doc.Nodes[0].Children) != 1 {
		t.Fatalf("root children got=%d want=1", len(doc.Nodes[0].Children))
	}

	var buf bytes.Buffer
	if err := EncodeGLB(&buf, doc); err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeGLTF(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(back.Positions) != len(m.Positions) || len(back.Indices) != len(m.Indices) {
		t.Fatalf("round trip sizes got=%d/%d want=%d/%d",
			len(back.Positions), len(back.Indices), len(m.Positions), len(m.Indices))
	}
	if back.Positions[5] != m.Positions[5] {
		t.Fatalf("position got=%v want=%v", back.Positions[5], m.Positions[5])
	}
}

func TestExportRiggedRejectsUnknownJoint(t *testing.T) {
	m := Plane(1, 1)
	if _, err := ExportRigged(m, rig(), []skeleton.JointID{0, 0, 9, 0}); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := ExportRigged(m, rig(), []skeleton.JointID{0}); err == nil {
		t.Fatalf("expected length error")
	}
}

func TestSaveAndLoadGLB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ground.glb")
	if err := SaveGLTF(ExportStatic(Plane(4, 1)), path); err != nil {
		t.Fatalf("save: %v", err)
	}
	m, err := LoadGLTF(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(m.Positions) != 4 || len(m.UVs) != 4 {
		t.Fatalf("loaded sizes got=%d/%d", len(m.Positions), len(m.UVs))
	}
}

package gltfutil

import (
	"math"
	"testing"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
	"github.com/qmuntal/gltf"
)

func newDocument() *gltf.Document {
	s := float32(math.Sqrt(0.5))
	return &gltf.Document{
		Nodes: []*gltf.Node{
			{Name: "Armature", Translation: [3]float32{0, 0, 1}, Children: []uint32{1, 4}},
			{Name: "Hips", Translation: [3]float32{0, 1, 0}, Children: []uint32{2}},
			{Name: "Spine", Translation: [3]float32{0, 0.2, 0}, Rotation: [4]float32{0, 0, s, s}, Children: []uint32{3}},
			{Name: "Spine_end", Translation: [3]float32{0, 0.3, 0}},
			{Name: "Body", Scale: [3]float32{2, 2, 2}},
		},
		Skins: []*gltf.Skin{{Joints: []uint32{1, 2, 3}}},
	}
}

func TestLoadArmature(t *testing.T) {
	doc := newDocument()
	arm, nodeToBone, err := LoadArmature(doc, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(arm.Bones) != 4 || nodeToBone[0] != 0 || nodeToBone[1] != 1 || nodeToBone[3] != 3 {
		t.Fatal("bones:", arm.Names(), nodeToBone)
	}
	if _, ok := nodeToBone[4]; ok {
		t.Error("nodes without joints should be skipped")
	}
	hips := arm.BoneByName("Hips")
	if hips.IsRoot() || hips.Local.Pos != (geom.Vector3{X: 0, Y: 1, Z: 0}) {
		t.Error("hips local:", hips.Local.Pos)
	}
	if hips.World.Pos != (geom.Vector3{X: 0, Y: 1, Z: 1}) {
		t.Error("hips world:", hips.World.Pos)
	}
	if l := arm.BoneByName("Spine").Length; geom.Abs(l-0.3) > 0.0001 {
		t.Error("length:", l)
	}

	all, _, err := LoadArmature(doc, -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(all.Bones) != 5 || all.Bones[4].Local.Scale.X != 2 || all.Bones[0].Local.Rot.W != 1 {
		t.Error("all nodes:", all.Names())
	}

	if _, _, err := LoadArmature(doc, 1); err == nil {
		t.Error("invalid skin")
	}
}

func TestNodeTransformMatrix(t *testing.T) {
	m := geom.NewTRSMatrix4(geom.NewVector3(1, 2, 3), geom.NewQuaternionFromAxisAngle(&geom.Vector3Up, 1), geom.NewVector3(1, 1, 1))
	n := &gltf.Node{}
	m.ToArray(n.Matrix[:])
	tr := NodeTransform(n)
	if tr.Pos.Sub(geom.NewVector3(1, 2, 3)).Len() > 0.0001 || geom.Abs(tr.Rot.Dot(geom.NewQuaternionFromAxisAngle(&geom.Vector3Up, 1))) < 0.9999 {
		t.Error("transform:", tr)
	}
}

func TestWriteAndLoadClip(t *testing.T) {
	doc := newDocument()
	arm, nodeToBone, err := LoadArmature(doc, 0)
	if err != nil {
		t.Fatal(err)
	}
	q := geom.NewQuaternionFromAxisAngle(&geom.Vector3Forward, 0.5)
	frames := []*armature.Pose{arm.NewPose(), arm.NewPose(), arm.NewPose()}
	frames[1].SetLocalRot(2, q)
	frames[2].SetLocalPos(1, geom.NewVector3(0, 2, 0))

	a := WriteClip(doc, "baked", frames, 10, BoneToNode(nodeToBone))
	if a == nil || len(a.Channels) != 2 || len(doc.Animations) != 1 {
		t.Fatal("animation:", a)
	}
	if WriteClip(doc, "empty", frames[:1], 10, BoneToNode(nodeToBone)) != nil {
		t.Error("still pose should not be written")
	}

	clip, err := LoadClip(doc, 0, nodeToBone)
	if err != nil {
		t.Fatal(err)
	}
	if clip.Name != "baked" || len(clip.Tracks) != 2 || clip.FrameCount() != 3 {
		t.Fatal("clip:", clip)
	}
	if d := clip.Duration(); geom.Abs(d-0.2) > 0.0001 {
		t.Error("duration:", d)
	}

	pose := arm.NewPose()
	clip.Sample(pose, 0.1)
	if r := pose.LocalRot(2); geom.Abs(r.Dot(q)) < 0.9999 {
		t.Error("rotation:", r)
	}
	clip.Sample(pose, 0.2)
	if v := pose.LocalPos(1); v.Sub(geom.NewVector3(0, 2, 0)).Len() > 0.0001 {
		t.Error("translation:", v)
	}

	if _, err := LoadClip(doc, 3, nodeToBone); err == nil {
		t.Error("invalid animation")
	}
}

func TestClipUnderTransformedNode(t *testing.T) {
	const eps = 0.0001
	doc := newDocument()
	s := float32(math.Sqrt(0.5))
	doc.Nodes[0].Rotation = [4]float32{s, 0, 0, s}
	doc.Nodes[0].Scale = [3]float32{0.01, 0.01, 0.01}

	arm, nodeToBone, err := LoadArmature(doc, 0)
	if err != nil {
		t.Fatal(err)
	}
	hips := arm.BoneByName("Hips")
	bindWorld := hips.World.Pos
	// (0, 1, 0) * 0.01 rotated 90deg around X, then moved by (0, 0, 1)
	if bindWorld.Sub(geom.NewVector3(0, 0, 1.01)).Len() > eps {
		t.Error("hips world:", bindWorld)
	}

	// a channel holding the rest value keeps the bone in place
	rest := arm.NewPose()
	moved := arm.NewPose()
	moved.SetLocalPos(hips.Index, geom.NewVector3(0, 2, 0))
	a := WriteClip(doc, "hips", []*armature.Pose{rest, moved}, 1, BoneToNode(nodeToBone))
	if a == nil || len(a.Channels) != 1 || *a.Channels[0].Target.Node != 1 {
		t.Fatal("animation:", a)
	}

	clip, err := LoadClip(doc, 0, nodeToBone)
	if err != nil {
		t.Fatal(err)
	}
	pose := arm.NewPose()
	clip.Sample(pose, 0)
	if v := pose.WorldTransform(hips.Index).Pos; v.Sub(&bindWorld).Len() > eps {
		t.Error("rest sample:", v, bindWorld)
	}
	clip.Sample(pose, 1)
	if v := pose.LocalPos(hips.Index); v.Sub(geom.NewVector3(0, 2, 0)).Len() > eps {
		t.Error("written values should be node local:", v)
	}
	if v := pose.WorldTransform(hips.Index).Pos; v.Sub(geom.NewVector3(0, 0, 1.02)).Len() > eps {
		t.Error("moved sample:", v)
	}
}

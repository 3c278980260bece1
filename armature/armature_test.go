package armature

import (
	"math"
	"testing"

	"github.com/binzume/ikretarget/geom"
)

func newTestArmature() *Armature {
	one := geom.NewVector3(1, 1, 1)
	a := New()
	a.AddBone("root", -1, geom.NewVector3(0, 1, 0), geom.NewQuaternionIdentity(), one)
	a.AddBone("a", 0, geom.NewVector3(0, 1, 0), geom.NewQuaternionFromAxisAngle(&geom.Vector3Forward, math.Pi/2), one)
	a.AddBone("b", 1, geom.NewVector3(0, 2, 0), geom.NewQuaternionIdentity(), one)
	a.AddBone("c", 0, geom.NewVector3(1, 0, 0), geom.NewQuaternionIdentity(), one)
	a.Finalize()
	return a
}

func TestArmature(t *testing.T) {
	const eps = 0.00001
	a := newTestArmature()

	if a.BoneByName("b") == nil || a.BoneByName("b").Index != 2 {
		t.Error("BoneByName")
	}
	if a.BoneByName("none") != nil || a.Index("none") != -1 {
		t.Error("BoneByName should returns nil")
	}
	if len(a.Bones[0].Children) != 2 || a.Bones[0].Children[0] != 1 {
		t.Error("Children", a.Bones[0].Children)
	}

	// b is 2 units along rotated +Y of a: -X direction
	b := a.BoneByName("b")
	if b.World.Pos.Sub(geom.NewVector3(-2, 2, 0)).Len() > eps {
		t.Error("world pos", b.World.Pos)
	}

	if geom.Abs(a.Bones[0].Length-1) > eps || geom.Abs(a.Bones[1].Length-2) > eps || a.Bones[2].Length != 0 {
		t.Error("length", a.Bones[0].Length, a.Bones[1].Length, a.Bones[2].Length)
	}

	if d := a.Descendants(1); len(d) != 2 || d[0] != 1 || d[1] != 2 {
		t.Error("Descendants", d)
	}
}

func TestPose(t *testing.T) {
	const eps = 0.00001
	a := newTestArmature()
	p := a.NewPose()

	p.SetLocalRot(1, geom.NewQuaternionIdentity())
	// cached world is not updated until UpdateWorld
	if p.World(2).Pos.Sub(&a.Bones[2].World.Pos).Len() > eps {
		t.Error("world should be cached", p.World(2).Pos)
	}
	if p.WorldTransform(2).Pos.Sub(geom.NewVector3(0, 4, 0)).Len() > eps {
		t.Error("WorldTransform", p.WorldTransform(2).Pos)
	}
	p.UpdateWorld()
	if p.World(2).Pos.Sub(geom.NewVector3(0, 4, 0)).Len() > eps {
		t.Error("UpdateWorld", p.World(2).Pos)
	}
	if p.ParentWorld(2).Pos.Sub(geom.NewVector3(0, 2, 0)).Len() > eps {
		t.Error("ParentWorld", p.ParentWorld(2).Pos)
	}

	c := p.Clone()
	c.SetLocalPos(0, geom.NewVector3(5, 0, 0))
	if p.LocalPos(0).X != 0 {
		t.Error("Clone should not share transforms")
	}
	p.CopyFrom(c)
	if p.LocalPos(0).X != 5 {
		t.Error("CopyFrom")
	}

	p.Reset()
	if p.LocalRot(1).Sub(&a.Bones[1].Local.Rot).Len() > eps {
		t.Error("Reset")
	}
}

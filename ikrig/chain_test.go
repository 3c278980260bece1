package ikrig

import (
	"math"
	"testing"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
)

func newTestPose() *armature.Pose {
	one := geom.NewVector3(1, 1, 1)
	id := geom.NewQuaternionIdentity()
	a := armature.New()
	a.AddBone("root", -1, geom.NewVector3(0, 0, 0), id, one)
	a.AddBone("b1", 0, geom.NewVector3(0, 1, 0), geom.NewQuaternionFromAxisAngle(&geom.Vector3Forward, math.Pi/2), one)
	a.AddBone("b2", 1, geom.NewVector3(0, 2, 0), id, one)
	a.AddBone("b3", 2, geom.NewVector3(0, 3, 0), id, one)
	a.Finalize()
	return a.NewPose()
}

type countSolver struct {
	count int
}

func (s *countSolver) Resolve(chain *Chain, pose *armature.Pose) {
	s.count++
}

func TestChain(t *testing.T) {
	const eps = 0.0001
	pose := newTestPose()

	c := NewChain(pose, 0, 1, -1, 2, 3)
	if c.Count() != 4 {
		t.Fatal("invalid bones should be skipped", c.Count())
	}

	var sum geom.Element
	for _, l := range c.Links {
		sum += l.Length
	}
	if geom.Abs(c.Length-sum) > eps || geom.Abs(c.Length-6) > eps {
		t.Error("chain length", c.Length, sum)
	}

	// b1 is rotated to -X
	if c.TailPosition(pose, 1).Sub(geom.NewVector3(-2, 1, 0)).Len() > eps {
		t.Error("TailPosition", c.TailPosition(pose, 1))
	}
	if c.LastPosition(pose).Sub(&pose.WorldTransform(3).Pos).Len() > eps {
		t.Error("leaf has no length", c.LastPosition(pose))
	}
	if pos := c.AllPositions(pose); len(pos) != 5 || pos[0].Len() > eps {
		t.Error("AllPositions", pos)
	}

	c2 := &Chain{}
	c2.SetBonesByName(pose, "b1", "none", "b2")
	if c2.Count() != 2 || c2.First().Index != 1 || c2.Last().Index != 2 {
		t.Error("SetBonesByName", c2.Count())
	}
}

func TestChainBind(t *testing.T) {
	const eps = 0.0001
	pose := newTestPose()
	c := NewChain(pose, 1, 2)

	pose.SetLocalRot(1, geom.NewQuaternionIdentity())
	c.BindToPose(pose)
	first := *c.First()
	c.BindToPose(pose)
	if c.First().Bind != first.Bind || c.First().Length != first.Length {
		t.Error("BindToPose should be idempotent")
	}

	pose.SetLocalPos(2, geom.NewVector3(0, 4, 0))
	c.ResetLengths(pose)
	if geom.Abs(c.First().Length-4) > eps || geom.Abs(c.Length-7) > eps {
		t.Error("ResetLengths", c.First().Length, c.Length)
	}

	pose.Reset()
	c.BindAltDirections(pose, &geom.Vector3Down, &geom.Vector3Forward)
	for i := range c.Links {
		eff, pole := c.AltDirections(pose, i)
		if eff.Sub(&geom.Vector3Down).Len() > eps || pole.Sub(&geom.Vector3Forward).Len() > eps {
			t.Error("AltDirections", i, eff, pole)
		}
	}
	// stays unit length in local space
	if geom.Abs(c.First().EffectorDir.Len()-1) > eps {
		t.Error("EffectorDir should be unit", c.First().EffectorDir)
	}
}

func TestRig(t *testing.T) {
	pose := newTestPose()
	s := &countSolver{}
	r := NewRig()
	r.Add(pose, "a", 0, 1).SetSolver(s)
	r.Add(pose, "b", 2, 3)
	r.Add(pose, "a", 0, 1).SetSolver(s)

	if len(r.Names()) != 2 {
		t.Error("Names", r.Names())
	}
	r.ResolveToPose(pose)
	r.ResolveChain(pose, "b")
	r.ResolveChain(pose, "none")
	if s.count != 1 {
		t.Error("solver count", s.count)
	}
}

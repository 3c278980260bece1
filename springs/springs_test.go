package springs

import (
	"math"
	"testing"

	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/internal/testmodel"
)

func TestSpringVec3(t *testing.T) {
	s := NewSpringVec3(1, 1)
	s.Reset(geom.NewVector3(1, 2, 3))
	if s.Update(1.0 / 60) {
		t.Error("spring at rest should not update")
	}

	s.Target = geom.Vector3{X: 2, Y: 2, Z: 3}
	prev := s.Value.DistanceSqr(&s.Target)
	n := 0
	for ; n < 1000 && s.Update(1.0/60); n++ {
		d := s.Value.DistanceSqr(&s.Target)
		if d > prev {
			t.Fatal("distance increased:", n, d, prev)
		}
		prev = d
	}
	if n == 0 || n == 1000 {
		t.Error("updates:", n)
	}
	if s.Value != s.Target || !s.Vel.IsZero() {
		t.Error("not snapped:", s.Value, s.Vel)
	}
}

func TestSpringQuat(t *testing.T) {
	s := NewSpringQuat(2, 1)
	if s.Update(1.0 / 60) {
		t.Error("spring at rest should not update")
	}
	target := geom.NewQuaternionFromAxisAngle(&geom.Vector3Up, math.Pi/2)
	s.SetTarget(target.Negate())
	if s.Target.Dot(&s.Value) < 0 {
		t.Error("target hemisphere:", s.Target)
	}
	for i := 0; i < 1000 && s.Update(1.0/60); i++ {
		if l := s.Value.Len(); geom.Abs(l-1) > 0.0001 {
			t.Fatal("not normalized:", l)
		}
	}
	if geom.Abs(s.Value.Dot(target)) < 0.9999 {
		t.Error("value:", s.Value)
	}
}

func TestBoneSpringRot(t *testing.T) {
	pose := testmodel.Tail("t", 3, 0.5).NewPose()
	b := NewBoneSpring()
	c := b.Add(pose, "tail", true, 2, 0.7, "t0", "t1", "t2", "missing")
	if c == nil || len(c.Items) != 3 {
		t.Fatal("chain")
	}
	if b.Add(pose, "none", true, 2, 0.7, "missing") != nil {
		t.Error("empty chain should not be added")
	}

	b.UpdatePose(pose, 1.0/60)
	if q := pose.LocalRot(c.Items[0].Index); *q != c.Items[0].Bind.Rot {
		t.Error("rest pose changed:", q)
	}

	pose.SetLocalPos(0, geom.NewVector3(0.3, 0, 0))
	b.UpdatePose(pose, 1.0/60)
	q := pose.LocalRot(c.Items[0].Index)
	if geom.Abs(q.W) > 0.9999 {
		t.Error("bone should lag:", q)
	}
	// tail stays behind the root
	tail := pose.WorldTransform(c.Items[1].Index).Pos
	if tail.X >= 0.3 {
		t.Error("tail:", tail)
	}

	for i := 0; i < 600; i++ {
		b.UpdatePose(pose, 1.0/60)
	}
	for _, it := range c.Items {
		if q := pose.LocalRot(it.Index); *q != it.Bind.Rot {
			t.Error("not settled:", it.Index, q)
		}
	}
}

func TestBoneSpringPos(t *testing.T) {
	pose := testmodel.Tail("t", 3, 0.5).NewPose()
	b := NewBoneSpring()
	c := b.Add(pose, "tail", false, 1, 1, "t1", "t2")
	c.SetOsc(1, 2, 1)
	if c.Items[1].Spring.Omega <= c.Items[0].Spring.Omega {
		t.Error("osc:", c.Items[0].Spring.Omega, c.Items[1].Spring.Omega)
	}

	pose.SetLocalPos(0, geom.NewVector3(0, 1, 0))
	b.UpdatePose(pose, 1.0/60)
	if v := pose.LocalPos(c.Items[0].Index); v.Y >= 0.5 {
		t.Error("bone should lag:", v)
	}

	for i := 0; i < 600; i++ {
		b.UpdatePose(pose, 1.0/60)
	}
	for _, it := range c.Items {
		if v := pose.LocalPos(it.Index); *v != it.Bind.Pos {
			t.Error("not settled:", it.Index, v)
		}
	}

	// new rest pose
	pose.SetLocalPos(c.Items[0].Index, geom.NewVector3(0, 0.6, 0))
	b.SetRestPose(pose)
	if c.Items[0].Bind.Pos.Y != 0.6 {
		t.Error("rest pose:", c.Items[0].Bind.Pos)
	}
}

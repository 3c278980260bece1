package solver

import (
	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/ikrig"
)

// SwingTwistEnds interpolates directions from the first link to the last link.
type SwingTwistEnds struct {
	StartEffectorDir geom.Vector3
	StartPoleDir     geom.Vector3
	EndEffectorDir   geom.Vector3
	EndPoleDir       geom.Vector3
}

func NewSwingTwistEnds() *SwingTwistEnds {
	return &SwingTwistEnds{
		StartEffectorDir: geom.Vector3Up,
		StartPoleDir:     geom.Vector3Forward,
		EndEffectorDir:   geom.Vector3Up,
		EndPoleDir:       geom.Vector3Forward,
	}
}

func (s *SwingTwistEnds) SetStartDir(e, pole *geom.Vector3) *SwingTwistEnds {
	s.StartEffectorDir = *e
	s.StartPoleDir = *pole
	return s
}

func (s *SwingTwistEnds) SetEndDir(e, pole *geom.Vector3) *SwingTwistEnds {
	s.EndEffectorDir = *e
	s.EndPoleDir = *pole
	return s
}

func (s *SwingTwistEnds) Resolve(chain *ikrig.Chain, pose *armature.Pose) {
	n := chain.Count()
	pt := pose.ParentWorld(chain.First().Index)
	var w *geom.Transform
	for i, l := range chain.Links {
		var t geom.Element
		if n > 1 {
			t = geom.Element(i) / geom.Element(n-1)
		}
		if i > 0 {
			pt = nextParent(pose, chain.Links[i-1], l, w)
		}

		eff := s.StartEffectorDir.Lerp(&s.EndEffectorDir, t).Normalize()
		pole := s.StartPoleDir.Lerp(&s.EndPoleDir, t)
		_, pole = OrthoPole(eff, pole)

		rot := swingTwistRot(pt.Rot.Mul(&l.Bind.Rot), l, eff, pole)
		local := setWorldRot(pose, l.Index, pt, rot)
		w = pt.MulTRS(&l.Bind.Pos, local, &l.Bind.Scale)
	}
}

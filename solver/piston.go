package solver

import (
	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/ikrig"
)

// Piston keeps bones straight and shortens them toward the root.
type Piston struct {
	SwingTwist
}

func NewPiston() *Piston {
	s := &Piston{}
	s.init()
	return s
}

func (s *Piston) Resolve(chain *ikrig.Chain, pose *armature.Pose) {
	rot, pt, t := s.swingTwist(chain, pose)
	setWorldRot(pose, chain.First().Index, pt, rot)

	n := chain.Count()
	for i := 1; i < n; i++ {
		pose.SetLocalRot(chain.Links[i].Index, &chain.Links[i].Bind.Rot)
	}
	if n < 2 {
		return
	}

	lastLen := chain.Last().Length
	delta := chain.Length - t.dist
	switch {
	case delta <= 0:
		for i := 1; i < n; i++ {
			pose.SetLocalPos(chain.Links[i].Index, &geom.Vector3{Y: chain.Links[i-1].Length})
		}
	case t.dist <= lastLen:
		for i := 1; i < n; i++ {
			pose.SetLocalPos(chain.Links[i].Index, &geom.Vector3{})
		}
	default:
		// compression is shared by all bones except the last one.
		total := chain.Length - lastLen
		for i := 1; i < n; i++ {
			prev := chain.Links[i-1].Length
			pose.SetLocalPos(chain.Links[i].Index, &geom.Vector3{Y: prev - delta*prev/total})
		}
	}
}

package solver

import (
	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/ikrig"
)

// NaturalCCD is a cyclic coordinate descent solver.
// With UseArcLength, joints far from the tail rotate less.
type NaturalCCD struct {
	SwingTwist
	Tries        int
	MinEffRange  geom.Element
	UseArcLength bool
	ArcLenFactor geom.Element
	ArcLenOffset geom.Element
}

func NewNaturalCCD() *NaturalCCD {
	s := &NaturalCCD{
		Tries:        30,
		MinEffRange:  0.001,
		ArcLenFactor: 1,
		ArcLenOffset: 0.1,
	}
	s.init()
	return s
}

func (s *NaturalCCD) SetArcLength(c, offset geom.Element) *NaturalCCD {
	s.UseArcLength = true
	s.ArcLenFactor = c
	s.ArcLenOffset = offset
	return s
}

func (s *NaturalCCD) Resolve(chain *ikrig.Chain, pose *armature.Pose) {
	pt := pose.ParentWorld(chain.First().Index)
	t := s.resolveTarget(chain, pt)
	n := chain.Count()

	locals := make([]geom.Quaternion, n)
	world := make([]*geom.Transform, n)
	for i, l := range chain.Links {
		locals[i] = l.Bind.Rot
	}
	update := func(from int) {
		for i := from; i < n; i++ {
			l := chain.Links[i]
			p := pt
			if i > 0 {
				p = world[i-1]
			}
			world[i] = p.MulTRS(&l.Bind.Pos, &locals[i], &l.Bind.Scale)
		}
	}
	update(0)

	// arc length from each joint to the tail
	arcLen := make([]geom.Element, n)
	var sum geom.Element
	for i := n - 1; i >= 0; i-- {
		sum += chain.Links[i].Length
		arcLen[i] = sum
	}

	minDistSq := s.MinEffRange * s.MinEffRange
	for try := 0; try < s.Tries; try++ {
		for i := n - 1; i >= 0; i-- {
			tail := ikrig.Tail(world[n-1], chain.Last().Length)
			toTail := tail.Sub(&world[i].Pos)
			toTarget := t.pos.Sub(&world[i].Pos)
			if toTail.LenSqr() == 0 || toTarget.LenSqr() == 0 {
				continue
			}
			q := geom.NewQuaternionFromUnitVectors(toTail.Normalize(), toTarget.Normalize())
			if s.UseArcLength {
				k := geom.Clamp(s.ArcLenFactor/geom.Sqrt(arcLen[i]+s.ArcLenOffset), 0, 1)
				q = geom.NewQuaternionIdentity().Slerp(q, k)
			}
			parentRot := &pt.Rot
			if i > 0 {
				parentRot = &world[i-1].Rot
			}
			locals[i] = *parentRot.Inverse().Mul(q.Mul(&world[i].Rot))
			update(i)
		}
		if ikrig.Tail(world[n-1], chain.Last().Length).DistanceSqr(&t.pos) < minDistSq {
			break
		}
	}

	for i, l := range chain.Links {
		pose.SetLocalRot(l.Index, &locals[i])
	}
}

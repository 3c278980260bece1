package solver

import (
	"math"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/ikrig"
)

// bendTurns returns per-link turns for a total bend angle theta.
type bendTurns func(n int, theta geom.Element) []geom.Element

// chordLength returns the distance from the chain head to its tail when links are turned in a plane.
func chordLength(chain *ikrig.Chain, turns []geom.Element) float64 {
	var x, y, heading float64
	for i, l := range chain.Links {
		heading += float64(turns[i])
		x += float64(l.Length) * math.Sin(heading)
		y += float64(l.Length) * math.Cos(heading)
	}
	return math.Hypot(x, y)
}

// solveBend finds the bend angle in [0, 2pi] whose chord length is dist.
func solveBend(chain *ikrig.Chain, dist geom.Element, turns bendTurns) geom.Element {
	n := chain.Count()
	d := float64(dist)
	if d >= chordLength(chain, turns(n, 0)) {
		return 0
	}
	lo, hi := 0.0, 2*math.Pi
	if d <= chordLength(chain, turns(n, geom.Element(hi))) {
		return geom.Element(hi)
	}
	for i := 0; i < 40; i++ {
		mid := (lo + hi) / 2
		if chordLength(chain, turns(n, geom.Element(mid))) > d {
			lo = mid
		} else {
			hi = mid
		}
	}
	return geom.Element((lo + hi) / 2)
}

func arcTurns(n int, theta geom.Element) []geom.Element {
	alpha := theta / geom.Element(n)
	turns := make([]geom.Element, n)
	turns[0] = -(theta*0.5 - alpha*0.5)
	for i := 1; i < n; i++ {
		turns[i] = alpha
	}
	return turns
}

// arcSinTurns bends each half of the chain by theta in opposite directions.
func arcSinTurns(n int, theta geom.Element) []geom.Element {
	n1 := n / 2
	n2 := n - n1
	a1 := theta / geom.Element(n1)
	a2 := theta / geom.Element(n2)

	turns := make([]geom.Element, n)
	turns[0] = -(theta*0.5 - a1*0.5)
	for i := 1; i < n1; i++ {
		turns[i] = a1
	}
	turns[n1] = (a1 - a2) * 0.5
	for i := n1 + 1; i < n; i++ {
		turns[i] = -a2
	}
	return turns
}

// Arc bends the chain along a circular arc.
type Arc struct {
	SwingTwist
}

func NewArc() *Arc {
	s := &Arc{}
	s.init()
	return s
}

func (s *Arc) Resolve(chain *ikrig.Chain, pose *armature.Pose) {
	rot, pt, t := s.swingTwist(chain, pose)
	turns := arcTurns(chain.Count(), solveBend(chain, t.dist, arcTurns))
	last := applyTurns(chain, pose, pt, rot, &t.ortho, turns)
	realign(chain, pose, pt, t, last)
}

// ArcSin bends the first half and the second half of the chain in opposite directions.
type ArcSin struct {
	SwingTwist
}

func NewArcSin() *ArcSin {
	s := &ArcSin{}
	s.init()
	return s
}

func (s *ArcSin) Resolve(chain *ikrig.Chain, pose *armature.Pose) {
	rot, pt, t := s.swingTwist(chain, pose)
	n := chain.Count()
	if n < 2 {
		applyTurns(chain, pose, pt, rot, &t.ortho, make([]geom.Element, n))
		return
	}
	turns := arcSinTurns(n, solveBend(chain, t.dist, arcSinTurns))
	last := applyTurns(chain, pose, pt, rot, &t.ortho, turns)
	realign(chain, pose, pt, t, last)
}

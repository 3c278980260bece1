package solver

import (
	"math"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/ikrig"
)

// Fabrik is a Forward And Backward Reaching IK solver.
type Fabrik struct {
	SwingTwist
	MaxIteration  int
	Threshold     geom.Element // squared distance
	UseConstraint bool
	MinAngle      geom.Element // constraint at the tail
	MaxAngle      geom.Element // constraint at the root
}

func NewFabrik() *Fabrik {
	s := &Fabrik{
		MaxIteration: 15,
		Threshold:    0.00000001,
		MinAngle:     10 * math.Pi / 180,
		MaxAngle:     45 * math.Pi / 180,
	}
	s.init()
	return s
}

func (s *Fabrik) Resolve(chain *ikrig.Chain, pose *armature.Pose) {
	pt := pose.ParentWorld(chain.First().Index)
	t := s.resolveTarget(chain, pt)

	if t.dist >= chain.Length {
		alignToPoints(chain, pose, pt, straightPoints(chain, &t.origin, &t.dir))
		return
	}

	n := chain.Count()
	points := s.initialPoints(chain, pose, pt, t)
	lens := make([]geom.Element, n)
	for i, l := range chain.Links {
		lens[i] = l.Length
	}

	hits := 0
	for i := 0; i < s.MaxIteration; i++ {
		s.backward(points, lens, &t.pos)
		s.forward(points, lens, &t.origin)
		if points[n].DistanceSqr(&t.pos) <= s.Threshold {
			hits++
			if hits >= 3 {
				break
			}
		} else {
			hits = 0
		}
	}
	alignToPoints(chain, pose, pt, points)
}

// initialPoints returns current joint positions. Straight chains are bent slightly toward the pole.
func (s *Fabrik) initialPoints(chain *ikrig.Chain, pose *armature.Pose, pt *geom.Transform, t *target) []*geom.Vector3 {
	points := []*geom.Vector3{&t.origin}
	var w *geom.Transform
	for i, l := range chain.Links {
		if i == 0 {
			w = pt.MulTRS(&l.Bind.Pos, pose.LocalRot(l.Index), &l.Bind.Scale)
		} else {
			w = nextParent(pose, chain.Links[i-1], l, w).MulTRS(&l.Bind.Pos, pose.LocalRot(l.Index), &l.Bind.Scale)
		}
		points = append(points, ikrig.Tail(w, l.Length))
	}

	n := len(chain.Links)
	dir := points[n].Sub(points[0])
	if dir.LenSqr() == 0 {
		return points
	}
	dir.Normalize()
	straight := true
	for i := 1; i < n; i++ {
		d := points[i].Sub(points[0])
		if d.Sub(dir.Scale(d.Dot(dir))).LenSqr() > 0.000001 {
			straight = false
			break
		}
	}
	if straight {
		for i := 1; i < n; i++ {
			points[i] = points[i].Add(t.pole.Scale(0.01 * chain.Links[i-1].Length))
		}
	}
	return points
}

func (s *Fabrik) backward(points []*geom.Vector3, lens []geom.Element, effector *geom.Vector3) {
	n := len(lens)
	points[n] = effector
	var prevDir *geom.Vector3
	for i := n - 1; i >= 0; i-- {
		dir := points[i].Sub(points[i+1]).Normalize()
		if s.UseConstraint && prevDir != nil {
			dir = constrainDir(dir, prevDir, s.limit(i, n))
		}
		points[i] = points[i+1].Add(dir.Scale(lens[i]))
		prevDir = dir
	}
}

func (s *Fabrik) forward(points []*geom.Vector3, lens []geom.Element, origin *geom.Vector3) {
	n := len(lens)
	points[0] = origin
	var prevDir *geom.Vector3
	for i := 0; i < n; i++ {
		dir := points[i+1].Sub(points[i]).Normalize()
		if s.UseConstraint && prevDir != nil {
			dir = constrainDir(dir, prevDir, s.limit(i, n))
		}
		points[i+1] = points[i].Add(dir.Scale(lens[i]))
		prevDir = dir
	}
}

// limit returns max angle between segment i and its neighbour.
func (s *Fabrik) limit(i, n int) geom.Element {
	var t geom.Element
	if n > 1 {
		t = geom.Element(i) / geom.Element(n-1)
	}
	w := t * t * (3 - 2*t)
	return geom.Lerp(s.MaxAngle, s.MinAngle, w)
}

// constrainDir limits the angle between dir and ref.
func constrainDir(dir, ref *geom.Vector3, maxAngle geom.Element) *geom.Vector3 {
	angle := geom.Acos(dir.Dot(ref))
	if angle <= maxAngle {
		return dir
	}
	q := geom.NewQuaternionFromUnitVectors(ref, dir)
	return geom.NewQuaternionIdentity().Slerp(q, maxAngle/angle).ApplyTo(ref).Normalize()
}

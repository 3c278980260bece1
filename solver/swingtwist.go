package solver

import (
	"math"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/ikrig"
)

// SwingTwist rotates the first bone of a chain to the target direction.
// Other solvers embed it for target handling.
type SwingTwist struct {
	EffectorPos      geom.Vector3
	EffectorDir      geom.Vector3
	PoleDir          geom.Vector3
	EffectorScale    geom.Element
	IsTargetPosition bool
}

func NewSwingTwist() *SwingTwist {
	s := &SwingTwist{}
	s.init()
	return s
}

func (s *SwingTwist) init() {
	s.EffectorDir = geom.Vector3Forward
	s.PoleDir = geom.Vector3Up
	s.EffectorScale = 1
}

// SetTargetDir sets a world direction target. Effector distance is chain length * effectorScale.
func (s *SwingTwist) SetTargetDir(e, pole *geom.Vector3, effectorScale geom.Element) {
	s.IsTargetPosition = false
	s.EffectorDir = *e
	s.EffectorDir.Normalize()
	s.EffectorScale = effectorScale
	if pole != nil {
		s.SetTargetPole(pole)
	}
}

// SetTargetPos sets a world position target.
func (s *SwingTwist) SetTargetPos(v, pole *geom.Vector3) {
	s.IsTargetPosition = true
	s.EffectorPos = *v
	if pole != nil {
		s.SetTargetPole(pole)
	}
}

func (s *SwingTwist) SetTargetPole(pole *geom.Vector3) {
	s.PoleDir = *pole
	s.PoleDir.Normalize()
}

type target struct {
	origin geom.Vector3
	pos    geom.Vector3
	dir    geom.Vector3
	pole   geom.Vector3
	ortho  geom.Vector3
	dist   geom.Element
}

// resolveTarget resolves effector and orthogonal pole for a chain whose first bone has parent transform pt.
func (s *SwingTwist) resolveTarget(chain *ikrig.Chain, pt *geom.Transform) *target {
	t := &target{origin: *pt.TransformVec(&chain.First().Bind.Pos)}
	if s.IsTargetPosition {
		t.pos = s.EffectorPos
		d := t.pos.Sub(&t.origin)
		t.dist = d.Len()
		if t.dist > 0 {
			t.dir = *d.Normalize()
		} else {
			t.dir = s.EffectorDir
		}
	} else {
		t.dir = s.EffectorDir
		t.dist = chain.Length * s.EffectorScale
		t.pos = *t.origin.Add(t.dir.Scale(t.dist))
	}
	ortho, pole := OrthoPole(&t.dir, &s.PoleDir)
	t.ortho, t.pole = *ortho, *pole
	return t
}

// OrthoPole returns the bend axis (pole x dir) and pole made orthogonal to the unit vector dir.
// A pole parallel to dir is replaced with an arbitrary perpendicular direction.
func OrthoPole(dir, pole *geom.Vector3) (*geom.Vector3, *geom.Vector3) {
	ortho := pole.Cross(dir)
	if ortho.LenSqr() < 0.00000001 {
		ref := &geom.Vector3Up
		if geom.Abs(dir.Y) > 0.9 {
			ref = &geom.Vector3Forward
		}
		ortho = ref.Cross(dir)
	}
	ortho.Normalize()
	return ortho, dir.Cross(ortho).Normalize()
}

// swingTwist returns world rotation of the first bone after swing and twist.
func (s *SwingTwist) swingTwist(chain *ikrig.Chain, pose *armature.Pose) (*geom.Quaternion, *geom.Transform, *target) {
	l := chain.First()
	pt := pose.ParentWorld(l.Index)
	t := s.resolveTarget(chain, pt)
	return swingTwistRot(pt.Rot.Mul(&l.Bind.Rot), l, &t.dir, &t.pole), pt, t
}

func (s *SwingTwist) Resolve(chain *ikrig.Chain, pose *armature.Pose) {
	rot, pt, _ := s.swingTwist(chain, pose)
	setWorldRot(pose, chain.First().Index, pt, rot)
}

// swingTwistRot aligns alt directions of l (rotated by rot) to dir and pole.
func swingTwistRot(rot *geom.Quaternion, l *ikrig.Link, dir, pole *geom.Vector3) *geom.Quaternion {
	cur := rot.ApplyTo(&l.EffectorDir).Normalize()
	rot = geom.NewQuaternionFromUnitVectors(cur, dir).Mul(rot)

	cur = rot.ApplyTo(&l.PoleDir).Normalize()
	return twist(cur, pole, dir).Mul(rot)
}

// twist rotates a onto b around axis. a and b must be perpendicular to axis.
func twist(a, b, axis *geom.Vector3) *geom.Quaternion {
	if a.Dot(b) < -0.9999 {
		return geom.NewQuaternionFromAxisAngle(axis, math.Pi)
	}
	return geom.NewQuaternionFromUnitVectors(a, b)
}

func setWorldRot(pose *armature.Pose, index int, pt *geom.Transform, rot *geom.Quaternion) *geom.Quaternion {
	local := pt.Rot.Inverse().Mul(rot)
	pose.SetLocalRot(index, local)
	return local
}

// nextParent returns the parent world transform of l, given world transform w of the previous link.
func nextParent(pose *armature.Pose, prev, l *ikrig.Link, w *geom.Transform) *geom.Transform {
	if l.Parent == prev.Index {
		return w
	}
	return pose.ParentWorld(l.Index)
}

// LawCosSSS returns the angle opposite to c in a triangle with sides a, b and c.
func LawCosSSS(a, b, c geom.Element) geom.Element {
	if a == 0 || b == 0 {
		return 0
	}
	return geom.Acos((a*a + b*b - c*c) / (2 * a * b))
}

// applyTurns rotates the first link from rot and the following links from their bind rotation
// by turns[i] around axis. Returns world transform of the last link.
func applyTurns(chain *ikrig.Chain, pose *armature.Pose, pt *geom.Transform, rot *geom.Quaternion, axis *geom.Vector3, turns []geom.Element) *geom.Transform {
	var w *geom.Transform
	for i, l := range chain.Links {
		var r *geom.Quaternion
		if i == 0 {
			r = rot
		} else {
			pt = nextParent(pose, chain.Links[i-1], l, w)
			r = pt.Rot.Mul(&l.Bind.Rot)
		}
		r = geom.NewQuaternionFromAxisAngle(axis, turns[i]).Mul(r)
		local := setWorldRot(pose, l.Index, pt, r)
		w = pt.MulTRS(&l.Bind.Pos, local, &l.Bind.Scale)
	}
	return w
}

// realign rotates the first link so that tail of the chain lies on the target direction.
func realign(chain *ikrig.Chain, pose *armature.Pose, pt *geom.Transform, t *target, last *geom.Transform) {
	tail := ikrig.Tail(last, chain.Last().Length)
	cur := tail.Sub(&t.origin)
	if cur.LenSqr() == 0 {
		return
	}
	q := geom.NewQuaternionFromUnitVectors(cur.Normalize(), &t.dir)
	l := chain.First()
	setWorldRot(pose, l.Index, pt, q.Mul(pt.Rot.Mul(pose.LocalRot(l.Index))))
}

// alignToPoints rotates each link so that it points from points[i] to points[i+1].
func alignToPoints(chain *ikrig.Chain, pose *armature.Pose, pt *geom.Transform, points []*geom.Vector3) {
	var w *geom.Transform
	for i, l := range chain.Links {
		if i > 0 {
			pt = nextParent(pose, chain.Links[i-1], l, w)
		}
		r := pt.Rot.Mul(&l.Bind.Rot)
		d := points[i+1].Sub(points[i])
		if l.Length > 0 && d.LenSqr() > 0 {
			cur := r.ApplyTo(&geom.Vector3Up).Normalize()
			r = geom.NewQuaternionFromUnitVectors(cur, d.Normalize()).Mul(r)
		}
		local := setWorldRot(pose, l.Index, pt, r)
		w = pt.MulTRS(&l.Bind.Pos, local, &l.Bind.Scale)
	}
}

// straightPoints returns joint positions of a fully extended chain.
func straightPoints(chain *ikrig.Chain, origin, dir *geom.Vector3) []*geom.Vector3 {
	points := []*geom.Vector3{origin}
	p := origin
	for _, l := range chain.Links {
		p = p.Add(dir.Scale(l.Length))
		points = append(points, p)
	}
	return points
}

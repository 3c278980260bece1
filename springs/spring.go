package springs

import (
	"math"

	"github.com/binzume/ikretarget/geom"
)

const epsilon = 0.01

// SpringVec3 is a critically damped spring integrated with implicit euler.
type SpringVec3 struct {
	Vel     geom.Vector3
	Value   geom.Vector3
	Target  geom.Vector3
	Damping geom.Element
	Omega   geom.Element // angular frequency
}

func NewSpringVec3(osc, damping geom.Element) *SpringVec3 {
	s := &SpringVec3{Damping: damping}
	s.SetOscPerSec(osc)
	return s
}

func (s *SpringVec3) SetOscPerSec(osc geom.Element) {
	s.Omega = osc * 2 * math.Pi
}

// Reset moves the spring to v without velocity.
func (s *SpringVec3) Reset(v *geom.Vector3) {
	s.Vel = geom.Vector3{}
	s.Value = *v
	s.Target = *v
}

// Update returns false if the spring is at rest.
func (s *SpringVec3) Update(dt geom.Element) bool {
	distSqr := s.Value.DistanceSqr(&s.Target)
	if s.Vel.IsZero() && distSqr == 0 {
		return false
	}
	if s.Vel.LenSqr() < epsilon*epsilon && distSqr < epsilon*epsilon {
		s.Vel = geom.Vector3{}
		s.Value = s.Target
		return true
	}
	friction := 1 + 2*dt*s.Damping*s.Omega
	dtOsc := dt * s.Omega * s.Omega
	dt2Osc := dt * dtOsc
	detInv := 1 / (friction + dt2Osc)

	s.Vel.X = (s.Vel.X + dtOsc*(s.Target.X-s.Value.X)) * detInv
	s.Vel.Y = (s.Vel.Y + dtOsc*(s.Target.Y-s.Value.Y)) * detInv
	s.Vel.Z = (s.Vel.Z + dtOsc*(s.Target.Z-s.Value.Z)) * detInv

	s.Value.X = (friction*s.Value.X + dt*s.Vel.X + dt2Osc*s.Target.X) * detInv
	s.Value.Y = (friction*s.Value.Y + dt*s.Vel.Y + dt2Osc*s.Target.Y) * detInv
	s.Value.Z = (friction*s.Value.Z + dt*s.Vel.Z + dt2Osc*s.Target.Z) * detInv
	return true
}

// SpringQuat springs a rotation. Value is kept normalized.
type SpringQuat struct {
	Vel     geom.Vector4
	Value   geom.Quaternion
	Target  geom.Quaternion
	Damping geom.Element
	Omega   geom.Element
}

func NewSpringQuat(osc, damping geom.Element) *SpringQuat {
	s := &SpringQuat{Damping: damping, Value: geom.Quaternion{W: 1}, Target: geom.Quaternion{W: 1}}
	s.SetOscPerSec(osc)
	return s
}

func (s *SpringQuat) SetOscPerSec(osc geom.Element) {
	s.Omega = osc * 2 * math.Pi
}

func (s *SpringQuat) Reset(q *geom.Quaternion) {
	s.Vel = geom.Vector4{}
	s.Value = *q
	s.Target = *q
}

// SetTarget sets the target on the same hemisphere as the current value.
func (s *SpringQuat) SetTarget(q *geom.Quaternion) {
	s.Target = *q
	if s.Target.Dot(&s.Value) < 0 {
		s.Target = *s.Target.Negate()
	}
}

func (s *SpringQuat) Update(dt geom.Element) bool {
	d := s.Target.Sub(&s.Value)
	if s.Vel == (geom.Vector4{}) && d.LenSqr() == 0 {
		return false
	}
	if s.Vel.LenSqr() < epsilon*epsilon && d.LenSqr() < epsilon*epsilon {
		s.Vel = geom.Vector4{}
		s.Value = s.Target
		return true
	}
	friction := 1 + 2*dt*s.Damping*s.Omega
	dtOsc := dt * s.Omega * s.Omega
	dt2Osc := dt * dtOsc
	detInv := 1 / (friction + dt2Osc)

	s.Vel.X = (s.Vel.X + dtOsc*(s.Target.X-s.Value.X)) * detInv
	s.Vel.Y = (s.Vel.Y + dtOsc*(s.Target.Y-s.Value.Y)) * detInv
	s.Vel.Z = (s.Vel.Z + dtOsc*(s.Target.Z-s.Value.Z)) * detInv
	s.Vel.W = (s.Vel.W + dtOsc*(s.Target.W-s.Value.W)) * detInv

	s.Value.X = (friction*s.Value.X + dt*s.Vel.X + dt2Osc*s.Target.X) * detInv
	s.Value.Y = (friction*s.Value.Y + dt*s.Vel.Y + dt2Osc*s.Target.Y) * detInv
	s.Value.Z = (friction*s.Value.Z + dt*s.Vel.Z + dt2Osc*s.Target.Z) * detInv
	s.Value.W = (friction*s.Value.W + dt*s.Vel.W + dt2Osc*s.Target.W) * detInv
	s.Value.Normalize()
	return true
}

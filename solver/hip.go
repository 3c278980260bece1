package solver

import (
	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/ikrig"
)

// Hip rotates the hip with SwingTwist and moves it.
type Hip struct {
	SwingTwist
	IsAbsolute bool
	Position   geom.Vector3
	BindHeight geom.Element
}

func NewHip() *Hip {
	s := &Hip{}
	s.init()
	return s
}

// SetMovePos sets world position (isAbsolute) or offset from the bind position.
// Offsets are scaled by bind hip height / bindHeight.
func (s *Hip) SetMovePos(pos *geom.Vector3, isAbsolute bool, bindHeight geom.Element) *Hip {
	s.Position = *pos
	s.IsAbsolute = isAbsolute
	s.BindHeight = bindHeight
	return s
}

func (s *Hip) Resolve(chain *ikrig.Chain, pose *armature.Pose) {
	rot, pt, _ := s.swingTwist(chain, pose)
	l := chain.First()
	setWorldRot(pose, l.Index, pt, rot)

	var pos *geom.Vector3
	if s.IsAbsolute {
		pos = &s.Position
	} else {
		bindPos := pt.TransformVec(&l.Bind.Pos)
		var scale geom.Element = 1
		if s.BindHeight != 0 {
			scale = bindPos.Y / s.BindHeight
		}
		pos = bindPos.Add(s.Position.Scale(scale))
	}
	pose.SetLocalPos(l.Index, pt.Invert().TransformVec(pos))
}

package retarget

import (
	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
)

// BoneLink converts rotations of a FROM bone to a TO bone.
// Quaternions are computed from bind poses.
type BoneLink struct {
	FromIndex int
	ToIndex   int

	QuatFromParent geom.Quaternion // FROM parent world rotation
	QuatDotCheck   geom.Quaternion // FROM bone world rotation
	WQuatFromTo    geom.Quaternion // FROM world to TO world
	ToWorldLocal   geom.Quaternion // TO world to TO local
}

func NewBoneLink(from, to int) *BoneLink {
	return &BoneLink{FromIndex: from, ToIndex: to}
}

func (l *BoneLink) Bind(fromPose, toPose *armature.Pose) {
	fromWorld := fromPose.WorldTransform(l.FromIndex).Rot
	toWorld := toPose.WorldTransform(l.ToIndex).Rot

	l.QuatFromParent = fromPose.ParentWorld(l.FromIndex).Rot
	l.QuatDotCheck = fromWorld
	l.WQuatFromTo = *fromWorld.Inverse().Mul(&toWorld)
	l.ToWorldLocal = *toPose.ParentWorld(l.ToIndex).Rot.Inverse()
}

// Rotation returns the local rotation of the TO bone for the FROM bone local rotation.
func (l *BoneLink) Rotation(fromLocal *geom.Quaternion) *geom.Quaternion {
	diff := l.QuatFromParent.Mul(fromLocal)
	if diff.Dot(&l.QuatDotCheck) < 0 {
		diff = diff.Mul(l.WQuatFromTo.Negate())
	} else {
		diff = diff.Mul(&l.WQuatFromTo)
	}
	return l.ToWorldLocal.Mul(diff)
}

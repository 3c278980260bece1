// Package testmodel builds small armatures for tests.
package testmodel

import (
	"math"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
)

type boneDef struct {
	name   string
	parent string
	pos    geom.Vector3
	rot    *geom.Quaternion
}

func rotZ(deg float64) *geom.Quaternion {
	return geom.NewQuaternionFromAxisAngle(&geom.Vector3Forward, geom.Element(deg*math.Pi/180))
}

func rotX(deg float64) *geom.Quaternion {
	return geom.NewQuaternionFromAxisAngle(&geom.Vector3Left, geom.Element(deg*math.Pi/180))
}

// Humanoid returns a T-pose humanoid facing +Z. Bones point along local +Y.
// scale is applied to positions. prefix is prepended to bone names.
func Humanoid(prefix string, scale geom.Element) *armature.Armature {
	id := geom.NewQuaternionIdentity()
	defs := []boneDef{
		{"Hips", "", geom.Vector3{Y: 1}, id},
		{"Spine", "Hips", geom.Vector3{Y: 0.1}, id},
		{"Spine1", "Spine", geom.Vector3{Y: 0.1}, id},
		{"Neck", "Spine1", geom.Vector3{Y: 0.2}, id},
		{"Head", "Neck", geom.Vector3{Y: 0.1}, id},
		{"HeadTop_End", "Head", geom.Vector3{Y: 0.2}, id},
	}
	for _, side := range []struct {
		name string
		sign geom.Element
	}{{"Left", 1}, {"Right", -1}} {
		s := side.name
		defs = append(defs,
			boneDef{s + "UpLeg", "Hips", geom.Vector3{X: 0.1 * side.sign}, rotZ(180)},
			boneDef{s + "Leg", s + "UpLeg", geom.Vector3{Y: 0.45}, id},
			boneDef{s + "Foot", s + "Leg", geom.Vector3{Y: 0.45}, rotX(90)},
			boneDef{s + "ToeBase", s + "Foot", geom.Vector3{Y: 0.15}, id},
			boneDef{s + "Shoulder", "Spine1", geom.Vector3{X: 0.05 * side.sign, Y: 0.15}, rotZ(float64(-90 * side.sign))},
			boneDef{s + "Arm", s + "Shoulder", geom.Vector3{Y: 0.1}, id},
			boneDef{s + "ForeArm", s + "Arm", geom.Vector3{Y: 0.25}, id},
			boneDef{s + "Hand", s + "ForeArm", geom.Vector3{Y: 0.25}, id},
			boneDef{s + "HandMiddle1", s + "Hand", geom.Vector3{Y: 0.08}, id},
		)
	}

	a := armature.New()
	one := geom.NewVector3(1, 1, 1)
	for _, d := range defs {
		parent := -1
		if d.parent != "" {
			parent = a.Index(prefix + d.parent)
		}
		a.AddBone(prefix+d.name, parent, d.pos.Scale(scale), d.rot, one)
	}
	a.Finalize()
	return a
}

// Tail returns a chain of n bones along +Y under a root bone. Bone names are prefix + index.
func Tail(prefix string, n int, length geom.Element) *armature.Armature {
	a := armature.New()
	one := geom.NewVector3(1, 1, 1)
	id := geom.NewQuaternionIdentity()
	a.AddBone(prefix+"root", -1, &geom.Vector3{}, id, one)
	for i := 0; i <= n; i++ {
		var y geom.Element
		if i > 0 {
			y = length
		}
		a.AddBone(prefix+string(rune('0'+i)), i, &geom.Vector3{Y: y}, id, one)
	}
	a.Finalize()
	return a
}

package ikrig

import (
	"log"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
)

// Solver writes local transforms of the bones in chain.
type Solver interface {
	Resolve(chain *Chain, pose *armature.Pose)
}

// Link is a chain segment.
type Link struct {
	Index  int
	Parent int // -1 if root
	Length geom.Element
	Bind   geom.Transform // local

	// Alternative directions in bone local space.
	EffectorDir geom.Vector3
	PoleDir     geom.Vector3
}

func NewLink(pose *armature.Pose, index int) *Link {
	l := &Link{
		Index:       index,
		Parent:      pose.Parent(index),
		Bind:        *pose.Local(index),
		EffectorDir: geom.Vector3Up,
		PoleDir:     geom.Vector3Forward,
	}
	l.Length = boneLength(pose, index)
	return l
}

func boneLength(pose *armature.Pose, index int) geom.Element {
	children := pose.Children(index)
	if len(children) == 0 {
		return 0
	}
	return pose.WorldTransform(index).Pos.Distance(&pose.WorldTransform(children[0]).Pos)
}

type Chain struct {
	Links  []*Link
	Length geom.Element
	Solver Solver
}

func NewChain(pose *armature.Pose, bones ...int) *Chain {
	c := &Chain{}
	c.SetBones(pose, bones...)
	return c
}

// SetBones replaces links. Negative indices are skipped.
func (c *Chain) SetBones(pose *armature.Pose, bones ...int) {
	c.Links = nil
	c.Length = 0
	for _, b := range bones {
		if b < 0 || b >= pose.Len() {
			log.Println("Bone not found:", b)
			continue
		}
		l := NewLink(pose, b)
		c.Links = append(c.Links, l)
		c.Length += l.Length
	}
}

func (c *Chain) SetBonesByName(pose *armature.Pose, names ...string) {
	var bones []int
	for _, name := range names {
		b := pose.BoneByName(name)
		if b == nil {
			log.Println("Bone not found:", name)
			continue
		}
		bones = append(bones, b.Index)
	}
	c.SetBones(pose, bones...)
}

func (c *Chain) Count() int {
	return len(c.Links)
}

func (c *Chain) First() *Link {
	return c.Links[0]
}

func (c *Chain) Last() *Link {
	return c.Links[len(c.Links)-1]
}

func (c *Chain) SetSolver(s Solver) *Chain {
	c.Solver = s
	return c
}

// BindToPose captures current local transforms as bind transforms.
func (c *Chain) BindToPose(pose *armature.Pose) {
	for _, l := range c.Links {
		l.Bind = *pose.Local(l.Index)
	}
}

func (c *Chain) ResetLengths(pose *armature.Pose) {
	c.Length = 0
	for _, l := range c.Links {
		l.Length = boneLength(pose, l.Index)
		c.Length += l.Length
	}
}

// BindAltDirections stores world directions in the local space of each link.
func (c *Chain) BindAltDirections(pose *armature.Pose, effectorDir, poleDir *geom.Vector3) {
	for _, l := range c.Links {
		inv := pose.WorldTransform(l.Index).Rot.Inverse()
		l.EffectorDir = *inv.ApplyTo(effectorDir).Normalize()
		l.PoleDir = *inv.ApplyTo(poleDir).Normalize()
	}
}

// AltDirections returns alternative directions of link i in world space.
func (c *Chain) AltDirections(pose *armature.Pose, i int) (*geom.Vector3, *geom.Vector3) {
	l := c.Links[i]
	rot := pose.WorldTransform(l.Index).Rot
	return rot.ApplyTo(&l.EffectorDir), rot.ApplyTo(&l.PoleDir)
}

func (c *Chain) StartPosition(pose *armature.Pose) *geom.Vector3 {
	return &pose.WorldTransform(c.Links[0].Index).Pos
}

// TailPosition returns the tail of link i. Bones point along local +Y.
func (c *Chain) TailPosition(pose *armature.Pose, i int) *geom.Vector3 {
	return Tail(pose.WorldTransform(c.Links[i].Index), c.Links[i].Length)
}

func (c *Chain) LastPosition(pose *armature.Pose) *geom.Vector3 {
	return c.TailPosition(pose, len(c.Links)-1)
}

// AllPositions returns head positions of all links and the tail of the last link.
func (c *Chain) AllPositions(pose *armature.Pose) []*geom.Vector3 {
	var ret []*geom.Vector3
	for _, l := range c.Links {
		ret = append(ret, &pose.WorldTransform(l.Index).Pos)
	}
	if len(c.Links) > 0 {
		ret = append(ret, c.LastPosition(pose))
	}
	return ret
}

func (c *Chain) ResolveToPose(pose *armature.Pose) {
	if c.Solver == nil {
		log.Println("Chain has no solver")
		return
	}
	if len(c.Links) == 0 {
		log.Println("Chain has no links")
		return
	}
	c.Solver.Resolve(c, pose)
}

// Tail returns the tail of a bone with world transform t.
func Tail(t *geom.Transform, length geom.Element) *geom.Vector3 {
	return t.Rot.ApplyTo(&geom.Vector3{Y: length}).Add(&t.Pos)
}

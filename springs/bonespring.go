package springs

import (
	"log"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/ikrig"
)

// SpringItem is a bone driven by a spring.
type SpringItem struct {
	Index  int
	Length geom.Element
	Bind   geom.Transform
	Spring *SpringVec3
}

// SpringType updates the pose from springs of a chain.
type SpringType interface {
	SetRestPose(chain *SpringChain, pose *armature.Pose)
	UpdatePose(chain *SpringChain, pose *armature.Pose, dt geom.Element)
}

type SpringChain struct {
	Name  string
	Items []*SpringItem
	Type  SpringType
}

// SetOsc sets oscillation per second and damping of all items.
// Oscillation is interpolated from the first item to the last item.
func (c *SpringChain) SetOsc(oscStart, oscEnd, damping geom.Element) {
	n := len(c.Items)
	for i, it := range c.Items {
		var t geom.Element
		if n > 1 {
			t = geom.Element(i) / geom.Element(n-1)
		}
		it.Spring.SetOscPerSec(geom.Lerp(oscStart, oscEnd, t))
		it.Spring.Damping = damping
	}
}

// SpringPos moves bones.
type SpringPos struct{}

func (SpringPos) SetRestPose(chain *SpringChain, pose *armature.Pose) {
	for _, it := range chain.Items {
		it.Bind = *pose.Local(it.Index)
		it.Spring.Reset(&pose.WorldTransform(it.Index).Pos)
	}
}

func (SpringPos) UpdatePose(chain *SpringChain, pose *armature.Pose, dt geom.Element) {
	var pt *geom.Transform
	for i, it := range chain.Items {
		pt = chain.parentWorld(pose, i, pt)
		rest := pt.Mul(&it.Bind)
		it.Spring.Target = rest.Pos
		if !it.Spring.Update(dt) {
			pose.SetLocalPos(it.Index, &it.Bind.Pos)
			pt = rest
			continue
		}
		pos := pt.Invert().TransformVec(&it.Spring.Value)
		pose.SetLocalPos(it.Index, pos)
		pt = pt.MulTRS(pos, &it.Bind.Rot, &it.Bind.Scale)
	}
}

// SpringRot rotates bones toward sprung tail positions.
type SpringRot struct{}

func (SpringRot) SetRestPose(chain *SpringChain, pose *armature.Pose) {
	for _, it := range chain.Items {
		it.Bind = *pose.Local(it.Index)
		it.Spring.Reset(ikrig.Tail(pose.WorldTransform(it.Index), it.Length))
	}
}

func (SpringRot) UpdatePose(chain *SpringChain, pose *armature.Pose, dt geom.Element) {
	var pt *geom.Transform
	for i, it := range chain.Items {
		pt = chain.parentWorld(pose, i, pt)
		rest := pt.Mul(&it.Bind)
		restTail := ikrig.Tail(rest, it.Length)
		it.Spring.Target = *restTail
		if !it.Spring.Update(dt) || it.Length == 0 {
			pose.SetLocalRot(it.Index, &it.Bind.Rot)
			pt = rest
			continue
		}
		va := restTail.Sub(&rest.Pos).Normalize()
		vb := it.Spring.Value.Sub(&rest.Pos).Normalize()
		q := geom.NewQuaternionFromUnitVectors(va, vb)
		if q.Dot(&rest.Rot) < 0 {
			q = q.Negate()
		}
		rot := q.Mul(&rest.Rot)
		local := pt.Rot.Inverse().Mul(rot)
		pose.SetLocalRot(it.Index, local)
		pt = pt.MulTRS(&it.Bind.Pos, local, &it.Bind.Scale)
	}
}

// parentWorld returns the parent transform of item i, given world transform w of the previous item.
func (c *SpringChain) parentWorld(pose *armature.Pose, i int, w *geom.Transform) *geom.Transform {
	if i > 0 && pose.Parent(c.Items[i].Index) == c.Items[i-1].Index {
		return w
	}
	return pose.ParentWorld(c.Items[i].Index)
}

// BoneSpring is a set of spring chains. Chains are updated in order of addition.
type BoneSpring struct {
	Chains []*SpringChain
}

func NewBoneSpring() *BoneSpring {
	return &BoneSpring{}
}

// Add creates a chain of bones. rotation selects SpringRot instead of SpringPos.
func (b *BoneSpring) Add(pose *armature.Pose, name string, rotation bool, osc, damping geom.Element, bones ...string) *SpringChain {
	c := &SpringChain{Name: name, Type: SpringPos{}}
	if rotation {
		c.Type = SpringRot{}
	}
	for _, n := range bones {
		bone := pose.BoneByName(n)
		if bone == nil {
			log.Println("Bone not found:", n)
			continue
		}
		c.Items = append(c.Items, &SpringItem{
			Index:  bone.Index,
			Length: bone.Length,
			Bind:   *pose.Local(bone.Index),
			Spring: NewSpringVec3(osc, damping),
		})
	}
	if len(c.Items) == 0 {
		return nil
	}
	c.Type.SetRestPose(c, pose)
	b.Chains = append(b.Chains, c)
	return c
}

// SetRestPose captures the current pose as bind pose and stops all springs.
func (b *BoneSpring) SetRestPose(pose *armature.Pose) {
	for _, c := range b.Chains {
		c.Type.SetRestPose(c, pose)
	}
}

func (b *BoneSpring) UpdatePose(pose *armature.Pose, dt geom.Element) {
	for _, c := range b.Chains {
		c.Type.UpdatePose(c, pose, dt)
	}
}

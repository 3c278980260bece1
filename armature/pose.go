package armature

import (
	"github.com/binzume/ikretarget/geom"
)

// Pose holds local transforms of every bone of an armature.
// Cached world transforms are refreshed only by UpdateWorld.
type Pose struct {
	Armature *Armature
	Offset   geom.Transform

	local []geom.Transform
	world []geom.Transform
}

func (p *Pose) Len() int {
	return len(p.local)
}

func (p *Pose) Bone(i int) *Bone {
	return p.Armature.Bones[i]
}

func (p *Pose) BoneByName(name string) *Bone {
	return p.Armature.BoneByName(name)
}

func (p *Pose) Parent(i int) int {
	return p.Armature.Bones[i].Parent
}

func (p *Pose) Children(i int) []int {
	return p.Armature.Bones[i].Children
}

func (p *Pose) Local(i int) *geom.Transform {
	return &p.local[i]
}

func (p *Pose) LocalRot(i int) *geom.Quaternion {
	r := p.local[i].Rot
	return &r
}

func (p *Pose) LocalPos(i int) *geom.Vector3 {
	v := p.local[i].Pos
	return &v
}

func (p *Pose) LocalScale(i int) *geom.Vector3 {
	v := p.local[i].Scale
	return &v
}

func (p *Pose) SetLocalRot(i int, q *geom.Quaternion) {
	p.local[i].Rot = *q
}

func (p *Pose) SetLocalPos(i int, v *geom.Vector3) {
	p.local[i].Pos = *v
}

func (p *Pose) SetLocalScale(i int, v *geom.Vector3) {
	p.local[i].Scale = *v
}

// World returns the cached world transform.
func (p *Pose) World(i int) *geom.Transform {
	return &p.world[i]
}

// WorldTransform composes ancestors of bone i. It does not use the cache.
func (p *Pose) WorldTransform(i int) *geom.Transform {
	t := p.local[i]
	for pi := p.Armature.Bones[i].Parent; pi >= 0; pi = p.Armature.Bones[pi].Parent {
		t = *p.local[pi].Mul(&t)
	}
	return p.Offset.Mul(&t)
}

// ParentWorld returns world transform of the parent of bone i, or Offset for roots.
func (p *Pose) ParentWorld(i int) *geom.Transform {
	if pi := p.Armature.Bones[i].Parent; pi >= 0 {
		return p.WorldTransform(pi)
	}
	return p.Offset.Clone()
}

// UpdateWorld recomputes all cached world transforms from local transforms.
func (p *Pose) UpdateWorld() {
	for i, b := range p.Armature.Bones {
		if b.Parent < 0 {
			p.world[i] = *p.Offset.Mul(&p.local[i])
		} else {
			p.world[i] = *p.world[b.Parent].Mul(&p.local[i])
		}
	}
}

// Reset restores bind pose local transforms.
func (p *Pose) Reset() {
	for i, b := range p.Armature.Bones {
		p.local[i] = b.Local
	}
	p.UpdateWorld()
}

func (p *Pose) Clone() *Pose {
	c := &Pose{Armature: p.Armature, Offset: p.Offset}
	c.local = append([]geom.Transform(nil), p.local...)
	c.world = append([]geom.Transform(nil), p.world...)
	return c
}

func (p *Pose) CopyFrom(src *Pose) {
	p.Offset = src.Offset
	copy(p.local, src.local)
	copy(p.world, src.world)
}

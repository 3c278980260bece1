package armature

import (
	"log"

	"github.com/binzume/ikretarget/geom"
)

// Bone is a bind pose bone. Bones point along local +Y toward the first child.
type Bone struct {
	Index    int
	Name     string
	Parent   int // -1 if root
	Children []int

	Local  geom.Transform
	World  geom.Transform
	Length geom.Element
}

func (b *Bone) IsRoot() bool {
	return b.Parent < 0
}

type Armature struct {
	Bones []*Bone
	names map[string]int
}

func New() *Armature {
	return &Armature{names: map[string]int{}}
}

// AddBone appends a bone. parent must be added before its children (or -1).
func (a *Armature) AddBone(name string, parent int, pos *geom.Vector3, rot *geom.Quaternion, scale *geom.Vector3) *Bone {
	if parent >= len(a.Bones) {
		log.Println("Invalid parent bone:", name, parent)
		parent = -1
	}
	b := &Bone{Index: len(a.Bones), Name: name, Parent: parent}
	b.Local = *geom.NewTransformFromTRS(pos, rot, scale)
	a.Bones = append(a.Bones, b)
	if parent >= 0 {
		a.Bones[parent].Children = append(a.Bones[parent].Children, b.Index)
	}
	if _, exists := a.names[name]; !exists {
		a.names[name] = b.Index
	}
	return b
}

func (a *Armature) BoneByName(name string) *Bone {
	if i, ok := a.names[name]; ok {
		return a.Bones[i]
	}
	return nil
}

func (a *Armature) Index(name string) int {
	if i, ok := a.names[name]; ok {
		return i
	}
	return -1
}

func (a *Armature) Names() []string {
	names := make([]string, len(a.Bones))
	for i, b := range a.Bones {
		names[i] = b.Name
	}
	return names
}

// Finalize computes bind world transforms and bone lengths.
func (a *Armature) Finalize() {
	for _, b := range a.Bones {
		if b.Parent < 0 {
			b.World = b.Local
		} else {
			b.World = *a.Bones[b.Parent].World.Mul(&b.Local)
		}
	}
	for _, b := range a.Bones {
		b.Length = 0
		if len(b.Children) > 0 {
			b.Length = b.World.Pos.Distance(&a.Bones[b.Children[0]].World.Pos)
		}
	}
}

// Descendants returns the bone and its descendants in armature order.
func (a *Armature) Descendants(root int) []int {
	var ret []int
	in := map[int]bool{root: true}
	for _, b := range a.Bones {
		if b.Index == root || (b.Parent >= 0 && in[b.Parent]) {
			in[b.Index] = true
			ret = append(ret, b.Index)
		}
	}
	return ret
}

func (a *Armature) NewPose() *Pose {
	p := &Pose{Armature: a, Offset: *geom.NewTransform()}
	p.local = make([]geom.Transform, len(a.Bones))
	p.world = make([]geom.Transform, len(a.Bones))
	for i, b := range a.Bones {
		p.local[i] = b.Local
		p.world[i] = b.World
	}
	return p
}
